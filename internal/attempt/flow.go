// Package attempt drives one student's attempt at a quiz from loading to
// grading, with an advisory tab-visibility side channel.
package attempt

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eureka-quiz/web/internal/apiclient"
	"github.com/eureka-quiz/web/internal/models"
)

// State of an attempt.
type State string

const (
	StateLoading    State = "loading"
	StateReady      State = "ready"
	StateSubmitting State = "submitting"
	StateGraded     State = "graded"
	StateFailed     State = "failed"
)

// User-facing messages.
const (
	MsgInvalidQuiz     = "Invalid quiz ID"
	MsgQuizLoadFailed  = "Failed to load quiz details."
	MsgQuestionsFailed = "Failed to load questions."
	MsgSubmitFailed    = "An error occurred while submitting the quiz."
	MsgTabSwitch       = "You switched tabs! Please stay on this page."
)

var (
	// ErrNotReady is returned when answers are recorded before the quiz loaded.
	ErrNotReady = errors.New("quiz is not ready")
	// ErrAlreadyGraded is returned by Submit when resubmission is locked.
	ErrAlreadyGraded = errors.New("quiz already graded")
	// ErrSubmitting is returned while a submission is in flight.
	ErrSubmitting = errors.New("submission in progress")
	// ErrClosed is returned once the attempt's view has been left.
	ErrClosed = errors.New("attempt closed")
)

// Backend is the subset of the classroom API the flow needs.
type Backend interface {
	GetQuiz(ctx context.Context, quizID int) (*models.Quiz, error)
	ListQuizQuestions(ctx context.Context, quizID int) ([]models.Question, error)
	SubmitQuiz(ctx context.Context, quizID int, sub models.Submission) (*models.SubmissionResult, error)
}

// Options are policy switches of the flow.
type Options struct {
	// LockAfterGraded rejects a second submission once a result is shown.
	LockAfterGraded bool
	// ReportIntegrity sends the tab-switch flag and count with the submission.
	ReportIntegrity bool
}

// Flow is one attempt. It is safe for concurrent use; HTTP requests of the
// same browser may interleave.
type Flow struct {
	quizID  int
	backend Backend
	opts    Options
	logger  *zap.Logger

	mu        sync.Mutex
	state     State
	errMsg    string
	notFound  bool
	quiz      *models.Quiz
	questions []models.Question
	answers   map[int]string
	order     []int
	result    *models.SubmissionResult
	closed    bool
	attached  bool
	hidden    bool
	switches  int
}

// NewFlow creates an attempt in the loading state. quizID <= 0 is the
// missing-id case and fails on Load without a backend call.
func NewFlow(quizID int, backend Backend, opts Options, logger *zap.Logger) *Flow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flow{
		quizID:  quizID,
		backend: backend,
		opts:    opts,
		logger:  logger,
		state:   StateLoading,
		answers: make(map[int]string),
	}
}

// QuizID returns the quiz this attempt belongs to.
func (f *Flow) QuizID() int { return f.quizID }

// Load fetches quiz metadata and questions concurrently. Both must succeed.
func (f *Flow) Load(ctx context.Context) {
	if f.quizID <= 0 {
		f.mu.Lock()
		f.state, f.errMsg = StateFailed, MsgInvalidQuiz
		f.mu.Unlock()
		return
	}

	var (
		quiz      *models.Quiz
		questions []models.Question
		failMu    sync.Mutex
		failMsg   string
		missing   bool
	)
	fail := func(msg string, err error) {
		failMu.Lock()
		failMsg = msg
		failMu.Unlock()
		f.logger.Warn("load quiz", zap.Int("quiz_id", f.quizID), zap.Error(err))
	}

	// A plain Group so both fetches run to completion; the last failure to
	// arrive decides the message.
	var g errgroup.Group
	g.Go(func() error {
		q, err := f.backend.GetQuiz(ctx, f.quizID)
		if err != nil {
			if apiclient.IsNotFound(err) {
				failMu.Lock()
				missing = true
				failMu.Unlock()
			}
			fail(MsgQuizLoadFailed, err)
			return err
		}
		quiz = q
		return nil
	})
	g.Go(func() error {
		qs, err := f.backend.ListQuizQuestions(ctx, f.quizID)
		if err != nil {
			fail(MsgQuestionsFailed, err)
			return err
		}
		questions = qs
		return nil
	})
	err := g.Wait()

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	if err != nil {
		f.state, f.errMsg, f.notFound = StateFailed, failMsg, missing
		return
	}
	if questions == nil {
		questions = []models.Question{}
	}
	f.quiz, f.questions = quiz, questions
	f.state, f.errMsg, f.notFound = StateReady, "", false
}

// RecordAnswer upserts the answer to one question. The latest value wins.
func (f *Flow) RecordAnswer(questionID int, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case f.closed:
		return ErrClosed
	case f.state == StateLoading, f.state == StateFailed && f.quiz == nil:
		return ErrNotReady
	case f.state == StateSubmitting:
		return ErrSubmitting
	}
	if _, ok := f.answers[questionID]; ok {
		f.dropOrder(questionID)
	}
	f.answers[questionID] = value
	f.order = append(f.order, questionID)
	return nil
}

func (f *Flow) dropOrder(questionID int) {
	for i, id := range f.order {
		if id == questionID {
			f.order = append(f.order[:i], f.order[i+1:]...)
			return
		}
	}
}

// Submit sends the answer batch as it stands; unanswered questions are absent.
func (f *Flow) Submit(ctx context.Context) error {
	f.mu.Lock()
	switch {
	case f.closed:
		f.mu.Unlock()
		return ErrClosed
	case f.state == StateLoading, f.state == StateFailed && f.quiz == nil:
		f.mu.Unlock()
		return ErrNotReady
	case f.state == StateSubmitting:
		f.mu.Unlock()
		return ErrSubmitting
	case f.state == StateGraded && f.opts.LockAfterGraded:
		f.mu.Unlock()
		return ErrAlreadyGraded
	}
	sub := models.Submission{Answers: make([]models.Answer, 0, len(f.order))}
	for _, id := range f.order {
		sub.Answers = append(sub.Answers, models.Answer{QuestionID: id, Answer: f.answers[id]})
	}
	if f.opts.ReportIntegrity {
		flagged, switches := f.switches > 0, f.switches
		sub.IntegrityFlagged, sub.TabSwitches = &flagged, &switches
	}
	f.state, f.errMsg = StateSubmitting, ""
	f.mu.Unlock()

	result, err := f.backend.SubmitQuiz(ctx, f.quizID, sub)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	if err != nil {
		f.logger.Warn("submit quiz", zap.Int("quiz_id", f.quizID), zap.Error(err))
		f.state, f.errMsg = StateFailed, MsgSubmitFailed
		return err
	}
	f.result = result
	f.answers = make(map[int]string)
	f.order = nil
	f.state = StateGraded
	return nil
}

// Attach starts observing tab visibility.
func (f *Flow) Attach() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.attached = true
	}
}

// Detach stops observing tab visibility.
func (f *Flow) Detach() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attached = false
	f.hidden = false
}

// Hidden records that the page lost visibility and returns the warning, or
// "" when nothing is observing. Delivering the warning is the caller's job.
func (f *Flow) Hidden() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || !f.attached {
		return ""
	}
	f.hidden = true
	f.switches++
	return MsgTabSwitch
}

// Visible clears the hidden flag.
func (f *Flow) Visible() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hidden = false
}

// Close marks the view as left. Responses arriving later are discarded.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.attached = false
	f.hidden = false
}

// Closed reports whether the view has been left.
func (f *Flow) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Reusable reports whether a fresh navigation may keep this attempt.
func (f *Flow) Reusable() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || f.state == StateGraded {
		return false
	}
	return !(f.state == StateFailed && f.quiz == nil)
}
