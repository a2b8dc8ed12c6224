package quizzes

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/eureka-quiz/web/internal/forms"
	"github.com/eureka-quiz/web/internal/models"
)

// Row is one line of the teacher's quiz table.
type Row struct {
	ID        int
	Title     string
	AssignTo  string // class name
	StartDate string
	EndDate   string
	TimeLimit string
}

// ClassOption is a class selectable as a quiz target.
type ClassOption struct {
	ID        int
	ClassName string
}

// Backend is the subset of the API the quiz views need.
type Backend interface {
	ListQuizzes(ctx context.Context) ([]models.Quiz, error)
	ListClasses(ctx context.Context) ([]models.Class, error)
	CreateQuiz(ctx context.Context, in models.QuizInput) (*models.Quiz, error)
	GetQuiz(ctx context.Context, id int) (*models.Quiz, error)
	ListQuizQuestions(ctx context.Context, id int) ([]models.Question, error)
	ListBank(ctx context.Context) ([]models.Question, error)
	LinkQuestion(ctx context.Context, link models.QuizQuestionLink) error
}

// Board is the quiz list with the classes a quiz can be assigned to.
type Board struct {
	Rows    []Row
	Classes []ClassOption
}

// LoadBoard fetches quizzes and classes concurrently. Both must succeed.
func LoadBoard(ctx context.Context, b Backend) (*Board, error) {
	var (
		quizzes []models.Quiz
		classes []models.Class
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		quizzes, err = b.ListQuizzes(gctx)
		return err
	})
	g.Go(func() (err error) {
		classes, err = b.ListClasses(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	board := &Board{Rows: make([]Row, 0, len(quizzes)), Classes: make([]ClassOption, 0, len(classes))}
	for _, q := range quizzes {
		board.Rows = append(board.Rows, Row{
			ID:        q.ID,
			Title:     q.QuizName,
			AssignTo:  q.ClassName,
			StartDate: q.ScheduleStart,
			EndDate:   q.ScheduleEnd,
			TimeLimit: strconv.Itoa(q.DurationMinutes),
		})
	}
	for _, c := range classes {
		board.Classes = append(board.Classes, ClassOption{ID: c.ID, ClassName: c.ClassName})
	}
	return board, nil
}

// ClassName resolves a class id, or "" when unknown.
func (b *Board) ClassName(id int) string {
	for _, c := range b.Classes {
		if c.ID == id {
			return c.ClassName
		}
	}
	return ""
}

// Append shows a just-created quiz on the board with its class name
// resolved. The row carries the values as entered. A quiz the list fetch
// already returned is not added twice.
func (b *Board) Append(id int, form forms.QuizForm) Row {
	for _, r := range b.Rows {
		if r.ID == id {
			return r
		}
	}
	row := Row{
		ID:        id,
		Title:     form.Title,
		AssignTo:  b.ClassName(form.ClassID()),
		StartDate: form.StartDate,
		EndDate:   form.EndDate,
		TimeLimit: form.TimeLimit,
	}
	b.Rows = append(b.Rows, row)
	return row
}

// Details is the teacher's view of one quiz: its questions and the bank to
// pick from.
type Details struct {
	QuizID int
	Quiz   *models.Quiz
	Linked []models.Question
	Bank   []models.Question
	// Errors lists the failed fetches; the others still render.
	Errors []string
}

// Fetch failure messages of the details view.
const (
	MsgQuizFailed   = "Failed to fetch quiz details."
	MsgLinkedFailed = "Failed to fetch questions for this quiz."
	MsgBankFailed   = "Failed to fetch questions."
)

// LoadDetails fetches quiz, linked questions and bank concurrently. Each
// failure is recorded independently. The returned error is the last one seen.
func LoadDetails(ctx context.Context, b Backend, quizID int) (*Details, error) {
	d := &Details{QuizID: quizID}
	var (
		mu      sync.Mutex
		g       errgroup.Group
		lastErr error
	)
	fail := func(msg string, err error) error {
		mu.Lock()
		d.Errors = append(d.Errors, msg)
		lastErr = err
		mu.Unlock()
		return err
	}
	g.Go(func() error {
		q, err := b.GetQuiz(ctx, quizID)
		if err != nil {
			return fail(MsgQuizFailed, err)
		}
		d.Quiz = q
		return nil
	})
	g.Go(func() error {
		qs, err := b.ListQuizQuestions(ctx, quizID)
		if err != nil {
			return fail(MsgLinkedFailed, err)
		}
		d.Linked = qs
		return nil
	})
	g.Go(func() error {
		qs, err := b.ListBank(ctx)
		if err != nil {
			return fail(MsgBankFailed, err)
		}
		d.Bank = qs
		return nil
	})
	_ = g.Wait()
	return d, lastErr
}

// Outcome messages of linking a question.
const (
	MsgLinked        = "Question added successfully!"
	MsgLinkFailed    = "Failed to add question."
	MsgNotInBank     = "Selected question not found."
	MsgAlreadyLinked = "This question has already been added."
)

// LinkResult says what happened locally after the backend accepted a link.
type LinkResult int

const (
	LinkAppended LinkResult = iota
	LinkNotInBank
	LinkDuplicate
)

// Link attaches questionID to the quiz. The backend is called even when the
// question is already linked; de-duplication only affects the local list.
func (d *Details) Link(ctx context.Context, b Backend, questionID int) (LinkResult, error) {
	if err := b.LinkQuestion(ctx, models.QuizQuestionLink{QuizID: d.QuizID, QuestionID: questionID}); err != nil {
		return 0, err
	}
	var picked *models.Question
	for i := range d.Bank {
		if d.Bank[i].ID == questionID {
			picked = &d.Bank[i]
			break
		}
	}
	if picked == nil {
		return LinkNotInBank, nil
	}
	for _, q := range d.Linked {
		if q.ID == questionID {
			return LinkDuplicate, nil
		}
	}
	d.Linked = append(d.Linked, *picked)
	return LinkAppended, nil
}
