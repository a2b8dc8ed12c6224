// Package quiztaking serves a student's quiz attempt: the question page, the
// answer and submit calls, and the tab-visibility socket.
package quiztaking

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eureka-quiz/web/internal/attempt"
	"github.com/eureka-quiz/web/internal/clients"
	"github.com/eureka-quiz/web/internal/middleware"
	"github.com/eureka-quiz/web/internal/realtime"
	"github.com/eureka-quiz/web/internal/web"
	"github.com/eureka-quiz/web/pkg/response"
)

const (
	MsgNoAttempt     = "No open attempt for this quiz."
	MsgAlreadyGraded = "This quiz has already been submitted."
	MsgBusy          = "Your answers are being submitted."

	dashboardPath   = "/student-dashboard"
	takePathPattern = "/quiz-details/%d"
	answerPrefix    = "answer_"
)

// AnswerRequest is the body of POST /quiz-details/:quizId/answers.
type AnswerRequest struct {
	QuestionID int    `json:"question_id" binding:"required"`
	Answer     string `json:"answer"`
}

// Handler serves quiz attempts.
type Handler struct {
	opts   attempt.Options
	logger *zap.Logger
}

// NewHandler creates a quiz-taking handler.
func NewHandler(opts attempt.Options, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{opts: opts, logger: logger}
}

func (h *Handler) newFlow(cl *clients.Client, quizID int) func() *attempt.Flow {
	return func() *attempt.Flow {
		return attempt.NewFlow(quizID, NewRepository(cl.API), h.opts,
			h.logger.With(zap.String("client_id", cl.ID)))
	}
}

// Take handles GET /quiz-details/:quizId. An open attempt is resumed with its
// answers; a graded or failed one is replaced by a fresh load.
func (h *Handler) Take(c *gin.Context) {
	cl := middleware.CurrentClient(c)
	quizID, ok := web.ParamID(c, "quizId")
	if !ok {
		h.renderError(c, http.StatusNotFound, attempt.MsgInvalidQuiz)
		return
	}
	flow, created := cl.Attempts.Open(quizID, h.newFlow(cl, quizID))
	if created {
		flow.Load(c.Request.Context())
	}
	if web.Unauthenticated(c) {
		cl.Attempts.Close(quizID)
		return
	}
	view := flow.Snapshot()
	if view.State == attempt.StateFailed && view.Quiz == nil {
		cl.Attempts.Close(quizID)
		status := http.StatusBadGateway
		if view.NotFound {
			status = http.StatusNotFound
		}
		h.renderError(c, status, view.Error)
		return
	}
	h.render(c, http.StatusOK, view)
}

// Answer handles POST /quiz-details/:quizId/answers, recording one answer as
// the student changes it.
func (h *Handler) Answer(c *gin.Context) {
	flow, ok := h.openFlow(c)
	if !ok {
		return
	}
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := flow.RecordAnswer(req.QuestionID, req.Answer); err != nil {
		response.Conflict(c, err.Error())
		return
	}
	response.OK(c, gin.H{"question_id": req.QuestionID})
}

// Submit handles POST /quiz-details/:quizId/submit. Answers posted with the
// form are recorded before the batch is sent; blank fields leave an earlier
// answer in place.
func (h *Handler) Submit(c *gin.Context) {
	cl := middleware.CurrentClient(c)
	quizID, ok := web.ParamID(c, "quizId")
	if !ok {
		h.renderError(c, http.StatusNotFound, attempt.MsgInvalidQuiz)
		return
	}
	flow := cl.Attempts.Get(quizID)
	if flow == nil {
		web.Redirect(c, fmt.Sprintf(takePathPattern, quizID))
		return
	}

	for _, q := range flow.Snapshot().Questions {
		if v := c.PostForm(answerPrefix + strconv.Itoa(q.ID)); v != "" {
			_ = flow.RecordAnswer(q.ID, v)
		}
	}

	err := flow.Submit(c.Request.Context())
	if web.Unauthenticated(c) {
		cl.Attempts.Close(quizID)
		return
	}
	status := http.StatusOK
	switch {
	case err == nil:
		h.logger.Info("quiz submitted", zap.String("client_id", cl.ID), zap.Int("quiz_id", quizID))
	case errors.Is(err, attempt.ErrAlreadyGraded):
		cl.Notes.Info(MsgAlreadyGraded)
		status = http.StatusConflict
	case errors.Is(err, attempt.ErrSubmitting):
		cl.Notes.Info(MsgBusy)
		status = http.StatusConflict
	case errors.Is(err, attempt.ErrClosed), errors.Is(err, attempt.ErrNotReady):
		web.Redirect(c, dashboardPath)
		return
	default:
		status = http.StatusBadGateway
	}
	h.render(c, status, flow.Snapshot())
}

// Visibility handles POST /quiz-details/:quizId/visibility, the JSON
// fallback of the socket. The first report attaches the observer until the
// attempt is left.
func (h *Handler) Visibility(c *gin.Context) {
	flow, ok := h.openFlow(c)
	if !ok {
		return
	}
	var data realtime.VisibilityData
	if err := c.ShouldBindJSON(&data); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	flow.Attach()
	if !data.Hidden {
		flow.Visible()
		response.OK(c, realtime.WarningData{})
		return
	}
	response.OK(c, realtime.WarningData{Message: flow.Hidden()})
}

// Leave handles POST /quiz-details/:quizId/leave.
func (h *Handler) Leave(c *gin.Context) {
	cl := middleware.CurrentClient(c)
	if quizID, ok := web.ParamID(c, "quizId"); ok {
		cl.Attempts.Close(quizID)
	}
	web.Redirect(c, dashboardPath)
}

// Watch handles GET /ws/quiz/:quizId, the page's visibility channel.
func (h *Handler) Watch(c *gin.Context) {
	flow, ok := h.openFlow(c)
	if !ok {
		return
	}
	realtime.Serve(c, flow, h.logger)
}

func (h *Handler) openFlow(c *gin.Context) (*attempt.Flow, bool) {
	quizID, ok := web.ParamID(c, "quizId")
	if !ok {
		response.BadRequest(c, attempt.MsgInvalidQuiz)
		return nil, false
	}
	flow := middleware.CurrentClient(c).Attempts.Get(quizID)
	if flow == nil {
		response.NotFound(c, MsgNoAttempt)
		return nil, false
	}
	return flow, true
}

func (h *Handler) render(c *gin.Context, status int, view attempt.View) {
	title := "Quiz"
	if view.Quiz != nil {
		title = view.Quiz.QuizName
	}
	web.Render(c, status, "take_quiz", gin.H{"Title": title, "View": view})
}

func (h *Handler) renderError(c *gin.Context, status int, msg string) {
	web.Render(c, status, "quiz_error", gin.H{"Title": "Quiz", "Message": msg})
}
