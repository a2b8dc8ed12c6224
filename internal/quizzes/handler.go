package quizzes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eureka-quiz/web/internal/apiclient"
	"github.com/eureka-quiz/web/internal/forms"
	"github.com/eureka-quiz/web/internal/middleware"
	"github.com/eureka-quiz/web/internal/web"
)

// User-facing messages of the quiz board.
const (
	MsgLoadFailed = "Failed to load data."
	MsgSaveFailed = "Failed to save quiz. Please try again."
)

const (
	boardPath          = "/quizzes"
	detailsPathPattern = "/teacher/quiz-details/%d"
)

// Handler serves the teacher's quiz board and quiz details.
type Handler struct {
	logger *zap.Logger
}

// NewHandler creates a quizzes handler.
func NewHandler(logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{logger: logger}
}

// Board handles GET /quizzes.
func (h *Handler) Board(c *gin.Context) {
	cl := middleware.CurrentClient(c)
	board, err := LoadBoard(c.Request.Context(), NewRepository(cl.API))
	if err != nil {
		if web.Unauthenticated(c) {
			return
		}
		h.logger.Warn("load quiz board", zap.String("client_id", cl.ID), zap.Error(err))
		h.render(c, http.StatusOK, &Board{}, forms.QuizForm{}, MsgLoadFailed)
		return
	}
	h.render(c, http.StatusOK, board, forms.QuizForm{}, "")
}

// Create handles POST /quizzes. The quiz is created first; the board shown
// afterwards is best effort and gets the new row without a second list fetch.
func (h *Handler) Create(c *gin.Context) {
	cl := middleware.CurrentClient(c)
	var form forms.QuizForm
	_ = c.ShouldBind(&form)
	if err := forms.Check(form); err != nil {
		cl.Notes.Error(forms.Message(err))
		web.Redirect(c, boardPath)
		return
	}

	repo := NewRepository(cl.API)
	ctx := c.Request.Context()
	created, err := repo.CreateQuiz(ctx, form.Input())
	if err != nil {
		if web.Unauthenticated(c) {
			return
		}
		h.logger.Warn("create quiz", zap.String("client_id", cl.ID), zap.Error(err))
		cl.Notes.Error(MsgSaveFailed)
		board, _, ok := h.loadBoard(c, repo)
		if !ok {
			return
		}
		h.render(c, http.StatusBadGateway, board, form, "")
		return
	}
	h.logger.Info("quiz created", zap.String("client_id", cl.ID), zap.Int("quiz_id", created.ID))

	board, errMsg, ok := h.loadBoard(c, repo)
	if !ok {
		return
	}
	board.Append(created.ID, form)
	h.render(c, http.StatusCreated, board, forms.QuizForm{}, errMsg)
}

// loadBoard returns an empty board and MsgLoadFailed when the fetch fails.
// ok is false once an expired session has been redirected to login.
func (h *Handler) loadBoard(c *gin.Context, repo Backend) (board *Board, errMsg string, ok bool) {
	board, err := LoadBoard(c.Request.Context(), repo)
	if err == nil {
		return board, "", true
	}
	if web.Unauthenticated(c) {
		return nil, "", false
	}
	h.logger.Warn("load quiz board", zap.String("client_id", middleware.CurrentClient(c).ID), zap.Error(err))
	return &Board{}, MsgLoadFailed, true
}

func (h *Handler) render(c *gin.Context, status int, board *Board, form forms.QuizForm, errMsg string) {
	web.Render(c, status, "quizzes", gin.H{
		"Title":   "Quizzes",
		"Rows":    board.Rows,
		"Classes": board.Classes,
		"Form":    form,
		"Error":   errMsg,
	})
}

// Details handles GET /teacher/quiz-details/:quizId.
func (h *Handler) Details(c *gin.Context) {
	cl := middleware.CurrentClient(c)
	id, ok := web.ParamID(c, "quizId")
	if !ok {
		web.Error(c, http.StatusNotFound, "Quiz not found.")
		return
	}
	d, err := LoadDetails(c.Request.Context(), NewRepository(cl.API), id)
	if err != nil {
		if web.Unauthenticated(c) {
			return
		}
		h.logger.Warn("load quiz details", zap.String("client_id", cl.ID), zap.Int("quiz_id", id),
			zap.Strings("failed", d.Errors), zap.Error(err))
	}
	status := http.StatusOK
	if d.Quiz == nil && apiclient.IsNotFound(err) {
		status = http.StatusNotFound
	}
	web.Render(c, status, "quiz_details", gin.H{
		"Title":      "Quiz Details",
		"QuizID":     d.QuizID,
		"Quiz":       d.Quiz,
		"Linked":     d.Linked,
		"Bank":       d.Bank,
		"LoadErrors": d.Errors,
	})
}

// Link handles POST /teacher/quiz-details/:quizId/questions.
func (h *Handler) Link(c *gin.Context) {
	cl := middleware.CurrentClient(c)
	id, ok := web.ParamID(c, "quizId")
	if !ok {
		web.Error(c, http.StatusNotFound, "Quiz not found.")
		return
	}
	back := fmt.Sprintf(detailsPathPattern, id)
	var form forms.LinkQuestionForm
	_ = c.ShouldBind(&form)
	if err := forms.Check(form); err != nil {
		cl.Notes.Error(forms.Message(err))
		web.Redirect(c, back)
		return
	}

	repo := NewRepository(cl.API)
	ctx := c.Request.Context()
	// The local lists decide the outcome message; a partial load still links.
	d, err := LoadDetails(ctx, repo, id)
	if err != nil && web.Unauthenticated(c) {
		return
	}
	res, err := d.Link(ctx, repo, form.ID())
	if err != nil {
		if web.Unauthenticated(c) {
			return
		}
		h.logger.Warn("link question", zap.String("client_id", cl.ID), zap.Int("quiz_id", id),
			zap.Int("question_id", form.ID()), zap.Error(err))
		cl.Notes.Error(apiclient.DetailOr(err, MsgLinkFailed))
		web.Redirect(c, back)
		return
	}
	cl.Notes.Success(MsgLinked)
	switch res {
	case LinkNotInBank:
		cl.Notes.Error(MsgNotInBank)
	case LinkDuplicate:
		cl.Notes.Warning(MsgAlreadyLinked)
	}
	web.Redirect(c, back)
}
