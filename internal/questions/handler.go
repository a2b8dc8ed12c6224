package questions

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eureka-quiz/web/internal/apiclient"
	"github.com/eureka-quiz/web/internal/forms"
	"github.com/eureka-quiz/web/internal/middleware"
	"github.com/eureka-quiz/web/internal/models"
	"github.com/eureka-quiz/web/internal/web"
)

// User-facing messages.
const (
	MsgLoadFailed   = "Failed to load questions."
	MsgAdded        = "Question added successfully!"
	MsgAddFailed    = "Failed to add question. Please try again."
	MsgUpdated      = "Question updated successfully!"
	MsgUpdateFailed = "Failed to update question. Please try again."
	MsgDeleted      = "Question deleted successfully!"
	MsgDeleteFailed = "Failed to delete question. Please try again."
	MsgNotFound     = "Question not found."
)

const listPath = "/questions"

// Types are the selectable question kinds, in display order.
var Types = []models.QuestionType{
	models.QuestionIdentification,
	models.QuestionMultipleChoice,
	models.QuestionEnumeration,
	models.QuestionTrueFalse,
}

// Handler serves the teacher's question bank.
type Handler struct {
	logger *zap.Logger
}

// NewHandler creates a questions handler.
func NewHandler(logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{logger: logger}
}

// List handles GET /questions.
func (h *Handler) List(c *gin.Context) {
	h.renderList(c, http.StatusOK, forms.QuestionForm{Type: string(models.QuestionIdentification)}, nil)
}

func (h *Handler) renderList(c *gin.Context, status int, form forms.QuestionForm, errs forms.Errors) {
	cl := middleware.CurrentClient(c)
	data := gin.H{
		"Title":  "Questions",
		"Action": listPath,
		"Submit": "Add question",
		"Types":  Types,
		"Form":   form,
		"Errors": errs,
	}
	list, err := NewRepository(cl.API).List(c.Request.Context())
	if err != nil {
		if web.Unauthenticated(c) {
			return
		}
		h.logger.Warn("list questions", zap.String("client_id", cl.ID), zap.Error(err))
		data["Error"] = MsgLoadFailed
	}
	data["Questions"] = list
	web.Render(c, status, "questions", data)
}

// Create handles POST /questions.
func (h *Handler) Create(c *gin.Context) {
	cl := middleware.CurrentClient(c)
	form, err := bindQuestion(c)
	if err != nil {
		h.renderList(c, http.StatusBadRequest, form, violations(err))
		return
	}
	if err := NewRepository(cl.API).Create(c.Request.Context(), form.Input()); err != nil {
		if web.Unauthenticated(c) {
			return
		}
		h.logger.Warn("add question", zap.String("client_id", cl.ID), zap.Error(err))
		cl.Notes.Error(apiclient.DetailOr(err, MsgAddFailed))
		h.renderList(c, http.StatusBadGateway, form, nil)
		return
	}
	cl.Notes.Success(MsgAdded)
	web.Redirect(c, listPath)
}

// EditPage handles GET /questions/:id/edit.
func (h *Handler) EditPage(c *gin.Context) {
	cl := middleware.CurrentClient(c)
	id, ok := web.ParamID(c, "id")
	if !ok {
		web.Error(c, http.StatusNotFound, MsgNotFound)
		return
	}
	q, err := NewRepository(cl.API).Get(c.Request.Context(), id)
	if err != nil {
		if web.Unauthenticated(c) {
			return
		}
		if errors.Is(err, ErrNotFound) {
			web.Error(c, http.StatusNotFound, MsgNotFound)
			return
		}
		h.logger.Warn("load question", zap.String("client_id", cl.ID), zap.Int("question_id", id), zap.Error(err))
		web.Error(c, http.StatusBadGateway, MsgLoadFailed)
		return
	}
	h.renderEdit(c, http.StatusOK, id, formOf(q), nil)
}

// Update handles POST /questions/:id.
func (h *Handler) Update(c *gin.Context) {
	cl := middleware.CurrentClient(c)
	id, ok := web.ParamID(c, "id")
	if !ok {
		web.Error(c, http.StatusNotFound, MsgNotFound)
		return
	}
	form, err := bindQuestion(c)
	if err != nil {
		h.renderEdit(c, http.StatusBadRequest, id, form, violations(err))
		return
	}
	if err := NewRepository(cl.API).Update(c.Request.Context(), id, form.Input()); err != nil {
		if web.Unauthenticated(c) {
			return
		}
		h.logger.Warn("update question", zap.String("client_id", cl.ID), zap.Int("question_id", id), zap.Error(err))
		cl.Notes.Error(apiclient.DetailOr(err, MsgUpdateFailed))
		h.renderEdit(c, http.StatusBadGateway, id, form, nil)
		return
	}
	cl.Notes.Success(MsgUpdated)
	web.Redirect(c, listPath)
}

func (h *Handler) renderEdit(c *gin.Context, status, id int, form forms.QuestionForm, errs forms.Errors) {
	web.Render(c, status, "question_edit", gin.H{
		"Title":  "Edit Question",
		"Action": fmt.Sprintf("/questions/%d", id),
		"Submit": "Save changes",
		"Types":  Types,
		"Form":   form,
		"Errors": errs,
	})
}

// Delete handles POST /questions/:id/delete.
func (h *Handler) Delete(c *gin.Context) {
	cl := middleware.CurrentClient(c)
	id, ok := web.ParamID(c, "id")
	if !ok {
		web.Error(c, http.StatusNotFound, MsgNotFound)
		return
	}
	if err := NewRepository(cl.API).Delete(c.Request.Context(), id); err != nil {
		if web.Unauthenticated(c) {
			return
		}
		h.logger.Warn("delete question", zap.String("client_id", cl.ID), zap.Int("question_id", id), zap.Error(err))
		cl.Notes.Error(apiclient.DetailOr(err, MsgDeleteFailed))
		web.Redirect(c, listPath)
		return
	}
	h.logger.Info("question deleted", zap.String("client_id", cl.ID), zap.Int("question_id", id))
	cl.Notes.Success(MsgDeleted)
	web.Redirect(c, listPath)
}

func bindQuestion(c *gin.Context) (forms.QuestionForm, error) {
	var form forms.QuestionForm
	_ = c.ShouldBind(&form)
	form.Normalize()
	return form, forms.Check(form)
}

func violations(err error) forms.Errors {
	var ve forms.Errors
	if errors.As(err, &ve) {
		return ve
	}
	return forms.Errors{{Message: err.Error()}}
}

func formOf(q *models.Question) forms.QuestionForm {
	return forms.QuestionForm{
		Text:          q.QuestionText,
		Type:          string(q.QuestionType),
		CorrectAnswer: q.CorrectAnswer,
		ChoicesText:   strings.Join(q.Choices, ", "),
		Choices:       q.Choices,
	}
}
