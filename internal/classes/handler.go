package classes

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eureka-quiz/web/internal/apiclient"
	"github.com/eureka-quiz/web/internal/forms"
	"github.com/eureka-quiz/web/internal/middleware"
	"github.com/eureka-quiz/web/internal/web"
)

// User-facing messages.
const (
	MsgFetchFailed   = "Failed to fetch classes."
	MsgCreated       = "Class created successfully!"
	MsgCreateFailed  = "Failed to create class. Please try again."
	MsgLoadFailed    = "Failed to load class details"
	MsgUpdated       = "Class details updated."
	MsgUpdateFailed  = "Failed to update class details"
	MsgInviteFailed  = "Failed to invite student"
	MsgRemoveFailed  = "Failed to remove student"
	MsgSomethingOff  = "Something went wrong. Please try again."
)

const (
	dashboardPath    = "/teacher-dashboard"
	classPathPattern = "/teacher-classes/%d"
)

// Handler serves the teacher dashboard and class management views.
type Handler struct {
	logger *zap.Logger
}

// NewHandler creates a classes handler.
func NewHandler(logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{logger: logger}
}

// Dashboard handles GET /teacher-dashboard.
func (h *Handler) Dashboard(c *gin.Context) {
	cl := middleware.CurrentClient(c)
	list, err := NewRepository(cl.API).List(c.Request.Context())
	if err != nil {
		if web.Unauthenticated(c) {
			return
		}
		h.logger.Warn("list classes", zap.String("client_id", cl.ID), zap.Error(err))
		cl.Notes.Error(MsgFetchFailed)
	}
	web.Render(c, http.StatusOK, "teacher_dashboard", gin.H{
		"Title":   "Teacher Dashboard",
		"Classes": list,
		"Form":    forms.ClassForm{MaxStudents: forms.DefaultMaxStudents},
	})
}

// Create handles POST /teacher-dashboard/classes.
func (h *Handler) Create(c *gin.Context) {
	cl := middleware.CurrentClient(c)
	var form forms.ClassForm
	_ = c.ShouldBind(&form)
	if err := forms.Check(form); err != nil {
		cl.Notes.Error(forms.Message(err))
		web.Redirect(c, dashboardPath)
		return
	}
	created, err := NewRepository(cl.API).Create(c.Request.Context(), form.Input())
	if err != nil {
		if web.Unauthenticated(c) {
			return
		}
		h.logger.Warn("create class", zap.String("client_id", cl.ID), zap.Error(err))
		cl.Notes.Error(MsgCreateFailed)
		web.Redirect(c, dashboardPath)
		return
	}
	h.logger.Info("class created", zap.String("client_id", cl.ID), zap.Int("class_id", created.ID))
	cl.Notes.Success(MsgCreated)
	web.Redirect(c, dashboardPath)
}

// Details handles GET /teacher-classes/:id.
func (h *Handler) Details(c *gin.Context) {
	cl := middleware.CurrentClient(c)
	id, ok := web.ParamID(c, "id")
	if !ok {
		web.Error(c, http.StatusNotFound, "Class not found.")
		return
	}
	class, err := NewRepository(cl.API).Get(c.Request.Context(), id)
	data := gin.H{"Title": "Class Details", "ClassID": id, "Form": forms.ClassForm{}}
	if err != nil {
		if web.Unauthenticated(c) {
			return
		}
		h.logger.Warn("get class", zap.String("client_id", cl.ID), zap.Int("class_id", id), zap.Error(err))
		data["Error"] = MsgLoadFailed
		status := http.StatusBadGateway
		if apiclient.IsNotFound(err) {
			status = http.StatusNotFound
		}
		web.Render(c, status, "teacher_class", data)
		return
	}
	data["Class"] = class
	data["Form"] = forms.ClassForm{Name: class.ClassName, Password: class.Password, MaxStudents: class.MaxStudents}
	web.Render(c, http.StatusOK, "teacher_class", data)
}

// Update handles POST /teacher-classes/:id.
func (h *Handler) Update(c *gin.Context) {
	cl := middleware.CurrentClient(c)
	id, ok := web.ParamID(c, "id")
	if !ok {
		web.Error(c, http.StatusNotFound, "Class not found.")
		return
	}
	back := fmt.Sprintf(classPathPattern, id)
	var form forms.ClassForm
	_ = c.ShouldBind(&form)
	if err := forms.Check(form); err != nil {
		cl.Notes.Error(forms.Message(err))
		web.Redirect(c, back)
		return
	}
	if _, err := NewRepository(cl.API).Update(c.Request.Context(), id, form.Input()); err != nil {
		if web.Unauthenticated(c) {
			return
		}
		h.logger.Warn("update class", zap.String("client_id", cl.ID), zap.Int("class_id", id), zap.Error(err))
		cl.Notes.Error(MsgUpdateFailed)
		web.Redirect(c, back)
		return
	}
	cl.Notes.Success(MsgUpdated)
	web.Redirect(c, back)
}

// Invite handles POST /teacher-classes/:id/invite.
func (h *Handler) Invite(c *gin.Context) {
	h.roster(c, MsgInviteFailed, (*Repository).Invite)
}

// Remove handles POST /teacher-classes/:id/remove.
func (h *Handler) Remove(c *gin.Context) {
	h.roster(c, MsgRemoveFailed, (*Repository).Remove)
}

type rosterCall func(r *Repository, ctx context.Context, id int, username string) (string, error)

func (h *Handler) roster(c *gin.Context, fallback string, call rosterCall) {
	cl := middleware.CurrentClient(c)
	id, ok := web.ParamID(c, "id")
	if !ok {
		web.Error(c, http.StatusNotFound, "Class not found.")
		return
	}
	back := fmt.Sprintf(classPathPattern, id)
	var form forms.InviteForm
	_ = c.ShouldBind(&form)
	if err := forms.Check(form); err != nil {
		cl.Notes.Error(forms.Message(err))
		web.Redirect(c, back)
		return
	}
	detail, err := call(NewRepository(cl.API), c.Request.Context(), id, form.Username)
	if err != nil {
		if web.Unauthenticated(c) {
			return
		}
		h.logger.Info("roster change rejected", zap.String("client_id", cl.ID), zap.Int("class_id", id), zap.Error(err))
		if errors.Is(err, apiclient.ErrNetwork) {
			cl.Notes.Error(MsgSomethingOff)
		} else {
			cl.Notes.Error(apiclient.DetailOr(err, fallback))
		}
		web.Redirect(c, back)
		return
	}
	cl.Notes.Success(detail)
	web.Redirect(c, back)
}
