package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eureka-quiz/web/internal/clients"
	"github.com/eureka-quiz/web/internal/forms"
	"github.com/eureka-quiz/web/internal/gate"
	"github.com/eureka-quiz/web/internal/middleware"
	"github.com/eureka-quiz/web/internal/models"
	"github.com/eureka-quiz/web/internal/web"
)

// User-facing messages.
const (
	MsgLoginSuccess  = "Login Successfully!"
	MsgLoginFailed   = "Login failed. Please try again."
	MsgGoogleFailed  = "Google login failed. Please try again."
	MsgSignupSuccess = "Signup successful! Please login."
	MsgSignupFailed  = "Signup failed. Please try again."
)

var errNoRole = errors.New("session without a known role")

// Handler handles login, signup and logout.
type Handler struct {
	logger *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{logger: logger}
}

// Root handles GET /.
func (h *Handler) Root(c *gin.Context) {
	web.RedirectToEntry(c)
}

// LoginPage handles GET /login. A logged-in user is sent to their dashboard.
func (h *Handler) LoginPage(c *gin.Context) {
	if s := middleware.CurrentClient(c).Session.Current(); s != nil && s.Role.Valid() {
		web.Redirect(c, gate.Landing(s.Role))
		return
	}
	web.Render(c, http.StatusOK, "login", gin.H{"Title": "Login", "Form": forms.LoginForm{}})
}

// Login handles POST /login.
func (h *Handler) Login(c *gin.Context) {
	cl := middleware.CurrentClient(c)
	var form forms.LoginForm
	_ = c.ShouldBind(&form)
	if err := forms.Check(form); err != nil {
		web.Render(c, http.StatusBadRequest, "login", gin.H{"Title": "Login", "Form": form, "Errors": err})
		return
	}

	s, err := NewRepository(cl.API).Login(c.Request.Context(), form.Identifier, form.Password)
	if err == nil {
		err = h.establish(c.Request.Context(), cl, s)
	}
	if err != nil {
		// Bad credentials answer 401; that is a failed login, not an expired session.
		cl.Nav.Take()
		h.logger.Info("login failed", zap.String("client_id", cl.ID), zap.Error(err))
		cl.Notes.Error(MsgLoginFailed)
		web.Render(c, http.StatusOK, "login", gin.H{"Title": "Login", "Form": form})
		return
	}
	cl.Notes.Success(MsgLoginSuccess)
	web.Redirect(c, gate.Landing(s.Role))
}

// GoogleLogin handles POST /login/google with the Google credential as "token".
func (h *Handler) GoogleLogin(c *gin.Context) {
	cl := middleware.CurrentClient(c)
	token := c.PostForm("token")
	var (
		s   *models.Session
		err error
	)
	if token == "" {
		err = errors.New("missing google credential")
	} else {
		s, err = NewRepository(cl.API).Google(c.Request.Context(), token)
	}
	if err == nil {
		err = h.establish(c.Request.Context(), cl, s)
	}
	if err != nil {
		cl.Nav.Take()
		h.logger.Info("google login failed", zap.String("client_id", cl.ID), zap.Error(err))
		cl.Notes.Error(MsgGoogleFailed)
		web.RedirectToEntry(c)
		return
	}
	web.Redirect(c, gate.Landing(s.Role))
}

// establish installs s as the client's only session.
func (h *Handler) establish(ctx context.Context, cl *clients.Client, s *models.Session) error {
	if s.Username == "" || !s.Role.Valid() {
		return errNoRole
	}
	if err := cl.Session.Login(ctx, *s); err != nil {
		// The in-memory session stands; only the durable copy is missing.
		h.logger.Warn("session not persisted", zap.String("client_id", cl.ID), zap.Error(err))
	}
	return nil
}

// SignupPage handles GET /signup.
func (h *Handler) SignupPage(c *gin.Context) {
	if s := middleware.CurrentClient(c).Session.Current(); s != nil && s.Role.Valid() {
		web.Redirect(c, gate.Landing(s.Role))
		return
	}
	web.Render(c, http.StatusOK, "signup", gin.H{"Title": "Sign up", "Form": forms.SignupForm{}})
}

// Signup handles POST /signup.
func (h *Handler) Signup(c *gin.Context) {
	cl := middleware.CurrentClient(c)
	var form forms.SignupForm
	_ = c.ShouldBind(&form)
	if err := forms.Check(form); err != nil {
		web.Render(c, http.StatusBadRequest, "signup", gin.H{"Title": "Sign up", "Form": form, "Errors": err})
		return
	}

	err := NewRepository(cl.API).Signup(c.Request.Context(), SignupInput{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
		Role:     models.Role(form.Role),
	})
	if err != nil {
		cl.Nav.Take()
		h.logger.Info("signup failed", zap.String("client_id", cl.ID), zap.Error(err))
		cl.Notes.Error(MsgSignupFailed)
		web.Render(c, http.StatusOK, "signup", gin.H{"Title": "Sign up", "Form": form})
		return
	}
	cl.Notes.Success(MsgSignupSuccess)
	web.RedirectToEntry(c)
}

// Logout handles POST /logout.
func (h *Handler) Logout(c *gin.Context) {
	cl := middleware.CurrentClient(c)
	cl.Attempts.CloseAll()
	if err := cl.Session.Logout(c.Request.Context()); err != nil {
		h.logger.Warn("logout storage", zap.String("client_id", cl.ID), zap.Error(err))
	}
	web.RedirectToEntry(c)
}
