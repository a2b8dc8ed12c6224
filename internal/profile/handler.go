// Package profile serves the account page shared by both roles.
package profile

import (
	"errors"
	"net/http"

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
	MsgGenericError   = "An error occurred"
	MsgSaveFailed     = "Failed to save profile updates"
	MsgPasswordUpdate = "Password updated successfully."
)

// Handler serves one role's profile page. Base is the page path, e.g.
// /profile for teachers and /profile/student for students.
type Handler struct {
	base   string
	logger *zap.Logger
}

// NewHandler creates a profile handler mounted at base.
func NewHandler(base string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{base: base, logger: logger}
}

// Base is the path the handler is mounted at.
func (h *Handler) Base() string { return h.base }

type page struct {
	profile         models.Profile
	profileError    string
	passwordMessage string
	passwordError   string
	errs            forms.Errors
}

// Show handles GET {base}.
func (h *Handler) Show(c *gin.Context) {
	cl := middleware.CurrentClient(c)
	p, err := NewRepository(cl.API).Get(c.Request.Context())
	if err != nil {
		if web.Unauthenticated(c) {
			return
		}
		h.logger.Warn("get profile", zap.String("client_id", cl.ID), zap.Error(err))
		h.render(c, http.StatusOK, page{profileError: apiclient.DetailOr(err, MsgGenericError)})
		return
	}
	h.render(c, http.StatusOK, page{profile: *p})
}

// Update handles POST {base}/update.
func (h *Handler) Update(c *gin.Context) {
	cl := middleware.CurrentClient(c)
	var form forms.ProfileForm
	_ = c.ShouldBind(&form)
	submitted := models.Profile{Username: form.Username, Email: form.Email}
	if s := cl.Session.Current(); s != nil {
		submitted.Role = s.Role
	}
	if err := forms.Check(form); err != nil {
		var ve forms.Errors
		errors.As(err, &ve)
		h.render(c, http.StatusBadRequest, page{profile: submitted, errs: ve})
		return
	}
	saved, err := NewRepository(cl.API).Update(c.Request.Context(), submitted)
	if err != nil {
		if web.Unauthenticated(c) {
			return
		}
		h.logger.Warn("update profile", zap.String("client_id", cl.ID), zap.Error(err))
		h.render(c, http.StatusBadGateway, page{profile: submitted, profileError: MsgSaveFailed})
		return
	}
	h.logger.Info("profile updated", zap.String("client_id", cl.ID))
	h.render(c, http.StatusOK, page{profile: *saved})
}

// Password handles POST {base}/password.
func (h *Handler) Password(c *gin.Context) {
	cl := middleware.CurrentClient(c)
	repo := NewRepository(cl.API)
	ctx := c.Request.Context()

	var form forms.PasswordForm
	_ = c.ShouldBind(&form)
	pg := page{}
	status := http.StatusOK
	if err := forms.Check(form); err != nil {
		pg.passwordError = forms.Message(err)
		status = http.StatusBadRequest
	} else {
		msg, err := repo.ChangePassword(ctx, PasswordChange{CurrentPassword: form.CurrentPassword, NewPassword: form.NewPassword})
		if err != nil {
			if web.Unauthenticated(c) {
				return
			}
			h.logger.Info("password change rejected", zap.String("client_id", cl.ID), zap.Error(err))
			pg.passwordError = apiclient.DetailOr(err, MsgGenericError)
			status = http.StatusBadRequest
		} else {
			if msg == "" {
				msg = MsgPasswordUpdate
			}
			pg.passwordMessage = msg
		}
	}

	// The page still shows the account next to the password result.
	p, err := repo.Get(ctx)
	if err != nil {
		if web.Unauthenticated(c) {
			return
		}
		pg.profileError = apiclient.DetailOr(err, MsgGenericError)
	} else {
		pg.profile = *p
	}
	h.render(c, status, pg)
}

func (h *Handler) render(c *gin.Context, status int, pg page) {
	web.Render(c, status, "profile", gin.H{
		"Title":           "Profile",
		"Base":            h.base,
		"Profile":         pg.profile,
		"ProfileError":    pg.profileError,
		"PasswordMessage": pg.passwordMessage,
		"PasswordError":   pg.passwordError,
		"Errors":          pg.errs,
	})
}
