package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eureka-quiz/web/internal/clients"
)

// ContextClient is the key for the browser client in gin context.
const ContextClient = "client"

// CookieOptions control the client identity cookie.
type CookieOptions struct {
	Name   string
	MaxAge int // seconds
	Secure bool
}

// Client returns a middleware that identifies the browser by its signed
// cookie, issuing a fresh identity when the cookie is missing or invalid.
func Client(reg *clients.Registry, tokens *clients.TokenService, opts CookieOptions, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		id := ""
		if raw, err := c.Cookie(opts.Name); err == nil && raw != "" {
			if parsed, err := tokens.Parse(raw); err == nil {
				id = parsed
			}
		}
		if id == "" {
			id = clients.NewClientID()
			signed, err := tokens.Issue(id)
			if err != nil {
				logger.Error("issue client token", zap.Error(err))
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(opts.Name, signed, opts.MaxAge, "/", "", opts.Secure, true)
		}
		c.Set(ContextClient, reg.Get(c.Request.Context(), id))
		c.Next()
	}
}

// CurrentClient returns the client set by Client. It panics when the
// middleware is not installed.
func CurrentClient(c *gin.Context) *clients.Client {
	return c.MustGet(ContextClient).(*clients.Client)
}
