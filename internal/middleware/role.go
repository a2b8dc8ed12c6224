package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eureka-quiz/web/internal/gate"
	"github.com/eureka-quiz/web/internal/models"
)

// RequireRole admits the request only when the client's session carries
// role. Anything else is redirected to the entry point before a handler or
// backend call runs.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		cl := CurrentClient(c)
		if gate.Admit(role, cl.Session.Current()) != gate.Render {
			c.Redirect(http.StatusFound, gate.EntryPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
