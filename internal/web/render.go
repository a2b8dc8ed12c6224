// Package web renders the HTML views and holds the request helpers shared by
// the feature handlers.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eureka-quiz/web/internal/gate"
	"github.com/eureka-quiz/web/internal/middleware"
	"github.com/eureka-quiz/web/internal/models"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var funcs = template.FuncMap{
	"join":  strings.Join,
	"lower": strings.ToLower,
	"isTeacher": func(s *models.Session) bool {
		return s != nil && s.Role == models.RoleTeacher
	},
	"isStudent": func(s *models.Session) bool {
		return s != nil && s.Role == models.RoleStudent
	},
	"same": func(a, b interface{}) bool {
		return fmt.Sprint(a) == fmt.Sprint(b)
	},
}

// Templates parses the embedded views.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.tmpl")
}

// MustTemplates is Templates for program start and tests.
func MustTemplates() *template.Template {
	return template.Must(Templates())
}

// Render writes view name with the session and pending notifications added.
func Render(c *gin.Context, status int, name string, data gin.H) {
	cl := middleware.CurrentClient(c)
	if data == nil {
		data = gin.H{}
	}
	data["User"] = cl.Session.Current()
	data["Flash"] = cl.Notes.Drain()
	data["Path"] = c.Request.URL.Path
	c.HTML(status, name, data)
}

// Redirect sends the browser to path with 303 so a POST becomes a GET.
func Redirect(c *gin.Context, path string) {
	c.Redirect(http.StatusSeeOther, path)
}

// RedirectToEntry sends the browser to the login view.
func RedirectToEntry(c *gin.Context) {
	Redirect(c, gate.EntryPath)
}

// Unauthenticated reports whether the backend rejected the session during
// this request, and if so redirects to the entry point.
func Unauthenticated(c *gin.Context) bool {
	if !middleware.CurrentClient(c).Nav.Take() {
		return false
	}
	RedirectToEntry(c)
	return true
}

// Error renders the generic error view.
func Error(c *gin.Context, status int, msg string) {
	Render(c, status, "error", gin.H{"Title": http.StatusText(status), "Status": status, "Message": msg})
}

// ParamID parses a positive integer route parameter.
func ParamID(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
