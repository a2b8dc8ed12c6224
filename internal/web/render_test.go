package web

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eureka-quiz/web/internal/apiclient"
	"github.com/eureka-quiz/web/internal/clients"
	"github.com/eureka-quiz/web/internal/middleware"
	"github.com/eureka-quiz/web/internal/models"
	"github.com/eureka-quiz/web/internal/session"
)

func TestTemplatesParse(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)
	for _, name := range []string{
		"login", "signup", "profile", "error",
		"student_dashboard", "student_courses", "student_class", "take_quiz", "quiz_error",
		"teacher_dashboard", "teacher_class", "quizzes", "quiz_details", "questions", "question_edit",
	} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestLayoutNavigationByRole(t *testing.T) {
	tmpl := MustTemplates()
	var buf bytes.Buffer
	err := tmpl.ExecuteTemplate(&buf, "error", gin.H{
		"User":    &models.Session{Username: "ms.cruz", Role: models.RoleTeacher},
		"Status":  404,
		"Message": "Not Found",
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `href="/quizzes"`)
	assert.NotContains(t, buf.String(), `href="/student-courses"`)
}

func newContext(t *testing.T, target string) (*gin.Context, *httptest.ResponseRecorder, *clients.Client) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, engine := gin.CreateTestContext(w)
	engine.SetHTMLTemplate(MustTemplates())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	reg := clients.NewRegistry(session.NewMemoryStorage(), apiclient.Config{}, nil)
	cl := reg.Get(c.Request.Context(), "c1")
	c.Set(middleware.ContextClient, cl)
	return c, w, cl
}

func TestRenderDrainsFlash(t *testing.T) {
	c, w, cl := newContext(t, "/missing")
	cl.Notes.Error("Failed to fetch classes.")

	Error(c, http.StatusNotFound, "Page not found.")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to fetch classes.")
	assert.Contains(t, w.Body.String(), "alert-danger")
	assert.Empty(t, cl.Notes.Drain())
}

func TestUnauthenticated(t *testing.T) {
	c, w, cl := newContext(t, "/teacher-dashboard")
	assert.False(t, Unauthenticated(c))

	cl.Nav.ForceEntry()
	assert.True(t, Unauthenticated(c))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestParamID(t *testing.T) {
	c, _, _ := newContext(t, "/x")
	c.Params = gin.Params{{Key: "id", Value: "12"}}
	id, ok := ParamID(c, "id")
	assert.True(t, ok)
	assert.Equal(t, 12, id)

	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	_, ok = ParamID(c, "id")
	assert.False(t, ok)
}
