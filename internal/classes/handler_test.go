package classes

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eureka-quiz/web/internal/models"
	"github.com/eureka-quiz/web/internal/web/webtest"
)

func harness(t *testing.T) *webtest.Harness {
	h := NewHandler(nil)
	hs := webtest.New(t, func(r *gin.Engine) {
		r.GET("/teacher-dashboard", h.Dashboard)
		r.POST("/teacher-dashboard/classes", h.Create)
		r.GET("/teacher-classes/:id", h.Details)
		r.POST("/teacher-classes/:id", h.Update)
		r.POST("/teacher-classes/:id/invite", h.Invite)
		r.POST("/teacher-classes/:id/remove", h.Remove)
	})
	hs.LoginAs(t, models.RoleTeacher)
	return hs
}

func TestDashboardListsClasses(t *testing.T) {
	hs := harness(t)
	hs.Backend.JSON("GET /api/classes/", http.StatusOK, []map[string]interface{}{
		{"id": 1, "class_name": "Physics 101", "max_students": 30, "enrolled_students": []string{"ana"}},
	})

	w := hs.Get("/teacher-dashboard")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Physics 101")
	assert.Contains(t, w.Body.String(), `value="30"`)

	call, ok := hs.Backend.Find(http.MethodGet, "/api/classes/")
	require.True(t, ok)
	assert.Equal(t, "Bearer tok-teacher", call.Auth)
}

func TestDashboardFetchFailure(t *testing.T) {
	hs := harness(t)
	hs.Backend.JSON("GET /api/classes/", http.StatusInternalServerError, map[string]string{"detail": "boom"})

	w := hs.Get("/teacher-dashboard")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), MsgFetchFailed)
}

func TestDashboardExpiredSession(t *testing.T) {
	hs := harness(t)
	hs.Backend.JSON("GET /api/classes/", http.StatusUnauthorized, map[string]string{"detail": "Authentication required."})

	w := hs.Get("/teacher-dashboard")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Nil(t, hs.Client().Session.Current())
}

func TestCreateClass(t *testing.T) {
	hs := harness(t)
	hs.Backend.JSON("POST /api/create-class/", http.StatusOK, map[string]interface{}{"class_id": 9, "class_name": "Chem"})

	w := hs.PostForm("/teacher-dashboard/classes", url.Values{"class_name": {"Chem"}, "password": {"s3cret"}, "max_students": {"25"}})
	assert.Equal(t, "/teacher-dashboard", w.Header().Get("Location"))
	assert.Equal(t, []string{MsgCreated}, hs.Flash())

	call, ok := hs.Backend.Find(http.MethodPost, "/api/create-class/")
	require.True(t, ok)
	assert.JSONEq(t, `{"class_name":"Chem","password":"s3cret","max_students":25}`, string(call.Body))
}

func TestCreateClassBlankName(t *testing.T) {
	hs := harness(t)
	hs.PostForm("/teacher-dashboard/classes", url.Values{"class_name": {"   "}})
	assert.Equal(t, []string{"Class name cannot be empty!"}, hs.Flash())
	assert.Empty(t, hs.Backend.Calls())
}

func TestCreateClassFailure(t *testing.T) {
	hs := harness(t)
	hs.Backend.JSON("POST /api/create-class/", http.StatusInternalServerError, map[string]string{"detail": "db down"})

	hs.PostForm("/teacher-dashboard/classes", url.Values{"class_name": {"Chem"}})
	assert.Equal(t, []string{MsgCreateFailed}, hs.Flash())
}

func TestDetails(t *testing.T) {
	hs := harness(t)
	hs.Backend.JSON("GET /api/classes/4/", http.StatusOK, map[string]interface{}{
		"id": 4, "class_name": "Bio", "teacher_name": "ms.cruz", "max_students": 2,
		"enrolled_students": []string{"ana", "ben"}, "password": "x",
	})

	w := hs.Get("/teacher-classes/4")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Bio")
	assert.Contains(t, w.Body.String(), "ben")

	hs2 := harness(t)
	hs2.Backend.JSON("GET /api/classes/5/", http.StatusNotFound, map[string]string{"detail": "Class not found."})
	w = hs2.Get("/teacher-classes/5")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), MsgLoadFailed)
}

func TestInviteSurfacesBackendRejection(t *testing.T) {
	hs := harness(t)
	hs.Backend.JSON("POST /api/classes/4/join/", http.StatusBadRequest, map[string]string{"detail": "Class is full."})

	w := hs.PostForm("/teacher-classes/4/invite", url.Values{"username": {"carl"}})
	assert.Equal(t, "/teacher-classes/4", w.Header().Get("Location"))
	assert.Equal(t, []string{"Class is full."}, hs.Flash())
}

func TestInviteAndRemove(t *testing.T) {
	hs := harness(t)
	hs.Backend.JSON("POST /api/classes/4/join/", http.StatusOK, map[string]string{"detail": "carl successfully joined the class."})
	hs.Backend.JSON("POST /api/classes/4/remove-student/", http.StatusOK, map[string]string{"detail": "carl successfully removed from the class."})

	hs.PostForm("/teacher-classes/4/invite", url.Values{"username": {"carl"}})
	assert.Equal(t, []string{"carl successfully joined the class."}, hs.Flash())

	hs.PostForm("/teacher-classes/4/remove", url.Values{"username": {"carl"}})
	assert.Equal(t, []string{"carl successfully removed from the class."}, hs.Flash())

	call, ok := hs.Backend.Find(http.MethodPost, "/api/classes/4/remove-student/")
	require.True(t, ok)
	assert.JSONEq(t, `{"username":"carl"}`, string(call.Body))
}

func TestUpdate(t *testing.T) {
	hs := harness(t)
	hs.Backend.JSON("PUT /api/classes/4/", http.StatusOK, map[string]interface{}{"id": 4, "class_name": "Bio II"})

	hs.PostForm("/teacher-classes/4", url.Values{"class_name": {"Bio II"}, "password": {"y"}, "max_students": {"40"}})
	assert.Equal(t, []string{MsgUpdated}, hs.Flash())
	call, ok := hs.Backend.Find(http.MethodPut, "/api/classes/4/")
	require.True(t, ok)
	assert.JSONEq(t, `{"class_name":"Bio II","password":"y","max_students":40}`, string(call.Body))
}
