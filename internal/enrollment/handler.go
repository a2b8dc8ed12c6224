package enrollment

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eureka-quiz/web/internal/apiclient"
	"github.com/eureka-quiz/web/internal/forms"
	"github.com/eureka-quiz/web/internal/middleware"
	"github.com/eureka-quiz/web/internal/models"
	"github.com/eureka-quiz/web/internal/web"
)

// User-facing messages.
const (
	MsgJoinedFailed  = "Failed to fetch joined classes."
	MsgJoinFailed    = "Failed to join class. Please check the password and try again."
	MsgJoined        = "Successfully joined the class"
	MsgClassFailed   = "Failed to load class details."
	MsgQuizzesFailed = "Failed to load quizzes."
)

const studentDashboard = "/student-dashboard"

// Handler serves the student dashboard, course list and class views.
type Handler struct {
	logger *zap.Logger
}

// NewHandler creates an enrollment handler.
func NewHandler(logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{logger: logger}
}

// Dashboard handles GET /student-dashboard.
func (h *Handler) Dashboard(c *gin.Context) {
	cl := middleware.CurrentClient(c)
	list, err := NewRepository(cl.API).Joined(c.Request.Context())
	if err != nil {
		if web.Unauthenticated(c) {
			return
		}
		h.logger.Warn("joined classes", zap.String("client_id", cl.ID), zap.Error(err))
		cl.Notes.Error(MsgJoinedFailed)
	}
	web.Render(c, http.StatusOK, "student_dashboard", gin.H{"Title": "Student Dashboard", "Classes": list})
}

// Join handles POST /student-dashboard/join.
func (h *Handler) Join(c *gin.Context) {
	cl := middleware.CurrentClient(c)
	var form forms.JoinClassForm
	_ = c.ShouldBind(&form)
	if err := forms.Check(form); err != nil {
		cl.Notes.Error(forms.Message(err))
		web.Redirect(c, studentDashboard)
		return
	}
	detail, err := NewRepository(cl.API).Join(c.Request.Context(), form.Password)
	if err != nil {
		if web.Unauthenticated(c) {
			return
		}
		h.logger.Info("join class rejected", zap.String("client_id", cl.ID), zap.Error(err))
		cl.Notes.Error(MsgJoinFailed)
		web.Redirect(c, studentDashboard)
		return
	}
	if detail == "" {
		detail = MsgJoined
	}
	cl.Notes.Success(detail)
	web.Redirect(c, studentDashboard)
}

// Courses handles GET /student-courses.
func (h *Handler) Courses(c *gin.Context) {
	cl := middleware.CurrentClient(c)
	data := gin.H{"Title": "Joined Classes"}
	list, err := NewRepository(cl.API).Joined(c.Request.Context())
	if err != nil {
		if web.Unauthenticated(c) {
			return
		}
		h.logger.Warn("joined classes", zap.String("client_id", cl.ID), zap.Error(err))
		data["Error"] = apiclient.DetailOr(err, MsgJoinedFailed)
	}
	data["Classes"] = list
	web.Render(c, http.StatusOK, "student_courses", data)
}

// Class handles GET /student-classes/:id. Class and quizzes load concurrently;
// the last failure to arrive is shown.
func (h *Handler) Class(c *gin.Context) {
	cl := middleware.CurrentClient(c)
	id, ok := web.ParamID(c, "id")
	if !ok {
		web.Error(c, http.StatusNotFound, "Class not found.")
		return
	}
	repo := NewRepository(cl.API)
	ctx := c.Request.Context()

	var (
		class   *models.Class
		quizzes []models.Quiz
		mu      sync.Mutex
		failMsg string
	)
	var g errgroup.Group
	g.Go(func() error {
		res, err := repo.Class(ctx, id)
		if err != nil {
			mu.Lock()
			failMsg = MsgClassFailed
			mu.Unlock()
			return err
		}
		class = res
		return nil
	})
	g.Go(func() error {
		res, err := repo.Quizzes(ctx, id)
		if err != nil {
			mu.Lock()
			failMsg = MsgQuizzesFailed
			mu.Unlock()
			return err
		}
		quizzes = res
		return nil
	})
	if err := g.Wait(); err != nil {
		if web.Unauthenticated(c) {
			return
		}
		h.logger.Warn("student class", zap.String("client_id", cl.ID), zap.Int("class_id", id), zap.Error(err))
		web.Render(c, http.StatusBadGateway, "student_class", gin.H{"Title": "Class", "Error": failMsg})
		return
	}
	web.Render(c, http.StatusOK, "student_class", gin.H{"Title": class.ClassName, "Class": class, "Quizzes": quizzes})
}
