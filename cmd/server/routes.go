package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eureka-quiz/web/internal/attempt"
	"github.com/eureka-quiz/web/internal/auth"
	"github.com/eureka-quiz/web/internal/classes"
	"github.com/eureka-quiz/web/internal/clients"
	"github.com/eureka-quiz/web/internal/enrollment"
	"github.com/eureka-quiz/web/internal/middleware"
	"github.com/eureka-quiz/web/internal/models"
	"github.com/eureka-quiz/web/internal/profile"
	"github.com/eureka-quiz/web/internal/questions"
	"github.com/eureka-quiz/web/internal/quizzes"
	"github.com/eureka-quiz/web/internal/quiztaking"
	"github.com/eureka-quiz/web/internal/web"
	"github.com/eureka-quiz/web/pkg/response"
)

// routerDeps is what the router needs from main.
type routerDeps struct {
	Registry    *clients.Registry
	Tokens      *clients.TokenService
	Cookie      middleware.CookieOptions
	CORSOrigins string
	Quiz        attempt.Options
	// Healthy checks the client storage; nil means always healthy.
	Healthy func(ctx context.Context) error
	Logger  *zap.Logger
}

func newRouter(d routerDeps) *gin.Engine {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(d.CORSOrigins))
	router.Use(middleware.Logger(logger))
	router.SetHTMLTemplate(web.MustTemplates())

	// Health (no client identity)
	router.GET("/health", func(c *gin.Context) {
		if d.Healthy != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := d.Healthy(ctx); err != nil {
				response.ServiceUnavailable(c, "storage unavailable")
				return
			}
		}
		response.OK(c, gin.H{"status": "ok", "clients": d.Registry.Len()})
	})

	authHandler := auth.NewHandler(logger)
	classHandler := classes.NewHandler(logger)
	enrollHandler := enrollment.NewHandler(logger)
	quizHandler := quizzes.NewHandler(logger)
	questionHandler := questions.NewHandler(logger)
	takeHandler := quiztaking.NewHandler(d.Quiz, logger)
	teacherProfile := profile.NewHandler("/profile", logger)
	studentProfile := profile.NewHandler("/profile/student", logger)

	app := router.Group("")
	app.Use(middleware.Client(d.Registry, d.Tokens, d.Cookie, logger))

	// Public
	app.GET("/", authHandler.Root)
	app.GET("/login", authHandler.LoginPage)
	app.POST("/login", authHandler.Login)
	app.POST("/login/google", authHandler.GoogleLogin)
	app.GET("/signup", authHandler.SignupPage)
	app.POST("/signup", authHandler.Signup)
	app.POST("/logout", authHandler.Logout)

	// Student views
	student := app.Group("")
	student.Use(middleware.RequireRole(models.RoleStudent))
	{
		student.GET("/student-dashboard", enrollHandler.Dashboard)
		student.POST("/student-dashboard/join", enrollHandler.Join)
		student.GET("/student-courses", enrollHandler.Courses)
		student.GET("/student-classes/:id", enrollHandler.Class)

		student.GET("/quiz-details/:quizId", takeHandler.Take)
		student.POST("/quiz-details/:quizId/answers", takeHandler.Answer)
		student.POST("/quiz-details/:quizId/submit", takeHandler.Submit)
		student.POST("/quiz-details/:quizId/visibility", takeHandler.Visibility)
		student.POST("/quiz-details/:quizId/leave", takeHandler.Leave)
		student.GET("/ws/quiz/:quizId", takeHandler.Watch)

		mountProfile(student, studentProfile)
	}

	// Teacher views
	teacher := app.Group("")
	teacher.Use(middleware.RequireRole(models.RoleTeacher))
	{
		teacher.GET("/teacher-dashboard", classHandler.Dashboard)
		teacher.POST("/teacher-dashboard/classes", classHandler.Create)
		teacher.GET("/teacher-classes/:id", classHandler.Details)
		teacher.POST("/teacher-classes/:id", classHandler.Update)
		teacher.POST("/teacher-classes/:id/invite", classHandler.Invite)
		teacher.POST("/teacher-classes/:id/remove", classHandler.Remove)

		teacher.GET("/quizzes", quizHandler.Board)
		teacher.POST("/quizzes", quizHandler.Create)
		teacher.GET("/teacher/quiz-details/:quizId", quizHandler.Details)
		teacher.POST("/teacher/quiz-details/:quizId/questions", quizHandler.Link)

		teacher.GET("/questions", questionHandler.List)
		teacher.POST("/questions", questionHandler.Create)
		teacher.GET("/questions/:id/edit", questionHandler.EditPage)
		teacher.POST("/questions/:id", questionHandler.Update)
		teacher.POST("/questions/:id/delete", questionHandler.Delete)

		mountProfile(teacher, teacherProfile)
	}

	router.NoRoute(middleware.Client(d.Registry, d.Tokens, d.Cookie, logger), func(c *gin.Context) {
		web.Error(c, http.StatusNotFound, "Page not found.")
	})
	return router
}

func mountProfile(g *gin.RouterGroup, h *profile.Handler) {
	g.GET(h.Base(), h.Show)
	g.POST(h.Base()+"/update", h.Update)
	g.POST(h.Base()+"/password", h.Password)
}
