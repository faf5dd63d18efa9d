package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/quizdesk/quizdesk-backend/internal/config"
	"github.com/quizdesk/quizdesk-backend/internal/handler"
	"github.com/quizdesk/quizdesk-backend/internal/middleware"
	"github.com/quizdesk/quizdesk-backend/internal/response"
	"github.com/quizdesk/quizdesk-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth          *handler.AuthHandler
	StudentPortal *handler.StudentPortalHandler
	StudentMgmt   *handler.StudentManagementHandler
	Quiz          *handler.QuizHandler
	Question      *handler.QuestionHandler
	Internship    *handler.InternshipHandler
	WS            *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for the unauthenticated surface (1 req/s, burst 20 per IP).
	publicLimiter := middleware.NewRateLimiter(1, 20)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(publicLimiter.Middleware())
	{
		auth.POST("/student/register", handlers.Auth.RegisterStudent)
		auth.POST("/student/login", handlers.Auth.StudentLogin)
		auth.POST("/admin/login", handlers.Auth.AdminLogin)

		// Authenticated profile routes
		auth.POST("/student/logout", middleware.RequireStudentJWT(authService), handlers.Auth.StudentLogout)
		auth.GET("/student/me", middleware.RequireStudentJWT(authService), handlers.Auth.GetStudentProfile)
		auth.GET("/admin/me", middleware.RequireAdminJWT(authService), handlers.Auth.GetAdminProfile)
	}

	// ─── 2. Student Group (JWT + Single Device) ────────────────────────
	studentAPI := router.Group("/api/v1")
	studentAPI.Use(middleware.RequireStudentJWT(authService))
	{
		studentAPI.GET("/quizzes/:quiz_id", handlers.StudentPortal.GetQuiz)
		studentAPI.POST("/attempts/start", handlers.StudentPortal.StartAttempt)
		studentAPI.POST("/attempts/complete", handlers.StudentPortal.CompleteAttempt)
		studentAPI.POST("/attempts/answers", handlers.StudentPortal.SaveAnswer)
		studentAPI.PUT("/attempts/answers", handlers.StudentPortal.UpdateAnswer)
		studentAPI.GET("/attempts/:attempt_id/state", handlers.StudentPortal.GetAttemptState)
	}

	// ─── 3. Internship Group (Public, Rate Limited) ────────────────────
	internship := router.Group("/api/v1/internship")
	internship.Use(publicLimiter.Middleware())
	{
		internship.GET("/verify/:token", handlers.Internship.VerifyToken)
		internship.POST("/accept", handlers.Internship.AcceptOffer)
	}

	// ─── 4. WebSocket Group (Student WS Auth) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireStudentWSAuth(authService))
	{
		ws.GET("/quizzes/:quiz_id/stream", handlers.WS.AttemptStream)
	}

	// ─── 5. Admin Group (JWT) ──────────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		// Quiz management
		adminAPI.GET("/quizzes", handlers.Quiz.ListQuizzes)
		adminAPI.POST("/quizzes", handlers.Quiz.CreateQuiz)
		adminAPI.GET("/quizzes/:quiz_id", handlers.Quiz.GetQuiz)
		adminAPI.PUT("/quizzes/:quiz_id", handlers.Quiz.UpdateQuiz)
		adminAPI.DELETE("/quizzes/:quiz_id", handlers.Quiz.DeleteQuiz)
		adminAPI.PATCH("/quizzes/:quiz_id/status", handlers.Quiz.ToggleQuizStatus)
		adminAPI.POST("/quizzes/:quiz_id/duplicate", handlers.Quiz.DuplicateQuiz)
		adminAPI.GET("/quizzes/:quiz_id/results", handlers.Quiz.GetQuizResults)

		// Question management
		adminAPI.GET("/quizzes/:quiz_id/questions", handlers.Question.ListQuestions)
		adminAPI.POST("/quizzes/:quiz_id/questions", handlers.Question.AddQuestion)
		adminAPI.PUT("/quizzes/:quiz_id/questions/:question_id", handlers.Question.UpdateQuestion)
		adminAPI.DELETE("/quizzes/:quiz_id/questions/:question_id", handlers.Question.DeleteQuestion)

		// Student management
		adminAPI.GET("/students", handlers.StudentMgmt.ListStudents)
		adminAPI.POST("/students", handlers.StudentMgmt.CreateStudent)
		adminAPI.GET("/students/:id", handlers.StudentMgmt.GetStudent)
		adminAPI.PUT("/students/:id", handlers.StudentMgmt.UpdateStudent)
		adminAPI.DELETE("/students/:id", handlers.StudentMgmt.DeleteStudent)
		adminAPI.POST("/students/:id/reset-session", handlers.StudentMgmt.ResetStudentSession)

		// Offer campaigns
		adminAPI.GET("/campaigns", handlers.Internship.ListCampaigns)
		adminAPI.POST("/campaigns", handlers.Internship.CreateCampaign)
		adminAPI.GET("/campaigns/:campaign_id", handlers.Internship.GetCampaign)
	}

	return router
}
