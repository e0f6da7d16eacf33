package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mbpt/peertutor-backend/internal/config"
	"github.com/mbpt/peertutor-backend/internal/handler"
	"github.com/mbpt/peertutor-backend/internal/middleware"
	"github.com/mbpt/peertutor-backend/internal/model"
	"github.com/mbpt/peertutor-backend/internal/response"
	"github.com/mbpt/peertutor-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	Student   *handler.StudentHandler
	Mentor    *handler.MentorHandler
	Classroom *handler.ClassroomHandler
	Session   *handler.SessionHandler
	Report    *handler.ReportHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

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

	requireAdmin := middleware.RequireAdminJWT(authService)
	requireStudent := middleware.RequireStudentJWT(authService)
	requireAny := middleware.RequireJWT(authService)
	// Moderators hold read-only admin tokens; mutations need the full role.
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/admin/login", handlers.Auth.AdminLogin)
		auth.POST("/student/login", handlers.Auth.StudentLogin)

		auth.GET("/admin/me", requireAdmin, handlers.Auth.GetAdminProfile)
		auth.GET("/student/me", requireStudent, handlers.Auth.GetStudentProfile)
	}

	academic := router.Group("/api/v1/academic")
	{
		student := academic.Group("/student")
		{
			student.POST("", requireAny, handlers.Student.CreateStudent)
			student.GET("", requireAdmin, handlers.Student.ListStudents)
			student.GET("/:clerkId", requireAny, handlers.Student.GetStudent)
			student.PUT("/:clerkId", requireAdmin, adminOnly, handlers.Student.UpdateStudent)
			student.DELETE("/:clerkId", requireAdmin, adminOnly, handlers.Student.DeleteStudent)
		}

		mentor := academic.Group("/mentor")
		{
			mentor.POST("", requireAdmin, adminOnly, handlers.Mentor.CreateMentor)
			mentor.GET("/profile/:id", requireAny, handlers.Mentor.GetMentorProfile)
			mentor.GET("/:clerkId", requireAny, handlers.Mentor.GetMentor)
			mentor.PUT("/:id", requireAdmin, adminOnly, handlers.Mentor.UpdateMentor)
			mentor.DELETE("/:clerkId", requireAdmin, adminOnly, handlers.Mentor.DeleteMentor)
		}
		academic.GET("/mentors", requireAny, handlers.Mentor.ListMentors)

		classroom := academic.Group("/classroom")
		{
			classroom.POST("", requireAdmin, adminOnly, handlers.Classroom.CreateClassroom)
			classroom.GET("", requireAny, handlers.Classroom.ListClassrooms)
			classroom.GET("/unassigned", requireAdmin, handlers.Classroom.ListUnassignedClassrooms)
			classroom.GET("/:id", requireAny, handlers.Classroom.GetClassroom)
			classroom.PUT("/:id", requireAdmin, adminOnly, handlers.Classroom.UpdateClassroom)
			classroom.DELETE("/:id", requireAdmin, adminOnly, handlers.Classroom.DeleteClassroom)
		}

		session := academic.Group("/session")
		{
			session.POST("", requireAny, handlers.Session.CreateSession)
			session.GET("", requireAdmin, handlers.Session.ListSessions)
			session.GET("/student/:clerkId", requireStudent, handlers.Session.ListStudentSessions)
			session.GET("/:id", requireAny, handlers.Session.GetSession)
			session.PUT("/:id", requireAdmin, adminOnly, handlers.Session.UpdateSessionStatus)
		}

		report := academic.Group("/report")
		report.Use(requireAdmin)
		{
			report.GET("/audits", handlers.Report.ListAudits)
			report.GET("/payments", handlers.Report.FindMentorPayments)
		}
	}

	return router
}
