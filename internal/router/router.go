package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sgeduc/sge-backend/internal/config"
	"github.com/sgeduc/sge-backend/internal/handler"
	"github.com/sgeduc/sge-backend/internal/middleware"
	"github.com/sgeduc/sge-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Subject  *handler.SubjectHandler
	Cohort   *handler.CohortHandler
	Schedule *handler.ScheduleHandler
	Grid     *handler.GridHandler
	WS       *handler.WSHandler
	System   *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	validator *middleware.TokenValidator,
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

	// Health check (public, for load balancers and uptime probes).
	router.GET("/api/v1/health", handlers.System.Health)

	// Rate limiter for mutation routes (120 requests per minute per IP).
	writeLimiter := middleware.NewRateLimiter(120, time.Minute)

	// Write access is coordinator-only; reads are open to every role.
	coordinatorOnly := middleware.RequireRole(middleware.RoleCoordinator)
	anyRole := middleware.RequireRole(
		middleware.RoleCoordinator, middleware.RoleTeacher, middleware.RoleStudent,
	)

	// ─── 1. School-Scoped Group (JWT + School Match) ───────────────────
	schoolAPI := router.Group("/api/v1/schools/:schoolId")
	schoolAPI.Use(middleware.RequireJWT(validator), middleware.RequireSchool())
	{
		schoolAPI.GET("/subjects", anyRole, handlers.Subject.List)
		schoolAPI.POST("/subjects", coordinatorOnly, writeLimiter.Middleware(), handlers.Subject.Create)

		schoolAPI.GET("/cohorts", anyRole, handlers.Cohort.List)
		schoolAPI.POST("/cohorts", coordinatorOnly, writeLimiter.Middleware(), handlers.Cohort.Create)

		schoolAPI.GET("/schedule/lesson-counts", anyRole, handlers.Schedule.SubjectLessonCounts)
		schoolAPI.GET("/schedule/rooms", anyRole, handlers.Schedule.ListRooms)
	}

	// ─── 2. Resource Group (JWT) ───────────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.RequireJWT(validator))
	{
		// Subject catalog
		api.GET("/subjects/:id", anyRole, handlers.Subject.Get)
		api.PUT("/subjects/:id/prerequisites", coordinatorOnly, writeLimiter.Middleware(), handlers.Subject.SetPrerequisites)
		api.POST("/subjects/:id/deactivate", coordinatorOnly, handlers.Subject.Deactivate)
		api.POST("/subjects/:id/reactivate", coordinatorOnly, handlers.Subject.Reactivate)

		// Cohorts and enrollment
		api.GET("/cohorts/:id", anyRole, handlers.Cohort.Get)
		api.GET("/cohorts/:id/enrollments", anyRole, handlers.Cohort.ListEnrollments)
		api.POST("/cohorts/:id/enrollments", coordinatorOnly, writeLimiter.Middleware(), handlers.Cohort.Enroll)
		api.DELETE("/cohorts/:id/enrollments/:studentId", coordinatorOnly, handlers.Cohort.Unenroll)
		api.POST("/cohorts/:id/deactivate", coordinatorOnly, handlers.Cohort.Deactivate)
		api.POST("/cohorts/:id/reactivate", coordinatorOnly, handlers.Cohort.Reactivate)

		// Schedule engine
		api.GET("/schedule/slots/:id", anyRole, handlers.Schedule.Get)
		api.POST("/schedule/slots", coordinatorOnly, writeLimiter.Middleware(), handlers.Schedule.Propose)
		api.POST("/schedule/slots/:id/cancel", coordinatorOnly, handlers.Schedule.Cancel)
		api.POST("/schedule/slots/:id/reactivate", coordinatorOnly, writeLimiter.Middleware(), handlers.Schedule.Reactivate)

		// Grid projections tolerate 30s of staleness.
		api.GET("/cohorts/:id/grid", anyRole, middleware.CacheControl(30), handlers.Grid.CohortGrid)
		api.GET("/teachers/:id/grid", anyRole, middleware.CacheControl(30), handlers.Grid.TeacherGrid)
		api.GET("/teachers/:id/workload", anyRole, handlers.Schedule.TeacherWorkload)
	}

	// ─── 3. WebSocket Group (WS Auth via ?token=) ──────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(validator))
	{
		ws.GET("/schedule/stream", handlers.WS.ScheduleEventStream)
	}

	return router
}
