package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/horario-api/internal/middleware"
	"github.com/campushq/horario-api/internal/models"
	"github.com/campushq/horario-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth            *AuthHandler
	User            *UserHandler
	Program         *ProgramHandler
	Course          *CourseHandler
	Room            *RoomHandler
	Schedule        *ScheduleHandler
	Enrollment      *EnrollmentHandler
	Notification    *NotificationHandler
	Preference      *PreferenceHandler
	StudentSchedule *StudentScheduleHandler
	Metrics         *MetricsHandler
	Discovery       *DiscoveryHandler
}

// RegisterRoutes mounts every endpoint under the API prefix. Authorization
// lives here, in one table, rather than scattered through the handlers:
// each protected group names the roles it admits.
func RegisterRoutes(r *gin.Engine, prefix string, authService *service.AuthService, h Handlers) {
	api := r.Group(prefix)

	// Public surface: discovery index and auth.
	api.GET("", h.Discovery.Index)
	auth := api.Group("/auth")
	{
		auth.POST("/token", h.Auth.Login)
		auth.POST("/token/refresh", h.Auth.Refresh)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(authService))

	// User administration: coordinators manage accounts, users read themselves.
	users := protected.Group("/users")
	{
		users.GET("", middleware.RequireRoles(models.RoleCoordinator), h.User.List)
		users.POST("", middleware.RequireRoles(models.RoleCoordinator), h.User.Create)
		users.GET("/:id", middleware.RBAC(string(models.RoleCoordinator), middleware.SelfRole), h.User.Get)
		users.PUT("/:id", middleware.RequireRoles(models.RoleCoordinator), h.User.Update)
		users.DELETE("/:id", middleware.RequireRoles(models.RoleCoordinator), h.User.Delete)
	}

	// Catalog entities: any authenticated user reads, coordinators write.
	programs := protected.Group("/programs")
	{
		programs.GET("", h.Program.List)
		programs.GET("/:id", h.Program.Get)
		programs.POST("", middleware.RequireRoles(models.RoleCoordinator), h.Program.Create)
		programs.PUT("/:id", middleware.RequireRoles(models.RoleCoordinator), h.Program.Update)
		programs.DELETE("/:id", middleware.RequireRoles(models.RoleCoordinator), h.Program.Delete)
	}

	courses := protected.Group("/courses")
	{
		courses.GET("", h.Course.List)
		courses.GET("/search", h.Course.Search)
		courses.GET("/:id", h.Course.Get)
		courses.POST("", middleware.RequireRoles(models.RoleCoordinator), h.Course.Create)
		courses.PUT("/:id", middleware.RequireRoles(models.RoleCoordinator), h.Course.Update)
		courses.DELETE("/:id", middleware.RequireRoles(models.RoleCoordinator), h.Course.Delete)
	}

	rooms := protected.Group("/rooms")
	{
		rooms.GET("", h.Room.List)
		rooms.GET("/:id", h.Room.Get)
		rooms.POST("", middleware.RequireRoles(models.RoleCoordinator), h.Room.Create)
		rooms.PUT("/:id", middleware.RequireRoles(models.RoleCoordinator), h.Room.Update)
		rooms.DELETE("/:id", middleware.RequireRoles(models.RoleCoordinator), h.Room.Delete)
	}

	// Schedule writes are open to coordinators and managers.
	schedules := protected.Group("/schedules")
	{
		schedules.GET("", h.Schedule.List)
		schedules.GET("/:id", h.Schedule.Get)
		schedules.POST("", middleware.RequireRoles(models.RoleCoordinator, models.RoleManager), h.Schedule.Create)
		schedules.PUT("/:id", middleware.RequireRoles(models.RoleCoordinator, models.RoleManager), h.Schedule.Update)
		schedules.DELETE("/:id", middleware.RequireRoles(models.RoleCoordinator, models.RoleManager), h.Schedule.Delete)
	}

	enrollments := protected.Group("/enrollments")
	{
		enrollments.GET("", h.Enrollment.List)
		enrollments.GET("/:id", h.Enrollment.Get)
		enrollments.POST("", middleware.RequireRoles(models.RoleStudent), h.Enrollment.Create)
		enrollments.DELETE("/:id", middleware.RequireRoles(models.RoleCoordinator, models.RoleStudent), h.Enrollment.Delete)
	}

	notifications := protected.Group("/notifications")
	{
		notifications.GET("/receipts", h.Notification.ListReceipts)
		notifications.POST("/receipts/:id/read", h.Notification.MarkReceiptRead)
		notifications.POST("/bulk-send", middleware.RequireRoles(models.RoleManager), h.Notification.BulkSend)
		notifications.GET("", h.Notification.List)
		notifications.GET("/:id", h.Notification.Get)
		notifications.POST("", middleware.RequireRoles(models.RoleCoordinator, models.RoleManager), h.Notification.Create)
		notifications.DELETE("/:id", middleware.RequireRoles(models.RoleCoordinator, models.RoleManager), h.Notification.Delete)
	}

	preferences := protected.Group("/preferences")
	{
		preferences.GET("", h.Preference.Get)
		preferences.POST("/dark-theme", h.Preference.ToggleDarkTheme)
	}

	student := protected.Group("/student")
	student.Use(middleware.RequireRoles(models.RoleStudent))
	{
		student.GET("/schedules", h.StudentSchedule.List)
		student.GET("/schedules/export", h.StudentSchedule.Export)
	}

	protected.GET("/ops/metrics", middleware.RequireRoles(models.RoleCoordinator), h.Metrics.Snapshot)

	r.GET("/metrics", h.Metrics.Prometheus)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
}
