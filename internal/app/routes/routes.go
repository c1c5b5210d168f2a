package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/aits/internal/app/controllers"
	"github.com/yigit/aits/internal/app/models"
	"github.com/yigit/aits/internal/app/models/dto"
	"github.com/yigit/aits/internal/middleware"
	"github.com/yigit/aits/internal/pkg/websocket"
)

// HealthCheck reports whether a backing dependency is reachable
type HealthCheck func(ctx context.Context) error

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	issueController *controllers.IssueController,
	userController *controllers.UserController,
	notificationController *controllers.NotificationController,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
	health HealthCheck,
) {
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/health", healthHandler(health))

	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/profile", authController.GetProfile)

		issues := authenticated.Group("/issues")
		{
			issues.GET("", issueController.ListIssues)
			issues.GET("/stats", issueController.GetIssueStats)
			issues.GET("/:id", issueController.GetIssue)

			issues.POST("", authMiddleware.RoleRequired(models.RoleStudent), issueController.CreateIssue)
			issues.PUT("/:id/assign", authMiddleware.RoleRequired(models.RoleRegistrar), issueController.AssignIssue)
			issues.PUT("/:id/resolve", authMiddleware.RoleRequired(models.RoleLecturer), issueController.ResolveIssue)
		}

		users := authenticated.Group("/users")
		users.Use(authMiddleware.RoleRequired(models.RoleRegistrar))
		{
			users.GET("/lecturers", userController.ListLecturers)
		}

		notifications := authenticated.Group("/notifications")
		{
			notifications.GET("", notificationController.ListNotifications)
			notifications.PUT("/:id/read", notificationController.MarkNotificationRead)
		}

		if wsHandler != nil {
			authenticated.GET("/ws/notifications", wsHandler.HandleConnection)
		}
	}
}

// healthHandler godoc
// @Summary Health check
// @Description Reports whether the API can reach its database
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse "Service healthy"
// @Failure 503 {object} dto.APIResponse "Database unreachable"
// @Router /health [get]
func healthHandler(check HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := check(ctx); err != nil {
				detail := dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Database unreachable")
				c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(detail))
				return
			}
		}

		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}, ""))
	}
}
