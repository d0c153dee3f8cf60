package router

import (
	"quickpoll/core/middleware"
	"quickpoll/modules/notification/controller"

	"github.com/labstack/echo/v4"
)

// NotificationRouter handles notification routes
type NotificationRouter struct {
	NotificationController *controller.NotificationController
}

func NewNotificationRouter(notificationController *controller.NotificationController) *NotificationRouter {
	return &NotificationRouter{
		NotificationController: notificationController,
	}
}

// Setup registers notification routes
func (r *NotificationRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	notificationRoutes := privateRoutes.Group("/notifications", mw.AuthMiddleware())

	notificationRoutes.GET("", r.NotificationController.GetNotifications)
	notificationRoutes.POST("/:id/read", r.NotificationController.MarkAsRead)
}
