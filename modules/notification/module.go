package notification

import (
	"quickpoll/core/database"
	"quickpoll/core/middleware"
	"quickpoll/modules/notification/controller"
	"quickpoll/modules/notification/repository"
	"quickpoll/modules/notification/router"
	"quickpoll/modules/notification/service"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
)

// Init initializes the notification module and registers routes. The asynq
// client may be nil; notifications are then skipped.
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware, client *asynq.Client) service.NotificationServiceInterface {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo, client)
	ctrl := controller.NewNotificationController(svc)
	rtr := router.NewNotificationRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
