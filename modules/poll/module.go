package poll

import (
	"quickpoll/core/cache"
	"quickpoll/core/database"
	"quickpoll/core/middleware"
	notifservice "quickpoll/modules/notification/service"
	"quickpoll/modules/poll/controller"
	"quickpoll/modules/poll/repository"
	"quickpoll/modules/poll/router"
	"quickpoll/modules/poll/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the poll module and registers routes
func Init(
	e *echo.Echo,
	db database.Database,
	mw *middleware.Middleware,
	c *cache.Cache,
	notifService notifservice.NotificationServiceInterface,
) service.PollServiceInterface {
	repo := repository.NewPollRepository(db)
	svc := service.NewPollService(repo, c, notifService)
	ctrl := controller.NewPollController(svc)
	rtr := router.NewPollRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
