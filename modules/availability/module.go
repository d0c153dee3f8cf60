package availability

import (
	"quickpoll/core/database"
	"quickpoll/core/middleware"
	"quickpoll/modules/availability/controller"
	"quickpoll/modules/availability/repository"
	"quickpoll/modules/availability/router"
	"quickpoll/modules/availability/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the availability module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) service.AvailabilityServiceInterface {
	repo := repository.NewAvailabilityRepository(db)
	svc := service.NewAvailabilityService(repo)
	ctrl := controller.NewAvailabilityController(svc)
	rtr := router.NewAvailabilityRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
