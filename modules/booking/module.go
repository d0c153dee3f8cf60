package booking

import (
	availsvc "quickpoll/modules/availability/service"
	"quickpoll/modules/booking/controller"
	"quickpoll/modules/booking/router"
	"quickpoll/modules/booking/service"
	calservice "quickpoll/modules/calendar/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the booking module and registers routes
func Init(e *echo.Echo, availService availsvc.AvailabilityServiceInterface, busySource calservice.BusySource) service.BookingServiceInterface {
	svc := service.NewBookingService(availService, busySource)
	ctrl := controller.NewBookingController(svc)
	rtr := router.NewBookingRouter(ctrl)

	rtr.Setup(e)
	return svc
}
