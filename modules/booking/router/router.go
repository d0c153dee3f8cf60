package router

import (
	"quickpoll/modules/booking/controller"

	"github.com/labstack/echo/v4"
)

// BookingRouter handles public booking routes
type BookingRouter struct {
	BookingController *controller.BookingController
}

func NewBookingRouter(bookingController *controller.BookingController) *BookingRouter {
	return &BookingRouter{
		BookingController: bookingController,
	}
}

// Setup registers booking routes. No auth: the booking page is a shared link.
func (r *BookingRouter) Setup(e *echo.Echo) {
	v1 := e.Group("/api/v1")
	publicRoutes := v1.Group("/public")

	bookingRoutes := publicRoutes.Group("/booking")
	bookingRoutes.GET("/:ownerId/availability", r.BookingController.GetOwnerAvailability)
}
