package controller

import (
	"quickpoll/core/controller"
	"quickpoll/core/errors"
	"quickpoll/modules/booking/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// BookingController handles public booking page HTTP requests
type BookingController struct {
	controller.BaseController
	BookingService service.BookingServiceInterface
}

func NewBookingController(svc service.BookingServiceInterface) *BookingController {
	return &BookingController{
		BaseController: controller.NewBaseController(),
		BookingService: svc,
	}
}

// GetOwnerAvailability handles GET /booking/:ownerId/availability?month=YYYY-MM&timezone=
func (c *BookingController) GetOwnerAvailability(ctx echo.Context) error {
	ownerID, err := uuid.Parse(ctx.Param("ownerId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid owner ID")
	}

	month := ctx.QueryParam("month")
	if month == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Query parameter month is required (YYYY-MM)")
	}

	result, appErr := c.BookingService.GetOwnerAvailability(
		ctx.Request().Context(), ownerID, month, ctx.QueryParam("timezone"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}
