package controller

import (
	"quickpoll/core/controller"
	"quickpoll/core/errors"
	"quickpoll/core/middleware"
	"quickpoll/modules/calendar/dto"
	"quickpoll/modules/calendar/service"

	"github.com/labstack/echo/v4"
)

// CalendarController handles calendar connection HTTP requests
type CalendarController struct {
	controller.BaseController
	CalendarService service.CalendarServiceInterface
}

func NewCalendarController(svc service.CalendarServiceInterface) *CalendarController {
	return &CalendarController{
		BaseController:  controller.NewBaseController(),
		CalendarService: svc,
	}
}

// ConnectGoogle handles POST /calendar/connections/google
func (c *CalendarController) ConnectGoogle(ctx echo.Context) error {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.ConnectGoogleRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	if req.AccessToken == "" || req.RefreshToken == "" || req.CalendarEmail == "" {
		return c.BadRequest(errors.ErrInvalidInput, "access_token, refresh_token and calendar_email are required")
	}

	result, appErr := c.CalendarService.SaveGoogleConnection(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Calendar connected successfully")
}

// GetConnections handles GET /calendar/connections
func (c *CalendarController) GetConnections(ctx echo.Context) error {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.CalendarService.GetConnections(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// Disconnect handles DELETE /calendar/connections/:provider
func (c *CalendarController) Disconnect(ctx echo.Context) error {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	provider := ctx.Param("provider")
	if provider == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Provider is required")
	}

	if appErr := c.CalendarService.DisconnectCalendar(ctx.Request().Context(), userID, provider); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Calendar disconnected successfully")
}
