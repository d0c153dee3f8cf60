package controller

import (
	"quickpoll/core/controller"
	"quickpoll/core/errors"
	"quickpoll/core/middleware"
	"quickpoll/modules/notification/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// NotificationController handles notification HTTP requests
type NotificationController struct {
	controller.BaseController
	NotificationService service.NotificationServiceInterface
}

func NewNotificationController(svc service.NotificationServiceInterface) *NotificationController {
	return &NotificationController{
		BaseController:      controller.NewBaseController(),
		NotificationService: svc,
	}
}

// GetNotifications handles GET /notifications
func (c *NotificationController) GetNotifications(ctx echo.Context) error {
	email := middleware.UserEmail(ctx)
	if email == "" {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.NotificationService.GetNotifications(ctx.Request().Context(), email)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// MarkAsRead handles POST /notifications/:id/read
func (c *NotificationController) MarkAsRead(ctx echo.Context) error {
	email := middleware.UserEmail(ctx)
	if email == "" {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid notification ID")
	}

	if appErr := c.NotificationService.MarkAsRead(ctx.Request().Context(), id, email); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Notification marked as read")
}
