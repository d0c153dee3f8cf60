package controller

import (
	"quickpoll/core/controller"
	"quickpoll/core/errors"
	"quickpoll/core/middleware"
	"quickpoll/modules/availability/dto"
	"quickpoll/modules/availability/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AvailabilityController handles availability block HTTP requests
type AvailabilityController struct {
	controller.BaseController
	AvailabilityService service.AvailabilityServiceInterface
}

func NewAvailabilityController(svc service.AvailabilityServiceInterface) *AvailabilityController {
	return &AvailabilityController{
		BaseController:      controller.NewBaseController(),
		AvailabilityService: svc,
	}
}

// CreateBlock handles POST /availability-blocks
func (c *AvailabilityController) CreateBlock(ctx echo.Context) error {
	ownerID, ok := middleware.UserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateBlockRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.AvailabilityService.CreateBlock(ctx.Request().Context(), ownerID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Availability block created successfully")
}

// GetBlocks handles GET /availability-blocks
func (c *AvailabilityController) GetBlocks(ctx echo.Context) error {
	ownerID, ok := middleware.UserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.AvailabilityService.GetBlocks(ctx.Request().Context(), ownerID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// GetBlock handles GET /availability-blocks/:id
func (c *AvailabilityController) GetBlock(ctx echo.Context) error {
	blockID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid block ID")
	}

	result, appErr := c.AvailabilityService.GetBlockByID(ctx.Request().Context(), blockID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// UpdateBlock handles PUT /availability-blocks/:id
func (c *AvailabilityController) UpdateBlock(ctx echo.Context) error {
	ownerID, ok := middleware.UserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	blockID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid block ID")
	}

	var req dto.UpdateBlockRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.AvailabilityService.UpdateBlock(ctx.Request().Context(), blockID, ownerID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Availability block updated successfully")
}

// DeleteBlock handles DELETE /availability-blocks/:id
func (c *AvailabilityController) DeleteBlock(ctx echo.Context) error {
	ownerID, ok := middleware.UserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	blockID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid block ID")
	}

	if appErr := c.AvailabilityService.DeleteBlock(ctx.Request().Context(), blockID, ownerID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Availability block deleted successfully")
}

// DuplicateBlock handles POST /availability-blocks/:id/duplicate
func (c *AvailabilityController) DuplicateBlock(ctx echo.Context) error {
	ownerID, ok := middleware.UserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	blockID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid block ID")
	}

	result, appErr := c.AvailabilityService.DuplicateBlock(ctx.Request().Context(), blockID, ownerID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Availability block duplicated successfully")
}

// SetDefaultBlock handles POST /availability-blocks/:id/default
func (c *AvailabilityController) SetDefaultBlock(ctx echo.Context) error {
	ownerID, ok := middleware.UserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	blockID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid block ID")
	}

	result, appErr := c.AvailabilityService.SetDefaultBlock(ctx.Request().Context(), blockID, ownerID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Default availability block set")
}

// GetBlockIntervals handles GET /availability-blocks/:id/intervals?month=YYYY-MM&timezone=
func (c *AvailabilityController) GetBlockIntervals(ctx echo.Context) error {
	blockID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid block ID")
	}

	month := ctx.QueryParam("month")
	if month == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Query parameter month is required (YYYY-MM)")
	}
	timezone := ctx.QueryParam("timezone")

	result, appErr := c.AvailabilityService.GetBlockIntervals(ctx.Request().Context(), blockID, month, timezone)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}
