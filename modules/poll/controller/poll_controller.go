package controller

import (
	"quickpoll/core/controller"
	"quickpoll/core/errors"
	"quickpoll/core/middleware"
	"quickpoll/modules/poll/dto"
	"quickpoll/modules/poll/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// PollController handles poll HTTP requests
type PollController struct {
	controller.BaseController
	PollService service.PollServiceInterface
}

func NewPollController(svc service.PollServiceInterface) *PollController {
	return &PollController{
		BaseController: controller.NewBaseController(),
		PollService:    svc,
	}
}

// CreatePoll handles POST /polls
func (c *PollController) CreatePoll(ctx echo.Context) error {
	hostID, ok := middleware.UserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreatePollRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	if req.Title == "" || req.Timezone == "" {
		return c.BadRequest(errors.ErrInvalidInput, "title and timezone are required")
	}

	result, appErr := c.PollService.CreatePoll(ctx.Request().Context(), hostID, middleware.UserEmail(ctx), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Poll created successfully")
}

// GetMyPolls handles GET /polls
func (c *PollController) GetMyPolls(ctx echo.Context) error {
	hostID, ok := middleware.UserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.PollService.GetMyPolls(ctx.Request().Context(), hostID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// GetPoll handles GET /polls/:slug (public)
func (c *PollController) GetPoll(ctx echo.Context) error {
	slug := ctx.Param("slug")
	if slug == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Poll slug is required")
	}

	result, appErr := c.PollService.GetPollBySlug(ctx.Request().Context(), slug, viewerFromRequest(ctx))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// UpdatePoll handles PUT /polls/:id
func (c *PollController) UpdatePoll(ctx echo.Context) error {
	hostID, ok := middleware.UserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	pollID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid poll ID")
	}

	var req dto.UpdatePollRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.PollService.UpdatePoll(ctx.Request().Context(), pollID, hostID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Poll updated successfully")
}

// DeletePoll handles DELETE /polls/:id
func (c *PollController) DeletePoll(ctx echo.Context) error {
	hostID, ok := middleware.UserID(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	pollID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid poll ID")
	}

	if appErr := c.PollService.DeletePoll(ctx.Request().Context(), pollID, hostID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Poll deleted successfully")
}

// JoinPoll handles POST /polls/:slug/participants (public)
func (c *PollController) JoinPoll(ctx echo.Context) error {
	slug := ctx.Param("slug")
	if slug == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Poll slug is required")
	}

	var req dto.JoinPollRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	if req.Name == "" {
		return c.BadRequest(errors.ErrInvalidInput, "name is required")
	}
	if req.AccountAddress == "" {
		req.AccountAddress = middleware.UserEmail(ctx)
	}

	result, appErr := c.PollService.JoinPoll(ctx.Request().Context(), slug, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Joined poll successfully")
}

// GetAvailabilityMap handles GET /polls/:slug/availability?month=YYYY-MM&timezone= (public)
func (c *PollController) GetAvailabilityMap(ctx echo.Context) error {
	slug := ctx.Param("slug")
	if slug == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Poll slug is required")
	}

	month := ctx.QueryParam("month")
	if month == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Query parameter month is required (YYYY-MM)")
	}

	result, appErr := c.PollService.GetAvailabilityMap(
		ctx.Request().Context(), slug, month, ctx.QueryParam("timezone"), viewerFromRequest(ctx))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// SaveSelections handles PUT /polls/:slug/participants/:participantId/selections (public)
func (c *PollController) SaveSelections(ctx echo.Context) error {
	slug := ctx.Param("slug")
	if slug == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Poll slug is required")
	}

	participantID, err := uuid.Parse(ctx.Param("participantId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid participant ID")
	}

	var req dto.SaveSelectionsRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	if req.Month == "" {
		return c.BadRequest(errors.ErrInvalidInput, "month is required (YYYY-MM)")
	}

	result, appErr := c.PollService.SaveParticipantSelections(ctx.Request().Context(), slug, participantID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Selections saved successfully")
}

// viewerFromRequest builds the viewer identity from the JWT when present,
// else from guest query parameters.
func viewerFromRequest(ctx echo.Context) service.Viewer {
	viewer := service.Viewer{
		AccountAddress: middleware.UserEmail(ctx),
		GuestEmail:     ctx.QueryParam("guest_email"),
	}
	if raw := ctx.QueryParam("participant_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			viewer.ParticipantID = &id
		}
	}
	return viewer
}
