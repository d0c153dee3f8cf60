package router

import (
	"quickpoll/core/middleware"
	"quickpoll/modules/poll/controller"

	"github.com/labstack/echo/v4"
)

// PollRouter handles poll routes
type PollRouter struct {
	PollController *controller.PollController
}

func NewPollRouter(pollController *controller.PollController) *PollRouter {
	return &PollRouter{
		PollController: pollController,
	}
}

// Setup registers poll routes. Slug routes are public so invitees can open a
// poll from a shared link; auth on them is optional and only widens visibility.
func (r *PollRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	publicRoutes := v1.Group("/public")
	pollPublic := publicRoutes.Group("/polls", mw.OptionalAuthMiddleware())
	pollPublic.GET("/:slug", r.PollController.GetPoll)
	pollPublic.POST("/:slug/participants", r.PollController.JoinPoll)
	pollPublic.GET("/:slug/availability", r.PollController.GetAvailabilityMap)
	pollPublic.PUT("/:slug/participants/:participantId/selections", r.PollController.SaveSelections)

	privateRoutes := v1.Group("/private")
	pollPrivate := privateRoutes.Group("/polls", mw.AuthMiddleware())
	pollPrivate.POST("", r.PollController.CreatePoll)
	pollPrivate.GET("", r.PollController.GetMyPolls)
	pollPrivate.PUT("/:id", r.PollController.UpdatePoll)
	pollPrivate.DELETE("/:id", r.PollController.DeletePoll)
}
