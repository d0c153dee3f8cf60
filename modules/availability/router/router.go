package router

import (
	"quickpoll/core/middleware"
	"quickpoll/modules/availability/controller"

	"github.com/labstack/echo/v4"
)

// AvailabilityRouter handles availability block routes
type AvailabilityRouter struct {
	AvailabilityController *controller.AvailabilityController
}

func NewAvailabilityRouter(availabilityController *controller.AvailabilityController) *AvailabilityRouter {
	return &AvailabilityRouter{
		AvailabilityController: availabilityController,
	}
}

// Setup registers availability block routes
func (r *AvailabilityRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	blockRoutes := privateRoutes.Group("/availability-blocks", mw.AuthMiddleware())

	blockRoutes.POST("", r.AvailabilityController.CreateBlock)
	blockRoutes.GET("", r.AvailabilityController.GetBlocks)
	blockRoutes.GET("/:id", r.AvailabilityController.GetBlock)
	blockRoutes.PUT("/:id", r.AvailabilityController.UpdateBlock)
	blockRoutes.DELETE("/:id", r.AvailabilityController.DeleteBlock)
	blockRoutes.POST("/:id/duplicate", r.AvailabilityController.DuplicateBlock)
	blockRoutes.POST("/:id/default", r.AvailabilityController.SetDefaultBlock)
	blockRoutes.GET("/:id/intervals", r.AvailabilityController.GetBlockIntervals)
}
