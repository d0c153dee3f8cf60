package calendar

import (
	"quickpoll/core/config"
	"quickpoll/core/database"
	"quickpoll/core/middleware"
	"quickpoll/modules/calendar/controller"
	"quickpoll/modules/calendar/repository"
	"quickpoll/modules/calendar/router"
	"quickpoll/modules/calendar/service"

	"github.com/labstack/echo/v4"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Init initializes the calendar module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware, cfg *config.Config) service.CalendarServiceInterface {
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"https://www.googleapis.com/auth/calendar.readonly"},
	}

	repo := repository.NewCalendarRepository(db)
	svc := service.NewCalendarService(repo, oauthCfg)
	ctrl := controller.NewCalendarController(svc)
	rtr := router.NewCalendarRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
