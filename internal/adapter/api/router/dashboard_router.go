package router

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/adapter/api/handler"
	"tradepost/internal/adapter/api/middleware"
)

func SetupDashboardRouter(e *echo.Echo, dashboardHandler *handler.DashboardHandler, sessionMiddleware *middleware.SessionMiddleware) {
	group := e.Group("/v1")
	group.Use(sessionMiddleware.RequireSession)

	group.GET("/broadcasts", dashboardHandler.GetBroadcasts)
	group.GET("/dashboard", dashboardHandler.GetSummary)
}
