package router

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/adapter/api/handler"
	"tradepost/internal/adapter/api/middleware"
)

func SetupMiddlemanRouter(e *echo.Echo, middlemanHandler *handler.MiddlemanHandler, sessionMiddleware *middleware.SessionMiddleware) {
	group := e.Group("/v1/middleman")
	group.Use(sessionMiddleware.RequireSession)

	group.GET("", middlemanHandler.GetView)
	group.POST("/request", middlemanHandler.Request)
}
