package router

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/adapter/api/handler"
	"tradepost/internal/adapter/api/middleware"
)

func SetupNotificationRouter(e *echo.Echo, notificationHandler *handler.NotificationHandler, sessionMiddleware *middleware.SessionMiddleware) {
	group := e.Group("/v1")
	group.Use(sessionMiddleware.RequireSession)

	group.POST("/overlay/notifications", notificationHandler.OpenPanel)
	group.DELETE("/overlay/notifications", notificationHandler.ClosePanel)

	group.GET("/notifications", notificationHandler.GetFeed)
	group.GET("/unread", notificationHandler.GetUnreadCount)
	group.PUT("/notifications/:id/read", notificationHandler.MarkRead)
	group.PUT("/notifications/read-all", notificationHandler.MarkAllRead)
}
