package router

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/adapter/api/handler"
	"tradepost/internal/adapter/api/middleware"
)

// SetupChatRouter wires the chat overlay surface: overlay and
// conversation lifecycle, the cached directory, and the message list.
func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, sessionMiddleware *middleware.SessionMiddleware) {
	chatGroup := e.Group("/v1")
	chatGroup.Use(sessionMiddleware.RequireSession)

	chatGroup.POST("/overlay/chat", chatHandler.OpenOverlay)
	chatGroup.DELETE("/overlay/chat", chatHandler.CloseOverlay)

	chatGroup.POST("/conversations/open", chatHandler.OpenConversation)
	chatGroup.DELETE("/conversations/open", chatHandler.CloseConversation)
	chatGroup.GET("/conversations", chatHandler.ListConversations)

	chatGroup.GET("/messages", chatHandler.GetMessages)
	chatGroup.POST("/messages", chatHandler.SendMessage)
}
