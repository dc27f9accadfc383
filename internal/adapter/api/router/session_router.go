package router

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/adapter/api/handler"
)

// SetupSessionRouter wires the login/logout boundary. These are the
// only endpoints usable without an active session.
func SetupSessionRouter(e *echo.Echo, sessionHandler *handler.SessionHandler) {
	e.POST("/v1/session", sessionHandler.Login)
	e.DELETE("/v1/session", sessionHandler.Logout)
}
