package router

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/adapter/api/handler"
)

// SetupEventsRouter wires the WebSocket event feed. Left outside the
// session middleware so surfaces can attach before login and observe
// the session events themselves.
func SetupEventsRouter(e *echo.Echo, eventsHandler *handler.EventsHandler) {
	e.GET("/v1/events", eventsHandler.Stream)
}
