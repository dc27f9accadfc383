package handler

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"tradepost/internal/infrastructure/hub"
	"tradepost/pkg/logger"
)

// Local-only surface; UI shells connect from localhost or file://.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type EventsHandler struct {
	eventHub *hub.Hub
}

func NewEventsHandler(eventHub *hub.Hub) *EventsHandler {
	return &EventsHandler{eventHub: eventHub}
}

// Stream upgrades to a WebSocket and pushes hub events to the attached
// surface until it disconnects. Events are hints ("state changed"); the
// surface re-reads the state endpoints for the data itself.
func (h *EventsHandler) Stream(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	sub := h.eventHub.Subscribe()

	// Read pump: we expect nothing from the client, but reading is how
	// we learn about disconnects.
	go func() {
		defer h.eventHub.Unsubscribe(sub)
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Debug("Events client %s read error: %v", sub.ID, err)
				}
				return
			}
		}
	}()

	for event := range sub.Send {
		if err := conn.WriteJSON(event); err != nil {
			logger.Debug("Events client %s write error: %v", sub.ID, err)
			break
		}
	}

	conn.Close()
	return nil
}
