package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tradepost/internal/domain/entity"
	"tradepost/internal/usecase"
	"tradepost/pkg/response"
)

type ChatHandler struct {
	surfaceUseCase   *usecase.SurfaceUseCase
	engine           *usecase.MessageSyncUseCase
	directoryUseCase *usecase.DirectoryUseCase
}

func NewChatHandler(surfaceUseCase *usecase.SurfaceUseCase, engine *usecase.MessageSyncUseCase, directoryUseCase *usecase.DirectoryUseCase) *ChatHandler {
	return &ChatHandler{
		surfaceUseCase:   surfaceUseCase,
		engine:           engine,
		directoryUseCase: directoryUseCase,
	}
}

type openConversationRequest struct {
	PeerID    string `json:"peer_id" validate:"required"`
	TradeID   int64  `json:"trade_id"`
	ReportID  int64  `json:"report_id"`
	IsBridged bool   `json:"is_bridged"`
}

type sendMessageRequest struct {
	Content string `json:"content" validate:"required,max=500"`
}

// OpenOverlay opens the chat overlay and starts the directory poll.
func (h *ChatHandler) OpenOverlay(c echo.Context) error {
	if err := h.surfaceUseCase.OpenChatOverlay(); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"status": "open"})
}

// CloseOverlay tears down every chat-related timer.
func (h *ChatHandler) CloseOverlay(c echo.Context) error {
	h.surfaceUseCase.CloseChatOverlay()
	return c.NoContent(http.StatusOK)
}

// OpenConversation selects a conversation and narrows polling to it.
func (h *ChatHandler) OpenConversation(c echo.Context) error {
	var req openConversationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	conv := entity.ActiveConversation{
		ConversationKey: entity.ConversationKey{PeerID: req.PeerID, TradeID: req.TradeID},
		ReportID:        req.ReportID,
		IsBridged:       req.IsBridged,
	}

	if err := h.surfaceUseCase.OpenConversation(c.Request().Context(), conv); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, conv)
}

func (h *ChatHandler) CloseConversation(c echo.Context) error {
	h.surfaceUseCase.CloseConversation()
	return c.NoContent(http.StatusOK)
}

// ListConversations serves the cached directory; the optional search
// term filters client-side without touching the backend.
func (h *ChatHandler) ListConversations(c echo.Context) error {
	search := c.QueryParam("search")
	return response.Success(c, h.directoryUseCase.List(search))
}

// GetMessages serves the active conversation's merged message list.
func (h *ChatHandler) GetMessages(c echo.Context) error {
	return response.Success(c, h.engine.Messages())
}

// SendMessage sends through the engine so the cursor and the local
// list stay consistent with the server-assigned id.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.engine.Send(c.Request().Context(), req.Content)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}
