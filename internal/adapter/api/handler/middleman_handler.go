package handler

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/usecase"
	"tradepost/pkg/response"
)

type MiddlemanHandler struct {
	middlemanUseCase *usecase.MiddlemanUseCase
}

func NewMiddlemanHandler(middlemanUseCase *usecase.MiddlemanUseCase) *MiddlemanHandler {
	return &MiddlemanHandler{middlemanUseCase: middlemanUseCase}
}

// GetView serves the current handshake display state for the open
// trade conversation.
func (h *MiddlemanHandler) GetView(c echo.Context) error {
	return response.Success(c, h.middlemanUseCase.View())
}

// Request submits this user's half of the handshake. While the
// cooldown runs the use case rejects without a network call, and the
// response carries the remaining wait.
func (h *MiddlemanHandler) Request(c echo.Context) error {
	view, err := h.middlemanUseCase.Request(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, view)
}
