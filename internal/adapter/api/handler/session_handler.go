package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tradepost/internal/usecase"
	"tradepost/pkg/response"
)

type SessionHandler struct {
	surfaceUseCase *usecase.SurfaceUseCase
}

func NewSessionHandler(surfaceUseCase *usecase.SurfaceUseCase) *SessionHandler {
	return &SessionHandler{surfaceUseCase: surfaceUseCase}
}

type loginRequest struct {
	Token string `json:"token" validate:"required"`
}

// Login hands the daemon a backend session token and starts the
// always-on poll tasks.
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.surfaceUseCase.Login(req.Token); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "logged_in"})
}

// Logout stops every poll task and clears all synchronized state.
func (h *SessionHandler) Logout(c echo.Context) error {
	h.surfaceUseCase.Logout()
	return c.NoContent(http.StatusOK)
}
