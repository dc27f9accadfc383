package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"tradepost/internal/usecase"
	"tradepost/pkg/errors"
	"tradepost/pkg/response"
)

type NotificationHandler struct {
	surfaceUseCase    *usecase.SurfaceUseCase
	reconcilerUseCase *usecase.ReconcilerUseCase
}

func NewNotificationHandler(surfaceUseCase *usecase.SurfaceUseCase, reconcilerUseCase *usecase.ReconcilerUseCase) *NotificationHandler {
	return &NotificationHandler{
		surfaceUseCase:    surfaceUseCase,
		reconcilerUseCase: reconcilerUseCase,
	}
}

func (h *NotificationHandler) OpenPanel(c echo.Context) error {
	if err := h.surfaceUseCase.OpenNotificationsPanel(); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"status": "open"})
}

func (h *NotificationHandler) ClosePanel(c echo.Context) error {
	h.surfaceUseCase.CloseNotificationsPanel()
	return c.NoContent(http.StatusOK)
}

func (h *NotificationHandler) GetFeed(c echo.Context) error {
	return response.Success(c, h.reconcilerUseCase.Feed())
}

func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	return response.Success(c, map[string]int{"count": h.reconcilerUseCase.Count()})
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.Error(c, errors.BadRequest("Invalid notification id", err))
	}

	if err := h.reconcilerUseCase.MarkRead(c.Request().Context(), id); err != nil {
		return response.Error(c, err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	if err := h.reconcilerUseCase.MarkAllRead(c.Request().Context()); err != nil {
		return response.Error(c, err)
	}
	return c.NoContent(http.StatusOK)
}
