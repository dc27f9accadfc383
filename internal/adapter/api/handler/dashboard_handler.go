package handler

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/usecase"
	"tradepost/pkg/response"
)

type DashboardHandler struct {
	broadcastUseCase *usecase.BroadcastUseCase
	dashboardUseCase *usecase.DashboardUseCase
}

func NewDashboardHandler(broadcastUseCase *usecase.BroadcastUseCase, dashboardUseCase *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{
		broadcastUseCase: broadcastUseCase,
		dashboardUseCase: dashboardUseCase,
	}
}

func (h *DashboardHandler) GetBroadcasts(c echo.Context) error {
	return response.Success(c, h.broadcastUseCase.Feed())
}

func (h *DashboardHandler) GetSummary(c echo.Context) error {
	return response.Success(c, h.dashboardUseCase.Summary())
}
