package usecase

import (
	"context"
	"sync"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
	"tradepost/internal/infrastructure/hub"
	"tradepost/pkg/errors"
	"tradepost/pkg/logger"
)

// DashboardUseCase caches the aggregate counters shown on the landing
// surface. Stale-until-next-tick on failure, like every read path.
type DashboardUseCase struct {
	dashboardRepo repository.DashboardRepository
	eventHub      *hub.Hub

	mutex   sync.RWMutex
	summary *entity.DashboardSummary
}

func NewDashboardUseCase(dashboardRepo repository.DashboardRepository, eventHub *hub.Hub) *DashboardUseCase {
	return &DashboardUseCase{
		dashboardRepo: dashboardRepo,
		eventHub:      eventHub,
	}
}

func (uc *DashboardUseCase) Refresh(ctx context.Context) error {
	summary, err := uc.dashboardRepo.Summary(ctx)
	if err != nil {
		if _, limited := errors.IsRateLimited(err); limited {
			return nil
		}
		logger.Warn("Dashboard refresh failed: %v", err)
		return nil
	}

	uc.mutex.Lock()
	uc.summary = summary
	uc.mutex.Unlock()

	uc.eventHub.Publish(hub.Event{Type: hub.EventDashboard})
	return nil
}

func (uc *DashboardUseCase) Summary() *entity.DashboardSummary {
	uc.mutex.RLock()
	defer uc.mutex.RUnlock()
	if uc.summary == nil {
		return nil
	}
	summary := *uc.summary
	return &summary
}

func (uc *DashboardUseCase) Reset() {
	uc.mutex.Lock()
	uc.summary = nil
	uc.mutex.Unlock()
}
