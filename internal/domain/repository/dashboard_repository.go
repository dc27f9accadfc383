package repository

import (
	"context"

	"tradepost/internal/domain/entity"
)

type DashboardRepository interface {
	Summary(ctx context.Context) (*entity.DashboardSummary, error)
}
