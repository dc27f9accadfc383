package repository

import (
	"context"

	"tradepost/internal/domain/entity"
)

type BroadcastRepository interface {
	Feed(ctx context.Context, sinceID int64) ([]*entity.Broadcast, error)
}
