package repository

import (
	"context"

	"tradepost/internal/domain/entity"
)

type ConversationRepository interface {
	List(ctx context.Context) ([]*entity.ConversationSummary, error)
}
