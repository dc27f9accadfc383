package repository

import (
	"context"

	"tradepost/internal/domain/entity"
)

// MiddlemanRequestResult is the server's answer to a request attempt.
// CooldownRemainingMs may be zero when the server omits it; callers
// fall back to the configured default window.
type MiddlemanRequestResult struct {
	BothRequested       bool  `json:"both_requested"`
	CooldownRemainingMs int64 `json:"cooldown_remaining_ms,omitempty"`
}

type MiddlemanRepository interface {
	Status(ctx context.Context, tradeID int64) (*entity.MiddlemanStatus, error)
	Request(ctx context.Context, tradeID int64, recipientID string) (*MiddlemanRequestResult, error)
}
