package repository

import (
	"context"

	"tradepost/internal/domain/entity"
)

type NotificationRepository interface {
	UnreadCount(ctx context.Context) (int, error)
	Feed(ctx context.Context) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, notificationID int64) error
	MarkAllRead(ctx context.Context) error
}
