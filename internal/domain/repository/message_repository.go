package repository

import (
	"context"

	"tradepost/internal/domain/entity"
)

// FetchMessagesQuery asks for one conversation's messages. A zero
// LastMessageID means a full snapshot; anything else means "only
// messages with a strictly greater id".
type FetchMessagesQuery struct {
	RecipientID   string
	TradeID       int64
	ReportID      int64
	LastMessageID int64
}

type SendMessageInput struct {
	RecipientID string
	Content     string
	TradeID     int64
	ReportID    int64
	IsBridged   bool
}

type MessageRepository interface {
	Fetch(ctx context.Context, query FetchMessagesQuery) ([]*entity.Message, error)
	Send(ctx context.Context, input SendMessageInput) (*entity.Message, error)
	MarkRead(ctx context.Context, recipientID string, tradeID int64) error
}
