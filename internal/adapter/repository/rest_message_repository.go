package repository

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
)

type restMessageRepository struct {
	client *Client
}

func NewRestMessageRepository(client *Client) repository.MessageRepository {
	return &restMessageRepository{client: client}
}

func (r *restMessageRepository) Fetch(ctx context.Context, query repository.FetchMessagesQuery) ([]*entity.Message, error) {
	params := url.Values{}
	params.Set("recipient_id", query.RecipientID)
	if query.TradeID != 0 {
		params.Set("trade_id", strconv.FormatInt(query.TradeID, 10))
	}
	if query.ReportID != 0 {
		params.Set("report_id", strconv.FormatInt(query.ReportID, 10))
	}
	if query.LastMessageID != 0 {
		params.Set("last_message_id", strconv.FormatInt(query.LastMessageID, 10))
	}

	var messages []*entity.Message
	if err := r.client.do(ctx, http.MethodGet, "/v1/messages", params, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

type sendMessageBody struct {
	RecipientID string `json:"recipient_id"`
	Content     string `json:"content"`
	TradeID     int64  `json:"trade_id,omitempty"`
	ReportID    int64  `json:"report_id,omitempty"`
	IsBridged   bool   `json:"is_bridged"`
}

func (r *restMessageRepository) Send(ctx context.Context, input repository.SendMessageInput) (*entity.Message, error) {
	body := sendMessageBody{
		RecipientID: input.RecipientID,
		Content:     input.Content,
		TradeID:     input.TradeID,
		ReportID:    input.ReportID,
		IsBridged:   input.IsBridged,
	}

	var message entity.Message
	if err := r.client.do(ctx, http.MethodPost, "/v1/messages", nil, body, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

type markReadBody struct {
	RecipientID string `json:"recipient_id"`
	TradeID     int64  `json:"trade_id,omitempty"`
}

func (r *restMessageRepository) MarkRead(ctx context.Context, recipientID string, tradeID int64) error {
	return r.client.do(ctx, http.MethodPost, "/v1/messages/read", nil, markReadBody{
		RecipientID: recipientID,
		TradeID:     tradeID,
	}, nil)
}
