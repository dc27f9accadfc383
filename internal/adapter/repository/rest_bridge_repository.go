package repository

import (
	"context"
	"net/http"
	"time"

	"tradepost/internal/domain/repository"
	"tradepost/internal/infrastructure/session"
	"tradepost/pkg/errors"
)

type restBridgeRepository struct {
	client *Client
}

// NewRestBridgeRepository talks to the external message bridge. It gets
// its own Client because the bridge lives at a different base URL than
// the marketplace backend.
func NewRestBridgeRepository(bridgeURL string, timeout time.Duration, sess *session.Session) repository.BridgeRepository {
	return &restBridgeRepository{client: NewClient(bridgeURL, timeout, sess)}
}

type relayBody struct {
	ReportID int64  `json:"report_id"`
	SenderID string `json:"sender_id"`
	Content  string `json:"content"`
}

func (r *restBridgeRepository) Relay(ctx context.Context, reportID int64, senderID, content string) error {
	if r.client.baseURL == "" {
		return errors.Internal("Bridge URL is not configured", nil)
	}
	return r.client.do(ctx, http.MethodPost, "/v1/relay", nil, relayBody{
		ReportID: reportID,
		SenderID: senderID,
		Content:  content,
	}, nil)
}
