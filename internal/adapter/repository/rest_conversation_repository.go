package repository

import (
	"context"
	"net/http"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
)

type restConversationRepository struct {
	client *Client
}

func NewRestConversationRepository(client *Client) repository.ConversationRepository {
	return &restConversationRepository{client: client}
}

func (r *restConversationRepository) List(ctx context.Context) ([]*entity.ConversationSummary, error) {
	var summaries []*entity.ConversationSummary
	if err := r.client.do(ctx, http.MethodGet, "/v1/conversations", nil, nil, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}
