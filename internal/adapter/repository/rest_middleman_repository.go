package repository

import (
	"context"
	"fmt"
	"net/http"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
)

type restMiddlemanRepository struct {
	client *Client
}

func NewRestMiddlemanRepository(client *Client) repository.MiddlemanRepository {
	return &restMiddlemanRepository{client: client}
}

func (r *restMiddlemanRepository) Status(ctx context.Context, tradeID int64) (*entity.MiddlemanStatus, error) {
	path := fmt.Sprintf("/v1/trades/%d/middleman", tradeID)

	var status entity.MiddlemanStatus
	if err := r.client.do(ctx, http.MethodGet, path, nil, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

type middlemanRequestBody struct {
	RecipientID string `json:"recipient_id"`
}

func (r *restMiddlemanRepository) Request(ctx context.Context, tradeID int64, recipientID string) (*repository.MiddlemanRequestResult, error) {
	path := fmt.Sprintf("/v1/trades/%d/middleman", tradeID)

	var result repository.MiddlemanRequestResult
	if err := r.client.do(ctx, http.MethodPost, path, nil, middlemanRequestBody{RecipientID: recipientID}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
