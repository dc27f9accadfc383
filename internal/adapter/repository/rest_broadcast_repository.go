package repository

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
)

type restBroadcastRepository struct {
	client *Client
}

func NewRestBroadcastRepository(client *Client) repository.BroadcastRepository {
	return &restBroadcastRepository{client: client}
}

func (r *restBroadcastRepository) Feed(ctx context.Context, sinceID int64) ([]*entity.Broadcast, error) {
	params := url.Values{}
	if sinceID != 0 {
		params.Set("since_id", strconv.FormatInt(sinceID, 10))
	}

	var feed []*entity.Broadcast
	if err := r.client.do(ctx, http.MethodGet, "/v1/broadcasts", params, nil, &feed); err != nil {
		return nil, err
	}
	return feed, nil
}
