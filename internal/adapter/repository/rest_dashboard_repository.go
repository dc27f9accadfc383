package repository

import (
	"context"
	"net/http"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
)

type restDashboardRepository struct {
	client *Client
}

func NewRestDashboardRepository(client *Client) repository.DashboardRepository {
	return &restDashboardRepository{client: client}
}

func (r *restDashboardRepository) Summary(ctx context.Context) (*entity.DashboardSummary, error) {
	var summary entity.DashboardSummary
	if err := r.client.do(ctx, http.MethodGet, "/v1/dashboard", nil, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
