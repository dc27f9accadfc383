package repository

import (
	"context"
	"fmt"
	"net/http"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
)

type restNotificationRepository struct {
	client *Client
}

func NewRestNotificationRepository(client *Client) repository.NotificationRepository {
	return &restNotificationRepository{client: client}
}

type unreadCountResponse struct {
	Count int `json:"count"`
}

func (r *restNotificationRepository) UnreadCount(ctx context.Context) (int, error) {
	var resp unreadCountResponse
	if err := r.client.do(ctx, http.MethodGet, "/v1/notifications/unread-count", nil, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (r *restNotificationRepository) Feed(ctx context.Context) ([]*entity.Notification, error) {
	var feed []*entity.Notification
	if err := r.client.do(ctx, http.MethodGet, "/v1/notifications", nil, nil, &feed); err != nil {
		return nil, err
	}
	return feed, nil
}

func (r *restNotificationRepository) MarkRead(ctx context.Context, notificationID int64) error {
	path := fmt.Sprintf("/v1/notifications/%d/read", notificationID)
	return r.client.do(ctx, http.MethodPut, path, nil, nil, nil)
}

func (r *restNotificationRepository) MarkAllRead(ctx context.Context) error {
	return r.client.do(ctx, http.MethodPut, "/v1/notifications/read-all", nil, nil, nil)
}
