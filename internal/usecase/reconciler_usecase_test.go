package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradepost/internal/domain/entity"
	"tradepost/internal/infrastructure/hub"
	"tradepost/pkg/errors"
)

func TestFirstObservationNeverAlerts(t *testing.T) {
	eventHub := testHub(t)
	notificationRepo := &fakeNotificationRepo{}
	reconciler := NewReconcilerUseCase(notificationRepo, eventHub)

	sub := eventHub.Subscribe()
	defer eventHub.Unsubscribe(sub)

	// A user with a pile of unread messages logs in. The badge shows 12
	// but no sound plays.
	notificationRepo.setCount(12)
	count, err := reconciler.RefreshUnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, count)

	assert.True(t, waitForEvent(sub, hub.EventUnread, time.Second))
	assert.False(t, waitForEvent(sub, hub.EventAlert, 100*time.Millisecond))
}

func TestAlertFiresOnStrictIncrease(t *testing.T) {
	eventHub := testHub(t)
	notificationRepo := &fakeNotificationRepo{}
	reconciler := NewReconcilerUseCase(notificationRepo, eventHub)

	notificationRepo.setCount(3)
	_, err := reconciler.RefreshUnreadCount(context.Background())
	require.NoError(t, err)

	sub := eventHub.Subscribe()
	defer eventHub.Unsubscribe(sub)

	notificationRepo.setCount(5)
	count, err := reconciler.RefreshUnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, count)
	assert.True(t, waitForEvent(sub, hub.EventAlert, time.Second))

	// Unchanged value: no second alert.
	_, err = reconciler.RefreshUnreadCount(context.Background())
	require.NoError(t, err)
	assert.False(t, waitForEvent(sub, hub.EventAlert, 100*time.Millisecond))
}

func TestNoAlertWhenPreviousWasZero(t *testing.T) {
	eventHub := testHub(t)
	notificationRepo := &fakeNotificationRepo{}
	reconciler := NewReconcilerUseCase(notificationRepo, eventHub)

	notificationRepo.setCount(0)
	_, err := reconciler.RefreshUnreadCount(context.Background())
	require.NoError(t, err)

	sub := eventHub.Subscribe()
	defer eventHub.Unsubscribe(sub)

	notificationRepo.setCount(4)
	_, err = reconciler.RefreshUnreadCount(context.Background())
	require.NoError(t, err)
	assert.False(t, waitForEvent(sub, hub.EventAlert, 100*time.Millisecond))
}

func TestNoAlertOnDecrease(t *testing.T) {
	eventHub := testHub(t)
	notificationRepo := &fakeNotificationRepo{}
	reconciler := NewReconcilerUseCase(notificationRepo, eventHub)

	notificationRepo.setCount(8)
	_, err := reconciler.RefreshUnreadCount(context.Background())
	require.NoError(t, err)

	sub := eventHub.Subscribe()
	defer eventHub.Unsubscribe(sub)

	notificationRepo.setCount(2)
	count, err := reconciler.RefreshUnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.False(t, waitForEvent(sub, hub.EventAlert, 100*time.Millisecond))
}

func TestRateLimitedPollIsASkippedTick(t *testing.T) {
	eventHub := testHub(t)
	notificationRepo := &fakeNotificationRepo{}
	reconciler := NewReconcilerUseCase(notificationRepo, eventHub)

	notificationRepo.setCount(6)
	_, err := reconciler.RefreshUnreadCount(context.Background())
	require.NoError(t, err)

	notificationRepo.setCountErr(errors.RateLimited("Too many requests", 5000))
	count, err := reconciler.RefreshUnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, count)

	// The throttled tick must not have moved the alert baseline: the
	// next real observation alerts off the old value.
	sub := eventHub.Subscribe()
	defer eventHub.Unsubscribe(sub)
	notificationRepo.setCount(7)
	_, err = reconciler.RefreshUnreadCount(context.Background())
	require.NoError(t, err)
	assert.True(t, waitForEvent(sub, hub.EventAlert, time.Second))
}

func TestTransientFailureKeepsLastCount(t *testing.T) {
	eventHub := testHub(t)
	notificationRepo := &fakeNotificationRepo{}
	reconciler := NewReconcilerUseCase(notificationRepo, eventHub)

	notificationRepo.setCount(4)
	_, err := reconciler.RefreshUnreadCount(context.Background())
	require.NoError(t, err)

	notificationRepo.setCountErr(errors.Internal("backend down", nil))
	count, err := reconciler.RefreshUnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.Equal(t, 4, reconciler.Count())
}

func TestMarkReadDecrementsOptimistically(t *testing.T) {
	eventHub := testHub(t)
	notificationRepo := &fakeNotificationRepo{
		feed: []*entity.Notification{
			{ID: 1, IsRead: 0},
			{ID: 2, IsRead: 0},
		},
	}
	reconciler := NewReconcilerUseCase(notificationRepo, eventHub)

	notificationRepo.setCount(2)
	_, err := reconciler.RefreshUnreadCount(context.Background())
	require.NoError(t, err)
	_, err = reconciler.RefreshFeed(context.Background())
	require.NoError(t, err)

	require.NoError(t, reconciler.MarkRead(context.Background(), 1))
	assert.Equal(t, 1, reconciler.Count())

	// Marking the same notification again is a no-op.
	require.NoError(t, reconciler.MarkRead(context.Background(), 1))
	assert.Equal(t, 1, reconciler.Count())

	// The server still reports 2 until its own state catches up; an
	// unchanged fetch must not re-alert against the lowered baseline.
	sub := eventHub.Subscribe()
	defer eventHub.Unsubscribe(sub)
	_, err = reconciler.RefreshUnreadCount(context.Background())
	require.NoError(t, err)
	assert.False(t, waitForEvent(sub, hub.EventAlert, 100*time.Millisecond))
}

func TestMarkAllReadZeroesEverything(t *testing.T) {
	eventHub := testHub(t)
	notificationRepo := &fakeNotificationRepo{
		feed: []*entity.Notification{
			{ID: 1, IsRead: 0},
			{ID: 2, IsRead: 0},
			{ID: 3, IsRead: 1},
		},
	}
	reconciler := NewReconcilerUseCase(notificationRepo, eventHub)

	notificationRepo.setCount(2)
	_, err := reconciler.RefreshUnreadCount(context.Background())
	require.NoError(t, err)
	_, err = reconciler.RefreshFeed(context.Background())
	require.NoError(t, err)

	require.NoError(t, reconciler.MarkAllRead(context.Background()))
	assert.Equal(t, 0, reconciler.Count())
	for _, n := range reconciler.Feed() {
		assert.Equal(t, 1, n.IsRead)
	}
}

func TestResetClearsAlertBaseline(t *testing.T) {
	eventHub := testHub(t)
	notificationRepo := &fakeNotificationRepo{}
	reconciler := NewReconcilerUseCase(notificationRepo, eventHub)

	notificationRepo.setCount(3)
	_, err := reconciler.RefreshUnreadCount(context.Background())
	require.NoError(t, err)

	reconciler.Reset()
	assert.Equal(t, 0, reconciler.Count())
	assert.Empty(t, reconciler.Feed())

	// The first poll of the next session is a fresh observation.
	sub := eventHub.Subscribe()
	defer eventHub.Unsubscribe(sub)
	notificationRepo.setCount(9)
	_, err = reconciler.RefreshUnreadCount(context.Background())
	require.NoError(t, err)
	assert.False(t, waitForEvent(sub, hub.EventAlert, 100*time.Millisecond))
}
