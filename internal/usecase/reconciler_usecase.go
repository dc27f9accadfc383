package usecase

import (
	"context"
	"sync"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
	"tradepost/internal/infrastructure/hub"
	"tradepost/pkg/errors"
	"tradepost/pkg/logger"
)

// ReconcilerUseCase is the sole writer of the process-wide unread
// counter and the notification feed. Every surface (header badge,
// panel, overlay) observes them through the hub; nothing else mutates
// them.
type ReconcilerUseCase struct {
	notificationRepo repository.NotificationRepository
	eventHub         *hub.Hub

	mutex         sync.Mutex
	count         int
	previousCount int
	feed          []*entity.Notification
}

func NewReconcilerUseCase(notificationRepo repository.NotificationRepository, eventHub *hub.Hub) *ReconcilerUseCase {
	return &ReconcilerUseCase{
		notificationRepo: notificationRepo,
		eventHub:         eventHub,
	}
}

// RefreshUnreadCount polls the global counter and decides whether to
// fire the audible alert. The alert fires exactly once, when the new
// value is strictly greater than the previous observation and that
// observation was non-zero; the first poll after login therefore never
// alerts. A 429 is a benign skipped tick, not an error.
func (uc *ReconcilerUseCase) RefreshUnreadCount(ctx context.Context) (int, error) {
	fetched, err := uc.notificationRepo.UnreadCount(ctx)
	if err != nil {
		if _, limited := errors.IsRateLimited(err); limited {
			logger.Debug("Unread poll rate limited, skipping tick")
			return uc.Count(), nil
		}
		logger.Warn("Unread poll failed: %v", err)
		return uc.Count(), nil
	}

	uc.mutex.Lock()
	alert := fetched > uc.previousCount && uc.previousCount > 0
	uc.previousCount = fetched
	uc.count = fetched
	uc.mutex.Unlock()

	uc.eventHub.Publish(hub.Event{Type: hub.EventUnread, Payload: fetched})
	if alert {
		uc.eventHub.Publish(hub.Event{Type: hub.EventAlert, Payload: fetched})
	}

	return fetched, nil
}

// RefreshFeed polls the notification list and replaces the cached feed
// wholesale. Same 429/no-op and absorb-on-failure rules as the counter.
func (uc *ReconcilerUseCase) RefreshFeed(ctx context.Context) ([]*entity.Notification, error) {
	fetched, err := uc.notificationRepo.Feed(ctx)
	if err != nil {
		if _, limited := errors.IsRateLimited(err); limited {
			logger.Debug("Notification feed poll rate limited, skipping tick")
			return uc.Feed(), nil
		}
		logger.Warn("Notification feed poll failed: %v", err)
		return uc.Feed(), nil
	}

	uc.mutex.Lock()
	uc.feed = fetched
	uc.mutex.Unlock()

	uc.eventHub.Publish(hub.Event{Type: hub.EventFeed})
	return uc.Feed(), nil
}

// MarkRead optimistically flips the local flag and decrements the
// counter, then tells the backend. The next scheduled fetch is the
// source of truth and may overwrite the optimistic value.
func (uc *ReconcilerUseCase) MarkRead(ctx context.Context, notificationID int64) error {
	uc.mutex.Lock()
	for _, n := range uc.feed {
		if n.ID == notificationID && n.IsRead == 0 {
			n.IsRead = 1
			uc.decrementLocked(1)
			break
		}
	}
	uc.mutex.Unlock()

	uc.eventHub.Publish(hub.Event{Type: hub.EventUnread, Payload: uc.Count()})

	if err := uc.notificationRepo.MarkRead(ctx, notificationID); err != nil {
		return err
	}
	return nil
}

func (uc *ReconcilerUseCase) MarkAllRead(ctx context.Context) error {
	uc.mutex.Lock()
	for _, n := range uc.feed {
		n.IsRead = 1
	}
	uc.count = 0
	uc.previousCount = 0
	uc.mutex.Unlock()

	uc.eventHub.Publish(hub.Event{Type: hub.EventUnread, Payload: 0})

	if err := uc.notificationRepo.MarkAllRead(ctx); err != nil {
		return err
	}
	return nil
}

// decrementLocked lowers both the counter and the alert baseline so a
// later fetch of an unchanged server value does not re-alert, while a
// genuinely new message still does. Never goes negative.
func (uc *ReconcilerUseCase) decrementLocked(by int) {
	uc.count -= by
	if uc.count < 0 {
		uc.count = 0
	}
	uc.previousCount -= by
	if uc.previousCount < 0 {
		uc.previousCount = 0
	}
}

func (uc *ReconcilerUseCase) Count() int {
	uc.mutex.Lock()
	defer uc.mutex.Unlock()
	return uc.count
}

func (uc *ReconcilerUseCase) Feed() []*entity.Notification {
	uc.mutex.Lock()
	defer uc.mutex.Unlock()
	out := make([]*entity.Notification, len(uc.feed))
	copy(out, uc.feed)
	return out
}

// Reset clears all observed state at the login/logout boundary so the
// first poll of a new session cannot alert against a stale baseline.
func (uc *ReconcilerUseCase) Reset() {
	uc.mutex.Lock()
	uc.count = 0
	uc.previousCount = 0
	uc.feed = nil
	uc.mutex.Unlock()
}
