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

const broadcastKeep = 100

// BroadcastUseCase follows the ambient global broadcast feed with the
// same cursor discipline as the message engine: only ids above the
// watermark are appended, so overlapping polls cannot duplicate.
type BroadcastUseCase struct {
	broadcastRepo repository.BroadcastRepository
	eventHub      *hub.Hub

	mutex  sync.Mutex
	lastID int64
	feed   []*entity.Broadcast
}

func NewBroadcastUseCase(broadcastRepo repository.BroadcastRepository, eventHub *hub.Hub) *BroadcastUseCase {
	return &BroadcastUseCase{
		broadcastRepo: broadcastRepo,
		eventHub:      eventHub,
	}
}

func (uc *BroadcastUseCase) Poll(ctx context.Context) error {
	uc.mutex.Lock()
	sinceID := uc.lastID
	uc.mutex.Unlock()

	fetched, err := uc.broadcastRepo.Feed(ctx, sinceID)
	if err != nil {
		if _, limited := errors.IsRateLimited(err); limited {
			return nil
		}
		logger.Warn("Broadcast poll failed: %v", err)
		return nil
	}

	applied := 0
	uc.mutex.Lock()
	for _, broadcast := range fetched {
		if broadcast.ID <= uc.lastID {
			continue
		}
		uc.feed = append(uc.feed, broadcast)
		uc.lastID = broadcast.ID
		applied++
	}
	if len(uc.feed) > broadcastKeep {
		uc.feed = uc.feed[len(uc.feed)-broadcastKeep:]
	}
	uc.mutex.Unlock()

	if applied > 0 {
		uc.eventHub.Publish(hub.Event{Type: hub.EventBroadcast, Payload: applied})
	}
	return nil
}

func (uc *BroadcastUseCase) Feed() []*entity.Broadcast {
	uc.mutex.Lock()
	defer uc.mutex.Unlock()
	out := make([]*entity.Broadcast, len(uc.feed))
	copy(out, uc.feed)
	return out
}

func (uc *BroadcastUseCase) Reset() {
	uc.mutex.Lock()
	uc.lastID = 0
	uc.feed = nil
	uc.mutex.Unlock()
}
