package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
	"tradepost/internal/infrastructure/hub"
	"tradepost/pkg/errors"
	"tradepost/pkg/logger"
)

// DirectoryUseCase caches the conversation summary list. Each fetch
// replaces the cache wholesale; searching filters the cached copy and
// never triggers a network call.
type DirectoryUseCase struct {
	conversationRepo repository.ConversationRepository
	eventHub         *hub.Hub

	mutex  sync.RWMutex
	cached []*entity.ConversationSummary
}

func NewDirectoryUseCase(conversationRepo repository.ConversationRepository, eventHub *hub.Hub) *DirectoryUseCase {
	return &DirectoryUseCase{
		conversationRepo: conversationRepo,
		eventHub:         eventHub,
	}
}

// Refresh fetches the directory. A transient failure keeps the previous
// cache (stale beats blank); a 401/403 clears it, because that means
// the session ended rather than the network blipped.
func (uc *DirectoryUseCase) Refresh(ctx context.Context) error {
	summaries, err := uc.conversationRepo.List(ctx)
	if err != nil {
		if errors.IsAuth(err) {
			logger.Warn("Directory fetch unauthorized, clearing cache")
			uc.mutex.Lock()
			uc.cached = nil
			uc.mutex.Unlock()
			uc.eventHub.Publish(hub.Event{Type: hub.EventDirectory})
			return err
		}
		logger.Warn("Directory fetch failed, keeping cached list: %v", err)
		return err
	}

	uc.mutex.Lock()
	uc.cached = summaries
	uc.mutex.Unlock()

	uc.eventHub.Publish(hub.Event{Type: hub.EventDirectory})
	return nil
}

// List returns the cached summaries, filtered by substring against the
// peer name, the last message text, or a "trade {id}" token.
func (uc *DirectoryUseCase) List(searchTerm string) []*entity.ConversationSummary {
	uc.mutex.RLock()
	defer uc.mutex.RUnlock()

	if searchTerm == "" {
		out := make([]*entity.ConversationSummary, len(uc.cached))
		copy(out, uc.cached)
		return out
	}

	needle := strings.ToLower(searchTerm)
	out := make([]*entity.ConversationSummary, 0, len(uc.cached))
	for _, summary := range uc.cached {
		if strings.Contains(strings.ToLower(summary.PeerDisplayName), needle) ||
			strings.Contains(strings.ToLower(summary.LastMessage), needle) ||
			(summary.TradeID != 0 && strings.Contains(fmt.Sprintf("trade %d", summary.TradeID), needle)) {
			out = append(out, summary)
		}
	}
	return out
}

// MarkReadLocally zeroes one conversation's unread badge after a local
// mark-read action. Optimistic only: the next Refresh replaces the
// whole list with whatever the server reports.
func (uc *DirectoryUseCase) MarkReadLocally(key entity.ConversationKey) {
	uc.mutex.Lock()
	for _, summary := range uc.cached {
		if summary.Key() == key {
			summary.UnreadCount = 0
		}
	}
	uc.mutex.Unlock()

	uc.eventHub.Publish(hub.Event{Type: hub.EventDirectory})
}

func (uc *DirectoryUseCase) Reset() {
	uc.mutex.Lock()
	uc.cached = nil
	uc.mutex.Unlock()
}
