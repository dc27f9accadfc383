package usecase

import (
	"context"
	"sort"
	"sync"
	"unicode/utf8"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
	"tradepost/internal/infrastructure/hub"
	"tradepost/internal/infrastructure/session"
	"tradepost/pkg/errors"
	"tradepost/pkg/logger"
)

// MessageSyncUseCase owns the active conversation's message list and
// its cursor (the highest message id already merged). It is the only
// component that mutates them; sends and read acknowledgements go
// through its contract methods.
//
// The fetch contract with the backend is at-least-once: overlapping
// polls may return overlapping message sets, so the merge discards
// every id at or below the cursor and the cursor only ever advances.
type MessageSyncUseCase struct {
	messageRepo repository.MessageRepository
	bridgeRepo  repository.BridgeRepository
	sess        *session.Session
	eventHub    *hub.Hub
	directory   *DirectoryUseCase
	reconciler  *ReconcilerUseCase

	mutex    sync.Mutex
	active   *entity.ActiveConversation
	epoch    uint64
	cursor   int64
	messages []*entity.Message
}

func NewMessageSyncUseCase(
	messageRepo repository.MessageRepository,
	bridgeRepo repository.BridgeRepository,
	sess *session.Session,
	eventHub *hub.Hub,
	directory *DirectoryUseCase,
	reconciler *ReconcilerUseCase,
) *MessageSyncUseCase {
	return &MessageSyncUseCase{
		messageRepo: messageRepo,
		bridgeRepo:  bridgeRepo,
		sess:        sess,
		eventHub:    eventHub,
		directory:   directory,
		reconciler:  reconciler,
	}
}

// Open selects a conversation: the cursor is reset and a full snapshot
// is fetched. Each Open bumps the epoch, so a late response belonging
// to a previously opened conversation is discarded instead of being
// merged into the new view.
func (uc *MessageSyncUseCase) Open(ctx context.Context, conv entity.ActiveConversation) error {
	if conv.PeerID == "" {
		return errors.BadRequest("Recipient is required", nil)
	}

	uc.mutex.Lock()
	uc.epoch++
	uc.active = &conv
	uc.cursor = 0
	uc.messages = nil
	uc.mutex.Unlock()

	logger.Debug("Conversation opened: peer=%s trade=%d", conv.PeerID, conv.TradeID)

	// Snapshot fetch. A failure here is the same as a failed poll tick:
	// logged, then retried on the next cadence.
	if _, err := uc.PollIncremental(ctx); err != nil {
		logger.Warn("Initial snapshot fetch failed: %v", err)
	}
	return nil
}

// Close tears the active conversation down. Bumping the epoch makes any
// in-flight fetch for the old view a no-op when it lands.
func (uc *MessageSyncUseCase) Close() {
	uc.mutex.Lock()
	uc.epoch++
	uc.active = nil
	uc.cursor = 0
	uc.messages = nil
	uc.mutex.Unlock()

	uc.eventHub.Publish(hub.Event{Type: hub.EventMessages})
}

// PollIncremental fetches messages newer than the cursor and merges
// them. With an empty cursor this is the snapshot fetch. Returns how
// many messages were applied.
func (uc *MessageSyncUseCase) PollIncremental(ctx context.Context) (int, error) {
	uc.mutex.Lock()
	if uc.active == nil {
		uc.mutex.Unlock()
		return 0, nil
	}
	conv := *uc.active
	cursor := uc.cursor
	epoch := uc.epoch
	uc.mutex.Unlock()

	fetched, err := uc.messageRepo.Fetch(ctx, repository.FetchMessagesQuery{
		RecipientID:   conv.PeerID,
		TradeID:       conv.TradeID,
		ReportID:      conv.ReportID,
		LastMessageID: cursor,
	})
	if err != nil {
		logger.Warn("Message fetch failed: %v", err)
		return 0, err
	}

	return uc.apply(ctx, conv, epoch, fetched), nil
}

// apply merges fetched messages in id order. Ids at or below the cursor
// are duplicates from overlapping polls and are dropped; anything newer
// is appended and advances the cursor. Safe to call with responses that
// arrive out of order: stale data re-applies as a no-op.
func (uc *MessageSyncUseCase) apply(ctx context.Context, conv entity.ActiveConversation, epoch uint64, fetched []*entity.Message) int {
	sort.Slice(fetched, func(i, j int) bool { return fetched[i].ID < fetched[j].ID })

	selfID := uc.sess.UserID()

	uc.mutex.Lock()
	if epoch != uc.epoch {
		// The view this response was fetched for no longer exists.
		uc.mutex.Unlock()
		logger.Debug("Discarding stale message response for peer %s", conv.PeerID)
		return 0
	}

	applied := 0
	fromPeer := false
	for _, message := range fetched {
		if message.ID <= uc.cursor {
			continue
		}
		uc.messages = append(uc.messages, message)
		uc.cursor = message.ID
		applied++
		if message.SenderID != selfID {
			fromPeer = true
		}
	}
	uc.mutex.Unlock()

	if applied > 0 {
		uc.eventHub.Publish(hub.Event{Type: hub.EventMessages, Payload: applied})
	}

	if fromPeer {
		// Acknowledge receipt and refresh badges right away rather than
		// waiting for the reconciler's own cadence.
		if err := uc.messageRepo.MarkRead(ctx, conv.PeerID, conv.TradeID); err != nil {
			logger.Warn("Mark read failed: %v", err)
		}
		uc.directory.MarkReadLocally(conv.ConversationKey)
		uc.reconciler.RefreshUnreadCount(ctx)
	}

	return applied
}

// Send validates locally, relays to the bridge when the conversation is
// bridged, then posts to the backend. The server is the id authority:
// the returned message is appended and the cursor advances to its id.
// Nothing is mutated on failure, so there is no rollback path.
func (uc *MessageSyncUseCase) Send(ctx context.Context, content string) (*entity.Message, error) {
	if content == "" {
		return nil, errors.BadRequest("Message content is required", nil)
	}
	if utf8.RuneCountInString(content) > entity.MaxMessageLength {
		return nil, errors.BadRequest("Message content exceeds 500 characters", nil)
	}

	uc.mutex.Lock()
	if uc.active == nil {
		uc.mutex.Unlock()
		return nil, errors.BadRequest("No conversation is open", nil)
	}
	conv := *uc.active
	epoch := uc.epoch
	uc.mutex.Unlock()

	if conv.IsBridged && conv.ReportID != 0 {
		// Fire-and-forget relay; the normal send must not be blocked.
		if err := uc.bridgeRepo.Relay(ctx, conv.ReportID, uc.sess.UserID(), content); err != nil {
			logger.Warn("Bridge relay failed for report %d: %v", conv.ReportID, err)
		}
	}

	message, err := uc.messageRepo.Send(ctx, repository.SendMessageInput{
		RecipientID: conv.PeerID,
		Content:     content,
		TradeID:     conv.TradeID,
		ReportID:    conv.ReportID,
		IsBridged:   conv.IsBridged,
	})
	if err != nil {
		return nil, err
	}

	uc.mutex.Lock()
	if epoch == uc.epoch && message.ID > uc.cursor {
		uc.messages = append(uc.messages, message)
		uc.cursor = message.ID
	}
	uc.mutex.Unlock()

	uc.eventHub.Publish(hub.Event{Type: hub.EventMessages, Payload: 1})

	// Our own send changes the directory preview and may change badge
	// state for the peer-facing thread; refresh both now.
	if err := uc.directory.Refresh(ctx); err != nil {
		logger.Debug("Directory refresh after send failed: %v", err)
	}
	uc.reconciler.RefreshUnreadCount(ctx)

	return message, nil
}

// Messages returns a copy of the merged list for the active view.
func (uc *MessageSyncUseCase) Messages() []*entity.Message {
	uc.mutex.Lock()
	defer uc.mutex.Unlock()
	out := make([]*entity.Message, len(uc.messages))
	copy(out, uc.messages)
	return out
}

// Active returns the open conversation, or nil.
func (uc *MessageSyncUseCase) Active() *entity.ActiveConversation {
	uc.mutex.Lock()
	defer uc.mutex.Unlock()
	if uc.active == nil {
		return nil
	}
	conv := *uc.active
	return &conv
}

// Cursor exposes the current watermark.
func (uc *MessageSyncUseCase) Cursor() int64 {
	uc.mutex.Lock()
	defer uc.mutex.Unlock()
	return uc.cursor
}
