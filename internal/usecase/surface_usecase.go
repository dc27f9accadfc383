package usecase

import (
	"context"
	"sync"
	"time"

	"tradepost/internal/domain/entity"
	"tradepost/internal/infrastructure/hub"
	"tradepost/internal/infrastructure/scheduler"
	"tradepost/internal/infrastructure/session"
	"tradepost/pkg/config"
	"tradepost/pkg/errors"
	"tradepost/pkg/logger"
)

// Poll task names.
const (
	TaskMessages           = "messages"
	TaskDirectory          = "directory"
	TaskUnread             = "unread"
	TaskNotifications      = "notifications"
	TaskMiddleman          = "middleman"
	TaskMiddlemanCountdown = "middleman-countdown"
	TaskBroadcast          = "broadcast"
	TaskDashboard          = "dashboard"
)

// SurfaceUseCase tracks which UI surfaces are open and owns the
// mapping from surface state to running poll tasks. Authentication
// gates everything; opening an overlay starts its timers; selecting a
// conversation narrows polling to that conversation; closing any
// surface tears its timers down deterministically.
type SurfaceUseCase struct {
	sched      *scheduler.Scheduler
	sess       *session.Session
	engine     *MessageSyncUseCase
	directory  *DirectoryUseCase
	reconciler *ReconcilerUseCase
	middleman  *MiddlemanUseCase
	broadcast  *BroadcastUseCase
	dashboard  *DashboardUseCase
	eventHub   *hub.Hub

	mutex             sync.Mutex
	chatOverlayOpen   bool
	notificationsOpen bool
	conversationOpen  bool
}

func NewSurfaceUseCase(
	sched *scheduler.Scheduler,
	sess *session.Session,
	engine *MessageSyncUseCase,
	directory *DirectoryUseCase,
	reconciler *ReconcilerUseCase,
	middleman *MiddlemanUseCase,
	broadcast *BroadcastUseCase,
	dashboard *DashboardUseCase,
	eventHub *hub.Hub,
) *SurfaceUseCase {
	return &SurfaceUseCase{
		sched:      sched,
		sess:       sess,
		engine:     engine,
		directory:  directory,
		reconciler: reconciler,
		middleman:  middleman,
		broadcast:  broadcast,
		dashboard:  dashboard,
		eventHub:   eventHub,
	}
}

// RegisterTasks wires every poll loop with its cadence and guard. Run
// once at startup; tasks are started and stopped afterwards as surfaces
// come and go.
func (uc *SurfaceUseCase) RegisterTasks(cfg *config.Config) {
	authed := uc.sess.Authenticated

	uc.sched.Register(scheduler.Task{
		Name:     TaskMessages,
		Interval: cfg.MessagePollInterval,
		Guard:    func() bool { return authed() && uc.isConversationOpen() },
		Run: func(ctx context.Context) {
			// Errors already absorbed and logged inside the engine.
			uc.engine.PollIncremental(ctx)
		},
	})

	uc.sched.Register(scheduler.Task{
		Name:     TaskDirectory,
		Interval: cfg.DirectoryPollInterval,
		Guard:    func() bool { return authed() && uc.isChatOverlayOpen() && !uc.isConversationOpen() },
		Run: func(ctx context.Context) {
			uc.directory.Refresh(ctx)
		},
	})

	uc.sched.Register(scheduler.Task{
		Name:     TaskUnread,
		Interval: cfg.UnreadPollInterval,
		Guard:    authed,
		Run: func(ctx context.Context) {
			uc.reconciler.RefreshUnreadCount(ctx)
		},
	})

	uc.sched.Register(scheduler.Task{
		Name:     TaskNotifications,
		Interval: cfg.NotificationPollInterval,
		Guard:    func() bool { return authed() && uc.isNotificationsOpen() },
		Run: func(ctx context.Context) {
			uc.reconciler.RefreshFeed(ctx)
		},
	})

	uc.sched.Register(scheduler.Task{
		Name:     TaskMiddleman,
		Interval: cfg.MiddlemanPollInterval,
		Guard:    func() bool { return authed() && uc.isTradeConversationOpen() },
		Run: func(ctx context.Context) {
			uc.middleman.PollStatus(ctx)
		},
	})

	uc.sched.Register(scheduler.Task{
		Name:     TaskMiddlemanCountdown,
		Interval: time.Second,
		Guard:    func() bool { return authed() && uc.isTradeConversationOpen() },
		Run: func(ctx context.Context) {
			uc.middleman.CountdownTick()
		},
	})

	uc.sched.Register(scheduler.Task{
		Name:     TaskBroadcast,
		Interval: cfg.BroadcastPollInterval,
		Guard:    authed,
		Run: func(ctx context.Context) {
			uc.broadcast.Poll(ctx)
		},
	})

	uc.sched.Register(scheduler.Task{
		Name:     TaskDashboard,
		Interval: cfg.DashboardPollInterval,
		Guard:    authed,
		Run: func(ctx context.Context) {
			uc.dashboard.Refresh(ctx)
		},
	})
}

// Login starts a session and the always-on tasks. The reconciler is
// reset first so the new session's first poll cannot alert against the
// previous session's baseline.
func (uc *SurfaceUseCase) Login(token string) error {
	if err := uc.sess.Login(token); err != nil {
		return err
	}

	uc.reconciler.Reset()
	uc.broadcast.Reset()
	uc.dashboard.Reset()

	uc.sched.Start(TaskUnread)
	uc.sched.Start(TaskBroadcast)
	uc.sched.Start(TaskDashboard)

	uc.eventHub.Publish(hub.Event{Type: hub.EventSession, Payload: "login"})
	return nil
}

// Logout tears everything down: every timer, the active conversation,
// and all cached state.
func (uc *SurfaceUseCase) Logout() {
	uc.sched.StopAll()

	uc.mutex.Lock()
	uc.chatOverlayOpen = false
	uc.notificationsOpen = false
	uc.conversationOpen = false
	uc.mutex.Unlock()

	uc.engine.Close()
	uc.middleman.Untrack()
	uc.directory.Reset()
	uc.reconciler.Reset()
	uc.broadcast.Reset()
	uc.dashboard.Reset()
	uc.sess.Logout()

	uc.eventHub.Publish(hub.Event{Type: hub.EventSession, Payload: "logout"})
}

func (uc *SurfaceUseCase) OpenChatOverlay() error {
	if !uc.sess.Authenticated() {
		return errors.Unauthorized("Not logged in", nil)
	}

	uc.mutex.Lock()
	uc.chatOverlayOpen = true
	uc.mutex.Unlock()

	uc.sched.Start(TaskDirectory)
	return nil
}

func (uc *SurfaceUseCase) CloseChatOverlay() {
	uc.CloseConversation()

	uc.mutex.Lock()
	uc.chatOverlayOpen = false
	uc.mutex.Unlock()

	uc.sched.Stop(TaskDirectory)
}

// OpenConversation selects a conversation inside the chat overlay and
// narrows polling to it: the directory task pauses, the message task
// starts, and for trade conversations the handshake poll starts too.
func (uc *SurfaceUseCase) OpenConversation(ctx context.Context, conv entity.ActiveConversation) error {
	if !uc.sess.Authenticated() {
		return errors.Unauthorized("Not logged in", nil)
	}

	if err := uc.engine.Open(ctx, conv); err != nil {
		return err
	}

	uc.mutex.Lock()
	uc.chatOverlayOpen = true
	uc.conversationOpen = true
	uc.mutex.Unlock()

	uc.sched.Stop(TaskDirectory)
	uc.sched.Start(TaskMessages)

	if conv.TradeID != 0 {
		uc.middleman.Track(conv.TradeID, conv.PeerID)
		uc.sched.Start(TaskMiddleman)
		uc.sched.Start(TaskMiddlemanCountdown)
	} else {
		uc.middleman.Untrack()
	}

	logger.Info("Conversation selected: peer=%s trade=%d", conv.PeerID, conv.TradeID)
	return nil
}

func (uc *SurfaceUseCase) CloseConversation() {
	uc.sched.Stop(TaskMessages)
	uc.sched.Stop(TaskMiddleman)
	uc.sched.Stop(TaskMiddlemanCountdown)

	uc.middleman.Untrack()
	uc.engine.Close()

	uc.mutex.Lock()
	uc.conversationOpen = false
	overlayStillOpen := uc.chatOverlayOpen
	uc.mutex.Unlock()

	if overlayStillOpen {
		uc.sched.Start(TaskDirectory)
	}
}

func (uc *SurfaceUseCase) OpenNotificationsPanel() error {
	if !uc.sess.Authenticated() {
		return errors.Unauthorized("Not logged in", nil)
	}

	uc.mutex.Lock()
	uc.notificationsOpen = true
	uc.mutex.Unlock()

	uc.sched.Start(TaskNotifications)
	return nil
}

func (uc *SurfaceUseCase) CloseNotificationsPanel() {
	uc.mutex.Lock()
	uc.notificationsOpen = false
	uc.mutex.Unlock()

	uc.sched.Stop(TaskNotifications)
}

func (uc *SurfaceUseCase) isChatOverlayOpen() bool {
	uc.mutex.Lock()
	defer uc.mutex.Unlock()
	return uc.chatOverlayOpen
}

func (uc *SurfaceUseCase) isNotificationsOpen() bool {
	uc.mutex.Lock()
	defer uc.mutex.Unlock()
	return uc.notificationsOpen
}

func (uc *SurfaceUseCase) isConversationOpen() bool {
	uc.mutex.Lock()
	defer uc.mutex.Unlock()
	return uc.conversationOpen
}

func (uc *SurfaceUseCase) isTradeConversationOpen() bool {
	if !uc.isConversationOpen() {
		return false
	}
	active := uc.engine.Active()
	return active != nil && active.TradeID != 0
}
