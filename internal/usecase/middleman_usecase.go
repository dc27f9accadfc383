package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
	"tradepost/internal/infrastructure/hub"
	"tradepost/pkg/errors"
	"tradepost/pkg/logger"
)

// Handshake display states.
const (
	MiddlemanStateNone          = "none"           // neither party requested
	MiddlemanStateWaiting       = "waiting"        // we requested, peer has not
	MiddlemanStatePeerRequested = "peer_requested" // peer requested, we have not
	MiddlemanStateBoth          = "both"           // terminal: request escalated
)

// MiddlemanView is what a UI surface renders for the handshake.
type MiddlemanView struct {
	State      string `json:"state"`
	CanRequest bool   `json:"can_request"`
	Cooldown   string `json:"cooldown"` // mm:ss, "00:00" when idle
	CooldownMs int64  `json:"cooldown_ms"`
}

// MiddlemanUseCase tracks the two-party handshake for the open trade
// conversation. All handshake truth comes from the server's status
// poll; in particular BothRequested is taken as a single server-side
// fact, never recomputed from the two flags observed at different
// times. The only local state is the display countdown, and each poll
// response resets it.
type MiddlemanUseCase struct {
	middlemanRepo    repository.MiddlemanRepository
	eventHub         *hub.Hub
	cooldownFallback time.Duration

	mutex           sync.Mutex
	tradeID         int64
	recipientID     string
	epoch           uint64
	status          *entity.MiddlemanStatus
	cooldownUntil   time.Time
	lastCountdownMs int64
}

func NewMiddlemanUseCase(middlemanRepo repository.MiddlemanRepository, eventHub *hub.Hub, cooldownFallback time.Duration) *MiddlemanUseCase {
	return &MiddlemanUseCase{
		middlemanRepo:    middlemanRepo,
		eventHub:         eventHub,
		cooldownFallback: cooldownFallback,
	}
}

// Track follows one trade's handshake while its conversation is open.
func (uc *MiddlemanUseCase) Track(tradeID int64, recipientID string) {
	uc.mutex.Lock()
	uc.epoch++
	uc.tradeID = tradeID
	uc.recipientID = recipientID
	uc.status = nil
	uc.cooldownUntil = time.Time{}
	uc.lastCountdownMs = 0
	uc.mutex.Unlock()
}

func (uc *MiddlemanUseCase) Untrack() {
	uc.Track(0, "")
}

// PollStatus is the 5-second authority. Its response overwrites both
// the handshake flags and the locally counting-down cooldown, which
// covers clock drift and second-device submissions.
func (uc *MiddlemanUseCase) PollStatus(ctx context.Context) error {
	uc.mutex.Lock()
	tradeID := uc.tradeID
	epoch := uc.epoch
	uc.mutex.Unlock()

	if tradeID == 0 {
		return nil
	}

	status, err := uc.middlemanRepo.Status(ctx, tradeID)
	if err != nil {
		if _, limited := errors.IsRateLimited(err); limited {
			logger.Debug("Middleman status poll rate limited, skipping tick")
			return nil
		}
		logger.Warn("Middleman status poll failed: %v", err)
		return nil
	}

	uc.mutex.Lock()
	if epoch != uc.epoch {
		uc.mutex.Unlock()
		return nil
	}
	uc.status = status
	uc.cooldownUntil = time.Now().Add(time.Duration(status.CooldownRemainingMs) * time.Millisecond)
	uc.mutex.Unlock()

	uc.eventHub.Publish(hub.Event{Type: hub.EventMiddleman, Payload: uc.View()})
	return nil
}

// Request submits this user's half of the handshake. Blocked entirely
// client-side while the cooldown runs: no network call is issued. A 429
// from the server is authoritative cooldown information, not a failure
// to retry.
func (uc *MiddlemanUseCase) Request(ctx context.Context) (*MiddlemanView, error) {
	uc.mutex.Lock()
	if uc.tradeID == 0 {
		uc.mutex.Unlock()
		return nil, errors.BadRequest("No trade conversation is open", nil)
	}
	if remaining := uc.cooldownRemainingLocked(); remaining > 0 {
		uc.mutex.Unlock()
		return nil, errors.RateLimited("Middleman request is cooling down", remaining.Milliseconds())
	}
	tradeID := uc.tradeID
	recipientID := uc.recipientID
	epoch := uc.epoch
	uc.mutex.Unlock()

	result, err := uc.middlemanRepo.Request(ctx, tradeID, recipientID)
	if err != nil {
		if cooldownMs, limited := errors.IsRateLimited(err); limited {
			uc.applyCooldown(epoch, cooldownMs)
			uc.eventHub.Publish(hub.Event{Type: hub.EventMiddleman, Payload: uc.View()})
		}
		return nil, err
	}

	uc.mutex.Lock()
	if epoch == uc.epoch {
		if uc.status == nil {
			uc.status = &entity.MiddlemanStatus{UserIsUser1: true}
		}
		if result.BothRequested {
			uc.status.User1Requested = true
			uc.status.User2Requested = true
			uc.status.BothRequested = true
			uc.cooldownUntil = time.Time{}
		} else {
			if uc.status.UserIsUser1 {
				uc.status.User1Requested = true
			} else {
				uc.status.User2Requested = true
			}
			cooldownMs := result.CooldownRemainingMs
			if cooldownMs <= 0 {
				cooldownMs = uc.cooldownFallback.Milliseconds()
			}
			uc.cooldownUntil = time.Now().Add(time.Duration(cooldownMs) * time.Millisecond)
		}
	}
	uc.mutex.Unlock()

	view := uc.View()
	uc.eventHub.Publish(hub.Event{Type: hub.EventMiddleman, Payload: view})
	return &view, nil
}

func (uc *MiddlemanUseCase) applyCooldown(epoch uint64, cooldownMs int64) {
	if cooldownMs <= 0 {
		cooldownMs = uc.cooldownFallback.Milliseconds()
	}
	uc.mutex.Lock()
	if epoch == uc.epoch {
		uc.cooldownUntil = time.Now().Add(time.Duration(cooldownMs) * time.Millisecond)
	}
	uc.mutex.Unlock()
}

func (uc *MiddlemanUseCase) cooldownRemainingLocked() time.Duration {
	if uc.cooldownUntil.IsZero() {
		return 0
	}
	remaining := time.Until(uc.cooldownUntil)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CooldownRemaining reports how long until this user may submit again.
func (uc *MiddlemanUseCase) CooldownRemaining() time.Duration {
	uc.mutex.Lock()
	defer uc.mutex.Unlock()
	return uc.cooldownRemainingLocked()
}

// View derives the display state. Waiting when we already opted in and
// the peer has not; an actionable button (labelled that the peer went
// first) when only the peer opted in; the plain button otherwise.
func (uc *MiddlemanUseCase) View() MiddlemanView {
	uc.mutex.Lock()
	defer uc.mutex.Unlock()

	remaining := uc.cooldownRemainingLocked()
	view := MiddlemanView{
		Cooldown:   FormatCooldown(remaining),
		CooldownMs: remaining.Milliseconds(),
	}

	status := uc.status
	switch {
	case status == nil:
		view.State = MiddlemanStateNone
		view.CanRequest = uc.tradeID != 0 && remaining == 0
	case status.BothRequested:
		view.State = MiddlemanStateBoth
		view.CanRequest = false
	case status.SelfRequested():
		view.State = MiddlemanStateWaiting
		view.CanRequest = false
	case status.PeerRequested():
		view.State = MiddlemanStatePeerRequested
		view.CanRequest = remaining == 0
	default:
		view.State = MiddlemanStateNone
		view.CanRequest = remaining == 0
	}
	return view
}

// CountdownTick drives the one-second display countdown. Purely local:
// it never talks to the server, and the status poll may overrule it.
func (uc *MiddlemanUseCase) CountdownTick() {
	uc.mutex.Lock()
	if uc.tradeID == 0 {
		uc.mutex.Unlock()
		return
	}
	remainingMs := uc.cooldownRemainingLocked().Milliseconds()
	changed := remainingMs > 0 || uc.lastCountdownMs > 0
	uc.lastCountdownMs = remainingMs
	uc.mutex.Unlock()

	if changed {
		uc.eventHub.Publish(hub.Event{Type: hub.EventMiddleman, Payload: uc.View()})
	}
}

// FormatCooldown renders a remaining duration as mm:ss, rounding up so
// the display only shows 00:00 once submission is actually allowed.
func FormatCooldown(remaining time.Duration) string {
	if remaining <= 0 {
		return "00:00"
	}
	seconds := int64((remaining + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
