package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func startedHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h := New()
	h.Start(ctx)
	return h
}

func receive(t *testing.T, sub *Subscriber) Event {
	t.Helper()
	select {
	case event := <-sub.Send:
		return event
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}

func TestPublishReachesAllSubscribers(t *testing.T) {
	h := startedHub(t)
	first := h.Subscribe()
	second := h.Subscribe()
	defer h.Unsubscribe(first)
	defer h.Unsubscribe(second)

	h.Publish(Event{Type: EventUnread, Payload: 4})

	assert.Equal(t, EventUnread, receive(t, first).Type)
	assert.Equal(t, EventUnread, receive(t, second).Type)
}

func TestUnsubscribedSurfaceGetsNothing(t *testing.T) {
	h := startedHub(t)
	sub := h.Subscribe()
	h.Unsubscribe(sub)

	h.Publish(Event{Type: EventAlert})

	// The channel is closed on unsubscribe; any residual read yields
	// the zero event, never the published one.
	select {
	case event, ok := <-sub.Send:
		assert.False(t, ok)
		assert.Empty(t, event.Type)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSlowSubscriberIsDroppedNotBlocking(t *testing.T) {
	h := startedHub(t)
	slow := h.Subscribe()
	healthy := h.Subscribe()
	defer h.Unsubscribe(healthy)

	// The slow subscriber is never drained; once its buffer overflows it
	// is dropped. The healthy one, drained after every publish, keeps
	// receiving throughout.
	total := cap(slow.Send) + 8
	for i := 0; i < total; i++ {
		h.Publish(Event{Type: EventMessages, Payload: i})
		receive(t, healthy)
	}
}
