package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
	"tradepost/internal/infrastructure/hub"
	"tradepost/internal/infrastructure/session"
)

func testToken(t *testing.T, userID string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return token
}

func testSession(t *testing.T, userID string) *session.Session {
	t.Helper()
	sess := session.New()
	if err := sess.Login(testToken(t, userID)); err != nil {
		t.Fatalf("logging in test session: %v", err)
	}
	return sess
}

func testHub(t *testing.T) *hub.Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	eventHub := hub.New()
	eventHub.Start(ctx)
	return eventHub
}

// waitForEvent drains the subscriber until an event of the wanted type
// arrives or the timeout passes.
func waitForEvent(sub *hub.Subscriber, eventType string, timeout time.Duration) bool {
	deadline := time.After(timeout)
	for {
		select {
		case event := <-sub.Send:
			if event.Type == eventType {
				return true
			}
		case <-deadline:
			return false
		}
	}
}

type fakeMessageRepo struct {
	mutex sync.Mutex

	fetchFunc  func(query repository.FetchMessagesQuery) ([]*entity.Message, error)
	sendFunc   func(input repository.SendMessageInput) (*entity.Message, error)
	fetchCalls []repository.FetchMessagesQuery
	sendCalls  []repository.SendMessageInput
	markReads  []string
	markErr    error
}

func (f *fakeMessageRepo) Fetch(ctx context.Context, query repository.FetchMessagesQuery) ([]*entity.Message, error) {
	f.mutex.Lock()
	f.fetchCalls = append(f.fetchCalls, query)
	fn := f.fetchFunc
	f.mutex.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(query)
}

func (f *fakeMessageRepo) Send(ctx context.Context, input repository.SendMessageInput) (*entity.Message, error) {
	f.mutex.Lock()
	f.sendCalls = append(f.sendCalls, input)
	fn := f.sendFunc
	f.mutex.Unlock()
	if fn == nil {
		return &entity.Message{ID: 1, Content: input.Content, RecipientID: input.RecipientID}, nil
	}
	return fn(input)
}

func (f *fakeMessageRepo) MarkRead(ctx context.Context, recipientID string, tradeID int64) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.markReads = append(f.markReads, recipientID)
	return f.markErr
}

func (f *fakeMessageRepo) markReadCount() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return len(f.markReads)
}

func (f *fakeMessageRepo) sendCount() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return len(f.sendCalls)
}

type fakeBridgeRepo struct {
	mutex  sync.Mutex
	relays []int64
	err    error
}

func (f *fakeBridgeRepo) Relay(ctx context.Context, reportID int64, senderID, content string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.relays = append(f.relays, reportID)
	return f.err
}

func (f *fakeBridgeRepo) relayCount() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return len(f.relays)
}

type fakeConversationRepo struct {
	mutex     sync.Mutex
	summaries []*entity.ConversationSummary
	err       error
	calls     int
}

func (f *fakeConversationRepo) List(ctx context.Context) ([]*entity.ConversationSummary, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.summaries, nil
}

func (f *fakeConversationRepo) callCount() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.calls
}

type fakeNotificationRepo struct {
	mutex        sync.Mutex
	count        int
	countErr     error
	feed         []*entity.Notification
	feedErr      error
	countCalls   int
	markAllCalls int
	markCalls    []int64
}

func (f *fakeNotificationRepo) UnreadCount(ctx context.Context) (int, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.countCalls++
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.count, nil
}

func (f *fakeNotificationRepo) Feed(ctx context.Context) ([]*entity.Notification, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.feedErr != nil {
		return nil, f.feedErr
	}
	return f.feed, nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, notificationID int64) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.markCalls = append(f.markCalls, notificationID)
	return nil
}

func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.markAllCalls++
	return nil
}

func (f *fakeNotificationRepo) setCount(count int) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.count = count
	f.countErr = nil
}

func (f *fakeNotificationRepo) setCountErr(err error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.countErr = err
}

func (f *fakeNotificationRepo) unreadCalls() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.countCalls
}

type fakeDashboardRepo struct {
	mutex   sync.Mutex
	summary *entity.DashboardSummary
	err     error
}

func (f *fakeDashboardRepo) Summary(ctx context.Context) (*entity.DashboardSummary, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.summary == nil {
		return &entity.DashboardSummary{}, nil
	}
	summary := *f.summary
	return &summary, nil
}

type fakeMiddlemanRepo struct {
	mutex        sync.Mutex
	status       *entity.MiddlemanStatus
	statusErr    error
	result       *repository.MiddlemanRequestResult
	requestErr   error
	requestCalls int
}

func (f *fakeMiddlemanRepo) Status(ctx context.Context, tradeID int64) (*entity.MiddlemanStatus, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	status := *f.status
	return &status, nil
}

func (f *fakeMiddlemanRepo) Request(ctx context.Context, tradeID int64, recipientID string) (*repository.MiddlemanRequestResult, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.requestCalls++
	if f.requestErr != nil {
		return nil, f.requestErr
	}
	result := *f.result
	return &result, nil
}

func (f *fakeMiddlemanRepo) requestCount() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.requestCalls
}
