package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradepost/internal/domain/entity"
	"tradepost/pkg/errors"
)

func directorySummaries() []*entity.ConversationSummary {
	return []*entity.ConversationSummary{
		{PeerID: "u1", PeerDisplayName: "Alice", LastMessage: "see you at the trade", TradeID: 101, UnreadCount: 2},
		{PeerID: "u2", PeerDisplayName: "Bob", LastMessage: "thanks!"},
		{PeerID: "u1", PeerDisplayName: "Alice", LastMessage: "separate thread", TradeID: 202},
	}
}

func TestListFiltersCachedCopyWithoutRefetch(t *testing.T) {
	conversationRepo := &fakeConversationRepo{summaries: directorySummaries()}
	directory := NewDirectoryUseCase(conversationRepo, testHub(t))

	require.NoError(t, directory.Refresh(context.Background()))
	fetches := conversationRepo.callCount()

	assert.Len(t, directory.List(""), 3)

	byName := directory.List("alice")
	assert.Len(t, byName, 2)

	byMessage := directory.List("thanks")
	require.Len(t, byMessage, 1)
	assert.Equal(t, "u2", byMessage[0].PeerID)

	byTrade := directory.List("trade 101")
	require.Len(t, byTrade, 1)
	assert.Equal(t, int64(101), byTrade[0].TradeID)

	assert.Empty(t, directory.List("no such peer"))

	// Searching never touches the network.
	assert.Equal(t, fetches, conversationRepo.callCount())
}

func TestTransientFailureKeepsCachedDirectory(t *testing.T) {
	conversationRepo := &fakeConversationRepo{summaries: directorySummaries()}
	directory := NewDirectoryUseCase(conversationRepo, testHub(t))

	require.NoError(t, directory.Refresh(context.Background()))

	conversationRepo.err = errors.Internal("backend down", nil)
	err := directory.Refresh(context.Background())
	assert.Error(t, err)
	assert.Len(t, directory.List(""), 3)
}

func TestAuthFailureClearsCachedDirectory(t *testing.T) {
	conversationRepo := &fakeConversationRepo{summaries: directorySummaries()}
	directory := NewDirectoryUseCase(conversationRepo, testHub(t))

	require.NoError(t, directory.Refresh(context.Background()))

	conversationRepo.err = errors.Unauthorized("Session expired", nil)
	err := directory.Refresh(context.Background())
	assert.Error(t, err)
	assert.Empty(t, directory.List(""))
}

func TestMarkReadLocallyZeroesOneThread(t *testing.T) {
	conversationRepo := &fakeConversationRepo{summaries: directorySummaries()}
	directory := NewDirectoryUseCase(conversationRepo, testHub(t))
	require.NoError(t, directory.Refresh(context.Background()))

	directory.MarkReadLocally(entity.ConversationKey{PeerID: "u1", TradeID: 101})

	for _, summary := range directory.List("") {
		if summary.PeerID == "u1" && summary.TradeID == 101 {
			assert.Equal(t, 0, summary.UnreadCount)
		}
	}
}
