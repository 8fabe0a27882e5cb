package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bnema/pocketbot/internal/domain"
	"github.com/bnema/pocketbot/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewAuthorizationValidatesCallbackURL(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		base    string
		wantErr string
	}{
		{name: "scheme", base: "ftp://bot.example", wantErr: "http or https"},
		{name: "host", base: "https://", wantErr: "host is required"},
		{name: "collaborators", base: "https://bot.example", wantErr: "requires"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewAuthorization(AuthorizationConfig{CallbackBaseURL: tc.base})
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestCallbackURLUsesIdentityPath(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	assert.Equal(t, "https://bot.example/alice?state=tok", h.auth.CallbackURL("alice", "tok"))
	assert.Equal(t, "https://bot.example/a%20b?state=a%26b", h.auth.CallbackURL("a b", "a&b"))
}

func TestResumeExchangeFailureApologizes(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.bookmarks.EXPECT().ExchangeToken(mock.Anything, "req-code").Return("", errors.New("user rejected")).Once()

	err := h.auth.Resume(context.Background(), domain.PendingAuthorization{
		Identity:    "alice",
		Kind:        domain.ResumeKindLogin,
		RequestCode: "req-code",
		ReplyToID:   "200",
	})
	assert.ErrorContains(t, err, "user rejected")
	assert.False(t, h.sessions.Exists("alice"))
	assert.Equal(t, []domain.Reply{{InReplyToID: "200", Status: "Sorry @alice, something went wrong.", Visibility: domain.VisibilityDirect}}, h.replies.all())
}

func TestResumeStoreFailureApologizes(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.bookmarks.EXPECT().ExchangeToken(mock.Anything, "req-code").Return("user-token", nil).Once()
	sessions := mocks.NewMockCredentialStore(t)
	sessions.EXPECT().Add(domain.Identity("alice"), "user-token").Return(errors.New("disk full")).Once()
	poster, replies := newRecordingPoster(t)
	auth, err := NewAuthorization(AuthorizationConfig{
		CallbackBaseURL: callbackBase,
		Bookmarks:       h.bookmarks,
		Sessions:        sessions,
		Pending:         h.pending,
		Poster:          poster,
		Clock:           h.clock,
	})
	require.NoError(t, err)

	err = auth.Resume(context.Background(), domain.PendingAuthorization{
		Identity:    "alice",
		Kind:        domain.ResumeKindLogin,
		RequestCode: "req-code",
		ReplyToID:   "200",
	})
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, []string{"Sorry @alice, something went wrong."}, replies.texts())
}

func TestAbandonLeavesNewerLogin(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.bookmarks.EXPECT().RequestToken(mock.Anything, mock.Anything).Return("req-code", nil).Times(2)
	h.bookmarks.EXPECT().AuthorizeURL(mock.Anything, mock.Anything).Return("https://getpocket.com/auth/authorize", nil).Times(2)

	first, err := h.auth.Begin(context.Background(), "alice", "200")
	require.NoError(t, err)
	second, err := h.auth.Begin(context.Background(), "alice", "201")
	require.NoError(t, err)
	assert.NotEqual(t, first.ResumeToken, second.ResumeToken)

	h.auth.Abandon(first)
	snapshot := h.pending.Pending()
	require.Len(t, snapshot, 1)
	assert.Equal(t, second.ResumeToken, snapshot[0].ResumeToken)

	h.auth.Abandon(second)
	assert.Empty(t, h.pending.Pending())
}

func TestResumeUnknownKind(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	err := h.auth.Resume(context.Background(), domain.PendingAuthorization{Identity: "alice", Kind: "refresh"})
	assert.ErrorContains(t, err, `no resume handler for "refresh"`)
	assert.Empty(t, h.replies.all())
}

func TestSweepExpiredDropsAbandonedLogins(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.bookmarks.EXPECT().RequestToken(mock.Anything, mock.Anything).Return("req-code", nil).Once()
	h.bookmarks.EXPECT().AuthorizeURL(mock.Anything, mock.Anything).Return("https://getpocket.com/auth/authorize", nil).Once()

	_, err := h.auth.Begin(context.Background(), "alice", "200")
	require.NoError(t, err)
	assert.Zero(t, h.auth.SweepExpired())

	h.clock.Advance(16 * time.Minute)
	assert.Equal(t, 1, h.auth.SweepExpired())
	assert.Empty(t, h.pending.Pending())
}

func TestRunSweeperStopsWithContext(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.auth.RunSweeper(ctx, time.Millisecond) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("sweeper did not stop")
	}
}
