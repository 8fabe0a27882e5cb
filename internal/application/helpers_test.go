package application

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bnema/pocketbot/internal/adapters/sessions/jsonfile"
	"github.com/bnema/pocketbot/internal/domain"
	"github.com/bnema/pocketbot/internal/ports/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const callbackBase = "https://bot.example"

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type replyRecorder struct {
	mu      sync.Mutex
	replies []domain.Reply
}

func (r *replyRecorder) record(_ context.Context, reply domain.Reply) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies = append(r.replies, reply)
	return nil
}

func (r *replyRecorder) texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.replies))
	for _, reply := range r.replies {
		out = append(out, reply.Status)
	}
	return out
}

func (r *replyRecorder) all() []domain.Reply {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Reply(nil), r.replies...)
}

func newRecordingPoster(t *testing.T) (*mocks.MockPoster, *replyRecorder) {
	t.Helper()

	replies := &replyRecorder{}
	poster := mocks.NewMockPoster(t)
	poster.EXPECT().Post(mock.Anything, mock.Anything).RunAndReturn(replies.record).Maybe()
	return poster, replies
}

type harness struct {
	dispatcher *Dispatcher
	auth       *Authorization
	pending    *PendingRegistry
	sessions   *jsonfile.Store
	bookmarks  *mocks.MockBookmarks
	replies    *replyRecorder
	clock      *fakeClock
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	sessions, err := jsonfile.NewStore(filepath.Join(t.TempDir(), "sessions.json"), nil)
	require.NoError(t, err)
	require.NoError(t, sessions.Load())

	clock := newFakeClock()
	poster, replies := newRecordingPoster(t)
	bookmarks := mocks.NewMockBookmarks(t)
	pending := NewPendingRegistry(15*time.Minute, clock)

	auth, err := NewAuthorization(AuthorizationConfig{
		CallbackBaseURL: callbackBase,
		Bookmarks:       bookmarks,
		Sessions:        sessions,
		Pending:         pending,
		Poster:          poster,
		Clock:           clock,
	})
	require.NoError(t, err)

	dispatcher, err := NewDispatcher(DispatcherConfig{
		Poster:        poster,
		Bookmarks:     bookmarks,
		Sessions:      sessions,
		Authorization: auth,
	})
	require.NoError(t, err)

	return &harness{
		dispatcher: dispatcher,
		auth:       auth,
		pending:    pending,
		sessions:   sessions,
		bookmarks:  bookmarks,
		replies:    replies,
		clock:      clock,
	}
}

// reply builds a direct message from alice answering an earlier bot message.
func reply(id string, content string) domain.Status {
	parent := "100"
	return domain.Status{
		ID:          id,
		InReplyToID: &parent,
		Account:     &domain.Account{ID: "1", Username: "alice", Acct: "alice"},
		Content:     content,
		Visibility:  domain.VisibilityDirect,
	}
}
