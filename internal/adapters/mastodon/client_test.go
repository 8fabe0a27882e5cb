package mastodon

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bnema/pocketbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	client, err := NewClient(Config{BaseURL: baseURL, AccessToken: "bot-token", PostRate: 1000, PostBurst: 10}, nil)
	require.NoError(t, err)
	client.backoffMin = time.Millisecond
	client.backoffMax = 5 * time.Millisecond
	return client
}

func TestNewClientValidatesConfig(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{BaseURL: "ftp://example.com", AccessToken: "x"}, nil)
	assert.ErrorContains(t, err, "http or https")

	_, err = NewClient(Config{BaseURL: "https://example.com"}, nil)
	assert.ErrorContains(t, err, "access token is required")
}

func TestInstanceEndpoint(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		instance string
		path     string
		query    url.Values
		want     string
		wantErr  string
	}{
		{name: "bare host", instance: "mozilla.social", path: statusesPath, want: "https://mozilla.social/api/v1/statuses"},
		{name: "trailing slash", instance: "https://mozilla.social/", path: instancePath, want: "https://mozilla.social/api/v2/instance"},
		{name: "sub path", instance: "http://127.0.0.1:3000/masto", path: DirectStreamPath, want: "http://127.0.0.1:3000/masto/api/v1/streaming/direct"},
		{name: "query", instance: "https://mozilla.social?x=1", path: authorizePath, query: url.Values{"response_type": {"code"}}, want: "https://mozilla.social/oauth/authorize?response_type=code"},
		{name: "empty", instance: " ", path: statusesPath, wantErr: "mastodon url is required"},
		{name: "scheme", instance: "ftp://mozilla.social", path: statusesPath, wantErr: "mastodon url must use http or https"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := instanceEndpoint(tc.instance, tc.path, tc.query)
			if tc.wantErr != "" {
				assert.EqualError(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestVerifyReadsInstance(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, instancePath, r.URL.Path)
		assert.Equal(t, "Bearer bot-token", r.Header.Get("Authorization"))
		_, _ = fmt.Fprint(w, `{"domain":"mozilla.social","title":"Mozilla Social","version":"4.2.0"}`)
	}))
	defer server.Close()

	instance, err := newTestClient(t, server.URL).Verify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "mozilla.social", instance.Domain)
}

func TestPostSendsDirectReply(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, statusesPath, r.URL.Path)
		assert.Equal(t, "Bearer bot-token", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("Idempotency-Key"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "109", r.Form.Get("in_reply_to_id"))
		assert.Equal(t, "@alice hello", r.Form.Get("status"))
		assert.Equal(t, "direct", r.Form.Get("visibility"))
		_, _ = fmt.Fprint(w, `{"id":"110"}`)
	}))
	defer server.Close()

	err := newTestClient(t, server.URL).Post(context.Background(), domain.Reply{InReplyToID: "109", Status: "@alice hello"})
	require.NoError(t, err)
}

func TestPostRetriesOnceOnServerError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	var mu sync.Mutex
	keys := map[string]struct{}{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		keys[r.Header.Get("Idempotency-Key")] = struct{}{}
		mu.Unlock()
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = fmt.Fprint(w, `{"id":"1"}`)
	}))
	defer server.Close()

	err := newTestClient(t, server.URL).Post(context.Background(), domain.Reply{InReplyToID: "1", Status: "hi"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Len(t, keys, 1)
}

func TestPostGivesUpAfterSecondFailure(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	err := newTestClient(t, server.URL).Post(context.Background(), domain.Reply{Status: "hi"})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, int32(2), calls.Load())
}

func TestPostDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = fmt.Fprint(w, `{"error":"Validation failed: Text can't be blank"}`)
	}))
	defer server.Close()

	err := newTestClient(t, server.URL).Post(context.Background(), domain.Reply{Status: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Validation failed")
	assert.Equal(t, int32(1), calls.Load())
}

func TestStreamReconnectsAfterServerCloses(t *testing.T) {
	t.Parallel()

	var connections atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DirectStreamPath, r.URL.Path)
		assert.Equal(t, "Bearer bot-token", r.Header.Get("Authorization"))
		n := connections.Add(1)
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = fmt.Fprintf(w, ":)\nevent: conversation\ndata: {\"id\":\"%d\"}\n\n", n)
		w.(http.Flusher).Flush()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan domain.StreamEvent, 16)
	done := make(chan error, 1)
	go func() {
		done <- newTestClient(t, server.URL).Stream(ctx, DirectStreamPath, func(ev domain.StreamEvent) {
			select {
			case events <- ev:
			default:
			}
		})
	}()

	for _, want := range []string{`{"id":"1"}`, `{"id":"2"}`} {
		select {
		case ev := <-events:
			assert.Equal(t, domain.EventConversation, ev.Kind)
			assert.JSONEq(t, want, string(ev.Payload))
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for stream event")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not stop after cancel")
	}
}

func TestStreamReplacesSilentConnection(t *testing.T) {
	t.Parallel()

	var connections atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		connections.Add(1)
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	client.streamIdle = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- client.Stream(ctx, DirectStreamPath, func(domain.StreamEvent) {})
	}()

	assert.Eventually(t, func() bool {
		return connections.Load() >= 3
	}, 3*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not stop after cancel")
	}
}

func TestStreamKeepsConnectionWhileHeartbeatsArrive(t *testing.T) {
	t.Parallel()

	var connections atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		connections.Add(1)
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-r.Context().Done():
				return
			case <-ticker.C:
				_, _ = fmt.Fprint(w, ":thump\n")
				w.(http.Flusher).Flush()
			}
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	client.streamIdle = 200 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 600*time.Millisecond)
	defer cancel()
	require.NoError(t, client.Stream(ctx, DirectStreamPath, func(domain.StreamEvent) {}))
	assert.Equal(t, int32(1), connections.Load())
}

func TestStreamKeepsRetryingWhenUnauthorized(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := newTestClient(t, server.URL).Stream(ctx, NotificationStreamPath, func(domain.StreamEvent) {})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, attempts.Load(), int32(2))
}
