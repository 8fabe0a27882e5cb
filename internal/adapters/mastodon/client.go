// Package mastodon talks to the messaging service: posting replies, reading the
// streaming API and provisioning the bot account.
package mastodon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/pocketbot/internal/domain"
	"github.com/bnema/pocketbot/internal/ports"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	maxResponseBytes = 1 << 20

	instancePath = "/api/v2/instance"
	statusesPath = "/api/v1/statuses"

	DirectStreamPath       = "/api/v1/streaming/direct"
	NotificationStreamPath = "/api/v1/streaming/user/notification"
)

type Config struct {
	BaseURL     string
	AccessToken string
	// Timeout bounds non-streaming requests.
	Timeout time.Duration
	// StreamIdleTimeout drops a stream connection that delivered no bytes for
	// this long; the server sends a heartbeat comment every few seconds.
	StreamIdleTimeout time.Duration
	// PostRate is the sustained number of replies per second; PostBurst allows short bursts.
	PostRate  rate.Limit
	PostBurst int
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	streamHTTP *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger

	streamIdle time.Duration
	backoffMin time.Duration
	backoffMax time.Duration
}

var _ ports.Poster = (*Client)(nil)

type Instance struct {
	Domain  string `json:"domain"`
	Title   string `json:"title"`
	Version string `json:"version"`
}

// StatusError reports a non-2xx answer from the API.
type StatusError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
}

func (e *StatusError) retryable() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if _, err := instanceEndpoint(cfg.BaseURL, instancePath, nil); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.AccessToken) == "" {
		return nil, errors.New("mastodon access token is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	limit := cfg.PostRate
	if limit <= 0 {
		limit = 1
	}
	streamIdle := cfg.StreamIdleTimeout
	if streamIdle <= 0 {
		streamIdle = 90 * time.Second
	}
	burst := cfg.PostBurst
	if burst <= 0 {
		burst = 5
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.AccessToken,
		httpClient: &http.Client{Timeout: timeout},
		streamHTTP: &http.Client{},
		limiter:    rate.NewLimiter(limit, burst),
		logger:     logger.With("component", "mastodon"),
		streamIdle: streamIdle,
		backoffMin: time.Second,
		backoffMax: 30 * time.Second,
	}, nil
}

// Verify checks the instance is reachable with the configured credentials.
func (c *Client) Verify(ctx context.Context) (Instance, error) {
	endpoint, err := instanceEndpoint(c.baseURL, instancePath, nil)
	if err != nil {
		return Instance{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Instance{}, fmt.Errorf("create instance request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Instance{}, fmt.Errorf("request instance: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus("request instance", resp); err != nil {
		return Instance{}, err
	}

	var instance Instance
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&instance); err != nil {
		return Instance{}, fmt.Errorf("decode instance response: %w", err)
	}
	if instance.Domain == "" && instance.Title == "" {
		return Instance{}, errors.New("instance response is empty")
	}

	return instance, nil
}

// Post publishes a reply. A transport failure or 5xx answer is retried once with
// the same idempotency key so the server can drop the duplicate.
func (c *Client) Post(ctx context.Context, reply domain.Reply) error {
	if strings.TrimSpace(reply.Status) == "" {
		return errors.New("reply status is empty")
	}
	visibility := reply.Visibility
	if visibility == "" {
		visibility = domain.VisibilityDirect
	}

	values := url.Values{}
	values.Set("status", reply.Status)
	values.Set("visibility", string(visibility))
	if reply.InReplyToID != "" {
		values.Set("in_reply_to_id", reply.InReplyToID)
	}
	idempotencyKey := uuid.NewString()

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("wait for post slot: %w", err)
		}

		err := c.postOnce(ctx, values, idempotencyKey)
		if err == nil {
			return nil
		}
		lastErr = err

		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.retryable() {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
		c.logger.Warn("mastodon: post failed", "attempt", attempt+1, "in_reply_to_id", reply.InReplyToID, "error", err)
	}

	return lastErr
}

func (c *Client) postOnce(ctx context.Context, values url.Values, idempotencyKey string) error {
	endpoint, err := instanceEndpoint(c.baseURL, statusesPath, nil)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("create status request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Idempotency-Key", idempotencyKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post status: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	return checkStatus("post status", resp)
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
}

type apiError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func checkStatus(op string, resp *http.Response) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	var payload apiError
	_ = json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload)
	message := payload.Error
	if payload.ErrorDescription != "" {
		message = strings.TrimSpace(message + ": " + payload.ErrorDescription)
	}

	return &StatusError{Op: op, StatusCode: resp.StatusCode, Message: message}
}

// instanceEndpoint resolves an API path on a Mastodon instance. A bare host
// such as "mozilla.social" is taken as https. A path on the instance URL is
// kept in front of the API path.
func instanceEndpoint(instance string, apiPath string, query url.Values) (string, error) {
	instance = strings.TrimSpace(instance)
	if instance == "" {
		return "", errors.New("mastodon url is required")
	}
	if !strings.Contains(instance, "://") {
		instance = "https://" + instance
	}

	parsed, err := url.Parse(instance)
	if err != nil {
		return "", fmt.Errorf("parse mastodon url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("mastodon url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("mastodon url host is required")
	}

	endpoint := parsed.JoinPath(apiPath)
	endpoint.RawQuery = ""
	endpoint.Fragment = ""
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}
	return endpoint.String(), nil
}
