package mastodon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/bnema/pocketbot/internal/adapters/sse"
	"github.com/bnema/pocketbot/internal/domain"
)

const streamReadSize = 4096

var (
	errStreamClosed = errors.New("stream closed by server")
	errStreamIdle   = errors.New("stream idle")
)

// Stream subscribes to a streaming endpoint and delivers every event to handle,
// reconnecting with exponential backoff until ctx is done. Each connection gets
// a fresh parser; a failure on one stream never touches another.
func (c *Client) Stream(ctx context.Context, path string, handle func(domain.StreamEvent)) error {
	logger := c.logger.With("stream", path)
	backoff := c.backoffMin

	for {
		connected, err := c.streamOnce(ctx, path, handle, logger)
		if ctx.Err() != nil {
			logger.Info("mastodon: stream stopped")
			return nil
		}
		if connected {
			backoff = c.backoffMin
		}

		logger.Warn("mastodon: stream disconnected", "error", err, "backoff", backoff)
		select {
		case <-ctx.Done():
			logger.Info("mastodon: stream stopped")
			return nil
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > c.backoffMax {
			backoff = c.backoffMax
		}
	}
}

func (c *Client) streamOnce(ctx context.Context, path string, handle func(domain.StreamEvent), logger *slog.Logger) (bool, error) {
	endpoint, err := instanceEndpoint(c.baseURL, path, nil)
	if err != nil {
		return false, err
	}

	// A half-open connection never fails a read. Every read pushes the idle deadline forward.
	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	idle := time.AfterFunc(c.streamIdle, cancel)
	defer idle.Stop()

	req, err := http.NewRequestWithContext(connCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("create stream request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamHTTP.Do(req)
	if err != nil {
		if idleExpired(ctx, connCtx) {
			return false, fmt.Errorf("open stream: %w", errStreamIdle)
		}
		return false, fmt.Errorf("open stream: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus("open stream", resp); err != nil {
		return false, err
	}
	logger.Info("mastodon: stream connected")

	parser := sse.NewParser(handle)
	buf := make([]byte, streamReadSize)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			idle.Reset(c.streamIdle)
			if feedErr := parser.Feed(buf[:n]); feedErr != nil {
				logger.Warn("mastodon: dropped malformed stream frame", "error", feedErr)
			}
		}
		if readErr != nil {
			if idleExpired(ctx, connCtx) {
				return true, fmt.Errorf("no data for %s: %w", c.streamIdle, errStreamIdle)
			}
			if errors.Is(readErr, io.EOF) {
				return true, errStreamClosed
			}
			return true, fmt.Errorf("read stream: %w", readErr)
		}
	}
}

// idleExpired reports whether the connection was cancelled by the idle timer
// rather than by the caller.
func idleExpired(ctx, connCtx context.Context) bool {
	return ctx.Err() == nil && connCtx.Err() != nil
}
