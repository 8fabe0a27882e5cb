package callback

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"
)

var ErrCallbackTimeout = errors.New("timed out waiting for callback")

// OneShot is a throwaway listener for interactive setup: the first request on
// any path resolves it, then it shuts down.
type OneShot struct {
	listener   net.Listener
	server     *http.Server
	resultCh   chan oneShotResult
	resultOnce sync.Once
	closeOnce  sync.Once
}

type oneShotResult struct {
	query url.Values
	err   error
}

func StartOneShot(listenAddr string) (*OneShot, error) {
	if listenAddr == "" {
		listenAddr = "127.0.0.1:0"
	}

	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, fmt.Errorf("listen callback server: %w", err)
	}

	o := &OneShot{
		listener: listener,
		resultCh: make(chan oneShotResult, 1),
	}
	o.server = &http.Server{Handler: http.HandlerFunc(o.handle), ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if serveErr := o.server.Serve(o.listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			o.trySendResult(oneShotResult{err: serveErr})
		}
	}()

	return o, nil
}

func (o *OneShot) RedirectURI() string {
	if tcpAddr, ok := o.listener.Addr().(*net.TCPAddr); ok {
		return fmt.Sprintf("http://localhost:%d", tcpAddr.Port)
	}
	return "http://localhost"
}

// Wait returns the query string of the first request and closes the listener.
// It gives up after timeout or when ctx is done, whichever comes first.
func (o *OneShot) Wait(ctx context.Context, timeout time.Duration) (url.Values, error) {
	defer o.Close()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result := <-o.resultCh:
		return result.query, result.err
	case <-timer.C:
		return nil, ErrCallbackTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (o *OneShot) Close() error {
	var closeErr error
	o.closeOnce.Do(func() {
		closeErr = o.server.Close()
	})
	return closeErr
}

func (o *OneShot) handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Nothing to see here!"))
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	o.trySendResult(oneShotResult{query: r.URL.Query()})
}

func (o *OneShot) trySendResult(result oneShotResult) {
	o.resultOnce.Do(func() {
		o.resultCh <- result
	})
}
