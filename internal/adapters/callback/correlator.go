// Package callback receives the browser redirect that ends an out-of-band consent.
package callback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/bnema/pocketbot/internal/domain"
	"github.com/bnema/pocketbot/internal/ports"
	"github.com/gorilla/mux"
)

const (
	ResponseBody = "Nothing to see here! Go back to Mastodon!"

	defaultResumeTimeout = 2 * time.Minute
	shutdownTimeout      = 10 * time.Second
)

// ResumeFunc completes a pending authorization once its callback arrives.
type ResumeFunc func(ctx context.Context, pending domain.PendingAuthorization) error

// Correlator matches GET /{identity}?state=<resume token> to the pending
// authorization registered for that identity. Every request gets the same 200
// answer whether or not anything was resumed.
type Correlator struct {
	pending       ports.PendingRegistry
	resume        ResumeFunc
	logger        *slog.Logger
	router        *mux.Router
	resumeTimeout time.Duration

	inflight sync.WaitGroup
}

func NewCorrelator(pending ports.PendingRegistry, resume ResumeFunc, logger *slog.Logger) *Correlator {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Correlator{
		pending:       pending,
		resume:        resume,
		logger:        logger.With("component", "callback"),
		resumeTimeout: defaultResumeTimeout,
	}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", c.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/{identity}", c.handleCallback).Methods(http.MethodGet)
	router.NotFoundHandler = http.HandlerFunc(writeBody)
	c.router = router

	return c
}

func (c *Correlator) Handler() http.Handler {
	return c.router
}

// ListenAndServe binds addr and serves until ctx is done.
func (c *Correlator) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen callback server: %w", err)
	}
	return c.Serve(ctx, listener)
}

// Serve answers callbacks on listener until ctx is done, then waits for
// resumes already started.
func (c *Correlator) Serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           c.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(listener)
	}()
	c.logger.Info("callback: listening", "addr", listener.Addr().String())

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve callback server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown callback server: %w", err)
	}
	c.Wait()
	return nil
}

// Wait blocks until every resume started by a callback has returned.
func (c *Correlator) Wait() {
	c.inflight.Wait()
}

func (c *Correlator) handleCallback(w http.ResponseWriter, r *http.Request) {
	identity := domain.Identity(mux.Vars(r)["identity"])

	pending, ok := c.pending.Take(identity, r.URL.Query().Get(domain.ResumeTokenParam))
	if !ok {
		c.logger.Debug("callback: nothing pending for token", "identity", identity)
		writeBody(w, r)
		return
	}

	c.logger.Info("callback: resuming authorization", "identity", identity, "kind", pending.Kind)
	ctx := context.WithoutCancel(r.Context())
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()

		ctx, cancel := context.WithTimeout(ctx, c.resumeTimeout)
		defer cancel()
		if err := c.resume(ctx, pending); err != nil {
			c.logger.Warn("callback: resume failed", "identity", identity, "kind", pending.Kind, "error", err)
		}
	}()

	writeBody(w, r)
}

func (c *Correlator) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeBody(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(ResponseBody))
}
