package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/bnema/pocketbot/internal/domain"
	"github.com/bnema/pocketbot/internal/ports"
)

type resumeFunc func(ctx context.Context, pending domain.PendingAuthorization) error

type AuthorizationConfig struct {
	// CallbackBaseURL is the externally reachable address of the callback listener.
	// Each identity gets its own path below it.
	CallbackBaseURL string
	Bookmarks       ports.Bookmarks
	Sessions        ports.CredentialStore
	Pending         ports.PendingRegistry
	Poster          ports.Poster
	Clock           ports.Clock
	Logger          *slog.Logger
}

// Authorization runs the three-legged login: request token, user consent in
// the browser, then the callback that exchanges the token and stores the session.
type Authorization struct {
	callbackBase *url.URL
	bookmarks    ports.Bookmarks
	sessions     ports.CredentialStore
	pending      ports.PendingRegistry
	poster       ports.Poster
	clock        ports.Clock
	logger       *slog.Logger
	resumers     map[domain.ResumeKind]resumeFunc
}

func NewAuthorization(cfg AuthorizationConfig) (*Authorization, error) {
	base, err := url.Parse(cfg.CallbackBaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse callback base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, errors.New("callback base url must use http or https")
	}
	if base.Host == "" {
		return nil, errors.New("callback base url host is required")
	}
	if cfg.Bookmarks == nil || cfg.Sessions == nil || cfg.Pending == nil || cfg.Poster == nil {
		return nil, errors.New("authorization requires bookmarks, sessions, pending registry and poster")
	}

	clock := cfg.Clock
	if clock == nil {
		clock = ports.SystemClock{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a := &Authorization{
		callbackBase: base,
		bookmarks:    cfg.Bookmarks,
		sessions:     cfg.Sessions,
		pending:      cfg.Pending,
		poster:       cfg.Poster,
		clock:        clock,
		logger:       logger.With("component", "authorization"),
	}
	a.resumers = map[domain.ResumeKind]resumeFunc{
		domain.ResumeKindLogin: a.resumeLogin,
	}
	return a, nil
}

// PendingLogin is what the user needs to finish a login started by Begin.
type PendingLogin struct {
	Identity    domain.Identity
	ConsentURL  string
	ResumeToken string
}

// CallbackURL is where the bookmarking service sends the user back after consent.
func (a *Authorization) CallbackURL(identity domain.Identity, resumeToken string) string {
	u := *a.callbackBase
	u.Path = "/" + string(identity)
	u.RawPath = "/" + url.PathEscape(string(identity))
	u.RawQuery = url.Values{domain.ResumeTokenParam: {resumeToken}}.Encode()
	u.Fragment = ""
	return u.String()
}

// Begin requests a delegation token and registers the pending login. Nothing is
// registered when the token request fails.
func (a *Authorization) Begin(ctx context.Context, identity domain.Identity, replyToID string) (PendingLogin, error) {
	if identity == "" {
		return PendingLogin{}, errors.New("identity is required")
	}

	resumeToken := NewResumeToken()
	redirectURI := a.CallbackURL(identity, resumeToken)
	requestToken, err := a.bookmarks.RequestToken(ctx, redirectURI)
	if err != nil {
		return PendingLogin{}, fmt.Errorf("request token: %w", err)
	}
	consentURL, err := a.bookmarks.AuthorizeURL(requestToken, redirectURI)
	if err != nil {
		return PendingLogin{}, fmt.Errorf("build consent url: %w", err)
	}

	a.pending.Register(domain.PendingAuthorization{
		ResumeToken: resumeToken,
		Identity:    identity,
		Kind:        domain.ResumeKindLogin,
		RequestCode: requestToken,
		ReplyToID:   replyToID,
		CreatedAt:   a.clock.Now(),
	})
	a.logger.Info("authorization: login pending", "identity", identity)

	return PendingLogin{Identity: identity, ConsentURL: consentURL, ResumeToken: resumeToken}, nil
}

// Abandon drops a login the user was never told about. A newer login for the
// same identity is left alone.
func (a *Authorization) Abandon(login PendingLogin) {
	if _, ok := a.pending.Take(login.Identity, login.ResumeToken); ok {
		a.logger.Info("authorization: login abandoned", "identity", login.Identity)
	}
}

// Resume completes a pending authorization taken from the registry.
func (a *Authorization) Resume(ctx context.Context, pending domain.PendingAuthorization) error {
	resume, ok := a.resumers[pending.Kind]
	if !ok {
		return fmt.Errorf("no resume handler for %q", pending.Kind)
	}
	return resume(ctx, pending)
}

func (a *Authorization) resumeLogin(ctx context.Context, pending domain.PendingAuthorization) error {
	accessToken, err := a.bookmarks.ExchangeToken(ctx, pending.RequestCode)
	if err != nil {
		a.logger.Warn("authorization: token exchange failed", "identity", pending.Identity, "error", err)
		return errors.Join(fmt.Errorf("exchange token: %w", err), a.reply(ctx, pending, somethingWentWrong(pending.Identity)))
	}

	if err := a.sessions.Add(pending.Identity, accessToken); err != nil {
		a.logger.Error("authorization: store session failed", "identity", pending.Identity, "error", err)
		return errors.Join(fmt.Errorf("store session: %w", err), a.reply(ctx, pending, somethingWentWrong(pending.Identity)))
	}
	a.logger.Info("authorization: login complete", "identity", pending.Identity)

	return a.reply(ctx, pending, fmt.Sprintf("Great @%s! You are now authenticated!!", pending.Identity))
}

func (a *Authorization) reply(ctx context.Context, pending domain.PendingAuthorization, text string) error {
	err := a.poster.Post(ctx, domain.Reply{
		InReplyToID: pending.ReplyToID,
		Status:      text,
		Visibility:  domain.VisibilityDirect,
	})
	if err != nil {
		return fmt.Errorf("post reply: %w", err)
	}
	return nil
}

// SweepExpired drops abandoned logins and logs each one.
func (a *Authorization) SweepExpired() int {
	expired := a.pending.Sweep(a.clock.Now())
	for _, pending := range expired {
		a.logger.Info("authorization: pending login expired", "identity", pending.Identity, "created_at", pending.CreatedAt)
	}
	return len(expired)
}

// RunSweeper calls SweepExpired every interval until ctx is done.
func (a *Authorization) RunSweeper(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			a.SweepExpired()
		}
	}
}

func somethingWentWrong(identity domain.Identity) string {
	return fmt.Sprintf("Sorry @%s, something went wrong.", identity)
}
