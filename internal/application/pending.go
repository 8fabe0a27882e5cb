package application

import (
	"crypto/subtle"
	"sort"
	"sync"
	"time"

	"github.com/bnema/pocketbot/internal/domain"
	"github.com/bnema/pocketbot/internal/ports"
	"github.com/google/uuid"
)

// PendingRegistry keeps at most one login in progress per identity. A record is
// handed out only to the caller presenting its resume token, and never once it
// is older than the TTL; Sweep drops those.
type PendingRegistry struct {
	ttl   time.Duration
	clock ports.Clock

	mu      sync.Mutex
	pending map[domain.Identity]domain.PendingAuthorization
}

var _ ports.PendingRegistry = (*PendingRegistry)(nil)

// NewPendingRegistry builds a registry. A non-positive ttl keeps records until they are taken.
func NewPendingRegistry(ttl time.Duration, clock ports.Clock) *PendingRegistry {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &PendingRegistry{
		ttl:     ttl,
		clock:   clock,
		pending: map[domain.Identity]domain.PendingAuthorization{},
	}
}

// NewResumeToken returns an unguessable token carried by the consent callback URL.
func NewResumeToken() string {
	return uuid.NewString()
}

// Register stores the record, replacing any unresolved one for the same identity.
func (r *PendingRegistry) Register(pending domain.PendingAuthorization) {
	if pending.ResumeToken == "" {
		pending.ResumeToken = NewResumeToken()
	}
	if pending.CreatedAt.IsZero() {
		pending.CreatedAt = r.clock.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[pending.Identity] = pending
}

// Take removes and returns the record for identity when resumeToken matches it.
// A mismatched token leaves the record in place. An expired record is removed
// but not returned.
func (r *PendingRegistry) Take(identity domain.Identity, resumeToken string) (domain.PendingAuthorization, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pending, ok := r.pending[identity]
	if !ok || !tokenMatches(pending.ResumeToken, resumeToken) {
		return domain.PendingAuthorization{}, false
	}
	delete(r.pending, identity)

	if pending.Expired(r.clock.Now(), r.ttl) {
		return domain.PendingAuthorization{}, false
	}
	return pending, true
}

// Sweep drops every record expired at now and returns them.
func (r *PendingRegistry) Sweep(now time.Time) []domain.PendingAuthorization {
	r.mu.Lock()
	defer r.mu.Unlock()

	var expired []domain.PendingAuthorization
	for identity, pending := range r.pending {
		if pending.Expired(now, r.ttl) {
			expired = append(expired, pending)
			delete(r.pending, identity)
		}
	}
	sortPending(expired)
	return expired
}

// Pending returns a snapshot ordered by creation time.
func (r *PendingRegistry) Pending() []domain.PendingAuthorization {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.PendingAuthorization, 0, len(r.pending))
	for _, pending := range r.pending {
		out = append(out, pending)
	}
	sortPending(out)
	return out
}

func tokenMatches(want, got string) bool {
	return got != "" && subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

func sortPending(records []domain.PendingAuthorization) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].Identity < records[j].Identity
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
}
