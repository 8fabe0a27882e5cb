package ports

import (
	"time"

	"github.com/bnema/pocketbot/internal/domain"
)

// PendingRegistry holds at most one pending authorization per identity.
// Take hands a record out once, and only for its resume token.
type PendingRegistry interface {
	Register(pending domain.PendingAuthorization)
	Take(identity domain.Identity, resumeToken string) (domain.PendingAuthorization, bool)
	Sweep(now time.Time) []domain.PendingAuthorization
	Pending() []domain.PendingAuthorization
}
