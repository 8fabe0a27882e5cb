package domain

import "time"

type ResumeKind string

const ResumeKindLogin ResumeKind = "login"

// ResumeTokenParam is the callback query parameter carrying the resume token.
const ResumeTokenParam = "state"

// PendingAuthorization records a login waiting for the out-of-band consent callback.
// It holds no behaviour; the resume handler is looked up by Kind.
type PendingAuthorization struct {
	// ResumeToken must come back on the callback for the record to be resumed.
	ResumeToken string
	Identity    Identity
	Kind        ResumeKind
	RequestCode string
	ReplyToID   string
	CreatedAt   time.Time
}

// Expired reports whether the record is older than ttl. A non-positive ttl never expires.
func (p PendingAuthorization) Expired(now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(p.CreatedAt) > ttl
}
