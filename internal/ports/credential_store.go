package ports

import "github.com/bnema/pocketbot/internal/domain"

// CredentialStore is the single source of truth for "is logged in".
// Reads are in-memory; Add and Forget persist the whole mapping before returning.
type CredentialStore interface {
	Exists(identity domain.Identity) bool
	AccessToken(identity domain.Identity) (string, bool)
	Add(identity domain.Identity, accessToken string) error
	Forget(identity domain.Identity) error
}
