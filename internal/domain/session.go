package domain

type SessionEntry struct {
	Identity    Identity
	AccessToken string
}
