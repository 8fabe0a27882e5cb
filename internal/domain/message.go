package domain

import "strings"

// Identity is the messaging-service username a session is keyed by.
type Identity string

type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityUnlisted Visibility = "unlisted"
	VisibilityPrivate  Visibility = "private"
	VisibilityDirect   Visibility = "direct"
)

// IsPublic reports whether anyone on the network can read a status with this visibility.
func (v Visibility) IsPublic() bool {
	return v == VisibilityPublic || v == VisibilityUnlisted
}

type Account struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Acct     string `json:"acct"`
}

// Remote reports whether the account lives on another instance. Its identity
// is still the bare username, so it collides with a local account of that name.
func (a Account) Remote() bool {
	return strings.Contains(a.Acct, "@")
}

type Application struct {
	Name string `json:"name"`
}

type Status struct {
	ID          string       `json:"id"`
	InReplyToID *string      `json:"in_reply_to_id"`
	Account     *Account     `json:"account"`
	Content     string       `json:"content"`
	Text        string       `json:"text"`
	Visibility  Visibility   `json:"visibility"`
	Application *Application `json:"application"`
}

// IsReply reports whether the status continues an existing thread.
func (s Status) IsReply() bool {
	return s.InReplyToID != nil && strings.TrimSpace(*s.InReplyToID) != ""
}

// Body returns the HTML content, falling back to the plain source text.
func (s Status) Body() string {
	if s.Content != "" {
		return s.Content
	}
	return s.Text
}

func (s Status) Identity() Identity {
	if s.Account == nil {
		return ""
	}
	return Identity(s.Account.Username)
}

// PostedBy reports whether the status was published through the named application.
func (s Status) PostedBy(appName string) bool {
	return s.Application != nil && appName != "" && s.Application.Name == appName
}

type Conversation struct {
	ID         string    `json:"id"`
	Unread     bool      `json:"unread"`
	Accounts   []Account `json:"accounts"`
	LastStatus *Status   `json:"last_status"`
}

type Notification struct {
	ID      string   `json:"id"`
	Type    string   `json:"type"`
	Account *Account `json:"account"`
	Status  *Status  `json:"status"`
}

// Reply is an outbound status addressed back to the message that triggered it.
type Reply struct {
	InReplyToID string
	Status      string
	Visibility  Visibility
}
