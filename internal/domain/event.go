package domain

import "encoding/json"

const (
	EventConversation = "conversation"
	EventNotification = "notification"
)

// StreamEvent is one named frame decoded from a server-push stream.
type StreamEvent struct {
	Kind    string
	Payload json.RawMessage
}
