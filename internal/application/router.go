package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/bnema/pocketbot/internal/domain"
)

// Router sends each stream event to the component owning its kind.
type Router struct {
	dispatcher    *Dispatcher
	notifications *NotificationPolicy
	logger        *slog.Logger
}

func NewRouter(dispatcher *Dispatcher, notifications *NotificationPolicy, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{dispatcher: dispatcher, notifications: notifications, logger: logger.With("component", "router")}
}

// Handle routes one event. Failures are logged and returned; they never stop the stream.
func (r *Router) Handle(ctx context.Context, event domain.StreamEvent) error {
	var err error
	switch event.Kind {
	case domain.EventConversation:
		var conversation domain.Conversation
		if err = json.Unmarshal(event.Payload, &conversation); err != nil {
			err = fmt.Errorf("decode conversation: %w", err)
			break
		}
		err = r.dispatcher.HandleConversation(ctx, conversation)
	case domain.EventNotification:
		var notification domain.Notification
		if err = json.Unmarshal(event.Payload, &notification); err != nil {
			err = fmt.Errorf("decode notification: %w", err)
			break
		}
		err = r.notifications.Handle(ctx, notification)
	default:
		r.logger.Debug("router: ignoring event", "kind", event.Kind)
		return nil
	}

	if err != nil {
		r.logger.Warn("router: event handling failed", "kind", event.Kind, "error", err)
	}
	return err
}
