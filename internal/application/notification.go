package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bnema/pocketbot/internal/domain"
	"github.com/bnema/pocketbot/internal/ports"
)

// NotificationPolicy asks users who mention the bot in public to move to direct messages.
type NotificationPolicy struct {
	poster ports.Poster
	logger *slog.Logger
}

func NewNotificationPolicy(poster ports.Poster, logger *slog.Logger) *NotificationPolicy {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationPolicy{poster: poster, logger: logger.With("component", "notifications")}
}

func (p *NotificationPolicy) Handle(ctx context.Context, notification domain.Notification) error {
	if notification.Status == nil || !notification.Status.Visibility.IsPublic() {
		return nil
	}

	username := ""
	if notification.Account != nil {
		username = notification.Account.Username
	}
	if username == "" {
		username = string(notification.Status.Identity())
	}
	if username == "" {
		p.logger.Debug("notifications: public status without account", "status_id", notification.Status.ID)
		return nil
	}

	err := p.poster.Post(ctx, domain.Reply{
		InReplyToID: notification.Status.ID,
		Status:      fmt.Sprintf("Sorry @%s, I can interact with you only via private/direct messages. You know, privacy is important...", username),
		Visibility:  domain.VisibilityDirect,
	})
	if err != nil {
		return fmt.Errorf("post privacy reply: %w", err)
	}
	return nil
}
