package notifier

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	usermodels "biblio/internal/user/models"
	"biblio/pkg/requestcontext"
)

// RedisNotifier is a notification sink that publishes reminder events to a
// Redis channel. Subscribers (for example a separate delivery worker) decide
// what to do with them; publish failures are logged, never propagated.
type RedisNotifier struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

func NewRedisNotifier(client *redis.Client, channel string, logger *slog.Logger) *RedisNotifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RedisNotifier{client: client, channel: channel, logger: logger}
}

func (n *RedisNotifier) Notify(ctx context.Context, user *usermodels.User, message string) {
	event := newReminderEvent(user, message, requestcontext.Now(ctx))
	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.ErrorContext(ctx, "failed to encode reminder event",
			"user_id", user.ID.String(),
			"error", err.Error(),
		)
		return
	}
	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		n.logger.WarnContext(ctx, "failed to publish reminder to redis",
			"channel", n.channel,
			"user_id", user.ID.String(),
			"error", err.Error(),
		)
	}
}
