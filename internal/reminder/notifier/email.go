// Package notifier provides the notification sinks reminders fan out to:
// email delivery, a Redis channel, and a Kafka topic.
package notifier

import (
	"context"
	"log/slog"

	usermodels "biblio/internal/user/models"
)

//go:generate mockgen -source=email.go -destination=mocks/mocks.go -package=mocks

// emailSubject is the fixed subject line for overdue reminders.
const emailSubject = "Library overdue reminder"

// EmailServer is the outgoing-mail collaborator. Delivery guarantees live
// behind this interface, not in the sinks.
type EmailServer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// EmailNotifier is a notification sink that forwards reminders to an
// EmailServer. Delivery failures are logged, never propagated: dispatch is
// fire-and-forget.
type EmailNotifier struct {
	server EmailServer
	logger *slog.Logger
}

func NewEmailNotifier(server EmailServer, logger *slog.Logger) *EmailNotifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &EmailNotifier{server: server, logger: logger}
}

func (n *EmailNotifier) Notify(ctx context.Context, user *usermodels.User, message string) {
	if err := n.server.SendEmail(ctx, user.Email, emailSubject, message); err != nil {
		n.logger.WarnContext(ctx, "failed to send reminder email",
			"user_id", user.ID.String(),
			"error", err.Error(),
		)
	}
}

// LogEmailServer writes emails to the log instead of sending them. It is the
// default EmailServer in deployments without an outgoing-mail integration.
type LogEmailServer struct {
	logger *slog.Logger
}

func NewLogEmailServer(logger *slog.Logger) *LogEmailServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogEmailServer{logger: logger}
}

func (s *LogEmailServer) SendEmail(ctx context.Context, to, subject, body string) error {
	s.logger.InfoContext(ctx, "email",
		"to", to,
		"subject", subject,
		"body", body,
	)
	return nil
}
