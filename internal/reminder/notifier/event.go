package notifier

import (
	"time"

	usermodels "biblio/internal/user/models"

	"github.com/google/uuid"
)

// reminderEvent is the JSON payload published by the Redis and Kafka sinks.
type reminderEvent struct {
	ID      string    `json:"id"`
	UserID  string    `json:"user_id"`
	Email   string    `json:"email"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`
}

func newReminderEvent(user *usermodels.User, message string, sentAt time.Time) reminderEvent {
	return reminderEvent{
		ID:      uuid.New().String(),
		UserID:  user.ID.String(),
		Email:   user.Email,
		Message: message,
		SentAt:  sentAt,
	}
}
