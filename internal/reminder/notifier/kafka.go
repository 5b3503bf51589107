package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	usermodels "biblio/internal/user/models"
	"biblio/pkg/requestcontext"
)

// KafkaNotifier is a notification sink that produces reminder events to a
// Kafka topic, keyed by user id so one user's reminders stay ordered within
// a partition. Produce is asynchronous; failures are logged, never
// propagated.
type KafkaNotifier struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafkaNotifier connects to the brokers and ensures the topic exists.
func NewKafkaNotifier(ctx context.Context, brokers []string, topic string, logger *slog.Logger) (*KafkaNotifier, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	adm := kadm.NewClient(client)
	resp, err := adm.CreateTopics(ctx, 1, 1, nil, topic)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("create topic %s: %w", topic, err)
	}
	for _, r := range resp.Sorted() {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			client.Close()
			return nil, fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}

	return &KafkaNotifier{client: client, topic: topic, logger: logger}, nil
}

func (n *KafkaNotifier) Notify(ctx context.Context, user *usermodels.User, message string) {
	event := newReminderEvent(user, message, requestcontext.Now(ctx))
	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.ErrorContext(ctx, "failed to encode reminder event",
			"user_id", user.ID.String(),
			"error", err.Error(),
		)
		return
	}

	record := &kgo.Record{
		Topic: n.topic,
		Key:   []byte(user.ID.String()),
		Value: payload,
	}
	n.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			n.logger.WarnContext(ctx, "failed to produce reminder to kafka",
				"topic", n.topic,
				"user_id", user.ID.String(),
				"error", err.Error(),
			)
		}
	})
}

// Close flushes buffered records and releases the client.
func (n *KafkaNotifier) Close() {
	n.client.Close()
}
