// Package reminder fans overdue notifications out to registered sinks.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	lendingmodels "biblio/internal/lending/models"
	remindermetrics "biblio/internal/reminder/metrics"
	usermodels "biblio/internal/user/models"
	id "biblio/pkg/domain"
	dErrors "biblio/pkg/domain-errors"
	"biblio/pkg/platform/sentinel"
	"biblio/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

// LoanStore is the narrow loan contract the dispatcher consumes.
type LoanStore interface {
	GetAll(ctx context.Context) ([]*lendingmodels.Loan, error)
}

// UserStore is the narrow user contract the dispatcher consumes.
type UserStore interface {
	GetByID(ctx context.Context, userID id.UserID) (*usermodels.User, error)
}

// NotificationSink receives dispatched reminders. Dispatch is fire-and-forget:
// delivery guarantees belong to the sink, not the dispatcher, so Notify
// returns nothing.
type NotificationSink interface {
	Notify(ctx context.Context, user *usermodels.User, message string)
}

// Dispatcher scans loans for overdue state, aggregates per-user counts, and
// pushes one notification per affected user to every registered sink.
//
// Sinks are registered during wiring, before the first dispatch; the
// dispatcher keeps no other state between calls.
type Dispatcher struct {
	loans   LoanStore
	users   UserStore
	sinks   []NotificationSink
	logger  *slog.Logger
	metrics *remindermetrics.Metrics
}

// Option configures optional Dispatcher collaborators.
type Option func(*Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

func WithMetrics(m *remindermetrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// New builds a dispatcher over the given stores.
func New(loans LoanStore, users UserStore, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		loans:  loans,
		users:  users,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AddObserver registers a sink. A nil sink is ignored; duplicate registration
// is permitted and delivers the notification once per registration, in
// registration order.
func (d *Dispatcher) AddObserver(sink NotificationSink) {
	if sink == nil {
		return
	}
	d.sinks = append(d.sinks, sink)
}

// SendOverdueReminders counts overdue loans per user and notifies every sink
// once per affected user with the message "You have {n} overdue book(s).".
// Users whose record does not resolve are skipped silently; that is a
// deliberate no-op, not an error. The returned mapping holds the overdue
// count for every affected user, resolved or not. No ordering is guaranteed
// across different users' notifications.
func (d *Dispatcher) SendOverdueReminders(ctx context.Context) (map[id.UserID]int, error) {
	today := requestcontext.Now(ctx)

	loans, err := d.loans.GetAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load loans")
	}

	counts := make(map[id.UserID]int)
	for _, loan := range loans {
		if loan.IsOverdue(today) {
			counts[loan.UserID]++
		}
	}

	for userID, count := range counts {
		user, err := d.users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				d.incrementUnknownUsersSkipped()
				d.logger.DebugContext(ctx, "skipping reminder for unknown user",
					"user_id", userID.String(),
				)
				continue
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load user")
		}

		message := fmt.Sprintf("You have %d overdue book(s).", count)
		for _, sink := range d.sinks {
			sink.Notify(ctx, user, message)
		}
		d.incrementUsersNotified()
	}

	return counts, nil
}

func (d *Dispatcher) incrementUsersNotified() {
	if d.metrics != nil {
		d.metrics.IncrementUsersNotified()
	}
}

func (d *Dispatcher) incrementUnknownUsersSkipped() {
	if d.metrics != nil {
		d.metrics.IncrementUnknownUsersSkipped()
	}
}
