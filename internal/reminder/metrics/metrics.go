package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for reminder dispatch.
type Metrics struct {
	UsersNotified       prometheus.Counter
	UnknownUsersSkipped prometheus.Counter
}

// New creates a Metrics instance with all reminder metrics registered.
func New() *Metrics {
	return &Metrics{
		UsersNotified: promauto.NewCounter(prometheus.CounterOpts{
			Name: "biblio_reminder_users_notified_total",
			Help: "Total number of users notified about overdue loans",
		}),
		UnknownUsersSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "biblio_reminder_unknown_users_skipped_total",
			Help: "Total number of overdue user ids that did not resolve to a user record",
		}),
	}
}

// IncrementUsersNotified records one user notified across all sinks.
func (m *Metrics) IncrementUsersNotified() {
	m.UsersNotified.Inc()
}

// IncrementUnknownUsersSkipped records a silently skipped unknown user.
func (m *Metrics) IncrementUnknownUsersSkipped() {
	m.UnknownUsersSkipped.Inc()
}
