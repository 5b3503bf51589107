package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the lending engine.
type Metrics struct {
	Borrows          prometheus.Counter
	BorrowsRejected  prometheus.Counter
	Returns          prometheus.Counter
	FinesCreated     prometheus.Counter
	FinePaymentUnits prometheus.Counter
	BorrowDuration   prometheus.Histogram
}

// New creates a Metrics instance with all lending metrics registered.
func New() *Metrics {
	return &Metrics{
		Borrows: promauto.NewCounter(prometheus.CounterOpts{
			Name: "biblio_borrows_total",
			Help: "Total number of successful borrows",
		}),
		BorrowsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "biblio_borrows_rejected_total",
			Help: "Total number of borrows rejected by a precondition",
		}),
		Returns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "biblio_returns_total",
			Help: "Total number of loans returned",
		}),
		FinesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "biblio_fines_created_total",
			Help: "Total number of overdue fines created",
		}),
		FinePaymentUnits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "biblio_fine_payment_units_total",
			Help: "Total fine amount applied by payments, in currency units",
		}),
		BorrowDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "biblio_borrow_duration_seconds",
			Help:    "Duration of Borrow operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementBorrows records a successful borrow.
func (m *Metrics) IncrementBorrows() {
	m.Borrows.Inc()
}

// IncrementBorrowsRejected records a borrow rejected by a precondition.
func (m *Metrics) IncrementBorrowsRejected() {
	m.BorrowsRejected.Inc()
}

// IncrementReturns records a returned loan.
func (m *Metrics) IncrementReturns() {
	m.Returns.Inc()
}

// AddFinesCreated records newly created overdue fines.
func (m *Metrics) AddFinesCreated(n int) {
	m.FinesCreated.Add(float64(n))
}

// AddFinePayment records the amount applied by a fine payment.
func (m *Metrics) AddFinePayment(applied int) {
	m.FinePaymentUnits.Add(float64(applied))
}

// ObserveBorrow records the duration of a Borrow operation.
// Call with time.Now() captured at the start of the operation.
func (m *Metrics) ObserveBorrow(start time.Time) {
	m.BorrowDuration.Observe(time.Since(start).Seconds())
}
