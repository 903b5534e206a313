package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks form submissions, outbound email and the invitation sweep.
type Metrics struct {
	RegistrationsCreated  prometheus.Counter
	RegistrationsRejected *prometheus.CounterVec
	WaitlistJoins         prometheus.Counter
	EmailsSent            *prometheus.CounterVec
	InvitationsExpired    prometheus.Counter
	RegistrationDuration  prometheus.Histogram
}

// New registers the studio metrics with reg. Pass prometheus.NewRegistry() in
// tests to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RegistrationsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "studio_registrations_created_total",
			Help: "Total number of registrations stored",
		}),
		RegistrationsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "studio_registration_field_errors_total",
			Help: "Field errors returned by registration validation, by field",
		}, []string{"field"}),
		WaitlistJoins: factory.NewCounter(prometheus.CounterOpts{
			Name: "studio_waitlist_joins_total",
			Help: "Total number of emails added to the waitlist",
		}),
		EmailsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "studio_emails_sent_total",
			Help: "Confirmation emails by outcome",
		}, []string{"outcome"}),
		InvitationsExpired: factory.NewCounter(prometheus.CounterOpts{
			Name: "studio_invitations_expired_total",
			Help: "Invitations invalidated by the expiry sweep",
		}),
		RegistrationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "studio_registration_duration_seconds",
			Help:    "Duration of registration submissions",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// ObserveRegistration records the duration of a registration submission.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveRegistration(start time.Time) {
	m.RegistrationDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) RecordFieldErrors(paths []string) {
	for _, p := range paths {
		m.RegistrationsRejected.WithLabelValues(p).Inc()
	}
}

func (m *Metrics) RecordEmail(err error) {
	outcome := "sent"
	if err != nil {
		outcome = "failed"
	}
	m.EmailsSent.WithLabelValues(outcome).Inc()
}
