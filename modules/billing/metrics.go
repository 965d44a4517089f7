package billing

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts checkout and webhook outcomes.
type Metrics struct {
	checkouts *prometheus.CounterVec
	webhooks  *prometheus.CounterVec
	emails    *prometheus.CounterVec
}

// NewMetrics registers the billing collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "subscriptions",
			Name:      "checkout_sessions_total",
			Help:      "Checkout session requests by plan and outcome.",
		}, []string{"plan", "outcome"}),
		webhooks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "subscriptions",
			Name:      "webhook_events_total",
			Help:      "Received webhook events by kind and outcome.",
		}, []string{"kind", "outcome"}),
		emails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "subscriptions",
			Name:      "notification_emails_total",
			Help:      "Lifecycle emails by kind and outcome.",
		}, []string{"kind", "outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.checkouts, m.webhooks, m.emails)
	}
	return m
}

func (m *Metrics) checkout(plan, outcome string) {
	if m != nil {
		m.checkouts.WithLabelValues(plan, outcome).Inc()
	}
}

func (m *Metrics) webhook(kind, outcome string) {
	if m != nil {
		m.webhooks.WithLabelValues(kind, outcome).Inc()
	}
}

func (m *Metrics) email(kind, outcome string) {
	if m != nil {
		m.emails.WithLabelValues(kind, outcome).Inc()
	}
}

// CheckoutCounter returns the counter for one plan and outcome.
func (m *Metrics) CheckoutCounter(plan, outcome string) prometheus.Counter {
	return m.checkouts.WithLabelValues(plan, outcome)
}

func (m *Metrics) WebhookCounter(kind, outcome string) prometheus.Counter {
	return m.webhooks.WithLabelValues(kind, outcome)
}

func (m *Metrics) EmailCounter(kind, outcome string) prometheus.Counter {
	return m.emails.WithLabelValues(kind, outcome)
}
