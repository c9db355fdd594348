package emailclient

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records dispatch outcomes. A nil *Metrics records nothing.
type Metrics struct {
	sendLatency prometheus.Histogram
	sentCount   prometheus.Counter
	errorCount  *prometheus.CounterVec
}

// NewMetrics creates the dispatch collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "newsletter_email_send_duration_seconds",
			Help:    "Time taken to dispatch emails to the provider",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		sentCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "newsletter_emails_sent_total",
			Help: "Total number of emails accepted by the provider",
		}),
		errorCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newsletter_email_errors_total",
			Help: "Total number of failed email dispatches by kind",
		}, []string{"kind"}),
	}

	reg.MustRegister(m.sendLatency)
	reg.MustRegister(m.sentCount)
	reg.MustRegister(m.errorCount)
	return m
}

func (m *Metrics) observe(start time.Time, err error) {
	if m == nil {
		return
	}
	m.sendLatency.Observe(time.Since(start).Seconds())
	if err == nil {
		m.sentCount.Inc()
		return
	}
	kind := "unknown"
	var dispatchErr *DispatchError
	if errors.As(err, &dispatchErr) {
		kind = dispatchErr.Kind.String()
	}
	m.errorCount.WithLabelValues(kind).Inc()
}
