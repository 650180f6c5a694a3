package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ScrapesTotal        *prometheus.CounterVec
	ScrapeFailuresTotal *prometheus.CounterVec
	ScrapeDuration      *prometheus.HistogramVec

	NotificationsSentTotal    prometheus.Counter
	NotificationFailuresTotal prometheus.Counter
}

func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith registers all collectors on the given registerer. Tests
// pass a fresh registry to avoid duplicate registration.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ScrapesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_scrapes_total",
				Help: "Total number of successful rate page scrapes",
			},
			[]string{"currency"},
		),

		ScrapeFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_scrape_failures_total",
				Help: "Total number of failed rate page scrapes",
			},
			[]string{"currency"},
		),

		ScrapeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rate_scrape_duration_seconds",
				Help:    "Rate page scrape duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"currency"},
		),

		NotificationsSentTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "notifications_sent_total",
				Help: "Total number of delivered subscription notifications",
			},
		),

		NotificationFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "notification_failures_total",
				Help: "Total number of failed subscription notifications",
			},
		),
	}
}

// ScrapeTimer starts a duration observation for one scrape.
func (m *Metrics) ScrapeTimer(currency string) *prometheus.Timer {
	return prometheus.NewTimer(m.ScrapeDuration.WithLabelValues(currency))
}
