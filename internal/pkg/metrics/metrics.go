package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

// Metrics owns its registry so several instances can coexist in one test binary.
type Metrics struct {
	registry *prometheus.Registry

	settlements      *prometheus.CounterVec
	fetchDuration    *prometheus.HistogramVec
	staleSettlements prometheus.Counter
	duplicateOffers  *prometheus.CounterVec
	shareDecodeFails prometheus.Counter
	httpRequests     *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		settlements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "offer_source_settlements_total",
			Help: "Settled provider calls by provider and outcome.",
		}, []string{"provider", "outcome"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "offer_source_fetch_seconds",
			Help:    "Histogram of provider call durations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		staleSettlements: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "offer_stale_settlements_total",
			Help: "Settlements dropped because their query was superseded.",
		}),
		duplicateOffers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "offer_duplicate_offers_total",
			Help: "Offers whose (provider, offer id) was already in the collection.",
		}, []string{"provider"}),
		shareDecodeFails: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "offer_share_decode_failures_total",
			Help: "Share tokens rejected during decoding.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
	}

	m.registry.MustRegister(
		m.settlements,
		m.fetchDuration,
		m.staleSettlements,
		m.duplicateOffers,
		m.shareDecodeFails,
		m.httpRequests,
	)
	return m
}

func (m *Metrics) ObserveSettlement(provider string, succeeded bool, took time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeFailed
	if succeeded {
		outcome = OutcomeSucceeded
	}
	m.settlements.WithLabelValues(provider, outcome).Inc()
	m.fetchDuration.WithLabelValues(provider).Observe(took.Seconds())
}

func (m *Metrics) IncStale() {
	if m == nil {
		return
	}
	m.staleSettlements.Inc()
}

func (m *Metrics) AddDuplicates(provider string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.duplicateOffers.WithLabelValues(provider).Add(float64(n))
}

func (m *Metrics) IncShareDecodeFailure() {
	if m == nil {
		return
	}
	m.shareDecodeFails.Inc()
}

func (m *Metrics) ObserveHTTP(route string, status int) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
