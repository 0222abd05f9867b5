// Package metrics holds the prometheus instruments of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Tip outcomes used as the "outcome" label of CounterTips.
const (
	TipOutcomeNoData   = "no_data"
	TipOutcomeStatic   = "static"
	TipOutcomeSuccess  = "success"
	TipOutcomeFallback = "fallback"
)

type Manager struct {
	// counters
	CounterRequests           *prometheus.CounterVec
	CounterMeasurements       prometheus.Counter
	CounterHeightUpdates      prometheus.Counter
	CounterTips               *prometheus.CounterVec
	CounterHandleRequestPanic prometheus.Counter

	// histograms
	HistogramRequestDuration *prometheus.HistogramVec
	HistogramTipDuration     prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("fitlog", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("fitlog", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request",
			Help:      "The total number of incoming requests",
		}, []string{"method", "status"}),
		CounterMeasurements: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "measurements_recorded",
			Help:      "The total number of recorded measurements",
		}),
		CounterHeightUpdates: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "height_updates",
			Help:      "The total number of explicit height submissions",
		}),
		CounterTips: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tips",
			Help:      "The total number of generated tips by outcome",
		}, []string{"outcome"}),
		CounterHandleRequestPanic: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "handle_request_panic",
			Help:      "The total number of serve request panics",
		}),
		HistogramRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		HistogramTipDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tip_duration_seconds",
			Help:      "Duration of external tip generation calls",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}),
	}
}

// TipGenerated counts one tip with the given outcome. Safe on a nil Manager.
func (m *Manager) TipGenerated(outcome string) {
	if m == nil {
		return
	}
	m.CounterTips.WithLabelValues(outcome).Inc()
}

// MeasurementRecorded counts one appended measurement. Safe on a nil Manager.
func (m *Manager) MeasurementRecorded() {
	if m == nil {
		return
	}
	m.CounterMeasurements.Inc()
}

// HeightUpdated counts one explicit height submission. Safe on a nil Manager.
func (m *Manager) HeightUpdated() {
	if m == nil {
		return
	}
	m.CounterHeightUpdates.Inc()
}
