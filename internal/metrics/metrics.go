package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameHTTPRequestsTotal,
			Help:      HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      MetricNameHTTPRequestDuration,
			Help:      HelpTextHTTPRequestDuration,
			Buckets:   HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      MetricNameHTTPRequestsInFlight,
			Help:      HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameEventsPublished,
			Help:      HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameEventHandlerErrors,
			Help:      HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Spin Metrics
var (
	SpinsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameSpinsTotal,
			Help:      HelpTextSpinsTotal,
		},
		[]string{LabelMode, LabelOutcome},
	)

	SpinsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameSpinsRejected,
			Help:      HelpTextSpinsRejected,
		},
		[]string{LabelReason},
	)

	SpinErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameSpinErrors,
			Help:      HelpTextSpinErrors,
		},
	)

	WinMultiplier = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      MetricNameWinMultiplier,
			Help:      HelpTextWinMultiplier,
			Buckets:   WinMultiplierBuckets,
		},
		[]string{LabelMode},
	)

	FreeSpinsAwarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameFreeSpinsAwarded,
			Help:      HelpTextFreeSpinsAwarded,
		},
	)

	PresentationTimeouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNamePresentationTimeouts,
			Help:      HelpTextPresentationTimeouts,
		},
	)

	SimulatedRTP = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      MetricNameSimulatedRTP,
			Help:      HelpTextSimulatedRTP,
		},
		[]string{LabelGame},
	)
)

// Pool Metrics
var (
	PoolAcquires = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNamePoolAcquires,
			Help:      HelpTextPoolAcquires,
		},
		[]string{LabelSymbol, LabelResult},
	)

	PoolLiveHandles = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      MetricNamePoolLiveHandles,
			Help:      HelpTextPoolLiveHandles,
		},
		[]string{LabelSymbol},
	)
)
