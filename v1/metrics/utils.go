package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pinecone-io/pinecone-client/v1/poller"
)

// ObserveOperation records how long a client operation took.
// outcome is "success" or "error".
func (m *Metrics) ObserveOperation(operation, outcome string, duration time.Duration) {
	m.operationDuration.WithLabelValues(operation, outcome).Observe(duration.Seconds())
}

// IncrementNormalizeFailures counts one rejected upsert batch.
func (m *Metrics) IncrementNormalizeFailures(kind string) {
	m.normalizeFailures.WithLabelValues(kind).Inc()
}

// ObservePoll adds the status checks of a finished wait under its terminal
// state. A wait that failed before the first check still creates the series.
func (m *Metrics) ObservePoll(operation string, res poller.Result) {
	m.pollCycles.WithLabelValues(operation, res.State.String()).Add(float64(res.Cycles))
}

// CreateCounter registers an additional counter under the same namespace
// and service label.
func (m *Metrics) CreateCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := createCounterVec(m.namespace, name, help, labels)
	m.registerer.MustRegister(counter)
	return counter
}

// CreateHistogram registers an additional histogram.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	hist := createHistogramVec(m.namespace, name, help, labels, buckets)
	m.registerer.MustRegister(hist)
	return hist
}

// CreateGauge registers an additional gauge.
func (m *Metrics) CreateGauge(name, help string, labels []string) *prometheus.GaugeVec {
	gauge := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
	m.registerer.MustRegister(gauge)
	return gauge
}

func createCounterVec(namespace, name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

func createHistogramVec(namespace, name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
			Buckets:   buckets,
		},
		labels,
	)
}
