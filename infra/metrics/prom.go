package metrics

import (
	coremetrics "github.com/MrSiJo/plugtrack/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records metric computations in Prometheus metrics.
type PromSink struct {
	computations *prometheus.CounterVec
	efficiency   *prometheus.HistogramVec
}

// NewPromSink registers on the default Prometheus registerer. The
// Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	computations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "metric_computations_total",
		Help: "Total number of per-event metric computations",
	}, []string{"confidence", "size_bucket"})
	efficiency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "derived_efficiency_mi_per_kwh",
		Help:    "Distribution of derived efficiency figures",
		Buckets: prometheus.LinearBuckets(1, 0.5, 13),
	}, []string{"confidence"})

	if err := reg.Register(computations); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			computations = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(efficiency); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			efficiency = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{computations: computations, efficiency: efficiency}, nil
}

// RecordEventMetrics counts the computation and observes the efficiency
// when one was derived.
func (s *PromSink) RecordEventMetrics(m coremetrics.DerivedMetrics) error {
	s.computations.WithLabelValues(string(m.Confidence), string(m.SizeBucket)).Inc()
	if m.Efficiency != nil {
		s.efficiency.WithLabelValues(string(m.Confidence)).Observe(*m.Efficiency)
	}
	return nil
}
