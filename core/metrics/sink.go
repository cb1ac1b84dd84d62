package metrics

// MetricsSink records computed results for observability purposes. Sinks
// must tolerate being called concurrently.
type MetricsSink interface {
	RecordEventMetrics(m DerivedMetrics) error
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) RecordEventMetrics(DerivedMetrics) error { return nil }

// MultiSink fans a record out to several sinks, returning the first error.
type MultiSink struct {
	sinks []MetricsSink
}

// NewMultiSink combines sinks into one.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordEventMetrics(d DerivedMetrics) error {
	var firstErr error
	for _, s := range m.sinks {
		if err := s.RecordEventMetrics(d); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
