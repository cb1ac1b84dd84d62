package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSiJo/plugtrack/core/logger"
	"github.com/MrSiJo/plugtrack/core/model"
	"github.com/MrSiJo/plugtrack/core/store"
	infrastore "github.com/MrSiJo/plugtrack/infra/store"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

var _ logger.Logger = nopLogger{}

type captureSink struct {
	recorded []DerivedMetrics
}

func (c *captureSink) RecordEventMetrics(m DerivedMetrics) error {
	c.recorded = append(c.recorded, m)
	return nil
}

func newTestEngine(t *testing.T, sink MetricsSink) (*Engine, *infrastore.MemoryStore) {
	t.Helper()
	st := infrastore.NewMemoryStore()
	st.AddVehicle(model.Vehicle{ID: 1, Make: "Kia", Model: "e-Niro", BatteryKWh: 64, EfficiencyMiPerKWh: 3.8, Active: true})
	return NewEngine(st, defaultConfig(), nopLogger{}, sink), st
}

func TestComputeEventMetrics_AnchorWindow(t *testing.T) {
	eng, st := newTestEngine(t, nil)
	st.AddEvent(ev(1, 0, 1000, 30))
	target := ev(2, 5, 1100, 20)
	target.SocFrom = 30
	target.SocTo = 80
	target.CostPerKWh = 0.5
	target.DurationMins = 60
	st.AddEvent(target)

	m, err := eng.ComputeEventMetrics(context.Background(), 2)
	require.NoError(t, err)
	require.NotNil(t, m.Efficiency)
	assert.Equal(t, 5.0, *m.Efficiency)
	assert.Equal(t, ConfidenceHigh, m.Confidence)
	assert.Equal(t, SourceAnchorWindow, m.EfficiencySource)
	assert.Empty(t, m.Reasons)
	require.NotNil(t, m.Window)
	assert.Equal(t, int64(1), m.Window.StartEventID)
	assert.Equal(t, 20.0, m.WeightKWh)

	require.NotNil(t, m.CostPerMile)
	assert.InDelta(t, 0.1, *m.CostPerMile, 1e-9)
	require.NotNil(t, m.PercentPerKWh)
	assert.InDelta(t, 2.5, *m.PercentPerKWh, 1e-9)
	assert.Equal(t, 20.0, m.AvgPowerKW)
	assert.Equal(t, SizePartial, m.SizeBucket)
}

func TestComputeEventMetrics_NoAnchorFallsBackToProfile(t *testing.T) {
	eng, st := newTestEngine(t, nil)
	target := ev(1, 0, 1000, 20)
	target.CostPerKWh = 0.38
	st.AddEvent(target)

	m, err := eng.ComputeEventMetrics(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, m.Efficiency)
	assert.Equal(t, ConfidenceUnknown, m.Confidence)
	assert.Equal(t, []string{ReasonNoAnchor}, m.Reasons)
	// Cost per mile still derived, from the manufacturer profile.
	assert.Equal(t, SourceVehicleProfile, m.EfficiencySource)
	require.NotNil(t, m.CostPerMile)
	assert.InDelta(t, 0.38/3.8, *m.CostPerMile, 1e-9)
}

func TestComputeEventMetrics_OdometerRegression(t *testing.T) {
	eng, st := newTestEngine(t, nil)
	st.AddEvent(ev(1, 0, 1200, 30))
	st.AddEvent(ev(2, 5, 1100, 20))

	m, err := eng.ComputeEventMetrics(context.Background(), 2)
	require.NoError(t, err)
	assert.Nil(t, m.Efficiency)
	assert.Equal(t, ConfidenceUnknown, m.Confidence)
	assert.ElementsMatch(t, []string{ReasonNoAnchor, ReasonOdometerRegression}, m.Reasons)
}

func TestComputeEventMetrics_FreeSessionHasNoCostPerMile(t *testing.T) {
	eng, st := newTestEngine(t, nil)
	st.AddEvent(ev(1, 0, 1000, 30))
	target := ev(2, 5, 1100, 20)
	target.CostPerKWh = 0
	st.AddEvent(target)

	m, err := eng.ComputeEventMetrics(context.Background(), 2)
	require.NoError(t, err)
	require.NotNil(t, m.Efficiency)
	assert.Nil(t, m.CostPerMile)
}

func TestComputeEventMetrics_MissingEvent(t *testing.T) {
	eng, _ := newTestEngine(t, nil)
	_, err := eng.ComputeEventMetrics(context.Background(), 99)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestComputeEventMetrics_Idempotent(t *testing.T) {
	eng, st := newTestEngine(t, nil)
	st.AddEvent(ev(1, 0, 1000, 30))
	st.AddEvent(ev(2, 3, 1008, 2)) // small window, low confidence
	st.AddEvent(ev(3, 6, 1100, 20))

	first, err := eng.ComputeEventMetrics(context.Background(), 3)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := eng.ComputeEventMetrics(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestComputeEventMetrics_RecordsToSink(t *testing.T) {
	sink := &captureSink{}
	eng, st := newTestEngine(t, sink)
	st.AddEvent(ev(1, 0, 1000, 30))
	st.AddEvent(ev(2, 5, 1100, 20))

	_, err := eng.ComputeEventMetrics(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, sink.recorded, 1)
	assert.Equal(t, int64(2), sink.recorded[0].EventID)
}
