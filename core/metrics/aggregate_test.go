package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSiJo/plugtrack/core/model"
	"github.com/MrSiJo/plugtrack/core/store"
)

func TestComputeAggregateMetrics_Weighted(t *testing.T) {
	eng, st := newTestEngine(t, nil)
	// Anchor for the first window.
	st.AddEvent(ev(1, 0, 1000, 10))
	// Window 1: 150 mi over 30 kWh, eff 5.0.
	e2 := ev(2, 4, 1150, 30)
	e2.CostPerKWh = 0.3
	e2.Location = "Home"
	st.AddEvent(e2)
	// Window 2: 130 mi over 20 kWh, eff 6.5.
	e3 := ev(3, 8, 1280, 20)
	e3.CostPerKWh = 0.7
	e3.Location = "Ionity M4"
	st.AddEvent(e3)

	agg, err := eng.ComputeAggregateMetrics(context.Background(), 1, store.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 3, agg.Sessions)
	assert.InDelta(t, 60.0, agg.TotalKWh, 1e-9)
	assert.InDelta(t, 10*0+30*0.3+20*0.7, agg.TotalCost, 1e-9)

	// (5.0*30 + 6.5*20) / 50 = 5.6
	require.NotNil(t, agg.WeightedEfficiency)
	assert.InDelta(t, 5.6, *agg.WeightedEfficiency, 1e-9)
	require.NotNil(t, agg.MinEfficiency)
	assert.InDelta(t, 5.0, *agg.MinEfficiency, 1e-9)
	require.NotNil(t, agg.MaxEfficiency)
	assert.InDelta(t, 6.5, *agg.MaxEfficiency, 1e-9)

	assert.Equal(t, 1, agg.ByConfidence[ConfidenceUnknown]) // the anchorless first event
	assert.Equal(t, 2, agg.ByConfidence[ConfidenceHigh])
	assert.Equal(t, 1, agg.ByLocation["Home"])
	assert.Equal(t, 1, agg.ByLocation["Ionity M4"])
	assert.Equal(t, 1, agg.ByLocation["unknown"])
}

func TestComputeAggregateMetrics_HighSignalExcludesLow(t *testing.T) {
	eng, st := newTestEngine(t, nil)
	st.AddEvent(ev(1, 0, 1000, 10))
	// Low confidence: 10 mi over 2 kWh is under the mileage threshold.
	st.AddEvent(ev(2, 2, 1010, 2))
	// High confidence: 90 mi over 23 kWh.
	st.AddEvent(ev(3, 6, 1100, 23))

	agg, err := eng.ComputeAggregateMetrics(context.Background(), 1, store.Filter{})
	require.NoError(t, err)
	require.NotNil(t, agg.WeightedEfficiency)
	require.NotNil(t, agg.WeightedEfficiencyHighSignal)
	// The low-confidence session pulls the inclusive figure upwards.
	assert.InDelta(t, 90.0/23, *agg.WeightedEfficiencyHighSignal, 1e-9)
	assert.NotEqual(t, *agg.WeightedEfficiencyHighSignal, *agg.WeightedEfficiency)
	assert.Equal(t, 1, agg.ByConfidence[ConfidenceLow])
}

func TestComputeAggregateMetrics_Empty(t *testing.T) {
	eng, _ := newTestEngine(t, nil)
	agg, err := eng.ComputeAggregateMetrics(context.Background(), 1, store.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 0, agg.Sessions)
	assert.Nil(t, agg.WeightedEfficiency)
	assert.Nil(t, agg.MinEfficiency)
	assert.Nil(t, agg.PetrolParityPPerKWh)
}

func TestComputeAggregateMetrics_FilterKeepsAnchors(t *testing.T) {
	eng, st := newTestEngine(t, nil)
	st.AddEvent(ev(1, 0, 1000, 10))
	st.AddEvent(ev(2, 5, 1100, 20))

	// Filtering to the second event only: its anchor lies before the range
	// but the window must still resolve.
	agg, err := eng.ComputeAggregateMetrics(context.Background(), 1, store.Filter{From: day(3)})
	require.NoError(t, err)
	assert.Equal(t, 1, agg.Sessions)
	require.NotNil(t, agg.WeightedEfficiency)
	assert.InDelta(t, 5.0, *agg.WeightedEfficiency, 1e-9)
}

func TestComputeAggregateMetrics_FilterByChargeType(t *testing.T) {
	eng, st := newTestEngine(t, nil)
	a := ev(1, 0, 1000, 10)
	a.ChargeType = model.ChargeAC
	st.AddEvent(a)
	b := ev(2, 5, 1100, 20)
	b.ChargeType = model.ChargeDC
	st.AddEvent(b)

	agg, err := eng.ComputeAggregateMetrics(context.Background(), 1, store.Filter{ChargeType: model.ChargeDC})
	require.NoError(t, err)
	assert.Equal(t, 1, agg.Sessions)
	assert.InDelta(t, 20.0, agg.TotalKWh, 1e-9)
}

func TestComputeAggregateMetrics_PetrolParity(t *testing.T) {
	eng, st := newTestEngine(t, nil)
	st.AddEvent(ev(1, 0, 1000, 10))
	st.AddEvent(ev(2, 5, 1100, 25)) // eff 4.0

	agg, err := eng.ComputeAggregateMetrics(context.Background(), 1, store.Filter{})
	require.NoError(t, err)
	require.NotNil(t, agg.PetrolParityPPerKWh)
	// 128.9 p/l * 4.54609 l/gal / 60 mpg = petrol p/mi; parity = p/mi * 4.0 mi/kWh.
	want := 128.9 * 4.54609 / 60 * 4.0
	assert.InDelta(t, want, *agg.PetrolParityPPerKWh, 1e-9)
}
