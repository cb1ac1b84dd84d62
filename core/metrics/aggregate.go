package metrics

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/MrSiJo/plugtrack/core/store"
)

// ComputeAggregateMetrics combines per-event results over the vehicle's
// filtered event set into kWh-weighted summary statistics.
//
// Aggregation policy: low-confidence results are included in the weighted
// figures and naturally suppressed by their small energy weight; the
// HighSignal variant excludes them so callers can compare both.
func (e *Engine) ComputeAggregateMetrics(ctx context.Context, vehicleID int64, f store.Filter) (AggregateMetrics, error) {
	veh, err := e.store.Vehicle(ctx, vehicleID)
	if err != nil {
		return AggregateMetrics{}, fmt.Errorf("load vehicle %d: %w", vehicleID, err)
	}
	events, err := e.store.Events(ctx, vehicleID, f)
	if err != nil {
		return AggregateMetrics{}, fmt.Errorf("load events for vehicle %d: %w", vehicleID, err)
	}

	agg := AggregateMetrics{
		VehicleID:    vehicleID,
		Sessions:     len(events),
		ByConfidence: map[ConfidenceLevel]int{},
		BySize:       map[SizeBucket]int{},
		ByLocation:   map[string]int{},
	}
	if len(events) == 0 {
		return agg, nil
	}

	// Anchors may lie outside the filter range, so resolve each event
	// against the full history up to the latest filtered date.
	history, err := e.store.History(ctx, vehicleID, events[len(events)-1].Date)
	if err != nil {
		return AggregateMetrics{}, fmt.Errorf("load history for vehicle %d: %w", vehicleID, err)
	}

	var effs, weights []float64
	var highEffs, highWeights []float64
	var costPM, costWeights []float64
	for _, ev := range events {
		m := e.compute(ev, veh, history)
		agg.TotalKWh += ev.EnergyKWh
		agg.TotalCost += ev.TotalCost()
		agg.ByConfidence[m.Confidence]++
		agg.BySize[m.SizeBucket]++
		loc := ev.Location
		if loc == "" {
			loc = "unknown"
		}
		agg.ByLocation[loc]++

		if m.Efficiency != nil {
			effs = append(effs, *m.Efficiency)
			weights = append(weights, m.WeightKWh)
			if m.Confidence != ConfidenceLow {
				highEffs = append(highEffs, *m.Efficiency)
				highWeights = append(highWeights, m.WeightKWh)
			}
		}
		if m.CostPerMile != nil {
			costPM = append(costPM, *m.CostPerMile)
			costWeights = append(costWeights, ev.EnergyKWh)
		}
	}

	agg.WeightedEfficiency = weightedMean(effs, weights)
	agg.WeightedEfficiencyHighSignal = weightedMean(highEffs, highWeights)
	agg.WeightedCostPerMile = weightedMean(costPM, costWeights)
	if len(effs) > 0 {
		lo, hi := floats.Min(effs), floats.Max(effs)
		agg.MinEfficiency = &lo
		agg.MaxEfficiency = &hi
	}
	if agg.WeightedEfficiency != nil {
		if rate, ok := ParityRatePPerKWh(e.cfg.PetrolPricePPerLitre, e.cfg.PetrolMPG, *agg.WeightedEfficiency); ok {
			agg.PetrolParityPPerKWh = &rate
		}
	}
	return agg, nil
}

// weightedMean guards the zero-weight case: nil, never NaN.
func weightedMean(xs, weights []float64) *float64 {
	if len(xs) == 0 || floats.Sum(weights) == 0 {
		return nil
	}
	mean := stat.Mean(xs, weights)
	return &mean
}
