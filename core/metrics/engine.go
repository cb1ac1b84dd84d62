package metrics

import (
	"context"
	"fmt"

	"github.com/MrSiJo/plugtrack/core/logger"
	"github.com/MrSiJo/plugtrack/core/model"
	"github.com/MrSiJo/plugtrack/core/store"
)

// Engine derives per-event and aggregate efficiency/cost metrics from the
// stored event history. It is stateless per invocation: each call reads
// persisted events and returns a freshly computed result, so it is safe to
// invoke concurrently.
type Engine struct {
	store store.Store
	cfg   Config
	log   logger.Logger
	sink  MetricsSink
}

// NewEngine builds an engine. A nil sink disables recording.
func NewEngine(st store.Store, cfg Config, log logger.Logger, sink MetricsSink) *Engine {
	if sink == nil {
		sink = NopSink{}
	}
	return &Engine{store: st, cfg: cfg, log: log, sink: sink}
}

// ComputeEventMetrics derives metrics for a single event. No-anchor and
// odometer-regression histories yield a result with a nil efficiency and an
// explanatory tag, never an error: only missing records or store failures
// surface as errors.
func (e *Engine) ComputeEventMetrics(ctx context.Context, eventID int64) (DerivedMetrics, error) {
	ev, err := e.store.Event(ctx, eventID)
	if err != nil {
		return DerivedMetrics{}, fmt.Errorf("load event %d: %w", eventID, err)
	}
	veh, err := e.store.Vehicle(ctx, ev.VehicleID)
	if err != nil {
		return DerivedMetrics{}, fmt.Errorf("load vehicle %d: %w", ev.VehicleID, err)
	}
	history, err := e.store.History(ctx, ev.VehicleID, ev.Date)
	if err != nil {
		return DerivedMetrics{}, fmt.Errorf("load history for vehicle %d: %w", ev.VehicleID, err)
	}
	m := e.compute(ev, veh, history)
	if err := e.sink.RecordEventMetrics(m); err != nil {
		e.log.Warnf("metrics sink: %v", err)
	}
	return m, nil
}

// compute is the single code path shared by per-event and aggregate queries.
func (e *Engine) compute(ev model.ChargingEvent, veh model.Vehicle, history []model.ChargingEvent) DerivedMetrics {
	m := DerivedMetrics{
		EventID:          ev.ID,
		VehicleID:        ev.VehicleID,
		EfficiencySource: SourceNone,
		SizeBucket:       ClassifySessionSize(ev.DeltaSoc()),
		AvgPowerKW:       ev.AveragePowerKW(),
		WeightKWh:        ev.EnergyKWh,
	}
	if ev.EnergyKWh > 0 {
		ppk := float64(ev.DeltaSoc()) / ev.EnergyKWh
		m.PercentPerKWh = &ppk
	}

	window, outcome := resolveAnchor(history, ev, e.cfg.HorizonDays)
	switch outcome {
	case anchorMissing:
		m.Confidence = ConfidenceUnknown
		m.Reasons = []string{ReasonNoAnchor}
	case anchorRegression:
		// Data integrity issue, not a user error: log and degrade to
		// no-anchor so the caller still gets a usable record.
		e.log.Warnf("odometer regression before event %d (vehicle %d)", ev.ID, ev.VehicleID)
		m.Confidence = ConfidenceUnknown
		m.Reasons = []string{ReasonNoAnchor, ReasonOdometerRegression}
	case anchorFound:
		m.Window = &window
		m.WeightKWh = window.EnergyKWh
		if window.EnergyKWh > 0 {
			raw := window.Miles / window.EnergyKWh
			eff, level, reasons := classifyConfidence(e.cfg, window, raw)
			m.RawEfficiency = &raw
			m.Efficiency = &eff
			m.EfficiencySource = SourceAnchorWindow
			m.Confidence = level
			m.Reasons = reasons
		} else {
			// Distance with no recorded energy: the ratio is undefined,
			// reported as such rather than zero.
			m.Confidence = ConfidenceLow
			m.Reasons = []string{ReasonSmallWindow}
		}
	}

	// Cost per mile follows the original fallback chain: the anchor-derived
	// efficiency when available, otherwise the manufacturer profile.
	effForCost := 0.0
	if m.Efficiency != nil {
		effForCost = *m.Efficiency
	} else if veh.EfficiencyMiPerKWh > 0 {
		effForCost = veh.EfficiencyMiPerKWh
		m.EfficiencySource = SourceVehicleProfile
	}
	if effForCost > 0 && !ev.IsFree() {
		cpm := ev.CostPerKWh / effForCost
		m.CostPerMile = &cpm
	}
	return m
}
