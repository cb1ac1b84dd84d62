// Package blend projects cost and time for completing a charge on DC power
// first and home power second, modelling the DC rate taper at high SoC with
// piecewise power bands.
package blend

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidParameter marks simulator inputs rejected before computation.
// Out-of-range targets are never silently clamped.
var ErrInvalidParameter = errors.New("invalid parameter")

// Params are the simulation inputs.
type Params struct {
	StartSoc       float64 `json:"start_soc"`
	DCStopSoc      float64 `json:"dc_stop_soc"`
	HomeTargetSoc  float64 `json:"home_target_soc"`
	DCPowerKW      float64 `json:"dc_power_kw"`
	DCCostPerKWh   float64 `json:"dc_cost_per_kwh"`
	HomeCostPerKWh float64 `json:"home_cost_per_kwh"`
	BatteryKWh     float64 `json:"battery_kwh"`
	// HomePowerKW overrides the configured home charger power when > 0.
	HomePowerKW float64 `json:"home_power_kw,omitempty"`
	// EfficiencyMiPerKWh converts the blended cost to cost-per-mile.
	EfficiencyMiPerKWh float64 `json:"efficiency_mi_per_kwh,omitempty"`
}

// Segment is the projection for one charging source.
type Segment struct {
	KWh   float64 `json:"kwh"`
	Hours float64 `json:"hours"`
	Cost  float64 `json:"cost"`
}

// Result is the combined projection.
type Result struct {
	DC          Segment  `json:"dc"`
	Home        Segment  `json:"home"`
	Total       Segment  `json:"total"`
	CostPerMile *float64 `json:"cost_per_mile,omitempty"`
}

// Simulate projects the blended charge. A DC stop at or below the start SoC
// yields an empty DC segment, and a home target at or below the DC stop an
// empty home segment; both are valid plans, not errors.
func Simulate(cfg Config, p Params) (Result, error) {
	if err := validate(p); err != nil {
		return Result{}, err
	}

	res := Result{}
	if p.DCStopSoc > p.StartSoc {
		res.DC = dcSegment(cfg.TaperBands, p.StartSoc, p.DCStopSoc, p.DCPowerKW, p.BatteryKWh)
		res.DC.Cost = res.DC.KWh * p.DCCostPerKWh
	}

	homeFrom := p.StartSoc
	if p.DCStopSoc > homeFrom {
		homeFrom = p.DCStopSoc
	}
	if p.HomeTargetSoc > homeFrom {
		homePower := p.HomePowerKW
		if homePower <= 0 {
			homePower = cfg.HomePowerKW
		}
		// Home charging is slow enough that taper is irrelevant; treat it
		// as constant power.
		res.Home.KWh = (p.HomeTargetSoc - homeFrom) / 100 * p.BatteryKWh
		res.Home.Hours = res.Home.KWh / homePower
		res.Home.Cost = res.Home.KWh * p.HomeCostPerKWh
	}

	res.Total = Segment{
		KWh:   res.DC.KWh + res.Home.KWh,
		Hours: res.DC.Hours + res.Home.Hours,
		Cost:  res.DC.Cost + res.Home.Cost,
	}
	if p.EfficiencyMiPerKWh > 0 && res.Total.KWh > 0 {
		cpm := res.Total.Cost / (res.Total.KWh * p.EfficiencyMiPerKWh)
		res.CostPerMile = &cpm
	}
	return res, nil
}

func validate(p Params) error {
	for name, soc := range map[string]float64{
		"start_soc": p.StartSoc, "dc_stop_soc": p.DCStopSoc, "home_target_soc": p.HomeTargetSoc,
	} {
		if soc < 0 || soc > 100 {
			return fmt.Errorf("%w: %s %v outside 0-100", ErrInvalidParameter, name, soc)
		}
	}
	if p.BatteryKWh <= 0 {
		return fmt.Errorf("%w: battery_kwh must be positive", ErrInvalidParameter)
	}
	if p.DCStopSoc > p.StartSoc && p.DCPowerKW <= 0 {
		return fmt.Errorf("%w: dc_power_kw must be positive", ErrInvalidParameter)
	}
	if p.DCCostPerKWh < 0 || p.HomeCostPerKWh < 0 {
		return fmt.Errorf("%w: cost per kWh must not be negative", ErrInvalidParameter)
	}
	if p.HomePowerKW < 0 {
		return fmt.Errorf("%w: home_power_kw must not be negative", ErrInvalidParameter)
	}
	return nil
}

// dcSegment integrates time over each taper band overlapping the interval.
// SoC spans not covered by any configured band charge at full rated power.
func dcSegment(bands []Band, fromSoc, toSoc, powerKW, batteryKWh float64) Segment {
	sorted := make([]Band, len(bands))
	copy(sorted, bands)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].FromSoc < sorted[j].FromSoc })

	var seg Segment
	covered := 0.0
	for _, b := range sorted {
		lo, hi := b.FromSoc, b.ToSoc
		if lo < fromSoc {
			lo = fromSoc
		}
		if hi > toSoc {
			hi = toSoc
		}
		if lo >= hi {
			continue
		}
		kwh := (hi - lo) / 100 * batteryKWh
		seg.KWh += kwh
		seg.Hours += kwh / (powerKW * b.PowerFraction)
		covered += hi - lo
	}
	if rest := (toSoc - fromSoc) - covered; rest > 0 {
		kwh := rest / 100 * batteryKWh
		seg.KWh += kwh
		seg.Hours += kwh / powerKW
	}
	return seg
}
