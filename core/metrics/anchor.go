package metrics

import (
	"time"

	"github.com/MrSiJo/plugtrack/core/model"
)

// anchorOutcome describes how the backward search ended.
type anchorOutcome int

const (
	anchorFound anchorOutcome = iota
	anchorMissing
	anchorRegression
)

const hoursPerDay = 24

// resolveAnchor scans the vehicle's history backwards from the target event
// and establishes the anchor window: the nearest prior event with an
// odometer reading strictly before the target's, no older than the horizon.
//
// history must be ordered by date ascending then id ascending and contain
// the target. Ties between same-date candidates are broken by lowest id so
// the same stored event set always yields the same anchor.
func resolveAnchor(history []model.ChargingEvent, target model.ChargingEvent, horizonDays int) (AnchorWindow, anchorOutcome) {
	idx := -1
	for i, ev := range history {
		if ev.ID == target.ID {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return AnchorWindow{}, anchorMissing
	}

	cutoff := target.Date.AddDate(0, 0, -horizonDays)
	anchorIdx := -1
	for i := idx - 1; i >= 0; i-- {
		prior := history[i]
		if prior.Date.Before(cutoff) {
			break
		}
		if prior.Odometer > target.Odometer {
			// Odometer went backwards between this event and the target.
			return AnchorWindow{}, anchorRegression
		}
		if prior.Odometer == target.Odometer {
			continue
		}
		anchorIdx = i
		// Same-date siblings are ordered by id; prefer the lowest id among
		// equally-near candidates.
		for j := i - 1; j >= 0 && history[j].Date.Equal(prior.Date); j-- {
			if history[j].Odometer > target.Odometer {
				return AnchorWindow{}, anchorRegression
			}
			if history[j].Odometer < target.Odometer {
				anchorIdx = j
			}
		}
		break
	}
	if anchorIdx < 0 {
		return AnchorWindow{}, anchorMissing
	}

	anchor := history[anchorIdx]
	w := AnchorWindow{
		StartEventID: anchor.ID,
		EndEventID:   target.ID,
		SpanDays:     daysBetween(anchor.Date, target.Date),
		Miles:        target.Odometer - anchor.Odometer,
	}
	// The energy that produced the distance is everything charged strictly
	// after the anchor up to and including the target: a single trip's worth
	// of charging may be split across several sessions.
	for i := anchorIdx + 1; i <= idx; i++ {
		w.EnergyKWh += history[i].EnergyKWh
	}
	return w, anchorFound
}

func daysBetween(a, b time.Time) float64 {
	return b.Sub(a).Hours() / hoursPerDay
}
