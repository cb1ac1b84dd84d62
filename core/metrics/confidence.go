package metrics

// classifyConfidence annotates a resolved window with reason tags and the
// clamped efficiency. The level is the worst applicable: small_window
// dominates because tiny windows make the ratio numerically unstable, while
// stale anchors or a clamped outlier alone only demote to medium.
func classifyConfidence(cfg Config, w AnchorWindow, raw float64) (eff float64, level ConfidenceLevel, reasons []string) {
	eff = raw
	if w.Miles < cfg.MinWindowMiles || w.EnergyKWh < cfg.MinWindowKWh {
		reasons = append(reasons, ReasonSmallWindow)
	}
	if w.SpanDays > float64(cfg.StalenessDays) {
		reasons = append(reasons, ReasonStaleAnchors)
	}
	if raw < cfg.ClampMinMiPerKWh {
		eff = cfg.ClampMinMiPerKWh
		reasons = append(reasons, ReasonOutlierClamped)
	} else if raw > cfg.ClampMaxMiPerKWh {
		eff = cfg.ClampMaxMiPerKWh
		reasons = append(reasons, ReasonOutlierClamped)
	}

	level = ConfidenceHigh
	for _, r := range reasons {
		if r == ReasonSmallWindow {
			return eff, ConfidenceLow, reasons
		}
		level = ConfidenceMedium
	}
	return eff, level, reasons
}

// ClassifySessionSize buckets a session by its own SoC delta. Pure function,
// no history lookup: 0-20 topup, 21-50 partial, above major.
func ClassifySessionSize(deltaSoc int) SizeBucket {
	switch {
	case deltaSoc <= 20:
		return SizeTopup
	case deltaSoc <= 50:
		return SizePartial
	default:
		return SizeMajor
	}
}
