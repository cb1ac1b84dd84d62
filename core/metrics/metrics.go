package metrics

// ConfidenceLevel grades how trustworthy a derived result is. Values are
// meant to caveat downstream display, never to hide the result.
type ConfidenceLevel string

const (
	ConfidenceHigh    ConfidenceLevel = "high"
	ConfidenceMedium  ConfidenceLevel = "medium"
	ConfidenceLow     ConfidenceLevel = "low"
	ConfidenceUnknown ConfidenceLevel = "unknown"
)

// Reason tags attached to a derived result.
const (
	ReasonSmallWindow        = "small_window"
	ReasonStaleAnchors       = "stale_anchors"
	ReasonOutlierClamped     = "outlier_clamped"
	ReasonNoAnchor           = "no_anchor"
	ReasonOdometerRegression = "odometer_regression"
)

// SizeBucket classifies a session by the magnitude of its own SoC delta.
type SizeBucket string

const (
	SizeTopup   SizeBucket = "topup"
	SizePartial SizeBucket = "partial"
	SizeMajor   SizeBucket = "major"
)

// EfficiencySource names where the efficiency figure came from.
type EfficiencySource string

const (
	SourceAnchorWindow   EfficiencySource = "anchor_window"
	SourceVehicleProfile EfficiencySource = "vehicle_profile"
	SourceNone           EfficiencySource = "none"
)

// AnchorWindow identifies the historical interval a result was derived from,
// so every efficiency figure is traceable and testable.
type AnchorWindow struct {
	StartEventID int64   `json:"start_event_id"`
	EndEventID   int64   `json:"end_event_id"`
	SpanDays     float64 `json:"span_days"`
	Miles        float64 `json:"miles"`
	EnergyKWh    float64 `json:"energy_kwh"`
}

// DerivedMetrics is the per-event result. It is recomputed on every query
// and never persisted as a source of truth.
type DerivedMetrics struct {
	EventID          int64            `json:"event_id"`
	VehicleID        int64            `json:"vehicle_id"`
	Efficiency       *float64         `json:"efficiency_mi_per_kwh"` // clamped; nil when undefined
	RawEfficiency    *float64         `json:"raw_efficiency,omitempty"`
	EfficiencySource EfficiencySource `json:"efficiency_source"`
	Confidence       ConfidenceLevel  `json:"confidence"`
	Reasons          []string         `json:"reasons"`
	CostPerMile      *float64         `json:"cost_per_mile"`
	PercentPerKWh    *float64         `json:"percent_per_kwh"`
	AvgPowerKW       float64          `json:"avg_power_kw"`
	SizeBucket       SizeBucket       `json:"size_bucket"`
	Window           *AnchorWindow    `json:"window,omitempty"`
	WeightKWh        float64          `json:"weight_kwh"`
}

// AggregateMetrics summarises many per-event results for a vehicle.
type AggregateMetrics struct {
	VehicleID int64   `json:"vehicle_id"`
	Sessions  int     `json:"sessions"`
	TotalKWh  float64 `json:"total_kwh"`
	TotalCost float64 `json:"total_cost"`

	// WeightedEfficiency includes low-confidence results, letting their
	// small energy weight suppress their influence. The HighSignal variant
	// excludes them entirely, for comparison.
	WeightedEfficiency           *float64 `json:"weighted_efficiency"`
	WeightedEfficiencyHighSignal *float64 `json:"weighted_efficiency_high_signal"`
	WeightedCostPerMile          *float64 `json:"weighted_cost_per_mile"`
	MinEfficiency                *float64 `json:"min_efficiency"`
	MaxEfficiency                *float64 `json:"max_efficiency"`

	ByConfidence map[ConfidenceLevel]int `json:"by_confidence"`
	BySize       map[SizeBucket]int      `json:"by_size"`
	ByLocation   map[string]int          `json:"by_location"`

	// PetrolParityPPerKWh is the charging rate at which driving cost matches
	// the configured petrol reference, derived from the weighted efficiency.
	PetrolParityPPerKWh *float64 `json:"petrol_parity_p_per_kwh"`
}
