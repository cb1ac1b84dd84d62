package model

// CadenceUnit is the unit of a full-charge cadence policy.
type CadenceUnit string

const (
	CadenceDays   CadenceUnit = "days"
	CadenceMonths CadenceUnit = "months"
)

// FullChargePolicy describes how often a vehicle should be balanced to 100%.
type FullChargePolicy struct {
	Enabled bool
	Value   int
	Unit    CadenceUnit
}

// CadenceDays converts the policy to days. Months are approximated as 30
// days, matching how users reason about monthly balance charges.
func (p FullChargePolicy) CadenceDays() int {
	if p.Unit == CadenceMonths {
		return p.Value * 30
	}
	return p.Value
}

// Vehicle is a read-only input to the engine: battery capacity, the
// manufacturer efficiency default and the full-charge cadence policy.
type Vehicle struct {
	ID                 int64
	UserID             int64
	Make               string
	Model              string
	BatteryKWh         float64
	EfficiencyMiPerKWh float64 // manufacturer default, used when no anchor window exists
	Active             bool
	FullCharge         FullChargePolicy
}

// DisplayName returns the make and model for messages.
func (v Vehicle) DisplayName() string {
	if v.Make == "" {
		return v.Model
	}
	return v.Make + " " + v.Model
}
