package model

import "time"

// ChargeType distinguishes AC and DC charging sources.
type ChargeType string

const (
	ChargeAC ChargeType = "AC"
	ChargeDC ChargeType = "DC"
)

// Preconditioning is a tri-state flag: users may not know whether the
// vehicle preconditioned before a session.
type Preconditioning int

const (
	PreconditioningUnknown Preconditioning = iota
	PreconditioningNo
	PreconditioningYes
)

// ChargingEvent is one user-recorded charging occurrence. Events are
// immutable once persisted; the engine only ever reads them.
type ChargingEvent struct {
	ID              int64
	VehicleID       int64
	UserID          int64
	Date            time.Time
	Odometer        float64 // miles; monotonic in principle, not enforced
	ChargeType      ChargeType
	ChargeSpeedKW   float64
	Location        string
	Network         string
	EnergyKWh       float64
	DurationMins    int
	CostPerKWh      float64
	SocFrom         int
	SocTo           int
	AmbientTempC    *float64
	Preconditioning Preconditioning
	Notes           string
	CreatedAt       time.Time
}

// TotalCost returns the session cost in currency units.
func (e ChargingEvent) TotalCost() float64 {
	return e.EnergyKWh * e.CostPerKWh
}

// DeltaSoc returns the state-of-charge gained during the session.
func (e ChargingEvent) DeltaSoc() int {
	return e.SocTo - e.SocFrom
}

// AveragePowerKW returns the mean charging power, or 0 when no duration
// was recorded.
func (e ChargingEvent) AveragePowerKW() float64 {
	if e.DurationMins <= 0 {
		return 0
	}
	return e.EnergyKWh / (float64(e.DurationMins) / 60)
}

// IsFree reports whether the session had no cost recorded.
func (e ChargingEvent) IsFree() bool { return e.CostPerKWh <= 0 }
