// Package store defines the persistence interfaces the metrics engine
// consumes. Record CRUD and ownership checks live outside the engine; the
// engine only needs ordered, read-only access to event history.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/MrSiJo/plugtrack/core/model"
)

// ErrNotFound is returned when an event or vehicle does not exist.
var ErrNotFound = errors.New("not found")

// Filter narrows an event listing. Zero values mean "no constraint".
type Filter struct {
	From       time.Time
	To         time.Time
	Location   string
	ChargeType model.ChargeType
}

// Matches reports whether an event satisfies the filter.
func (f Filter) Matches(e model.ChargingEvent) bool {
	if !f.From.IsZero() && e.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && e.Date.After(f.To) {
		return false
	}
	if f.Location != "" && e.Location != f.Location {
		return false
	}
	if f.ChargeType != "" && e.ChargeType != f.ChargeType {
		return false
	}
	return true
}

// EventStore provides read access to charging events. History results are
// ordered by date ascending, then by id ascending, so that anchor selection
// is deterministic for a given stored event set.
type EventStore interface {
	Event(ctx context.Context, id int64) (model.ChargingEvent, error)
	// History returns all events for a vehicle with date <= until, ordered.
	History(ctx context.Context, vehicleID int64, until time.Time) ([]model.ChargingEvent, error)
	// Events returns the vehicle's events matching the filter, ordered.
	Events(ctx context.Context, vehicleID int64, f Filter) ([]model.ChargingEvent, error)
	// LatestEvent returns the most recent event for a vehicle.
	LatestEvent(ctx context.Context, vehicleID int64) (model.ChargingEvent, error)
}

// VehicleStore provides read access to vehicle configuration.
type VehicleStore interface {
	Vehicle(ctx context.Context, id int64) (model.Vehicle, error)
	Vehicles(ctx context.Context) ([]model.Vehicle, error)
}

// Store combines both read surfaces.
type Store interface {
	EventStore
	VehicleStore
}
