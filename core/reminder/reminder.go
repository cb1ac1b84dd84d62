// Package reminder determines whether a "balance to 100%" charge is due for
// a vehicle. The status is a pure function of the stored events and the
// caller-supplied evaluation time: logging a new near-full session changes
// the computed state on the next call, with no dismissal flag to clear.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSiJo/plugtrack/core/logger"
	"github.com/MrSiJo/plugtrack/core/model"
	"github.com/MrSiJo/plugtrack/core/store"
)

// Urgency grades how far past its due date a full charge is.
type Urgency string

const (
	NotDue   Urgency = "not_due"
	Due      Urgency = "due"
	Overdue  Urgency = "overdue"
	Critical Urgency = "critical"
)

// Status is the evaluated reminder state for one vehicle.
type Status struct {
	VehicleID      int64      `json:"vehicle_id"`
	Vehicle        string     `json:"vehicle"`
	Enabled        bool       `json:"enabled"`
	LastFullCharge *time.Time `json:"last_full_charge,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	DaysOverdue    int        `json:"days_overdue"`
	Urgency        Urgency    `json:"urgency"`
	Message        string     `json:"message,omitempty"`
}

// Evaluate computes the reminder status for a vehicle from its events.
// events must be ordered by date ascending. now is the explicit evaluation
// time; there is no hidden clock dependence.
func Evaluate(cfg Config, veh model.Vehicle, events []model.ChargingEvent, now time.Time) Status {
	st := Status{VehicleID: veh.ID, Vehicle: veh.DisplayName(), Urgency: NotDue}
	if !veh.FullCharge.Enabled || veh.FullCharge.Value <= 0 {
		return st
	}
	st.Enabled = true

	var lastFull *model.ChargingEvent
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].SocTo >= cfg.NearFullSocPct {
			lastFull = &events[i]
			break
		}
	}

	today := now.Truncate(24 * time.Hour)
	if lastFull == nil {
		// Never balanced: due immediately.
		st.DueDate = &today
		st.DaysOverdue = 1
		st.Urgency = Due
		st.Message = fmt.Sprintf("%s has no recorded full charge; a 100%% balance charge is due.", st.Vehicle)
		return st
	}

	last := lastFull.Date
	st.LastFullCharge = &last
	// Day-granular arithmetic: the time of day a session was logged never
	// shifts the due date.
	due := last.Truncate(24*time.Hour).AddDate(0, 0, veh.FullCharge.CadenceDays())
	st.DueDate = &due
	if today.After(due) {
		st.DaysOverdue = int(today.Sub(due).Hours() / 24)
	}

	switch {
	case st.DaysOverdue <= 0:
		st.Urgency = NotDue
	case st.DaysOverdue <= 3:
		st.Urgency = Due
		st.Message = fmt.Sprintf("%s is due for a 100%% balance charge (every %d %s).",
			st.Vehicle, veh.FullCharge.Value, veh.FullCharge.Unit)
	case st.DaysOverdue <= 7:
		st.Urgency = Overdue
		st.Message = fmt.Sprintf("%s is %d days overdue for a 100%% balance charge.", st.Vehicle, st.DaysOverdue)
	default:
		st.Urgency = Critical
		st.Message = fmt.Sprintf("%s is %d days overdue for a 100%% balance charge; charge soon to protect the battery.",
			st.Vehicle, st.DaysOverdue)
	}
	return st
}

// Engine evaluates reminders against the store, for a single vehicle (UI
// display) or all vehicles in one batch (scheduled daily check), with the
// same underlying logic.
type Engine struct {
	store store.Store
	cfg   Config
	log   logger.Logger
}

// NewEngine builds a reminder engine.
func NewEngine(st store.Store, cfg Config, log logger.Logger) *Engine {
	return &Engine{store: st, cfg: cfg, log: log}
}

// EvaluateVehicle computes the status for one vehicle.
func (e *Engine) EvaluateVehicle(ctx context.Context, vehicleID int64, now time.Time) (Status, error) {
	veh, err := e.store.Vehicle(ctx, vehicleID)
	if err != nil {
		return Status{}, fmt.Errorf("load vehicle %d: %w", vehicleID, err)
	}
	events, err := e.store.History(ctx, vehicleID, now)
	if err != nil {
		return Status{}, fmt.Errorf("load history for vehicle %d: %w", vehicleID, err)
	}
	return Evaluate(e.cfg, veh, events, now), nil
}

// EvaluateAll computes statuses for every vehicle of every user.
func (e *Engine) EvaluateAll(ctx context.Context, now time.Time) ([]Status, error) {
	vehicles, err := e.store.Vehicles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	statuses := make([]Status, 0, len(vehicles))
	for _, veh := range vehicles {
		if !veh.Active {
			continue
		}
		events, err := e.store.History(ctx, veh.ID, now)
		if err != nil {
			e.log.Errorf("history for vehicle %d: %v", veh.ID, err)
			continue
		}
		statuses = append(statuses, Evaluate(e.cfg, veh, events, now))
	}
	return statuses, nil
}
