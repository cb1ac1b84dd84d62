// Package hints evaluates stateless advisory rules over a session and its
// vehicle context. The engine reads state and returns advisories; per-rule
// dismissal persistence belongs to the caller.
package hints

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSiJo/plugtrack/core/logger"
	"github.com/MrSiJo/plugtrack/core/reminder"
	"github.com/MrSiJo/plugtrack/core/store"
)

// Engine runs every registered rule against a session.
type Engine struct {
	store    store.Store
	cfg      Config
	reminder *reminder.Engine
	log      logger.Logger
	rules    []Rule
}

// NewEngine builds a hint engine with the standard rule set.
func NewEngine(st store.Store, cfg Config, rem *reminder.Engine, log logger.Logger) *Engine {
	return &Engine{
		store:    st,
		cfg:      cfg,
		reminder: rem,
		log:      log,
		rules:    []Rule{dcTaperRule{}, finishAtHomeRule{}, storageSocRule{}, fullChargeDueRule{}},
	}
}

// EvaluateEvent returns the advisories that apply to one event. Each rule
// fires zero or one times; a failing collaborator degrades that rule to
// "no advisory" rather than failing the call.
func (e *Engine) EvaluateEvent(ctx context.Context, eventID int64, now time.Time) ([]Advisory, error) {
	ev, err := e.store.Event(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load event %d: %w", eventID, err)
	}
	veh, err := e.store.Vehicle(ctx, ev.VehicleID)
	if err != nil {
		return nil, fmt.Errorf("load vehicle %d: %w", ev.VehicleID, err)
	}

	rctx := Context{Event: ev, Vehicle: veh, Now: now}
	if last, err := e.store.LatestEvent(ctx, ev.VehicleID); err == nil {
		rctx.LastEvent = &last
	} else {
		e.log.Debugf("latest event for vehicle %d: %v", ev.VehicleID, err)
	}
	if st, err := e.reminder.EvaluateVehicle(ctx, ev.VehicleID, now); err == nil {
		rctx.Reminder = st
	} else {
		e.log.Warnf("reminder for vehicle %d: %v", ev.VehicleID, err)
	}

	advisories := make([]Advisory, 0, len(e.rules))
	for _, r := range e.rules {
		if adv, ok := r.Evaluate(e.cfg, rctx); ok {
			advisories = append(advisories, adv)
		}
	}
	return advisories, nil
}
