package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/MrSiJo/plugtrack/core/model"
	corestore "github.com/MrSiJo/plugtrack/core/store"
)

// MemoryStore keeps events and vehicles in memory, for tests and
// single-user deployments. Events are kept ordered by date then id so
// History always returns the deterministic ordering the resolver needs.
type MemoryStore struct {
	mu       sync.RWMutex
	events   map[int64][]model.ChargingEvent // by vehicle, ordered
	byID     map[int64]model.ChargingEvent
	vehicles map[int64]model.Vehicle
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events:   map[int64][]model.ChargingEvent{},
		byID:     map[int64]model.ChargingEvent{},
		vehicles: map[int64]model.Vehicle{},
	}
}

// AddVehicle inserts or replaces a vehicle.
func (s *MemoryStore) AddVehicle(v model.Vehicle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicles[v.ID] = v
}

// AddEvent inserts an event, keeping the vehicle's history ordered.
func (s *MemoryStore) AddEvent(e model.ChargingEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[e.ID] = e
	evs := append(s.events[e.VehicleID], e)
	sort.Slice(evs, func(i, j int) bool {
		if !evs[i].Date.Equal(evs[j].Date) {
			return evs[i].Date.Before(evs[j].Date)
		}
		return evs[i].ID < evs[j].ID
	})
	s.events[e.VehicleID] = evs
}

func (s *MemoryStore) Event(_ context.Context, id int64) (model.ChargingEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byID[id]
	if !ok {
		return model.ChargingEvent{}, corestore.ErrNotFound
	}
	return e, nil
}

func (s *MemoryStore) History(_ context.Context, vehicleID int64, until time.Time) ([]model.ChargingEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.ChargingEvent
	for _, e := range s.events[vehicleID] {
		if e.Date.After(until) {
			break
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *MemoryStore) Events(_ context.Context, vehicleID int64, f corestore.Filter) ([]model.ChargingEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.ChargingEvent
	for _, e := range s.events[vehicleID] {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *MemoryStore) LatestEvent(_ context.Context, vehicleID int64) (model.ChargingEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	evs := s.events[vehicleID]
	if len(evs) == 0 {
		return model.ChargingEvent{}, corestore.ErrNotFound
	}
	return evs[len(evs)-1], nil
}

func (s *MemoryStore) Vehicle(_ context.Context, id int64) (model.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vehicles[id]
	if !ok {
		return model.Vehicle{}, corestore.ErrNotFound
	}
	return v, nil
}

func (s *MemoryStore) Vehicles(_ context.Context) ([]model.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Vehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
