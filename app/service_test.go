package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSiJo/plugtrack/config"
	"github.com/MrSiJo/plugtrack/core/model"
	"github.com/MrSiJo/plugtrack/core/reminder"
	infrastore "github.com/MrSiJo/plugtrack/infra/store"
)

func newTestService(t *testing.T) (*Service, *infrastore.MemoryStore) {
	t.Helper()
	svc, err := New(context.Background(), config.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	mem, ok := svc.Store.(*infrastore.MemoryStore)
	require.True(t, ok)
	return svc, mem
}

func TestService_Routes(t *testing.T) {
	svc, mem := newTestService(t)
	mem.AddVehicle(model.Vehicle{ID: 1, Model: "e-Niro", BatteryKWh: 64, Active: true})
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mem.AddEvent(model.ChargingEvent{ID: 1, VehicleID: 1, Date: base, Odometer: 1000, EnergyKWh: 30})
	mem.AddEvent(model.ChargingEvent{ID: 2, VehicleID: 1, Date: base.AddDate(0, 0, 5), Odometer: 1100, EnergyKWh: 20})

	handler := svc.Handler()
	for _, target := range []string{
		"/api/events/2/metrics",
		"/api/events/2/hints",
		"/api/vehicles/1/summary",
		"/api/vehicles/1/reminder",
		"/api/reminders",
	} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", target, nil))
		assert.Equal(t, http.StatusOK, rr.Code, target)
	}
}

func TestService_NotifyReminders(t *testing.T) {
	svc, mem := newTestService(t)
	mem.AddVehicle(model.Vehicle{
		ID: 1, Model: "e-Niro", Active: true,
		FullCharge: model.FullChargePolicy{Enabled: true, Value: 1, Unit: model.CadenceMonths},
	})

	statuses, err := svc.NotifyReminders(context.Background(), time.Now())
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	// Never balanced to 100%, so the reminder fires immediately.
	assert.Equal(t, reminder.Due, statuses[0].Urgency)
}
