package vehicles

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/MrSiJo/plugtrack/core/metrics"
	"github.com/MrSiJo/plugtrack/core/model"
	"github.com/MrSiJo/plugtrack/core/reminder"
	"github.com/MrSiJo/plugtrack/core/store"
)

// NewSummaryHandler returns an HTTP handler exposing aggregate metrics via
// GET /api/vehicles/{id}/summary. The listing can be narrowed with the
// from, to, location and charge_type query parameters.
func NewSummaryHandler(engine *metrics.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid vehicle id", http.StatusBadRequest)
			return
		}
		f, err := parseFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		agg, err := engine.ComputeAggregateMetrics(r.Context(), id, f)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				http.Error(w, "vehicle not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(agg); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

func parseFilter(r *http.Request) (store.Filter, error) {
	var f store.Filter
	q := r.URL.Query()
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, errors.New("invalid from timestamp")
		}
		f.From = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, errors.New("invalid to timestamp")
		}
		f.To = t
	}
	f.Location = q.Get("location")
	if v := q.Get("charge_type"); v != "" {
		ct := model.ChargeType(v)
		if ct != model.ChargeAC && ct != model.ChargeDC {
			return f, errors.New("invalid charge_type")
		}
		f.ChargeType = ct
	}
	return f, nil
}

// NewReminderHandler returns an HTTP handler exposing the full-charge
// reminder status via GET /api/vehicles/{id}/reminder.
func NewReminderHandler(engine *reminder.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid vehicle id", http.StatusBadRequest)
			return
		}
		st, err := engine.EvaluateVehicle(r.Context(), id, time.Now())
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				http.Error(w, "vehicle not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(st); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

// NewRemindersHandler returns an HTTP handler for the batch reminder check
// via GET /api/reminders.
func NewRemindersHandler(engine *reminder.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		statuses, err := engine.EvaluateAll(r.Context(), time.Now())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if statuses == nil {
			statuses = []reminder.Status{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(statuses); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
