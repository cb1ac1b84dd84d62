package blendapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MrSiJo/plugtrack/core/blend"
)

// NewSimulateHandler returns an HTTP handler for the blended-charge
// simulator via POST /api/blend. Parameter validation failures map to 400.
func NewSimulateHandler(cfg blend.Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var p blend.Params
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		res, err := blend.Simulate(cfg, p)
		if err != nil {
			if errors.Is(err, blend.ErrInvalidParameter) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(res); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
