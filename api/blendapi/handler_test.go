package blendapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MrSiJo/plugtrack/core/blend"
)

func newMux() *http.ServeMux {
	var cfg blend.Config
	cfg.SetDefaults()
	mux := http.NewServeMux()
	mux.Handle("POST /api/blend", NewSimulateHandler(cfg))
	return mux
}

func TestSimulateHandler_Basic(t *testing.T) {
	mux := newMux()
	body := `{"start_soc":10,"dc_stop_soc":70,"home_target_soc":100,"dc_power_kw":100,"dc_cost_per_kwh":0.79,"home_cost_per_kwh":0.07,"battery_kwh":64}`
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/blend", strings.NewReader(body))
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	var out blend.Result
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Total.KWh <= 0 || out.DC.KWh <= 0 || out.Home.KWh <= 0 {
		t.Fatalf("unexpected result %#v", out)
	}
}

func TestSimulateHandler_InvalidParams(t *testing.T) {
	mux := newMux()
	body := `{"start_soc":10,"home_target_soc":120,"battery_kwh":64}`
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/blend", strings.NewReader(body))
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rr.Code)
	}
}

func TestSimulateHandler_BadBody(t *testing.T) {
	mux := newMux()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/blend", strings.NewReader("{"))
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rr.Code)
	}
}
