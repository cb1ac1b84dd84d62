package blend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	var cfg Config
	cfg.SetDefaults()
	return cfg
}

func TestSimulate_DCAndHome(t *testing.T) {
	cfg := testConfig()
	res, err := Simulate(cfg, Params{
		StartSoc:       10,
		DCStopSoc:      70,
		HomeTargetSoc:  100,
		DCPowerKW:      100,
		DCCostPerKWh:   0.79,
		HomeCostPerKWh: 0.07,
		BatteryKWh:     64,
	})
	require.NoError(t, err)

	// DC: 10-50 at full rate, 50-70 at 0.70 of rate.
	assert.InDelta(t, 0.60*64, res.DC.KWh, 1e-9)
	wantDCHours := (0.40*64)/100 + (0.20*64)/(100*0.70)
	assert.InDelta(t, wantDCHours, res.DC.Hours, 1e-9)
	assert.InDelta(t, 0.60*64*0.79, res.DC.Cost, 1e-9)

	// Home: 70-100 at constant 7.4 kW.
	assert.InDelta(t, 0.30*64, res.Home.KWh, 1e-9)
	assert.InDelta(t, (0.30*64)/7.4, res.Home.Hours, 1e-9)
	assert.InDelta(t, 0.30*64*0.07, res.Home.Cost, 1e-9)

	assert.InDelta(t, res.DC.KWh+res.Home.KWh, res.Total.KWh, 1e-9)
	assert.InDelta(t, res.DC.Cost+res.Home.Cost, res.Total.Cost, 1e-9)
}

func TestSimulate_ZeroHomeSegment(t *testing.T) {
	cfg := testConfig()
	res, err := Simulate(cfg, Params{
		StartSoc:     20,
		DCStopSoc:    60,
		DCPowerKW:    150,
		DCCostPerKWh: 0.5,
		BatteryKWh:   64,
	})
	require.NoError(t, err)
	assert.Zero(t, res.Home.KWh)
	assert.Zero(t, res.Home.Hours)
	assert.Zero(t, res.Home.Cost)
	assert.Greater(t, res.DC.KWh, 0.0)
}

func TestSimulate_ZeroDCSegment(t *testing.T) {
	cfg := testConfig()
	res, err := Simulate(cfg, Params{
		StartSoc:       40,
		DCStopSoc:      40,
		HomeTargetSoc:  80,
		HomeCostPerKWh: 0.07,
		BatteryKWh:     64,
	})
	require.NoError(t, err)
	assert.Zero(t, res.DC.KWh)
	assert.InDelta(t, 0.40*64, res.Home.KWh, 1e-9)
}

func TestSimulate_UncoveredSpanChargesAtFullPower(t *testing.T) {
	// Default bands stop at 80; the 80-90 remainder runs at rated power.
	cfg := testConfig()
	res, err := Simulate(cfg, Params{
		StartSoc:   75,
		DCStopSoc:  90,
		DCPowerKW:  100,
		BatteryKWh: 64,
	})
	require.NoError(t, err)
	wantHours := (0.05*64)/(100*0.45) + (0.10*64)/100
	assert.InDelta(t, wantHours, res.DC.Hours, 1e-9)
	assert.InDelta(t, 0.15*64, res.DC.KWh, 1e-9)
}

func TestSimulate_HomePowerOverride(t *testing.T) {
	cfg := testConfig()
	res, err := Simulate(cfg, Params{
		StartSoc:      50,
		HomeTargetSoc: 100,
		HomePowerKW:   3.6,
		BatteryKWh:    64,
	})
	require.NoError(t, err)
	assert.InDelta(t, (0.50*64)/3.6, res.Home.Hours, 1e-9)
}

func TestSimulate_CostPerMile(t *testing.T) {
	cfg := testConfig()
	res, err := Simulate(cfg, Params{
		StartSoc:           50,
		HomeTargetSoc:      100,
		HomeCostPerKWh:     0.10,
		BatteryKWh:         64,
		EfficiencyMiPerKWh: 4.0,
	})
	require.NoError(t, err)
	require.NotNil(t, res.CostPerMile)
	assert.InDelta(t, 0.10/4.0, *res.CostPerMile, 1e-9)
}

func TestSimulate_InvalidParameters(t *testing.T) {
	cfg := testConfig()
	cases := []Params{
		{StartSoc: -1, BatteryKWh: 64},
		{StartSoc: 10, DCStopSoc: 101, BatteryKWh: 64},
		{StartSoc: 10, HomeTargetSoc: 120, BatteryKWh: 64},
		{StartSoc: 10, DCStopSoc: 50, BatteryKWh: 0, DCPowerKW: 100},
		{StartSoc: 10, DCStopSoc: 50, BatteryKWh: 64}, // DC needed, no power
		{StartSoc: 10, BatteryKWh: 64, DCCostPerKWh: -0.1},
		{StartSoc: 10, BatteryKWh: 64, HomePowerKW: -1},
	}
	for i, p := range cases {
		_, err := Simulate(cfg, p)
		require.ErrorIs(t, err, ErrInvalidParameter, "case %d", i)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := testConfig()
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.TaperBands = []Band{{FromSoc: 50, ToSoc: 40, PowerFraction: 0.5}}
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.TaperBands = []Band{{FromSoc: 10, ToSoc: 50, PowerFraction: 0}}
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.TaperBands = []Band{{FromSoc: 10, ToSoc: 50, PowerFraction: 1.5}}
	assert.Error(t, bad.Validate())
}
