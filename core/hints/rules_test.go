package hints

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrSiJo/plugtrack/core/model"
	"github.com/MrSiJo/plugtrack/core/reminder"
)

func testConfig() Config {
	var cfg Config
	cfg.SetDefaults()
	return cfg
}

func TestDCTaperRule(t *testing.T) {
	cfg := testConfig()
	rule := dcTaperRule{}

	ctx := Context{Event: model.ChargingEvent{ChargeType: model.ChargeDC, SocTo: 80}}
	adv, fired := rule.Evaluate(cfg, ctx)
	assert.True(t, fired)
	assert.Equal(t, CodeDCTaper, adv.RuleCode)
	assert.Equal(t, SeverityWarning, adv.Severity)

	// At the knee exactly: no advisory.
	ctx.Event.SocTo = cfg.TaperSocPct
	_, fired = rule.Evaluate(cfg, ctx)
	assert.False(t, fired)

	// AC charging tapers differently and is not covered.
	ctx.Event = model.ChargingEvent{ChargeType: model.ChargeAC, SocTo: 95}
	_, fired = rule.Evaluate(cfg, ctx)
	assert.False(t, fired)
}

func TestFinishAtHomeRule(t *testing.T) {
	cfg := testConfig()
	rule := finishAtHomeRule{}

	// Expensive public session stopped below the finish target.
	ctx := Context{Event: model.ChargingEvent{Location: "Ionity M4", CostPerKWh: 0.79, SocTo: 55}}
	adv, fired := rule.Evaluate(cfg, ctx)
	assert.True(t, fired)
	assert.Equal(t, CodeFinishAtHome, adv.RuleCode)

	// Already at home.
	ctx.Event.Location = "Home driveway"
	_, fired = rule.Evaluate(cfg, ctx)
	assert.False(t, fired)

	// Free sessions are never advised against.
	ctx.Event = model.ChargingEvent{Location: "Tesco", CostPerKWh: 0, SocTo: 55}
	_, fired = rule.Evaluate(cfg, ctx)
	assert.False(t, fired)

	// Cheap enough relative to the home rate.
	ctx.Event = model.ChargingEvent{Location: "Tesco", CostPerKWh: 0.25, SocTo: 55}
	_, fired = rule.Evaluate(cfg, ctx)
	assert.False(t, fired)

	// Already past the finish target.
	ctx.Event = model.ChargingEvent{Location: "Ionity M4", CostPerKWh: 0.79, SocTo: 80}
	_, fired = rule.Evaluate(cfg, ctx)
	assert.False(t, fired)
}

func TestStorageSocRule(t *testing.T) {
	cfg := testConfig()
	rule := storageSocRule{}
	now := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

	last := model.ChargingEvent{Date: now.AddDate(0, 0, -10), SocTo: 30}
	ctx := Context{LastEvent: &last, Now: now, Vehicle: model.Vehicle{Model: "e-Niro"}}
	adv, fired := rule.Evaluate(cfg, ctx)
	assert.True(t, fired)
	assert.Equal(t, CodeStorageSoc, adv.RuleCode)

	// Recent activity: not in storage.
	last.Date = now.AddDate(0, 0, -2)
	_, fired = rule.Evaluate(cfg, ctx)
	assert.False(t, fired)

	// Idle but parked at a healthy SoC.
	last = model.ChargingEvent{Date: now.AddDate(0, 0, -10), SocTo: 60}
	ctx.LastEvent = &last
	_, fired = rule.Evaluate(cfg, ctx)
	assert.False(t, fired)

	// No events at all.
	ctx.LastEvent = nil
	_, fired = rule.Evaluate(cfg, ctx)
	assert.False(t, fired)
}

func TestFullChargeDueRule(t *testing.T) {
	cfg := testConfig()
	rule := fullChargeDueRule{}

	ctx := Context{Reminder: reminder.Status{Urgency: reminder.Due, Message: "due"}}
	adv, fired := rule.Evaluate(cfg, ctx)
	assert.True(t, fired)
	assert.Equal(t, SeverityInfo, adv.Severity)

	ctx.Reminder = reminder.Status{Urgency: reminder.Critical, Message: "overdue"}
	adv, fired = rule.Evaluate(cfg, ctx)
	assert.True(t, fired)
	assert.Equal(t, SeverityWarning, adv.Severity)

	ctx.Reminder = reminder.Status{Urgency: reminder.NotDue}
	_, fired = rule.Evaluate(cfg, ctx)
	assert.False(t, fired)

	// Reminder evaluation unavailable: degrade silently.
	ctx.Reminder = reminder.Status{}
	_, fired = rule.Evaluate(cfg, ctx)
	assert.False(t, fired)
}

func TestIsHomeLocation(t *testing.T) {
	aliases := []string{"home", "garage"}
	assert.True(t, isHomeLocation("Home", aliases))
	assert.True(t, isHomeLocation("the GARAGE wallbox", aliases))
	assert.False(t, isHomeLocation("Ionity M4", aliases))
	assert.False(t, isHomeLocation("", aliases))
}
