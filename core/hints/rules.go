package hints

import (
	"fmt"
	"strings"
	"time"

	"github.com/MrSiJo/plugtrack/core/model"
	"github.com/MrSiJo/plugtrack/core/reminder"
)

// Severity grades an advisory for display.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Rule codes are stable so callers can persist per-rule dismissals.
const (
	CodeDCTaper       = "dc_taper"
	CodeFinishAtHome  = "finish_at_home"
	CodeStorageSoc    = "storage_soc"
	CodeFullChargeDue = "full_charge_due"
)

// Advisory is one fired rule result.
type Advisory struct {
	RuleCode string   `json:"rule_code"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Context carries everything a rule may read. Rules never write state.
type Context struct {
	Event     model.ChargingEvent
	Vehicle   model.Vehicle
	LastEvent *model.ChargingEvent // most recent event for the vehicle
	Reminder  reminder.Status
	Now       time.Time
}

// Rule is one independently evaluable advisory. Each rule fires at most
// once per invocation.
type Rule interface {
	Code() string
	Evaluate(cfg Config, ctx Context) (Advisory, bool)
}

// dcTaperRule advises stopping DC charging before the taper knee.
type dcTaperRule struct{}

func (dcTaperRule) Code() string { return CodeDCTaper }

func (dcTaperRule) Evaluate(cfg Config, ctx Context) (Advisory, bool) {
	if ctx.Event.ChargeType != model.ChargeDC || ctx.Event.SocTo <= cfg.TaperSocPct {
		return Advisory{}, false
	}
	return Advisory{
		RuleCode: CodeDCTaper,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("DC rate tapers sharply above ~%d%%; stopping earlier and finishing at home is usually faster and cheaper.", cfg.TaperSocPct),
	}, true
}

// finishAtHomeRule advises moving the remainder of an expensive public
// session to the owner's home tariff.
type finishAtHomeRule struct{}

func (finishAtHomeRule) Code() string { return CodeFinishAtHome }

func (finishAtHomeRule) Evaluate(cfg Config, ctx Context) (Advisory, bool) {
	ev := ctx.Event
	if isHomeLocation(ev.Location, cfg.HomeAliases) || ev.IsFree() {
		return Advisory{}, false
	}
	homeRate := cfg.HomeRatePPerKWh / 100 // pence to currency units
	if ev.CostPerKWh < cfg.HomeRateMultiple*homeRate || ev.SocTo >= cfg.FinishTargetSocPct {
		return Advisory{}, false
	}
	return Advisory{
		RuleCode: CodeFinishAtHome,
		Severity: SeverityInfo,
		Message: fmt.Sprintf("This session costs %.2f/kWh against a home rate of %.2f/kWh; finishing the charge at home would be cheaper.",
			ev.CostPerKWh, homeRate),
	}, true
}

// storageSocRule advises topping up a vehicle parked long-term at low SoC.
type storageSocRule struct{}

func (storageSocRule) Code() string { return CodeStorageSoc }

func (storageSocRule) Evaluate(cfg Config, ctx Context) (Advisory, bool) {
	last := ctx.LastEvent
	if last == nil {
		return Advisory{}, false
	}
	idle := ctx.Now.Sub(last.Date) > time.Duration(cfg.StorageIdleDays)*24*time.Hour
	if !idle || last.SocTo >= cfg.StorageSocFloorPct {
		return Advisory{}, false
	}
	return Advisory{
		RuleCode: CodeStorageSoc,
		Severity: SeverityInfo,
		Message: fmt.Sprintf("%s has been idle over %d days at %d%%; consider topping to 50-60%% for storage.",
			ctx.Vehicle.DisplayName(), cfg.StorageIdleDays, last.SocTo),
	}, true
}

// fullChargeDueRule surfaces the reminder engine's due-date computation as
// an advisory. Unlike the other rules its underlying state auto-clears when
// a near-full session is logged.
type fullChargeDueRule struct{}

func (fullChargeDueRule) Code() string { return CodeFullChargeDue }

func (fullChargeDueRule) Evaluate(cfg Config, ctx Context) (Advisory, bool) {
	if ctx.Reminder.Urgency == reminder.NotDue || ctx.Reminder.Urgency == "" {
		return Advisory{}, false
	}
	sev := SeverityInfo
	if ctx.Reminder.Urgency != reminder.Due {
		sev = SeverityWarning
	}
	return Advisory{RuleCode: CodeFullChargeDue, Severity: sev, Message: ctx.Reminder.Message}, true
}

func isHomeLocation(location string, aliases []string) bool {
	loc := strings.ToLower(location)
	for _, a := range aliases {
		if a != "" && strings.Contains(loc, strings.ToLower(a)) {
			return true
		}
	}
	return false
}
