package metrics

import "fmt"

// Config carries the tunable thresholds of the efficiency engine. All values
// are injected so operators can tune sensitivity without code changes.
type Config struct {
	// HorizonDays bounds the backward anchor search from the target date.
	HorizonDays int `json:"horizon_days"`
	// MinWindowMiles and MinWindowKWh define the small_window signal: ratios
	// over tiny windows are numerically unstable.
	MinWindowMiles float64 `json:"min_window_miles"`
	MinWindowKWh   float64 `json:"min_window_kwh"`
	// StalenessDays flags anchor windows spanning more days than this.
	StalenessDays int `json:"staleness_days"`
	// ClampMin/ClampMax bound plausible efficiency in mi/kWh. Results outside
	// are clamped to the nearest bound and tagged outlier_clamped.
	ClampMinMiPerKWh float64 `json:"clamp_min_mi_per_kwh"`
	ClampMaxMiPerKWh float64 `json:"clamp_max_mi_per_kwh"`
	// Petrol reference used for the parity rate in aggregate summaries.
	PetrolPricePPerLitre float64 `json:"petrol_price_p_per_litre"`
	PetrolMPG            float64 `json:"petrol_mpg"`
}

// SetDefaults applies the documented defaults for absent thresholds.
func (c *Config) SetDefaults() {
	if c.HorizonDays == 0 {
		c.HorizonDays = 30
	}
	if c.MinWindowMiles == 0 {
		c.MinWindowMiles = 15
	}
	if c.MinWindowKWh == 0 {
		c.MinWindowKWh = 3.0
	}
	if c.StalenessDays == 0 {
		c.StalenessDays = 10
	}
	if c.ClampMinMiPerKWh == 0 {
		c.ClampMinMiPerKWh = 1
	}
	if c.ClampMaxMiPerKWh == 0 {
		c.ClampMaxMiPerKWh = 7
	}
	if c.PetrolPricePPerLitre == 0 {
		c.PetrolPricePPerLitre = 128.9
	}
	if c.PetrolMPG == 0 {
		c.PetrolMPG = 60.0
	}
}

// Validate checks threshold consistency.
func (c Config) Validate() error {
	if c.HorizonDays <= 0 {
		return fmt.Errorf("horizon_days must be positive, got %d", c.HorizonDays)
	}
	if c.StalenessDays <= 0 {
		return fmt.Errorf("staleness_days must be positive, got %d", c.StalenessDays)
	}
	if c.StalenessDays > c.HorizonDays {
		return fmt.Errorf("staleness_days %d exceeds horizon_days %d", c.StalenessDays, c.HorizonDays)
	}
	if c.MinWindowMiles < 0 || c.MinWindowKWh < 0 {
		return fmt.Errorf("small-window thresholds must not be negative")
	}
	if c.ClampMinMiPerKWh <= 0 || c.ClampMaxMiPerKWh <= c.ClampMinMiPerKWh {
		return fmt.Errorf("clamp bounds invalid: [%v, %v]", c.ClampMinMiPerKWh, c.ClampMaxMiPerKWh)
	}
	return nil
}
