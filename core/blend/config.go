package blend

import "fmt"

// Band maps a SoC interval to a fraction of rated DC power.
type Band struct {
	FromSoc       float64 `json:"from_soc"`
	ToSoc         float64 `json:"to_soc"`
	PowerFraction float64 `json:"power_fraction"`
}

// Config holds the taper model and home charger defaults.
type Config struct {
	TaperBands  []Band  `json:"taper_bands"`
	HomePowerKW float64 `json:"home_power_kw"`
}

// SetDefaults applies the documented default taper model and a 7.4 kW home
// charger.
func (c *Config) SetDefaults() {
	if len(c.TaperBands) == 0 {
		c.TaperBands = []Band{
			{FromSoc: 10, ToSoc: 50, PowerFraction: 1.00},
			{FromSoc: 50, ToSoc: 70, PowerFraction: 0.70},
			{FromSoc: 70, ToSoc: 80, PowerFraction: 0.45},
		}
	}
	if c.HomePowerKW == 0 {
		c.HomePowerKW = 7.4
	}
}

// Validate checks band and power sanity.
func (c Config) Validate() error {
	if c.HomePowerKW <= 0 {
		return fmt.Errorf("home_power_kw must be positive, got %v", c.HomePowerKW)
	}
	for i, b := range c.TaperBands {
		if b.FromSoc < 0 || b.ToSoc > 100 || b.FromSoc >= b.ToSoc {
			return fmt.Errorf("taper band %d: invalid range [%v, %v]", i, b.FromSoc, b.ToSoc)
		}
		if b.PowerFraction <= 0 || b.PowerFraction > 1 {
			return fmt.Errorf("taper band %d: power_fraction %v outside (0, 1]", i, b.PowerFraction)
		}
	}
	return nil
}
