package reminder

import "fmt"

// Config holds the reminder thresholds.
type Config struct {
	// NearFullSocPct is the ending SoC at or above which a session counts
	// as a full balance charge.
	NearFullSocPct int `json:"near_full_soc_pct"`
}

// SetDefaults applies the documented defaults.
func (c *Config) SetDefaults() {
	if c.NearFullSocPct == 0 {
		c.NearFullSocPct = 95
	}
}

// Validate checks the threshold range.
func (c Config) Validate() error {
	if c.NearFullSocPct <= 0 || c.NearFullSocPct > 100 {
		return fmt.Errorf("near_full_soc_pct must be within 1-100, got %d", c.NearFullSocPct)
	}
	return nil
}
