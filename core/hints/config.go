package hints

import "fmt"

// Config holds the advisory rule thresholds. Everything is injected
// configuration rather than process-wide constants.
type Config struct {
	// TaperSocPct is the ending SoC above which DC charging rate falls
	// sharply, making further DC charging poor value.
	TaperSocPct int `json:"taper_soc_pct"`
	// HomeRatePPerKWh is the owner's configured home tariff.
	HomeRatePPerKWh float64 `json:"home_rate_p_per_kwh"`
	// HomeRateMultiple: a session costing at least this multiple of the
	// home rate triggers the finish-at-home advisory.
	HomeRateMultiple float64 `json:"home_rate_multiple"`
	// FinishTargetSocPct: finish-at-home only fires below this ending SoC.
	FinishTargetSocPct int `json:"finish_target_soc_pct"`
	// StorageIdleDays / StorageSocFloorPct drive the storage advisory.
	StorageIdleDays    int `json:"storage_idle_days"`
	StorageSocFloorPct int `json:"storage_soc_floor_pct"`
	// HomeAliases are location substrings treated as home charging.
	HomeAliases []string `json:"home_aliases"`
}

// SetDefaults applies the documented defaults.
func (c *Config) SetDefaults() {
	if c.TaperSocPct == 0 {
		c.TaperSocPct = 65
	}
	if c.HomeRatePPerKWh == 0 {
		c.HomeRatePPerKWh = 20.0
	}
	if c.HomeRateMultiple == 0 {
		c.HomeRateMultiple = 2.0
	}
	if c.FinishTargetSocPct == 0 {
		c.FinishTargetSocPct = 60
	}
	if c.StorageIdleDays == 0 {
		c.StorageIdleDays = 7
	}
	if c.StorageSocFloorPct == 0 {
		c.StorageSocFloorPct = 40
	}
	if len(c.HomeAliases) == 0 {
		c.HomeAliases = []string{"home", "house", "garage", "driveway"}
	}
}

// Validate checks threshold sanity.
func (c Config) Validate() error {
	if c.TaperSocPct <= 0 || c.TaperSocPct > 100 {
		return fmt.Errorf("taper_soc_pct must be within 1-100, got %d", c.TaperSocPct)
	}
	if c.FinishTargetSocPct <= 0 || c.FinishTargetSocPct > 100 {
		return fmt.Errorf("finish_target_soc_pct must be within 1-100, got %d", c.FinishTargetSocPct)
	}
	if c.StorageSocFloorPct <= 0 || c.StorageSocFloorPct > 100 {
		return fmt.Errorf("storage_soc_floor_pct must be within 1-100, got %d", c.StorageSocFloorPct)
	}
	if c.HomeRatePPerKWh < 0 {
		return fmt.Errorf("home_rate_p_per_kwh must not be negative")
	}
	if c.HomeRateMultiple < 1 {
		return fmt.Errorf("home_rate_multiple must be at least 1, got %v", c.HomeRateMultiple)
	}
	if c.StorageIdleDays <= 0 {
		return fmt.Errorf("storage_idle_days must be positive, got %d", c.StorageIdleDays)
	}
	return nil
}
