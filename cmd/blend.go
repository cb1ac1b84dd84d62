package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSiJo/plugtrack/config"
	"github.com/MrSiJo/plugtrack/core/blend"
)

var blendParams blend.Params

var blendCmd = &cobra.Command{
	Use:   "blend",
	Short: "Project cost and time for a DC plus home charge plan",
	RunE:  runBlend,
}

func init() {
	blendCmd.Flags().Float64Var(&blendParams.StartSoc, "start-soc", 0, "starting state of charge in percent")
	blendCmd.Flags().Float64Var(&blendParams.DCStopSoc, "dc-stop-soc", 0, "SoC at which to unplug from the DC charger")
	blendCmd.Flags().Float64Var(&blendParams.HomeTargetSoc, "home-target-soc", 0, "SoC to finish at on home power")
	blendCmd.Flags().Float64Var(&blendParams.DCPowerKW, "dc-power", 0, "rated DC charger power in kW")
	blendCmd.Flags().Float64Var(&blendParams.DCCostPerKWh, "dc-cost", 0, "DC cost per kWh")
	blendCmd.Flags().Float64Var(&blendParams.HomeCostPerKWh, "home-cost", 0, "home cost per kWh")
	blendCmd.Flags().Float64Var(&blendParams.BatteryKWh, "battery", 0, "battery capacity in kWh")
	blendCmd.Flags().Float64Var(&blendParams.HomePowerKW, "home-power", 0, "home charger power in kW (0 uses the configured default)")
	blendCmd.Flags().Float64Var(&blendParams.EfficiencyMiPerKWh, "efficiency", 0, "efficiency in mi/kWh for cost-per-mile")
	rootCmd.AddCommand(blendCmd)
}

func runBlend(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		// The simulator only needs the blend section; fall back to
		// defaults when no config file is present.
		if errors.Is(err, fs.ErrNotExist) {
			cfg = config.Default()
		} else {
			return fmt.Errorf("load config: %w", err)
		}
	}
	res, err := blend.Simulate(cfg.Blend, blendParams)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
