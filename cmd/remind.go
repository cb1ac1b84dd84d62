package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrSiJo/plugtrack/app"
	"github.com/MrSiJo/plugtrack/config"
	"github.com/MrSiJo/plugtrack/infra/logger"
)

var remindNotify bool

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Evaluate full-charge reminders for every vehicle",
	RunE:  remind,
}

func init() {
	remindCmd.Flags().BoolVar(&remindNotify, "notify", false, "publish actionable reminders over MQTT")
	rootCmd.AddCommand(remindCmd)
}

func remind(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !remindNotify {
		cfg.Notify.Enabled = false
	}
	svc, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("remind-command").Errorf("service close: %v", err)
		}
	}()

	statuses, err := svc.NotifyReminders(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("evaluate reminders: %w", err)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(statuses)
}
