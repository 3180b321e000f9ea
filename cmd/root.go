package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/hangar/app"
	"github.com/kilianp07/hangar/config"
	"github.com/kilianp07/hangar/core/scheduler"
	"github.com/kilianp07/hangar/infra/logger"
)

var (
	cfgPath          string
	schedulerCfgPath string
)

var rootCmd = &cobra.Command{
	Use:          "hangar",
	Short:        "Hangar bay allocation, feasibility and scheduling engine",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "",
		"configuration file (yaml or json); HANGAR_* variables override it")
	rootCmd.PersistentFlags().StringVar(&schedulerCfgPath, "scheduler-config", "",
		"scheduler settings file replacing the scheduler section of the configuration")
}

// loadConfig reads the configuration and applies --scheduler-config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if schedulerCfgPath != "" {
		sc, err := scheduler.LoadConfig(schedulerCfgPath)
		if err != nil {
			return nil, err
		}
		cfg.Scheduler = sc
	}
	return cfg, nil
}

// Execute runs the CLI until completion or SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// serve builds the service for one command invocation and closes it once fn
// returns.
func serve(cmd *cobra.Command, fn func(ctx context.Context, svc *app.Service) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	err = fn(ctx, svc)
	if cerr := svc.Close(); cerr != nil {
		logger.New("cli").Errorf("service close: %v", cerr)
	}
	return err
}
