package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"soce-backend/lib/configutil"
	"soce-backend/lib/scrapers/soce"
	"soce-backend/lib/serviceutil"
	"soce-backend/lib/sqliteutil"
	"soce-backend/lib/telemetry"
	"soce-backend/services/sweep"
	"soce-backend/services/sweep/db"

	"github.com/spf13/cobra"
)

var (
	ctx     context.Context
	cfg     Config
	client  *soce.Client
	service *sweep.Service
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "soce-cli",
	Short: "soce-cli operates the compraspublicas proforma sweep pipeline.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return bootstrap()
	},
}

func bootstrap() error {
	ctx = serviceutil.SignalContext()
	telemetry.InitSlog(verbose)

	_, err := telemetry.SetupFromEnv(ctx, "soce-cli")
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("setup telemetry: %w", err)
	}
	if verbose {
		telemetry.InstrumentPerfStats(ctx)
	}

	cfg, err = configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		return fmt.Errorf("read config.json5: %w", err)
	}

	database, err := sqliteutil.OpenDB(db.Schema, cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	client, err = soce.NewClient(soce.ClientOptions{
		BaseUrl: cfg.Portal.BaseUrl,
		Timeout: time.Duration(cfg.Portal.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("init portal client: %w", err)
	}

	options, err := cfg.sweepOptions()
	if err != nil {
		return fmt.Errorf("amount format: %w", err)
	}
	service = sweep.NewService(database, client, options)
	return nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err.Error())
	os.Exit(1)
}

func Execute() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging/instrumentation.")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
