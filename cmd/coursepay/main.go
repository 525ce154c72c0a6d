package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"coursepay/internal/app"
	"coursepay/internal/config"
	"coursepay/internal/logger"
)

var (
	cfg *config.Config
	log *slog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "coursepay",
		Short:         "Operational tooling for the course payment service",
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded
			log = logger.Init(cfg.IsProduction())
			return nil
		},
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(simulateCmd())
	rootCmd.AddCommand(inspectCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDatabase connects without New Relic; CLI runs are not worth tracing.
func openDatabase(ctx context.Context) (*sql.DB, error) {
	db, err := app.NewDatabase(ctx, cfg.Database, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
