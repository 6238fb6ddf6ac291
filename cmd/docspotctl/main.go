package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hackgods/docspot/internal/config"
	"github.com/hackgods/docspot/internal/db"
	"github.com/hackgods/docspot/internal/logging"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "docspotctl",
		Short:         "DocSpot operations: schema, demo data and admin bootstrap",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(bootstrapAdminCmd())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// connect loads configuration, sets up logging and opens a small pool.
func connect(ctx context.Context) (config.Config, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	logging.Init("docspotctl", cfg.Env, cfg.LogLevel)

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(connCtx, cfg.PostgresDSN, db.PoolOptions{MaxConns: 4, MinConns: 1})
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, pool, nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, pool, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			applied, err := db.NewMigrator(pool, db.Migrations()).Up(cmd.Context())
			if err != nil {
				return err
			}
			log.Info().Int("applied", applied).Msg("migrations complete")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show which migrations have been applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, pool, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, db.Migrations()).Status(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-8s %-30s %s\n", "VERSION", "NAME", "APPLIED")
			for _, s := range statuses {
				applied := "pending"
				if s.AppliedAt != nil {
					applied = s.AppliedAt.Format(time.RFC3339)
				}
				fmt.Fprintf(out, "%-8d %-30s %s\n", s.Version, s.Name, applied)
			}
			return nil
		},
	})

	return cmd
}
