package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/infrastructure/persistence/postgres"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/pkg/logger"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cmd.Context(), func(m *postgres.Migrator, log *logger.Logger) error {
					applied, err := m.Up(cmd.Context())
					if err != nil {
						return err
					}
					if len(applied) == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "No pending migrations.")
						return nil
					}
					for _, v := range applied {
						fmt.Fprintf(cmd.OutOrStdout(), "Applied migration %03d\n", v)
					}
					log.Info("migrations applied", logger.Any("versions", applied))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the latest applied migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cmd.Context(), func(m *postgres.Migrator, log *logger.Logger) error {
					version, err := m.Down(cmd.Context())
					if err != nil {
						return err
					}
					if version == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "Nothing to roll back.")
						return nil
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Rolled back migration %03d\n", version)
					log.Info("migration rolled back", logger.Int("version", version))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show applied and pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cmd.Context(), func(m *postgres.Migrator, _ *logger.Logger) error {
					migrations, err := m.Status(cmd.Context())
					if err != nil {
						return err
					}
					w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "VERSION\tNAME\tSTATUS\tAPPLIED AT")
					for _, mg := range migrations {
						status, at := "pending", "-"
						if mg.IsApplied {
							status, at = "applied", mg.AppliedAt.Format(time.RFC3339)
						}
						fmt.Fprintf(w, "%03d\t%s\t%s\t%s\n", mg.Version, mg.Name, status, at)
					}
					return w.Flush()
				})
			},
		},
	)
	return cmd
}

// withMigrator connects to PostgreSQL and runs fn with a migrator.
func withMigrator(ctx context.Context, fn func(*postgres.Migrator, *logger.Logger) error) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()
	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}

	conn, err := connectPostgres(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(postgres.NewMigrator(conn), log)
}
