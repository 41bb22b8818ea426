package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"love-surprise-backend/internal/database"
)

func migrateCmd() *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Long: `Apply the embedded SQL migrations to DATABASE_URL in order.

Examples:
  surprisectl migrate
  surprisectl migrate --status`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, zapLogger, err := loadConfig()
			if err != nil {
				return err
			}
			defer zapLogger.Sync()
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required")
			}

			ctx := cmd.Context()
			db, err := database.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close()

			migrator := database.NewMigrator(db, zapLogger)
			if !status {
				if err := migrator.Run(ctx); err != nil {
					return err
				}
			}

			statuses, err := migrator.Status(ctx)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MIGRATION\tAPPLIED\tAT")
			for _, s := range statuses {
				at := "-"
				if s.Applied {
					at = s.AppliedAt.Format("2006-01-02 15:04:05")
				}
				fmt.Fprintf(w, "%s\t%t\t%s\n", s.Name, s.Applied, at)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&status, "status", false, "only list migrations and whether they are applied")
	return cmd
}
