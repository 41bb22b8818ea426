package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"love-surprise-backend/internal/database"
	"love-surprise-backend/internal/filestore"
	"love-surprise-backend/internal/services"
	"love-surprise-backend/internal/supabase"
)

func cleanupCmd() *cobra.Command {
	var sweepFiles bool

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Run the surprise lifecycle job once",
		Long: `Delete drafts older than three days, expire basic surprises after thirty
days and, with --sweep-files, evict stale photos from the local ephemeral
store at FILESTORE_PATH. Use it when no scheduler calls the cron endpoint.`,
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

			storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, cfg.SupabaseStorageBucket)
			if err != nil {
				return err
			}

			var files filestore.Backend
			if sweepFiles && cfg.FileStorePath != "" {
				files, err = filestore.NewSQLiteBackend(cfg.FileStorePath, cfg.FileStoreMaxBytes, zapLogger)
				if err != nil {
					return err
				}
				defer files.Close()
			}

			lifecycle := services.NewLifecycleService(supabase.NewDatabaseClient(db), storageClient, files, nil, cfg.FileStoreTTL, zapLogger)
			report, err := lifecycle.ManageSurprises(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "deleted drafts:   %d\n", report.DeletedDrafts)
			fmt.Fprintf(out, "expired surprises: %d\n", report.ExpiredBasic)
			fmt.Fprintf(out, "swept files:      %d\n", report.SweptFiles)
			if report.OrphanedObjects > 0 {
				fmt.Fprintf(out, "orphaned objects: %d\n", report.OrphanedObjects)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&sweepFiles, "sweep-files", false, "also sweep the local ephemeral file store")
	return cmd
}
