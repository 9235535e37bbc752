package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thedevbrian1/thevervefashion-fly/catalog"
	"github.com/thedevbrian1/thevervefashion-fly/media"
	"github.com/thedevbrian1/thevervefashion-fly/models"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := initDatabase(cfg)
			if err != nil {
				return err
			}
			if err := models.AutoMigrate(db); err != nil {
				return fmt.Errorf("auto-migrate: %w", err)
			}
			log.Info("database migrated")
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-products <file.xlsx>",
		Short: "Write every product to an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := initDatabase(cfg)
			if err != nil {
				return err
			}
			products, err := catalog.NewRepository(db).All(context.Background())
			if err != nil {
				return err
			}

			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			if err := catalog.WriteWorkbook(f, products); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			log.Info("products exported", zap.Int("count", len(products)), zap.String("file", args[0]))
			return nil
		},
	}
}

func newBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup-uploads",
		Short: "Copy locally stored images into BACKUP_DIR now",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			if cfg.BackupDir == "" {
				return fmt.Errorf("BACKUP_DIR is not set")
			}
			b := &media.Backup{Src: cfg.UploadDir, Dst: cfg.BackupDir, Retention: cfg.BackupRetention, Log: log}
			dest, err := b.RunOnce()
			if err != nil {
				return err
			}
			log.Info("uploads backed up", zap.String("dest", dest))
			return nil
		},
	}
}
