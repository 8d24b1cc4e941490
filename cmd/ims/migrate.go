package main

import (
	"github.com/raisama21/ims/pkg/database"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := database.InitDB(cfg)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}

			log.Info("Database migrated", zap.String("db_name", cfg.DB.DBName))
			return nil
		},
	}
}
