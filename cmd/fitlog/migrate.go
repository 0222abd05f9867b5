package main

import (
	"context"
	"fmt"
	"time"

	"fitlog/internal/adapter/sqldb"
	"fitlog/internal/config"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database tables and exit",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) (err error) {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Store == config.StoreMemory {
		return fmt.Errorf("store %q has no schema to migrate", cfg.Store)
	}

	db, err := sqldb.Open(cfg.Store, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, db.Close()) }()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	if err := db.Migrate(ctx); err != nil {
		return err
	}
	log.WithField("store", cfg.Store).Info("schema up to date")
	return nil
}
