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

var pruneCmd = &cobra.Command{
	Use:   "prune-sessions",
	Short: "Delete expired sessions from the SQL store and exit",
	Long: `Expired sessions are ignored and removed lazily when they are presented.
This command removes the ones nobody presents again; run it from cron.
Redis sessions expire on their own and need no pruning.`,
	RunE: runPrune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)
}

func runPrune(cmd *cobra.Command, _ []string) (err error) {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Store == config.StoreMemory {
		return fmt.Errorf("store %q keeps no sessions across restarts", cfg.Store)
	}

	db, err := sqldb.Open(cfg.Store, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, db.Close()) }()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	n, err := sqldb.NewSessionRepo(db).DeleteExpired(ctx, time.Now())
	if err != nil {
		return err
	}
	log.WithField("count", n).Info("expired sessions removed")
	return nil
}
