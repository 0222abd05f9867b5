package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adapthttp "fitlog/internal/adapter/http"
	"fitlog/internal/logging"
	"fitlog/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) (err error) {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logFile := logging.Setup(logging.Params{
		Level:    cfg.Log.Level,
		JSON:     cfg.Log.JSON,
		FileName: cfg.Log.File,
		Stdout:   cfg.Log.Stdout,
	})
	defer func() { err = multierr.Append(err, logFile.Close()) }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.NewManager("fitlog", "server", prometheus.DefaultRegisterer)
	svc, err := wire(ctx, cfg, m)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, svc.Close()) }()

	handler := adapthttp.New(svc.sessions, svc.contexts, svc.measurements, svc.tips, m).
		WithSecureCookies(cfg.Session.SecureCookie).
		Handler()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// leaves room for the tip generation deadline
		WriteTimeout: cfg.Tips.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Addr).Info("listening")
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
