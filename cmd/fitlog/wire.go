package main

import (
	"context"
	"fmt"
	"io"

	"fitlog/internal/adapter/memory"
	"fitlog/internal/adapter/openai"
	"fitlog/internal/adapter/redis"
	"fitlog/internal/adapter/sqldb"
	"fitlog/internal/app"
	"fitlog/internal/config"
	"fitlog/internal/domain"
	"fitlog/internal/metrics"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// services is everything the HTTP adapter needs, plus the resources that
// have to be released on shutdown.
type services struct {
	sessions     *app.SessionService
	contexts     *app.ContextService
	measurements *app.MeasurementService
	tips         app.TipGenerator

	closers []io.Closer
}

func (s *services) Close() error {
	var err error
	for i := len(s.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, s.closers[i].Close())
	}
	return err
}

func wire(ctx context.Context, cfg *config.Config, m *metrics.Manager) (_ *services, err error) {
	svc := &services{}
	defer func() {
		if err != nil {
			err = multierr.Append(err, svc.Close())
		}
	}()

	var (
		store        domain.MeasurementRepository
		sessionStore domain.SessionRepository
		heights      domain.HeightCache
	)

	switch cfg.Store {
	case config.StoreMemory:
		store = memory.New()
		sessionStore = memory.NewSessionRepo()
	default:
		db, err := sqldb.Open(cfg.Store, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open %s store: %w", cfg.Store, err)
		}
		svc.closers = append(svc.closers, db)
		store = db
		sessionStore = sqldb.NewSessionRepo(db)
	}

	if cfg.Redis.Addr != "" {
		rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		svc.closers = append(svc.closers, rdb)
		heights = redis.NewHeightCache(rdb)
		sessionStore = redis.NewSessionRepo(rdb)
		log.WithField("addr", cfg.Redis.Addr).Info("using redis for heights and sessions")
	} else {
		heights = memory.NewHeightCache()
	}

	switch cfg.Tips.Mode {
	case config.TipsOpenAI:
		completer := openai.NewCompleter(cfg.Tips.APIKey, cfg.Tips.BaseURL)
		svc.tips = app.NewCoachTipGenerator(completer, app.CoachOptions{
			Model:       cfg.Tips.Model,
			MaxTokens:   cfg.Tips.MaxTokens,
			Temperature: cfg.Tips.Temperature,
			Timeout:     cfg.Tips.Timeout,
		}, m)
	default:
		svc.tips = app.NewStaticTipGenerator(cfg.Tips.StaticText, m)
	}

	svc.sessions = app.NewSessionService(sessionStore, heights, cfg.Session.TTL)
	svc.contexts = app.NewContextService(store, heights, app.NewTrendService())
	svc.measurements = app.NewMeasurementService(store, heights).WithMetrics(m)

	log.WithFields(log.Fields{
		"store": cfg.Store,
		"tips":  cfg.Tips.Mode,
	}).Info("services wired")
	return svc, nil
}
