package main

import (
	"context"
	"path/filepath"
	"testing"

	"fitlog/internal/app"
	"fitlog/internal/config"
	"fitlog/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWire_Memory(t *testing.T) {
	cfg := config.Default()
	svc, err := wire(context.Background(), cfg, metrics.NewTestManager())
	require.NoError(t, err)
	defer func() { require.NoError(t, svc.Close()) }()

	assert.IsType(t, &app.StaticTipGenerator{}, svc.tips)

	ctx := context.Background()
	token, err := svc.sessions.Login(ctx, "alice")
	require.NoError(t, err)
	user, ok, err := svc.sessions.Resolve(ctx, token)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "alice", user)
}

func TestWire_SQLiteWithCoach(t *testing.T) {
	cfg := config.Default()
	cfg.Store = config.StoreSQLite
	cfg.DatabaseURL = filepath.Join(t.TempDir(), "fitlog.db")
	cfg.Tips.Mode = config.TipsOpenAI
	cfg.Tips.APIKey = "sk-test"
	require.NoError(t, cfg.Validate())

	svc, err := wire(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer func() { require.NoError(t, svc.Close()) }()

	assert.IsType(t, &app.CoachTipGenerator{}, svc.tips)

	ctx := context.Background()
	_, err = svc.measurements.Submit(ctx, "bob", app.Submission{Weight: "80", FatPercentage: "20", Height: "175"}, "2024-01-01")
	require.NoError(t, err)

	mc, err := svc.contexts.Build(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, mc.History, 1)
	require.NotNil(t, mc.Height)
	assert.Equal(t, 175.0, *mc.Height)
}

func TestWire_BadDatabase(t *testing.T) {
	cfg := config.Default()
	cfg.Store = config.StoreSQLite
	cfg.DatabaseURL = filepath.Join(t.TempDir(), "missing-dir", "fitlog.db")

	_, err := wire(context.Background(), cfg, nil)
	assert.Error(t, err)
}
