package main

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/KirkDiggler/talent-api/internal/clients/talentapi"
	"github.com/KirkDiggler/talent-api/internal/config"
	"github.com/KirkDiggler/talent-api/internal/engine/talentgraph"
	"github.com/KirkDiggler/talent-api/internal/errors"
	"github.com/KirkDiggler/talent-api/internal/fallback"
	"github.com/KirkDiggler/talent-api/internal/metrics"
	"github.com/KirkDiggler/talent-api/internal/orchestrators/talentcalc"
	"github.com/KirkDiggler/talent-api/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/talent-api/internal/redis"
	"github.com/KirkDiggler/talent-api/internal/repositories/dbc"
	talentsnapshot "github.com/KirkDiggler/talent-api/internal/repositories/talent_snapshot"
)

// newLogger builds the process logger from the configured level and format.
func newLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func setupLogging(cfg *config.Config) {
	slog.SetDefault(newLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat))
}

func dbcTables(t config.Tables) dbc.Tables {
	return dbc.Tables{
		Talent:    t.Talent,
		Spell:     t.Spell,
		SpellIcon: t.SpellIcon,
		Tab:       t.Tab,
		Duration:  t.Duration,
		Radius:    t.Radius,
		DescVars:  t.DescVars,
		CastTime:  t.CastTime,
		Range:     t.Range,
	}
}

// openPostgres connects to the DBC export database.
func openPostgres(ctx context.Context, cfg *config.Config) (dbc.Repository, *sql.DB, error) {
	db, err := dbc.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, err
	}
	repo, err := dbc.NewPostgresRepository(&dbc.Config{
		DB:     db,
		Tables: dbcTables(cfg.Tables),
	})
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return repo, db, nil
}

// app holds the wired service graph and whatever must be closed on exit.
type app struct {
	service talentcalc.Service
	metrics *metrics.Manager
	dbc     dbc.Repository
	closers []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Warn("Failed to release resource", "error", err)
		}
	}
}

func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{metrics: metrics.NewManager()}

	var source talentcalc.Source
	switch cfg.Source {
	case config.SourceHTTP:
		c, err := talentapi.New(&talentapi.Config{
			BaseURL:     cfg.TalentAPIURL,
			HTTPTimeout: cfg.HTTPTimeout,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create talent API client")
		}
		source = c
	case config.SourcePostgres:
		repo, db, err := openPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		a.dbc = repo
		source = repo
	}

	var snapshots talentsnapshot.Repository
	if cfg.RedisURL != "" {
		rc, err := redisclient.NewClient(cfg.RedisURL, nil)
		if err != nil {
			a.Close()
			return nil, errors.Wrap(err, "failed to create redis client")
		}
		a.closers = append(a.closers, rc.Close)
		snapshots, err = talentsnapshot.NewRedisRepository(&talentsnapshot.Config{
			Client: rc,
			Clock:  clock.New(),
			TTL:    cfg.SnapshotTTL,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	static, err := fallback.Load()
	if err != nil {
		a.Close()
		return nil, errors.Wrap(err, "failed to load static talent data")
	}

	policy, err := talentgraph.ParsePolicy(cfg.Policy)
	if err != nil {
		a.Close()
		return nil, err
	}

	svc, err := talentcalc.NewOrchestrator(&talentcalc.Config{
		Source:     source,
		SourceName: cfg.Source,
		Snapshots:  snapshots,
		Static:     static,
		Policy:     policy,
		Metrics:    a.metrics,
		Clock:      clock.New(),
		CacheTTL:   cfg.CacheTTL,
	})
	if err != nil {
		a.Close()
		return nil, errors.Wrap(err, "failed to create talent orchestrator")
	}
	a.service = svc

	slog.Info("Talent service wired",
		"source", cfg.Source,
		"snapshots", snapshots != nil,
		"static_classes", len(static.Classes()),
		"policy", policy)
	return a, nil
}
