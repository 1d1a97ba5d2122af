package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	voteengine "choices/contexts/polling/vote-engine"
	"choices/contexts/polling/vote-engine/adapters/memory"
	postgresadapter "choices/contexts/polling/vote-engine/adapters/postgres"
	"choices/contexts/polling/vote-engine/application/commands"
	workerapp "choices/contexts/polling/vote-engine/application/workers"
	"choices/contexts/polling/vote-engine/domain/entities"
	"choices/internal/platform/config"
	"choices/internal/platform/db"
	"choices/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

// EngineApp holds the vote engine wired against durable storage, for the
// surrounding service layer to embed.
type EngineApp struct {
	Module   voteengine.Module
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	auditRelay   workerapp.AuditRelay
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildEngine() (*EngineApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "engine")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	module := voteengine.NewModule(voteengine.Dependencies{
		Polls:   repo,
		Ballots: repo,
		// The identity/trust service lives outside this process; a nil port
		// resolves every voter to the lowest tier until one is wired in.
		Identity:  nil,
		RateLimit: memory.NewRateLimiter(cfg.RateLimitPerUser, cfg.RateLimitWindow),
		Outbox:    repo,
		Clock:     postgresadapter.SystemClock{},
		IDGen:     postgresadapter.UUIDGenerator{},
		Config: commands.EngineConfig{
			MaxVotesPerPoll:       cfg.MaxVotesPerPoll,
			AllowMultipleVotes:    cfg.AllowMultipleVotes,
			RequireAuthentication: cfg.RequireAuthentication,
			MinTrustTier:          entities.TrustTier(cfg.MinTrustTier),
			RateLimitPerUser:      cfg.RateLimitPerUser,
			RateLimitWindow:       cfg.RateLimitWindow,
		},
		Logger: logger,
	})

	return &EngineApp{
		Module:   module,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	bus, err := messaging.NewBus(cfg.BusBrokers, logger)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		auditRelay: workerapp.AuditRelay{
			Outbox:    repo,
			Publisher: bus,
			Clock:     postgresadapter.SystemClock{},
			BatchSize: cfg.AuditRelayBatchSize,
			Logger:    logger,
		},
		pollInterval: cfg.AuditRelayInterval,
		logger:       logger,
	}, nil
}

func (a *EngineApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.auditRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}
