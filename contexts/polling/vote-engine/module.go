package voteengine

import (
	"log/slog"
	"time"

	httpadapter "choices/contexts/polling/vote-engine/adapters/http"
	"choices/contexts/polling/vote-engine/adapters/memory"
	"choices/contexts/polling/vote-engine/application/commands"
	"choices/contexts/polling/vote-engine/application/queries"
	"choices/contexts/polling/vote-engine/domain/entities"
	"choices/contexts/polling/vote-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Votes   *commands.VoteUseCase
	Results queries.ResultsUseCase
	Store   *memory.Store
}

type Dependencies struct {
	Polls     ports.PollRepository
	Ballots   ports.BallotStore
	Identity  ports.IdentityService
	RateLimit ports.RateLimiter
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Config    commands.EngineConfig
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	voteUseCase := commands.NewVoteUseCase(commands.VoteDeps{
		Ballots:   deps.Ballots,
		Identity:  deps.Identity,
		RateLimit: deps.RateLimit,
		Outbox:    deps.Outbox,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}, deps.Config)
	resultsUseCase := queries.ResultsUseCase{
		Outbox: deps.Outbox,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Polls:   deps.Polls,
			Ballots: deps.Ballots,
			Votes:   voteUseCase,
			Results: resultsUseCase,
			Logger:  deps.Logger,
		},
		Votes:   voteUseCase,
		Results: resultsUseCase,
	}
}

// NewInMemoryModule wires the engine against the in-memory store and rate
// limiter, for tests and local runs. The store is exported for seeding.
func NewInMemoryModule(seed []entities.Ballot, cfg commands.EngineConfig, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	window := cfg.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}
	module := NewModule(Dependencies{
		Polls:     store,
		Ballots:   store,
		Identity:  store,
		RateLimit: memory.NewRateLimiter(cfg.RateLimitPerUser, window),
		Outbox:    store,
		Clock:     store,
		IDGen:     store,
		Config:    cfg,
		Logger:    logger,
	})
	module.Store = store
	return module
}
