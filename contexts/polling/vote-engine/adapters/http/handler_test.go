package httpadapter

import (
	"context"
	"testing"
	"time"

	"choices/contexts/polling/vote-engine/adapters/memory"
	"choices/contexts/polling/vote-engine/application/commands"
	"choices/contexts/polling/vote-engine/application/queries"
	"choices/contexts/polling/vote-engine/domain/entities"
	httptransport "choices/contexts/polling/vote-engine/transport/http"
)

func newTestHandler(t *testing.T, cfg commands.EngineConfig) (Handler, *memory.Store) {
	t.Helper()
	store := memory.NewStore(nil)
	window := cfg.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}
	votes := commands.NewVoteUseCase(commands.VoteDeps{
		Ballots:   store,
		Identity:  store,
		RateLimit: memory.NewRateLimiter(cfg.RateLimitPerUser, window),
		Outbox:    store,
		Clock:     store,
		IDGen:     store,
	}, cfg)
	handler := Handler{
		Polls:   store,
		Ballots: store,
		Votes:   votes,
		Results: queries.ResultsUseCase{Outbox: store, Clock: store, IDGen: store},
	}
	return handler, store
}

func seedRangePoll(store *memory.Store) {
	store.SetPoll(entities.Poll{
		PollID: "poll-1",
		Method: entities.MethodRange,
		Options: []entities.Option{
			{OptionID: "opt-a", Text: "a"},
			{OptionID: "opt-b", Text: "b"},
		},
		Status:    entities.PollStatusActive,
		StartTime: time.Now().UTC().Add(-time.Hour),
		Config:    entities.VotingConfig{RangeMin: 0, RangeMax: 10},
	})
}

func rangeVoteRequest() httptransport.CastVoteRequest {
	return httptransport.CastVoteRequest{
		PollID: "poll-1",
		VoteData: httptransport.VoteDataPayload{
			Scores: map[string]int{"opt-a": 8, "opt-b": 3},
		},
	}
}

func TestValidateVoteHandlerUnknownPoll(t *testing.T) {
	handler, _ := newTestHandler(t, commands.EngineConfig{})

	resp, err := handler.ValidateVoteHandler(context.Background(), "u1", rangeVoteRequest())
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if resp.IsValid || resp.Error == "" {
		t.Fatalf("unknown poll must come back as an invalid validation, got %+v", resp)
	}
}

func TestCastVoteHandlerRoundTrip(t *testing.T) {
	handler, store := newTestHandler(t, commands.EngineConfig{})
	seedRangePoll(store)

	resp, err := handler.CastVoteHandler(context.Background(), "u1", rangeVoteRequest())
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !resp.Success || resp.VoteID == "" || resp.AuditReceipt == "" {
		t.Fatalf("expected an accepted vote, got %+v", resp)
	}
	if resp.PrivacyLevel != string(entities.PrivacyPublic) {
		t.Fatalf("unexpected privacy level %q", resp.PrivacyLevel)
	}

	results, err := handler.PollResultsHandler(context.Background(), "poll-1", 4)
	if err != nil {
		t.Fatalf("results handler failed: %v", err)
	}
	if results.TotalVotes != 1 || results.VotingMethod != string(entities.MethodRange) {
		t.Fatalf("unexpected results payload: %+v", results)
	}
	if results.ParticipationRate == nil || *results.ParticipationRate != 0.25 {
		t.Fatalf("expected participation rate 0.25, got %v", results.ParticipationRate)
	}
	if len(results.Winners) != 1 || results.Winners[0] != "opt-a" {
		t.Fatalf("expected opt-a to win, got %v", results.Winners)
	}
}

func TestMethodConfigHandler(t *testing.T) {
	handler, _ := newTestHandler(t, commands.EngineConfig{})

	resp, err := handler.MethodConfigHandler(context.Background(), "quadratic")
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if resp.Method != string(entities.MethodQuadratic) || !resp.RequiresTokens {
		t.Fatalf("unexpected quadratic config: %+v", resp)
	}

	if _, err := handler.MethodConfigHandler(context.Background(), "borda"); err == nil {
		t.Fatalf("unknown method must fail loudly")
	}
}
