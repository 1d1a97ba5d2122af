package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"choices/contexts/polling/vote-engine/adapters/memory"
	"choices/contexts/polling/vote-engine/domain/entities"
	domainerrors "choices/contexts/polling/vote-engine/domain/errors"
)

type fixedClock struct {
	at time.Time
}

func (c fixedClock) Now() time.Time { return c.at }

func approvalPoll() entities.Poll {
	return entities.Poll{
		PollID: "poll-1",
		Method: entities.MethodApproval,
		Options: []entities.Option{
			{OptionID: "opt-a", Text: "a"},
			{OptionID: "opt-b", Text: "b"},
			{OptionID: "opt-c", Text: "c"},
		},
		Status: entities.PollStatusActive,
		Config: entities.VotingConfig{MaxChoices: 2},
	}
}

func approvalBallots() []entities.Ballot {
	return []entities.Ballot{
		{BallotID: "b1", PollID: "poll-1", Data: entities.VoteData{Choices: []int{0, 1}}},
		{BallotID: "b2", PollID: "poll-1", Data: entities.VoteData{Choices: []int{1}}},
		// Over the maxChoices bound: counted as invalid, excluded from the tally.
		{BallotID: "b3", PollID: "poll-1", Data: entities.VoteData{Choices: []int{0, 1, 2}}},
	}
}

func TestCalculateResultsIsDeterministic(t *testing.T) {
	uc := ResultsUseCase{Clock: fixedClock{at: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}}
	poll := approvalPoll()
	ballots := approvalBallots()

	first, err := uc.CalculateResults(context.Background(), poll, ballots, 10)
	if err != nil {
		t.Fatalf("first calculation failed: %v", err)
	}
	second, err := uc.CalculateResults(context.Background(), poll, ballots, 10)
	if err != nil {
		t.Fatalf("second calculation failed: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("identical snapshots produced different results (-first +second):\n%s", diff)
	}
}

func TestCalculateResultsAccounting(t *testing.T) {
	uc := ResultsUseCase{Clock: fixedClock{at: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}}

	data, err := uc.CalculateResults(context.Background(), approvalPoll(), approvalBallots(), 10)
	if err != nil {
		t.Fatalf("calculation failed: %v", err)
	}
	if data.TotalVotes != 2 || data.InvalidBallots != 1 {
		t.Fatalf("expected 2 valid / 1 invalid, got %d / %d", data.TotalVotes, data.InvalidBallots)
	}
	// The rate counts valid ballots only.
	if data.ParticipationRate == nil || *data.ParticipationRate != 0.2 {
		t.Fatalf("expected participation rate 0.2, got %v", data.ParticipationRate)
	}
	if len(data.Results.Winners) != 1 || data.Results.Winners[0] != "opt-b" {
		t.Fatalf("expected opt-b to win, got %v", data.Results.Winners)
	}
}

func TestCalculateResultsOmitsRateWithoutEligibleCount(t *testing.T) {
	uc := ResultsUseCase{Clock: fixedClock{at: time.Now().UTC()}}

	data, err := uc.CalculateResults(context.Background(), approvalPoll(), approvalBallots(), 0)
	if err != nil {
		t.Fatalf("calculation failed: %v", err)
	}
	if data.ParticipationRate != nil {
		t.Fatalf("rate must stay unset without an eligible-voter count, got %v", *data.ParticipationRate)
	}
}

func TestCalculateResultsUnsupportedMethod(t *testing.T) {
	uc := ResultsUseCase{}
	poll := approvalPoll()
	poll.Method = "borda"

	_, err := uc.CalculateResults(context.Background(), poll, nil, 0)
	if !errors.Is(err, domainerrors.ErrUnsupportedMethod) {
		t.Fatalf("expected unsupported-method error, got %v", err)
	}
}

func TestCalculateResultsAppendsAuditEvent(t *testing.T) {
	store := memory.NewStore(nil)
	uc := ResultsUseCase{
		Outbox: store,
		Clock:  fixedClock{at: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		IDGen:  store,
	}

	if _, err := uc.CalculateResults(context.Background(), approvalPoll(), approvalBallots(), 0); err != nil {
		t.Fatalf("calculation failed: %v", err)
	}
	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 1 || pending[0].EventType != "results.calculated" {
		t.Fatalf("expected one results.calculated row, got %+v", pending)
	}
}

func TestMethodConfig(t *testing.T) {
	uc := ResultsUseCase{}

	settings, err := uc.MethodConfig(entities.MethodQuadratic)
	if err != nil {
		t.Fatalf("method config failed: %v", err)
	}
	if !settings.RequiresTokens || settings.DefaultCredits <= 0 {
		t.Fatalf("quadratic settings look wrong: %+v", settings)
	}

	if _, err := uc.MethodConfig("borda"); !errors.Is(err, domainerrors.ErrUnsupportedMethod) {
		t.Fatalf("expected unsupported-method error, got %v", err)
	}
}
