package queries

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	application "choices/contexts/polling/vote-engine/application"
	"choices/contexts/polling/vote-engine/domain/entities"
	"choices/contexts/polling/vote-engine/domain/methods"
	"choices/contexts/polling/vote-engine/ports"
)

// ResultsUseCase computes verifiable tallies over caller-supplied ballot
// snapshots. It performs no I/O of its own beyond the optional audit trail,
// so it is safe to run concurrently with ongoing vote processing.
type ResultsUseCase struct {
	Outbox ports.OutboxWriter
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// CalculateResults tallies the supplied snapshot with the poll's method.
// The caller is trusted to pass exactly the ballots belonging to the poll
// and controls snapshot freshness. eligibleVoters <= 0 means no estimate is
// available and the participation rate is left unset rather than fabricated.
// For a fixed (poll, ballots) input the returned Results payload is
// identical on every invocation.
func (uc ResultsUseCase) CalculateResults(
	ctx context.Context,
	poll entities.Poll,
	ballots []entities.Ballot,
	eligibleVoters int,
) (entities.ResultsData, error) {
	logger := application.ResolveLogger(uc.Logger)

	results, invalid, err := methods.Tally(poll, ballots)
	if err != nil {
		logger.Error("tally computation failed",
			"event", "results_tally_failed",
			"module", "polling/vote-engine",
			"layer", "application",
			"poll_id", poll.PollID,
			"method", string(poll.Method),
			"error", err.Error(),
		)
		return entities.ResultsData{}, fmt.Errorf("failed to calculate results: %w", err)
	}

	data := entities.ResultsData{
		PollID:         poll.PollID,
		Method:         poll.Method,
		TotalVotes:     len(ballots) - invalid,
		InvalidBallots: invalid,
		Results:        results,
		CalculatedAt:   uc.now(),
	}
	if eligibleVoters > 0 {
		rate := float64(data.TotalVotes) / float64(eligibleVoters)
		data.ParticipationRate = &rate
	}

	if err := uc.appendResultsEvent(ctx, data); err != nil {
		return entities.ResultsData{}, err
	}

	logger.Info("results calculated",
		"event", "results_calculated",
		"module", "polling/vote-engine",
		"layer", "application",
		"poll_id", poll.PollID,
		"method", string(poll.Method),
		"total_votes", data.TotalVotes,
		"invalid_ballots", data.InvalidBallots,
	)
	return data, nil
}

// MethodConfig returns the static configuration of a voting method and
// fails loudly on unknown tags instead of defaulting.
func (uc ResultsUseCase) MethodConfig(method entities.VotingMethod) (entities.MethodSettings, error) {
	return methods.Settings(method)
}

func (uc ResultsUseCase) appendResultsEvent(ctx context.Context, data entities.ResultsData) error {
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(map[string]any{
		"poll_id":         data.PollID,
		"method":          string(data.Method),
		"total_votes":     data.TotalVotes,
		"invalid_ballots": data.InvalidBallots,
		"winners":         data.Results.Winners,
		"calculated_at":   data.CalculatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:       eventID,
		EventType:     "results.calculated",
		OccurredAt:    data.CalculatedAt.UTC(),
		SourceService: "vote-engine",
		SchemaVersion: 1,
		PartitionKey:  data.PollID,
		Data:          payload,
	})
}

func (uc ResultsUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}
