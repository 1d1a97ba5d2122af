package commands

import (
	"context"
	"encoding/json"
	"time"

	"choices/contexts/polling/vote-engine/domain/entities"
	"choices/contexts/polling/vote-engine/ports"
)

// appendAuditEvent records the acceptance in the audit outbox. The event
// carries correlation metadata only, never the ballot's vote data.
func (uc *VoteUseCase) appendAuditEvent(
	ctx context.Context,
	eventType string,
	ballot entities.Ballot,
	occurredAt time.Time,
) error {
	// Outbox is optional for pure validation/test wiring.
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newAuditEnvelope(eventID, eventType, ballot.PollID, occurredAt, map[string]any{
		"poll_id":     ballot.PollID,
		"vote_id":     ballot.BallotID,
		"method":      string(ballot.Method),
		"privacy":     string(ballot.Privacy),
		"trust_tier":  string(ballot.TrustTier),
		"occurred_at": occurredAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}

// newAuditEnvelope partitions by poll so poll-scoped consumers see a stable
// ordering of acceptance events.
func newAuditEnvelope(
	eventID string,
	eventType string,
	pollID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:       eventID,
		EventType:     eventType,
		OccurredAt:    occurredAt.UTC(),
		SourceService: "vote-engine",
		SchemaVersion: 1,
		PartitionKey:  pollID,
		Data:          payload,
	}, nil
}
