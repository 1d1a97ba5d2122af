package ports

import (
	"context"
	"time"

	"choices/contexts/polling/vote-engine/domain/entities"
)

// PollRepository serves poll definitions. The engine never mutates a poll;
// lifecycle transitions belong to the repository's owner.
type PollRepository interface {
	GetPoll(ctx context.Context, pollID string) (entities.Poll, error)
}

// BallotStore is the durable vote record collaborator. AppendBallot is
// assumed atomic per ballot. ListBallots returns the snapshot handed to
// results computation; the caller controls freshness.
type BallotStore interface {
	AppendBallot(ctx context.Context, ballot entities.Ballot) error
	HasExistingVote(ctx context.Context, pollID string, userID string) (bool, error)
	CountBallots(ctx context.Context, pollID string) (int, error)
	ListBallots(ctx context.Context, pollID string) ([]entities.Ballot, error)
}

// IdentityService resolves a voter's trust tier. The bool result is false
// when the service has no record for the user.
type IdentityService interface {
	TrustTier(ctx context.Context, userID string) (entities.TrustTier, bool, error)
}

// RateLimiter guards per-user vote acceptance. Allow must record the attempt
// and answer atomically so two concurrent calls for the same user cannot
// both pass a "count < limit" check.
type RateLimiter interface {
	Allow(ctx context.Context, userID string, now time.Time) (bool, error)
}

type EventEnvelope struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	OccurredAt    time.Time `json:"occurred_at"`
	SourceService string    `json:"source_service"`
	SchemaVersion int       `json:"schema_version"`
	PartitionKey  string    `json:"partition_key"`
	Data          []byte    `json:"data"`
}

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// OutboxWriter persists audit events alongside state changes. A nil writer
// is treated as a no-op by the application layer.
type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

// OutboxRepository is the worker-side view of the outbox.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// EventPublisher delivers audit events to the message bus.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
