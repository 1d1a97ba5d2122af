package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"choices/contexts/polling/vote-engine/domain/entities"
	domainerrors "choices/contexts/polling/vote-engine/domain/errors"
	"choices/contexts/polling/vote-engine/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store is the in-memory implementation of every collaborator port, used by
// tests and the in-memory module wiring.
type Store struct {
	mu sync.RWMutex

	polls   map[string]entities.Poll
	ballots map[string]entities.Ballot
	tiers   map[string]entities.TrustTier
	outbox  map[string]outboxRecord
}

func NewStore(seed []entities.Ballot) *Store {
	ballots := make(map[string]entities.Ballot, len(seed))
	for _, ballot := range seed {
		ballots[ballot.BallotID] = ballot
	}
	return &Store{
		polls:   make(map[string]entities.Poll),
		ballots: ballots,
		tiers:   make(map[string]entities.TrustTier),
		outbox:  make(map[string]outboxRecord),
	}
}

func (s *Store) SetPoll(poll entities.Poll) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polls[strings.TrimSpace(poll.PollID)] = poll
}

func (s *Store) SetTrustTier(userID string, tier entities.TrustTier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tiers[strings.TrimSpace(userID)] = tier
}

func (s *Store) GetPoll(_ context.Context, pollID string) (entities.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	poll, ok := s.polls[strings.TrimSpace(pollID)]
	if !ok {
		return entities.Poll{}, domainerrors.ErrPollNotFound
	}
	return poll, nil
}

func (s *Store) AppendBallot(_ context.Context, ballot entities.Ballot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.TrimSpace(ballot.BallotID)
	if _, exists := s.ballots[key]; exists {
		return domainerrors.ErrDuplicateBallot
	}
	s.ballots[key] = ballot
	return nil
}

func (s *Store) HasExistingVote(_ context.Context, pollID string, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pollID = strings.TrimSpace(pollID)
	userID = strings.TrimSpace(userID)
	for _, ballot := range s.ballots {
		if ballot.PollID == pollID && ballot.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) CountBallots(_ context.Context, pollID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, ballot := range s.ballots {
		if ballot.PollID == strings.TrimSpace(pollID) {
			count++
		}
	}
	return count, nil
}

func (s *Store) ListBallots(_ context.Context, pollID string) ([]entities.Ballot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Ballot, 0)
	for _, ballot := range s.ballots {
		if ballot.PollID == strings.TrimSpace(pollID) {
			items = append(items, ballot)
		}
	}
	sortBallots(items)
	return items, nil
}

func (s *Store) TrustTier(_ context.Context, userID string) (entities.TrustTier, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tier, ok := s.tiers[strings.TrimSpace(userID)]
	if !ok {
		return "", false, nil
	}
	return tier, true, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	if existing, ok := s.outbox[outboxID]; ok {
		if !bytes.Equal(existing.message.Payload, payload) {
			return domainerrors.ErrOutboxConflict
		}
		return nil
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	s.outbox[outboxID] = outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    strings.TrimSpace(envelope.EventType),
			PartitionKey: strings.TrimSpace(envelope.PartitionKey),
			Payload:      payload,
			CreatedAt:    createdAt,
		},
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrOutboxConflict
	}
	row.published = true
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func sortBallots(items []entities.Ballot) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].BallotID < items[j].BallotID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}
