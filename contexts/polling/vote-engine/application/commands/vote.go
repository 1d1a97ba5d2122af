package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	application "choices/contexts/polling/vote-engine/application"
	"choices/contexts/polling/vote-engine/domain/entities"
	domainerrors "choices/contexts/polling/vote-engine/domain/errors"
	"choices/contexts/polling/vote-engine/domain/methods"
	"choices/contexts/polling/vote-engine/ports"
)

// EngineConfig holds the cross-method acceptance policy. All fields can be
// set at construction and replaced at runtime through UpdateConfig.
type EngineConfig struct {
	// MaxVotesPerPoll caps accepted ballots per poll regardless of method.
	// Zero means uncapped.
	MaxVotesPerPoll int
	// AllowMultipleVotes permits repeat ballots from the same user.
	AllowMultipleVotes bool
	// RequireAuthentication rejects ballots without a user id.
	RequireAuthentication bool
	// MinTrustTier is the tier floor; empty disables the check.
	MinTrustTier entities.TrustTier
	// RateLimitPerUser / RateLimitWindow describe the per-user window the
	// injected limiter enforces.
	RateLimitPerUser int
	RateLimitWindow  time.Duration
}

// VoteUseCase orchestrates ballot acceptance: poll lifecycle checks,
// authentication and trust-tier gating, rate limiting, the multi-vote
// policy, method delegation, and audit-receipt minting.
type VoteUseCase struct {
	Ballots   ports.BallotStore
	Identity  ports.IdentityService
	RateLimit ports.RateLimiter
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger

	mu  sync.RWMutex
	cfg EngineConfig
}

// VoteDeps collects the collaborator ports a VoteUseCase is wired with.
type VoteDeps struct {
	Ballots   ports.BallotStore
	Identity  ports.IdentityService
	RateLimit ports.RateLimiter
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewVoteUseCase(deps VoteDeps, cfg EngineConfig) *VoteUseCase {
	uc := &VoteUseCase{
		Ballots:   deps.Ballots,
		Identity:  deps.Identity,
		RateLimit: deps.RateLimit,
		Outbox:    deps.Outbox,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	uc.cfg = cfg
	return uc
}

func (uc *VoteUseCase) Config() EngineConfig {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.cfg
}

func (uc *VoteUseCase) UpdateConfig(cfg EngineConfig) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.cfg = cfg
}

// ValidateVote checks a ballot against poll lifecycle, the engine's
// authentication and trust-tier policy, and the method-specific structural
// rules. Policy violations come back as Valid=false with a stable message;
// the error return is reserved for collaborator failures.
func (uc *VoteUseCase) ValidateVote(
	ctx context.Context,
	req entities.VoteRequest,
	poll entities.Poll,
) (entities.VoteValidation, error) {
	cfg := uc.Config()
	validation := entities.VoteValidation{
		RequiresAuthentication: cfg.RequireAuthentication,
		RequiresTokens:         methods.RequiresTokens(poll.Method),
	}
	now := uc.now()

	if poll.PollID == "" || poll.Status != entities.PollStatusActive || now.Before(poll.StartTime) {
		return invalid(validation, domainerrors.ErrPollNotFound.Error()), nil
	}
	if !poll.EndTime.IsZero() && now.After(poll.EndTime) {
		return invalid(validation, domainerrors.ErrPollEnded.Error()), nil
	}
	if req.Data.IsEmpty() {
		return invalid(validation, domainerrors.ErrMissingVoteData.Error()), nil
	}
	if cfg.RequireAuthentication && strings.TrimSpace(req.UserID) == "" {
		return invalid(validation, domainerrors.ErrAuthRequired.Error()), nil
	}

	if cfg.MinTrustTier != "" && strings.TrimSpace(req.UserID) != "" {
		tier, err := uc.resolveTier(ctx, req.UserID)
		if err != nil {
			return entities.VoteValidation{}, err
		}
		if tier.Level() < 0 {
			return invalid(validation, domainerrors.ErrUnknownTier.Error()), nil
		}
		if tier.Level() < cfg.MinTrustTier.Level() {
			return invalid(validation, domainerrors.ErrTierTooLow.Error()), nil
		}
	}

	if err := methods.Validate(poll, req.Data); err != nil {
		return invalid(validation, err.Error()), nil
	}

	validation.Valid = true
	return validation, nil
}

// ProcessVote re-runs validation (races between validate and process are
// expected), applies rate limiting and the multi-vote policy, appends the
// ballot durably, and mints an audit receipt. Every rejection is a
// Success=false receipt with a human-readable message; the error return
// carries collaborator failures only.
func (uc *VoteUseCase) ProcessVote(
	ctx context.Context,
	req entities.VoteRequest,
	poll entities.Poll,
) (entities.VoteReceipt, error) {
	logger := application.ResolveLogger(uc.Logger)
	started := uc.now()
	cfg := uc.Config()

	validation, err := uc.ValidateVote(ctx, req, poll)
	if err != nil {
		logger.Error("vote processing collaborator failure",
			"event", "vote_process_collaborator_failed",
			"module", "polling/vote-engine",
			"layer", "application",
			"poll_id", req.PollID,
			"error", err.Error(),
		)
		return uc.failure(req, started, err.Error()), err
	}
	if !validation.Valid {
		logger.Warn("vote rejected by validation",
			"event", "vote_process_rejected",
			"module", "polling/vote-engine",
			"layer", "application",
			"poll_id", req.PollID,
			"reason", validation.Error,
		)
		return uc.failure(req, started, validation.Error), nil
	}

	now := uc.now()
	allowed, err := uc.RateLimit.Allow(ctx, rateLimitKey(req.UserID), now)
	if err != nil {
		return uc.failure(req, started, err.Error()), err
	}
	if !allowed {
		logger.Warn("vote rejected by rate limiter",
			"event", "vote_process_rate_limited",
			"module", "polling/vote-engine",
			"layer", "application",
			"poll_id", req.PollID,
			"user_id", strings.TrimSpace(req.UserID),
		)
		return uc.failure(req, started, domainerrors.ErrRateLimited.Error()), nil
	}

	if cfg.MaxVotesPerPoll > 0 {
		count, err := uc.Ballots.CountBallots(ctx, req.PollID)
		if err != nil {
			return uc.failure(req, started, err.Error()), err
		}
		if count >= cfg.MaxVotesPerPoll {
			return uc.failure(req, started, domainerrors.ErrPollFull.Error()), nil
		}
	}

	if !cfg.AllowMultipleVotes && strings.TrimSpace(req.UserID) != "" {
		voted, err := uc.Ballots.HasExistingVote(ctx, req.PollID, req.UserID)
		if err != nil {
			return uc.failure(req, started, err.Error()), err
		}
		if voted {
			return uc.failure(req, started, domainerrors.ErrAlreadyVoted.Error()), nil
		}
	}

	voteID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return uc.failure(req, started, err.Error()), err
	}
	tier, err := uc.resolveTier(ctx, req.UserID)
	if err != nil {
		return uc.failure(req, started, err.Error()), err
	}
	ballot := entities.Ballot{
		BallotID:  voteID,
		PollID:    strings.TrimSpace(req.PollID),
		UserID:    strings.TrimSpace(req.UserID),
		Method:    poll.Method,
		Data:      req.Data,
		Privacy:   normalizePrivacy(req.Privacy),
		TrustTier: tier,
		CreatedAt: now,
	}
	if err := uc.Ballots.AppendBallot(ctx, ballot); err != nil {
		return uc.failure(req, started, err.Error()), err
	}

	salt, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return uc.failure(req, started, err.Error()), err
	}
	receipt := mintAuditReceipt(voteID, ballot.PollID, salt, now)

	if err := uc.appendAuditEvent(ctx, "vote.accepted", ballot, now); err != nil {
		return uc.failure(req, started, err.Error()), err
	}

	logger.Info("vote accepted",
		"event", "vote_process_accepted",
		"module", "polling/vote-engine",
		"layer", "application",
		"poll_id", ballot.PollID,
		"vote_id", ballot.BallotID,
		"method", string(ballot.Method),
		"privacy", string(ballot.Privacy),
	)
	return entities.VoteReceipt{
		Success:      true,
		VoteID:       voteID,
		AuditReceipt: receipt,
		Privacy:      ballot.Privacy,
		ResponseTime: uc.now().Sub(started),
		Message:      "vote recorded",
	}, nil
}

func (uc *VoteUseCase) failure(req entities.VoteRequest, started time.Time, message string) entities.VoteReceipt {
	return entities.VoteReceipt{
		Privacy:      normalizePrivacy(req.Privacy),
		ResponseTime: uc.now().Sub(started),
		Message:      message,
	}
}

// resolveTier defaults users the identity service has no record for to T0,
// the lowest tier; a floor above T0 will still reject them.
func (uc *VoteUseCase) resolveTier(ctx context.Context, userID string) (entities.TrustTier, error) {
	if strings.TrimSpace(userID) == "" || uc.Identity == nil {
		return entities.TierT0, nil
	}
	tier, found, err := uc.Identity.TrustTier(ctx, strings.TrimSpace(userID))
	if err != nil {
		return "", err
	}
	if !found {
		return entities.TierT0, nil
	}
	return tier, nil
}

func (uc *VoteUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

// rateLimitKey buckets unauthenticated ballots together; anonymous voting
// shares one window instead of bypassing the limiter.
func rateLimitKey(userID string) string {
	if strings.TrimSpace(userID) == "" {
		return "anonymous"
	}
	return strings.TrimSpace(userID)
}

func normalizePrivacy(privacy entities.PrivacyLevel) entities.PrivacyLevel {
	switch privacy {
	case entities.PrivacyPrivate, entities.PrivacyAnonymous:
		return privacy
	default:
		return entities.PrivacyPublic
	}
}

func invalid(validation entities.VoteValidation, message string) entities.VoteValidation {
	validation.Valid = false
	validation.Error = message
	return validation
}

// mintAuditReceipt hashes the vote identity with a random salt so the token
// correlates to an accepted ballot without being reversible to its content.
func mintAuditReceipt(voteID, pollID, salt string, acceptedAt time.Time) string {
	payload := map[string]string{
		"vote_id":     voteID,
		"poll_id":     pollID,
		"salt":        salt,
		"accepted_at": acceptedAt.UTC().Format(time.RFC3339Nano),
	}
	raw, _ := json.Marshal(payload)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
