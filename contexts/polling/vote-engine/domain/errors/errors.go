package errors

import "errors"

var (
	ErrPollNotFound      = errors.New("poll not found or not active")
	ErrPollEnded         = errors.New("poll has ended")
	ErrMissingVoteData   = errors.New("missing required vote data")
	ErrAuthRequired      = errors.New("authentication required to vote")
	ErrTierTooLow        = errors.New("trust tier below the poll's minimum")
	ErrUnknownTier       = errors.New("unknown trust tier")
	ErrRateLimited       = errors.New("rate limit exceeded for user")
	ErrAlreadyVoted      = errors.New("user has already voted in this poll")
	ErrPollFull          = errors.New("poll has reached its maximum vote count")
	ErrUnsupportedMethod = errors.New("unsupported voting method")

	ErrChoiceRequired     = errors.New("choice is required for single-choice voting")
	ErrChoiceOutOfRange   = errors.New("choice index out of range")
	ErrChoicesRequired    = errors.New("at least one choice is required for approval voting")
	ErrDuplicateChoice    = errors.New("duplicate option in vote data")
	ErrTooManyChoices     = errors.New("number of choices exceeds maxChoices")
	ErrRankingRequired    = errors.New("ranking is required for ranked-choice voting")
	ErrCreditsRequired    = errors.New("credit allocation is required for quadratic voting")
	ErrNegativeCredits    = errors.New("credit allocation cannot be negative")
	ErrCreditBudget       = errors.New("credit budget exceeded")
	ErrScoresRequired     = errors.New("scores are required for range voting")
	ErrScoreOutOfRange    = errors.New("score outside the configured range")
	ErrUnknownOption      = errors.New("vote references an option that does not exist")
	ErrBallotNotFound     = errors.New("ballot not found")
	ErrDuplicateBallot    = errors.New("ballot id already recorded")
	ErrOutboxConflict     = errors.New("outbox record conflict")
)
