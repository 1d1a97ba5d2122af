package entities

import "time"

type VotingMethod string

const (
	MethodPlurality VotingMethod = "plurality"
	MethodApproval  VotingMethod = "approval"
	MethodRanked    VotingMethod = "ranked_choice"
	MethodQuadratic VotingMethod = "quadratic"
	MethodRange     VotingMethod = "range"
)

type PollStatus string

const (
	PollStatusDraft  PollStatus = "draft"
	PollStatusActive PollStatus = "active"
	PollStatusClosed PollStatus = "closed"
)

type Option struct {
	OptionID string
	Text     string
}

// VotingConfig carries the method-specific bounds a poll was published with.
// Zero values mean "not configured" and the method decides its own default.
type VotingConfig struct {
	MaxChoices       int
	QuadraticCredits int
	RangeMin         int
	RangeMax         int
}

// Poll is immutable once published; the engine only ever reads it.
// Lifecycle draft -> active -> closed is owned by the poll repository.
type Poll struct {
	PollID      string
	Title       string
	Description string
	Method      VotingMethod
	Options     []Option
	Status      PollStatus
	StartTime   time.Time
	EndTime     time.Time
	Config      VotingConfig
	CreatedAt   time.Time
}

// OptionIndex returns the position of an option id in the poll's option list.
func (p Poll) OptionIndex(optionID string) (int, bool) {
	for i, option := range p.Options {
		if option.OptionID == optionID {
			return i, true
		}
	}
	return 0, false
}

func (p Poll) AcceptsVotesAt(now time.Time) bool {
	if p.Status != PollStatusActive {
		return false
	}
	if now.Before(p.StartTime) {
		return false
	}
	if !p.EndTime.IsZero() && now.After(p.EndTime) {
		return false
	}
	return true
}

type TrustTier string

const (
	TierT0 TrustTier = "T0"
	TierT1 TrustTier = "T1"
	TierT2 TrustTier = "T2"
	TierT3 TrustTier = "T3"
)

// Level places tiers on a total order so floors compare as T0 < T1 < T2 < T3.
// Unknown tiers report -1 and must be rejected by callers, never coerced.
func (t TrustTier) Level() int {
	switch t {
	case TierT0:
		return 0
	case TierT1:
		return 1
	case TierT2:
		return 2
	case TierT3:
		return 3
	default:
		return -1
	}
}
