package entities

import "time"

type PrivacyLevel string

const (
	PrivacyPublic    PrivacyLevel = "public"
	PrivacyPrivate   PrivacyLevel = "private"
	PrivacyAnonymous PrivacyLevel = "anonymous"
)

// VoteData is the method-dependent payload of a ballot. Exactly one of the
// fields is expected to be populated; which one is dictated by the poll's
// voting method and checked by domain/methods.
type VoteData struct {
	// Choice is a single option index (plurality).
	Choice *int
	// Choices is a set of approved option indices (approval).
	Choices []int
	// Ranking is an ordered preference over option indices (ranked choice).
	Ranking []int
	// Credits maps option id to a non-negative credit allocation (quadratic).
	Credits map[string]int
	// Scores maps option id to an integer score (range).
	Scores map[string]int
}

func (d VoteData) IsEmpty() bool {
	return d.Choice == nil &&
		len(d.Choices) == 0 &&
		len(d.Ranking) == 0 &&
		len(d.Credits) == 0 &&
		len(d.Scores) == 0
}

// Ballot is one voter's accepted submission for a poll. UserID may be empty
// only when the engine was configured to allow unauthenticated voting.
// Privacy is carried through for the ballot store's retention policy; the
// engine itself never acts on it.
type Ballot struct {
	BallotID  string
	PollID    string
	UserID    string
	Method    VotingMethod
	Data      VoteData
	Privacy   PrivacyLevel
	TrustTier TrustTier
	CreatedAt time.Time
}

// VoteRequest is the write-model input for vote validation and processing.
type VoteRequest struct {
	PollID  string
	UserID  string
	Data    VoteData
	Privacy PrivacyLevel
}

// VoteValidation reports the outcome of structural and policy validation.
// Error is populated iff Valid is false.
type VoteValidation struct {
	Valid                  bool
	Error                  string
	RequiresAuthentication bool
	RequiresTokens         bool
}

// VoteReceipt is the outcome of ProcessVote. AuditReceipt is an opaque
// correlation token; it cannot be reversed to the voter's choice.
type VoteReceipt struct {
	Success      bool
	VoteID       string
	AuditReceipt string
	Privacy      PrivacyLevel
	ResponseTime time.Duration
	Message      string
}
