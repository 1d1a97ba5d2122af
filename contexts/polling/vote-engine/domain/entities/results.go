package entities

import "time"

// OptionResult is one option's aggregate standing. Which fields are
// meaningful depends on the voting method: Votes for plurality/approval,
// Weight for quadratic, Sum and BallotCount for range.
type OptionResult struct {
	OptionID    string
	Text        string
	Votes       int
	Weight      float64
	Sum         int
	BallotCount int
}

// RunoffRound records one instant-runoff round for auditability.
// Counts and Shares are keyed by option id and cover only the options still
// active at the start of the round. Exhausted counts ballots with no
// remaining active preference in this round.
type RunoffRound struct {
	Round      int
	Counts     map[string]int
	Shares     map[string]float64
	Exhausted  int
	Eliminated []string
	Winner     string
}

// MethodResults is the method-specific tally payload. Options are reported
// in poll option order so recomputation from the same inputs is
// byte-for-byte identical. Winners lists every co-winner on a tie.
type MethodResults struct {
	Options []OptionResult
	Winners []string
	// Majority is set by ranked-choice tallies when a winner crossed 50%.
	Majority bool
	Rounds   []RunoffRound
}

// ResultsData wraps a tally computed over a caller-supplied ballot snapshot.
// ParticipationRate is nil when no eligible-voter estimate was supplied;
// the engine never fabricates a rate.
type ResultsData struct {
	PollID            string
	Method            VotingMethod
	TotalVotes        int
	InvalidBallots    int
	ParticipationRate *float64
	Results           MethodResults
	CalculatedAt      time.Time
}

// MethodSettings is the static configuration of one voting method, returned
// by the engine's method-config lookup.
type MethodSettings struct {
	Method           VotingMethod
	Description      string
	RequiresTokens   bool
	DefaultMaxChoice int
	DefaultCredits   int
	DefaultRangeMin  int
	DefaultRangeMax  int
}
