package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type VoteDataPayload struct {
	Choice  *int           `json:"choice,omitempty"`
	Choices []int          `json:"choices,omitempty"`
	Ranking []int          `json:"ranking,omitempty"`
	Credits map[string]int `json:"credits,omitempty"`
	Scores  map[string]int `json:"scores,omitempty"`
}

type CastVoteRequest struct {
	PollID       string          `json:"poll_id"`
	VoteData     VoteDataPayload `json:"vote_data"`
	PrivacyLevel string          `json:"privacy_level,omitempty"`
}

type ValidationResponse struct {
	IsValid                bool   `json:"is_valid"`
	Error                  string `json:"error,omitempty"`
	RequiresAuthentication bool   `json:"requires_authentication"`
	RequiresTokens         bool   `json:"requires_tokens"`
}

type VoteResponse struct {
	Success        bool   `json:"success"`
	VoteID         string `json:"vote_id,omitempty"`
	AuditReceipt   string `json:"audit_receipt,omitempty"`
	PrivacyLevel   string `json:"privacy_level"`
	ResponseTimeMs int64  `json:"response_time_ms"`
	Message        string `json:"message"`
}

type OptionResultItem struct {
	OptionID    string  `json:"option_id"`
	Text        string  `json:"text"`
	Votes       int     `json:"votes,omitempty"`
	Weight      float64 `json:"weight,omitempty"`
	Sum         int     `json:"sum,omitempty"`
	BallotCount int     `json:"ballot_count,omitempty"`
}

type RunoffRoundItem struct {
	Round      int                `json:"round"`
	Counts     map[string]int     `json:"counts"`
	Shares     map[string]float64 `json:"shares"`
	Exhausted  int                `json:"exhausted"`
	Eliminated []string           `json:"eliminated,omitempty"`
	Winner     string             `json:"winner,omitempty"`
}

type ResultsResponse struct {
	PollID            string             `json:"poll_id"`
	VotingMethod      string             `json:"voting_method"`
	TotalVotes        int                `json:"total_votes"`
	InvalidBallots    int                `json:"invalid_ballots"`
	ParticipationRate *float64           `json:"participation_rate,omitempty"`
	Options           []OptionResultItem `json:"options"`
	Winners           []string           `json:"winners,omitempty"`
	Majority          bool               `json:"majority,omitempty"`
	Rounds            []RunoffRoundItem  `json:"rounds,omitempty"`
	CalculatedAt      string             `json:"calculated_at"`
}

type MethodConfigResponse struct {
	Method           string `json:"method"`
	Description      string `json:"description"`
	RequiresTokens   bool   `json:"requires_tokens"`
	DefaultCredits   int    `json:"default_credits,omitempty"`
	DefaultRangeMin  int    `json:"default_range_min,omitempty"`
	DefaultRangeMax  int    `json:"default_range_max,omitempty"`
	DefaultMaxChoice int    `json:"default_max_choices,omitempty"`
}
