package methods

import (
	"errors"
	"math"
	"testing"

	"choices/contexts/polling/vote-engine/domain/entities"
	domainerrors "choices/contexts/polling/vote-engine/domain/errors"
)

func testPoll(method entities.VotingMethod, optionCount int, config entities.VotingConfig) entities.Poll {
	options := make([]entities.Option, 0, optionCount)
	labels := []string{"alpha", "bravo", "charlie", "delta", "echo"}
	for i := 0; i < optionCount; i++ {
		options = append(options, entities.Option{
			OptionID: labels[i],
			Text:     labels[i],
		})
	}
	return entities.Poll{
		PollID:  "poll-1",
		Method:  method,
		Options: options,
		Status:  entities.PollStatusActive,
		Config:  config,
	}
}

func choiceBallot(index int) entities.Ballot {
	return entities.Ballot{Data: entities.VoteData{Choice: &index}}
}

func rankedBallot(ranking ...int) entities.Ballot {
	return entities.Ballot{Data: entities.VoteData{Ranking: ranking}}
}

func TestPluralityScenario(t *testing.T) {
	poll := testPoll(entities.MethodPlurality, 3, entities.VotingConfig{})
	ballots := []entities.Ballot{choiceBallot(0), choiceBallot(0), choiceBallot(1)}

	results, invalid, err := Tally(poll, ballots)
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	if invalid != 0 {
		t.Fatalf("expected no invalid ballots, got %d", invalid)
	}
	if results.Options[0].Votes != 2 || results.Options[1].Votes != 1 {
		t.Fatalf("unexpected counts: %+v", results.Options)
	}
	if len(results.Winners) != 1 || results.Winners[0] != "alpha" {
		t.Fatalf("expected alpha to win, got %v", results.Winners)
	}
}

func TestPluralityTieReportsCoWinners(t *testing.T) {
	poll := testPoll(entities.MethodPlurality, 2, entities.VotingConfig{})
	ballots := []entities.Ballot{choiceBallot(0), choiceBallot(1)}

	results, _, err := Tally(poll, ballots)
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	if len(results.Winners) != 2 {
		t.Fatalf("expected both options as co-winners, got %v", results.Winners)
	}
}

func TestPluralityValidate(t *testing.T) {
	poll := testPoll(entities.MethodPlurality, 3, entities.VotingConfig{})
	if err := Validate(poll, entities.VoteData{}); !errors.Is(err, domainerrors.ErrChoiceRequired) {
		t.Fatalf("expected choice-required error, got %v", err)
	}
	out := 7
	if err := Validate(poll, entities.VoteData{Choice: &out}); !errors.Is(err, domainerrors.ErrChoiceOutOfRange) {
		t.Fatalf("expected out-of-range error, got %v", err)
	}
}

func TestApprovalMaxChoices(t *testing.T) {
	poll := testPoll(entities.MethodApproval, 3, entities.VotingConfig{MaxChoices: 2})

	if err := Validate(poll, entities.VoteData{Choices: []int{0, 1}}); err != nil {
		t.Fatalf("expected two-choice ballot to be valid, got %v", err)
	}
	if err := Validate(poll, entities.VoteData{Choices: []int{0, 1, 2}}); !errors.Is(err, domainerrors.ErrTooManyChoices) {
		t.Fatalf("expected maxChoices violation, got %v", err)
	}
	if err := Validate(poll, entities.VoteData{Choices: []int{0, 0}}); !errors.Is(err, domainerrors.ErrDuplicateChoice) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}
}

func TestApprovalBallotCountsForEveryApprovedOption(t *testing.T) {
	poll := testPoll(entities.MethodApproval, 3, entities.VotingConfig{})
	ballots := []entities.Ballot{
		{Data: entities.VoteData{Choices: []int{0, 1}}},
		{Data: entities.VoteData{Choices: []int{1}}},
	}
	results, _, err := Tally(poll, ballots)
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	if results.Options[0].Votes != 1 || results.Options[1].Votes != 2 {
		t.Fatalf("unexpected approval counts: %+v", results.Options)
	}
	if len(results.Winners) != 1 || results.Winners[0] != "bravo" {
		t.Fatalf("expected bravo to win, got %v", results.Winners)
	}
}

func TestApprovalTallySkipsOversizedBallots(t *testing.T) {
	poll := testPoll(entities.MethodApproval, 3, entities.VotingConfig{MaxChoices: 1})
	ballots := []entities.Ballot{
		{Data: entities.VoteData{Choices: []int{0}}},
		{Data: entities.VoteData{Choices: []int{0, 1, 2}}},
	}
	results, invalid, err := Tally(poll, ballots)
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	if invalid != 1 {
		t.Fatalf("expected one invalid ballot, got %d", invalid)
	}
	if results.Options[1].Votes != 0 || results.Options[2].Votes != 0 {
		t.Fatalf("oversized ballot leaked into the tally: %+v", results.Options)
	}
}

func TestRankedFirstRoundMajorityWinsImmediately(t *testing.T) {
	poll := testPoll(entities.MethodRanked, 3, entities.VotingConfig{})
	ballots := []entities.Ballot{
		rankedBallot(0), rankedBallot(0), rankedBallot(0),
		rankedBallot(1), rankedBallot(2),
	}
	results, _, err := Tally(poll, ballots)
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	if !results.Majority {
		t.Fatalf("expected a majority outcome")
	}
	if len(results.Rounds) != 1 {
		t.Fatalf("expected the winner in round 1, got %d rounds", len(results.Rounds))
	}
	if len(results.Winners) != 1 || results.Winners[0] != "alpha" {
		t.Fatalf("expected alpha to win, got %v", results.Winners)
	}
	if len(results.Rounds[0].Eliminated) != 0 {
		t.Fatalf("expected no eliminations in a majority round, got %v", results.Rounds[0].Eliminated)
	}
}

func TestRankedSimultaneousEliminationOfTiedLowest(t *testing.T) {
	// Round 1: alpha 50%, bravo 25%, charlie 25%. No strict majority, so
	// both tied-lowest options leave in the same round and alpha takes the
	// second round outright.
	poll := testPoll(entities.MethodRanked, 3, entities.VotingConfig{})
	ballots := []entities.Ballot{
		rankedBallot(0, 1),
		rankedBallot(0, 1),
		rankedBallot(1, 2),
		rankedBallot(2),
	}
	results, _, err := Tally(poll, ballots)
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	first := results.Rounds[0]
	if first.Counts["alpha"] != 2 || first.Counts["bravo"] != 1 || first.Counts["charlie"] != 1 {
		t.Fatalf("unexpected round 1 counts: %v", first.Counts)
	}
	if first.Shares["alpha"] != 0.5 {
		t.Fatalf("expected alpha at exactly 50%% in round 1, got %v", first.Shares["alpha"])
	}
	if len(first.Eliminated) != 2 {
		t.Fatalf("expected both tied-lowest options eliminated together, got %v", first.Eliminated)
	}
	if len(results.Rounds) != 2 {
		t.Fatalf("expected two rounds, got %d", len(results.Rounds))
	}
	second := results.Rounds[1]
	if second.Exhausted != 2 {
		t.Fatalf("expected two exhausted ballots in round 2, got %d", second.Exhausted)
	}
	if len(results.Winners) != 1 || results.Winners[0] != "alpha" {
		t.Fatalf("expected alpha to win after eliminations, got %v", results.Winners)
	}
}

func TestRankedAllEliminatedIsNoWinnerOutcome(t *testing.T) {
	poll := testPoll(entities.MethodRanked, 2, entities.VotingConfig{})
	ballots := []entities.Ballot{rankedBallot(0), rankedBallot(1)}

	results, _, err := Tally(poll, ballots)
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	if len(results.Winners) != 0 {
		t.Fatalf("expected no winner, got %v", results.Winners)
	}
	if results.Majority {
		t.Fatalf("no-winner outcome must not claim a majority")
	}
	if len(results.Rounds) == 0 || len(results.Rounds[0].Eliminated) != 2 {
		t.Fatalf("expected a final round eliminating both options: %+v", results.Rounds)
	}
}

func TestRankedTerminatesWithinOptionCountRounds(t *testing.T) {
	poll := testPoll(entities.MethodRanked, 5, entities.VotingConfig{})
	ballots := []entities.Ballot{
		rankedBallot(0, 1, 2, 3, 4),
		rankedBallot(1, 2),
		rankedBallot(2),
		rankedBallot(3, 0),
		rankedBallot(4, 3),
	}
	results, _, err := Tally(poll, ballots)
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	if len(results.Rounds) > len(poll.Options) {
		t.Fatalf("round loop ran %d rounds for %d options", len(results.Rounds), len(poll.Options))
	}
}

func TestRankedPartialRankingAllowed(t *testing.T) {
	poll := testPoll(entities.MethodRanked, 3, entities.VotingConfig{})
	if err := Validate(poll, entities.VoteData{Ranking: []int{1}}); err != nil {
		t.Fatalf("partial ranking must be permitted, got %v", err)
	}
	if err := Validate(poll, entities.VoteData{Ranking: []int{1, 1}}); !errors.Is(err, domainerrors.ErrDuplicateChoice) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}
}

func TestQuadraticBudget(t *testing.T) {
	poll := testPoll(entities.MethodQuadratic, 2, entities.VotingConfig{QuadraticCredits: 9})

	if err := Validate(poll, entities.VoteData{Credits: map[string]int{"alpha": 3}}); err != nil {
		t.Fatalf("cost 9 within budget 9 must be valid, got %v", err)
	}
	if err := Validate(poll, entities.VoteData{Credits: map[string]int{"alpha": 4}}); !errors.Is(err, domainerrors.ErrCreditBudget) {
		t.Fatalf("cost 16 over budget 9 must be rejected, got %v", err)
	}
	if err := Validate(poll, entities.VoteData{Credits: map[string]int{"zulu": 1}}); !errors.Is(err, domainerrors.ErrUnknownOption) {
		t.Fatalf("unknown option must be rejected, got %v", err)
	}
	if err := Validate(poll, entities.VoteData{Credits: map[string]int{"alpha": -1}}); !errors.Is(err, domainerrors.ErrNegativeCredits) {
		t.Fatalf("negative credits must be rejected, got %v", err)
	}
}

func TestQuadraticWeightIsSqrtOfCredits(t *testing.T) {
	poll := testPoll(entities.MethodQuadratic, 2, entities.VotingConfig{QuadraticCredits: 9})
	ballots := []entities.Ballot{
		{Data: entities.VoteData{Credits: map[string]int{"alpha": 3}}},
		{Data: entities.VoteData{Credits: map[string]int{"alpha": 1, "bravo": 2}}},
	}
	results, _, err := Tally(poll, ballots)
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	wantAlpha := math.Sqrt(3) + 1
	if math.Abs(results.Options[0].Weight-wantAlpha) > 1e-12 {
		t.Fatalf("alpha weight = %v, want %v", results.Options[0].Weight, wantAlpha)
	}
	if len(results.Winners) != 1 || results.Winners[0] != "alpha" {
		t.Fatalf("expected alpha to win, got %v", results.Winners)
	}
}

func TestRangeBoundsAndExclusion(t *testing.T) {
	poll := testPoll(entities.MethodRange, 3, entities.VotingConfig{RangeMin: 1, RangeMax: 5})

	if err := Validate(poll, entities.VoteData{Scores: map[string]int{"alpha": 6}}); !errors.Is(err, domainerrors.ErrScoreOutOfRange) {
		t.Fatalf("score above rangeMax must be rejected, got %v", err)
	}
	if err := Validate(poll, entities.VoteData{Scores: map[string]int{"alpha": 0}}); !errors.Is(err, domainerrors.ErrScoreOutOfRange) {
		t.Fatalf("score below rangeMin must be rejected, got %v", err)
	}

	ballots := []entities.Ballot{
		{Data: entities.VoteData{Scores: map[string]int{"alpha": 5, "bravo": 2}}},
		{Data: entities.VoteData{Scores: map[string]int{"alpha": 3}}},
	}
	results, _, err := Tally(poll, ballots)
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	// charlie was never scored: excluded entirely, not defaulted to rangeMin.
	if results.Options[2].Sum != 0 || results.Options[2].BallotCount != 0 {
		t.Fatalf("unscored option must stay at zero: %+v", results.Options[2])
	}
	if results.Options[0].Sum != 8 || results.Options[0].BallotCount != 2 {
		t.Fatalf("unexpected alpha aggregate: %+v", results.Options[0])
	}
	if results.Options[1].Sum != 2 || results.Options[1].BallotCount != 1 {
		t.Fatalf("unexpected bravo aggregate: %+v", results.Options[1])
	}
}

func TestUnsupportedMethodFailsLoudly(t *testing.T) {
	poll := testPoll("borda", 2, entities.VotingConfig{})
	if err := Validate(poll, entities.VoteData{Choices: []int{0}}); !errors.Is(err, domainerrors.ErrUnsupportedMethod) {
		t.Fatalf("expected unsupported-method error, got %v", err)
	}
	if _, _, err := Tally(poll, nil); !errors.Is(err, domainerrors.ErrUnsupportedMethod) {
		t.Fatalf("expected unsupported-method error, got %v", err)
	}
	if _, err := Settings("borda"); !errors.Is(err, domainerrors.ErrUnsupportedMethod) {
		t.Fatalf("expected unsupported-method error, got %v", err)
	}
}
