package methods

import (
	"choices/contexts/polling/vote-engine/domain/entities"
	domainerrors "choices/contexts/polling/vote-engine/domain/errors"
)

func validateRanked(poll entities.Poll, data entities.VoteData) error {
	if len(data.Ranking) == 0 {
		return domainerrors.ErrRankingRequired
	}
	seen := make(map[int]struct{}, len(data.Ranking))
	for _, index := range data.Ranking {
		if !validIndex(poll, index) {
			return domainerrors.ErrChoiceOutOfRange
		}
		if _, dup := seen[index]; dup {
			return domainerrors.ErrDuplicateChoice
		}
		seen[index] = struct{}{}
	}
	return nil
}

// tallyRanked runs instant-runoff rounds until an option holds a strict
// majority of non-exhausted ballots or every option has been eliminated.
//
// Each round counts every ballot's highest-ranked still-active option.
// Ballots with no remaining active preference are exhausted for the round and
// excluded from both numerator and denominator. When no option exceeds 50%,
// every option tied for the fewest current preferences is eliminated at once;
// eliminating all remaining options is a legitimate no-winner outcome, not an
// error. The loop runs at most len(poll.Options) rounds because every
// non-final round removes at least one option.
func tallyRanked(poll entities.Poll, ballots []entities.Ballot) (entities.MethodResults, error) {
	active := make(map[int]bool, len(poll.Options))
	for i := range poll.Options {
		active[i] = true
	}

	options := baseResults(poll)
	for _, ballot := range ballots {
		if len(ballot.Data.Ranking) > 0 {
			options[ballot.Data.Ranking[0]].BallotCount++
		}
	}

	results := entities.MethodResults{}
	// lastCounts holds each option's count in the last round it was active,
	// so final standings cover eliminated options too.
	lastCounts := make([]int, len(poll.Options))

	for roundNum := 1; roundNum <= len(poll.Options); roundNum++ {
		counts := make(map[int]int, len(active))
		for index := range active {
			counts[index] = 0
		}
		exhausted := 0
		for _, ballot := range ballots {
			preferred, ok := currentPreference(ballot.Data.Ranking, active)
			if !ok {
				exhausted++
				continue
			}
			counts[preferred]++
		}
		nonExhausted := len(ballots) - exhausted

		round := entities.RunoffRound{
			Round:     roundNum,
			Counts:    make(map[string]int, len(counts)),
			Shares:    make(map[string]float64, len(counts)),
			Exhausted: exhausted,
		}
		for index, count := range counts {
			lastCounts[index] = count
			optionID := poll.Options[index].OptionID
			round.Counts[optionID] = count
			if nonExhausted > 0 {
				round.Shares[optionID] = float64(count) / float64(nonExhausted)
			}
		}

		if nonExhausted == 0 {
			results.Rounds = append(results.Rounds, round)
			break
		}

		winner := -1
		for index, count := range counts {
			if float64(count)/float64(nonExhausted) > 0.5 {
				winner = index
				break
			}
		}
		if winner >= 0 {
			round.Winner = poll.Options[winner].OptionID
			results.Rounds = append(results.Rounds, round)
			results.Winners = []string{poll.Options[winner].OptionID}
			results.Majority = true
			break
		}

		min := -1
		for _, count := range counts {
			if min < 0 || count < min {
				min = count
			}
		}
		// Every option tied for last is eliminated in the same round; the
		// eliminated list is reported in poll option order.
		for index := range poll.Options {
			if active[index] && counts[index] == min {
				delete(active, index)
				round.Eliminated = append(round.Eliminated, poll.Options[index].OptionID)
			}
		}
		results.Rounds = append(results.Rounds, round)
		if len(active) == 0 {
			break
		}
	}

	for index := range options {
		options[index].Votes = lastCounts[index]
	}
	results.Options = options
	return results, nil
}

// currentPreference returns a ballot's highest-ranked option that is still
// active, or false when the ballot is exhausted.
func currentPreference(ranking []int, active map[int]bool) (int, bool) {
	for _, index := range ranking {
		if active[index] {
			return index, true
		}
	}
	return 0, false
}
