package methods

import (
	"choices/contexts/polling/vote-engine/domain/entities"
	domainerrors "choices/contexts/polling/vote-engine/domain/errors"
)

func validateRange(poll entities.Poll, data entities.VoteData) error {
	if len(data.Scores) == 0 {
		return domainerrors.ErrScoresRequired
	}
	min, max := scoreRange(poll)
	for optionID, score := range data.Scores {
		if _, ok := poll.OptionIndex(optionID); !ok {
			return domainerrors.ErrUnknownOption
		}
		if score < min || score > max {
			return domainerrors.ErrScoreOutOfRange
		}
	}
	return nil
}

// tallyRange sums submitted scores per option and counts the ballots that
// scored each option. Unscored options are excluded from a ballot's
// contribution rather than defaulted to the range minimum, so the per-option
// ballot count supports an honest average.
func tallyRange(poll entities.Poll, ballots []entities.Ballot) (entities.MethodResults, error) {
	options := baseResults(poll)
	for _, ballot := range ballots {
		for index, option := range poll.Options {
			score, ok := ballot.Data.Scores[option.OptionID]
			if !ok {
				continue
			}
			options[index].Sum += score
			options[index].BallotCount++
		}
	}
	return entities.MethodResults{
		Options: options,
		Winners: winnersBySum(options),
	}, nil
}

// winnersBySum reports every scored option holding the maximum total.
// Options no ballot scored are not winner-eligible even when every scored
// total is negative.
func winnersBySum(options []entities.OptionResult) []string {
	best := 0
	found := false
	for _, option := range options {
		if option.BallotCount == 0 {
			continue
		}
		if !found || option.Sum > best {
			best = option.Sum
			found = true
		}
	}
	if !found {
		return nil
	}
	winners := make([]string, 0, 1)
	for _, option := range options {
		if option.BallotCount > 0 && option.Sum == best {
			winners = append(winners, option.OptionID)
		}
	}
	return winners
}
