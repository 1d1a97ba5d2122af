package methods

import (
	"math"

	"choices/contexts/polling/vote-engine/domain/entities"
	domainerrors "choices/contexts/polling/vote-engine/domain/errors"
)

func validateQuadratic(poll entities.Poll, data entities.VoteData) error {
	if len(data.Credits) == 0 {
		return domainerrors.ErrCreditsRequired
	}
	cost := 0
	for optionID, credits := range data.Credits {
		if _, ok := poll.OptionIndex(optionID); !ok {
			return domainerrors.ErrUnknownOption
		}
		if credits < 0 {
			return domainerrors.ErrNegativeCredits
		}
		cost += credits * credits
	}
	if cost > creditBudget(poll) {
		return domainerrors.ErrCreditBudget
	}
	return nil
}

// tallyQuadratic sums each ballot's sqrt(credits) weight per option.
// Options are accumulated in poll order so floating-point addition happens
// in a fixed sequence and recomputation is byte-identical.
func tallyQuadratic(poll entities.Poll, ballots []entities.Ballot) (entities.MethodResults, error) {
	options := baseResults(poll)
	for _, ballot := range ballots {
		for index, option := range poll.Options {
			credits, ok := ballot.Data.Credits[option.OptionID]
			if !ok || credits == 0 {
				continue
			}
			options[index].Weight += math.Sqrt(float64(credits))
			options[index].BallotCount++
		}
	}
	return entities.MethodResults{
		Options: options,
		Winners: winnersByWeight(options),
	}, nil
}

func winnersByWeight(options []entities.OptionResult) []string {
	max := 0.0
	for _, option := range options {
		if option.Weight > max {
			max = option.Weight
		}
	}
	if max == 0 {
		return nil
	}
	winners := make([]string, 0, 1)
	for _, option := range options {
		if option.Weight == max {
			winners = append(winners, option.OptionID)
		}
	}
	return winners
}
