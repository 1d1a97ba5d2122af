package methods

import (
	"choices/contexts/polling/vote-engine/domain/entities"
	domainerrors "choices/contexts/polling/vote-engine/domain/errors"
)

func validatePlurality(poll entities.Poll, data entities.VoteData) error {
	if data.Choice == nil {
		return domainerrors.ErrChoiceRequired
	}
	if !validIndex(poll, *data.Choice) {
		return domainerrors.ErrChoiceOutOfRange
	}
	return nil
}

func tallyPlurality(poll entities.Poll, ballots []entities.Ballot) (entities.MethodResults, error) {
	options := baseResults(poll)
	for _, ballot := range ballots {
		options[*ballot.Data.Choice].Votes++
		options[*ballot.Data.Choice].BallotCount++
	}
	return entities.MethodResults{
		Options: options,
		Winners: winnersByVotes(options),
	}, nil
}

// winnersByVotes reports every option holding the maximum vote count. Ties
// are never broken here; co-winners are a documented outcome.
func winnersByVotes(options []entities.OptionResult) []string {
	max := 0
	for _, option := range options {
		if option.Votes > max {
			max = option.Votes
		}
	}
	if max == 0 {
		return nil
	}
	winners := make([]string, 0, 1)
	for _, option := range options {
		if option.Votes == max {
			winners = append(winners, option.OptionID)
		}
	}
	return winners
}
