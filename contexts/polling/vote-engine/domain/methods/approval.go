package methods

import (
	"choices/contexts/polling/vote-engine/domain/entities"
	domainerrors "choices/contexts/polling/vote-engine/domain/errors"
)

func validateApproval(poll entities.Poll, data entities.VoteData) error {
	if len(data.Choices) == 0 {
		return domainerrors.ErrChoicesRequired
	}
	seen := make(map[int]struct{}, len(data.Choices))
	for _, index := range data.Choices {
		if !validIndex(poll, index) {
			return domainerrors.ErrChoiceOutOfRange
		}
		if _, dup := seen[index]; dup {
			return domainerrors.ErrDuplicateChoice
		}
		seen[index] = struct{}{}
	}
	if poll.Config.MaxChoices > 0 && len(data.Choices) > poll.Config.MaxChoices {
		return domainerrors.ErrTooManyChoices
	}
	return nil
}

// tallyApproval credits one vote per approved option; a single ballot may
// contribute to several options' counts.
func tallyApproval(poll entities.Poll, ballots []entities.Ballot) (entities.MethodResults, error) {
	options := baseResults(poll)
	for _, ballot := range ballots {
		for _, index := range ballot.Data.Choices {
			options[index].Votes++
			options[index].BallotCount++
		}
	}
	return entities.MethodResults{
		Options: options,
		Winners: winnersByVotes(options),
	}, nil
}
