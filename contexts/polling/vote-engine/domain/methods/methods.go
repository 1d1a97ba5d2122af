// Package methods implements the closed set of voting-method strategies.
//
// Every dispatch site switches exhaustively over entities.VotingMethod so an
// added method is a compile-visible change at each switch, and an unknown tag
// fails loudly instead of falling back to a default method.
package methods

import (
	"choices/contexts/polling/vote-engine/domain/entities"
	domainerrors "choices/contexts/polling/vote-engine/domain/errors"
)

const (
	defaultQuadraticCredits = 100
	defaultRangeMin         = 0
	defaultRangeMax         = 10
)

// Validate runs the method-specific structural validation of one ballot
// payload against the poll it targets.
func Validate(poll entities.Poll, data entities.VoteData) error {
	switch poll.Method {
	case entities.MethodPlurality:
		return validatePlurality(poll, data)
	case entities.MethodApproval:
		return validateApproval(poll, data)
	case entities.MethodRanked:
		return validateRanked(poll, data)
	case entities.MethodQuadratic:
		return validateQuadratic(poll, data)
	case entities.MethodRange:
		return validateRange(poll, data)
	default:
		return domainerrors.ErrUnsupportedMethod
	}
}

// Tally computes the method-specific results over a ballot snapshot.
// Ballots failing validation are skipped and reported in the invalid count,
// so budget and bounds violations can never leak into a tally even when the
// caller supplies unvalidated records. The second return value is the number
// of skipped ballots.
func Tally(poll entities.Poll, ballots []entities.Ballot) (entities.MethodResults, int, error) {
	valid := make([]entities.Ballot, 0, len(ballots))
	invalid := 0
	for _, ballot := range ballots {
		if err := Validate(poll, ballot.Data); err != nil {
			invalid++
			continue
		}
		valid = append(valid, ballot)
	}

	var results entities.MethodResults
	var err error
	switch poll.Method {
	case entities.MethodPlurality:
		results, err = tallyPlurality(poll, valid)
	case entities.MethodApproval:
		results, err = tallyApproval(poll, valid)
	case entities.MethodRanked:
		results, err = tallyRanked(poll, valid)
	case entities.MethodQuadratic:
		results, err = tallyQuadratic(poll, valid)
	case entities.MethodRange:
		results, err = tallyRange(poll, valid)
	default:
		return entities.MethodResults{}, 0, domainerrors.ErrUnsupportedMethod
	}
	if err != nil {
		return entities.MethodResults{}, 0, err
	}
	return results, invalid, nil
}

// Settings returns the static configuration of a voting method.
func Settings(method entities.VotingMethod) (entities.MethodSettings, error) {
	switch method {
	case entities.MethodPlurality:
		return entities.MethodSettings{
			Method:      entities.MethodPlurality,
			Description: "single choice, most votes wins, ties reported as co-winners",
		}, nil
	case entities.MethodApproval:
		return entities.MethodSettings{
			Method:      entities.MethodApproval,
			Description: "approve any subset of options up to maxChoices",
		}, nil
	case entities.MethodRanked:
		return entities.MethodSettings{
			Method:      entities.MethodRanked,
			Description: "instant-runoff over ranked preferences, majority wins",
		}, nil
	case entities.MethodQuadratic:
		return entities.MethodSettings{
			Method:         entities.MethodQuadratic,
			Description:    "credit allocations charged quadratically, sqrt weight per option",
			RequiresTokens: true,
			DefaultCredits: defaultQuadraticCredits,
		}, nil
	case entities.MethodRange:
		return entities.MethodSettings{
			Method:          entities.MethodRange,
			Description:     "integer scores per option, highest total wins",
			DefaultRangeMin: defaultRangeMin,
			DefaultRangeMax: defaultRangeMax,
		}, nil
	default:
		return entities.MethodSettings{}, domainerrors.ErrUnsupportedMethod
	}
}

// RequiresTokens reports whether ballots for the method must carry a credit
// allocation rather than a free-form choice.
func RequiresTokens(method entities.VotingMethod) bool {
	return method == entities.MethodQuadratic
}

// creditBudget resolves a poll's quadratic budget, falling back to the
// method default when the poll was published without one.
func creditBudget(poll entities.Poll) int {
	if poll.Config.QuadraticCredits > 0 {
		return poll.Config.QuadraticCredits
	}
	return defaultQuadraticCredits
}

// scoreRange resolves a poll's range bounds. A poll published with an empty
// range (min == max == 0) gets the method default.
func scoreRange(poll entities.Poll) (int, int) {
	if poll.Config.RangeMin == 0 && poll.Config.RangeMax == 0 {
		return defaultRangeMin, defaultRangeMax
	}
	return poll.Config.RangeMin, poll.Config.RangeMax
}

func baseResults(poll entities.Poll) []entities.OptionResult {
	options := make([]entities.OptionResult, len(poll.Options))
	for i, option := range poll.Options {
		options[i] = entities.OptionResult{
			OptionID: option.OptionID,
			Text:     option.Text,
		}
	}
	return options
}

func validIndex(poll entities.Poll, index int) bool {
	return index >= 0 && index < len(poll.Options)
}
