package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"choices/contexts/polling/vote-engine/application/commands"
	"choices/contexts/polling/vote-engine/application/queries"
	"choices/contexts/polling/vote-engine/domain/entities"
	"choices/contexts/polling/vote-engine/ports"
	httptransport "choices/contexts/polling/vote-engine/transport/http"
)

// Handler maps transport DTOs onto the engine's use cases. Routing and
// request framing belong to the surrounding service layer.
type Handler struct {
	Polls   ports.PollRepository
	Ballots ports.BallotStore
	Votes   *commands.VoteUseCase
	Results queries.ResultsUseCase
	Logger  *slog.Logger
}

func (h Handler) ValidateVoteHandler(
	ctx context.Context,
	userID string,
	req httptransport.CastVoteRequest,
) (httptransport.ValidationResponse, error) {
	poll, err := h.Polls.GetPoll(ctx, req.PollID)
	if err != nil {
		// An unknown poll is a validation outcome, not a transport failure.
		return httptransport.ValidationResponse{
			Error: err.Error(),
		}, nil
	}
	validation, err := h.Votes.ValidateVote(ctx, voteRequestFromDTO(userID, req), poll)
	if err != nil {
		return httptransport.ValidationResponse{}, err
	}
	return httptransport.ValidationResponse{
		IsValid:                validation.Valid,
		Error:                  validation.Error,
		RequiresAuthentication: validation.RequiresAuthentication,
		RequiresTokens:         validation.RequiresTokens,
	}, nil
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	userID string,
	req httptransport.CastVoteRequest,
) (httptransport.VoteResponse, error) {
	poll, err := h.Polls.GetPoll(ctx, req.PollID)
	if err != nil {
		return httptransport.VoteResponse{
			Message: err.Error(),
		}, nil
	}
	receipt, err := h.Votes.ProcessVote(ctx, voteRequestFromDTO(userID, req), poll)
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	return httptransport.VoteResponse{
		Success:        receipt.Success,
		VoteID:         receipt.VoteID,
		AuditReceipt:   receipt.AuditReceipt,
		PrivacyLevel:   string(receipt.Privacy),
		ResponseTimeMs: receipt.ResponseTime.Milliseconds(),
		Message:        receipt.Message,
	}, nil
}

// PollResultsHandler tallies the ballot store's current snapshot for a poll.
// eligibleVoters <= 0 omits the participation rate.
func (h Handler) PollResultsHandler(
	ctx context.Context,
	pollID string,
	eligibleVoters int,
) (httptransport.ResultsResponse, error) {
	poll, err := h.Polls.GetPoll(ctx, pollID)
	if err != nil {
		return httptransport.ResultsResponse{}, err
	}
	ballots, err := h.Ballots.ListBallots(ctx, pollID)
	if err != nil {
		return httptransport.ResultsResponse{}, err
	}
	data, err := h.Results.CalculateResults(ctx, poll, ballots, eligibleVoters)
	if err != nil {
		return httptransport.ResultsResponse{}, err
	}
	return mapResults(data), nil
}

func (h Handler) MethodConfigHandler(
	_ context.Context,
	method string,
) (httptransport.MethodConfigResponse, error) {
	settings, err := h.Results.MethodConfig(entities.VotingMethod(method))
	if err != nil {
		return httptransport.MethodConfigResponse{}, err
	}
	return httptransport.MethodConfigResponse{
		Method:           string(settings.Method),
		Description:      settings.Description,
		RequiresTokens:   settings.RequiresTokens,
		DefaultCredits:   settings.DefaultCredits,
		DefaultRangeMin:  settings.DefaultRangeMin,
		DefaultRangeMax:  settings.DefaultRangeMax,
		DefaultMaxChoice: settings.DefaultMaxChoice,
	}, nil
}

func voteRequestFromDTO(userID string, req httptransport.CastVoteRequest) entities.VoteRequest {
	return entities.VoteRequest{
		PollID: req.PollID,
		UserID: userID,
		Data: entities.VoteData{
			Choice:  req.VoteData.Choice,
			Choices: req.VoteData.Choices,
			Ranking: req.VoteData.Ranking,
			Credits: req.VoteData.Credits,
			Scores:  req.VoteData.Scores,
		},
		Privacy: entities.PrivacyLevel(req.PrivacyLevel),
	}
}

func mapResults(data entities.ResultsData) httptransport.ResultsResponse {
	options := make([]httptransport.OptionResultItem, 0, len(data.Results.Options))
	for _, option := range data.Results.Options {
		options = append(options, httptransport.OptionResultItem{
			OptionID:    option.OptionID,
			Text:        option.Text,
			Votes:       option.Votes,
			Weight:      option.Weight,
			Sum:         option.Sum,
			BallotCount: option.BallotCount,
		})
	}
	rounds := make([]httptransport.RunoffRoundItem, 0, len(data.Results.Rounds))
	for _, round := range data.Results.Rounds {
		rounds = append(rounds, httptransport.RunoffRoundItem{
			Round:      round.Round,
			Counts:     round.Counts,
			Shares:     round.Shares,
			Exhausted:  round.Exhausted,
			Eliminated: round.Eliminated,
			Winner:     round.Winner,
		})
	}
	return httptransport.ResultsResponse{
		PollID:            data.PollID,
		VotingMethod:      string(data.Method),
		TotalVotes:        data.TotalVotes,
		InvalidBallots:    data.InvalidBallots,
		ParticipationRate: data.ParticipationRate,
		Options:           options,
		Winners:           data.Results.Winners,
		Majority:          data.Results.Majority,
		Rounds:            rounds,
		CalculatedAt:      data.CalculatedAt.UTC().Format(time.RFC3339Nano),
	}
}
