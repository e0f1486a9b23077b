package polls

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"quorum/internal/models"
)

// Result kinds, stable machine-checkable identifiers for the vote
// submission outcomes.
const (
	KindPollNotFound  = "poll_not_found"
	KindVotingClosed  = "voting_closed"
	KindAlreadyVoted  = "already_voted"
	KindInvalidInput  = "invalid_input"
	KindInternalError = "internal_error"
)

// Result is the structured outcome of a vote submission. Every
// failure path lands here, nothing escapes as an error.
type Result struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

func failure(kind, message string) Result {
	return Result{Code: 400, Kind: kind, Message: message}
}

// Selection is one ballot line of a submission.
type Selection struct {
	OptionId int    `json:"id"`
	Note     string `json:"note"`
}

// SubmitVote records a user's ballot for a poll. The (poll, user)
// pair moves NotVoted -> Voted exactly once; there is no unvote and
// no resubmission. The whole batch is written in one transaction.
//
// The expiry and participation checks run server-side even though the
// UI guards both: direct requests must hit the same wall.
func (s *Service) SubmitVote(ctx context.Context, pollId, userId int, selections []Selection) Result {
	poll, err := s.repo.GetByID(ctx, pollId)
	if errors.Is(err, ErrNotFound) {
		return failure(KindPollNotFound, "Poll not found")
	}
	if err != nil {
		return s.internal(err, "load poll")
	}

	if poll.Expired(s.now()) {
		return failure(KindVotingClosed, "Voting on this poll has been closed")
	}

	voted, err := s.repo.HasVoted(ctx, poll.Id, userId)
	if err != nil {
		return s.internal(err, "check participation")
	}
	if voted {
		return failure(KindAlreadyVoted, "You have already participated in this poll")
	}

	if len(selections) == 0 {
		return failure(KindInvalidInput, "Select at least one option")
	}
	if poll.Type == models.PollTypeStandard && len(selections) > 1 {
		return failure(KindInvalidInput, "This poll accepts a single selection")
	}

	options, err := s.repo.OptionsFor(ctx, poll.Id)
	if err != nil {
		return s.internal(err, "load options")
	}
	valid := make(map[int]bool, len(options))
	for _, opt := range options {
		valid[opt.Id] = true
	}

	votes := make([]models.PollUserVote, 0, len(selections))
	seen := make(map[int]bool, len(selections))
	for _, sel := range selections {
		if !valid[sel.OptionId] {
			return failure(KindInvalidInput, "Selected option does not belong to this poll")
		}
		if seen[sel.OptionId] {
			return failure(KindInvalidInput, "Duplicate option selected")
		}
		seen[sel.OptionId] = true
		votes = append(votes, models.PollUserVote{
			PollId:   poll.Id,
			UserId:   userId,
			OptionId: sel.OptionId,
			Note:     sel.Note,
		})
	}

	if err := s.repo.InsertVoteBatch(ctx, votes); err != nil {
		return s.internal(err, "insert ballot")
	}

	return Result{Code: 200, Message: "Success"}
}

func (s *Service) internal(err error, op string) Result {
	log.Error().Err(err).Str("op", op).Msg("vote submission failed")
	return failure(KindInternalError, "Something went wrong, please try again")
}
