package polls

import (
	"context"
	"errors"

	"quorum/internal/models"
)

// ErrNotFound is returned by single-row lookups that miss.
var ErrNotFound = errors.New("not found")

// Page is one slice of a paginated query plus its count metadata,
// 1-indexed.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	LastPage int   `json:"last_page"`
}

// DeleteOutcome is the internal tri-state of an ownership-checked
// delete. Callers render every non-Deleted outcome identically so the
// response never leaks whether the poll exists or who owns it.
type DeleteOutcome uint8

const (
	DeleteNotFound DeleteOutcome = iota
	DeleteForbidden
	Deleted
)

// Repo is the persistence contract for polls, options and ballots.
// Multi-row writes are transactional: either every row of the call is
// visible afterwards or none is.
type Repo interface {
	ListActive(ctx context.Context, page, perPage int) (Page[models.Poll], error)
	ListOwnedBy(ctx context.Context, userId, page, perPage int) (Page[models.Poll], error)
	GetByID(ctx context.Context, id int) (*models.Poll, error)
	GetBySlug(ctx context.Context, slug string) (*models.Poll, error)
	OptionsFor(ctx context.Context, pollId int) ([]models.PollOption, error)
	VotesFor(ctx context.Context, pollId, userId int) ([]models.PollUserVote, error)
	HasVoted(ctx context.Context, pollId, userId int) (bool, error)
	SlugExists(ctx context.Context, slug string) (bool, error)

	// CreatePollWithOptions persists the poll and one option per title
	// in a single transaction, filling the poll's generated fields.
	CreatePollWithOptions(ctx context.Context, poll *models.Poll, optionTitles []string) error

	// InsertVoteBatch persists every ballot line and bumps the
	// denormalized counters in a single transaction.
	InsertVoteBatch(ctx context.Context, votes []models.PollUserVote) error

	DeleteOwned(ctx context.Context, pollId, userId int) (DeleteOutcome, error)
}

// UserLookup resolves a poll owner for the detail view.
type UserLookup interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
}
