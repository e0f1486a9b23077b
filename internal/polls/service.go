package polls

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"quorum/internal/models"
	"quorum/pkg/palette"
	"quorum/pkg/slug"
)

// PerPage is the fixed page size of every poll listing.
const PerPage = 10

const (
	maxTitleLen = 255
	maxOptions  = 20
)

// Service owns the poll lifecycle and the vote recorder.
type Service struct {
	repo  Repo
	users UserLookup
	now   func() time.Time
}

func NewService(repo Repo, users UserLookup) *Service {
	return &Service{repo: repo, users: users, now: time.Now}
}

// ParsePage normalizes a page query parameter. Anything that is not a
// positive integer collapses to page 1, never an error.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// ValidationErrors maps field names to human-readable problems.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(v))
}

// CreateInput is the new-poll form payload.
type CreateInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Type        models.PollType `json:"type"`
	// Days until the poll closes, counted from now.
	Days    int           `json:"days"`
	Options []OptionInput `json:"options"`
}

type OptionInput struct {
	Title string `json:"title"`
}

func (in CreateInput) validate() ValidationErrors {
	errs := ValidationErrors{}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		errs["title"] = "Title is required"
	} else if len(title) > maxTitleLen {
		errs["title"] = "Title must be 255 characters or less"
	}
	if in.Days < 1 {
		errs["days"] = "Days must be a positive number"
	}
	if len(in.Options) == 0 {
		errs["options"] = "At least one option is required"
	} else if len(in.Options) > maxOptions {
		errs["options"] = fmt.Sprintf("At most %d options are allowed", maxOptions)
	} else {
		for i, opt := range in.Options {
			t := strings.TrimSpace(opt.Title)
			if t == "" {
				errs[fmt.Sprintf("options.%d.title", i)] = "Option title is required"
			} else if len(t) > maxTitleLen {
				errs[fmt.Sprintf("options.%d.title", i)] = "Option title must be 255 characters or less"
			}
		}
	}
	if in.Type != models.PollTypeStandard && in.Type != models.PollTypeMultiSelect {
		errs["type"] = "Unknown poll type"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Create validates the input and persists the poll together with its
// options. The slug and color are assigned here, once; both survive
// for the poll's lifetime.
func (s *Service) Create(ctx context.Context, ownerId int, in CreateInput) (*models.Poll, error) {
	if errs := in.validate(); errs != nil {
		return nil, errs
	}

	title := strings.TrimSpace(in.Title)
	uniqueSlug, err := slug.Unique(ctx, title, s.repo.SlugExists)
	if err != nil {
		return nil, fmt.Errorf("derive slug: %w", err)
	}

	poll := &models.Poll{
		UserId:      ownerId,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		PollColor:   palette.Random(),
		Status:      models.PollStatusNormal,
		Type:        in.Type,
		Slug:        uniqueSlug,
		ClosesAt:    s.now().AddDate(0, 0, in.Days),
	}

	optionTitles := make([]string, len(in.Options))
	for i, opt := range in.Options {
		optionTitles[i] = strings.TrimSpace(opt.Title)
	}

	if err := s.repo.CreatePollWithOptions(ctx, poll, optionTitles); err != nil {
		return nil, fmt.Errorf("persist poll: %w", err)
	}
	return poll, nil
}

// Delete applies the ownership-checked delete policy.
func (s *Service) Delete(ctx context.Context, pollId, actingUserId int) (DeleteOutcome, error) {
	return s.repo.DeleteOwned(ctx, pollId, actingUserId)
}

// ListActive returns the open polls, newest first.
func (s *Service) ListActive(ctx context.Context, page int) (Page[models.Poll], error) {
	return s.repo.ListActive(ctx, page, PerPage)
}

// ListOwnedBy returns the polls created by userId, newest first.
func (s *Service) ListOwnedBy(ctx context.Context, userId, page int) (Page[models.Poll], error) {
	return s.repo.ListOwnedBy(ctx, userId, page, PerPage)
}

// Detail is everything the poll page needs.
type Detail struct {
	Poll    *models.Poll        `json:"poll"`
	Options []models.PollOption `json:"options"`
	Owner   *models.User        `json:"owner,omitempty"`
	// Votes holds the viewer's own prior ballot lines, nil when the
	// viewer is anonymous or has not voted.
	Votes []models.PollUserVote `json:"votes,omitempty"`
}

// Show loads a poll by slug with its options, owner and the viewer's
// prior ballot. viewerId <= 0 means anonymous.
func (s *Service) Show(ctx context.Context, slugKey string, viewerId int) (*Detail, error) {
	poll, err := s.repo.GetBySlug(ctx, slugKey)
	if err != nil {
		return nil, err
	}

	options, err := s.repo.OptionsFor(ctx, poll.Id)
	if err != nil {
		return nil, fmt.Errorf("load options: %w", err)
	}

	detail := &Detail{Poll: poll, Options: options}

	if owner, err := s.users.GetByID(ctx, poll.UserId); err == nil {
		detail.Owner = owner
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("load owner: %w", err)
	}

	if viewerId > 0 {
		votes, err := s.repo.VotesFor(ctx, poll.Id, viewerId)
		if err != nil {
			return nil, fmt.Errorf("load viewer votes: %w", err)
		}
		detail.Votes = votes
	}
	return detail, nil
}
