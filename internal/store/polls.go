package store

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"quorum/internal/models"
	"quorum/internal/polls"
)

// ListActive returns polls whose deadline is still in the future,
// newest first.
func (c *Client) ListActive(ctx context.Context, page, perPage int) (polls.Page[models.Poll], error) {
	active := sq.Expr("closes_at > now()")
	items := psql.Select("*").From("polls").Where(active).OrderBy("id DESC")
	count := psql.Select("count(*)").From("polls").Where(active)
	return paginate[models.Poll](ctx, c, items, count, page, perPage)
}

// ListOwnedBy returns polls created by userId, newest first. This also
// backs the home page's "participated" filter, which matches on the
// owner column.
func (c *Client) ListOwnedBy(ctx context.Context, userId, page, perPage int) (polls.Page[models.Poll], error) {
	owned := sq.Eq{"user_id": userId}
	items := psql.Select("*").From("polls").Where(owned).OrderBy("id DESC")
	count := psql.Select("count(*)").From("polls").Where(owned)
	return paginate[models.Poll](ctx, c, items, count, page, perPage)
}

func (c *Client) getPoll(ctx context.Context, pred sq.Eq) (*models.Poll, error) {
	query, args, err := psql.Select("*").From("polls").Where(pred).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build poll query: %w", err)
	}
	var poll models.Poll
	if err := pgxscan.Get(ctx, c.pool, &poll, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, polls.ErrNotFound
		}
		return nil, fmt.Errorf("get poll: %w", err)
	}
	return &poll, nil
}

func (c *Client) GetByID(ctx context.Context, id int) (*models.Poll, error) {
	return c.getPoll(ctx, sq.Eq{"id": id})
}

func (c *Client) GetBySlug(ctx context.Context, slug string) (*models.Poll, error) {
	return c.getPoll(ctx, sq.Eq{"slug": slug})
}

// OptionsFor returns a poll's options in insertion order.
func (c *Client) OptionsFor(ctx context.Context, pollId int) ([]models.PollOption, error) {
	query, args, err := psql.Select("*").From("poll_options").
		Where(sq.Eq{"poll_id": pollId}).OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build options query: %w", err)
	}
	options := []models.PollOption{}
	if err := pgxscan.Select(ctx, c.pool, &options, query, args...); err != nil {
		return nil, fmt.Errorf("select options: %w", err)
	}
	return options, nil
}

// VotesFor returns a user's ballot lines for one poll.
func (c *Client) VotesFor(ctx context.Context, pollId, userId int) ([]models.PollUserVote, error) {
	query, args, err := psql.Select("*").From("poll_user_votes").
		Where(sq.Eq{"poll_id": pollId, "user_id": userId}).OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build votes query: %w", err)
	}
	votes := []models.PollUserVote{}
	if err := pgxscan.Select(ctx, c.pool, &votes, query, args...); err != nil {
		return nil, fmt.Errorf("select votes: %w", err)
	}
	return votes, nil
}

func (c *Client) HasVoted(ctx context.Context, pollId, userId int) (bool, error) {
	var exists bool
	err := c.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM poll_user_votes WHERE poll_id = $1 AND user_id = $2)`,
		pollId, userId).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check participation: %w", err)
	}
	return exists, nil
}

func (c *Client) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := c.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM polls WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

// CreatePollWithOptions inserts the poll and its options in one
// transaction; any failure leaves nothing behind.
func (c *Client) CreatePollWithOptions(ctx context.Context, poll *models.Poll, optionTitles []string) error {
	return c.tx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO polls (user_id, title, description, poll_color, status, type, slug, closes_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, votes_count, created_at, updated_at`,
			poll.UserId, poll.Title, poll.Description, poll.PollColor,
			poll.Status, poll.Type, poll.Slug, poll.ClosesAt,
		).Scan(&poll.Id, &poll.VotesCount, &poll.CreatedAt, &poll.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert poll: %w", err)
		}

		insert := psql.Insert("poll_options").Columns("poll_id", "title")
		for _, title := range optionTitles {
			insert = insert.Values(poll.Id, title)
		}
		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("build options insert: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("insert options: %w", err)
		}
		return nil
	})
}

// InsertVoteBatch writes every ballot line and bumps the denormalized
// counters in one transaction. The unique index on
// (poll_id, user_id, option_id) makes a racing duplicate batch fail
// here instead of double-counting.
func (c *Client) InsertVoteBatch(ctx context.Context, votes []models.PollUserVote) error {
	if len(votes) == 0 {
		return fmt.Errorf("empty vote batch")
	}
	return c.tx(ctx, func(tx pgx.Tx) error {
		insert := psql.Insert("poll_user_votes").Columns("poll_id", "user_id", "option_id", "note")
		optionIds := make([]int, 0, len(votes))
		for _, v := range votes {
			insert = insert.Values(v.PollId, v.UserId, v.OptionId, v.Note)
			optionIds = append(optionIds, v.OptionId)
		}
		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("build votes insert: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("insert votes: %w", err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE poll_options SET votes_count = votes_count + 1, updated_at = now()
			WHERE id = ANY($1)`, optionIds)
		if err != nil {
			return fmt.Errorf("bump option counters: %w", err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE polls SET votes_count = votes_count + $2, updated_at = now()
			WHERE id = $1`, votes[0].PollId, len(votes))
		if err != nil {
			return fmt.Errorf("bump poll counter: %w", err)
		}
		return nil
	})
}

// DeleteOwned removes a poll only when actingUserId owns it and
// reports which of the three outcomes happened. Options and ballots
// go with it via the cascade.
func (c *Client) DeleteOwned(ctx context.Context, pollId, actingUserId int) (polls.DeleteOutcome, error) {
	outcome := polls.DeleteNotFound
	err := c.tx(ctx, func(tx pgx.Tx) error {
		var ownerId int
		err := tx.QueryRow(ctx, `SELECT user_id FROM polls WHERE id = $1`, pollId).Scan(&ownerId)
		if errors.Is(err, pgx.ErrNoRows) {
			outcome = polls.DeleteNotFound
			return nil
		}
		if err != nil {
			return fmt.Errorf("load owner: %w", err)
		}
		if ownerId != actingUserId {
			outcome = polls.DeleteForbidden
			return nil
		}
		if _, err := tx.Exec(ctx, `DELETE FROM polls WHERE id = $1`, pollId); err != nil {
			return fmt.Errorf("delete poll: %w", err)
		}
		outcome = polls.Deleted
		return nil
	})
	if err != nil {
		return polls.DeleteNotFound, err
	}
	return outcome, nil
}
