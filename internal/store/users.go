package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"quorum/internal/models"
	"quorum/internal/polls"
)

func (c *Client) getUser(ctx context.Context, pred sq.Eq) (*models.User, error) {
	query, args, err := psql.Select("*").From("users").Where(pred).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user query: %w", err)
	}
	var user models.User
	if err := pgxscan.Get(ctx, c.pool, &user, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, polls.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

func (c *Client) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	return c.getUser(ctx, sq.Eq{"id": id})
}

func (c *Client) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return c.getUser(ctx, sq.Eq{"email": email})
}

// InsertUser creates the account row and fills the generated fields.
func (c *Client) InsertUser(ctx context.Context, user *models.User) error {
	err := c.pool.QueryRow(ctx, `
		INSERT INTO users (uid, email, full_name, avatar, profile_color, token)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		user.UID, user.Email, user.FullName, user.Avatar, user.ProfileColor, user.Token,
	).Scan(&user.Id, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// UpdateUserProfile rewrites the mutable profile fields. Color and
// email stay fixed.
func (c *Client) UpdateUserProfile(ctx context.Context, id int, fullName, avatar string) error {
	tag, err := c.pool.Exec(ctx, `
		UPDATE users SET full_name = $2, avatar = $3, updated_at = now()
		WHERE id = $1`, id, fullName, avatar)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return polls.ErrNotFound
	}
	return nil
}

// Users exposes the user rows under the identity contract, keeping
// the poll and user lookups apart on the shared client.
func (c *Client) Users() Users {
	return Users{c: c}
}

type Users struct {
	c *Client
}

func (u Users) GetByID(ctx context.Context, id int) (*models.User, error) {
	return u.c.GetUserByID(ctx, id)
}

func (u Users) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return u.c.GetUserByEmail(ctx, email)
}

func (u Users) Insert(ctx context.Context, user *models.User) error {
	return u.c.InsertUser(ctx, user)
}

func (u Users) UpdateProfile(ctx context.Context, id int, fullName, avatar string) error {
	return u.c.UpdateUserProfile(ctx, id, fullName, avatar)
}
