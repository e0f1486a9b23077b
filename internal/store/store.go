// Package store is the PostgreSQL persistence layer. Queries are
// built with squirrel, rows are scanned with scany, and every
// multi-row write runs inside a pgx transaction.
package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"quorum/internal/polls"
	"quorum/internal/users"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Client struct {
	pool *pgxpool.Pool
}

// NewClient opens the connection pool. The caller decides when (and
// whether) to ping.
func NewClient(ctx context.Context, dsn string) (*Client, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	return &Client{pool: pool}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c *Client) Close() {
	c.pool.Close()
}

// tx runs fn inside a transaction; a returned error rolls everything
// back.
func (c *Client) tx(ctx context.Context, fn func(pgx.Tx) error) error {
	return pgx.BeginFunc(ctx, c.pool, fn)
}

var (
	_ polls.Repo = (*Client)(nil)
	_ users.Repo = Users{}
)
