package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"quorum/internal/polls"
)

// paginate runs a 1-indexed page of items plus a total count over the
// same predicate. A page below 1 collapses to 1.
func paginate[T any](ctx context.Context, c *Client, items, count sq.SelectBuilder, page, perPage int) (polls.Page[T], error) {
	var out polls.Page[T]
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = polls.PerPage
	}

	query, args, err := items.
		Limit(uint64(perPage)).
		Offset(uint64((page - 1) * perPage)).
		ToSql()
	if err != nil {
		return out, fmt.Errorf("build page query: %w", err)
	}
	list := []T{}
	if err := pgxscan.Select(ctx, c.pool, &list, query, args...); err != nil {
		return out, fmt.Errorf("select page: %w", err)
	}

	query, args, err = count.ToSql()
	if err != nil {
		return out, fmt.Errorf("build count query: %w", err)
	}
	var total int64
	if err := pgxscan.Get(ctx, c.pool, &total, query, args...); err != nil {
		return out, fmt.Errorf("count rows: %w", err)
	}

	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}

	out = polls.Page[T]{
		Items:    list,
		Total:    total,
		Page:     page,
		PerPage:  perPage,
		LastPage: lastPage,
	}
	return out, nil
}
