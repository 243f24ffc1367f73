package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Where joins the collected conditions into a WHERE clause.
func Where(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conditions, " AND ")
}

// Paginate appends LIMIT/OFFSET for a 1-based page; pageSize <= 0 disables paging.
func Paginate(query string, page, pageSize int) string {
	if pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	return query + fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, (page-1)*pageSize)
}

func CountNamed(ctx context.Context, ex Executor, query string, args map[string]interface{}) (int, error) {
	q, params, err := sqlx.Named(query, args)
	if err != nil {
		return 0, err
	}
	var count int
	if err := ex.GetContext(ctx, &count, ex.Rebind(q), params...); err != nil {
		return 0, err
	}
	return count, nil
}

func SelectNamed(ctx context.Context, ex Executor, dest interface{}, query string, args map[string]interface{}) error {
	q, params, err := sqlx.Named(query, args)
	if err != nil {
		return err
	}
	return ex.SelectContext(ctx, dest, ex.Rebind(q), params...)
}

// In expands slice arguments and rebinds for the executor's driver.
func In(ex Executor, query string, args ...interface{}) (string, []interface{}, error) {
	q, params, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, err
	}
	return ex.Rebind(q), params, nil
}
