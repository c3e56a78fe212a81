package repo

import (
	"context"
	"database/sql"
	"time"
)

// PostgresCategoryRegistry stores labels in the categories table.
type PostgresCategoryRegistry struct {
	db      *sql.DB
	timeout time.Duration
}

func NewPostgresCategoryRegistry(db *sql.DB, timeout time.Duration) *PostgresCategoryRegistry {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &PostgresCategoryRegistry{db: db, timeout: timeout}
}

func (r *PostgresCategoryRegistry) Add(ctx context.Context, accountID, label string) (bool, error) {
	query := `INSERT INTO categories (account_id, label, created_at) VALUES ($1, $2, $3) ON CONFLICT (account_id, label) DO NOTHING`
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, accountID, label, time.Now().UTC())
	if err != nil {
		return false, unavailable("add category", err)
	}
	rowsAffected, _ := res.RowsAffected()
	return rowsAffected == 1, nil
}

func (r *PostgresCategoryRegistry) List(ctx context.Context, accountID string) ([]string, error) {
	query := `SELECT label FROM categories WHERE account_id = $1 ORDER BY label`
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, unavailable("list categories", err)
	}
	defer rows.Close()

	labels := []string{}
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, unavailable("scan category", err)
		}
		labels = append(labels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list categories", err)
	}
	return labels, nil
}
