package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/shopspring/decimal"
)

const (
	defaultTimeout     = 3 * time.Second
	eventDeleteBatch   = 500
	uniqueViolationSQL = "23505"
)

// PostgresLedgerStore keeps summaries in product_summaries and events in order_events.
type PostgresLedgerStore struct {
	db      *sql.DB
	timeout time.Duration
}

func NewPostgresLedgerStore(db *sql.DB, timeout time.Duration) *PostgresLedgerStore {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &PostgresLedgerStore{db: db, timeout: timeout}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationSQL
}

func (r *PostgresLedgerStore) AppendEvent(ctx context.Context, accountID, productID string, e models.OrderEvent) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	query := `INSERT INTO order_events (id, account_id, product_id, quantity, unit_price, cost_price, ordered_at, notes, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	costPrice := decimal.NullDecimal{}
	if e.CostPrice != nil {
		costPrice = decimal.NewNullDecimal(*e.CostPrice)
	}

	_, err := r.db.ExecContext(ctx, query, e.ID, accountID, productID, e.Quantity, e.UnitPrice, costPrice,
		e.OrderedAt.UTC(), e.Notes, string(e.Source))
	if err != nil {
		return "", unavailable("append event", err)
	}
	return e.ID, nil
}

// UpsertSummary inserts version 1 or updates the row currently at summary.Version-1.
func (r *PostgresLedgerStore) UpsertSummary(ctx context.Context, accountID, productID string, s models.Summary) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if s.Version == 1 {
		query := `INSERT INTO product_summaries (account_id, product_id, name, category, quantity, average_price, version, created_at, last_modified_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
		_, err := r.db.ExecContext(ctx, query, accountID, productID, s.Name, s.Category, s.Quantity, s.AveragePrice,
			s.Version, s.CreatedAt.UTC(), s.LastModifiedAt.UTC())
		if isUniqueViolation(err) {
			return ErrVersionConflict
		}
		if err != nil {
			return unavailable("insert summary", err)
		}
		return nil
	}

	query := `UPDATE product_summaries
		SET name = $1, category = $2, quantity = $3, average_price = $4, version = $5, last_modified_at = $6
		WHERE account_id = $7 AND product_id = $8 AND version = $9`
	res, err := r.db.ExecContext(ctx, query, s.Name, s.Category, s.Quantity, s.AveragePrice, s.Version,
		s.LastModifiedAt.UTC(), accountID, productID, s.Version-1)
	if err != nil {
		return unavailable("update summary", err)
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

const summaryColumns = `account_id, product_id, name, category, quantity, average_price, version, created_at, last_modified_at`

func scanSummary(row interface{ Scan(...any) error }) (models.Summary, error) {
	var s models.Summary
	err := row.Scan(&s.AccountID, &s.ProductID, &s.Name, &s.Category, &s.Quantity, &s.AveragePrice,
		&s.Version, &s.CreatedAt, &s.LastModifiedAt)
	return s, err
}

func (r *PostgresLedgerStore) GetSummary(ctx context.Context, accountID, productID string) (models.Summary, error) {
	query := `SELECT ` + summaryColumns + ` FROM product_summaries WHERE account_id = $1 AND product_id = $2`
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	s, err := scanSummary(r.db.QueryRowContext(ctx, query, accountID, productID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Summary{}, ErrNotFound
	}
	if err != nil {
		return models.Summary{}, unavailable("get summary", err)
	}
	return s, nil
}

// DeleteProduct removes events in bounded batches, then the summary. A failure after
// any row was removed is reported as ErrPartialDeletion so the caller retries.
func (r *PostgresLedgerStore) DeleteProduct(ctx context.Context, accountID, productID string) error {
	deleted := int64(0)
	for {
		n, err := r.deleteEventBatch(ctx, accountID, productID)
		if err != nil {
			if deleted > 0 {
				return fmt.Errorf("delete events: %w: %w", ErrPartialDeletion, err)
			}
			return unavailable("delete events", err)
		}
		deleted += n
		if n < eventDeleteBatch {
			break
		}
	}

	query := `DELETE FROM product_summaries WHERE account_id = $1 AND product_id = $2`
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, accountID, productID)
	if err != nil {
		if deleted > 0 {
			return fmt.Errorf("delete summary: %w: %w", ErrPartialDeletion, err)
		}
		return unavailable("delete summary", err)
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 && deleted == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresLedgerStore) deleteEventBatch(ctx context.Context, accountID, productID string) (int64, error) {
	query := `DELETE FROM order_events WHERE id IN (
		SELECT id FROM order_events WHERE account_id = $1 AND product_id = $2 LIMIT $3)`
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, accountID, productID, eventDeleteBatch)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *PostgresLedgerStore) ListSummaries(ctx context.Context, accountID string, f SummaryFilter) ([]models.Summary, int, error) {
	conditions, args := summaryConditions(accountID, f)
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var total int
	countQuery := "SELECT COUNT(*) FROM product_summaries WHERE " + conditions
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, unavailable("count summaries", err)
	}

	if f.Offset != nil && *f.Offset >= total {
		return []models.Summary{}, total, nil
	}

	query := "SELECT " + summaryColumns + " FROM product_summaries WHERE " + conditions + " ORDER BY product_id"
	if f.Limit != nil && *f.Limit > 0 {
		args = append(args, min(*f.Limit, MaxPageSize))
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset != nil && *f.Offset > 0 {
		args = append(args, *f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, unavailable("list summaries", err)
	}
	defer rows.Close()

	summaries := []models.Summary{}
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, 0, unavailable("scan summary", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, unavailable("list summaries", err)
	}
	return summaries, total, nil
}

func summaryConditions(accountID string, f SummaryFilter) (string, []any) {
	where := "account_id = $1"
	args := []any{accountID}

	if f.Category != "" {
		args = append(args, f.Category)
		where += fmt.Sprintf(" AND LOWER(category) = LOWER($%d)", len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where += fmt.Sprintf(" AND (name ILIKE $%d OR product_id ILIKE $%d)", len(args), len(args))
	}
	if f.Quantity != nil {
		args = append(args, *f.Quantity)
		where += fmt.Sprintf(" AND quantity = $%d", len(args))
	}
	return where, args
}

const eventColumns = `id, account_id, product_id, quantity, unit_price, cost_price, ordered_at, notes, source`

func (r *PostgresLedgerStore) ListEvents(ctx context.Context, accountID, productID string, f EventFilter) ([]models.OrderEvent, error) {
	query := "SELECT " + eventColumns + " FROM order_events WHERE account_id = $1 AND product_id = $2"
	args := []any{accountID, productID}
	if f.Since != nil {
		args = append(args, f.Since.UTC())
		query += fmt.Sprintf(" AND ordered_at >= $%d", len(args))
	}
	if f.Until != nil {
		args = append(args, f.Until.UTC())
		query += fmt.Sprintf(" AND ordered_at < $%d", len(args))
	}
	return r.queryEvents(ctx, query, args...)
}

func (r *PostgresLedgerStore) queryEvents(ctx context.Context, query string, args ...any) ([]models.OrderEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("list events", err)
	}
	defer rows.Close()

	events := []models.OrderEvent{}
	for rows.Next() {
		var (
			e         models.OrderEvent
			costPrice decimal.NullDecimal
			source    string
		)
		if err := rows.Scan(&e.ID, &e.AccountID, &e.ProductID, &e.Quantity, &e.UnitPrice, &costPrice,
			&e.OrderedAt, &e.Notes, &source); err != nil {
			return nil, unavailable("scan event", err)
		}
		if costPrice.Valid {
			e.CostPrice = &costPrice.Decimal
		}
		e.Source = models.EventSource(source)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list events", err)
	}
	return events, nil
}
