package repo

import (
	"context"
	"errors"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

var (
	// ErrNotFound is returned when no summary exists for a product.
	ErrNotFound = errors.New("product not found")
	// ErrStorageUnavailable wraps I/O failures and timeouts. Callers may retry.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrPartialDeletion means a cascade delete stopped after removing part of a product.
	ErrPartialDeletion = errors.New("partial deletion")
	// ErrVersionConflict is returned by UpsertSummary when the stored version moved.
	ErrVersionConflict = errors.New("summary version conflict")
)

// LedgerStore persists product summaries and their append-only order events.
type LedgerStore interface {
	AppendEvent(ctx context.Context, accountID, productID string, event models.OrderEvent) (string, error)
	UpsertSummary(ctx context.Context, accountID, productID string, summary models.Summary) error
	GetSummary(ctx context.Context, accountID, productID string) (models.Summary, error)
	DeleteProduct(ctx context.Context, accountID, productID string) error
	ListSummaries(ctx context.Context, accountID string, filter SummaryFilter) ([]models.Summary, int, error)
	ListEvents(ctx context.Context, accountID, productID string, filter EventFilter) ([]models.OrderEvent, error)
}

// CategoryRegistry is a grow-only set of category labels per account.
type CategoryRegistry interface {
	Add(ctx context.Context, accountID, label string) (bool, error)
	List(ctx context.Context, accountID string) ([]string, error)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MaxPageSize caps an explicit page limit.
const MaxPageSize = 100

func paginate[T any](items []T, offset, limit *int) []T {
	if offset != nil && *offset >= len(items) {
		return []T{}
	}

	start := 0
	if offset != nil {
		start = clamp(*offset, 0, len(items))
	}

	end := len(items)
	if limit != nil && *limit > 0 {
		end = clamp(start+min(*limit, MaxPageSize), start, len(items))
	}

	return items[start:end]
}
