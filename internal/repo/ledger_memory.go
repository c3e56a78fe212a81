package repo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

type productLedger struct {
	summary *models.Summary
	events  []models.OrderEvent
}

// InMemoryLedgerStore is an in-memory implementation of LedgerStore.
type InMemoryLedgerStore struct {
	mu       sync.RWMutex
	accounts map[string]map[string]*productLedger
}

// NewInMemoryLedgerStore creates an empty InMemoryLedgerStore.
func NewInMemoryLedgerStore() *InMemoryLedgerStore {
	return &InMemoryLedgerStore{
		accounts: map[string]map[string]*productLedger{},
	}
}

func (r *InMemoryLedgerStore) ledger(accountID, productID string) *productLedger {
	products, ok := r.accounts[accountID]
	if !ok {
		products = map[string]*productLedger{}
		r.accounts[accountID] = products
	}
	pl, ok := products[productID]
	if !ok {
		pl = &productLedger{}
		products[productID] = pl
	}
	return pl
}

// AppendEvent stores the event under the product and returns its id.
func (r *InMemoryLedgerStore) AppendEvent(ctx context.Context, accountID, productID string, event models.OrderEvent) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", ErrStorageUnavailable
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	event.AccountID = accountID
	event.ProductID = productID

	r.mu.Lock()
	defer r.mu.Unlock()
	pl := r.ledger(accountID, productID)
	pl.events = append(pl.events, event)
	return event.ID, nil
}

// UpsertSummary replaces the summary when its version follows the stored one.
func (r *InMemoryLedgerStore) UpsertSummary(ctx context.Context, accountID, productID string, summary models.Summary) error {
	if err := ctx.Err(); err != nil {
		return ErrStorageUnavailable
	}
	summary.AccountID = accountID
	summary.ProductID = productID

	r.mu.Lock()
	defer r.mu.Unlock()
	pl := r.ledger(accountID, productID)

	var stored int64
	if pl.summary != nil {
		stored = pl.summary.Version
	}
	if summary.Version != stored+1 {
		return ErrVersionConflict
	}
	pl.summary = &summary
	return nil
}

// GetSummary returns the product summary or ErrNotFound.
func (r *InMemoryLedgerStore) GetSummary(ctx context.Context, accountID, productID string) (models.Summary, error) {
	if err := ctx.Err(); err != nil {
		return models.Summary{}, ErrStorageUnavailable
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	pl, ok := r.accounts[accountID][productID]
	if !ok || pl.summary == nil {
		return models.Summary{}, ErrNotFound
	}
	return *pl.summary, nil
}

// DeleteProduct drops the summary and every event of the product.
func (r *InMemoryLedgerStore) DeleteProduct(ctx context.Context, accountID, productID string) error {
	if err := ctx.Err(); err != nil {
		return ErrStorageUnavailable
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	products := r.accounts[accountID]
	pl, ok := products[productID]
	if !ok || (pl.summary == nil && len(pl.events) == 0) {
		return ErrNotFound
	}
	delete(products, productID)
	return nil
}

func matchesFilter(s models.Summary, f SummaryFilter) bool {
	if f.Category != "" && !strings.EqualFold(s.Category, f.Category) {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(s.Name), term) && !strings.Contains(strings.ToLower(s.ProductID), term) {
			return false
		}
	}
	if f.Quantity != nil && s.Quantity != *f.Quantity {
		return false
	}
	return true
}

// ListSummaries returns the filtered page ordered by product id and the unpaginated total.
func (r *InMemoryLedgerStore) ListSummaries(ctx context.Context, accountID string, f SummaryFilter) ([]models.Summary, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, ErrStorageUnavailable
	}
	r.mu.RLock()
	var filtered []models.Summary
	for _, pl := range r.accounts[accountID] {
		if pl.summary != nil && matchesFilter(*pl.summary, f) {
			filtered = append(filtered, *pl.summary)
		}
	}
	r.mu.RUnlock()

	sort.Slice(filtered, func(i, j int) bool { return filtered[i].ProductID < filtered[j].ProductID })
	return paginate(filtered, f.Offset, f.Limit), len(filtered), nil
}

// ListEvents returns the product's events in insertion order.
func (r *InMemoryLedgerStore) ListEvents(ctx context.Context, accountID, productID string, f EventFilter) ([]models.OrderEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, ErrStorageUnavailable
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	pl, ok := r.accounts[accountID][productID]
	if !ok {
		return []models.OrderEvent{}, nil
	}
	events := make([]models.OrderEvent, 0, len(pl.events))
	for _, e := range pl.events {
		if f.matches(e.OrderedAt) {
			events = append(events, e)
		}
	}
	return events, nil
}

// Clear removes every account.
func (r *InMemoryLedgerStore) Clear() {
	r.mu.Lock()
	r.accounts = map[string]map[string]*productLedger{}
	r.mu.Unlock()
}
