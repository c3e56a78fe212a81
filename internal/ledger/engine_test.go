package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const account = "acct-1"

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

type fixture struct {
	engine     *Engine
	store      *repo.InMemoryLedgerStore
	categories *repo.InMemoryCategoryRegistry
	locker     *KeyedMutex
}

func newFixture(t *testing.T, opts Options) fixture {
	t.Helper()
	store := repo.NewInMemoryLedgerStore()
	categories := repo.NewInMemoryCategoryRegistry()
	locker := NewKeyedMutex()
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	return fixture{
		engine:     NewEngine(store, categories, locker, opts),
		store:      store,
		categories: categories,
		locker:     locker,
	}
}

func order(productID, name, category string, qty int, price string) OrderRequest {
	return OrderRequest{
		AccountID: account,
		ProductID: productID,
		Name:      name,
		Category:  category,
		Quantity:  qty,
		UnitPrice: dec(price),
	}
}

func events(t *testing.T, store repo.LedgerStore, productID string) []models.OrderEvent {
	t.Helper()
	evs, err := store.ListEvents(context.Background(), account, productID, repo.EventFilter{})
	require.NoError(t, err)
	return evs
}

func TestRecordOrder_NewProduct(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	s, err := f.engine.RecordOrder(ctx, order("P9", "Bolt", "Hardware", 4, "0.25"))
	require.NoError(t, err)

	assert.Equal(t, "P9", s.ProductID)
	assert.Equal(t, "Bolt", s.Name)
	assert.Equal(t, "Hardware", s.Category)
	assert.Equal(t, 4, s.Quantity)
	assert.True(t, s.AveragePrice.Equal(dec("0.25")))
	assert.Equal(t, int64(1), s.Version)
	assert.Equal(t, fixedNow, s.CreatedAt)

	evs := events(t, f.store, "P9")
	require.Len(t, evs, 1)
	assert.Equal(t, 4, evs[0].Quantity)
	assert.Equal(t, models.SourceManual, evs[0].Source)
	assert.Equal(t, fixedNow, evs[0].OrderedAt)

	labels, err := f.engine.Categories(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hardware"}, labels)
}

func TestRecordOrder_WeightedAverage(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	_, err := f.engine.RecordOrder(ctx, order("P1", "Widget", "Tools", 10, "2.00"))
	require.NoError(t, err)
	s, err := f.engine.RecordOrder(ctx, order("P1", "Widget", "Tools", 10, "4.00"))
	require.NoError(t, err)

	assert.Equal(t, 20, s.Quantity)
	assert.Equal(t, "3.00", s.AveragePrice.StringFixed(2))
	assert.Equal(t, int64(2), s.Version)
	assert.Len(t, events(t, f.store, "P1"), 2)
}

func TestRecordOrder_AverageRoundsHalfAwayFromZero(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	_, err := f.engine.RecordOrder(ctx, order("P1", "Widget", "Tools", 1, "1.00"))
	require.NoError(t, err)
	s, err := f.engine.RecordOrder(ctx, order("P1", "Widget", "Tools", 1, "1.01"))
	require.NoError(t, err)

	// (1.00 + 1.01) / 2 = 1.005
	assert.Equal(t, "1.01", s.AveragePrice.StringFixed(2))
}

func TestRecordOrder_IdentityConflict(t *testing.T) {
	tests := []struct {
		name      string
		req       OrderRequest
		wantField string
	}{
		{name: "different name", req: order("P1", "Gadget", "Tools", 3, "9.99"), wantField: "name"},
		{name: "different category", req: order("P1", "Widget", "Garden", 3, "9.99"), wantField: "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Options{})
			ctx := context.Background()

			before, err := f.engine.RecordOrder(ctx, order("P1", "Widget", "Tools", 10, "2.00"))
			require.NoError(t, err)

			_, err = f.engine.RecordOrder(ctx, tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrIdentityConflict)

			var le *Error
			require.ErrorAs(t, err, &le)
			assert.Equal(t, tt.wantField, le.Field)
			assert.Equal(t, "P1", le.ProductID)

			after, err := f.engine.GetProduct(ctx, account, "P1")
			require.NoError(t, err)
			assert.Equal(t, before, after)
			assert.Len(t, events(t, f.store, "P1"), 1)
		})
	}
}

func TestRecordOrder_OtherCategoryUsesNewCategory(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	req := order("P2", "Hose", OtherCategory, 1, "12.00")
	req.NewCategory = "Garden"
	s, err := f.engine.RecordOrder(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "Garden", s.Category)

	// The same resolved category passes the identity check.
	s, err = f.engine.RecordOrder(ctx, order("P2", "Hose", "Garden", 1, "14.00"))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Quantity)
	assert.Equal(t, "13.00", s.AveragePrice.StringFixed(2))
}

func TestRecordOrder_InvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*OrderRequest)
		wantField string
	}{
		{name: "empty product id", mutate: func(r *OrderRequest) { r.ProductID = " " }, wantField: "product_id"},
		{name: "empty name", mutate: func(r *OrderRequest) { r.Name = "" }, wantField: "name"},
		{name: "no category", mutate: func(r *OrderRequest) { r.Category = "" }, wantField: "category"},
		{name: "other without new category", mutate: func(r *OrderRequest) { r.Category = OtherCategory }, wantField: "category"},
		{name: "zero quantity", mutate: func(r *OrderRequest) { r.Quantity = 0 }, wantField: "quantity"},
		{name: "negative quantity", mutate: func(r *OrderRequest) { r.Quantity = -2 }, wantField: "quantity"},
		{name: "negative price", mutate: func(r *OrderRequest) { r.UnitPrice = dec("-0.01") }, wantField: "unit_price"},
		{name: "negative cost", mutate: func(r *OrderRequest) { r.CostPrice = decPtr("-1") }, wantField: "cost_price"},
		{name: "price finer than storage", mutate: func(r *OrderRequest) { r.UnitPrice = dec("1.0000001") }, wantField: "unit_price"},
		{name: "cost finer than storage", mutate: func(r *OrderRequest) { r.CostPrice = decPtr("0.1234567") }, wantField: "cost_price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Options{})
			req := order("P1", "Widget", "Tools", 1, "1.00")
			tt.mutate(&req)

			_, err := f.engine.RecordOrder(context.Background(), req)
			require.ErrorIs(t, err, ErrInvalidInput)
			var le *Error
			require.ErrorAs(t, err, &le)
			assert.Equal(t, tt.wantField, le.Field)

			_, _, err = f.engine.ListInventory(context.Background(), account, repo.SummaryFilter{})
			require.NoError(t, err)
			assert.Empty(t, events(t, f.store, "P1"))
		})
	}
}

func TestRecordOrder_CostPolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("zero drops cost", func(t *testing.T) {
		f := newFixture(t, Options{CostPolicy: CostPolicyZero})
		req := order("P1", "Widget", "Tools", 2, "5.00")
		req.CostPrice = decPtr("3.00")
		_, err := f.engine.RecordOrder(ctx, req)
		require.NoError(t, err)
		assert.Nil(t, events(t, f.store, "P1")[0].CostPrice)
	})

	t.Run("optional keeps cost", func(t *testing.T) {
		f := newFixture(t, Options{CostPolicy: CostPolicyOptional})
		req := order("P1", "Widget", "Tools", 2, "5.00")
		req.CostPrice = decPtr("3.00")
		_, err := f.engine.RecordOrder(ctx, req)
		require.NoError(t, err)
		require.NotNil(t, events(t, f.store, "P1")[0].CostPrice)
		assert.True(t, events(t, f.store, "P1")[0].CostPrice.Equal(dec("3")))
	})

	t.Run("required rejects missing cost", func(t *testing.T) {
		f := newFixture(t, Options{CostPolicy: CostPolicyRequired})
		_, err := f.engine.RecordOrder(ctx, order("P1", "Widget", "Tools", 2, "5.00"))
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestRecordOrder_ConcurrentOrdersSerialize(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, q := range []int{5, 7} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.engine.RecordOrder(ctx, order("P1", "Widget", "Tools", q, "1.00"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	s, err := f.engine.GetProduct(ctx, account, "P1")
	require.NoError(t, err)
	assert.Equal(t, 12, s.Quantity)
	assert.Equal(t, int64(2), s.Version)
	assert.Len(t, events(t, f.store, "P1"), 2)
	assert.Equal(t, 0, f.locker.Len())
}

func TestRecordOrder_ManyWritersManyProducts(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 60; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := fmt.Sprintf("P%d", i%3)
			_, err := f.engine.RecordOrder(ctx, order(id, "Item "+id, "Bulk", 1, "2.50"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	items, total, err := f.engine.ListInventory(ctx, account, repo.SummaryFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	for _, s := range items {
		assert.Equal(t, 20, s.Quantity)
		assert.Len(t, events(t, f.store, s.ProductID), 20)
	}
}

func TestRecordOrder_LockWaitExceeded(t *testing.T) {
	f := newFixture(t, Options{LockWait: 20 * time.Millisecond})
	ctx := context.Background()

	unlock, err := f.locker.Lock(ctx, lockKey(account, "P1"))
	require.NoError(t, err)
	defer unlock()

	_, err = f.engine.RecordOrder(ctx, order("P1", "Widget", "Tools", 1, "1.00"))
	require.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, err, ErrLockTimeout)
	assert.Empty(t, events(t, f.store, "P1"))
}

// failingStore injects errors into an in-memory store.
type failingStore struct {
	*repo.InMemoryLedgerStore
	appendErr error
	upsertErr error
	deleteErr error
}

func (s *failingStore) AppendEvent(ctx context.Context, accountID, productID string, e models.OrderEvent) (string, error) {
	if s.appendErr != nil {
		return "", s.appendErr
	}
	return s.InMemoryLedgerStore.AppendEvent(ctx, accountID, productID, e)
}

func (s *failingStore) UpsertSummary(ctx context.Context, accountID, productID string, sum models.Summary) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	return s.InMemoryLedgerStore.UpsertSummary(ctx, accountID, productID, sum)
}

func (s *failingStore) DeleteProduct(ctx context.Context, accountID, productID string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return s.InMemoryLedgerStore.DeleteProduct(ctx, accountID, productID)
}

func TestRecordOrder_StorageFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("append fails", func(t *testing.T) {
		store := &failingStore{InMemoryLedgerStore: repo.NewInMemoryLedgerStore(), appendErr: repo.ErrStorageUnavailable}
		e := NewEngine(store, nil, nil, Options{})
		_, err := e.RecordOrder(ctx, order("P1", "Widget", "Tools", 1, "1.00"))
		require.ErrorIs(t, err, ErrStorageUnavailable)
		_, err = e.GetProduct(ctx, account, "P1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("version conflict is retryable", func(t *testing.T) {
		store := &failingStore{InMemoryLedgerStore: repo.NewInMemoryLedgerStore(), upsertErr: repo.ErrVersionConflict}
		e := NewEngine(store, nil, nil, Options{})
		_, err := e.RecordOrder(ctx, order("P1", "Widget", "Tools", 1, "1.00"))
		require.ErrorIs(t, err, ErrStorageUnavailable)
		assert.ErrorIs(t, err, repo.ErrVersionConflict)
	})
}

// cancelAfterAppend cancels the caller's context once the event is stored.
type cancelAfterAppend struct {
	*repo.InMemoryLedgerStore
	cancel context.CancelFunc
}

func (s *cancelAfterAppend) AppendEvent(ctx context.Context, accountID, productID string, e models.OrderEvent) (string, error) {
	id, err := s.InMemoryLedgerStore.AppendEvent(ctx, accountID, productID, e)
	s.cancel()
	return id, err
}

func TestRecordOrder_CallerCancelAfterAppendKeepsSummaryInStep(t *testing.T) {
	store := &cancelAfterAppend{InMemoryLedgerStore: repo.NewInMemoryLedgerStore()}
	e := NewEngine(store, nil, nil, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	store.cancel = cancel
	s, err := e.RecordOrder(ctx, order("P1", "Widget", "Tools", 5, "1.00"))
	require.NoError(t, err)
	assert.Equal(t, 5, s.Quantity)
	require.Error(t, ctx.Err())

	ctx2, cancel2 := context.WithCancel(context.Background())
	store.cancel = cancel2
	_, err = e.RecordOrder(ctx2, order("P1", "Widget", "Tools", 7, "1.00"))
	require.NoError(t, err)

	got, err := e.GetProduct(context.Background(), account, "P1")
	require.NoError(t, err)
	sum := 0
	for _, ev := range events(t, store, "P1") {
		sum += ev.Quantity
	}
	assert.Equal(t, 12, got.Quantity)
	assert.Equal(t, sum, got.Quantity)
	assert.Equal(t, int64(2), got.Version)
}

func TestRecordOrder_PriceWithTrailingZerosFitsStorage(t *testing.T) {
	f := newFixture(t, Options{})
	s, err := f.engine.RecordOrder(context.Background(), order("P1", "Widget", "Tools", 1, "1.1234560"))
	require.NoError(t, err)
	assert.True(t, s.AveragePrice.Equal(dec("1.12")))
	assert.True(t, events(t, f.store, "P1")[0].UnitPrice.Equal(dec("1.123456")))
}

func TestRemoveProduct_Cascade(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	for _, q := range []int{1, 2, 3} {
		_, err := f.engine.RecordOrder(ctx, order("P1", "Widget", "Tools", q, "1.00"))
		require.NoError(t, err)
	}
	_, err := f.engine.RecordOrder(ctx, order("P2", "Nail", "Tools", 1, "0.05"))
	require.NoError(t, err)

	require.NoError(t, f.engine.RemoveProduct(ctx, account, "P1"))

	_, err = f.engine.GetProduct(ctx, account, "P1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, events(t, f.store, "P1"))
	assert.Len(t, events(t, f.store, "P2"), 1)

	err = f.engine.RemoveProduct(ctx, account, "P1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Categories never shrink.
	labels, err := f.engine.Categories(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, []string{"Tools"}, labels)
}

func TestRemoveProduct_PartialDeletion(t *testing.T) {
	store := &failingStore{
		InMemoryLedgerStore: repo.NewInMemoryLedgerStore(),
		deleteErr:           fmt.Errorf("delete summary: %w: %w", repo.ErrPartialDeletion, errors.New("conn reset")),
	}
	e := NewEngine(store, nil, nil, Options{})

	err := e.RemoveProduct(context.Background(), account, "P1")
	require.ErrorIs(t, err, ErrPartialDeletion)
	assert.Equal(t, KindPartialDeletion, KindOf(err))
}

func TestRemoveProduct_EmptyID(t *testing.T) {
	f := newFixture(t, Options{})
	err := f.engine.RemoveProduct(context.Background(), account, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListInventory_Filters(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	for _, r := range []OrderRequest{
		order("A-1", "Red Paint", "Paint", 2, "7.00"),
		order("A-2", "Blue Paint", "Paint", 1, "7.50"),
		order("B-1", "Shovel", "Garden", 1, "25.00"),
	} {
		_, err := f.engine.RecordOrder(ctx, r)
		require.NoError(t, err)
	}

	items, total, err := f.engine.ListInventory(ctx, account, repo.SummaryFilter{Category: "paint"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "A-1", items[0].ProductID)

	items, total, err = f.engine.ListInventory(ctx, account, repo.SummaryFilter{Search: "shov"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "B-1", items[0].ProductID)

	offset, limit := 1, 1
	items, total, err = f.engine.ListInventory(ctx, account, repo.SummaryFilter{Offset: &offset, Limit: &limit})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, items, 1)
	assert.Equal(t, "A-2", items[0].ProductID)
}

func TestErrorString(t *testing.T) {
	err := &Error{Kind: KindIdentityConflict, Field: "name", ProductID: "P1", Message: "details do not match"}
	assert.Equal(t, `IdentityConflict product "P1" field name: details do not match`, err.Error())
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
}
