package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day int) *time.Time {
	t := time.Date(2026, 1, day, 12, 0, 0, 0, time.UTC)
	return &t
}

func record(t *testing.T, e *Engine, req OrderRequest) {
	t.Helper()
	_, err := e.RecordOrder(context.Background(), req)
	require.NoError(t, err)
}

func TestCategoryRollup_ExactRevenue(t *testing.T) {
	f := newFixture(t, Options{CostPolicy: CostPolicyOptional})
	a := NewAnalytics(f.store, AnalyticsOptions{})

	r1 := order("P1", "Widget", "Tools", 3, "0.10")
	r1.CostPrice = decPtr("0.05")
	record(t, f.engine, r1)
	record(t, f.engine, order("P1", "Widget", "Tools", 7, "0.20"))
	record(t, f.engine, order("P2", "Rake", "Garden", 1, "19.99"))

	totals, err := a.CategoryRollup(context.Background(), account)
	require.NoError(t, err)
	require.Len(t, totals, 2)

	assert.Equal(t, "Garden", totals[0].Category)
	assert.True(t, totals[0].Revenue.Equal(dec("19.99")))

	tools := totals[1]
	assert.Equal(t, "Tools", tools.Category)
	assert.True(t, tools.Revenue.Equal(dec("1.70")), tools.Revenue.String())
	assert.True(t, tools.Cost.Equal(dec("0.15")), tools.Cost.String())
	assert.True(t, tools.Profit.Equal(dec("1.55")), tools.Profit.String())
	assert.Equal(t, 10, tools.TotalQty)
	assert.Equal(t, 2, tools.Orders)
	assert.Empty(t, tools.RecentOrders)
}

func TestCategoryRollup_UncategorizedAndEmpty(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	a := NewAnalytics(f.store, AnalyticsOptions{})

	// Written straight to the store: the engine never leaves a category empty.
	require.NoError(t, f.store.UpsertSummary(ctx, account, "X1", models.Summary{Name: "Loose", Quantity: 2, Version: 1}))
	_, err := f.store.AppendEvent(ctx, account, "X1", models.OrderEvent{Quantity: 2, UnitPrice: dec("1.50")})
	require.NoError(t, err)

	totals, err := a.CategoryRollup(ctx, account)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, Uncategorized, totals[0].Category)
	assert.True(t, totals[0].Revenue.Equal(dec("3")))

	none, err := a.CategoryRollup(ctx, "other-account")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCategoryRollupFor_RecentOrders(t *testing.T) {
	f := newFixture(t, Options{})
	a := NewAnalytics(f.store, AnalyticsOptions{RecentOrders: 2})

	for day := 1; day <= 4; day++ {
		req := order("P1", "Widget", "Tools", day, "1.00")
		req.OrderedAt = at(day)
		record(t, f.engine, req)
	}
	record(t, f.engine, order("P2", "Rake", "Garden", 1, "19.99"))

	total, err := a.CategoryRollupFor(context.Background(), account, "Tools")
	require.NoError(t, err)
	assert.Equal(t, 4, total.Orders)
	assert.Equal(t, 10, total.TotalQty)
	require.Len(t, total.RecentOrders, 2)
	assert.Equal(t, 4, total.RecentOrders[0].Quantity)
	assert.Equal(t, 3, total.RecentOrders[1].Quantity)

	folded, err := a.CategoryRollupFor(context.Background(), account, "tools")
	require.NoError(t, err)
	assert.Equal(t, "Tools", folded.Category)
	assert.Equal(t, 4, folded.Orders)

	_, err = a.CategoryRollupFor(context.Background(), account, "Kitchen")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = a.CategoryRollupFor(context.Background(), account, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCategoryVolume(t *testing.T) {
	f := newFixture(t, Options{})
	a := NewAnalytics(f.store, AnalyticsOptions{Fanout: 1})

	record(t, f.engine, order("P1", "Widget", "Tools", 5, "1.00"))
	record(t, f.engine, order("P2", "Nail", "Tools", 50, "0.01"))
	record(t, f.engine, order("P3", "Rake", "Garden", 2, "19.99"))

	volumes, err := a.CategoryVolume(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, []CategoryVolume{{Category: "Garden", Quantity: 2}, {Category: "Tools", Quantity: 55}}, volumes)
}

func TestOutOfStock(t *testing.T) {
	f := newFixture(t, Options{ImportZeroQuantity: true})
	a := NewAnalytics(f.store, AnalyticsOptions{})

	record(t, f.engine, order("P1", "Widget", "Tools", 5, "1.00"))
	NewReconciler(f.engine).ImportBatch(context.Background(), account, []RawRow{
		row(2, "P2", "Glue", "Craft", 0, "3.10"),
	})

	items, err := a.OutOfStock(context.Background(), account)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "P2", items[0].ProductID)
}

func TestProductSeries(t *testing.T) {
	f := newFixture(t, Options{})
	a := NewAnalytics(f.store, AnalyticsOptions{})
	ctx := context.Background()

	// Inserted out of order; the series follows OrderedAt.
	for _, day := range []int{20, 5, 10, 1} {
		req := order("P1", "Widget", "Tools", day, "1.00")
		req.OrderedAt = at(day)
		record(t, f.engine, req)
	}

	series, err := a.ProductSeries(ctx, account, "P1", at(5), at(20))
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, *at(5), series[0].OrderedAt)
	assert.Equal(t, *at(10), series[1].OrderedAt)

	_, err = a.ProductSeries(ctx, account, "P1", nil, at(20))
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = a.ProductSeries(ctx, account, "P1", at(5), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = a.ProductSeries(ctx, account, "P1", at(20), at(5))
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = a.ProductSeries(ctx, account, "missing", at(1), at(20))
	assert.ErrorIs(t, err, ErrNotFound)

	empty, err := a.ProductSeries(ctx, account, "P1", at(21), at(25))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDashboard(t *testing.T) {
	f := newFixture(t, Options{ImportZeroQuantity: true})
	a := NewAnalytics(f.store, AnalyticsOptions{})

	record(t, f.engine, order("P1", "Widget", "Tools", 10, "2.00"))
	record(t, f.engine, order("P1", "Widget", "Tools", 10, "4.00"))
	record(t, f.engine, order("P2", "Rake", "Garden", 1, "19.99"))
	NewReconciler(f.engine).ImportBatch(context.Background(), account, []RawRow{row(2, "P3", "Glue", "Craft", 0, "3.10")})

	d, err := a.Dashboard(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, 3, d.TotalProducts)
	assert.Equal(t, 4, d.TotalEvents)
	assert.Equal(t, 1, d.OutOfStockCount)
	assert.True(t, d.StockValue.Equal(dec("79.99")), d.StockValue.String())
	require.NotNil(t, d.MostOrdered)
	assert.Equal(t, "P1", d.MostOrdered.ProductID)
	assert.Equal(t, 2, d.MostOrdered.Orders)
}
