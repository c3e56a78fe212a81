package ledger

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Uncategorized labels events whose product has no category.
const Uncategorized = "Uncategorized"

const (
	defaultRecentOrders = 10
	defaultFanout       = 8
)

type CategoryTotal struct {
	Category     string              `json:"category"`
	Revenue      decimal.Decimal     `json:"revenue"`
	Cost         decimal.Decimal     `json:"cost"`
	Profit       decimal.Decimal     `json:"profit"`
	TotalQty     int                 `json:"total_qty"`
	Orders       int                 `json:"orders"`
	RecentOrders []models.OrderEvent `json:"recent_orders,omitempty"`
}

type CategoryVolume struct {
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
}

type ProductRef struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Orders    int    `json:"orders"`
	Quantity  int    `json:"quantity"`
}

type Dashboard struct {
	TotalProducts   int             `json:"total_products"`
	TotalEvents     int             `json:"total_events"`
	OutOfStockCount int             `json:"out_of_stock_count"`
	StockValue      decimal.Decimal `json:"stock_value"`
	MostOrdered     *ProductRef     `json:"most_ordered,omitempty"`
}

type AnalyticsOptions struct {
	RecentOrders int
	Fanout       int
}

// Analytics answers read-only questions over the ledger. It takes no locks, so a
// result may mix snapshots taken at slightly different times.
type Analytics struct {
	store        repo.LedgerStore
	recentOrders int
	fanout       int
}

func NewAnalytics(store repo.LedgerStore, opts AnalyticsOptions) *Analytics {
	if opts.RecentOrders <= 0 {
		opts.RecentOrders = defaultRecentOrders
	}
	if opts.Fanout <= 0 {
		opts.Fanout = defaultFanout
	}
	return &Analytics{store: store, recentOrders: opts.RecentOrders, fanout: opts.Fanout}
}

type productHistory struct {
	summary models.Summary
	events  []models.OrderEvent
}

// histories loads every product summary and its events, one goroutine per product
// up to the fan-out limit.
func (a *Analytics) histories(ctx context.Context, accountID string) ([]productHistory, error) {
	summaries, _, err := a.store.ListSummaries(ctx, accountID, repo.SummaryFilter{})
	if err != nil {
		return nil, storageError("", err)
	}

	out := make([]productHistory, len(summaries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.fanout)
	for i, s := range summaries {
		g.Go(func() error {
			events, err := a.store.ListEvents(gctx, accountID, s.ProductID, repo.EventFilter{})
			if err != nil {
				return storageError(s.ProductID, err)
			}
			out[i] = productHistory{summary: s, events: events}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func categoryOf(s models.Summary) string {
	if strings.TrimSpace(s.Category) == "" {
		return Uncategorized
	}
	return s.Category
}

func addEvent(t *CategoryTotal, e models.OrderEvent) {
	t.Revenue = t.Revenue.Add(e.Revenue())
	t.Cost = t.Cost.Add(e.Cost())
	t.TotalQty += e.Quantity
	t.Orders++
}

// CategoryRollup totals revenue, cost and quantity per category, sorted by category.
// Categories without events are left out.
func (a *Analytics) CategoryRollup(ctx context.Context, accountID string) ([]CategoryTotal, error) {
	histories, err := a.histories(ctx, accountID)
	if err != nil {
		return nil, err
	}

	byCategory := map[string]*CategoryTotal{}
	for _, h := range histories {
		if len(h.events) == 0 {
			continue
		}
		c := categoryOf(h.summary)
		t, ok := byCategory[c]
		if !ok {
			t = &CategoryTotal{Category: c}
			byCategory[c] = t
		}
		for _, e := range h.events {
			addEvent(t, e)
		}
	}

	totals := make([]CategoryTotal, 0, len(byCategory))
	for _, t := range byCategory {
		t.Profit = t.Revenue.Sub(t.Cost)
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Category < totals[j].Category })
	return totals, nil
}

// CategoryRollupFor returns one category's totals and its most recent orders.
func (a *Analytics) CategoryRollupFor(ctx context.Context, accountID, category string) (CategoryTotal, error) {
	if strings.TrimSpace(category) == "" {
		return CategoryTotal{}, invalid("category", "category is required")
	}
	histories, err := a.histories(ctx, accountID)
	if err != nil {
		return CategoryTotal{}, err
	}

	t := CategoryTotal{Category: category}
	var events []models.OrderEvent
	for _, h := range histories {
		if !strings.EqualFold(categoryOf(h.summary), category) {
			continue
		}
		t.Category = categoryOf(h.summary)
		for _, e := range h.events {
			addEvent(&t, e)
			events = append(events, e)
		}
	}
	if t.Orders == 0 {
		return CategoryTotal{}, &Error{Kind: KindNotFound, Field: "category", Message: "no orders in category " + category}
	}
	t.Profit = t.Revenue.Sub(t.Cost)

	sortEvents(events)
	recent := make([]models.OrderEvent, 0, a.recentOrders)
	for i := len(events) - 1; i >= 0 && len(recent) < a.recentOrders; i-- {
		recent = append(recent, events[i])
	}
	t.RecentOrders = recent
	return t, nil
}

// CategoryVolume sums ordered quantity per category.
func (a *Analytics) CategoryVolume(ctx context.Context, accountID string) ([]CategoryVolume, error) {
	histories, err := a.histories(ctx, accountID)
	if err != nil {
		return nil, err
	}

	byCategory := map[string]int{}
	for _, h := range histories {
		if len(h.events) == 0 {
			continue
		}
		c := categoryOf(h.summary)
		for _, e := range h.events {
			byCategory[c] += e.Quantity
		}
	}

	volumes := make([]CategoryVolume, 0, len(byCategory))
	for c, q := range byCategory {
		volumes = append(volumes, CategoryVolume{Category: c, Quantity: q})
	}
	sort.Slice(volumes, func(i, j int) bool { return volumes[i].Category < volumes[j].Category })
	return volumes, nil
}

// OutOfStock lists products with nothing on hand.
func (a *Analytics) OutOfStock(ctx context.Context, accountID string) ([]models.Summary, error) {
	zero := 0
	items, _, err := a.store.ListSummaries(ctx, accountID, repo.SummaryFilter{Quantity: &zero})
	if err != nil {
		return nil, storageError("", err)
	}
	return items, nil
}

// ProductSeries returns the product's orders with start <= orderedAt < end, oldest first.
func (a *Analytics) ProductSeries(ctx context.Context, accountID, productID string, start, end *time.Time) ([]models.OrderEvent, error) {
	if start == nil {
		return nil, invalid("start", "start is required")
	}
	if end == nil {
		return nil, invalid("end", "end is required")
	}
	if end.Before(*start) {
		return nil, invalid("end", "end must not be before start")
	}
	if _, err := a.store.GetSummary(ctx, accountID, productID); err != nil {
		return nil, storageError(productID, err)
	}

	filter := repo.EventFilter{Since: start, Until: end}
	events, err := a.store.ListEvents(ctx, accountID, productID, filter)
	if err != nil {
		return nil, storageError(productID, err)
	}

	series := make([]models.OrderEvent, 0, len(events))
	for _, e := range events {
		if !e.OrderedAt.Before(*start) && e.OrderedAt.Before(*end) {
			series = append(series, e)
		}
	}
	sortEvents(series)
	return series, nil
}

// Dashboard summarizes the whole account.
func (a *Analytics) Dashboard(ctx context.Context, accountID string) (Dashboard, error) {
	histories, err := a.histories(ctx, accountID)
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{TotalProducts: len(histories), StockValue: decimal.Zero}
	for _, h := range histories {
		d.TotalEvents += len(h.events)
		if h.summary.OutOfStock() {
			d.OutOfStockCount++
		}
		d.StockValue = d.StockValue.Add(h.summary.StockValue())

		ref := ProductRef{ProductID: h.summary.ProductID, Name: h.summary.Name, Orders: len(h.events)}
		for _, e := range h.events {
			ref.Quantity += e.Quantity
		}
		if ref.Orders == 0 {
			continue
		}
		if d.MostOrdered == nil || moreOrdered(ref, *d.MostOrdered) {
			best := ref
			d.MostOrdered = &best
		}
	}
	return d, nil
}

func moreOrdered(a, b ProductRef) bool {
	if a.Orders != b.Orders {
		return a.Orders > b.Orders
	}
	if a.Quantity != b.Quantity {
		return a.Quantity > b.Quantity
	}
	return a.ProductID < b.ProductID
}

func sortEvents(events []models.OrderEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].OrderedAt.Equal(events[j].OrderedAt) {
			return events[i].OrderedAt.Before(events[j].OrderedAt)
		}
		return events[i].ID < events[j].ID
	})
}
