// Package ledger keeps per-product running balances consistent with their order history.
package ledger

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OtherCategory is the category choice that defers to OrderRequest.NewCategory.
const OtherCategory = "Other"

// CostPolicy decides what happens to the cost price of an order.
type CostPolicy string

const (
	CostPolicyZero     CostPolicy = "zero"     // cost is not tracked; supplied values are dropped
	CostPolicyOptional CostPolicy = "optional" // stored when supplied
	CostPolicyRequired CostPolicy = "required" // every manual order needs one
)

const defaultLockWait = 5 * time.Second

// OrderRequest is one received batch of a product.
type OrderRequest struct {
	AccountID   string
	ProductID   string
	Name        string
	Category    string
	NewCategory string
	Quantity    int
	UnitPrice   decimal.Decimal
	CostPrice   *decimal.Decimal
	Notes       string
	OrderedAt   *time.Time
	Source      models.EventSource
}

// ResolvedCategory returns NewCategory when Category is empty or OtherCategory.
func (r OrderRequest) ResolvedCategory() string {
	c := strings.TrimSpace(r.Category)
	if c == "" || c == OtherCategory {
		return strings.TrimSpace(r.NewCategory)
	}
	return r.Category
}

type Options struct {
	CostPolicy CostPolicy
	// ImportZeroQuantity lets import rows with quantity 0 open a product at zero stock.
	ImportZeroQuantity bool
	LockWait           time.Duration
	Logger             *zap.Logger
	Metrics            *Metrics
	Now                func() time.Time
}

// Engine is the only writer of product summaries.
type Engine struct {
	store      repo.LedgerStore
	categories repo.CategoryRegistry
	locker     Locker
	opts       Options
	log        *zap.Logger
}

func NewEngine(store repo.LedgerStore, categories repo.CategoryRegistry, locker Locker, opts Options) *Engine {
	if locker == nil {
		locker = NewKeyedMutex()
	}
	if opts.CostPolicy == "" {
		opts.CostPolicy = CostPolicyZero
	}
	if opts.LockWait <= 0 {
		opts.LockWait = defaultLockWait
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		store:      store,
		categories: categories,
		locker:     locker,
		opts:       opts,
		log:        log.Named("engine"),
	}
}

// RecordOrder applies one order to the product's balance and appends it to the history.
func (e *Engine) RecordOrder(ctx context.Context, req OrderRequest) (models.Summary, error) {
	if req.Source == "" {
		req.Source = models.SourceManual
	}
	s, err := e.record(ctx, req, false)
	e.opts.Metrics.observeOrder(string(req.Source), err)
	return s, err
}

func (e *Engine) validate(req OrderRequest, allowZero bool) (string, error) {
	if strings.TrimSpace(req.AccountID) == "" {
		return "", invalid("account_id", "account is required")
	}
	if strings.TrimSpace(req.ProductID) == "" {
		return "", invalid("product_id", "product id is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return "", invalid("name", "name is required")
	}
	category := req.ResolvedCategory()
	if category == "" {
		return "", invalid("category", "category is required")
	}
	if req.Quantity < 0 || (req.Quantity == 0 && !allowZero) {
		return "", invalid("quantity", "quantity must be greater than zero")
	}
	if req.UnitPrice.IsNegative() {
		return "", invalid("unit_price", "price must not be negative")
	}
	if !fitsStoredPrecision(req.UnitPrice) {
		return "", invalid("unit_price", "price must have at most 6 decimal places")
	}
	if req.CostPrice != nil && req.CostPrice.IsNegative() {
		return "", invalid("cost_price", "cost price must not be negative")
	}
	if req.CostPrice != nil && !fitsStoredPrecision(*req.CostPrice) {
		return "", invalid("cost_price", "cost price must have at most 6 decimal places")
	}
	if e.opts.CostPolicy == CostPolicyRequired && req.CostPrice == nil && req.Source != models.SourceImport {
		return "", invalid("cost_price", "cost price is required")
	}
	return category, nil
}

func (e *Engine) costPrice(req OrderRequest) *decimal.Decimal {
	if e.opts.CostPolicy == CostPolicyZero || req.CostPrice == nil {
		return nil
	}
	c := *req.CostPrice
	return &c
}

func (e *Engine) lock(ctx context.Context, accountID, productID string) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, e.opts.LockWait)
	defer cancel()

	start := time.Now()
	unlock, err := e.locker.Lock(lockCtx, lockKey(accountID, productID))
	e.opts.Metrics.observeLockWait(time.Since(start))
	if err != nil {
		return nil, &Error{Kind: KindStorageUnavailable, ProductID: productID, Message: "could not lock product", Err: err}
	}
	return unlock, nil
}

func (e *Engine) record(ctx context.Context, req OrderRequest, allowZero bool) (models.Summary, error) {
	category, err := e.validate(req, allowZero)
	if err != nil {
		return models.Summary{}, err
	}

	unlock, err := e.lock(ctx, req.AccountID, req.ProductID)
	if err != nil {
		return models.Summary{}, err
	}
	defer unlock()

	log := e.log.With(zap.String("account_id", req.AccountID), zap.String("product_id", req.ProductID))

	current, err := e.store.GetSummary(ctx, req.AccountID, req.ProductID)
	exists := err == nil
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return models.Summary{}, storageError(req.ProductID, err)
	}

	now := e.opts.Now().UTC()
	orderedAt := now
	if req.OrderedAt != nil {
		orderedAt = req.OrderedAt.UTC()
	}

	var next models.Summary
	if exists {
		if current.Name != req.Name {
			log.Info("identity conflict", zap.String("field", "name"))
			return models.Summary{}, &Error{Kind: KindIdentityConflict, Field: "name", ProductID: req.ProductID,
				Message: "product id exists but details do not match"}
		}
		if current.Category != category {
			log.Info("identity conflict", zap.String("field", "category"))
			return models.Summary{}, &Error{Kind: KindIdentityConflict, Field: "category", ProductID: req.ProductID,
				Message: "product id exists but details do not match"}
		}
		next = current
		next.AveragePrice = WeightedAverage(current.AveragePrice, current.Quantity, req.UnitPrice, req.Quantity)
		next.Quantity = current.Quantity + req.Quantity
		next.Version = current.Version + 1
		next.LastModifiedAt = now
	} else {
		if e.categories != nil {
			if _, err := e.categories.Add(ctx, req.AccountID, category); err != nil {
				return models.Summary{}, storageError(req.ProductID, err)
			}
		}
		next = models.Summary{
			AccountID:      req.AccountID,
			ProductID:      req.ProductID,
			Name:           req.Name,
			Category:       category,
			Quantity:       req.Quantity,
			AveragePrice:   round2(req.UnitPrice),
			Version:        1,
			CreatedAt:      now,
			LastModifiedAt: now,
		}
	}

	event := models.OrderEvent{
		AccountID: req.AccountID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
		CostPrice: e.costPrice(req),
		OrderedAt: orderedAt,
		Notes:     req.Notes,
		Source:    req.Source,
	}
	// The event and the summary are written together even if the caller goes away.
	writeCtx := context.WithoutCancel(ctx)
	eventID, err := e.store.AppendEvent(writeCtx, req.AccountID, req.ProductID, event)
	if err != nil {
		return models.Summary{}, storageError(req.ProductID, err)
	}
	if err := e.store.UpsertSummary(writeCtx, req.AccountID, req.ProductID, next); err != nil {
		// The event is already in the history; the summary no longer matches it.
		log.Error("summary write failed after event append",
			zap.String("event_id", eventID), zap.Int64("version", next.Version), zap.Error(err))
		return models.Summary{}, storageError(req.ProductID, err)
	}

	log.Debug("order recorded",
		zap.String("event_id", eventID),
		zap.Int("quantity", next.Quantity),
		zap.String("average_price", next.AveragePrice.StringFixed(pricePlaces)),
		zap.String("source", string(req.Source)))
	return next, nil
}

// RemoveProduct deletes the product's summary and its whole order history.
func (e *Engine) RemoveProduct(ctx context.Context, accountID, productID string) error {
	err := e.removeProduct(ctx, accountID, productID)
	e.opts.Metrics.observeDeletion(err)
	return err
}

func (e *Engine) removeProduct(ctx context.Context, accountID, productID string) error {
	if strings.TrimSpace(productID) == "" {
		return invalid("product_id", "product id is required")
	}
	unlock, err := e.lock(ctx, accountID, productID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := e.store.DeleteProduct(ctx, accountID, productID); err != nil {
		le := storageError(productID, err)
		if le.Kind == KindPartialDeletion {
			e.log.Warn("product partially deleted",
				zap.String("account_id", accountID), zap.String("product_id", productID), zap.Error(err))
		}
		return le
	}
	e.log.Info("product removed", zap.String("account_id", accountID), zap.String("product_id", productID))
	return nil
}

// GetProduct returns the product's current summary.
func (e *Engine) GetProduct(ctx context.Context, accountID, productID string) (models.Summary, error) {
	s, err := e.store.GetSummary(ctx, accountID, productID)
	if err != nil {
		return models.Summary{}, storageError(productID, err)
	}
	return s, nil
}

// ListInventory returns one page of summaries and the number of matches.
func (e *Engine) ListInventory(ctx context.Context, accountID string, filter repo.SummaryFilter) ([]models.Summary, int, error) {
	items, total, err := e.store.ListSummaries(ctx, accountID, filter)
	if err != nil {
		return nil, 0, storageError("", err)
	}
	return items, total, nil
}

// Categories returns the account's registered categories in order.
func (e *Engine) Categories(ctx context.Context, accountID string) ([]string, error) {
	if e.categories == nil {
		return []string{}, nil
	}
	labels, err := e.categories.List(ctx, accountID)
	if err != nil {
		return nil, storageError("", err)
	}
	return labels, nil
}

// storageError maps repo errors onto ledger kinds. Version conflicts are retryable.
func storageError(productID string, err error) *Error {
	var le *Error
	if errors.As(err, &le) {
		return le
	}
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return &Error{Kind: KindNotFound, ProductID: productID, Err: err}
	case errors.Is(err, repo.ErrPartialDeletion):
		return &Error{Kind: KindPartialDeletion, ProductID: productID, Message: "retry to finish removal", Err: err}
	default:
		return &Error{Kind: KindStorageUnavailable, ProductID: productID, Err: err}
	}
}
