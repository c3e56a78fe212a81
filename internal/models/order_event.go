package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type EventSource string

const (
	SourceManual EventSource = "manual"
	SourceImport EventSource = "import"
)

// OrderEvent is one received batch of a product. Events are never updated.
type OrderEvent struct {
	ID        string           `json:"id"`
	AccountID string           `json:"account_id"`
	ProductID string           `json:"product_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice decimal.Decimal  `json:"unit_price"`
	CostPrice *decimal.Decimal `json:"cost_price,omitempty"`
	OrderedAt time.Time        `json:"ordered_at"`
	Notes     string           `json:"notes,omitempty"`
	Source    EventSource      `json:"source"`
}

// Revenue is quantity times unit price.
func (e OrderEvent) Revenue() decimal.Decimal {
	return e.UnitPrice.Mul(decimal.NewFromInt(int64(e.Quantity)))
}

// Cost is quantity times cost price; zero when no cost price was recorded.
func (e OrderEvent) Cost() decimal.Decimal {
	if e.CostPrice == nil {
		return decimal.Zero
	}
	return e.CostPrice.Mul(decimal.NewFromInt(int64(e.Quantity)))
}
