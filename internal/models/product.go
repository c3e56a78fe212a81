package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summary is the running balance of one product within an account.
type Summary struct {
	AccountID      string          `json:"account_id"`
	ProductID      string          `json:"product_id"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Quantity       int             `json:"quantity"`
	AveragePrice   decimal.Decimal `json:"average_price"`
	Version        int64           `json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
	LastModifiedAt time.Time       `json:"last_modified_at"`
}

// OutOfStock reports whether nothing is left on hand.
func (s Summary) OutOfStock() bool {
	return s.Quantity == 0
}

// StockValue is the quantity on hand valued at the average price.
func (s Summary) StockValue() decimal.Decimal {
	return s.AveragePrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
}
