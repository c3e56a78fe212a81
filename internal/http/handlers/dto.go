package handlers

import (
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/shopspring/decimal"
)

type OrderRequest struct {
	ProductID   string           `json:"product_id" validate:"required,max=64"`
	Name        string           `json:"name" validate:"required,max=200"`
	Category    string           `json:"category" validate:"required_without=NewCategory,max=100"`
	NewCategory string           `json:"new_category,omitempty" validate:"max=100"`
	Quantity    int              `json:"quantity" validate:"gt=0"`
	UnitPrice   *decimal.Decimal `json:"unit_price" validate:"required"`
	CostPrice   *decimal.Decimal `json:"cost_price,omitempty"`
	Notes       string           `json:"notes,omitempty" validate:"max=500"`
}

type ProductResponse struct {
	ProductID      string    `json:"product_id"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	Quantity       int       `json:"quantity"`
	AveragePrice   string    `json:"average_price"`
	StockValue     string    `json:"stock_value"`
	OutOfStock     bool      `json:"out_of_stock"`
	Version        int64     `json:"version"`
	CreatedAt      time.Time `json:"created_at"`
	LastModifiedAt time.Time `json:"last_modified_at"`
}

func toProductResponse(s models.Summary) ProductResponse {
	return ProductResponse{
		ProductID:      s.ProductID,
		Name:           s.Name,
		Category:       s.Category,
		Quantity:       s.Quantity,
		AveragePrice:   s.AveragePrice.StringFixed(2),
		StockValue:     s.StockValue().StringFixed(2),
		OutOfStock:     s.OutOfStock(),
		Version:        s.Version,
		CreatedAt:      s.CreatedAt,
		LastModifiedAt: s.LastModifiedAt,
	}
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type ProductsSearchResult struct {
	Data []ProductResponse `json:"data"`
	Meta Meta              `json:"meta,omitempty"`
}

type OrderEventResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice string    `json:"unit_price"`
	CostPrice *string   `json:"cost_price,omitempty"`
	OrderedAt time.Time `json:"ordered_at"`
	Notes     string    `json:"notes,omitempty"`
	Source    string    `json:"source"`
}

func toOrderEventResponse(e models.OrderEvent) OrderEventResponse {
	resp := OrderEventResponse{
		ID:        e.ID,
		ProductID: e.ProductID,
		Quantity:  e.Quantity,
		UnitPrice: e.UnitPrice.String(),
		OrderedAt: e.OrderedAt,
		Notes:     e.Notes,
		Source:    string(e.Source),
	}
	if e.CostPrice != nil {
		c := e.CostPrice.String()
		resp.CostPrice = &c
	}
	return resp
}

type SeriesResult struct {
	Data []OrderEventResponse `json:"data"`
	Meta Meta                 `json:"meta,omitempty"`
}

type CategoriesResult struct {
	Data []string `json:"data"`
}

type CategoryTotalResponse struct {
	Category     string               `json:"category"`
	Revenue      string               `json:"revenue"`
	Cost         string               `json:"cost"`
	Profit       string               `json:"profit"`
	TotalQty     int                  `json:"total_qty"`
	Orders       int                  `json:"orders"`
	RecentOrders []OrderEventResponse `json:"recent_orders,omitempty"`
}

func toCategoryTotalResponse(t ledger.CategoryTotal) CategoryTotalResponse {
	resp := CategoryTotalResponse{
		Category: t.Category,
		Revenue:  t.Revenue.StringFixed(2),
		Cost:     t.Cost.StringFixed(2),
		Profit:   t.Profit.StringFixed(2),
		TotalQty: t.TotalQty,
		Orders:   t.Orders,
	}
	for _, e := range t.RecentOrders {
		resp.RecentOrders = append(resp.RecentOrders, toOrderEventResponse(e))
	}
	return resp
}

type CategoryRollupResult struct {
	Data []CategoryTotalResponse `json:"data"`
}

type DashboardResponse struct {
	TotalProducts   int                `json:"total_products"`
	TotalEvents     int                `json:"total_events"`
	OutOfStockCount int                `json:"out_of_stock_count"`
	StockValue      string             `json:"stock_value"`
	MostOrdered     *ledger.ProductRef `json:"most_ordered,omitempty"`
}

type ValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Kind    string            `json:"kind,omitempty"`
	Field   string            `json:"field,omitempty"`
	Row     int               `json:"row,omitempty"`
	Details []ValidationError `json:"details,omitempty"`
}
