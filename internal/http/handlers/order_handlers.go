package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/inventory-ledger/internal/http/middleware"
	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

// RecordOrderHandler godoc
// @Summary Record an order
// @Description Adds received stock to a product, creating it on first order. The average price is re-weighted.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param order body OrderRequest true "Order to record"
// @Success 201 {object} ProductResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Product id exists with a different name or category"
// @Failure 503 {object} ErrorResponse
// @Router /orders [post]
func RecordOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequest(w, "", "invalid input")
		return
	}

	if validationErrors := validateRequest(req); len(validationErrors) > 0 {
		respond(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Kind:    string(ledger.KindInvalidInput),
			Field:   validationErrors[0].Field,
			Details: validationErrors,
		})
		return
	}

	summary, err := engine.RecordOrder(r.Context(), ledger.OrderRequest{
		AccountID:   middleware.GetAccountID(r),
		ProductID:   req.ProductID,
		Name:        req.Name,
		Category:    req.Category,
		NewCategory: req.NewCategory,
		Quantity:    req.Quantity,
		UnitPrice:   *req.UnitPrice,
		CostPrice:   req.CostPrice,
		Notes:       req.Notes,
		Source:      models.SourceManual,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, toProductResponse(summary))
}
