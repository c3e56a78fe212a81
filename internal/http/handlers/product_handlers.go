package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/inventory-ledger/internal/http/middleware"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
)

// GetProductsHandler godoc
// @Summary List inventory
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param category query string false "Category (case-insensitive)"
// @Param search query string false "Matches name or product id"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination (at most 100)"
// @Success 200 {object} ProductsSearchResult
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	filter := repo.SummaryFilter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
	}

	limit, err := queryInt(r, "limit")
	if err != nil {
		badRequest(w, "limit", err.Error())
		return
	}
	if limit != nil && *limit <= 0 {
		badRequest(w, "limit", "limit must be greater than zero")
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		badRequest(w, "offset", err.Error())
		return
	}
	if offset != nil && *offset < 0 {
		badRequest(w, "offset", "offset must be zero or positive")
		return
	}
	filter.Limit, filter.Offset = limit, offset

	products, total, err := engine.ListInventory(r.Context(), middleware.GetAccountID(r), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response := ProductsSearchResult{
		Data: make([]ProductResponse, len(products)),
		Meta: Meta{TotalCount: total},
	}
	for i, p := range products {
		response.Data[i] = toProductResponse(p)
	}
	respond(w, http.StatusOK, response)
}

// GetProductHandler godoc
// @Summary Get a product's running balance
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param productId path string true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /products/{productId} [get]
func GetProductHandler(w http.ResponseWriter, r *http.Request) {
	product, err := engine.GetProduct(r.Context(), middleware.GetAccountID(r), chi.URLParam(r, "productId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, toProductResponse(product))
}

// DeleteProductHandler godoc
// @Summary Delete a product and its order history
// @Tags products
// @Security BearerAuth
// @Param productId path string true "Product ID"
// @Success 204 "Deleted successfully"
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Deletion incomplete, retry"
// @Router /products/{productId} [delete]
func DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	if err := engine.RemoveProduct(r.Context(), middleware.GetAccountID(r), chi.URLParam(r, "productId")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCategoriesHandler godoc
// @Summary List the account's categories
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CategoriesResult
// @Failure 503 {object} ErrorResponse
// @Router /categories [get]
func GetCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	labels, err := engine.Categories(r.Context(), middleware.GetAccountID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, CategoriesResult{Data: labels})
}
