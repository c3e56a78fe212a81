package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/inventory-ledger/internal/http/middleware"
	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
)

// CategoryRollupHandler godoc
// @Summary Profit and loss per category
// @Description With category set, returns that category only, including its most recent orders.
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param category query string false "Drill down into one category"
// @Success 200 {object} CategoryRollupResult
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /analytics/categories [get]
func CategoryRollupHandler(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r)

	if category := r.URL.Query().Get("category"); category != "" {
		total, err := analytics.CategoryRollupFor(r.Context(), accountID, category)
		if err != nil {
			writeError(w, r, err)
			return
		}
		respond(w, http.StatusOK, CategoryRollupResult{Data: []CategoryTotalResponse{toCategoryTotalResponse(total)}})
		return
	}

	totals, err := analytics.CategoryRollup(r.Context(), accountID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response := CategoryRollupResult{Data: make([]CategoryTotalResponse, len(totals))}
	for i, t := range totals {
		response.Data[i] = toCategoryTotalResponse(t)
	}
	respond(w, http.StatusOK, response)
}

// CategoryVolumeHandler godoc
// @Summary Ordered quantity per category
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ledger.CategoryVolume
// @Failure 503 {object} ErrorResponse
// @Router /analytics/categories/volume [get]
func CategoryVolumeHandler(w http.ResponseWriter, r *http.Request) {
	volumes, err := analytics.CategoryVolume(r.Context(), middleware.GetAccountID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if volumes == nil {
		volumes = []ledger.CategoryVolume{}
	}
	respond(w, http.StatusOK, volumes)
}

// OutOfStockHandler godoc
// @Summary Products with nothing on hand
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProductsSearchResult
// @Failure 503 {object} ErrorResponse
// @Router /analytics/out-of-stock [get]
func OutOfStockHandler(w http.ResponseWriter, r *http.Request) {
	products, err := analytics.OutOfStock(r.Context(), middleware.GetAccountID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response := ProductsSearchResult{
		Data: make([]ProductResponse, len(products)),
		Meta: Meta{TotalCount: len(products)},
	}
	for i, p := range products {
		response.Data[i] = toProductResponse(p)
	}
	respond(w, http.StatusOK, response)
}
