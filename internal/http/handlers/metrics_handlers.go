package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/inventory-ledger/internal/http/middleware"
)

// GetDashboardMetricsHandler godoc
// @Summary Dashboard metrics for the account
// @Tags metrics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DashboardResponse
// @Failure 503 {object} ErrorResponse
// @Router /metrics/dashboard [get]
func GetDashboardMetricsHandler(w http.ResponseWriter, r *http.Request) {
	d, err := analytics.Dashboard(r.Context(), middleware.GetAccountID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, DashboardResponse{
		TotalProducts:   d.TotalProducts,
		TotalEvents:     d.TotalEvents,
		OutOfStockCount: d.OutOfStockCount,
		StockValue:      d.StockValue.StringFixed(2),
		MostOrdered:     d.MostOrdered,
	})
}

// HealthHandler godoc
// @Summary Liveness probe
// @Tags health
// @Success 200 {string} string "ok"
// @Router /healthz [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
