package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/inventory-ledger/internal/http/middleware"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"go.uber.org/zap"
)

func seriesFromRequest(w http.ResponseWriter, r *http.Request) ([]models.OrderEvent, bool) {
	start, err := queryTime(r, "start")
	if err != nil {
		badRequest(w, "start", err.Error())
		return nil, false
	}
	end, err := queryTime(r, "end")
	if err != nil {
		badRequest(w, "end", err.Error())
		return nil, false
	}

	series, err := analytics.ProductSeries(r.Context(), middleware.GetAccountID(r), chi.URLParam(r, "productId"), start, end)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return series, true
}

// GetSeriesHandler godoc
// @Summary Orders of a product within a time window
// @Description Returns orders with start <= ordered_at < end, oldest first.
// @Tags series
// @Produce json
// @Security BearerAuth
// @Param productId path string true "Product ID"
// @Param start query string true "Window start (RFC3339)"
// @Param end query string true "Window end, exclusive (RFC3339)"
// @Success 200 {object} SeriesResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /products/{productId}/series [get]
func GetSeriesHandler(w http.ResponseWriter, r *http.Request) {
	series, ok := seriesFromRequest(w, r)
	if !ok {
		return
	}

	response := SeriesResult{
		Data: make([]OrderEventResponse, len(series)),
		Meta: Meta{TotalCount: len(series)},
	}
	for i, e := range series {
		response.Data[i] = toOrderEventResponse(e)
	}
	respond(w, http.StatusOK, response)
}

// ExportSeriesHandler godoc
// @Summary Export a product's orders within a time window
// @Tags series
// @Produce text/csv, application/json
// @Security BearerAuth
// @Param productId path string true "Product ID"
// @Param format query string true "Export format (csv or json)"
// @Param start query string true "Window start (RFC3339)"
// @Param end query string true "Window end, exclusive (RFC3339)"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /products/{productId}/series/export [get]
func ExportSeriesHandler(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "csv" && format != "json" {
		badRequest(w, "format", "format must be 'csv' or 'json'")
		return
	}

	series, ok := seriesFromRequest(w, r)
	if !ok {
		return
	}
	filename := fmt.Sprintf("orders-%s.%s", chi.URLParam(r, "productId"), format)

	switch format {
	case "json":
		data := make([]OrderEventResponse, len(series))
		for i, e := range series {
			data[i] = toOrderEventResponse(e)
		}
		headers := http.Header{"Content-Disposition": {fmt.Sprintf(`attachment; filename=%q`, filename)}}
		if err := writeJSON(w, http.StatusOK, data, headers); err != nil {
			logger.Warn("failed to write export", zap.Error(err))
		}

	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))

		csvWriter := csv.NewWriter(w)
		_ = csvWriter.Write([]string{"id", "product_id", "quantity", "unit_price", "cost_price", "ordered_at", "source", "notes"})
		for _, e := range series {
			cost := ""
			if e.CostPrice != nil {
				cost = e.CostPrice.String()
			}
			_ = csvWriter.Write([]string{
				e.ID,
				e.ProductID,
				strconv.Itoa(e.Quantity),
				e.UnitPrice.String(),
				cost,
				e.OrderedAt.Format(time.RFC3339),
				string(e.Source),
				e.Notes,
			})
		}
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil {
			logger.Warn("failed to write export", zap.Error(err))
		}
	}
}
