package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/http/middleware"
	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"github.com/shopspring/decimal"
)

// Accepted spellings of each upload column, after lower-casing.
var columnAliases = map[string][]string{
	"product_id": {"productid", "product_id"},
	"name":       {"name"},
	"category":   {"category"},
	"quantity":   {"quantity", "remainingqty", "remaining_qty", "qty"},
	"price":      {"price", "unit_price", "unitprice"},
	"cost_price": {"costprice", "cost_price"},
	"ordered_at": {"orderedat", "ordered_at"},
}

var requiredColumns = []string{"product_id", "name", "quantity", "price"}

var errInvalidHeader = errors.New("invalid CSV header")

func headerIndex(headers []string) (map[string]int, error) {
	byName := map[string]int{}
	for i, h := range headers {
		byName[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}

	index := map[string]int{}
	for column, aliases := range columnAliases {
		for _, a := range aliases {
			if i, ok := byName[a]; ok {
				index[column] = i
				break
			}
		}
	}
	for _, c := range requiredColumns {
		if _, ok := index[c]; !ok {
			return nil, fmt.Errorf("%w: missing column %s", errInvalidHeader, c)
		}
	}
	return index, nil
}

func field(record []string, index map[string]int, column string) string {
	i, ok := index[column]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// parseCSV reads an upload into raw rows. Empty numeric cells read as zero; cells
// that cannot be parsed mark the row with BadField and are reported by the reconciler.
func parseCSV(file io.Reader) ([]ledger.RawRow, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	headers, err := reader.Read()
	if err != nil {
		return nil, errInvalidHeader
	}
	index, err := headerIndex(headers)
	if err != nil {
		return nil, err
	}

	var rows []ledger.RawRow
	for line := 2; ; line++ { // header is row 1
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %v", err)
		}
		rows = append(rows, parseRow(line, record, index))
	}
	return rows, nil
}

func parseRow(line int, record []string, index map[string]int) ledger.RawRow {
	row := ledger.RawRow{
		Line:      line,
		ProductID: field(record, index, "product_id"),
		Name:      field(record, index, "name"),
		Category:  field(record, index, "category"),
	}

	if s := field(record, index, "quantity"); s != "" {
		q, err := strconv.Atoi(s)
		if err != nil {
			row.BadField = "quantity"
		}
		row.Quantity = q
	}
	if s := field(record, index, "price"); s != "" {
		p, err := decimal.NewFromString(s)
		if err != nil && row.BadField == "" {
			row.BadField = "price"
		}
		row.Price = p
	}
	if s := field(record, index, "cost_price"); s != "" {
		c, err := decimal.NewFromString(s)
		if err != nil && row.BadField == "" {
			row.BadField = "cost_price"
		}
		if err == nil {
			row.CostPrice = &c
		}
	}
	if s := field(record, index, "ordered_at"); s != "" {
		t, err := parseOrderedAt(s)
		if err != nil && row.BadField == "" {
			row.BadField = "ordered_at"
		}
		if err == nil {
			row.OrderedAt = &t
		}
	}
	return row
}

func parseOrderedAt(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}

// ImportProductsHandler godoc
// @Summary Import orders via CSV
// @Description Columns: productId,name,category,quantity,price[,costPrice,orderedAt]. remainingQty is accepted for quantity.
// @Description Rows are applied in file order; failing rows are skipped and listed in the report.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file"
// @Success 200 {object} ledger.ImportReport
// @Failure 400 {object} ErrorResponse "Invalid file"
// @Failure 413 {object} ErrorResponse "File too large"
// @Router /products/import [post]
func ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "file too large"})
			return
		}
		badRequest(w, "file", "missing file")
		return
	}
	defer file.Close()

	rows, err := parseCSV(file)
	if err != nil {
		badRequest(w, "file", err.Error())
		return
	}

	report := reconciler.ImportBatch(r.Context(), middleware.GetAccountID(r), rows)
	respond(w, http.StatusOK, report)
}
