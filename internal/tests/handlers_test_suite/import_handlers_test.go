package handlers_test_suite

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	handler "github.com/rogerio-castellano/inventory-ledger/internal/http/handlers"
	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
)

func TestImportProductsHandler_PartialFailure(t *testing.T) {
	t.Cleanup(clearAll)
	r := newRouter()

	csvContent := `productId,name,category,quantity,price
P1,Widget,Tools,2,1.00
P2,Nail,Tools,100,0.02
,Ghost,Tools,1,1.00
P3,Rake,Garden,1,19.90
P4,Seeds,Garden,10,0.75`

	w := importCSV(r, csvContent)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}

	report, err := decode[ledger.ImportReport](w)
	if err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if report.RowsSeen != 5 || report.RowsApplied != 4 || report.RowsSkipped != 1 {
		t.Errorf("expected 5 seen / 4 applied / 1 skipped, got %d / %d / %d", report.RowsSeen, report.RowsApplied, report.RowsSkipped)
	}
	if len(report.Skipped) != 1 || report.Skipped[0].Row != 4 || report.Skipped[0].Reason != ledger.ReasonMissingProductID {
		t.Errorf("expected file row 4 skipped for a missing product id, got %+v", report.Skipped)
	}

	products, _ := decode[handler.ProductsSearchResult](get(r, "/products"))
	if products.Meta.TotalCount != 4 {
		t.Errorf("expected 4 products after import, got %d", products.Meta.TotalCount)
	}
}

func TestImportProductsHandler_MergesWithExistingProducts(t *testing.T) {
	t.Cleanup(clearAll)
	r := newRouter()
	recordOrder(r, handler.OrderRequest{ProductID: "P1", Name: "Widget", Category: "Tools", Quantity: 10, UnitPrice: price("2.00")})

	csvContent := "product_id,name,category,quantity,price\nP1,Widget,Tools,10,4.00\nP1,Gadget,Tools,1,1.00\n"
	report, _ := decode[ledger.ImportReport](importCSV(r, csvContent))

	if report.RowsApplied != 1 || len(report.Skipped) != 1 {
		t.Fatalf("expected 1 applied and 1 skipped, got %+v", report)
	}
	if report.Skipped[0].Kind != ledger.KindIdentityConflict || report.Skipped[0].Field != "name" {
		t.Errorf("expected an identity conflict on name, got %+v", report.Skipped[0])
	}

	p, _ := decode[handler.ProductResponse](get(r, "/products/P1"))
	if p.Quantity != 20 || p.AveragePrice != "3.00" {
		t.Errorf("expected 20 @ 3.00, got %d @ %s", p.Quantity, p.AveragePrice)
	}
}

func TestImportProductsHandler_LegacyHeaderAndZeroStock(t *testing.T) {
	t.Cleanup(clearAll)
	r := newRouter()

	csvContent := "\ufeffproductId,name,category,remainingQty,price\nG-9,Glue,Craft,0,3.10\nG-8,Tape,Craft,4,1.20\n"
	report, _ := decode[ledger.ImportReport](importCSV(r, csvContent))
	if report.RowsApplied != 2 {
		t.Fatalf("expected 2 rows applied, got %+v", report)
	}

	out, _ := decode[handler.ProductsSearchResult](get(r, "/analytics/out-of-stock"))
	if len(out.Data) != 1 || out.Data[0].ProductID != "G-9" || !out.Data[0].OutOfStock {
		t.Errorf("expected G-9 to be out of stock, got %+v", out.Data)
	}
}

func TestImportProductsHandler_MalformedCells(t *testing.T) {
	t.Cleanup(clearAll)
	r := newRouter()

	csvContent := `productId,name,category,quantity,price,costPrice,orderedAt
P1,Widget,Tools,abc,1.00,,
P2,Nail,Tools,1,x,,
P3,Rake,Garden,1,19.90,,not-a-date
P4,Seeds,Garden,1,0.75,0.10,2026-01-02`

	report, _ := decode[ledger.ImportReport](importCSV(r, csvContent))
	if report.RowsApplied != 1 {
		t.Fatalf("expected only P4 to apply, got %+v", report)
	}

	expected := map[int]string{2: "quantity", 3: "price", 4: "ordered_at"}
	for _, issue := range report.Skipped {
		if issue.Reason != ledger.ReasonMalformed || expected[issue.Row] != issue.Field {
			t.Errorf("unexpected issue %+v", issue)
		}
	}
}

func TestImportProductsHandler_InvalidFiles(t *testing.T) {
	r := newRouter()

	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"missing price column", "productId,name,category,quantity\nP1,Widget,Tools,1"},
		{"broken quoting", "productId,name,category,quantity,price\n\"P1,Widget,Tools,1,1.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := importCSV(r, tt.content); w.Code != http.StatusBadRequest {
				t.Errorf("expected 400 Bad Request, got %d", w.Code)
			}
		})
	}

	t.Run("no file part", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/products/import", strings.NewReader("x"))
		req.Header.Set("Content-Type", "text/plain")
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400 Bad Request, got %d", w.Code)
		}
	})
}
