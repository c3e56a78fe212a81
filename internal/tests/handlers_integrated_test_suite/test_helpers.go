package handlers_integrated_test_suite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/auth"
	"github.com/rogerio-castellano/inventory-ledger/internal/db"
	handler "github.com/rogerio-castellano/inventory-ledger/internal/http/handlers"
	"github.com/rogerio-castellano/inventory-ledger/internal/http/router"
	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
	"github.com/shopspring/decimal"
)

const jwtSecret = "integration-secret"

var (
	token    string
	database *sql.DB
)

func setupTestRepos(url string) error {
	var err error
	database, err = db.Connect(context.Background(), db.Options{URL: url})
	if err != nil {
		return err
	}
	if err := db.EnsureSchema(context.Background(), database); err != nil {
		return err
	}

	store := repo.NewPostgresLedgerStore(database, 3*time.Second)
	engine := ledger.NewEngine(store, repo.NewPostgresCategoryRegistry(database, 3*time.Second), nil, ledger.Options{
		CostPolicy:         ledger.CostPolicyOptional,
		ImportZeroQuantity: true,
	})
	handler.SetEngine(engine)
	handler.SetReconciler(ledger.NewReconciler(engine))
	handler.SetAnalytics(ledger.NewAnalytics(store, ledger.AnalyticsOptions{}))

	token, err = auth.GenerateToken("integration-account", []byte(jwtSecret), time.Hour)
	return err
}

func newRouter() http.Handler {
	return router.NewRouter(router.Options{JWTSecret: []byte(jwtSecret)})
}

func clearAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := database.ExecContext(ctx, "TRUNCATE TABLE order_events, product_summaries, categories")
	if err != nil {
		fmt.Println(fmt.Errorf("failed to truncate ledger tables: %w", err))
	}
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func doRequest(r http.Handler, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func recordOrder(r http.Handler, o handler.OrderRequest) *httptest.ResponseRecorder {
	body, _ := json.Marshal(o)
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func importCSV(r http.Handler, csvContent string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, _ := writer.CreateFormFile("file", "orders.csv")
	part.Write([]byte(csvContent))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/products/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](w *httptest.ResponseRecorder) (T, error) {
	var v T
	err := json.NewDecoder(w.Body).Decode(&v)
	return v, err
}
