package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/auth"
	handler "github.com/rogerio-castellano/inventory-ledger/internal/http/handlers"
	"github.com/rogerio-castellano/inventory-ledger/internal/http/router"
	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
	"github.com/shopspring/decimal"
)

const (
	jwtSecret = "test-secret"
	accountID = "acct-1"
)

var (
	token      string
	store      *repo.InMemoryLedgerStore
	categories *repo.InMemoryCategoryRegistry
)

func init() {
	setupTestRepos()
	token = mustToken(accountID)
}

func setupTestRepos() {
	store = repo.NewInMemoryLedgerStore()
	categories = repo.NewInMemoryCategoryRegistry()

	engine := ledger.NewEngine(store, categories, nil, ledger.Options{
		CostPolicy:         ledger.CostPolicyOptional,
		ImportZeroQuantity: true,
	})
	handler.SetEngine(engine)
	handler.SetReconciler(ledger.NewReconciler(engine))
	handler.SetAnalytics(ledger.NewAnalytics(store, ledger.AnalyticsOptions{RecentOrders: 3}))
}

func newRouter() http.Handler {
	return router.NewRouter(router.Options{JWTSecret: []byte(jwtSecret)})
}

func mustToken(account string) string {
	t, err := auth.GenerateToken(account, []byte(jwtSecret), time.Hour)
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
	return t
}

func clearAll() {
	store.Clear()
	categories.Clear()
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func doRequest(r http.Handler, method, path string, body io.Reader, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	return doRequest(r, http.MethodGet, path, nil, token)
}

func recordOrder(r http.Handler, o handler.OrderRequest) *httptest.ResponseRecorder {
	return recordOrderAs(r, token, o)
}

func recordOrderAs(r http.Handler, bearer string, o handler.OrderRequest) *httptest.ResponseRecorder {
	body, _ := json.Marshal(o)
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func multipartCSV(csvContent string, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(csvContent))

	writer.Close()
	return &buf, writer.FormDataContentType()
}

func importCSV(r http.Handler, csvContent string) *httptest.ResponseRecorder {
	body, contentType := multipartCSV(csvContent, "orders.csv")
	req := httptest.NewRequest(http.MethodPost, "/products/import", body)
	req.Header.Set("Content-Type", contentType)
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
