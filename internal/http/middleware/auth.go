package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rogerio-castellano/inventory-ledger/internal/auth"
)

type contextKey string

const accountIDKey = contextKey("account_id")

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: msg})
}

// Auth rejects requests without a valid bearer token and stores the token
// subject as the account id.
func Auth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accountID, err := auth.AccountID(r.Header.Get("Authorization"), secret)
			if err != nil {
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(WithAccountID(r.Context(), accountID)))
		})
	}
}

func WithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, accountIDKey, accountID)
}

// GetAccountID returns the authenticated account, or "" outside Auth.
func GetAccountID(r *http.Request) string {
	if val, ok := r.Context().Value(accountIDKey).(string); ok {
		return val
	}
	return ""
}
