package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"go.uber.org/zap"
)

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

func respond(w http.ResponseWriter, status int, data any) {
	if err := writeJSON(w, status, data); err != nil {
		logger.Warn("failed to write response", zap.Error(err))
	}
}

func statusFor(kind ledger.Kind) int {
	switch kind {
	case ledger.KindInvalidInput:
		return http.StatusBadRequest
	case ledger.KindIdentityConflict:
		return http.StatusConflict
	case ledger.KindNotFound:
		return http.StatusNotFound
	case ledger.KindPartialDeletion, ledger.KindStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps ledger errors to a status and an ErrorResponse body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var le *ledger.Error
	if !errors.As(err, &le) {
		logger.Error("unexpected error", zap.String("path", r.URL.Path), zap.Error(err))
		respond(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	status := statusFor(le.Kind)
	body := ErrorResponse{Error: le.Message, Kind: string(le.Kind), Field: le.Field, Row: le.Row}
	if body.Error == "" {
		body.Error = string(le.Kind)
	}
	if status >= http.StatusInternalServerError {
		logger.Error("ledger unavailable", zap.String("path", r.URL.Path), zap.String("kind", string(le.Kind)), zap.Error(err))
		w.Header().Set("Retry-After", "1")
	}
	respond(w, status, body)
}

func badRequest(w http.ResponseWriter, field, msg string) {
	respond(w, http.StatusBadRequest, ErrorResponse{Error: msg, Kind: string(ledger.KindInvalidInput), Field: field})
}

func queryInt(r *http.Request, name string) (*int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s format", name)
	}
	return &v, nil
}

// queryTime parses an RFC3339 query parameter. A '+' in the offset arrives as a
// space after URL decoding and is restored first.
func queryTime(r *http.Request, name string) (*time.Time, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	if len(s) == len(time.RFC3339) && s[len(s)-6] == ' ' {
		s = s[:len(s)-6] + "+" + s[len(s)-5:]
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s date format", name)
	}
	return &ts, nil
}
