package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ferhatdonmez/movie-discovery/api"
	appvalidator "github.com/ferhatdonmez/movie-discovery/internal/validator"
	"github.com/go-chi/chi/v5"
)

func newTestApplication() *application {
	return &application{
		validator: appvalidator.NewValidator(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()

	var reader io.Reader

	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

// withURLParam injects a chi route parameter so handlers can be exercised
// without mounting the full router.
func withURLParam(r *http.Request, name, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(name, value)

	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func checkErrorMessage(t *testing.T, w *httptest.ResponseRecorder, status int, wantMessage string) {
	t.Helper()

	if status >= 200 && status < 300 || wantMessage == "" {
		return
	}

	if status == http.StatusUnprocessableEntity {
		var resp api.ValidationErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		for _, vErr := range resp.ValidationErrors {
			if vErr.Issue == wantMessage {
				return
			}
		}

		t.Errorf("Expected validation error message %q not found in response", wantMessage)
		return
	}

	var resp api.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}

	if resp.Message != wantMessage {
		t.Errorf("Error message = %v, want %v", resp.Message, wantMessage)
	}
}

func ptr[T any](v T) *T {
	return &v
}
