package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	pkgerrors "github.com/dwiprasetya/laundrypos-backend/pkg/errors"
	"github.com/dwiprasetya/laundrypos-backend/pkg/types"
)

type stubIdempotencyStore struct {
	values map[string]string
}

func newStubIdempotencyStore() *stubIdempotencyStore {
	return &stubIdempotencyStore{values: map[string]string{}}
}

func (s *stubIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	value, ok := s.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (s *stubIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := s.values[key]; ok {
		return false, nil
	}
	s.values[key] = fmt.Sprint(value)
	return true, nil
}

func (s *stubIdempotencyStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("lpos:idem:%s:%s", scope, id)
}

func (s *stubIdempotencyStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

func newCheckoutServer(store *stubIdempotencyStore, hits *int) http.Handler {
	r := chi.NewRouter()
	r.Use(Idempotency(store, nil))
	r.Post("/api/v1/pos/checkout", func(w http.ResponseWriter, req *http.Request) {
		*hits++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"invoice":"INV-001"}}`))
	})
	r.Get("/api/v1/catalog", func(w http.ResponseWriter, req *http.Request) {
		*hits++
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func TestIdempotencyRequiresHeaderOnGuardedRoutes(t *testing.T) {
	hits := 0
	server := newCheckoutServer(newStubIdempotencyStore(), &hits)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pos/checkout", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	server.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if hits != 0 {
		t.Fatalf("handler should not run without an idempotency key")
	}
}

func TestIdempotencySkipsUnguardedRoutes(t *testing.T) {
	hits := 0
	server := newCheckoutServer(newStubIdempotencyStore(), &hits)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil)
	resp := httptest.NewRecorder()
	server.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if hits != 1 {
		t.Fatalf("handler should run without any idempotency handling")
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	hits := 0
	store := newStubIdempotencyStore()
	server := newCheckoutServer(store, &hits)

	body := `{"customer_id":"abc"}`
	first := httptest.NewRequest(http.MethodPost, "/api/v1/pos/checkout", strings.NewReader(body))
	first.Header.Set("Idempotency-Key", "pos-123")
	firstResp := httptest.NewRecorder()
	server.ServeHTTP(firstResp, first)

	if firstResp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", firstResp.Code)
	}
	if hits != 1 {
		t.Fatalf("expected one handler invocation, got %d", hits)
	}

	second := httptest.NewRequest(http.MethodPost, "/api/v1/pos/checkout", strings.NewReader(body))
	second.Header.Set("Idempotency-Key", "pos-123")
	secondResp := httptest.NewRecorder()
	server.ServeHTTP(secondResp, second)

	if secondResp.Code != http.StatusCreated {
		t.Fatalf("expected replayed 201 got %d", secondResp.Code)
	}
	if hits != 1 {
		t.Fatalf("replay must not reach the handler, got %d invocations", hits)
	}
	if firstResp.Body.String() != secondResp.Body.String() {
		t.Fatalf("replayed body differs: %q vs %q", firstResp.Body.String(), secondResp.Body.String())
	}
	if ct := secondResp.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected stored content type, got %q", ct)
	}
}

func TestIdempotencyRejectsReusedKeyWithDifferentBody(t *testing.T) {
	hits := 0
	store := newStubIdempotencyStore()
	server := newCheckoutServer(store, &hits)

	first := httptest.NewRequest(http.MethodPost, "/api/v1/pos/checkout", strings.NewReader(`{"qty":1}`))
	first.Header.Set("Idempotency-Key", "pos-456")
	server.ServeHTTP(httptest.NewRecorder(), first)

	second := httptest.NewRequest(http.MethodPost, "/api/v1/pos/checkout", strings.NewReader(`{"qty":2}`))
	second.Header.Set("Idempotency-Key", "pos-456")
	secondResp := httptest.NewRecorder()
	server.ServeHTTP(secondResp, second)

	if secondResp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", secondResp.Code)
	}
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(secondResp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeIdempotency) {
		t.Fatalf("unexpected error code %s", envelope.Error.Code)
	}
	if hits != 1 {
		t.Fatalf("mismatched replay must not reach the handler, got %d invocations", hits)
	}
}
