package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	f.data[key] = str
	return true, nil
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	str, _ := value.(string)
	f.data[key] = str
	return nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("fake:%s:%s", scope, id)
}

var checkoutCustomer = uuid.New()

func requestWithPattern(method, url, pattern string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, url, body)
	rc := chi.NewRouteContext()
	rc.RoutePatterns = []string{pattern}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rc)
	ctx = WithIdentity(ctx, enums.RoleCustomer, checkoutCustomer, "jti")
	return req.WithContext(ctx)
}

func TestRouteTTLSelection(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		pattern string
		ok      bool
	}{
		{"checkout", http.MethodPost, "/customer/orders", true},
		{"order cancel", http.MethodPost, "/customer/orders/{id}/cancel", true},
		{"task accept", http.MethodPost, "/delivery/tasks/{id}/accept", true},
		{"order list", http.MethodGet, "/customer/orders", false},
		{"task status", http.MethodPost, "/delivery/tasks/{id}/status", false},
		{"login", http.MethodPost, "/admin/login", false},
	}

	for _, tt := range tests {
		ttl, ok := routeTTL(tt.method, tt.pattern)
		if ok != tt.ok {
			t.Fatalf("%s: expected ok=%v got %v", tt.name, tt.ok, ok)
		}
		if ok && ttl != defaultIdempotencyTTL {
			t.Fatalf("%s: expected ttl=%v got %v", tt.name, defaultIdempotencyTTL, ttl)
		}
	}
}

func TestIdempotencyMiddlewareRequiresHeader(t *testing.T) {
	mw := Idempotency(newFakeStore(), nil)
	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusCreated)
	})

	req := requestWithPattern(http.MethodPost, "/customer/orders", "/customer/orders", strings.NewReader(`{"address_id":"a"}`))
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
	if handlerCalled {
		t.Fatalf("handler should not run without idempotency key")
	}
}

func TestIdempotencyMiddlewareIgnoresUnguardedRoutes(t *testing.T) {
	mw := Idempotency(newFakeStore(), nil)
	req := requestWithPattern(http.MethodPost, "/customer/cart", "/customer/cart", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestIdempotencyMiddlewareReplaysStoredResponse(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil)
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	for i := 0; i < 2; i++ {
		req := requestWithPattern(http.MethodPost, "/customer/orders", "/customer/orders", strings.NewReader(`{"address_id":"a"}`))
		req.Header.Set("Idempotency-Key", "abc")
		rec := httptest.NewRecorder()
		mw(handler).ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("attempt %d: expected 201 got %d", i, rec.Code)
		}
		if rec.Header().Get("Content-Type") != "application/json" {
			t.Fatalf("expected content-type header preserved")
		}
		if strings.TrimSpace(rec.Body.String()) != `{"success":true}` {
			t.Fatalf("unexpected body %s", rec.Body.String())
		}
		if i == 1 && rec.Header().Get("Idempotent-Replayed") != "true" {
			t.Fatalf("expected replay marker")
		}
	}
	if calls != 1 {
		t.Fatalf("handler executed %d times, expected 1", calls)
	}
}

func TestIdempotencyMiddlewareDoesNotStoreServerErrors(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil)
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	for i := 0; i < 2; i++ {
		req := requestWithPattern(http.MethodPost, "/customer/orders", "/customer/orders", strings.NewReader(`{}`))
		req.Header.Set("Idempotency-Key", "retry-me")
		mw(handler).ServeHTTP(httptest.NewRecorder(), req)
	}
	if calls != 2 {
		t.Fatalf("expected both attempts to reach the handler, got %d", calls)
	}
}

func TestIdempotencyMiddlewareDetectsBodyChange(t *testing.T) {
	mw := Idempotency(newFakeStore(), nil)

	req := requestWithPattern(http.MethodPost, "/customer/orders/1/cancel", "/customer/orders/{id}/cancel", strings.NewReader(`{"reason":"late"}`))
	req.Header.Set("Idempotency-Key", "xyz")
	mw(okHandler()).ServeHTTP(httptest.NewRecorder(), req)

	replay := requestWithPattern(http.MethodPost, "/customer/orders/1/cancel", "/customer/orders/{id}/cancel", strings.NewReader(`{"reason":"changed my mind"}`))
	replay.Header.Set("Idempotency-Key", "xyz")
	resp := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(resp, replay)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	var payload struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse error response: %v", err)
	}
	if payload.Code != string(pkgerrors.CodeIdempotency) {
		t.Fatalf("expected error code %s got %s", pkgerrors.CodeIdempotency, payload.Code)
	}
}

func TestIdempotencyMiddlewareRejectsConcurrentDuplicate(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil)
	body := `{"address_id":"a"}`
	var calls int

	var inner http.Handler
	outer := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		// A duplicate arrives while the first request is still running.
		dup := requestWithPattern(http.MethodPost, "/customer/orders", "/customer/orders", strings.NewReader(body))
		dup.Header.Set("Idempotency-Key", "same")
		dupResp := httptest.NewRecorder()
		inner.ServeHTTP(dupResp, dup)
		if dupResp.Code != http.StatusConflict {
			t.Fatalf("expected in-flight duplicate to get 409, got %d", dupResp.Code)
		}
		if !strings.Contains(dupResp.Body.String(), "still being processed") {
			t.Fatalf("unexpected duplicate body %s", dupResp.Body.String())
		}
		w.WriteHeader(http.StatusCreated)
	})
	inner = mw(outer)

	req := requestWithPattern(http.MethodPost, "/customer/orders", "/customer/orders", strings.NewReader(body))
	req.Header.Set("Idempotency-Key", "same")
	resp := httptest.NewRecorder()
	inner.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if calls != 1 {
		t.Fatalf("handler executed %d times, expected 1", calls)
	}

	replay := requestWithPattern(http.MethodPost, "/customer/orders", "/customer/orders", strings.NewReader(body))
	replay.Header.Set("Idempotency-Key", "same")
	replayResp := httptest.NewRecorder()
	inner.ServeHTTP(replayResp, replay)
	if replayResp.Code != http.StatusCreated || replayResp.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatalf("expected stored replay, got %d", replayResp.Code)
	}
}

func TestIdempotencyMiddlewareReleasesKeyOnPanic(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil)
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })

	req := requestWithPattern(http.MethodPost, "/customer/orders", "/customer/orders", strings.NewReader(`{}`))
	req.Header.Set("Idempotency-Key", "crash")
	func() {
		defer func() { _ = recover() }()
		mw(panicking).ServeHTTP(httptest.NewRecorder(), req)
	}()

	if len(store.data) != 0 {
		t.Fatalf("expected reservation to be released, found %v", store.data)
	}
}
