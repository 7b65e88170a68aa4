package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-backend/api/middleware"
	"github.com/angelmondragon/marketplace-backend/internal/auth"
	"github.com/angelmondragon/marketplace-backend/internal/cart"
	"github.com/angelmondragon/marketplace-backend/internal/dashboard"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

type envelope struct {
	Success bool              `json:"success"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env
}

func jsonRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func asCaller(req *http.Request, role enums.Role, id uuid.UUID) *http.Request {
	return req.WithContext(middleware.WithIdentity(req.Context(), role, id, "jti-1"))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

type stubAuth struct {
	auth.Service
	sendCalls int
	verify    *auth.AuthResponse
	err       error
	revoked   string
}

func (s *stubAuth) SendOTP(context.Context, enums.Role, auth.SendOTPRequest) (*auth.SendOTPResponse, error) {
	s.sendCalls++
	return &auth.SendOTPResponse{ExpiresIn: 600}, s.err
}

func (s *stubAuth) VerifyOTP(context.Context, enums.Role, auth.VerifyOTPRequest) (*auth.AuthResponse, error) {
	return s.verify, s.err
}

func (s *stubAuth) Logout(_ context.Context, jti string) error {
	s.revoked = jti
	return s.err
}

func TestSendOTPNeverEchoesCode(t *testing.T) {
	svc := &stubAuth{}
	rec := httptest.NewRecorder()
	SendOTP(svc, enums.RoleCustomer, logger.Nop())(rec, jsonRequest(http.MethodPost, "/customer/auth/send-otp", map[string]string{"mobile": "9876543210"}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "otp\"") {
		t.Fatalf("response must not carry the code: %s", rec.Body.String())
	}
	env := decode(t, rec)
	if env.Message != "OTP sent successfully" || svc.sendCalls != 1 {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestSendOTPRejectsInvalidMobile(t *testing.T) {
	svc := &stubAuth{}
	rec := httptest.NewRecorder()
	SendOTP(svc, enums.RoleCustomer, logger.Nop())(rec, jsonRequest(http.MethodPost, "/", map[string]string{"mobile": "12ab"}))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
	env := decode(t, rec)
	if env.Errors["mobile"] == "" {
		t.Fatalf("expected mobile field error, got %v", env.Errors)
	}
	if svc.sendCalls != 0 {
		t.Fatal("service must not be called on invalid input")
	}
}

func TestVerifyOTPUsesServiceMessage(t *testing.T) {
	svc := &stubAuth{verify: &auth.AuthResponse{Token: "tok", TokenType: "Bearer", Role: enums.RoleVendor, Message: "Registration successful"}}
	rec := httptest.NewRecorder()
	VerifyOTP(svc, enums.RoleVendor, logger.Nop())(rec, jsonRequest(http.MethodPost, "/", map[string]string{"mobile": "9876543210", "otp": "123456"}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	env := decode(t, rec)
	if env.Message != "Registration successful" {
		t.Fatalf("unexpected message %q", env.Message)
	}
	if bytes.Contains(env.Data, []byte("Registration successful")) {
		t.Fatal("message should not be duplicated inside data")
	}
}

func TestVerifyOTPMapsUnauthorized(t *testing.T) {
	svc := &stubAuth{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid or expired OTP")}
	rec := httptest.NewRecorder()
	VerifyOTP(svc, enums.RoleCustomer, logger.Nop())(rec, jsonRequest(http.MethodPost, "/", map[string]string{"mobile": "9876543210", "otp": "000000"}))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestLogoutRevokesCallerSession(t *testing.T) {
	svc := &stubAuth{}
	rec := httptest.NewRecorder()
	req := asCaller(httptest.NewRequest(http.MethodPost, "/customer/auth/logout", nil), enums.RoleCustomer, uuid.New())
	Logout(svc, logger.Nop())(rec, req)

	if rec.Code != http.StatusOK || svc.revoked != "jti-1" {
		t.Fatalf("expected session jti-1 revoked, got %q (%d)", svc.revoked, rec.Code)
	}
}

type stubCart struct {
	cart.Service
	merged   bool
	customer uuid.UUID
}

func (s *stubCart) Add(_ context.Context, customerID uuid.UUID, input cart.AddInput) (*cart.ItemDTO, bool, error) {
	s.customer = customerID
	return &cart.ItemDTO{ID: uuid.New(), ProductID: input.ProductID, Quantity: input.Quantity}, s.merged, nil
}

func TestAddToCartStatusReflectsMerge(t *testing.T) {
	cases := []struct {
		merged bool
		status int
	}{
		{merged: false, status: http.StatusCreated},
		{merged: true, status: http.StatusOK},
	}
	for _, tc := range cases {
		svc := &stubCart{merged: tc.merged}
		customer := uuid.New()
		rec := httptest.NewRecorder()
		req := asCaller(jsonRequest(http.MethodPost, "/customer/cart", map[string]any{"product_id": uuid.New(), "quantity": 2}), enums.RoleCustomer, customer)
		AddToCart(svc, logger.Nop())(rec, req)

		if rec.Code != tc.status {
			t.Fatalf("merged=%v: expected %d got %d", tc.merged, tc.status, rec.Code)
		}
		if svc.customer != customer {
			t.Fatal("expected the caller's id to reach the service")
		}
	}
}

func TestAddToCartRejectsUnknownFields(t *testing.T) {
	rec := httptest.NewRecorder()
	req := asCaller(jsonRequest(http.MethodPost, "/", map[string]any{"product_id": uuid.New(), "quantity": 1, "price": 1}), enums.RoleCustomer, uuid.New())
	AddToCart(&stubCart{}, logger.Nop())(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
}

func TestRemoveCartItemRejectsMalformedID(t *testing.T) {
	rec := httptest.NewRecorder()
	req := withURLParam(asCaller(httptest.NewRequest(http.MethodDelete, "/", nil), enums.RoleCustomer, uuid.New()), "id", "nope")
	RemoveCartItem(&stubCart{}, logger.Nop())(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
}

func TestNilServiceAnswersInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	GetCart(nil, logger.Nop())(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
}

type stubDashboard struct {
	dashboard.Service
	vendorID uuid.UUID
}

func (s *stubDashboard) Vendor(_ context.Context, id uuid.UUID) (*dashboard.VendorDashboard, error) {
	s.vendorID = id
	return &dashboard.VendorDashboard{}, nil
}

func TestDashboardDispatchesOnRole(t *testing.T) {
	svc := &stubDashboard{}
	vendor := uuid.New()
	rec := httptest.NewRecorder()
	Dashboard(svc, logger.Nop())(rec, asCaller(httptest.NewRequest(http.MethodGet, "/", nil), enums.RoleVendor, vendor))

	if rec.Code != http.StatusOK || svc.vendorID != vendor {
		t.Fatalf("expected vendor dashboard for %s, got %d", vendor, rec.Code)
	}

	rec = httptest.NewRecorder()
	Dashboard(svc, logger.Nop())(rec, asCaller(httptest.NewRequest(http.MethodGet, "/", nil), enums.RoleCustomer, uuid.New()))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer, got %d", rec.Code)
	}
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestHealthReadyReportsDependencyFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthReady(logger.Nop(), map[string]Pinger{"db": pinger{}, "redis": pinger{err: errors.New("dial tcp: refused")}})(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "refused") {
		t.Fatalf("dependency error leaked: %s", rec.Body.String())
	}
}

func TestHealthReadyOK(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthReady(logger.Nop(), map[string]Pinger{"db": pinger{}})(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}
