package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/rmit-fsd-2025-s1/shipping-estimator/internal/pricing"
	"github.com/rmit-fsd-2025-s1/shipping-estimator/internal/shipping"
	"github.com/rmit-fsd-2025-s1/shipping-estimator/internal/storage"
)

type controllableClock struct {
	mu  sync.RWMutex
	now time.Time
}

func newControllableClock(initial time.Time) *controllableClock {
	return &controllableClock{now: initial}
}

func (c *controllableClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

func (c *controllableClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// setupTestRouter uses an engine without a remote provider, so quotes are
// deterministic fallback computations.
func setupTestRouter(t *testing.T) (http.Handler, *controllableClock) {
	t.Helper()

	store := storage.NewMemoryStorage()
	logger := zaptest.NewLogger(t)
	engine := pricing.NewEngine(nil, store, logger)
	clock := newControllableClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	handler := NewHandler(engine, store, WithClock(clock.Now))
	router := NewRouter(handler, logger, WithLogging(false))

	return router, clock
}

func validQuotePayload() map[string]any {
	return map[string]any{
		"shippingMethod": "standard",
		"weight":         2.5,
		"dimensions": map[string]any{
			"length": 25,
			"width":  20,
			"height": 10,
		},
		"destinationZone": "domestic",
	}
}

func postJSON(t *testing.T, router http.Handler, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequestIDHelpers(t *testing.T) {
	ctx := contextWithRequestID(context.Background(), "abc")
	if got := requestIDFromContext(ctx); got != "abc" {
		t.Fatalf("expected abc, got %s", got)
	}
	resp := httptest.NewRecorder()
	writeInternalError(resp, assertError("boom"))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 status, got %d", resp.Code)
	}
}

type assertError string

func (a assertError) Error() string { return string(a) }

func TestHealthEndpoint(t *testing.T) {
	router, clock := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if body.Status != "ok" {
		t.Fatalf("expected status ok, got %s", body.Status)
	}
	if !body.Timestamp.Equal(clock.Now()) {
		t.Fatalf("expected timestamp %s, got %s", clock.Now(), body.Timestamp)
	}
}

func TestGetTariffReturnsDefaults(t *testing.T) {
	router, clock := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/tariff", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Tariff    shipping.Tariff `json:"tariff"`
		UpdatedAt time.Time       `json:"updatedAt"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if want := shipping.DefaultTariff(); body.Tariff != want {
		t.Fatalf("expected default tariff %+v, got %+v", want, body.Tariff)
	}
	if !body.UpdatedAt.Equal(clock.Now()) {
		t.Fatalf("expected updatedAt %s, got %s", clock.Now(), body.UpdatedAt)
	}
}

func TestPutTariffUpdatesStorage(t *testing.T) {
	router, clock := setupTestRouter(t)

	clock.Advance(time.Hour)

	payload := map[string]any{
		"baseRate":             18.00,
		"surchargeThresholdKg": 2.0,
		"surchargePerKg":       3.0,
	}
	rec := putJSON(t, router, "/api/tariff", payload)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Tariff    shipping.Tariff `json:"tariff"`
		UpdatedAt time.Time       `json:"updatedAt"`
		Message   string          `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if body.Message == "" {
		t.Fatalf("expected success message, got empty string")
	}
	want := shipping.Tariff{BaseRate: 18.00, SurchargeThresholdKg: 2.0, SurchargePerKg: 3.0}
	if body.Tariff != want {
		t.Fatalf("expected tariff %+v, got %+v", want, body.Tariff)
	}
	if !body.UpdatedAt.Equal(clock.Now()) {
		t.Fatalf("expected updatedAt %s, got %s", clock.Now(), body.UpdatedAt)
	}
}

func TestPutTariffValidatesInput(t *testing.T) {
	router, _ := setupTestRouter(t)

	payload := map[string]any{
		"baseRate":             0,
		"surchargeThresholdKg": 1,
		"surchargePerKg":       2.5,
	}
	rec := putJSON(t, router, "/api/tariff", payload)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestQuoteEndpointSuccess(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := postJSON(t, router, "/api/quote", validQuotePayload())

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		ShippingCost          float64            `json:"shippingCost"`
		EstimatedDeliveryDays int                `json:"estimatedDeliveryDays"`
		Breakdown             shipping.Breakdown `json:"breakdown"`
		Source                string             `json:"source"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if body.ShippingCost != 26.25 {
		t.Fatalf("expected cost 26.25, got %v", body.ShippingCost)
	}
	if body.EstimatedDeliveryDays != 7 {
		t.Fatalf("expected 7 delivery days, got %d", body.EstimatedDeliveryDays)
	}
	if body.Source != "fallback" {
		t.Fatalf("expected fallback source, got %s", body.Source)
	}
	if body.Breakdown.SizeCategory != "Small" || body.Breakdown.WeightSurcharge != 3.75 {
		t.Fatalf("unexpected breakdown: %+v", body.Breakdown)
	}
}

func TestQuoteEndpointRejectsInvalidPackage(t *testing.T) {
	router, _ := setupTestRouter(t)

	payload := validQuotePayload()
	payload["shippingMethod"] = "overnight"
	payload["weight"] = 6

	rec := postJSON(t, router, "/api/quote", payload)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}

	var body struct {
		Error  string            `json:"error"`
		Errors map[string]string `json:"errors"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if body.Error == "" {
		t.Fatalf("expected error summary to be populated")
	}
	if len(body.Errors) != 1 {
		t.Fatalf("expected a single weight error, got %v", body.Errors)
	}
	if _, ok := body.Errors["weight"]; !ok {
		t.Fatalf("expected weight error, got %v", body.Errors)
	}
}

func TestQuoteEndpointRejectsMalformedJSON(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/quote", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestQuoteEndpointUsesRemoteQuoter(t *testing.T) {
	store := storage.NewMemoryStorage()
	logger := zaptest.NewLogger(t)
	quote := shipping.Quote{ShippingCost: 99.99, EstimatedDeliveryDays: 2}
	handler := NewHandler(&staticQuoter{quote: quote, source: pricing.SourceRemote}, store)
	router := NewRouter(handler, logger, WithLogging(false))

	rec := postJSON(t, router, "/api/quote", validQuotePayload())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		ShippingCost float64 `json:"shippingCost"`
		Source       string  `json:"source"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.ShippingCost != 99.99 || body.Source != "remote" {
		t.Fatalf("expected remote quote, got %+v", body)
	}
}

func TestValidateEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := postJSON(t, router, "/api/validate", validQuotePayload())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Valid  bool              `json:"valid"`
		Errors map[string]string `json:"errors"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !body.Valid || len(body.Errors) != 0 {
		t.Fatalf("expected a valid verdict, got %+v", body)
	}

	payload := validQuotePayload()
	payload["destinationZone"] = "lunar"
	rec = postJSON(t, router, "/api/validate", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Valid {
		t.Fatalf("expected invalid verdict, got %+v", body)
	}
	if _, ok := body.Errors["destinationZone"]; !ok {
		t.Fatalf("expected destinationZone error, got %v", body.Errors)
	}
}

func TestCorsPreflight(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/quote", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("expected Access-Control-Allow-Origin header to be set")
	}
}

func TestRequestIDPropagation(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "test-request-id")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "test-request-id" {
		t.Fatalf("expected X-Request-ID header to be echoed, got %s", got)
	}
}

type staticQuoter struct {
	quote  shipping.Quote
	source pricing.Source
}

func (s *staticQuoter) Quote(_ context.Context, _ shipping.Package) (shipping.Quote, pricing.Source) {
	return s.quote, s.source
}

func putJSON(t *testing.T, router http.Handler, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPut, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
