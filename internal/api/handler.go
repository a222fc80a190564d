package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/rmit-fsd-2025-s1/shipping-estimator/internal/pricing"
	"github.com/rmit-fsd-2025-s1/shipping-estimator/internal/shipping"
	"github.com/rmit-fsd-2025-s1/shipping-estimator/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Quoter produces a priced quote for an already validated package.
type Quoter interface {
	Quote(ctx context.Context, pkg shipping.Package) (shipping.Quote, pricing.Source)
}

// Handler wires the pricing engine and tariff storage into HTTP handlers.
type Handler struct {
	quoter  Quoter
	storage storage.Storage

	clock func() time.Time

	mu              sync.RWMutex
	tariffUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(quoter Quoter, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		quoter:  quoter,
		storage: store,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.tariffUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetTariff(w http.ResponseWriter, r *http.Request) {
	_ = r
	tariff, err := h.storage.GetTariff()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := tariffResponse{
		Tariff:    tariff,
		UpdatedAt: h.currentTariffUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutTariff(w http.ResponseWriter, r *http.Request) {
	var req shipping.Tariff
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if err := h.storage.SetTariff(req); err != nil {
		if errors.Is(err, storage.ErrInvalidTariff) {
			writeError(w, http.StatusBadRequest, "Invalid tariff", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markTariffUpdated()

	tariff, err := h.storage.GetTariff()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := tariffResponse{
		Tariff:    tariff,
		UpdatedAt: h.currentTariffUpdatedAt(),
		Message:   "Tariff updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req packageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	validationErrs := shipping.Validate(req.toPackage())
	resp := validateResponse{
		Valid:  len(validationErrs) == 0,
		Errors: validationErrs,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req packageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	pkg := req.toPackage()
	if validationErrs := shipping.Validate(pkg); len(validationErrs) > 0 {
		resp := validationFailedResponse{
			Error:  "Validation failed",
			Errors: validationErrs,
		}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	quote, source := h.quoter.Quote(r.Context(), pkg)
	resp := quoteResponse{
		Quote:  quote,
		Source: source,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) currentTariffUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.tariffUpdatedAt
}

func (h *Handler) markTariffUpdated() {
	h.mu.Lock()
	h.tariffUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// packageRequest is the JSON payload accepted by the validate and quote
// endpoints. Method and zone stay raw strings here so that unrecognized
// values reach the validator instead of failing at decode time.
type packageRequest struct {
	ShippingMethod  string              `json:"shippingMethod"`
	Weight          float64             `json:"weight"`
	Dimensions      shipping.Dimensions `json:"dimensions"`
	DestinationZone string              `json:"destinationZone"`
}

func (r packageRequest) toPackage() shipping.Package {
	return shipping.Package{
		Method:     shipping.Method(r.ShippingMethod),
		Weight:     r.Weight,
		Dimensions: r.Dimensions,
		Zone:       shipping.Zone(r.DestinationZone),
	}
}

type quoteResponse struct {
	shipping.Quote
	Source pricing.Source `json:"source"`
}

type validateResponse struct {
	Valid  bool                      `json:"valid"`
	Errors shipping.ValidationErrors `json:"errors"`
}

type validationFailedResponse struct {
	Error  string                    `json:"error"`
	Errors shipping.ValidationErrors `json:"errors"`
}

type tariffResponse struct {
	Tariff    shipping.Tariff `json:"tariff"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Message   string          `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorResponse{
		Error:   message,
		Details: details,
	})
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
