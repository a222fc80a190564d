package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rmit-fsd-2025-s1/shipping-estimator/internal/shipping"
)

const defaultRemoteTimeout = 10 * time.Second

// RemoteProvider submits packages to an HTTP pricing service and decodes the
// returned quote. Any non-2xx status, transport failure, or malformed body is
// reported as an error; the caller decides how to degrade. Safe for
// concurrent use.
type RemoteProvider struct {
	client *http.Client
	url    string
}

// NewRemoteProvider builds a provider posting to the given endpoint URL.
// A non-positive timeout falls back to a conservative default.
func NewRemoteProvider(url string, timeout time.Duration) (*RemoteProvider, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("pricing service URL is empty")
	}
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	return &RemoteProvider{
		client: &http.Client{Timeout: timeout},
		url:    url,
	}, nil
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("pricing service returned %d: %s", e.Code, e.Body)
}

// quoteRequest is the wire shape the pricing service accepts.
type quoteRequest struct {
	ShippingMethod  string              `json:"shippingMethod"`
	Weight          float64             `json:"weight"`
	Dimensions      shipping.Dimensions `json:"dimensions"`
	DestinationZone string              `json:"destinationZone"`
}

// Estimate posts pkg to the pricing service and awaits a quote. No retries:
// a single failed attempt is enough for the engine to fall back locally.
func (p *RemoteProvider) Estimate(ctx context.Context, pkg shipping.Package) (shipping.Quote, error) {
	payload, err := json.Marshal(quoteRequest{
		ShippingMethod:  string(pkg.Method),
		Weight:          pkg.Weight,
		Dimensions:      pkg.Dimensions,
		DestinationZone: string(pkg.Zone),
	})
	if err != nil {
		return shipping.Quote{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return shipping.Quote{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return shipping.Quote{}, fmt.Errorf("call pricing service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return shipping.Quote{}, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(body)),
		}
	}

	var quote shipping.Quote
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return shipping.Quote{}, fmt.Errorf("decode response: %w", err)
	}
	// A correct pricing service never returns these; treat them as malformed.
	if quote.EstimatedDeliveryDays <= 0 || quote.ShippingCost < 0 {
		return shipping.Quote{}, fmt.Errorf("implausible quote: cost=%.2f days=%d",
			quote.ShippingCost, quote.EstimatedDeliveryDays)
	}

	return quote, nil
}
