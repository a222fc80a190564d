package pricing

import (
	"context"

	"github.com/rmit-fsd-2025-s1/shipping-estimator/internal/shipping"
)

// Provider is the contract for an external pricing service.
type Provider interface {
	// Estimate returns a priced quote for the package.
	Estimate(ctx context.Context, pkg shipping.Package) (shipping.Quote, error)
}
