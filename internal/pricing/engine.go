package pricing

import (
	"context"

	"go.uber.org/zap"

	"github.com/rmit-fsd-2025-s1/shipping-estimator/internal/shipping"
)

// Source identifies which path produced a quote.
type Source string

const (
	// SourceRemote marks quotes returned by the external pricing service.
	SourceRemote Source = "remote"
	// SourceFallback marks quotes computed by the local formula.
	SourceFallback Source = "fallback"
)

// TariffSource supplies the current rate card for the fallback formula.
type TariffSource interface {
	GetTariff() (shipping.Tariff, error)
}

// Engine composes the remote pricing service with the local fallback formula.
// Remote failures are absorbed: they are logged for diagnostics and the local
// formula answers instead, so Quote never fails.
type Engine struct {
	provider Provider
	tariffs  TariffSource
	logger   *zap.Logger
}

// NewEngine constructs an Engine. A nil provider disables the remote path and
// every quote is computed locally.
func NewEngine(provider Provider, tariffs TariffSource, logger *zap.Logger) *Engine {
	return &Engine{
		provider: provider,
		tariffs:  tariffs,
		logger:   logger,
	}
}

// Quote prices pkg, preferring the remote service when one is configured.
// The caller must have validated pkg first.
func (e *Engine) Quote(ctx context.Context, pkg shipping.Package) (shipping.Quote, Source) {
	if e.provider != nil {
		quote, err := e.provider.Estimate(ctx, pkg)
		if err == nil {
			return quote, SourceRemote
		}
		e.logger.Warn("pricing service unavailable, using fallback formula", zap.Error(err))
	}

	tariff, err := e.tariffs.GetTariff()
	if err != nil {
		e.logger.Warn("tariff lookup failed, using default tariff", zap.Error(err))
		tariff = shipping.DefaultTariff()
	}

	return shipping.Calculate(pkg, tariff), SourceFallback
}
