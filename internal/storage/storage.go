package storage

import (
	"errors"
	"sync"

	"github.com/rmit-fsd-2025-s1/shipping-estimator/internal/shipping"
)

var (
	// ErrInvalidTariff indicates the provided tariff violates validation rules.
	ErrInvalidTariff = errors.New("tariff requires a positive base rate and non-negative surcharge values")
)

// Storage provides access to the tariff used by the fallback pricing formula.
type Storage interface {
	GetTariff() (shipping.Tariff, error)
	SetTariff(tariff shipping.Tariff) error
}

// MemoryStorage keeps the tariff in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu     sync.RWMutex
	tariff shipping.Tariff
}

// NewMemoryStorage initialises storage with the default tariff.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		tariff: shipping.DefaultTariff(),
	}
}

// GetTariff returns the currently configured tariff.
func (s *MemoryStorage) GetTariff() (shipping.Tariff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.tariff, nil
}

// SetTariff validates and stores the provided tariff.
func (s *MemoryStorage) SetTariff(tariff shipping.Tariff) error {
	if err := validateTariff(tariff); err != nil {
		return err
	}

	s.mu.Lock()
	s.tariff = tariff
	s.mu.Unlock()

	return nil
}

func validateTariff(tariff shipping.Tariff) error {
	if tariff.BaseRate <= 0 {
		return ErrInvalidTariff
	}
	if tariff.SurchargeThresholdKg < 0 || tariff.SurchargePerKg < 0 {
		return ErrInvalidTariff
	}
	return nil
}
