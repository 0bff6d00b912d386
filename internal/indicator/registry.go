package indicator

import (
	"sync"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// IndicatorRegistry manages the indicators applied to a series.
type IndicatorRegistry interface {
	RegisterIndicator(indicator Indicator) error
	GetIndicator(name string) (Indicator, error)
	ListIndicators() []string
	RemoveIndicator(name string) error
	// Compute applies every registered indicator, in registration order, to the series.
	Compute(series types.Series) (*Frame, error)
}

// IndicatorRegistryV1 manages all available indicators.
type IndicatorRegistryV1 struct {
	indicators map[string]Indicator
	order      []string
	mu         sync.RWMutex
}

// NewIndicatorRegistry creates a new, empty indicator registry.
func NewIndicatorRegistry() IndicatorRegistry {
	return &IndicatorRegistryV1{
		indicators: make(map[string]Indicator),
		order:      make([]string, 0),
		mu:         sync.RWMutex{},
	}
}

// NewDefaultRegistry returns a registry holding the standard indicator set:
// SMA(20), SMA(50), EMA(12), EMA(26), RSI(14), MACD(12,26,9), Bollinger(20,2),
// Momentum(10), ROC(10), OBV, A/D line and rolling volatility(20).
func NewDefaultRegistry() IndicatorRegistry {
	registry := NewIndicatorRegistry()

	for _, indicator := range []Indicator{
		NewSMA(20),
		NewSMA(50),
		NewEMA(12),
		NewEMA(26),
		NewRSI(),
		NewMACD(),
		NewBollingerBands(),
		NewMomentum(),
		NewRateOfChange(),
		NewOnBalanceVolume(),
		NewAccumulationDistribution(),
		NewVolatility(),
	} {
		// names are unique by construction
		_ = registry.RegisterIndicator(indicator)
	}

	return registry
}

// RegisterIndicator adds an indicator to the registry.
func (r *IndicatorRegistryV1) RegisterIndicator(indicator Indicator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := indicator.Name()
	if _, exists := r.indicators[name]; exists {
		return errors.Newf(errors.ErrCodeIndicatorAlreadyExists, "indicator with name %s already registered", name)
	}

	r.indicators[name] = indicator
	r.order = append(r.order, name)

	return nil
}

// GetIndicator retrieves an indicator by name.
func (r *IndicatorRegistryV1) GetIndicator(name string) (Indicator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	indicator, exists := r.indicators[name]
	if !exists {
		return nil, errors.Newf(errors.ErrCodeIndicatorNotFound, "indicator with name %s not found", name)
	}

	return indicator, nil
}

// ListIndicators returns the registered indicator names in registration order.
func (r *IndicatorRegistryV1) ListIndicators() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)

	return names
}

// RemoveIndicator removes an indicator from the registry.
func (r *IndicatorRegistryV1) RemoveIndicator(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.indicators[name]; !exists {
		return errors.Newf(errors.ErrCodeIndicatorNotFound, "indicator with name %s not found", name)
	}

	delete(r.indicators, name)

	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)

			break
		}
	}

	return nil
}

// Compute validates the series and runs every registered indicator over it.
func (r *IndicatorRegistryV1) Compute(series types.Series) (*Frame, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	frame := newFrame(series)

	for _, name := range r.order {
		indicator := r.indicators[name]

		columns, err := indicator.Compute(series.Bars)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "failed to compute indicator %s", name)
		}

		for _, column := range indicator.Columns() {
			frame.setColumn(column, columns[column])
		}
	}

	return frame, nil
}

// Compute runs the default indicator set over the series.
func Compute(series types.Series) (*Frame, error) {
	return NewDefaultRegistry().Compute(series)
}
