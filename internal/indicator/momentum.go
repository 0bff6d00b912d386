package indicator

import (
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// Momentum is close[i] - close[i-period], defined from index period.
type Momentum struct {
	period int
}

// NewMomentum creates a momentum indicator with period 10.
func NewMomentum() Indicator {
	return &Momentum{period: 10}
}

func (m *Momentum) Name() string {
	return string(types.IndicatorTypeMomentum)
}

func (m *Momentum) Type() types.IndicatorType {
	return types.IndicatorTypeMomentum
}

func (m *Momentum) Columns() []string {
	return []string{ColumnMomentum}
}

// Config expects parameters: period (int).
func (m *Momentum) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: period (int)")
	}

	period, err := parsePeriod(params[0], "period")
	if err != nil {
		return err
	}

	m.period = period

	return nil
}

func (m *Momentum) Compute(bars []types.MarketData) (map[string][]float64, error) {
	prices := closes(bars)
	out := undefined(len(prices))

	for i := m.period; i < len(prices); i++ {
		out[i] = prices[i] - prices[i-m.period]
	}

	return map[string][]float64{ColumnMomentum: out}, nil
}

// RateOfChange is close[i]/close[i-period] - 1 as a ratio, defined from index period.
type RateOfChange struct {
	period int
}

// NewRateOfChange creates a rate-of-change indicator with period 10.
func NewRateOfChange() Indicator {
	return &RateOfChange{period: 10}
}

func (r *RateOfChange) Name() string {
	return string(types.IndicatorTypeROC)
}

func (r *RateOfChange) Type() types.IndicatorType {
	return types.IndicatorTypeROC
}

func (r *RateOfChange) Columns() []string {
	return []string{ColumnRateOfChange}
}

// Config expects parameters: period (int).
func (r *RateOfChange) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: period (int)")
	}

	period, err := parsePeriod(params[0], "period")
	if err != nil {
		return err
	}

	r.period = period

	return nil
}

func (r *RateOfChange) Compute(bars []types.MarketData) (map[string][]float64, error) {
	prices := closes(bars)
	out := undefined(len(prices))

	for i := r.period; i < len(prices); i++ {
		out[i] = prices[i]/prices[i-r.period] - 1
	}

	return map[string][]float64{ColumnRateOfChange: out}, nil
}
