package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// BollingerBands represents the Bollinger Bands indicator.
// Middle is the SMA of the period; upper and lower are middle +/- multiplier times
// the population standard deviation of the same window.
type BollingerBands struct {
	period     int
	multiplier float64
}

// NewBollingerBands creates a new Bollinger Bands indicator with period 20 and multiplier 2.
func NewBollingerBands() Indicator {
	return &BollingerBands{
		period:     20,
		multiplier: 2.0,
	}
}

// Name returns the name of the indicator.
func (bb *BollingerBands) Name() string {
	return string(types.IndicatorTypeBollingerBands)
}

func (bb *BollingerBands) Type() types.IndicatorType {
	return types.IndicatorTypeBollingerBands
}

func (bb *BollingerBands) Columns() []string {
	return []string{ColumnBollingerUpper, ColumnBollingerMiddle, ColumnBollingerLower}
}

// Config expects parameters: period (int), multiplier (float64).
func (bb *BollingerBands) Config(params ...any) error {
	if len(params) != 2 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 2 parameters: period (int), multiplier (float64)")
	}

	period, err := parsePeriod(params[0], "period")
	if err != nil {
		return err
	}

	multiplier, ok := params[1].(float64)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for multiplier parameter, expected float64")
	}

	if multiplier <= 0 {
		return errors.Newf(errors.ErrCodeInvalidMultiplier, "multiplier must be a positive number, got %f", multiplier)
	}

	bb.period = period
	bb.multiplier = multiplier

	return nil
}

func (bb *BollingerBands) Compute(bars []types.MarketData) (map[string][]float64, error) {
	prices := closes(bars)
	upper := undefined(len(prices))
	middle := undefined(len(prices))
	lower := undefined(len(prices))

	n := float64(bb.period)
	sum := 0.0
	sumSq := 0.0

	for i, price := range prices {
		sum += price
		sumSq += price * price

		if i >= bb.period {
			old := prices[i-bb.period]
			sum -= old
			sumSq -= old * old
		}

		if i < bb.period-1 {
			continue
		}

		mean := sum / n
		// rounding can push the rolling variance slightly below zero
		variance := math.Max(sumSq/n-mean*mean, 0)
		std := math.Sqrt(variance)

		middle[i] = mean
		upper[i] = mean + bb.multiplier*std
		lower[i] = mean - bb.multiplier*std
	}

	return map[string][]float64{
		ColumnBollingerUpper:  upper,
		ColumnBollingerMiddle: middle,
		ColumnBollingerLower:  lower,
	}, nil
}
