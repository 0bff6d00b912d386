package indicator

import (
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// RSI represents the Relative Strength Index indicator using Wilder's smoothing.
// It needs period price changes, so the first value is at index period.
type RSI struct {
	period int
}

// NewRSI creates a new RSI indicator with default configuration.
func NewRSI() Indicator {
	return &RSI{
		period: 14, // Default period
	}
}

// Name returns the name of the indicator.
func (r *RSI) Name() string {
	return string(types.IndicatorTypeRSI)
}

func (r *RSI) Type() types.IndicatorType {
	return types.IndicatorTypeRSI
}

func (r *RSI) Columns() []string {
	return []string{ColumnRSI}
}

// Config configures the RSI indicator. Expected parameters: period (int).
func (r *RSI) Config(params ...any) error {
	if len(params) < 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects at least 1 parameter: period (int)")
	}

	period, err := parsePeriod(params[0], "period")
	if err != nil {
		return err
	}

	r.period = period

	return nil
}

// Compute maps the ratio of average gains to average losses to [0, 100].
// The value is 100 when the average loss is zero.
func (r *RSI) Compute(bars []types.MarketData) (map[string][]float64, error) {
	prices := closes(bars)
	out := undefined(len(prices))

	if len(prices) <= r.period {
		return map[string][]float64{ColumnRSI: out}, nil
	}

	avgGain := 0.0
	avgLoss := 0.0

	// First average
	for i := 1; i <= r.period; i++ {
		gain, loss := splitChange(prices[i] - prices[i-1])
		avgGain += gain
		avgLoss += loss
	}

	avgGain /= float64(r.period)
	avgLoss /= float64(r.period)
	out[r.period] = rsiValue(avgGain, avgLoss)

	// Subsequent averages using Wilder's smoothing method
	for i := r.period + 1; i < len(prices); i++ {
		gain, loss := splitChange(prices[i] - prices[i-1])
		avgGain = (avgGain*float64(r.period-1) + gain) / float64(r.period)
		avgLoss = (avgLoss*float64(r.period-1) + loss) / float64(r.period)
		out[i] = rsiValue(avgGain, avgLoss)
	}

	return map[string][]float64{ColumnRSI: out}, nil
}

func splitChange(change float64) (gain, loss float64) {
	if change > 0 {
		return change, 0
	}

	return 0, -change
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss

	return 100 - (100 / (1 + rs))
}
