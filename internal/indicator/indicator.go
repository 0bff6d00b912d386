package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// Column names produced by the default registry.
const (
	ColumnSMA20            = "SMA_20"
	ColumnSMA50            = "SMA_50"
	ColumnEMA12            = "EMA_12"
	ColumnEMA26            = "EMA_26"
	ColumnRSI              = "RSI"
	ColumnMACD             = "MACD"
	ColumnMACDSignal       = "MACD_signal"
	ColumnMACDHistogram    = "MACD_hist"
	ColumnBollingerUpper   = "BB_upper"
	ColumnBollingerMiddle  = "BB_middle"
	ColumnBollingerLower   = "BB_lower"
	ColumnMomentum         = "MOM"
	ColumnRateOfChange     = "ROC"
	ColumnOnBalanceVolume  = "OBV"
	ColumnAccumulationLine = "AD"
	ColumnVolatility       = "Volatility"
)

// Indicator computes one or more aligned columns from an ordered bar history.
// Output at index i depends only on bars[0..i]. Entries that are not yet available
// are NaN in the returned slices and surface as None through Frame.
type Indicator interface {
	// Name is the registry key of the indicator instance, e.g. "sma_20".
	Name() string
	// Type returns the indicator family.
	Type() types.IndicatorType
	// Columns lists the column names written by Compute.
	Columns() []string
	// Compute returns one slice per column, each len(bars) long.
	Compute(bars []types.MarketData) (map[string][]float64, error)
	// Config configures the indicator. Parameters depend on the indicator.
	Config(params ...any) error
}

// undefined returns a slice of n "not yet available" markers.
func undefined(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}

	return out
}

func closes(bars []types.MarketData) []float64 {
	out := make([]float64, len(bars))
	for i, bar := range bars {
		out[i] = bar.Close
	}

	return out
}

// parsePeriod accepts an int or float64 period parameter.
func parsePeriod(param any, name string) (int, error) {
	period, ok := param.(int)
	if !ok {
		periodFloat, ok := param.(float64)
		if !ok {
			return 0, errors.Newf(errors.ErrCodeInvalidType, "invalid type for %s parameter, expected int or float", name)
		}

		period = int(periodFloat)
	}

	if period <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidPeriod, "%s must be a positive integer, got %d", name, period)
	}

	return period, nil
}

// sma computes a rolling arithmetic mean over values[start:].
func sma(values []float64, period, start int) []float64 {
	out := undefined(len(values))
	if start < 0 || len(values)-start < period {
		return out
	}

	sum := 0.0
	for i := start; i < len(values); i++ {
		sum += values[i]
		if i-start >= period {
			sum -= values[i-period]
		}

		if i-start >= period-1 {
			out[i] = sum / float64(period)
		}
	}

	return out
}

// ema computes an exponential moving average over values[start:] seeded with the SMA of
// its first period entries, so the first output lands at start+period-1.
func ema(values []float64, period, start int) []float64 {
	out := undefined(len(values))
	if start < 0 || len(values)-start < period {
		return out
	}

	alpha := 2.0 / float64(period+1)

	seed := 0.0
	for i := start; i < start+period; i++ {
		seed += values[i]
	}

	first := start + period - 1
	out[first] = seed / float64(period)

	for i := first + 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}

	return out
}

// firstDefined returns the index of the first non-NaN entry, or -1.
func firstDefined(values []float64) int {
	for i, v := range values {
		if !math.IsNaN(v) {
			return i
		}
	}

	return -1
}
