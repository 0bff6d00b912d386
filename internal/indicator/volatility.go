package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear annualizes daily statistics.
const TradingDaysPerYear = 252

// Volatility is the sample standard deviation of the last period close-to-close returns,
// annualized by sqrt(252). It is defined from index period.
type Volatility struct {
	period int
}

// NewVolatility creates a rolling volatility indicator over 20 returns.
func NewVolatility() Indicator {
	return &Volatility{period: 20}
}

func (v *Volatility) Name() string {
	return string(types.IndicatorTypeVolatility)
}

func (v *Volatility) Type() types.IndicatorType {
	return types.IndicatorTypeVolatility
}

func (v *Volatility) Columns() []string {
	return []string{ColumnVolatility}
}

// Config expects parameters: period (int), at least 2.
func (v *Volatility) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: period (int)")
	}

	period, err := parsePeriod(params[0], "period")
	if err != nil {
		return err
	}

	if period < 2 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be at least 2, got %d", period)
	}

	v.period = period

	return nil
}

func (v *Volatility) Compute(bars []types.MarketData) (map[string][]float64, error) {
	prices := closes(bars)
	out := undefined(len(prices))

	if len(prices) <= v.period {
		return map[string][]float64{ColumnVolatility: out}, nil
	}

	returns := make([]float64, len(prices))
	for i := 1; i < len(prices); i++ {
		returns[i] = prices[i]/prices[i-1] - 1
	}

	annualize := math.Sqrt(TradingDaysPerYear)

	for i := v.period; i < len(prices); i++ {
		window := returns[i-v.period+1 : i+1]
		out[i] = stat.StdDev(window, nil) * annualize
	}

	return map[string][]float64{ColumnVolatility: out}, nil
}
