package indicator

import (
	"fmt"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// EMA represents the Exponential Moving Average indicator.
// The first value at index period-1 is the SMA of the first period closes, after which
// EMA = alpha*close + (1-alpha)*previous EMA with alpha = 2/(period+1).
type EMA struct {
	period int
}

// NewEMA creates a new EMA indicator over the given period.
func NewEMA(period int) Indicator {
	return &EMA{
		period: period,
	}
}

// Name returns the name of the indicator.
func (e *EMA) Name() string {
	return fmt.Sprintf("%s_%d", types.IndicatorTypeEMA, e.period)
}

func (e *EMA) Type() types.IndicatorType {
	return types.IndicatorTypeEMA
}

func (e *EMA) Columns() []string {
	return []string{fmt.Sprintf("EMA_%d", e.period)}
}

// Config expects parameters: period (int).
func (e *EMA) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: period (int)")
	}

	period, err := parsePeriod(params[0], "period")
	if err != nil {
		return err
	}

	e.period = period

	return nil
}

func (e *EMA) Compute(bars []types.MarketData) (map[string][]float64, error) {
	return map[string][]float64{
		e.Columns()[0]: ema(closes(bars), e.period, 0),
	}, nil
}
