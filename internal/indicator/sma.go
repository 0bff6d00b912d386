package indicator

import (
	"fmt"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// SMA indicator implements Simple Moving Average calculation.
type SMA struct {
	period int
}

// NewSMA creates a new SMA indicator over the given period.
func NewSMA(period int) Indicator {
	return &SMA{
		period: period,
	}
}

// Name returns the name of the indicator.
func (s *SMA) Name() string {
	return fmt.Sprintf("%s_%d", types.IndicatorTypeSMA, s.period)
}

func (s *SMA) Type() types.IndicatorType {
	return types.IndicatorTypeSMA
}

func (s *SMA) Columns() []string {
	return []string{fmt.Sprintf("SMA_%d", s.period)}
}

// Config expects parameters: period (int).
func (s *SMA) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: period (int)")
	}

	period, err := parsePeriod(params[0], "period")
	if err != nil {
		return err
	}

	s.period = period

	return nil
}

// Compute returns the mean of the last period closes, defined from index period-1.
func (s *SMA) Compute(bars []types.MarketData) (map[string][]float64, error) {
	return map[string][]float64{
		s.Columns()[0]: sma(closes(bars), s.period, 0),
	}, nil
}
