package indicator

import (
	"github.com/rxtech-lab/argo-quant/internal/types"
)

// OnBalanceVolume is a running volume total that adds the bar volume when the close rises,
// subtracts it when the close falls and is unchanged otherwise. OBV[0] is the first volume.
type OnBalanceVolume struct{}

func NewOnBalanceVolume() Indicator {
	return &OnBalanceVolume{}
}

func (o *OnBalanceVolume) Name() string {
	return string(types.IndicatorTypeOBV)
}

func (o *OnBalanceVolume) Type() types.IndicatorType {
	return types.IndicatorTypeOBV
}

func (o *OnBalanceVolume) Columns() []string {
	return []string{ColumnOnBalanceVolume}
}

// Config takes no parameters.
func (o *OnBalanceVolume) Config(params ...any) error {
	return nil
}

func (o *OnBalanceVolume) Compute(bars []types.MarketData) (map[string][]float64, error) {
	out := make([]float64, len(bars))

	for i, bar := range bars {
		switch {
		case i == 0:
			out[i] = bar.Volume
		case bar.Close > bars[i-1].Close:
			out[i] = out[i-1] + bar.Volume
		case bar.Close < bars[i-1].Close:
			out[i] = out[i-1] - bar.Volume
		default:
			out[i] = out[i-1]
		}
	}

	return map[string][]float64{ColumnOnBalanceVolume: out}, nil
}

// AccumulationDistribution is the running sum of the close location value times volume,
// where CLV = ((close-low) - (high-close)) / (high-low), or 0 when high equals low.
type AccumulationDistribution struct{}

func NewAccumulationDistribution() Indicator {
	return &AccumulationDistribution{}
}

func (a *AccumulationDistribution) Name() string {
	return string(types.IndicatorTypeAD)
}

func (a *AccumulationDistribution) Type() types.IndicatorType {
	return types.IndicatorTypeAD
}

func (a *AccumulationDistribution) Columns() []string {
	return []string{ColumnAccumulationLine}
}

// Config takes no parameters.
func (a *AccumulationDistribution) Config(params ...any) error {
	return nil
}

func (a *AccumulationDistribution) Compute(bars []types.MarketData) (map[string][]float64, error) {
	out := make([]float64, len(bars))
	total := 0.0

	for i, bar := range bars {
		if span := bar.High - bar.Low; span > 0 {
			clv := ((bar.Close - bar.Low) - (bar.High - bar.Close)) / span
			total += clv * bar.Volume
		}

		out[i] = total
	}

	return map[string][]float64{ColumnAccumulationLine: out}, nil
}
