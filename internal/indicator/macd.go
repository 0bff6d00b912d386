package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// MACD represents the Moving Average Convergence Divergence indicator.
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

// NewMACD creates a new MACD indicator with default periods 12, 26 and 9.
func NewMACD() Indicator {
	return &MACD{
		fastPeriod:   12,
		slowPeriod:   26,
		signalPeriod: 9,
	}
}

// Name returns the name of the indicator.
func (m *MACD) Name() string {
	return string(types.IndicatorTypeMACD)
}

func (m *MACD) Type() types.IndicatorType {
	return types.IndicatorTypeMACD
}

func (m *MACD) Columns() []string {
	return []string{ColumnMACD, ColumnMACDSignal, ColumnMACDHistogram}
}

// Config expects parameters: fastPeriod (int), slowPeriod (int), signalPeriod (int).
func (m *MACD) Config(params ...any) error {
	if len(params) != 3 {
		return errors.New(errors.ErrCodeMissingParameter,
			"Config expects 3 parameters: fastPeriod (int), slowPeriod (int), signalPeriod (int)")
	}

	fastPeriod, err := parsePeriod(params[0], "fastPeriod")
	if err != nil {
		return err
	}

	slowPeriod, err := parsePeriod(params[1], "slowPeriod")
	if err != nil {
		return err
	}

	signalPeriod, err := parsePeriod(params[2], "signalPeriod")
	if err != nil {
		return err
	}

	if fastPeriod >= slowPeriod {
		return errors.Newf(errors.ErrCodeInvalidPeriod,
			"fastPeriod (%d) must be less than slowPeriod (%d)", fastPeriod, slowPeriod)
	}

	m.fastPeriod = fastPeriod
	m.slowPeriod = slowPeriod
	m.signalPeriod = signalPeriod

	return nil
}

// Compute returns the MACD line (fast EMA - slow EMA), its signal EMA and the histogram.
// The line is defined from slowPeriod-1, signal and histogram from slowPeriod+signalPeriod-2.
func (m *MACD) Compute(bars []types.MarketData) (map[string][]float64, error) {
	prices := closes(bars)
	fast := ema(prices, m.fastPeriod, 0)
	slow := ema(prices, m.slowPeriod, 0)

	line := undefined(len(prices))
	for i := range prices {
		if !math.IsNaN(fast[i]) && !math.IsNaN(slow[i]) {
			line[i] = fast[i] - slow[i]
		}
	}

	signal := ema(line, m.signalPeriod, firstDefined(line))

	histogram := undefined(len(prices))
	for i := range prices {
		if !math.IsNaN(signal[i]) {
			histogram[i] = line[i] - signal[i]
		}
	}

	return map[string][]float64{
		ColumnMACD:          line,
		ColumnMACDSignal:    signal,
		ColumnMACDHistogram: histogram,
	}, nil
}
