package types

import (
	"time"

	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// MarketData is one OHLCV bar. Bars are produced by a data source and never mutated.
type MarketData struct {
	Symbol string    `yaml:"symbol" json:"symbol" csv:"symbol"`
	Time   time.Time `yaml:"time" json:"time" csv:"time"`
	Open   float64   `yaml:"open" json:"open" csv:"open"`
	High   float64   `yaml:"high" json:"high" csv:"high"`
	Low    float64   `yaml:"low" json:"low" csv:"low"`
	Close  float64   `yaml:"close" json:"close" csv:"close"`
	Volume float64   `yaml:"volume" json:"volume" csv:"volume"`
}

// Validate returns a data integrity error when any price is non-positive or the volume is negative.
func (m MarketData) Validate() error {
	if m.Open <= 0 || m.High <= 0 || m.Low <= 0 || m.Close <= 0 {
		return errors.Newf(errors.ErrCodeDataIntegrity,
			"non-positive price for %s at %s (open=%f high=%f low=%f close=%f)",
			m.Symbol, m.Time.Format(time.RFC3339), m.Open, m.High, m.Low, m.Close)
	}

	if m.Volume < 0 {
		return errors.Newf(errors.ErrCodeDataIntegrity,
			"negative volume for %s at %s (volume=%f)", m.Symbol, m.Time.Format(time.RFC3339), m.Volume)
	}

	return nil
}

// Series is the ordered bar history of a single instrument.
type Series struct {
	Symbol string
	Bars   []MarketData
}

// NewSeries creates a series for the given symbol.
func NewSeries(symbol string, bars []MarketData) Series {
	return Series{Symbol: symbol, Bars: bars}
}

// Len returns the number of bars.
func (s Series) Len() int {
	return len(s.Bars)
}

// Closes returns the close prices in bar order.
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, bar := range s.Bars {
		closes[i] = bar.Close
	}

	return closes
}

// Validate checks every bar, that each bar belongs to the series symbol and that
// timestamps are strictly increasing.
func (s Series) Validate() error {
	for i, bar := range s.Bars {
		if err := bar.Validate(); err != nil {
			return err
		}

		if bar.Symbol == "" || bar.Symbol != s.Symbol {
			return errors.Newf(errors.ErrCodeDataIntegrity,
				"bar %d has symbol %q in a %q series", i, bar.Symbol, s.Symbol)
		}

		if i > 0 && !bar.Time.After(s.Bars[i-1].Time) {
			return errors.Newf(errors.ErrCodeDataIntegrity,
				"non-monotonic timestamp for %s at index %d: %s is not after %s",
				s.Symbol, i, bar.Time.Format(time.RFC3339), s.Bars[i-1].Time.Format(time.RFC3339))
		}
	}

	return nil
}

// Between returns the bars whose time lies within [start, end]. A zero bound is open.
func (s Series) Between(start, end time.Time) Series {
	bars := make([]MarketData, 0, len(s.Bars))

	for _, bar := range s.Bars {
		if !start.IsZero() && bar.Time.Before(start) {
			continue
		}

		if !end.IsZero() && bar.Time.After(end) {
			continue
		}

		bars = append(bars, bar)
	}

	return Series{Symbol: s.Symbol, Bars: bars}
}
