package types

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type MarketTestSuite struct {
	suite.Suite
}

func TestMarketSuite(t *testing.T) {
	suite.Run(t, new(MarketTestSuite))
}

func bar(day int, close float64) MarketData {
	return MarketData{
		Symbol: "AAPL",
		Time:   time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		Open:   close,
		High:   close + 1,
		Low:    close - 1,
		Close:  close,
		Volume: 1000,
	}
}

func (suite *MarketTestSuite) TestMarketDataValidate() {
	tests := []struct {
		name      string
		data      MarketData
		expectErr bool
	}{
		{
			name:      "valid bar",
			data:      bar(1, 100),
			expectErr: false,
		},
		{
			name: "zero close",
			data: MarketData{
				Symbol: "AAPL", Time: time.Now(), Open: 1, High: 1, Low: 1, Close: 0, Volume: 1,
			},
			expectErr: true,
		},
		{
			name: "negative low",
			data: MarketData{
				Symbol: "AAPL", Time: time.Now(), Open: 1, High: 1, Low: -1, Close: 1, Volume: 1,
			},
			expectErr: true,
		},
		{
			name: "negative volume",
			data: MarketData{
				Symbol: "AAPL", Time: time.Now(), Open: 1, High: 1, Low: 1, Close: 1, Volume: -5,
			},
			expectErr: true,
		},
		{
			name: "zero volume is allowed",
			data: MarketData{
				Symbol: "AAPL", Time: time.Now(), Open: 1, High: 1, Low: 1, Close: 1, Volume: 0,
			},
			expectErr: false,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			err := tt.data.Validate()
			if tt.expectErr {
				suite.Error(err)
				suite.True(errors.HasCode(err, errors.ErrCodeDataIntegrity))
			} else {
				suite.NoError(err)
			}
		})
	}
}

func (suite *MarketTestSuite) TestSeriesValidateRejectsNonMonotonicTime() {
	series := NewSeries("AAPL", []MarketData{bar(1, 10), bar(3, 11), bar(2, 12)})

	err := series.Validate()
	suite.Error(err)
	suite.True(errors.IsDataIntegrityError(err))
}

func (suite *MarketTestSuite) TestSeriesValidateRejectsForeignBars() {
	empty := bar(2, 11)
	empty.Symbol = ""

	other := bar(2, 11)
	other.Symbol = "MSFT"

	tests := []struct {
		name   string
		series Series
	}{
		{"bar without symbol", NewSeries("AAPL", []MarketData{bar(1, 10), empty})},
		{"bar of another symbol", NewSeries("AAPL", []MarketData{bar(1, 10), other})},
		{"series without symbol", NewSeries("", []MarketData{bar(1, 10)})},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			err := tt.series.Validate()
			suite.Error(err)
			suite.True(errors.IsDataIntegrityError(err))
		})
	}
}

func (suite *MarketTestSuite) TestSeriesValidateRejectsDuplicateTime() {
	series := NewSeries("AAPL", []MarketData{bar(1, 10), bar(1, 11)})

	suite.Error(series.Validate())
}

func (suite *MarketTestSuite) TestSeriesValidateEmpty() {
	series := NewSeries("AAPL", nil)

	suite.NoError(series.Validate())
	suite.Equal(0, series.Len())
}

func (suite *MarketTestSuite) TestSeriesCloses() {
	series := NewSeries("AAPL", []MarketData{bar(1, 10), bar(2, 11), bar(3, 12)})

	suite.Equal([]float64{10, 11, 12}, series.Closes())
	suite.Equal(3, series.Len())
}

func (suite *MarketTestSuite) TestSeriesBetween() {
	series := NewSeries("AAPL", []MarketData{bar(1, 10), bar(2, 11), bar(3, 12), bar(4, 13)})

	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		expected []float64
	}{
		{
			name:     "open bounds",
			expected: []float64{10, 11, 12, 13},
		},
		{
			name:     "inclusive range",
			start:    time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			end:      time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
			expected: []float64{11, 12},
		},
		{
			name:     "start only",
			start:    time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
			expected: []float64{12, 13},
		},
		{
			name:     "empty range",
			start:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: []float64{},
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			result := series.Between(tt.start, tt.end)
			suite.Equal("AAPL", result.Symbol)
			suite.Equal(tt.expected, result.Closes())
		})
	}
}
