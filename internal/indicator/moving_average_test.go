package indicator

import (
	"math"
	"testing"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type MovingAverageTestSuite struct {
	suite.Suite
}

func TestMovingAverageSuite(t *testing.T) {
	suite.Run(t, new(MovingAverageTestSuite))
}

func (suite *MovingAverageTestSuite) TestSMA() {
	out, err := NewSMA(3).Compute(barsFromCloses(1, 2, 3, 4, 5))
	suite.Require().NoError(err)

	values := out["SMA_3"]
	suite.True(math.IsNaN(values[0]))
	suite.True(math.IsNaN(values[1]))
	suite.InDelta(2.0, values[2], 1e-12)
	suite.InDelta(3.0, values[3], 1e-12)
	suite.InDelta(4.0, values[4], 1e-12)
}

func (suite *MovingAverageTestSuite) TestSMAShortSeries() {
	out, err := NewSMA(20).Compute(barsFromCloses(1, 2, 3))
	suite.Require().NoError(err)

	for _, v := range out["SMA_20"] {
		suite.True(math.IsNaN(v))
	}
}

func (suite *MovingAverageTestSuite) TestEMA() {
	out, err := NewEMA(3).Compute(barsFromCloses(1, 2, 3, 4, 5))
	suite.Require().NoError(err)

	values := out["EMA_3"]
	suite.True(math.IsNaN(values[1]))
	// seeded with SMA(1,2,3), alpha = 0.5
	suite.InDelta(2.0, values[2], 1e-12)
	suite.InDelta(3.0, values[3], 1e-12)
	suite.InDelta(4.0, values[4], 1e-12)
}

func (suite *MovingAverageTestSuite) TestNames() {
	suite.Equal("sma_20", NewSMA(20).Name())
	suite.Equal(types.IndicatorTypeSMA, NewSMA(20).Type())
	suite.Equal([]string{ColumnSMA50}, NewSMA(50).Columns())
	suite.Equal("ema_12", NewEMA(12).Name())
	suite.Equal([]string{ColumnEMA26}, NewEMA(26).Columns())
}

func (suite *MovingAverageTestSuite) TestConfig() {
	tests := []struct {
		name         string
		params       []any
		expectedCode errors.ErrorCode
		expected     string
	}{
		{name: "int period", params: []any{10}, expected: "SMA_10"},
		{name: "float period", params: []any{15.0}, expected: "SMA_15"},
		{name: "no params", params: []any{}, expectedCode: errors.ErrCodeMissingParameter},
		{name: "string period", params: []any{"x"}, expectedCode: errors.ErrCodeInvalidType},
		{name: "zero period", params: []any{0}, expectedCode: errors.ErrCodeInvalidPeriod},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			indicator := NewSMA(20)

			err := indicator.Config(tt.params...)
			if tt.expectedCode != 0 {
				suite.True(errors.HasCode(err, tt.expectedCode))
			} else {
				suite.NoError(err)
				suite.Equal([]string{tt.expected}, indicator.Columns())
			}
		})
	}
}
