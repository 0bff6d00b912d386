package indicator

import (
	"math"
	"testing"

	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type RSITestSuite struct {
	suite.Suite
}

func TestRSISuite(t *testing.T) {
	suite.Run(t, new(RSITestSuite))
}

func (suite *RSITestSuite) TestWilderSmoothing() {
	rsi := NewRSI()
	suite.Require().NoError(rsi.Config(2))

	out, err := rsi.Compute(barsFromCloses(1, 2, 1, 2))
	suite.Require().NoError(err)

	values := out[ColumnRSI]
	suite.True(math.IsNaN(values[0]))
	suite.True(math.IsNaN(values[1]))
	// gains [1, 0] losses [0, 1] -> 50
	suite.InDelta(50.0, values[2], 1e-9)
	// avgGain (0.5+1)/2 = 0.75, avgLoss (0.5+0)/2 = 0.25 -> rs 3
	suite.InDelta(75.0, values[3], 1e-9)
}

func (suite *RSITestSuite) TestNoLossesIs100() {
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = float64(100 + i)
	}

	out, err := NewRSI().Compute(barsFromCloses(prices...))
	suite.Require().NoError(err)

	suite.True(math.IsNaN(out[ColumnRSI][13]))
	suite.Equal(100.0, out[ColumnRSI][14])
	suite.Equal(100.0, out[ColumnRSI][19])
}

func (suite *RSITestSuite) TestBounded() {
	series := wavySeries(200)

	out, err := NewRSI().Compute(series.Bars)
	suite.Require().NoError(err)

	for _, v := range out[ColumnRSI][14:] {
		suite.GreaterOrEqual(v, 0.0)
		suite.LessOrEqual(v, 100.0)
	}
}

func (suite *RSITestSuite) TestConfigErrors() {
	rsi := NewRSI()

	suite.True(errors.HasCode(rsi.Config(), errors.ErrCodeMissingParameter))
	suite.True(errors.HasCode(rsi.Config("invalid"), errors.ErrCodeInvalidType))
	suite.True(errors.HasCode(rsi.Config(-1), errors.ErrCodeInvalidPeriod))
}
