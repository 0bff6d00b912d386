package indicator

import (
	"math"
	"testing"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type FrameTestSuite struct {
	suite.Suite
	frame *Frame
}

func TestFrameSuite(t *testing.T) {
	suite.Run(t, new(FrameTestSuite))
}

func (suite *FrameTestSuite) SetupTest() {
	registry := NewIndicatorRegistry()
	suite.Require().NoError(registry.RegisterIndicator(NewSMA(3)))

	frame, err := registry.Compute(types.NewSeries("TEST", barsFromCloses(1, 2, 3, 4, 5)))
	suite.Require().NoError(err)
	suite.frame = frame
}

func (suite *FrameTestSuite) TestValue() {
	suite.True(suite.frame.Value("SMA_3", 1).IsNone())
	suite.Equal(2.0, suite.frame.Value("SMA_3", 2).Unwrap())
	suite.Equal(4.0, suite.frame.Value("SMA_3", 4).Unwrap())
	suite.True(suite.frame.Value("SMA_3", 5).IsNone())
	suite.True(suite.frame.Value("SMA_3", -1).IsNone())
	suite.True(suite.frame.Value("unknown", 2).IsNone())
}

func (suite *FrameTestSuite) TestViewHidesFuture() {
	view := suite.frame.Upto(2)

	suite.Equal(2, view.Index())
	suite.Equal(3, view.Len())
	suite.Equal("TEST", view.Symbol())
	suite.Equal(3.0, view.Current().Close)
	suite.Equal(2.0, view.Value("SMA_3").Unwrap())
	suite.Equal(2.0, view.ValueAt("SMA_3", 2).Unwrap())
	suite.True(view.ValueAt("SMA_3", 3).IsNone())
	suite.True(view.BarAt(3).IsNone())
	suite.Equal(1.0, view.BarAt(0).Unwrap().Close)
}

func (suite *FrameTestSuite) TestNewFrame() {
	series := types.NewSeries("TEST", barsFromCloses(1, 2))

	frame, err := NewFrame(series, map[string][]float64{
		ColumnRSI: {math.NaN(), 25},
	})
	suite.Require().NoError(err)
	suite.True(frame.Value(ColumnRSI, 0).IsNone())
	suite.Equal(25.0, frame.Value(ColumnRSI, 1).Unwrap())

	_, err = NewFrame(series, map[string][]float64{ColumnRSI: {1}})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}
