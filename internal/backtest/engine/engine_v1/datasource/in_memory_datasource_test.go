package datasource

import (
	"context"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type InMemoryDataSourceTestSuite struct {
	suite.Suite
	ds *InMemoryDataSource
}

func TestInMemoryDataSourceSuite(t *testing.T) {
	suite.Run(t, new(InMemoryDataSourceTestSuite))
}

func (suite *InMemoryDataSourceTestSuite) SetupTest() {
	suite.ds = NewInMemoryDataSource(
		types.NewSeries("AAPL", minuteBars("AAPL", 120)),
		types.NewSeries("MSFT", minuteBars("MSFT", 60)),
	)
}

func (suite *InMemoryDataSourceTestSuite) TestFetchRaw() {
	series, err := suite.ds.Fetch(context.Background(), "AAPL", IntervalRaw, 0)

	suite.Require().NoError(err)
	suite.Equal("AAPL", series.Symbol)
	suite.Equal(120, series.Len())
	suite.NoError(series.Validate())
}

func (suite *InMemoryDataSourceTestSuite) TestFetchReturnsCopy() {
	series, err := suite.ds.Fetch(context.Background(), "AAPL", IntervalRaw, 0)
	suite.Require().NoError(err)

	series.Bars[0].Close = -1

	again, err := suite.ds.Fetch(context.Background(), "AAPL", IntervalRaw, 0)
	suite.Require().NoError(err)
	suite.Equal(100.5, again.Bars[0].Close)
}

func (suite *InMemoryDataSourceTestSuite) TestFetchLookback() {
	series, err := suite.ds.Fetch(context.Background(), "AAPL", IntervalRaw, 30*time.Minute)

	suite.Require().NoError(err)
	suite.Equal(31, series.Len())
	suite.Equal(time.Date(2024, 1, 1, 1, 29, 0, 0, time.UTC), series.Bars[0].Time)
}

func (suite *InMemoryDataSourceTestSuite) TestFetchInterval() {
	series, err := suite.ds.Fetch(context.Background(), "AAPL", Interval1h, 0)

	suite.Require().NoError(err)
	suite.Require().Equal(2, series.Len())
	suite.Equal(100.0, series.Bars[0].Open)
	suite.Equal(159.5, series.Bars[0].Close)
	suite.Equal(160.0, series.Bars[0].High)
	suite.Equal(99.0, series.Bars[0].Low)
	suite.Equal(600.0, series.Bars[0].Volume)
}

func (suite *InMemoryDataSourceTestSuite) TestFetchUnknownSymbol() {
	_, err := suite.ds.Fetch(context.Background(), "TSLA", IntervalRaw, 0)

	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeNoDataFound))
}

func (suite *InMemoryDataSourceTestSuite) TestFetchInvalidInterval() {
	_, err := suite.ds.Fetch(context.Background(), "AAPL", Interval("2h"), 0)

	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}

func (suite *InMemoryDataSourceTestSuite) TestFetchCancelled() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := suite.ds.Fetch(ctx, "AAPL", IntervalRaw, 0)

	suite.True(errors.HasCode(err, errors.ErrCodeDataSourceUnavailable))
}

func (suite *InMemoryDataSourceTestSuite) TestSymbolsAndClose() {
	suite.Equal([]string{"AAPL", "MSFT"}, suite.ds.Symbols())

	suite.NoError(suite.ds.Close())
	suite.Empty(suite.ds.Symbols())
}
