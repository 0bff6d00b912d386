package telemetry

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type CollectorTestSuite struct {
	suite.Suite
	registry  *prometheus.Registry
	collector *Collector
}

func TestCollectorSuite(t *testing.T) {
	suite.Run(t, new(CollectorTestSuite))
}

func (suite *CollectorTestSuite) SetupTest() {
	suite.registry = prometheus.NewRegistry()
	suite.collector = NewCollector(suite.registry)
}

func (suite *CollectorTestSuite) TestFills() {
	ctx := context.Background()
	buy := types.TradeRecord{Symbol: "AAPL", Action: types.TradeActionBuy, StrategyName: "ml_classifier"}
	sell := types.TradeRecord{Symbol: "AAPL", Action: types.TradeActionSell, StrategyName: "exit_protective"}

	suite.NoError(suite.collector.OnFill(ctx, buy))
	suite.NoError(suite.collector.OnFill(ctx, sell))
	suite.NoError(suite.collector.OnFill(ctx, buy))

	suite.Equal(2.0, testutil.ToFloat64(suite.collector.fills.WithLabelValues("AAPL", "BUY", "ml_classifier")))
	suite.Equal(1.0, testutil.ToFloat64(suite.collector.fills.WithLabelValues("AAPL", "SELL", "exit_protective")))
}

func (suite *CollectorTestSuite) TestRunComplete() {
	ctx := context.Background()

	suite.NoError(suite.collector.OnRunComplete(ctx, types.AccountSnapshot{}, types.PerformanceReport{Symbol: "AAPL", TotalReturn: 0.12}))
	suite.NoError(suite.collector.OnRunComplete(ctx, types.AccountSnapshot{}, types.PerformanceReport{Symbol: "MSFT", NoData: true}))

	suite.Equal(1.0, testutil.ToFloat64(suite.collector.runs.WithLabelValues("AAPL", "false")))
	suite.Equal(1.0, testutil.ToFloat64(suite.collector.runs.WithLabelValues("MSFT", "true")))
	suite.Equal(0.12, testutil.ToFloat64(suite.collector.totalReturn.WithLabelValues("AAPL")))
}

func (suite *CollectorTestSuite) TestCallbacks() {
	callbacks := suite.collector.Callbacks()
	suite.Require().NotNil(callbacks.OnProcessData)
	suite.Require().NotNil(callbacks.OnSignalRejected)
	suite.Nil(callbacks.OnRunStart)

	for i := 1; i <= 3; i++ {
		suite.NoError((*callbacks.OnProcessData)(i, 3))
	}

	(*callbacks.OnSignalRejected)(types.Signal{Symbol: "AAPL"}, errors.ErrCodePositionAlreadyOpen)

	suite.Equal(3.0, testutil.ToFloat64(suite.collector.barsProcessed))
	suite.Equal(1.0, testutil.ToFloat64(suite.collector.rejected.WithLabelValues("AAPL", "502")))
}

func (suite *CollectorTestSuite) TestRegistersOnce() {
	suite.Panics(func() {
		NewCollector(suite.registry)
	})
}
