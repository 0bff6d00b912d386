package persistence

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/stretchr/testify/suite"
)

var day0 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func buy(id, runID, symbol string, day int, price float64) types.TradeRecord {
	return types.TradeRecord{
		ID:            id,
		RunID:         runID,
		Timestamp:     day0.AddDate(0, 0, day),
		Symbol:        symbol,
		Action:        types.TradeActionBuy,
		Price:         price,
		Quantity:      10,
		Value:         price * 10,
		StrategyName:  "rule_oversold_reversal",
		Reason:        "oversold",
		ProfitLoss:    optional.None[float64](),
		HoldingPeriod: optional.None[time.Duration](),
	}
}

func sell(id, runID, symbol string, day int, price, pnl float64, held time.Duration) types.TradeRecord {
	record := buy(id, runID, symbol, day, price)
	record.Action = types.TradeActionSell
	record.StrategyName = "exit_protective"
	record.ProfitLoss = optional.Some(pnl)
	record.HoldingPeriod = optional.Some(held)

	return record
}

type DuckDBStoreTestSuite struct {
	suite.Suite
	store *DuckDBStore
}

func TestDuckDBStoreSuite(t *testing.T) {
	suite.Run(t, new(DuckDBStoreTestSuite))
}

func (suite *DuckDBStoreTestSuite) SetupTest() {
	store, err := NewDuckDBStore("", logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.store = store

	ctx := context.Background()
	for _, trade := range []types.TradeRecord{
		buy("t1", "run-1", "AAPL", 0, 100),
		sell("t2", "run-1", "AAPL", 3, 110, 100, 72*time.Hour),
		buy("t3", "run-1", "MSFT", 1, 50),
		buy("t4", "run-2", "AAPL", 5, 90),
	} {
		suite.Require().NoError(suite.store.SaveTrade(ctx, trade))
	}
}

func (suite *DuckDBStoreTestSuite) TearDownTest() {
	suite.NoError(suite.store.Close())
}

func (suite *DuckDBStoreTestSuite) TestGetTradeHistoryRoundTrip() {
	trades, err := suite.store.GetTradeHistory(context.Background(), types.TradeFilter{RunID: "run-1", Symbol: "AAPL"})

	suite.Require().NoError(err)
	suite.Require().Len(trades, 2)
	suite.Equal(buy("t1", "run-1", "AAPL", 0, 100), trades[0])
	suite.Equal(sell("t2", "run-1", "AAPL", 3, 110, 100, 72*time.Hour), trades[1])
}

func (suite *DuckDBStoreTestSuite) TestGetTradeHistoryFilters() {
	tests := []struct {
		name     string
		filter   types.TradeFilter
		expected []string
	}{
		{"no filter", types.TradeFilter{}, []string{"t1", "t3", "t2", "t4"}},
		{"symbol", types.TradeFilter{Symbol: "AAPL"}, []string{"t1", "t2", "t4"}},
		{"run", types.TradeFilter{RunID: "run-2"}, []string{"t4"}},
		{"start", types.TradeFilter{StartTime: day0.AddDate(0, 0, 1)}, []string{"t3", "t2", "t4"}},
		{"end inclusive", types.TradeFilter{EndTime: day0.AddDate(0, 0, 3)}, []string{"t1", "t3", "t2"}},
		{"limit", types.TradeFilter{Limit: 2}, []string{"t1", "t3"}},
		{"unknown symbol", types.TradeFilter{Symbol: "TSLA"}, []string{}},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			trades, err := suite.store.GetTradeHistory(context.Background(), tc.filter)
			suite.Require().NoError(err)

			ids := make([]string, 0, len(trades))
			for _, trade := range trades {
				ids = append(ids, trade.ID)
			}

			suite.Equal(tc.expected, ids)
		})
	}
}

func (suite *DuckDBStoreTestSuite) TestDuplicateTradeID() {
	err := suite.store.SaveTrade(context.Background(), buy("t1", "run-3", "AAPL", 9, 100))

	suite.Error(err)
}

func (suite *DuckDBStoreTestSuite) TestExport() {
	ctx := context.Background()
	suite.Require().NoError(suite.store.SaveSnapshot(ctx, types.AccountSnapshot{
		RunID:         "run-1",
		Time:          day0.AddDate(0, 0, 3),
		Cash:          10100,
		Equity:        10600,
		OpenPositions: []types.Position{{Symbol: "MSFT", Quantity: 10, EntryPrice: 50}},
	}))

	dir := filepath.Join(suite.T().TempDir(), "results")
	suite.Require().NoError(suite.store.Export(dir))

	db, err := sql.Open("duckdb", "")
	suite.Require().NoError(err)
	defer db.Close()

	var trades int
	suite.Require().NoError(db.QueryRow(
		"SELECT COUNT(*) FROM read_parquet('" + filepath.Join(dir, "trades.parquet") + "')").Scan(&trades))
	suite.Equal(4, trades)

	var openPositions int
	var equity float64
	suite.Require().NoError(db.QueryRow(
		"SELECT open_positions, equity FROM read_parquet('"+filepath.Join(dir, "snapshots.parquet")+"')").
		Scan(&openPositions, &equity))
	suite.Equal(1, openPositions)
	suite.Equal(10600.0, equity)
}

func (suite *DuckDBStoreTestSuite) TestHook() {
	hook := NewHook(suite.store)
	ctx := context.Background()

	suite.Require().NoError(hook.OnFill(ctx, buy("t5", "run-3", "NVDA", 7, 400)))
	suite.Require().NoError(hook.OnRunComplete(ctx, types.AccountSnapshot{RunID: "run-3", Time: day0}, types.PerformanceReport{}))

	trades, err := suite.store.GetTradeHistory(ctx, types.TradeFilter{RunID: "run-3"})
	suite.Require().NoError(err)
	suite.Len(trades, 1)

	// a closed store surfaces errors to the engine, which logs and ignores them
	suite.Require().NoError(suite.store.Close())
	suite.Error(hook.OnFill(ctx, buy("t6", "run-3", "NVDA", 8, 400)))
}
