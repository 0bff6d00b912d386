package engine

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-quant/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// Lifecycle callback types for a backtest run.
// Callbacks with an error return abort the run when they return an error.

// OnRunStartCallback is called once the series is filtered and indicators are computed.
// runID is a unique identifier for this run, generated before processing starts.
type OnRunStartCallback func(runID string, symbol string, totalBars int) error

// OnProcessDataCallback is called for each bar processed.
type OnProcessDataCallback func(current int, total int) error

// OnSignalRejectedCallback is called when a signal produces no fill.
// code tells why, e.g. errors.ErrCodeInsufficientFunds or errors.ErrCodePositionAlreadyOpen.
type OnSignalRejectedCallback func(signal types.Signal, code errors.ErrorCode)

// OnRunEndCallback is called after the performance report is built.
type OnRunEndCallback func(runID string, report types.PerformanceReport)

// LifecycleCallbacks holds all lifecycle callback functions for the backtest engine.
// All fields are pointers - nil means no callback will be invoked.
type LifecycleCallbacks struct {
	OnRunStart       *OnRunStartCallback
	OnProcessData    *OnProcessDataCallback
	OnSignalRejected *OnSignalRejectedCallback
	OnRunEnd         *OnRunEndCallback
}

// Hook receives fills and the end-of-run snapshot.
// Hooks are dispatched asynchronously. Their errors are logged and never affect the run.
type Hook interface {
	OnFill(ctx context.Context, trade types.TradeRecord) error
	OnRunComplete(ctx context.Context, snapshot types.AccountSnapshot, report types.PerformanceReport) error
}

// Result is the outcome of one completed run.
type Result struct {
	RunID         string
	Ledger        []types.TradeRecord
	Account       types.Account
	OpenPositions []types.Position
	Report        types.PerformanceReport
}

// ClosedTrades returns the number of SELL records in the ledger.
func (r Result) ClosedTrades() int {
	count := 0

	for _, trade := range r.Ledger {
		if trade.IsSell() {
			count++
		}
	}

	return count
}

//nolint:interfacebloat // Engine is a core interface that naturally requires multiple methods
type Engine interface {
	// Initialize the engine with the given YAML configuration.
	Initialize(config string) error
	// SetDataSource sets the data source used by RunSymbol.
	SetDataSource(dataSource datasource.MarketDataSource) error
	// AddHook registers a post-fill hook. Could be called multiple times to add multiple hooks.
	AddHook(hook Hook) error
	// Run replays the series bar by bar and returns the ledger, account and report.
	// Only data integrity errors fail the run.
	Run(ctx context.Context, series types.Series, callbacks LifecycleCallbacks) (Result, error)
	// RunSymbol fetches the series from the data source and runs it.
	// A fetch failure is treated as "no data" and yields an empty run.
	RunSymbol(ctx context.Context, symbol string, interval datasource.Interval, lookback time.Duration, callbacks LifecycleCallbacks) (Result, error)
	// GetConfigSchema returns the schema of the engine configuration
	GetConfigSchema() (string, error)
	// Close waits for pending hook events to be delivered.
	Close() error
}
