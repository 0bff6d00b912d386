package datasource

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-quant/internal/types"
)

type Interval string

// IntervalRaw returns bars at the resolution they were stored in.
const IntervalRaw Interval = ""

const (
	Interval1m  Interval = "1m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval1h  Interval = "1h"
	Interval4h  Interval = "4h"
	Interval6h  Interval = "6h"
	Interval8h  Interval = "8h"
	Interval12h Interval = "12h"
	Interval1d  Interval = "1d"
	Interval1w  Interval = "1w"
)

// MarketDataSource supplies historical bars to the engine.
type MarketDataSource interface {
	// Fetch returns the bars of symbol aggregated to interval, ordered by time.
	// lookback limits the series to bars within that duration of the symbol's latest bar;
	// zero returns the full history.
	Fetch(ctx context.Context, symbol string, interval Interval, lookback time.Duration) (types.Series, error)
	// Close closes the data source and releases any resources
	Close() error
}
