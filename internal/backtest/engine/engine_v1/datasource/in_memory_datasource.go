package datasource

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// InMemoryDataSource serves preloaded bars indexed by symbol.
// It is used by tests and by callers that already hold the history in memory.
type InMemoryDataSource struct {
	// data[symbol] = bars ordered by time
	data map[string][]types.MarketData

	mu sync.RWMutex
}

// NewInMemoryDataSource creates a data source preloaded with the given series.
func NewInMemoryDataSource(series ...types.Series) *InMemoryDataSource {
	ds := &InMemoryDataSource{
		data: make(map[string][]types.MarketData),
		mu:   sync.RWMutex{},
	}

	for _, s := range series {
		ds.Add(s)
	}

	return ds
}

// Add stores a copy of the series, replacing any bars previously held for its symbol.
func (ds *InMemoryDataSource) Add(series types.Series) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	bars := make([]types.MarketData, len(series.Bars))
	copy(bars, series.Bars)
	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Time.Before(bars[j].Time)
	})

	ds.data[series.Symbol] = bars
}

// Symbols returns the stored symbols in sorted order.
func (ds *InMemoryDataSource) Symbols() []string {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	symbols := make([]string, 0, len(ds.data))
	for symbol := range ds.data {
		symbols = append(symbols, symbol)
	}

	sort.Strings(symbols)

	return symbols
}

// Fetch implements MarketDataSource.
func (ds *InMemoryDataSource) Fetch(ctx context.Context, symbol string, interval Interval, lookback time.Duration) (types.Series, error) {
	if err := ctx.Err(); err != nil {
		return types.Series{}, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "fetch cancelled", err)
	}

	ds.mu.RLock()
	stored, ok := ds.data[symbol]
	ds.mu.RUnlock()

	if !ok || len(stored) == 0 {
		return types.Series{}, errors.Newf(errors.ErrCodeNoDataFound, "no market data for symbol %s", symbol)
	}

	bars := make([]types.MarketData, len(stored))
	copy(bars, stored)

	if interval != IntervalRaw {
		minutes, err := getIntervalMinutes(interval)
		if err != nil {
			return types.Series{}, err
		}

		bars = resample(bars, minutes)
	}

	return types.NewSeries(symbol, withinLookback(bars, lookback)), nil
}

// Close implements MarketDataSource.
func (ds *InMemoryDataSource) Close() error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	ds.data = make(map[string][]types.MarketData)

	return nil
}
