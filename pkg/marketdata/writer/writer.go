// Package writer stores OHLCV bars as parquet files readable by the DuckDB market data source.
package writer

import (
	"github.com/rxtech-lab/argo-quant/internal/types"
)

// MarketDataWriter writes bars to a destination.
type MarketDataWriter interface {
	// Initialize sets up the writer, creating tables or files.
	Initialize() error
	// Write persists a single bar. Malformed bars are rejected with a data integrity error.
	Write(data types.MarketData) error
	// Finalize completes the writing process and returns the output path.
	Finalize() (outputPath string, err error)
	// Close releases any resources held by the writer.
	Close() error
	GetOutputPath() string
}

// WriteSeries writes every bar of each series and finalizes the writer.
func WriteSeries(w MarketDataWriter, series ...types.Series) (string, error) {
	if err := w.Initialize(); err != nil {
		return "", err
	}
	defer w.Close()

	for _, s := range series {
		for _, bar := range s.Bars {
			if err := w.Write(bar); err != nil {
				return "", err
			}
		}
	}

	return w.Finalize()
}
