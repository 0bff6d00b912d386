// Package persistence stores trade records and account snapshots produced by backtest runs.
package persistence

import (
	"context"

	"github.com/rxtech-lab/argo-quant/internal/types"
)

// Store persists the output of backtest runs.
type Store interface {
	SaveTrade(ctx context.Context, trade types.TradeRecord) error
	SaveSnapshot(ctx context.Context, snapshot types.AccountSnapshot) error
	// GetTradeHistory returns the stored trades matching filter ordered by timestamp.
	GetTradeHistory(ctx context.Context, filter types.TradeFilter) ([]types.TradeRecord, error)
	// Export writes every table to a parquet file under dir.
	Export(dir string) error
	Close() error
}
