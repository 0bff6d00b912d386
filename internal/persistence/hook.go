package persistence

import (
	"context"

	"github.com/rxtech-lab/argo-quant/internal/types"
)

// Hook saves every fill and the final snapshot of a run to a Store.
type Hook struct {
	store Store
}

func NewHook(store Store) *Hook {
	return &Hook{store: store}
}

func (h *Hook) OnFill(ctx context.Context, trade types.TradeRecord) error {
	return h.store.SaveTrade(ctx, trade)
}

func (h *Hook) OnRunComplete(ctx context.Context, snapshot types.AccountSnapshot, _ types.PerformanceReport) error {
	return h.store.SaveSnapshot(ctx, snapshot)
}
