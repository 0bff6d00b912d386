package notification

import (
	"context"

	"github.com/rxtech-lab/argo-quant/internal/types"
)

// Hook sends an alert for every fill of a run.
type Hook struct {
	notifier Notifier
}

func NewHook(notifier Notifier) *Hook {
	return &Hook{notifier: notifier}
}

func (h *Hook) OnFill(ctx context.Context, trade types.TradeRecord) error {
	return h.notifier.SendTradeAlert(ctx, NewTradeAlert(trade))
}

func (h *Hook) OnRunComplete(_ context.Context, _ types.AccountSnapshot, _ types.PerformanceReport) error {
	return nil
}
