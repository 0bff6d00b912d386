// Package notification sends trade alerts produced by backtest fills.
package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-quant/internal/types"
)

// TradeAlert describes one fill to be announced.
type TradeAlert struct {
	Time         time.Time
	Symbol       string
	Action       types.TradeAction
	Price        float64
	Quantity     float64
	TotalValue   float64
	Reason       string
	StrategyName string
}

// NewTradeAlert builds the alert for a ledger entry.
func NewTradeAlert(trade types.TradeRecord) TradeAlert {
	return TradeAlert{
		Time:         trade.Timestamp,
		Symbol:       trade.Symbol,
		Action:       trade.Action,
		Price:        trade.Price,
		Quantity:     trade.Quantity,
		TotalValue:   trade.Value,
		Reason:       trade.Reason,
		StrategyName: trade.StrategyName,
	}
}

// Notifier delivers trade alerts. Implementations must be safe for concurrent use.
type Notifier interface {
	SendTradeAlert(ctx context.Context, alert TradeAlert) error
}

// Format renders the alert as a plain text message.
func Format(alert TradeAlert) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Trade alert - %s\n", alert.Time.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Symbol: %s\n", alert.Symbol)
	fmt.Fprintf(&b, "Action: %s\n", alert.Action)
	fmt.Fprintf(&b, "Price: %.2f\n", alert.Price)
	fmt.Fprintf(&b, "Quantity: %g\n", alert.Quantity)
	fmt.Fprintf(&b, "Total value: %.2f\n", alert.TotalValue)
	fmt.Fprintf(&b, "Reason: %s", alert.Reason)

	return b.String()
}
