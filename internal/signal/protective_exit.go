package signal

import (
	"fmt"

	"github.com/rxtech-lab/argo-quant/internal/indicator"
	"github.com/rxtech-lab/argo-quant/internal/types"
)

const overboughtThreshold = 70.0

// ProtectiveExitRule sells an open position on a stop-loss or take-profit move relative
// to the entry price, and optionally when RSI turns overbought. Zero percentages disable
// the corresponding check.
type ProtectiveExitRule struct {
	stopLoss   float64
	takeProfit float64
	overbought bool
}

func NewProtectiveExitRule(stopLoss, takeProfit float64, overbought bool) *ProtectiveExitRule {
	return &ProtectiveExitRule{
		stopLoss:   stopLoss,
		takeProfit: takeProfit,
		overbought: overbought,
	}
}

func (r *ProtectiveExitRule) Name() string {
	return StrategyProtectiveExit
}

// Enabled reports whether any exit condition is configured.
func (r *ProtectiveExitRule) Enabled() bool {
	return r.stopLoss > 0 || r.takeProfit > 0 || r.overbought
}

func (r *ProtectiveExitRule) Generate(ctx Context) []types.Signal {
	bar := ctx.View.Current()

	position, ok := ctx.Positions[bar.Symbol]
	if !ok {
		return nil
	}

	reason := ""

	switch {
	case r.stopLoss > 0 && bar.Close <= position.EntryPrice*(1-r.stopLoss):
		reason = fmt.Sprintf("stop loss hit: close %.2f <= %.2f", bar.Close, position.EntryPrice*(1-r.stopLoss))
	case r.takeProfit > 0 && bar.Close >= position.EntryPrice*(1+r.takeProfit):
		reason = fmt.Sprintf("take profit hit: close %.2f >= %.2f", bar.Close, position.EntryPrice*(1+r.takeProfit))
	case r.overbought:
		if rsi := ctx.View.Value(indicator.ColumnRSI); rsi.IsSome() && rsi.Unwrap() > overboughtThreshold {
			reason = fmt.Sprintf("RSI overbought (%.2f)", rsi.Unwrap())
		}
	}

	if reason == "" {
		return nil
	}

	return []types.Signal{
		{
			Time:          bar.Time,
			Symbol:        bar.Symbol,
			Action:        types.SignalActionSell,
			Confidence:    1.0,
			Reason:        reason,
			SuggestedSize: 1.0,
			StrategyName:  StrategyProtectiveExit,
		},
	}
}
