package signal

import (
	"fmt"

	"github.com/rxtech-lab/argo-quant/internal/indicator"
	"github.com/rxtech-lab/argo-quant/internal/types"
)

const (
	oversoldThreshold  = 30.0
	oversoldConfidence = 0.8
)

// OversoldReversalRule buys when RSI < 30, the close is above the lower Bollinger band
// and the MACD line is above its signal line.
type OversoldReversalRule struct {
	sizer PositionSizer
}

func NewOversoldReversalRule(sizer PositionSizer) *OversoldReversalRule {
	return &OversoldReversalRule{sizer: sizer}
}

func (r *OversoldReversalRule) Name() string {
	return StrategyOversoldReversal
}

func (r *OversoldReversalRule) Generate(ctx Context) []types.Signal {
	rsi := ctx.View.Value(indicator.ColumnRSI)
	lower := ctx.View.Value(indicator.ColumnBollingerLower)
	macd := ctx.View.Value(indicator.ColumnMACD)
	macdSignal := ctx.View.Value(indicator.ColumnMACDSignal)

	if rsi.IsNone() || lower.IsNone() || macd.IsNone() || macdSignal.IsNone() {
		return nil
	}

	bar := ctx.View.Current()

	if rsi.Unwrap() >= oversoldThreshold || bar.Close <= lower.Unwrap() || macd.Unwrap() <= macdSignal.Unwrap() {
		return nil
	}

	size := r.sizer.SuggestedSize(ctx.Cash)
	if size == 0 {
		return nil
	}

	return []types.Signal{
		{
			Time:       bar.Time,
			Symbol:     bar.Symbol,
			Action:     types.SignalActionBuy,
			Confidence: oversoldConfidence,
			Reason: fmt.Sprintf("RSI oversold (%.2f) above lower band (%.2f) with MACD %.4f over signal %.4f",
				rsi.Unwrap(), lower.Unwrap(), macd.Unwrap(), macdSignal.Unwrap()),
			SuggestedSize: size,
			StrategyName:  StrategyOversoldReversal,
		},
	}
}
