package engine

import (
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/shopspring/decimal"
)

// quantityPrecision is the number of decimal places a fill quantity keeps.
// Quantities are rounded down so the cost never exceeds the budget.
const quantityPrecision = 8

// BacktestTrading executes signals against a BacktestState at the bar's close.
// There is no slippage and no partial fill model.
type BacktestTrading struct {
	state *BacktestState
}

func NewBacktestTrading(state *BacktestState) *BacktestTrading {
	return &BacktestTrading{state: state}
}

// Execute fills a BUY or SELL signal at the bar's close.
// A rejected signal returns a coded error and leaves the state untouched:
//   - BUY:  ErrCodePositionAlreadyOpen, ErrCodeInsufficientFunds, ErrCodeInvalidQuantity
//   - SELL: ErrCodeNoOpenPosition
//   - any:  ErrCodeInvalidSignal for HOLD, a malformed signal or a symbol mismatch
func (b *BacktestTrading) Execute(signal types.Signal, bar types.MarketData) (types.TradeRecord, error) {
	if err := signal.Validate(); err != nil {
		return types.TradeRecord{}, err
	}

	if signal.Symbol != bar.Symbol {
		return types.TradeRecord{}, errors.Newf(errors.ErrCodeInvalidSignal,
			"signal for %s cannot be filled against a %s bar", signal.Symbol, bar.Symbol)
	}

	switch signal.Action {
	case types.SignalActionBuy:
		return b.buy(signal, bar)
	case types.SignalActionSell:
		return b.state.Close(bar, signal.StrategyName, signal.Reason)
	default:
		return types.TradeRecord{}, errors.Newf(errors.ErrCodeInvalidSignal, "%s signals are not executable", signal.Action)
	}
}

func (b *BacktestTrading) buy(signal types.Signal, bar types.MarketData) (types.TradeRecord, error) {
	if b.state.Position(bar.Symbol).IsSome() {
		return types.TradeRecord{}, errors.Newf(errors.ErrCodePositionAlreadyOpen, "position already open for %s", bar.Symbol)
	}

	cash := b.state.Account().Cash
	if cash <= 0 {
		return types.TradeRecord{}, errors.Newf(errors.ErrCodeInsufficientFunds, "no cash available (%.2f)", cash)
	}

	quantity := CalculateQuantity(cash, signal.SuggestedSize, bar.Close)
	if !quantity.IsPositive() {
		return types.TradeRecord{}, errors.Newf(errors.ErrCodeInsufficientFunds,
			"%.2f of cash buys no %s at %.2f", cash*signal.SuggestedSize, bar.Symbol, bar.Close)
	}

	return b.state.Open(bar, quantity, signal.StrategyName, signal.Reason)
}

// ForceClose sells the open position of the bar's symbol at terminal time.
func (b *BacktestTrading) ForceClose(bar types.MarketData) (types.TradeRecord, error) {
	position := b.state.Position(bar.Symbol)
	if position.IsNone() {
		return types.TradeRecord{}, errors.Newf(errors.ErrCodeNoOpenPosition, "no open position for %s", bar.Symbol)
	}

	return b.state.Close(bar, position.Unwrap().StrategyName, types.TradeReasonForceClose)
}

// CalculateQuantity returns size*cash/price rounded down to quantityPrecision places.
// The cost quantity*price never exceeds size*cash.
func CalculateQuantity(cash, size, price float64) decimal.Decimal {
	if cash <= 0 || size <= 0 || price <= 0 {
		return decimal.Zero
	}

	budget := decimal.NewFromFloat(cash).Mul(decimal.NewFromFloat(size))
	priceDec := decimal.NewFromFloat(price)

	quantity := budget.Div(priceDec).Truncate(quantityPrecision)
	// division rounds at a higher precision; step down if that carried past the budget
	if quantity.Mul(priceDec).GreaterThan(budget) {
		quantity = quantity.Sub(decimal.New(1, -quantityPrecision))
	}

	if quantity.IsNegative() {
		return decimal.Zero
	}

	return quantity
}
