package types

import (
	"time"

	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/shopspring/decimal"
)

// Account is the single cash account of a backtest run.
// Cash never goes negative: a debit larger than the balance is refused.
type Account struct {
	// InitialCapital is the cash the run started with
	InitialCapital float64 `json:"initial_capital" yaml:"initial_capital"`
	// Cash is the current cash balance (excluding open positions)
	Cash float64 `json:"cash" yaml:"cash"`
}

// NewAccount creates an account holding the initial capital in cash.
func NewAccount(initialCapital float64) Account {
	return Account{
		InitialCapital: initialCapital,
		Cash:           initialCapital,
	}
}

// CanAfford reports whether the cost can be paid from cash.
func (a *Account) CanAfford(cost float64) bool {
	return cost <= a.Cash
}

// Debit removes cost from cash.
func (a *Account) Debit(cost float64) error {
	if cost < 0 {
		return errors.Newf(errors.ErrCodeInvalidQuantity, "debit amount must not be negative, got %f", cost)
	}

	if !a.CanAfford(cost) {
		return errors.Newf(errors.ErrCodeInsufficientFunds, "cost (%.2f) exceeds available cash (%.2f)", cost, a.Cash)
	}

	cash, _ := decimal.NewFromFloat(a.Cash).Sub(decimal.NewFromFloat(cost)).Float64()
	// rounding noise must not push the balance below zero
	if cash < 0 {
		cash = 0
	}

	a.Cash = cash

	return nil
}

// Credit adds proceeds to cash.
func (a *Account) Credit(proceeds float64) error {
	if proceeds < 0 {
		return errors.Newf(errors.ErrCodeInvalidQuantity, "credit amount must not be negative, got %f", proceeds)
	}

	a.Cash, _ = decimal.NewFromFloat(a.Cash).Add(decimal.NewFromFloat(proceeds)).Float64()

	return nil
}

// AccountSnapshot is the account state handed to persistence at the end of a run.
type AccountSnapshot struct {
	RunID          string     `json:"run_id" yaml:"run_id"`
	Time           time.Time  `json:"time" yaml:"time"`
	Cash           float64    `json:"cash" yaml:"cash"`
	PositionsValue float64    `json:"positions_value" yaml:"positions_value"`
	Equity         float64    `json:"equity" yaml:"equity"`
	RealizedPnL    float64    `json:"realized_pnl" yaml:"realized_pnl"`
	OpenPositions  []Position `json:"open_positions" yaml:"open_positions"`
	StrategyName   string     `json:"strategy_name" yaml:"strategy_name"`
}
