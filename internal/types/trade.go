package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

type TradeAction string

const (
	TradeActionBuy  TradeAction = "BUY"
	TradeActionSell TradeAction = "SELL"
)

const (
	TradeReasonSignal     string = "signal"
	TradeReasonForceClose string = "force_close"
)

// TradeRecord is an immutable ledger entry written on every fill.
// Value is the notional amount (price * quantity). ProfitLoss and HoldingPeriod are only
// present on SELL records. For example, 100 shares bought at $50 and sold at $55 give
// a ProfitLoss of (55-50)*100 = $500.
type TradeRecord struct {
	ID           string      `yaml:"id" json:"id" validate:"required,uuid"`
	RunID        string      `yaml:"run_id" json:"run_id"`
	Timestamp    time.Time   `yaml:"timestamp" json:"timestamp" validate:"required"`
	Symbol       string      `yaml:"symbol" json:"symbol" validate:"required"`
	Action       TradeAction `yaml:"action" json:"action" validate:"required,oneof=BUY SELL"`
	Price        float64     `yaml:"price" json:"price" validate:"gt=0"`
	Quantity     float64     `yaml:"quantity" json:"quantity" validate:"gt=0"`
	Value        float64     `yaml:"value" json:"value" validate:"gt=0"`
	StrategyName string      `yaml:"strategy_name" json:"strategy_name" validate:"required"`
	Reason       string      `yaml:"reason" json:"reason"`

	ProfitLoss    optional.Option[float64]       `yaml:"-" json:"profit_loss"`
	HoldingPeriod optional.Option[time.Duration] `yaml:"-" json:"holding_period"`
}

// tradeRecordYAML mirrors TradeRecord with the SELL-only fields as pointers, absent on BUY records.
type tradeRecordYAML struct {
	ID            string         `yaml:"id"`
	RunID         string         `yaml:"run_id"`
	Timestamp     time.Time      `yaml:"timestamp"`
	Symbol        string         `yaml:"symbol"`
	Action        TradeAction    `yaml:"action"`
	Price         float64        `yaml:"price"`
	Quantity      float64        `yaml:"quantity"`
	Value         float64        `yaml:"value"`
	StrategyName  string         `yaml:"strategy_name"`
	Reason        string         `yaml:"reason"`
	ProfitLoss    *float64       `yaml:"profit_loss,omitempty"`
	HoldingPeriod *time.Duration `yaml:"holding_period,omitempty"`
}

// MarshalYAML writes profit_loss and holding_period when they are set.
func (t TradeRecord) MarshalYAML() (interface{}, error) {
	record := tradeRecordYAML{
		ID:            t.ID,
		RunID:         t.RunID,
		Timestamp:     t.Timestamp,
		Symbol:        t.Symbol,
		Action:        t.Action,
		Price:         t.Price,
		Quantity:      t.Quantity,
		Value:         t.Value,
		StrategyName:  t.StrategyName,
		Reason:        t.Reason,
		ProfitLoss:    nil,
		HoldingPeriod: nil,
	}

	if t.ProfitLoss.IsSome() {
		pnl := t.ProfitLoss.Unwrap()
		record.ProfitLoss = &pnl
	}

	if t.HoldingPeriod.IsSome() {
		held := t.HoldingPeriod.Unwrap()
		record.HoldingPeriod = &held
	}

	return record, nil
}

// UnmarshalYAML reads a record written by MarshalYAML.
func (t *TradeRecord) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var record tradeRecordYAML
	if err := unmarshal(&record); err != nil {
		return err
	}

	*t = TradeRecord{
		ID:            record.ID,
		RunID:         record.RunID,
		Timestamp:     record.Timestamp,
		Symbol:        record.Symbol,
		Action:        record.Action,
		Price:         record.Price,
		Quantity:      record.Quantity,
		Value:         record.Value,
		StrategyName:  record.StrategyName,
		Reason:        record.Reason,
		ProfitLoss:    optional.None[float64](),
		HoldingPeriod: optional.None[time.Duration](),
	}

	if record.ProfitLoss != nil {
		t.ProfitLoss = optional.Some(*record.ProfitLoss)
	}

	if record.HoldingPeriod != nil {
		t.HoldingPeriod = optional.Some(*record.HoldingPeriod)
	}

	return nil
}

// IsSell reports whether the record closes a position.
func (t TradeRecord) IsSell() bool {
	return t.Action == TradeActionSell
}

// Validate validates the TradeRecord struct and the SELL-only fields.
func (t *TradeRecord) Validate() error {
	validate := validator.New()
	if err := validate.Struct(t); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidTradeRecord, "invalid trade record", err)
	}

	if t.IsSell() != t.ProfitLoss.IsSome() || t.IsSell() != t.HoldingPeriod.IsSome() {
		return errors.Newf(errors.ErrCodeInvalidTradeRecord,
			"profit_loss and holding_period must be set exactly on SELL records (action=%s)", t.Action)
	}

	return nil
}

// Position represents an open holding. At most one exists per symbol.
type Position struct {
	Symbol       string    `yaml:"symbol" json:"symbol"`
	Quantity     float64   `yaml:"quantity" json:"quantity"`
	EntryPrice   float64   `yaml:"entry_price" json:"entry_price"`
	EntryTime    time.Time `yaml:"entry_time" json:"entry_time"`
	StrategyName string    `yaml:"strategy_name" json:"strategy_name"`
}

// CostBasis returns quantity * entry price.
func (p Position) CostBasis() float64 {
	return p.Quantity * p.EntryPrice
}

// MarketValue returns the position value at the given price.
func (p Position) MarketValue(price float64) float64 {
	return p.Quantity * price
}

// UnrealizedPnL returns the open profit at the given price.
func (p Position) UnrealizedPnL(price float64) float64 {
	return p.MarketValue(price) - p.CostBasis()
}

// TradeFilter is used to filter trades when querying trade history.
type TradeFilter struct {
	// Symbol filters trades by symbol (empty string means no filter)
	Symbol string `json:"symbol" yaml:"symbol"`
	// RunID filters trades by backtest run (empty string means no filter)
	RunID string `json:"run_id" yaml:"run_id"`
	// StartTime filters trades executed after this time (zero time means no filter)
	StartTime time.Time `json:"start_time" yaml:"start_time"`
	// EndTime filters trades executed before this time (zero time means no filter)
	EndTime time.Time `json:"end_time" yaml:"end_time"`
	// Limit limits the number of trades returned (0 means no limit)
	Limit int `json:"limit" yaml:"limit"`
}
