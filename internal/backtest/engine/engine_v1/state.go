package engine

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BacktestState owns the account, the position table and the ledger of one run.
// It is not safe for concurrent use; every run creates its own state.
type BacktestState struct {
	runID     string
	account   types.Account
	positions map[string]types.Position
	ledger    []types.TradeRecord
	realized  decimal.Decimal
	logger    *logger.Logger
}

func NewBacktestState(runID string, initialCapital float64, log *logger.Logger) *BacktestState {
	return &BacktestState{
		runID:     runID,
		account:   types.NewAccount(initialCapital),
		positions: make(map[string]types.Position),
		ledger:    make([]types.TradeRecord, 0),
		realized:  decimal.Zero,
		logger:    log,
	}
}

// Open debits the cost of quantity at the bar's close and opens a position.
func (b *BacktestState) Open(bar types.MarketData, quantity decimal.Decimal, strategyName, reason string) (types.TradeRecord, error) {
	if _, ok := b.positions[bar.Symbol]; ok {
		return types.TradeRecord{}, errors.Newf(errors.ErrCodePositionAlreadyOpen, "position already open for %s", bar.Symbol)
	}

	if !quantity.IsPositive() {
		return types.TradeRecord{}, errors.Newf(errors.ErrCodeInvalidQuantity, "quantity must be positive, got %s", quantity.String())
	}

	cost, _ := quantity.Mul(decimal.NewFromFloat(bar.Close)).Float64()
	qty, _ := quantity.Float64()

	record := types.TradeRecord{
		ID:            uuid.New().String(),
		RunID:         b.runID,
		Timestamp:     bar.Time,
		Symbol:        bar.Symbol,
		Action:        types.TradeActionBuy,
		Price:         bar.Close,
		Quantity:      qty,
		Value:         cost,
		StrategyName:  strategyName,
		Reason:        reason,
		ProfitLoss:    optional.None[float64](),
		HoldingPeriod: optional.None[time.Duration](),
	}

	if err := record.Validate(); err != nil {
		return types.TradeRecord{}, err
	}

	if err := b.account.Debit(cost); err != nil {
		return types.TradeRecord{}, err
	}

	b.positions[bar.Symbol] = types.Position{
		Symbol:       bar.Symbol,
		Quantity:     qty,
		EntryPrice:   bar.Close,
		EntryTime:    bar.Time,
		StrategyName: strategyName,
	}

	b.appendRecord(record)

	return record, nil
}

// Close sells the whole position of the bar's symbol at the bar's close.
// The SELL record carries the strategy tag of the signal that closed it.
func (b *BacktestState) Close(bar types.MarketData, strategyName, reason string) (types.TradeRecord, error) {
	position, ok := b.positions[bar.Symbol]
	if !ok {
		return types.TradeRecord{}, errors.Newf(errors.ErrCodeNoOpenPosition, "no open position for %s", bar.Symbol)
	}

	quantity := decimal.NewFromFloat(position.Quantity)
	proceeds := quantity.Mul(decimal.NewFromFloat(bar.Close))
	pnl := proceeds.Sub(quantity.Mul(decimal.NewFromFloat(position.EntryPrice)))

	proceedsValue, _ := proceeds.Float64()
	pnlValue, _ := pnl.Float64()

	record := types.TradeRecord{
		ID:            uuid.New().String(),
		RunID:         b.runID,
		Timestamp:     bar.Time,
		Symbol:        bar.Symbol,
		Action:        types.TradeActionSell,
		Price:         bar.Close,
		Quantity:      position.Quantity,
		Value:         proceedsValue,
		StrategyName:  strategyName,
		Reason:        reason,
		ProfitLoss:    optional.Some(pnlValue),
		HoldingPeriod: optional.Some(bar.Time.Sub(position.EntryTime)),
	}

	if err := record.Validate(); err != nil {
		return types.TradeRecord{}, err
	}

	if err := b.account.Credit(proceedsValue); err != nil {
		return types.TradeRecord{}, err
	}

	delete(b.positions, bar.Symbol)
	b.realized = b.realized.Add(pnl)

	b.appendRecord(record)

	return record, nil
}

func (b *BacktestState) appendRecord(record types.TradeRecord) {
	b.ledger = append(b.ledger, record)
	b.logger.Debug("Trade recorded",
		zap.String("symbol", record.Symbol),
		zap.String("action", string(record.Action)),
		zap.Float64("price", record.Price),
		zap.Float64("quantity", record.Quantity),
	)
}

// Position returns the open position for symbol, if any.
func (b *BacktestState) Position(symbol string) optional.Option[types.Position] {
	position, ok := b.positions[symbol]
	if !ok {
		return optional.None[types.Position]()
	}

	return optional.Some(position)
}

// Positions returns a copy of the position table.
func (b *BacktestState) Positions() map[string]types.Position {
	positions := make(map[string]types.Position, len(b.positions))
	for symbol, position := range b.positions {
		positions[symbol] = position
	}

	return positions
}

// OpenPositions returns the open positions ordered by symbol.
func (b *BacktestState) OpenPositions() []types.Position {
	positions := make([]types.Position, 0, len(b.positions))
	for _, position := range b.positions {
		positions = append(positions, position)
	}

	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Symbol < positions[j].Symbol
	})

	return positions
}

// Ledger returns a copy of the trade records in fill order.
func (b *BacktestState) Ledger() []types.TradeRecord {
	ledger := make([]types.TradeRecord, len(b.ledger))
	copy(ledger, b.ledger)

	return ledger
}

func (b *BacktestState) Account() types.Account {
	return b.account
}

func (b *BacktestState) RealizedPnL() float64 {
	value, _ := b.realized.Float64()

	return value
}

// Valuation returns the market value and unrealized profit of the open positions
// priced at the given closes. Positions without a price are valued at cost.
func (b *BacktestState) Valuation(prices map[string]float64) (value float64, unrealized float64) {
	total := decimal.Zero
	open := decimal.Zero

	for symbol, position := range b.positions {
		price, ok := prices[symbol]
		if !ok {
			price = position.EntryPrice
		}

		quantity := decimal.NewFromFloat(position.Quantity)
		marketValue := quantity.Mul(decimal.NewFromFloat(price))
		total = total.Add(marketValue)
		open = open.Add(marketValue.Sub(quantity.Mul(decimal.NewFromFloat(position.EntryPrice))))
	}

	value, _ = total.Float64()
	unrealized, _ = open.Float64()

	return value, unrealized
}

// Snapshot captures the account at time t with positions priced at the given closes.
func (b *BacktestState) Snapshot(t time.Time, prices map[string]float64, strategyTag string) types.AccountSnapshot {
	positionsValue, _ := b.Valuation(prices)

	equity, _ := decimal.NewFromFloat(b.account.Cash).Add(decimal.NewFromFloat(positionsValue)).Float64()

	return types.AccountSnapshot{
		RunID:          b.runID,
		Time:           t,
		Cash:           b.account.Cash,
		PositionsValue: positionsValue,
		Equity:         equity,
		RealizedPnL:    b.RealizedPnL(),
		OpenPositions:  b.OpenPositions(),
		StrategyName:   strategyTag,
	}
}
