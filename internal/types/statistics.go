package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type TradeHoldingTime struct {
	// Minimum holding time of a closed trade in seconds
	Min int `yaml:"min" json:"min"`
	// Maximum holding time of a closed trade in seconds
	Max int `yaml:"max" json:"max"`
	// Average holding time of a closed trade in seconds
	Avg int `yaml:"avg" json:"avg"`
}

type TradePnl struct {
	// Realized PnL. By adding all the sell trades' pnl.
	RealizedPnL float64 `yaml:"realized_pnl" json:"realized_pnl"`
	// Unrealized PnL of positions still open at the end of the run, valued at the last close.
	UnrealizedPnL float64 `yaml:"unrealized_pnl" json:"unrealized_pnl"`
	// Total PnL. By adding RealizedPnL and UnrealizedPnL.
	TotalPnL float64 `yaml:"total_pnl" json:"total_pnl"`
	// Maximum loss. Find all realized pnl's minimum value.
	MaximumLoss float64 `yaml:"maximum_loss" json:"maximum_loss"`
	// Maximum profit. Find all realized pnl's maximum value.
	MaximumProfit float64 `yaml:"maximum_profit" json:"maximum_profit"`
}

type TradeResult struct {
	// Count of all ledger entries.
	NumberOfTrades int `yaml:"number_of_trades" json:"number_of_trades"`
	// Count of SELL entries.
	NumberOfClosedTrades int `yaml:"number_of_closed_trades" json:"number_of_closed_trades"`
	// Count of SELL entries with positive pnl.
	NumberOfWinningTrades int `yaml:"number_of_winning_trades" json:"number_of_winning_trades"`
	// Count of SELL entries with negative pnl.
	NumberOfLosingTrades int `yaml:"number_of_losing_trades" json:"number_of_losing_trades"`
	// Win rate. Winning trades / closed trades.
	WinRate float64 `yaml:"win_rate" json:"win_rate"`
}

// MarketRisk describes the risk of simply holding the instrument over the replayed bars.
type MarketRisk struct {
	// Volatility of the last 20 close-to-close returns, annualized by sqrt(252).
	Volatility float64 `yaml:"volatility" json:"volatility"`
	// SharpeRatio of daily returns in excess of the daily risk free rate, annualized.
	SharpeRatio float64 `yaml:"sharpe_ratio" json:"sharpe_ratio"`
	// MaxDrawdown of the close against its trailing 252 bar high, over the last 252 bars.
	MaxDrawdown float64 `yaml:"max_drawdown" json:"max_drawdown"`
}

// StrategyBreakdown summarizes the closed trades of one strategy tag.
type StrategyBreakdown struct {
	StrategyName   string  `yaml:"strategy_name" json:"strategy_name"`
	Count          int     `yaml:"count" json:"count"`
	WinRate        float64 `yaml:"win_rate" json:"win_rate"`
	MeanProfitLoss float64 `yaml:"mean_profit_loss" json:"mean_profit_loss"`
}

// PerformanceReport is derived once from the ledger and account at the end of a run.
// When the ledger is empty NoData is set and the ledger-derived metrics must be ignored.
type PerformanceReport struct {
	// ID is the unique identifier of the backtest run.
	ID string `yaml:"id" json:"id"`
	// Timestamp is when the report was produced.
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	// Symbol of the instrument.
	Symbol string `yaml:"symbol" json:"symbol"`
	// NoData is true when the ledger is empty.
	NoData bool `yaml:"no_data" json:"no_data"`
	// InitialCapital of the account.
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital"`
	// FinalCash of the account.
	FinalCash float64 `yaml:"final_cash" json:"final_cash"`
	// FinalEquity is cash plus the market value of open positions.
	FinalEquity float64 `yaml:"final_equity" json:"final_equity"`
	// Periods is the number of bars replayed.
	Periods int `yaml:"periods" json:"periods"`
	// TotalReturn is (final equity - initial capital) / initial capital.
	TotalReturn float64 `yaml:"total_return" json:"total_return"`
	// AnnualizedReturn is TotalReturn * 252 / Periods.
	AnnualizedReturn float64 `yaml:"annualized_return" json:"annualized_return"`
	// Volatility is the stdev of trade value returns times sqrt(252).
	Volatility float64 `yaml:"volatility" json:"volatility"`
	// SharpeRatio is (AnnualizedReturn - risk free rate) / Volatility, 0 when Volatility is 0.
	SharpeRatio float64 `yaml:"sharpe_ratio" json:"sharpe_ratio"`
	// MaxDrawdown is the minimum of cumulative return over its running max, minus 1.
	MaxDrawdown float64 `yaml:"max_drawdown" json:"max_drawdown"`
	// BuyAndHoldReturn is last close / first close - 1.
	BuyAndHoldReturn float64 `yaml:"buy_and_hold_return" json:"buy_and_hold_return"`
	// TradeResult contains trade counts and win rate.
	TradeResult TradeResult `yaml:"trade_result" json:"trade_result"`
	// TradePnl contains profit/loss breakdown.
	TradePnl TradePnl `yaml:"trade_pnl" json:"trade_pnl"`
	// TradeHoldingTime contains holding time statistics.
	TradeHoldingTime TradeHoldingTime `yaml:"trade_holding_time" json:"trade_holding_time"`
	// Strategies holds the per strategy tag breakdown, sorted by name.
	Strategies []StrategyBreakdown `yaml:"strategies" json:"strategies"`
	// MarketRisk is the risk of the instrument itself, independent of the trades.
	MarketRisk MarketRisk `yaml:"market_risk" json:"market_risk"`
	// StrategyName is the caller supplied tag of the run.
	StrategyName string `yaml:"strategy_name" json:"strategy_name"`
}

// WritePerformanceReport writes a performance report to a YAML file.
func WritePerformanceReport(path string, report PerformanceReport) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal performance report to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write performance report to file: %w", err)
	}

	return nil
}

// ReadPerformanceReport reads a performance report from a YAML file.
func ReadPerformanceReport(path string) (PerformanceReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PerformanceReport{}, fmt.Errorf("failed to read performance report file: %w", err)
	}

	var report PerformanceReport
	if err := yaml.Unmarshal(data, &report); err != nil {
		return PerformanceReport{}, fmt.Errorf("failed to unmarshal performance report: %w", err)
	}

	return report, nil
}
