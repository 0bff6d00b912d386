// Package metrics derives the performance report of a completed backtest from its ledger.
package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear annualizes returns and volatility.
const TradingDaysPerYear = 252

// Input is everything the calculator needs from a finished run.
type Input struct {
	RunID        string
	Symbol       string
	StrategyName string
	Ledger       []types.TradeRecord

	InitialCapital     float64
	FinalCash          float64
	OpenPositionsValue float64
	UnrealizedPnL      float64

	// Periods is the number of bars replayed
	Periods      int
	RiskFreeRate float64
	FirstClose   float64
	LastClose    float64
	// EndTime is the time of the last replayed bar; the report is stamped with it
	EndTime    time.Time
	MarketRisk types.MarketRisk
}

// Calculate builds the performance report. When the ledger is empty the report is
// flagged NoData and every ledger-derived figure stays zero.
func Calculate(in Input) types.PerformanceReport {
	report := types.PerformanceReport{
		ID:             in.RunID,
		Timestamp:      in.EndTime,
		Symbol:         in.Symbol,
		StrategyName:   in.StrategyName,
		NoData:         len(in.Ledger) == 0,
		InitialCapital: in.InitialCapital,
		FinalCash:      in.FinalCash,
		FinalEquity:    in.FinalCash + in.OpenPositionsValue,
		Periods:        in.Periods,
		Strategies:     []types.StrategyBreakdown{},
		MarketRisk:     in.MarketRisk,
	}

	if in.InitialCapital > 0 {
		report.TotalReturn = (report.FinalEquity - in.InitialCapital) / in.InitialCapital
	}

	if in.Periods > 0 {
		report.AnnualizedReturn = report.TotalReturn * (TradingDaysPerYear / float64(in.Periods))
	}

	if in.FirstClose > 0 {
		report.BuyAndHoldReturn = in.LastClose/in.FirstClose - 1
	}

	report.TradePnl.UnrealizedPnL = in.UnrealizedPnL
	report.TradePnl.TotalPnL = in.UnrealizedPnL

	if report.NoData {
		return report
	}

	returns := TradeValueReturns(in.Ledger)
	report.Volatility = StdDev(returns) * math.Sqrt(TradingDaysPerYear)

	if report.Volatility > 0 {
		report.SharpeRatio = (report.AnnualizedReturn - in.RiskFreeRate) / report.Volatility
	}

	report.MaxDrawdown = MaxDrawdown(returns)
	report.TradeResult = tradeResult(in.Ledger)
	report.TradePnl = tradePnl(in.Ledger, in.UnrealizedPnL)
	report.TradeHoldingTime = holdingTime(in.Ledger)
	report.Strategies = StrategyBreakdown(in.Ledger)

	return report
}

// TradeValueReturns returns the period-over-period change of the notional value of
// consecutive ledger entries.
func TradeValueReturns(ledger []types.TradeRecord) []float64 {
	if len(ledger) < 2 {
		return []float64{}
	}

	returns := make([]float64, 0, len(ledger)-1)
	for i := 1; i < len(ledger); i++ {
		returns = append(returns, ledger[i].Value/ledger[i-1].Value-1)
	}

	return returns
}

// StdDev is the sample standard deviation, 0 for fewer than two values.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	return stat.StdDev(values, nil)
}

// MaxDrawdown is min over t of cumulative[t]/max(cumulative[0..t]) - 1, where
// cumulative is the compounded product of 1+r. It is 0 or negative.
func MaxDrawdown(returns []float64) float64 {
	cumulative := 1.0
	peak := math.Inf(-1)
	drawdown := 0.0

	for _, r := range returns {
		cumulative *= 1 + r
		peak = math.Max(peak, cumulative)
		drawdown = math.Min(drawdown, cumulative/peak-1)
	}

	return drawdown
}

func sells(ledger []types.TradeRecord) []types.TradeRecord {
	out := make([]types.TradeRecord, 0, len(ledger))
	for _, record := range ledger {
		if record.IsSell() && record.ProfitLoss.IsSome() {
			out = append(out, record)
		}
	}

	return out
}

func tradeResult(ledger []types.TradeRecord) types.TradeResult {
	closed := sells(ledger)
	result := types.TradeResult{
		NumberOfTrades:       len(ledger),
		NumberOfClosedTrades: len(closed),
	}

	for _, record := range closed {
		pnl := record.ProfitLoss.Unwrap()
		if pnl > 0 {
			result.NumberOfWinningTrades++
		} else if pnl < 0 {
			result.NumberOfLosingTrades++
		}
	}

	if len(closed) > 0 {
		result.WinRate = float64(result.NumberOfWinningTrades) / float64(len(closed))
	}

	return result
}

func tradePnl(ledger []types.TradeRecord, unrealized float64) types.TradePnl {
	closed := sells(ledger)
	realized := decimal.Zero
	pnl := types.TradePnl{UnrealizedPnL: unrealized}

	for i, record := range closed {
		value := record.ProfitLoss.Unwrap()
		realized = realized.Add(decimal.NewFromFloat(value))

		if i == 0 || value > pnl.MaximumProfit {
			pnl.MaximumProfit = value
		}

		if i == 0 || value < pnl.MaximumLoss {
			pnl.MaximumLoss = value
		}
	}

	pnl.RealizedPnL, _ = realized.Float64()
	pnl.TotalPnL, _ = realized.Add(decimal.NewFromFloat(unrealized)).Float64()

	return pnl
}

func holdingTime(ledger []types.TradeRecord) types.TradeHoldingTime {
	closed := sells(ledger)
	if len(closed) == 0 {
		return types.TradeHoldingTime{}
	}

	result := types.TradeHoldingTime{Min: math.MaxInt}
	total := 0

	for _, record := range closed {
		seconds := int(record.HoldingPeriod.Unwrap().Seconds())
		result.Min = min(result.Min, seconds)
		result.Max = max(result.Max, seconds)
		total += seconds
	}

	result.Avg = total / len(closed)

	return result
}

// StrategyBreakdown groups closed trades by strategy tag, sorted by tag.
func StrategyBreakdown(ledger []types.TradeRecord) []types.StrategyBreakdown {
	type group struct {
		count int
		wins  int
		total decimal.Decimal
	}

	groups := make(map[string]*group)

	for _, record := range sells(ledger) {
		g, ok := groups[record.StrategyName]
		if !ok {
			g = &group{total: decimal.Zero}
			groups[record.StrategyName] = g
		}

		pnl := record.ProfitLoss.Unwrap()
		g.count++
		g.total = g.total.Add(decimal.NewFromFloat(pnl))

		if pnl > 0 {
			g.wins++
		}
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}

	sort.Strings(names)

	breakdown := make([]types.StrategyBreakdown, 0, len(names))
	for _, name := range names {
		g := groups[name]
		mean, _ := g.total.Div(decimal.NewFromInt(int64(g.count))).Float64()

		breakdown = append(breakdown, types.StrategyBreakdown{
			StrategyName:   name,
			Count:          g.count,
			WinRate:        float64(g.wins) / float64(g.count),
			MeanProfitLoss: mean,
		})
	}

	return breakdown
}

const (
	marketVolatilityWindow = 20
	marketDrawdownWindow   = TradingDaysPerYear
	// excess returns closer together than this are treated as riskless
	minExcessStdDev = 1e-12
)

// MarketRisk measures the instrument itself over the series, independent of any trades:
//   - volatility of the last 20 close-to-close returns, annualized
//   - sharpe ratio of daily returns in excess of riskFreeRate/252, annualized by sqrt(252)
//   - the worst close against its trailing 252 bar high, over the last 252 bars
//
// Figures that need more bars than the series has are 0.
func MarketRisk(series types.Series, riskFreeRate float64) types.MarketRisk {
	closes := series.Closes()
	risk := types.MarketRisk{}

	if len(closes) == 0 {
		return risk
	}

	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		returns = append(returns, closes[i]/closes[i-1]-1)
	}

	if len(returns) >= marketVolatilityWindow {
		risk.Volatility = StdDev(returns[len(returns)-marketVolatilityWindow:]) * math.Sqrt(TradingDaysPerYear)
	}

	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - riskFreeRate/TradingDaysPerYear
	}

	if deviation := StdDev(excess); deviation > minExcessStdDev {
		risk.SharpeRatio = math.Sqrt(TradingDaysPerYear) * stat.Mean(excess, nil) / deviation
	}

	risk.MaxDrawdown = trailingDrawdown(closes, marketDrawdownWindow)

	return risk
}

// trailingDrawdown is the minimum over the last window bars of close / (highest close of
// the window bars ending there) - 1.
func trailingDrawdown(closes []float64, window int) float64 {
	worst := 0.0

	for i := max(0, len(closes)-window); i < len(closes); i++ {
		peak := closes[i]
		for j := max(0, i-window+1); j < i; j++ {
			peak = math.Max(peak, closes[j])
		}

		worst = math.Min(worst, closes[i]/peak-1)
	}

	return worst
}
