package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-quant/internal/backtest/engine"
	"github.com/rxtech-lab/argo-quant/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-quant/internal/classifier"
	"github.com/rxtech-lab/argo-quant/internal/indicator"
	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/metrics"
	"github.com/rxtech-lab/argo-quant/internal/signal"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"go.uber.org/zap"
)

// BacktestEngineV1 replays one series at a time through the configured signal generators.
// A single engine runs one backtest at a time; parallel runs use one engine each.
type BacktestEngineV1 struct {
	config            BacktestEngineV1Config
	log               *logger.Logger
	indicatorRegistry indicator.IndicatorRegistry
	generator         signal.Generator
	datasource        datasource.MarketDataSource
	dispatcher        *hookDispatcher
	pendingHooks      []engine.Hook
}

// Option customizes a BacktestEngineV1.
type Option func(*BacktestEngineV1)

// WithLogger replaces the logger Initialize would create from log_level.
func WithLogger(log *logger.Logger) Option {
	return func(b *BacktestEngineV1) {
		b.log = log
	}
}

// WithSignalGenerator replaces the generators built from the signal and exit config.
func WithSignalGenerator(generator signal.Generator) Option {
	return func(b *BacktestEngineV1) {
		b.generator = generator
	}
}

// WithIndicatorRegistry replaces the default indicator set.
func WithIndicatorRegistry(registry indicator.IndicatorRegistry) Option {
	return func(b *BacktestEngineV1) {
		b.indicatorRegistry = registry
	}
}

func NewBacktestEngineV1(options ...Option) engine.Engine {
	b := &BacktestEngineV1{
		config:            EmptyConfig(),
		log:               nil,
		indicatorRegistry: nil,
		generator:         nil,
		datasource:        nil,
		dispatcher:        nil,
		pendingHooks:      nil,
	}

	for _, option := range options {
		option(b)
	}

	return b
}

// Initialize implements engine.Engine.
func (b *BacktestEngineV1) Initialize(config string) error {
	if b.dispatcher != nil {
		return errors.New(errors.ErrCodeBacktestConfigError, "engine is already initialized")
	}

	parsed, err := ParseConfig(config)
	if err != nil {
		return err
	}

	b.config = parsed

	if b.log == nil {
		log, err := logger.NewLoggerWithLevel(b.config.LogLevel)
		if err != nil {
			return errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to create logger", err)
		}

		b.log = log
	}

	if b.indicatorRegistry == nil {
		b.indicatorRegistry = indicator.NewDefaultRegistry()
	}

	if b.generator == nil {
		generator, err := newSignalGenerator(b.config)
		if err != nil {
			return err
		}

		b.generator = generator
	}

	b.dispatcher = newHookDispatcher(b.config.HookBuffer, b.log)

	for _, hook := range b.pendingHooks {
		if err := b.dispatcher.add(hook); err != nil {
			return err
		}
	}

	b.pendingHooks = nil

	b.log.Debug("Backtest engine initialized",
		zap.Float64("initial_capital", b.config.InitialCapital),
		zap.Float64("risk_per_trade", b.config.RiskPerTrade),
		zap.Bool("force_close_at_end", b.config.ForceCloseAtEnd),
	)

	return nil
}

// newSignalGenerator composes the generators enabled by the config.
func newSignalGenerator(config BacktestEngineV1Config) (signal.Generator, error) {
	sizer := signal.NewPositionSizer(config.RiskPerTrade)
	generators := make([]signal.Generator, 0, 3)

	// exits first so a position can be closed and re-opened in the same step
	exit := signal.NewProtectiveExitRule(config.Exit.StopLoss, config.Exit.TakeProfit, config.Exit.Overbought)
	if exit.Enabled() {
		generators = append(generators, exit)
	}

	if config.Signal.RuleEnabled {
		generators = append(generators, signal.NewOversoldReversalRule(sizer))
	}

	if config.Signal.Classifier.Enabled {
		factory, err := classifier.NewFactory(config.Signal.Classifier.Config)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeBacktestConfigError, "invalid classifier config", err)
		}

		generators = append(generators, signal.NewClassifierSignal(
			factory, config.Signal.Classifier.Threshold, config.Signal.Classifier.MinSamples, sizer,
		))
	}

	return signal.NewComposite(generators...), nil
}

// SetDataSource implements engine.Engine.
func (b *BacktestEngineV1) SetDataSource(dataSource datasource.MarketDataSource) error {
	b.datasource = dataSource

	return nil
}

// AddHook implements engine.Engine.
func (b *BacktestEngineV1) AddHook(hook engine.Hook) error {
	if hook == nil {
		return errors.New(errors.ErrCodeInvalidParameter, "hook must not be nil")
	}

	if b.dispatcher == nil {
		b.pendingHooks = append(b.pendingHooks, hook)

		return nil
	}

	return b.dispatcher.add(hook)
}

// RunSymbol implements engine.Engine.
func (b *BacktestEngineV1) RunSymbol(
	ctx context.Context,
	symbol string,
	interval datasource.Interval,
	lookback time.Duration,
	callbacks engine.LifecycleCallbacks,
) (engine.Result, error) {
	if err := b.preRunCheck(); err != nil {
		return engine.Result{}, err
	}

	if b.datasource == nil {
		return engine.Result{}, errors.New(errors.ErrCodeBacktestNoDatasource, "no datasource set")
	}

	series, err := b.datasource.Fetch(ctx, symbol, interval, lookback)
	if err != nil {
		b.log.Warn("Failed to fetch market data, running without data",
			zap.String("symbol", symbol),
			zap.Error(err),
		)

		series = types.NewSeries(symbol, nil)
	}

	return b.Run(ctx, series, callbacks)
}

// Run implements engine.Engine.
func (b *BacktestEngineV1) Run(ctx context.Context, series types.Series, callbacks engine.LifecycleCallbacks) (engine.Result, error) {
	if err := b.preRunCheck(); err != nil {
		return engine.Result{}, err
	}

	runID := uuid.New().String()

	if err := series.Validate(); err != nil {
		b.log.Error("Malformed market data, aborting run",
			zap.String("run_id", runID),
			zap.String("symbol", series.Symbol),
			zap.Error(err),
		)

		return engine.Result{RunID: runID}, err
	}

	series = series.Between(b.config.StartTime.Unwrap(), b.config.EndTime.Unwrap())
	state := NewBacktestState(runID, b.config.InitialCapital, b.log)
	trading := NewBacktestTrading(state)

	if callbacks.OnRunStart != nil {
		if err := (*callbacks.OnRunStart)(runID, series.Symbol, series.Len()); err != nil {
			return engine.Result{RunID: runID}, fmt.Errorf("run start callback: %w", err)
		}
	}

	b.log.Info("Backtest run started",
		zap.String("run_id", runID),
		zap.String("symbol", series.Symbol),
		zap.Int("bars", series.Len()),
	)

	if series.Len() > 0 {
		if err := b.replay(ctx, series, state, trading, callbacks); err != nil {
			return engine.Result{RunID: runID}, err
		}
	}

	result := b.finish(ctx, runID, series, state)

	if callbacks.OnRunEnd != nil {
		(*callbacks.OnRunEnd)(runID, result.Report)
	}

	b.log.Info("Backtest run finished",
		zap.String("run_id", runID),
		zap.String("symbol", series.Symbol),
		zap.Int("trades", len(result.Ledger)),
		zap.Float64("total_return", result.Report.TotalReturn),
		zap.Bool("no_data", result.Report.NoData),
	)

	return result, nil
}

// replay advances bar by bar. Signals at bar t only see the frame up to t.
func (b *BacktestEngineV1) replay(
	ctx context.Context,
	series types.Series,
	state *BacktestState,
	trading *BacktestTrading,
	callbacks engine.LifecycleCallbacks,
) error {
	frame, err := b.indicatorRegistry.Compute(series)
	if err != nil {
		return err
	}

	total := frame.Len()

	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("backtest cancelled at bar %d: %w", i, err)
		}

		view := frame.Upto(i)
		bar := view.Current()

		signals := b.generator.Generate(signal.Context{
			View:      view,
			Cash:      state.Account().Cash,
			Positions: state.Positions(),
		})

		for _, sig := range signals {
			if sig.Action == types.SignalActionHold {
				continue
			}

			record, err := trading.Execute(sig, bar)
			if err != nil {
				b.reject(sig, err, callbacks)

				continue
			}

			b.dispatcher.publishFill(ctx, record)
		}

		if callbacks.OnProcessData != nil {
			if err := (*callbacks.OnProcessData)(i+1, total); err != nil {
				return fmt.Errorf("process data callback: %w", err)
			}
		}
	}

	last := series.Bars[total-1]
	if b.config.ForceCloseAtEnd && state.Position(last.Symbol).IsSome() {
		record, err := trading.ForceClose(last)
		if err != nil {
			b.log.Warn("Failed to force close position", zap.String("symbol", last.Symbol), zap.Error(err))
		} else {
			b.dispatcher.publishFill(ctx, record)
		}
	}

	return nil
}

func (b *BacktestEngineV1) reject(sig types.Signal, err error, callbacks engine.LifecycleCallbacks) {
	code := errors.GetCode(err)

	b.log.Debug("Signal rejected",
		zap.String("symbol", sig.Symbol),
		zap.String("action", string(sig.Action)),
		zap.String("strategy", sig.StrategyName),
		zap.Int("code", int(code)),
		zap.Error(err),
	)

	if callbacks.OnSignalRejected != nil {
		(*callbacks.OnSignalRejected)(sig, code)
	}
}

// finish builds the report and snapshot and hands them to the hooks.
func (b *BacktestEngineV1) finish(ctx context.Context, runID string, series types.Series, state *BacktestState) engine.Result {
	input := metrics.Input{
		RunID:          runID,
		Symbol:         series.Symbol,
		StrategyName:   b.config.StrategyTag,
		Ledger:         state.Ledger(),
		InitialCapital: b.config.InitialCapital,
		FinalCash:      state.Account().Cash,
		Periods:        series.Len(),
		RiskFreeRate:   b.config.RiskFreeRate,
		MarketRisk:     metrics.MarketRisk(series, b.config.RiskFreeRate),
	}

	snapshotTime := time.Time{}
	prices := map[string]float64{}

	if series.Len() > 0 {
		first, last := series.Bars[0], series.Bars[series.Len()-1]
		input.FirstClose = first.Close
		input.LastClose = last.Close
		snapshotTime = last.Time
		input.EndTime = last.Time
		prices[last.Symbol] = last.Close
	}

	input.OpenPositionsValue, input.UnrealizedPnL = state.Valuation(prices)

	report := metrics.Calculate(input)
	snapshot := state.Snapshot(snapshotTime, prices, b.config.StrategyTag)

	b.dispatcher.publishRunComplete(ctx, snapshot, report)

	return engine.Result{
		RunID:         runID,
		Ledger:        input.Ledger,
		Account:       state.Account(),
		OpenPositions: state.OpenPositions(),
		Report:        report,
	}
}

// GetConfigSchema implements engine.Engine.
func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	config := b.config

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return "", fmt.Errorf("failed to generate schema: %w", err)
	}

	return schema, nil
}

// Close implements engine.Engine.
func (b *BacktestEngineV1) Close() error {
	if b.dispatcher == nil {
		return nil
	}

	b.dispatcher.close()

	if dropped := b.dispatcher.Dropped(); dropped > 0 {
		b.log.Warn("Hook events were dropped", zap.Int("dropped", dropped))
	}

	return nil
}

func (b *BacktestEngineV1) preRunCheck() error {
	if b.dispatcher == nil {
		return errors.New(errors.ErrCodeBacktestNotInitialized, "engine is not initialized")
	}

	if b.dispatcher.isClosed() {
		return errors.New(errors.ErrCodeBacktestNotInitialized, "engine is closed")
	}

	return nil
}
