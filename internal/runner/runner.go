// Package runner executes independent backtest runs in parallel. Every job gets its own
// engine, so runs never share an account, a position table or a ledger.
package runner

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-quant/internal/backtest/engine"
	enginev1 "github.com/rxtech-lab/argo-quant/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-quant/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

// EngineFactory creates a fresh, uninitialized engine for one job.
type EngineFactory func() engine.Engine

// Job is one backtest of a symbol.
type Job struct {
	Symbol   string
	Interval datasource.Interval
	// Lookback limits the history fetched; zero fetches everything.
	Lookback time.Duration
}

// JobResult is the outcome of one job. Err is only set for failures that abort a run,
// such as malformed market data.
type JobResult struct {
	Job    Job
	Result engine.Result
	Err    error
}

type Runner struct {
	config      string
	source      datasource.MarketDataSource
	newEngine   EngineFactory
	hooks       []engine.Hook
	callbacks   engine.LifecycleCallbacks
	concurrency int
	log         *logger.Logger
}

type Option func(*Runner)

// WithConcurrency limits how many runs execute at once.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		r.concurrency = n
	}
}

// WithHooks attaches hooks to every job's engine. Hooks must be safe for concurrent use.
func WithHooks(hooks ...engine.Hook) Option {
	return func(r *Runner) {
		r.hooks = append(r.hooks, hooks...)
	}
}

// WithCallbacks passes lifecycle callbacks to every run. Callbacks must be safe for concurrent use.
func WithCallbacks(callbacks engine.LifecycleCallbacks) Option {
	return func(r *Runner) {
		r.callbacks = callbacks
	}
}

func WithEngineFactory(factory EngineFactory) Option {
	return func(r *Runner) {
		r.newEngine = factory
	}
}

func WithLogger(log *logger.Logger) Option {
	return func(r *Runner) {
		r.log = log
	}
}

// NewRunner creates a runner that initializes every engine with config and reads bars from source.
// The config is validated up front so a bad document fails before any job starts.
func NewRunner(config string, source datasource.MarketDataSource, options ...Option) (*Runner, error) {
	if _, err := enginev1.ParseConfig(config); err != nil {
		return nil, err
	}

	if source == nil {
		return nil, errors.New(errors.ErrCodeBacktestNoDatasource, "runner needs a market data source")
	}

	r := &Runner{
		config:      config,
		source:      source,
		concurrency: defaultConcurrency,
		log:         logger.NewNopLogger(),
	}

	for _, option := range options {
		option(r)
	}

	if r.newEngine == nil {
		log := r.log
		r.newEngine = func() engine.Engine {
			return enginev1.NewBacktestEngineV1(enginev1.WithLogger(log))
		}
	}

	if r.concurrency <= 0 {
		r.concurrency = defaultConcurrency
	}

	return r, nil
}

// RunAll runs every job and returns the results in job order. A job whose data cannot be
// fetched yields a NoData result. The returned error is only set when ctx ends before all
// jobs have run.
func (r *Runner) RunAll(ctx context.Context, jobs []Job) ([]JobResult, error) {
	results := make([]JobResult, len(jobs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, job := range jobs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				results[i] = JobResult{Job: job, Err: err}

				return err
			}

			results[i] = r.run(gCtx, job)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	return results, ctx.Err()
}

func (r *Runner) run(ctx context.Context, job Job) JobResult {
	backtest := r.newEngine()
	defer func() {
		if err := backtest.Close(); err != nil {
			r.log.Warn("Failed to close engine", zap.String("symbol", job.Symbol), zap.Error(err))
		}
	}()

	for _, hook := range r.hooks {
		if err := backtest.AddHook(hook); err != nil {
			return JobResult{Job: job, Err: err}
		}
	}

	if err := backtest.Initialize(r.config); err != nil {
		return JobResult{Job: job, Err: err}
	}

	if err := backtest.SetDataSource(r.source); err != nil {
		return JobResult{Job: job, Err: err}
	}

	result, err := backtest.RunSymbol(ctx, job.Symbol, job.Interval, job.Lookback, r.callbacks)
	if err != nil {
		r.log.Error("Backtest run failed", zap.String("symbol", job.Symbol), zap.Error(err))

		return JobResult{Job: job, Result: result, Err: err}
	}

	return JobResult{Job: job, Result: result}
}
