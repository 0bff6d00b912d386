package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rxtech-lab/argo-quant/internal/backtest/engine"
	enginev1 "github.com/rxtech-lab/argo-quant/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-quant/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/notification"
	"github.com/rxtech-lab/argo-quant/internal/persistence"
	"github.com/rxtech-lab/argo-quant/internal/runner"
	"github.com/rxtech-lab/argo-quant/internal/telemetry"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run a backtest for each symbol and write stats.yaml per symbol",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the engine config `FILE` (defaults are used when empty)",
			},
			&cli.StringFlag{
				Name:     "data",
				Aliases:  []string{"d"},
				Usage:    "Path to the parquet file holding the bars",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:    "symbol",
				Aliases: []string{"s"},
				Usage:   "Symbol to backtest, repeatable. Defaults to every symbol in the data file",
			},
			&cli.StringFlag{
				Name:  "interval",
				Usage: "Bar interval to aggregate to (1m, 5m, 15m, 30m, 1h, 4h, 1d, 1w); empty keeps the stored bars",
			},
			&cli.DurationFlag{
				Name:  "lookback",
				Usage: "Only replay this much history before the latest bar; 0 replays everything",
			},
			&cli.StringFlag{
				Name:    "results",
				Aliases: []string{"r"},
				Usage:   "Directory the results are written to",
				Value:   "results",
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "DuckDB `FILE` that trades and snapshots are saved to; results are also exported as parquet",
			},
			&cli.BoolFlag{
				Name:  "notify",
				Usage: "Log a trade alert for every fill",
			},
			&cli.StringFlag{
				Name:  "metrics",
				Usage: "Write Prometheus metrics of the runs to this textfile",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "Number of symbols backtested in parallel",
				Value: 4,
			},
		},
		Action: runAction,
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	content := ""
	if path := cmd.String("config"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		content = string(raw)
	}

	config, err := enginev1.ParseConfig(content)
	if err != nil {
		return err
	}

	interval, err := datasource.ParseInterval(cmd.String("interval"))
	if err != nil {
		return err
	}

	log, err := logger.NewLoggerWithLevel(config.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	source, err := datasource.NewDataSource("", log)
	if err != nil {
		return err
	}
	defer source.Close()

	if err := source.Initialize(cmd.String("data")); err != nil {
		return err
	}

	symbols := cmd.StringSlice("symbol")
	if len(symbols) == 0 {
		symbols, err = source.Symbols(ctx)
		if err != nil {
			return err
		}
	}

	registry := prometheus.NewRegistry()
	collector := telemetry.NewCollector(registry)
	hooks := []engine.Hook{collector}

	var store *persistence.DuckDBStore
	if path := cmd.String("store"); path != "" {
		store, err = persistence.NewDuckDBStore(path, log)
		if err != nil {
			return err
		}
		defer store.Close()

		hooks = append(hooks, persistence.NewHook(store))
	}

	if cmd.Bool("notify") {
		hooks = append(hooks, notification.NewHook(notification.NewLogNotifier(log)))
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(fmt.Sprintf("Backtesting %d symbols", len(symbols))),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
	)
	callbacks := progressCallbacks(bar, collector.Callbacks())

	backtests, err := runner.NewRunner(content, source,
		runner.WithConcurrency(int(cmd.Int("concurrency"))),
		runner.WithHooks(hooks...),
		runner.WithCallbacks(callbacks),
		runner.WithLogger(log),
	)
	if err != nil {
		return err
	}

	jobs := make([]runner.Job, 0, len(symbols))
	for _, symbol := range symbols {
		jobs = append(jobs, runner.Job{Symbol: symbol, Interval: interval, Lookback: cmd.Duration("lookback")})
	}

	results, err := backtests.RunAll(ctx, jobs)
	_ = bar.Finish()

	if err != nil {
		return err
	}

	failed := 0

	for _, result := range results {
		if result.Err != nil {
			failed++

			log.Error("Backtest aborted", zap.String("symbol", result.Job.Symbol), zap.Error(result.Err))

			continue
		}

		folder := enginev1.ResultFolder(cmd.String("results"), result.Job.Symbol, config)
		if err := os.MkdirAll(folder, 0755); err != nil {
			return fmt.Errorf("failed to create result folder: %w", err)
		}

		if err := types.WritePerformanceReport(filepath.Join(folder, "stats.yaml"), result.Result.Report); err != nil {
			return err
		}

		log.Info("Backtest results written",
			zap.String("symbol", result.Job.Symbol),
			zap.String("folder", folder),
			zap.Int("trades", len(result.Result.Ledger)),
			zap.Float64("total_return", result.Result.Report.TotalReturn),
		)
	}

	if store != nil {
		if err := store.Export(enginev1.ResultFolder(cmd.String("results"), "", config)); err != nil {
			return err
		}
	}

	if path := cmd.String("metrics"); path != "" {
		if err := prometheus.WriteToTextfile(path, registry); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d backtests aborted on malformed market data", failed, len(results))
	}

	return nil
}

// progressCallbacks advances bar once per replayed bar on top of the given callbacks.
func progressCallbacks(bar *progressbar.ProgressBar, callbacks engine.LifecycleCallbacks) engine.LifecycleCallbacks {
	next := callbacks.OnProcessData
	onProcessData := engine.OnProcessDataCallback(func(current, total int) error {
		_ = bar.Add(1)

		if next != nil {
			return (*next)(current, total)
		}

		return nil
	})

	callbacks.OnProcessData = &onProcessData

	return callbacks
}
