package main

import (
	"context"
	"fmt"

	"github.com/rxtech-lab/argo-quant/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/optimizer"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

func optimizeCommand() *cli.Command {
	defaults := optimizer.DefaultConfig()

	return &cli.Command{
		Name:  "optimize",
		Usage: "Search for the allocation with the highest Sharpe ratio across symbols",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "data",
				Aliases:  []string{"d"},
				Usage:    "Path to the parquet file holding the bars",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:    "symbols",
				Aliases: []string{"s"},
				Usage:   "Symbols to allocate across. Defaults to every symbol in the data file",
			},
			&cli.StringFlag{
				Name:  "interval",
				Usage: "Bar interval the returns are computed on",
				Value: string(datasource.Interval1d),
			},
			&cli.IntFlag{
				Name:  "portfolios",
				Usage: "Number of random portfolios to evaluate",
				Value: optimizer.DefaultPortfolios,
			},
			&cli.IntFlag{
				Name:  "seed",
				Usage: "Seed of the portfolio sampler",
				Value: 42,
			},
			&cli.FloatFlag{
				Name:  "risk-free-rate",
				Usage: "Annual risk free rate used by the Sharpe ratio",
				Value: defaults.RiskFreeRate,
			},
		},
		Action: optimizeAction,
	}
}

func optimizeAction(ctx context.Context, cmd *cli.Command) error {
	log := logger.NewNopLogger()

	interval, err := datasource.ParseInterval(cmd.String("interval"))
	if err != nil {
		return err
	}

	source, err := datasource.NewDataSource("", log)
	if err != nil {
		return err
	}
	defer source.Close()

	if err := source.Initialize(cmd.String("data")); err != nil {
		return err
	}

	symbols := cmd.StringSlice("symbols")
	if len(symbols) == 0 {
		symbols, err = source.Symbols(ctx)
		if err != nil {
			return err
		}
	}

	returns := make(map[string][]float64, len(symbols))
	for _, symbol := range symbols {
		series, err := source.Fetch(ctx, symbol, interval, 0)
		if err != nil {
			return err
		}

		returns[symbol] = optimizer.ReturnsFromSeries(series)
	}

	config := optimizer.Config{
		Portfolios:   int(cmd.Int("portfolios")),
		RiskFreeRate: cmd.Float("risk-free-rate"),
		Seed:         int64(cmd.Int("seed")),
	}

	allocation, err := optimizer.NewOptimizer(config, log).Optimize(alignReturns(returns))
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(allocation)
	if err != nil {
		return fmt.Errorf("failed to marshal allocation: %w", err)
	}

	_, err = fmt.Fprint(cmd.Root().Writer, string(out))

	return err
}

// alignReturns keeps the most recent returns common to every symbol so the series have
// equal length.
func alignReturns(returns map[string][]float64) map[string][]float64 {
	shortest := -1
	for _, values := range returns {
		if shortest < 0 || len(values) < shortest {
			shortest = len(values)
		}
	}

	aligned := make(map[string][]float64, len(returns))
	for symbol, values := range returns {
		aligned[symbol] = values[len(values)-shortest:]
	}

	return aligned
}
