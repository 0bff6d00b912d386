package main

import (
	"context"
	"fmt"

	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/mocks"
	"github.com/rxtech-lab/argo-quant/pkg/marketdata/writer"
	"github.com/urfave/cli/v3"
)

func generateDataCommand() *cli.Command {
	defaults := mocks.DefaultConfig()

	return &cli.Command{
		Name:  "generate-data",
		Usage: "Write seeded synthetic daily bars to a parquet file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "Path of the parquet file to write",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:    "symbols",
				Aliases: []string{"s"},
				Usage:   "Symbols to generate",
				Value:   []string{"AAPL", "MSFT", "NVDA"},
			},
			&cli.IntFlag{
				Name:  "count",
				Usage: "Number of bars per symbol",
				Value: 250,
			},
			&cli.IntFlag{
				Name:  "seed",
				Value: 42,
			},
			&cli.FloatFlag{
				Name:  "volatility",
				Usage: "Standard deviation of the daily return",
				Value: defaults.Volatility,
			},
			&cli.TimestampFlag{
				Name:  "start",
				Usage: "Time of the first bar in `YYYY-MM-DD` format",
				Value: defaults.StartTime,
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
		},
		Action: generateDataAction,
	}
}

func generateDataAction(_ context.Context, cmd *cli.Command) error {
	config := mocks.DefaultConfig()
	config.Count = int(cmd.Int("count"))
	config.Volatility = cmd.Float("volatility")
	config.StartTime = cmd.Timestamp("start").UTC()

	generated := mocks.NewDataGenerator(int64(cmd.Int("seed"))).GenerateMultiSymbol(cmd.StringSlice("symbols"), config)

	series := make([]types.Series, 0, len(generated))
	for _, symbol := range cmd.StringSlice("symbols") {
		series = append(series, generated[symbol])
	}

	path, err := writer.WriteSeries(writer.NewDuckDBWriter(cmd.String("output"), logger.NewNopLogger()), series...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.Root().Writer, "Wrote %d bars for each of %d symbols to %s\n",
		config.Count, len(series), path)

	return err
}
