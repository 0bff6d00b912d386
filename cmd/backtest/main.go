package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "backtest",
		Usage: "Backtest signal strategies and optimize portfolio allocations on historical bars",
		Commands: []*cli.Command{
			runCommand(),
			optimizeCommand(),
			schemaCommand(),
			generateDataCommand(),
		},
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
