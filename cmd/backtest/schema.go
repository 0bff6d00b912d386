package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	enginev1 "github.com/rxtech-lab/argo-quant/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-quant/internal/optimizer"
	"github.com/rxtech-lab/argo-quant/pkg/utils"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const schemaName = "backtest-engine-v1-config.json"

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the engine config JSON schema, or write it next to a sample config",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "kind",
				Usage: "Config the schema describes: engine or optimizer",
				Value: "engine",
			},
			&cli.StringFlag{
				Name:  "output",
				Usage: "Directory the schema and a sample config are written to instead of stdout",
			},
		},
		Action: schemaAction,
	}
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	switch cmd.String("kind") {
	case "engine":
	case "optimizer":
		schemaJSON, err := utils.GetSchemaFromConfig(optimizer.DefaultConfig(), "optimizer-config")
		if err != nil {
			return fmt.Errorf("failed to generate schema: %w", err)
		}

		_, err = fmt.Fprintln(cmd.Root().Writer, schemaJSON)

		return err
	default:
		return fmt.Errorf("unknown schema kind %q", cmd.String("kind"))
	}

	config := enginev1.DefaultConfig()

	schemaJSON, err := config.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	dir := cmd.String("output")
	if dir == "" {
		_, err = fmt.Fprintln(cmd.Root().Writer, schemaJSON)

		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, schemaName), []byte(schemaJSON), 0644); err != nil {
		return fmt.Errorf("failed to write schema: %w", err)
	}

	// an existing sample config is left alone
	samplePath := filepath.Join(dir, "backtest-engine-v1-config.yaml")
	if _, err := os.Stat(samplePath); os.IsNotExist(err) {
		yamlBytes, err := yaml.Marshal(config)
		if err != nil {
			return fmt.Errorf("failed to marshal sample config: %w", err)
		}

		yamlBytes = append([]byte("# yaml-language-server: $schema="+schemaName+"\n"), yamlBytes...)

		if err := os.WriteFile(samplePath, yamlBytes, 0644); err != nil {
			return fmt.Errorf("failed to write sample config: %w", err)
		}
	}

	return nil
}
