package engine

import (
	"fmt"
	"path/filepath"

	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ParseConfig parses and validates a YAML engine configuration.
func ParseConfig(content string) (BacktestEngineV1Config, error) {
	config := DefaultConfig()

	if err := yaml.Unmarshal([]byte(content), &config); err != nil {
		return config, errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to parse backtest config", err)
	}

	if err := config.Validate(); err != nil {
		return config, err
	}

	return config, nil
}

// ResultFolder returns <results>/<strategy tag>/<start>_<end>/<symbol>.
// The period folder is left out when the config has no time bounds.
func ResultFolder(resultsFolder string, symbol string, config BacktestEngineV1Config) string {
	tag := config.StrategyTag
	if tag == "" {
		tag = "default"
	}

	folder := filepath.Join(resultsFolder, tag)

	if config.StartTime.IsSome() || config.EndTime.IsSome() {
		startTimeStr := "all"
		endTimeStr := "all"

		if config.StartTime.IsSome() {
			startTimeStr = config.StartTime.Unwrap().Format("20060102")
		}

		if config.EndTime.IsSome() {
			endTimeStr = config.EndTime.Unwrap().Format("20060102")
		}

		folder = filepath.Join(folder, fmt.Sprintf("%s_%s", startTimeStr, endTimeStr))
	}

	return filepath.Join(folder, symbol)
}
