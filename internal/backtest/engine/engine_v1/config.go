package engine

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-quant/internal/classifier"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

const (
	defaultInitialCapital = 100000
	defaultRiskPerTrade   = 0.02
	defaultRiskFreeRate   = 0.02
	defaultHookBuffer     = 256
)

// ClassifierSignalConfig configures the classifier-based BUY signal.
type ClassifierSignalConfig struct {
	Enabled           bool `yaml:"enabled" json:"enabled" jsonschema:"title=Enabled,description=Emit BUY signals from the retrained classifier,default=true"`
	classifier.Config `yaml:",inline"`
	// Threshold is the probability the classifier must exceed
	Threshold float64 `yaml:"threshold" json:"threshold" validate:"gt=0,lt=1" jsonschema:"title=Threshold,description=Minimum predicted probability of an up move,default=0.7"`
	// MinSamples is the number of complete training rows required before the classifier is trained
	MinSamples int `yaml:"min_samples" json:"min_samples" validate:"gte=2" jsonschema:"title=Min Samples,default=30"`
}

// SignalConfig selects the entry signal sources.
type SignalConfig struct {
	RuleEnabled bool                   `yaml:"rule_enabled" json:"rule_enabled" jsonschema:"title=Rule Enabled,description=Emit the oversold reversal BUY rule,default=true"`
	Classifier  ClassifierSignalConfig `yaml:"classifier" json:"classifier"`
}

// ExitConfig configures the protective SELL rule. Zero values disable a check.
type ExitConfig struct {
	StopLoss   float64 `yaml:"stop_loss" json:"stop_loss" validate:"gte=0,lt=1" jsonschema:"title=Stop Loss,description=Fractional loss from entry that closes the position,minimum=0"`
	TakeProfit float64 `yaml:"take_profit" json:"take_profit" validate:"gte=0" jsonschema:"title=Take Profit,description=Fractional gain from entry that closes the position,minimum=0"`
	Overbought bool    `yaml:"overbought" json:"overbought" jsonschema:"title=Overbought,description=Close the position when RSI rises above 70"`
}

type BacktestEngineV1Config struct {
	InitialCapital  float64                    `yaml:"initial_capital" json:"initial_capital" validate:"gt=0" jsonschema:"title=Initial Capital,description=Starting capital for the backtest in USD,minimum=0,default=100000"`
	RiskPerTrade    float64                    `yaml:"risk_per_trade" json:"risk_per_trade" validate:"gt=0,lte=1" jsonschema:"title=Risk Per Trade,description=Fraction of available cash committed by each BUY signal,default=0.02"`
	RiskFreeRate    float64                    `yaml:"risk_free_rate" json:"risk_free_rate" jsonschema:"title=Risk Free Rate,description=Annual risk free rate used by the Sharpe ratio,default=0.02"`
	ForceCloseAtEnd bool                       `yaml:"force_close_at_end" json:"force_close_at_end" jsonschema:"title=Force Close At End,description=Close open positions at the last bar's close"`
	StartTime       optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional start time for the backtest period"`
	EndTime         optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional end time for the backtest period"`
	Signal          SignalConfig               `yaml:"signal" json:"signal"`
	Exit            ExitConfig                 `yaml:"exit" json:"exit"`
	// StrategyTag is an opaque caller supplied tag copied into reports and snapshots
	StrategyTag string `yaml:"strategy_tag" json:"strategy_tag" jsonschema:"title=Strategy Tag"`
	LogLevel    string `yaml:"log_level" json:"log_level" validate:"omitempty,oneof=debug info warn error" jsonschema:"title=Log Level,enum=debug,enum=info,enum=warn,enum=error,default=info"`
	// HookBuffer is the number of hook events queued before new ones are dropped
	HookBuffer int `yaml:"hook_buffer" json:"hook_buffer" validate:"gte=1" jsonschema:"title=Hook Buffer,default=256"`
}

// UnmarshalYAML implements custom unmarshaling for BacktestEngineV1Config.
// Keys missing from the document keep their default value.
func (c *BacktestEngineV1Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type Config struct {
		InitialCapital  float64      `yaml:"initial_capital"`
		RiskPerTrade    float64      `yaml:"risk_per_trade"`
		RiskFreeRate    float64      `yaml:"risk_free_rate"`
		ForceCloseAtEnd bool         `yaml:"force_close_at_end"`
		StartTime       *time.Time   `yaml:"start_time"`
		EndTime         *time.Time   `yaml:"end_time"`
		Signal          SignalConfig `yaml:"signal"`
		Exit            ExitConfig   `yaml:"exit"`
		StrategyTag     string       `yaml:"strategy_tag"`
		LogLevel        string       `yaml:"log_level"`
		HookBuffer      int          `yaml:"hook_buffer"`
	}

	defaults := DefaultConfig()
	config := Config{
		InitialCapital:  defaults.InitialCapital,
		RiskPerTrade:    defaults.RiskPerTrade,
		RiskFreeRate:    defaults.RiskFreeRate,
		ForceCloseAtEnd: defaults.ForceCloseAtEnd,
		Signal:          defaults.Signal,
		Exit:            defaults.Exit,
		StrategyTag:     defaults.StrategyTag,
		LogLevel:        defaults.LogLevel,
		HookBuffer:      defaults.HookBuffer,
	}

	if err := unmarshal(&config); err != nil {
		return err
	}

	c.InitialCapital = config.InitialCapital
	c.RiskPerTrade = config.RiskPerTrade
	c.RiskFreeRate = config.RiskFreeRate
	c.ForceCloseAtEnd = config.ForceCloseAtEnd
	c.Signal = config.Signal
	c.Exit = config.Exit
	c.StrategyTag = config.StrategyTag
	c.LogLevel = config.LogLevel
	c.HookBuffer = config.HookBuffer
	c.StartTime = optional.None[time.Time]()
	c.EndTime = optional.None[time.Time]()

	if config.StartTime != nil {
		c.StartTime = optional.Some(*config.StartTime)
	}

	if config.EndTime != nil {
		c.EndTime = optional.Some(*config.EndTime)
	}

	return nil
}

// MarshalYAML writes the period bounds as timestamps and leaves them out when unset.
func (c BacktestEngineV1Config) MarshalYAML() (interface{}, error) {
	type Config struct {
		InitialCapital  float64      `yaml:"initial_capital"`
		RiskPerTrade    float64      `yaml:"risk_per_trade"`
		RiskFreeRate    float64      `yaml:"risk_free_rate"`
		ForceCloseAtEnd bool         `yaml:"force_close_at_end"`
		StartTime       *time.Time   `yaml:"start_time,omitempty"`
		EndTime         *time.Time   `yaml:"end_time,omitempty"`
		Signal          SignalConfig `yaml:"signal"`
		Exit            ExitConfig   `yaml:"exit"`
		StrategyTag     string       `yaml:"strategy_tag,omitempty"`
		LogLevel        string       `yaml:"log_level"`
		HookBuffer      int          `yaml:"hook_buffer"`
	}

	config := Config{
		InitialCapital:  c.InitialCapital,
		RiskPerTrade:    c.RiskPerTrade,
		RiskFreeRate:    c.RiskFreeRate,
		ForceCloseAtEnd: c.ForceCloseAtEnd,
		StartTime:       nil,
		EndTime:         nil,
		Signal:          c.Signal,
		Exit:            c.Exit,
		StrategyTag:     c.StrategyTag,
		LogLevel:        c.LogLevel,
		HookBuffer:      c.HookBuffer,
	}

	if c.StartTime.IsSome() {
		start := c.StartTime.Unwrap()
		config.StartTime = &start
	}

	if c.EndTime.IsSome() {
		end := c.EndTime.Unwrap()
		config.EndTime = &end
	}

	return config, nil
}

// Validate checks field ranges and that the backtest period is not inverted.
func (c *BacktestEngineV1Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "invalid backtest engine config", err)
	}

	if _, err := classifier.NewFactory(c.Signal.Classifier.Config); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "invalid classifier config", err)
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && c.EndTime.Unwrap().Before(c.StartTime.Unwrap()) {
		return errors.Newf(errors.ErrCodeBacktestConfigError, "end_time %s is before start_time %s",
			c.EndTime.Unwrap().Format(time.RFC3339), c.StartTime.Unwrap().Format(time.RFC3339))
	}

	return nil
}

// GenerateSchema generates a JSON schema for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "backtest-engine-v1-config"
	schema.Description = "Configuration schema for BacktestEngineV1"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

// DefaultConfig returns the configuration used for keys a document leaves out.
func DefaultConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		InitialCapital:  defaultInitialCapital,
		RiskPerTrade:    defaultRiskPerTrade,
		RiskFreeRate:    defaultRiskFreeRate,
		ForceCloseAtEnd: false,
		StartTime:       optional.None[time.Time](),
		EndTime:         optional.None[time.Time](),
		Signal: SignalConfig{
			RuleEnabled: true,
			Classifier: ClassifierSignalConfig{
				Enabled: true,
				Config: classifier.Config{
					Kind:     classifier.KindRandomForest,
					Trees:    50,
					MaxDepth: 5,
					Seed:     42,
				},
				Threshold:  0.7,
				MinSamples: 30,
			},
		},
		Exit:        ExitConfig{StopLoss: 0, TakeProfit: 0, Overbought: false},
		StrategyTag: "",
		LogLevel:    "info",
		HookBuffer:  defaultHookBuffer,
	}
}

// TestConfig returns a small deterministic configuration limited to the given period.
func TestConfig(startTime time.Time, endTime time.Time) BacktestEngineV1Config {
	config := DefaultConfig()
	config.InitialCapital = 10000
	config.StartTime = optional.Some(startTime)
	config.EndTime = optional.Some(endTime)
	config.Signal.Classifier.Trees = 10
	config.Signal.Classifier.MaxDepth = 3
	config.LogLevel = "error"

	return config
}

// EmptyConfig returns a BacktestEngineV1Config with zero values and no period bounds.
func EmptyConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		InitialCapital: 0,
		StartTime:      optional.None[time.Time](),
		EndTime:        optional.None[time.Time](),
	}
}
