package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

type SignalAction string

const (
	SignalActionBuy  SignalAction = "BUY"
	SignalActionSell SignalAction = "SELL"
	SignalActionHold SignalAction = "HOLD"
)

// Signal is a trade intent produced by a generator for a single engine step.
// Signals are consumed within the step that produced them and never persisted.
type Signal struct {
	// Time is the bar time the signal was generated for
	Time time.Time `yaml:"time" json:"time" validate:"required"`
	// Symbol is the instrument the signal applies to
	Symbol string `yaml:"symbol" json:"symbol" validate:"required"`
	// Action is BUY, SELL or HOLD
	Action SignalAction `yaml:"action" json:"action" validate:"required,oneof=BUY SELL HOLD"`
	// Confidence of the generator in [0, 1]
	Confidence float64 `yaml:"confidence" json:"confidence" validate:"gte=0,lte=1"`
	// Reason is a human readable explanation
	Reason string `yaml:"reason" json:"reason"`
	// SuggestedSize is the fraction of available cash to commit, in (0, 1]
	SuggestedSize float64 `yaml:"suggested_size" json:"suggested_size" validate:"gt=0,lte=1"`
	// StrategyName tags the generator that produced the signal
	StrategyName string `yaml:"strategy_name" json:"strategy_name" validate:"required"`
}

// Validate validates the Signal struct.
func (s *Signal) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSignal, "invalid signal", err)
	}

	return nil
}
