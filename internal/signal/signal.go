package signal

import (
	"github.com/rxtech-lab/argo-quant/internal/indicator"
	"github.com/rxtech-lab/argo-quant/internal/types"
)

// Strategy tags carried on every signal and trade record.
const (
	StrategyOversoldReversal = "rule_oversold_reversal"
	StrategyClassifier       = "ml_classifier"
	StrategyProtectiveExit   = "exit_protective"
)

// Context is everything a generator may look at for one engine step.
// View ends at the current bar, so generators cannot observe later bars.
type Context struct {
	View      indicator.View
	Cash      float64
	Positions map[string]types.Position
}

// Generator produces trade intents for the current bar. Conditions that cannot be
// evaluated yet (warm-up) produce no signal rather than an error.
type Generator interface {
	Name() string
	Generate(ctx Context) []types.Signal
}

// PositionSizer turns a fixed fraction policy into a signal's suggested size.
type PositionSizer struct {
	Fraction float64
}

// NewPositionSizer creates a sizer committing the given fraction of available cash.
func NewPositionSizer(fraction float64) PositionSizer {
	return PositionSizer{Fraction: fraction}
}

// SuggestedSize returns the fraction of cash to commit, capped at 1 so the cost
// never exceeds available cash. It is zero when there is no cash to spend.
func (p PositionSizer) SuggestedSize(cash float64) float64 {
	if cash <= 0 || p.Fraction <= 0 {
		return 0
	}

	if p.Fraction > 1 {
		return 1
	}

	return p.Fraction
}

// Composite runs several generators and concatenates their signals in order.
// Signals from different generators are never reconciled against each other.
type Composite struct {
	generators []Generator
}

func NewComposite(generators ...Generator) *Composite {
	return &Composite{generators: generators}
}

func (c *Composite) Name() string {
	return "composite"
}

func (c *Composite) Generate(ctx Context) []types.Signal {
	signals := make([]types.Signal, 0)
	for _, generator := range c.generators {
		signals = append(signals, generator.Generate(ctx)...)
	}

	return signals
}

// Generators returns the composed generators.
func (c *Composite) Generators() []Generator {
	return c.generators
}
