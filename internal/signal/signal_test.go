package signal

import (
	"math"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-quant/internal/indicator"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/stretchr/testify/suite"
)

var nan = math.NaN()

var baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// viewAtEnd builds a frame over the closes with the given columns and returns the view of its last bar.
func viewAtEnd(t *testing.T, prices []float64, columns map[string][]float64) indicator.View {
	bars := make([]types.MarketData, len(prices))
	for i, price := range prices {
		bars[i] = types.MarketData{
			Symbol: "AAPL",
			Time:   baseTime.AddDate(0, 0, i),
			Open:   price,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 1000,
		}
	}

	frame, err := indicator.NewFrame(types.NewSeries("AAPL", bars), columns)
	if err != nil {
		t.Fatalf("failed to build frame: %v", err)
	}

	return frame.Upto(len(prices) - 1)
}

type staticGenerator struct {
	name    string
	signals []types.Signal
}

func (g *staticGenerator) Name() string { return g.name }

func (g *staticGenerator) Generate(ctx Context) []types.Signal { return g.signals }

type SignalTestSuite struct {
	suite.Suite
}

func TestSignalSuite(t *testing.T) {
	suite.Run(t, new(SignalTestSuite))
}

func (suite *SignalTestSuite) TestPositionSizer() {
	tests := []struct {
		name     string
		fraction float64
		cash     float64
		expected float64
	}{
		{name: "default fraction", fraction: 0.02, cash: 10000, expected: 0.02},
		{name: "capped at full cash", fraction: 1.5, cash: 10000, expected: 1},
		{name: "no cash", fraction: 0.02, cash: 0, expected: 0},
		{name: "negative cash", fraction: 0.02, cash: -5, expected: 0},
		{name: "zero fraction", fraction: 0, cash: 10000, expected: 0},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.Equal(tt.expected, NewPositionSizer(tt.fraction).SuggestedSize(tt.cash))
		})
	}
}

func (suite *SignalTestSuite) TestCompositeConcatenatesInOrder() {
	first := types.Signal{Symbol: "AAPL", Action: types.SignalActionBuy, StrategyName: "a"}
	second := types.Signal{Symbol: "AAPL", Action: types.SignalActionSell, StrategyName: "b"}

	composite := NewComposite(
		&staticGenerator{name: "a", signals: []types.Signal{first}},
		&staticGenerator{name: "empty"},
		&staticGenerator{name: "b", signals: []types.Signal{second}},
	)

	signals := composite.Generate(Context{})
	suite.Equal([]types.Signal{first, second}, signals)
	suite.Len(composite.Generators(), 3)
	suite.Equal("composite", composite.Name())
}

func (suite *SignalTestSuite) TestCompositeEmpty() {
	suite.Empty(NewComposite().Generate(Context{}))
}
