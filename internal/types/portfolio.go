package types

// Allocation is the result of a portfolio optimization.
// Weights are non-negative and sum to 1; Assets gives their order.
type Allocation struct {
	Assets         []string           `json:"assets" yaml:"assets"`
	Weights        map[string]float64 `json:"weights" yaml:"weights"`
	ExpectedReturn float64            `json:"expected_return" yaml:"expected_return"`
	Risk           float64            `json:"risk" yaml:"risk"`
	Sharpe         float64            `json:"sharpe" yaml:"sharpe"`
}

// WeightVector returns the weights in Assets order.
func (a Allocation) WeightVector() []float64 {
	weights := make([]float64, len(a.Assets))
	for i, asset := range a.Assets {
		weights[i] = a.Weights[asset]
	}

	return weights
}
