package optimizer

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distmv"
)

const (
	DefaultPortfolios   = 1000
	DefaultRiskFreeRate = 0.02
)

// Config configures the Monte Carlo allocation search.
type Config struct {
	// Portfolios is the number of random weight vectors to draw
	Portfolios int `yaml:"portfolios" json:"portfolios" validate:"gte=0" jsonschema:"default=1000"`
	// RiskFreeRate is subtracted from the portfolio return in the sharpe ratio
	RiskFreeRate float64 `yaml:"risk_free_rate" json:"risk_free_rate" jsonschema:"default=0.02"`
	// Seed makes the search reproducible
	Seed int64 `yaml:"seed" json:"seed" jsonschema:"default=42"`
}

// DefaultConfig returns 1000 portfolios, a 2% risk free rate and seed 42.
func DefaultConfig() Config {
	return Config{
		Portfolios:   DefaultPortfolios,
		RiskFreeRate: DefaultRiskFreeRate,
		Seed:         42,
	}
}

// Optimizer searches the weight simplex for the allocation with the best sharpe ratio.
// It is a stochastic approximation: the result is the best of the sampled vectors.
type Optimizer struct {
	config Config
	log    *logger.Logger
}

func NewOptimizer(config Config, log *logger.Logger) *Optimizer {
	if config.Portfolios <= 0 {
		config.Portfolios = DefaultPortfolios
	}

	return &Optimizer{
		config: config,
		log:    log,
	}
}

// Moments holds the estimated mean vector and sample covariance matrix, in Assets order.
type Moments struct {
	Assets     []string
	Mean       []float64
	Covariance *mat.SymDense
}

// EstimateMoments validates the return series and estimates their moments.
// Assets are ordered by name.
func EstimateMoments(returns map[string][]float64) (Moments, error) {
	if len(returns) == 0 {
		return Moments{}, errors.New(errors.ErrCodeOptimizerNoAssets, "no assets to optimize")
	}

	assets := make([]string, 0, len(returns))
	for asset := range returns {
		assets = append(assets, asset)
	}

	sort.Strings(assets)

	length := len(returns[assets[0]])
	for _, asset := range assets {
		series := returns[asset]
		if len(series) != length {
			return Moments{}, errors.Newf(errors.ErrCodeOptimizerSeriesMismatch,
				"return series for %s has %d observations, expected %d", asset, len(series), length)
		}

		for i, r := range series {
			if math.IsNaN(r) || math.IsInf(r, 0) {
				return Moments{}, errors.Newf(errors.ErrCodeOptimizerInvalidReturns,
					"return series for %s has a non-finite value at index %d", asset, i)
			}
		}
	}

	if length < 2 {
		return Moments{}, errors.Newf(errors.ErrCodeOptimizerSeriesMismatch,
			"at least 2 observations are required, got %d", length)
	}

	mean := make([]float64, len(assets))
	observations := mat.NewDense(length, len(assets), nil)

	for i, asset := range assets {
		mean[i] = stat.Mean(returns[asset], nil)
		observations.SetCol(i, returns[asset])
	}

	covariance := mat.NewSymDense(len(assets), nil)
	stat.CovarianceMatrix(covariance, observations, nil)

	return Moments{Assets: assets, Mean: mean, Covariance: covariance}, nil
}

// Evaluate computes the return, risk and sharpe ratio of the weights under the moments.
// The sharpe ratio is 0 when the risk is 0.
func (o *Optimizer) Evaluate(moments Moments, weights []float64) types.Allocation {
	w := mat.NewVecDense(len(weights), weights)
	expected := mat.Dot(w, mat.NewVecDense(len(moments.Mean), moments.Mean))
	variance := mat.Inner(w, moments.Covariance, w)

	risk := math.Sqrt(math.Max(variance, 0))

	sharpe := 0.0
	if risk > 0 {
		sharpe = (expected - o.config.RiskFreeRate) / risk
	}

	allocation := types.Allocation{
		Assets:         moments.Assets,
		Weights:        make(map[string]float64, len(weights)),
		ExpectedReturn: expected,
		Risk:           risk,
		Sharpe:         sharpe,
	}

	for i, asset := range moments.Assets {
		allocation.Weights[asset] = weights[i]
	}

	return allocation
}

// Optimize draws uniformly distributed weight vectors from the simplex and returns the one
// with the highest sharpe ratio. The draws depend only on the configured seed.
func (o *Optimizer) Optimize(returns map[string][]float64) (types.Allocation, error) {
	moments, err := EstimateMoments(returns)
	if err != nil {
		return types.Allocation{}, err
	}

	sampler := newSimplexSampler(len(moments.Assets), o.config.Seed)

	var best types.Allocation

	weights := make([]float64, len(moments.Assets))

	for p := 0; p < o.config.Portfolios; p++ {
		sampler.Rand(weights)

		candidate := o.Evaluate(moments, weights)
		if p == 0 || candidate.Sharpe > best.Sharpe {
			best = candidate
		}
	}

	o.log.Debug("Portfolio optimized",
		zap.Strings("assets", best.Assets),
		zap.Float64("expected_return", best.ExpectedReturn),
		zap.Float64("risk", best.Risk),
		zap.Float64("sharpe", best.Sharpe),
		zap.Int("portfolios", o.config.Portfolios),
	)

	return best, nil
}

// newSimplexSampler returns a seeded Dirichlet(1,...,1) distribution, which is uniform
// over the weight simplex.
func newSimplexSampler(dim int, seed int64) *distmv.Dirichlet {
	alpha := make([]float64, dim)
	for i := range alpha {
		alpha[i] = 1
	}

	return distmv.NewDirichlet(alpha, rand.NewPCG(uint64(seed), uint64(seed)))
}

// ReturnsFromSeries derives close-to-close simple returns.
func ReturnsFromSeries(series types.Series) []float64 {
	if series.Len() < 2 {
		return []float64{}
	}

	returns := make([]float64, series.Len()-1)
	for i := 1; i < series.Len(); i++ {
		returns[i-1] = series.Bars[i].Close/series.Bars[i-1].Close - 1
	}

	return returns
}
