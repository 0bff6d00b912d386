package signal

import (
	"math"
	"testing"

	"github.com/rxtech-lab/argo-quant/internal/classifier"
	"github.com/rxtech-lab/argo-quant/internal/indicator"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type fakeClassifier struct {
	prediction classifier.Prediction
	fitErr     error
	fitRows    int
	fitCalls   *int
}

func (f *fakeClassifier) Fit(features [][]float64, labels []classifier.Direction) error {
	*f.fitCalls++
	f.fitRows = len(features)

	return f.fitErr
}

func (f *fakeClassifier) PredictProba(features []float64) (classifier.Prediction, error) {
	return f.prediction, nil
}

type ClassifierSignalTestSuite struct {
	suite.Suite
}

func TestClassifierSignalSuite(t *testing.T) {
	suite.Run(t, new(ClassifierSignalTestSuite))
}

// featureColumns fills every feature column with a defined value except the given warm-up prefix.
func featureColumns(n, warmup int) map[string][]float64 {
	columns := make(map[string][]float64)

	for _, column := range FeatureColumns {
		values := make([]float64, n)
		for i := range values {
			if i < warmup {
				values[i] = math.NaN()
			} else {
				values[i] = float64(i)
			}
		}

		columns[column] = values
	}

	return columns
}

func (suite *ClassifierSignalTestSuite) TestTrainingSetUsesOnlyVisibleBars() {
	view := viewAtEnd(suite.T(), []float64{10, 11, 10, 12, 13}, featureColumns(5, 1))

	features, labels := TrainingSet(view)

	// rows 1..3; row 4 has no visible next close
	suite.Len(features, 3)
	suite.Equal([]float64{1, 1, 1, 1}, features[0])
	suite.Equal([]classifier.Direction{
		classifier.DirectionDown,
		classifier.DirectionUp,
		classifier.DirectionUp,
	}, labels)
}

func (suite *ClassifierSignalTestSuite) TestGenerate() {
	tests := []struct {
		name        string
		prediction  classifier.Prediction
		fitErr      error
		minSamples  int
		warmup      int
		expectBuy   bool
		expectedFit int
	}{
		{
			name:        "confident up",
			prediction:  classifier.Prediction{Direction: classifier.DirectionUp, Probability: 0.8},
			minSamples:  3,
			expectBuy:   true,
			expectedFit: 1,
		},
		{
			name:        "probability at threshold",
			prediction:  classifier.Prediction{Direction: classifier.DirectionUp, Probability: 0.7},
			minSamples:  3,
			expectedFit: 1,
		},
		{
			name:        "confident down",
			prediction:  classifier.Prediction{Direction: classifier.DirectionDown, Probability: 0.95},
			minSamples:  3,
			expectedFit: 1,
		},
		{
			name:        "too few samples",
			prediction:  classifier.Prediction{Direction: classifier.DirectionUp, Probability: 0.9},
			minSamples:  10,
			expectedFit: 0,
		},
		{
			name:        "single class history",
			prediction:  classifier.Prediction{Direction: classifier.DirectionUp, Probability: 0.9},
			fitErr:      errors.New(errors.ErrCodeClassifierSingleClass, "single class"),
			minSamples:  3,
			expectedFit: 1,
		},
		{
			name:        "current features warming up",
			prediction:  classifier.Prediction{Direction: classifier.DirectionUp, Probability: 0.9},
			minSamples:  1,
			warmup:      6,
			expectedFit: 0,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			fitCalls := 0
			factory := func() classifier.Classifier {
				return &fakeClassifier{prediction: tt.prediction, fitErr: tt.fitErr, fitCalls: &fitCalls}
			}

			view := viewAtEnd(suite.T(), []float64{10, 11, 10, 12, 13, 12}, featureColumns(6, tt.warmup))
			generator := NewClassifierSignal(factory, 0.7, tt.minSamples, NewPositionSizer(0.02))

			signals := generator.Generate(Context{View: view, Cash: 10000})

			suite.Equal(tt.expectedFit, fitCalls)

			if !tt.expectBuy {
				suite.Empty(signals)

				return
			}

			suite.Require().Len(signals, 1)
			suite.Equal(types.SignalActionBuy, signals[0].Action)
			suite.Equal(tt.prediction.Probability, signals[0].Confidence)
			suite.Equal(StrategyClassifier, signals[0].StrategyName)
			suite.NoError(signals[0].Validate())
		})
	}
}

func (suite *ClassifierSignalTestSuite) TestTrainReportsWarmup() {
	tests := []struct {
		name       string
		fitErr     error
		minSamples int
		warmup     int
		warming    bool
	}{
		{name: "trained", minSamples: 3},
		{name: "too few samples", minSamples: 10, warming: true},
		{name: "current features warming up", minSamples: 1, warmup: 6, warming: true},
		{name: "single class", fitErr: errors.New(errors.ErrCodeClassifierSingleClass, "single class"), minSamples: 3, warming: true},
		{name: "mismatched features", fitErr: errors.New(errors.ErrCodeFeatureMismatch, "bad rows"), minSamples: 3},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			fitCalls := 0
			factory := func() classifier.Classifier {
				return &fakeClassifier{fitErr: tt.fitErr, fitCalls: &fitCalls}
			}

			view := viewAtEnd(suite.T(), []float64{10, 11, 10, 12, 13, 12}, featureColumns(6, tt.warmup))
			generator := NewClassifierSignal(factory, 0.7, tt.minSamples, NewPositionSizer(0.02))

			model, current, err := generator.Train(view)

			if tt.fitErr == nil && !tt.warming {
				suite.Require().NoError(err)
				suite.NotNil(model)
				suite.Len(current, len(FeatureColumns))

				return
			}

			suite.Error(err)
			suite.Nil(model)
			suite.Equal(tt.warming, errors.IsInsufficientDataError(err))
		})
	}
}

func (suite *ClassifierSignalTestSuite) TestRetrainsOnEveryCall() {
	fitCalls := 0
	factory := func() classifier.Classifier {
		return &fakeClassifier{
			prediction: classifier.Prediction{Direction: classifier.DirectionUp, Probability: 0.9},
			fitCalls:   &fitCalls,
		}
	}

	view := viewAtEnd(suite.T(), []float64{10, 11, 10, 12, 13, 12}, featureColumns(6, 0))
	generator := NewClassifierSignal(factory, 0.7, 1, NewPositionSizer(0.02))

	generator.Generate(Context{View: view, Cash: 10000})
	generator.Generate(Context{View: view, Cash: 10000})

	suite.Equal(2, fitCalls)
}

func (suite *ClassifierSignalTestSuite) TestRandomForestIsDeterministic() {
	prices := make([]float64, 120)
	for i := range prices {
		prices[i] = 100 + 8*math.Sin(float64(i)/4) + 3*math.Cos(float64(i)/1.7)
	}

	bars := make([]types.MarketData, len(prices))
	for i, price := range prices {
		bars[i] = types.MarketData{
			Symbol: "AAPL", Time: baseTime.AddDate(0, 0, i),
			Open: price, High: price + 1, Low: price - 1, Close: price, Volume: 1000,
		}
	}

	frame, err := indicator.Compute(types.NewSeries("AAPL", bars))
	suite.Require().NoError(err)

	factory, err := classifier.NewFactory(classifier.Config{Kind: classifier.KindRandomForest, Trees: 10, MaxDepth: 4, Seed: 42})
	suite.Require().NoError(err)

	generator := NewClassifierSignal(factory, 0.7, 30, NewPositionSizer(0.02))

	for i := 0; i < frame.Len(); i++ {
		ctx := Context{View: frame.Upto(i), Cash: 10000}
		suite.Equal(generator.Generate(ctx), generator.Generate(ctx))
	}
}
