package classifier

import (
	"math"

	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

const (
	logisticIterations   = 500
	logisticLearningRate = 0.1
)

// LogisticRegression is a batch gradient descent logistic model over standardized features.
// It is a cheaper substitute for the random forest.
type LogisticRegression struct {
	means   []float64
	scales  []float64
	weights []float64
	bias    float64
	trained bool
}

func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{}
}

func (l *LogisticRegression) Fit(features [][]float64, labels []Direction) error {
	width, err := checkTrainingSet(features, labels)
	if err != nil {
		return err
	}

	n := float64(len(features))
	means := make([]float64, width)
	scales := make([]float64, width)

	for _, row := range features {
		for j, v := range row {
			means[j] += v
		}
	}

	for j := range means {
		means[j] /= n
	}

	for _, row := range features {
		for j, v := range row {
			scales[j] += (v - means[j]) * (v - means[j])
		}
	}

	for j := range scales {
		scales[j] = math.Sqrt(scales[j] / n)
		if scales[j] == 0 {
			scales[j] = 1
		}
	}

	standardized := make([][]float64, len(features))
	for i, row := range features {
		standardized[i] = make([]float64, width)
		for j, v := range row {
			standardized[i][j] = (v - means[j]) / scales[j]
		}
	}

	weights := make([]float64, width)
	bias := 0.0
	gradient := make([]float64, width)

	for iter := 0; iter < logisticIterations; iter++ {
		for j := range gradient {
			gradient[j] = 0
		}

		biasGradient := 0.0

		for i, row := range standardized {
			diff := sigmoid(dot(weights, row)+bias) - float64(labels[i])
			for j, v := range row {
				gradient[j] += diff * v
			}

			biasGradient += diff
		}

		for j := range weights {
			weights[j] -= logisticLearningRate * gradient[j] / n
		}

		bias -= logisticLearningRate * biasGradient / n
	}

	l.means = means
	l.scales = scales
	l.weights = weights
	l.bias = bias
	l.trained = true

	return nil
}

func (l *LogisticRegression) PredictProba(features []float64) (Prediction, error) {
	if !l.trained {
		return Prediction{}, errors.New(errors.ErrCodeClassifierNotTrained, "logistic regression is not trained")
	}

	if len(features) != len(l.weights) {
		return Prediction{}, errors.Newf(errors.ErrCodeFeatureMismatch,
			"got %d features, expected %d", len(features), len(l.weights))
	}

	z := l.bias
	for j, v := range features {
		z += l.weights[j] * (v - l.means[j]) / l.scales[j]
	}

	return predictionFromUpProbability(sigmoid(z)), nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}

	return sum
}
