// Package classifier provides binary direction classifiers used by the classifier signal.
// Every classifier is trained from scratch by Fit and is private to the run that created it.
package classifier

import (
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// Direction is the predicted class.
type Direction int

const (
	DirectionDown Direction = 0
	DirectionUp   Direction = 1
)

func (d Direction) String() string {
	if d == DirectionUp {
		return "up"
	}

	return "down"
}

// Prediction holds the predicted direction and the probability assigned to it.
type Prediction struct {
	Direction   Direction
	Probability float64
}

// Classifier is a binary classifier over fixed-width feature vectors.
type Classifier interface {
	// Fit trains the classifier from scratch, discarding any previous state.
	Fit(features [][]float64, labels []Direction) error
	// PredictProba predicts the direction of a single feature vector.
	PredictProba(features []float64) (Prediction, error)
}

// Factory creates an untrained classifier.
type Factory func() Classifier

// Kind selects a classifier implementation.
type Kind string

const (
	KindRandomForest Kind = "random_forest"
	KindLogistic     Kind = "logistic"
)

// Config configures the classifier created by NewFactory.
type Config struct {
	Kind     Kind  `yaml:"kind" json:"kind" validate:"omitempty,oneof=random_forest logistic" jsonschema:"enum=random_forest,enum=logistic,default=random_forest"`
	Trees    int   `yaml:"trees" json:"trees" validate:"gte=0" jsonschema:"default=50"`
	MaxDepth int   `yaml:"max_depth" json:"max_depth" validate:"gte=0" jsonschema:"default=5"`
	Seed     int64 `yaml:"seed" json:"seed" jsonschema:"default=42"`
}

// NewFactory returns a factory for the configured classifier kind.
func NewFactory(config Config) (Factory, error) {
	switch config.Kind {
	case KindRandomForest, "":
		return func() Classifier {
			return NewRandomForest(config.Trees, config.MaxDepth, config.Seed)
		}, nil
	case KindLogistic:
		return func() Classifier {
			return NewLogisticRegression()
		}, nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "unknown classifier kind %q", config.Kind)
	}
}

// checkTrainingSet verifies the feature matrix shape and that both classes are present.
// It returns the feature width.
func checkTrainingSet(features [][]float64, labels []Direction) (int, error) {
	if len(features) == 0 {
		return 0, errors.New(errors.ErrCodeInvalidParameter, "training set is empty")
	}

	if len(features) != len(labels) {
		return 0, errors.Newf(errors.ErrCodeFeatureMismatch,
			"got %d feature rows but %d labels", len(features), len(labels))
	}

	width := len(features[0])
	if width == 0 {
		return 0, errors.New(errors.ErrCodeFeatureMismatch, "feature rows must not be empty")
	}

	ups := 0

	for i, row := range features {
		if len(row) != width {
			return 0, errors.Newf(errors.ErrCodeFeatureMismatch,
				"row %d has %d features, expected %d", i, len(row), width)
		}

		if labels[i] == DirectionUp {
			ups++
		}
	}

	if ups == 0 || ups == len(labels) {
		return 0, errors.New(errors.ErrCodeClassifierSingleClass, "training labels contain a single class")
	}

	return width, nil
}

// predictionFromUpProbability turns P(up) into a prediction. Ties go to down.
func predictionFromUpProbability(up float64) Prediction {
	if up > 0.5 {
		return Prediction{Direction: DirectionUp, Probability: up}
	}

	return Prediction{Direction: DirectionDown, Probability: 1 - up}
}
