package signal

import (
	"fmt"

	"github.com/rxtech-lab/argo-quant/internal/classifier"
	"github.com/rxtech-lab/argo-quant/internal/indicator"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// FeatureColumns are the classifier inputs, in order.
var FeatureColumns = []string{
	indicator.ColumnRSI,
	indicator.ColumnMomentum,
	indicator.ColumnRateOfChange,
	indicator.ColumnVolatility,
}

// ClassifierSignal retrains a fresh classifier on every call using all visible history,
// labelling each row by whether the next close is higher, and buys when the current bar
// is predicted up with probability above the threshold.
type ClassifierSignal struct {
	factory    classifier.Factory
	threshold  float64
	minSamples int
	sizer      PositionSizer
}

func NewClassifierSignal(factory classifier.Factory, threshold float64, minSamples int, sizer PositionSizer) *ClassifierSignal {
	return &ClassifierSignal{
		factory:    factory,
		threshold:  threshold,
		minSamples: minSamples,
		sizer:      sizer,
	}
}

func (c *ClassifierSignal) Name() string {
	return StrategyClassifier
}

func (c *ClassifierSignal) Generate(ctx Context) []types.Signal {
	model, current, err := c.Train(ctx.View)
	if err != nil {
		return nil
	}

	prediction, err := model.PredictProba(current)
	if err != nil {
		return nil
	}

	if prediction.Direction != classifier.DirectionUp || prediction.Probability <= c.threshold {
		return nil
	}

	size := c.sizer.SuggestedSize(ctx.Cash)
	if size == 0 {
		return nil
	}

	bar := ctx.View.Current()

	return []types.Signal{
		{
			Time:          bar.Time,
			Symbol:        bar.Symbol,
			Action:        types.SignalActionBuy,
			Confidence:    prediction.Probability,
			Reason:        fmt.Sprintf("classifier predicts up with probability %.2f", prediction.Probability),
			SuggestedSize: size,
			StrategyName:  StrategyClassifier,
		},
	}
}

// Train fits a fresh classifier on the visible history and returns it with the feature
// row of the current bar. Until the classifier can be trained the error satisfies
// errors.IsInsufficientDataError.
func (c *ClassifierSignal) Train(view indicator.View) (classifier.Classifier, []float64, error) {
	symbol := view.Current().Symbol

	current, ok := featureRow(view, view.Index())
	if !ok {
		return nil, nil, errors.NewInsufficientDataErrorf(1, 0, symbol,
			"features of bar %d are still warming up", view.Index())
	}

	features, labels := TrainingSet(view)
	if len(features) == 0 || len(features) < c.minSamples {
		return nil, nil, errors.NewInsufficientDataErrorf(c.minSamples, len(features), symbol,
			"classifier needs %d training rows, has %d", c.minSamples, len(features))
	}

	model := c.factory()
	if err := model.Fit(features, labels); err != nil {
		if errors.HasCode(err, errors.ErrCodeClassifierSingleClass) {
			return nil, nil, errors.Wrap(errors.ErrCodeWarmupIncomplete, "history has a single class", err)
		}

		return nil, nil, err
	}

	return model, current, nil
}

// TrainingSet builds labelled rows from every visible bar whose features are defined and
// whose next close is also visible.
func TrainingSet(view indicator.View) ([][]float64, []classifier.Direction) {
	features := make([][]float64, 0, view.Len())
	labels := make([]classifier.Direction, 0, view.Len())

	for i := 0; i < view.Index(); i++ {
		row, ok := featureRow(view, i)
		if !ok {
			continue
		}

		label := classifier.DirectionDown
		if view.BarAt(i+1).Unwrap().Close > view.BarAt(i).Unwrap().Close {
			label = classifier.DirectionUp
		}

		features = append(features, row)
		labels = append(labels, label)
	}

	return features, labels
}

func featureRow(view indicator.View, i int) ([]float64, bool) {
	row := make([]float64, len(FeatureColumns))

	for j, column := range FeatureColumns {
		value := view.ValueAt(column, i)
		if value.IsNone() {
			return nil, false
		}

		row[j] = value.Unwrap()
	}

	return row, true
}
