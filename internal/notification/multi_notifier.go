package notification

import (
	"context"

	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"go.uber.org/multierr"
)

// MultiNotifier fans an alert out to every channel. A failing channel does not stop
// delivery to the others.
type MultiNotifier struct {
	notifiers []Notifier
}

func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers}
}

func (m *MultiNotifier) SendTradeAlert(ctx context.Context, alert TradeAlert) error {
	var err error

	for _, notifier := range m.notifiers {
		err = multierr.Append(err, notifier.SendTradeAlert(ctx, alert))
	}

	if err != nil {
		return errors.Wrapf(errors.ErrCodeCollaboratorFailure, err,
			"%d of %d notifiers failed", len(multierr.Errors(err)), len(m.notifiers))
	}

	return nil
}
