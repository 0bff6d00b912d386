package notification

import (
	"context"

	"github.com/rxtech-lab/argo-quant/internal/logger"
	"go.uber.org/zap"
)

// LogNotifier writes alerts to the logger.
type LogNotifier struct {
	logger *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{logger: log}
}

func (l *LogNotifier) SendTradeAlert(_ context.Context, alert TradeAlert) error {
	l.logger.Info("Trade alert",
		zap.String("symbol", alert.Symbol),
		zap.String("action", string(alert.Action)),
		zap.Float64("price", alert.Price),
		zap.Float64("quantity", alert.Quantity),
		zap.Float64("total_value", alert.TotalValue),
		zap.String("strategy", alert.StrategyName),
		zap.String("message", Format(alert)),
	)

	return nil
}
