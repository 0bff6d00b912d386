// Package telemetry exposes Prometheus metrics about backtest runs.
package telemetry

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rxtech-lab/argo-quant/internal/backtest/engine"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

const (
	metricsNamespace  = "argo_quant"
	backtestSubsystem = "backtest"
)

// Collector counts fills, rejected signals, processed bars and finished runs.
// It is both an engine.Hook and a source of lifecycle callbacks, and may be shared by
// concurrent runs.
type Collector struct {
	fills         *prometheus.CounterVec
	rejected      *prometheus.CounterVec
	runs          *prometheus.CounterVec
	barsProcessed prometheus.Counter
	totalReturn   *prometheus.GaugeVec
}

// NewCollector registers the backtest metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		fills: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: backtestSubsystem,
			Name:      "fills_total",
			Help:      "Total number of filled trades by symbol, action and strategy",
		}, []string{"symbol", "action", "strategy"}),
		rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: backtestSubsystem,
			Name:      "rejected_signals_total",
			Help:      "Total number of signals rejected by the execution step by symbol and error code",
		}, []string{"symbol", "code"}),
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: backtestSubsystem,
			Name:      "runs_total",
			Help:      "Total number of completed runs by symbol and whether the ledger was empty",
		}, []string{"symbol", "no_data"}),
		barsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: backtestSubsystem,
			Name:      "bars_processed_total",
			Help:      "Total number of bars replayed",
		}),
		totalReturn: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: backtestSubsystem,
			Name:      "total_return",
			Help:      "Total return of the last completed run by symbol",
		}, []string{"symbol"}),
	}
}

func (c *Collector) OnFill(_ context.Context, trade types.TradeRecord) error {
	c.fills.WithLabelValues(trade.Symbol, string(trade.Action), trade.StrategyName).Inc()

	return nil
}

func (c *Collector) OnRunComplete(_ context.Context, _ types.AccountSnapshot, report types.PerformanceReport) error {
	c.runs.WithLabelValues(report.Symbol, strconv.FormatBool(report.NoData)).Inc()
	c.totalReturn.WithLabelValues(report.Symbol).Set(report.TotalReturn)

	return nil
}

// Callbacks returns lifecycle callbacks feeding the collector. The returned value can be
// merged into callers' own callbacks field by field.
func (c *Collector) Callbacks() engine.LifecycleCallbacks {
	onProcessData := engine.OnProcessDataCallback(func(_, _ int) error {
		c.barsProcessed.Inc()

		return nil
	})
	onSignalRejected := engine.OnSignalRejectedCallback(func(signal types.Signal, code errors.ErrorCode) {
		c.rejected.WithLabelValues(signal.Symbol, strconv.Itoa(int(code))).Inc()
	})

	return engine.LifecycleCallbacks{
		OnProcessData:    &onProcessData,
		OnSignalRejected: &onSignalRejected,
	}
}
