package mocks

//go:generate mockgen -destination=./mock_hook.go -package=mocks github.com/rxtech-lab/argo-quant/internal/backtest/engine Hook
//go:generate mockgen -destination=./mock_datasource.go -package=mocks github.com/rxtech-lab/argo-quant/internal/backtest/engine/engine_v1/datasource MarketDataSource
//go:generate mockgen -destination=./mock_signal_generator.go -package=mocks github.com/rxtech-lab/argo-quant/internal/signal Generator
//go:generate mockgen -destination=./mock_notifier.go -package=mocks github.com/rxtech-lab/argo-quant/internal/notification Notifier
