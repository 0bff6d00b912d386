package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/rxtech-lab/argo-quant/internal/backtest/engine"
	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"go.uber.org/zap"
)

type hookEvent struct {
	ctx      context.Context
	trade    *types.TradeRecord
	snapshot *types.AccountSnapshot
	report   *types.PerformanceReport
}

// hookDispatcher delivers fills and run completions to hooks on a background goroutine.
// Publishing never blocks: when the buffer is full the event is dropped with a warning.
// Events are delivered in publish order.
type hookDispatcher struct {
	log    *logger.Logger
	events chan hookEvent
	done   chan struct{}

	mu      sync.RWMutex
	hooks   []engine.Hook
	closed  bool
	dropped int
}

func newHookDispatcher(buffer int, log *logger.Logger) *hookDispatcher {
	if buffer <= 0 {
		buffer = defaultHookBuffer
	}

	d := &hookDispatcher{
		log:    log,
		events: make(chan hookEvent, buffer),
		done:   make(chan struct{}),
	}

	go d.loop()

	return d
}

func (d *hookDispatcher) add(hook engine.Hook) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return errors.New(errors.ErrCodeBacktestNotInitialized, "cannot add a hook to a closed engine")
	}

	d.hooks = append(d.hooks, hook)

	return nil
}

func (d *hookDispatcher) publishFill(ctx context.Context, trade types.TradeRecord) {
	d.publish(hookEvent{ctx: context.WithoutCancel(ctx), trade: &trade})
}

func (d *hookDispatcher) publishRunComplete(ctx context.Context, snapshot types.AccountSnapshot, report types.PerformanceReport) {
	d.publish(hookEvent{ctx: context.WithoutCancel(ctx), snapshot: &snapshot, report: &report})
}

func (d *hookDispatcher) publish(event hookEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || len(d.hooks) == 0 {
		return
	}

	select {
	case d.events <- event:
	default:
		d.dropped++
		d.log.Warn("Hook buffer full, dropping event",
			zap.Bool("fill", event.trade != nil),
			zap.Int("dropped", d.dropped),
		)
	}
}

// Dropped returns the number of events dropped because the buffer was full.
func (d *hookDispatcher) Dropped() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.dropped
}

func (d *hookDispatcher) isClosed() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.closed
}

// close stops accepting events and waits until queued ones are delivered.
func (d *hookDispatcher) close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.events)
	}
	d.mu.Unlock()

	<-d.done
}

func (d *hookDispatcher) loop() {
	defer close(d.done)

	for event := range d.events {
		d.mu.RLock()
		hooks := make([]engine.Hook, len(d.hooks))
		copy(hooks, d.hooks)
		d.mu.RUnlock()

		for _, hook := range hooks {
			if err := d.deliver(hook, event); err != nil {
				d.log.Warn("Hook failed",
					zap.String("hook", fmt.Sprintf("%T", hook)),
					zap.Error(errors.Wrap(errors.ErrCodeCollaboratorFailure, "hook failed", err)),
				)
			}
		}
	}
}

func (d *hookDispatcher) deliver(hook engine.Hook, event hookEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hook panicked: %v", r)
		}
	}()

	if event.trade != nil {
		return hook.OnFill(event.ctx, *event.trade)
	}

	return hook.OnRunComplete(event.ctx, *event.snapshot, *event.report)
}
