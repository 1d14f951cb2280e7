package app

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	logx "tickloop/pkg/logx"
)

// supervisor tracks the daemon's named background goroutines so shutdown can
// wait for them (with a deadline) and panics get logged instead of killing
// the process.
type supervisor struct {
	log logx.Logger
	wg  sync.WaitGroup
}

func newSupervisor(log logx.Logger) *supervisor {
	return &supervisor{log: log}
}

func (s *supervisor) Go(name string, fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.log.Error("goroutine panic",
					logx.String("name", name),
					logx.Any("panic", r),
					logx.String("stack", string(debug.Stack())),
				)
			}
		}()
		s.log.Debug("goroutine started", logx.String("name", name))
		fn()
		s.log.Debug("goroutine finished", logx.String("name", name))
	}()
}

// Wait blocks until all goroutines exit or the context deadline passes.
func (s *supervisor) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// waitCtx derives a bounded context for shutdown waiting when the caller's
// context carries no deadline of its own.
func waitCtx(ctx context.Context, fallback time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, fallback)
}
