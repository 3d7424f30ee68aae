// Package cancellation provides the per-execution cancellation token.
package cancellation

import (
	"context"
	"sync/atomic"
	"time"
)

// Controller is a cooperative cancellation token owned by one execution.
// Signal may be called from any goroutine; IsSignaled never blocks.
//
// The controller also exposes a context that is canceled on Signal, so blocking
// backends (subprocesses, HTTP transfers) are interrupted promptly.
type Controller struct {
	ctx      context.Context
	cancel   context.CancelFunc
	signaled atomic.Bool
}

// New returns a controller derived from parent. Cancellation of parent counts as a signal.
func New(parent context.Context) *Controller {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Controller{ctx: ctx, cancel: cancel}
}

// Signal requests cancellation. Repeated calls have no further effect.
func (c *Controller) Signal() {
	if c.signaled.CompareAndSwap(false, true) {
		c.cancel()
	}
}

// IsSignaled reports whether cancellation was requested, directly or through the parent context.
func (c *Controller) IsSignaled() bool {
	if c.signaled.Load() {
		return true
	}
	return c.ctx.Err() != nil
}

// Context returns a context canceled once the controller is signaled.
func (c *Controller) Context() context.Context {
	return c.ctx
}

// Done is closed once the controller is signaled.
func (c *Controller) Done() <-chan struct{} {
	return c.ctx.Done()
}

// SignalAfter signals the controller once d elapses. The returned function stops the timer.
func (c *Controller) SignalAfter(d time.Duration) (stop func() bool) {
	t := time.AfterFunc(d, c.Signal)
	return t.Stop
}
