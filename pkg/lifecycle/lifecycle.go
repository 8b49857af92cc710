// Package lifecycle coordinates startup and shutdown hooks and aggregates
// subsystem readiness.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ReadinessChecker reports whether a subsystem can serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// Coordinator runs startup hooks concurrently, tracks named readiness
// checkers, and cancels its context on shutdown.
type Coordinator struct {
	ctx     context.Context
	cancel  context.CancelFunc
	startup sync.WaitGroup
	stop    sync.WaitGroup
	started atomic.Bool

	mu       sync.RWMutex
	checkers map[string]ReadinessChecker
}

func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:      ctx,
		cancel:   cancel,
		checkers: make(map[string]ReadinessChecker),
	}
}

// Context is cancelled when Shutdown begins.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup runs fn concurrently. WaitForStartup blocks until every
// startup hook returns.
func (c *Coordinator) OnStartup(fn func()) {
	c.startup.Go(fn)
}

// OnShutdown runs fn concurrently. Hooks block on <-Context().Done()
// before releasing resources.
func (c *Coordinator) OnShutdown(fn func()) {
	c.stop.Go(fn)
}

// Track registers a named checker consulted by Ready and Status.
func (c *Coordinator) Track(name string, r ReadinessChecker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkers[name] = r
}

// WaitForStartup blocks until all startup hooks complete.
func (c *Coordinator) WaitForStartup() {
	c.startup.Wait()
	c.started.Store(true)
}

// Ready is true once startup has completed and every tracked checker
// reports ready.
func (c *Coordinator) Ready() bool {
	if !c.started.Load() {
		return false
	}
	for _, ok := range c.Status() {
		if !ok {
			return false
		}
	}
	return true
}

// Status reports the readiness of each tracked checker.
func (c *Coordinator) Status() map[string]bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]bool, len(c.checkers))
	for name, r := range c.checkers {
		out[name] = r.Ready()
	}
	return out
}

// Shutdown cancels the context and waits up to timeout for shutdown
// hooks to finish.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.stop.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}
