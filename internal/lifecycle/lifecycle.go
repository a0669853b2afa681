// Package lifecycle coordinates subsystem startup and shutdown.
// Subsystems register hooks with a shared Coordinator; the server drives
// startup once wiring completes and drains all shutdown hooks on exit.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Coordinator tracks startup and shutdown hooks for all subsystems.
type Coordinator struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	startup []func()

	shutdown sync.WaitGroup
	ready    atomic.Bool
	started  sync.Once
}

// New creates a coordinator with an open lifecycle context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context returns the lifecycle context, cancelled when shutdown begins.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup registers a hook to run during WaitForStartup.
func (c *Coordinator) OnStartup(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startup = append(c.startup, fn)
}

// OnShutdown registers a hook that runs immediately in its own goroutine.
// Hooks are expected to block on Context().Done() before performing their
// shutdown work; Shutdown waits for every hook to return.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdown.Add(1)
	go func() {
		defer c.shutdown.Done()
		fn()
	}()
}

// WaitForStartup runs all registered startup hooks and marks the
// coordinator ready. Hooks run once; subsequent calls are no-ops.
func (c *Coordinator) WaitForStartup() {
	c.started.Do(func() {
		c.mu.Lock()
		hooks := make([]func(), len(c.startup))
		copy(hooks, c.startup)
		c.mu.Unlock()

		for _, fn := range hooks {
			fn()
		}
		c.ready.Store(true)
	})
}

// Ready reports whether startup has completed.
func (c *Coordinator) Ready() bool {
	return c.ready.Load()
}

// ReadinessChecker exposes readiness without the full coordinator surface.
type ReadinessChecker interface {
	Ready() bool
}

// Shutdown cancels the lifecycle context and waits for all shutdown hooks
// to finish, up to timeout.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdown.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timed out after %s", timeout)
	}
}
