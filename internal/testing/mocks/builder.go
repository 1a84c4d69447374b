// Package mocks provides shared test doubles for buildall packages.
package mocks

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AndreyAkinshin/buildall/internal/unit"
)

// Builder implements scheduler.Builder for testing.
// Use NewBuilder() to create instances with a fluent builder API.
type Builder struct {
	delay    time.Duration
	failures map[string]int // Unit display name -> exit code

	// BuildFunc is called by Build after tracking. If nil, Build sleeps for
	// the configured delay and succeeds unless the unit has a failure set.
	BuildFunc func(ctx context.Context, u unit.Unit) unit.Outcome

	// Execution tracking (thread-safe)
	buildCount int32
	inFlight   int32
	peak       int32
	mu         sync.Mutex
	buildOrder []string
}

// NewBuilder creates a mock builder where every unit succeeds instantly.
func NewBuilder() *Builder {
	return &Builder{failures: make(map[string]int)}
}

// WithDelay sets how long each build takes.
func (m *Builder) WithDelay(d time.Duration) *Builder {
	m.delay = d
	return m
}

// WithFailure makes the unit with display name rel exit with code.
func (m *Builder) WithFailure(rel string, code int) *Builder {
	m.failures[rel] = code
	return m
}

// WithBuildFunc sets the function called by Build.
func (m *Builder) WithBuildFunc(fn func(ctx context.Context, u unit.Unit) unit.Outcome) *Builder {
	m.BuildFunc = fn
	return m
}

func (m *Builder) Build(ctx context.Context, u unit.Unit) unit.Outcome {
	atomic.AddInt32(&m.buildCount, 1)
	n := atomic.AddInt32(&m.inFlight, 1)
	defer atomic.AddInt32(&m.inFlight, -1)
	for {
		peak := atomic.LoadInt32(&m.peak)
		if n <= peak || atomic.CompareAndSwapInt32(&m.peak, peak, n) {
			break
		}
	}

	m.mu.Lock()
	m.buildOrder = append(m.buildOrder, u.Rel)
	m.mu.Unlock()

	if m.BuildFunc != nil {
		return m.BuildFunc(ctx, u)
	}

	time.Sleep(m.delay)
	if code, ok := m.failures[u.Rel]; ok {
		return unit.ExitFailure(u, m.delay, "build_log.txt", code)
	}
	return unit.Succeeded(u, m.delay, "")
}

// Test inspection methods

// BuildCount returns the number of times Build was called.
func (m *Builder) BuildCount() int32 {
	return atomic.LoadInt32(&m.buildCount)
}

// PeakConcurrency returns the largest number of builds observed in flight at once.
func (m *Builder) PeakConcurrency() int32 {
	return atomic.LoadInt32(&m.peak)
}

// BuildOrder returns the display names of built units in start order.
func (m *Builder) BuildOrder() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]string, len(m.buildOrder))
	copy(result, m.buildOrder)
	return result
}

// Reset clears execution tracking state.
func (m *Builder) Reset() {
	atomic.StoreInt32(&m.buildCount, 0)
	atomic.StoreInt32(&m.peak, 0)
	m.mu.Lock()
	m.buildOrder = nil
	m.mu.Unlock()
}
