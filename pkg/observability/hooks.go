// Package observability provides hooks for metrics, tracing, and progress
// reporting.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about graph assembly and layout phases.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by library packages, so the layout
// core stays free of backend imports.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnLayoutStart(ctx, "full", len(nodes))
//	// ... run phases ...
//	observability.Layout().OnLayoutComplete(ctx, "full", duration, cancelled)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the layout engine.
//
// Mode is "full" or "incremental". Phase names are the engine's phase
// identifiers ("seed", "stress", "force", "crossing", "settle", "bundle").
type LayoutHooks interface {
	OnLayoutStart(ctx context.Context, mode string, nodeCount int)
	OnPhaseComplete(ctx context.Context, phase string, iterations int, duration time.Duration)
	OnLayoutComplete(ctx context.Context, mode string, duration time.Duration, cancelled bool)
}

// =============================================================================
// Assemble Hooks
// =============================================================================

// AssembleHooks receives events from the graph assembler.
type AssembleHooks interface {
	// OnAssembleComplete records the size of an assembled graph and how many
	// signals were dropped for referencing unknown people.
	OnAssembleComplete(ctx context.Context, nodeCount, edgeCount, dropped int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(context.Context, string, int)                    {}
func (NoopLayoutHooks) OnPhaseComplete(context.Context, string, int, time.Duration)   {}
func (NoopLayoutHooks) OnLayoutComplete(context.Context, string, time.Duration, bool) {}

// NoopAssembleHooks is a no-op implementation of AssembleHooks.
type NoopAssembleHooks struct{}

func (NoopAssembleHooks) OnAssembleComplete(context.Context, int, int, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks   LayoutHooks   = NoopLayoutHooks{}
	assembleHooks AssembleHooks = NoopAssembleHooks{}
	hooksMu       sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any layout runs.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetAssembleHooks registers custom assemble hooks.
func SetAssembleHooks(h AssembleHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		assembleHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Assemble returns the registered assemble hooks.
func Assemble() AssembleHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return assembleHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	assembleHooks = NoopAssembleHooks{}
}
