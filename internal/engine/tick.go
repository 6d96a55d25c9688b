// Package engine provides the tick loop that drives the path service.
// Each tick begins with the service's quota reset and deferred-queue drain,
// so queued path work runs before new requests for that tick are accepted.
package engine

import (
	"log/slog"
	"time"
)

// Engine advances the simulation clock.
type Engine struct {
	Tick     uint64        // Current tick counter (monotonic, never resets)
	Speed    float64       // Multiplier: 1.0 = real-time, 0 = paused
	Interval time.Duration // Base tick interval (default 100ms)
	Running  bool

	// Callbacks — populated during setup.
	OnTick   func(tick uint64) // Every tick, after the service's BeginTick
	OnReport func(tick uint64) // Every ReportEvery ticks, for stats logging

	// ReportEvery controls OnReport cadence. Zero disables reporting.
	ReportEvery uint64

	// BeginTick is the path service's lifecycle hook. Called first each
	// tick, before OnTick work is admitted.
	BeginTick func()
}

// NewEngine creates an engine with default settings.
func NewEngine() *Engine {
	return &Engine{
		Speed:       1.0,
		Interval:    100 * time.Millisecond,
		ReportEvery: 600,
	}
}

// Run starts the tick loop. Blocks until Stop is called.
func (e *Engine) Run() {
	e.Running = true
	slog.Info("engine started", "tick", e.Tick, "interval", e.Interval, "speed", e.Speed)

	for e.Running {
		if e.Speed <= 0 {
			// Paused — sleep briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		e.Step()

		// Sleep for the remainder of the tick interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / e.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("engine stopped", "tick", e.Tick)
}

// Stop halts the tick loop.
func (e *Engine) Stop() {
	e.Running = false
}

// Step advances the clock by one tick: quota reset and deferred drain
// first, then per-tick work, then periodic reporting.
func (e *Engine) Step() {
	e.Tick++

	if e.BeginTick != nil {
		e.BeginTick()
	}
	if e.OnTick != nil {
		e.OnTick(e.Tick)
	}
	if e.ReportEvery > 0 && e.Tick%e.ReportEvery == 0 && e.OnReport != nil {
		e.OnReport(e.Tick)
	}
}
