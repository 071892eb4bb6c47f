// Package engine implements a small hierarchical phase machine: a runner
// owns a chain of nested phases, dispatches events to the innermost phase
// first, and applies transitions that replace part of the chain. It knows
// nothing about the game played on top of it.
package engine

import (
	"fmt"
	"log/slog"
	"time"
)

// Event is any value dispatched through the active phase chain.
type Event interface{}

// Phase is one state in the machine. A phase owns at most one active child,
// represented by its position in the runner's chain. Concrete phases must
// embed Base, which binds them to the runner when they are activated.
//
// HandleEvent reports whether the event was consumed; unhandled events
// bubble to the parent phase and are dropped past the root.
type Phase interface {
	OnEnter()
	OnExit()
	HandleEvent(ev Event) bool

	attach(r *Runner, depth int)
	detach()
}

// Runner drives one phase machine instance. It is not safe for concurrent
// use; callers must serialize Dispatch, Start and Stop (the app layer runs
// them all on a single goroutine).
type Runner struct {
	chain  []Phase
	timers Scheduler
	logger *slog.Logger
}

// NewRunner creates a runner. Timers scheduled by phases go through the
// given scheduler.
func NewRunner(timers Scheduler, logger *slog.Logger) *Runner {
	return &Runner{
		timers: timers,
		logger: logger,
	}
}

// Start activates root as the outermost phase.
func (r *Runner) Start(root Phase) {
	if len(r.chain) != 0 {
		panic("engine: runner already started")
	}
	r.transition(0, root)
}

// Stop exits every active phase, innermost first.
func (r *Runner) Stop() {
	for len(r.chain) > 0 {
		r.exitTop()
	}
}

// Dispatch offers ev to the innermost active phase, bubbling outward until
// some phase handles it. Returns false if the event was dropped.
func (r *Runner) Dispatch(ev Event) bool {
	return r.dispatchFrom(len(r.chain)-1, ev)
}

// Depth returns the number of active phases.
func (r *Runner) Depth() int {
	return len(r.chain)
}

func (r *Runner) dispatchFrom(depth int, ev Event) bool {
	for i := depth; i >= 0; i-- {
		// A handler may have transitioned and shortened the chain.
		if i >= len(r.chain) {
			continue
		}
		if r.chain[i].HandleEvent(ev) {
			return true
		}
	}
	r.logger.Debug("event dropped", "event", fmt.Sprintf("%T", ev))
	return false
}

// transition replaces every phase at or below depth with next. Outgoing
// phases exit innermost first; next enters last.
func (r *Runner) transition(depth int, next Phase) {
	if next == nil {
		panic("engine: transition to nil phase")
	}
	if depth < 0 || depth > len(r.chain) {
		panic(fmt.Sprintf("engine: transition depth %d out of range", depth))
	}
	for _, active := range r.chain {
		if active == next {
			panic("engine: transition into already-active phase")
		}
	}

	for len(r.chain) > depth {
		r.exitTop()
	}

	r.chain = append(r.chain, next)
	next.attach(r, depth)
	next.OnEnter()
}

func (r *Runner) exitTop() {
	top := r.chain[len(r.chain)-1]
	r.chain = r.chain[:len(r.chain)-1]
	top.OnExit()
	top.detach()
}

// Base carries a phase's binding to its runner. Embed it in every concrete
// phase; its helpers are only valid while the phase is active.
type Base struct {
	runner *Runner
	depth  int
	active bool
	used   bool
}

func (b *Base) attach(r *Runner, depth int) {
	if b.used {
		panic("engine: phase activated twice")
	}
	b.runner = r
	b.depth = depth
	b.active = true
	b.used = true
}

func (b *Base) detach() {
	b.active = false
}

func (b *Base) ensureActive() {
	if !b.active {
		panic("engine: operation on inactive phase")
	}
}

// Push makes next the sole child chain of this phase, replacing any phases
// currently nested beneath it.
func (b *Base) Push(next Phase) {
	b.ensureActive()
	b.runner.transition(b.depth+1, next)
}

// Replace swaps this phase (and everything nested beneath it) for next.
func (b *Base) Replace(next Phase) {
	b.ensureActive()
	b.runner.transition(b.depth, next)
}

// ReplaceAncestor replaces the ancestor n levels above this phase, popping
// every phase in between. ReplaceAncestor(0, next) is Replace(next).
func (b *Base) ReplaceAncestor(n int, next Phase) {
	b.ensureActive()
	if n < 0 || n > b.depth {
		panic(fmt.Sprintf("engine: no ancestor %d levels up", n))
	}
	b.runner.transition(b.depth-n, next)
}

// EmitToParent offers ev starting at this phase's immediate parent, bubbling
// outward. Parents handle it synchronously before this returns. Returns
// false if there is no parent or nothing handled the event.
func (b *Base) EmitToParent(ev Event) bool {
	b.ensureActive()
	if b.depth == 0 {
		return false
	}
	return b.runner.dispatchFrom(b.depth-1, ev)
}

// Schedule arms a deadline through the runner's scheduler. The owning phase
// must cancel the returned timer in its OnExit.
func (b *Base) Schedule(d time.Duration, fn func()) Timer {
	b.ensureActive()
	return b.runner.timers.Schedule(d, fn)
}
