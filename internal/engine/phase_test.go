package engine

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopTimer struct{}

func (nopTimer) Cancel() {}

type nopScheduler struct{}

func (nopScheduler) Schedule(d time.Duration, fn func()) Timer { return nopTimer{} }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingPhase logs its lifecycle into a shared trace and delegates event
// handling to an optional callback.
type recordingPhase struct {
	Base

	name   string
	trace  *[]string
	handle func(ev Event) bool
}

func (p *recordingPhase) OnEnter() { *p.trace = append(*p.trace, p.name+":enter") }
func (p *recordingPhase) OnExit()  { *p.trace = append(*p.trace, p.name+":exit") }

func (p *recordingPhase) HandleEvent(ev Event) bool {
	if p.handle == nil {
		return false
	}
	return p.handle(ev)
}

func newRunnerWithRoot(trace *[]string, name string) (*Runner, *recordingPhase) {
	r := NewRunner(nopScheduler{}, testLogger())
	root := &recordingPhase{name: name, trace: trace}
	r.Start(root)
	return r, root
}

func TestStartEntersRoot(t *testing.T) {
	var trace []string
	_, _ = newRunnerWithRoot(&trace, "root")

	assert.Equal(t, []string{"root:enter"}, trace)
}

func TestDispatchBubblesToParent(t *testing.T) {
	var trace []string
	var handledBy []string

	r, root := newRunnerWithRoot(&trace, "root")
	root.handle = func(ev Event) bool {
		handledBy = append(handledBy, "root")
		return true
	}

	child := &recordingPhase{name: "child", trace: &trace}
	child.handle = func(ev Event) bool {
		handledBy = append(handledBy, "child")
		return false
	}
	root.Push(child)

	handled := r.Dispatch("ping")

	assert.True(t, handled)
	assert.Equal(t, []string{"child", "root"}, handledBy, "innermost phase is offered the event first")
}

func TestDispatchStopsAtFirstHandler(t *testing.T) {
	var trace []string
	rootSaw := false

	r, root := newRunnerWithRoot(&trace, "root")
	root.handle = func(ev Event) bool {
		rootSaw = true
		return true
	}

	child := &recordingPhase{name: "child", trace: &trace}
	child.handle = func(ev Event) bool { return true }
	root.Push(child)

	require.True(t, r.Dispatch("ping"))
	assert.False(t, rootSaw, "handled events must not keep bubbling")
}

func TestUnhandledEventIsDropped(t *testing.T) {
	var trace []string
	r, _ := newRunnerWithRoot(&trace, "root")

	assert.False(t, r.Dispatch("nobody wants this"))
}

func TestReplaceExitsChildrenInnermostFirst(t *testing.T) {
	var trace []string
	_, root := newRunnerWithRoot(&trace, "root")

	a := &recordingPhase{name: "a", trace: &trace}
	b := &recordingPhase{name: "b", trace: &trace}
	root.Push(a)
	a.Push(b)

	trace = trace[:0]
	c := &recordingPhase{name: "c", trace: &trace}
	a.Replace(c)

	assert.Equal(t, []string{"b:exit", "a:exit", "c:enter"}, trace)
}

func TestPushReplacesExistingChildChain(t *testing.T) {
	var trace []string
	r, root := newRunnerWithRoot(&trace, "root")

	a := &recordingPhase{name: "a", trace: &trace}
	b := &recordingPhase{name: "b", trace: &trace}
	root.Push(a)
	a.Push(b)

	trace = trace[:0]
	c := &recordingPhase{name: "c", trace: &trace}
	root.Push(c)

	assert.Equal(t, []string{"b:exit", "a:exit", "c:enter"}, trace)
	assert.Equal(t, 2, r.Depth())
}

func TestReplaceAncestorPopsInterveningPhases(t *testing.T) {
	var trace []string
	r, root := newRunnerWithRoot(&trace, "root")

	a := &recordingPhase{name: "a", trace: &trace}
	b := &recordingPhase{name: "b", trace: &trace}
	root.Push(a)
	a.Push(b)

	trace = trace[:0]
	c := &recordingPhase{name: "c", trace: &trace}
	b.ReplaceAncestor(1, c)

	assert.Equal(t, []string{"b:exit", "a:exit", "c:enter"}, trace)
	assert.Equal(t, 2, r.Depth(), "c should sit where a was")
}

func TestEmitToParentSkipsSelf(t *testing.T) {
	var trace []string
	var handledBy []string

	_, root := newRunnerWithRoot(&trace, "root")
	root.handle = func(ev Event) bool {
		handledBy = append(handledBy, "root")
		return true
	}

	child := &recordingPhase{name: "child", trace: &trace}
	child.handle = func(ev Event) bool {
		handledBy = append(handledBy, "child")
		return true
	}
	root.Push(child)

	assert.True(t, child.EmitToParent("query"))
	assert.Equal(t, []string{"root"}, handledBy)
}

func TestEmitToParentFromRootReturnsFalse(t *testing.T) {
	var trace []string
	_, root := newRunnerWithRoot(&trace, "root")

	assert.False(t, root.EmitToParent("query"))
}

func TestStopExitsAllPhases(t *testing.T) {
	var trace []string
	r, root := newRunnerWithRoot(&trace, "root")

	a := &recordingPhase{name: "a", trace: &trace}
	root.Push(a)

	trace = trace[:0]
	r.Stop()

	assert.Equal(t, []string{"a:exit", "root:exit"}, trace)
	assert.Equal(t, 0, r.Depth())
}

func TestTransitionIntoActivePhasePanics(t *testing.T) {
	var trace []string
	_, root := newRunnerWithRoot(&trace, "root")

	assert.Panics(t, func() {
		root.Push(root)
	})
}

func TestReactivatingExitedPhasePanics(t *testing.T) {
	var trace []string
	_, root := newRunnerWithRoot(&trace, "root")

	a := &recordingPhase{name: "a", trace: &trace}
	b := &recordingPhase{name: "b", trace: &trace}
	root.Push(a)
	root.Push(b) // a exits here

	assert.Panics(t, func() {
		root.Push(a)
	})
}

func TestExitedPhaseHelpersPanic(t *testing.T) {
	var trace []string
	_, root := newRunnerWithRoot(&trace, "root")

	a := &recordingPhase{name: "a", trace: &trace}
	root.Push(a)
	root.Replace(&recordingPhase{name: "b", trace: &trace})

	assert.Panics(t, func() {
		a.EmitToParent("stale")
	})
}

func TestDoubleStartPanics(t *testing.T) {
	var trace []string
	r, _ := newRunnerWithRoot(&trace, "root")

	assert.Panics(t, func() {
		r.Start(&recordingPhase{name: "again", trace: &trace})
	})
}
