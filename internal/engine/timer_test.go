package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// runInline executes posted callbacks immediately on the firing goroutine.
func runInline(fn func()) { fn() }

func TestClockFires(t *testing.T) {
	clock := NewClock(runInline)

	fired := make(chan struct{})
	clock.Schedule(10*time.Millisecond, func() {
		close(fired)
	})

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}
}

func TestClockCancelPreventsCallback(t *testing.T) {
	clock := NewClock(runInline)

	fired := make(chan struct{}, 1)
	timer := clock.Schedule(50*time.Millisecond, func() {
		fired <- struct{}{}
	})
	timer.Cancel()

	select {
	case <-fired:
		t.Fatal("cancelled timer fired")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestClockCancelAfterFireIsSafe(t *testing.T) {
	clock := NewClock(runInline)

	fired := make(chan struct{})
	timer := clock.Schedule(time.Millisecond, func() {
		close(fired)
	})

	<-fired
	timer.Cancel()
	timer.Cancel()
}

// A cancel racing the fired-but-not-yet-run callback must win: the
// scheduler checks the cancelled flag inside the posted job, so posting
// into a queue that runs after Cancel never executes the callback.
func TestClockCancelBeatsQueuedCallback(t *testing.T) {
	var mu sync.Mutex
	var queue []func()

	clock := NewClock(func(fn func()) {
		mu.Lock()
		queue = append(queue, fn)
		mu.Unlock()
	})

	ran := false
	timer := clock.Schedule(time.Millisecond, func() { ran = true })

	// Wait until the callback has been queued.
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(queue) == 1
	}, 2*time.Second, time.Millisecond)

	timer.Cancel()

	mu.Lock()
	for _, fn := range queue {
		fn()
	}
	mu.Unlock()

	assert.False(t, ran, "cancelled callback must not run")
}
