package engine

import (
	"sync"
	"time"
)

// Timer is a single-shot deadline handle. Cancel is idempotent and safe to
// call after the timer has fired.
type Timer interface {
	Cancel()
}

// Scheduler arms single-shot deadlines for phases. Implementations must
// guarantee that a cancelled timer's callback never runs.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) Timer
}

// Clock is the production Scheduler. Fired callbacks are handed to post,
// which must run them serialized with event dispatch (the session's job
// queue); the cancelled check happens there, so a phase that cancels a
// deadline on exit wins against a concurrently firing timer.
type Clock struct {
	post func(fn func())
}

// NewClock creates a Clock that serializes callbacks through post.
func NewClock(post func(fn func())) *Clock {
	return &Clock{post: post}
}

// Schedule implements Scheduler.
func (c *Clock) Schedule(d time.Duration, fn func()) Timer {
	ct := &clockTimer{}
	ct.timer = time.AfterFunc(d, func() {
		c.post(func() {
			ct.mu.Lock()
			if ct.done {
				ct.mu.Unlock()
				return
			}
			ct.done = true
			ct.mu.Unlock()
			fn()
		})
	})
	return ct
}

type clockTimer struct {
	mu    sync.Mutex
	done  bool
	timer *time.Timer
}

func (t *clockTimer) Cancel() {
	t.mu.Lock()
	t.done = true
	t.mu.Unlock()
	t.timer.Stop()
}
