package grid

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Timer is the cancellation handle of a scheduled task
type Timer interface {
	// Stop prevents the task from running. It reports whether the call
	// stopped it; false means it already ran or was already stopped.
	Stop() bool
}

// Scheduler runs f once after d. Implementations must invoke f on the
// goroutine that owns the Controller, never concurrently with it.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Loop is a single-goroutine executor. Everything posted to it, including
// tasks whose timers fire, runs serially inside Run.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	stopped bool
	wake    chan struct{}
}

// NewLoop creates an idle loop; call Run to start executing tasks
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post enqueues f. It returns false once the loop has been stopped.
func (l *Loop) Post(f func()) bool {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, f)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// AfterFunc posts f to the loop once d has elapsed
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	t := &loopTimer{}
	run := func() {
		if t.stopped.Load() {
			return
		}
		t.ran.Store(true)
		f()
	}
	if d <= 0 {
		l.Post(run)
		return t
	}
	t.timer = time.AfterFunc(d, func() { l.Post(run) })
	return t
}

// Run executes posted tasks until the context is cancelled or Stop is
// called. It must only be called once.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.mu.Lock()
		if l.stopped {
			l.mu.Unlock()
			return nil
		}
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		if len(batch) > 0 {
			for _, f := range batch {
				f()
			}
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Stop discards pending tasks and makes Run return
func (l *Loop) Stop() {
	l.mu.Lock()
	l.stopped = true
	l.queue = nil
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

type loopTimer struct {
	timer   *time.Timer
	stopped atomic.Bool
	ran     atomic.Bool
}

func (t *loopTimer) Stop() bool {
	if t.stopped.Swap(true) {
		return false
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	return !t.ran.Load()
}
