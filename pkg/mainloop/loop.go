// Package mainloop provides the host-driven timer source views schedule
// timeouts, intervals and animations on.
//
// A Loop never runs callbacks on its own goroutine. The host calls RunDue
// from its UI thread (or lets Run do so on a ticker), so every callback
// runs to completion before the next event is processed and removing a
// watch takes effect immediately.
package mainloop

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/go-drift/gadget/pkg/errors"
)

// WatchFunc is called when a watch fires. Returning false removes it.
type WatchFunc func(id int) bool

type watch struct {
	id       int
	interval time.Duration
	deadline time.Time
	cb       WatchFunc
	removed  bool
}

// Loop schedules timeout watches.
type Loop struct {
	mu      sync.Mutex
	clock   Clock
	nextID  int
	watches map[int]*watch
}

// New returns a loop on the system clock.
func New() *Loop {
	return &Loop{clock: realClock{}, watches: make(map[int]*watch)}
}

// SetClock replaces the loop's time source. Returns the previous clock
// so callers can restore it during cleanup.
func (l *Loop) SetClock(c Clock) Clock {
	l.mu.Lock()
	defer l.mu.Unlock()
	prev := l.clock
	l.clock = c
	return prev
}

// Now returns the current time from the loop's clock.
func (l *Loop) Now() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.clock.Now()
}

// AddTimeoutWatch calls cb every interval until it returns false or the
// watch is removed. The returned id is always positive.
func (l *Loop) AddTimeoutWatch(interval time.Duration, cb WatchFunc) int {
	if cb == nil {
		return 0
	}
	if interval < 0 {
		interval = 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	w := &watch{
		id:       l.nextID,
		interval: interval,
		deadline: l.clock.Now().Add(interval),
		cb:       cb,
	}
	l.watches[w.id] = w
	return w.id
}

// RemoveWatch cancels a watch. Removing an unknown or already removed id
// is a no-op.
func (l *Loop) RemoveWatch(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if w, ok := l.watches[id]; ok {
		w.removed = true
		delete(l.watches, id)
	}
}

// Pending returns the number of live watches.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.watches)
}

// NextDeadline returns the earliest deadline, if any watch is live.
func (l *Loop) NextDeadline() (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var next time.Time
	found := false
	for _, w := range l.watches {
		if !found || w.deadline.Before(next) {
			next = w.deadline
			found = true
		}
	}
	return next, found
}

// RunDue fires every watch whose deadline has passed, earliest first, and
// returns how many fired. Each watch fires at most once per call; interval
// watches are re-armed relative to the current time. A panicking callback
// is reported and its watch removed.
func (l *Loop) RunDue() int {
	l.mu.Lock()
	now := l.clock.Now()
	var due []*watch
	for _, w := range l.watches {
		if !w.deadline.After(now) {
			due = append(due, w)
		}
	}
	l.mu.Unlock()

	slices.SortFunc(due, func(a, b *watch) int {
		if c := a.deadline.Compare(b.deadline); c != 0 {
			return c
		}
		return a.id - b.id
	})

	fired := 0
	for _, w := range due {
		if w.removed {
			continue
		}
		fired++
		keep := l.fire(w)

		l.mu.Lock()
		if !keep || w.removed {
			w.removed = true
			delete(l.watches, w.id)
		} else {
			w.deadline = now.Add(w.interval)
		}
		l.mu.Unlock()
	}
	return fired
}

func (l *Loop) fire(w *watch) (keep bool) {
	defer errors.RecoverWithCallback("mainloop.RunDue", func(any) { keep = false })
	return w.cb(w.id)
}

// Run calls RunDue on every tick until ctx is done.
func (l *Loop) Run(ctx context.Context, tick time.Duration) error {
	if tick <= 0 {
		tick = 10 * time.Millisecond
	}
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			l.RunDue()
		}
	}
}
