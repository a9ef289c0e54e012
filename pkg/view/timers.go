package view

import (
	"math"
	"time"
)

// animationInterval is the frame period of BeginAnimation.
const animationInterval = 16 * time.Millisecond

func (v *View) addTimer(d time.Duration, fn func(id int) bool) int {
	if fn == nil || v.destroyed {
		return 0
	}
	id := v.loop.AddTimeoutWatch(d, func(id int) bool {
		if _, ok := v.timers[id]; !ok {
			return false
		}
		keep := false
		defer func() {
			if !keep {
				delete(v.timers, id)
			}
		}()
		keep = fn(id)
		return keep
	})
	if id > 0 {
		v.timers[id] = struct{}{}
	}
	return id
}

func (v *View) removeTimer(id int) {
	if _, ok := v.timers[id]; !ok {
		return
	}
	delete(v.timers, id)
	v.loop.RemoveWatch(id)
}

// SetTimeout calls fn once after d. It returns a positive token, or 0 if
// fn is nil.
func (v *View) SetTimeout(d time.Duration, fn func()) int {
	if fn == nil {
		return 0
	}
	return v.addTimer(d, func(int) bool {
		fn()
		return false
	})
}

// ClearTimeout cancels a timeout. Unknown, fired or cleared tokens are
// ignored.
func (v *View) ClearTimeout(id int) { v.removeTimer(id) }

// SetInterval calls fn every d until cleared.
func (v *View) SetInterval(d time.Duration, fn func()) int {
	if fn == nil {
		return 0
	}
	return v.addTimer(d, func(int) bool {
		fn()
		return true
	})
}

// ClearInterval cancels an interval. It is idempotent.
func (v *View) ClearInterval(id int) { v.removeTimer(id) }

// BeginAnimation calls fn with values running from start to end over
// duration, one frame at a time. The last call always carries end.
func (v *View) BeginAnimation(fn func(value int), start, end int, duration time.Duration) int {
	if fn == nil {
		return 0
	}
	begin := v.loop.Now()
	return v.addTimer(animationInterval, func(int) bool {
		elapsed := v.loop.Now().Sub(begin)
		if duration <= 0 || elapsed >= duration {
			fn(end)
			return false
		}
		progress := float64(elapsed) / float64(duration)
		fn(start + int(math.Round(float64(end-start)*progress)))
		return true
	})
}

// CancelAnimation stops an animation. It is idempotent.
func (v *View) CancelAnimation(id int) { v.removeTimer(id) }

// TimerCount returns the number of live timers and animations.
func (v *View) TimerCount() int { return len(v.timers) }
