package mainloop

import "time"

// Clock provides time for timer watches. The default implementation uses
// system time. Tests inject a fake clock via Loop.SetClock to control
// timer firing deterministically.
type Clock interface {
	Now() time.Time
}

// realClock uses system time.
type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
