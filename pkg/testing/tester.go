package testing

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-drift/gadget/pkg/testing/internal/testbed"
	"github.com/go-drift/gadget/pkg/binder"
	"github.com/go-drift/gadget/pkg/canvas"
	"github.com/go-drift/gadget/pkg/element"
	"github.com/go-drift/gadget/pkg/mainloop"
	"github.com/go-drift/gadget/pkg/view"
	"github.com/go-drift/gadget/pkg/widgets"
)

const (
	// DefaultTestWidth is the default width of the test view.
	DefaultTestWidth = 400
	// DefaultTestHeight is the default height of the test view.
	DefaultTestHeight = 300
	// FrameInterval is the step PumpAndSettle advances the clock by.
	FrameInterval = 16 * time.Millisecond
	// maxSteps bounds the timer firings of a single Advance.
	maxSteps = 100000
)

// ErrSettleTimeout is returned when PumpAndSettle exceeds its timeout.
var ErrSettleTimeout = errors.New("PumpAndSettle timed out: timers still pending")

// ViewTester drives a view without a native window. It owns a fake clock,
// a loop on that clock, a factory with the stock element kinds and a
// FakeHost. Input goes through a Binder, so events take the same path a
// native host would use.
type ViewTester struct {
	t       testing.TB
	clock   *FakeClock
	loop    *mainloop.Loop
	factory *element.Factory
	host    *FakeHost
	view    *view.View
	binder  *binder.Binder
}

// NewViewTester creates a tester. Call Cleanup when done, or use
// NewViewTesterWithT instead.
func NewViewTester(opts ...view.Option) *ViewTester {
	clk := NewFakeClock()
	loop := mainloop.New()
	loop.SetClock(clk)

	f := element.NewFactory()
	widgets.Register(f)
	testbed.Register(f)

	opts = append([]view.Option{view.WithSize(DefaultTestWidth, DefaultTestHeight)}, opts...)
	host := &FakeHost{}
	v := view.New(host, f, loop, opts...)
	return &ViewTester{
		clock:   clk,
		loop:    loop,
		factory: f,
		host:    host,
		view:    v,
		binder:  binder.New(v, host),
	}
}

// NewViewTesterWithT creates a tester that cleans up via t.Cleanup and
// fails t when Append cannot create an element.
func NewViewTesterWithT(t testing.TB, opts ...view.Option) *ViewTester {
	tester := NewViewTester(opts...)
	tester.t = t
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup unbinds and destroys the view.
func (t *ViewTester) Cleanup() {
	if t.view == nil {
		return
	}
	t.binder.Close()
	t.view.Destroy()
	t.view = nil
}

func (t *ViewTester) Clock() *FakeClock         { return t.clock }
func (t *ViewTester) Loop() *mainloop.Loop      { return t.loop }
func (t *ViewTester) Factory() *element.Factory { return t.factory }
func (t *ViewTester) Host() *FakeHost           { return t.host }
func (t *ViewTester) View() *view.View          { return t.view }
func (t *ViewTester) Binder() *binder.Binder    { return t.binder }
func (t *ViewTester) Root() *element.Elements   { return t.view.Children() }

// Append creates an element of kind tag at the end of the view's
// top-level children.
func (t *ViewTester) Append(tag, name string) element.Element {
	return t.AppendTo(nil, tag, name)
}

// AppendTo creates an element under parent, or at the top level when
// parent is nil.
func (t *ViewTester) AppendTo(parent element.Element, tag, name string) element.Element {
	es := t.view.Children()
	if parent != nil {
		es = parent.Base().Children()
	}
	var e element.Element
	if es != nil {
		e = es.AppendElement(tag, name)
	}
	if e == nil && t.t != nil {
		t.t.Helper()
		t.t.Fatalf("AppendElement(%q, %q) = nil", tag, name)
	}
	return e
}

// Pump fires every timer that is due now and returns how many fired.
func (t *ViewTester) Pump() int {
	return t.loop.RunDue()
}

// Advance moves the clock forward by d, firing each timer at its own
// deadline on the way so intervals tick once per period.
func (t *ViewTester) Advance(d time.Duration) int {
	target := t.clock.Now().Add(d)
	fired := 0
	for i := 0; i < maxSteps; i++ {
		next, ok := t.loop.NextDeadline()
		if !ok || next.After(target) {
			break
		}
		if next.After(t.clock.Now()) {
			t.clock.Set(next)
		}
		n := t.loop.RunDue()
		if n == 0 {
			break
		}
		fired += n
	}
	t.clock.Set(target)
	return fired + t.loop.RunDue()
}

// PumpAndSettle advances frame by frame until no timer is pending. It
// fails with ErrSettleTimeout if timers remain after timeout, as they do
// while an interval is running.
func (t *ViewTester) PumpAndSettle(timeout time.Duration) error {
	for elapsed := time.Duration(0); ; elapsed += FrameInterval {
		if t.loop.Pending() == 0 {
			return nil
		}
		if elapsed >= timeout {
			return fmt.Errorf("%w (%d pending)", ErrSettleTimeout, t.loop.Pending())
		}
		t.Advance(FrameInterval)
	}
}

// Render lays out and draws the view into a fresh recorder.
func (t *ViewTester) Render() *canvas.Recorder {
	rec := canvas.NewRecorder(t.view.Width(), t.view.Height())
	t.view.Draw(rec)
	return rec
}

// Find evaluates finder against the view's element tree.
func (t *ViewTester) Find(finder Finder) FinderResult {
	return FinderResult{elements: finder.Evaluate(t.view.Children()), finder: finder}
}
