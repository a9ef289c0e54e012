package testing

import (
	"fmt"

	"github.com/go-drift/gadget/pkg/binder"
	"github.com/go-drift/gadget/pkg/element"
	"github.com/go-drift/gadget/pkg/event"
)

// dragSteps is the number of motion reports a drag is split into.
const dragSteps = 4

// centerOf returns the centre of e in device pixels.
func (t *ViewTester) centerOf(e element.Element) (float64, float64) {
	b := e.Base()
	x, y := b.SelfToView(b.Width()/2, b.Height()/2)
	z := t.binder.Zoom()
	return x * z, y * z
}

func (t *ViewTester) find(finder Finder) (element.Element, error) {
	e := t.Find(finder).FirstOrNil()
	if e == nil {
		return nil, fmt.Errorf("no element found: %s", finder.Description())
	}
	return e, nil
}

// Tap clicks the centre of the first element finder matches.
func (t *ViewTester) Tap(finder Finder) error {
	e, err := t.find(finder)
	if err != nil {
		return err
	}
	t.TapAt(t.centerOf(e))
	return nil
}

// TapAt moves the pointer to (x, y) in device pixels and clicks the left
// button there.
func (t *ViewTester) TapAt(x, y float64) {
	t.binder.MouseMotion(x, y, event.ButtonNone, 0)
	t.binder.MouseButton(binder.ButtonPress, x, y, event.ButtonLeft, 0)
	t.binder.MouseButton(binder.ButtonRelease, x, y, event.ButtonLeft, 0)
}

// DoubleTap double clicks the centre of the first element finder matches,
// the way native toolkits report it: press, release, double press,
// release.
func (t *ViewTester) DoubleTap(finder Finder) error {
	e, err := t.find(finder)
	if err != nil {
		return err
	}
	x, y := t.centerOf(e)
	t.TapAt(x, y)
	t.binder.MouseButton(binder.ButtonDoublePress, x, y, event.ButtonLeft, 0)
	t.binder.MouseButton(binder.ButtonRelease, x, y, event.ButtonLeft, 0)
	return nil
}

// Drag drags from the centre of the first element finder matches by
// (dx, dy) device pixels.
func (t *ViewTester) Drag(finder Finder, dx, dy float64) error {
	e, err := t.find(finder)
	if err != nil {
		return err
	}
	x, y := t.centerOf(e)
	t.DragFrom(x, y, dx, dy)
	return nil
}

// DragFrom presses the left button at (x, y), moves by (dx, dy) in a few
// steps and releases.
func (t *ViewTester) DragFrom(x, y, dx, dy float64) {
	t.binder.MouseMotion(x, y, event.ButtonNone, 0)
	t.binder.MouseButton(binder.ButtonPress, x, y, event.ButtonLeft, 0)
	for i := 1; i <= dragSteps; i++ {
		f := float64(i) / dragSteps
		t.binder.MouseMotion(x+dx*f, y+dy*f, event.ButtonLeft, 0)
	}
	t.binder.MouseButton(binder.ButtonRelease, x+dx, y+dy, event.ButtonLeft, 0)
}

// Hover moves the pointer to (x, y) with no button held.
func (t *ViewTester) Hover(x, y float64) {
	t.binder.MouseMotion(x, y, event.ButtonNone, 0)
}

// PressKey presses and releases one key.
func (t *ViewTester) PressKey(code uint32, char rune, mod event.Modifier) {
	t.binder.Key(binder.KeyPress, code, char, mod)
	t.binder.Key(binder.KeyRelease, code, char, mod)
}

// TypeText sends each rune of s as a character-only key press.
func (t *ViewTester) TypeText(s string) {
	for _, r := range s {
		t.binder.Key(binder.KeyPress, 0, r, 0)
	}
}

// Focus gives keyboard focus to the first element finder matches.
func (t *ViewTester) Focus(finder Finder) error {
	e, err := t.find(finder)
	if err != nil {
		return err
	}
	t.binder.FocusChange(true)
	if !t.view.SetFocus(e) {
		return fmt.Errorf("cannot focus %s", finder.Description())
	}
	return nil
}
