// Package binder translates native window input into view events.
//
// A native host (a terminal, a toolkit window, a test) reports raw pointer,
// key, focus, drag and size changes in device pixels. The Binder folds the
// view's zoom out of every coordinate, synthesises clicks from press and
// release pairs, turns unclaimed drags into window move or resize requests,
// and negotiates size changes according to the view's resizable mode.
//
// A Binder is used from the goroutine that owns the view.
package binder

import (
	"math"
	"net/url"

	"github.com/go-drift/gadget/pkg/canvas"
	"github.com/go-drift/gadget/pkg/element"
	"github.com/go-drift/gadget/pkg/event"
	"github.com/go-drift/gadget/pkg/signal"
	"github.com/go-drift/gadget/pkg/view"
)

// MoveResizeThreshold is how far, in device pixels, an unclaimed drag must
// travel before the window starts moving or resizing.
const MoveResizeThreshold = 3

// WheelDelta is the wheel delta of one scroll step.
const WheelDelta = 120

// ButtonPhase is the kind of a native button report.
type ButtonPhase int

const (
	ButtonPress ButtonPhase = iota
	ButtonDoublePress
	ButtonRelease
)

// KeyPhase is the kind of a native key report.
type KeyPhase int

const (
	KeyPress KeyPhase = iota
	KeyRelease
)

// ScrollDirection is the direction of one wheel step.
type ScrollDirection int

const (
	ScrollUp ScrollDirection = iota
	ScrollDown
	ScrollLeft
	ScrollRight
)

// Binder connects one view to one native surface.
type Binder struct {
	view *view.View
	host view.Host

	zoom     float64
	zoomConn *signal.Connection

	focused  bool
	dblClick bool

	downX, downY float64
	downHitTest  element.HitTest

	width, height int
}

// New binds v. A nil host means the view's own host.
func New(v *view.View, host view.Host) *Binder {
	if host == nil {
		host = v.Host()
	}
	b := &Binder{
		view:        v,
		host:        host,
		zoom:        v.Graphics().Zoom(),
		downX:       -1,
		downY:       -1,
		downHitTest: element.HTClient,
	}
	b.zoomConn = v.Graphics().OnZoom.Connect(signal.NewSlot(b.zoomChanged))
	return b
}

func (b *Binder) zoomChanged(z float64) { b.zoom = z }

// Close stops following the view's zoom.
func (b *Binder) Close() {
	if b.zoomConn != nil {
		b.zoomConn.Disconnect()
		b.zoomConn = nil
	}
}

// View returns the bound view.
func (b *Binder) View() *view.View { return b.view }

// Zoom returns the device pixels per view pixel.
func (b *Binder) Zoom() float64 { return b.zoom }

// Focused reports whether the surface holds keyboard focus.
func (b *Binder) Focused() bool { return b.focused }

func (b *Binder) mouse(kind event.Type, x, y float64, button event.Button, mod event.Modifier) event.MouseEvent {
	return event.MouseEvent{Kind: kind, X: x / b.zoom, Y: y / b.zoom, Button: button, Modifier: mod}
}

// MouseButton reports a press, double press or release at (x, y) in
// device pixels. It returns whether the view consumed it.
//
// A press also focuses the surface. An unclaimed left press on a menu or
// close zone opens the context menu or closes the view. A release is
// followed by a click unless it ends a double press.
func (b *Binder) MouseButton(phase ButtonPhase, x, y float64, button event.Button, mod event.Modifier) bool {
	b.host.SetTooltip("")
	if phase == ButtonRelease {
		return b.release(x, y, button, mod)
	}
	if !b.focused {
		b.focused = true
		b.view.OnOtherEvent(event.SimpleEvent{Kind: event.FocusIn})
	}

	kind := event.TypeNone
	if phase == ButtonPress {
		kind = event.MouseDown
		b.downX, b.downY = x, y
	} else {
		b.dblClick = true
		switch button {
		case event.ButtonLeft:
			kind = event.MouseDblClick
		case event.ButtonRight:
			kind = event.MouseRDblClick
		}
	}
	if button == event.ButtonNone || kind == event.TypeNone {
		return false
	}

	r := b.view.OnMouseEvent(b.mouse(kind, x, y, button, mod))
	b.downHitTest = b.view.HitTest()
	if r == event.Unhandled && button == event.ButtonLeft && kind == event.MouseDown {
		switch b.downHitTest {
		case element.HTMenu:
			b.host.ShowContextMenu(button)
		case element.HTClose:
			b.host.CloseView()
		}
		r = event.Handled
	}
	return r != event.Unhandled
}

func (b *Binder) release(x, y float64, button event.Button, mod event.Modifier) bool {
	r1, r2 := event.Unhandled, event.Unhandled
	if button != event.ButtonNone {
		r1 = b.view.OnMouseEvent(b.mouse(event.MouseUp, x, y, button, mod))
		if !b.dblClick {
			kind := event.MouseRClick
			if button == event.ButtonLeft {
				kind = event.MouseClick
			}
			r2 = b.view.OnMouseEvent(b.mouse(kind, x, y, button, mod))
		} else {
			b.dblClick = false
		}
	}
	b.resetDown()
	return r1 != event.Unhandled || r2 != event.Unhandled
}

func (b *Binder) resetDown() {
	b.downX, b.downY = -1, -1
	b.downHitTest = element.HTClient
}

// MouseMotion reports the pointer at (x, y) with buttons held.
//
// If the view leaves a drag unclaimed past MoveResizeThreshold, the view
// gets a mouse up without a click and the host starts a resize drag from a
// border zone or a move drag otherwise.
func (b *Binder) MouseMotion(x, y float64, buttons event.Button, mod event.Modifier) bool {
	r := b.view.OnMouseEvent(b.mouse(event.MouseMove, x, y, buttons, mod))
	if r != event.Unhandled || buttons == event.ButtonNone || b.downX < 0 || b.downY < 0 {
		return r != event.Unhandled
	}
	if math.Abs(x-b.downX) < MoveResizeThreshold && math.Abs(y-b.downY) < MoveResizeThreshold {
		return false
	}
	b.view.OnMouseEvent(b.mouse(event.MouseUp, x, y, buttons, mod))
	if ht := b.downHitTest; ht.IsResizeEdge() {
		b.host.BeginResizeDrag(buttons, ht)
	} else {
		b.host.BeginMoveDrag(buttons)
	}
	b.resetDown()
	return false
}

// Scroll reports one wheel step at (x, y).
func (b *Binder) Scroll(x, y float64, dir ScrollDirection, buttons event.Button, mod event.Modifier) bool {
	ev := b.mouse(event.MouseWheel, x, y, buttons, mod)
	switch dir {
	case ScrollUp:
		ev.WheelDeltaY = WheelDelta
	case ScrollDown:
		ev.WheelDeltaY = -WheelDelta
	case ScrollRight:
		ev.WheelDeltaX = WheelDelta
	case ScrollLeft:
		ev.WheelDeltaX = -WheelDelta
	}
	return b.view.OnMouseEvent(ev) != event.Unhandled
}

// Enter reports the pointer entering the surface.
func (b *Binder) Enter(x, y float64, mod event.Modifier) bool {
	b.host.SetTooltip("")
	return b.view.OnMouseEvent(b.mouse(event.MouseOver, x, y, event.ButtonNone, mod)) != event.Unhandled
}

// Leave reports the pointer leaving the surface.
func (b *Binder) Leave(x, y float64, mod event.Modifier) bool {
	b.host.SetTooltip("")
	return b.view.OnMouseEvent(b.mouse(event.MouseOut, x, y, event.ButtonNone, mod)) != event.Unhandled
}

// Key reports a key transition. code is the key code (see the event.Code
// constants); char is the character the key produces, or 0. A press is
// followed by a keypress event when it yields a character: the char
// itself for unmodified keys, the code for Escape, Return, Backspace and
// Tab, and a control character for ctrl+letter.
func (b *Binder) Key(phase KeyPhase, code uint32, char rune, mod event.Modifier) bool {
	if phase == KeyRelease {
		if code == 0 {
			return false
		}
		return b.view.OnKeyEvent(event.KeyboardEvent{Kind: event.KeyUp, KeyCode: code, Modifier: mod}) != event.Unhandled
	}

	b.host.SetTooltip("")
	r1, r2 := event.Unhandled, event.Unhandled
	if code != 0 {
		r1 = b.view.OnKeyEvent(event.KeyboardEvent{Kind: event.KeyDown, KeyCode: code, Modifier: mod})
	}
	var keyChar uint32
	switch {
	case !mod.Has(event.ModControl) && !mod.Has(event.ModAlt):
		switch code {
		case event.CodeEscape, event.CodeReturn, event.CodeBack, event.CodeTab:
			keyChar = code
		default:
			keyChar = uint32(max(char, 0))
		}
	case mod.Has(event.ModControl):
		keyChar, _ = event.ControlChar(code)
	}
	if keyChar != 0 {
		r2 = b.view.OnKeyEvent(event.KeyboardEvent{Kind: event.KeyPress, KeyCode: keyChar, Modifier: mod})
	}
	return r1 != event.Unhandled || r2 != event.Unhandled
}

// FocusChange reports the surface gaining or losing keyboard focus.
// Repeated reports of the same state are ignored.
func (b *Binder) FocusChange(in bool) bool {
	if in == b.focused {
		return false
	}
	b.focused = in
	kind := event.FocusOut
	if in {
		kind = event.FocusIn
	}
	return b.view.OnOtherEvent(event.SimpleEvent{Kind: kind}) != event.Unhandled
}

// Drag reports a file drag. uris are file URIs; remote and non-file URIs
// are dropped, and a drag carrying no local file is refused. Motion and
// drop events are only accepted if a drop target handles them.
func (b *Binder) Drag(kind event.Type, x, y float64, uris []string) bool {
	files := LocalFiles(uris)
	if len(files) == 0 && kind != event.DragOut {
		return false
	}
	ev := event.DragEvent{Kind: kind, X: x / b.zoom, Y: y / b.zoom, Files: files}
	return b.view.OnDragEvent(ev) == event.Handled
}

// LocalFiles returns the paths of the local file URIs in uris.
func LocalFiles(uris []string) []string {
	var files []string
	for _, s := range uris {
		u, err := url.Parse(s)
		if err != nil || u.Scheme != "file" || (u.Host != "" && u.Host != "localhost") || u.Path == "" {
			continue
		}
		files = append(files, u.Path)
	}
	return files
}

// SizeAllocate reports the surface's new size in device pixels.
//
// A resizable view is asked through OnSizing and resized. If it refuses or
// adjusts the size, the host is told to resize to the view. A zooming
// view changes zoom to fit. Any other view asks the host to restore its
// size.
func (b *Binder) SizeAllocate(w, h int) {
	if w == b.width && h == b.height {
		return
	}
	b.width, b.height = w, h

	v := b.view
	switch v.Resizable() {
	case view.ResizableTrue:
		vw := math.Ceil(float64(w) / b.zoom)
		vh := math.Ceil(float64(h) / b.zoom)
		if vw == v.Width() && vh == v.Height() {
			return
		}
		nw, nh, ok := v.OnSizing(vw, vh)
		if ok {
			v.SetSize(nw, nh)
		}
		if !ok || nw != vw || nh != vh {
			b.host.QueueResize()
		}
	case view.ResizableZoom:
		vw, vh := v.Width(), v.Height()
		if vw <= 0 || vh <= 0 {
			return
		}
		zoom := min(float64(w)/vw, float64(h)/vh)
		if zoom != v.Graphics().Zoom() {
			v.Graphics().SetZoom(zoom)
			v.MarkRedraw()
		}
		b.host.QueueResize()
	default:
		b.host.QueueResize()
	}
}

// Size returns the last allocated size.
func (b *Binder) Size() (w, h int) { return b.width, b.height }

// Expose paints the view into a fresh canvas from its graphics context,
// which applies the zoom.
func (b *Binder) Expose() canvas.Canvas { return b.view.Render() }
