// Package view implements the root scene of a window: a View owns the
// top-level Elements, routes host events through them, negotiates its size
// with the host and schedules script timers. ViewElement embeds one View in
// another.
package view

import (
	"github.com/google/uuid"

	"github.com/go-drift/gadget/pkg/canvas"
	"github.com/go-drift/gadget/pkg/element"
	"github.com/go-drift/gadget/pkg/event"
	"github.com/go-drift/gadget/pkg/mainloop"
	"github.com/go-drift/gadget/pkg/scriptable"
	"github.com/go-drift/gadget/pkg/signal"
)

// ClassView is the scriptable class id of View.
const ClassView uint64 = 0xc4ee4a622fbc4b7a

// DefaultWidth and DefaultHeight size a view created without WithSize.
const (
	DefaultWidth  = 320
	DefaultHeight = 240
)

// viewEvents are the script signals a view exposes.
var viewEvents = []event.Type{
	event.Open, event.Close, event.Size, event.Sizing,
	event.FocusIn, event.FocusOut,
	event.KeyDown, event.KeyUp, event.KeyPress,
	event.Dock, event.Undock, event.PopIn, event.PopOut,
	event.Minimize, event.Restore, event.Ok, event.Cancel,
}

// Option configures a View.
type Option func(*View)

// WithSize sets the initial size. Non-positive values are ignored.
func WithSize(w, h float64) Option {
	return func(v *View) {
		if w > 0 && h > 0 {
			v.width, v.height = w, h
		}
	}
}

// WithResizable sets the initial resizable mode.
func WithResizable(m ResizableMode) Option {
	return func(v *View) { v.resizable = m }
}

// WithCaption sets the initial caption.
func WithCaption(c string) Option {
	return func(v *View) { v.caption = c }
}

// WithGraphics sets the zoom context. Views created without one get a
// private context at zoom 1 that draws into Recorders.
func WithGraphics(g *canvas.Graphics) Option {
	return func(v *View) {
		if g != nil {
			v.graphics = g
		}
	}
}

// View is the root of one window's element tree.
type View struct {
	scriptable.Helper

	id       uuid.UUID
	host     Host
	factory  *element.Factory
	loop     *mainloop.Loop
	graphics *canvas.Graphics
	children *element.Elements

	width, height       float64
	minWidth, minHeight float64
	resizable           ResizableMode
	caption             string
	showCaptionAlways   bool

	needsLayout bool

	focused   element.Element
	grabbed   element.Element
	mouseOver element.Element
	dragOver  element.Element
	hitTest   element.HitTest

	current *ScriptableEvent
	timers  map[int]struct{}
	signals map[event.Type]*signal.Signal

	destroyed bool
}

// New creates a view. A nil host becomes NopHost and a nil loop a fresh
// loop on the system clock.
func New(host Host, factory *element.Factory, loop *mainloop.Loop, opts ...Option) *View {
	if host == nil {
		host = NopHost{}
	}
	if loop == nil {
		loop = mainloop.New()
	}
	v := &View{
		id:          uuid.New(),
		host:        host,
		factory:     factory,
		loop:        loop,
		width:       DefaultWidth,
		height:      DefaultHeight,
		resizable:   ResizableTrue,
		needsLayout: true,
		hitTest:     element.HTTransparent,
		timers:      make(map[int]struct{}),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.graphics == nil {
		v.graphics = canvas.NewGraphics(1, nil)
	}
	v.children = element.NewElements(factory, nil, v)
	v.SetClass(ClassView)
	v.registerSignals()
	v.registerProperties()
	return v
}

// ID returns the view's instance id.
func (v *View) ID() uuid.UUID { return v.id }

func (v *View) Host() Host                  { return v.host }
func (v *View) Loop() *mainloop.Loop        { return v.loop }
func (v *View) Graphics() *canvas.Graphics  { return v.graphics }
func (v *View) Factory() *element.Factory   { return v.factory }
func (v *View) Children() *element.Elements { return v.children }
func (v *View) Width() float64              { return v.width }
func (v *View) Height() float64             { return v.height }
func (v *View) Resizable() ResizableMode    { return v.resizable }
func (v *View) Caption() string             { return v.caption }
func (v *View) ShowCaptionAlways() bool     { return v.showCaptionAlways }
func (v *View) MinSize() (w, h float64)     { return v.minWidth, v.minHeight }
func (v *View) HitTest() element.HitTest    { return v.hitTest }
func (v *View) Event() *ScriptableEvent     { return v.current }

// Signal returns the view signal for t, or nil.
func (v *View) Signal(t event.Type) *signal.Signal { return v.signals[t] }

// SetHost replaces the host. Used when a view moves between windows.
func (v *View) SetHost(h Host) {
	if h == nil {
		h = NopHost{}
	}
	v.host = h
	v.QueueDraw()
}

func (v *View) SetResizable(m ResizableMode) {
	v.resizable = m
	v.host.QueueResize()
}

func (v *View) SetCaption(c string) {
	v.caption = c
	v.host.SetCaption(c)
}

func (v *View) SetShowCaptionAlways(b bool) { v.showCaptionAlways = b }

// SetMinSize sets the lower bound ResizableTrue clamps to.
func (v *View) SetMinSize(w, h float64) {
	v.minWidth, v.minHeight = max(w, 0), max(h, 0)
}

// ConnectEvent attaches a native handler to a view signal.
func (v *View) ConnectEvent(t event.Type, fn func()) *signal.Connection {
	s := v.signals[t]
	if s == nil {
		return nil
	}
	return s.ConnectFunc(fn)
}

func (v *View) registerSignals() {
	v.signals = make(map[event.Type]*signal.Signal, len(viewEvents))
	for _, t := range viewEvents {
		s := signal.Void()
		v.signals[t] = s
		v.RegisterSignal(t.Handler(), s)
	}
}

// fireView emits a view-level signal. Without script handlers the event
// is unhandled.
func (v *View) fireView(ev event.Event) event.Result {
	s := v.signals[ev.Type()]
	if s == nil || !s.HasActiveConnections() {
		return event.Unhandled
	}
	return v.FireEvent(ev, s, nil)
}

// FireEvent emits sig with ev exposed as the current script event.
func (v *View) FireEvent(ev event.Event, sig *signal.Signal, src element.Element) event.Result {
	_, r := v.fireScriptable(ev, sig, src)
	return r
}

func (v *View) fireScriptable(ev event.Event, sig *signal.Signal, src element.Element) (*ScriptableEvent, event.Result) {
	se := NewScriptableEvent(ev, src)
	prev := v.current
	v.current = se
	sig.Emit()
	v.current = prev
	return se, se.Result()
}

// SetSize commits a size and queues a layout. Non-positive sizes are
// rejected.
func (v *View) SetSize(w, h float64) bool {
	if w <= 0 || h <= 0 {
		return false
	}
	if w == v.width && h == v.height {
		return true
	}
	v.width, v.height = w, h
	v.needsLayout = true
	v.fireView(event.SimpleEvent{Kind: event.Size})
	v.host.QueueResize()
	v.QueueDraw()
	return true
}

func (v *View) SetWidth(w float64) bool  { return v.SetSize(w, v.height) }
func (v *View) SetHeight(h float64) bool { return v.SetSize(v.width, h) }

// OnSizing negotiates a proposed size before the host commits it. It
// returns the size the view accepts and whether the resize may proceed.
// Script onsizing handlers run last and may rewrite the size or cancel.
func (v *View) OnSizing(w, h float64) (float64, float64, bool) {
	if w <= 0 || h <= 0 {
		return w, h, false
	}
	switch v.resizable {
	case ResizableFalse:
		return v.width, v.height, false
	case ResizableTrue:
		w, h = max(w, v.minWidth), max(h, v.minHeight)
	case ResizableKeepRatio:
		ratio := v.width / v.height
		if w/h < ratio {
			h = w / ratio
		} else {
			w = h * ratio
		}
	case ResizableZoom:
	}
	s := v.signals[event.Sizing]
	if !s.HasActiveConnections() {
		return w, h, true
	}
	se, r := v.fireScriptable(event.SizingEvent{Kind: event.Sizing, Width: w, Height: h}, s, nil)
	if r == event.Canceled {
		return w, h, false
	}
	nw, nh := se.Size()
	if nw <= 0 || nh <= 0 {
		return w, h, false
	}
	return nw, nh, true
}

// QueueDraw marks the view dirty and asks the host to redraw.
func (v *View) QueueDraw() {
	v.needsLayout = true
	v.host.QueueDraw()
}

// MarkRedraw forces a full layout on the next Draw.
func (v *View) MarkRedraw() { v.QueueDraw() }

// Layout lays out the element tree.
func (v *View) Layout() {
	v.needsLayout = false
	v.children.Layout()
}

// Draw lays out the tree if dirty and paints it into c, which must be in
// view coordinates.
func (v *View) Draw(c canvas.Canvas) {
	if v.needsLayout {
		v.Layout()
	}
	c.PushState()
	defer c.PopState()
	c.IntersectRectClipRegion(0, 0, v.width, v.height)
	v.children.Draw(c)
}

// Render draws the view into a fresh canvas from its graphics context.
func (v *View) Render() canvas.Canvas {
	c := v.graphics.NewCanvas(v.width, v.height)
	v.Draw(c)
	return c
}

// OnElementAdd is called by collections when an element joins the tree.
func (v *View) OnElementAdd(element.Element) {}

// OnElementRemove drops every weak reference to e before it is destroyed.
func (v *View) OnElementRemove(e element.Element) {
	if v.focused == e {
		v.focused = nil
	}
	if v.grabbed == e {
		v.grabbed = nil
	}
	if v.mouseOver == e {
		v.mouseOver = nil
		v.host.SetCursor(element.CursorDefault)
		v.host.SetTooltip("")
	}
	if v.dragOver == e {
		v.dragOver = nil
	}
}

// ElementByName searches the whole tree depth first and returns the first
// element with the given name.
func (v *View) ElementByName(name string) element.Element {
	if name == "" {
		return nil
	}
	return findByName(v.children, name)
}

func findByName(es *element.Elements, name string) element.Element {
	var found element.Element
	es.Each(func(e element.Element) bool {
		if e.Base().Name() == name {
			found = e
			return false
		}
		if c := e.Base().Children(); c != nil {
			found = findByName(c, name)
		}
		return found == nil
	})
	return found
}

// Destroy cancels every timer, destroys the element tree and fires the
// view's ondelete.
func (v *View) Destroy() {
	if v.destroyed {
		return
	}
	v.destroyed = true
	for id := range v.timers {
		v.loop.RemoveWatch(id)
	}
	clear(v.timers)
	v.children.RemoveAllElements()
	v.Helper.Destroy()
	for _, s := range v.signals {
		s.DisconnectAll()
	}
}
