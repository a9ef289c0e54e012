package view

import (
	"github.com/go-drift/gadget/pkg/canvas"
	"github.com/go-drift/gadget/pkg/element"
	"github.com/go-drift/gadget/pkg/event"
	"github.com/go-drift/gadget/pkg/signal"
)

// Scale band of a nested view relative to its parent.
const (
	MinScale = 0.5
	MaxScale = 2.0
)

// ClassViewElement is the scriptable class id of ViewElement.
const ClassViewElement uint64 = 0x3be02fb4f45b42b3

// ViewElement shows a child View inside another view's element tree. The
// child is not owned: docking moves it between hosts without rebuilding
// its tree. The element's footprint is the child's size times the scale,
// where scale is the child's zoom over the parent's.
type ViewElement struct {
	element.BasicElement

	child         *View
	scale         float64
	noTransparent bool

	sizingCalled           bool
	sizingResult           bool
	sizingReqW, sizingReqH float64
	sizingResW, sizingResH float64

	onsize *signal.Connection
	onopen *signal.Connection
	onzoom *signal.Connection
}

// NewViewElement wraps child. With noTransparent set, a transparent zone
// in the child is reported as nowhere so the host never treats the
// element as background.
func NewViewElement(parent element.Element, view element.ViewContext, child *View, noTransparent bool) *ViewElement {
	ve := &ViewElement{scale: 1, noTransparent: noTransparent}
	ve.Init(ve, "view", parent, view, "", false)
	ve.SetClass(ClassViewElement, element.ClassBasicElement)
	ve.SetEnabled(true)
	if view != nil && view.Graphics() != nil {
		ve.onzoom = view.Graphics().OnZoom.Connect(signal.NewSlot(ve.parentZoomChanged))
	}
	ve.SetChildView(child)
	return ve
}

// ChildView returns the embedded view, or nil.
func (ve *ViewElement) ChildView() *View { return ve.child }

// Scale returns the child's zoom relative to the parent view.
func (ve *ViewElement) Scale() float64 { return ve.scale }

// SetChildView replaces the embedded view and resizes the element to fit.
func (ve *ViewElement) SetChildView(child *View) {
	if child == ve.child {
		return
	}
	if ve.onsize != nil {
		ve.onsize.Disconnect()
		ve.onsize = nil
	}
	if ve.onopen != nil {
		ve.onopen.Disconnect()
		ve.onopen = nil
	}
	if child != nil {
		ve.onsize = child.ConnectEvent(event.Size, ve.updateScaleAndSize)
		ve.onopen = child.ConnectEvent(event.Open, ve.updateScaleAndSize)
	}
	ve.child = child
	ve.sizingCalled = false
	ve.updateScaleAndSize()
	ve.queueDraw()
}

func (ve *ViewElement) parentZoom() float64 {
	if v := ve.View(); v != nil && v.Graphics() != nil {
		return v.Graphics().Zoom()
	}
	return 1
}

func (ve *ViewElement) updateScaleAndSize() {
	if ve.child == nil {
		ve.scale = 1
		return
	}
	ve.scale = ve.child.Graphics().Zoom() / ve.parentZoom()
	ve.BasicElement.SetWidth(ve.child.Width() * ve.scale)
	ve.BasicElement.SetHeight(ve.child.Height() * ve.scale)
}

// parentZoomChanged keeps the scale when the parent view zooms.
func (ve *ViewElement) parentZoomChanged(zoom float64) {
	if ve.child == nil {
		return
	}
	ve.child.Graphics().SetZoom(zoom * ve.scale)
	ve.child.MarkRedraw()
}

func (ve *ViewElement) queueDraw() {
	if v := ve.View(); v != nil {
		v.QueueDraw()
	}
}

// OnSizing negotiates a proposed footprint. A resizable child decides
// itself, through the scale. Otherwise the child's aspect ratio is kept
// and the request is rejected if the implied scale leaves the band. The
// last request and answer are remembered until the next SetSize.
func (ve *ViewElement) OnSizing(w, h float64) (float64, float64, bool) {
	if w <= 0 || h <= 0 {
		return w, h, false
	}
	if ve.child == nil {
		return w, h, true
	}
	if ve.sizingCalled && ve.sizingReqW == w && ve.sizingReqH == h {
		return ve.sizingResW, ve.sizingResH, ve.sizingResult
	}
	ve.sizingCalled = true
	ve.sizingReqW, ve.sizingReqH = w, h

	var ok bool
	if ve.child.Resizable() == ResizableTrue {
		var cw, ch float64
		cw, ch, ok = ve.child.OnSizing(w/ve.scale, h/ve.scale)
		w, h = cw*ve.scale, ch*ve.scale
	} else {
		cw, ch := ve.child.Width(), ve.child.Height()
		ratio := cw / ch
		if w/h < ratio {
			h = w / ratio
		} else {
			w = h * ratio
		}
		s := w / cw
		ok = s >= MinScale && s <= MaxScale
	}
	ve.sizingResW, ve.sizingResH, ve.sizingResult = w, h, ok
	return w, h, ok
}

// SetSize resizes the footprint. A resizable child is resized; any other
// child is rescaled from the shorter edge.
func (ve *ViewElement) SetSize(w, h float64) {
	if w <= 0 || h <= 0 || (w == ve.Width() && h == ve.Height()) {
		return
	}
	if ve.child == nil {
		ve.BasicElement.SetWidth(w)
		ve.BasicElement.SetHeight(h)
		return
	}
	if ve.child.Resizable() == ResizableTrue {
		ve.child.SetSize(w/ve.scale, h/ve.scale)
		ve.updateScaleAndSize()
	} else {
		cw, ch := ve.child.Width(), ve.child.Height()
		if w/h < cw/ch {
			ve.SetScale(w / cw)
		} else {
			ve.SetScale(h / ch)
		}
	}
	ve.sizingCalled = false
	ve.queueDraw()
}

// SetScale clamps scale to the band and zooms the child accordingly.
func (ve *ViewElement) SetScale(scale float64) {
	scale = min(max(scale, MinScale), MaxScale)
	if ve.child == nil || scale == ve.scale {
		return
	}
	ve.child.Graphics().SetZoom(ve.parentZoom() * scale)
	ve.child.MarkRedraw()
	ve.updateScaleAndSize()
	ve.queueDraw()
}

// ChildViewToView converts a point in the child view into the parent view.
func (ve *ViewElement) ChildViewToView(x, y float64) (float64, float64) {
	return ve.SelfToView(x*ve.scale, y*ve.scale)
}

// ViewToChildView converts a point in the parent view into the child view.
func (ve *ViewElement) ViewToChildView(x, y float64) (float64, float64) {
	x, y = ve.ViewToSelf(x, y)
	return x / ve.scale, y / ve.scale
}

// HitTestAt reports the child view's zone from its last mouse event.
func (ve *ViewElement) HitTestAt(x, y float64) element.HitTest {
	if ve.child == nil {
		return ve.BasicElement.HitTestAt(x, y)
	}
	ht := ve.child.HitTest()
	if ht == element.HTTransparent && ve.noTransparent {
		return element.HTNowhere
	}
	return ht
}

// DefaultSize is the child's size at the current scale.
func (ve *ViewElement) DefaultSize() (float64, float64) {
	if ve.child == nil {
		return ve.BasicElement.DefaultSize()
	}
	return ve.child.Width() * ve.scale, ve.child.Height() * ve.scale
}

// MarkRedraw forces the child to lay out again.
func (ve *ViewElement) MarkRedraw() {
	ve.queueDraw()
	if ve.child != nil {
		ve.child.MarkRedraw()
	}
}

func (ve *ViewElement) DoDraw(c canvas.Canvas) {
	if ve.child == nil {
		return
	}
	if ve.scale != 1 {
		c.ScaleCoordinates(ve.scale, ve.scale)
	}
	ve.child.Draw(c)
}

// OnMouseEvent lets the child view handle ev first so its hit test is
// current, then runs the element's own dispatch.
func (ve *ViewElement) OnMouseEvent(ev event.MouseEvent, direct bool) (event.Result, element.Element, element.Element) {
	r1 := event.Unhandled
	if ve.child != nil {
		r1 = ve.child.OnMouseEvent(ev.At(ev.X/ve.scale, ev.Y/ve.scale))
	}
	r2, fired, in := ve.BasicElement.OnMouseEvent(ev, direct)
	return event.Merge(r1, r2), fired, in
}

// OnDragEvent forwards ev to the child. Views track drag-over through
// motion events, so dragover is sent as dragmotion.
func (ve *ViewElement) OnDragEvent(ev event.DragEvent, direct bool) (event.Result, element.Element, element.Element) {
	if ve.child == nil || !ve.Visible() {
		return event.Unhandled, nil, nil
	}
	if ev.Kind == event.DragOver {
		ev.Kind = event.DragMotion
	}
	r := ve.child.OnDragEvent(ev.At(ev.X/ve.scale, ev.Y/ve.scale))
	if r == event.Handled {
		return r, ve, ve
	}
	return r, nil, nil
}

func (ve *ViewElement) OnKeyEvent(ev event.KeyboardEvent) event.Result {
	if ve.child == nil {
		return event.Unhandled
	}
	return ve.child.OnKeyEvent(ev)
}

// OnOtherEvent forwards ev to the child, except the element's own size
// notifications.
func (ve *ViewElement) OnOtherEvent(ev event.Event) event.Result {
	if ve.child == nil || ev.Type() == event.Size {
		return ve.BasicElement.OnOtherEvent(ev)
	}
	return ve.child.OnOtherEvent(ev)
}

// Destroy detaches from the child and the parent's zoom. The child view
// itself is left alive.
func (ve *ViewElement) Destroy() {
	for _, c := range []*signal.Connection{ve.onsize, ve.onopen, ve.onzoom} {
		if c != nil {
			c.Disconnect()
		}
	}
	ve.onsize, ve.onopen, ve.onzoom = nil, nil, nil
	ve.child = nil
	ve.BasicElement.Destroy()
}

// ElementHost hosts a child view inside a ViewElement, routing requests
// to the parent view's host with coordinates converted through the
// element.
type ElementHost struct {
	Element *ViewElement
	Parent  Host
}

func (h *ElementHost) QueueDraw()   { h.Element.queueDraw() }
func (h *ElementHost) QueueResize() { h.Element.updateScaleAndSize(); h.Element.queueDraw() }

func (h *ElementHost) SetCursor(c element.CursorType) { h.Parent.SetCursor(c) }
func (h *ElementHost) SetTooltip(tip string)          { h.Parent.SetTooltip(tip) }

func (h *ElementHost) BeginMoveDrag(button event.Button) { h.Parent.BeginMoveDrag(button) }

func (h *ElementHost) BeginResizeDrag(button event.Button, edge element.HitTest) {
	h.Parent.BeginResizeDrag(button, edge)
}

func (h *ElementHost) ShowContextMenu(button event.Button) bool {
	return h.Parent.ShowContextMenu(button)
}

// CloseView and SetCaption are ignored: the embedding owns the window.
func (h *ElementHost) CloseView()        {}
func (h *ElementHost) SetCaption(string) {}

func (h *ElementHost) Alert(msg string)        { h.Parent.Alert(msg) }
func (h *ElementHost) Confirm(msg string) bool { return h.Parent.Confirm(msg) }

func (h *ElementHost) Prompt(msg, def string) (string, bool) { return h.Parent.Prompt(msg, def) }

func (h *ElementHost) ViewCoordToNativeWidgetCoord(x, y float64) (float64, float64) {
	return h.Parent.ViewCoordToNativeWidgetCoord(h.Element.ChildViewToView(x, y))
}

func (h *ElementHost) NativeWidgetCoordToViewCoord(x, y float64) (float64, float64) {
	return h.Element.ViewToChildView(h.Parent.NativeWidgetCoordToViewCoord(x, y))
}
