package view

import (
	"github.com/go-drift/gadget/pkg/element"
	"github.com/go-drift/gadget/pkg/event"
)

// grabbedKind reports whether ev goes to the grabbing element instead of
// the element under the pointer.
func grabbedKind(ev event.MouseEvent) bool {
	switch ev.Kind {
	case event.MouseUp, event.MouseClick, event.MouseDblClick,
		event.MouseRClick, event.MouseRDblClick:
		return true
	case event.MouseMove:
		return ev.Button != event.ButtonNone
	}
	return false
}

// OnMouseEvent routes a mouse event, in view coordinates, into the tree.
// The element that received a mouse down keeps receiving moves, the
// release and the click that follows. HitTest reports the zone under the
// pointer afterwards.
func (v *View) OnMouseEvent(ev event.MouseEvent) event.Result {
	if ev.Kind == event.MouseOut {
		v.grabbed = nil
		v.setMouseOver(nil, ev)
		v.hitTest = element.HTTransparent
		return event.Handled
	}
	if ev.Kind == event.MouseMove && ev.Button == event.ButtonNone {
		v.grabbed = nil
	}

	if g := v.grabbed; g != nil && grabbedKind(ev) {
		switch ev.Kind {
		case event.MouseClick, event.MouseDblClick, event.MouseRClick, event.MouseRDblClick:
			v.grabbed = nil
		}
		b := g.Base()
		x, y := b.ViewToSelf(ev.X, ev.Y)
		if b.Destroyed() || !b.ReallyVisible() {
			v.hitTest = g.HitTestAt(x, y)
			return event.Unhandled
		}
		r, _, _ := g.OnMouseEvent(ev.At(x, y), true)
		// A nested view updates its zone while handling the event.
		v.hitTest = g.HitTestAt(x, y)
		return r
	}

	r, fired, in := v.children.OnMouseEvent(ev)
	if in == nil {
		v.hitTest = element.HTTransparent
	} else {
		x, y := in.Base().ViewToSelf(ev.X, ev.Y)
		v.hitTest = in.HitTestAt(x, y)
	}

	switch ev.Kind {
	case event.MouseMove, event.MouseOver:
		v.setMouseOver(fired, ev)
	case event.MouseDown:
		v.grabbed = fired
		if t := focusTarget(fired); t != nil {
			v.SetFocus(t)
		} else {
			v.SetFocus(nil)
		}
	}
	return r
}

// setMouseOver moves the hover state to e, delivering mouseout and
// mouseover directly and updating the host cursor and tooltip.
func (v *View) setMouseOver(e element.Element, ev event.MouseEvent) {
	if e == v.mouseOver {
		return
	}
	old := v.mouseOver
	v.mouseOver = e
	if old != nil && !old.Base().Destroyed() {
		x, y := old.Base().ViewToSelf(ev.X, ev.Y)
		old.OnMouseEvent(ev.As(event.MouseOut).At(x, y), true)
	}
	if e == nil {
		v.host.SetCursor(element.CursorDefault)
		v.host.SetTooltip("")
		return
	}
	b := e.Base()
	x, y := b.ViewToSelf(ev.X, ev.Y)
	e.OnMouseEvent(ev.As(event.MouseOver).At(x, y), true)
	v.host.SetCursor(b.Cursor())
	v.host.SetTooltip(b.Tooltip())
}

// MouseOverElement returns the element under the pointer, or nil.
func (v *View) MouseOverElement() element.Element { return v.mouseOver }

// GrabbedElement returns the element holding the mouse grab, or nil.
func (v *View) GrabbedElement() element.Element { return v.grabbed }

// OnKeyEvent gives the view's script handlers first refusal, then
// delivers the event to the focused element. An unhandled tab moves focus.
func (v *View) OnKeyEvent(ev event.KeyboardEvent) event.Result {
	r := v.fireView(ev)
	if r == event.Canceled {
		return r
	}
	if f := v.focused; f != nil && f.Base().ReallyEnabled() {
		r = event.Merge(r, f.OnKeyEvent(ev))
	}
	if r == event.Unhandled && ev.Kind == event.KeyDown && ev.KeyCode == event.CodeTab {
		delta := 1
		if ev.Modifier.Has(event.ModShift) {
			delta = -1
		}
		if v.MoveFocus(delta) {
			r = event.Handled
		}
	}
	return r
}

// OnDragEvent routes a drag event in view coordinates. Motion and over
// events track the drop target under the pointer, sending dragout and
// dragover as it changes.
func (v *View) OnDragEvent(ev event.DragEvent) event.Result {
	switch ev.Kind {
	case event.DragOut:
		v.setDragOver(nil, ev)
		return event.Handled
	case event.DragMotion, event.DragOver:
		_, fired, _ := v.children.OnDragEvent(event.DragEvent{Kind: event.DragMotion, X: ev.X, Y: ev.Y, Files: ev.Files})
		v.setDragOver(fired, ev)
		if fired == nil {
			return event.Unhandled
		}
		return event.Handled
	case event.DragDrop:
		r, _, _ := v.children.OnDragEvent(ev)
		v.dragOver = nil
		return r
	}
	r, _, _ := v.children.OnDragEvent(ev)
	return r
}

func (v *View) setDragOver(e element.Element, ev event.DragEvent) {
	if e == v.dragOver {
		return
	}
	old := v.dragOver
	v.dragOver = e
	if old != nil && !old.Base().Destroyed() {
		x, y := old.Base().ViewToSelf(ev.X, ev.Y)
		old.OnDragEvent(event.DragEvent{Kind: event.DragOut, X: x, Y: y, Files: ev.Files}, true)
	}
	if e != nil {
		x, y := e.Base().ViewToSelf(ev.X, ev.Y)
		e.OnDragEvent(event.DragEvent{Kind: event.DragOver, X: x, Y: y, Files: ev.Files}, true)
	}
}

// DragOverElement returns the drop target under a drag, or nil.
func (v *View) DragOverElement() element.Element { return v.dragOver }

// OnOtherEvent handles view-level events. Window focus changes are passed
// on to the focused element.
func (v *View) OnOtherEvent(ev event.Event) event.Result {
	r := v.fireView(ev)
	switch ev.Type() {
	case event.FocusIn, event.FocusOut:
		if f := v.focused; f != nil {
			r = event.Merge(r, f.OnOtherEvent(ev))
		}
		if ev.Type() == event.FocusOut {
			v.setMouseOver(nil, event.MouseEvent{Kind: event.MouseOut})
		}
	}
	return r
}
