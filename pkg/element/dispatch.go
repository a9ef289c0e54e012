package element

import (
	"github.com/go-drift/gadget/pkg/event"
	"github.com/go-drift/gadget/pkg/signal"
	"github.com/go-drift/gadget/pkg/variant"
)

// elementEvents are the script signals every element exposes.
var elementEvents = []event.Type{
	event.MouseClick, event.MouseDblClick, event.MouseRClick, event.MouseRDblClick,
	event.MouseDown, event.MouseUp, event.MouseMove, event.MouseOver, event.MouseOut,
	event.MouseWheel,
	event.KeyDown, event.KeyUp, event.KeyPress,
	event.FocusIn, event.FocusOut,
	event.DragDrop, event.DragOver, event.DragOut,
	event.Size,
}

func (b *BasicElement) registerSignals() {
	b.signals = make(map[event.Type]*signal.Signal, len(elementEvents))
	for _, t := range elementEvents {
		s := signal.Void()
		b.signals[t] = s
		b.RegisterSignal(t.Handler(), s)
	}
}

// Signal returns the script signal for t, or nil.
func (b *BasicElement) Signal(t event.Type) *signal.Signal { return b.signals[t] }

// ConnectEvent attaches a native handler to the script signal for t.
func (b *BasicElement) ConnectEvent(t event.Type, fn func()) *signal.Connection {
	s := b.signals[t]
	if s == nil {
		return nil
	}
	return s.Connect(signal.NewFuncSlot(variant.TypeVoid, nil, func([]variant.Variant) variant.Variant {
		fn()
		return variant.Void()
	}))
}

// fire emits the script signal for ev through the view, which exposes ev
// as the current event.
func (b *BasicElement) fire(ev event.Event) event.Result {
	s := b.signals[ev.Type()]
	if s == nil || !s.HasActiveConnections() || b.view == nil {
		return event.Unhandled
	}
	return b.view.FireEvent(ev, s, b.self)
}

// OnMouseEvent offers ev to the children front to back, then to the
// element itself. Invisible elements and points outside the bounds are
// skipped. A transparent zone or a disabled element lets the search
// continue beneath; a nowhere zone stops it without firing.
func (b *BasicElement) OnMouseEvent(ev event.MouseEvent, direct bool) (event.Result, Element, Element) {
	if !b.visible {
		return event.Unhandled, nil, nil
	}
	if !direct {
		if b.children != nil {
			if r, fired, in := b.children.OnMouseEvent(ev); in != nil {
				return r, fired, in
			}
		}
		switch b.self.HitTestAt(ev.X, ev.Y) {
		case HTTransparent:
			return event.Unhandled, nil, nil
		case HTNowhere:
			return event.Unhandled, nil, b.self
		}
		if !b.enabled {
			return event.Unhandled, nil, nil
		}
	} else if !b.enabled {
		return event.Unhandled, nil, b.self
	}

	r := b.fire(ev)
	if r != event.Canceled {
		r = event.Merge(r, b.self.HandleMouseEvent(ev))
	}
	return r, b.self, b.self
}

// OnDragEvent routes drag events like OnMouseEvent, except that only drop
// targets claim them.
func (b *BasicElement) OnDragEvent(ev event.DragEvent, direct bool) (event.Result, Element, Element) {
	if !b.visible {
		return event.Unhandled, nil, nil
	}
	if !direct {
		if b.children != nil {
			if r, fired, in := b.children.OnDragEvent(ev); in != nil {
				return r, fired, in
			}
		}
		if !b.IsPointIn(ev.X, ev.Y) || !b.dropTarget || !b.enabled {
			return event.Unhandled, nil, nil
		}
	}
	r := b.fire(ev)
	if r != event.Canceled {
		r = event.Merge(r, b.self.HandleDragEvent(ev))
	}
	return r, b.self, b.self
}

// OnKeyEvent delivers a key event to the element, which normally holds
// focus.
func (b *BasicElement) OnKeyEvent(ev event.KeyboardEvent) event.Result {
	if !b.enabled {
		return event.Unhandled
	}
	r := b.fire(ev)
	if r != event.Canceled {
		r = event.Merge(r, b.self.HandleKeyEvent(ev))
	}
	return r
}

// OnOtherEvent delivers focus, size and other payload-free events.
func (b *BasicElement) OnOtherEvent(ev event.Event) event.Result {
	r := b.fire(ev)
	if r != event.Canceled {
		r = event.Merge(r, b.self.HandleOtherEvent(ev))
	}
	return r
}

// The default handlers ignore everything.

func (b *BasicElement) HandleMouseEvent(event.MouseEvent) event.Result  { return event.Unhandled }
func (b *BasicElement) HandleDragEvent(event.DragEvent) event.Result    { return event.Unhandled }
func (b *BasicElement) HandleKeyEvent(event.KeyboardEvent) event.Result { return event.Unhandled }
func (b *BasicElement) HandleOtherEvent(event.Event) event.Result       { return event.Unhandled }
