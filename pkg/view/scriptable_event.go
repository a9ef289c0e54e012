package view

import (
	"github.com/go-drift/gadget/pkg/element"
	"github.com/go-drift/gadget/pkg/event"
	"github.com/go-drift/gadget/pkg/scriptable"
	"github.com/go-drift/gadget/pkg/variant"
)

// ClassScriptableEvent is the scriptable class id of ScriptableEvent.
const ClassScriptableEvent uint64 = 0x6732238aacb4468a

// ScriptableEvent exposes the event being delivered to script handlers.
// Handlers may set returnValue to false to cancel the default handling,
// and may rewrite width and height of sizing events.
type ScriptableEvent struct {
	scriptable.Helper

	ev          event.Event
	src         element.Element
	returnValue bool
	width       float64
	height      float64
}

// NewScriptableEvent wraps ev. src is the element the event was fired on,
// or nil for view events.
func NewScriptableEvent(ev event.Event, src element.Element) *ScriptableEvent {
	se := &ScriptableEvent{ev: ev, src: src, returnValue: true}
	if s, ok := ev.(event.SizingEvent); ok {
		se.width, se.height = s.Width, s.Height
	}
	se.SetClass(ClassScriptableEvent)
	se.RegisterReadonly("type", func() variant.Variant { return variant.String(ev.Type().String()) })
	se.RegisterReadonly("srcElement", func() variant.Variant {
		if src == nil {
			return variant.Scriptable(nil)
		}
		return variant.Scriptable(src)
	})
	se.RegisterProperty("returnValue",
		func() variant.Variant { return variant.Bool(se.returnValue) },
		func(v variant.Variant) bool {
			b, ok := v.ToBool()
			if ok {
				se.returnValue = b
			}
			return ok
		})

	switch e := ev.(type) {
	case event.MouseEvent:
		se.RegisterReadonly("x", func() variant.Variant { return variant.Double(e.X) })
		se.RegisterReadonly("y", func() variant.Variant { return variant.Double(e.Y) })
		se.RegisterReadonly("button", func() variant.Variant { return variant.Int(int64(e.Button)) })
		se.RegisterReadonly("wheelDelta", func() variant.Variant { return variant.Int(int64(e.WheelDeltaY)) })
	case event.KeyboardEvent:
		se.RegisterReadonly("keyCode", func() variant.Variant { return variant.Int(int64(e.KeyCode)) })
	case event.DragEvent:
		se.RegisterReadonly("x", func() variant.Variant { return variant.Double(e.X) })
		se.RegisterReadonly("y", func() variant.Variant { return variant.Double(e.Y) })
		se.RegisterReadonly("dragFiles", func() variant.Variant { return variant.Any(e.Files) })
	case event.SizingEvent:
		se.RegisterProperty("width",
			func() variant.Variant { return variant.Double(se.width) },
			func(v variant.Variant) bool {
				f, ok := v.ToDouble()
				if ok {
					se.width = f
				}
				return ok
			})
		se.RegisterProperty("height",
			func() variant.Variant { return variant.Double(se.height) },
			func(v variant.Variant) bool {
				f, ok := v.ToDouble()
				if ok {
					se.height = f
				}
				return ok
			})
	}
	return se
}

// Event returns the wrapped event.
func (se *ScriptableEvent) Event() event.Event { return se.ev }

// SrcElement returns the element the event fired on.
func (se *ScriptableEvent) SrcElement() element.Element { return se.src }

// ReturnValue reports whether default handling should proceed.
func (se *ScriptableEvent) ReturnValue() bool { return se.returnValue }

func (se *ScriptableEvent) SetReturnValue(v bool) { se.returnValue = v }

// Size returns the possibly rewritten size of a sizing event.
func (se *ScriptableEvent) Size() (w, h float64) { return se.width, se.height }

// SetSize rewrites the size of a sizing event.
func (se *ScriptableEvent) SetSize(w, h float64) { se.width, se.height = w, h }

// Result maps the return value to an event result.
func (se *ScriptableEvent) Result() event.Result {
	if !se.returnValue {
		return event.Canceled
	}
	return event.Handled
}
