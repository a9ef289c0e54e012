package view

import (
	"time"

	"github.com/go-drift/gadget/pkg/element"
	"github.com/go-drift/gadget/pkg/signal"
	"github.com/go-drift/gadget/pkg/variant"
)

func scriptVariant(e element.Element) variant.Variant {
	if e == nil {
		return variant.Scriptable(nil)
	}
	return variant.Scriptable(e)
}

// slotFunc adapts a script slot to a Go callback. Non-slot values yield nil.
func slotFunc(v variant.Variant) func() {
	s := signal.SlotOf(v)
	if s == nil {
		return nil
	}
	return func() { s.Call() }
}

func millis(ms int64) time.Duration { return time.Duration(max(ms, 0)) * time.Millisecond }

func (v *View) registerProperties() {
	v.RegisterProperty("width",
		func() variant.Variant { return variant.Double(v.width) },
		func(val variant.Variant) bool {
			f, ok := val.ToDouble()
			return ok && v.SetWidth(f)
		})
	v.RegisterProperty("height",
		func() variant.Variant { return variant.Double(v.height) },
		func(val variant.Variant) bool {
			f, ok := val.ToDouble()
			return ok && v.SetHeight(f)
		})
	v.RegisterProperty("caption",
		func() variant.Variant { return variant.String(v.caption) },
		func(val variant.Variant) bool {
			s, ok := val.ToString()
			if ok {
				v.SetCaption(s)
			}
			return ok
		})
	v.RegisterProperty("resizable",
		func() variant.Variant { return variant.String(v.resizable.String()) },
		func(val variant.Variant) bool {
			if b, ok := val.Value().(bool); ok {
				if b {
					v.SetResizable(ResizableTrue)
				} else {
					v.SetResizable(ResizableFalse)
				}
				return true
			}
			s, _ := val.ToString()
			m, ok := ParseResizable(s)
			if ok {
				v.SetResizable(m)
			}
			return ok
		})
	v.RegisterReadonly("children", func() variant.Variant { return variant.Scriptable(v.children) })
	v.RegisterReadonly("event", func() variant.Variant {
		if v.current == nil {
			return variant.Scriptable(nil)
		}
		return variant.Scriptable(v.current)
	})

	v.RegisterMethod("appendElement", func(tag, name string) variant.Variant {
		return scriptVariant(v.children.AppendElement(tag, name))
	})
	v.RegisterMethod("removeElement", func(val variant.Variant) bool {
		e, _ := val.Value().(element.Element)
		return v.children.RemoveElement(e)
	})
	v.RegisterMethod("getElementByName", func(name string) variant.Variant {
		return scriptVariant(v.ElementByName(name))
	})

	v.RegisterMethod("setTimeout", func(cb variant.Variant, ms int64) int64 {
		return int64(v.SetTimeout(millis(ms), slotFunc(cb)))
	})
	v.RegisterMethod("clearTimeout", func(id int64) { v.ClearTimeout(int(id)) })
	v.RegisterMethod("setInterval", func(cb variant.Variant, ms int64) int64 {
		return int64(v.SetInterval(millis(ms), slotFunc(cb)))
	})
	v.RegisterMethod("clearInterval", func(id int64) { v.ClearInterval(int(id)) })
	v.RegisterMethod("beginAnimation", func(cb variant.Variant, start, end, ms int64) int64 {
		s := signal.SlotOf(cb)
		if s == nil {
			return 0
		}
		return int64(v.BeginAnimation(func(value int) {
			s.Call(variant.Int(int64(value)))
		}, int(start), int(end), millis(ms)))
	})
	v.RegisterMethod("cancelAnimation", func(id int64) { v.CancelAnimation(int(id)) })

	v.RegisterMethod("alert", func(msg string) { v.host.Alert(msg) })
	v.RegisterMethod("confirm", func(msg string) bool { return v.host.Confirm(msg) })
	v.RegisterMethod("prompt", func(msg, def string) variant.Variant {
		s, ok := v.host.Prompt(msg, def)
		if !ok {
			return variant.Scriptable(nil)
		}
		return variant.String(s)
	})
}
