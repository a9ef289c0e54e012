package element

import (
	"github.com/go-drift/gadget/pkg/variant"
)

func (b *BasicElement) lengthProperty(name string, get func() length, set func(length), base func() float64) {
	b.RegisterProperty(name,
		func() variant.Variant { return get().variant(base()) },
		func(v variant.Variant) bool {
			l, ok := lengthFromVariant(v)
			if ok {
				set(l)
				b.queueDraw()
			}
			return ok
		})
}

func (b *BasicElement) boolProperty(name string, get func() bool, set func(bool)) {
	b.RegisterProperty(name,
		func() variant.Variant { return variant.Bool(get()) },
		func(v variant.Variant) bool {
			x, ok := v.ToBool()
			if ok {
				set(x)
			}
			return ok
		})
}

func (b *BasicElement) doubleProperty(name string, get func() float64, set func(float64)) {
	b.RegisterProperty(name,
		func() variant.Variant { return variant.Double(get()) },
		func(v variant.Variant) bool {
			x, ok := v.ToDouble()
			if ok {
				set(x)
			}
			return ok
		})
}

func (b *BasicElement) registerProperties() {
	b.RegisterReadonly("name", func() variant.Variant { return variant.String(b.name) })
	b.RegisterReadonly("tagName", func() variant.Variant { return variant.String(b.tag) })

	b.lengthProperty("x", func() length { return b.x }, func(l length) { b.x = l }, b.parentWidth)
	b.lengthProperty("y", func() length { return b.y }, func(l length) { b.y = l }, b.parentHeight)
	b.lengthProperty("pinX", func() length { return b.pinX }, func(l length) { b.pinX = l }, b.Width)
	b.lengthProperty("pinY", func() length { return b.pinY }, func(l length) { b.pinY = l }, b.Height)
	b.RegisterProperty("width",
		func() variant.Variant {
			if !b.width.set {
				return variant.Double(b.Width())
			}
			return b.width.variant(b.parentWidth())
		},
		func(v variant.Variant) bool {
			l, ok := lengthFromVariant(v)
			if ok {
				l.v = max(l.v, 0)
				b.width = l
				b.queueDraw()
			}
			return ok
		})
	b.RegisterProperty("height",
		func() variant.Variant {
			if !b.height.set {
				return variant.Double(b.Height())
			}
			return b.height.variant(b.parentHeight())
		},
		func(v variant.Variant) bool {
			l, ok := lengthFromVariant(v)
			if ok {
				l.v = max(l.v, 0)
				b.height = l
				b.queueDraw()
			}
			return ok
		})

	b.RegisterReadonly("offsetX", func() variant.Variant { return variant.Double(b.X()) })
	b.RegisterReadonly("offsetY", func() variant.Variant { return variant.Double(b.Y()) })
	b.RegisterReadonly("offsetWidth", func() variant.Variant { return variant.Double(b.Width()) })
	b.RegisterReadonly("offsetHeight", func() variant.Variant { return variant.Double(b.Height()) })

	b.doubleProperty("rotation", b.Rotation, b.SetRotation)
	b.doubleProperty("opacity", b.Opacity, b.SetOpacity)
	b.boolProperty("visible", b.Visible, b.SetVisible)
	b.boolProperty("enabled", b.Enabled, b.SetEnabled)
	b.boolProperty("dropTarget", b.DropTarget, b.SetDropTarget)
	b.boolProperty("focusable", b.Focusable, b.SetFocusable)

	b.RegisterProperty("tooltip",
		func() variant.Variant { return variant.String(b.tooltip) },
		func(v variant.Variant) bool {
			s, ok := v.ToString()
			if ok {
				b.tooltip = s
			}
			return ok
		})
	b.RegisterProperty("cursor",
		func() variant.Variant { return variant.String(b.cursor.String()) },
		func(v variant.Variant) bool {
			s, _ := v.ToString()
			c, ok := ParseCursor(s)
			if ok {
				b.cursor = c
			}
			return ok
		})
	b.RegisterProperty("hitTest",
		func() variant.Variant { return variant.String(b.hitTest.String()) },
		func(v variant.Variant) bool {
			s, _ := v.ToString()
			h, ok := ParseHitTest(s)
			if ok {
				b.hitTest = h
			}
			return ok
		})

	b.RegisterReadonly("parentElement", func() variant.Variant {
		if b.parent == nil {
			return variant.Scriptable(nil)
		}
		return variant.Scriptable(b.parent)
	})
	if b.children != nil {
		b.RegisterReadonly("children", func() variant.Variant { return variant.Scriptable(b.children) })
		b.RegisterMethod("appendElement", func(tag, name string) variant.Variant {
			return elementVariant(b.children.AppendElement(tag, name))
		})
		b.RegisterMethod("removeElement", func(v variant.Variant) bool {
			e, _ := v.Value().(Element)
			return b.children.RemoveElement(e)
		})
		b.RegisterMethod("removeAllElements", func() { b.children.RemoveAllElements() })
	}
	b.RegisterMethod("focus", func() { b.Focus() })
	b.RegisterMethod("killFocus", func() { b.KillFocus() })
}

func elementVariant(e Element) variant.Variant {
	if e == nil {
		return variant.Scriptable(nil)
	}
	return variant.Scriptable(e)
}
