package view

import (
	"github.com/go-drift/gadget/pkg/element"
	"github.com/go-drift/gadget/pkg/event"
)

// FocusedElement returns the element holding keyboard focus, or nil.
func (v *View) FocusedElement() element.Element { return v.focused }

// SetFocus moves keyboard focus to e, firing focusout on the previous
// holder and focusin on e. A nil e clears focus. Elements that are not
// visible and enabled up to the root cannot take focus.
func (v *View) SetFocus(e element.Element) bool {
	if e == v.focused {
		return true
	}
	if e != nil {
		b := e.Base()
		if b.Destroyed() || !b.ReallyEnabled() || !b.ReallyVisible() {
			return false
		}
	}
	old := v.focused
	v.focused = e
	if old != nil {
		old.OnOtherEvent(event.SimpleEvent{Kind: event.FocusOut})
	}
	// A focusout handler may have moved focus elsewhere.
	if v.focused != e {
		return false
	}
	if e != nil {
		e.OnOtherEvent(event.SimpleEvent{Kind: event.FocusIn})
	}
	v.QueueDraw()
	return true
}

// focusables lists focusable, enabled, visible elements in tree order.
func (v *View) focusables() []element.Element {
	var out []element.Element
	var walk func(es *element.Elements)
	walk = func(es *element.Elements) {
		es.Each(func(e element.Element) bool {
			b := e.Base()
			if !b.Visible() {
				return true
			}
			if b.Focusable() && b.ReallyEnabled() {
				out = append(out, e)
			}
			if c := b.Children(); c != nil {
				walk(c)
			}
			return true
		})
	}
	walk(v.children)
	return out
}

// MoveFocus moves focus delta positions through the focusable elements,
// wrapping at either end. It reports whether focus moved.
func (v *View) MoveFocus(delta int) bool {
	nodes := v.focusables()
	count := len(nodes)
	if count == 0 || delta == 0 {
		return false
	}
	current := -1
	for i, e := range nodes {
		if e == v.focused {
			current = i
			break
		}
	}
	if current < 0 && delta < 0 {
		current = 0
	}
	for step := 1; step <= count; step++ {
		next := wrapIndex(current+delta*step, count)
		if nodes[next] == v.focused {
			return false
		}
		if v.SetFocus(nodes[next]) {
			return true
		}
	}
	return false
}

// focusTarget returns the nearest focusable, enabled ancestor of e,
// including e itself.
func focusTarget(e element.Element) element.Element {
	for ; e != nil; e = e.Base().Parent() {
		b := e.Base()
		if b.Focusable() && b.ReallyEnabled() {
			return e
		}
	}
	return nil
}

// wrapIndex wraps an index to stay within [0, count).
func wrapIndex(index, count int) int {
	index = index % count
	if index < 0 {
		index += count
	}
	return index
}
