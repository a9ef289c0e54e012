package element

import (
	"slices"

	"github.com/go-drift/gadget/pkg/canvas"
	"github.com/go-drift/gadget/pkg/event"
	"github.com/go-drift/gadget/pkg/scriptable"
	"github.com/go-drift/gadget/pkg/variant"
)

// ClassElements is the scriptable class id of element collections.
const ClassElements uint64 = 0xe3bdb064cb794282

// Elements is the ordered collection of children owned by one element or
// by a view. Every member's parent is the collection's owner.
type Elements struct {
	scriptable.Helper

	factory *Factory
	owner   Element
	view    ViewContext
	items   []Element
}

// NewElements returns an empty collection. owner is nil for a view's
// top-level collection.
func NewElements(factory *Factory, owner Element, view ViewContext) *Elements {
	es := &Elements{factory: factory, owner: owner, view: view}
	es.SetClass(ClassElements)
	es.RegisterReadonly("count", func() variant.Variant { return variant.Int(int64(es.Count())) })
	es.RegisterMethod("item", func(v variant.Variant) variant.Variant {
		if v.Type() == variant.TypeString {
			s, _ := v.ToString()
			return elementVariant(es.ItemByName(s))
		}
		i, ok := v.ToInt()
		if !ok {
			return variant.Scriptable(nil)
		}
		return elementVariant(es.ItemByIndex(int(i)))
	})
	es.SetIndexedHandler(func(i int) (variant.Variant, bool) {
		e := es.ItemByIndex(i)
		if e == nil {
			return variant.Void(), false
		}
		return variant.Scriptable(e), true
	}, nil)
	return es
}

// Owner returns the owning element, or nil for a view's collection.
func (es *Elements) Owner() Element { return es.owner }

// Count returns the number of children.
func (es *Elements) Count() int { return len(es.items) }

// ItemByIndex returns the child at i, or nil when out of range.
func (es *Elements) ItemByIndex(i int) Element {
	if i < 0 || i >= len(es.items) {
		return nil
	}
	return es.items[i]
}

// ItemByName returns the first child with the given name. The empty name
// never matches.
func (es *Elements) ItemByName(name string) Element {
	if i := es.IndexByName(name); i >= 0 {
		return es.items[i]
	}
	return nil
}

// IndexByName returns the index of the first child with the given name,
// or -1.
func (es *Elements) IndexByName(name string) int {
	if name == "" {
		return -1
	}
	return slices.IndexFunc(es.items, func(e Element) bool { return e.Base().name == name })
}

// IndexOf returns the index of e, or -1.
func (es *Elements) IndexOf(e Element) int {
	if e == nil {
		return -1
	}
	return slices.Index(es.items, e)
}

// Items returns a copy of the children in z-order.
func (es *Elements) Items() []Element { return slices.Clone(es.items) }

// Each calls fn for each child, bottom first, until fn returns false. It
// iterates over a snapshot so fn may mutate the collection.
func (es *Elements) Each(fn func(Element) bool) {
	for _, e := range slices.Clone(es.items) {
		if !fn(e) {
			return
		}
	}
}

func (es *Elements) create(tag, name string) Element {
	return es.factory.Create(tag, es.owner, es.view, name)
}

// AppendElement creates an element and places it on top. It returns nil
// and leaves the collection untouched for unknown tags.
func (es *Elements) AppendElement(tag, name string) Element {
	e := es.create(tag, name)
	if e == nil {
		return nil
	}
	es.items = append(es.items, e)
	e.Base().holder = es
	es.added(e)
	return e
}

// InsertElement creates an element and places it just below before. A nil
// or foreign before appends.
func (es *Elements) InsertElement(tag string, before Element, name string) Element {
	e := es.create(tag, name)
	if e == nil {
		return nil
	}
	es.insert(e, before)
	es.added(e)
	return e
}

func (es *Elements) insert(e, before Element) {
	e.Base().holder = es
	i := es.IndexOf(before)
	if i < 0 {
		es.items = append(es.items, e)
		return
	}
	es.items = slices.Insert(es.items, i, e)
}

func (es *Elements) added(e Element) {
	if es.view != nil {
		es.view.OnElementAdd(e)
		es.view.QueueDraw()
	}
}

// AppendExisting moves e, which may belong to another collection of the
// same view, to the top of this one.
func (es *Elements) AppendExisting(e Element) bool {
	return es.InsertExisting(e, nil)
}

// InsertExisting moves e just below before. Moving an element into its own
// subtree fails.
func (es *Elements) InsertExisting(e, before Element) bool {
	if e == nil || e == before {
		return false
	}
	b := e.Base()
	if b.view != es.view {
		return false
	}
	for p := es.owner; p != nil; p = p.Base().parent {
		if p == e {
			return false
		}
	}
	if b.holder != nil {
		b.holder.detach(e)
	}
	b.parent = es.owner
	es.insert(e, before)
	if es.view != nil {
		es.view.QueueDraw()
	}
	return true
}

func (es *Elements) detach(e Element) bool {
	i := es.IndexOf(e)
	if i < 0 {
		return false
	}
	es.items = slices.Delete(es.items, i, i+1)
	e.Base().holder = nil
	return true
}

// RemoveElement destroys e and its subtree. It reports false if e is not a
// direct child.
func (es *Elements) RemoveElement(e Element) bool {
	if !es.detach(e) {
		return false
	}
	es.destroy(e)
	if es.view != nil {
		es.view.QueueDraw()
	}
	return true
}

// RemoveAllElements destroys every child. Handlers run during destruction
// see an already emptied collection.
func (es *Elements) RemoveAllElements() {
	if len(es.items) == 0 {
		return
	}
	items := es.items
	es.items = nil
	for _, e := range items {
		e.Base().holder = nil
		es.destroy(e)
	}
	if es.view != nil {
		es.view.QueueDraw()
	}
}

func (es *Elements) destroy(e Element) {
	if es.view != nil {
		es.view.OnElementRemove(e)
	}
	e.Destroy()
}

// Layout lays out every child.
func (es *Elements) Layout() {
	for _, e := range slices.Clone(es.items) {
		e.Layout()
	}
}

// Draw paints the children back to front.
func (es *Elements) Draw(c canvas.Canvas) {
	for _, e := range es.items {
		e.Draw(c)
	}
}

// OnMouseEvent offers ev, in the owner's space, to the children front to
// back. It stops at the first child that claims the point.
func (es *Elements) OnMouseEvent(ev event.MouseEvent) (event.Result, Element, Element) {
	items := slices.Clone(es.items)
	for i := len(items) - 1; i >= 0; i-- {
		e := items[i]
		b := e.Base()
		if !b.visible {
			continue
		}
		x, y := b.ParentToSelf(ev.X, ev.Y)
		if !b.IsPointIn(x, y) {
			continue
		}
		if r, fired, in := e.OnMouseEvent(ev.At(x, y), false); in != nil {
			return r, fired, in
		}
	}
	return event.Unhandled, nil, nil
}

// OnDragEvent offers ev to the children front to back.
func (es *Elements) OnDragEvent(ev event.DragEvent) (event.Result, Element, Element) {
	items := slices.Clone(es.items)
	for i := len(items) - 1; i >= 0; i-- {
		e := items[i]
		b := e.Base()
		if !b.visible {
			continue
		}
		x, y := b.ParentToSelf(ev.X, ev.Y)
		if !b.IsPointIn(x, y) {
			continue
		}
		if r, fired, in := e.OnDragEvent(ev.At(x, y), false); in != nil {
			return r, fired, in
		}
	}
	return event.Unhandled, nil, nil
}
