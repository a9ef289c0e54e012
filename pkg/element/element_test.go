package element

import (
	"testing"
	"time"

	"github.com/go-drift/gadget/pkg/canvas"
	"github.com/go-drift/gadget/pkg/errors"
	"github.com/go-drift/gadget/pkg/event"
	"github.com/go-drift/gadget/pkg/signal"
)

// stubView is a minimal ViewContext for exercising elements without a
// real view.
type stubView struct {
	w, h     float64
	factory  *Factory
	root     *Elements
	focused  Element
	removed  []Element
	added    int
	draws    int
	fired    []event.Type
	canceled bool
}

func newStubView(w, h float64) *stubView {
	v := &stubView{w: w, h: h, factory: testFactory()}
	v.root = NewElements(v.factory, nil, v)
	return v
}

func (v *stubView) Graphics() *canvas.Graphics { return canvas.NewGraphics(1, nil) }
func (v *stubView) Width() float64             { return v.w }
func (v *stubView) Height() float64            { return v.h }
func (v *stubView) Children() *Elements        { return v.root }
func (v *stubView) Factory() *Factory          { return v.factory }
func (v *stubView) OnElementAdd(Element)       { v.added++ }
func (v *stubView) OnElementRemove(e Element)  { v.removed = append(v.removed, e) }
func (v *stubView) QueueDraw()                 { v.draws++ }
func (v *stubView) FocusedElement() Element    { return v.focused }

func (v *stubView) SetFocus(e Element) bool {
	v.focused = e
	return true
}

func (v *stubView) FireEvent(ev event.Event, sig *signal.Signal, src Element) event.Result {
	v.fired = append(v.fired, ev.Type())
	sig.Emit()
	if v.canceled {
		return event.Canceled
	}
	return event.Handled
}

func (v *stubView) SetTimeout(time.Duration, func()) int  { return 0 }
func (v *stubView) SetInterval(time.Duration, func()) int { return 0 }
func (v *stubView) ClearTimeout(int)                      {}
func (v *stubView) ClearInterval(int)                     {}

// box is a test element kind with children and a fixed default size.
type box struct {
	BasicElement
	handled []event.Type
}

func newBox(parent Element, view ViewContext, name string) Element {
	b := &box{}
	b.Init(b, "muffin", parent, view, name, true)
	return b
}

func (b *box) DefaultSize() (float64, float64) { return 10, 10 }

func (b *box) HandleMouseEvent(ev event.MouseEvent) event.Result {
	b.handled = append(b.handled, ev.Type())
	return event.Handled
}

func newLeaf(parent Element, view ViewContext, name string) Element {
	l := &BasicElement{}
	l.Init(l, "pie", parent, view, name, false)
	return l
}

func testFactory() *Factory {
	f := NewFactory()
	f.Register("muffin", newBox)
	f.Register("pie", newLeaf)
	return f
}

func quiet(t *testing.T) {
	t.Helper()
	errors.SetHandler(quietHandler{})
	t.Cleanup(func() { errors.SetHandler(nil) })
}

type quietHandler struct{}

func (quietHandler) HandleError(*errors.GadgetError) {}
func (quietHandler) HandlePanic(*errors.PanicError)  {}

func TestAppendAndLookupByName(t *testing.T) {
	v := newStubView(100, 100)
	es := v.root
	a := es.AppendElement("muffin", "a")
	b := es.AppendElement("muffin", "b")
	if es.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", es.Count())
	}
	if es.ItemByName("a") != a {
		t.Error("ItemByName(a) did not return the first element")
	}
	if es.ItemByIndex(1) != b {
		t.Error("ItemByIndex(1) != b")
	}
	if a.Base().Parent() != nil {
		t.Error("top-level element should have no parent")
	}
	child := a.Base().Children().AppendElement("pie", "c")
	if child.Base().Parent() != a {
		t.Error("child parent should be the owning element")
	}
}

func TestCreateUnknownTag(t *testing.T) {
	quiet(t)
	v := newStubView(100, 100)
	if e := v.root.AppendElement("bread", ""); e != nil {
		t.Error("unknown tag should yield nil")
	}
	if e := v.root.InsertElement("bread", nil, ""); e != nil {
		t.Error("unknown tag should yield nil on insert")
	}
	if v.root.Count() != 0 {
		t.Errorf("Count() = %d, want 0", v.root.Count())
	}
}

func TestInsertOrder(t *testing.T) {
	v := newStubView(100, 100)
	es := v.root
	e1 := es.InsertElement("muffin", nil, "")
	e2 := es.InsertElement("pie", e1, "")
	e3 := es.InsertElement("pie", e2, "")
	want := []Element{e3, e2, e1}
	for i, w := range want {
		if es.ItemByIndex(i) != w {
			t.Errorf("ItemByIndex(%d) mismatch", i)
		}
	}
	if es.ItemByIndex(3) != nil || es.ItemByIndex(-1) != nil {
		t.Error("out-of-range index should be nil")
	}
}

func TestMoveExisting(t *testing.T) {
	v := newStubView(100, 100)
	es := v.root
	e1 := es.AppendElement("muffin", "")
	e2 := es.AppendElement("pie", "")
	e3 := es.AppendElement("pie", "")

	if !es.InsertExisting(e1, nil) {
		t.Fatal("InsertExisting(e1, nil) failed")
	}
	assertOrder(t, es, e2, e3, e1)
	if !es.InsertExisting(e1, e3) {
		t.Fatal("InsertExisting(e1, e3) failed")
	}
	assertOrder(t, es, e2, e1, e3)
}

func TestReparent(t *testing.T) {
	v := newStubView(100, 100)
	es := v.root
	e1 := es.AppendElement("muffin", "")
	e2 := es.AppendElement("pie", "")
	e3 := es.AppendElement("muffin", "")
	other := e3.Base().Children()

	if !other.AppendExisting(e1) {
		t.Fatal("AppendExisting failed")
	}
	assertOrder(t, es, e2, e3)
	assertOrder(t, other, e1)
	if e1.Base().Parent() != e3 {
		t.Error("parent not updated after reparent")
	}
	if !other.InsertExisting(e2, e1) {
		t.Fatal("InsertExisting across collections failed")
	}
	assertOrder(t, es, e3)
	assertOrder(t, other, e2, e1)

	if e3.Base().Children().AppendExisting(e3) {
		t.Error("moving an element into itself should fail")
	}
	if e1.Base().Children().AppendExisting(e3) {
		t.Error("moving an element into its own subtree should fail")
	}
}

func TestRemove(t *testing.T) {
	v := newStubView(100, 100)
	es := v.root
	e1 := es.AppendElement("muffin", "")
	e2 := es.AppendElement("pie", "")
	e3 := es.AppendElement("pie", "")
	deleted := 0
	e2.ConnectOnDelete(signal.NewSlot(func() { deleted++ }))

	if !es.RemoveElement(e2) {
		t.Fatal("RemoveElement(e2) = false")
	}
	assertOrder(t, es, e1, e3)
	if deleted != 1 {
		t.Errorf("ondelete fired %d times, want 1", deleted)
	}
	if es.RemoveElement(e2) {
		t.Error("removing a non-child should fail")
	}
	if es.Count() != 2 {
		t.Errorf("Count() = %d after failed remove, want 2", es.Count())
	}
	if es.RemoveElement(nil) {
		t.Error("RemoveElement(nil) should fail")
	}
}

func TestRemoveCascades(t *testing.T) {
	v := newStubView(100, 100)
	parent := v.root.AppendElement("muffin", "p")
	child := parent.Base().Children().AppendElement("muffin", "c")
	grandchild := child.Base().Children().AppendElement("pie", "g")

	v.root.RemoveElement(parent)
	if len(v.removed) != 3 {
		t.Fatalf("OnElementRemove called %d times, want 3", len(v.removed))
	}
	for _, e := range []Element{parent, child, grandchild} {
		if !e.Base().Destroyed() {
			t.Errorf("%v not destroyed", e.Base())
		}
	}
}

func TestRemoveAllReentrant(t *testing.T) {
	v := newStubView(100, 100)
	es := v.root
	e1 := es.AppendElement("pie", "")
	es.AppendElement("pie", "")
	es.AppendElement("pie", "")
	e1.ConnectOnDelete(signal.NewSlot(func() {
		if es.Count() != 0 {
			t.Errorf("collection not empty during destruction: %d", es.Count())
		}
		es.RemoveAllElements()
	}))
	es.RemoveAllElements()
	if es.Count() != 0 {
		t.Errorf("Count() = %d, want 0", es.Count())
	}
}

func TestItemByNameFirstMatch(t *testing.T) {
	v := newStubView(100, 100)
	es := v.root
	es.AppendElement("muffin", "muffin1")
	e3 := es.AppendElement("pie", "pie3")
	e4 := es.AppendElement("pie", "pie3")
	if e3 == e4 {
		t.Fatal("distinct elements expected")
	}
	if es.ItemByName("pie3") != e3 {
		t.Error("ItemByName should return the first match")
	}
	if es.ItemByName("hungry") != nil || es.ItemByName("") != nil {
		t.Error("missing and empty names should not match")
	}
}

func TestFactoryTags(t *testing.T) {
	f := testFactory()
	if f.Register("pie", newLeaf) {
		t.Error("duplicate registration should fail")
	}
	if got := f.Tags(); len(got) != 2 || got[0] != "muffin" || got[1] != "pie" {
		t.Errorf("Tags() = %v", got)
	}
}

func assertOrder(t *testing.T, es *Elements, want ...Element) {
	t.Helper()
	if es.Count() != len(want) {
		t.Fatalf("Count() = %d, want %d", es.Count(), len(want))
	}
	for i, w := range want {
		if es.ItemByIndex(i) != w {
			t.Errorf("ItemByIndex(%d) = %v, want %v", i, es.ItemByIndex(i).Base(), w.Base())
		}
	}
}
