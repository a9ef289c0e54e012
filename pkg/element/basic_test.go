package element

import (
	"math"
	"testing"

	"github.com/go-drift/gadget/pkg/canvas"
	"github.com/go-drift/gadget/pkg/event"
	"github.com/go-drift/gadget/pkg/scriptable"
	"github.com/go-drift/gadget/pkg/variant"
	"github.com/google/go-cmp/cmp"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func down(x, y float64) event.MouseEvent {
	return event.MouseEvent{Kind: event.MouseDown, X: x, Y: y, Button: event.ButtonLeft}
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		in  string
		v   float64
		rel bool
		ok  bool
	}{
		{"50", 50, false, true},
		{"50%", 0.5, true, true},
		{" 12.5 ", 12.5, false, true},
		{"100 %", 1, true, true},
		{"abc", 0, false, false},
		{"%", 0, false, false},
	}
	for _, tt := range tests {
		v, rel, ok := ParseLength(tt.in)
		if v != tt.v || rel != tt.rel || ok != tt.ok {
			t.Errorf("ParseLength(%q) = %v, %v, %v, want %v, %v, %v", tt.in, v, rel, ok, tt.v, tt.rel, tt.ok)
		}
	}
}

func TestRelativeGeometry(t *testing.T) {
	v := newStubView(200, 100)
	p := v.root.AppendElement("muffin", "p").Base()
	if p.Width() != 10 || p.Height() != 10 {
		t.Errorf("default size = %vx%v, want 10x10", p.Width(), p.Height())
	}
	p.SetRelativeWidth(0.5)
	p.SetRelativeHeight(0.5)
	if p.Width() != 100 || p.Height() != 50 {
		t.Errorf("relative size = %vx%v, want 100x50", p.Width(), p.Height())
	}
	c := p.Children().AppendElement("pie", "c").Base()
	c.SetRelativeX(0.25)
	c.SetRelativePinY(1)
	c.SetHeight(8)
	if c.X() != 25 {
		t.Errorf("X() = %v, want 25", c.X())
	}
	if c.PinY() != 8 {
		t.Errorf("PinY() = %v, want 8", c.PinY())
	}
	c.SetWidth(-3)
	if c.Width() != 0 {
		t.Errorf("Width() = %v after negative set, want 0", c.Width())
	}
}

func TestLengthProperties(t *testing.T) {
	v := newStubView(200, 100)
	e := v.root.AppendElement("pie", "e")
	if !scriptable.Set(e, "x", variant.String("25%")) {
		t.Fatal("setting x to a percentage failed")
	}
	if got := e.Base().X(); got != 50 {
		t.Errorf("X() = %v, want 50", got)
	}
	got, _ := scriptable.Get(e, "x")
	if s, _ := got.ToString(); s != "25%" {
		t.Errorf("x = %v, want 25%%", got)
	}
	scriptable.Set(e, "width", variant.Double(40))
	got, _ = scriptable.Get(e, "offsetWidth")
	if w, _ := got.ToDouble(); w != 40 {
		t.Errorf("offsetWidth = %v, want 40", got)
	}
	if scriptable.Set(e, "y", variant.String("bogus")) {
		t.Error("setting y to garbage should fail")
	}
	if !scriptable.Set(e, "hitTest", variant.String("htcaption")) || e.Base().HitTestValue() != HTCaption {
		t.Error("hitTest property not applied")
	}
	scriptable.Set(e, "opacity", variant.Double(3))
	if e.Base().Opacity() != 1 {
		t.Errorf("Opacity() = %v, want clamp to 1", e.Base().Opacity())
	}
}

func TestHitTestZOrder(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(top *BasicElement)
		wantIn string
		fired  bool
	}{
		{"top wins", func(*BasicElement) {}, "top", true},
		{"transparent", func(b *BasicElement) { b.SetHitTest(HTTransparent) }, "bottom", true},
		{"nowhere", func(b *BasicElement) { b.SetHitTest(HTNowhere) }, "top", false},
		{"disabled", func(b *BasicElement) { b.SetEnabled(false) }, "bottom", true},
		{"invisible", func(b *BasicElement) { b.SetVisible(false) }, "bottom", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newStubView(100, 100)
			bottom := v.root.AppendElement("muffin", "bottom")
			top := v.root.AppendElement("muffin", "top")
			tt.setup(top.Base())

			r, fired, in := v.root.OnMouseEvent(down(5, 5))
			if in == nil || in.Base().Name() != tt.wantIn {
				t.Fatalf("in = %v, want %s", in, tt.wantIn)
			}
			if (fired != nil) != tt.fired {
				t.Errorf("fired = %v, want fired=%v", fired, tt.fired)
			}
			if tt.fired && r != event.Handled {
				t.Errorf("result = %v, want Handled", r)
			}
			if n := len(bottom.(*box).handled); tt.wantIn == "bottom" && n != 1 {
				t.Errorf("bottom handled %d events, want 1", n)
			}
		})
	}
}

func TestHitTestMiss(t *testing.T) {
	v := newStubView(100, 100)
	e := v.root.AppendElement("muffin", "e")
	e.Base().SetX(20)
	if _, _, in := v.root.OnMouseEvent(down(5, 5)); in != nil {
		t.Errorf("in = %v, want nil", in)
	}
	_, _, in := v.root.OnMouseEvent(down(25, 5))
	if in != e {
		t.Errorf("in = %v, want e", in)
	}
}

func TestHitTestChildCoordinates(t *testing.T) {
	v := newStubView(100, 100)
	p := v.root.AppendElement("muffin", "p")
	p.Base().SetWidth(50)
	p.Base().SetHeight(50)
	p.Base().SetX(10)
	p.Base().SetY(10)
	c := p.Base().Children().AppendElement("muffin", "c").(*box)
	c.SetX(20)
	c.SetY(20)

	_, _, in := v.root.OnMouseEvent(down(35, 35))
	if in != Element(c) {
		t.Fatalf("in = %v, want child", in)
	}
	vx, vy := c.SelfToView(5, 5)
	if vx != 35 || vy != 35 {
		t.Errorf("SelfToView(5, 5) = %v, %v, want 35, 35", vx, vy)
	}
	x, y := c.ViewToSelf(35, 35)
	if x != 5 || y != 5 {
		t.Errorf("ViewToSelf(35, 35) = %v, %v, want 5, 5", x, y)
	}
}

func TestRotatedCoordinates(t *testing.T) {
	v := newStubView(100, 100)
	e := v.root.AppendElement("muffin", "e").Base()
	e.SetX(50)
	e.SetY(50)
	e.SetPinX(5)
	e.SetPinY(5)
	e.SetRotation(90)

	tests := []struct{ px, py, x, y float64 }{
		{50, 50, 5, 5},
		{50, 53, 8, 5},
		{53, 50, 5, 2},
	}
	for _, tt := range tests {
		x, y := e.ParentToSelf(tt.px, tt.py)
		if !near(x, tt.x) || !near(y, tt.y) {
			t.Errorf("ParentToSelf(%v, %v) = %v, %v, want %v, %v", tt.px, tt.py, x, y, tt.x, tt.y)
		}
		bx, by := e.SelfToParent(x, y)
		if !near(bx, tt.px) || !near(by, tt.py) {
			t.Errorf("SelfToParent round trip = %v, %v, want %v, %v", bx, by, tt.px, tt.py)
		}
	}
}

func TestScriptHandlerCancels(t *testing.T) {
	v := newStubView(100, 100)
	e := v.root.AppendElement("muffin", "e").(*box)
	clicks := 0
	e.ConnectEvent(event.MouseDown, func() { clicks++ })

	r, _, _ := v.root.OnMouseEvent(down(1, 1))
	if clicks != 1 || r != event.Handled || len(e.handled) != 1 {
		t.Fatalf("clicks=%d r=%v handled=%d, want 1 Handled 1", clicks, r, len(e.handled))
	}

	v.canceled = true
	r, _, _ = v.root.OnMouseEvent(down(1, 1))
	if r != event.Canceled {
		t.Errorf("result = %v, want Canceled", r)
	}
	if len(e.handled) != 1 {
		t.Errorf("native handler ran after cancel")
	}
	if diff := cmp.Diff([]event.Type{event.MouseDown, event.MouseDown}, v.fired); diff != "" {
		t.Errorf("fired events mismatch (-want +got):\n%s", diff)
	}
}

func TestNoConnectionsSkipsView(t *testing.T) {
	v := newStubView(100, 100)
	v.root.AppendElement("muffin", "e")
	v.root.OnMouseEvent(down(1, 1))
	if len(v.fired) != 0 {
		t.Errorf("view saw %v without script handlers", v.fired)
	}
}

func TestDragRequiresDropTarget(t *testing.T) {
	v := newStubView(100, 100)
	e := v.root.AppendElement("muffin", "e")
	drag := event.DragEvent{Kind: event.DragOver, X: 2, Y: 2, Files: []string{"a.txt"}}
	if _, _, in := v.root.OnDragEvent(drag); in != nil {
		t.Errorf("non drop target claimed drag: %v", in)
	}
	e.Base().SetDropTarget(true)
	if _, _, in := v.root.OnDragEvent(drag); in != e {
		t.Errorf("in = %v, want e", in)
	}
}

func TestLayoutFiresSizeOnChange(t *testing.T) {
	v := newStubView(100, 100)
	e := v.root.AppendElement("muffin", "e").Base()
	sizes := 0
	e.ConnectEvent(event.Size, func() { sizes++ })

	v.root.Layout()
	v.root.Layout()
	if sizes != 1 {
		t.Errorf("onsize fired %d times, want 1", sizes)
	}
	e.SetWidth(30)
	v.root.Layout()
	if sizes != 2 {
		t.Errorf("onsize fired %d times after resize, want 2", sizes)
	}
}

func TestDraw(t *testing.T) {
	v := newStubView(100, 100)
	e := v.root.AppendElement("muffin", "e").Base()
	e.SetX(3)
	e.SetY(4)
	r := canvas.NewRecorder(100, 100)

	v.root.Draw(r)
	want := []string{"PushState", "Translate", "Translate", "Clip", "PopState"}
	if diff := cmp.Diff(want, r.Names()); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{3, 4}, r.Ops[1].Args); diff != "" {
		t.Errorf("translate mismatch (-want +got):\n%s", diff)
	}

	r.Reset()
	e.SetOpacity(0.5)
	e.SetRotation(90)
	v.root.Draw(r)
	want = []string{"PushState", "Translate", "Rotate", "Translate", "MultiplyOpacity", "Clip", "PopState"}
	if diff := cmp.Diff(want, r.Names()); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}

	r.Reset()
	e.SetVisible(false)
	v.root.Draw(r)
	if len(r.Ops) != 0 {
		t.Errorf("invisible element drew %v", r.Names())
	}
}

func TestDisableDropsFocus(t *testing.T) {
	v := newStubView(100, 100)
	e := v.root.AppendElement("muffin", "e").Base()
	e.SetFocusable(true)
	if !e.Focus() || v.focused != e.Self() {
		t.Fatal("Focus() did not reach the view")
	}
	e.SetEnabled(false)
	if v.focused != nil {
		t.Error("disabling should drop focus")
	}
	if e.ReallyEnabled() {
		t.Error("ReallyEnabled() = true for disabled element")
	}
}

func TestReallyVisible(t *testing.T) {
	v := newStubView(100, 100)
	p := v.root.AppendElement("muffin", "p")
	c := p.Base().Children().AppendElement("pie", "c").Base()
	if !c.ReallyVisible() {
		t.Error("ReallyVisible() = false")
	}
	p.Base().SetVisible(false)
	if c.ReallyVisible() {
		t.Error("ReallyVisible() = true under a hidden parent")
	}
}

func TestScriptChildrenMethods(t *testing.T) {
	v := newStubView(100, 100)
	p := v.root.AppendElement("muffin", "p")
	got, ok := scriptable.Invoke(p, "appendElement", variant.String("pie"), variant.String("kid"))
	if !ok || scriptable.Object(got) == nil {
		t.Fatalf("appendElement returned %v, %v", got, ok)
	}
	if p.Base().Children().ItemByName("kid") == nil {
		t.Fatal("child not appended")
	}
	count, _ := scriptable.Get(p.Base().Children(), "count")
	if n, _ := count.ToInt(); n != 1 {
		t.Errorf("count = %v, want 1", count)
	}
	res, _ := scriptable.Invoke(p, "removeElement", got)
	if ok, _ := res.ToBool(); !ok {
		t.Error("removeElement returned false")
	}
	if p.Base().Children().Count() != 0 {
		t.Error("child not removed")
	}
}
