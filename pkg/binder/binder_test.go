package binder_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/gadget/pkg/binder"
	"github.com/go-drift/gadget/pkg/canvas"
	"github.com/go-drift/gadget/pkg/element"
	"github.com/go-drift/gadget/pkg/event"
	gadgettest "github.com/go-drift/gadget/pkg/testing"
	"github.com/go-drift/gadget/pkg/view"
	"github.com/go-drift/gadget/pkg/widgets"
)

func newButton(t *testing.T, tester *gadgettest.ViewTester) (clicks, dbl *int) {
	t.Helper()
	b := tester.Append("button", "b").(*widgets.Button)
	b.SetCaption("ok")
	clicks, dbl = new(int), new(int)
	b.ConnectEvent(event.MouseClick, func() { *clicks++ })
	b.ConnectEvent(event.MouseDblClick, func() { *dbl++ })
	return clicks, dbl
}

func TestClickSynthesis(t *testing.T) {
	tester := gadgettest.NewViewTesterWithT(t)
	clicks, dbl := newButton(t, tester)
	b := tester.Binder()

	if !b.MouseButton(binder.ButtonPress, 5, 5, event.ButtonLeft, 0) {
		t.Error("press on button not consumed")
	}
	b.MouseButton(binder.ButtonRelease, 5, 5, event.ButtonLeft, 0)
	if *clicks != 1 {
		t.Fatalf("clicks = %d, want 1", *clicks)
	}

	b.MouseButton(binder.ButtonPress, 5, 5, event.ButtonLeft, 0)
	b.MouseButton(binder.ButtonRelease, 5, 5, event.ButtonLeft, 0)
	b.MouseButton(binder.ButtonDoublePress, 5, 5, event.ButtonLeft, 0)
	b.MouseButton(binder.ButtonRelease, 5, 5, event.ButtonLeft, 0)
	if *clicks != 2 || *dbl != 1 {
		t.Errorf("clicks, dblclicks = %d, %d, want 2, 1", *clicks, *dbl)
	}
}

func TestPressFocusesSurface(t *testing.T) {
	tester := gadgettest.NewViewTesterWithT(t)
	focusIns := 0
	tester.View().ConnectEvent(event.FocusIn, func() { focusIns++ })
	b := tester.Binder()
	tester.Host().Tooltip = "stale"

	b.MouseButton(binder.ButtonPress, 1, 1, event.ButtonLeft, 0)
	b.MouseButton(binder.ButtonRelease, 1, 1, event.ButtonLeft, 0)
	b.MouseButton(binder.ButtonPress, 1, 1, event.ButtonLeft, 0)
	if !b.Focused() || focusIns != 1 {
		t.Errorf("focused = %v, focusin = %d, want true, 1", b.Focused(), focusIns)
	}
	if tester.Host().Tooltip != "" {
		t.Errorf("tooltip = %q, want cleared", tester.Host().Tooltip)
	}
}

func TestZoomFolding(t *testing.T) {
	tester := gadgettest.NewViewTesterWithT(t, view.WithGraphics(canvas.NewGraphics(2, nil)))
	clicks, _ := newButton(t, tester)
	b := tester.Binder()

	if b.Zoom() != 2 {
		t.Fatalf("Zoom = %v, want 2", b.Zoom())
	}
	// (50, 30) device is (25, 15) in the view: inside the 30x21 button.
	b.MouseButton(binder.ButtonPress, 50, 30, event.ButtonLeft, 0)
	b.MouseButton(binder.ButtonRelease, 50, 30, event.ButtonLeft, 0)
	// (70, 50) device is (35, 25): outside.
	b.MouseButton(binder.ButtonPress, 70, 50, event.ButtonLeft, 0)
	b.MouseButton(binder.ButtonRelease, 70, 50, event.ButtonLeft, 0)
	if *clicks != 1 {
		t.Errorf("clicks = %d, want 1", *clicks)
	}

	tester.View().Graphics().SetZoom(1)
	if b.Zoom() != 1 {
		t.Errorf("Zoom after SetZoom = %v, want 1", b.Zoom())
	}
}

func zone(t *testing.T, tester *gadgettest.ViewTester, ht element.HitTest) {
	t.Helper()
	d := tester.Append("div", ht.String()).Base()
	d.SetWidth(40)
	d.SetHeight(40)
	d.SetHitTest(ht)
}

func TestMenuAndCloseZones(t *testing.T) {
	tests := []struct {
		ht         element.HitTest
		button     event.Button
		wantMenus  int
		wantClosed int
	}{
		{element.HTMenu, event.ButtonLeft, 1, 0},
		{element.HTClose, event.ButtonLeft, 0, 1},
		{element.HTClose, event.ButtonRight, 0, 0},
		{element.HTClient, event.ButtonLeft, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.ht.String(), func(t *testing.T) {
			tester := gadgettest.NewViewTesterWithT(t)
			zone(t, tester, tt.ht)
			tester.Binder().MouseButton(binder.ButtonPress, 10, 10, tt.button, 0)
			h := tester.Host()
			if len(h.Menus) != tt.wantMenus || h.Closed != tt.wantClosed {
				t.Errorf("menus, closed = %d, %d, want %d, %d", len(h.Menus), h.Closed, tt.wantMenus, tt.wantClosed)
			}
		})
	}
}

func TestUnclaimedDrag(t *testing.T) {
	tests := []struct {
		name       string
		ht         element.HitTest
		dx         float64
		wantMove   int
		wantResize []element.HitTest
	}{
		{"below threshold", element.HTClient, binder.MoveResizeThreshold - 1, 0, nil},
		{"move", element.HTCaption, binder.MoveResizeThreshold, 1, nil},
		{"resize", element.HTBottomRight, 10, 0, []element.HitTest{element.HTBottomRight}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tester := gadgettest.NewViewTesterWithT(t)
			zone(t, tester, tt.ht)
			b := tester.Binder()

			b.MouseButton(binder.ButtonPress, 10, 10, event.ButtonLeft, 0)
			b.MouseMotion(10+tt.dx, 10, event.ButtonLeft, 0)
			b.MouseMotion(10+tt.dx, 10, event.ButtonLeft, 0)

			h := tester.Host()
			if len(h.MoveDrags) != tt.wantMove {
				t.Errorf("move drags = %d, want %d", len(h.MoveDrags), tt.wantMove)
			}
			if diff := cmp.Diff(tt.wantResize, h.ResizeDrags); diff != "" {
				t.Errorf("resize drags mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestKeyCharacters(t *testing.T) {
	type key struct {
		Kind event.Type
		Code uint32
	}
	tests := []struct {
		name string
		code uint32
		char rune
		mod  event.Modifier
		want []key
	}{
		{"letter", 'A', 'a', 0, []key{{event.KeyDown, 'A'}, {event.KeyPress, 'a'}}},
		{"return", event.CodeReturn, 0, 0, []key{{event.KeyDown, event.CodeReturn}, {event.KeyPress, event.CodeReturn}}},
		{"ctrl letter", 'C', 'c', event.ModControl, []key{{event.KeyDown, 'C'}, {event.KeyPress, 3}}},
		{"alt letter", 'C', 'c', event.ModAlt, []key{{event.KeyDown, 'C'}}},
		{"shift arrow", event.CodeLeft, 0, event.ModShift, []key{{event.KeyDown, event.CodeLeft}}},
		{"char only", 0, 'é', 0, []key{{event.KeyPress, 'é'}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tester := gadgettest.NewViewTesterWithT(t)
			v := tester.View()
			var got []key
			record := func() {
				ev := v.Event().Event().(event.KeyboardEvent)
				got = append(got, key{ev.Kind, ev.KeyCode})
			}
			v.ConnectEvent(event.KeyDown, record)
			v.ConnectEvent(event.KeyPress, record)
			v.ConnectEvent(event.KeyUp, record)

			tester.Binder().Key(binder.KeyPress, tt.code, tt.char, tt.mod)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("key events mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestKeyRelease(t *testing.T) {
	tester := gadgettest.NewViewTesterWithT(t)
	ups := 0
	tester.View().ConnectEvent(event.KeyUp, func() { ups++ })
	b := tester.Binder()

	b.Key(binder.KeyRelease, 0, 'x', 0)
	b.Key(binder.KeyRelease, 'X', 'x', 0)
	if ups != 1 {
		t.Errorf("keyup events = %d, want 1", ups)
	}
}

func TestFocusChangeDedup(t *testing.T) {
	tester := gadgettest.NewViewTesterWithT(t)
	var got []event.Type
	v := tester.View()
	v.ConnectEvent(event.FocusIn, func() { got = append(got, event.FocusIn) })
	v.ConnectEvent(event.FocusOut, func() { got = append(got, event.FocusOut) })
	b := tester.Binder()

	b.FocusChange(false)
	b.FocusChange(true)
	b.FocusChange(true)
	b.FocusChange(false)
	want := []event.Type{event.FocusIn, event.FocusOut}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("focus events mismatch (-want +got):\n%s", diff)
	}
}

func TestLocalFiles(t *testing.T) {
	uris := []string{
		"file:///tmp/a.txt",
		"file://localhost/home/b%20c.png",
		"file://remote/share/x",
		"http://example.com/y",
		"::bad",
		"file://",
	}
	want := []string{"/tmp/a.txt", "/home/b c.png"}
	if diff := cmp.Diff(want, binder.LocalFiles(uris)); diff != "" {
		t.Errorf("LocalFiles mismatch (-want +got):\n%s", diff)
	}
}

func TestDrag(t *testing.T) {
	tester := gadgettest.NewViewTesterWithT(t)
	d := tester.Append("div", "drop").Base()
	d.SetWidth(50)
	d.SetHeight(50)
	d.SetDropTarget(true)
	var dropped []string
	d.ConnectEvent(event.DragDrop, func() {
		dropped = tester.View().Event().Event().(event.DragEvent).Files
	})
	b := tester.Binder()
	files := []string{"file:///tmp/a.txt"}

	if b.Drag(event.DragMotion, 10, 10, []string{"http://x/y"}) {
		t.Error("drag without local files accepted")
	}
	if !b.Drag(event.DragMotion, 10, 10, files) {
		t.Error("drag over drop target refused")
	}
	if b.Drag(event.DragMotion, 100, 100, files) {
		t.Error("drag outside drop target accepted")
	}
	if !b.Drag(event.DragOut, 0, 0, nil) {
		t.Error("dragout refused")
	}
	b.Drag(event.DragDrop, 10, 10, files)
	if diff := cmp.Diff([]string{"/tmp/a.txt"}, dropped); diff != "" {
		t.Errorf("dropped files mismatch (-want +got):\n%s", diff)
	}
}

func TestSizeAllocate(t *testing.T) {
	t.Run("resizable", func(t *testing.T) {
		tester := gadgettest.NewViewTesterWithT(t,
			view.WithResizable(view.ResizableTrue), view.WithGraphics(canvas.NewGraphics(2, nil)))
		b := tester.Binder()
		b.SizeAllocate(301, 200)
		if v := tester.View(); v.Width() != 151 || v.Height() != 100 {
			t.Errorf("view size = %vx%v, want 151x100", v.Width(), v.Height())
		}
		if w, h := b.Size(); w != 301 || h != 200 {
			t.Errorf("Size = %d, %d", w, h)
		}
	})
	t.Run("resizable clamps", func(t *testing.T) {
		tester := gadgettest.NewViewTesterWithT(t, view.WithResizable(view.ResizableTrue))
		tester.View().SetMinSize(100, 100)
		before := tester.Host().Resizes
		tester.Binder().SizeAllocate(50, 150)
		if v := tester.View(); v.Width() != 100 || v.Height() != 150 {
			t.Errorf("view size = %vx%v, want 100x150", v.Width(), v.Height())
		}
		if tester.Host().Resizes == before {
			t.Error("host not asked to adopt the adjusted size")
		}
	})
	t.Run("resizable cancelled", func(t *testing.T) {
		tester := gadgettest.NewViewTesterWithT(t, view.WithResizable(view.ResizableTrue))
		v := tester.View()
		v.ConnectEvent(event.Sizing, func() { v.Event().SetReturnValue(false) })
		before := tester.Host().Resizes
		tester.Binder().SizeAllocate(50, 50)
		if v.Width() != gadgettest.DefaultTestWidth {
			t.Errorf("width = %v, want unchanged", v.Width())
		}
		if tester.Host().Resizes != before+1 {
			t.Error("host not asked to restore the size")
		}
	})
	t.Run("zoom", func(t *testing.T) {
		tester := gadgettest.NewViewTesterWithT(t,
			view.WithSize(100, 50), view.WithResizable(view.ResizableZoom))
		tester.Binder().SizeAllocate(300, 200)
		if z := tester.View().Graphics().Zoom(); z != 3 {
			t.Errorf("zoom = %v, want 3", z)
		}
		if tester.Binder().Zoom() != 3 {
			t.Errorf("binder zoom = %v, want 3", tester.Binder().Zoom())
		}
		if v := tester.View(); v.Width() != 100 || v.Height() != 50 {
			t.Errorf("view size = %vx%v, want unchanged", v.Width(), v.Height())
		}
	})
	t.Run("fixed", func(t *testing.T) {
		tester := gadgettest.NewViewTesterWithT(t, view.WithResizable(view.ResizableFalse))
		before := tester.Host().Resizes
		tester.Binder().SizeAllocate(10, 10)
		if tester.View().Width() != gadgettest.DefaultTestWidth || tester.Host().Resizes != before+1 {
			t.Errorf("fixed view resized: width %v, resizes %d", tester.View().Width(), tester.Host().Resizes-before)
		}
	})
}

func TestExposeAppliesZoom(t *testing.T) {
	tester := gadgettest.NewViewTesterWithT(t,
		view.WithSize(20, 10), view.WithGraphics(canvas.NewGraphics(2, canvas.ImageFactory())))
	c := tester.Binder().Expose()
	img, ok := c.(*canvas.Image)
	if !ok {
		t.Fatalf("Expose returned %T, want *canvas.Image", c)
	}
	if img.Width() != 20 || img.Height() != 10 {
		t.Errorf("logical size = %vx%v, want 20x10", img.Width(), img.Height())
	}
	if b := img.RGBA().Bounds(); b.Dx() != 40 || b.Dy() != 20 {
		t.Errorf("pixel size = %dx%d, want 40x20", b.Dx(), b.Dy())
	}
}
