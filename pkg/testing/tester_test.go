package testing

import (
	"errors"
	"testing"
	"time"

	"github.com/go-drift/gadget/pkg/element"
	"github.com/go-drift/gadget/pkg/event"
	"github.com/go-drift/gadget/pkg/scriptable"
	"github.com/go-drift/gadget/pkg/testing/internal/testbed"
	"github.com/go-drift/gadget/pkg/variant"
	"github.com/go-drift/gadget/pkg/view"
	"github.com/go-drift/gadget/pkg/widgets"
)

func TestNewViewTester_Defaults(t *testing.T) {
	tester := NewViewTesterWithT(t)

	v := tester.View()
	if v.Width() != DefaultTestWidth || v.Height() != DefaultTestHeight {
		t.Errorf("size = %vx%v, want %dx%d", v.Width(), v.Height(), DefaultTestWidth, DefaultTestHeight)
	}
	if v.Host() != view.Host(tester.Host()) {
		t.Error("view not hosted by the fake host")
	}
	if !tester.Clock().Now().Equal(tester.Loop().Now()) {
		t.Error("loop does not run on the fake clock")
	}
	for _, tag := range []string{"div", "button", "img", "label", "edit", "counter", "ticker"} {
		if tester.Append(tag, "") == nil {
			t.Errorf("Append(%q) = nil", tag)
		}
	}
}

func TestNewViewTester_Options(t *testing.T) {
	tester := NewViewTesterWithT(t, view.WithSize(120, 80), view.WithCaption("probe"))
	if tester.View().Width() != 120 || tester.View().Height() != 80 {
		t.Errorf("size = %vx%v, want 120x80", tester.View().Width(), tester.View().Height())
	}
	if tester.View().Caption() != "probe" {
		t.Errorf("caption = %q, want probe", tester.View().Caption())
	}
}

func TestCleanupIsIdempotent(t *testing.T) {
	tester := NewViewTester()
	tester.Append("ticker", "t").(*testbed.Ticker).Start(time.Second, 0)
	tester.Cleanup()
	tester.Cleanup()
	if tester.Loop().Pending() != 0 {
		t.Errorf("Pending after Cleanup = %d, want 0", tester.Loop().Pending())
	}
}

func TestAdvance_FiresEachPeriod(t *testing.T) {
	tester := NewViewTesterWithT(t)
	tk := tester.Append("ticker", "t").(*testbed.Ticker)
	tk.Start(100*time.Millisecond, 0)

	if n := tester.Advance(350 * time.Millisecond); n != 3 {
		t.Errorf("Advance fired %d, want 3", n)
	}
	if tk.Ticks() != 3 {
		t.Errorf("ticks = %d, want 3", tk.Ticks())
	}
	if tester.Pump() != 0 {
		t.Error("Pump fired a timer before its deadline")
	}
	tester.Advance(50 * time.Millisecond)
	if tk.Ticks() != 4 {
		t.Errorf("ticks = %d, want 4", tk.Ticks())
	}
}

func TestPumpAndSettle(t *testing.T) {
	tester := NewViewTesterWithT(t)
	tk := tester.Append("ticker", "t").(*testbed.Ticker)

	tk.Start(50*time.Millisecond, 2)
	if err := tester.PumpAndSettle(time.Second); err != nil {
		t.Fatalf("PumpAndSettle = %v, want nil", err)
	}
	if tk.Ticks() != 2 || tk.Running() {
		t.Errorf("ticks = %d running = %v, want 2 stopped", tk.Ticks(), tk.Running())
	}

	tk.Start(50*time.Millisecond, 0)
	err := tester.PumpAndSettle(200 * time.Millisecond)
	if !errors.Is(err, ErrSettleTimeout) {
		t.Errorf("PumpAndSettle with running interval = %v, want ErrSettleTimeout", err)
	}
}

func TestTap(t *testing.T) {
	tester := NewViewTesterWithT(t)
	c := tester.Append("counter", "c").(*testbed.Counter)
	c.SetX(10)
	c.SetY(10)

	if err := tester.Tap(ByTag("counter")); err != nil {
		t.Fatal(err)
	}
	if err := tester.Tap(ByText("1")); err != nil {
		t.Fatal(err)
	}
	if c.Count() != 2 {
		t.Errorf("count = %d, want 2", c.Count())
	}
	if tester.Host().Cursor != element.CursorHand {
		t.Errorf("cursor = %v, want hand", tester.Host().Cursor)
	}
	if err := tester.Tap(ByText("nothing")); err == nil {
		t.Error("Tap on missing element succeeded")
	}
}

func TestDoubleTap_ClicksOnce(t *testing.T) {
	tester := NewViewTesterWithT(t)
	c := tester.Append("counter", "c").(*testbed.Counter)

	if err := tester.DoubleTap(ByName("c")); err != nil {
		t.Fatal(err)
	}
	if c.Count() != 1 {
		t.Errorf("count = %d, want 1", c.Count())
	}
}

func TestDragFrom_MovesWindow(t *testing.T) {
	tester := NewViewTesterWithT(t)
	tester.DragFrom(200, 200, 30, 0)

	if got := tester.Host().MoveDrags; len(got) != 1 || got[0] != event.ButtonLeft {
		t.Errorf("MoveDrags = %v, want [left]", got)
	}
	if len(tester.Host().ResizeDrags) != 0 {
		t.Errorf("ResizeDrags = %v, want none", tester.Host().ResizeDrags)
	}
}

func TestTypeText(t *testing.T) {
	tester := NewViewTesterWithT(t)
	e := tester.Append("edit", "name").(*widgets.Edit)

	if err := tester.Tap(ByName("name")); err != nil {
		t.Fatal(err)
	}
	if tester.View().FocusedElement() != element.Element(e) {
		t.Fatal("tap did not focus the edit")
	}
	tester.TypeText("abc")
	tester.PressKey(event.CodeBack, 0, 0)
	if e.Value() != "ab" {
		t.Errorf("value = %q, want ab", e.Value())
	}
	if !tester.Find(ByText("ab")).Exists() {
		t.Error("ByText did not find the edit by value")
	}
}

func TestFocus(t *testing.T) {
	tester := NewViewTesterWithT(t)
	e := tester.Append("edit", "name").(*widgets.Edit)

	if err := tester.Focus(ByTag("edit")); err != nil {
		t.Fatal(err)
	}
	if !tester.Binder().Focused() || tester.View().FocusedElement() != element.Element(e) {
		t.Error("edit not focused")
	}
	e.SetEnabled(false)
	tester.View().SetFocus(nil)
	if err := tester.Focus(ByTag("edit")); err == nil {
		t.Error("Focus on disabled edit succeeded")
	}
}

func TestFakeHostDialogs(t *testing.T) {
	tester := NewViewTesterWithT(t)
	h := tester.Host()
	v := tester.View()

	h.ConfirmAnswer = true
	got, ok := scriptable.Invoke(v, "confirm", variant.String("sure?"))
	if b, _ := got.ToBool(); !ok || !b {
		t.Errorf("confirm = %v, %v, want true", got, ok)
	}
	scriptable.Invoke(v, "alert", variant.String("hi"))

	got, _ = scriptable.Invoke(v, "prompt", variant.String("name?"), variant.String("bob"))
	if !got.IsNil() {
		t.Errorf("cancelled prompt = %v, want null", got)
	}
	h.PromptOK = true
	got, _ = scriptable.Invoke(v, "prompt", variant.String("name?"), variant.String("bob"))
	if s, _ := got.ToString(); s != "bob" {
		t.Errorf("prompt = %q, want the default bob", s)
	}

	if len(h.Confirms) != 1 || len(h.Alerts) != 1 || h.Alerts[0] != "hi" || len(h.Prompts) != 2 {
		t.Errorf("recorded confirms=%v alerts=%v prompts=%v", h.Confirms, h.Alerts, h.Prompts)
	}
}
