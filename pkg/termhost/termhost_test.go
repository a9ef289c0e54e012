package termhost

import (
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/gadget/pkg/event"
	"github.com/go-drift/gadget/pkg/graphics"
	gadgettest "github.com/go-drift/gadget/pkg/testing"
	"github.com/go-drift/gadget/pkg/view"
	"github.com/go-drift/gadget/pkg/widgets"
)

var red = graphics.RGB(0xFF, 0, 0)

func newModel(t *testing.T, opts ...view.Option) (*Model, *gadgettest.ViewTester) {
	t.Helper()
	opts = append([]view.Option{view.WithSize(8, 4)}, opts...)
	tester := gadgettest.NewViewTesterWithT(t, opts...)
	m := New(tester.View(), tester.Loop(), WithRenderer(lipgloss.NewRenderer(io.Discard)))
	return m, tester
}

func addBox(tester *gadgettest.ViewTester, name string, x, y, w, h float64) *widgets.Div {
	d := tester.Append("div", name).(*widgets.Div)
	d.SetX(x)
	d.SetY(y)
	d.SetWidth(w)
	d.SetHeight(h)
	return d
}

func press(m *Model, x, y int) {
	m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
}

func release(m *Model, x, y int) {
	m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
}

func TestCells(t *testing.T) {
	m, tester := newModel(t)
	addBox(tester, "box", 0, 0, 4, 3).SetBackground(red)

	cells := m.Cells()
	if len(cells) != 2 || len(cells[0]) != 8 {
		t.Fatalf("grid = %dx%d, want 2x8", len(cells), len(cells[0]))
	}
	tests := []struct {
		col, row int
		want     Cell
		rune     rune
	}{
		{0, 0, Cell{Top: red, Bottom: red}, '▀'},
		{3, 1, Cell{Top: red}, '▀'},
		{4, 0, Cell{}, ' '},
		{7, 1, Cell{}, ' '},
	}
	for _, tt := range tests {
		got := cells[tt.row][tt.col]
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("cell (%d, %d) mismatch (-want +got):\n%s", tt.col, tt.row, diff)
		}
		if got.Rune() != tt.rune {
			t.Errorf("cell (%d, %d) rune = %q, want %q", tt.col, tt.row, got.Rune(), tt.rune)
		}
	}
	if r := (Cell{Bottom: red}).Rune(); r != '▄' {
		t.Errorf("bottom-only rune = %q, want ▄", r)
	}
}

func TestViewOutput(t *testing.T) {
	m, tester := newModel(t, view.WithResizable(view.ResizableFalse))
	addBox(tester, "box", 0, 0, 4, 4).SetBackground(red)
	m.Update(tea.WindowSizeMsg{Width: 8, Height: 3})

	lines := strings.Split(m.View(), "\n")
	if len(lines) != 3 {
		t.Fatalf("View has %d lines, want 3:\n%s", len(lines), m.View())
	}
	for i := range 2 {
		if !strings.Contains(lines[i], "▀▀▀▀") {
			t.Errorf("line %d = %q, want a red block", i, lines[i])
		}
	}
}

func TestResize(t *testing.T) {
	m, tester := newModel(t)
	m.Update(tea.WindowSizeMsg{Width: 20, Height: 6})
	v := tester.View()
	if v.Width() != 20 || v.Height() != 10 {
		t.Errorf("view size = %vx%v, want 20x10", v.Width(), v.Height())
	}
	if w, h := m.Binder().Size(); w != 20 || h != 10 {
		t.Errorf("binder size = %d, %d, want 20, 10", w, h)
	}
}

func TestResizeZoom(t *testing.T) {
	m, tester := newModel(t, view.WithResizable(view.ResizableZoom))
	m.Update(tea.WindowSizeMsg{Width: 16, Height: 9})
	if z := tester.View().Graphics().Zoom(); z != 2 {
		t.Fatalf("zoom = %v, want 2", z)
	}
	if cells := m.Cells(); len(cells) != 4 || len(cells[0]) != 16 {
		t.Errorf("grid = %dx%d, want 4x16", len(cells), len(cells[0]))
	}
}

func TestStatusLine(t *testing.T) {
	m, _ := newModel(t)
	m.Update(tea.WindowSizeMsg{Width: 10, Height: 3})

	m.SetCaption("Clock")
	m.SetTooltip("tip")
	if got := m.Status(); got != "Clock | tip" {
		t.Errorf("Status = %q, want %q", got, "Clock | tip")
	}
	m.Alert("boom")
	if got := m.Status(); got != "Clock | boom" {
		t.Errorf("Status with alert = %q", got)
	}
	if out := m.View(); !strings.Contains(out, "Clock | b…") {
		t.Errorf("View = %q, want truncated status", out)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if got := m.Status(); got != "Clock" {
		t.Errorf("Status after key = %q, want Clock", got)
	}
}

func TestConfirmPromptDecline(t *testing.T) {
	m, _ := newModel(t)
	if m.Confirm("sure?") {
		t.Error("Confirm = true, want false")
	}
	if s, ok := m.Prompt("name?", "x"); ok || s != "" {
		t.Errorf("Prompt = %q, %v, want empty, false", s, ok)
	}
	if m.Status() != "name?" {
		t.Errorf("Status = %q, want the prompt", m.Status())
	}
}

func TestClick(t *testing.T) {
	m, tester := newModel(t)
	box := addBox(tester, "box", 2, 0, 4, 2)
	clicks, dbl := 0, 0
	box.ConnectEvent(event.MouseClick, func() { clicks++ })
	box.ConnectEvent(event.MouseDblClick, func() { dbl++ })

	press(m, 3, 0)
	release(m, 3, 0)
	if clicks != 1 {
		t.Fatalf("clicks = %d, want 1", clicks)
	}
	press(m, 3, 0)
	release(m, 3, 0)
	if clicks != 1 || dbl != 1 {
		t.Errorf("after second press: clicks, dblclicks = %d, %d, want 1, 1", clicks, dbl)
	}

	tester.Clock().Advance(time.Second)
	press(m, 3, 0)
	release(m, 3, 0)
	if clicks != 2 || dbl != 1 {
		t.Errorf("after pause: clicks, dblclicks = %d, %d, want 2, 1", clicks, dbl)
	}

	press(m, 7, 1)
	release(m, 7, 1)
	if clicks != 2 {
		t.Errorf("click outside the box counted: %d", clicks)
	}
}

func TestReleaseWithoutButton(t *testing.T) {
	m, tester := newModel(t)
	box := addBox(tester, "box", 0, 0, 8, 4)
	clicks := 0
	box.ConnectEvent(event.MouseClick, func() { clicks++ })

	press(m, 1, 1)
	m.Update(tea.MouseMsg{X: 1, Y: 1, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone})
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
	if m.buttons != event.ButtonNone {
		t.Errorf("buttons held = %v after release", m.buttons)
	}
}

func TestStatusRowIgnoresMouse(t *testing.T) {
	m, tester := newModel(t)
	m.Update(tea.WindowSizeMsg{Width: 8, Height: 3})
	box := addBox(tester, "box", 0, 0, 8, 4)
	clicks := 0
	box.ConnectEvent(event.MouseClick, func() { clicks++ })

	press(m, 1, 2)
	release(m, 1, 2)
	if clicks != 0 {
		t.Errorf("clicks on status row = %d, want 0", clicks)
	}
}

func TestKeyOf(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		code uint32
		char rune
		mod  event.Modifier
	}{
		{"letter", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}, 'A', 'a', 0},
		{"digit", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'7'}}, '7', '7', 0},
		{"symbol", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'é'}}, 0, 'é', 0},
		{"alt letter", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}, Alt: true}, 'X', 'x', event.ModAlt},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, event.CodeSpace, ' ', 0},
		{"return", tea.KeyMsg{Type: tea.KeyEnter}, event.CodeReturn, 0, 0},
		{"backspace", tea.KeyMsg{Type: tea.KeyBackspace}, event.CodeBack, 0, 0},
		{"shift tab", tea.KeyMsg{Type: tea.KeyShiftTab}, event.CodeTab, 0, event.ModShift},
		{"ctrl left", tea.KeyMsg{Type: tea.KeyCtrlLeft}, event.CodeLeft, 0, event.ModControl},
		{"ctrl v", tea.KeyMsg{Type: tea.KeyCtrlV}, 'V', 0, event.ModControl},
		{"f5", tea.KeyMsg{Type: tea.KeyF5}, event.CodeF1 + 4, 0, 0},
		{"paste", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ab")}, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, char, mod := keyOf(tt.key)
			if code != tt.code || char != tt.char || mod != tt.mod {
				t.Errorf("keyOf = %d, %q, %v, want %d, %q, %v", code, char, mod, tt.code, tt.char, tt.mod)
			}
		})
	}
}

func TestTyping(t *testing.T) {
	m, tester := newModel(t)
	e := tester.Append("edit", "e").(*widgets.Edit)
	e.SetWidth(8)
	e.SetHeight(4)
	m.Update(tea.FocusMsg{})
	if !e.Focus() {
		t.Fatal("Focus = false")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hi")})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'!'}})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if e.Value() != "h!" {
		t.Errorf("Value = %q, want %q", e.Value(), "h!")
	}

	m.Update(tea.BlurMsg{})
	if m.Binder().Focused() {
		t.Error("binder still focused after blur")
	}
}

func TestTicksRunTimers(t *testing.T) {
	m, tester := newModel(t)
	fired := 0
	tester.View().SetTimeout(10*time.Millisecond, func() { fired++ })

	m.Update(tickMsg(time.Now()))
	if fired != 0 {
		t.Fatal("timeout fired early")
	}
	tester.Clock().Advance(10 * time.Millisecond)
	_, cmd := m.Update(tickMsg(time.Now()))
	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}
	if cmd == nil {
		t.Error("tick did not schedule the next tick")
	}
}

func TestCloseQuits(t *testing.T) {
	m, tester := newModel(t)
	tester.View().Host().CloseView()
	if !m.Closed() {
		t.Fatal("Closed = false after CloseView")
	}
	_, cmd := m.Update(tea.FocusMsg{})
	if cmd == nil {
		t.Fatal("no command after close")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("command after close is not quit")
	}

	m2, _ := newModel(t)
	_, cmd = m2.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c did not quit")
	}
}

func TestCoordinates(t *testing.T) {
	m, _ := newModel(t)
	x, y := m.ViewCoordToNativeWidgetCoord(4, 6)
	if x != 4 || y != 3 {
		t.Errorf("ViewCoordToNativeWidgetCoord = %v, %v, want 4, 3", x, y)
	}
	if x, y := m.NativeWidgetCoordToViewCoord(x, y); x != 4 || y != 6 {
		t.Errorf("NativeWidgetCoordToViewCoord = %v, %v, want 4, 6", x, y)
	}
}
