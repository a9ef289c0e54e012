package textedit

import (
	"math/rand/v2"
	"testing"

	"github.com/go-drift/gadget/pkg/graphics"
	"github.com/google/go-cmp/cmp"
)

// mono is a fixed 10x20 cell metric.
type mono struct{}

func (mono) Advance(r rune) float64 {
	if r == '\n' {
		return 0
	}
	return 10
}

func (mono) LineHeight() float64 { return 20 }

func newModel(text string) *Model {
	m := New()
	m.SetMetrics(mono{})
	m.SetMultiline(true)
	m.SetText(text)
	return m
}

func TestBackSpaceAtEnd(t *testing.T) {
	m := newModel("hello")
	m.MoveCursor(Buffer, 1, false)
	if m.Cursor() != 5 {
		t.Fatalf("Cursor() = %d, want 5", m.Cursor())
	}
	m.BackSpace()
	if m.Text() != "hell" || m.Cursor() != 4 {
		t.Errorf("after BackSpace: %q cursor %d, want %q cursor 4", m.Text(), m.Cursor(), "hell")
	}
	m.SetCursor(0)
	m.BackSpace()
	if m.Text() != "hell" {
		t.Errorf("BackSpace at 0 changed text to %q", m.Text())
	}
}

func TestDelete(t *testing.T) {
	m := newModel("abc")
	m.SetCursor(1)
	m.Delete()
	if m.Text() != "ac" || m.Cursor() != 1 {
		t.Errorf("Delete: %q cursor %d", m.Text(), m.Cursor())
	}
	m.MoveCursor(Buffer, 1, false)
	m.Delete()
	if m.Text() != "ac" {
		t.Errorf("Delete at end changed text to %q", m.Text())
	}
}

func TestEnterReplacesSelection(t *testing.T) {
	m := newModel("hello world")
	m.SetSelectionBounds(0, 5)
	m.EnterText("bye")
	if m.Text() != "bye world" {
		t.Errorf("Text() = %q, want %q", m.Text(), "bye world")
	}
	if m.Cursor() != 3 || m.SelectionBound() != 3 {
		t.Errorf("cursor %d bound %d, want 3 3", m.Cursor(), m.SelectionBound())
	}
}

func TestEnterTextStopsAtInvalidUTF8(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ab\xffcd", "ab"},
		{"\xffab", ""},
		{"a\uFFFDb", "a\uFFFDb"},
		{"héllo", "héllo"},
	}
	for _, tt := range tests {
		m := newModel("")
		m.EnterText(tt.in)
		if m.Text() != tt.want || m.Cursor() != len([]rune(tt.want)) {
			t.Errorf("EnterText(%q): %q cursor %d, want %q", tt.in, m.Text(), m.Cursor(), tt.want)
		}
	}
}

func TestOverwrite(t *testing.T) {
	m := newModel("abcd")
	m.SetCursor(1)
	m.ToggleOverwrite()
	m.EnterText("X")
	if m.Text() != "aXcd" {
		t.Errorf("Text() = %q, want aXcd", m.Text())
	}
	m.MoveCursor(Buffer, 1, false)
	m.EnterText("Y")
	if m.Text() != "aXcdY" {
		t.Errorf("overwrite at end: %q, want aXcdY", m.Text())
	}
}

func TestDeleteTextClampsAndOrders(t *testing.T) {
	m := newModel("abcdef")
	m.DeleteText(4, 2)
	if m.Text() != "abef" {
		t.Errorf("DeleteText(4, 2) = %q, want abef", m.Text())
	}
	m.DeleteText(-5, 100)
	if m.Text() != "" || m.Cursor() != 0 {
		t.Errorf("DeleteText(-5, 100) = %q cursor %d", m.Text(), m.Cursor())
	}
}

func TestDeleteShiftsSelection(t *testing.T) {
	m := newModel("abcdef")
	m.SetSelectionBounds(1, 5)
	m.DeleteText(2, 4)
	if m.Text() != "abef" {
		t.Fatalf("Text() = %q", m.Text())
	}
	if m.SelectionBound() != 1 || m.Cursor() != 3 {
		t.Errorf("bound %d cursor %d, want 1 3", m.SelectionBound(), m.Cursor())
	}
	m.SetSelectionBounds(0, 3)
	m.DeleteText(1, 4)
	if m.Cursor() != 1 {
		t.Errorf("cursor inside removed range = %d, want 1", m.Cursor())
	}
}

func TestMoveWords(t *testing.T) {
	m := newModel("hello world foo")
	var got []int
	for i := 0; i < 6; i++ {
		m.MoveCursor(Words, 1, false)
		got = append(got, m.Cursor())
	}
	if diff := cmp.Diff([]int{5, 6, 11, 12, 15, 15}, got); diff != "" {
		t.Errorf("forward stops mismatch (-want +got):\n%s", diff)
	}
	got = got[:0]
	for i := 0; i < 6; i++ {
		m.MoveCursor(Words, -1, false)
		got = append(got, m.Cursor())
	}
	if diff := cmp.Diff([]int{12, 11, 6, 5, 0, 0}, got); diff != "" {
		t.Errorf("backward stops mismatch (-want +got):\n%s", diff)
	}
}

func TestMoveWordsHidden(t *testing.T) {
	m := newModel("hello world")
	m.SetVisibility(false)
	m.SetCursor(3)
	m.MoveCursor(Words, 1, false)
	if m.Cursor() != 11 {
		t.Errorf("hidden word move = %d, want 11", m.Cursor())
	}
}

func TestExtendSelection(t *testing.T) {
	m := newModel("hello")
	m.MoveCursor(Visually, 2, true)
	if m.SelectionBound() != 0 || m.Cursor() != 2 || m.SelectedText() != "he" {
		t.Fatalf("bound %d cursor %d sel %q", m.SelectionBound(), m.Cursor(), m.SelectedText())
	}
	m.MoveCursor(Visually, 1, false)
	if _, _, ok := m.SelectionBounds(); ok || m.Cursor() != 3 {
		t.Errorf("non-extending move left selection or cursor %d, want 3", m.Cursor())
	}
	m.MoveCursor(Visually, 10, false)
	if m.Cursor() != 5 {
		t.Errorf("move past end = %d, want 5", m.Cursor())
	}
}

func TestMoveDisplayLines(t *testing.T) {
	m := newModel("abc\ndefgh\nij")
	m.SetCursor(2)
	var got []int
	for i := 0; i < 3; i++ {
		m.MoveCursor(DisplayLines, 1, false)
		got = append(got, m.Cursor())
	}
	if diff := cmp.Diff([]int{6, 12, 12}, got); diff != "" {
		t.Errorf("down stops mismatch (-want +got):\n%s", diff)
	}
	m.SetCursor(1)
	m.MoveCursor(DisplayLines, -1, false)
	if m.Cursor() != 0 {
		t.Errorf("up from first line = %d, want 0", m.Cursor())
	}
}

func TestMoveLineEnds(t *testing.T) {
	m := newModel("abc\ndefgh")
	m.SetCursor(5)
	m.MoveCursor(DisplayLineEnds, 1, false)
	if m.Cursor() != 9 {
		t.Errorf("end = %d, want 9", m.Cursor())
	}
	m.MoveCursor(DisplayLineEnds, -1, true)
	if m.Cursor() != 4 || m.SelectionBound() != 9 {
		t.Errorf("home extend: cursor %d bound %d, want 4 9", m.Cursor(), m.SelectionBound())
	}
}

func TestMovePages(t *testing.T) {
	m := newModel("a\nb\nc\nd\ne")
	m.SetSize(100, 40)
	if m.PageLines() != 2 {
		t.Fatalf("PageLines() = %d, want 2", m.PageLines())
	}
	m.MoveCursor(Pages, 1, false)
	if m.Cursor() != 4 {
		t.Errorf("page down = %d, want 4", m.Cursor())
	}
	m.MoveCursor(Pages, -1, false)
	if m.Cursor() != 0 {
		t.Errorf("page up = %d, want 0", m.Cursor())
	}
}

func TestWordWrap(t *testing.T) {
	m := newModel("aaa bbb ccc")
	m.SetWordWrap(true)
	m.SetSize(50, 100)
	lines := m.Lines()
	if len(lines) != 3 {
		t.Fatalf("len(Lines()) = %d, want 3", len(lines))
	}
	if lines[1].Start != 4 || lines[2].Start != 8 {
		t.Errorf("line starts %d, %d, want 4, 8", lines[1].Start, lines[2].Start)
	}
	if got := m.LineText(lines[2]); got != "ccc" {
		t.Errorf("LineText = %q, want ccc", got)
	}
}

func TestRightToLeftLine(t *testing.T) {
	m := newModel("שלום")
	if !m.Lines()[0].RTL {
		t.Fatal("Hebrew line not detected as RTL")
	}
	m.MoveCursor(DisplayLineEnds, -1, false)
	if m.Cursor() != 4 {
		t.Errorf("visual home = %d, want 4", m.Cursor())
	}
	m.MoveCursor(Visually, 1, false)
	if m.Cursor() != 3 {
		t.Errorf("visual right = %d, want 3", m.Cursor())
	}
}

func TestSelectWordAndLine(t *testing.T) {
	m := newModel("hello world\nnext")
	m.SetCursor(8)
	m.SelectWord()
	if m.SelectedText() != "world" {
		t.Errorf("SelectWord = %q, want world", m.SelectedText())
	}
	m.SetCursor(3)
	m.SelectLine()
	if m.SelectedText() != "hello world" {
		t.Errorf("SelectLine = %q", m.SelectedText())
	}
	m.SelectAll()
	if m.SelectedText() != m.Text() {
		t.Errorf("SelectAll = %q", m.SelectedText())
	}
}

func TestPreedit(t *testing.T) {
	m := newModel("ab")
	m.SetCursor(1)
	m.SetPreedit("xy", 1)
	if m.DisplayText() != "axyb" || m.Text() != "ab" {
		t.Fatalf("DisplayText %q Text %q", m.DisplayText(), m.Text())
	}
	if x, y, _ := m.CursorLocation(); x != 20 || y != 0 {
		t.Errorf("CursorLocation() = %v, %v, want 20, 0", x, y)
	}
	tests := []struct {
		x    float64
		want int
	}{
		{2, 0},
		{15, 1},
		{25, 1},
		{38, 2},
	}
	for _, tt := range tests {
		if got := m.XYToOffset(tt.x, 5); got != tt.want {
			t.Errorf("XYToOffset(%v, 5) = %d, want %d", tt.x, got, tt.want)
		}
	}

	m.CommitPreedit()
	if m.Text() != "axyb" || m.Cursor() != 3 {
		t.Errorf("after commit: %q cursor %d", m.Text(), m.Cursor())
	}
	if s, _ := m.Preedit(); s != "" {
		t.Errorf("preedit %q left after commit", s)
	}

	m.SetPreedit("zz", 0)
	m.ResetPreedit()
	if m.DisplayText() != m.Text() {
		t.Errorf("reset left %q displayed", m.DisplayText())
	}
}

func TestXYToOffsetBounds(t *testing.T) {
	m := newModel("ab\ncd")
	if got := m.XYToOffset(5, -1); got != 0 {
		t.Errorf("above = %d, want 0", got)
	}
	if got := m.XYToOffset(5, 100); got != 5 {
		t.Errorf("below = %d, want 5", got)
	}
	if got := m.XYToOffset(100, 25); got != 5 {
		t.Errorf("right of line 2 = %d, want 5", got)
	}
}

func TestPasswordCopy(t *testing.T) {
	m := newModel("abc")
	clip := &MemoryClipboard{}
	m.SetClipboard(clip)
	m.SetVisibility(false)
	if m.DisplayText() != "***" {
		t.Errorf("DisplayText() = %q", m.DisplayText())
	}
	m.SelectAll()
	m.Cut()
	if got, _ := clip.Text(); got != "***" {
		t.Errorf("clipboard = %q, want ***", got)
	}
	if m.Text() != "" {
		t.Errorf("Cut left %q", m.Text())
	}
}

func TestCopyPaste(t *testing.T) {
	m := newModel("hello")
	clip := &MemoryClipboard{}
	m.SetClipboard(clip)
	m.Paste()
	if m.Text() != "hello" {
		t.Error("paste from empty clipboard changed text")
	}
	m.SetSelectionBounds(1, 3)
	m.Copy()
	m.MoveCursor(Buffer, 1, false)
	m.Paste()
	if m.Text() != "helloel" {
		t.Errorf("Text() = %q, want helloel", m.Text())
	}
}

func TestReadOnly(t *testing.T) {
	m := newModel("abc")
	changes := 0
	m.OnChange.ConnectFunc(func() { changes++ })
	m.SetReadOnly(true)
	m.SetCursor(3)
	m.EnterText("x")
	m.BackSpace()
	m.DeleteText(0, 3)
	m.SetPreedit("p", 0)
	if m.Text() != "abc" || changes != 0 {
		t.Errorf("read-only model mutated: %q, %d changes", m.Text(), changes)
	}
	if s, _ := m.Preedit(); s != "" {
		t.Error("read-only model accepted preedit")
	}
	m.SetReadOnly(false)
	m.EnterText("x")
	if changes != 1 {
		t.Errorf("changes = %d, want 1", changes)
	}
}

func TestSelectionRects(t *testing.T) {
	m := newModel("abc\ndef")
	m.SetSelectionBounds(1, 6)
	want := []graphics.Rect{
		{Left: 10, Top: 0, Right: 30, Bottom: 20},
		{Left: 0, Top: 20, Right: 20, Bottom: 40},
	}
	if diff := cmp.Diff(want, m.SelectionRects()); diff != "" {
		t.Errorf("SelectionRects mismatch (-want +got):\n%s", diff)
	}
}

func TestOffsetsStayInRange(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	m := newModel("seed text\nwith lines")
	m.SetSize(60, 40)
	steps := []MovementStep{Visually, Words, DisplayLines, DisplayLineEnds, Pages, Buffer}
	for i := 0; i < 2000; i++ {
		n := m.Len()
		switch r.IntN(9) {
		case 0:
			m.EnterText([]string{"a", "bc ", "\n", "ü", "中"}[r.IntN(5)])
		case 1:
			m.DeleteText(r.IntN(n+10)-5, r.IntN(n+10)-5)
		case 2:
			step := steps[r.IntN(len(steps))]
			count := r.IntN(7) - 3
			if step == Buffer && count == 0 {
				count = 1
			}
			m.MoveCursor(step, count, r.IntN(2) == 0)
		case 3:
			m.SetCursor(r.IntN(n+10) - 5)
		case 4:
			m.SetSelectionBounds(r.IntN(n+10)-5, r.IntN(n+10)-5)
		case 5:
			m.BackSpace()
		case 6:
			m.Delete()
		case 7:
			m.SetPreedit("ime", r.IntN(5)-1)
		case 8:
			m.CommitPreedit()
		}
		if c, b := m.Cursor(), m.SelectionBound(); c < 0 || c > m.Len() || b < 0 || b > m.Len() {
			t.Fatalf("step %d: cursor %d bound %d outside [0, %d]", i, c, b, m.Len())
		}
	}
}
