// Package textedit holds the cursor, selection and preedit state of an edit
// element. Offsets are rune indices into the buffer and are clamped to
// [0, Len()] by every operation.
package textedit

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/go-drift/gadget/pkg/graphics"
	"github.com/go-drift/gadget/pkg/signal"
)

// MovementStep is the unit of a cursor move.
type MovementStep int

const (
	// Visually moves by one character in display order.
	Visually MovementStep = iota
	// Words moves to the next word start or end.
	Words
	// DisplayLines moves up or down keeping the x position.
	DisplayLines
	// DisplayLineEnds moves to the start or end of the display line.
	DisplayLineEnds
	// Pages moves by as many display lines as fit the height.
	Pages
	// Buffer moves to the start (count < 0) or end of the text.
	Buffer
)

var stepNames = [...]string{"visually", "words", "display-lines", "display-line-ends", "pages", "buffer"}

func (s MovementStep) String() string {
	if s >= 0 && int(s) < len(stepNames) {
		return stepNames[s]
	}
	return "unknown"
}

// Model is the edit state machine. There is no selection when Cursor and
// SelectionBound are equal.
type Model struct {
	text    []rune
	cursor  int
	bound   int
	preedit []rune
	preCur  int

	readonly  bool
	overwrite bool
	multiline bool
	wordWrap  bool
	visible   bool
	password  rune

	width, height float64

	metrics   Metrics
	clipboard Clipboard
	lay       *layout

	// OnChange fires after every buffer mutation.
	OnChange *signal.Signal
}

// New returns an empty, visible, single-line model.
func New() *Model {
	return &Model{
		visible:  true,
		password: '*',
		metrics:  DefaultMetrics,
		OnChange: signal.Void(),
	}
}

func (m *Model) changed() {
	m.lay = nil
	m.OnChange.Emit()
}

func (m *Model) invalidate() { m.lay = nil }

// Text returns the buffer.
func (m *Model) Text() string { return string(m.text) }

// Len returns the buffer length in runes.
func (m *Model) Len() int { return len(m.text) }

// SetText replaces the buffer and moves the cursor to the start.
func (m *Model) SetText(s string) {
	if s == string(m.text) {
		return
	}
	m.text = []rune(s)
	m.cursor, m.bound = 0, 0
	m.resetPreedit()
	m.changed()
}

func (m *Model) clamp(pos int) int { return min(max(pos, 0), len(m.text)) }

// Cursor returns the cursor offset.
func (m *Model) Cursor() int { return m.cursor }

// SelectionBound returns the fixed end of the selection.
func (m *Model) SelectionBound() int { return m.bound }

// SelectionBounds returns the ordered selection and whether it is
// non-empty.
func (m *Model) SelectionBounds() (start, end int, ok bool) {
	return min(m.cursor, m.bound), max(m.cursor, m.bound), m.cursor != m.bound
}

// SelectedText returns the selected part of the buffer.
func (m *Model) SelectedText() string {
	start, end, _ := m.SelectionBounds()
	return string(m.text[start:end])
}

// SetCursor collapses the selection at pos.
func (m *Model) SetCursor(pos int) {
	m.resetPreedit()
	pos = m.clamp(pos)
	m.cursor, m.bound = pos, pos
}

// SetSelectionBounds selects from bound to cursor; the cursor is the moving
// end.
func (m *Model) SetSelectionBounds(bound, cursor int) {
	m.resetPreedit()
	m.bound, m.cursor = m.clamp(bound), m.clamp(cursor)
}

// MoveCursor moves the cursor by count steps. With extend the selection
// bound stays put, otherwise the selection collapses at the new position.
func (m *Model) MoveCursor(step MovementStep, count int, extend bool) {
	m.resetPreedit()
	if count == 0 {
		return
	}
	if m.cursor != m.bound && !extend {
		m.bound = m.cursor
	}
	var pos int
	switch step {
	case Visually:
		pos = m.moveVisually(m.cursor, count)
	case Words:
		pos = m.moveWords(m.cursor, count)
	case DisplayLines:
		pos = m.moveDisplayLines(m.cursor, count)
	case DisplayLineEnds:
		pos = m.moveLineEnds(m.cursor, count)
	case Pages:
		pos = m.movePages(m.cursor, count)
	case Buffer:
		if count < 0 {
			pos = 0
		} else {
			pos = len(m.text)
		}
	default:
		return
	}
	if extend {
		m.cursor = m.clamp(pos)
	} else {
		m.SetCursor(pos)
	}
}

func (m *Model) moveVisually(pos, count int) int {
	l := m.layout()
	for ; count != 0; count -= sign(count) {
		dir := sign(count)
		if l.lines[l.lineOf(pos)].RTL {
			dir = -dir
		}
		next := pos + dir
		if next < 0 || next > len(m.text) {
			break
		}
		pos = next
	}
	return pos
}

func (m *Model) moveWords(pos, count int) int {
	if !m.visible {
		if count > 0 {
			return len(m.text)
		}
		return 0
	}
	l := m.layout()
	rtl := l.lines[l.lineOf(pos)].RTL
	n := len(m.text)
	for ; count != 0; count -= sign(count) {
		forward := (count > 0) != rtl
		switch {
		case forward && pos < n:
			for pos++; pos < n && l.attrs[pos] == 0; pos++ {
			}
		case !forward && pos > 0:
			for pos--; pos > 0 && l.attrs[pos] == 0; pos-- {
			}
		default:
			return pos
		}
	}
	return pos
}

func (m *Model) moveDisplayLines(pos, count int) int {
	l := m.layout()
	x := l.xOf(pos, m.metrics)
	i := l.lineOf(pos) + count
	switch {
	case i < 0:
		return 0
	case i >= len(l.lines):
		return len(m.text)
	}
	return l.offsetAtX(i, x, m.metrics)
}

// PageLines returns the number of display lines a page move covers.
func (m *Model) PageLines() int {
	lh := m.metrics.LineHeight()
	if lh <= 0 {
		return 1
	}
	return max(int(m.height/lh), 1)
}

func (m *Model) movePages(pos, count int) int {
	return m.moveDisplayLines(pos, count*m.PageLines())
}

func (m *Model) moveLineEnds(pos, count int) int {
	l := m.layout()
	ln := l.lines[l.lineOf(pos)]
	if ln.Start == ln.End {
		return pos
	}
	if (count > 0) != ln.RTL {
		return ln.End
	}
	return ln.Start
}

func sign(n int) int {
	if n < 0 {
		return -1
	}
	return 1
}

// EnterText replaces the selection, or in overwrite mode the character
// under the cursor, with s. Text from the first invalid UTF-8 byte on is
// dropped.
func (m *Model) EnterText(s string) {
	if m.readonly || s == "" {
		return
	}
	if _, _, ok := m.SelectionBounds(); ok {
		m.DeleteSelection()
	} else if m.overwrite && m.cursor != len(m.text) {
		m.DeleteText(m.cursor, m.cursor+1)
	}
	rs := []rune(validPrefix(s))
	if len(rs) == 0 {
		return
	}
	m.resetPreedit()
	m.text = slices.Insert(m.text, m.cursor, rs...)
	m.cursor += len(rs)
	m.bound += len(rs)
	m.changed()
}

// DeleteText removes [start, end) after clamping and ordering the bounds.
// Offsets past the removed range shift left; offsets inside it collapse to
// start.
func (m *Model) DeleteText(start, end int) {
	if m.readonly {
		return
	}
	start, end = m.clamp(start), m.clamp(end)
	if start > end {
		start, end = end, start
	}
	if start == end {
		return
	}
	m.resetPreedit()
	m.text = slices.Delete(m.text, start, end)
	m.cursor = shiftForDelete(m.cursor, start, end)
	m.bound = shiftForDelete(m.bound, start, end)
	m.changed()
}

// validPrefix returns s up to its first invalid UTF-8 sequence.
func validPrefix(s string) string {
	for i, r := range s {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(s[i:]); size == 1 {
				return s[:i]
			}
		}
	}
	return s
}

func shiftForDelete(pos, start, end int) int {
	switch {
	case pos >= end:
		return pos - (end - start)
	case pos > start:
		return start
	}
	return pos
}

// DeleteSelection removes the selected text, if any.
func (m *Model) DeleteSelection() {
	if start, end, ok := m.SelectionBounds(); ok {
		m.DeleteText(start, end)
	}
}

// BackSpace deletes the selection or the character before the cursor.
func (m *Model) BackSpace() {
	if _, _, ok := m.SelectionBounds(); ok {
		m.DeleteSelection()
		return
	}
	if m.cursor > 0 {
		m.DeleteText(m.cursor-1, m.cursor)
	}
}

// Delete deletes the selection or the character after the cursor.
func (m *Model) Delete() {
	if _, _, ok := m.SelectionBounds(); ok {
		m.DeleteSelection()
		return
	}
	if m.cursor < len(m.text) {
		m.DeleteText(m.cursor, m.cursor+1)
	}
}

// SelectWord selects the word around the cursor.
func (m *Model) SelectWord() {
	bound := m.moveWords(m.cursor, -1)
	m.SetSelectionBounds(bound, m.moveWords(bound, 1))
}

// SelectLine selects the display line holding the cursor.
func (m *Model) SelectLine() {
	bound := m.moveLineEnds(m.cursor, -1)
	m.SetSelectionBounds(bound, m.moveLineEnds(bound, 1))
}

// SelectAll selects the whole buffer.
func (m *Model) SelectAll() { m.SetSelectionBounds(0, len(m.text)) }

// SetClipboard sets the clipboard for Copy, Cut and Paste. A nil
// clipboard disables them.
func (m *Model) SetClipboard(c Clipboard) { m.clipboard = c }

// Copy puts the selection on the clipboard. A hidden buffer copies the
// password characters instead.
func (m *Model) Copy() {
	start, end, ok := m.SelectionBounds()
	if !ok || m.clipboard == nil {
		return
	}
	if m.visible {
		m.clipboard.SetText(string(m.text[start:end]))
		return
	}
	m.clipboard.SetText(strings.Repeat(string(m.password), end-start))
}

// Cut copies then deletes the selection.
func (m *Model) Cut() {
	m.Copy()
	m.DeleteSelection()
}

// Paste enters the clipboard text at the cursor.
func (m *Model) Paste() {
	if m.clipboard == nil {
		return
	}
	if s, ok := m.clipboard.Text(); ok {
		m.EnterText(s)
	}
}

// ToggleOverwrite flips between insert and overwrite mode.
func (m *Model) ToggleOverwrite() { m.overwrite = !m.overwrite }

func (m *Model) Overwrite() bool { return m.overwrite }

// SetPreedit shows an uncommitted composition at the cursor. cursor is the
// offset inside the composition.
func (m *Model) SetPreedit(text string, cursor int) {
	if m.readonly {
		return
	}
	m.preedit = []rune(text)
	m.preCur = min(max(cursor, 0), len(m.preedit))
	m.invalidate()
}

// Preedit returns the composition and its cursor.
func (m *Model) Preedit() (string, int) { return string(m.preedit), m.preCur }

// CommitPreedit enters the composition as typed text.
func (m *Model) CommitPreedit() {
	s := string(m.preedit)
	m.resetPreedit()
	m.EnterText(s)
}

// ResetPreedit discards the composition without touching the buffer.
func (m *Model) ResetPreedit() { m.resetPreedit() }

func (m *Model) resetPreedit() {
	if len(m.preedit) > 0 {
		m.invalidate()
	}
	m.preedit = nil
	m.preCur = 0
}

func (m *Model) ReadOnly() bool { return m.readonly }

// SetReadOnly blocks every mutation while set.
func (m *Model) SetReadOnly(ro bool) {
	m.readonly = ro
	m.resetPreedit()
}

func (m *Model) Multiline() bool       { return m.multiline }
func (m *Model) SetMultiline(ml bool)  { m.multiline = ml }
func (m *Model) WordWrap() bool        { return m.wordWrap }
func (m *Model) Visible() bool         { return m.visible }
func (m *Model) PasswordChar() rune    { return m.password }
func (m *Model) Metrics() Metrics      { return m.metrics }
func (m *Model) Size() (w, h float64)  { return m.width, m.height }
func (m *Model) SetWordWrap(wrap bool) { m.wordWrap = wrap; m.invalidate() }

// SetVisibility shows or masks the buffer with the password character.
func (m *Model) SetVisibility(v bool) {
	if m.visible == v {
		return
	}
	m.visible = v
	m.resetPreedit()
	m.invalidate()
}

// SetPasswordChar sets the mask rune; 0 restores '*'.
func (m *Model) SetPasswordChar(r rune) {
	if r == 0 {
		r = '*'
	}
	m.password = r
	m.invalidate()
}

// SetMetrics replaces the rune metrics; nil restores DefaultMetrics.
func (m *Model) SetMetrics(mt Metrics) {
	if mt == nil {
		mt = DefaultMetrics
	}
	m.metrics = mt
	m.invalidate()
}

// SetSize sets the content box used for wrapping and page moves.
func (m *Model) SetSize(w, h float64) {
	if w != m.width {
		m.invalidate()
	}
	m.width, m.height = w, h
}

// DisplayText returns the text as drawn: masked when hidden, with the
// composition spliced in at the cursor.
func (m *Model) DisplayText() string {
	return string(m.displayRunes())
}

func (m *Model) displayRunes() []rune {
	out := make([]rune, 0, len(m.text)+len(m.preedit))
	out = append(out, m.text[:m.cursor]...)
	out = append(out, m.preedit...)
	out = append(out, m.text[m.cursor:]...)
	if !m.visible {
		for i := range out {
			out[i] = m.password
		}
	}
	return out
}

func (m *Model) layout() *layout {
	if m.lay == nil {
		wrap := 0.0
		if m.wordWrap {
			wrap = m.width
		}
		m.lay = buildLayout(m.displayRunes(), m.metrics, wrap)
	}
	return m.lay
}

// toDisplay maps a buffer offset into the display text.
func (m *Model) toDisplay(pos int) int {
	if pos > m.cursor {
		return pos + len(m.preedit)
	}
	return pos
}

// Lines returns the display lines.
func (m *Model) Lines() []Line { return slices.Clone(m.layout().lines) }

// LineText returns the display text of ln.
func (m *Model) LineText(ln Line) string {
	return string(m.layout().text[ln.Start:ln.End])
}

// XYToOffset maps a point in the content box to the nearest buffer offset.
// Points inside the composition resolve to the cursor.
func (m *Model) XYToOffset(x, y float64) int {
	l := m.layout()
	if y < 0 {
		return 0
	}
	i := int(y / m.metrics.LineHeight())
	if i >= len(l.lines) {
		return len(m.text)
	}
	off := l.offsetAtX(i, x, m.metrics)
	if n := len(m.preedit); n > 0 && off > m.cursor {
		if off >= m.cursor+n {
			off -= n
		} else {
			off = m.cursor
		}
	}
	return m.clamp(off)
}

// CursorLocation returns the top of the cursor in the content box and the
// line height. The composition cursor is included.
func (m *Model) CursorLocation() (x, y, h float64) {
	l := m.layout()
	pos := m.cursor + m.preCur
	lh := m.metrics.LineHeight()
	return l.xOf(pos, m.metrics), float64(l.lineOf(pos)) * lh, lh
}

// SelectionRects returns one rectangle per display line covered by the
// selection, in content box coordinates.
func (m *Model) SelectionRects() []graphics.Rect {
	start, end, ok := m.SelectionBounds()
	if !ok {
		return nil
	}
	start, end = m.toDisplay(start), m.toDisplay(end)
	l := m.layout()
	lh := m.metrics.LineHeight()
	var rects []graphics.Rect
	for i, ln := range l.lines {
		s, e := max(start, ln.Start), min(end, ln.End)
		if s >= e {
			continue
		}
		x0, x1 := l.xOf(s, m.metrics), l.xOf(e, m.metrics)
		if x0 > x1 {
			x0, x1 = x1, x0
		}
		rects = append(rects, graphics.Rect{Left: x0, Top: float64(i) * lh, Right: x1, Bottom: float64(i+1) * lh})
	}
	return rects
}

// ContentSize returns the laid out text extent.
func (m *Model) ContentSize() (w, h float64) {
	l := m.layout()
	for _, ln := range l.lines {
		w = max(w, ln.Width)
	}
	return w, float64(len(l.lines)) * m.metrics.LineHeight()
}
