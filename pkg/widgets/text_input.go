package widgets

import (
	"unicode/utf8"

	"github.com/go-drift/gadget/pkg/canvas"
	"github.com/go-drift/gadget/pkg/element"
	"github.com/go-drift/gadget/pkg/event"
	"github.com/go-drift/gadget/pkg/graphics"
	"github.com/go-drift/gadget/pkg/signal"
	"github.com/go-drift/gadget/pkg/textedit"
	"github.com/go-drift/gadget/pkg/variant"
)

// editPadding separates the text from the edit's border.
const editPadding = 2

// SharedClipboard is the clipboard every edit uses unless given another.
var SharedClipboard = &textedit.MemoryClipboard{}

// Edit is a text field. Text state lives in a [textedit.Model]; Edit maps
// keys and mouse gestures onto it, keeps the cursor scrolled into view and
// paints the text, selection and cursor.
//
// Keys:
//
//	Left, Right        move by character; with ctrl by word
//	Up, Down           move by display line
//	Home, End          move to the line ends; with ctrl to the buffer ends
//	PageUp, PageDown   move by page; with ctrl to the buffer ends
//	ctrl+X, shift+Del  cut
//	ctrl+C, ctrl+Ins   copy
//	ctrl+V, shift+Ins  paste
//	Backspace, Delete  delete backwards and forwards
//	Insert             toggle overwrite
//
// Shift extends the selection for every move. Return and Tab insert a
// line break and a tab in a multiline edit only; in a single line edit
// they are left to the view, which moves focus on Tab.
//
// The onchange signal fires after every change to the text.
type Edit struct {
	element.BasicElement

	model    *textedit.Model
	onchange *signal.Signal

	background graphics.Color
	color      graphics.Color
	selection  graphics.Color

	scrollX, scrollY float64
}

// NewEdit is the element.Creator for "edit".
func NewEdit(parent element.Element, view element.ViewContext, name string) element.Element {
	e := &Edit{
		model:      textedit.New(),
		onchange:   signal.Void(),
		background: DefaultEditBackground,
		color:      DefaultTextColor,
		selection:  DefaultSelectionColor,
	}
	e.Init(e, "edit", parent, view, name, false)
	e.SetClass(ClassEdit, element.ClassBasicElement)
	e.SetFocusable(true)
	e.SetCursor(element.CursorIBeam)
	e.model.SetClipboard(SharedClipboard)
	e.model.OnChange.Connect(signal.NewSlot(e.changed))
	e.registerProperties()
	return e
}

func (e *Edit) registerProperties() {
	base := &e.BasicElement
	m := e.model
	stringProperty(base, "value", e.Value, e.SetValue)
	boolProperty(base, "readonly", m.ReadOnly, func(b bool) { m.SetReadOnly(b); e.update() })
	boolProperty(base, "multiline", m.Multiline, e.SetMultiline)
	boolProperty(base, "wordWrap", m.WordWrap, func(b bool) { m.SetWordWrap(b); e.update() })
	e.RegisterProperty("passwordChar",
		func() variant.Variant {
			if m.Visible() {
				return variant.String("")
			}
			return variant.String(string(m.PasswordChar()))
		},
		func(v variant.Variant) bool {
			s, ok := v.ToString()
			if ok {
				e.SetPasswordChar(s)
			}
			return ok
		})
	colorProperty(base, "background", func() graphics.Color { return e.background },
		func(c graphics.Color) { e.background = c; e.update() }, DefaultEditBackground)
	colorProperty(base, "color", func() graphics.Color { return e.color },
		func(c graphics.Color) { e.color = c; e.update() }, DefaultTextColor)
	e.RegisterReadonly("selectedText", func() variant.Variant { return variant.String(m.SelectedText()) })
	e.RegisterSignal(event.Change.Handler(), e.onchange)
	e.RegisterMethod("select", func(start, end int64) { e.Select(int(start), int(end)) })
	e.RegisterMethod("selectAll", e.SelectAll)
}

// Model returns the underlying text state.
func (e *Edit) Model() *textedit.Model { return e.model }

// OnChange returns the onchange signal.
func (e *Edit) OnChange() *signal.Signal { return e.onchange }

func (e *Edit) Value() string { return e.model.Text() }

func (e *Edit) SetValue(s string) {
	e.model.SetText(s)
	e.update()
}

// SetMultiline switches between one and many lines. Leaving multiline
// mode keeps existing line breaks in the buffer.
func (e *Edit) SetMultiline(ml bool) {
	e.model.SetMultiline(ml)
	e.update()
}

// SetPasswordChar masks the text with the first rune of s. "" shows the
// text.
func (e *Edit) SetPasswordChar(s string) {
	if s == "" {
		e.model.SetVisibility(true)
	} else {
		r, _ := utf8.DecodeRuneInString(s)
		e.model.SetPasswordChar(r)
		e.model.SetVisibility(false)
	}
	e.update()
}

// Select selects [start, end) with the cursor at end.
func (e *Edit) Select(start, end int) {
	e.model.SetSelectionBounds(start, end)
	e.update()
}

func (e *Edit) SelectAll() {
	e.model.SelectAll()
	e.update()
}

// SetPreedit shows an input method composition at the cursor.
func (e *Edit) SetPreedit(text string, cursor int) {
	e.model.SetPreedit(text, cursor)
	e.update()
}

// CommitPreedit enters the composition as typed text.
func (e *Edit) CommitPreedit() {
	e.model.CommitPreedit()
	e.update()
}

// ResetPreedit drops the composition.
func (e *Edit) ResetPreedit() {
	e.model.ResetPreedit()
	e.update()
}

func (e *Edit) changed() {
	if v := e.View(); v != nil && e.onchange.HasActiveConnections() {
		v.FireEvent(event.SimpleEvent{Kind: event.Change}, e.onchange, e)
	}
}

// syncSize keeps the model's content box in step with the element.
func (e *Edit) syncSize() {
	e.model.SetSize(max(e.Width()-2*editPadding, 0), max(e.Height()-2*editPadding, 0))
}

// update scrolls the cursor into view and redraws.
func (e *Edit) update() {
	e.syncSize()
	w, h := e.model.Size()
	x, y, lh := e.model.CursorLocation()
	if e.model.WordWrap() {
		e.scrollX = 0
	} else if x < e.scrollX {
		e.scrollX = x
	} else if x > e.scrollX+w {
		e.scrollX = x - w
	}
	if y < e.scrollY {
		e.scrollY = y
	} else if y+lh > e.scrollY+h {
		e.scrollY = max(y+lh-h, 0)
	}
	queueDraw(&e.BasicElement)
}

// Scroll returns the offset of the content box's origin.
func (e *Edit) Scroll() (x, y float64) { return e.scrollX, e.scrollY }

// offsetAt maps a point in element space to a buffer offset.
func (e *Edit) offsetAt(x, y float64) int {
	e.syncSize()
	return e.model.XYToOffset(x-editPadding+e.scrollX, y-editPadding+e.scrollY)
}

func (e *Edit) HandleKeyEvent(ev event.KeyboardEvent) event.Result {
	var r event.Result
	switch ev.Kind {
	case event.KeyDown:
		r = e.keyDown(ev.KeyCode, ev.Modifier)
	case event.KeyPress:
		r = e.keyPress(ev.KeyCode, ev.Modifier)
	}
	if r == event.Handled {
		e.update()
	}
	return r
}

func (e *Edit) keyDown(code uint32, mod event.Modifier) event.Result {
	m := e.model
	shift, ctrl, alt := mod.Has(event.ModShift), mod.Has(event.ModControl), mod.Has(event.ModAlt)
	move := func(step textedit.MovementStep, count int) event.Result {
		m.MoveCursor(step, count, shift)
		return event.Handled
	}
	pick := func(plain, withCtrl textedit.MovementStep) textedit.MovementStep {
		if ctrl {
			return withCtrl
		}
		return plain
	}
	switch code {
	case event.CodeLeft:
		return move(pick(textedit.Visually, textedit.Words), -1)
	case event.CodeRight:
		return move(pick(textedit.Visually, textedit.Words), 1)
	case event.CodeUp:
		return move(textedit.DisplayLines, -1)
	case event.CodeDown:
		return move(textedit.DisplayLines, 1)
	case event.CodeHome:
		return move(pick(textedit.DisplayLineEnds, textedit.Buffer), -1)
	case event.CodeEnd:
		return move(pick(textedit.DisplayLineEnds, textedit.Buffer), 1)
	case event.CodePageUp:
		return move(pick(textedit.Pages, textedit.Buffer), -1)
	case event.CodePageDown:
		return move(pick(textedit.Pages, textedit.Buffer), 1)
	case 'X':
		if ctrl && !shift && !alt {
			m.Cut()
			return event.Handled
		}
	case 'C':
		if ctrl && !shift && !alt {
			m.Copy()
			return event.Handled
		}
	case 'V':
		if ctrl && !shift && !alt {
			m.Paste()
			return event.Handled
		}
	case event.CodeBack:
		m.BackSpace()
		return event.Handled
	case event.CodeDelete:
		switch {
		case shift && !ctrl:
			m.Cut()
		case !shift:
			m.Delete()
		default:
			return event.Unhandled
		}
		return event.Handled
	case event.CodeInsert:
		switch {
		case shift && !ctrl && !alt:
			m.Paste()
		case ctrl && !shift && !alt:
			m.Copy()
		case mod == event.ModNone:
			m.ToggleOverwrite()
		}
		return event.Handled
	case event.CodeTab:
		// Claimed so the matching keypress inserts instead of moving focus.
		return event.Handled
	case event.CodeReturn:
		if m.Multiline() {
			return event.Handled
		}
	}
	return event.Unhandled
}

func (e *Edit) keyPress(code uint32, mod event.Modifier) event.Result {
	m := e.model
	switch {
	case code == '\t':
		m.EnterText("\t")
	case code == '\r' || code == '\n':
		if !m.Multiline() {
			return event.Unhandled
		}
		m.EnterText("\n")
	case code < 0x20 || code == 0x7f || mod.Has(event.ModControl) || !utf8.ValidRune(rune(code)):
		return event.Unhandled
	default:
		m.EnterText(string(rune(code)))
	}
	return event.Handled
}

func (e *Edit) HandleMouseEvent(ev event.MouseEvent) event.Result {
	if ev.Button&event.ButtonLeft == 0 {
		return event.Unhandled
	}
	m := e.model
	shift := ev.Modifier.Has(event.ModShift)
	switch ev.Kind {
	case event.MouseDown:
		off := e.offsetAt(ev.X, ev.Y)
		if !shift {
			m.SetCursor(off)
			break
		}
		start, end, ok := m.SelectionBounds()
		switch {
		case !ok:
			m.SetSelectionBounds(m.Cursor(), off)
		case off <= start:
			m.SetSelectionBounds(end, off)
		case off >= end:
			m.SetSelectionBounds(start, off)
		default:
			m.SetCursor(off)
		}
	case event.MouseDblClick:
		if shift {
			m.SelectLine()
		} else {
			m.SelectWord()
		}
	case event.MouseMove:
		m.SetSelectionBounds(m.SelectionBound(), e.offsetAt(ev.X, ev.Y))
	case event.MouseUp, event.MouseClick:
	default:
		return event.Unhandled
	}
	e.update()
	return event.Handled
}

func (e *Edit) HandleOtherEvent(ev event.Event) event.Result {
	switch ev.Type() {
	case event.FocusOut:
		e.model.ResetPreedit()
		queueDraw(&e.BasicElement)
	case event.FocusIn:
		queueDraw(&e.BasicElement)
	case event.Size:
		e.update()
	}
	return event.Unhandled
}

// DefaultSize fits one line of text.
func (e *Edit) DefaultSize() (float64, float64) {
	return 100, textedit.DefaultMetrics.LineHeight() + 2*editPadding
}

func (e *Edit) focused() bool {
	v := e.View()
	return v != nil && v.FocusedElement() == element.Element(e)
}

func (e *Edit) DoDraw(c canvas.Canvas) {
	e.syncSize()
	m := e.model
	if e.background.Alpha() > 0 {
		c.DrawFilledRect(0, 0, e.Width(), e.Height(), e.background)
	}
	c.PushState()
	defer c.PopState()
	c.IntersectRectClipRegion(editPadding, editPadding, e.Width()-2*editPadding, e.Height()-2*editPadding)
	c.TranslateCoordinates(editPadding-e.scrollX, editPadding-e.scrollY)

	for _, r := range m.SelectionRects() {
		c.DrawFilledRect(r.Left, r.Top, r.Width(), r.Height(), e.selection)
	}
	lh := m.Metrics().LineHeight()
	for i, ln := range m.Lines() {
		c.DrawText(0, float64(i)*lh, m.LineText(ln), e.color)
	}
	if e.focused() && !m.ReadOnly() {
		x, y, h := m.CursorLocation()
		c.DrawLine(x, y, x, y+h, 1, e.color)
	}
}
