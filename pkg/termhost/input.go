package termhost

import (
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/go-drift/gadget/pkg/binder"
	"github.com/go-drift/gadget/pkg/event"
)

var keyCodes = map[tea.KeyType]uint32{
	tea.KeyEnter:     event.CodeReturn,
	tea.KeyTab:       event.CodeTab,
	tea.KeyBackspace: event.CodeBack,
	tea.KeyEsc:       event.CodeEscape,
	tea.KeySpace:     event.CodeSpace,
	tea.KeyDelete:    event.CodeDelete,
	tea.KeyInsert:    event.CodeInsert,
	tea.KeyUp:        event.CodeUp,
	tea.KeyDown:      event.CodeDown,
	tea.KeyLeft:      event.CodeLeft,
	tea.KeyRight:     event.CodeRight,
	tea.KeyHome:      event.CodeHome,
	tea.KeyEnd:       event.CodeEnd,
	tea.KeyPgUp:      event.CodePageUp,
	tea.KeyPgDown:    event.CodePageDown,
}

var functionKeys = []tea.KeyType{
	tea.KeyF1, tea.KeyF2, tea.KeyF3, tea.KeyF4, tea.KeyF5, tea.KeyF6,
	tea.KeyF7, tea.KeyF8, tea.KeyF9, tea.KeyF10, tea.KeyF11, tea.KeyF12,
}

var shiftedCodes = map[tea.KeyType]uint32{
	tea.KeyShiftTab:   event.CodeTab,
	tea.KeyShiftUp:    event.CodeUp,
	tea.KeyShiftDown:  event.CodeDown,
	tea.KeyShiftLeft:  event.CodeLeft,
	tea.KeyShiftRight: event.CodeRight,
	tea.KeyShiftHome:  event.CodeHome,
	tea.KeyShiftEnd:   event.CodeEnd,
}

var ctrlCodes = map[tea.KeyType]uint32{
	tea.KeyCtrlUp:    event.CodeUp,
	tea.KeyCtrlDown:  event.CodeDown,
	tea.KeyCtrlLeft:  event.CodeLeft,
	tea.KeyCtrlRight: event.CodeRight,
	tea.KeyCtrlHome:  event.CodeHome,
	tea.KeyCtrlEnd:   event.CodeEnd,
}

// keyOf translates a terminal key into a key code, the character it
// produces and its modifiers. A zero code and char means the key has no
// counterpart.
func keyOf(k tea.KeyMsg) (code uint32, char rune, mod event.Modifier) {
	if k.Alt {
		mod |= event.ModAlt
	}
	if c, ok := keyCodes[k.Type]; ok {
		if k.Type == tea.KeySpace {
			char = ' '
		}
		return c, char, mod
	}
	if c, ok := shiftedCodes[k.Type]; ok {
		return c, 0, mod | event.ModShift
	}
	if c, ok := ctrlCodes[k.Type]; ok {
		return c, 0, mod | event.ModControl
	}
	for i, f := range functionKeys {
		if k.Type == f {
			return event.CodeF1 + uint32(i), 0, mod
		}
	}
	switch {
	case k.Type == tea.KeyRunes:
		if len(k.Runes) != 1 {
			return 0, 0, mod
		}
		char = k.Runes[0]
		return runeCode(char), char, mod
	case k.Type >= tea.KeyCtrlA && k.Type <= tea.KeyCtrlZ:
		return 'A' + uint32(k.Type-tea.KeyCtrlA), 0, mod | event.ModControl
	}
	return 0, 0, mod
}

// runeCode maps letters and digits to their upper-case ASCII codes and
// space to CodeSpace. Other characters carry no code.
func runeCode(r rune) uint32 {
	switch {
	case r >= 'a' && r <= 'z':
		return uint32(unicode.ToUpper(r))
	case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return uint32(r)
	case r == ' ':
		return event.CodeSpace
	}
	return 0
}

// key sends a press and, since terminals do not report releases, an
// immediate release.
func (m *Model) key(k tea.KeyMsg) {
	m.clearAlert()
	code, char, mod := keyOf(k)
	if code == 0 && char == 0 {
		if len(k.Runes) > 1 {
			for _, r := range k.Runes {
				m.binder.Key(binder.KeyPress, runeCode(r), r, mod)
			}
		}
		return
	}
	m.binder.Key(binder.KeyPress, code, char, mod)
	m.binder.Key(binder.KeyRelease, code, char, mod)
}

func modOf(e tea.MouseMsg) event.Modifier {
	var mod event.Modifier
	if e.Shift {
		mod |= event.ModShift
	}
	if e.Ctrl {
		mod |= event.ModControl
	}
	if e.Alt {
		mod |= event.ModAlt
	}
	return mod
}

func buttonOf(b tea.MouseButton) event.Button {
	switch b {
	case tea.MouseButtonLeft:
		return event.ButtonLeft
	case tea.MouseButtonRight:
		return event.ButtonRight
	case tea.MouseButtonMiddle:
		return event.ButtonMiddle
	}
	return event.ButtonNone
}

var scrolls = map[tea.MouseButton]binder.ScrollDirection{
	tea.MouseButtonWheelUp:    binder.ScrollUp,
	tea.MouseButtonWheelDown:  binder.ScrollDown,
	tea.MouseButtonWheelLeft:  binder.ScrollLeft,
	tea.MouseButtonWheelRight: binder.ScrollRight,
}

// devicePoint is the centre of cell (col, row) in device pixels.
func devicePoint(col, row int) (float64, float64) {
	return float64(col) + 0.5, float64(row*2) + 1
}

func (m *Model) mouse(e tea.MouseMsg) {
	if m.rows > 0 && e.Y >= m.rows-1 {
		return
	}
	x, y := devicePoint(e.X, e.Y)
	mod := modOf(e)

	switch e.Action {
	case tea.MouseActionMotion:
		m.binder.MouseMotion(x, y, m.buttons, mod)
	case tea.MouseActionPress:
		if dir, ok := scrolls[e.Button]; ok {
			m.binder.Scroll(x, y, dir, m.buttons, mod)
			return
		}
		b := buttonOf(e.Button)
		if b == event.ButtonNone {
			return
		}
		m.clearAlert()
		now := m.loop.Now()
		double := b == m.lastBtn && e.X == m.lastX && e.Y == m.lastY &&
			now.Sub(m.lastPress) <= DoubleClickInterval
		m.buttons |= b
		m.binder.MouseButton(binder.ButtonPress, x, y, b, mod)
		if double {
			m.binder.MouseButton(binder.ButtonDoublePress, x, y, b, mod)
			m.lastBtn = event.ButtonNone
			return
		}
		m.lastBtn, m.lastX, m.lastY, m.lastPress = b, e.X, e.Y, now
	case tea.MouseActionRelease:
		b := buttonOf(e.Button)
		if b == event.ButtonNone {
			// Legacy mouse modes do not say which button went up.
			b = m.buttons & -m.buttons
		}
		if b == event.ButtonNone {
			return
		}
		m.buttons &^= b
		m.binder.MouseButton(binder.ButtonRelease, x, y, b, mod)
	}
}
