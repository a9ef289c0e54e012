package widgets

import (
	"github.com/go-drift/gadget/pkg/canvas"
	"github.com/go-drift/gadget/pkg/element"
	"github.com/go-drift/gadget/pkg/event"
	"github.com/go-drift/gadget/pkg/graphics"
)

const (
	buttonPadX = 8
	buttonPadY = 4
)

// Button is a captioned push button.
//
// The face colour follows the pointer: Color normally, OverColor while the
// pointer is over the button, DownColor while the left button is held on
// it, and DisabledColor when the button is disabled. Clicks are reported
// through the element's onclick signal:
//
//	btn := v.Children().AppendElement("button", "ok").(*widgets.Button)
//	btn.SetCaption("OK")
//	btn.ConnectEvent(event.MouseClick, submit)
type Button struct {
	element.BasicElement

	caption string

	color, overColor, downColor, disabledColor graphics.Color
	textColor                                  graphics.Color

	over bool
	down bool
}

// NewButton is the element.Creator for "button".
func NewButton(parent element.Element, view element.ViewContext, name string) element.Element {
	b := &Button{
		color:         DefaultButtonColor,
		overColor:     DefaultButtonOverColor,
		downColor:     DefaultButtonDownColor,
		disabledColor: DefaultDisabledColor,
		textColor:     DefaultTextColor,
	}
	b.Init(b, "button", parent, view, name, false)
	b.SetClass(ClassButton, element.ClassBasicElement)
	b.SetCursor(element.CursorHand)

	base := &b.BasicElement
	stringProperty(base, "caption", b.Caption, b.SetCaption)
	colorProperty(base, "color", func() graphics.Color { return b.color }, b.setter(&b.color), DefaultButtonColor)
	colorProperty(base, "overColor", func() graphics.Color { return b.overColor }, b.setter(&b.overColor), DefaultButtonOverColor)
	colorProperty(base, "downColor", func() graphics.Color { return b.downColor }, b.setter(&b.downColor), DefaultButtonDownColor)
	colorProperty(base, "disabledColor", func() graphics.Color { return b.disabledColor }, b.setter(&b.disabledColor), DefaultDisabledColor)
	colorProperty(base, "textColor", func() graphics.Color { return b.textColor }, b.setter(&b.textColor), DefaultTextColor)
	return b
}

func (b *Button) setter(field *graphics.Color) func(graphics.Color) {
	return func(c graphics.Color) {
		*field = c
		queueDraw(&b.BasicElement)
	}
}

func (b *Button) Caption() string { return b.caption }

func (b *Button) SetCaption(s string) {
	if s == b.caption {
		return
	}
	b.caption = s
	queueDraw(&b.BasicElement)
}

// Over reports whether the pointer is over the button.
func (b *Button) Over() bool { return b.over }

// Down reports whether the button is pressed.
func (b *Button) Down() bool { return b.down }

// FaceColor returns the colour for the current state.
func (b *Button) FaceColor() graphics.Color {
	switch {
	case !b.ReallyEnabled():
		return b.disabledColor
	case b.down:
		return b.downColor
	case b.over:
		return b.overColor
	}
	return b.color
}

// DefaultSize fits the caption plus padding.
func (b *Button) DefaultSize() (float64, float64) {
	w, h := textExtent([]string{b.caption})
	return w + 2*buttonPadX, h + 2*buttonPadY
}

func (b *Button) HandleMouseEvent(ev event.MouseEvent) event.Result {
	changed := true
	switch ev.Kind {
	case event.MouseDown:
		if ev.Button&event.ButtonLeft == 0 {
			return event.Unhandled
		}
		b.down = true
	case event.MouseUp:
		b.down = false
	case event.MouseOver:
		b.over = true
	case event.MouseOut:
		b.over = false
		b.down = false
	default:
		changed = false
	}
	if !changed {
		return event.Unhandled
	}
	queueDraw(&b.BasicElement)
	return event.Handled
}

func (b *Button) DoDraw(c canvas.Canvas) {
	w, h := b.Width(), b.Height()
	c.DrawFilledRect(0, 0, w, h, b.FaceColor())
	if b.caption == "" {
		return
	}
	tw, th := textExtent([]string{b.caption})
	col := b.textColor
	if !b.ReallyEnabled() {
		col = col.WithAlpha(col.Alpha() / 2)
	}
	c.DrawText((w-tw)/2, (h-th)/2, b.caption, col)
}
