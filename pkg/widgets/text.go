package widgets

import (
	"strings"

	"github.com/go-drift/gadget/pkg/canvas"
	"github.com/go-drift/gadget/pkg/element"
	"github.com/go-drift/gadget/pkg/graphics"
	"github.com/go-drift/gadget/pkg/textedit"
	"github.com/go-drift/gadget/pkg/variant"
)

// Align is the horizontal alignment of label text.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

var alignNames = [...]string{"left", "center", "right"}

func (a Align) String() string {
	if a >= 0 && int(a) < len(alignNames) {
		return alignNames[a]
	}
	return "left"
}

// ParseAlign parses "left", "center" or "right".
func ParseAlign(s string) (Align, bool) {
	for i, n := range alignNames {
		if strings.EqualFold(s, n) {
			return Align(i), true
		}
	}
	return AlignLeft, false
}

// Label draws static text. Lines are separated by "\n" and aligned within
// the label's width.
type Label struct {
	element.BasicElement

	text  string
	lines []string
	color graphics.Color
	align Align
}

// NewLabel is the element.Creator for "label".
func NewLabel(parent element.Element, view element.ViewContext, name string) element.Element {
	l := &Label{color: DefaultTextColor, lines: []string{""}}
	l.Init(l, "label", parent, view, name, false)
	l.SetClass(ClassLabel, element.ClassBasicElement)

	base := &l.BasicElement
	stringProperty(base, "text", l.Text, l.SetText)
	colorProperty(base, "color", l.Color, l.SetColor, DefaultTextColor)
	l.RegisterProperty("align",
		func() variant.Variant { return variant.String(l.align.String()) },
		func(v variant.Variant) bool {
			s, _ := v.ToString()
			a, ok := ParseAlign(s)
			if ok {
				l.align = a
				queueDraw(base)
			}
			return ok
		})
	return l
}

func (l *Label) Text() string          { return l.text }
func (l *Label) Color() graphics.Color { return l.color }
func (l *Label) Align() Align          { return l.align }

func (l *Label) SetText(s string) {
	if s == l.text {
		return
	}
	l.text = s
	l.lines = strings.Split(s, "\n")
	queueDraw(&l.BasicElement)
}

func (l *Label) SetColor(c graphics.Color) {
	l.color = c
	queueDraw(&l.BasicElement)
}

func (l *Label) SetAlign(a Align) {
	l.align = a
	queueDraw(&l.BasicElement)
}

// DefaultSize is the extent of the text.
func (l *Label) DefaultSize() (float64, float64) { return textExtent(l.lines) }

func (l *Label) DoDraw(c canvas.Canvas) {
	m := textedit.DefaultMetrics
	w := l.Width()
	for i, line := range l.lines {
		x := 0.0
		switch l.align {
		case AlignCenter:
			x = (w - textedit.TextWidth(m, line)) / 2
		case AlignRight:
			x = w - textedit.TextWidth(m, line)
		}
		c.DrawText(x, float64(i)*m.LineHeight(), line, l.color)
	}
}
