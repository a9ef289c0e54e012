package widgets

import (
	"github.com/go-drift/gadget/pkg/canvas"
	"github.com/go-drift/gadget/pkg/element"
	"github.com/go-drift/gadget/pkg/graphics"
)

// Div is a container element. It paints an optional background colour
// behind its children, which are positioned by their own x and y.
//
//	div := v.Children().AppendElement("div", "panel").(*widgets.Div)
//	div.SetBackground(graphics.RGB(240, 240, 240))
//	div.Children().AppendElement("label", "title")
type Div struct {
	element.BasicElement

	background graphics.Color
}

// NewDiv is the element.Creator for "div".
func NewDiv(parent element.Element, view element.ViewContext, name string) element.Element {
	d := &Div{background: graphics.ColorTransparent}
	d.Init(d, "div", parent, view, name, true)
	d.SetClass(ClassDiv, element.ClassBasicElement)
	colorProperty(&d.BasicElement, "background", d.Background, d.SetBackground, graphics.ColorTransparent)
	return d
}

func (d *Div) Background() graphics.Color { return d.background }

// SetBackground sets the fill colour. A fully transparent colour paints
// nothing.
func (d *Div) SetBackground(c graphics.Color) {
	if c == d.background {
		return
	}
	d.background = c
	queueDraw(&d.BasicElement)
}

func (d *Div) DoDraw(c canvas.Canvas) {
	if d.background.Alpha() > 0 {
		c.DrawFilledRect(0, 0, d.Width(), d.Height(), d.background)
	}
}
