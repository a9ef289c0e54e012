package widgets

import (
	"errors"

	"github.com/go-drift/gadget/pkg/element"
	"github.com/go-drift/gadget/pkg/extension"
	"github.com/go-drift/gadget/pkg/graphics"
	"github.com/go-drift/gadget/pkg/textedit"
	"github.com/go-drift/gadget/pkg/variant"
)

// Scriptable class ids of the element kinds.
const (
	ClassDiv    uint64 = 0x726dc40b1b8a4d5e
	ClassButton uint64 = 0x6c5a8d3e1f7b4a92
	ClassImg    uint64 = 0x95b8f9c2e7d04f13
	ClassLabel  uint64 = 0x4e3a1bd9c8f25a60
	ClassEdit   uint64 = 0x3d1c2a9e8f6b4c07
)

// Default colours.
var (
	DefaultTextColor       = graphics.RGB(0, 0, 0)
	DefaultEditBackground  = graphics.RGB(255, 255, 255)
	DefaultSelectionColor  = graphics.RGB(0x33, 0x99, 0xff).WithAlpha(0.5)
	DefaultButtonColor     = graphics.RGB(0xdd, 0xdd, 0xdd)
	DefaultButtonOverColor = graphics.RGB(0xee, 0xee, 0xee)
	DefaultButtonDownColor = graphics.RGB(0xbb, 0xbb, 0xbb)
	DefaultDisabledColor   = graphics.RGB(0xcc, 0xcc, 0xcc)
)

var errDuplicateTag = errors.New("widgets: element tag already registered")

// Register adds div, button, img, label and edit to f. Tags already taken
// are left alone; the result reports whether every kind was added.
func Register(f *element.Factory) bool {
	ok := f.Register("div", NewDiv)
	ok = f.Register("button", NewButton) && ok
	ok = f.Register("img", NewImg) && ok
	ok = f.Register("label", NewLabel) && ok
	ok = f.Register("edit", NewEdit) && ok
	return ok
}

// Extension returns the widget kinds as an extension named "widgets".
func Extension() extension.Extension {
	return extension.Extension{
		Name: "widgets",
		Init: func(f *element.Factory) error {
			if !Register(f) {
				return errDuplicateTag
			}
			return nil
		},
	}
}

// colorProperty registers a colour property on e. Any string ParseColor
// accepts is valid; "" resets the colour to def.
func colorProperty(e *element.BasicElement, name string, get func() graphics.Color, set func(graphics.Color), def graphics.Color) {
	e.RegisterProperty(name,
		func() variant.Variant { return variant.String(get().String()) },
		func(v variant.Variant) bool {
			s, ok := v.ToString()
			if !ok {
				return false
			}
			if s == "" {
				set(def)
				return true
			}
			c, ok := graphics.ParseColor(s)
			if ok {
				set(c)
			}
			return ok
		})
}

func stringProperty(e *element.BasicElement, name string, get func() string, set func(string)) {
	e.RegisterProperty(name,
		func() variant.Variant { return variant.String(get()) },
		func(v variant.Variant) bool {
			s, ok := v.ToString()
			if ok {
				set(s)
			}
			return ok
		})
}

func boolProperty(e *element.BasicElement, name string, get func() bool, set func(bool)) {
	e.RegisterProperty(name,
		func() variant.Variant { return variant.Bool(get()) },
		func(v variant.Variant) bool {
			b, ok := v.ToBool()
			if ok {
				set(b)
			}
			return ok
		})
}

func queueDraw(e *element.BasicElement) {
	if v := e.View(); v != nil {
		v.QueueDraw()
	}
}

// textExtent measures s, which may span several lines, in the default
// metrics.
func textExtent(lines []string) (w, h float64) {
	m := textedit.DefaultMetrics
	for _, l := range lines {
		w = max(w, textedit.TextWidth(m, l))
	}
	return w, float64(len(lines)) * m.LineHeight()
}
