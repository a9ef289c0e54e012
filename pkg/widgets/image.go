package widgets

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/go-drift/gadget/pkg/canvas"
	"github.com/go-drift/gadget/pkg/element"
	"github.com/go-drift/gadget/pkg/errors"
	"github.com/go-drift/gadget/pkg/graphics"
	"github.com/go-drift/gadget/pkg/variant"
)

// Img shows a picture stretched over its bounds. The source is either a
// colour, which fills the element, or an image file in PNG, JPEG, GIF, BMP
// or WebP format. Without an explicit size the element takes the
// picture's size.
type Img struct {
	element.BasicElement

	src   string
	fill  graphics.Color
	solid bool
	pic   *canvas.Image
}

// NewImg is the element.Creator for "img".
func NewImg(parent element.Element, view element.ViewContext, name string) element.Element {
	m := &Img{}
	m.Init(m, "img", parent, view, name, false)
	m.SetClass(ClassImg, element.ClassBasicElement)
	m.RegisterProperty("src",
		func() variant.Variant { return variant.String(m.src) },
		func(v variant.Variant) bool {
			s, ok := v.ToString()
			if !ok {
				return false
			}
			if err := m.SetSrc(s); err != nil {
				errors.ReportKind("img.src", errors.KindRender, err)
			}
			return true
		})
	m.RegisterReadonly("srcWidth", func() variant.Variant {
		w, _ := m.SrcSize()
		return variant.Double(w)
	})
	m.RegisterReadonly("srcHeight", func() variant.Variant {
		_, h := m.SrcSize()
		return variant.Double(h)
	})
	return m
}

// Src returns the last source set.
func (m *Img) Src() string { return m.src }

// SetSrc sets the source. A colour string fills the element; anything else
// is read as an image file. "" clears the picture. On failure the element
// is left blank and the error returned.
func (m *Img) SetSrc(src string) error {
	m.src = src
	m.pic, m.solid = nil, false
	defer queueDraw(&m.BasicElement)
	if src == "" {
		return nil
	}
	if c, ok := graphics.ParseColor(src); ok {
		m.fill, m.solid = c, true
		return nil
	}
	pic, err := LoadImage(src)
	if err != nil {
		return err
	}
	m.pic = pic
	return nil
}

// SetCanvas shows a picture rendered elsewhere.
func (m *Img) SetCanvas(pic *canvas.Image) {
	m.src, m.pic, m.solid = "", pic, false
	queueDraw(&m.BasicElement)
}

// SrcSize returns the picture's natural size, or 0, 0.
func (m *Img) SrcSize() (float64, float64) {
	if m.pic == nil {
		return 0, 0
	}
	return m.pic.Width(), m.pic.Height()
}

func (m *Img) DefaultSize() (float64, float64) { return m.SrcSize() }

func (m *Img) DoDraw(c canvas.Canvas) {
	w, h := m.Width(), m.Height()
	if m.solid {
		c.DrawFilledRect(0, 0, w, h, m.fill)
		return
	}
	sw, sh := m.SrcSize()
	if sw <= 0 || sh <= 0 {
		return
	}
	c.PushState()
	c.ScaleCoordinates(w/sw, h/sh)
	c.DrawCanvas(0, 0, m.pic)
	c.PopState()
}

// LoadImage decodes an image file into a canvas at zoom 1.
func LoadImage(path string) (*canvas.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load image: %w", err)
	}
	defer f.Close()
	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	b := src.Bounds()
	pic := canvas.NewImage(float64(b.Dx()), float64(b.Dy()), 1)
	draw.Draw(pic.RGBA(), pic.RGBA().Bounds(), src, b.Min, draw.Src)
	return pic, nil
}
