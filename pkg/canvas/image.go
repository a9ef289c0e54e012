package canvas

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/go-drift/gadget/pkg/graphics"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
)

type imageState struct {
	m       f64.Aff3
	opacity float64
	clip    image.Rectangle
}

// Image is a software raster Canvas. Every primitive is composited through
// an affine transform from logical to device pixels, so rotated and scaled
// states draw correctly. The clip is kept as a device-space rectangle.
type Image struct {
	rgba          *image.RGBA
	width, height float64
	zoom          float64
	cur           imageState
	stack         []imageState
}

// NewImage allocates a transparent raster of logical size w x h. The
// backing image is ceil(w*zoom) x ceil(h*zoom) device pixels.
func NewImage(w, h, zoom float64) *Image {
	if zoom <= 0 {
		zoom = 1
	}
	pw := max(int(math.Ceil(w*zoom)), 1)
	ph := max(int(math.Ceil(h*zoom)), 1)
	rgba := image.NewRGBA(image.Rect(0, 0, pw, ph))
	return &Image{
		rgba:   rgba,
		width:  w,
		height: h,
		zoom:   zoom,
		cur: imageState{
			m:       f64.Aff3{zoom, 0, 0, 0, zoom, 0},
			opacity: 1,
			clip:    rgba.Bounds(),
		},
	}
}

// ImageFactory creates Image canvases.
func ImageFactory() Factory {
	return FactoryFunc(func(w, h, zoom float64) Canvas { return NewImage(w, h, zoom) })
}

// EncodePNG writes the backing pixels to w as a PNG.
func (c *Image) EncodePNG(w io.Writer) error { return png.Encode(w, c.rgba) }

// RGBA exposes the backing pixels.
func (c *Image) RGBA() *image.RGBA { return c.rgba }

// Zoom returns the device-to-logical ratio.
func (c *Image) Zoom() float64 { return c.zoom }

func (c *Image) Width() float64  { return c.width }
func (c *Image) Height() float64 { return c.height }

func (c *Image) PushState() {
	c.stack = append(c.stack, c.cur)
}

func (c *Image) PopState() bool {
	if len(c.stack) == 0 {
		return false
	}
	c.cur = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	return true
}

func (c *Image) MultiplyOpacity(opacity float64) bool {
	if opacity < 0 || opacity > 1 {
		return false
	}
	c.cur.opacity *= opacity
	return true
}

func (c *Image) TranslateCoordinates(dx, dy float64) {
	c.cur.m = mul(c.cur.m, translate(dx, dy))
}

func (c *Image) RotateCoordinates(radians float64) {
	c.cur.m = mul(c.cur.m, rotate(radians))
}

func (c *Image) ScaleCoordinates(sx, sy float64) {
	c.cur.m = mul(c.cur.m, scale(sx, sy))
}

func (c *Image) ClearCanvas() {
	draw.Draw(c.rgba, c.rgba.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

func (c *Image) IntersectRectClipRegion(x, y, w, h float64) bool {
	l, t := math.Inf(1), math.Inf(1)
	r, b := math.Inf(-1), math.Inf(-1)
	for _, p := range [4][2]float64{{x, y}, {x + w, y}, {x, y + h}, {x + w, y + h}} {
		dx, dy := apply(c.cur.m, p[0], p[1])
		l, t = math.Min(l, dx), math.Min(t, dy)
		r, b = math.Max(r, dx), math.Max(b, dy)
	}
	dev := image.Rect(int(math.Floor(l)), int(math.Floor(t)), int(math.Ceil(r)), int(math.Ceil(b)))
	c.cur.clip = c.cur.clip.Intersect(dev)
	return !c.cur.clip.Empty()
}

func (c *Image) DrawCanvas(x, y float64, src Canvas) bool {
	img, ok := src.(*Image)
	if !ok || img == nil {
		return false
	}
	inv := 1 / img.zoom
	m := mul(mul(c.cur.m, translate(x, y)), scale(inv, inv))
	c.compose(m, img.rgba, img.rgba.Bounds(), draw.ApproxBiLinear)
	return true
}

func (c *Image) DrawFilledRect(x, y, w, h float64, col graphics.Color) bool {
	if w <= 0 || h <= 0 {
		return false
	}
	m := mul(mul(c.cur.m, translate(x, y)), scale(w, h))
	c.compose(m, image.NewUniform(col.NRGBA()), image.Rect(0, 0, 1, 1), draw.NearestNeighbor)
	return true
}

func (c *Image) DrawLine(x0, y0, x1, y1, width float64, col graphics.Color) bool {
	length := math.Hypot(x1-x0, y1-y0)
	if length == 0 || width <= 0 {
		return false
	}
	angle := math.Atan2(y1-y0, x1-x0)
	m := mul(c.cur.m, translate(x0, y0))
	m = mul(m, rotate(angle))
	m = mul(m, translate(0, -width/2))
	m = mul(m, scale(length, width))
	c.compose(m, image.NewUniform(col.NRGBA()), image.Rect(0, 0, 1, 1), draw.NearestNeighbor)
	return true
}

// DrawText draws a single line with its top-left corner at (x, y).
func (c *Image) DrawText(x, y float64, text string, col graphics.Color) bool {
	if text == "" {
		return false
	}
	face := basicfont.Face7x13
	adv := font.MeasureString(face, text).Ceil()
	metrics := face.Metrics()
	h := (metrics.Ascent + metrics.Descent).Ceil()
	tmp := image.NewRGBA(image.Rect(0, 0, adv, h))
	d := font.Drawer{
		Dst:  tmp,
		Src:  image.NewUniform(col.NRGBA()),
		Face: face,
		Dot:  fixed.Point26_6{Y: metrics.Ascent},
	}
	d.DrawString(text)
	c.compose(mul(c.cur.m, translate(x, y)), tmp, tmp.Bounds(), draw.ApproxBiLinear)
	return true
}

func (c *Image) compose(m f64.Aff3, src image.Image, sr image.Rectangle, t draw.Transformer) {
	if c.cur.clip.Empty() || sr.Empty() || c.cur.opacity <= 0 {
		return
	}
	var opts draw.Options
	if c.cur.opacity < 1 {
		opts.SrcMask = image.NewUniform(color.Alpha{A: uint8(math.Round(c.cur.opacity * 255))})
	}
	dst := c.rgba.SubImage(c.cur.clip).(*image.RGBA)
	t.Transform(dst, m, src, sr, draw.Over, &opts)
}

func mul(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3], a[0]*b[1] + a[1]*b[4], a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3], a[3]*b[1] + a[4]*b[4], a[3]*b[2] + a[4]*b[5] + a[5],
	}
}

func apply(m f64.Aff3, x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

func translate(dx, dy float64) f64.Aff3 { return f64.Aff3{1, 0, dx, 0, 1, dy} }
func scale(sx, sy float64) f64.Aff3     { return f64.Aff3{sx, 0, 0, 0, sy, 0} }

func rotate(radians float64) f64.Aff3 {
	sin, cos := math.Sincos(radians)
	return f64.Aff3{cos, -sin, 0, sin, cos, 0}
}
