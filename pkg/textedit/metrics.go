package textedit

import (
	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Metrics measures runes for cursor placement and hit testing.
type Metrics interface {
	// Advance returns the horizontal advance of r in pixels.
	Advance(r rune) float64
	// LineHeight returns the distance between baselines in pixels.
	LineHeight() float64
}

const tabCells = 4

type cellMetrics struct {
	cell   float64
	height float64
}

// FaceMetrics derives cell metrics from a monospaced face. One cell is the
// advance of 'M'; each rune spans runewidth.RuneWidth cells, so wide CJK
// runes take two and combining marks none.
func FaceMetrics(face font.Face) Metrics {
	adv, ok := face.GlyphAdvance('M')
	if !ok {
		adv = fixed.I(7)
	}
	return cellMetrics{
		cell:   float64(adv) / 64,
		height: float64(face.Metrics().Height) / 64,
	}
}

// DefaultMetrics matches the 7x13 face the software canvas draws text with.
var DefaultMetrics = FaceMetrics(basicfont.Face7x13)

func (m cellMetrics) Advance(r rune) float64 {
	switch r {
	case '\t':
		return m.cell * tabCells
	case '\n':
		return 0
	}
	return m.cell * float64(runewidth.RuneWidth(r))
}

func (m cellMetrics) LineHeight() float64 { return m.height }

// TextWidth returns the advance of s under m.
func TextWidth(m Metrics, s string) float64 {
	w := 0.0
	for _, r := range s {
		w += m.Advance(r)
	}
	return w
}
