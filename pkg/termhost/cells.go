package termhost

import (
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/go-drift/gadget/pkg/canvas"
	"github.com/go-drift/gadget/pkg/graphics"
)

const (
	upperHalf = '▀'
	lowerHalf = '▄'
)

// opaqueThreshold is the alpha below which a pixel is left to the
// terminal background.
const opaqueThreshold = 0x80

// Cell is one terminal cell. A zero colour means the terminal background
// shows through.
type Cell struct {
	Top, Bottom graphics.Color
}

// Rune is the glyph that paints the cell.
func (c Cell) Rune() rune {
	switch {
	case c.Top != 0:
		return upperHalf
	case c.Bottom != 0:
		return lowerHalf
	}
	return ' '
}

func (c Cell) style(r *lipgloss.Renderer) lipgloss.Style {
	s := r.NewStyle()
	switch {
	case c.Top != 0:
		s = s.Foreground(lipgloss.Color(c.Top.String()))
		if c.Bottom != 0 {
			s = s.Background(lipgloss.Color(c.Bottom.String()))
		}
	case c.Bottom != 0:
		s = s.Foreground(lipgloss.Color(c.Bottom.String()))
	}
	return s
}

// pixel reads the straight colour at (x, y), or 0 when transparent.
func pixel(img *image.RGBA, x, y int) graphics.Color {
	if !(image.Point{x, y}).In(img.Bounds()) {
		return 0
	}
	p := img.RGBAAt(x, y)
	if p.A < opaqueThreshold {
		return 0
	}
	unmul := func(c uint8) uint8 { return uint8(uint32(c) * 0xFF / uint32(p.A)) }
	return graphics.RGB(unmul(p.R), unmul(p.G), unmul(p.B))
}

// Cells paints the view at its current zoom and folds the device pixels
// into rows of cells, clipped to the terminal area above the status line.
func (m *Model) Cells() [][]Cell {
	v := m.view
	img := canvas.NewImage(v.Width(), v.Height(), v.Graphics().Zoom())
	v.Draw(img)
	rgba := img.RGBA()

	b := rgba.Bounds()
	cols, rows := b.Dx(), (b.Dy()+1)/2
	if m.cols > 0 {
		cols = min(cols, m.cols)
	}
	if m.rows > 1 {
		rows = min(rows, m.rows-1)
	}
	out := make([][]Cell, rows)
	for row := range out {
		line := make([]Cell, cols)
		for col := range line {
			line[col] = Cell{
				Top:    pixel(rgba, col, row*2),
				Bottom: pixel(rgba, col, row*2+1),
			}
		}
		out[row] = line
	}
	return out
}

func (m *Model) render() string {
	var sb strings.Builder
	for i, line := range m.Cells() {
		if i > 0 {
			sb.WriteByte('\n')
		}
		// Runs of equal cells share one styled span.
		for start := 0; start < len(line); {
			end := start + 1
			for end < len(line) && line[end] == line[start] {
				end++
			}
			run := strings.Repeat(string(line[start].Rune()), end-start)
			sb.WriteString(line[start].style(m.renderer).Render(run))
			start = end
		}
	}
	if status := m.statusLine(); status != "" {
		sb.WriteByte('\n')
		sb.WriteString(status)
	}
	return sb.String()
}
