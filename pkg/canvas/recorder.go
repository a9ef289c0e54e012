package canvas

import "github.com/go-drift/gadget/pkg/graphics"

// Op is one recorded canvas call.
type Op struct {
	Name  string
	Args  []float64
	Text  string
	Color graphics.Color
}

// Recorder is a Canvas that records every call instead of drawing.
type Recorder struct {
	width, height float64
	depth         int
	Ops           []Op
}

// NewRecorder returns an empty recorder of the given logical size.
func NewRecorder(w, h float64) *Recorder {
	return &Recorder{width: w, height: h}
}

func (r *Recorder) record(name string, args ...float64) {
	r.Ops = append(r.Ops, Op{Name: name, Args: args})
}

// Names returns the recorded op names in order.
func (r *Recorder) Names() []string {
	names := make([]string, len(r.Ops))
	for i, op := range r.Ops {
		names[i] = op.Name
	}
	return names
}

// Reset drops all recorded ops.
func (r *Recorder) Reset() {
	r.Ops = nil
	r.depth = 0
}

func (r *Recorder) Width() float64  { return r.width }
func (r *Recorder) Height() float64 { return r.height }

func (r *Recorder) PushState() {
	r.depth++
	r.record("PushState")
}

func (r *Recorder) PopState() bool {
	if r.depth == 0 {
		return false
	}
	r.depth--
	r.record("PopState")
	return true
}

func (r *Recorder) MultiplyOpacity(opacity float64) bool {
	if opacity < 0 || opacity > 1 {
		return false
	}
	r.record("MultiplyOpacity", opacity)
	return true
}

func (r *Recorder) TranslateCoordinates(dx, dy float64) { r.record("Translate", dx, dy) }
func (r *Recorder) RotateCoordinates(radians float64)   { r.record("Rotate", radians) }
func (r *Recorder) ScaleCoordinates(sx, sy float64)     { r.record("Scale", sx, sy) }
func (r *Recorder) ClearCanvas()                        { r.record("Clear") }

func (r *Recorder) IntersectRectClipRegion(x, y, w, h float64) bool {
	r.record("Clip", x, y, w, h)
	return true
}

func (r *Recorder) DrawCanvas(x, y float64, src Canvas) bool {
	if src == nil {
		return false
	}
	r.record("DrawCanvas", x, y, src.Width(), src.Height())
	return true
}

func (r *Recorder) DrawFilledRect(x, y, w, h float64, c graphics.Color) bool {
	r.Ops = append(r.Ops, Op{Name: "FillRect", Args: []float64{x, y, w, h}, Color: c})
	return true
}

func (r *Recorder) DrawLine(x0, y0, x1, y1, width float64, c graphics.Color) bool {
	r.Ops = append(r.Ops, Op{Name: "Line", Args: []float64{x0, y0, x1, y1, width}, Color: c})
	return true
}

func (r *Recorder) DrawText(x, y float64, text string, c graphics.Color) bool {
	r.Ops = append(r.Ops, Op{Name: "Text", Args: []float64{x, y}, Text: text, Color: c})
	return true
}
