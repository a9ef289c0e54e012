// Package canvas defines the drawing contract the element tree paints
// through, plus two backends: a Recorder for tests and tooling, and an
// Image raster canvas built on golang.org/x/image.
package canvas

import (
	"github.com/go-drift/gadget/pkg/graphics"
	"github.com/go-drift/gadget/pkg/signal"
	"github.com/go-drift/gadget/pkg/variant"
)

// Canvas is a stateful drawing surface. Coordinates are in the canvas'
// logical pixels, transformed by the current state.
type Canvas interface {
	Width() float64
	Height() float64

	// PushState saves transform, opacity and clip. PopState restores the
	// most recent saved state and reports false if there was none.
	PushState()
	PopState() bool

	// MultiplyOpacity scales the current opacity. Values outside [0, 1]
	// are rejected.
	MultiplyOpacity(opacity float64) bool
	TranslateCoordinates(dx, dy float64)
	RotateCoordinates(radians float64)
	ScaleCoordinates(sx, sy float64)

	ClearCanvas()
	IntersectRectClipRegion(x, y, w, h float64) bool

	DrawCanvas(x, y float64, src Canvas) bool
	DrawFilledRect(x, y, w, h float64, c graphics.Color) bool
	DrawLine(x0, y0, x1, y1, width float64, c graphics.Color) bool
	DrawText(x, y float64, text string, c graphics.Color) bool
}

// Factory creates canvases. zoom is the ratio of device pixels to logical
// pixels.
type Factory interface {
	NewCanvas(w, h, zoom float64) Canvas
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(w, h, zoom float64) Canvas

func (f FactoryFunc) NewCanvas(w, h, zoom float64) Canvas { return f(w, h, zoom) }

// Graphics is the zoom context shared by a view and the views nested in it.
// Only the owning view changes the zoom; observers subscribe to OnZoom.
type Graphics struct {
	zoom    float64
	factory Factory
	// OnZoom fires with the new zoom after it changes.
	OnZoom *signal.Signal
}

// NewGraphics returns a zoom context. A nil factory creates Recorders.
func NewGraphics(zoom float64, factory Factory) *Graphics {
	if zoom <= 0 {
		zoom = 1
	}
	if factory == nil {
		factory = FactoryFunc(func(w, h, zoom float64) Canvas { return NewRecorder(w, h) })
	}
	return &Graphics{
		zoom:    zoom,
		factory: factory,
		OnZoom:  signal.New(variant.TypeVoid, variant.TypeDouble),
	}
}

// Zoom returns the current zoom.
func (g *Graphics) Zoom() float64 { return g.zoom }

// SetZoom changes the zoom. Non-positive values are ignored.
func (g *Graphics) SetZoom(zoom float64) {
	if zoom <= 0 || zoom == g.zoom {
		return
	}
	g.zoom = zoom
	g.OnZoom.Emit(variant.Double(zoom))
}

// NewCanvas creates a canvas of logical size w x h at the current zoom.
func (g *Graphics) NewCanvas(w, h float64) Canvas {
	return g.factory.NewCanvas(w, h, g.zoom)
}
