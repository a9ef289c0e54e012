// Package element implements the scene graph nodes of a view: the Element
// capability set, the BasicElement every kind builds on, and the ordered
// Elements collection that owns children.
//
// Z-order: index 0 of an Elements collection is the bottom-most element and
// the last index is the top-most. Drawing walks 0..n-1 (back to front); hit
// testing walks n-1..0 (front to back).
package element

import (
	"slices"
	"time"

	"github.com/go-drift/gadget/pkg/canvas"
	"github.com/go-drift/gadget/pkg/errors"
	"github.com/go-drift/gadget/pkg/event"
	"github.com/go-drift/gadget/pkg/scriptable"
	"github.com/go-drift/gadget/pkg/signal"
)

// Element is the capability set every node provides. Element kinds embed
// BasicElement, which supplies all methods, and override the hooks they
// need (DoDraw, HitTestAt, the Handle* methods, DefaultSize). Kinds that
// redirect whole events, such as a nested view, override the On* methods.
type Element interface {
	scriptable.Interface

	// Base returns the embedded BasicElement.
	Base() *BasicElement
	Tag() string

	Layout()
	Draw(c canvas.Canvas)
	DoDraw(c canvas.Canvas)
	DefaultSize() (w, h float64)

	// HitTestAt classifies a point in the element's own space.
	HitTestAt(x, y float64) HitTest

	// OnMouseEvent dispatches ev, given in the element's own space. direct
	// events skip the children and hit testing. fired is the element whose
	// handlers ran; in is the element that claimed the point.
	OnMouseEvent(ev event.MouseEvent, direct bool) (r event.Result, fired, in Element)
	OnDragEvent(ev event.DragEvent, direct bool) (r event.Result, fired, in Element)
	OnKeyEvent(ev event.KeyboardEvent) event.Result
	OnOtherEvent(ev event.Event) event.Result

	// Default handling, run after script handlers unless they cancel.
	HandleMouseEvent(ev event.MouseEvent) event.Result
	HandleDragEvent(ev event.DragEvent) event.Result
	HandleKeyEvent(ev event.KeyboardEvent) event.Result
	HandleOtherEvent(ev event.Event) event.Result

	Destroy()
}

// ViewContext is the part of a view elements talk to. References from an
// element to its view are non-owning.
type ViewContext interface {
	Graphics() *canvas.Graphics
	Width() float64
	Height() float64
	Children() *Elements
	Factory() *Factory

	// FireEvent emits sig with ev exposed as the current script event and
	// returns Canceled if a handler set returnValue to false.
	FireEvent(ev event.Event, sig *signal.Signal, src Element) event.Result

	OnElementAdd(e Element)
	OnElementRemove(e Element)
	QueueDraw()

	SetFocus(e Element) bool
	FocusedElement() Element

	SetTimeout(d time.Duration, fn func()) int
	SetInterval(d time.Duration, fn func()) int
	ClearTimeout(id int)
	ClearInterval(id int)
}

// Creator builds an element of one kind.
type Creator func(parent Element, view ViewContext, name string) Element

// Factory maps tag names to creators.
type Factory struct {
	creators map[string]Creator
}

// NewFactory returns an empty factory.
func NewFactory() *Factory {
	return &Factory{creators: make(map[string]Creator)}
}

// Register adds a creator for tag. It reports false if tag is taken.
func (f *Factory) Register(tag string, c Creator) bool {
	if tag == "" || c == nil {
		return false
	}
	if _, ok := f.creators[tag]; ok {
		return false
	}
	f.creators[tag] = c
	return true
}

// Create builds an element. Unknown tags are reported and yield nil.
func (f *Factory) Create(tag string, parent Element, view ViewContext, name string) Element {
	if f == nil {
		return nil
	}
	c, ok := f.creators[tag]
	if !ok {
		errors.ReportKind("element.Create", errors.KindFactory, &errors.UnknownTagError{Tag: tag})
		return nil
	}
	return c(parent, view, name)
}

// Has reports whether tag is registered.
func (f *Factory) Has(tag string) bool {
	_, ok := f.creators[tag]
	return ok
}

// Tags returns the registered tags in sorted order.
func (f *Factory) Tags() []string {
	tags := make([]string, 0, len(f.creators))
	for t := range f.creators {
		tags = append(tags, t)
	}
	slices.Sort(tags)
	return tags
}
