// Package event defines the engine-level events hosts deliver to views and
// views route through the element tree.
package event

import "fmt"

// Type identifies an event.
type Type int

const (
	TypeNone Type = iota

	MouseDown
	MouseUp
	MouseClick
	MouseDblClick
	MouseRClick
	MouseRDblClick
	MouseMove
	MouseOver
	MouseOut
	MouseWheel

	KeyDown
	KeyUp
	KeyPress

	DragDrop
	DragOver
	DragOut
	DragMotion

	FocusIn
	FocusOut

	Sizing
	Size
	Open
	Close
	Dock
	Undock
	PopIn
	PopOut
	Minimize
	Restore
	Ok
	Cancel
	Change
)

var typeNames = [...]string{
	TypeNone:       "none",
	MouseDown:      "mousedown",
	MouseUp:        "mouseup",
	MouseClick:     "click",
	MouseDblClick:  "dblclick",
	MouseRClick:    "rclick",
	MouseRDblClick: "rdblclick",
	MouseMove:      "mousemove",
	MouseOver:      "mouseover",
	MouseOut:       "mouseout",
	MouseWheel:     "mousewheel",
	KeyDown:        "keydown",
	KeyUp:          "keyup",
	KeyPress:       "keypress",
	DragDrop:       "dragdrop",
	DragOver:       "dragover",
	DragOut:        "dragout",
	DragMotion:     "dragmotion",
	FocusIn:        "focusin",
	FocusOut:       "focusout",
	Sizing:         "sizing",
	Size:           "size",
	Open:           "open",
	Close:          "close",
	Dock:           "dock",
	Undock:         "undock",
	PopIn:          "popin",
	PopOut:         "popout",
	Minimize:       "minimize",
	Restore:        "restore",
	Ok:             "ok",
	Cancel:         "cancel",
	Change:         "change",
}

// String returns the script-visible name, e.g. "click".
func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) && typeNames[t] != "" {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Handler returns the script signal name for the type, e.g. "onclick".
func (t Type) Handler() string { return "on" + t.String() }

// IsMouse reports whether t is a mouse event type.
func (t Type) IsMouse() bool { return t >= MouseDown && t <= MouseWheel }

// IsKey reports whether t is a keyboard event type.
func (t Type) IsKey() bool { return t >= KeyDown && t <= KeyPress }

// IsDrag reports whether t is a drag event type.
func (t Type) IsDrag() bool { return t >= DragDrop && t <= DragMotion }

// Result is the outcome of delivering an event. Results are ordered:
// a larger result wins when two are merged.
type Result int

const (
	Unhandled Result = iota
	Handled
	// Canceled means a script handler vetoed the default behaviour.
	Canceled
)

func (r Result) String() string {
	switch r {
	case Unhandled:
		return "unhandled"
	case Handled:
		return "handled"
	case Canceled:
		return "canceled"
	}
	return fmt.Sprintf("Result(%d)", int(r))
}

// Merge returns the stronger of two results.
func Merge(a, b Result) Result { return max(a, b) }

// Button is a bitmask of mouse buttons.
type Button int

const (
	ButtonNone   Button = 0
	ButtonLeft   Button = 1
	ButtonRight  Button = 2
	ButtonMiddle Button = 4
	ButtonAll    Button = ButtonLeft | ButtonRight | ButtonMiddle
)

// Modifier is a bitmask of keyboard modifiers.
type Modifier int

const (
	ModNone    Modifier = 0
	ModShift   Modifier = 1
	ModControl Modifier = 2
	ModAlt     Modifier = 4
)

// Has reports whether all bits of m2 are set in m.
func (m Modifier) Has(m2 Modifier) bool { return m&m2 == m2 }

// Event is implemented by all event values.
type Event interface {
	Type() Type
}

// MouseEvent carries a pointer position in the receiver's local space.
type MouseEvent struct {
	Kind        Type
	X, Y        float64
	WheelDeltaX int
	WheelDeltaY int
	Button      Button
	Modifier    Modifier
}

func (e MouseEvent) Type() Type { return e.Kind }

// At returns a copy of e positioned at (x, y).
func (e MouseEvent) At(x, y float64) MouseEvent {
	e.X, e.Y = x, y
	return e
}

// As returns a copy of e with a different type.
func (e MouseEvent) As(t Type) MouseEvent {
	e.Kind = t
	return e
}

// KeyboardEvent carries a key code. For KeyPress the code is the character.
type KeyboardEvent struct {
	Kind     Type
	KeyCode  uint32
	Modifier Modifier
}

func (e KeyboardEvent) Type() Type { return e.Kind }

// DragEvent carries the dragged files and the pointer position.
type DragEvent struct {
	Kind  Type
	X, Y  float64
	Files []string
}

func (e DragEvent) Type() Type { return e.Kind }

// At returns a copy of e positioned at (x, y).
func (e DragEvent) At(x, y float64) DragEvent {
	e.X, e.Y = x, y
	return e
}

// SimpleEvent carries no payload.
type SimpleEvent struct {
	Kind Type
}

func (e SimpleEvent) Type() Type { return e.Kind }

// SizingEvent carries a proposed size that handlers may rewrite.
type SizingEvent struct {
	Kind          Type
	Width, Height float64
}

func (e SizingEvent) Type() Type { return e.Kind }
