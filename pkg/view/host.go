package view

import (
	"strings"

	"github.com/go-drift/gadget/pkg/element"
	"github.com/go-drift/gadget/pkg/event"
)

// Host is the platform side of a view: the native window or widget that
// shows it. Views call into the host; the host feeds events back through
// the view's On* methods, usually via a binder.
type Host interface {
	QueueDraw()
	QueueResize()
	SetCursor(c element.CursorType)
	SetTooltip(tip string)
	// BeginMoveDrag starts a native window move with button held.
	BeginMoveDrag(button event.Button)
	// BeginResizeDrag starts a native resize from the given edge.
	BeginResizeDrag(button event.Button, edge element.HitTest)
	// ShowContextMenu reports whether a menu was shown.
	ShowContextMenu(button event.Button) bool
	CloseView()
	SetCaption(caption string)

	Alert(msg string)
	Confirm(msg string) bool
	// Prompt returns the entered text, or false if the user cancelled.
	Prompt(msg, def string) (string, bool)

	ViewCoordToNativeWidgetCoord(x, y float64) (float64, float64)
	NativeWidgetCoordToViewCoord(x, y float64) (float64, float64)
}

// NopHost is a host that shows nothing. Dialogs answer negatively and
// coordinates map one to one.
type NopHost struct{}

func (NopHost) QueueDraw()                                    {}
func (NopHost) QueueResize()                                  {}
func (NopHost) SetCursor(element.CursorType)                  {}
func (NopHost) SetTooltip(string)                             {}
func (NopHost) BeginMoveDrag(event.Button)                    {}
func (NopHost) BeginResizeDrag(event.Button, element.HitTest) {}
func (NopHost) ShowContextMenu(event.Button) bool             { return false }
func (NopHost) CloseView()                                    {}
func (NopHost) SetCaption(string)                             {}
func (NopHost) Alert(string)                                  {}
func (NopHost) Confirm(string) bool                           { return false }
func (NopHost) Prompt(string, string) (string, bool)          { return "", false }

func (NopHost) ViewCoordToNativeWidgetCoord(x, y float64) (float64, float64) { return x, y }
func (NopHost) NativeWidgetCoordToViewCoord(x, y float64) (float64, float64) { return x, y }

// ResizableMode controls how a view reacts to host resize requests.
type ResizableMode int

const (
	// ResizableFalse rejects every resize.
	ResizableFalse ResizableMode = iota
	// ResizableTrue accepts sizes down to the minimum size.
	ResizableTrue
	// ResizableZoom keeps the view size and lets the host zoom instead.
	ResizableZoom
	// ResizableKeepRatio accepts sizes with the current aspect ratio.
	ResizableKeepRatio
)

var resizableNames = [...]string{"false", "true", "zoom", "keep-ratio"}

func (m ResizableMode) String() string {
	if m >= 0 && int(m) < len(resizableNames) {
		return resizableNames[m]
	}
	return "false"
}

// ParseResizable parses "true", "false", "zoom" or "keep-ratio".
func ParseResizable(s string) (ResizableMode, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range resizableNames {
		if n == s {
			return ResizableMode(i), true
		}
	}
	return ResizableFalse, false
}
