package element

import (
	"fmt"
	"strings"
)

// HitTest classifies a point against an element's semantic zones. Hosts
// consult the view's hit test after an unhandled mouse event to decide
// whether to start a native move or resize.
type HitTest int

const (
	// HTTransparent treats the point as background: the search continues
	// with whatever lies beneath.
	HTTransparent HitTest = iota
	// HTNowhere excludes the point even though it is geometrically inside.
	// The search stops and no handler fires.
	HTNowhere
	HTClient
	HTCaption
	HTSysMenu
	HTSize
	HTMenu
	HTHScroll
	HTVScroll
	HTMinButton
	HTMaxButton
	HTLeft
	HTRight
	HTTop
	HTTopLeft
	HTTopRight
	HTBottom
	HTBottomLeft
	HTBottomRight
	HTBorder
	HTClose
	HTHelp
)

var hitTestNames = [...]string{
	"transparent", "nowhere", "client", "caption", "sysmenu", "size", "menu",
	"hscroll", "vscroll", "minbutton", "maxbutton", "left", "right", "top",
	"topleft", "topright", "bottom", "bottomleft", "bottomright", "border",
	"close", "help",
}

func (h HitTest) String() string {
	if h >= 0 && int(h) < len(hitTestNames) {
		return "ht" + hitTestNames[h]
	}
	return fmt.Sprintf("HitTest(%d)", int(h))
}

// ParseHitTest accepts "htcaption" or "caption", case-insensitively.
func ParseHitTest(s string) (HitTest, bool) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "ht")
	for i, n := range hitTestNames {
		if n == s {
			return HitTest(i), true
		}
	}
	return HTClient, false
}

// IsResizeEdge reports whether h is one of the window edge or corner zones.
func (h HitTest) IsResizeEdge() bool {
	return h >= HTLeft && h <= HTBottomRight
}

// CursorType is the pointer shape an element requests while hovered.
type CursorType int

const (
	CursorDefault CursorType = iota
	CursorArrow
	CursorIBeam
	CursorWait
	CursorCross
	CursorUpArrow
	CursorSize
	CursorSizeNWSE
	CursorSizeNESW
	CursorSizeWE
	CursorSizeNS
	CursorSizeAll
	CursorNo
	CursorHand
	CursorBusy
	CursorHelp
)

var cursorNames = [...]string{
	"default", "arrow", "ibeam", "wait", "cross", "uparrow", "size", "sizenwse",
	"sizenesw", "sizewe", "sizens", "sizeall", "no", "hand", "busy", "help",
}

func (c CursorType) String() string {
	if c >= 0 && int(c) < len(cursorNames) {
		return cursorNames[c]
	}
	return fmt.Sprintf("CursorType(%d)", int(c))
}

// ParseCursor accepts a cursor name such as "hand" or "ibeam".
func ParseCursor(s string) (CursorType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range cursorNames {
		if n == s {
			return CursorType(i), true
		}
	}
	return CursorDefault, false
}
