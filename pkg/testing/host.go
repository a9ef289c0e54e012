package testing

import (
	"github.com/go-drift/gadget/pkg/element"
	"github.com/go-drift/gadget/pkg/event"
	"github.com/go-drift/gadget/pkg/view"
)

var _ view.Host = (*FakeHost)(nil)

// FakeHost is a view host that records every request a view makes.
// Dialog answers are configurable; coordinates map one to one.
type FakeHost struct {
	Draws   int
	Resizes int
	Cursor  element.CursorType
	Tooltip string
	Caption string
	Closed  int

	MoveDrags   []event.Button
	ResizeDrags []element.HitTest
	Menus       []event.Button

	Alerts   []string
	Confirms []string
	Prompts  []string

	// MenuShown is returned from ShowContextMenu.
	MenuShown bool
	// ConfirmAnswer is returned from Confirm.
	ConfirmAnswer bool
	// PromptAnswer and PromptOK are returned from Prompt. With PromptOK
	// false the prompt counts as cancelled.
	PromptAnswer string
	PromptOK     bool
}

func (h *FakeHost) QueueDraw()                     { h.Draws++ }
func (h *FakeHost) QueueResize()                   { h.Resizes++ }
func (h *FakeHost) SetCursor(c element.CursorType) { h.Cursor = c }
func (h *FakeHost) SetTooltip(tip string)          { h.Tooltip = tip }
func (h *FakeHost) SetCaption(c string)            { h.Caption = c }
func (h *FakeHost) CloseView()                     { h.Closed++ }

func (h *FakeHost) BeginMoveDrag(b event.Button) { h.MoveDrags = append(h.MoveDrags, b) }

func (h *FakeHost) BeginResizeDrag(_ event.Button, edge element.HitTest) {
	h.ResizeDrags = append(h.ResizeDrags, edge)
}

func (h *FakeHost) ShowContextMenu(b event.Button) bool {
	h.Menus = append(h.Menus, b)
	return h.MenuShown
}

func (h *FakeHost) Alert(msg string) { h.Alerts = append(h.Alerts, msg) }

func (h *FakeHost) Confirm(msg string) bool {
	h.Confirms = append(h.Confirms, msg)
	return h.ConfirmAnswer
}

func (h *FakeHost) Prompt(msg, def string) (string, bool) {
	h.Prompts = append(h.Prompts, msg)
	if !h.PromptOK {
		return "", false
	}
	if h.PromptAnswer == "" {
		return def, true
	}
	return h.PromptAnswer, true
}

func (h *FakeHost) ViewCoordToNativeWidgetCoord(x, y float64) (float64, float64) { return x, y }
func (h *FakeHost) NativeWidgetCoordToViewCoord(x, y float64) (float64, float64) { return x, y }
