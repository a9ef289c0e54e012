package gadget

import (
	"math"

	"github.com/go-drift/gadget/pkg/element"
	"github.com/go-drift/gadget/pkg/event"
	"github.com/go-drift/gadget/pkg/graphics"
	"github.com/go-drift/gadget/pkg/mainloop"
	"github.com/go-drift/gadget/pkg/view"
	"github.com/go-drift/gadget/pkg/widgets"
)

// Sidebar geometry.
const (
	SidebarSpacing  = 1
	SidebarBorder   = 3
	SidebarMinWidth = 50
)

// SidebarBackground fills the area behind docked gadgets.
var SidebarBackground = graphics.RGB(0x20, 0x20, 0x20).WithAlpha(0.618)

// Sidebar is a view that stacks docked gadget views top to bottom, each
// inside a ViewElement as wide as the sidebar allows.
type Sidebar struct {
	view  *view.View
	main  *widgets.Div
	hosts map[*view.View]*dockHost

	laying bool
}

// NewSidebar creates an empty sidebar view on host.
func NewSidebar(host view.Host, factory *element.Factory, loop *mainloop.Loop, opts ...view.Option) *Sidebar {
	opts = append([]view.Option{view.WithSize(200, 400), view.WithResizable(view.ResizableTrue)}, opts...)
	v := view.New(host, factory, loop, opts...)
	v.SetMinSize(SidebarMinWidth, 0)

	main := widgets.NewDiv(nil, v, "sidebar").(*widgets.Div)
	main.SetBackground(SidebarBackground)
	main.SetX(SidebarBorder)
	main.SetY(SidebarBorder)
	v.Children().AppendExisting(main)

	s := &Sidebar{view: v, main: main, hosts: make(map[*view.View]*dockHost)}
	v.ConnectEvent(event.Size, s.fit)
	s.fit()
	return s
}

// View returns the sidebar's own view.
func (s *Sidebar) View() *view.View { return s.view }

// Count returns the number of docked views.
func (s *Sidebar) Count() int { return len(s.hosts) }

// Views returns the docked views top to bottom.
func (s *Sidebar) Views() []*view.View {
	var out []*view.View
	s.main.Children().Each(func(e element.Element) bool {
		if ve, ok := e.(*view.ViewElement); ok && ve.ChildView() != nil {
			out = append(out, ve.ChildView())
		}
		return true
	})
	return out
}

// Element returns the element showing child, or nil.
func (s *Sidebar) Element(child *view.View) *view.ViewElement {
	if h := s.hosts[child]; h != nil {
		return h.Element
	}
	return nil
}

// Insert docks child at index, or last when index is out of range. The
// child is rehosted; its element tree is untouched. It returns nil if
// child is nil or already docked here.
func (s *Sidebar) Insert(index int, child *view.View) *view.ViewElement {
	if child == nil || s.hosts[child] != nil {
		return nil
	}
	children := s.main.Children()
	ve := view.NewViewElement(s.main, s.view, child, true)
	if !children.InsertExisting(ve, children.ItemByIndex(index)) {
		ve.Destroy()
		return nil
	}
	h := &dockHost{ElementHost: view.ElementHost{Element: ve, Parent: s.view.Host()}, sidebar: s}
	s.hosts[child] = h
	child.SetHost(h)
	s.Layout()
	return ve
}

// Remove undocks child and leaves it on a NopHost. The child view stays
// alive.
func (s *Sidebar) Remove(child *view.View) bool {
	h := s.hosts[child]
	if h == nil {
		return false
	}
	delete(s.hosts, child)
	s.main.Children().RemoveElement(h.Element)
	child.SetHost(nil)
	s.Layout()
	return true
}

// Move places a docked child before the view currently at index.
func (s *Sidebar) Move(child *view.View, index int) bool {
	h := s.hosts[child]
	if h == nil {
		return false
	}
	children := s.main.Children()
	before := children.ItemByIndex(index)
	if before == element.Element(h.Element) {
		return true
	}
	if !children.InsertExisting(h.Element, before) {
		return false
	}
	s.Layout()
	return true
}

// IndexOfView returns the stacking position of child, or -1.
func (s *Sidebar) IndexOfView(child *view.View) int {
	h := s.hosts[child]
	if h == nil {
		return -1
	}
	return s.main.Children().IndexOf(h.Element)
}

// IndexOfPosition returns the index a view dropped at y, in sidebar view
// coordinates, would be inserted at: the first element whose middle is
// below y.
func (s *Sidebar) IndexOfPosition(y float64) int {
	items := s.main.Children().Items()
	for i, e := range items {
		b := e.Base()
		if _, mid := b.SelfToView(0, b.Height()/2); y < mid {
			return i
		}
	}
	return len(items)
}

// Layout stacks the docked views, offering each the full inner width.
func (s *Sidebar) Layout() {
	if s.laying {
		return
	}
	s.laying = true
	defer func() { s.laying = false }()

	width := s.main.Width()
	y := 0.0
	for _, e := range s.main.Children().Items() {
		ve, ok := e.(*view.ViewElement)
		if !ok {
			continue
		}
		w, h, _ := ve.OnSizing(width, math.Ceil(ve.Height()))
		ve.SetSize(w, math.Ceil(h))
		ve.SetX(0)
		ve.SetY(math.Ceil(y))
		if ve.Visible() {
			y += ve.Height()
		}
		y += SidebarSpacing
	}
	s.view.QueueDraw()
}

func (s *Sidebar) fit() {
	s.main.SetWidth(max(s.view.Width()-2*SidebarBorder, 0))
	s.main.SetHeight(max(s.view.Height()-2*SidebarBorder, 0))
	s.Layout()
}

// dockHost hosts a docked view. Window operations are owned by the
// sidebar, so moves and resizes from the child are ignored.
type dockHost struct {
	view.ElementHost
	sidebar *Sidebar
}

func (h *dockHost) QueueResize() { h.sidebar.Layout() }

func (h *dockHost) BeginMoveDrag(event.Button)                    {}
func (h *dockHost) BeginResizeDrag(event.Button, element.HitTest) {}

func (h *dockHost) SetCursor(c element.CursorType) {
	h.Element.SetCursor(c)
	h.Parent.SetCursor(c)
}

// CloseView hides the docked view until it is shown again.
func (h *dockHost) CloseView() {
	h.Element.SetVisible(false)
	h.sidebar.Layout()
}
