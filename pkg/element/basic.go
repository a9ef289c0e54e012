package element

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-drift/gadget/pkg/canvas"
	"github.com/go-drift/gadget/pkg/event"
	"github.com/go-drift/gadget/pkg/graphics"
	"github.com/go-drift/gadget/pkg/scriptable"
	"github.com/go-drift/gadget/pkg/signal"
	"github.com/go-drift/gadget/pkg/variant"
)

// ClassBasicElement is the scriptable class id shared by all elements.
const ClassBasicElement uint64 = 0xfd70820c5bbf11dc

// length is a coordinate that is either absolute pixels or a fraction of a
// reference length.
type length struct {
	v   float64
	rel bool
	set bool
}

func pixels(v float64) length   { return length{v: v, set: true} }
func relative(f float64) length { return length{v: f, rel: true, set: true} }

func (l length) resolve(base float64) float64 {
	if l.rel {
		return l.v * base
	}
	return l.v
}

func (l length) variant(base float64) variant.Variant {
	if l.rel {
		return variant.String(strconv.FormatFloat(l.v*100, 'g', -1, 64) + "%")
	}
	return variant.Double(l.resolve(base))
}

// ParseLength parses "50" as pixels and "50%" as a fraction.
func ParseLength(s string) (v float64, rel bool, ok bool) {
	s = strings.TrimSpace(s)
	if p, found := strings.CutSuffix(s, "%"); found {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, false, false
		}
		return f / 100, true, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, false
	}
	return f, false, true
}

func lengthFromVariant(v variant.Variant) (length, bool) {
	if v.Type() == variant.TypeString {
		s, _ := v.ToString()
		f, rel, ok := ParseLength(s)
		if !ok {
			return length{}, false
		}
		return length{v: f, rel: rel, set: true}, true
	}
	f, ok := v.ToDouble()
	if !ok {
		return length{}, false
	}
	return pixels(f), true
}

// BasicElement is the node every element kind embeds. It owns its children
// and holds non-owning references to its parent and view.
type BasicElement struct {
	scriptable.Helper

	self     Element
	tag      string
	name     string
	parent   Element
	view     ViewContext
	children *Elements
	holder   *Elements

	x, y, width, height, pinX, pinY length

	rotation   float64
	opacity    float64
	visible    bool
	enabled    bool
	focusable  bool
	dropTarget bool
	hitTest    HitTest
	cursor     CursorType
	tooltip    string

	lastWidth, lastHeight float64

	signals map[event.Type]*signal.Signal
}

// Init wires a freshly allocated element. self is the outermost value so
// that hooks overridden by the embedding kind are reached through it.
// withChildren gives the element its own Elements collection.
func (b *BasicElement) Init(self Element, tag string, parent Element, view ViewContext, name string, withChildren bool) {
	b.self = self
	b.tag = tag
	b.name = name
	b.parent = parent
	b.view = view
	b.opacity = 1
	b.visible = true
	b.enabled = true
	b.hitTest = HTClient
	b.SetClass(ClassBasicElement)
	if withChildren {
		var f *Factory
		if view != nil {
			f = view.Factory()
		}
		b.children = NewElements(f, self, view)
	}
	b.registerSignals()
	b.registerProperties()
}

func (b *BasicElement) Base() *BasicElement { return b }
func (b *BasicElement) Tag() string         { return b.tag }
func (b *BasicElement) Name() string        { return b.name }

// Self returns the outermost element value.
func (b *BasicElement) Self() Element { return b.self }

// Parent returns the parent element, or nil for a top-level element.
func (b *BasicElement) Parent() Element { return b.parent }

// View returns the view the element lives in.
func (b *BasicElement) View() ViewContext { return b.view }

// Children returns the owned collection, or nil for leaf kinds.
func (b *BasicElement) Children() *Elements { return b.children }

func (b *BasicElement) String() string {
	if b.name != "" {
		return fmt.Sprintf("%s#%s", b.tag, b.name)
	}
	return b.tag
}

func (b *BasicElement) queueDraw() {
	if b.view != nil {
		b.view.QueueDraw()
	}
}

func (b *BasicElement) parentWidth() float64 {
	if b.parent != nil {
		return b.parent.Base().Width()
	}
	if b.view != nil {
		return b.view.Width()
	}
	return 0
}

func (b *BasicElement) parentHeight() float64 {
	if b.parent != nil {
		return b.parent.Base().Height()
	}
	if b.view != nil {
		return b.view.Height()
	}
	return 0
}

// DefaultSize is used for any dimension that was never set.
func (b *BasicElement) DefaultSize() (float64, float64) { return 0, 0 }

// X returns the pixel x of the pin point in the parent's space.
func (b *BasicElement) X() float64 { return b.x.resolve(b.parentWidth()) }

// Y returns the pixel y of the pin point in the parent's space.
func (b *BasicElement) Y() float64 { return b.y.resolve(b.parentHeight()) }

// Width returns the pixel width.
func (b *BasicElement) Width() float64 {
	if !b.width.set {
		w, _ := b.self.DefaultSize()
		return w
	}
	return max(b.width.resolve(b.parentWidth()), 0)
}

// Height returns the pixel height.
func (b *BasicElement) Height() float64 {
	if !b.height.set {
		_, h := b.self.DefaultSize()
		return h
	}
	return max(b.height.resolve(b.parentHeight()), 0)
}

// PinX returns the pin x in the element's own space.
func (b *BasicElement) PinX() float64 { return b.pinX.resolve(b.Width()) }

// PinY returns the pin y in the element's own space.
func (b *BasicElement) PinY() float64 { return b.pinY.resolve(b.Height()) }

func (b *BasicElement) SetX(px float64)    { b.x = pixels(px); b.queueDraw() }
func (b *BasicElement) SetY(px float64)    { b.y = pixels(px); b.queueDraw() }
func (b *BasicElement) SetPinX(px float64) { b.pinX = pixels(px); b.queueDraw() }
func (b *BasicElement) SetPinY(px float64) { b.pinY = pixels(px); b.queueDraw() }

// SetRelativeX places the pin point at a fraction of the parent's width.
func (b *BasicElement) SetRelativeX(f float64) {
	b.x = relative(f)
	b.queueDraw()
}

// SetRelativeY places the pin point at a fraction of the parent's height.
func (b *BasicElement) SetRelativeY(f float64) {
	b.y = relative(f)
	b.queueDraw()
}

// SetRelativePinX sets the pin x as a fraction of the element's width.
func (b *BasicElement) SetRelativePinX(f float64) {
	b.pinX = relative(f)
	b.queueDraw()
}

// SetRelativePinY sets the pin y as a fraction of the element's height.
func (b *BasicElement) SetRelativePinY(f float64) {
	b.pinY = relative(f)
	b.queueDraw()
}

// SetWidth sets an absolute width. Negative values are clamped to 0.
func (b *BasicElement) SetWidth(px float64) {
	b.width = pixels(max(px, 0))
	b.queueDraw()
}

// SetHeight sets an absolute height. Negative values are clamped to 0.
func (b *BasicElement) SetHeight(px float64) {
	b.height = pixels(max(px, 0))
	b.queueDraw()
}

func (b *BasicElement) SetRelativeWidth(f float64) {
	b.width = relative(max(f, 0))
	b.queueDraw()
}

func (b *BasicElement) SetRelativeHeight(f float64) {
	b.height = relative(max(f, 0))
	b.queueDraw()
}

// WidthSpecified reports whether the width was set explicitly.
func (b *BasicElement) WidthSpecified() bool { return b.width.set }

// HeightSpecified reports whether the height was set explicitly.
func (b *BasicElement) HeightSpecified() bool { return b.height.set }

// Rotation returns the rotation around the pin point in degrees.
func (b *BasicElement) Rotation() float64 { return b.rotation }

func (b *BasicElement) SetRotation(deg float64) {
	b.rotation = deg
	b.queueDraw()
}

// Opacity returns the opacity in [0, 1].
func (b *BasicElement) Opacity() float64 { return b.opacity }

// SetOpacity clamps to [0, 1].
func (b *BasicElement) SetOpacity(o float64) {
	b.opacity = graphics.Clamp01(o)
	b.queueDraw()
}

func (b *BasicElement) Visible() bool { return b.visible }

func (b *BasicElement) SetVisible(v bool) {
	if b.visible == v {
		return
	}
	b.visible = v
	b.queueDraw()
}

func (b *BasicElement) Enabled() bool { return b.enabled }

func (b *BasicElement) SetEnabled(e bool) {
	if b.enabled == e {
		return
	}
	b.enabled = e
	if !e && b.view != nil && b.view.FocusedElement() == b.self {
		b.view.SetFocus(nil)
	}
	b.queueDraw()
}

// ReallyVisible reports whether the element and all its ancestors are
// visible.
func (b *BasicElement) ReallyVisible() bool {
	for e := Element(b.self); e != nil; e = e.Base().parent {
		if !e.Base().visible {
			return false
		}
	}
	return true
}

// ReallyEnabled reports whether the element and all its ancestors are
// enabled.
func (b *BasicElement) ReallyEnabled() bool {
	for e := Element(b.self); e != nil; e = e.Base().parent {
		if !e.Base().enabled {
			return false
		}
	}
	return true
}

func (b *BasicElement) Focusable() bool        { return b.focusable }
func (b *BasicElement) SetFocusable(f bool)    { b.focusable = f }
func (b *BasicElement) DropTarget() bool       { return b.dropTarget }
func (b *BasicElement) SetDropTarget(d bool)   { b.dropTarget = d }
func (b *BasicElement) Cursor() CursorType     { return b.cursor }
func (b *BasicElement) SetCursor(c CursorType) { b.cursor = c }
func (b *BasicElement) Tooltip() string        { return b.tooltip }
func (b *BasicElement) SetTooltip(s string)    { b.tooltip = s }

// HitTestValue returns the configured zone for points inside the element.
func (b *BasicElement) HitTestValue() HitTest { return b.hitTest }

func (b *BasicElement) SetHitTest(h HitTest) { b.hitTest = h }

// IsPointIn reports whether (x, y), in the element's own space, lies in
// its bounds.
func (b *BasicElement) IsPointIn(x, y float64) bool {
	return x >= 0 && y >= 0 && x < b.Width() && y < b.Height()
}

// HitTestAt returns the configured zone inside the bounds and
// HTTransparent outside.
func (b *BasicElement) HitTestAt(x, y float64) HitTest {
	if !b.IsPointIn(x, y) {
		return HTTransparent
	}
	return b.hitTest
}

// ParentToSelf converts a point from the parent's space.
func (b *BasicElement) ParentToSelf(px, py float64) (float64, float64) {
	return graphics.ParentToChild(px, py, b.X(), b.Y(), b.PinX(), b.PinY(), b.rotation)
}

// SelfToParent converts a point into the parent's space.
func (b *BasicElement) SelfToParent(x, y float64) (float64, float64) {
	return graphics.ChildToParent(x, y, b.X(), b.Y(), b.PinX(), b.PinY(), b.rotation)
}

// ViewToSelf converts a point from view space.
func (b *BasicElement) ViewToSelf(vx, vy float64) (float64, float64) {
	if b.parent != nil {
		vx, vy = b.parent.Base().ViewToSelf(vx, vy)
	}
	return b.ParentToSelf(vx, vy)
}

// SelfToView converts a point into view space.
func (b *BasicElement) SelfToView(x, y float64) (float64, float64) {
	px, py := b.SelfToParent(x, y)
	if b.parent != nil {
		return b.parent.Base().SelfToView(px, py)
	}
	return px, py
}

// Bounds returns the element's bounding box in its parent's space.
func (b *BasicElement) Bounds() graphics.Rect {
	return graphics.BoundingRect(b.X(), b.Y(), b.Width(), b.Height(), b.PinX(), b.PinY(), b.rotation)
}

// Layout fires onsize when the pixel size changed since the previous pass
// and lays out the children.
func (b *BasicElement) Layout() {
	w, h := b.Width(), b.Height()
	if w != b.lastWidth || h != b.lastHeight {
		b.lastWidth, b.lastHeight = w, h
		b.self.OnOtherEvent(event.SimpleEvent{Kind: event.Size})
	}
	if b.children != nil {
		b.children.Layout()
	}
}

// Draw paints the element and its children into c, which is in the
// parent's space.
func (b *BasicElement) Draw(c canvas.Canvas) {
	if !b.visible || b.opacity == 0 {
		return
	}
	c.PushState()
	defer c.PopState()
	c.TranslateCoordinates(b.X(), b.Y())
	if b.rotation != 0 {
		c.RotateCoordinates(graphics.DegreesToRadians(b.rotation))
	}
	c.TranslateCoordinates(-b.PinX(), -b.PinY())
	if b.opacity < 1 {
		c.MultiplyOpacity(b.opacity)
	}
	if !c.IntersectRectClipRegion(0, 0, b.Width(), b.Height()) {
		return
	}
	b.self.DoDraw(c)
	if b.children != nil {
		b.children.Draw(c)
	}
}

// DoDraw paints the element's own content. The default draws nothing.
func (b *BasicElement) DoDraw(c canvas.Canvas) {}

// Focus asks the view to focus this element.
func (b *BasicElement) Focus() bool {
	if b.view == nil {
		return false
	}
	return b.view.SetFocus(b.self)
}

// KillFocus drops focus if this element holds it.
func (b *BasicElement) KillFocus() {
	if b.view != nil && b.view.FocusedElement() == b.self {
		b.view.SetFocus(nil)
	}
}

// Destroy removes the children, fires ondelete and releases every signal.
// It is called by the owning collection on removal.
func (b *BasicElement) Destroy() {
	if b.Destroyed() {
		return
	}
	if b.children != nil {
		b.children.RemoveAllElements()
	}
	b.Helper.Destroy()
	for _, s := range b.signals {
		s.DisconnectAll()
	}
}
