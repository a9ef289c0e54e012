package inspect

import (
	"slices"

	"github.com/go-drift/gadget/pkg/element"
	"github.com/go-drift/gadget/pkg/view"
)

// Node is the JSON form of an element.
type Node struct {
	Tag      string  `json:"tag"`
	Name     string  `json:"name,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
	Opacity  float64 `json:"opacity"`
	Visible  bool    `json:"visible"`
	Enabled  bool    `json:"enabled"`
	Children []Node  `json:"children,omitempty"`
}

// ViewInfo is the JSON form of a registered view.
type ViewInfo struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Caption   string  `json:"caption,omitempty"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Zoom      float64 `json:"zoom"`
	Resizable string  `json:"resizable"`
	Elements  int     `json:"elements"`
}

// HitResult describes what lies under a point.
type HitResult struct {
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	HitTest string   `json:"hitTest"`
	Element *Node    `json:"element,omitempty"`
	Path    []string `json:"path,omitempty"`
}

// Tree converts es and its descendants.
func Tree(es *element.Elements) []Node {
	var out []Node
	es.Each(func(e element.Element) bool {
		out = append(out, nodeOf(e, true))
		return true
	})
	return out
}

func nodeOf(e element.Element, deep bool) Node {
	b := e.Base()
	n := Node{
		Tag:      b.Tag(),
		Name:     b.Name(),
		X:        b.X(),
		Y:        b.Y(),
		Width:    b.Width(),
		Height:   b.Height(),
		Rotation: b.Rotation(),
		Opacity:  b.Opacity(),
		Visible:  b.Visible(),
		Enabled:  b.Enabled(),
	}
	if deep && b.Children() != nil {
		n.Children = Tree(b.Children())
	}
	return n
}

func infoOf(e Entry) ViewInfo {
	v := e.View
	return ViewInfo{
		ID:        e.ID,
		Name:      e.Name,
		Caption:   v.Caption(),
		Width:     v.Width(),
		Height:    v.Height(),
		Zoom:      v.Graphics().Zoom(),
		Resizable: v.Resizable().String(),
		Elements:  countElements(v.Children()),
	}
}

func countElements(es *element.Elements) int {
	n := 0
	es.Each(func(e element.Element) bool {
		n++
		if c := e.Base().Children(); c != nil {
			n += countElements(c)
		}
		return true
	})
	return n
}

// HitTestAt reports the element a mouse event at (x, y), in view
// coordinates, would reach, without firing anything.
func HitTestAt(v *view.View, x, y float64) HitResult {
	res := HitResult{X: x, Y: y, HitTest: element.HTTransparent.String()}
	e, ht := probe(v.Children(), x, y)
	if e == nil {
		return res
	}
	n := nodeOf(e, false)
	res.HitTest = ht.String()
	res.Element = &n
	for p := e; p != nil; p = p.Base().Parent() {
		res.Path = append(res.Path, label(p))
	}
	slices.Reverse(res.Path)
	return res
}

// probe mirrors mouse dispatch: children front to back, transparent and
// disabled elements let the search continue, nowhere stops it.
func probe(es *element.Elements, x, y float64) (element.Element, element.HitTest) {
	for _, e := range slices.Backward(es.Items()) {
		b := e.Base()
		if !b.Visible() {
			continue
		}
		lx, ly := b.ParentToSelf(x, y)
		if !b.IsPointIn(lx, ly) {
			continue
		}
		if c := b.Children(); c != nil {
			if hit, ht := probe(c, lx, ly); hit != nil {
				return hit, ht
			}
		}
		switch ht := e.HitTestAt(lx, ly); {
		case ht == element.HTTransparent:
			continue
		case ht == element.HTNowhere:
			return e, ht
		case !b.Enabled():
			continue
		default:
			return e, ht
		}
	}
	return nil, element.HTTransparent
}

func label(e element.Element) string {
	if name := e.Base().Name(); name != "" {
		return e.Base().Tag() + "#" + name
	}
	return e.Base().Tag()
}
