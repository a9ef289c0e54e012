// Package gadget ties a manifest to running views: it builds the main and
// details views from their declarative layouts, exposes the gadget's
// options to scripts, and moves the main view between a floating host and
// a Sidebar.
package gadget

import (
	"errors"
	"fmt"

	"github.com/go-drift/gadget/pkg/config"
	"github.com/go-drift/gadget/pkg/element"
	gadgeterrors "github.com/go-drift/gadget/pkg/errors"
	"github.com/go-drift/gadget/pkg/event"
	"github.com/go-drift/gadget/pkg/mainloop"
	"github.com/go-drift/gadget/pkg/options"
	"github.com/go-drift/gadget/pkg/variant"
	"github.com/go-drift/gadget/pkg/view"
)

var (
	ErrNoFactory = errors.New("gadget: no element factory")
	ErrNotOpen   = errors.New("gadget: not open")
	ErrOpen      = errors.New("gadget: already open")
	ErrClosed    = errors.New("gadget: closed")
	ErrNoDetails = errors.New("gadget: manifest has no details view")
)

// ViewKind tells a HostFactory which view it is hosting.
type ViewKind int

const (
	MainView ViewKind = iota
	DetailsView
)

func (k ViewKind) String() string {
	if k == DetailsView {
		return "details"
	}
	return "main"
}

// HostFactory returns the floating host of a new view. A nil factory, or
// a nil result, gives view.NopHost.
type HostFactory func(g *Gadget, kind ViewKind) view.Host

// Deps are the runtime services a gadget is built on.
type Deps struct {
	Factory *element.Factory
	Loop    *mainloop.Loop
	Hosts   HostFactory
	// Options may be nil; the gadget then has no persistent options.
	Options *options.Store
}

// Gadget is one loaded gadget instance.
type Gadget struct {
	manifest *config.Manifest
	deps     Deps
	options  *options.Options

	main     *view.View
	mainHost view.Host
	details  *view.View

	sidebar *Sidebar

	closed bool
}

// New prepares a gadget. No view exists until Open.
func New(m *config.Manifest, deps Deps) (*Gadget, error) {
	if deps.Factory == nil {
		return nil, ErrNoFactory
	}
	if deps.Loop == nil {
		deps.Loop = mainloop.New()
	}
	g := &Gadget{manifest: m, deps: deps}
	if deps.Options != nil {
		g.options = deps.Options.For(m.Gadget.ID)
		g.options.Defaults(m.Options)
	}
	return g, nil
}

func (g *Gadget) Manifest() *config.Manifest { return g.manifest }
func (g *Gadget) ID() string                 { return g.manifest.Gadget.ID }
func (g *Gadget) Loop() *mainloop.Loop       { return g.deps.Loop }
func (g *Gadget) Options() *options.Options  { return g.options }
func (g *Gadget) MainView() *view.View       { return g.main }
func (g *Gadget) DetailsView() *view.View    { return g.details }
func (g *Gadget) Sidebar() *Sidebar          { return g.sidebar }
func (g *Gadget) Docked() bool               { return g.sidebar != nil }
func (g *Gadget) Closed() bool               { return g.closed }

// Open builds the main view and fires its onopen.
func (g *Gadget) Open() error {
	switch {
	case g.closed:
		return ErrClosed
	case g.main != nil:
		return ErrOpen
	}
	g.mainHost = g.host(MainView)
	g.main = g.build(g.mainHost, &g.manifest.View)
	gadgeterrors.Logf("opened %s (%s)", g.ID(), g.main.ID())
	g.main.OnOtherEvent(event.SimpleEvent{Kind: event.Open})
	return nil
}

// ShowDetails builds the details view on first call and returns it.
func (g *Gadget) ShowDetails() (*view.View, error) {
	switch {
	case g.closed:
		return nil, ErrClosed
	case g.main == nil:
		return nil, ErrNotOpen
	case g.manifest.Details == nil:
		return nil, ErrNoDetails
	case g.details != nil:
		return g.details, nil
	}
	g.details = g.build(g.host(DetailsView), g.manifest.Details)
	g.details.OnOtherEvent(event.SimpleEvent{Kind: event.Open})
	return g.details, nil
}

// CloseDetails fires the details view's onclose and destroys it.
func (g *Gadget) CloseDetails() {
	if g.details == nil {
		return
	}
	d := g.details
	g.details = nil
	d.OnOtherEvent(event.SimpleEvent{Kind: event.Close})
	d.Destroy()
}

// Close fires onclose, leaves the sidebar and destroys every view. It is
// idempotent.
func (g *Gadget) Close() {
	if g.closed {
		return
	}
	g.closed = true
	g.CloseDetails()
	if g.main == nil {
		return
	}
	g.main.OnOtherEvent(event.SimpleEvent{Kind: event.Close})
	if g.sidebar != nil {
		g.sidebar.Remove(g.main)
		g.sidebar = nil
	}
	g.main.Destroy()
	gadgeterrors.Logf("closed %s", g.ID())
}

// Dock moves the main view into s at index, keeping its element tree,
// and fires ondock. Docking into the current sidebar only reorders.
func (g *Gadget) Dock(s *Sidebar, index int) error {
	switch {
	case g.closed:
		return ErrClosed
	case g.main == nil:
		return ErrNotOpen
	case s == nil:
		return fmt.Errorf("gadget: dock %s: nil sidebar", g.ID())
	}
	if g.sidebar == s {
		s.Move(g.main, index)
		return nil
	}
	if g.sidebar != nil {
		g.sidebar.Remove(g.main)
	}
	if s.Insert(index, g.main) == nil {
		return fmt.Errorf("gadget: dock %s: sidebar refused the view", g.ID())
	}
	g.sidebar = s
	g.main.OnOtherEvent(event.SimpleEvent{Kind: event.Dock})
	return nil
}

// Undock returns the main view to its floating host and fires onundock.
func (g *Gadget) Undock() error {
	if g.sidebar == nil {
		return nil
	}
	g.sidebar.Remove(g.main)
	g.sidebar = nil
	g.main.SetHost(g.mainHost)
	g.main.OnOtherEvent(event.SimpleEvent{Kind: event.Undock})
	return nil
}

func (g *Gadget) host(kind ViewKind) view.Host {
	if g.deps.Hosts == nil {
		return view.NopHost{}
	}
	if h := g.deps.Hosts(g, kind); h != nil {
		return h
	}
	return view.NopHost{}
}

func (g *Gadget) build(h view.Host, spec *config.ViewSpec) *view.View {
	v := view.New(h, g.deps.Factory, g.deps.Loop, spec.Options()...)
	spec.Apply(v)
	if g.options != nil {
		v.RegisterReadonly("options", func() variant.Variant {
			return variant.Scriptable(g.options.Scriptable())
		})
	}
	config.Populate(v.Children(), spec.Elements, g.manifest.Dir)
	return v
}
