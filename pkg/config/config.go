// Package config loads gadget manifests.
//
// A gadget is a directory holding a gadget.yaml manifest and whatever
// images it refers to:
//
//	gadget:
//	  id: com.example.clock
//	  name: Clock
//	  version: 1.2.0
//	  min_runtime: 0.3.0
//	view:
//	  width: 120
//	  height: 60
//	  resizable: zoom
//	  elements:
//	    - tag: label
//	      name: time
//	      properties: {x: 10, y: "50%", text: "--:--"}
//	options:
//	  format: 24h
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/gadget/pkg/view"
)

// ManifestName is the manifest file name inside a gadget directory.
const ManifestName = "gadget.yaml"

// RuntimeVersion is the version gadgets declare min_runtime against.
const RuntimeVersion = "0.3.0"

// ErrNoManifest is returned by Load when the directory has no manifest.
var ErrNoManifest = errors.New("config: no " + ManifestName)

// Manifest is a parsed gadget.yaml.
type Manifest struct {
	Gadget  GadgetInfo     `yaml:"gadget"`
	View    ViewSpec       `yaml:"view"`
	Details *ViewSpec      `yaml:"details,omitempty"`
	Options map[string]any `yaml:"options,omitempty"`

	// Dir is the gadget directory. Relative image sources resolve
	// against it.
	Dir string `yaml:"-"`
}

// GadgetInfo identifies a gadget.
type GadgetInfo struct {
	ID          string `yaml:"id,omitempty"`
	Name        string `yaml:"name,omitempty"`
	Version     string `yaml:"version,omitempty"`
	MinRuntime  string `yaml:"min_runtime,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// ViewSpec describes a view and its element tree.
type ViewSpec struct {
	Width             float64       `yaml:"width,omitempty"`
	Height            float64       `yaml:"height,omitempty"`
	Resizable         string        `yaml:"resizable,omitempty"`
	Caption           string        `yaml:"caption,omitempty"`
	ShowCaptionAlways bool          `yaml:"show_caption_always,omitempty"`
	MinWidth          float64       `yaml:"min_width,omitempty"`
	MinHeight         float64       `yaml:"min_height,omitempty"`
	Elements          []ElementSpec `yaml:"elements,omitempty"`
}

// ElementSpec describes one element. Properties are applied through the
// element's script properties in key order.
type ElementSpec struct {
	Tag        string         `yaml:"tag"`
	Name       string         `yaml:"name,omitempty"`
	Properties map[string]any `yaml:"properties,omitempty"`
	Children   []ElementSpec  `yaml:"children,omitempty"`
}

// Parse decodes a manifest. Unknown fields are rejected; empty input is
// an empty manifest.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse %s: %w", ManifestName, err)
	}
	return &m, nil
}

// Load reads, resolves and validates the manifest in dir.
func Load(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w in %s", ErrNoManifest, dir)
		}
		return nil, fmt.Errorf("failed to read %s: %w", ManifestName, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	m.Resolve(dir)
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Resolve records dir and fills defaults: the name from the directory,
// an id under com.example and version 0.0.0.
func (m *Manifest) Resolve(dir string) {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	m.Dir = dir

	g := &m.Gadget
	g.Name = strings.TrimSpace(g.Name)
	if g.Name == "" {
		g.Name = filepath.Base(dir)
	}
	g.ID = strings.TrimSpace(g.ID)
	if g.ID == "" {
		g.ID = DefaultID(g.Name)
	}
	g.Version = strings.TrimSpace(g.Version)
	if g.Version == "" {
		g.Version = "0.0.0"
	}
}

// Validate checks the id, versions and view sizes. All problems are
// returned together.
func (m *Manifest) Validate() error {
	var errs []error
	if err := ValidateID(m.Gadget.ID); err != nil {
		errs = append(errs, err)
	}
	if !semver.IsValid(canonical(m.Gadget.Version)) {
		errs = append(errs, fmt.Errorf("gadget.version %q is not a semantic version", m.Gadget.Version))
	}
	if err := CheckRuntime(m.Gadget.MinRuntime); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, m.View.validate("view")...)
	if m.Details != nil {
		errs = append(errs, m.Details.validate("details")...)
	}
	return errors.Join(errs...)
}

func (s *ViewSpec) validate(field string) []error {
	var errs []error
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"width", s.Width}, {"height", s.Height}, {"min_width", s.MinWidth}, {"min_height", s.MinHeight},
	} {
		if f.v < 0 {
			errs = append(errs, fmt.Errorf("%s.%s must not be negative (got %v)", field, f.name, f.v))
		}
	}
	if s.Resizable != "" {
		if _, ok := view.ParseResizable(s.Resizable); !ok {
			errs = append(errs, fmt.Errorf("%s.resizable %q must be true, false, zoom or keep-ratio", field, s.Resizable))
		}
	}
	for i, e := range s.Elements {
		errs = append(errs, e.validate(fmt.Sprintf("%s.elements[%d]", field, i))...)
	}
	return errs
}

func (e *ElementSpec) validate(field string) []error {
	var errs []error
	if strings.TrimSpace(e.Tag) == "" {
		errs = append(errs, fmt.Errorf("%s.tag is required", field))
	}
	for i, c := range e.Children {
		errs = append(errs, c.validate(fmt.Sprintf("%s.children[%d]", field, i))...)
	}
	return errs
}

// canonical adds the "v" prefix semver expects.
func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// CheckRuntime reports whether a gadget requiring the given runtime
// version can run on this one. An empty requirement always passes.
func CheckRuntime(required string) error {
	if strings.TrimSpace(required) == "" {
		return nil
	}
	v := canonical(required)
	if !semver.IsValid(v) {
		return fmt.Errorf("gadget.min_runtime %q is not a semantic version", required)
	}
	if semver.Compare(v, canonical(RuntimeVersion)) > 0 {
		return fmt.Errorf("gadget requires runtime %s, this is %s", required, RuntimeVersion)
	}
	return nil
}

// DefaultID derives a gadget id under com.example from a name.
func DefaultID(name string) string { return "com.example." + sanitizeSegment(name) }

// ValidateID checks that id is dot-separated segments of letters, digits
// and underscores, each starting with a letter.
func ValidateID(id string) error {
	if !strings.Contains(id, ".") {
		return fmt.Errorf("gadget.id must contain at least one '.' (got %q)", id)
	}
	for _, segment := range strings.Split(id, ".") {
		if segment == "" {
			return fmt.Errorf("gadget.id contains an empty segment (%q)", id)
		}
		if !isLetter(rune(segment[0])) {
			return fmt.Errorf("gadget.id segments must start with a letter (%q)", id)
		}
		for _, r := range segment {
			if !(r == '_' || isLetter(r) || r >= '0' && r <= '9') {
				return fmt.Errorf("gadget.id contains invalid character %q in %q", r, id)
			}
		}
	}
	return nil
}

func isLetter(r rune) bool { return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' }

func sanitizeSegment(segment string) string {
	var out []rune
	for _, r := range strings.TrimSpace(segment) {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return "gadget"
	}
	if !isLetter(out[0]) {
		out = append([]rune{'g'}, out...)
	}
	return string(out)
}
