package config

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"

	"github.com/go-drift/gadget/pkg/element"
	gadgeterrors "github.com/go-drift/gadget/pkg/errors"
	"github.com/go-drift/gadget/pkg/graphics"
	"github.com/go-drift/gadget/pkg/scriptable"
	"github.com/go-drift/gadget/pkg/variant"
	"github.com/go-drift/gadget/pkg/view"
)

// Options returns the view options for the spec's size, resizable mode
// and caption.
func (s *ViewSpec) Options() []view.Option {
	var opts []view.Option
	if s.Width > 0 && s.Height > 0 {
		opts = append(opts, view.WithSize(s.Width, s.Height))
	}
	if m, ok := view.ParseResizable(s.Resizable); ok && s.Resizable != "" {
		opts = append(opts, view.WithResizable(m))
	}
	if s.Caption != "" {
		opts = append(opts, view.WithCaption(s.Caption))
	}
	return opts
}

// Apply sets the view attributes that have no construction option.
func (s *ViewSpec) Apply(v *view.View) {
	v.SetShowCaptionAlways(s.ShowCaptionAlways)
	if s.MinWidth > 0 || s.MinHeight > 0 {
		v.SetMinSize(s.MinWidth, s.MinHeight)
	}
}

// Populate creates specs under es and returns how many elements were
// created. Unknown tags are skipped with their children. A property the
// element rejects is reported and skipped, leaving the element inert for
// that property. Relative image sources resolve against dir.
func Populate(es *element.Elements, specs []ElementSpec, dir string) int {
	n := 0
	for _, spec := range specs {
		e := es.AppendElement(spec.Tag, spec.Name)
		if e == nil {
			continue
		}
		n++
		for _, key := range slices.Sorted(maps.Keys(spec.Properties)) {
			v := propertyValue(key, spec.Properties[key], dir)
			if !scriptable.Set(e, key, v) {
				gadgeterrors.Report(&gadgeterrors.GadgetError{
					Op:      "config.Populate",
					Kind:    gadgeterrors.KindConfig,
					Err:     &gadgeterrors.PropertyError{Property: key, Reason: fmt.Sprintf("rejected value %v", spec.Properties[key])},
					Element: elementLabel(spec),
				})
			}
		}
		if len(spec.Children) > 0 {
			if children := e.Base().Children(); children != nil {
				n += Populate(children, spec.Children, dir)
			} else {
				gadgeterrors.ReportKind("config.Populate", gadgeterrors.KindConfig,
					fmt.Errorf("%s cannot have children", elementLabel(spec)))
			}
		}
	}
	return n
}

func elementLabel(spec ElementSpec) string {
	if spec.Name != "" {
		return spec.Name
	}
	return spec.Tag
}

func propertyValue(key string, raw any, dir string) variant.Variant {
	if s, ok := raw.(string); ok && key == "src" && s != "" && dir != "" {
		if _, isColor := graphics.ParseColor(s); !isColor && !filepath.IsAbs(s) {
			return variant.String(filepath.Join(dir, s))
		}
	}
	return ToVariant(raw)
}

// ToVariant converts a decoded YAML scalar to a variant. Other values
// become their fmt representation.
func ToVariant(raw any) variant.Variant {
	switch v := raw.(type) {
	case nil:
		return variant.Void()
	case bool:
		return variant.Bool(v)
	case int:
		return variant.Int(int64(v))
	case int64:
		return variant.Int(v)
	case uint64:
		return variant.Int(int64(v))
	case float64:
		return variant.Double(v)
	case string:
		return variant.String(v)
	default:
		return variant.String(fmt.Sprint(v))
	}
}
