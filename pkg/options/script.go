package options

import (
	"errors"

	gadgeterrors "github.com/go-drift/gadget/pkg/errors"
	"github.com/go-drift/gadget/pkg/scriptable"
	"github.com/go-drift/gadget/pkg/variant"
)

// ClassOptions is the scriptable class id of the options facade.
const ClassOptions uint64 = 0x1f6e0c8a52d34b97

// Scriptable is the script view of an option set. Storage failures are
// reported and surface to scripts as void or false.
type Scriptable struct {
	scriptable.Helper
	opts *Options
}

// Scriptable returns the script facade of o, creating it on first use.
func (o *Options) Scriptable() *Scriptable {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.facade == nil {
		o.facade = newScriptable(o)
	}
	return o.facade
}

func newScriptable(o *Options) *Scriptable {
	s := &Scriptable{opts: o}
	s.SetClass(ClassOptions)
	s.RegisterMethod("getValue", func(name string) variant.Variant {
		v, err := o.Get(name)
		if err != nil && !errors.Is(err, ErrNoValue) {
			gadgeterrors.ReportKind("options.getValue", gadgeterrors.KindStorage, err)
		}
		return v
	})
	s.RegisterMethod("putValue", func(name string, v variant.Variant) bool {
		return report("options.putValue", o.Put(name, v))
	})
	s.RegisterMethod("remove", func(name string) bool {
		return report("options.remove", o.Remove(name))
	})
	s.RegisterMethod("exists", o.Exists)
	s.RegisterMethod("count", func() int64 {
		keys, err := o.Keys()
		report("options.count", err)
		return int64(len(keys))
	})
	s.RegisterSignal("onchanged", o.OnChanged)
	return s
}

func report(op string, err error) bool {
	if err != nil {
		gadgeterrors.ReportKind(op, gadgeterrors.KindStorage, err)
		return false
	}
	return true
}
