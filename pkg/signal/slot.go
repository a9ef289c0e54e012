package signal

import (
	"reflect"

	"github.com/go-drift/gadget/pkg/variant"
)

// Slot is a callable with a declared signature. Signals check the signature
// at connect time so that Emit never has to.
type Slot interface {
	// Call invokes the slot. len(args) equals len(ArgTypes()).
	Call(args ...variant.Variant) variant.Variant
	// ArgTypes returns the declared argument types.
	ArgTypes() []variant.Type
	// ReturnType returns the declared return type.
	ReturnType() variant.Type
}

// FuncSlot is a Slot backed by a plain function over variants.
type FuncSlot struct {
	ret  variant.Type
	args []variant.Type
	fn   func(args []variant.Variant) variant.Variant
}

// NewFuncSlot builds a slot with an explicit signature. Script runtimes use
// it to wrap script functions.
func NewFuncSlot(ret variant.Type, args []variant.Type, fn func(args []variant.Variant) variant.Variant) *FuncSlot {
	return &FuncSlot{ret: ret, args: append([]variant.Type(nil), args...), fn: fn}
}

func (s *FuncSlot) Call(args ...variant.Variant) variant.Variant {
	if s.fn == nil {
		return variant.Zero(s.ret)
	}
	return s.fn(args)
}

func (s *FuncSlot) ArgTypes() []variant.Type  { return s.args }
func (s *FuncSlot) ReturnType() variant.Type { return s.ret }

// funcSlot adapts an arbitrary Go func through reflection.
type funcSlot struct {
	fn   reflect.Value
	args []variant.Type
	in   []reflect.Type
	ret  variant.Type
}

// NewSlot builds a slot from a Go func. Parameter and result types are
// mapped with variant.TypeOfGo; a func with more than one result, or a
// non-func value, yields nil.
//
//	sig := signal.New(variant.TypeVoid, variant.TypeInt64)
//	sig.Connect(signal.NewSlot(func(n int) { ... }))
func NewSlot(fn any) Slot {
	if fn == nil {
		return nil
	}
	if s, ok := fn.(Slot); ok {
		return s
	}
	rv := reflect.ValueOf(fn)
	rt := rv.Type()
	if rt.Kind() != reflect.Func || rt.IsVariadic() || rt.NumOut() > 1 {
		return nil
	}
	s := &funcSlot{fn: rv, ret: variant.TypeVoid}
	for i := 0; i < rt.NumIn(); i++ {
		in := rt.In(i)
		s.in = append(s.in, in)
		s.args = append(s.args, variant.TypeOfGo(in))
	}
	if rt.NumOut() == 1 {
		s.ret = variant.TypeOfGo(rt.Out(0))
	}
	return s
}

func (s *funcSlot) ArgTypes() []variant.Type  { return s.args }
func (s *funcSlot) ReturnType() variant.Type { return s.ret }

func (s *funcSlot) Call(args ...variant.Variant) variant.Variant {
	in := make([]reflect.Value, len(s.in))
	for i, t := range s.in {
		var arg variant.Variant
		if i < len(args) {
			arg = args[i]
		}
		rv, _ := variant.ConvertTo(arg, t)
		in[i] = rv
	}
	out := s.fn.Call(in)
	if len(out) == 0 {
		return variant.Void()
	}
	res := out[0].Interface()
	if v, ok := res.(variant.Variant); ok {
		return v
	}
	if s.ret == variant.TypeSlot {
		return variant.SlotValue(res)
	}
	return variant.FromValue(res)
}

// SlotOf extracts a slot carried by a variant, or nil.
func SlotOf(v variant.Variant) Slot {
	if v.Type() != variant.TypeSlot {
		return nil
	}
	s, _ := v.Value().(Slot)
	return s
}
