// Package scriptable exposes native objects to a script runtime.
//
// Every member an object exposes is addressed by an integer id. Named
// members (properties, methods, signals) resolve to negative ids through
// GetPropertyInfoByName; non-negative ids are array-index access. Constants
// resolve to id 0 and carry their value in the returned prototype, so a
// script runtime can cache them without calling back.
package scriptable

import (
	"github.com/go-drift/gadget/pkg/signal"
	"github.com/go-drift/gadget/pkg/variant"
)

// PropertyKind classifies a resolved member.
type PropertyKind int

const (
	// KindNone means the member does not exist.
	KindNone PropertyKind = iota
	// KindProperty is a readable and possibly writable value.
	KindProperty
	// KindConstant is an immutable value delivered through the prototype.
	KindConstant
	// KindMethod is a callable; its prototype holds the slot.
	KindMethod
	// KindSignal accepts a script slot as its value.
	KindSignal
	// KindDynamic is a member resolved by a dynamic handler.
	KindDynamic
)

func (k PropertyKind) String() string {
	switch k {
	case KindProperty:
		return "property"
	case KindConstant:
		return "constant"
	case KindMethod:
		return "method"
	case KindSignal:
		return "signal"
	case KindDynamic:
		return "dynamic"
	default:
		return "none"
	}
}

// PropertyInfo describes a resolved member.
type PropertyInfo struct {
	ID        int
	Kind      PropertyKind
	Prototype variant.Variant
}

// IsMethod reports whether the member is a method, as opposed to a signal
// property that also takes a slot.
func (p PropertyInfo) IsMethod() bool { return p.Kind == KindMethod }

// Interface is the only surface a script runtime uses to read, write and
// observe engine objects.
type Interface interface {
	ClassID() uint64
	IsInstanceOf(classID uint64) bool
	GetPropertyInfoByName(name string) (PropertyInfo, bool)
	GetPropertyInfoByID(id int) (PropertyInfo, bool)
	GetProperty(id int) variant.Variant
	SetProperty(id int, v variant.Variant) bool
	ConnectOnDelete(slot signal.Slot) *signal.Connection
}

// Get reads a named member. Methods come back as slot variants.
func Get(obj Interface, name string) (variant.Variant, bool) {
	if obj == nil {
		return variant.Void(), false
	}
	info, ok := obj.GetPropertyInfoByName(name)
	if !ok {
		return variant.Void(), false
	}
	if info.Kind == KindConstant {
		return info.Prototype, true
	}
	return obj.GetProperty(info.ID), true
}

// Set writes a named member.
func Set(obj Interface, name string, v variant.Variant) bool {
	if obj == nil {
		return false
	}
	info, ok := obj.GetPropertyInfoByName(name)
	if !ok || info.Kind == KindConstant || info.Kind == KindMethod {
		return false
	}
	return obj.SetProperty(info.ID, v)
}

// Invoke calls a named method. Arguments beyond the method's arity are
// dropped; missing ones are passed as void.
func Invoke(obj Interface, name string, args ...variant.Variant) (variant.Variant, bool) {
	v, ok := Get(obj, name)
	if !ok {
		return variant.Void(), false
	}
	slot := signal.SlotOf(v)
	if slot == nil {
		return variant.Void(), false
	}
	want := len(slot.ArgTypes())
	call := make([]variant.Variant, want)
	copy(call, args)
	return slot.Call(call...), true
}

// Object extracts a scriptable object from a variant, or nil.
func Object(v variant.Variant) Interface {
	if v.Type() != variant.TypeScriptable || v.IsNil() {
		return nil
	}
	obj, _ := v.Value().(Interface)
	return obj
}
