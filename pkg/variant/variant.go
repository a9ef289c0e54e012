// Package variant provides the tagged value type that flows through slots,
// signals and scriptable properties.
package variant

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// Type identifies the kind of value held by a Variant.
type Type int

const (
	// TypeVoid is the absence of a value.
	TypeVoid Type = iota
	// TypeBool holds a bool.
	TypeBool
	// TypeInt64 holds an int64.
	TypeInt64
	// TypeDouble holds a float64.
	TypeDouble
	// TypeString holds a string.
	TypeString
	// TypeScriptable holds a scriptable object.
	TypeScriptable
	// TypeSlot holds a callable slot.
	TypeSlot
	// TypeAny holds an arbitrary Go value.
	TypeAny
)

func (t Type) String() string {
	switch t {
	case TypeVoid:
		return "void"
	case TypeBool:
		return "bool"
	case TypeInt64:
		return "int64"
	case TypeDouble:
		return "double"
	case TypeString:
		return "string"
	case TypeScriptable:
		return "scriptable"
	case TypeSlot:
		return "slot"
	case TypeAny:
		return "any"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Variant is an immutable tagged value.
type Variant struct {
	typ Type
	v   any
}

// Void returns the void variant.
func Void() Variant { return Variant{} }

// Bool wraps b.
func Bool(b bool) Variant { return Variant{typ: TypeBool, v: b} }

// Int wraps i.
func Int(i int64) Variant { return Variant{typ: TypeInt64, v: i} }

// Double wraps f.
func Double(f float64) Variant { return Variant{typ: TypeDouble, v: f} }

// String wraps s.
func String(s string) Variant { return Variant{typ: TypeString, v: s} }

// Scriptable wraps a scriptable object. A nil object yields a scriptable
// variant holding nil, which scripts see as null.
func Scriptable(obj any) Variant { return Variant{typ: TypeScriptable, v: obj} }

// SlotValue wraps a slot. The slot type is declared in package signal; the
// variant stores it untyped to avoid an import cycle.
func SlotValue(slot any) Variant { return Variant{typ: TypeSlot, v: slot} }

// Any wraps an arbitrary Go value.
func Any(v any) Variant { return Variant{typ: TypeAny, v: v} }

// Zero returns the zero value for t.
func Zero(t Type) Variant {
	switch t {
	case TypeBool:
		return Bool(false)
	case TypeInt64:
		return Int(0)
	case TypeDouble:
		return Double(0)
	case TypeString:
		return String("")
	case TypeScriptable:
		return Scriptable(nil)
	case TypeSlot:
		return SlotValue(nil)
	case TypeAny:
		return Any(nil)
	default:
		return Void()
	}
}

// Type returns the variant's type tag.
func (v Variant) Type() Type { return v.typ }

// Value returns the raw Go value (nil for void).
func (v Variant) Value() any { return v.v }

// IsVoid reports whether v holds no value.
func (v Variant) IsVoid() bool { return v.typ == TypeVoid }

// IsNil reports whether v is void or holds a nil reference.
func (v Variant) IsNil() bool {
	if v.typ == TypeVoid || v.v == nil {
		return true
	}
	rv := reflect.ValueOf(v.v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

// ToBool converts v to a bool. Strings "true"/"false" and numbers convert;
// other types fail.
func (v Variant) ToBool() (bool, bool) {
	switch v.typ {
	case TypeBool:
		return v.v.(bool), true
	case TypeInt64:
		return v.v.(int64) != 0, true
	case TypeDouble:
		return v.v.(float64) != 0, true
	case TypeString:
		b, err := strconv.ParseBool(v.v.(string))
		if err != nil {
			return false, false
		}
		return b, true
	case TypeVoid:
		return false, true
	}
	return false, false
}

// ToInt converts v to an int64. Doubles are rounded toward zero.
func (v Variant) ToInt() (int64, bool) {
	switch v.typ {
	case TypeInt64:
		return v.v.(int64), true
	case TypeDouble:
		f := v.v.(float64)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return int64(f), true
	case TypeBool:
		if v.v.(bool) {
			return 1, true
		}
		return 0, true
	case TypeString:
		s := v.v.(string)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f), true
		}
	}
	return 0, false
}

// ToDouble converts v to a float64.
func (v Variant) ToDouble() (float64, bool) {
	switch v.typ {
	case TypeDouble:
		return v.v.(float64), true
	case TypeInt64:
		return float64(v.v.(int64)), true
	case TypeBool:
		if v.v.(bool) {
			return 1, true
		}
		return 0, true
	case TypeString:
		f, err := strconv.ParseFloat(v.v.(string), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// ToString converts v to a string. Void converts to "".
func (v Variant) ToString() (string, bool) {
	switch v.typ {
	case TypeString:
		return v.v.(string), true
	case TypeBool:
		return strconv.FormatBool(v.v.(bool)), true
	case TypeInt64:
		return strconv.FormatInt(v.v.(int64), 10), true
	case TypeDouble:
		return strconv.FormatFloat(v.v.(float64), 'g', -1, 64), true
	case TypeVoid:
		return "", true
	}
	return "", false
}

func (v Variant) String() string {
	if s, ok := v.ToString(); ok {
		if v.typ == TypeString {
			return strconv.Quote(s)
		}
		if v.typ == TypeVoid {
			return "void"
		}
		return s
	}
	return fmt.Sprintf("%s(%v)", v.typ, v.v)
}

// Equal reports whether a and b hold the same type and an equal value.
// Slots and scriptables compare by identity.
func Equal(a, b Variant) bool {
	if a.typ != b.typ {
		return false
	}
	if a.typ == TypeVoid {
		return true
	}
	av, bv := reflect.ValueOf(a.v), reflect.ValueOf(b.v)
	if !av.IsValid() || !bv.IsValid() {
		return av.IsValid() == bv.IsValid()
	}
	if av.Type().Comparable() && bv.Type().Comparable() {
		return a.v == b.v
	}
	if av.Kind() == reflect.Func && bv.Kind() == reflect.Func {
		return av.Pointer() == bv.Pointer()
	}
	return false
}

// FromValue classifies a Go value. Variants pass through unchanged.
func FromValue(x any) Variant {
	switch t := x.(type) {
	case nil:
		return Void()
	case Variant:
		return t
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int8:
		return Int(int64(t))
	case int16:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case uint:
		return Int(int64(t))
	case uint8:
		return Int(int64(t))
	case uint16:
		return Int(int64(t))
	case uint32:
		return Int(int64(t))
	case uint64:
		return Int(int64(t))
	case float32:
		return Double(float64(t))
	case float64:
		return Double(t)
	case string:
		return String(t)
	}
	return Any(x)
}

var variantType = reflect.TypeOf(Variant{})

// TypeOfGo maps a Go type to the variant type a value of it would carry.
// Parameters declared as Variant map to TypeAny.
func TypeOfGo(t reflect.Type) Type {
	if t == nil {
		return TypeVoid
	}
	if t == variantType {
		return TypeAny
	}
	switch t.Kind() {
	case reflect.Bool:
		return TypeBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return TypeInt64
	case reflect.Float32, reflect.Float64:
		return TypeDouble
	case reflect.String:
		return TypeString
	case reflect.Func:
		return TypeSlot
	}
	return TypeAny
}

// ConvertTo returns v converted into a reflect.Value of type t, for calling
// Go functions through reflection.
func ConvertTo(v Variant, t reflect.Type) (reflect.Value, bool) {
	if t == variantType {
		return reflect.ValueOf(v), true
	}
	switch t.Kind() {
	case reflect.Bool:
		b, ok := v.ToBool()
		return reflect.ValueOf(b).Convert(t), ok
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i, ok := v.ToInt()
		return reflect.ValueOf(i).Convert(t), ok
	case reflect.Float32, reflect.Float64:
		f, ok := v.ToDouble()
		return reflect.ValueOf(f).Convert(t), ok
	case reflect.String:
		s, ok := v.ToString()
		return reflect.ValueOf(s).Convert(t), ok
	}
	if v.v == nil {
		return reflect.Zero(t), true
	}
	rv := reflect.ValueOf(v.v)
	if rv.Type().AssignableTo(t) {
		return rv, true
	}
	if rv.Type().ConvertibleTo(t) {
		return rv.Convert(t), true
	}
	return reflect.Zero(t), false
}
