// Package typedval wraps a field value together with its runtime type and a
// numeric display format, so that values read from arbitrary records can be
// ordered and rendered uniformly.
package typedval

import (
	"cmp"
	"fmt"
	"reflect"
	"strings"
)

type Format int

const (
	// FormatDefault renders unsigned integers as hex and everything else in
	// its natural form.
	FormatDefault Format = iota
	FormatHex
	FormatDecimal
)

func (f Format) String() string {
	switch f {
	case FormatDefault:
		return "default"
	case FormatHex:
		return "hex"
	case FormatDecimal:
		return "decimal"
	default:
		return fmt.Sprintf("invalid format %d", int(f))
	}
}

type Value struct {
	typ    reflect.Type
	val    any
	format Format
}

func Of(v any) Value {
	return WithFormat(v, FormatDefault)
}

func WithFormat(v any, f Format) Value {
	if tv, ok := v.(Value); ok {
		tv.format = f
		return tv
	}
	return Value{typ: reflect.TypeOf(v), val: v, format: f}
}

// Typed records the declared type even when v is a nil interface or pointer.
func Typed(typ reflect.Type, v any) Value {
	return Value{typ: typ, val: v}
}

func (tv Value) Type() reflect.Type { return tv.typ }
func (tv Value) Interface() any     { return tv.val }
func (tv Value) Format() Format     { return tv.format }
func (tv Value) IsNil() bool        { return isNil(tv.val) }

func (tv Value) TypeName() string {
	if tv.typ == nil {
		return "<nil>"
	}
	return tv.typ.String()
}

func (tv Value) String() string {
	return formatAny(tv.val, tv.format)
}

// Int returns the integer payload of the value. Reports false for non-integer
// values and for unsigned values that do not fit into int64.
func (tv Value) Int() (int64, bool) {
	if tv.val == nil {
		return 0, false
	}
	rv := reflect.ValueOf(tv.val)
	switch {
	case isSigned(rv.Kind()):
		return rv.Int(), true
	case isUnsigned(rv.Kind()):
		u := rv.Uint()
		if u > 1<<63-1 {
			return 0, false
		}
		return int64(u), true
	default:
		return 0, false
	}
}

// Compare orders values numerically when both are numbers, as booleans when
// both are booleans, and by rendered text otherwise.
func (tv Value) Compare(other Value) int {
	a, b := reflect.ValueOf(tv.val), reflect.ValueOf(other.val)
	if !a.IsValid() || !b.IsValid() {
		return cmp.Compare(boolInt(a.IsValid()), boolInt(b.IsValid()))
	}
	ak, bk := a.Kind(), b.Kind()
	switch {
	case isInteger(ak) && isInteger(bk):
		return compareIntegers(a, b)
	case isNumber(ak) && isNumber(bk):
		return cmp.Compare(toFloat(a), toFloat(b))
	case ak == reflect.Bool && bk == reflect.Bool:
		return cmp.Compare(boolInt(a.Bool()), boolInt(b.Bool()))
	case ak == reflect.String && bk == reflect.String:
		return strings.Compare(a.String(), b.String())
	default:
		return strings.Compare(tv.String(), other.String())
	}
}

func (tv Value) Equal(other Value) bool {
	if tv.typ != other.typ {
		return false
	}
	if tv.typ != nil && tv.typ.Comparable() {
		return tv.val == other.val
	}
	return reflect.DeepEqual(tv.val, other.val)
}

func compareIntegers(a, b reflect.Value) int {
	as, bs := isSigned(a.Kind()), isSigned(b.Kind())
	switch {
	case as && bs:
		return cmp.Compare(a.Int(), b.Int())
	case !as && !bs:
		return cmp.Compare(a.Uint(), b.Uint())
	case as:
		if a.Int() < 0 {
			return -1
		}
		return cmp.Compare(uint64(a.Int()), b.Uint())
	default:
		if b.Int() < 0 {
			return 1
		}
		return cmp.Compare(a.Uint(), uint64(b.Int()))
	}
}

func toFloat(v reflect.Value) float64 {
	switch {
	case isSigned(v.Kind()):
		return float64(v.Int())
	case isUnsigned(v.Kind()):
		return float64(v.Uint())
	default:
		return v.Float()
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func isSigned(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUnsigned(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isInteger(k reflect.Kind) bool {
	return isSigned(k) || isUnsigned(k)
}

func isNumber(k reflect.Kind) bool {
	return isInteger(k) || k == reflect.Float32 || k == reflect.Float64
}
