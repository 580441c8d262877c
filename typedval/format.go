package typedval

import (
	"encoding/hex"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

type IntegerValue interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

var stringerType = reflect.TypeFor[fmt.Stringer]()

// opaqueConfig renders values we have no dedicated formatter for. Pointer
// addresses are suppressed so that output is stable between runs.
var opaqueConfig = spew.ConfigState{
	Indent:                  " ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          false,
	SortKeys:                true,
}

// Hex renders v as 0x followed by upper-case hex digits padded to the width
// of T.
func Hex[T IntegerValue](v T) string {
	rv := reflect.ValueOf(v)
	return hexOf(rv)
}

func hexOf(rv reflect.Value) string {
	width := int(rv.Type().Size()) * 2
	var u uint64
	if isSigned(rv.Kind()) {
		u = uint64(rv.Int()) & mask(rv.Type().Size())
	} else {
		u = rv.Uint()
	}
	s := strings.ToUpper(strconv.FormatUint(u, 16))
	if n := width - len(s); n > 0 {
		s = strings.Repeat("0", n) + s
	}
	return "0x" + s
}

func mask(size uintptr) uint64 {
	if size >= 8 {
		return ^uint64(0)
	}
	return (uint64(1) << (size * 8)) - 1
}

func Bytes(b []byte) string {
	if b == nil {
		return "<nil>"
	}
	if len(b) == 0 {
		return "<empty>"
	}
	return strings.ToUpper(hex.EncodeToString(b))
}

func formatAny(v any, f Format) string {
	if v == nil {
		return "<nil>"
	}
	return formatValue(reflect.ValueOf(v), f)
}

func formatValue(rv reflect.Value, f Format) string {
	typ := rv.Type()
	k := rv.Kind()

	if isInteger(k) {
		s := formatInteger(rv, f)
		if typ.Implements(stringerType) {
			return s + " (" + rv.Interface().(fmt.Stringer).String() + ")"
		}
		return s
	}
	if (k == reflect.Pointer || k == reflect.Interface) && rv.IsNil() {
		return "<nil>"
	}
	if typ.Implements(stringerType) {
		return rv.Interface().(fmt.Stringer).String()
	}

	switch k {
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.String:
		return rv.String()
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64)
	case reflect.Slice:
		if typ.Elem().Kind() == reflect.Uint8 {
			return Bytes(rv.Bytes())
		}
		if rv.IsNil() {
			return "<nil>"
		}
		return formatSeq(rv, f)
	case reflect.Array:
		return formatSeq(rv, f)
	case reflect.Pointer, reflect.Interface:
		return formatValue(rv.Elem(), f)
	default:
		return strings.TrimSuffix(opaqueConfig.Sdump(rv.Interface()), "\n")
	}
}

func formatInteger(rv reflect.Value, f Format) string {
	if f == FormatHex || (f == FormatDefault && isUnsigned(rv.Kind())) {
		return hexOf(rv)
	}
	if isSigned(rv.Kind()) {
		return strconv.FormatInt(rv.Int(), 10)
	}
	return strconv.FormatUint(rv.Uint(), 10)
}

func formatSeq(rv reflect.Value, f Format) string {
	var buf strings.Builder
	buf.WriteByte('[')
	for i := range rv.Len() {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(formatValue(rv.Index(i), f))
	}
	buf.WriteByte(']')
	return buf.String()
}
