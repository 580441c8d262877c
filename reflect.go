package fieldmodel

import (
	"fmt"
	"reflect"
	"sync"
)

// Builtins holds the record types of the generic leaf wrappers. They are
// defined lazily, one per instantiation.
var Builtins = NewSchema(SchemaOpts{})

var (
	leafTypeCache sync.Map
	leafTypeMu    sync.Mutex
)

func leafType[R any](name func() string, build func(b *RecordBuilder[R])) *RecordType {
	key := reflect.TypeFor[*R]()
	if v, ok := leafTypeCache.Load(key); ok {
		return v.(*RecordType)
	}
	leafTypeMu.Lock()
	defer leafTypeMu.Unlock()
	if v, ok := leafTypeCache.Load(key); ok {
		return v.(*RecordType)
	}
	typ := DefineRecord(Builtins, name(), build)
	leafTypeCache.Store(key, typ)
	return typ
}

// typeName spells t with full import paths, so that same-named types from
// packages sharing a package name get distinct leaf record types.
func typeName(t reflect.Type) string {
	if t.Name() != "" {
		if t.PkgPath() == "" {
			return t.Name()
		}
		return t.PkgPath() + "." + t.Name()
	}
	switch t.Kind() {
	case reflect.Pointer:
		return "*" + typeName(t.Elem())
	case reflect.Slice:
		return "[]" + typeName(t.Elem())
	case reflect.Array:
		return fmt.Sprintf("[%d]%s", t.Len(), typeName(t.Elem()))
	case reflect.Map:
		return "map[" + typeName(t.Key()) + "]" + typeName(t.Elem())
	}
	return t.String()
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
