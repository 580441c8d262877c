package fieldmodel

import (
	"reflect"
	"slices"
)

// ExtraStater is implemented by records whose Cloner needs construction
// state beyond the record's own fields, such as an association with
// a reference table.
type ExtraStater interface {
	ExtraConstructionState() []any
}

// Clone produces a record of the same type and value as rec whose change
// notifications go to h. Trailing extra arguments, when given, replace the
// record's ExtraConstructionState.
//
// A type without a Cloner is built with its Constructor and then receives
// a copy of every settable field; nested records and collections are cloned
// recursively and wired to the copy. Read-only fields holding records or
// collections are filled in place (see ContentCopier). Panics with
// *ConstructionError if the type declares neither a Cloner nor
// a Constructor, or if a read-only field cannot be filled.
func Clone(rec Record, h ChangeHandler, extra ...any) Record {
	typ := rec.RecordType()
	if typ.cloner != nil {
		if len(extra) == 0 {
			if es, ok := rec.(ExtraStater); ok {
				extra = es.ExtraConstructionState()
			}
		}
		return typ.cloner(rec.RequestedVersion(), h, rec, extra)
	}
	if typ.ctor != nil {
		return cloneByFields(typ, rec, h)
	}
	panic(&ConstructionError{Type: typ.Name()})
}

func CloneAs[R Record](rec R, h ChangeHandler, extra ...any) R {
	return Clone(rec, h, extra...).(R)
}

// ContentCopier is implemented by collections that can replace their
// contents with a copy of another collection of the same type. Clone uses
// it for read-only collection fields of types that rely on a Constructor.
type ContentCopier interface {
	CopyContents(src any) bool
}

func cloneByFields(typ *RecordType, rec Record, h ChangeHandler) Record {
	typ.schema.Logger().Debug("cloning via default constructor", "type", typ.name)
	dup := typ.ctor(rec.RequestedVersion(), nil)
	copyFields(typ, rec, dup)
	dup.element().reset(h)
	return dup
}

// copyFields copies the content of rec into dup, a record of the same type.
// Read-only fields that hold no records or collections are derived and
// skipped.
func copyFields(typ *RecordType, rec, dup Record) {
	owner := HandlerFor(dup)
	for _, fd := range typ.fields {
		if fd.set != nil {
			fd.set(dup, cloneValue(fd.get(rec), owner))
			continue
		}
		if !holdsContent(fd.Type) {
			continue
		}
		if !copyInto(fd.get(dup), fd.get(rec)) {
			panic(&ConstructionError{Type: typ.Name(), Field: fd.Name, Msg: "read-only field cannot be copied into a constructed record, declare a Cloner"})
		}
	}
}

var contentTypes = []reflect.Type{
	reflect.TypeFor[Record](),
	reflect.TypeFor[Collection](),
	reflect.TypeFor[ReferenceTable](),
	reflect.TypeFor[CollectionCloner](),
}

func holdsContent(t reflect.Type) bool {
	if t.Kind() == reflect.Array {
		return holdsContent(t.Elem())
	}
	return slices.ContainsFunc(contentTypes, t.Implements)
}

// copyInto fills dst in place with the content of src and leaves dst clean.
// Reports false when that is not possible.
func copyInto(dst, src any) bool {
	if isNil(src) || isNil(dst) {
		return isNil(src) && isNil(dst)
	}
	switch d := dst.(type) {
	case ContentCopier:
		if !d.CopyContents(src) {
			return false
		}
		if t, ok := dst.(Tracker); ok {
			t.element().dirty = false
		}
		return true
	case Record:
		s, ok := src.(Record)
		if !ok || s.RecordType() != d.RecordType() {
			return false
		}
		copyFields(d.RecordType(), s, d)
		d.element().dirty = false
		return true
	}
	sv, dv := reflect.ValueOf(src), reflect.ValueOf(dst)
	if sv.Kind() != reflect.Array || sv.Type() != dv.Type() {
		return false
	}
	for i := range sv.Len() {
		if !copyInto(dv.Index(i).Interface(), sv.Index(i).Interface()) {
			return false
		}
	}
	return true
}

// cloneValue copies records, collections and slices so that the copy shares
// no mutable state with v. Other values are returned as is.
func cloneValue(v any, h ChangeHandler) any {
	if isNil(v) {
		return v
	}
	switch v := v.(type) {
	case CollectionCloner:
		return v.CloneCollection(h)
	case Record:
		return Clone(v, h)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		dup := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := range rv.Len() {
			copyElem(dup.Index(i), rv.Index(i), h)
		}
		return dup.Interface()
	case reflect.Array:
		dup := reflect.New(rv.Type()).Elem()
		for i := range rv.Len() {
			copyElem(dup.Index(i), rv.Index(i), h)
		}
		return dup.Interface()
	}
	return v
}

func copyElem(dst, src reflect.Value, h ChangeHandler) {
	if !src.CanInterface() {
		dst.Set(src)
		return
	}
	c := cloneValue(src.Interface(), h)
	if c == nil {
		return
	}
	dst.Set(reflect.ValueOf(c))
}
