package fieldmodel

import (
	"fmt"
	"reflect"
	"slices"
)

// Infrastructure field names are declared on every record type but are never
// part of the visible field list.
const (
	FieldRequestedApiVersion   = "RequestedApiVersion"
	FieldRecommendedApiVersion = "RecommendedApiVersion"
	FieldContentFields         = "ContentFields"
)

var InfrastructureFields = []string{
	FieldRequestedApiVersion,
	FieldRecommendedApiVersion,
	FieldContentFields,
}

func IsInfrastructureField(name string) bool {
	return slices.Contains(InfrastructureFields, name)
}

// RecordType is the field descriptor table of one record type.
type RecordType struct {
	schema      *Schema
	name        string
	goType      reflect.Type
	shared      bool
	recommended uint32

	fields       []*FieldDescriptor
	fieldsByName map[string]*FieldDescriptor

	cloner func(version uint32, h ChangeHandler, basis Record, extra []any) Record
	ctor   func(version uint32, h ChangeHandler) Record
}

func (typ *RecordType) Name() string               { return typ.name }
func (typ *RecordType) String() string             { return typ.name }
func (typ *RecordType) Schema() *Schema            { return typ.schema }
func (typ *RecordType) GoType() reflect.Type       { return typ.goType }
func (typ *RecordType) RecommendedVersion() uint32 { return typ.recommended }

// Fields returns every declared field in declaration order, including
// infrastructure fields and fields not visible at any particular version.
func (typ *RecordType) Fields() []*FieldDescriptor {
	return slices.Clone(typ.fields)
}

// Field looks up a declared field by name, regardless of version.
func (typ *RecordType) Field(name string) *FieldDescriptor {
	return typ.fieldsByName[name]
}

// EffectiveVersion substitutes the recommended version for a zero request.
func (typ *RecordType) EffectiveVersion(requested uint32) uint32 {
	if requested == 0 {
		return typ.recommended
	}
	return requested
}

func (typ *RecordType) addField(fd *FieldDescriptor) {
	if fd.Name == "" {
		panic(fmt.Errorf("%s: field name missing", typ.name))
	}
	if fd.get == nil {
		panic(fmt.Errorf("%s.%s: getter missing", typ.name, fd.Name))
	}
	if fd.Type == nil {
		panic(fmt.Errorf("%s.%s: type missing", typ.name, fd.Name))
	}
	if typ.fieldsByName[fd.Name] != nil {
		panic(fmt.Errorf("%s already has field %s", typ.name, fd.Name))
	}
	if fd.Kind == kindAuto {
		fd.Kind = inferKind(fd.Type)
	}
	typ.fields = append(typ.fields, fd)
	typ.fieldsByName[fd.Name] = fd
}

func (typ *RecordType) validate() {
	for _, fd := range typ.fields {
		if fd.MinVersion != 0 && fd.MaxVersion != 0 && fd.MinVersion > fd.MaxVersion {
			panic(fmt.Errorf("%s.%s: min version %d exceeds max version %d", typ.name, fd.Name, fd.MinVersion, fd.MaxVersion))
		}
		if link := fd.LinkedIndexField; link != "" {
			target := typ.fieldsByName[link]
			if target == nil {
				panic(fmt.Errorf("%s.%s: linked index field %s is not declared", typ.name, fd.Name, link))
			}
			if !target.Type.Implements(referenceTableIface) {
				panic(fmt.Errorf("%s.%s: linked index field %s is %v, not a ReferenceTable", typ.name, fd.Name, link, target.Type))
			}
		}
	}
}

// RecordBuilder declares the fields and construction shapes of a record
// type inside DefineRecord.
type RecordBuilder[R any] struct {
	typ *RecordType
}

// DefineRecord builds the descriptor table for *R and registers it in scm.
// *R must implement Record. Definition defects panic.
func DefineRecord[R any](scm *Schema, name string, build func(b *RecordBuilder[R])) *RecordType {
	ptrType := reflect.TypeFor[*R]()
	if !ptrType.Implements(recordIface) {
		panic(fmt.Errorf("DefineRecord(%s): %v does not implement Record", name, ptrType))
	}
	if name == "" {
		panic(fmt.Errorf("DefineRecord(%v): name missing", ptrType))
	}
	typ := &RecordType{
		schema:       scm,
		name:         name,
		goType:       ptrType,
		fieldsByName: make(map[string]*FieldDescriptor),
	}
	b := &RecordBuilder[R]{typ: typ}
	b.addInfrastructureFields()
	if build != nil {
		build(b)
	}
	typ.validate()
	scm.addType(typ)
	return typ
}

func (b *RecordBuilder[R]) addInfrastructureFields() {
	typ := b.typ
	typ.addField(&FieldDescriptor{
		Name: FieldRequestedApiVersion,
		Kind: KindScalar,
		Type: reflect.TypeFor[uint32](),
		get:  func(rec Record) any { return rec.RequestedVersion() },
	})
	typ.addField(&FieldDescriptor{
		Name: FieldRecommendedApiVersion,
		Kind: KindScalar,
		Type: reflect.TypeFor[uint32](),
		get:  func(rec Record) any { return typ.recommended },
	})
	typ.addField(&FieldDescriptor{
		Name: FieldContentFields,
		Kind: KindScalar,
		Type: reflect.TypeFor[[]string](),
		get:  func(rec Record) any { return VisibleFieldNames(rec) },
	})
}

func (b *RecordBuilder[R]) Type() *RecordType {
	return b.typ
}

func (b *RecordBuilder[R]) RecommendedVersion(v uint32) {
	b.typ.recommended = v
}

// Shared marks the Go type as backing several record types (e.g. map-based
// dynamic records); such types are registered by name only.
func (b *RecordBuilder[R]) Shared() {
	b.typ.shared = true
}

// Cloner declares the preferred cloning shape. The cloner receives the
// requested version, the new change handler, the record being cloned and
// whatever the record returns from ExtraConstructionState.
func (b *RecordBuilder[R]) Cloner(f func(version uint32, h ChangeHandler, basis *R, extra ...any) *R) {
	b.typ.cloner = func(version uint32, h ChangeHandler, basis Record, extra []any) Record {
		return any(f(version, h, any(basis).(*R), extra...)).(Record)
	}
}

// Constructor declares the default shape. Clone falls back to it when no
// Cloner is declared, then copies every settable field from the original.
func (b *RecordBuilder[R]) Constructor(f func(version uint32, h ChangeHandler) *R) {
	b.typ.ctor = func(version uint32, h ChangeHandler) Record {
		return any(f(version, h)).(Record)
	}
}

// AddDescriptor declares a field with untyped accessors. Type must be set;
// set may be nil for read-only fields.
func (b *RecordBuilder[R]) AddDescriptor(fd FieldDescriptor, get func(r *R) any, set func(r *R, v any)) {
	fd.get = func(rec Record) any {
		return get(any(rec).(*R))
	}
	if set != nil {
		fd.set = func(rec Record, v any) {
			set(any(rec).(*R), v)
		}
	}
	b.typ.addField(&fd)
}

// AddField declares a typed field. Pass a nil set for read-only fields.
func AddField[R, V any](b *RecordBuilder[R], name string, get func(r *R) V, set func(r *R, v V), opts ...FieldOption) {
	fd := &FieldDescriptor{
		Name: name,
		Type: reflect.TypeFor[V](),
		get: func(rec Record) any {
			return get(any(rec).(*R))
		},
	}
	if set != nil {
		fd.set = func(rec Record, v any) {
			var tv V
			if v != nil {
				var ok bool
				if tv, ok = v.(V); !ok {
					// accepts admits values of a named type whose underlying
					// type is V
					tv = reflect.ValueOf(v).Convert(reflect.TypeFor[V]()).Interface().(V)
				}
			}
			set(any(rec).(*R), tv)
		}
	}
	for _, opt := range opts {
		opt(fd)
	}
	b.typ.addField(fd)
}
