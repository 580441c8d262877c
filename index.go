package fieldmodel

import (
	"fmt"
	"reflect"

	"golang.org/x/exp/constraints"

	"github.com/andreyvit/fieldmodel/typedval"
)

// Reference is one entry of a ReferenceTable.
type Reference interface {
	fmt.Stringer
}

// ReferenceTable is an ordered sequence of references owned outside of the
// records that index into it.
type ReferenceTable interface {
	Len() int
	ReferenceAt(i int) Reference
}

func lookupReference(table ReferenceTable, i int64) (Reference, bool) {
	if isNil(table) || i < 0 || i >= int64(table.Len()) {
		return nil, false
	}
	return table.ReferenceAt(int(i)), true
}

// IndexElement is a change-tracking integer that is a position into
// a ReferenceTable. The table is used for display only; the element neither
// owns nor modifies it.
type IndexElement[T constraints.Integer] struct {
	Element
	data  T
	table ReferenceTable
}

func NewIndexElement[T constraints.Integer](version uint32, h ChangeHandler, data T, table ReferenceTable) *IndexElement[T] {
	e := &IndexElement[T]{data: data, table: table}
	e.Init(version, h)
	return e
}

func (e *IndexElement[T]) Data() T {
	return e.data
}

// SetData stores v and notifies the owner, unless v equals the current
// value. The reference table is untouched.
func (e *IndexElement[T]) SetData(v T) {
	SetIfChanged(e, &e.data, v)
}

func (e *IndexElement[T]) Table() ReferenceTable {
	return e.table
}

// Reference resolves the payload against the associated table.
func (e *IndexElement[T]) Reference() (Reference, bool) {
	return lookupReference(e.table, int64(e.data))
}

// Equal compares payloads only.
func (e *IndexElement[T]) Equal(other *IndexElement[T]) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.data == other.data
}

func (e *IndexElement[T]) String() string {
	s := typedval.WithFormat(e.data, typedval.FormatHex).String()
	if ref, ok := e.Reference(); ok {
		return s + " (" + ref.String() + ")"
	}
	return s
}

func (e *IndexElement[T]) ExtraConstructionState() []any {
	return []any{e.table}
}

func (e *IndexElement[T]) RecordType() *RecordType {
	return leafType(func() string {
		return "IndexElement[" + typeName(reflect.TypeFor[T]()) + "]"
	}, defineIndexElement[T])
}

func defineIndexElement[T constraints.Integer](b *RecordBuilder[IndexElement[T]]) {
	AddField(b, FieldData, (*IndexElement[T]).Data, (*IndexElement[T]).SetData, WithFormat(typedval.FormatHex))
	AddField(b, FieldValue, (*IndexElement[T]).String, nil)
	b.Cloner(func(version uint32, h ChangeHandler, basis *IndexElement[T], extra ...any) *IndexElement[T] {
		table := basis.table
		if len(extra) > 0 {
			if t, ok := extra[0].(ReferenceTable); ok && !isNil(t) {
				table = t
			}
		}
		return NewIndexElement(version, h, basis.data, table)
	})
}

// ResolveIndex reads the integer value of field and returns the entry it
// designates in the table held by the field's LinkedIndexField.
func ResolveIndex(rec Record, field string) (Reference, error) {
	typ := rec.RecordType()
	fd := typ.Field(field)
	if fd == nil {
		return nil, fieldErrf(typ, []string{field}, ErrUnknownField, "")
	}
	if fd.LinkedIndexField == "" {
		return nil, &IndexError{Type: typ.Name(), Field: field, Err: ErrResolution, Msg: "no linked index field"}
	}
	table, _ := typ.Field(fd.LinkedIndexField).get(rec).(ReferenceTable)
	if isNil(table) {
		return nil, &IndexError{Type: typ.Name(), Field: field, Err: ErrResolution, Msg: fd.LinkedIndexField + " is nil"}
	}
	i, ok := fd.valueOf(rec).Int()
	if !ok {
		return nil, &IndexError{Type: typ.Name(), Field: field, Err: ErrResolution, Msg: fmt.Sprintf("%v is not an index", fd.Type)}
	}
	ref, ok := lookupReference(table, i)
	if !ok {
		return nil, &IndexError{Type: typ.Name(), Field: field, Index: i, Count: table.Len(), Err: ErrIndexOutOfRange}
	}
	return ref, nil
}

// LookupIndex is the silent form of ResolveIndex.
func LookupIndex(rec Record, field string) (Reference, bool) {
	ref, err := ResolveIndex(rec, field)
	return ref, err == nil
}
