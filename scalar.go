package fieldmodel

import (
	"reflect"

	"github.com/andreyvit/fieldmodel/typedval"
)

const (
	FieldVal   = "Val"
	FieldData  = "Data"
	FieldValue = "Value"
)

// ScalarElement is a change-tracking container for one comparable value.
type ScalarElement[T comparable] struct {
	Element
	val T
}

func NewScalarElement[T comparable](version uint32, h ChangeHandler, v T) *ScalarElement[T] {
	e := &ScalarElement[T]{val: v}
	e.Init(version, h)
	return e
}

func (e *ScalarElement[T]) Val() T {
	return e.val
}

// SetVal stores v and notifies the owner, unless v equals the current value.
func (e *ScalarElement[T]) SetVal(v T) {
	SetIfChanged(e, &e.val, v)
}

// Equal compares wrapped values only.
func (e *ScalarElement[T]) Equal(other *ScalarElement[T]) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.val == other.val
}

func (e *ScalarElement[T]) String() string {
	return typedval.Of(e.val).String()
}

func (e *ScalarElement[T]) RecordType() *RecordType {
	return leafType(func() string {
		return "ScalarElement[" + typeName(reflect.TypeFor[T]()) + "]"
	}, defineScalarElement[T])
}

func defineScalarElement[T comparable](b *RecordBuilder[ScalarElement[T]]) {
	AddField(b, FieldVal, (*ScalarElement[T]).Val, (*ScalarElement[T]).SetVal)
	AddField(b, FieldValue, (*ScalarElement[T]).String, nil)
	b.Cloner(func(version uint32, h ChangeHandler, basis *ScalarElement[T], extra ...any) *ScalarElement[T] {
		return NewScalarElement(version, h, basis.val)
	})
}
