package fieldmodel

import (
	"iter"
	"slices"

	"golang.org/x/exp/constraints"
)

// Collection is how the renderer and snapshot walk list-like fields.
type Collection interface {
	Len() int
	ElementAt(i int) Record
}

// CollectionCloner is implemented by collections that can be copied along
// with their owner during a generic Clone.
type CollectionCloner interface {
	CloneCollection(h ChangeHandler) any
}

// List is a change-tracking ordered collection of records. Adding or
// removing elements marks the list dirty; changes to elements propagate
// through the list to its owner.
type List[E Record] struct {
	Element
	items   []E
	factory func(version uint32, h ChangeHandler) E
}

func NewList[E Record](version uint32, h ChangeHandler, factory func(version uint32, h ChangeHandler) E, items ...E) *List[E] {
	l := &List[E]{factory: factory}
	l.Init(version, h)
	l.adopt(items)
	return l
}

func (l *List[E]) adopt(items []E) {
	for _, e := range items {
		e.SetChangeHandler(HandlerFor(l))
	}
	l.items = append(l.items, items...)
}

func (l *List[E]) FieldKind() Kind        { return KindRecordList }
func (l *List[E]) Len() int               { return len(l.items) }
func (l *List[E]) At(i int) E             { return l.items[i] }
func (l *List[E]) ElementAt(i int) Record { return l.items[i] }

func (l *List[E]) All() iter.Seq2[int, E] {
	return slices.All(l.items)
}

func (l *List[E]) Add(e E) {
	l.Insert(len(l.items), e)
}

// AddNew creates an element with the list's factory and appends it.
func (l *List[E]) AddNew() E {
	if l.factory == nil {
		panic("List.AddNew: no element factory")
	}
	e := l.factory(l.RequestedVersion(), HandlerFor(l))
	l.items = append(l.items, e)
	Changed(l)
	return e
}

func (l *List[E]) Insert(i int, e E) {
	e.SetChangeHandler(HandlerFor(l))
	l.items = slices.Insert(l.items, i, e)
	Changed(l)
}

func (l *List[E]) RemoveAt(i int) E {
	e := l.items[i]
	l.items = slices.Delete(l.items, i, i+1)
	Changed(l)
	return e
}

func (l *List[E]) Clone(h ChangeHandler) *List[E] {
	dup := &List[E]{}
	l.cloneInto(dup, h)
	return dup
}

func (l *List[E]) cloneInto(dup *List[E], h ChangeHandler) {
	dup.Init(l.RequestedVersion(), h)
	dup.factory = l.factory
	dup.items = make([]E, len(l.items))
	for i, e := range l.items {
		dup.items[i] = CloneAs(e, HandlerFor(dup))
	}
}

func (l *List[E]) CloneCollection(h ChangeHandler) any {
	return l.Clone(h)
}

// CopyContents replaces the elements of l with copies of the elements of
// src, which must be a *List[E]. The element factory of l is kept.
func (l *List[E]) CopyContents(src any) bool {
	s, ok := src.(*List[E])
	if !ok {
		return false
	}
	l.copyItems(s)
	return true
}

func (l *List[E]) copyItems(s *List[E], extra ...any) {
	l.items = make([]E, len(s.items))
	for i, e := range s.items {
		l.items[i] = CloneAs(e, HandlerFor(l), extra...)
	}
	Changed(l)
}

// ScalarList is a list of ScalarElement values.
type ScalarList[T comparable] struct {
	List[*ScalarElement[T]]
}

func NewScalarList[T comparable](version uint32, h ChangeHandler, values ...T) *ScalarList[T] {
	l := &ScalarList[T]{}
	l.Init(version, h)
	l.factory = func(version uint32, h ChangeHandler) *ScalarElement[T] {
		var zero T
		return NewScalarElement(version, h, zero)
	}
	for _, v := range values {
		l.items = append(l.items, NewScalarElement(version, HandlerFor(&l.List), v))
	}
	return l
}

func (l *ScalarList[T]) FieldKind() Kind { return KindScalarList }

func (l *ScalarList[T]) AddValue(v T) *ScalarElement[T] {
	e := NewScalarElement(l.RequestedVersion(), nil, v)
	l.Add(e)
	return e
}

func (l *ScalarList[T]) Values() []T {
	values := make([]T, len(l.items))
	for i, e := range l.items {
		values[i] = e.val
	}
	return values
}

func (l *ScalarList[T]) Clone(h ChangeHandler) *ScalarList[T] {
	dup := &ScalarList[T]{}
	l.cloneInto(&dup.List, h)
	return dup
}

func (l *ScalarList[T]) CloneCollection(h ChangeHandler) any {
	return l.Clone(h)
}

func (l *ScalarList[T]) CopyContents(src any) bool {
	s, ok := src.(*ScalarList[T])
	if !ok {
		return false
	}
	l.copyItems(&s.List)
	return true
}

// IndexList is a list of IndexElement values bound to one reference table,
// which is handed to every element it creates.
type IndexList[T constraints.Integer] struct {
	List[*IndexElement[T]]
	table ReferenceTable
}

func NewIndexList[T constraints.Integer](version uint32, h ChangeHandler, table ReferenceTable, values ...T) *IndexList[T] {
	l := &IndexList[T]{table: table}
	l.Init(version, h)
	l.factory = func(version uint32, h ChangeHandler) *IndexElement[T] {
		return NewIndexElement[T](version, h, 0, l.table)
	}
	for _, v := range values {
		l.items = append(l.items, NewIndexElement(version, HandlerFor(&l.List), v, table))
	}
	return l
}

func (l *IndexList[T]) FieldKind() Kind       { return KindIndexList }
func (l *IndexList[T]) Table() ReferenceTable { return l.table }

func (l *IndexList[T]) AddIndex(v T) *IndexElement[T] {
	e := NewIndexElement(l.RequestedVersion(), nil, v, l.table)
	l.Add(e)
	return e
}

func (l *IndexList[T]) Indices() []T {
	values := make([]T, len(l.items))
	for i, e := range l.items {
		values[i] = e.data
	}
	return values
}

// Clone copies the list keeping its table association.
func (l *IndexList[T]) Clone(h ChangeHandler) *IndexList[T] {
	return l.CloneWithTable(h, l.table)
}

// CloneWithTable copies the list and binds the copy and its elements to
// another reference table.
func (l *IndexList[T]) CloneWithTable(h ChangeHandler, table ReferenceTable) *IndexList[T] {
	dup := NewIndexList[T](l.RequestedVersion(), h, table)
	dup.items = make([]*IndexElement[T], 0, len(l.items))
	for _, e := range l.items {
		dup.items = append(dup.items, CloneAs(e, HandlerFor(&dup.List), table))
	}
	return dup
}

func (l *IndexList[T]) CloneCollection(h ChangeHandler) any {
	return l.Clone(h)
}

// CopyContents copies the indices of src, keeping l bound to its own table.
func (l *IndexList[T]) CopyContents(src any) bool {
	s, ok := src.(*IndexList[T])
	if !ok {
		return false
	}
	l.copyItems(&s.List, l.table)
	return true
}
