// Package tgi implements a reference table of Type/Group/Instance triples,
// the usual way container entries refer to each other.
package tgi

import (
	"cmp"
	"iter"
	"slices"

	"github.com/andreyvit/fieldmodel"
	"github.com/andreyvit/fieldmodel/typedval"
)

type TGI struct {
	Type     uint32
	Group    uint32
	Instance uint64
}

func (t TGI) String() string {
	return typedval.Hex(t.Type) + "-" + typedval.Hex(t.Group) + "-" + typedval.Hex(t.Instance)
}

func (t TGI) Compare(o TGI) int {
	if c := cmp.Compare(t.Type, o.Type); c != 0 {
		return c
	}
	if c := cmp.Compare(t.Group, o.Group); c != 0 {
		return c
	}
	return cmp.Compare(t.Instance, o.Instance)
}

// Block is an ordered, change-tracking list of TGI entries. Records index
// into it with IndexElement values or integer fields declared with
// fieldmodel.LinkedIndex.
type Block struct {
	fieldmodel.Element
	items []TGI
}

func NewBlock(version uint32, h fieldmodel.ChangeHandler, items ...TGI) *Block {
	b := &Block{items: slices.Clone(items)}
	b.Init(version, h)
	return b
}

func (b *Block) FieldKind() fieldmodel.Kind { return fieldmodel.KindReferenceList }
func (b *Block) Len() int                   { return len(b.items) }
func (b *Block) At(i int) TGI               { return b.items[i] }

func (b *Block) ReferenceAt(i int) fieldmodel.Reference {
	return b.items[i]
}

func (b *Block) All() iter.Seq2[int, TGI] {
	return slices.All(b.items)
}

// Add appends t and returns its index.
func (b *Block) Add(t TGI) int {
	b.items = append(b.items, t)
	fieldmodel.Changed(b)
	return len(b.items) - 1
}

// Set replaces the entry at i, notifying only if it differs.
func (b *Block) Set(i int, t TGI) {
	fieldmodel.SetIfChanged(b, &b.items[i], t)
}

func (b *Block) RemoveAt(i int) {
	b.items = slices.Delete(b.items, i, i+1)
	fieldmodel.Changed(b)
}

// IndexOf returns the index of the first entry equal to t, or -1.
func (b *Block) IndexOf(t TGI) int {
	return slices.Index(b.items, t)
}

// Sorted returns a copy of the entries ordered by type, group, instance.
func (b *Block) Sorted() []TGI {
	sorted := slices.Clone(b.items)
	slices.SortFunc(sorted, TGI.Compare)
	return sorted
}

func (b *Block) Clone(h fieldmodel.ChangeHandler) *Block {
	return NewBlock(b.RequestedVersion(), h, b.items...)
}

func (b *Block) CloneCollection(h fieldmodel.ChangeHandler) any {
	return b.Clone(h)
}

// CopyContents replaces the entries of b with those of src, a *Block.
func (b *Block) CopyContents(src any) bool {
	s, ok := src.(*Block)
	if !ok {
		return false
	}
	b.items = slices.Clone(s.items)
	fieldmodel.Changed(b)
	return true
}
