package fieldmodel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClone_cloner(t *testing.T) {
	r := sampleResource()
	var c counter
	dup := CloneAs(r, c.handle)

	require.NotSame(t, r, dup)
	require.Equal(t, Render(r), Render(dup))
	require.Equal(t, r.RequestedVersion(), dup.RequestedVersion())
	require.False(t, dup.IsDirty())
	require.Zero(t, c.calls)
}

func TestClone_independence(t *testing.T) {
	r := sampleResource()
	before := Render(r)
	var orig, copied counter
	r.SetChangeHandler(orig.handle)
	dup := CloneAs(r, copied.handle)

	dup.header.SetCount(99)
	dup.label.SetVal("other")
	dup.tags.At(0).SetVal("changed")
	dup.children.At(0).SetName("changed")
	dup.links.At(0).SetData(1)
	dup.pair[0].SetName("changed")
	dup.data[0] = 0xFF

	require.Equal(t, before, Render(r))
	require.Equal(t, []byte{1, 2, 3}, r.data)
	require.Zero(t, orig.calls)
	require.Equal(t, 6, copied.calls)
	require.True(t, dup.IsDirty())
}

func TestClone_rebindsReferenceTable(t *testing.T) {
	r := sampleResource()
	dup := CloneAs(r, nil)
	dup.refs.items[0] = "gamma"

	ref, ok := dup.links.At(0).Reference()
	require.True(t, ok)
	require.Equal(t, "gamma", ref.String())

	ref, _ = r.links.At(0).Reference()
	require.Equal(t, "alpha", ref.String())
}

func TestClone_constructorFallback(t *testing.T) {
	h := NewHeader(2, nil)
	h.SetCount(5)
	h.SetName("orig")
	h.SetFlags(1)
	require.True(t, h.IsDirty())

	var c counter
	dup := CloneAs(h, c.handle)
	require.Equal(t, Render(h), Render(dup))
	require.False(t, dup.IsDirty(), "a fresh copy starts clean")
	require.Zero(t, c.calls, "populating the copy does not notify")

	dup.SetName("copy")
	require.Equal(t, 1, c.calls)
	require.Equal(t, "orig", h.Name())
}

func TestClone_constructorFallbackNested(t *testing.T) {
	n := &Note{lines: []string{"a"}}
	n.Init(0, nil)
	holder := &Holder{}
	holder.Init(0, nil)
	holder.note = n

	scm := NewSchema(SchemaOpts{})
	typ := DefineRecord(scm, "HolderWithCtor", func(b *RecordBuilder[Holder]) {
		AddField(b, "Note", func(h *Holder) *Note { return h.note }, func(h *Holder, n *Note) { h.note = n })
		b.Constructor(func(version uint32, h ChangeHandler) *Holder {
			dup := &Holder{}
			dup.Init(version, h)
			return dup
		})
	})
	dup := cloneByFields(typ, holder, nil).(*Holder)
	require.NotNil(t, dup.note)
	require.NotSame(t, n, dup.note)

	// the nested copy reports to the new holder
	Changed(dup.note)
	require.True(t, dup.IsDirty())
	require.False(t, holder.IsDirty())
}

func TestClone_constructorFillsReadOnlyFields(t *testing.T) {
	g := NewBag(2, nil)
	g.names = []string{"n"}
	g.label.SetVal("lbl")
	kid := g.items.AddNew()
	kid.SetCount(2)
	kid.SetName("kid")
	g.tags.AddValue("x")
	g.pair[0].SetName("p0")

	var c counter
	dup := CloneAs(g, c.handle)
	require.Equal(t, Render(g), Render(dup))
	require.Contains(t, Render(dup), "Name: kid")
	require.False(t, dup.IsDirty())
	require.False(t, dup.items.IsDirty())
	require.False(t, dup.label.IsDirty())
	require.False(t, dup.pair[0].IsDirty())
	require.Zero(t, c.calls)

	require.NotSame(t, g.items.At(0), dup.items.At(0))
	dup.items.At(0).SetName("changed")
	require.Equal(t, 1, c.calls)
	require.Equal(t, "kid", g.items.At(0).Name())

	dup.items.AddNew()
	dup.tags.AddValue("y")
	require.Equal(t, 3, c.calls)
	require.Equal(t, 1, g.items.Len())
	require.Equal(t, []string{"x"}, g.tags.Values())
}

func TestClone_constructorCannotFillReadOnlyField(t *testing.T) {
	g := NewBag(0, nil)
	g.pair[1] = NewHeader(0, HandlerFor(g))

	var err error
	func() {
		defer func() {
			err, _ = recover().(error)
		}()
		Clone(g, nil)
	}()
	require.ErrorIs(t, err, ErrConstructionDefect)
	var ce *ConstructionError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, "Bag", ce.Type)
	require.Equal(t, "Pair", ce.Field)
}

func TestClone_noConstructor(t *testing.T) {
	holder := &Holder{}
	var err error
	func() {
		defer func() {
			err, _ = recover().(error)
		}()
		Clone(holder, nil)
	}()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrConstructionDefect))
	var ce *ConstructionError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, "Holder", ce.Type)
}

func TestClone_extraConstructionState(t *testing.T) {
	tableA := newRefTable(nil, "a")
	tableB := newRefTable(nil, "b")
	e := NewIndexElement[uint32](0, nil, 0, tableA)

	inherited := CloneAs(e, nil)
	require.Same(t, ReferenceTable(tableA), inherited.Table())

	overridden := CloneAs(e, nil, tableB)
	require.Same(t, ReferenceTable(tableB), overridden.Table())
	require.Equal(t, "0x00000000 (b)", overridden.String())
}

func TestCloneValue(t *testing.T) {
	require.Nil(t, cloneValue(nil, nil))
	require.Equal(t, 5, cloneValue(5, nil))

	src := []*ScalarElement[int]{NewScalarElement(0, nil, 1), nil}
	dup := cloneValue(src, nil).([]*ScalarElement[int])
	require.Len(t, dup, 2)
	require.NotSame(t, src[0], dup[0])
	require.Equal(t, 1, dup[0].Val())
	require.Nil(t, dup[1])

	arr := [2]string{"a", "b"}
	require.Equal(t, arr, cloneValue(arr, nil))
}
