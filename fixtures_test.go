package fieldmodel

import (
	"iter"
	"slices"
	"strings"
)

var testSchema = NewSchema(SchemaOpts{})

// Header has no Cloner, so cloning goes through its Constructor.
type Header struct {
	Element
	count uint32
	name  string
	flags uint16
}

var headerType = DefineRecord(testSchema, "Header", func(b *RecordBuilder[Header]) {
	AddField(b, "Count", (*Header).Count, (*Header).SetCount)
	AddField(b, "Name", (*Header).Name, (*Header).SetName)
	AddField(b, "Flags", (*Header).Flags, (*Header).SetFlags, Priority(-1), MinVersion(2))
	b.Constructor(NewHeader)
})

func NewHeader(version uint32, h ChangeHandler) *Header {
	hdr := &Header{}
	hdr.Init(version, h)
	return hdr
}

func (hdr *Header) RecordType() *RecordType { return headerType }
func (hdr *Header) Count() uint32           { return hdr.count }
func (hdr *Header) Name() string            { return hdr.name }
func (hdr *Header) Flags() uint16           { return hdr.flags }
func (hdr *Header) SetCount(v uint32)       { SetIfChanged(hdr, &hdr.count, v) }
func (hdr *Header) SetName(v string)        { SetIfChanged(hdr, &hdr.name, v) }
func (hdr *Header) SetFlags(v uint16)       { SetIfChanged(hdr, &hdr.flags, v) }

type testRef string

func (r testRef) String() string { return string(r) }

type refTable struct {
	Element
	items []testRef
}

func newRefTable(h ChangeHandler, items ...testRef) *refTable {
	t := &refTable{items: items}
	t.Init(0, h)
	return t
}

func (t *refTable) Len() int                    { return len(t.items) }
func (t *refTable) ReferenceAt(i int) Reference { return t.items[i] }

func (t *refTable) CloneCollection(h ChangeHandler) any {
	return newRefTable(h, slices.Clone(t.items)...)
}

// Resource exercises every field shape and declares its own Cloner.
type Resource struct {
	Element
	header   *Header
	label    *ScalarElement[string]
	refs     *refTable
	primary  int32
	tags     *ScalarList[string]
	links    *IndexList[uint32]
	children *List[*Header]
	pair     [2]*Header
	data     []byte
}

var resourceType = DefineRecord(testSchema, "Resource", func(b *RecordBuilder[Resource]) {
	b.RecommendedVersion(2)
	AddField(b, "Header", func(r *Resource) *Header { return r.header }, nil)
	AddField(b, "Label", func(r *Resource) *ScalarElement[string] { return r.label }, nil)
	AddField(b, "Refs", func(r *Resource) *refTable { return r.refs }, nil, Priority(1))
	AddField(b, "Primary", func(r *Resource) int32 { return r.primary }, func(r *Resource, v int32) { SetIfChanged(r, &r.primary, v) }, LinkedIndex("Refs"))
	AddField(b, "Tags", func(r *Resource) *ScalarList[string] { return r.tags }, nil)
	AddField(b, "Links", func(r *Resource) *IndexList[uint32] { return r.links }, nil)
	AddField(b, "Children", func(r *Resource) *List[*Header] { return r.children }, nil)
	AddField(b, "Pair", func(r *Resource) [2]*Header { return r.pair }, nil)
	AddField(b, "AsBytes", func(r *Resource) []byte { return r.data }, nil)
	b.Cloner(func(version uint32, h ChangeHandler, basis *Resource, extra ...any) *Resource {
		r := &Resource{}
		r.Init(version, h)
		owner := HandlerFor(r)
		r.header = CloneAs(basis.header, owner)
		r.label = CloneAs(basis.label, owner)
		r.refs = basis.refs.CloneCollection(owner).(*refTable)
		r.primary = basis.primary
		r.tags = basis.tags.Clone(owner)
		r.links = basis.links.CloneWithTable(owner, r.refs)
		r.children = basis.children.Clone(owner)
		for i, c := range basis.pair {
			if c != nil {
				r.pair[i] = CloneAs(c, owner)
			}
		}
		r.data = slices.Clone(basis.data)
		return r
	})
})

func NewResource(version uint32, h ChangeHandler) *Resource {
	r := &Resource{}
	r.Init(version, h)
	owner := HandlerFor(r)
	r.header = NewHeader(version, owner)
	r.label = NewScalarElement(version, owner, "")
	r.refs = newRefTable(owner)
	r.tags = NewScalarList[string](version, owner)
	r.links = NewIndexList[uint32](version, owner, r.refs)
	r.children = NewList(version, owner, NewHeader)
	return r
}

func (r *Resource) RecordType() *RecordType { return resourceType }

func sampleResource() *Resource {
	r := NewResource(2, nil)
	r.header.SetCount(1)
	r.header.SetName("hdr")
	r.header.SetFlags(3)
	r.label.SetVal("main")
	r.refs.items = []testRef{"alpha", "beta"}
	r.primary = 1
	r.tags.AddValue("x")
	r.tags.AddValue("y")
	r.links.AddIndex(0)
	r.links.AddIndex(1)
	r.links.AddIndex(5)
	kid := r.children.AddNew()
	kid.SetCount(2)
	kid.SetName("kid")
	p0 := NewHeader(2, HandlerFor(r))
	p0.SetCount(7)
	p0.SetName("p0")
	r.pair[0] = p0
	r.data = []byte{1, 2, 3}
	return r
}

// Note has a multi-line Value and key/value entries.
type Note struct {
	Element
	lines   []string
	entries []string
}

var noteType = DefineRecord(testSchema, "Note", func(b *RecordBuilder[Note]) {
	AddField(b, "Value", func(n *Note) string { return strings.Join(n.lines, "\n") }, nil)
	AddField(b, "Lines", func(n *Note) int { return len(n.lines) }, nil)
	b.Constructor(func(version uint32, h ChangeHandler) *Note {
		n := &Note{}
		n.Init(version, h)
		return n
	})
})

func (n *Note) RecordType() *RecordType { return noteType }
func (n *Note) EntryCount() int         { return len(n.entries) / 2 }

func (n *Note) Entries() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		for i := 0; i+1 < len(n.entries); i += 2 {
			if !yield(n.entries[i], n.entries[i+1]) {
				return
			}
		}
	}
}

// Holder nests a Note so that its multi-line Value is rendered as a block.
type Holder struct {
	Element
	note *Note
}

var holderType = DefineRecord(testSchema, "Holder", func(b *RecordBuilder[Holder]) {
	AddField(b, "Note", func(h *Holder) *Note { return h.note }, func(h *Holder, n *Note) { h.note = n })
})

func (h *Holder) RecordType() *RecordType { return holderType }

type nameList []string

// Bag relies on its Constructor and exposes its nested records and
// collections read-only.
type Bag struct {
	Element
	names []string
	label *ScalarElement[string]
	items *List[*Header]
	tags  *ScalarList[string]
	pair  [2]*Header
}

var bagType = DefineRecord(testSchema, "Bag", func(b *RecordBuilder[Bag]) {
	AddField(b, "Names", func(g *Bag) []string { return g.names }, func(g *Bag, v []string) {
		g.names = v
		Changed(g)
	})
	AddField(b, "Label", func(g *Bag) *ScalarElement[string] { return g.label }, nil)
	AddField(b, "Items", func(g *Bag) *List[*Header] { return g.items }, nil)
	AddField(b, "Tags", func(g *Bag) *ScalarList[string] { return g.tags }, nil)
	AddField(b, "Pair", func(g *Bag) [2]*Header { return g.pair }, nil)
	b.Constructor(NewBag)
})

func NewBag(version uint32, h ChangeHandler) *Bag {
	g := &Bag{}
	g.Init(version, h)
	owner := HandlerFor(g)
	g.label = NewScalarElement(version, owner, "")
	g.items = NewList(version, owner, NewHeader)
	g.tags = NewScalarList[string](version, owner)
	g.pair[0] = NewHeader(version, owner)
	return g
}

func (g *Bag) RecordType() *RecordType { return bagType }
