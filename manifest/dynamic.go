package manifest

import (
	"fmt"
	"iter"
	"log/slog"
	"reflect"
	"slices"

	"github.com/andreyvit/fieldmodel"
	"github.com/andreyvit/fieldmodel/tgi"
	"github.com/andreyvit/fieldmodel/typedval"
)

// Dynamic is a record whose fields are described by a manifest.
type Dynamic struct {
	fieldmodel.Element
	typ    *fieldmodel.RecordType
	values map[string]any
	extra  []entry
}

var dynamicType = reflect.TypeFor[*Dynamic]()

type entry struct {
	key   string
	value any
}

func (d *Dynamic) RecordType() *fieldmodel.RecordType {
	return d.typ
}

// SetExtra sets an undeclared key/value entry. Entries keep insertion order.
func (d *Dynamic) SetExtra(key string, value any) {
	for i := range d.extra {
		if d.extra[i].key == key {
			if sameValue(d.extra[i].value, value) {
				return
			}
			d.extra[i].value = value
			fieldmodel.Changed(d)
			return
		}
	}
	d.extra = append(d.extra, entry{key, value})
	fieldmodel.Changed(d)
}

func (d *Dynamic) Extra(key string) (any, bool) {
	for _, e := range d.extra {
		if e.key == key {
			return e.value, true
		}
	}
	return nil, false
}

func (d *Dynamic) EntryCount() int {
	return len(d.extra)
}

func (d *Dynamic) Entries() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		for _, e := range d.extra {
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}

// New creates a record of a type registered by Define.
func New(typ *fieldmodel.RecordType, version uint32, h fieldmodel.ChangeHandler) *Dynamic {
	if typ.GoType() != dynamicType {
		panic(fmt.Errorf("manifest.New: %s is not a manifest record type", typ.Name()))
	}
	return construct(typ, version, h)
}

// Define registers every record of m in scm and returns the new types in
// manifest order.
func Define(scm *fieldmodel.Schema, m *Manifest) ([]*fieldmodel.RecordType, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	types := make([]*fieldmodel.RecordType, 0, len(m.Records))
	for _, rs := range m.Records {
		if scm.TypeNamed(rs.Name) != nil {
			return types, fmt.Errorf("%w: record type %s already defined", ErrInvalid, rs.Name)
		}
		types = append(types, defineRecord(scm, rs))
	}
	scm.Logger().Debug("manifest defined", slog.Int("records", len(types)))
	return types, nil
}

func defineRecord(scm *fieldmodel.Schema, rs RecordSpec) *fieldmodel.RecordType {
	var typ *fieldmodel.RecordType
	typ = fieldmodel.DefineRecord(scm, rs.Name, func(b *fieldmodel.RecordBuilder[Dynamic]) {
		b.Shared()
		b.RecommendedVersion(rs.RecommendedVersion)
		for _, fs := range rs.Fields {
			goType, _ := fs.goType()
			format, _ := fs.format()
			name := fs.Name
			b.AddDescriptor(fieldmodel.FieldDescriptor{
				Name:             name,
				Type:             goType,
				MinVersion:       fs.MinVersion,
				MaxVersion:       fs.MaxVersion,
				Priority:         fs.Priority,
				LinkedIndexField: fs.LinkedIndex,
				Format:           format,
			}, func(d *Dynamic) any {
				return d.values[name]
			}, func(d *Dynamic, v any) {
				d.set(name, v)
			})
		}
		b.Cloner(func(version uint32, h fieldmodel.ChangeHandler, basis *Dynamic, extra ...any) *Dynamic {
			d := construct(typ, version, h)
			for k, v := range basis.values {
				if blk, ok := v.(*tgi.Block); ok {
					d.values[k] = blk.Clone(fieldmodel.HandlerFor(d))
				} else {
					d.values[k] = v
				}
			}
			d.extra = slices.Clone(basis.extra)
			return d
		})
	})
	return typ
}

func (d *Dynamic) set(name string, v any) {
	if sameValue(d.values[name], v) {
		return
	}
	if t, ok := v.(fieldmodel.Tracker); ok && !reflect.ValueOf(t).IsNil() {
		t.SetChangeHandler(fieldmodel.HandlerFor(d))
	}
	d.values[name] = v
	fieldmodel.Changed(d)
}

func sameValue(a, b any) bool {
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	return (ta == nil || ta.Comparable()) && a == b
}

func construct(typ *fieldmodel.RecordType, version uint32, h fieldmodel.ChangeHandler) *Dynamic {
	d := &Dynamic{typ: typ, values: make(map[string]any)}
	d.Init(version, h)
	for _, fd := range typ.Fields() {
		if fieldmodel.IsInfrastructureField(fd.Name) {
			continue
		}
		if fd.Type == blockType {
			d.values[fd.Name] = tgi.NewBlock(version, fieldmodel.HandlerFor(d))
		} else {
			d.values[fd.Name] = reflect.Zero(fd.Type).Interface()
		}
	}
	return d
}

func (fs *FieldSpec) format() (typedval.Format, error) {
	switch fs.Format {
	case "":
		return typedval.FormatDefault, nil
	case "hex":
		return typedval.FormatHex, nil
	case "decimal":
		return typedval.FormatDecimal, nil
	default:
		return 0, fmt.Errorf("unknown format %q", fs.Format)
	}
}
