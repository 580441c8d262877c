package fieldmodel

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/andreyvit/fieldmodel/typedval"
)

const PathSeparator = "."

// A path is a dot-separated list of field names; any segment may carry
// a [i] suffix selecting one element of a collection field, e.g.
// "Children[0].Name".
type pathSegment struct {
	Name  string `parser:"@Ident"`
	Index *int   `parser:"( '[' @Int ']' )?"`
}

type pathExpr struct {
	Segments []*pathSegment `parser:"@@ ( '.' @@ )*"`
}

var pathLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[a-zA-Z_]\w*`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "Punct", Pattern: `[.\[\]]`},
})

var pathParser = participle.MustBuild[pathExpr](participle.Lexer(pathLexer))

func parsePath(rec Record, path string) ([]*pathSegment, error) {
	if path == "" {
		return nil, nil
	}
	expr, err := pathParser.ParseString("", path)
	if err != nil {
		return nil, fieldErrf(rec.RecordType(), nil, ErrInvalidPath, "%q: %v", path, err)
	}
	return expr.Segments, nil
}

func namedSegments(names []string) []*pathSegment {
	segs := make([]*pathSegment, len(names))
	for i, name := range names {
		segs[i] = &pathSegment{Name: name}
	}
	return segs
}

// Get reads the field at a path. Segments are resolved against every
// declared field of each record type, not only the visible ones. When the
// last segment is indexed, the selected element itself is returned.
func Get(rec Record, path string) (typedval.Value, error) {
	segs, err := parsePath(rec, path)
	if err != nil {
		return typedval.Value{}, err
	}
	return get(rec, segs)
}

// GetPath is Get with the path already split into plain field names.
func GetPath(rec Record, names ...string) (typedval.Value, error) {
	return get(rec, namedSegments(names))
}

func get(rec Record, segs []*pathSegment) (typedval.Value, error) {
	owner, fd, err := resolvePath(rec, segs)
	if err != nil {
		return typedval.Value{}, err
	}
	if last := segs[len(segs)-1]; last.Index != nil {
		elem, err := elementAt(owner, fd, *last.Index)
		if err != nil {
			return typedval.Value{}, err
		}
		return typedval.Of(elem), nil
	}
	return fd.valueOf(owner), nil
}

// Set writes value into the field at a path through the field's own setter.
// A typedval.Value is unwrapped first. Every segment is resolved and the
// value is checked before anything is written, so on error the record is
// unchanged. Collection elements cannot be replaced as a whole; address
// their fields instead.
func Set(rec Record, path string, value any) error {
	segs, err := parsePath(rec, path)
	if err != nil {
		return err
	}
	return set(rec, segs, value)
}

func SetPath(rec Record, names []string, value any) error {
	return set(rec, namedSegments(names), value)
}

func set(rec Record, segs []*pathSegment, value any) error {
	owner, fd, err := resolvePath(rec, segs)
	if err != nil {
		return err
	}
	if last := segs[len(segs)-1]; last.Index != nil {
		if _, err := elementAt(owner, fd, *last.Index); err != nil {
			return err
		}
		return fieldErrf(owner.RecordType(), []string{fd.Name}, ErrReadOnly, "element %d cannot be replaced", *last.Index)
	}
	if fd.set == nil {
		return fieldErrf(owner.RecordType(), []string{fd.Name}, ErrReadOnly, "")
	}
	if tv, ok := value.(typedval.Value); ok {
		value = tv.Interface()
	}
	if !fd.accepts(value) {
		return fieldErrf(owner.RecordType(), []string{fd.Name}, ErrIncompatibleValue, "cannot assign %T to %v", value, fd.Type)
	}
	fd.set(owner, value)
	return nil
}

// resolvePath walks every segment but the last and returns the record that
// owns the final field along with its descriptor.
func resolvePath(rec Record, segs []*pathSegment) (Record, *FieldDescriptor, error) {
	if len(segs) == 0 {
		return nil, nil, fieldErrf(rec.RecordType(), nil, ErrUnknownField, "empty path")
	}
	cur := rec
	for i, seg := range segs {
		typ := cur.RecordType()
		fd := typ.Field(seg.Name)
		if fd == nil {
			return nil, nil, fieldErrf(typ, []string{seg.Name}, ErrUnknownField, "")
		}
		if i == len(segs)-1 {
			return cur, fd, nil
		}
		var next any
		if seg.Index != nil {
			elem, err := elementAt(cur, fd, *seg.Index)
			if err != nil {
				return nil, nil, err
			}
			next = elem
		} else {
			next = fd.get(cur)
		}
		nextRec, ok := next.(Record)
		if !ok || isNil(nextRec) {
			return nil, nil, fieldErrf(typ, []string{seg.Name}, ErrNotRecord, "cannot resolve %s", formatSegments(segs[i+1:]))
		}
		cur = nextRec
	}
	panic("unreachable")
}

// elementAt returns element i of a collection field: a Collection,
// a ReferenceTable, or a slice or array value.
func elementAt(owner Record, fd *FieldDescriptor, i int) (any, error) {
	typ := owner.RecordType()
	v := fd.get(owner)
	if isNil(v) {
		return nil, fieldErrf(typ, []string{fd.Name}, ErrNotRecord, "nil collection")
	}
	var n int
	var at func(i int) any
	switch c := v.(type) {
	case Collection:
		n, at = c.Len(), func(i int) any { return c.ElementAt(i) }
	case ReferenceTable:
		n, at = c.Len(), func(i int) any { return c.ReferenceAt(i) }
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil, fieldErrf(typ, []string{fd.Name}, ErrNotRecord, "%v is not a collection", fd.Type)
		}
		n, at = rv.Len(), func(i int) any { return rv.Index(i).Interface() }
	}
	if i < 0 || i >= n {
		return nil, &IndexError{Type: typ.Name(), Field: fd.Name, Index: int64(i), Count: n, Err: ErrIndexOutOfRange}
	}
	return at(i), nil
}

func formatSegments(segs []*pathSegment) string {
	var buf strings.Builder
	for i, seg := range segs {
		if i > 0 {
			buf.WriteString(PathSeparator)
		}
		buf.WriteString(seg.Name)
		if seg.Index != nil {
			buf.WriteByte('[')
			buf.WriteString(strconv.Itoa(*seg.Index))
			buf.WriteByte(']')
		}
	}
	return buf.String()
}
