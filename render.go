package fieldmodel

import (
	"fmt"
	"iter"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/andreyvit/fieldmodel/typedval"
)

// DisplayExcludedFields are never expanded by Render: they hold the rendered
// value itself or raw data.
var DisplayExcludedFields = []string{FieldValue, "Stream", "AsBytes"}

// AssociativeFields is implemented by records that also behave as key/value
// containers. Render lists their entries after the regular fields.
type AssociativeFields interface {
	EntryCount() int
	Entries() iter.Seq2[any, any]
}

const (
	renderIndent = "   "
	blockEnd     = "---"
)

// Render produces a human-readable, deterministic rendering of the visible
// fields of rec. Index resolution failures are rendered inline.
func Render(rec Record) string {
	return strings.Join(renderLines(rec), "\n")
}

func renderLines(rec Record) []string {
	var lines []string
	for _, fd := range VisibleFields(rec) {
		if slices.Contains(DisplayExcludedFields, fd.Name) {
			continue
		}
		lines = renderField(lines, rec, fd)
	}
	if assoc, ok := rec.(AssociativeFields); ok {
		lines = renderEntries(lines, assoc)
	}
	return lines
}

func renderField(lines []string, rec Record, fd *FieldDescriptor) []string {
	v := fd.get(rec)
	if isNil(v) {
		return append(lines, fd.Name+": <nil>")
	}
	kind := shapeOf(fd, v)
	switch {
	case kind.IsCollection():
		items := displayItems(v)
		lines = append(lines, fmt.Sprintf("--- %s: %s (0x%X) ---", kind, fd.Name, len(items)))
		width := hexWidth(len(items))
		for i, item := range items {
			lines = append(lines, fmt.Sprintf("%s[%0*X]: %s", renderIndent, width, i, item))
		}
		return append(lines, blockEnd)
	case kind == KindRecord:
		nested := v.(Record)
		text, ok := valueField(nested)
		if ok && !strings.Contains(text, "\n") {
			return append(lines, fd.Name+": "+text)
		}
		lines = append(lines, "--- "+fd.Name+" ---")
		if ok {
			lines = append(lines, strings.Split(text, "\n")...)
		} else {
			lines = append(lines, renderLines(nested)...)
		}
		return append(lines, blockEnd)
	default:
		line := fd.Name + ": " + fd.valueOf(rec).String()
		if fd.LinkedIndexField != "" {
			if ref, err := ResolveIndex(rec, fd.Name); err != nil {
				rec.RecordType().schema.Logger().Debug("index resolution failed", "type", rec.RecordType().name, "field", fd.Name, "err", err)
				line += " (" + err.Error() + ")"
			} else {
				line += " (" + ref.String() + ")"
			}
		}
		return append(lines, line)
	}
}

func renderEntries(lines []string, assoc AssociativeFields) []string {
	n := assoc.EntryCount()
	lines = append(lines, fmt.Sprintf("--- Entries (0x%X) ---", n))
	width := hexWidth(n)
	var i int
	for k, v := range assoc.Entries() {
		lines = append(lines, fmt.Sprintf("%s[%0*X] %s: %s", renderIndent, width, i, typedval.Of(k), typedval.Of(v)))
		i++
	}
	return append(lines, blockEnd)
}

// shapeOf classifies a field by the runtime value, using the declared kind
// as the name of the shape when it is a collection kind.
func shapeOf(fd *FieldDescriptor, v any) Kind {
	if fd.Kind.IsCollection() {
		return fd.Kind
	}
	switch v := v.(type) {
	case KindReporter:
		return v.FieldKind()
	case Record:
		return KindRecord
	case ReferenceTable:
		return KindReferenceList
	case Collection:
		return KindRecordList
	}
	if k := inferKind(reflect.TypeOf(v)); k.IsCollection() {
		return k
	}
	return KindScalar
}

// displayItems returns one line of text per element of a collection value.
func displayItems(v any) []string {
	var items []string
	switch c := v.(type) {
	case ReferenceTable:
		for i := range c.Len() {
			items = append(items, c.ReferenceAt(i).String())
		}
	case Collection:
		for i := range c.Len() {
			items = append(items, displayValue(c.ElementAt(i)))
		}
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return []string{typedval.Of(v).String()}
		}
		for i := range rv.Len() {
			elem := rv.Index(i).Interface()
			if rec, ok := elem.(Record); ok && !isNil(rec) {
				items = append(items, displayValue(rec))
			} else {
				items = append(items, typedval.Of(elem).String())
			}
		}
	}
	return items
}

// displayValue is the one-line text of a collection element: its Value field
// when it has one, otherwise its scalar fields.
func displayValue(rec Record) string {
	if isNil(rec) {
		return "<nil>"
	}
	if value, ok := valueField(rec); ok {
		return value
	}
	var parts []string
	for _, fd := range VisibleFields(rec) {
		if slices.Contains(DisplayExcludedFields, fd.Name) {
			continue
		}
		v := fd.get(rec)
		if !isNil(v) && shapeOf(fd, v) != KindScalar {
			continue
		}
		parts = append(parts, fd.Name+": "+fd.valueOf(rec).String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func valueField(rec Record) (string, bool) {
	fd := rec.RecordType().Field(FieldValue)
	if fd == nil {
		return "", false
	}
	return fd.valueOf(rec).String(), true
}

func hexWidth(n int) int {
	return len(strconv.FormatInt(int64(n), 16))
}
