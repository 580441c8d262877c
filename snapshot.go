package fieldmodel

import (
	"bytes"
	"reflect"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/valyala/bytebufferpool"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/andreyvit/fieldmodel/typedval"
)

// Snapshot captures the visible fields of rec as plain data: nested records
// become maps, collections become slices, references become their text.
// Display-excluded fields are skipped.
func Snapshot(rec Record) map[string]any {
	m := make(map[string]any)
	for _, fd := range VisibleFields(rec) {
		if slices.Contains(DisplayExcludedFields, fd.Name) {
			continue
		}
		m[fd.Name] = snapshotValue(fd.get(rec))
	}
	if assoc, ok := rec.(AssociativeFields); ok {
		entries := make(map[string]any, assoc.EntryCount())
		for k, v := range assoc.Entries() {
			entries[typedval.Of(k).String()] = snapshotValue(v)
		}
		m["Entries"] = entries
	}
	return m
}

func snapshotValue(v any) any {
	if isNil(v) {
		return nil
	}
	switch v := v.(type) {
	case ReferenceTable:
		refs := make([]any, v.Len())
		for i := range refs {
			refs[i] = v.ReferenceAt(i).String()
		}
		return refs
	case Collection:
		items := make([]any, v.Len())
		for i := range items {
			items[i] = snapshotValue(v.ElementAt(i))
		}
		return items
	case Record:
		return Snapshot(v)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return v
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 && rv.Kind() == reflect.Slice {
			return v
		}
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = snapshotValue(rv.Index(i).Interface())
		}
		return items
	}
	return typedval.Of(v).String()
}

// EncodeSnapshot encodes Snapshot(rec) as msgpack with sorted map keys, so
// equal records produce equal bytes.
func EncodeSnapshot(rec Record) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	enc := msgpack.NewEncoder(buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(Snapshot(rec)); err != nil {
		return nil, err
	}
	return bytes.Clone(buf.B), nil
}

// Fingerprint hashes the encoded snapshot of rec. Records that render the
// same data have the same fingerprint; handlers and dirty flags are ignored.
func Fingerprint(rec Record) (uint64, error) {
	data, err := EncodeSnapshot(rec)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(data), nil
}

func DecodeSnapshot(data []byte) (map[string]any, error) {
	var m map[string]any
	if err := msgpack.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
