package fieldmodel

import (
	"cmp"
	"slices"
	"strings"
)

// ComparePriority orders fields by priority ascending, then by name.
func ComparePriority(a, b *FieldDescriptor) int {
	if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
		return c
	}
	return strings.Compare(a.Name, b.Name)
}

// VisibleFields returns the fields visible at the requested version (the
// recommended version when zero), sorted by ComparePriority.
// Infrastructure fields are never included.
func (typ *RecordType) VisibleFields(requested uint32) []*FieldDescriptor {
	version := typ.EffectiveVersion(requested)
	key := visibleKey{typ, version}
	if fields, ok := typ.schema.visible.Get(key); ok {
		return slices.Clone(fields)
	}
	fields := typ.filterFields(version)
	typ.schema.visible.Add(key, fields)
	return slices.Clone(fields)
}

func (typ *RecordType) filterFields(version uint32) []*FieldDescriptor {
	fields := make([]*FieldDescriptor, 0, len(typ.fields))
	for _, fd := range typ.fields {
		if IsInfrastructureField(fd.Name) || !fd.VisibleAt(version) {
			continue
		}
		fields = append(fields, fd)
	}
	slices.SortFunc(fields, ComparePriority)
	return fields
}

func (typ *RecordType) VisibleFieldNames(requested uint32) []string {
	fields := typ.VisibleFields(requested)
	names := make([]string, len(fields))
	for i, fd := range fields {
		names[i] = fd.Name
	}
	return names
}

// VisibleFields returns the fields of rec visible at its requested version.
func VisibleFields(rec Record) []*FieldDescriptor {
	return rec.RecordType().VisibleFields(rec.RequestedVersion())
}

func VisibleFieldNames(rec Record) []string {
	return rec.RecordType().VisibleFieldNames(rec.RequestedVersion())
}

// FieldComparer returns a comparison function ordering records by the value
// of one named field, suitable for slices.SortFunc. Panics if the field is
// not declared on a compared record.
func FieldComparer[R Record](field string) func(a, b R) int {
	return func(a, b R) int {
		return must(Get(a, field)).Compare(must(Get(b, field)))
	}
}

// SortByField stably sorts records by one named field.
func SortByField[R Record](recs []R, field string) {
	slices.SortStableFunc(recs, FieldComparer[R](field))
}
