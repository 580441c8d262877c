package fieldmodel

import (
	"reflect"

	"github.com/andreyvit/fieldmodel/typedval"
)

// FieldDescriptor is static metadata about one named field of a record type.
// Descriptors are immutable once the record type is defined.
type FieldDescriptor struct {
	Name string
	Kind Kind
	Type reflect.Type

	// MinVersion and MaxVersion bound the versions at which the field is
	// visible; zero means unbounded.
	MinVersion uint32
	MaxVersion uint32

	// Priority orders fields for display, lower first.
	Priority int32

	// LinkedIndexField names a ReferenceTable-valued field of the same
	// record that this field's integer value indexes into.
	LinkedIndexField string

	Format typedval.Format

	get func(rec Record) any
	set func(rec Record, v any)
}

func (fd *FieldDescriptor) String() string {
	return fd.Name
}

func (fd *FieldDescriptor) IsReadOnly() bool {
	return fd.set == nil
}

// VisibleAt reports whether the field is visible at the given effective
// version. Version 0 disables filtering.
func (fd *FieldDescriptor) VisibleAt(version uint32) bool {
	if version == 0 {
		return true
	}
	if fd.MinVersion != 0 && fd.MinVersion > version {
		return false
	}
	if fd.MaxVersion != 0 && version > fd.MaxVersion {
		return false
	}
	return true
}

func (fd *FieldDescriptor) valueOf(rec Record) typedval.Value {
	return typedval.WithFormat(typedval.Typed(fd.Type, fd.get(rec)), fd.Format)
}

func (fd *FieldDescriptor) accepts(v any) bool {
	if v == nil {
		switch fd.Type.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return true
		}
		return false
	}
	return reflect.TypeOf(v).AssignableTo(fd.Type)
}

type FieldOption func(fd *FieldDescriptor)

func MinVersion(v uint32) FieldOption {
	return func(fd *FieldDescriptor) { fd.MinVersion = v }
}

func MaxVersion(v uint32) FieldOption {
	return func(fd *FieldDescriptor) { fd.MaxVersion = v }
}

func Priority(p int32) FieldOption {
	return func(fd *FieldDescriptor) { fd.Priority = p }
}

func LinkedIndex(field string) FieldOption {
	return func(fd *FieldDescriptor) { fd.LinkedIndexField = field }
}

func WithKind(k Kind) FieldOption {
	return func(fd *FieldDescriptor) { fd.Kind = k }
}

func WithFormat(f typedval.Format) FieldOption {
	return func(fd *FieldDescriptor) { fd.Format = f }
}
