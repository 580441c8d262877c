package fieldmodel

import (
	"fmt"
	"reflect"
)

type Kind int

const (
	kindAuto Kind = iota
	KindScalar
	KindRecord
	KindScalarList
	KindIndexList
	KindReferenceList
	KindRecordList
	KindRecordArray
)

func (k Kind) String() string {
	switch k {
	case kindAuto:
		return "auto"
	case KindScalar:
		return "Scalar"
	case KindRecord:
		return "Record"
	case KindScalarList:
		return "ScalarList"
	case KindIndexList:
		return "IndexList"
	case KindReferenceList:
		return "ReferenceList"
	case KindRecordList:
		return "RecordList"
	case KindRecordArray:
		return "RecordArray"
	default:
		return fmt.Sprintf("invalid kind %d", int(k))
	}
}

func (k Kind) IsCollection() bool {
	return k >= KindScalarList && k <= KindRecordArray
}

// KindReporter is implemented by collection types to declare their shape.
// FieldKind must not dereference the receiver: it is called on nil pointers.
type KindReporter interface {
	FieldKind() Kind
}

var (
	recordIface         = reflect.TypeFor[Record]()
	referenceTableIface = reflect.TypeFor[ReferenceTable]()
	kindReporterIface   = reflect.TypeFor[KindReporter]()
)

func inferKind(typ reflect.Type) Kind {
	if typ.Implements(kindReporterIface) {
		return reflect.Zero(typ).Interface().(KindReporter).FieldKind()
	}
	if typ.Implements(recordIface) {
		return KindRecord
	}
	if typ.Implements(referenceTableIface) {
		return KindReferenceList
	}
	switch typ.Kind() {
	case reflect.Slice:
		if typ.Elem().Implements(recordIface) {
			return KindRecordList
		}
	case reflect.Array:
		if typ.Elem().Implements(recordIface) {
			return KindRecordArray
		}
	}
	return KindScalar
}
