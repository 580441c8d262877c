package fieldmodel

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFieldError(t *testing.T) {
	err := fieldErrf(headerType, []string{"Count"}, ErrIncompatibleValue, "cannot assign %T", "x")
	require.EqualError(t, err, "Header.Count: incompatible value: cannot assign string")
	require.True(t, errors.Is(err, ErrIncompatibleValue))
	require.False(t, errors.Is(err, ErrReadOnly))

	err = fieldErrf(headerType, []string{"Count"}, ErrReadOnly, "")
	require.EqualError(t, err, "Header.Count: read-only field")
}

func TestIndexError(t *testing.T) {
	err := &IndexError{Type: "T", Field: "F", Index: 5, Count: 2, Err: ErrIndexOutOfRange}
	require.EqualError(t, err, "T.F: index out of range: 5 not in [0, 2)")
	require.ErrorIs(t, err, ErrIndexOutOfRange)

	err = &IndexError{Type: "T", Field: "F", Err: ErrResolution}
	require.EqualError(t, err, "T.F: cannot resolve index")
}

func TestConstructionError(t *testing.T) {
	err := &ConstructionError{Type: "T"}
	require.ErrorIs(t, err, ErrConstructionDefect)
	require.Contains(t, err.Error(), "T: no usable constructor")
}

func TestKind(t *testing.T) {
	tests := []struct {
		field    string
		expected Kind
	}{
		{"Header", KindRecord},
		{"Label", KindRecord},
		{"Refs", KindReferenceList},
		{"Primary", KindScalar},
		{"Tags", KindScalarList},
		{"Links", KindIndexList},
		{"Children", KindRecordList},
		{"Pair", KindRecordArray},
		{"AsBytes", KindScalar},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, resourceType.Field(tt.field).Kind, tt.field)
	}
	require.Equal(t, "RecordArray", KindRecordArray.String())
	require.True(t, KindScalarList.IsCollection())
	require.False(t, KindRecord.IsCollection())
	require.Equal(t, KindRecordList, inferKind(reflect.TypeFor[[]*Header]()))
}
