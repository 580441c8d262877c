package fieldmodel

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownField       = errors.New("unknown field")
	ErrInvalidPath        = errors.New("invalid path")
	ErrIncompatibleValue  = errors.New("incompatible value")
	ErrReadOnly           = errors.New("read-only field")
	ErrNotRecord          = errors.New("not a record")
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrResolution         = errors.New("cannot resolve index")
	ErrConstructionDefect = errors.New("no usable constructor")
	ErrFourCCTooLong      = errors.New("FOURCC longer than 8 characters")
)

// FieldError reports a failed path access.
type FieldError struct {
	Type string
	Path []string
	Msg  string
	Err  error
}

func fieldErrf(typ *RecordType, path []string, err error, format string, args ...any) error {
	return &FieldError{typ.Name(), path, fmt.Sprintf(format, args...), err}
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func (e *FieldError) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Type)
	if len(e.Path) > 0 {
		buf.WriteByte('.')
		buf.WriteString(strings.Join(e.Path, "."))
	}
	buf.WriteString(": ")
	if e.Err != nil {
		buf.WriteString(e.Err.Error())
	}
	if e.Msg != "" {
		if e.Err != nil {
			buf.WriteString(": ")
		}
		buf.WriteString(e.Msg)
	}
	return buf.String()
}

// IndexError reports a failed index-to-reference resolution.
type IndexError struct {
	Type  string
	Field string
	Index int64
	Count int
	Msg   string
	Err   error
}

func (e *IndexError) Unwrap() error {
	return e.Err
}

func (e *IndexError) Error() string {
	if errors.Is(e.Err, ErrIndexOutOfRange) {
		return fmt.Sprintf("%s.%s: %v: %d not in [0, %d)", e.Type, e.Field, e.Err, e.Index, e.Count)
	}
	if e.Msg != "" {
		return fmt.Sprintf("%s.%s: %v: %s", e.Type, e.Field, e.Err, e.Msg)
	}
	return fmt.Sprintf("%s.%s: %v", e.Type, e.Field, e.Err)
}

// ConstructionError is raised (as a panic) when a record type cannot be
// cloned: it declares no usable constructor, or Field is read-only and its
// content cannot be copied into a default-constructed record.
type ConstructionError struct {
	Type  string
	Field string
	Msg   string
}

func (e *ConstructionError) Unwrap() error {
	return ErrConstructionDefect
}

func (e *ConstructionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s.%s: %v: %s", e.Type, e.Field, ErrConstructionDefect, e.Msg)
	}
	return fmt.Sprintf("%s: %v: declare Cloner or Constructor in DefineRecord", e.Type, ErrConstructionDefect)
}
