package fieldmodel

import (
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultVisibleCacheSize = 1024

// Schema is a registry of record types.
type Schema struct {
	logger *slog.Logger

	mu            sync.RWMutex
	types         []*RecordType
	typesByName   map[string]*RecordType
	typesByGoType map[reflect.Type]*RecordType

	visible *lru.Cache[visibleKey, []*FieldDescriptor]
}

type SchemaOpts struct {
	// Logger receives debug events about type definition, cloning and
	// rendering. Defaults to slog.Default().
	Logger *slog.Logger

	// VisibleCacheSize bounds the number of memoized (type, version)
	// visible field lists.
	VisibleCacheSize int
}

type visibleKey struct {
	typ     *RecordType
	version uint32
}

func NewSchema(opt SchemaOpts) *Schema {
	if opt.VisibleCacheSize <= 0 {
		opt.VisibleCacheSize = defaultVisibleCacheSize
	}
	return &Schema{
		logger:        opt.Logger,
		typesByName:   make(map[string]*RecordType),
		typesByGoType: make(map[reflect.Type]*RecordType),
		visible:       must(lru.New[visibleKey, []*FieldDescriptor](opt.VisibleCacheSize)),
	}
}

func (scm *Schema) Logger() *slog.Logger {
	if scm.logger == nil {
		return slog.Default()
	}
	return scm.logger
}

func (scm *Schema) addType(typ *RecordType) {
	scm.mu.Lock()
	defer scm.mu.Unlock()
	if scm.typesByName[typ.name] != nil {
		panic(fmt.Errorf("record type %s already defined", typ.name))
	}
	if !typ.shared {
		if prior := scm.typesByGoType[typ.goType]; prior != nil {
			panic(fmt.Errorf("record type %s: %v is already registered as %s", typ.name, typ.goType, prior.name))
		}
		scm.typesByGoType[typ.goType] = typ
	}
	scm.typesByName[typ.name] = typ
	scm.types = append(scm.types, typ)
	scm.Logger().Debug("record type defined", "type", typ.name, "fields", len(typ.fields), "recommended", typ.recommended)
}

func (scm *Schema) Types() []*RecordType {
	scm.mu.RLock()
	defer scm.mu.RUnlock()
	return slices.Clone(scm.types)
}

func (scm *Schema) TypeNamed(name string) *RecordType {
	scm.mu.RLock()
	defer scm.mu.RUnlock()
	return scm.typesByName[name]
}

// TypeOf returns the record type registered for a Go type, accepting both
// R and *R. Returns nil for unknown and shared types.
func (scm *Schema) TypeOf(goType reflect.Type) *RecordType {
	if goType == nil {
		return nil
	}
	if goType.Kind() != reflect.Pointer {
		goType = reflect.PointerTo(goType)
	}
	scm.mu.RLock()
	defer scm.mu.RUnlock()
	return scm.typesByGoType[goType]
}

// VisibleFields returns the names of the fields of goType visible at the
// requested version. Unknown types yield an empty list.
func (scm *Schema) VisibleFields(goType reflect.Type, requested uint32) []string {
	typ := scm.TypeOf(goType)
	if typ == nil {
		return []string{}
	}
	return typ.VisibleFieldNames(requested)
}
