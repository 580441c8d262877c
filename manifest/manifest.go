// Package manifest defines record types from YAML descriptions. All such
// types share one Go type, Dynamic, which keeps field values in a map.
package manifest

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/andreyvit/fieldmodel"
	"github.com/andreyvit/fieldmodel/tgi"
)

var ErrInvalid = errors.New("invalid manifest")

type Manifest struct {
	Records []RecordSpec `yaml:"records"`
}

type RecordSpec struct {
	Name               string      `yaml:"name"`
	RecommendedVersion uint32      `yaml:"recommendedVersion"`
	Fields             []FieldSpec `yaml:"fields"`
}

type FieldSpec struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	MinVersion  uint32 `yaml:"minVersion"`
	MaxVersion  uint32 `yaml:"maxVersion"`
	Priority    int32  `yaml:"priority"`
	LinkedIndex string `yaml:"linkedIndex"`
	Format      string `yaml:"format"`
}

// TypeReferences is the field type name of a tgi.Block field.
const TypeReferences = "references"

var scalarTypes = map[string]reflect.Type{
	"bool":    reflect.TypeFor[bool](),
	"string":  reflect.TypeFor[string](),
	"int8":    reflect.TypeFor[int8](),
	"int16":   reflect.TypeFor[int16](),
	"int32":   reflect.TypeFor[int32](),
	"int64":   reflect.TypeFor[int64](),
	"uint8":   reflect.TypeFor[uint8](),
	"uint16":  reflect.TypeFor[uint16](),
	"uint32":  reflect.TypeFor[uint32](),
	"uint64":  reflect.TypeFor[uint64](),
	"float32": reflect.TypeFor[float32](),
	"float64": reflect.TypeFor[float64](),
}

var blockType = reflect.TypeFor[*tgi.Block]()

// Field names must be usable as path segments.
var fieldNameRe = regexp.MustCompile(`^[A-Za-z_]\w*$`)

func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) Validate() error {
	seen := make(map[string]bool)
	for i, rs := range m.Records {
		if rs.Name == "" {
			return fmt.Errorf("%w: records[%d]: name missing", ErrInvalid, i)
		}
		if seen[rs.Name] {
			return fmt.Errorf("%w: record %s defined twice", ErrInvalid, rs.Name)
		}
		seen[rs.Name] = true
		if err := rs.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (rs *RecordSpec) validate() error {
	byName := make(map[string]*FieldSpec, len(rs.Fields))
	for i := range rs.Fields {
		fs := &rs.Fields[i]
		if fs.Name == "" {
			return fmt.Errorf("%w: %s.fields[%d]: name missing", ErrInvalid, rs.Name, i)
		}
		if !fieldNameRe.MatchString(fs.Name) {
			return fmt.Errorf("%w: %s.%q: field name must be an identifier", ErrInvalid, rs.Name, fs.Name)
		}
		if fieldmodel.IsInfrastructureField(fs.Name) {
			return fmt.Errorf("%w: %s.%s: reserved field name", ErrInvalid, rs.Name, fs.Name)
		}
		if byName[fs.Name] != nil {
			return fmt.Errorf("%w: %s.%s defined twice", ErrInvalid, rs.Name, fs.Name)
		}
		if _, err := fs.goType(); err != nil {
			return fmt.Errorf("%w: %s.%s: %v", ErrInvalid, rs.Name, fs.Name, err)
		}
		if _, err := fs.format(); err != nil {
			return fmt.Errorf("%w: %s.%s: %v", ErrInvalid, rs.Name, fs.Name, err)
		}
		if fs.MinVersion != 0 && fs.MaxVersion != 0 && fs.MinVersion > fs.MaxVersion {
			return fmt.Errorf("%w: %s.%s: minVersion %d > maxVersion %d", ErrInvalid, rs.Name, fs.Name, fs.MinVersion, fs.MaxVersion)
		}
		byName[fs.Name] = fs
	}
	for _, fs := range rs.Fields {
		if fs.LinkedIndex == "" {
			continue
		}
		target := byName[fs.LinkedIndex]
		if target == nil || target.Type != TypeReferences {
			return fmt.Errorf("%w: %s.%s: linkedIndex %s must name a %s field", ErrInvalid, rs.Name, fs.Name, fs.LinkedIndex, TypeReferences)
		}
	}
	return nil
}

func (fs *FieldSpec) goType() (reflect.Type, error) {
	if fs.Type == TypeReferences {
		return blockType, nil
	}
	if t := scalarTypes[fs.Type]; t != nil {
		return t, nil
	}
	return nil, fmt.Errorf("unknown type %q", fs.Type)
}
