package kanbanflow

import (
	"fmt"
	"strings"
)

// Kind is the JSON type a Schema accepts.
type Kind int

// Schema kinds.
const (
	KindAny Kind = iota
	KindString
	KindNumber
	KindBool
	KindObject
	KindArray
)

// Schema is a declarative description of a JSON shape.
//
// Object schemas list their fields; fields not listed are ignored so the
// API can grow without breaking the client. Array schemas describe their
// element type.
type Schema struct {
	Kind   Kind
	Fields []Field
	Elem   *Schema
}

// Field is a named member of an object schema.
type Field struct {
	Name     string
	Schema   *Schema
	Optional bool
}

// Issue is a single shape violation.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	path := i.Path
	if path == "" {
		path = "(root)"
	}
	return path + ": " + i.Message
}

// Schema constructors.

func Any() *Schema    { return &Schema{Kind: KindAny} }
func String() *Schema { return &Schema{Kind: KindString} }
func Number() *Schema { return &Schema{Kind: KindNumber} }
func Bool() *Schema   { return &Schema{Kind: KindBool} }

// Object builds an object schema from its fields.
func Object(fields ...Field) *Schema {
	return &Schema{Kind: KindObject, Fields: fields}
}

// ArrayOf builds an array schema whose elements must match elem.
func ArrayOf(elem *Schema) *Schema {
	return &Schema{Kind: KindArray, Elem: elem}
}

// Required declares a field that must be present.
func Required(name string, s *Schema) Field {
	return Field{Name: name, Schema: s}
}

// Optional declares a field that may be absent. When present it must still
// match s; an explicit null is not the same as absent.
func Optional(name string, s *Schema) Field {
	return Field{Name: name, Schema: s, Optional: true}
}

// Validate checks a value produced by encoding/json decoding into an any
// and returns every violation found, in document order. A nil result means
// the value conforms.
func (s *Schema) Validate(v any) []Issue {
	var issues []Issue
	s.validate("", v, &issues)
	return issues
}

func (s *Schema) validate(path string, v any, issues *[]Issue) {
	report := func(format string, args ...any) {
		*issues = append(*issues, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	switch s.Kind {
	case KindAny:
		return

	case KindString:
		if _, ok := v.(string); !ok {
			report("expected string, received %s", typeName(v))
		}

	case KindNumber:
		if _, ok := v.(float64); !ok {
			report("expected number, received %s", typeName(v))
		}

	case KindBool:
		if _, ok := v.(bool); !ok {
			report("expected boolean, received %s", typeName(v))
		}

	case KindObject:
		obj, ok := v.(map[string]any)
		if !ok {
			report("expected object, received %s", typeName(v))
			return
		}
		for _, f := range s.Fields {
			fieldPath := joinPath(path, f.Name)
			val, present := obj[f.Name]
			if !present {
				if !f.Optional {
					*issues = append(*issues, Issue{Path: fieldPath, Message: "required"})
				}
				continue
			}
			f.Schema.validate(fieldPath, val, issues)
		}

	case KindArray:
		arr, ok := v.([]any)
		if !ok {
			report("expected array, received %s", typeName(v))
			return
		}
		if s.Elem == nil {
			return
		}
		for i, elem := range arr {
			s.Elem.validate(fmt.Sprintf("%s[%d]", path, i), elem, issues)
		}
	}
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return strings.TrimPrefix(fmt.Sprintf("%T", v), "*")
	}
}
