// Package schema describes structured-output contracts and translates them
// to and from the JSON Schema wire format used by remote backends.
//
// A Schema is a tree of typed fields. ToWire produces the strict
// {"type":"json_schema","name","schema","strict":true} response format,
// ToDefinition produces the non-strict form used for tool parameters, and
// Parse validates model output against a schema, yielding Content.
package schema

import (
	"fmt"
	"slices"
)

// Kind is the abstract type of a schema node.
type Kind string

const (
	KindString  Kind = "string"
	KindInteger Kind = "integer"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindArray   Kind = "array"
	KindObject  Kind = "object"
	KindEnum    Kind = "enum"
)

// Type is a node in a schema tree. Fields applies to objects, Items to
// arrays, and Values to enums.
type Type struct {
	Kind        Kind
	Description string
	Fields      []Property
	Items       *Type
	Values      []string
}

// Property is a named object field. Optional fields may be absent or null in
// parsed output and are left out of the wire "required" list.
type Property struct {
	Name     string
	Type     *Type
	Optional bool
}

// Schema is a named structured-output contract whose root is an object.
type Schema struct {
	Name        string
	Description string
	Root        *Type
}

// New creates a Schema with the given name and root type.
func New(name string, root *Type) *Schema {
	return &Schema{Name: name, Root: root}
}

// WithDescription returns a copy of s carrying the description.
func (s *Schema) WithDescription(desc string) *Schema {
	c := *s
	c.Description = desc
	return &c
}

func String() *Type  { return &Type{Kind: KindString} }
func Integer() *Type { return &Type{Kind: KindInteger} }
func Number() *Type  { return &Type{Kind: KindNumber} }
func Boolean() *Type { return &Type{Kind: KindBoolean} }

// Array creates an array type whose elements conform to items.
func Array(items *Type) *Type {
	return &Type{Kind: KindArray, Items: items}
}

// Object creates an object type with fields in declaration order.
func Object(fields ...Property) *Type {
	return &Type{Kind: KindObject, Fields: slices.Clone(fields)}
}

// Enum creates a string type restricted to values.
func Enum(values ...string) *Type {
	return &Type{Kind: KindEnum, Values: slices.Clone(values)}
}

// Field declares a required object field.
func Field(name string, t *Type) Property {
	return Property{Name: name, Type: t}
}

// Optional declares an object field that may be omitted.
func Optional(name string, t *Type) Property {
	return Property{Name: name, Type: t, Optional: true}
}

// Describe returns a copy of t carrying the description.
func (t *Type) Describe(desc string) *Type {
	c := *t
	c.Description = desc
	return &c
}

// Lookup returns the named field of an object type.
func (t *Type) Lookup(name string) (Property, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Property{}, false
}

// Validate checks the schema tree for structural errors.
func (s *Schema) Validate() error {
	if s == nil || s.Root == nil {
		return fmt.Errorf("%w: schema has no root type", ErrEncoding)
	}
	if s.Name == "" {
		return fmt.Errorf("%w: schema name is empty", ErrEncoding)
	}
	if s.Root.Kind != KindObject {
		return fmt.Errorf("%w: schema root must be an object, got %s", ErrEncoding, s.Root.Kind)
	}
	return s.Root.validate(s.Name)
}

func (t *Type) validate(path string) error {
	if t == nil {
		return fmt.Errorf("%w: %s: missing type", ErrEncoding, path)
	}

	switch t.Kind {
	case KindString, KindInteger, KindNumber, KindBoolean:
		return nil
	case KindEnum:
		if len(t.Values) == 0 {
			return fmt.Errorf("%w: %s: enum has no values", ErrEncoding, path)
		}
		return nil
	case KindArray:
		return t.Items.validate(path + "[]")
	case KindObject:
		seen := make(map[string]bool, len(t.Fields))
		for _, f := range t.Fields {
			if f.Name == "" {
				return fmt.Errorf("%w: %s: field name is empty", ErrEncoding, path)
			}
			if seen[f.Name] {
				return fmt.Errorf("%w: %s: duplicate field %q", ErrEncoding, path, f.Name)
			}
			seen[f.Name] = true
			if err := f.Type.validate(path + "." + f.Name); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %s: unknown kind %q", ErrEncoding, path, t.Kind)
	}
}

// Equal reports whether two schemas describe the same contract.
func (s *Schema) Equal(o *Schema) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.Name == o.Name && s.Description == o.Description && s.Root.Equal(o.Root)
}

// Equal reports whether two types are structurally identical, including
// field order.
func (t *Type) Equal(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind || t.Description != o.Description {
		return false
	}
	if !slices.Equal(t.Values, o.Values) || !t.Items.Equal(o.Items) {
		return false
	}
	if len(t.Fields) != len(o.Fields) {
		return false
	}
	for i := range t.Fields {
		a, b := t.Fields[i], o.Fields[i]
		if a.Name != b.Name || a.Optional != b.Optional || !a.Type.Equal(b.Type) {
			return false
		}
	}
	return true
}
