package schema

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// FormatJSONSchema is the response format type for schema-constrained output.
const FormatJSONSchema = "json_schema"

// ResponseFormat is the wire shape of a structured-output request.
type ResponseFormat struct {
	Type        string                 `json:"type"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Schema      *jsonschema.Definition `json:"schema"`
	Strict      bool                   `json:"strict"`
}

// ToWire translates s into a strict response format. Strict output requires
// every field to be present, so schemas with optional fields are rejected.
func ToWire(s *Schema) (ResponseFormat, error) {
	if err := s.Validate(); err != nil {
		return ResponseFormat{}, err
	}

	def, err := toDefinition(s.Root, s.Name, true)
	if err != nil {
		return ResponseFormat{}, err
	}

	return ResponseFormat{
		Type:        FormatJSONSchema,
		Name:        s.Name,
		Description: s.Description,
		Schema:      def,
		Strict:      true,
	}, nil
}

// ToDefinition translates t without strict constraints. Optional fields are
// omitted from "required". Used for tool parameter declarations.
func ToDefinition(t *Type) (*jsonschema.Definition, error) {
	if err := t.validate("$"); err != nil {
		return nil, err
	}
	return toDefinition(t, "$", false)
}

// MarshalDefinition returns the compact JSON bytes of t's non-strict
// definition.
func MarshalDefinition(t *Type) (json.RawMessage, error) {
	def, err := ToDefinition(t)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return data, nil
}

// Marshal returns the compact JSON bytes of the strict response format.
func (f ResponseFormat) Marshal() ([]byte, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return data, nil
}

// SchemaJSON returns the compact JSON bytes of the format's schema
// definition.
func (f ResponseFormat) SchemaJSON() (json.RawMessage, error) {
	data, err := json.Marshal(f.Schema)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return data, nil
}

func toDefinition(t *Type, path string, strict bool) (*jsonschema.Definition, error) {
	def := &jsonschema.Definition{Description: t.Description}

	switch t.Kind {
	case KindString:
		def.Type = jsonschema.String
	case KindInteger:
		def.Type = jsonschema.Integer
	case KindNumber:
		def.Type = jsonschema.Number
	case KindBoolean:
		def.Type = jsonschema.Boolean
	case KindEnum:
		def.Type = jsonschema.String
		def.Enum = slices.Clone(t.Values)
	case KindArray:
		items, err := toDefinition(t.Items, path+"[]", strict)
		if err != nil {
			return nil, err
		}
		def.Type = jsonschema.Array
		def.Items = items
	case KindObject:
		def.Type = jsonschema.Object
		def.Properties = make(map[string]jsonschema.Definition, len(t.Fields))
		def.Required = make([]string, 0, len(t.Fields))
		def.AdditionalProperties = false
		for _, f := range t.Fields {
			if f.Optional && strict {
				return nil, fmt.Errorf("%w: %s.%s: strict schemas cannot contain optional fields", ErrEncoding, path, f.Name)
			}
			prop, err := toDefinition(f.Type, path+"."+f.Name, strict)
			if err != nil {
				return nil, err
			}
			def.Properties[f.Name] = *prop
			if !f.Optional {
				def.Required = append(def.Required, f.Name)
			}
		}
	default:
		return nil, fmt.Errorf("%w: %s: unknown kind %q", ErrEncoding, path, t.Kind)
	}

	return def, nil
}

// FromWire reverses ToWire. Object fields are ordered by their position in
// "required", followed by any optional fields in name order.
func FromWire(f ResponseFormat) (*Schema, error) {
	if f.Type != FormatJSONSchema {
		return nil, fmt.Errorf("%w: unsupported format type %q", ErrEncoding, f.Type)
	}
	if f.Schema == nil {
		return nil, fmt.Errorf("%w: format %q has no schema", ErrEncoding, f.Name)
	}

	root, err := FromDefinition(f.Schema)
	if err != nil {
		return nil, err
	}

	s := &Schema{Name: f.Name, Description: f.Description, Root: root}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// FromDefinition converts a wire definition back into a schema type.
func FromDefinition(def *jsonschema.Definition) (*Type, error) {
	return fromDefinition(def, "$")
}

func fromDefinition(def *jsonschema.Definition, path string) (*Type, error) {
	if def == nil {
		return nil, fmt.Errorf("%w: %s: missing definition", ErrEncoding, path)
	}

	t := &Type{Description: def.Description}

	switch def.Type {
	case jsonschema.String:
		if len(def.Enum) > 0 {
			t.Kind = KindEnum
			t.Values = slices.Clone(def.Enum)
		} else {
			t.Kind = KindString
		}
	case jsonschema.Integer:
		t.Kind = KindInteger
	case jsonschema.Number:
		t.Kind = KindNumber
	case jsonschema.Boolean:
		t.Kind = KindBoolean
	case jsonschema.Array:
		items, err := fromDefinition(def.Items, path+"[]")
		if err != nil {
			return nil, err
		}
		t.Kind = KindArray
		t.Items = items
	case jsonschema.Object:
		t.Kind = KindObject
		fields, err := fieldsFromDefinition(def, path)
		if err != nil {
			return nil, err
		}
		t.Fields = fields
	default:
		return nil, fmt.Errorf("%w: %s: unsupported type %q", ErrEncoding, path, def.Type)
	}

	return t, nil
}

func fieldsFromDefinition(def *jsonschema.Definition, path string) ([]Property, error) {
	required := make(map[string]bool, len(def.Required))
	fields := make([]Property, 0, len(def.Properties))

	for _, name := range def.Required {
		prop, ok := def.Properties[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s: required field %q has no definition", ErrEncoding, path, name)
		}
		t, err := fromDefinition(&prop, path+"."+name)
		if err != nil {
			return nil, err
		}
		required[name] = true
		fields = append(fields, Field(name, t))
	}

	optional := make([]string, 0, len(def.Properties))
	for name := range def.Properties {
		if !required[name] {
			optional = append(optional, name)
		}
	}
	sort.Strings(optional)

	for _, name := range optional {
		prop := def.Properties[name]
		t, err := fromDefinition(&prop, path+"."+name)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Optional(name, t))
	}

	return fields, nil
}
