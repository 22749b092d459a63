package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"
)

// Content holds numbers as float64, so integers are limited to the range a
// float64 represents exactly.
const (
	maxExactInteger         = 1 << 53
	exactIntegerExpectation = "integer within ±2^53"
)

// Parse validates jsonText against s and returns the decoded content.
// Any divergence is reported as a *MismatchError.
func Parse(jsonText []byte, s *Schema) (*Content, error) {
	if s == nil || s.Root == nil {
		return nil, fmt.Errorf("%w: schema has no root type", ErrEncoding)
	}
	return ParseType(jsonText, s.Root)
}

// ParseType validates jsonText against a single type.
func ParseType(jsonText []byte, t *Type) (*Content, error) {
	raw, err := decode(jsonText)
	if err != nil {
		return nil, err
	}

	v, err := convert("", raw, t)
	if err != nil {
		return nil, err
	}
	return &Content{value: v}, nil
}

func decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, &MismatchError{Expected: "JSON document", Actual: err.Error()}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &MismatchError{Expected: "single JSON document", Actual: "trailing data"}
	}
	return raw, nil
}

func convert(path string, v any, t *Type) (*structpb.Value, error) {
	switch t.Kind {
	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil, mismatch(path, "string", v)
		}
		return structpb.NewStringValue(s), nil

	case KindEnum:
		s, ok := v.(string)
		if !ok {
			return nil, mismatch(path, enumExpectation(t.Values), v)
		}
		for _, allowed := range t.Values {
			if s == allowed {
				return structpb.NewStringValue(s), nil
			}
		}
		return nil, &MismatchError{Field: path, Expected: enumExpectation(t.Values), Actual: fmt.Sprintf("%q", s)}

	case KindInteger:
		n, ok := v.(json.Number)
		if !ok {
			return nil, mismatch(path, "integer", v)
		}
		if i, err := n.Int64(); err == nil {
			if i > maxExactInteger || i < -maxExactInteger {
				return nil, &MismatchError{Field: path, Expected: exactIntegerExpectation, Actual: "number " + n.String()}
			}
			return structpb.NewNumberValue(float64(i)), nil
		}
		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) {
			return nil, &MismatchError{Field: path, Expected: "integer", Actual: "number " + n.String()}
		}
		if math.Abs(f) > maxExactInteger {
			return nil, &MismatchError{Field: path, Expected: exactIntegerExpectation, Actual: "number " + n.String()}
		}
		return structpb.NewNumberValue(f), nil

	case KindNumber:
		n, ok := v.(json.Number)
		if !ok {
			return nil, mismatch(path, "number", v)
		}
		f, err := n.Float64()
		if err != nil {
			return nil, &MismatchError{Field: path, Expected: "number", Actual: n.String()}
		}
		return structpb.NewNumberValue(f), nil

	case KindBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil, mismatch(path, "boolean", v)
		}
		return structpb.NewBoolValue(b), nil

	case KindArray:
		items, ok := v.([]any)
		if !ok {
			return nil, mismatch(path, "array", v)
		}
		values := make([]*structpb.Value, len(items))
		for i, item := range items {
			converted, err := convert(fmt.Sprintf("%s[%d]", path, i), item, t.Items)
			if err != nil {
				return nil, err
			}
			values[i] = converted
		}
		return structpb.NewListValue(&structpb.ListValue{Values: values}), nil

	case KindObject:
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, mismatch(path, "object", v)
		}
		return convertObject(path, obj, t)

	default:
		return nil, fmt.Errorf("%w: %s: unknown kind %q", ErrEncoding, path, t.Kind)
	}
}

func convertObject(path string, obj map[string]any, t *Type) (*structpb.Value, error) {
	fields := make(map[string]*structpb.Value, len(t.Fields))

	for _, f := range t.Fields {
		fieldPath := joinPath(path, f.Name)
		raw, present := obj[f.Name]
		if !present || raw == nil {
			if f.Optional {
				continue
			}
			actual := "missing"
			if present {
				actual = "null"
			}
			return nil, &MismatchError{Field: fieldPath, Expected: string(f.Type.Kind), Actual: actual}
		}
		converted, err := convert(fieldPath, raw, f.Type)
		if err != nil {
			return nil, err
		}
		fields[f.Name] = converted
	}

	var unknown []string
	for name := range obj {
		if _, ok := t.Lookup(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &MismatchError{Field: joinPath(path, unknown[0]), Expected: "no such field", Actual: "unexpected field"}
	}

	return structpb.NewStructValue(&structpb.Struct{Fields: fields}), nil
}

func mismatch(path, expected string, v any) *MismatchError {
	return &MismatchError{Field: path, Expected: expected, Actual: describe(v)}
}

func describe(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number " + v.String()
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func enumExpectation(values []string) string {
	return "one of [" + strings.Join(values, ", ") + "]"
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
