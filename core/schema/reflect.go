package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// For derives an object type from the struct type T. Field names follow
// `json` tags; `omitempty` and pointer fields become optional; a
// `description` tag sets the field description and an `enum` tag
// ("a,b,c") restricts a string field.
func For[T any]() (*Type, error) {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrEncoding, t)
	}
	return typeOf(t, map[reflect.Type]bool{})
}

// MustFor is like For but panics on error. Intended for package-level
// tool declarations.
func MustFor[T any]() *Type {
	t, err := For[T]()
	if err != nil {
		panic(err)
	}
	return t
}

func typeOf(t reflect.Type, visiting map[reflect.Type]bool) (*Type, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Integer(), nil
	case reflect.Float32, reflect.Float64:
		return Number(), nil
	case reflect.Bool:
		return Boolean(), nil
	case reflect.Slice, reflect.Array:
		items, err := typeOf(t.Elem(), visiting)
		if err != nil {
			return nil, err
		}
		return Array(items), nil
	case reflect.Struct:
		if visiting[t] {
			return nil, fmt.Errorf("%w: recursive type %s", ErrEncoding, t)
		}
		visiting[t] = true
		defer delete(visiting, t)
		return structOf(t, visiting)
	default:
		return nil, fmt.Errorf("%w: unsupported field type %s", ErrEncoding, t)
	}
}

func structOf(t reflect.Type, visiting map[reflect.Type]bool) (*Type, error) {
	fields := make([]Property, 0, t.NumField())

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		name := f.Name
		optional := f.Type.Kind() == reflect.Pointer
		if tag := f.Tag.Get("json"); tag != "" {
			if tag == "-" {
				continue
			}
			parts := strings.Split(tag, ",")
			if parts[0] != "" {
				name = parts[0]
			}
			for _, opt := range parts[1:] {
				if opt == "omitempty" || opt == "omitzero" {
					optional = true
				}
			}
		}

		ft, err := typeOf(f.Type, visiting)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		if enum := f.Tag.Get("enum"); enum != "" && ft.Kind == KindString {
			ft = Enum(strings.Split(enum, ",")...)
		}
		if desc := f.Tag.Get("description"); desc != "" {
			ft.Description = desc
		}

		fields = append(fields, Property{Name: name, Type: ft, Optional: optional})
	}

	return &Type{Kind: KindObject, Fields: fields}, nil
}
