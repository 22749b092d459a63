package schema

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Content is a structured value produced by a model and validated against
// a schema. Numbers are held as float64, matching JSON semantics.
type Content struct {
	value *structpb.Value
}

// NewContent converts any JSON-marshalable Go value into Content.
func NewContent(v any) (*Content, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	value, err := structpb.NewValue(generic)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return &Content{value: value}, nil
}

// FromProto wraps a protobuf value. The value is cloned.
func FromProto(v *structpb.Value) *Content {
	if v == nil {
		v = structpb.NewNullValue()
	}
	return &Content{value: proto.Clone(v).(*structpb.Value)}
}

// Proto returns a copy of the underlying protobuf value.
func (c *Content) Proto() *structpb.Value {
	return proto.Clone(c.value).(*structpb.Value)
}

// Interface returns the content as plain Go values: map[string]any,
// []any, string, float64, bool, or nil.
func (c *Content) Interface() any {
	return c.value.AsInterface()
}

// Map returns the content as a map when it is an object.
func (c *Content) Map() (map[string]any, bool) {
	s := c.value.GetStructValue()
	if s == nil {
		return nil, false
	}
	return s.AsMap(), true
}

// Field returns the named field when the content is an object.
func (c *Content) Field(name string) (*Content, bool) {
	s := c.value.GetStructValue()
	if s == nil {
		return nil, false
	}
	v, ok := s.GetFields()[name]
	if !ok {
		return nil, false
	}
	return &Content{value: v}, true
}

// JSON encodes the content. Object keys are sorted, so equal content always
// produces identical bytes.
func (c *Content) JSON() ([]byte, error) {
	data, err := json.Marshal(c.value.AsInterface())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return data, nil
}

// MarshalJSON implements json.Marshaler.
func (c *Content) MarshalJSON() ([]byte, error) {
	return c.JSON()
}

// Decode unmarshals the content into v.
func (c *Content) Decode(v any) error {
	data, err := c.JSON()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// Equal reports whether both contents hold the same value.
func (c *Content) Equal(o *Content) bool {
	if c == nil || o == nil {
		return c == o
	}
	return proto.Equal(c.value, o.value)
}

func (c *Content) String() string {
	data, err := c.JSON()
	if err != nil {
		return "<invalid content>"
	}
	return string(data)
}
