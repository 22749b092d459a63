package schema_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/tailored-agentic-units/intelligence/core/schema"
)

func flashcardSchema() *schema.Schema {
	return schema.New("flashcard", schema.Object(
		schema.Field("question", schema.String().Describe("Front of the card")),
		schema.Field("answer", schema.String()),
		schema.Field("difficulty", schema.Enum("easy", "medium", "hard")),
		schema.Field("score", schema.Integer()),
		schema.Field("weight", schema.Number()),
		schema.Field("reviewed", schema.Boolean()),
		schema.Field("tags", schema.Array(schema.String())),
		schema.Field("source", schema.Object(
			schema.Field("title", schema.String()),
			schema.Field("page", schema.Integer()),
		)),
	))
}

func decodeMap(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	return m
}

func TestToWire_Shape(t *testing.T) {
	format, err := schema.ToWire(flashcardSchema())
	if err != nil {
		t.Fatalf("ToWire failed: %v", err)
	}

	data, err := format.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	m := decodeMap(t, data)

	if m["type"] != "json_schema" {
		t.Errorf("got type %v, want json_schema", m["type"])
	}
	if m["name"] != "flashcard" {
		t.Errorf("got name %v, want flashcard", m["name"])
	}
	if m["strict"] != true {
		t.Errorf("got strict %v, want true", m["strict"])
	}

	root, ok := m["schema"].(map[string]any)
	if !ok {
		t.Fatalf("schema is not an object: %v", m["schema"])
	}
	if root["type"] != "object" {
		t.Errorf("got root type %v, want object", root["type"])
	}
	if root["additionalProperties"] != false {
		t.Errorf("got additionalProperties %v, want false", root["additionalProperties"])
	}

	required, _ := root["required"].([]any)
	wantRequired := []string{"question", "answer", "difficulty", "score", "weight", "reviewed", "tags", "source"}
	if len(required) != len(wantRequired) {
		t.Fatalf("got %d required fields, want %d", len(required), len(wantRequired))
	}
	for i, name := range wantRequired {
		if required[i] != name {
			t.Errorf("required[%d] = %v, want %q", i, required[i], name)
		}
	}

	props := root["properties"].(map[string]any)
	difficulty := props["difficulty"].(map[string]any)
	if difficulty["type"] != "string" {
		t.Errorf("got enum type %v, want string", difficulty["type"])
	}
	if enum, _ := difficulty["enum"].([]any); len(enum) != 3 || enum[1] != "medium" {
		t.Errorf("got enum %v, want [easy medium hard]", difficulty["enum"])
	}

	tags := props["tags"].(map[string]any)
	if tags["type"] != "array" {
		t.Errorf("got tags type %v, want array", tags["type"])
	}
	if items := tags["items"].(map[string]any); items["type"] != "string" {
		t.Errorf("got items type %v, want string", items["type"])
	}

	question := props["question"].(map[string]any)
	if question["description"] != "Front of the card" {
		t.Errorf("got description %v", question["description"])
	}

	if props["score"].(map[string]any)["type"] != "integer" {
		t.Errorf("score should translate to integer")
	}
	if props["weight"].(map[string]any)["type"] != "number" {
		t.Errorf("weight should translate to number")
	}
	if props["reviewed"].(map[string]any)["type"] != "boolean" {
		t.Errorf("reviewed should translate to boolean")
	}
}

func TestToWire_Deterministic(t *testing.T) {
	a, err := schema.ToWire(flashcardSchema())
	if err != nil {
		t.Fatalf("ToWire failed: %v", err)
	}
	b, err := schema.ToWire(flashcardSchema())
	if err != nil {
		t.Fatalf("ToWire failed: %v", err)
	}

	ab, _ := a.Marshal()
	bb, _ := b.Marshal()
	if string(ab) != string(bb) {
		t.Errorf("translation is not deterministic:\n%s\n%s", ab, bb)
	}
}

func TestToWire_Errors(t *testing.T) {
	tests := []struct {
		name   string
		schema *schema.Schema
	}{
		{"nil root", &schema.Schema{Name: "x"}},
		{"empty name", schema.New("", schema.Object())},
		{"non-object root", schema.New("x", schema.String())},
		{"optional field in strict schema", schema.New("x", schema.Object(
			schema.Optional("note", schema.String()),
		))},
		{"empty enum", schema.New("x", schema.Object(schema.Field("e", schema.Enum())))},
		{"array without items", schema.New("x", schema.Object(schema.Field("a", &schema.Type{Kind: schema.KindArray})))},
		{"duplicate field", schema.New("x", schema.Object(
			schema.Field("a", schema.String()),
			schema.Field("a", schema.Integer()),
		))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.ToWire(tt.schema)
			if !errors.Is(err, schema.ErrEncoding) {
				t.Errorf("ToWire() error = %v, want %v", err, schema.ErrEncoding)
			}
		})
	}
}

func TestFromWire_RoundTrip(t *testing.T) {
	original := flashcardSchema().WithDescription("A study card")

	format, err := schema.ToWire(original)
	if err != nil {
		t.Fatalf("ToWire failed: %v", err)
	}

	data, err := format.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded schema.ResponseFormat
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	restored, err := schema.FromWire(decoded)
	if err != nil {
		t.Fatalf("FromWire failed: %v", err)
	}

	if !restored.Equal(original) {
		t.Errorf("round trip changed the schema")
	}
}

func TestToDefinition_OptionalFields(t *testing.T) {
	params := schema.Object(
		schema.Field("path", schema.String()),
		schema.Optional("limit", schema.Integer()),
	)

	def, err := schema.ToDefinition(params)
	if err != nil {
		t.Fatalf("ToDefinition failed: %v", err)
	}

	if len(def.Required) != 1 || def.Required[0] != "path" {
		t.Errorf("got required %v, want [path]", def.Required)
	}
	if _, ok := def.Properties["limit"]; !ok {
		t.Error("optional field missing from properties")
	}

	restored, err := schema.FromDefinition(def)
	if err != nil {
		t.Fatalf("FromDefinition failed: %v", err)
	}
	if !restored.Equal(params) {
		t.Error("definition round trip changed the type")
	}
}

func TestFromWire_Errors(t *testing.T) {
	if _, err := schema.FromWire(schema.ResponseFormat{Type: "text"}); !errors.Is(err, schema.ErrEncoding) {
		t.Errorf("unsupported format type: got %v, want %v", err, schema.ErrEncoding)
	}
	if _, err := schema.FromWire(schema.ResponseFormat{Type: schema.FormatJSONSchema, Name: "x"}); !errors.Is(err, schema.ErrEncoding) {
		t.Errorf("missing schema: got %v, want %v", err, schema.ErrEncoding)
	}
}

func TestType_Equal(t *testing.T) {
	a := schema.Object(schema.Field("x", schema.Integer()))
	b := schema.Object(schema.Field("x", schema.Integer()))
	c := schema.Object(schema.Field("x", schema.Number()))

	if !a.Equal(b) {
		t.Error("identical types should be equal")
	}
	if a.Equal(c) {
		t.Error("types with different field kinds should not be equal")
	}
}
