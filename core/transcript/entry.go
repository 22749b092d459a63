package transcript

import (
	"encoding/json"
	"slices"
)

// Kind discriminates the entry variants recorded in a transcript.
type Kind string

const (
	KindInstructions Kind = "instructions"
	KindPrompt       Kind = "prompt"
	KindToolCall     Kind = "tool_call"
	KindToolOutput   Kind = "tool_output"
	KindResponse     Kind = "response"
)

// IsValid reports whether k names a known entry kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindInstructions, KindPrompt, KindToolCall, KindToolOutput, KindResponse:
		return true
	}
	return false
}

// GenerationOptions control sampling for a single prompt. Nil fields defer
// to the backend default.
type GenerationOptions struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens *int     `json:"max_output_tokens,omitempty"`
}

// ResponseFormat records the structured output contract requested by a prompt.
type ResponseFormat struct {
	Name   string          `json:"name"`
	Schema json.RawMessage `json:"schema"`
}

// ToolDefinition is a snapshot of a tool declaration taken when the session
// was created. Parameters holds the wire JSON schema bytes, so later changes
// to the tool never reach entries already written.
type ToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// Entry is a single transcript record. Kind selects which fields are
// meaningful:
//
//	instructions: Segments, ToolDefinitions
//	prompt:       Segments, Options, ResponseFormat
//	tool_call:    CallID, Name, Arguments
//	tool_output:  CallID, Name, Output
//	response:     Segments
//
// Field declaration order fixes the serialized key order.
type Entry struct {
	Kind            Kind               `json:"kind"`
	Segments        []Segment          `json:"segments,omitempty"`
	ToolDefinitions []ToolDefinition   `json:"tool_definitions,omitempty"`
	Options         *GenerationOptions `json:"options,omitempty"`
	ResponseFormat  *ResponseFormat    `json:"response_format,omitempty"`
	CallID          string             `json:"call_id,omitempty"`
	Name            string             `json:"name,omitempty"`
	Arguments       string             `json:"arguments,omitempty"`
	Output          string             `json:"output,omitempty"`
}

// NewInstructions creates an instructions entry.
func NewInstructions(segments []Segment, defs []ToolDefinition) Entry {
	return Entry{
		Kind:            KindInstructions,
		Segments:        cloneSegments(segments),
		ToolDefinitions: cloneDefinitions(defs),
	}
}

// NewPrompt creates a prompt entry. format is nil for free-text requests.
func NewPrompt(segments []Segment, opts GenerationOptions, format *ResponseFormat) Entry {
	o := opts.clone()
	return Entry{
		Kind:           KindPrompt,
		Segments:       cloneSegments(segments),
		Options:        &o,
		ResponseFormat: format.clone(),
	}
}

// NewToolCall creates a tool call entry.
func NewToolCall(callID, name, arguments string) Entry {
	return Entry{Kind: KindToolCall, CallID: callID, Name: name, Arguments: arguments}
}

// NewToolOutput creates a tool output entry correlated to a call by callID.
func NewToolOutput(callID, name, output string) Entry {
	return Entry{Kind: KindToolOutput, CallID: callID, Name: name, Output: output}
}

// NewResponse creates a model response entry.
func NewResponse(segments []Segment) Entry {
	return Entry{Kind: KindResponse, Segments: cloneSegments(segments)}
}

// Text returns the joined text of the entry's segments.
func (e Entry) Text() string {
	return JoinText(e.Segments)
}

func (e Entry) clone() Entry {
	c := e
	c.Segments = cloneSegments(e.Segments)
	c.ToolDefinitions = cloneDefinitions(e.ToolDefinitions)
	if e.Options != nil {
		o := e.Options.clone()
		c.Options = &o
	}
	c.ResponseFormat = e.ResponseFormat.clone()
	return c
}

func (o GenerationOptions) clone() GenerationOptions {
	c := GenerationOptions{}
	if o.Temperature != nil {
		v := *o.Temperature
		c.Temperature = &v
	}
	if o.MaxOutputTokens != nil {
		v := *o.MaxOutputTokens
		c.MaxOutputTokens = &v
	}
	return c
}

func (f *ResponseFormat) clone() *ResponseFormat {
	if f == nil {
		return nil
	}
	return &ResponseFormat{Name: f.Name, Schema: slices.Clone(f.Schema)}
}

func cloneDefinitions(defs []ToolDefinition) []ToolDefinition {
	if len(defs) == 0 {
		return nil
	}
	out := make([]ToolDefinition, len(defs))
	for i, d := range defs {
		out[i] = d
		out[i].Parameters = slices.Clone(d.Parameters)
	}
	return out
}
