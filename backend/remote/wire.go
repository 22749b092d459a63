package remote

import (
	"bytes"
	"encoding/json"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/tailored-agentic-units/intelligence/core/schema"
)

// Item types of the Responses API input and output lists.
const (
	itemMessage            = "message"
	itemFunctionCall       = "function_call"
	itemFunctionCallOutput = "function_call_output"
)

// Content part types.
const (
	contentInputText  = "input_text"
	contentOutputText = "output_text"
	contentRefusal    = "refusal"
)

// Message roles.
const (
	roleDeveloper = "developer"
	roleUser      = "user"
	roleAssistant = "assistant"
)

const statusFailed = "failed"

type request struct {
	Model           string      `json:"model"`
	Input           []item      `json:"input"`
	Tools           []toolParam `json:"tools,omitempty"`
	Text            *textParam  `json:"text,omitempty"`
	Temperature     *float64    `json:"temperature,omitempty"`
	MaxOutputTokens *int        `json:"max_output_tokens,omitempty"`
}

type toolParam struct {
	Type        string          `json:"type"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
	Strict      bool            `json:"strict"`
}

type textParam struct {
	Format schema.ResponseFormat `json:"format"`
}

type contentPart struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	Refusal string `json:"refusal,omitempty"`
}

// item is one entry of the input or output list. Items decoded from a
// response keep their original bytes and are sent back verbatim, so item
// types this package does not model (reasoning, web search, ...) survive
// the round trip.
type item struct {
	Type      string        `json:"type"`
	ID        string        `json:"id,omitempty"`
	Status    string        `json:"status,omitempty"`
	Role      string        `json:"role,omitempty"`
	Content   []contentPart `json:"content,omitempty"`
	CallID    string        `json:"call_id,omitempty"`
	Name      string        `json:"name,omitempty"`
	Arguments string        `json:"arguments,omitempty"`
	Output    string        `json:"output,omitempty"`

	raw json.RawMessage
}

type itemFields item

func (i *item) UnmarshalJSON(data []byte) error {
	var f itemFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*i = item(f)
	i.raw = bytes.Clone(data)
	return nil
}

func (i item) MarshalJSON() ([]byte, error) {
	if len(i.raw) > 0 {
		return i.raw, nil
	}
	return json.Marshal(itemFields(i))
}

func (i item) text() string {
	var parts []string
	for _, c := range i.Content {
		if c.Type == contentOutputText && c.Text != "" {
			parts = append(parts, c.Text)
		}
	}
	return strings.Join(parts, "")
}

func messageItem(role, contentType string, texts []string) item {
	parts := make([]contentPart, 0, len(texts))
	for _, t := range texts {
		parts = append(parts, contentPart{Type: contentType, Text: t})
	}
	return item{Type: itemMessage, Role: role, Content: parts}
}

func functionCallItem(callID, name, arguments string) item {
	return item{Type: itemFunctionCall, CallID: callID, Name: name, Arguments: arguments}
}

func functionCallOutputItem(callID, output string) item {
	return item{Type: itemFunctionCallOutput, CallID: callID, Output: output}
}

type response struct {
	ID     string           `json:"id"`
	Object string           `json:"object"`
	Status string           `json:"status"`
	Error  *openai.APIError `json:"error"`
	Model  string           `json:"model"`
	Output []item           `json:"output"`
	Usage  *usage           `json:"usage"`
}

// usage is decoded for logging only.
type usage struct {
	InputTokens        int `json:"input_tokens"`
	InputTokensDetails struct {
		CachedTokens int `json:"cached_tokens"`
	} `json:"input_tokens_details"`
	OutputTokens        int `json:"output_tokens"`
	OutputTokensDetails struct {
		ReasoningTokens int `json:"reasoning_tokens"`
	} `json:"output_tokens_details"`
	TotalTokens int `json:"total_tokens"`
}

// functionCalls returns the function_call items in output order.
func (r *response) functionCalls() []item {
	var calls []item
	for _, it := range r.Output {
		if it.Type == itemFunctionCall {
			calls = append(calls, it)
		}
	}
	return calls
}

// text concatenates the output_text parts of every assistant message.
func (r *response) text() string {
	var parts []string
	for _, it := range r.Output {
		if it.Type != itemMessage {
			continue
		}
		if t := it.text(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

// refusal returns the first refusal message, if any.
func (r *response) refusal() string {
	for _, it := range r.Output {
		for _, c := range it.Content {
			if c.Type == contentRefusal && c.Refusal != "" {
				return c.Refusal
			}
		}
	}
	return ""
}
