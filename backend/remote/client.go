package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/tailored-agentic-units/intelligence/backend"
)

const responsesPath = "/responses"

// client performs Responses API exchanges over HTTP.
type client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

func newClient(httpClient *http.Client, cfg *Config) *client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout()}
	}
	return &client{
		http:    httpClient,
		baseURL: sanitizeBaseURL(cfg.BaseURL),
		apiKey:  cfg.APIKey,
	}
}

func sanitizeBaseURL(base string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(base), "/")
	if trimmed == "" {
		return DefaultBaseURL
	}
	return trimmed
}

// create sends one request and decodes the response. Every failure is
// returned as a *backend.Error except context cancellation, which is
// returned unwrapped.
func (c *client) create(ctx context.Context, req *request) (*response, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(req); err != nil {
		return nil, fmt.Errorf("encode responses request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+responsesPath, &buf)
	if err != nil {
		return nil, &backend.Error{Message: "create request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr == context.Canceled {
			return nil, ctxErr
		}
		return nil, &backend.Error{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr == context.Canceled {
			return nil, ctxErr
		}
		return nil, &backend.Error{StatusCode: resp.StatusCode, Message: "read response body", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, readAPIError(resp.StatusCode, body)
	}

	var out response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &backend.Error{
			StatusCode: resp.StatusCode,
			Message:    "decode response body",
			Err:        err,
		}
	}

	if out.Error != nil || out.Status == statusFailed {
		e := fromAPIError(resp.StatusCode, out.Error)
		if e.Message == "" {
			e.Message = "response status " + out.Status
		}
		return nil, e
	}

	return &out, nil
}

// readAPIError decodes the {"error":{...}} envelope of a failed request.
// Bodies that do not carry one produce a generic message naming the status.
func readAPIError(status int, body []byte) *backend.Error {
	var envelope openai.ErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil && envelope.Error.Message != "" {
		return fromAPIError(status, envelope.Error)
	}
	return &backend.Error{
		StatusCode: status,
		Message:    fmt.Sprintf("request failed with status code %d", status),
	}
}

func fromAPIError(status int, apiErr *openai.APIError) *backend.Error {
	e := &backend.Error{StatusCode: status}
	if apiErr == nil {
		return e
	}
	e.Message = apiErr.Message
	e.Type = apiErr.Type
	if apiErr.Param != nil {
		e.Param = *apiErr.Param
	}
	switch code := apiErr.Code.(type) {
	case string:
		e.Code = code
	case int:
		if code != 0 {
			e.Code = strconv.Itoa(code)
		}
	}
	return e
}
