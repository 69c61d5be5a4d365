package completion

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// ResponseKind tags which shape a response body had.
type ResponseKind int

const (
	Success ResponseKind = iota
	APIFailure
)

// Completion is the success shape of the completions endpoint.
type Completion struct {
	ID      string                    `json:"id"`
	Object  string                    `json:"object"`
	Created int64                     `json:"created"`
	Model   string                    `json:"model"`
	Choices []openai.CompletionChoice `json:"choices"`
	Usage   openai.Usage              `json:"usage"`
}

// Text returns the first choice's text.
func (c *Completion) Text() string {
	if c == nil || len(c.Choices) == 0 {
		return ""
	}
	return c.Choices[0].Text
}

// Response is a decoded body: either a Completion or an APIError, never both.
type Response struct {
	Kind       ResponseKind
	Completion *Completion
	APIError   *openai.APIError
}

// Err returns the remote rejection as a KindAPI error, or nil on success.
func (r Response) Err() error {
	if r.Kind != APIFailure || r.APIError == nil {
		return nil
	}
	return &Error{Kind: KindAPI, Err: r.APIError}
}

var (
	errUnknownShape   = errors.New("body has neither an error nor a choices field")
	errNoChoices      = errors.New("completion has no choices")
	errMissingType    = errors.New("error object has no type")
	errMissingMessage = errors.New("error object has no message")
)

// ParseResponse decodes body by structure. The error shape is tested first
// because its required field never appears in a success payload; a body that
// matches neither shape is a KindDecode error.
func ParseResponse(body []byte) (Response, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return Response{}, decodeError(err)
	}

	if raw, ok := fields["error"]; ok && string(raw) != "null" {
		return parseAPIError(raw)
	}

	if _, ok := fields["choices"]; ok {
		var c Completion
		if err := json.Unmarshal(body, &c); err != nil {
			return Response{}, decodeError(err)
		}
		if len(c.Choices) == 0 {
			return Response{}, decodeError(errNoChoices)
		}
		return Response{Kind: Success, Completion: &c}, nil
	}

	return Response{}, decodeError(errUnknownShape)
}

func parseAPIError(raw json.RawMessage) (Response, error) {
	var fields struct {
		Message json.RawMessage `json:"message"`
		Type    *string         `json:"type"`
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Response{}, decodeError(err)
	}
	if len(fields.Message) == 0 {
		return Response{}, decodeError(errMissingMessage)
	}
	if fields.Type == nil {
		return Response{}, decodeError(errMissingType)
	}

	var apiErr openai.APIError
	if err := json.Unmarshal(raw, &apiErr); err != nil {
		return Response{}, decodeError(err)
	}
	return Response{Kind: APIFailure, APIError: &apiErr}, nil
}

func decodeError(err error) error {
	return &Error{Kind: KindDecode, Err: fmt.Errorf("decode response: %w", err)}
}
