package completion

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	applog "github.com/Rorical/RoriComplete/internal/log"
)

// DefaultBaseURL is the OpenAI API root; the client posts to BaseURL + "/completions".
const DefaultBaseURL = "https://api.openai.com/v1"

// Client talks to an OpenAI-compatible completions endpoint.
type Client struct {
	endpoint   string
	params     Params
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client. A zero timeout leaves requests bounded only by
// the caller's context.
func NewClient(baseURL string, params Params, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		endpoint:   strings.TrimRight(baseURL, "/") + "/completions",
		params:     params,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Encode serializes the request body for prompt.
func (c *Client) Encode(prompt string) ([]byte, error) {
	return c.params.EncodeRequest(prompt)
}

// Send posts an encoded body and decodes whatever comes back. The HTTP status
// is not consulted: error payloads are recognised by shape.
func (c *Client) Send(ctx context.Context, body []byte, token string) (Response, error) {
	c.logger.Debug("completion request", slog.String("endpoint", c.endpoint), slog.Int("bytes", len(body)))
	c.logger.Log(ctx, applog.LevelTrace, "completion request body", slog.String("body", string(body)))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Response{}, &Error{Kind: KindTransport, Err: err}
	}
	setHeaders(req, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("completion transport failed", slog.Any("error", err))
		return Response{}, &Error{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, &Error{Kind: KindTransport, Err: err}
	}
	c.logger.Debug("completion response", slog.Int("status", resp.StatusCode), slog.Int("bytes", len(data)))
	c.logger.Log(ctx, applog.LevelTrace, "completion response body", slog.String("body", string(data)))

	return ParseResponse(data)
}

// Complete encodes and sends prompt in one call.
func (c *Client) Complete(ctx context.Context, prompt, token string) (Response, error) {
	body, err := c.Encode(prompt)
	if err != nil {
		return Response{}, err
	}
	return c.Send(ctx, body, token)
}

func setHeaders(req *http.Request, token string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
}
