// Package ai builds prompts and talks to OpenAI-compatible chat completion endpoints.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/tidwall/gjson"

	apperrors "github.com/evertjr/llm-commit/internal/pkg/errors"
	"github.com/evertjr/llm-commit/internal/pkg/security"
)

const (
	// MaxTokens caps the length of the generated message.
	MaxTokens = 150

	// Temperature is the sampling temperature sent with every request.
	Temperature = 0.7

	// DefaultTimeout is the default timeout for API calls.
	DefaultTimeout = 120 * time.Second

	// maxErrorBodySize bounds how much of an error response is read.
	maxErrorBodySize = 64 * 1024
)

// GenerateRequest is everything needed for one completion call.
type GenerateRequest struct {
	Prompt      string
	Model       string
	EndpointURL string
	Credential  string
}

// Completer sends a prompt and returns the raw completion text.
type Completer interface {
	Complete(ctx context.Context, req *GenerateRequest) (string, error)
}

// Client performs chat completion requests over HTTP. It never retries.
type Client struct {
	httpClient *http.Client
	logger     *apperrors.Logger
}

// NewClient creates a client whose requests time out after timeout.
// A non-positive timeout uses DefaultTimeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	}

	return NewClientWithHTTPClient(&http.Client{
		Timeout:   timeout,
		Transport: transport,
	})
}

// NewClientWithHTTPClient creates a client around an existing http.Client.
func NewClientWithHTTPClient(httpClient *http.Client) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     apperrors.Default(),
	}
}

// WithLogger returns a copy of c that logs to logger.
func (c *Client) WithLogger(logger *apperrors.Logger) *Client {
	cp := *c
	cp.logger = logger
	return &cp
}

// Timeout returns the request timeout.
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

// Complete sends req.Prompt as a single user message and returns
// choices[0].message.content unmodified.
func (c *Client) Complete(ctx context.Context, req *GenerateRequest) (string, error) {
	if req == nil {
		return "", apperrors.NewUnexpectedError(fmt.Errorf("request cannot be nil"))
	}

	chatReq := openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Prompt,
			},
		},
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	}

	body, err := json.Marshal(chatReq)
	if err != nil {
		return "", apperrors.NewUnexpectedError(fmt.Errorf("failed to marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.EndpointURL, bytes.NewReader(body))
	if err != nil {
		return "", apperrors.NewUnexpectedError(fmt.Errorf("failed to create request: %w", err))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	authenticated := security.HasCredential(req.Credential)
	if authenticated {
		httpReq.Header.Set("Authorization", "Bearer "+req.Credential)
	}

	c.logger.LogAPIRequest(req.EndpointURL, req.Model, len(req.Prompt), authenticated)
	startTime := time.Now()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Debug("API transport failure: %v", err)
		return "", apperrors.NewNetworkError(err, req.EndpointURL)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(httpResp.Body, maxErrorBodySize))
		c.logger.LogAPIResponse(httpResp.StatusCode, len(respBody), time.Since(startTime))
		return "", statusError(httpResp, respBody)
	}

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", apperrors.NewNetworkError(fmt.Errorf("failed to read response: %w", err), req.EndpointURL)
	}
	c.logger.LogAPIResponse(httpResp.StatusCode, len(respBody), time.Since(startTime))

	var chatResp openai.ChatCompletionResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		c.logger.Debug("API response is not a chat completion: %v", err)
		return "", apperrors.NewNoChoicesError()
	}

	if len(chatResp.Choices) == 0 {
		return "", apperrors.NewNoChoicesError()
	}

	return chatResp.Choices[0].Message.Content, nil
}

// statusError maps a non-success response onto the error taxonomy.
func statusError(resp *http.Response, body []byte) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return apperrors.NewAuthenticationError()
	case http.StatusNotFound:
		return apperrors.NewEndpointNotFoundError()
	case http.StatusTooManyRequests:
		return apperrors.NewRateLimitError(apperrors.ParseRetryAfterHeader(resp.Header.Get("Retry-After")))
	default:
		return apperrors.NewAPIError(resp.StatusCode, errorMessage(resp.StatusCode, body))
	}
}

// errorMessage extracts the most specific message an error body offers:
// error.message, then message for JSON bodies, the raw text otherwise,
// and the status phrase when the body yields nothing.
func errorMessage(status int, body []byte) string {
	var msg string
	if gjson.ValidBytes(body) {
		result := gjson.ParseBytes(body)
		if m := result.Get("error.message"); m.Type == gjson.String {
			msg = m.String()
		}
		if msg == "" {
			if m := result.Get("message"); m.Type == gjson.String {
				msg = m.String()
			}
		}
	} else {
		msg = string(body)
	}

	if msg == "" {
		msg = http.StatusText(status)
	}
	return msg
}
