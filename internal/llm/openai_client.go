// ABOUTME: OpenAI client for streaming chat completions
// ABOUTME: Configurable base URL and model, retries with backoff until the first delta arrives
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/harper/docright/internal/models"
	"github.com/harper/docright/internal/util"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatModel is the default model for chat completions
	DefaultChatModel = "gpt-4o-mini"
	// DefaultBaseURL is the OpenAI API endpoint
	DefaultBaseURL = "https://api.openai.com/v1"
)

// ErrEmptyResponse is returned when a stream finishes without content.
var ErrEmptyResponse = errors.New("model returned an empty response")

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey     string
	BaseURL    string
	ChatModel  string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:     apiKey,
		BaseURL:    DefaultBaseURL,
		ChatModel:  DefaultChatModel,
		Timeout:    60 * time.Second,
		MaxRetries: 3,
		RetryDelay: 2 * time.Second,
	}
}

// OpenAIClient wraps the OpenAI API client with retry logic
type OpenAIClient struct {
	client     *openai.Client
	chatModel  string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
}

// NewOpenAIClient creates a new OpenAI client with the given API key using default configuration
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	return NewOpenAIClientWithConfig(DefaultConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a new OpenAI client with custom configuration
func NewOpenAIClientWithConfig(config *ClientConfig) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	oc := openai.DefaultConfig(config.APIKey)
	if base := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/"); base != "" {
		oc.BaseURL = base
	}

	model := config.ChatModel
	if model == "" {
		model = DefaultChatModel
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &OpenAIClient{
		client:     openai.NewClientWithConfig(oc),
		chatModel:  model,
		timeout:    timeout,
		maxRetries: config.MaxRetries,
		retryDelay: config.RetryDelay,
	}, nil
}

// Model returns the chat model used for requests.
func (c *OpenAIClient) Model() string {
	return c.chatModel
}

// StreamChat sends messages and calls onDelta for every content fragment as
// it arrives. It returns the full response text. Failures before the first
// fragment are retried; once output has been delivered the error is returned
// as-is, since a retry would duplicate text already handed to onDelta.
func (c *OpenAIClient) StreamChat(ctx context.Context, messages []models.ChatMessage, onDelta func(string)) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:    c.chatModel,
		Messages: toOpenAIMessages(messages),
		Stream:   true,
	}

	var response strings.Builder
	err := util.Retry(ctx, c.maxRetries, c.retryDelay, func(attempt int) error {
		streamed, err := c.streamOnce(ctx, req, &response, onDelta)
		if err != nil && streamed {
			return util.Permanent(err)
		}
		return err
	})
	if err != nil {
		return response.String(), fmt.Errorf("streaming chat completion: %w", err)
	}
	if strings.TrimSpace(response.String()) == "" {
		return "", ErrEmptyResponse
	}
	return response.String(), nil
}

// streamOnce runs a single streaming request. streamed reports whether any
// content reached onDelta.
func (c *OpenAIClient) streamOnce(ctx context.Context, req openai.ChatCompletionRequest, out *strings.Builder, onDelta func(string)) (streamed bool, err error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	stream, err := c.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return false, err
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return streamed, nil
		}
		if err != nil {
			return streamed, err
		}
		for _, choice := range resp.Choices {
			delta := choice.Delta.Content
			if delta == "" {
				continue
			}
			streamed = true
			out.WriteString(delta)
			if onDelta != nil {
				onDelta(delta)
			}
		}
	}
}

func toOpenAIMessages(messages []models.ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := m.Role
		if role == "" {
			role = openai.ChatMessageRoleUser
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}
