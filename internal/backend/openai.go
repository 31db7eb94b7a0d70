package backend

import (
	"context"
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/sync/singleflight"
)

// OpenAICompatible translates chunks through any OpenAI-compatible chat
// completion endpoint, such as `ollama serve` exposing /v1.
type OpenAICompatible struct {
	client  *openai.Client
	timeout time.Duration
	group   singleflight.Group
}

// NewOpenAICompatible creates an HTTP-backed translator. baseURL points at
// the /v1 root; apiKey may be empty for local endpoints.
func NewOpenAICompatible(baseURL, apiKey string, timeout time.Duration) *OpenAICompatible {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAICompatible{
		client:  openai.NewClientWithConfig(cfg),
		timeout: timeout,
	}
}

// Translate sends one chat completion request for the chunk.
func (c *OpenAICompatible) Translate(ctx context.Context, text, model string, opts Options) (string, error) {
	if model == "" {
		model = FallbackModel
	}
	prompt := BuildPrompt(text, opts)

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(reqCtx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", classifyAPIError(reqCtx, err)
	}
	if len(resp.Choices) == 0 {
		return "", &Error{Kind: KindExit, Message: "no choices in response"}
	}
	return resp.Choices[0].Message.Content, nil
}

// ListModels enumerates backend-known model identifiers via /v1/models,
// deduplicating concurrent calls and falling back to the hardcoded default.
func (c *OpenAICompatible) ListModels(ctx context.Context) ([]string, error) {
	v, err, _ := c.group.Do("models", func() (interface{}, error) {
		list, err := c.client.ListModels(ctx)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(list.Models))
		for _, m := range list.Models {
			ids = append(ids, m.ID)
		}
		return ids, nil
	})
	if err != nil {
		return []string{FallbackModel}, nil
	}
	ids := v.([]string)
	if len(ids) == 0 {
		return []string{FallbackModel}, nil
	}
	return ids, nil
}

func classifyAPIError(ctx context.Context, err error) *Error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Message: "translation timeout exceeded", Err: err}
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &Error{Kind: KindExit, Message: apiErr.Message, Err: err}
	}
	return &Error{Kind: KindTransport, Err: err}
}
