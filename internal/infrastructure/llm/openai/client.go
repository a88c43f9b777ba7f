package openai

import (
	"context"
	"fmt"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/jakehanson/ssa-disability-app/internal/core/domain"
	"github.com/jakehanson/ssa-disability-app/internal/infrastructure/resilience"
)

const (
	DefaultChatModel = "gpt-4o"

	// DefaultEmbedModel is used for both ingestion and query embeddings.
	// The two paths must share one model: vectors from different models
	// live in different spaces and similarity search degrades silently.
	DefaultEmbedModel = "text-embedding-3-small"
)

// Client wraps the OpenAI API behind the Embedder and Completer ports,
// running each call through the circuit-breaker executor when one is set.
type Client struct {
	api        *goopenai.Client
	chatModel  string
	embedModel string
	exec       *resilience.Executor
}

func New(apiKey, chatModel, embedModel string, exec *resilience.Executor) *Client {
	return newClient(goopenai.DefaultConfig(apiKey), chatModel, embedModel, exec)
}

// NewWithBaseURL points the client at an alternate endpoint. Tests use it
// with an httptest server.
func NewWithBaseURL(apiKey, baseURL, chatModel, embedModel string, exec *resilience.Executor) *Client {
	cfg := goopenai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return newClient(cfg, chatModel, embedModel, exec)
}

func newClient(cfg goopenai.ClientConfig, chatModel, embedModel string, exec *resilience.Executor) *Client {
	if chatModel == "" {
		chatModel = DefaultChatModel
	}
	if embedModel == "" {
		embedModel = DefaultEmbedModel
	}
	return &Client{
		api:        goopenai.NewClientWithConfig(cfg),
		chatModel:  chatModel,
		embedModel: embedModel,
		exec:       exec,
	}
}

func (c *Client) Embedder() *Embedder   { return &Embedder{client: c} }
func (c *Client) Completer() *Completer { return &Completer{client: c} }

func (c *Client) execute(ctx context.Context, operation string, fn func(context.Context) error) error {
	if c.exec == nil {
		return fn(ctx)
	}
	return c.exec.Execute(ctx, operation, fn, recordAsBreakerFailure)
}

type Embedder struct {
	client *Client
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var resp goopenai.EmbeddingResponse
	err := e.client.execute(ctx, "embed", func(ctx context.Context) error {
		var callErr error
		resp, callErr = e.client.api.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
			Model: goopenai.EmbeddingModel(e.client.embedModel),
			Input: []string{text},
		})
		return callErr
	})
	if err != nil {
		return nil, wrapProviderError("embed", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, domain.WrapError(domain.ErrNoEmbedding, "embed", fmt.Errorf("provider returned no vector"))
	}
	return resp.Data[0].Embedding, nil
}

type Completer struct {
	client *Client
}

func (c *Completer) Complete(ctx context.Context, messages []domain.ChatMessage, opts domain.CompletionOptions) (string, error) {
	req := goopenai.ChatCompletionRequest{
		Model:       c.client.chatModel,
		Messages:    toAPIMessages(messages),
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}

	var resp goopenai.ChatCompletionResponse
	err := c.client.execute(ctx, "complete", func(ctx context.Context) error {
		var callErr error
		resp, callErr = c.client.api.CreateChatCompletion(ctx, req)
		return callErr
	})
	if err != nil {
		return "", wrapProviderError("complete", err)
	}
	if len(resp.Choices) == 0 {
		return "", domain.WrapError(domain.ErrUpstream, "complete", fmt.Errorf("no choices returned"))
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func toAPIMessages(messages []domain.ChatMessage) []goopenai.ChatCompletionMessage {
	out := make([]goopenai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, goopenai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	return out
}
