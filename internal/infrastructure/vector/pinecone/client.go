package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jakehanson/ssa-disability-app/internal/core/domain"
)

const defaultTimeout = 30 * time.Second

// Client talks to a Pinecone serverless index over its REST data plane.
// The host is index-specific, so it doubles as the index identity.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(indexHost, apiKey string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	host := strings.TrimRight(indexHost, "/")
	if host != "" && !strings.Contains(host, "://") {
		host = "https://" + host
	}
	return &Client{
		baseURL:    host,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}
}

type vectorPayload struct {
	ID       string                `json:"id"`
	Values   []float32             `json:"values"`
	Metadata domain.RecordMetadata `json:"metadata"`
}

type upsertRequest struct {
	Vectors []vectorPayload `json:"vectors"`
}

type deleteRequest struct {
	DeleteAll bool `json:"deleteAll"`
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type queryResponse struct {
	Matches []struct {
		ID       string                `json:"id"`
		Score    float64               `json:"score"`
		Metadata domain.RecordMetadata `json:"metadata"`
	} `json:"matches"`
}

// Clear drops every vector in the index. A 404 from the delete endpoint
// means the namespace is already empty and is treated as success.
func (c *Client) Clear(ctx context.Context) error {
	status, _, err := c.post(ctx, "/vectors/delete", deleteRequest{DeleteAll: true})
	if err != nil {
		return domain.WrapError(domain.ErrIndexWrite, "clear index", err)
	}
	if status == http.StatusNotFound {
		c.logger.Debug("index already empty")
		return nil
	}
	if status >= http.StatusMultipleChoices {
		return domain.WrapError(domain.ErrIndexWrite, "clear index", fmt.Errorf("unexpected status %d", status))
	}
	return nil
}

func (c *Client) Upsert(ctx context.Context, records []domain.ChunkRecord) error {
	if len(records) == 0 {
		return nil
	}

	payload := upsertRequest{Vectors: make([]vectorPayload, 0, len(records))}
	for _, rec := range records {
		payload.Vectors = append(payload.Vectors, vectorPayload{
			ID:       rec.ID,
			Values:   rec.Vector,
			Metadata: rec.Metadata,
		})
	}

	status, body, err := c.post(ctx, "/vectors/upsert", payload)
	if err != nil {
		return domain.WrapError(domain.ErrIndexWrite, "upsert vectors", err)
	}
	if status >= http.StatusMultipleChoices {
		return domain.WrapError(domain.ErrIndexWrite, "upsert vectors",
			fmt.Errorf("status %d: %s", status, truncate(body, 200)))
	}
	return nil
}

func (c *Client) Query(ctx context.Context, vector []float32, topK int) ([]domain.EvidenceMatch, error) {
	status, body, err := c.post(ctx, "/query", queryRequest{
		Vector:          vector,
		TopK:            topK,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, domain.WrapError(domain.ErrUpstream, "query index", err)
	}
	if status >= http.StatusMultipleChoices {
		return nil, domain.WrapError(domain.ErrUpstream, "query index",
			fmt.Errorf("status %d: %s", status, truncate(body, 200)))
	}

	var decoded queryResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, domain.WrapError(domain.ErrUpstream, "query index", fmt.Errorf("decode response: %w", err))
	}

	matches := make([]domain.EvidenceMatch, 0, len(decoded.Matches))
	for _, m := range decoded.Matches {
		matches = append(matches, domain.EvidenceMatch{
			Text:    m.Metadata.Text,
			Section: m.Metadata.Section,
			Source:  m.Metadata.Source,
			Score:   m.Score,
		})
	}
	return matches, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (int, []byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

func truncate(b []byte, max int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > max {
		return s[:max]
	}
	return s
}
