package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/novelty/internal/util"
)

// QdrantConfig configures the Qdrant REST client
type QdrantConfig struct {
	URL        string
	APIKey     string
	TitleField string // Payload key holding the title; "title" when empty
	Timeout    time.Duration
	Proxy      util.ProxyConfig
}

// QdrantSource lists point payload titles with the scroll endpoint
type QdrantSource struct {
	config     QdrantConfig
	httpClient *http.Client
}

// NewQdrantSource creates a Qdrant-backed source
func NewQdrantSource(config QdrantConfig) *QdrantSource {
	if config.URL == "" {
		config.URL = "http://localhost:6333"
	}
	if config.TitleField == "" {
		config.TitleField = "title"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &QdrantSource{
		config:     config,
		httpClient: util.NewHTTPClient(config.Timeout, config.Proxy),
	}
}

type scrollRequest struct {
	Limit       int      `json:"limit"`
	WithPayload []string `json:"with_payload"`
	WithVector  bool     `json:"with_vector"`
}

type scrollResponse struct {
	Result struct {
		Points []struct {
			Payload map[string]any `json:"payload"`
		} `json:"points"`
	} `json:"result"`
	Status any `json:"status"`
}

// ListTitles scrolls one page of at most limit points from collection
func (s *QdrantSource) ListTitles(ctx context.Context, collection string, limit int) ([]string, error) {
	if collection == "" {
		return nil, fmt.Errorf("qdrant collection is required")
	}

	body, err := json.Marshal(scrollRequest{
		Limit:       limit,
		WithPayload: []string{s.config.TitleField},
		WithVector:  false,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := strings.TrimRight(s.config.URL, "/") + "/collections/" + url.PathEscape(collection) + "/points/scroll"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.config.APIKey != "" {
		req.Header.Set("api-key", s.config.APIKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("qdrant request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("qdrant returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var result scrollResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	titles := make([]string, 0, len(result.Result.Points))
	for _, p := range result.Result.Points {
		if t, ok := p.Payload[s.config.TitleField].(string); ok && strings.TrimSpace(t) != "" {
			titles = append(titles, strings.TrimSpace(t))
		}
	}
	return truncate(titles, limit), nil
}
