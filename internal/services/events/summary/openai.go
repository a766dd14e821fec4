package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/louisbranch/eventdesk/internal/services/events/domain/event"
)

// OpenAIConfig configures the chat-completions backed generator. All fields
// are required except HTTPClient, which defaults to http.DefaultClient.
type OpenAIConfig struct {
	APIKey     string
	URL        string
	Model      string
	HTTPClient *http.Client
}

// OpenAIGenerator asks a chat-completions endpoint for the summary text. It
// satisfies Generator so the streaming pipeline is unchanged when wired.
type OpenAIGenerator struct {
	cfg OpenAIConfig
}

// NewOpenAIGenerator validates the config and returns the generator.
func NewOpenAIGenerator(cfg OpenAIConfig) (*OpenAIGenerator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("url is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("model is required")
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	return &OpenAIGenerator{cfg: cfg}, nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, ev event.PublicEvent) (string, error) {
	prompt := fmt.Sprintf(
		"Write a short, enthusiastic one-paragraph summary for the event %q taking place in %s on %s.",
		ev.Title, ev.Location, ev.StartAt.UTC().Format("Monday, January 2, 2006 at 03:04 PM"),
	)
	requestBody, err := json.Marshal(map[string]any{
		"model": g.cfg.Model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal summary request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.URL, bytes.NewReader(requestBody))
	if err != nil {
		return "", fmt.Errorf("build summary request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// Credential material is sent only as an Authorization header and is
	// never echoed in errors.
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)

	res, err := g.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("summary request failed: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, err := io.ReadAll(io.LimitReader(res.Body, 4096))
		if err != nil {
			return "", fmt.Errorf("read summary error body: %w", err)
		}
		return "", fmt.Errorf("summary request status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode summary response: %w", err)
	}
	for _, choice := range payload.Choices {
		if text := strings.TrimSpace(choice.Message.Content); text != "" {
			return text, nil
		}
	}
	return "", fmt.Errorf("summary response missing content")
}
