package portrait

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Generator produces an image URL for a portrait prompt. Failures must
// degrade to a textual warning in callers, never abort the pipeline.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NoopGenerator reports no image without error.
type NoopGenerator struct{}

// Generate returns an empty URL.
func (NoopGenerator) Generate(context.Context, string) (string, error) { return "", nil }

// HTTPGenerator calls an external image-generation endpoint. The token is
// injected through configuration, never embedded.
type HTTPGenerator struct {
	client *http.Client
	url    string
	token  string
}

// NewHTTPGenerator constructs an HTTPGenerator.
func NewHTTPGenerator(endpoint, token string, timeout time.Duration) *HTTPGenerator {
	return &HTTPGenerator{
		client: &http.Client{Timeout: timeout},
		url:    strings.TrimRight(endpoint, "/"),
		token:  token,
	}
}

// Generate posts the prompt and returns the generated image URL.
func (g *HTTPGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("portrait backend error: %s", data)
	}

	var payload struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	return payload.URL, nil
}
