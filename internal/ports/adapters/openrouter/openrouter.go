// Package openrouter adapts the OpenRouter chat-completions API into the
// Analyzer port. The adapter never surfaces transport or parsing failures to
// callers; it degrades to a fixed offline placeholder instead, so a dead or
// misbehaving AI service cannot break an edit session.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/Italoh18/silence-cut-ia/internal/types"
)

const requestTimeout = 90 * time.Second

// Settings is the adapter configuration, loaded from the environment.
type Settings struct {
	APIKey       string   `env:"OPENROUTER_API_KEY"`
	Model        string   `env:"OPENROUTER_MODEL, default=anthropic/claude-3.5-sonnet"`
	BaseURL      string   `env:"OPENROUTER_BASE_URL, default=https://openrouter.ai"`
	AllowedHosts []string `env:"OPENROUTER_ALLOWED_HOSTS"`
}

// LoadSettings reads Settings from environment variables.
func LoadSettings(ctx context.Context) (Settings, error) {
	var s Settings
	if err := envconfig.Process(ctx, &s); err != nil {
		return Settings{}, fmt.Errorf("openrouter settings: %w", err)
	}
	return s, nil
}

type Adapter struct {
	key     string
	model   string
	baseURL string
	client  *http.Client
}

func New(s Settings) *Adapter {
	return &Adapter{
		key:     s.APIKey,
		model:   s.Model,
		baseURL: normalizeBaseURL(s.BaseURL),
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// Analyze asks the model for title/summary/tags/score metadata about a
// recording. It always returns a usable Analysis: any failure collapses into
// Placeholder(filename).
func (a *Adapter) Analyze(ctx context.Context, filename, contextText string) types.Analysis {
	if a.key == "" {
		return Placeholder(filename)
	}
	res, err := a.request(ctx, filename, contextText)
	if err != nil {
		return Placeholder(filename)
	}
	return res
}

// Placeholder is the fixed fallback result for a failed analysis. Callers
// must treat it as valid, non-fatal output, not as an error to retry.
func Placeholder(filename string) types.Analysis {
	title := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if title == "" {
		title = "Untitled recording"
	}
	return types.Analysis{
		Title:      title,
		Summary:    "AI analysis unavailable.",
		Tags:       []string{"error", "offline"},
		ViralScore: 0,
	}
}

func (a *Adapter) request(ctx context.Context, filename, contextText string) (types.Analysis, error) {
	payload := map[string]any{
		"model":  a.model,
		"stream": false,
		"messages": []map[string]any{
			{"role": "user", "content": buildPrompt(filename, contextText)},
		},
		"response_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name": "clip_metadata",
				"schema": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title":       map[string]any{"type": "string"},
						"summary":     map[string]any{"type": "string"},
						"tags":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"viral_score": map[string]any{"type": "integer"},
					},
					"required": []string{"title", "summary", "tags", "viral_score"},
				},
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return types.Analysis{}, fmt.Errorf("marshal request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, "POST", a.baseURL+"/api/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return types.Analysis{}, err
	}
	req.Header.Set("Authorization", "Bearer "+a.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return types.Analysis{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return types.Analysis{}, fmt.Errorf("openrouter status %d", resp.StatusCode)
	}

	var raw struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return types.Analysis{}, err
	}
	if len(raw.Choices) == 0 {
		return types.Analysis{}, errors.New("openrouter: empty choices")
	}

	clean, err := extractJSONObject(raw.Choices[0].Message.Content)
	if err != nil {
		return types.Analysis{}, err
	}
	var out types.Analysis
	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		return types.Analysis{}, err
	}
	if strings.TrimSpace(out.Title) == "" {
		return types.Analysis{}, errors.New("openrouter: empty title")
	}
	if out.ViralScore < 0 {
		out.ViralScore = 0
	}
	if out.ViralScore > 100 {
		out.ViralScore = 100
	}
	return out, nil
}

func buildPrompt(filename, contextText string) string {
	return "You are analyzing a recorded track that has been edited to remove silence. " +
		"Return strictly valid JSON (no markdown, no code fences) matching the provided schema: " +
		"a short title, a one-paragraph summary, 3-6 lowercase tags, and a viral_score from 0 to 100." +
		"\n\nFilename: " + filename +
		"\n\nContext:\n" + contextText
}

// extractJSONObject tolerates models that wrap their JSON in code fences or
// prose: it strips fences and takes the first object found.
func extractJSONObject(s string) (string, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", errors.New("openrouter: empty content")
	}
	if strings.HasPrefix(t, "```") {
		if i := strings.Index(t, "\n"); i >= 0 {
			t = t[i+1:]
		}
		if j := strings.LastIndex(t, "```"); j >= 0 {
			t = t[:j]
		}
		t = strings.TrimSpace(t)
	}
	start := strings.Index(t, "{")
	end := strings.LastIndex(t, "}")
	if start >= 0 && end > start {
		return t[start : end+1], nil
	}
	return "", errors.New("openrouter: no JSON object in content")
}
