// internal/judge/openai.go
//
// OpenAI-backed judge client.
// Responsibilities:
//   - Build the judge system prompt and the per-turn user message.
//   - POST to the OpenAI responses endpoint with a JSON-object output format.
//   - Extract the model's text output (output_text or output[].content[]),
//     locate the JSON object inside it, and decode it.
//
// Notes:
//   - Credential material is sent only as an Authorization header and never
//     echoed in errors or log output.
//   - All failures come back as plain errors; the engine's retry loop decides
//     what is transient.

package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultResponsesURL = "https://api.openai.com/v1/responses"

// OpenAIConfig configures the OpenAI judge client.
type OpenAIConfig struct {
	APIKey       string
	Model        string
	ResponsesURL string
	HTTPClient   *http.Client
}

type openAIClient struct {
	cfg OpenAIConfig
}

// NewOpenAI builds an OpenAI judge client. APIKey and Model are required.
func NewOpenAI(cfg OpenAIConfig) (Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("judge: api key is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("judge: model is required")
	}
	if strings.TrimSpace(cfg.ResponsesURL) == "" {
		cfg.ResponsesURL = defaultResponsesURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 25 * time.Second}
	}
	return &openAIClient{cfg: cfg}, nil
}

// Judge sends one turn context to the model and returns the decoded JSON
// object from its reply.
func (c *openAIClient) Judge(ctx context.Context, tc TurnContext) (map[string]any, error) {
	userMsg, err := json.Marshal(tc)
	if err != nil {
		return nil, fmt.Errorf("judge: marshal turn context: %w", err)
	}

	requestBody, err := json.Marshal(map[string]any{
		"model": c.cfg.Model,
		"input": []map[string]any{
			{
				"role":    "system",
				"content": []map[string]any{{"type": "input_text", "text": systemPrompt}},
			},
			{
				"role":    "user",
				"content": []map[string]any{{"type": "input_text", "text": string(userMsg)}},
			},
		},
		"max_output_tokens": 1800,
		"reasoning":         map[string]any{"effort": "minimal"},
		"text":              map[string]any{"format": map[string]any{"type": "json_object"}},
	})
	if err != nil {
		return nil, fmt.Errorf("judge: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ResponsesURL, bytes.NewReader(requestBody))
	if err != nil {
		return nil, fmt.Errorf("judge: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	res, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("judge: request failed: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, fmt.Errorf("judge: status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Status     string `json:"status"`
		OutputText string `json:"output_text"`
		Output     []struct {
			Content []struct {
				Type    string          `json:"type"`
				Text    json.RawMessage `json:"text"`
				Refusal json.RawMessage `json:"refusal"`
			} `json:"content"`
		} `json:"output"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("judge: decode response: %w", err)
	}

	outputText := strings.TrimSpace(payload.OutputText)
	if outputText == "" {
		var parts []string
		for _, item := range payload.Output {
			for _, content := range item.Content {
				switch content.Type {
				case "output_text", "text":
					if s := textValue(content.Text); strings.TrimSpace(s) != "" {
						parts = append(parts, s)
					}
				case "refusal":
					if s := textValue(content.Refusal); strings.TrimSpace(s) != "" {
						parts = append(parts, s)
					}
				}
			}
		}
		outputText = strings.TrimSpace(strings.Join(parts, "\n"))
	}
	if outputText == "" {
		log.Error().
			Str("component", "judge").
			Str("event", "judge.response_missing_text").
			Str("status", payload.Status).
			Int("turn", tc.Turn).
			Msg("response had no text output")
		return nil, errors.New("judge: response had no text output")
	}

	obj, err := extractJSONObject(outputText)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// textValue accepts either a plain string or an object {"value": "..."}, the
// two shapes the responses API emits for text content.
func textValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var wrapped struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		return wrapped.Value
	}
	return ""
}

// extractJSONObject finds the outermost {...} span in text and decodes it.
func extractJSONObject(text string) (map[string]any, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, errors.New("judge: no JSON object found in model output")
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &obj); err != nil {
		return nil, fmt.Errorf("judge: invalid JSON from model: %w", err)
	}
	return obj, nil
}
