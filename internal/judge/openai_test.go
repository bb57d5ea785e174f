package judge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() TurnContext {
	return TurnContext{
		InputText:   "cat",
		Turn:        1,
		RangeG:      RangeG{Min: 1, Max: 10_000_000},
		ActiveRules: []string{},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewOpenAI(OpenAIConfig{
		APIKey:       "test-key",
		Model:        "gpt-5-mini",
		ResponsesURL: srv.URL,
		HTTPClient:   srv.Client(),
	})
	require.NoError(t, err)
	return c
}

func TestNewOpenAIRequiresKeyAndModel(t *testing.T) {
	_, err := NewOpenAI(OpenAIConfig{Model: "m"})
	assert.Error(t, err)
	_, err = NewOpenAI(OpenAIConfig{APIKey: "k"})
	assert.Error(t, err)
}

func TestJudgeParsesOutputText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-5-mini", req["model"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"output_text": `{"canonical_name":"cat","estimated_weight_g":4000}`,
		})
	})

	obj, err := c.Judge(context.Background(), testContext())
	require.NoError(t, err)
	assert.Equal(t, "cat", obj["canonical_name"])
	assert.Equal(t, float64(4000), obj["estimated_weight_g"])
}

func TestJudgeCollectsOutputContentParts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"output": []map[string]any{
				{"content": []map[string]any{
					{"type": "output_text", "text": map[string]any{"value": `{"cheating":false}`}},
				}},
			},
		})
	})

	obj, err := c.Judge(context.Background(), testContext())
	require.NoError(t, err)
	assert.Equal(t, false, obj["cheating"])
}

func TestJudgeSurfacesHTTPErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	})

	_, err := c.Judge(context.Background(), testContext())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestJudgeRejectsEmptyAndNonJSONOutput(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"output_text": "sorry, no"})
	})
	_, err := c.Judge(context.Background(), testContext())
	assert.Error(t, err)

	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"output_text": ""})
	})
	_, err = c.Judge(context.Background(), testContext())
	assert.Error(t, err)
}

func TestExtractJSONObjectFindsEmbeddedObject(t *testing.T) {
	obj, err := extractJSONObject("noise before {\"a\": 1} noise after")
	require.NoError(t, err)
	assert.Equal(t, float64(1), obj["a"])

	_, err = extractJSONObject("{broken")
	assert.Error(t, err)
}
