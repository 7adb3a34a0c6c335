package generate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/HartBrook/figstyle/internal/format"
	"github.com/HartBrook/figstyle/internal/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func anthropicServer(t *testing.T, status int, body any, check func(*messagesRequest)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "test-api-key", r.Header.Get("x-api-key"))
		assert.Equal(t, apiVersion, r.Header.Get("anthropic-version"))

		var req messagesRequest
		if assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) && check != nil {
			check(&req)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(server.Close)
	return server
}

func textResponse(text string) messagesResponse {
	return messagesResponse{
		ID:         "msg_123",
		Type:       "message",
		Role:       "assistant",
		Content:    []contentBlock{{Type: "text", Text: text}},
		StopReason: "end_turn",
	}
}

func errorResponse(kind, msg string) apiError {
	var e apiError
	e.Type = "error"
	e.Error.Type = kind
	e.Error.Message = msg
	return e
}

func TestNewAnthropic_NoAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := NewAnthropic()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Anthropic API authentication failed")
}

func TestNewAnthropic_WithOptions(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-api-key")

	customClient := &http.Client{}
	a, err := NewAnthropic(
		WithModel("claude-opus-4-20250514"),
		WithBaseURL("https://custom.api.com"),
		WithHTTPClient(customClient),
		WithMaxTokens(1024),
	)

	require.NoError(t, err)
	assert.Equal(t, "test-api-key", a.apiKey)
	assert.Equal(t, "claude-opus-4-20250514", a.model)
	assert.Equal(t, "https://custom.api.com", a.baseURL)
	assert.Equal(t, customClient, a.httpClient)
	assert.Equal(t, 1024, a.maxTokens)
}

func TestAnthropic_GenerateText(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-api-key")

	server := anthropicServer(t, http.StatusOK, textResponse(":root { --color-primary: #007AFF; }"), func(req *messagesRequest) {
		assert.Equal(t, defaultModel, req.Model)
		assert.Equal(t, "system text", req.System)
		if assert.Len(t, req.Messages, 1) {
			assert.Equal(t, "user", req.Messages[0].Role)
			assert.Equal(t, "instruction text", req.Messages[0].Content)
		}
	})

	a, err := NewAnthropic(WithBaseURL(server.URL))
	require.NoError(t, err)

	text, err := a.GenerateText(context.Background(), prompt.Request{
		Format:      format.CSS,
		System:      "system text",
		Instruction: "instruction text",
	})

	require.NoError(t, err)
	assert.Equal(t, ":root { --color-primary: #007AFF; }", text)
}

func TestAnthropic_GenerateStructured(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-api-key")

	reply := "```json\n{\"colors\":{\"primary\":{\"value\":\"#007AFF\",\"type\":\"color\"}},\"typography\":{},\"spacing\":{},\"effects\":{}}\n```"
	server := anthropicServer(t, http.StatusOK, textResponse(reply), func(req *messagesRequest) {
		assert.Contains(t, req.Messages[0].Content, "JSON Schema")
		assert.Contains(t, req.Messages[0].Content, `"additionalProperties"`)
	})

	a, err := NewAnthropic(WithBaseURL(server.URL))
	require.NoError(t, err)

	obj, err := a.GenerateStructured(context.Background(), prompt.Request{
		Format:      format.JSON,
		Instruction: "convert",
		Schema:      prompt.TokenSchema(),
	})

	require.NoError(t, err)
	colors, ok := obj["colors"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, colors, "primary")
}

func TestAnthropic_GenerateStructured_InvalidJSON(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-api-key")

	server := anthropicServer(t, http.StatusOK, textResponse("Here are your tokens!"), nil)
	a, err := NewAnthropic(WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = a.GenerateStructured(context.Background(), prompt.Request{Schema: prompt.TokenSchema()})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestAnthropic_RateLimited(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-api-key")

	server := anthropicServer(t, http.StatusTooManyRequests, errorResponse("rate_limit_error", "Rate limit exceeded"), nil)
	a, err := NewAnthropic(WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = a.GenerateText(context.Background(), prompt.Request{Instruction: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error (429): Rate limit exceeded")
}

func TestAnthropic_StatusWithoutBody(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-api-key")

	server := anthropicServer(t, http.StatusBadGateway, map[string]string{}, nil)
	a, err := NewAnthropic(WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = a.GenerateText(context.Background(), prompt.Request{Instruction: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API returned status 502")
}

func TestAnthropic_Truncated(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-api-key")

	resp := textResponse(":root {")
	resp.StopReason = "max_tokens"
	server := anthropicServer(t, http.StatusOK, resp, nil)
	a, err := NewAnthropic(WithBaseURL(server.URL), WithMaxTokens(10))
	require.NoError(t, err)

	_, err = a.GenerateText(context.Background(), prompt.Request{Instruction: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated at 10 tokens")
}

func TestAnthropic_InvalidResponse(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-api-key")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not valid json"))
	}))
	defer server.Close()

	a, err := NewAnthropic(WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = a.GenerateText(context.Background(), prompt.Request{Instruction: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestAnthropic_NetworkError(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-api-key")

	a, err := NewAnthropic(WithBaseURL("http://localhost:1"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err = a.GenerateText(ctx, prompt.Request{Instruction: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API request failed")
}
