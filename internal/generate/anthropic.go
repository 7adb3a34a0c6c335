package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/HartBrook/figstyle/internal/errors"
	"github.com/HartBrook/figstyle/internal/prompt"
)

const (
	defaultBaseURL   = "https://api.anthropic.com/v1"
	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 16384
	apiVersion       = "2023-06-01"
)

// Anthropic generates code with the Claude Messages API.
type Anthropic struct {
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
}

// AnthropicOption configures an Anthropic generator.
type AnthropicOption func(*Anthropic)

// WithModel sets the model to use.
func WithModel(model string) AnthropicOption {
	return func(a *Anthropic) {
		a.model = model
	}
}

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) AnthropicOption {
	return func(a *Anthropic) {
		a.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) AnthropicOption {
	return func(a *Anthropic) {
		a.httpClient = client
	}
}

// WithMaxTokens sets the response token limit.
func WithMaxTokens(n int) AnthropicOption {
	return func(a *Anthropic) {
		a.maxTokens = n
	}
}

// NewAnthropic creates a Claude generator.
// It reads the API key from the ANTHROPIC_API_KEY environment variable.
func NewAnthropic(opts ...AnthropicOption) (*Anthropic, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, errors.ProviderAuthFailed("Anthropic", "ANTHROPIC_API_KEY")
	}

	a := &Anthropic{
		apiKey:    apiKey,
		baseURL:   defaultBaseURL,
		model:     defaultModel,
		maxTokens: defaultMaxTokens,
		// Large token sets take minutes to generate.
		httpClient: &http.Client{
			Timeout: 10 * time.Minute,
		},
	}

	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// Name returns the provider and model.
func (a *Anthropic) Name() string {
	return ProviderAnthropic + ":" + a.model
}

// message represents a message in the Claude API.
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesRequest represents a request to the messages API.
type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

// contentBlock represents a content block in the response.
type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// messagesResponse represents a response from the messages API.
type messagesResponse struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Role       string         `json:"role"`
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// apiError represents an error from the Claude API.
type apiError struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateText sends the request and returns the response text.
func (a *Anthropic) GenerateText(ctx context.Context, req prompt.Request) (string, error) {
	return a.complete(ctx, req.System, req.Instruction)
}

// GenerateStructured asks for a JSON object satisfying req.Schema and
// decodes it.
func (a *Anthropic) GenerateStructured(ctx context.Context, req prompt.Request) (map[string]any, error) {
	schema, err := json.MarshalIndent(req.Schema, "", "  ")
	if err != nil {
		return nil, errors.ProviderFailed(ProviderAnthropic, "failed to encode schema", err)
	}

	instruction := fmt.Sprintf("%s\n\nRespond with a single JSON object that satisfies this JSON Schema. Output only the JSON.\n\n%s",
		req.Instruction, schema)

	text, err := a.complete(ctx, req.System, instruction)
	if err != nil {
		return nil, err
	}

	obj, err := decodeObject(text)
	if err != nil {
		return nil, errors.ProviderFailed(ProviderAnthropic, "model returned invalid JSON", err)
	}
	return obj, nil
}

func (a *Anthropic) complete(ctx context.Context, system, user string) (string, error) {
	req := messagesRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		System:    system,
		Messages: []message{
			{Role: "user", Content: user},
		},
	}

	resp, err := a.sendRequest(ctx, req)
	if err != nil {
		return "", err
	}

	var result string
	for _, block := range resp.Content {
		if block.Type == "text" {
			result += block.Text
		}
	}
	if resp.StopReason == "max_tokens" {
		return "", errors.ProviderFailed(ProviderAnthropic,
			fmt.Sprintf("response truncated at %d tokens", a.maxTokens), nil)
	}

	return result, nil
}

// sendRequest sends a request to the Claude API.
func (a *Anthropic) sendRequest(ctx context.Context, req messagesRequest) (*messagesResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.ProviderFailed(ProviderAnthropic, "failed to encode request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return nil, errors.ProviderFailed(ProviderAnthropic, "failed to create request", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", a.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.ProviderFailed(ProviderAnthropic, "API request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.ProviderFailed(ProviderAnthropic, "failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, errors.ProviderFailed(ProviderAnthropic,
				fmt.Sprintf("API error (%d): %s", resp.StatusCode, apiErr.Error.Message), nil)
		}
		return nil, errors.ProviderFailed(ProviderAnthropic,
			fmt.Sprintf("API returned status %d", resp.StatusCode), nil)
	}

	var result messagesResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, errors.ProviderFailed(ProviderAnthropic, "failed to decode response", err)
	}

	return &result, nil
}
