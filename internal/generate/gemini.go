package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/HartBrook/figstyle/internal/errors"
	"github.com/HartBrook/figstyle/internal/prompt"
	genai "google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-pro"

// Gemini generates code with the Gemini API.
type Gemini struct {
	cli   *genai.Client
	model string
}

type geminiConfig struct {
	model      string
	baseURL    string
	httpClient *http.Client
}

// GeminiOption configures a Gemini generator.
type GeminiOption func(*geminiConfig)

// WithGeminiModel sets the model to use.
func WithGeminiModel(model string) GeminiOption {
	return func(c *geminiConfig) {
		c.model = model
	}
}

// WithGeminiBaseURL sets the API base URL.
func WithGeminiBaseURL(url string) GeminiOption {
	return func(c *geminiConfig) {
		c.baseURL = url
	}
}

// WithGeminiHTTPClient sets a custom HTTP client.
func WithGeminiHTTPClient(client *http.Client) GeminiOption {
	return func(c *geminiConfig) {
		c.httpClient = client
	}
}

// NewGemini creates a Gemini generator.
// It reads the API key from the GEMINI_API_KEY environment variable.
func NewGemini(ctx context.Context, opts ...GeminiOption) (*Gemini, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.ProviderAuthFailed("Gemini", "GEMINI_API_KEY")
	}

	cfg := geminiConfig{model: defaultGeminiModel}
	for _, opt := range opts {
		opt(&cfg)
	}

	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.httpClient,
	}
	if cfg.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.baseURL}
	}

	cli, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, errors.ProviderFailed(ProviderGemini, "failed to create client", err)
	}
	return &Gemini{cli: cli, model: cfg.model}, nil
}

// Name returns the provider and model.
func (g *Gemini) Name() string {
	return ProviderGemini + ":" + g.model
}

// GenerateText sends the request and returns the response text.
func (g *Gemini) GenerateText(ctx context.Context, req prompt.Request) (string, error) {
	return g.generate(ctx, req, &genai.GenerateContentConfig{})
}

// GenerateStructured asks for a schema-constrained JSON response. The
// response schema lists each category as an array of named entries, since
// response schemas cannot express maps; the result is folded back into the
// name-keyed document shape.
func (g *Gemini) GenerateStructured(ctx context.Context, req prompt.Request) (map[string]any, error) {
	text, err := g.generate(ctx, req, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   tokenListSchema(),
	})
	if err != nil {
		return nil, err
	}

	obj, err := decodeObject(text)
	if err != nil {
		return nil, errors.ProviderFailed(ProviderGemini, "model returned invalid JSON", err)
	}
	return foldTokenLists(obj), nil
}

func (g *Gemini) generate(ctx context.Context, req prompt.Request, config *genai.GenerateContentConfig) (string, error) {
	if req.System != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Role: genai.RoleUser, Parts: []*genai.Part{{Text: req.Instruction}}}},
		config,
	)
	if err != nil {
		return "", errors.ProviderFailed(ProviderGemini, "API request failed", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.ProviderFailed(ProviderGemini, "response has no candidates", nil)
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonMaxTokens {
		return "", errors.ProviderFailed(ProviderGemini, "response truncated at the output token limit", nil)
	}
	return b.String(), nil
}

// tokenListSchema is the Gemini form of prompt.TokenSchema: each category
// is an array of {name, value, type, description}.
func tokenListSchema() *genai.Schema {
	entry := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":        {Type: genai.TypeString},
			"value":       {Type: genai.TypeString},
			"type":        {Type: genai.TypeString},
			"description": {Type: genai.TypeString},
		},
		Required:         []string{"name", "value", "type"},
		PropertyOrdering: []string{"name", "value", "type", "description"},
	}

	properties := make(map[string]*genai.Schema, len(prompt.TokenCategories))
	for _, category := range prompt.TokenCategories {
		properties[category] = &genai.Schema{Type: genai.TypeArray, Items: entry}
	}
	return &genai.Schema{
		Type:             genai.TypeObject,
		Properties:       properties,
		Required:         prompt.TokenCategories,
		PropertyOrdering: prompt.TokenCategories,
	}
}

// foldTokenLists converts category arrays of named entries into name-keyed
// maps. Categories that are already maps are kept as they are.
func foldTokenLists(obj map[string]any) map[string]any {
	out := make(map[string]any, len(obj))
	for key, value := range obj {
		list, ok := value.([]any)
		if !ok {
			out[key] = value
			continue
		}

		folded := make(map[string]any, len(list))
		for i, item := range list {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			name, _ := entry["name"].(string)
			if name == "" {
				name = fmt.Sprintf("%s-%d", key, i+1)
			}
			token := make(map[string]any, len(entry))
			for k, v := range entry {
				if k != "name" {
					token[k] = v
				}
			}
			folded[name] = token
		}
		out[key] = folded
	}
	return out
}

// compile-time interface checks
var (
	_ Generator = (*Anthropic)(nil)
	_ Generator = (*Gemini)(nil)
	_ Generator = (*Memo)(nil)
)

// encodeRequest returns a stable encoding of req for hashing.
func encodeRequest(name, kind string, req prompt.Request) ([]byte, error) {
	return json.Marshal(struct {
		Generator   string         `json:"generator"`
		Kind        string         `json:"kind"`
		System      string         `json:"system"`
		Instruction string         `json:"instruction"`
		Schema      map[string]any `json:"schema,omitempty"`
	}{name, kind, req.System, req.Instruction, req.Schema})
}
