// Package generate provides the language-model backends that turn prompts
// into code.
package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/HartBrook/figstyle/internal/errors"
	"github.com/HartBrook/figstyle/internal/prompt"
)

// Provider names.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Providers lists the supported provider names.
var Providers = []string{ProviderAnthropic, ProviderGemini}

// Generator produces text or structured objects from a request. Calls block
// until the provider responds or ctx is done.
type Generator interface {
	Name() string
	GenerateText(ctx context.Context, req prompt.Request) (string, error)
	GenerateStructured(ctx context.Context, req prompt.Request) (map[string]any, error)
}

// New returns the generator for provider, using model or the provider's
// default when model is empty.
func New(ctx context.Context, provider, model string) (Generator, error) {
	switch strings.ToLower(provider) {
	case "", ProviderAnthropic:
		var opts []AnthropicOption
		if model != "" {
			opts = append(opts, WithModel(model))
		}
		a, err := NewAnthropic(opts...)
		if err != nil {
			return nil, err
		}
		return a, nil
	case ProviderGemini:
		var opts []GeminiOption
		if model != "" {
			opts = append(opts, WithGeminiModel(model))
		}
		g, err := NewGemini(ctx, opts...)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, errors.ConfigInvalid(fmt.Sprintf("unknown provider %q (supported: %s)",
			provider, strings.Join(Providers, ", ")))
	}
}

var fence = regexp.MustCompile("(?s)^```[A-Za-z0-9_+-]*[ \t]*\r?\n(.*?)\r?\n?```$")

// StripFences removes one markdown code fence wrapping the whole of text.
// Text without a surrounding fence is returned trimmed.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	if m := fence.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return text
}

// decodeObject parses model output as a JSON object.
func decodeObject(text string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(StripFences(text)), &obj); err != nil {
		return nil, fmt.Errorf("decode structured output: %w", err)
	}
	if obj == nil {
		return nil, fmt.Errorf("decode structured output: not a JSON object")
	}
	return obj, nil
}
