package generate

import (
	"context"
	"testing"

	"github.com/HartBrook/figstyle/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", ":root {}\n", ":root {}"},
		{"language fence", "```css\n:root {}\n```", ":root {}"},
		{"bare fence", "```\n{\"a\":1}\n```\n", "{\"a\":1}"},
		{"crlf", "```json\r\n{}\r\n```", "{}"},
		{"multi line", "```swift\nimport SwiftUI\n\nlet x = 1\n```", "import SwiftUI\n\nlet x = 1"},
		{"inner fence kept", "before\n```css\na\n```", "before\n```css\na\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), "openai", "")

	require.Error(t, err)
	var fe *errors.FigstyleError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, errors.ErrConfigInvalid, fe.Code)
	assert.Contains(t, err.Error(), "openai")
}

func TestNew_Anthropic(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-api-key")

	gen, err := New(context.Background(), "anthropic", "claude-opus-4-20250514")

	require.NoError(t, err)
	assert.Equal(t, "anthropic:claude-opus-4-20250514", gen.Name())
}

func TestNew_DefaultsToAnthropic(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-api-key")

	gen, err := New(context.Background(), "", "")

	require.NoError(t, err)
	assert.Equal(t, "anthropic:"+defaultModel, gen.Name())
}

func TestNew_GeminiNoAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := New(context.Background(), "gemini", "")

	require.Error(t, err)
	var fe *errors.FigstyleError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, errors.ErrProviderAuthFailed, fe.Code)
}

func TestDecodeObject(t *testing.T) {
	obj, err := decodeObject("```json\n{\"colors\":{}}\n```")
	require.NoError(t, err)
	assert.Contains(t, obj, "colors")

	_, err = decodeObject("null")
	assert.Error(t, err)

	_, err = decodeObject("[1]")
	assert.Error(t, err)
}
