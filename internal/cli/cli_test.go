package cli

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/HartBrook/figstyle/internal/config"
	"github.com/HartBrook/figstyle/internal/errors"
	"github.com/HartBrook/figstyle/internal/figma"
	"github.com/HartBrook/figstyle/internal/generate"
	"github.com/HartBrook/figstyle/internal/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exportPath = "testdata/styles.json"

type fakeGenerator struct {
	calls     int
	failUntil int
}

func (g *fakeGenerator) Name() string { return "fake:model" }

func (g *fakeGenerator) GenerateText(_ context.Context, req prompt.Request) (string, error) {
	g.calls++
	if g.calls <= g.failUntil {
		return "", fmt.Errorf("overloaded")
	}
	return fmt.Sprintf("```\n/* %s part %d */\n:root { --x: 1; }\n```", req.Format, req.ChunkIndex), nil
}

func (g *fakeGenerator) GenerateStructured(_ context.Context, _ prompt.Request) (map[string]any, error) {
	g.calls++
	return map[string]any{"colors": map[string]any{}}, nil
}

// withTestEnv points paths at a temp dir and swaps in fake collaborators.
func withTestEnv(t *testing.T, gen generate.Generator) string {
	t.Helper()
	dir := t.TempDir()

	origPaths, origGen, origFigma := newPaths, newGenerator, newFigmaClient
	t.Cleanup(func() {
		newPaths, newGenerator, newFigmaClient = origPaths, origGen, origFigma
	})

	newPaths = func() *config.Paths {
		return config.NewPathsWithOverrides(filepath.Join(dir, "config"), filepath.Join(dir, "cache"))
	}
	newGenerator = func(_ context.Context, _, _ string) (generate.Generator, error) {
		return gen, nil
	}
	return dir
}

func TestNewRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	for _, name := range []string{"generate", "prompt", "inspect", "formats", "init", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
	assert.NotNil(t, cmd.PersistentFlags().Lookup("verbose"))
}

func TestNewGenerateCmd_Flags(t *testing.T) {
	cmd := NewGenerateCmd()

	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.NotEmpty(t, cmd.Example)

	flags := []string{
		"format",
		"output",
		"provider",
		"model",
		"max-tokens",
		"refresh",
		"force",
		"no-cache",
		"retries",
		"gist",
		"public",
	}
	for _, flag := range flags {
		f := cmd.Flags().Lookup(flag)
		require.NotNil(t, f, "flag %q should exist", flag)
	}

	shortFlags := map[string]string{
		"f": "format",
		"o": "output",
	}
	for short, long := range shortFlags {
		f := cmd.Flags().ShorthandLookup(short)
		require.NotNil(t, f, "short flag %q should exist", short)
		assert.Equal(t, long, f.Name)
	}
}

func TestRunGenerate_LocalExport(t *testing.T) {
	gen := &fakeGenerator{}
	dir := withTestEnv(t, gen)
	out := filepath.Join(dir, "out", "tokens.css")

	err := runGenerate(context.Background(), exportPath, &generateOptions{format: "css", output: out, maxTokens: -1})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "/* css part 0 */\n:root { --x: 1; }", string(data))
	assert.Equal(t, 1, gen.calls)
}

func TestRunGenerate_ChunkedAndCached(t *testing.T) {
	gen := &fakeGenerator{}
	dir := withTestEnv(t, gen)
	out := filepath.Join(dir, "tokens.scss")
	opts := &generateOptions{format: "scss", output: out, maxTokens: 60}

	require.NoError(t, runGenerate(context.Background(), exportPath, opts))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "/* Combined output from ")
	first := gen.calls
	assert.Greater(t, first, 1)

	require.NoError(t, runGenerate(context.Background(), exportPath, opts))
	assert.Equal(t, first, gen.calls)

	opts.force = true
	require.NoError(t, runGenerate(context.Background(), exportPath, opts))
	assert.Equal(t, 2*first, gen.calls)
}

func TestRunGenerate_Retries(t *testing.T) {
	gen := &fakeGenerator{failUntil: 1}
	dir := withTestEnv(t, gen)
	out := filepath.Join(dir, "tokens.css")

	err := runGenerate(context.Background(), exportPath, &generateOptions{format: "css", output: out, maxTokens: -1})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrGenerationFailed))

	gen.calls = 0
	err = runGenerate(context.Background(), exportPath, &generateOptions{format: "css", output: out, maxTokens: -1, retries: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, gen.calls)
}

func TestRunGenerate_UnsupportedFormat(t *testing.T) {
	withTestEnv(t, &fakeGenerator{})

	err := runGenerate(context.Background(), exportPath, &generateOptions{format: "cobol", maxTokens: -1})
	assert.True(t, errors.HasCode(err, errors.ErrUnsupportedFormat))
}

func TestRunGenerate_InvalidURL(t *testing.T) {
	withTestEnv(t, &fakeGenerator{})

	err := runGenerate(context.Background(), "https://example.com/nope", &generateOptions{maxTokens: -1})
	assert.True(t, errors.HasCode(err, errors.ErrInvalidFileURL))
}

func TestOutputPath(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, "custom.css", outputPath("custom.css", cfg, "css"))
	assert.Equal(t, "tailwind.config.js", outputPath("", cfg, "tailwind"))

	cfg.Output.Dir = "out"
	assert.Equal(t, filepath.Join("out", "DesignTokens.swift"), outputPath("", cfg, "swiftui"))

	cfg.Output.File = "theme.txt"
	assert.Equal(t, filepath.Join("out", "theme.txt"), outputPath("", cfg, "swiftui"))
}

func TestRunPrompt_Single(t *testing.T) {
	dir := withTestEnv(t, &fakeGenerator{})
	outDir := filepath.Join(dir, "prompts")

	require.NoError(t, runPrompt(context.Background(), exportPath, &promptOptions{format: "android", outputDir: outDir, maxTokens: -1}))

	data, err := os.ReadFile(filepath.Join(outDir, "prompt.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "DESIGN TOKENS:")
	assert.Contains(t, string(data), "Primary Blue")
}

func TestRunPrompt_Chunked(t *testing.T) {
	dir := withTestEnv(t, &fakeGenerator{})
	outDir := filepath.Join(dir, "prompts")

	require.NoError(t, runPrompt(context.Background(), exportPath, &promptOptions{format: "css", outputDir: outDir, maxTokens: 60}))

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Greater(t, len(entries), 1)

	n := len(entries)
	for i := 1; i <= n; i++ {
		_, err := os.Stat(filepath.Join(outDir, fmt.Sprintf("prompt-%d-of-%d.txt", i, n)))
		assert.NoError(t, err)
	}
}

func TestPromptFilename(t *testing.T) {
	assert.Equal(t, "prompt.txt", promptFilename(1, 1))
	assert.Equal(t, "prompt-2-of-3.txt", promptFilename(2, 3))
}

func TestRunInspect(t *testing.T) {
	withTestEnv(t, &fakeGenerator{})

	assert.NoError(t, runInspect(context.Background(), exportPath, &inspectOptions{maxTokens: 60}))
	assert.NoError(t, runInspect(context.Background(), exportPath, &inspectOptions{maxTokens: 0}))
}

func TestLoadStyles_FetchesAndCaches(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		switch r.URL.Path {
		case "/files/FILEKEY1234/styles":
			fmt.Fprint(w, `{"status":200,"meta":{"styles":[{"key":"a","node_id":"1:1","style_type":"FILL","name":"Primary"}]}}`)
		case "/files/FILEKEY1234/nodes":
			fmt.Fprint(w, `{"name":"Kit","nodes":{"1:1":{"document":{"fills":[{"type":"SOLID","color":{"r":1,"g":0,"b":0,"a":1}}]}}}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	withTestEnv(t, &fakeGenerator{})
	newFigmaClient = func(token string) *figma.Client {
		assert.Equal(t, "figma-test-token", token)
		return figma.NewClient(token, figma.WithBaseURL(server.URL))
	}
	t.Setenv("FIGMA_TOKEN", "figma-test-token")

	paths := newPaths()
	cfg := config.Default()
	url := "https://www.figma.com/design/FILEKEY1234/Kit"

	raw, source, err := loadStyles(context.Background(), cfg, paths, url, false)
	require.NoError(t, err)
	assert.Equal(t, "Figma", source)
	assert.Equal(t, "Kit", raw.Name)
	require.Len(t, raw.Styles.Fill, 1)
	assert.Equal(t, int32(2), requests.Load())

	raw, source, err = loadStyles(context.Background(), cfg, paths, url, false)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(source, "cache"))
	assert.Equal(t, "Kit", raw.Name)
	assert.Equal(t, int32(2), requests.Load())

	_, source, err = loadStyles(context.Background(), cfg, paths, url, true)
	require.NoError(t, err)
	assert.Equal(t, "Figma", source)
	assert.Equal(t, int32(4), requests.Load())
}

func TestLoadStyles_MissingToken(t *testing.T) {
	withTestEnv(t, &fakeGenerator{})
	t.Setenv("FIGMA_TOKEN", "")

	_, _, err := loadStyles(context.Background(), config.Default(), newPaths(), "FILEKEY1234", false)
	assert.True(t, errors.HasCode(err, errors.ErrFigmaAuthFailed))
}

func TestResolveFormat(t *testing.T) {
	cfg := config.Default()

	f, err := resolveFormat("", cfg)
	require.NoError(t, err)
	assert.Equal(t, "css", string(f))

	f, err = resolveFormat("TailwindCSS", cfg)
	require.NoError(t, err)
	assert.Equal(t, "tailwind", string(f))

	_, err = resolveFormat("xml", cfg)
	assert.True(t, errors.HasCode(err, errors.ErrUnsupportedFormat))
}

func TestRunInit(t *testing.T) {
	withTestEnv(t, &fakeGenerator{})
	paths := newPaths()

	require.NoError(t, runInit(bufio.NewReader(strings.NewReader("")), &initOptions{provider: "gemini", format: "swift", yes: true}))

	cfg, err := config.LoadFrom(paths.ConfigFile)
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Generate.Provider)
	assert.Equal(t, "swiftui", cfg.Generate.Format)

	// Existing config is kept when the user declines.
	require.NoError(t, runInit(bufio.NewReader(strings.NewReader("n\n")), &initOptions{provider: "anthropic"}))
	cfg, err = config.LoadFrom(paths.ConfigFile)
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Generate.Provider)
}

func TestRunInit_Prompts(t *testing.T) {
	withTestEnv(t, &fakeGenerator{})
	paths := newPaths()

	require.NoError(t, runInit(bufio.NewReader(strings.NewReader("gemini\ntailwind\n")), &initOptions{}))

	cfg, err := config.LoadFrom(paths.ConfigFile)
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Generate.Provider)
	assert.Equal(t, "tailwind", cfg.Generate.Format)
}

func TestRequiredEnv(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, []string{"FIGMA_TOKEN", "ANTHROPIC_API_KEY"}, requiredEnv(cfg))

	cfg.Generate.Provider = "gemini"
	assert.Equal(t, []string{"FIGMA_TOKEN", "GEMINI_API_KEY"}, requiredEnv(cfg))
}

func TestReadExport_MalformedValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styles.json")
	content := `{
  "fileKey": "ABC123",
  "name": "Design System",
  "styles": {
    "fill": [
      {"name": "Broken", "kind": "FILL", "values": "oops"},
      {"name": "Primary Blue", "kind": "FILL", "values": {"type": "SOLID", "hex": "#007AFF"}}
    ],
    "text": [{"name": "Body", "kind": "TEXT", "values": 12}],
    "effect": [],
    "grid": []
  }
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	raw, err := readExport(path)
	require.NoError(t, err)

	assert.Equal(t, "ABC123", raw.FileKey)
	assert.Equal(t, 3, raw.Count())
	assert.Empty(t, raw.Styles.Fill[0].Values)
	hex, ok := raw.Styles.Fill[1].Values.String("hex")
	assert.True(t, ok)
	assert.Equal(t, "#007AFF", hex)
}
