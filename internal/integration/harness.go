// Package integration provides end-to-end testing utilities for figstyle.
package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/HartBrook/figstyle/internal/config"
	"github.com/HartBrook/figstyle/internal/format"
	"github.com/HartBrook/figstyle/internal/pipeline"
	"github.com/HartBrook/figstyle/internal/prompt"
	"github.com/HartBrook/figstyle/internal/styles"
)

// TestEnv provides an isolated test environment with overridden paths.
type TestEnv struct {
	t         *testing.T
	RootDir   string        // t.TempDir() root
	ConfigDir string        // ~/.config/figstyle
	CacheDir  string        // ~/.cache/figstyle
	Paths     *config.Paths // Configured paths pointing to temp dirs
}

// NewTestEnv creates an isolated test environment.
// All paths are configured to use temporary directories.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	rootDir := t.TempDir()
	configDir := filepath.Join(rootDir, "home", ".config", "figstyle")
	cacheDir := filepath.Join(rootDir, "home", ".cache", "figstyle")

	for _, dir := range []string{configDir, cacheDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create directory %s: %v", dir, err)
		}
	}

	return &TestEnv{
		t:         t,
		RootDir:   rootDir,
		ConfigDir: configDir,
		CacheDir:  cacheDir,
		Paths:     config.NewPathsWithOverrides(configDir, cacheDir),
	}
}

// LoadStyles builds the style collection a fixture describes. Files are
// resolved relative to dir.
func (e *TestEnv) LoadStyles(dir string, setup FixtureSetup) (*styles.RawStyleCollection, error) {
	if setup.Styles != "" {
		data, err := os.ReadFile(filepath.Join(dir, setup.Styles))
		if err != nil {
			return nil, err
		}
		var raw styles.RawStyleCollection
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return &raw, nil
	}
	return setup.Generated.Build(), nil
}

// RunPipeline runs the pipeline for a fixture against a scripted generator.
func (e *TestEnv) RunPipeline(raw *styles.RawStyleCollection, gen *ScriptedGenerator, setup FixtureSetup) (*pipeline.Result, error) {
	f, ok := format.Parse(setup.Format)
	if !ok {
		return nil, fmt.Errorf("unknown format %q", setup.Format)
	}

	p := pipeline.New(e.Paths)
	return p.Run(context.Background(), raw, gen, pipeline.Options{
		Format:     f,
		MaxTokens:  setup.MaxTokens,
		Structured: setup.Structured,
		NoCache:    true,
	})
}

// ScriptedGenerator answers every request from fixed templates and records
// the requests it saw. Templates may use {index}, {total} and {format}.
type ScriptedGenerator struct {
	Text       string
	Structured string

	mu       sync.Mutex
	requests []prompt.Request
}

// NewScriptedGenerator creates a generator from a fixture's responses.
func NewScriptedGenerator(r ResponseSetup) *ScriptedGenerator {
	return &ScriptedGenerator{Text: r.Text, Structured: r.Structured}
}

// Name identifies the generator.
func (g *ScriptedGenerator) Name() string { return "scripted:fixture" }

// GenerateText renders the text template for req.
func (g *ScriptedGenerator) GenerateText(_ context.Context, req prompt.Request) (string, error) {
	g.record(req)
	return render(g.Text, req), nil
}

// GenerateStructured renders the structured template for req and decodes it.
func (g *ScriptedGenerator) GenerateStructured(_ context.Context, req prompt.Request) (map[string]any, error) {
	g.record(req)
	var obj map[string]any
	if err := json.Unmarshal([]byte(render(g.Structured, req)), &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// Requests returns the requests seen so far.
func (g *ScriptedGenerator) Requests() []prompt.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]prompt.Request(nil), g.requests...)
}

func (g *ScriptedGenerator) record(req prompt.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
}

func render(template string, req prompt.Request) string {
	return strings.NewReplacer(
		"{index}", fmt.Sprint(req.ChunkIndex),
		"{total}", fmt.Sprint(req.TotalChunks),
		"{format}", string(req.Format),
	).Replace(template)
}
