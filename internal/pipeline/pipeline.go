// Package pipeline runs the style-to-code pipeline: normalize, plan chunks,
// synthesize requests, generate and combine.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/HartBrook/figstyle/internal/chunk"
	"github.com/HartBrook/figstyle/internal/combine"
	"github.com/HartBrook/figstyle/internal/config"
	"github.com/HartBrook/figstyle/internal/errors"
	"github.com/HartBrook/figstyle/internal/format"
	"github.com/HartBrook/figstyle/internal/generate"
	"github.com/HartBrook/figstyle/internal/prompt"
	"github.com/HartBrook/figstyle/internal/styles"
	"github.com/HartBrook/figstyle/internal/tokens"
)

// Options controls a pipeline run.
type Options struct {
	Format     format.Format
	MaxTokens  int  // per-chunk budget; <= 0 disables chunking
	Structured bool // use schema-constrained output for unchunked json
	Force      bool // regenerate even if a cached artifact exists
	NoCache    bool // skip cache read/write

	// OnChunk is called before each generation call with the 1-based chunk
	// index and the chunk count.
	OnChunk func(index, total int)
}

// Plan is the deterministic part of a run: everything up to the requests.
type Plan struct {
	Set        *styles.CompressedStyleSet
	Chunks     []*styles.CompressedStyleSet
	Requests   []prompt.Request
	Stats      tokens.Stats
	Format     format.Format
	MaxTokens  int
	Structured bool
}

// Result contains the outcome of a run.
type Result struct {
	Artifact   string
	Chunks     int
	Stats      tokens.Stats
	Plan       *Plan
	Generator  string
	FromCache  bool
	Structured bool
}

// Prepare normalizes raw, plans chunks and synthesizes one request per
// chunk. It makes no network calls.
func Prepare(raw *styles.RawStyleCollection, opts Options) (*Plan, error) {
	if format.Lookup(opts.Format) == nil {
		return nil, errors.UnsupportedFormat(string(opts.Format), format.Names())
	}

	set := styles.Normalize(raw)

	chunks, err := chunk.Plan(set, opts.MaxTokens)
	if err != nil {
		return nil, err
	}

	after, err := chunk.Estimate(set)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Set:       set,
		Chunks:    chunks,
		Format:    opts.Format,
		MaxTokens: opts.MaxTokens,
		Stats: tokens.Stats{
			Before: tokens.FromRunes(set.Summary.OriginalFileSize),
			After:  after,
		},
	}

	if opts.Format == format.JSON && opts.Structured && len(chunks) == 1 {
		req, err := prompt.SynthesizeStructured(chunks[0])
		if err != nil {
			return nil, err
		}
		plan.Requests = []prompt.Request{req}
		plan.Structured = true
		return plan, nil
	}

	for i, c := range chunks {
		var ctx *prompt.ChunkContext
		if len(chunks) > 1 {
			ctx = &prompt.ChunkContext{Index: i + 1, Total: len(chunks)}
		}
		req, err := prompt.Synthesize(c, opts.Format, ctx)
		if err != nil {
			return nil, err
		}
		plan.Requests = append(plan.Requests, req)
	}
	return plan, nil
}

// Pipeline runs generation with an on-disk artifact cache.
type Pipeline struct {
	cache *ArtifactCache
}

// New creates a pipeline that caches artifacts under paths.
func New(paths *config.Paths) *Pipeline {
	return &Pipeline{cache: NewArtifactCache(paths)}
}

// Run generates the artifact for raw. Chunks are generated one at a time in
// order; the first failure aborts the run and no partial artifact is
// returned.
func (p *Pipeline) Run(ctx context.Context, raw *styles.RawStyleCollection, gen generate.Generator, opts Options) (*Result, error) {
	plan, err := Prepare(raw, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Chunks:     len(plan.Chunks),
		Stats:      plan.Stats,
		Plan:       plan,
		Generator:  gen.Name(),
		Structured: plan.Structured,
	}

	key, err := artifactKey(plan, gen.Name())
	if err != nil {
		return nil, err
	}

	if !opts.Force && !opts.NoCache {
		cached, meta, err := p.cache.Read(key)
		if err == nil && cached != "" && meta != nil {
			result.Artifact = cached
			result.FromCache = true
			return result, nil
		}
	}

	if plan.Structured {
		result.Artifact, err = generateStructured(ctx, gen, plan, opts)
	} else {
		result.Artifact, err = generateText(ctx, gen, plan, opts)
	}
	if err != nil {
		return nil, err
	}

	if !opts.NoCache {
		var fileKey string
		if raw != nil {
			fileKey = raw.FileKey
		}
		meta := &ArtifactMeta{
			FileKey:     fileKey,
			Format:      string(plan.Format),
			Generator:   gen.Name(),
			Chunks:      len(plan.Chunks),
			Structured:  plan.Structured,
			GeneratedAt: time.Now(),
		}
		if err := p.cache.Write(key, result.Artifact, meta); err != nil {
			slog.Debug("failed to write artifact cache", "error", err)
		}
	}

	return result, nil
}

func generateText(ctx context.Context, gen generate.Generator, plan *Plan, opts Options) (string, error) {
	total := len(plan.Requests)
	results := make([]string, 0, total)

	for i, req := range plan.Requests {
		if opts.OnChunk != nil {
			opts.OnChunk(i+1, total)
		}
		slog.Debug("generating chunk", "generator", gen.Name(), "chunk", i+1, "total", total)

		text, err := gen.GenerateText(ctx, req)
		if err != nil {
			return "", errors.GenerationFailed(i+1, total, err)
		}
		results = append(results, generate.StripFences(text))
	}

	return combine.Combine(results, plan.Format)
}

func generateStructured(ctx context.Context, gen generate.Generator, plan *Plan, opts Options) (string, error) {
	if opts.OnChunk != nil {
		opts.OnChunk(1, 1)
	}

	obj, err := gen.GenerateStructured(ctx, plan.Requests[0])
	if err != nil {
		return "", errors.GenerationFailed(1, 1, err)
	}

	data, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode structured output: %w", err)
	}
	return string(data) + "\n", nil
}

// artifactKey identifies an artifact by everything that shapes it.
func artifactKey(plan *Plan, generator string) (string, error) {
	var requests []string
	for _, req := range plan.Requests {
		requests = append(requests, req.System, req.Instruction)
	}
	data, err := json.Marshal(struct {
		Generator  string   `json:"generator"`
		Format     string   `json:"format"`
		Structured bool     `json:"structured"`
		Requests   []string `json:"requests"`
	}{generator, string(plan.Format), plan.Structured, requests})
	if err != nil {
		return "", err
	}
	return HashContent(string(data)), nil
}
