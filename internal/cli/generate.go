package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/HartBrook/figstyle/internal/config"
	"github.com/HartBrook/figstyle/internal/errors"
	"github.com/HartBrook/figstyle/internal/format"
	"github.com/HartBrook/figstyle/internal/generate"
	"github.com/HartBrook/figstyle/internal/pipeline"
	"github.com/HartBrook/figstyle/internal/publish"
	"github.com/spf13/cobra"
)

// newGenerator is replaced in tests.
var newGenerator = generate.New

type generateOptions struct {
	format    string
	output    string
	provider  string
	model     string
	maxTokens int
	refresh   bool
	force     bool
	noCache   bool
	retries   int
	gist      bool
	public    bool
}

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate <figma-url|styles.json>",
		Short: "Generate design-token code from a Figma file",
		Long: `Fetches the published styles of a Figma file and generates design-token code.

The styles are compressed into a compact token set. When the set is larger than
the per-chunk budget it is split into chunks, each chunk is generated
separately, and the parts are combined into one file.

Generated artifacts are cached by their inputs. Use --force to regenerate, or
--no-cache to skip the cache entirely.`,
		Example: `  figstyle generate https://www.figma.com/design/AbC123xyz456/Design-System
  figstyle generate AbC123xyz456 -f tailwind
  figstyle generate styles.json -f swiftui -o Sources/DesignTokens.swift
  figstyle generate AbC123xyz456 -f json --provider gemini
  figstyle generate AbC123xyz456 --max-tokens 20000 --retries 2
  figstyle generate AbC123xyz456 --gist`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("max-tokens") {
				opts.maxTokens = -1
			}
			return runGenerate(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (default per format)")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "Model provider: anthropic or gemini")
	cmd.Flags().StringVar(&opts.model, "model", "", "Model name (provider default when empty)")
	cmd.Flags().IntVar(&opts.maxTokens, "max-tokens", 0, "Per-chunk token budget (0 disables chunking)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "Re-fetch styles even if the cache is fresh")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Regenerate even if a cached artifact exists")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "Skip artifact cache read/write")
	cmd.Flags().IntVar(&opts.retries, "retries", 0, "Retry a failed generation this many times")
	cmd.Flags().BoolVar(&opts.gist, "gist", false, "Publish the result as a GitHub gist")
	cmd.Flags().BoolVar(&opts.public, "public", false, "Make the gist public (with --gist)")

	return cmd
}

func runGenerate(ctx context.Context, arg string, opts *generateOptions) error {
	paths := newPaths()
	cfg, err := loadConfig(paths)
	if err != nil {
		return err
	}

	f, err := resolveFormat(opts.format, cfg)
	if err != nil {
		return err
	}

	raw, source, err := loadStyles(ctx, cfg, paths, arg, opts.refresh)
	if err != nil {
		return err
	}
	printSuccess("Loaded %d styles from %s", raw.Count(), source)

	gen, err := newGenerator(ctx, firstNonEmpty(opts.provider, cfg.Generate.Provider), firstNonEmpty(opts.model, cfg.Generate.Model))
	if err != nil {
		return err
	}

	// Chunks that succeeded are not resent when a retry replays the run.
	memo, err := generate.NewMemo(gen, generate.DefaultMemoSize)
	if err != nil {
		return err
	}

	maxTokens := cfg.Generate.MaxTokensPerChunk
	if opts.maxTokens >= 0 {
		maxTokens = opts.maxTokens
	}

	pipeOpts := pipeline.Options{
		Format:     f,
		MaxTokens:  maxTokens,
		Structured: cfg.Generate.UseStructuredJSON(),
		Force:      opts.force,
		NoCache:    opts.noCache,
		OnChunk: func(index, total int) {
			if total > 1 {
				fmt.Printf("  Generating chunk %d of %d...\n", index, total)
			}
		},
	}

	p := pipeline.New(paths)
	var result *pipeline.Result
	for attempt := 0; ; attempt++ {
		result, err = p.Run(ctx, raw, memo, pipeOpts)
		if err == nil {
			break
		}
		if attempt >= opts.retries || ctx.Err() != nil || !errors.HasCode(err, errors.ErrGenerationFailed) {
			return err
		}
		printWarning("%v (retry %d of %d)", err, attempt+1, opts.retries)
	}

	outPath := outputPath(opts.output, cfg, f)
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outPath, []byte(result.Artifact), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	displayGenerateResult(result, f, outPath)

	if opts.gist {
		client, err := publish.NewClient()
		if err != nil {
			return err
		}
		gist, err := publish.Gist(ctx, client, filepath.Base(outPath), result.Artifact, opts.public)
		if err != nil {
			return err
		}
		printSuccess("Published gist %s", gist.URL)
	}

	return nil
}

// outputPath picks the output file: the flag, then the configured file, then
// the format's default name in the configured directory.
func outputPath(flag string, cfg *config.Config, f format.Format) string {
	if flag != "" {
		return flag
	}
	name := cfg.Output.File
	if name == "" {
		name = f.Filename()
	}
	return filepath.Join(cfg.Output.Dir, name)
}

func displayGenerateResult(result *pipeline.Result, f format.Format, outPath string) {
	printSuccess("Wrote %s to %s", f.DisplayName(), outPath)
	printInfo("Generator", result.Generator)
	printInfo("Tokens", fmt.Sprintf("%d → %d (%.0f%% reduction)",
		result.Stats.Before, result.Stats.After, result.Stats.PercentReduction()))
	if result.Chunks > 1 {
		printInfo("Chunks", fmt.Sprintf("%d", result.Chunks))
	}
	if result.Structured {
		printInfo("Mode", "structured")
	}
	if result.FromCache {
		fmt.Println(dim("  (from cache - use --force to regenerate)"))
	}
}
