package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/HartBrook/figstyle/internal/pipeline"
	"github.com/spf13/cobra"
)

type promptOptions struct {
	format    string
	outputDir string
	maxTokens int
	refresh   bool
}

// NewPromptCmd creates the prompt command.
func NewPromptCmd() *cobra.Command {
	opts := &promptOptions{}

	cmd := &cobra.Command{
		Use:   "prompt <figma-url|styles.json>",
		Short: "Write generation prompts without calling a model",
		Long: `Builds the same prompts generate would send and writes them to files.

One file is written per chunk (prompt-1-of-3.txt, prompt-2-of-3.txt, ...), or a
single prompt.txt when the style set fits in one chunk. Paste them into any
model and combine the answers yourself.`,
		Example: `  figstyle prompt AbC123xyz456 -f scss
  figstyle prompt styles.json -f android -o prompts/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("max-tokens") {
				opts.maxTokens = -1
			}
			return runPrompt(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format (default from config)")
	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", "", "Directory for prompt files (default from config)")
	cmd.Flags().IntVar(&opts.maxTokens, "max-tokens", 0, "Per-chunk token budget (0 disables chunking)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "Re-fetch styles even if the cache is fresh")

	return cmd
}

func runPrompt(ctx context.Context, arg string, opts *promptOptions) error {
	paths := newPaths()
	cfg, err := loadConfig(paths)
	if err != nil {
		return err
	}

	f, err := resolveFormat(opts.format, cfg)
	if err != nil {
		return err
	}

	raw, _, err := loadStyles(ctx, cfg, paths, arg, opts.refresh)
	if err != nil {
		return err
	}

	maxTokens := cfg.Generate.MaxTokensPerChunk
	if opts.maxTokens >= 0 {
		maxTokens = opts.maxTokens
	}

	plan, err := pipeline.Prepare(raw, pipeline.Options{Format: f, MaxTokens: maxTokens})
	if err != nil {
		return err
	}

	dir := firstNonEmpty(opts.outputDir, cfg.Output.Dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for i, req := range plan.Requests {
		path := filepath.Join(dir, promptFilename(i+1, len(plan.Requests)))
		if err := os.WriteFile(path, []byte(req.Text()+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write prompt: %w", err)
		}
		printSuccess("Wrote %s %s", path, dim(fmt.Sprintf("(~%d tokens)", req.Tokens())))
	}

	if len(plan.Requests) > 1 {
		fmt.Println()
		fmt.Println(dim("Keep the answers in chunk order when combining them."))
	}
	return nil
}

// promptFilename names the prompt file for one chunk of total.
func promptFilename(index, total int) string {
	if total <= 1 {
		return "prompt.txt"
	}
	return fmt.Sprintf("prompt-%d-of-%d.txt", index, total)
}
