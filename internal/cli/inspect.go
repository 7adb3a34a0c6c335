package cli

import (
	"context"
	"fmt"

	"github.com/HartBrook/figstyle/internal/chunk"
	"github.com/HartBrook/figstyle/internal/pipeline"
	"github.com/HartBrook/figstyle/internal/styles"
	"github.com/spf13/cobra"
)

type inspectOptions struct {
	format    string
	maxTokens int
	refresh   bool
}

// NewInspectCmd creates the inspect command.
func NewInspectCmd() *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <figma-url|styles.json>",
		Short: "Show style counts, token estimates and the chunk plan",
		Long: `Fetches (or reads) a style collection and shows what generate would do with it,
without calling a model.

Shows the number of styles per category, the estimated token size of the raw
and compressed style sets, and how the set would be split into chunks.`,
		Example: `  figstyle inspect https://www.figma.com/file/AbC123xyz456/Design-System
  figstyle inspect styles.json --max-tokens 5000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("max-tokens") {
				opts.maxTokens = -1
			}
			return runInspect(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format (default from config)")
	cmd.Flags().IntVar(&opts.maxTokens, "max-tokens", 0, "Per-chunk token budget (0 disables chunking)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "Re-fetch styles even if the cache is fresh")

	return cmd
}

func runInspect(ctx context.Context, arg string, opts *inspectOptions) error {
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

	maxTokens := cfg.Generate.MaxTokensPerChunk
	if opts.maxTokens >= 0 {
		maxTokens = opts.maxTokens
	}

	plan, err := pipeline.Prepare(raw, pipeline.Options{Format: f, MaxTokens: maxTokens})
	if err != nil {
		return err
	}

	title := firstNonEmpty(raw.Name, raw.FileKey, arg)
	fmt.Printf("%s %s\n\n", info(title), dim("("+source+")"))

	fmt.Println("Styles:")
	printInfo("Fill", fmt.Sprintf("%d", len(raw.Styles.Fill)))
	printInfo("Text", fmt.Sprintf("%d", len(raw.Styles.Text)))
	printInfo("Effect", fmt.Sprintf("%d", len(raw.Styles.Effect)))
	printInfo("Grid", fmt.Sprintf("%d", len(raw.Styles.Grid)))
	fmt.Println()

	set := plan.Set
	fmt.Println("Tokens:")
	printInfo(styles.CategoryColors, fmt.Sprintf("%d", set.Summary.TotalColors))
	printInfo(styles.CategoryTypography, fmt.Sprintf("%d", set.Summary.TotalTypography))
	printInfo(styles.CategoryEffects, fmt.Sprintf("%d", set.Summary.TotalEffects))
	printInfo(styles.CategorySpacing, fmt.Sprintf("%d", set.Summary.TotalSpacing))
	if dropped := raw.Count() - set.Len(); dropped > 0 {
		printWarning("%d styles had no usable values and were dropped", dropped)
	}
	fmt.Println()

	fmt.Println("Size:")
	printInfo("Raw", fmt.Sprintf("~%d tokens", plan.Stats.Before))
	printInfo("Compressed", fmt.Sprintf("~%d tokens (%.0f%% reduction)", plan.Stats.After, plan.Stats.PercentReduction()))
	fmt.Println()

	budget := "unlimited"
	if maxTokens > 0 {
		budget = fmt.Sprintf("%d tokens", maxTokens)
	}
	fmt.Printf("Chunk plan for %s (budget %s):\n", f.DisplayName(), budget)
	for i, c := range plan.Chunks {
		estimate, err := chunk.Estimate(c)
		if err != nil {
			return err
		}
		line := fmt.Sprintf("~%d tokens, %d colors, %d typography, %d effects, %d spacing",
			estimate, len(c.Colors), len(c.Typography), len(c.Effects), len(c.Spacing))
		if maxTokens > 0 && estimate > maxTokens {
			line += " " + warning("(over budget)")
		}
		printInfo(fmt.Sprintf("Chunk %d", i+1), line)
	}

	return nil
}
