// Package cli implements the figstyle command-line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/HartBrook/figstyle/internal/config"
	"github.com/HartBrook/figstyle/internal/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "dev"

	// Output helpers.
	successIcon = color.New(color.FgGreen).Sprint("✓")
	warningIcon = color.New(color.FgYellow).Sprint("⚠")
	errorIcon   = color.New(color.FgRed).Sprint("✗")

	success = color.New(color.FgGreen).SprintFunc()
	warning = color.New(color.FgYellow).SprintFunc()
	info    = color.New(color.FgCyan).SprintFunc()
	dim     = color.New(color.Faint).SprintFunc()

	// newPaths is replaced in tests.
	newPaths = config.NewPaths
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "figstyle",
		Short: "Turn Figma styles into design-token code",
		Long: `Figstyle turns the published styles of a Figma file into design-token code.

It fetches the file's color, text, effect and grid styles, compresses them into
a compact token set, and asks a language model to write the tokens out as CSS,
SCSS, Tailwind, JavaScript, JSON, Android XML or SwiftUI. Large style sets are
split into chunks and the generated parts are combined into one file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configureLogging(verbose)
			return config.LoadEnv()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed progress")

	rootCmd.AddCommand(NewGenerateCmd())
	rootCmd.AddCommand(NewPromptCmd())
	rootCmd.AddCommand(NewInspectCmd())
	rootCmd.AddCommand(NewFormatsCmd())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "figstyle %s\n", Version)
		},
	}
}

// Execute runs the CLI.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", errorIcon, err.Error())

		// Print hint if available
		var fe *errors.FigstyleError
		if errors.As(err, &fe) && fe.Hint != "" {
			fmt.Fprintf(os.Stderr, "  %s\n", dim(fe.Hint))
		}
		return err
	}
	return nil
}

func configureLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// printSuccess prints a success message.
func printSuccess(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", successIcon, fmt.Sprintf(format, args...))
}

// printWarning prints a warning message.
func printWarning(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", warningIcon, fmt.Sprintf(format, args...))
}

// printInfo prints an info line.
func printInfo(label, value string) {
	fmt.Printf("  %s: %s\n", dim(label), value)
}
