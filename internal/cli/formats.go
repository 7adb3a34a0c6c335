package cli

import (
	"fmt"

	"github.com/HartBrook/figstyle/internal/format"
	"github.com/spf13/cobra"
)

// NewFormatsCmd creates the formats command.
func NewFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "formats",
		Short:   "List supported output formats",
		Example: `  figstyle formats`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runFormats()
			return nil
		},
	}
}

func runFormats() {
	fmt.Println("Supported formats:")
	fmt.Println()
	for _, f := range format.Supported {
		fmt.Printf("  %-14s %-22s %s\n", info(string(f.Format)), f.DisplayName, dim(f.Filename))
	}
}
