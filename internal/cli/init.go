package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/HartBrook/figstyle/internal/config"
	"github.com/HartBrook/figstyle/internal/format"
	"github.com/HartBrook/figstyle/internal/generate"
	"github.com/spf13/cobra"
)

type initOptions struct {
	provider string
	format   string
	yes      bool
}

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize figstyle configuration",
		Long: `Interactive setup for figstyle.

This command will:
1. Prompt for the model provider and default output format
2. Create the configuration file
3. Check that the required API keys are set`,
		Example: `  figstyle init
  figstyle init --provider gemini --format tailwind --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(bufio.NewReader(cmd.InOrStdin()), opts)
		},
	}

	cmd.Flags().StringVar(&opts.provider, "provider", "", "Model provider: anthropic or gemini")
	cmd.Flags().StringVar(&opts.format, "format", "", "Default output format")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Accept defaults without prompting")

	return cmd
}

func runInit(reader *bufio.Reader, opts *initOptions) error {
	paths := newPaths()

	// Check if already configured
	if _, err := os.Stat(paths.ConfigFile); err == nil {
		fmt.Println("Figstyle is already configured.")
		fmt.Printf("Config file: %s\n\n", paths.ConfigFile)

		if opts.yes || !promptYesNo(reader, "Do you want to reconfigure?") {
			return nil
		}
		fmt.Println()
	}

	cfg := config.Default()

	cfg.Generate.Provider = opts.provider
	if cfg.Generate.Provider == "" {
		cfg.Generate.Provider = config.DefaultProvider
		if !opts.yes {
			cfg.Generate.Provider = promptChoice(reader, "Model provider", generate.Providers, config.DefaultProvider)
		}
	}

	name := opts.format
	if name == "" {
		name = config.DefaultFormat
		if !opts.yes {
			name = promptChoice(reader, "Default output format", format.Names(), config.DefaultFormat)
		}
	}
	f, err := resolveFormat(name, cfg)
	if err != nil {
		return err
	}
	cfg.Generate.Format = string(f)

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.SaveTo(cfg, paths.ConfigFile); err != nil {
		return err
	}

	printSuccess("Wrote config to %s", paths.ConfigFile)
	fmt.Println()

	for _, env := range requiredEnv(cfg) {
		if os.Getenv(env) == "" {
			printWarning("%s is not set", env)
			fmt.Println("  " + info(fmt.Sprintf("export %s=<your-key>", env)))
		}
	}

	fmt.Println()
	fmt.Println(dim("Run 'figstyle generate <figma-url>' to generate tokens."))
	return nil
}

// requiredEnv lists the environment variables cfg needs at generate time.
func requiredEnv(cfg *config.Config) []string {
	env := []string{cfg.Figma.TokenEnv}
	switch cfg.Generate.Provider {
	case "gemini":
		env = append(env, "GEMINI_API_KEY")
	default:
		env = append(env, "ANTHROPIC_API_KEY")
	}
	return env
}

// promptString prompts for a string input.
func promptString(reader *bufio.Reader, prompt string) string {
	fmt.Printf("%s ", prompt)
	input, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return ""
	}
	return strings.TrimSpace(input)
}

// promptChoice prompts for one of choices, returning def on empty or
// unknown input.
func promptChoice(reader *bufio.Reader, prompt string, choices []string, def string) string {
	input := strings.ToLower(promptString(reader, fmt.Sprintf("%s (%s) [%s]:", prompt, strings.Join(choices, ", "), def)))
	for _, c := range choices {
		if input == c {
			return c
		}
	}
	if input != "" {
		printWarning("Unknown choice %q, using %s", input, def)
	}
	return def
}

// promptYesNo prompts for a yes/no input.
func promptYesNo(reader *bufio.Reader, prompt string) bool {
	input := strings.ToLower(promptString(reader, prompt+" [y/N]"))
	return input == "y" || input == "yes"
}
