// Package config handles figstyle configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/HartBrook/figstyle/internal/errors"
	"gopkg.in/yaml.v3"
)

// FigmaConfig contains design-file API settings.
type FigmaConfig struct {
	TokenEnv string `yaml:"token_env"` // environment variable holding the access token
}

// GenerateConfig contains code generation settings.
type GenerateConfig struct {
	Provider          string `yaml:"provider"`                 // anthropic | gemini
	Model             string `yaml:"model,omitempty"`          // provider default when empty
	Format            string `yaml:"format"`                   // default output format
	MaxTokensPerChunk int    `yaml:"max_tokens_per_chunk"`     // chunk budget in estimated tokens
	StructuredJSON    *bool  `yaml:"structured_json,omitempty"` // schema-constrained json output
}

// OutputConfig contains output file settings.
type OutputConfig struct {
	Dir  string `yaml:"dir"`
	File string `yaml:"file,omitempty"` // per-format default when empty
}

// CacheConfig contains cache settings.
type CacheConfig struct {
	TTL string `yaml:"ttl"` // e.g., "1h"
}

// Config represents the figstyle configuration file.
type Config struct {
	Version  int            `yaml:"version"`
	Figma    FigmaConfig    `yaml:"figma"`
	Generate GenerateConfig `yaml:"generate"`
	Output   OutputConfig   `yaml:"output"`
	Cache    CacheConfig    `yaml:"cache"`
}

// Default values.
const (
	DefaultVersion           = 1
	DefaultTokenEnv          = "FIGMA_TOKEN"
	DefaultProvider          = "anthropic"
	DefaultFormat            = "css"
	DefaultMaxTokensPerChunk = 100000
	DefaultOutputDir         = "."
	DefaultCacheTTL          = "1h"
)

// Providers and Formats are the accepted values for generate.provider and
// generate.format.
var (
	Providers = []string{"anthropic", "gemini"}
	Formats   = []string{"css", "scss", "css-variables", "tailwind", "javascript", "json", "android", "swiftui"}
)

// Default returns a config with every field set to its default.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and validates config from the default location.
func Load() (*Config, error) {
	paths := NewPaths()
	return LoadFrom(paths.ConfigFile)
}

// LoadOrDefault is LoadFrom, falling back to defaults when no config file exists.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := LoadFrom(path)
	if err != nil {
		if errors.HasCode(err, errors.ErrConfigNotFound) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// LoadFrom reads and validates config from a specific path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(errors.ErrConfigInvalid, "failed to read config", "", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrConfigInvalid, "failed to parse config YAML", "Check config syntax", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes config to the default location.
func Save(cfg *Config) error {
	paths := NewPaths()
	return SaveTo(cfg, paths.ConfigFile)
}

// SaveTo writes config to a specific path.
func SaveTo(cfg *Config, path string) error {
	cfg.applyDefaults()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(errors.ErrConfigInvalid, "failed to marshal config", "", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrConfigInvalid, "failed to create config directory", "", err)
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks config for required fields and valid values.
func (c *Config) Validate() error {
	if !contains(Providers, c.Generate.Provider) {
		return errors.ConfigInvalid(fmt.Sprintf("unknown generate.provider %q (supported: %v)", c.Generate.Provider, Providers))
	}
	if !contains(Formats, c.Generate.Format) {
		return errors.ConfigInvalid(fmt.Sprintf("unknown generate.format %q (supported: %v)", c.Generate.Format, Formats))
	}
	if c.Generate.MaxTokensPerChunk < 0 {
		return errors.ConfigInvalid("generate.max_tokens_per_chunk must not be negative")
	}

	if c.Cache.TTL != "" {
		if _, err := time.ParseDuration(c.Cache.TTL); err != nil {
			return errors.ConfigInvalid("invalid cache.ttl format, use Go duration format (e.g., 1h)")
		}
	}

	return nil
}

// applyDefaults sets default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = DefaultVersion
	}
	if c.Figma.TokenEnv == "" {
		c.Figma.TokenEnv = DefaultTokenEnv
	}
	if c.Generate.Provider == "" {
		c.Generate.Provider = DefaultProvider
	}
	if c.Generate.Format == "" {
		c.Generate.Format = DefaultFormat
	}
	if c.Generate.MaxTokensPerChunk == 0 {
		c.Generate.MaxTokensPerChunk = DefaultMaxTokensPerChunk
	}
	if c.Generate.StructuredJSON == nil {
		structured := true
		c.Generate.StructuredJSON = &structured
	}
	if c.Output.Dir == "" {
		c.Output.Dir = DefaultOutputDir
	}
	if c.Cache.TTL == "" {
		c.Cache.TTL = DefaultCacheTTL
	}
}

// UseStructuredJSON reports whether the json format uses schema-constrained
// generation.
func (g *GenerateConfig) UseStructuredJSON() bool {
	return g.StructuredJSON == nil || *g.StructuredJSON
}

// TTLDuration returns the cache TTL as a time.Duration.
func (c *CacheConfig) TTLDuration() time.Duration {
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		d, _ = time.ParseDuration(DefaultCacheTTL)
	}
	return d
}

// FigmaToken returns the design-file access token from the configured
// environment variable.
func (c *Config) FigmaToken() string {
	return os.Getenv(c.Figma.TokenEnv)
}

// Exists checks if a config file exists at the default location.
func Exists() bool {
	paths := NewPaths()
	_, err := os.Stat(paths.ConfigFile)
	return err == nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
