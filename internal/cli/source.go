package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/HartBrook/figstyle/internal/cache"
	"github.com/HartBrook/figstyle/internal/config"
	"github.com/HartBrook/figstyle/internal/errors"
	"github.com/HartBrook/figstyle/internal/figma"
	"github.com/HartBrook/figstyle/internal/format"
	"github.com/HartBrook/figstyle/internal/styles"
)

// newFigmaClient is replaced in tests.
var newFigmaClient = func(token string) *figma.Client {
	return figma.NewClient(token)
}

// loadConfig reads the config file, falling back to defaults.
func loadConfig(paths *config.Paths) (*config.Config, error) {
	return config.LoadOrDefault(paths.ConfigFile)
}

// isLocalExport reports whether arg names a saved style collection.
func isLocalExport(arg string) bool {
	return strings.HasSuffix(strings.ToLower(arg), ".json")
}

// readExport reads a RawStyleCollection saved as JSON.
func readExport(path string) (*styles.RawStyleCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read style export: %w", err)
	}

	var raw styles.RawStyleCollection
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse style export %s: %w", path, err)
	}
	return &raw, nil
}

// loadStyles resolves a command argument to a style collection. Local .json
// files are read directly; anything else is treated as a Figma file URL or
// key and served from the cache while it is fresh.
func loadStyles(ctx context.Context, cfg *config.Config, paths *config.Paths, arg string, refresh bool) (*styles.RawStyleCollection, string, error) {
	if isLocalExport(arg) {
		raw, err := readExport(arg)
		if err != nil {
			return nil, "", err
		}
		return raw, arg, nil
	}

	fileKey, err := figma.ExtractFileKey(arg)
	if err != nil {
		return nil, "", err
	}

	c := cache.New(paths)
	if !refresh {
		raw, meta, err := c.Read(fileKey)
		if err == nil && !meta.IsStale(cfg.Cache.TTLDuration()) {
			slog.Debug("using cached styles", "file", fileKey, "age", meta.Age())
			return raw, fmt.Sprintf("cache, fetched %s", meta.Age()), nil
		}
	}

	token := cfg.FigmaToken()
	if token == "" {
		return nil, "", errors.FigmaAuthFailed(fmt.Errorf("%s is not set", cfg.Figma.TokenEnv))
	}

	raw, err := newFigmaClient(token).FetchStyles(ctx, fileKey)
	if err != nil {
		return nil, "", err
	}

	meta := &cache.Metadata{
		FileKey:      fileKey,
		Name:         raw.Name,
		LastModified: raw.LastModified,
		StyleCount:   raw.Count(),
		LastFetched:  time.Now(),
	}
	if err := c.Write(fileKey, raw, meta); err != nil {
		slog.Debug("failed to cache styles", "file", fileKey, "error", err)
	}

	return raw, "Figma", nil
}

// resolveFormat parses the --format flag, falling back to the configured
// default.
func resolveFormat(flag string, cfg *config.Config) (format.Format, error) {
	name := flag
	if name == "" {
		name = cfg.Generate.Format
	}
	f, ok := format.Parse(name)
	if !ok {
		return "", errors.UnsupportedFormat(name, format.Names())
	}
	return f, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
