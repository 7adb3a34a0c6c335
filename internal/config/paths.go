package config

import (
	"os"
	"path/filepath"
)

// Paths provides all figstyle-related filesystem paths.
type Paths struct {
	ConfigDir  string // ~/.config/figstyle
	CacheDir   string // ~/.cache/figstyle
	ConfigFile string // ~/.config/figstyle/config.yaml
}

// NewPaths creates Paths using ~/.config and ~/.cache directories.
// We use these paths explicitly for cross-platform consistency rather than
// platform-specific defaults (like ~/Library/Application Support on macOS).
func NewPaths() *Paths {
	home := os.Getenv("HOME")
	return NewPathsWithOverrides(
		filepath.Join(home, ".config", "figstyle"),
		filepath.Join(home, ".cache", "figstyle"),
	)
}

// NewPathsWithOverrides allows overriding directories for testing.
func NewPathsWithOverrides(configDir, cacheDir string) *Paths {
	return &Paths{
		ConfigDir:  configDir,
		CacheDir:   cacheDir,
		ConfigFile: filepath.Join(configDir, "config.yaml"),
	}
}

// StylesDir returns the directory of cached raw style collections.
func (p *Paths) StylesDir() string {
	return filepath.Join(p.CacheDir, "styles")
}

// StylesFile returns the path for a cached raw style collection.
func (p *Paths) StylesFile(fileKey string) string {
	return filepath.Join(p.StylesDir(), fileKey+".json")
}

// StylesMetaFile returns the path for the cache metadata sidecar of a raw
// style collection.
func (p *Paths) StylesMetaFile(fileKey string) string {
	return filepath.Join(p.StylesDir(), fileKey+".meta.json")
}

// ArtifactsDir returns the directory of cached generated artifacts.
func (p *Paths) ArtifactsDir() string {
	return filepath.Join(p.CacheDir, "artifacts")
}

// ArtifactFile returns the path for a cached generated artifact.
func (p *Paths) ArtifactFile(key string) string {
	return filepath.Join(p.ArtifactsDir(), key+".out")
}

// ArtifactMetaFile returns the path for the metadata of a cached artifact.
func (p *Paths) ArtifactMetaFile(key string) string {
	return filepath.Join(p.ArtifactsDir(), key+".meta.json")
}
