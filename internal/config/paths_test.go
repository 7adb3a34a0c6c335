package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewPaths(t *testing.T) {
	home := os.Getenv("HOME")
	paths := NewPaths()

	if want := filepath.Join(home, ".config", "figstyle"); paths.ConfigDir != want {
		t.Errorf("ConfigDir = %q, want %q", paths.ConfigDir, want)
	}
	if want := filepath.Join(home, ".cache", "figstyle"); paths.CacheDir != want {
		t.Errorf("CacheDir = %q, want %q", paths.CacheDir, want)
	}
	if want := filepath.Join(home, ".config", "figstyle", "config.yaml"); paths.ConfigFile != want {
		t.Errorf("ConfigFile = %q, want %q", paths.ConfigFile, want)
	}
}

func TestPaths_Styles(t *testing.T) {
	paths := NewPathsWithOverrides("/cfg", "/cache")

	if got, want := paths.StylesFile("abc123"), filepath.Join("/cache", "styles", "abc123.json"); got != want {
		t.Errorf("StylesFile() = %q, want %q", got, want)
	}
	if got, want := paths.StylesMetaFile("abc123"), filepath.Join("/cache", "styles", "abc123.meta.json"); got != want {
		t.Errorf("StylesMetaFile() = %q, want %q", got, want)
	}
}

func TestPaths_Artifacts(t *testing.T) {
	paths := NewPathsWithOverrides("/cfg", "/cache")

	if got, want := paths.ArtifactFile("k"), filepath.Join("/cache", "artifacts", "k.out"); got != want {
		t.Errorf("ArtifactFile() = %q, want %q", got, want)
	}
	if got, want := paths.ArtifactMetaFile("k"), filepath.Join("/cache", "artifacts", "k.meta.json"); got != want {
		t.Errorf("ArtifactMetaFile() = %q, want %q", got, want)
	}
}
