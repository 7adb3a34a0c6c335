package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"time"

	"github.com/HartBrook/figstyle/internal/config"
)

// ArtifactMeta tracks how a cached artifact was produced.
type ArtifactMeta struct {
	Key         string    `json:"key"`
	FileKey     string    `json:"file_key,omitempty"`
	Format      string    `json:"format"`
	Generator   string    `json:"generator"`
	Chunks      int       `json:"chunks"`
	Structured  bool      `json:"structured"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ArtifactCache stores generated artifacts keyed by their inputs.
type ArtifactCache struct {
	paths *config.Paths
}

// NewArtifactCache creates a new cache.
func NewArtifactCache(paths *config.Paths) *ArtifactCache {
	return &ArtifactCache{paths: paths}
}

// HashContent generates a SHA256 hash for content.
func HashContent(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// Read retrieves a cached artifact and its metadata.
// Returns empty string and nil metadata if not found.
// If content exists but metadata is missing or corrupted, cleans up orphaned files.
func (c *ArtifactCache) Read(key string) (string, *ArtifactMeta, error) {
	content, err := os.ReadFile(c.paths.ArtifactFile(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, nil
		}
		return "", nil, err
	}

	meta, err := c.ReadMeta(key)
	if err != nil {
		_ = c.Clear(key)
		return "", nil, nil
	}

	return string(content), meta, nil
}

// ReadMeta retrieves only the metadata for an artifact.
func (c *ArtifactCache) ReadMeta(key string) (*ArtifactMeta, error) {
	data, err := os.ReadFile(c.paths.ArtifactMetaFile(key))
	if err != nil {
		return nil, err
	}

	var meta ArtifactMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// Write stores an artifact with metadata.
func (c *ArtifactCache) Write(key, content string, meta *ArtifactMeta) error {
	if err := os.MkdirAll(c.paths.ArtifactsDir(), 0755); err != nil {
		return err
	}

	if err := os.WriteFile(c.paths.ArtifactFile(key), []byte(content), 0644); err != nil {
		return err
	}

	meta.Key = key
	metaData, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.paths.ArtifactMetaFile(key), metaData, 0644)
}

// Clear removes a cached artifact.
func (c *ArtifactCache) Clear(key string) error {
	// Ignore errors for non-existent files
	os.Remove(c.paths.ArtifactFile(key))
	os.Remove(c.paths.ArtifactMetaFile(key))

	return nil
}
