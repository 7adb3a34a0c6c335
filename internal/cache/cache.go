package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/HartBrook/figstyle/internal/config"
	"github.com/HartBrook/figstyle/internal/errors"
	"github.com/HartBrook/figstyle/internal/styles"
)

// Cache manages locally cached style collections.
type Cache struct {
	paths *config.Paths
}

// New creates a cache manager.
func New(paths *config.Paths) *Cache {
	return &Cache{paths: paths}
}

// Read returns the cached collection and metadata, or error if not cached.
func (c *Cache) Read(fileKey string) (*styles.RawStyleCollection, *Metadata, error) {
	data, err := os.ReadFile(c.paths.StylesFile(fileKey))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.CacheNotFound(fileKey)
		}
		return nil, nil, err
	}

	var raw styles.RawStyleCollection
	if err := json.Unmarshal(data, &raw); err != nil {
		// Corrupt entries behave like missing ones.
		_ = c.Clear(fileKey)
		return nil, nil, errors.CacheNotFound(fileKey)
	}

	meta, err := c.GetMetadata(fileKey)
	if err != nil {
		// Collection exists but metadata doesn't - treat it as fetched now
		meta = &Metadata{
			FileKey:     fileKey,
			Name:        raw.Name,
			StyleCount:  raw.Count(),
			LastFetched: time.Now(),
		}
	}

	return &raw, meta, nil
}

// Write stores a collection and its metadata.
func (c *Cache) Write(fileKey string, raw *styles.RawStyleCollection, meta *Metadata) error {
	if err := os.MkdirAll(c.paths.StylesDir(), 0755); err != nil {
		return err
	}

	if meta.LastFetched.IsZero() {
		meta.LastFetched = time.Now()
	}
	meta.FileKey = fileKey
	if meta.Name == "" {
		meta.Name = raw.Name
	}
	meta.StyleCount = raw.Count()

	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to encode styles: %w", err)
	}
	if err := os.WriteFile(c.paths.StylesFile(fileKey), data, 0644); err != nil {
		return err
	}

	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.paths.StylesMetaFile(fileKey), metaBytes, 0644)
}

// Exists checks if a collection is cached for a file.
func (c *Cache) Exists(fileKey string) bool {
	_, err := os.Stat(c.paths.StylesFile(fileKey))
	return err == nil
}

// Clear removes the cached collection for a file.
// Returns nil even if files don't exist (idempotent operation).
func (c *Cache) Clear(fileKey string) error {
	if err := os.Remove(c.paths.StylesFile(fileKey)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cached styles: %w", err)
	}
	if err := os.Remove(c.paths.StylesMetaFile(fileKey)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cache metadata: %w", err)
	}
	return nil
}

// GetMetadata returns only the metadata without reading the collection.
func (c *Cache) GetMetadata(fileKey string) (*Metadata, error) {
	metaBytes, err := os.ReadFile(c.paths.StylesMetaFile(fileKey))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.CacheNotFound(fileKey)
		}
		return nil, err
	}

	meta := &Metadata{}
	if err := json.Unmarshal(metaBytes, meta); err != nil {
		return nil, err
	}

	return meta, nil
}

// ListCached returns the keys of all cached files.
func (c *Cache) ListCached() ([]string, error) {
	entries, err := os.ReadDir(c.paths.StylesDir())
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".json") && !strings.HasSuffix(name, ".meta.json") {
			keys = append(keys, strings.TrimSuffix(name, ".json"))
		}
	}
	return keys, nil
}
