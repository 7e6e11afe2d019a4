package store

import (
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/dahemar/baptiste4/config"
	"github.com/dahemar/baptiste4/logger"
)

// LoadCache reads the works cache file. It accepts either the wrapped
// {fetchedAt, count, works} shape or a bare array, and returns nil on any
// read or parse failure. A missing cache is never an error.
func LoadCache() []Work {
	data, err := os.ReadFile(config.GetCachePath())
	if err != nil {
		logger.Default.Debugf("Cache file read failed: %v", err)
		return nil
	}

	var wrapped CacheFile
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Works != nil {
		return wrapped.Works
	}

	var works []Work
	if err := json.Unmarshal(data, &works); err != nil {
		logger.Default.Warnf("Cache file is corrupt, ignoring: %v", err)
		return nil
	}
	return works
}

// SaveCache persists the works list as pretty-printed JSON, overwriting
// any prior content. The cache is a best-effort optimization: write
// failures are logged, not propagated.
func SaveCache(works []Work) {
	cachePath := config.GetCachePath()
	if err := os.MkdirAll(filepath.Dir(cachePath), os.ModePerm); err != nil {
		logger.Default.Errorf("Error creating cache directory: %v", err)
		return
	}

	wrapped := CacheFile{
		FetchedAt: time.Now().UTC(),
		Count:     len(works),
		Works:     works,
	}

	data, err := json.MarshalIndent(wrapped, "", "  ")
	if err != nil {
		logger.Default.Errorf("Error encoding works cache: %v", err)
		return
	}

	if err := os.WriteFile(cachePath, data, 0644); err != nil {
		logger.Default.Errorf("Error writing works cache: %v", err)
	}
}
