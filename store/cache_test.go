package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dahemar/baptiste4/config"
)

func setupTestConfig(t *testing.T) {
	t.Helper()

	originalConfig := config.GetConfig()
	config.SetConfig(&config.Config{
		DataPath:   t.TempDir(),
		PublicPath: filepath.Join(t.TempDir(), "public"),
	})
	t.Cleanup(func() {
		config.SetConfig(originalConfig)
	})
}

func sampleWorks() []Work {
	return []Work{
		{
			ID:    "1",
			Title: "Alpha",
			Meta:  map[string]string{"author": "B. Hamelin"},
			Scenes: []Scene{
				{ID: "1-scene-0", VideoURL: "/a.mp4", Thumbnail: "/assets/images/thumbnails/a.jpg"},
			},
			Credits: []Credit{{Role: "Sound", Name: "B. H."}},
		},
		{
			ID:      "2",
			Title:   "Beta",
			Scenes:  []Scene{},
			Credits: []Credit{},
		},
	}
}

func TestCacheRoundTrip(t *testing.T) {
	setupTestConfig(t)

	works := sampleWorks()
	SaveCache(works)

	loaded := LoadCache()
	assert.Equal(t, works, loaded)
}

func TestLoadCacheMissingFile(t *testing.T) {
	setupTestConfig(t)

	assert.Nil(t, LoadCache())
}

func TestLoadCacheCorruptFile(t *testing.T) {
	setupTestConfig(t)

	cachePath := config.GetCachePath()
	require.NoError(t, os.MkdirAll(filepath.Dir(cachePath), 0755))
	require.NoError(t, os.WriteFile(cachePath, []byte("{not json"), 0644))

	assert.Nil(t, LoadCache())
}

// Older cache files were a bare array; readers accept both shapes.
func TestLoadCacheBareArray(t *testing.T) {
	setupTestConfig(t)

	bare := `[{"id":"1","title":"Alpha","scenes":[],"credits":[]}]`
	cachePath := config.GetCachePath()
	require.NoError(t, os.MkdirAll(filepath.Dir(cachePath), 0755))
	require.NoError(t, os.WriteFile(cachePath, []byte(bare), 0644))

	loaded := LoadCache()
	require.Len(t, loaded, 1)
	assert.Equal(t, "1", loaded[0].ID)
	assert.Equal(t, "Alpha", loaded[0].Title)
}

func TestSaveCacheOverwrites(t *testing.T) {
	setupTestConfig(t)

	SaveCache(sampleWorks())
	SaveCache([]Work{{ID: "9", Title: "Only", Scenes: []Scene{}, Credits: []Credit{}}})

	loaded := LoadCache()
	require.Len(t, loaded, 1)
	assert.Equal(t, "9", loaded[0].ID)
}
