package sheet

import (
	"net/url"
	"os"
	"path"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/dahemar/baptiste4/config"
	"github.com/dahemar/baptiste4/logger"
)

var nonAlnumRuns = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeThumbName reduces a filename to its lookup key: extension
// stripped, diacritics removed, lowercased, every non-alphanumeric run
// collapsed to a single space. "Elie.Concours.1.mp4" and
// "Élie Concours 1.jpg" both key as "elie concours 1", which is the
// whole trick: the spreadsheet's references and the asset filenames on
// disk rarely agree on accents, dots or case.
func NormalizeThumbName(name string) string {
	name = strings.TrimSuffix(name, path.Ext(name))

	decomposed := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(decomposed, name); err == nil {
		name = stripped
	}

	name = strings.ToLower(name)
	name = nonAlnumRuns.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// Thumbnails resolves a scene's thumbnail public path from its video URL
// and the sheet-provided reference, backed by an index of the thumbnail
// assets actually on disk. The index is injected; the directory scan in
// ScanThumbnailDirs is just one adapter for building it.
type Thumbnails struct {
	index  map[string]string
	logger logger.Logger
}

func NewThumbnails(index map[string]string, log logger.Logger) *Thumbnails {
	if index == nil {
		index = map[string]string{}
	}
	if log == nil {
		log = logger.Default
	}
	return &Thumbnails{index: index, logger: log}
}

// ScanThumbnailDirs builds a normalized-name → public-path index from the
// configured thumbnail directories. Earlier directories win on key
// collisions.
func ScanThumbnailDirs(dirs []config.ThumbnailDir) map[string]string {
	index := map[string]string{}
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir.Dir)
		if err != nil {
			logger.Default.Debugf("Thumbnail directory %s not scanned: %v", dir.Dir, err)
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			key := NormalizeThumbName(entry.Name())
			if key == "" {
				continue
			}
			if _, exists := index[key]; !exists {
				index[key] = dir.PublicPrefix + "/" + entry.Name()
			}
		}
	}
	return index
}

// Resolve picks the thumbnail path for a scene. A local asset beats a
// sheet-provided remote reference, since remote paths may dangle; music
// works always derive from the video filename. Resolution can fail: a
// missing thumbnail is optional for callers, never fatal.
func (t *Thumbnails) Resolve(videoURL, sheetRef string, music bool) string {
	if music {
		sheetRef = ""
	}

	if sheetRef != "" {
		if strings.HasPrefix(sheetRef, "/assets/") {
			return sheetRef
		}
		if strings.HasPrefix(sheetRef, "http") {
			if found, ok := t.lookup(basenameOf(sheetRef)); ok {
				return found
			}
			return sheetRef
		}
		if found, ok := t.lookup(sheetRef); ok {
			return found
		}
		// A bare filename with no local match would only yield a dotted
		// guess that won't resolve; derive from the video instead.
	}

	if videoURL == "" {
		return ""
	}
	if found, ok := t.lookup(basenameOf(videoURL)); ok {
		return found
	}
	return synthesizeThumbPath(videoURL)
}

func (t *Thumbnails) lookup(basename string) (string, bool) {
	key := NormalizeThumbName(basename)
	if key == "" {
		return "", false
	}
	found, ok := t.index[key]
	return found, ok
}

func basenameOf(ref string) string {
	if parsed, err := url.Parse(ref); err == nil && parsed.Path != "" {
		return path.Base(parsed.Path)
	}
	return path.Base(ref)
}

// synthesizeThumbPath is the last-resort guess from the video URL shape.
// It may point at a file that does not exist.
func synthesizeThumbPath(videoURL string) string {
	lower := strings.ToLower(videoURL)

	if strings.HasSuffix(lower, ".mp4") {
		base := basenameOf(videoURL)
		base = strings.TrimSuffix(base, path.Ext(base))
		return "/assets/images/thumbnails/" + base + ".jpg"
	}

	if idx := strings.Index(videoURL, "/hls/"); idx >= 0 {
		rest := videoURL[idx+len("/hls/"):]
		if end := strings.Index(rest, "/"); end > 0 {
			return "/assets/images/thumbnails/" + rest[:end] + ".jpg"
		}
	}
	return ""
}
