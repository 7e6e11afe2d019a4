package store

import (
	"strings"
	"time"
)

// Work is a single theatrical piece, the top-level content grouping.
// Works own their scenes and credits; once parsing completes they are
// consumed read-only.
type Work struct {
	ID      string            `json:"id"`
	Title   string            `json:"title"`
	Meta    map[string]string `json:"meta,omitempty"`
	Scenes  []Scene           `json:"scenes"`
	Credits []Credit          `json:"credits"`
}

// Scene is one playable video unit belonging to a Work. Its id is
// synthesized as "<workId>-scene-<ordinal>" at insertion time.
type Scene struct {
	ID              string `json:"id"`
	VideoURL        string `json:"videoUrl"`
	ProxiedVideoURL string `json:"proxiedVideoUrl,omitempty"`
	Thumbnail       string `json:"thumbnail,omitempty"`
}

// Credit is a role/name attribution on a Work. Name may be empty.
type Credit struct {
	Role string `json:"role"`
	Name string `json:"name"`
}

// CacheFile is the wrapped on-disk cache shape. Readers also accept a
// bare []Work array, which older cache files used.
type CacheFile struct {
	FetchedAt time.Time `json:"fetchedAt"`
	Count     int       `json:"count"`
	Works     []Work    `json:"works"`
}

// IsMusic reports whether the work is tagged as a music piece; music
// works prefer thumbnails derived from the video filename.
func (w Work) IsMusic() bool {
	for _, key := range []string{"tags", "category"} {
		if strings.Contains(strings.ToLower(w.Meta[key]), "music") {
			return true
		}
	}
	return false
}
