package sheet

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dahemar/baptiste4/logger"
	"github.com/dahemar/baptiste4/proxy"
	"github.com/dahemar/baptiste4/store"
)

// sceneAcc accumulates the per-scene join rows (SCENES, VIDEOS,
// THUMBNAILS, AUDIO) keyed by the sheet's scene id. The scene id is only
// a join key; it never reaches the output Scene.
type sceneAcc struct {
	workID string
	video  string
	thumb  string
	audio  string
}

// Parser reduces the sheet's flat row sequence to the normalized works
// list. Thumbnail resolution is an injected capability so the reduction
// can be tested without real files.
type Parser struct {
	thumbs *Thumbnails
	logger logger.Logger
}

func NewParser(thumbs *Thumbnails, log logger.Logger) *Parser {
	if log == nil {
		log = logger.Default
	}
	return &Parser{thumbs: thumbs, logger: log}
}

// ParseWorks consumes the 2-D cell array and returns the work list.
// Fewer than 2 rows yields an empty result. Spreadsheet data is messy by
// nature: malformed rows and dangling references are skipped, never fatal.
func (p *Parser) ParseWorks(rows [][]string) []store.Work {
	if len(rows) < 2 {
		return []store.Work{}
	}

	var (
		workOrder  []string
		works      = map[string]*store.Work{}
		sceneOrder []string
		ordered    = map[string]bool{}
		scenes     = map[string]*sceneAcc{}
		credits    = map[string][]store.Credit{}
	)

	current := SectionNone
	for _, row := range rows {
		next, isHeader := transition(current, row)
		current = next
		if isHeader {
			continue
		}

		switch dataSection(current, row) {
		case SectionWorks:
			id := strings.TrimSpace(cell(row, 1))
			if id == "" {
				continue
			}
			title := strings.TrimSpace(cell(row, 2))
			if title == "" {
				title = "Work " + id
			}
			if _, exists := works[id]; !exists {
				workOrder = append(workOrder, id)
			}
			works[id] = &store.Work{
				ID:      id,
				Title:   title,
				Meta:    workMeta(row),
				Scenes:  []store.Scene{},
				Credits: []store.Credit{},
			}

		case SectionScenes:
			sceneID := strings.TrimSpace(cell(row, 1))
			workID := strings.TrimSpace(cell(row, 2))
			if sceneID == "" || workID == "" {
				continue
			}
			// Assembly order is the order scenes first appear in the
			// SCENES section, not the order of join rows.
			if !ordered[sceneID] {
				ordered[sceneID] = true
				sceneOrder = append(sceneOrder, sceneID)
			}
			sceneFor(scenes, sceneID).workID = workID

		case SectionVideos:
			sceneID, file := joinCells(row)
			if sceneID == "" || file == "" {
				continue
			}
			sceneFor(scenes, sceneID).video = file

		case SectionThumbnails:
			sceneID, file := joinCells(row)
			if sceneID == "" || file == "" {
				continue
			}
			sceneFor(scenes, sceneID).thumb = file

		case SectionAudio:
			// Parsed for parity with the sheet layout; audio is not
			// attached to the output Scene.
			sceneID, file := joinCells(row)
			if sceneID == "" || file == "" {
				continue
			}
			sceneFor(scenes, sceneID).audio = file

		case SectionCredits:
			workID := strings.TrimSpace(cell(row, 2))
			role := strings.TrimSpace(cell(row, 3))
			if workID == "" || role == "" {
				continue
			}
			credits[workID] = append(credits[workID], store.Credit{
				Role: role,
				Name: strings.TrimSpace(cell(row, 4)),
			})
		}
	}

	for _, sceneID := range sceneOrder {
		acc := scenes[sceneID]
		work, ok := works[acc.workID]
		if !ok {
			p.logger.Debugf("Dropping scene %s: work %q not in WORKS table", sceneID, acc.workID)
			continue
		}

		videoURL := normalizeVideoURL(acc.video)
		scene := store.Scene{
			ID:              fmt.Sprintf("%s-scene-%d", work.ID, len(work.Scenes)),
			VideoURL:        videoURL,
			ProxiedVideoURL: proxiedVideoURL(videoURL),
		}
		if p.thumbs != nil {
			scene.Thumbnail = p.thumbs.Resolve(videoURL, acc.thumb, work.IsMusic())
		}
		work.Scenes = append(work.Scenes, scene)
	}

	result := make([]store.Work, 0, len(workOrder))
	for _, id := range workOrder {
		work := works[id]
		if creditList, ok := credits[id]; ok {
			work.Credits = creditList
		}
		result = append(result, *work)
	}
	return result
}

// joinCells pulls the scene id / file reference pair shared by the
// VIDEOS, THUMBNAILS and AUDIO sections. The leading dot on file
// references is an artifact of the spreadsheet's relative-path export.
func joinCells(row []string) (sceneID, file string) {
	sceneID = strings.TrimSpace(cell(row, 2))
	file = strings.TrimPrefix(strings.TrimSpace(cell(row, 3)), ".")
	return sceneID, file
}

func sceneFor(scenes map[string]*sceneAcc, sceneID string) *sceneAcc {
	if acc, ok := scenes[sceneID]; ok {
		return acc
	}
	// Join rows can precede (or outlive) the SCENES row; without one the
	// accumulator has no owning work and is dropped at assembly.
	acc := &sceneAcc{}
	scenes[sceneID] = acc
	return acc
}

func workMeta(row []string) map[string]string {
	meta := map[string]string{}
	if author := strings.TrimSpace(cell(row, 3)); author != "" {
		meta["author"] = author
	}
	if tags := strings.TrimSpace(cell(row, 4)); tags != "" {
		meta["tags"] = tags
	}
	if len(meta) == 0 {
		return nil
	}
	return meta
}

// normalizeVideoURL leaves absolute URLs and absolute-root paths alone
// and anchors bare relative references at the site root.
func normalizeVideoURL(raw string) string {
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http") || strings.HasPrefix(raw, "/") {
		return raw
	}
	return "/" + raw
}

// proxiedVideoURL computes the query-addressed proxy form for videos
// hosted on domains that need CORS relief for byte-range seeking.
func proxiedVideoURL(videoURL string) string {
	if !strings.HasPrefix(videoURL, "http") {
		return ""
	}
	parsed, err := url.Parse(videoURL)
	if err != nil {
		return ""
	}

	host := parsed.Hostname()
	needsProxy := host == "github.com" ||
		host == "release-assets.githubusercontent.com" ||
		strings.HasSuffix(host, ".s3.amazonaws.com")
	if !needsProxy {
		return ""
	}
	return proxy.QueryAddress(videoURL)
}
