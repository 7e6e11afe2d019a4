package updater

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dahemar/baptiste4/config"
	"github.com/dahemar/baptiste4/logger"
	"github.com/dahemar/baptiste4/sheet"
	"github.com/dahemar/baptiste4/store"
	"github.com/dahemar/baptiste4/utils"
)

// fetchTimeout bounds the on-request content fetch. A visitor waiting on
// the works list must never hang past this; stale cache beats no page.
const fetchTimeout = 8 * time.Second

// backgroundFetchTimeout is the looser bound for scheduled refreshes,
// where nobody is waiting on the response.
const backgroundFetchTimeout = 30 * time.Second

// Updater owns the in-memory works index and keeps it fed from the
// content sheet, on demand and on a cron schedule.
type Updater struct {
	sync.Mutex
	ctx    context.Context
	index  *store.Index
	client *sheet.Client
	Cron   *cron.Cron
	logger logger.Logger
}

func Initialize(ctx context.Context) (*Updater, error) {
	index, err := store.NewIndex()
	if err != nil {
		logger.Default.Errorf("Error initializing works index: %v", err)
		return nil, err
	}

	instance := &Updater{
		ctx:    ctx,
		index:  index,
		client: sheet.NewClient(nil, logger.Default),
		logger: logger.Default,
	}

	cronSched := utils.GetEnv("SYNC_CRON", "")
	if cronSched == "" {
		instance.logger.Log("SYNC_CRON not initialized. Defaulting to 0 6 * * * (6am every day).")
		cronSched = "0 6 * * *"
	}

	c := cron.New()
	_, err = c.AddFunc(cronSched, func() {
		go instance.RefreshWorks(ctx)
	})
	if err != nil {
		instance.logger.Errorf("Error initializing background processes: %v", err)
		return nil, err
	}
	c.Start()

	if utils.GetEnv("SYNC_ON_BOOT", "true") == "true" {
		instance.logger.Log("SYNC_ON_BOOT enabled. Starting initial works refresh.")
		go instance.RefreshWorks(ctx)
	}

	instance.Cron = c

	return instance, nil
}

// GetWorks is the orchestration entry point used by the content
// endpoint: in-memory index first, then cache file, then a timed fetch
// from the sheet. force clears the in-memory index before serving.
// Returns an error only when no data could be obtained from any source.
func (u *Updater) GetWorks(ctx context.Context, force bool) ([]store.Work, error) {
	if force {
		if err := u.index.Clear(); err != nil {
			u.logger.Errorf("Error clearing works index: %v", err)
		}
	} else {
		works, err := u.index.All()
		if err == nil && len(works) > 0 {
			return works, nil
		}
	}

	if cached := store.LoadCache(); len(cached) > 0 {
		u.populateIndex(cached)
		return cached, nil
	}

	works, err := u.fetchFresh(ctx, fetchTimeout)
	if err != nil {
		u.logger.Warnf("Content fetch failed and no cache available: %v", err)
		return nil, err
	}

	store.SaveCache(works)
	u.populateIndex(works)
	return works, nil
}

// RefreshWorks is the scheduled path: fetch, persist, swap the index.
// Failures leave the previous data in place.
func (u *Updater) RefreshWorks(ctx context.Context) {
	// Ensure only one refresh runs at a time
	u.Lock()
	defer u.Unlock()

	select {
	case <-ctx.Done():
		return
	default:
	}

	u.logger.Log("Background process: Refreshing works from content sheet...")
	works, err := u.fetchFresh(ctx, backgroundFetchTimeout)
	if err != nil {
		u.logger.Warnf("Background process: Refresh failed, keeping previous works: %v", err)
		return
	}

	store.SaveCache(works)
	u.populateIndex(works)
	u.logger.Logf("Background process: Refreshed %d works.", len(works))
}

func (u *Updater) fetchFresh(ctx context.Context, timeout time.Duration) ([]store.Work, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rows, err := u.client.FetchRows(ctx)
	if err != nil {
		return nil, err
	}

	thumbs := sheet.NewThumbnails(sheet.ScanThumbnailDirs(config.GetThumbnailDirs()), u.logger)
	return sheet.NewParser(thumbs, u.logger).ParseWorks(rows), nil
}

func (u *Updater) populateIndex(works []store.Work) {
	if err := u.index.ReplaceAll(works); err != nil {
		u.logger.Errorf("Error populating works index: %v", err)
	}
}
