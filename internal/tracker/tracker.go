package tracker

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"augmentstats/internal/config"
	"augmentstats/internal/data"
	"augmentstats/internal/export"
	"augmentstats/internal/icons"
	"augmentstats/internal/pipeline"
	"augmentstats/internal/review"
	"augmentstats/internal/session"
	"augmentstats/internal/stats"
	"augmentstats/internal/vision"

	"github.com/rs/zerolog/log"
)

// Tracker ties the processing pipeline, the review queue and the store together.
// It is the single entry point used by the desktop app and the CLI.
type Tracker struct {
	store     data.Store
	icons     *icons.Set
	recorded  *data.RecordedFilter
	processor *pipeline.Processor
	review    *review.Queue
	packs     *data.IconPackClient

	manifestURL string

	mu          sync.Mutex
	packVersion string
}

// Open connects to the configured store and builds a tracker on it.
func Open(ctx context.Context, cfg *config.Config) (*Tracker, error) {
	store, err := data.Open(ctx, data.Options{
		Path:        cfg.DBPath,
		DatabaseURL: cfg.DatabaseURL,
		AuthToken:   cfg.AuthToken,
	})
	if err != nil {
		return nil, err
	}
	t, err := New(ctx, cfg, store, vision.NewTesseract(cfg.TesseractPath))
	if err != nil {
		store.Close()
		return nil, err
	}
	return t, nil
}

// New builds a tracker on an open store, reading stage labels with ocr.
func New(ctx context.Context, cfg *config.Config, store data.Store, ocr vision.Recognizer) (*Tracker, error) {
	sim, err := icons.ParseSimilarity(cfg.MatchMode, cfg.MatchThreshold)
	if err != nil {
		return nil, err
	}

	learned, err := store.Icons(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load icons: %w", err)
	}
	recorded, err := data.LoadRecordedFilter(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("failed to load recorded games: %w", err)
	}

	set := icons.NewSet(learned)
	t := &Tracker{
		store:    store,
		icons:    set,
		recorded: recorded,
		processor: &pipeline.Processor{
			Decoder:   vision.FileDecoder{},
			Gate:      vision.NewStageGate(ocr),
			Extractor: &icons.Matcher{Similarity: sim, SlotCount: cfg.SlotCount},
			Assigner:  session.PeriodAssigner{Location: cfg.Location},
			Gap:       cfg.GapThreshold,
			Workers:   cfg.Workers,
		},
		review:      review.NewQueue(store, set, recorded),
		packs:       data.NewIconPackClient(),
		manifestURL: cfg.IconManifestURL,
	}
	log.Info().Int("icons", set.Len()).Msg("[Tracker] ready")
	return t, nil
}

// Close releases the store.
func (t *Tracker) Close() error {
	return t.store.Close()
}

// Review returns the queue of processed sessions awaiting review.
func (t *Tracker) Review() *review.Queue {
	return t.review
}

// Ingest processes screenshot files and folders and queues the resulting sessions
// for review.
func (t *Tracker) Ingest(ctx context.Context, paths []string, onProgress pipeline.ProgressFunc) (*pipeline.Result, error) {
	shots, err := session.Collect(paths)
	if err != nil {
		return nil, err
	}
	return t.IngestScreenshots(ctx, shots, onProgress)
}

// IngestScreenshots processes an explicit batch of screenshots.
func (t *Tracker) IngestScreenshots(ctx context.Context, shots []session.Screenshot, onProgress pipeline.ProgressFunc) (*pipeline.Result, error) {
	snap := t.icons.Snapshot()
	result, err := t.processor.Process(ctx, shots, snap, onProgress)
	if err != nil {
		return nil, err
	}
	// the queue owns the processed sessions from here on
	result.Sessions = t.review.Add(result.Sessions)
	log.Info().Int("sessions", len(result.Sessions)).Int("failed", result.Failed()).
		Uint64("iconsVersion", snap.Version).Msg("[Tracker] batch queued for review")
	return result, nil
}

// Stats builds the report for one collection.
func (t *Tracker) Stats(ctx context.Context, scope session.Class) (stats.Report, error) {
	games, err := t.store.Games(ctx, scope)
	if err != nil {
		return stats.Report{}, err
	}
	return stats.BuildReport(scope, games), nil
}

// StatsByGroup builds one report per reporting period of a collection.
func (t *Tracker) StatsByGroup(ctx context.Context, scope session.Class) (map[string]stats.Report, error) {
	games, err := t.store.Games(ctx, scope)
	if err != nil {
		return nil, err
	}
	reports := make(map[string]stats.Report)
	for group, g := range stats.ByGroup(games) {
		reports[group] = stats.BuildReport(scope, g)
	}
	return reports, nil
}

// History lists every recorded game, newest first.
func (t *Tracker) History(ctx context.Context) ([]session.Game, error) {
	return data.AllGames(ctx, t.store)
}

// ExportCSV writes the statistics of a collection as CSV.
func (t *Tracker) ExportCSV(ctx context.Context, w io.Writer, scope session.Class) error {
	report, err := t.Stats(ctx, scope)
	if err != nil {
		return err
	}
	return export.WriteCSV(w, report.Augments)
}

// Icons returns the current reference set.
func (t *Tracker) Icons() icons.Snapshot {
	return t.icons.Snapshot()
}

// ExportIcons writes the reference set as JSON.
func (t *Tracker) ExportIcons(w io.Writer) error {
	return export.WriteIcons(w, t.icons.Snapshot().Entries())
}

// ImportIcons merges a JSON icon database into the reference set; imported entries
// replace existing ones of the same name.
func (t *Tracker) ImportIcons(ctx context.Context, r io.Reader) (int, error) {
	entries, err := export.ReadIcons(r)
	if err != nil {
		return 0, err
	}
	return t.mergeIcons(ctx, entries)
}

// LearnIcon fingerprints an icon image file and stores it under name.
func (t *Tracker) LearnIcon(ctx context.Context, name, path string) error {
	if name == "" {
		return fmt.Errorf("augment name is empty")
	}
	f, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat icon: %w", err)
	}
	if f.IsDir() {
		return fmt.Errorf("icon path %s is a directory", path)
	}

	img, err := vision.FileDecoder{}.Decode(ctx, session.Screenshot{Name: f.Name(), Path: path})
	if err != nil {
		return err
	}
	fp, err := icons.FingerprintIcon(img)
	if err != nil {
		return err
	}
	_, err = t.mergeIcons(ctx, map[string]icons.Fingerprint{name: fp})
	return err
}

// PullIconPack downloads the published icon pack when it is newer than the last one
// applied and merges it. It returns the pack version and the number of icons merged.
func (t *Tracker) PullIconPack(ctx context.Context) (string, int, error) {
	t.mu.Lock()
	current := t.packVersion
	t.mu.Unlock()

	pack, err := t.packs.Fetch(ctx, t.manifestURL, current)
	if err != nil {
		return "", 0, err
	}
	if pack == nil {
		return current, 0, nil
	}
	n, err := t.mergeIcons(ctx, pack.Icons)
	if err != nil {
		return "", 0, err
	}

	t.mu.Lock()
	t.packVersion = pack.Version
	t.mu.Unlock()
	log.Info().Str("version", pack.Version).Int("icons", n).Msg("[Tracker] icon pack applied")
	return pack.Version, n, nil
}

func (t *Tracker) mergeIcons(ctx context.Context, entries map[string]icons.Fingerprint) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	// persist first so the in-memory set never holds icons the store lost
	if err := t.store.SaveIcons(ctx, entries); err != nil {
		return 0, err
	}
	return t.icons.Merge(entries), nil
}

// ClearIcons forgets every learned icon.
func (t *Tracker) ClearIcons(ctx context.Context) error {
	if err := t.store.ClearIcons(ctx); err != nil {
		return err
	}
	t.icons.Reset()
	t.mu.Lock()
	t.packVersion = ""
	t.mu.Unlock()
	return nil
}

// ClearAll deletes every recorded game and learned icon and drops pending sessions.
func (t *Tracker) ClearAll(ctx context.Context) error {
	if err := t.store.ClearAll(ctx); err != nil {
		return err
	}
	t.icons.Reset()
	t.recorded.Reset()
	t.review.Clear()
	t.mu.Lock()
	t.packVersion = ""
	t.mu.Unlock()
	log.Info().Msg("[Tracker] all data cleared")
	return nil
}
