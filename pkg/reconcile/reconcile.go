// Package reconcile drives one full synchronization run: resolve download
// links for every platform, merge any newly discovered version into the
// history store, regenerate the document's marker regions, and repair
// drift between the two.
//
// The store and the document are two independently writable projections
// of the same facts. The pipeline accepts eventual rather than
// transactional consistency between them: the verification sweep repairs
// drift opportunistically instead of treating one artifact as the single
// source of truth.
package reconcile

import (
	"context"
	"time"

	"cursorup/pkg/constants"
	"cursorup/pkg/docs"
	"cursorup/pkg/errors"
	"cursorup/pkg/fetch"
	"cursorup/pkg/history"
	"cursorup/pkg/logging"
	"cursorup/pkg/platforms"
	"cursorup/pkg/versions"
)

// Config carries everything one run needs. There is no package-level
// state; concurrent pipelines over distinct files are independent.
type Config struct {
	// Catalog is the platform table driving fetch and render order.
	Catalog *platforms.Catalog

	// Fetcher resolves download links. Defaults to fetch.New().
	Fetcher *fetch.Fetcher

	// HistoryFile is the path of the version-history store.
	HistoryFile string

	// ReadmeFile is the path of the target document.
	ReadmeFile string

	// Now supplies the merge date. Defaults to time.Now.
	Now func() time.Time
}

// Pipeline is one configured reconciliation run.
type Pipeline struct {
	catalog  *platforms.Catalog
	fetcher  *fetch.Fetcher
	renderer *docs.Renderer
	history  string
	readme   string
	now      func() time.Time
}

// New creates a pipeline from the given configuration.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Catalog == nil {
		return nil, errors.NewValidationError("catalog", nil, "platform catalog is required")
	}
	if cfg.HistoryFile == "" {
		cfg.HistoryFile = constants.DefaultHistoryFile
	}
	if cfg.ReadmeFile == "" {
		cfg.ReadmeFile = constants.DefaultReadmeFile
	}
	if cfg.Fetcher == nil {
		cfg.Fetcher = fetch.New()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Pipeline{
		catalog:  cfg.Catalog,
		fetcher:  cfg.Fetcher,
		renderer: docs.NewRenderer(cfg.Catalog),
		history:  cfg.HistoryFile,
		readme:   cfg.ReadmeFile,
		now:      cfg.Now,
	}, nil
}

// Run executes one full pass. Per-platform fetch failures are absorbed;
// zero resolved platforms aborts the run with errors.ErrNoData before
// anything is written. Store or document persistence failures after a new
// version was found are fatal. Verification failures are logged only.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	log := logging.Ctx(ctx)
	result := &Result{}

	// FETCHING: query every platform sequentially, collecting whatever
	// succeeds.
	records := make([]fetch.Record, 0, len(p.catalog.All()))
	for _, plat := range p.catalog.All() {
		rec, err := p.fetcher.Resolve(ctx, plat.ID)
		if err != nil {
			log.Warn().Err(err).Str("step", string(StepFetching)).Str("platform", plat.ID).
				Msg("Platform fetch failed, continuing")
			result.Failed++
			continue
		}
		if rec.Version == "" {
			log.Warn().Str("step", string(StepFetching)).Str("platform", plat.ID).Str("url", rec.URL).
				Msg("Could not extract version from URL")
		}
		records = append(records, rec)
		result.Resolved++
	}

	resolved := make([]string, 0, len(records))
	for _, rec := range records {
		if rec.Version != "" {
			resolved = append(resolved, rec.Version)
		}
	}
	highest, ok := versions.Max(resolved)
	if !ok {
		return nil, errors.ErrNoData
	}
	result.Version = highest
	log.Info().Str("step", string(StepFetching)).Str("version", highest).
		Int("resolved", result.Resolved).Int("failed", result.Failed).
		Msg("Highest resolved version")

	// RESOLVING: decide between SKIP and MERGING.
	store := history.Load(p.history)
	result.NewVersion = !store.Contains(highest)

	if result.NewVersion {
		// MERGING: one entry for the highest version, carrying every URL
		// resolved this cycle. A save failure here is fatal; the document
		// is never patched against an unsaved store.
		entry := history.Entry{
			Version:   highest,
			Date:      p.now().Format(constants.TimeFormatDate),
			Platforms: make(map[string]string, len(records)),
		}
		for _, rec := range records {
			entry.Platforms[rec.Platform] = rec.URL
		}
		store.UpsertNewest(entry)
		if err := history.Save(p.history, store); err != nil {
			return nil, err
		}
		log.Info().Str("step", string(StepMerging)).Str("version", highest).
			Int("platforms", len(entry.Platforms)).Msg("New version merged into history")
	} else {
		log.Info().Str("step", string(StepResolving)).Str("version", highest).
			Msg("Version already recorded, re-rendering from existing store")
	}

	// RENDERING + PATCHING: always performed, even with no new version,
	// to keep the document consistent with the store.
	doc, err := docs.ReadDocument(p.readme)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewPersistenceError("read", "document", p.readme, err)
		}
		return nil, err
	}
	patched, err := p.renderer.Patch(doc, store)
	if err != nil {
		return nil, err
	}
	if err := docs.WriteDocument(p.readme, patched); err != nil {
		return nil, err
	}
	log.Info().Str("step", string(StepPatching)).Str("path", p.readme).Msg("Document regenerated")

	// VERIFYING: best-effort consistency sweep; never escalates.
	result.Repaired = p.verify(ctx)

	return result, nil
}

// verify re-reads both artifacts and repairs the store when the document's
// first summary row references a version the store does not contain. Every
// failure in here is logged and swallowed.
func (p *Pipeline) verify(ctx context.Context) bool {
	log := logging.Ctx(ctx)

	store, err := history.Read(p.history)
	if err != nil {
		log.Warn().Err(err).Str("step", string(StepVerifying)).Msg("Could not re-read history store")
		return false
	}

	doc, err := docs.ReadDocument(p.readme)
	if err != nil {
		log.Warn().Err(err).Str("step", string(StepVerifying)).Msg("Could not re-read document")
		return false
	}

	row, err := docs.FirstSummaryRow(doc)
	if err != nil {
		log.Warn().Err(err).Str("step", string(StepVerifying)).Msg("Could not parse first summary row")
		return false
	}

	if store.Contains(row.Version) {
		return false
	}

	log.Warn().Str("step", string(StepVerifying)).Str("version", row.Version).
		Msg("Document references version missing from store, repairing")

	if row.Date == "" {
		row.Date = p.now().Format(constants.TimeFormatDate)
	}
	store.UpsertNewest(row)
	if err := history.Save(p.history, store); err != nil {
		log.Warn().Err(err).Str("step", string(StepVerifying)).Msg("Repair save failed")
		return false
	}

	log.Info().Str("step", string(StepVerifying)).Str("version", row.Version).
		Msg("Store repaired from document")
	return true
}
