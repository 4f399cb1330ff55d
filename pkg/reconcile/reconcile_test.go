package reconcile

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cursorup/pkg/docs"
	"cursorup/pkg/errors"
	"cursorup/pkg/fetch"
	"cursorup/pkg/history"
	"cursorup/pkg/platforms"
)

// downloadServer fakes the download-resolution endpoint: urls maps a query
// platform identifier to the downloadUrl it returns; everything else is 404.
func downloadServer(t *testing.T, urls map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		platform := r.URL.Query().Get("platform")
		url, ok := urls[platform]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"downloadUrl": url})
	}))
	t.Cleanup(server.Close)
	return server
}

func markeredReadme(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "README.md")
	doc := strings.Join([]string{
		"# Cursor Downloads",
		"",
		docs.LatestCardStart,
		"stale",
		docs.LatestCardEnd,
		"",
		docs.SummaryTableStart,
		"stale",
		docs.SummaryTableEnd,
		"",
		docs.DetailBlocksStart,
		"stale",
		docs.DetailBlocksEnd,
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func testPipeline(t *testing.T, dir string, urls map[string]string) *Pipeline {
	t.Helper()
	catalog, err := platforms.Load()
	require.NoError(t, err)

	server := downloadServer(t, urls)
	p, err := New(Config{
		Catalog:     catalog,
		Fetcher:     fetch.New(fetch.WithAPIURL(server.URL)),
		HistoryFile: filepath.Join(dir, "version-history.json"),
		ReadmeFile:  markeredReadme(t, dir),
		Now:         func() time.Time { return time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return p
}

func TestNewRequiresCatalog(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestRunMergesNewVersion(t *testing.T) {
	dir := t.TempDir()
	p := testPipeline(t, dir, map[string]string{
		"linux-x64": "https://example.com/linux/1.6.27/cursor.AppImage",
	})

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.NewVersion)
	assert.Equal(t, "1.6.27", result.Version)
	assert.Equal(t, 1, result.Resolved)
	assert.Equal(t, 8, result.Failed)

	store, err := history.Read(p.history)
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())
	e, ok := store.Entry("1.6.27")
	require.True(t, ok)
	assert.Equal(t, "2025-08-20", e.Date)
	assert.Equal(t, "https://example.com/linux/1.6.27/cursor.AppImage", e.Platforms["linux-x64"])

	doc, err := docs.ReadDocument(p.readme)
	require.NoError(t, err)
	assert.NotContains(t, doc, "stale")
	assert.Contains(t, doc, "**Version 1.6.27** (2025-08-20)")
}

func TestRunMergesHighestAcrossPlatforms(t *testing.T) {
	dir := t.TempDir()
	p := testPipeline(t, dir, map[string]string{
		"linux-x64":      "https://example.com/linux/1.9.0/cursor.AppImage",
		"win32-x64":      "https://example.com/user-setup/CursorUserSetup-x64-1.10.0.exe",
		"win32-x64-user": "https://example.com/user-setup/CursorUserSetup-x64-1.10.0.exe",
	})

	result, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.10.0", result.Version)

	store, err := history.Read(p.history)
	require.NoError(t, err)
	e, ok := store.Entry("1.10.0")
	require.True(t, ok)
	// Every resolved URL lands in the merged entry, including the lower
	// linux version and the derived system installer variant.
	assert.Contains(t, e.Platforms, "linux-x64")
	assert.Contains(t, e.Platforms, "win32-x64-user")
	assert.Equal(t, "https://example.com/system-setup/CursorUserSetup-x64-1.10.0.exe",
		e.Platforms["win32-x64-system"])
}

func TestRunSkipKeepsStoreAndRerenders(t *testing.T) {
	dir := t.TempDir()
	p := testPipeline(t, dir, map[string]string{
		"linux-x64": "https://example.com/linux/1.6.27/cursor.AppImage",
	})

	seeded := history.New()
	seeded.UpsertNewest(history.Entry{
		Version:   "1.6.27",
		Date:      "2025-08-01",
		Platforms: map[string]string{"linux-x64": "https://example.com/linux/1.6.27/cursor.AppImage"},
	})
	require.NoError(t, history.Save(p.history, seeded))

	result, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, result.NewVersion)
	assert.Equal(t, "1.6.27", result.Version)

	store, err := history.Read(p.history)
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())
	e, _ := store.Entry("1.6.27")
	assert.Equal(t, "2025-08-01", e.Date, "existing entry untouched")

	doc, err := docs.ReadDocument(p.readme)
	require.NoError(t, err)
	assert.NotContains(t, doc, "stale", "document regenerated even without a new version")
}

func TestRunAbortsWhenNothingResolves(t *testing.T) {
	dir := t.TempDir()
	p := testPipeline(t, dir, map[string]string{})

	_, err := p.Run(context.Background())
	assert.True(t, errors.IsNoData(err))

	_, statErr := os.Stat(p.history)
	assert.True(t, os.IsNotExist(statErr), "no store written")

	doc, readErr := docs.ReadDocument(p.readme)
	require.NoError(t, readErr)
	assert.Contains(t, doc, "stale", "document untouched")
}

func TestRunFailsWithoutDocument(t *testing.T) {
	dir := t.TempDir()
	p := testPipeline(t, dir, map[string]string{
		"linux-x64": "https://example.com/linux/1.6.27/cursor.AppImage",
	})
	require.NoError(t, os.Remove(p.readme))

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsPersistence(err))
}

func TestVerifyRepairsDriftedStore(t *testing.T) {
	dir := t.TempDir()
	p := testPipeline(t, dir, map[string]string{
		"linux-x64": "https://example.com/linux/2.0.0/cursor.AppImage",
	})

	// Store only knows 2.0.0 but the document's first summary row claims
	// 3.0.0, as if a document write survived a lost store write.
	store := history.New()
	store.UpsertNewest(history.Entry{Version: "2.0.0", Date: "2025-08-01"})
	require.NoError(t, history.Save(p.history, store))

	drifted := strings.Join([]string{
		docs.SummaryTableStart,
		"| Version | Date | Linux |",
		"|---------|------|-------|",
		"| 3.0.0 | 2025-08-19 | [linux-x64](https://example.com/linux/3.0.0/cursor.AppImage) |",
		docs.SummaryTableEnd,
	}, "\n")
	require.NoError(t, docs.WriteDocument(p.readme, drifted))

	repaired := p.verify(context.Background())
	assert.True(t, repaired)

	got, err := history.Read(p.history)
	require.NoError(t, err)
	newest, ok := got.Newest()
	require.True(t, ok)
	assert.Equal(t, "3.0.0", newest.Version)
	assert.Equal(t, "2025-08-19", newest.Date)
	assert.Equal(t, "https://example.com/linux/3.0.0/cursor.AppImage", newest.Platforms["linux-x64"])
	assert.True(t, got.Contains("2.0.0"), "existing entries preserved")
}

func TestVerifyNoRepairWhenConsistent(t *testing.T) {
	dir := t.TempDir()
	p := testPipeline(t, dir, map[string]string{
		"linux-x64": "https://example.com/linux/1.6.27/cursor.AppImage",
	})

	_, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, p.verify(context.Background()))
}

func TestVerifyFillsMissingDate(t *testing.T) {
	dir := t.TempDir()
	p := testPipeline(t, dir, nil)

	store := history.New()
	store.UpsertNewest(history.Entry{Version: "1.0.0", Date: "2025-07-01"})
	require.NoError(t, history.Save(p.history, store))

	drifted := strings.Join([]string{
		docs.SummaryTableStart,
		"| Version | Date | Linux |",
		"|---------|------|-------|",
		"| 1.1.0 | unknown | Not Ready |",
		docs.SummaryTableEnd,
	}, "\n")
	require.NoError(t, docs.WriteDocument(p.readme, drifted))

	require.True(t, p.verify(context.Background()))

	got, err := history.Read(p.history)
	require.NoError(t, err)
	e, ok := got.Entry("1.1.0")
	require.True(t, ok)
	assert.Equal(t, "2025-08-20", e.Date, "merge date substituted for unparsable date")
}

func TestResultFields(t *testing.T) {
	// Failed counts absorbed fetches; a run with a mixed outcome reports both.
	dir := t.TempDir()
	p := testPipeline(t, dir, map[string]string{
		"linux-x64":  "https://example.com/linux/1.6.27/cursor.AppImage",
		"darwin-x64": "https://example.com/mac/1.6.27/x64.dmg",
	})

	result, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Resolved)
	assert.Equal(t, 7, result.Failed)
	assert.False(t, result.Repaired)
}
