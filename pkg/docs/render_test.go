package docs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cursorup/pkg/history"
	"cursorup/pkg/platforms"
)

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	catalog, err := platforms.Load()
	require.NoError(t, err)
	return NewRenderer(catalog)
}

func fullStore() *history.Store {
	s := history.New()
	s.UpsertNewest(history.Entry{
		Version: "1.6.27",
		Date:    "2025-08-01",
		Platforms: map[string]string{
			"win32-x64-user":   "https://example.com/user-setup/CursorUserSetup-x64-1.6.27.exe",
			"win32-x64-system": "https://example.com/system-setup/CursorUserSetup-x64-1.6.27.exe",
			"darwin-universal": "https://example.com/mac/1.6.27/universal.dmg",
			"linux-x64":        "https://example.com/linux/1.6.27/cursor.AppImage",
		},
	})
	return s
}

func TestLatestCard(t *testing.T) {
	r := testRenderer(t)

	t.Run("empty store", func(t *testing.T) {
		assert.Equal(t, "_No versions recorded yet._", r.LatestCard(history.New()))
	})

	t.Run("renders newest entry", func(t *testing.T) {
		got := r.LatestCard(fullStore())

		assert.Contains(t, got, "**Version 1.6.27** (2025-08-01)")
		assert.Contains(t, got, "Windows")
		assert.Contains(t, got, "Mac")
		assert.Contains(t, got, "Linux")
		// System installer preferred over user for the same arch slot.
		assert.Contains(t, got, "[x64 System](https://example.com/system-setup/CursorUserSetup-x64-1.6.27.exe)")
		assert.NotContains(t, got, "[x64 User]")
		assert.False(t, strings.HasSuffix(got, "\n"))
	})

	t.Run("deterministic output", func(t *testing.T) {
		s := fullStore()
		assert.Equal(t, r.LatestCard(s), r.LatestCard(s))
	})
}

func TestSummaryTable(t *testing.T) {
	r := testRenderer(t)

	t.Run("links use platform identifiers as anchor text", func(t *testing.T) {
		got := r.SummaryTable(fullStore())

		assert.Contains(t, got, "Version")
		assert.Contains(t, got, "1.6.27")
		assert.Contains(t, got, "2025-08-01")
		assert.Contains(t, got, "[linux-x64](https://example.com/linux/1.6.27/cursor.AppImage)")
		assert.Contains(t, got, "[darwin-universal](https://example.com/mac/1.6.27/universal.dmg)")
	})

	t.Run("joins multiple links with br", func(t *testing.T) {
		got := r.SummaryTable(fullStore())
		assert.Contains(t, got, "[win32-x64-system](https://example.com/system-setup/CursorUserSetup-x64-1.6.27.exe)"+
			linkJoiner+"[win32-x64-user](https://example.com/user-setup/CursorUserSetup-x64-1.6.27.exe)")
	})

	t.Run("missing linux renders Not Ready", func(t *testing.T) {
		s := history.New()
		s.UpsertNewest(history.Entry{
			Version:   "1.7.0",
			Date:      "2025-08-15",
			Platforms: map[string]string{"darwin-universal": "https://example.com/universal.dmg"},
		})

		got := r.SummaryTable(s)
		assert.Contains(t, got, NotReadyCell)
	})

	t.Run("one row per entry newest first", func(t *testing.T) {
		s := fullStore()
		s.UpsertNewest(history.Entry{Version: "1.7.0", Date: "2025-08-15",
			Platforms: map[string]string{"linux-x64": "https://example.com/new.AppImage"}})

		got := r.SummaryTable(s)
		assert.Less(t, strings.Index(got, "1.7.0"), strings.Index(got, "1.6.27"))
	})
}

func TestDetailBlocks(t *testing.T) {
	r := testRenderer(t)
	got := r.DetailBlocks(fullStore())

	assert.Contains(t, got, "<details>")
	assert.Contains(t, got, "<summary>Version 1.6.27 (2025-08-01)</summary>")
	assert.Contains(t, got, "**Windows**")
	assert.Contains(t, got, "**Linux**")
	assert.Contains(t, got, "img.shields.io/badge/x64%20System-1.6.27-blue")
	assert.Contains(t, got, "</details>")

	// Platforms with no URL for the entry are omitted entirely.
	assert.NotContains(t, got, "win32-arm64")
}

func TestPatchIdempotent(t *testing.T) {
	r := testRenderer(t)
	s := fullStore()

	doc := strings.Join([]string{
		"# Cursor Downloads",
		"",
		LatestCardStart,
		"stale",
		LatestCardEnd,
		"",
		SummaryTableStart,
		"stale",
		SummaryTableEnd,
		"",
		DetailBlocksStart,
		"stale",
		DetailBlocksEnd,
		"",
	}, "\n")

	once, err := r.Patch(doc, s)
	require.NoError(t, err)
	assert.NotContains(t, once, "stale")

	twice, err := r.Patch(once, s)
	require.NoError(t, err)
	assert.Equal(t, once, twice, "patching an already patched document changes nothing")
}
