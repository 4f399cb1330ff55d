package docs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSummaryRow(t *testing.T) {
	t.Run("version date and anchors", func(t *testing.T) {
		row := "| 1.6.27 | 2025-08-01 | [win32-x64-user](https://example.com/a.exe) | [linux-x64](https://example.com/b.AppImage) |"

		e, err := ParseSummaryRow(row)
		require.NoError(t, err)
		assert.Equal(t, "1.6.27", e.Version)
		assert.Equal(t, "2025-08-01", e.Date)
		assert.Equal(t, map[string]string{
			"win32-x64-user": "https://example.com/a.exe",
			"linux-x64":      "https://example.com/b.AppImage",
		}, e.Platforms)
	})

	t.Run("bolded version column", func(t *testing.T) {
		e, err := ParseSummaryRow("| **1.6.27** | 2025-08-01 | Not Ready |")
		require.NoError(t, err)
		assert.Equal(t, "1.6.27", e.Version)
	})

	t.Run("malformed date is blanked", func(t *testing.T) {
		e, err := ParseSummaryRow("| 1.6.27 | August 1st | [linux-x64](https://example.com/x) |")
		require.NoError(t, err)
		assert.Equal(t, "", e.Date)
	})

	t.Run("image badges are not platform links", func(t *testing.T) {
		e, err := ParseSummaryRow("| 1.6.27 | 2025-08-01 | ![badge](https://img.shields.io/x) [linux-x64](https://example.com/x) |")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"linux-x64": "https://example.com/x"}, e.Platforms)
	})

	t.Run("invalid version column", func(t *testing.T) {
		_, err := ParseSummaryRow("| not-a-version | 2025-08-01 | cell |")
		assert.Error(t, err)
	})

	t.Run("too few columns", func(t *testing.T) {
		_, err := ParseSummaryRow("| 1.6.27 |")
		assert.Error(t, err)
	})
}

func TestFirstSummaryRow(t *testing.T) {
	t.Run("missing region", func(t *testing.T) {
		_, err := FirstSummaryRow("# no markers")
		assert.Error(t, err)
	})

	t.Run("empty table", func(t *testing.T) {
		doc := SummaryTableStart + "\n| Version | Date |\n|---|---|\n" + SummaryTableEnd
		_, err := FirstSummaryRow(doc)
		assert.Error(t, err)
	})

	t.Run("first data row wins", func(t *testing.T) {
		doc := strings.Join([]string{
			SummaryTableStart,
			"| Version | Date | Linux |",
			"|---------|------|-------|",
			"| 1.7.0 | 2025-08-15 | [linux-x64](https://example.com/new) |",
			"| 1.6.27 | 2025-08-01 | [linux-x64](https://example.com/old) |",
			SummaryTableEnd,
		}, "\n")

		e, err := FirstSummaryRow(doc)
		require.NoError(t, err)
		assert.Equal(t, "1.7.0", e.Version)
		assert.Equal(t, "https://example.com/new", e.Platforms["linux-x64"])
	})
}

// Rendering a store into the summary region and parsing the first row back
// must reproduce the newest entry. This inverse is what drift repair
// depends on.
func TestSummaryRoundTrip(t *testing.T) {
	r := testRenderer(t)
	s := fullStore()
	newest, ok := s.Newest()
	require.True(t, ok)

	doc := SummaryTableStart + "\nstale\n" + SummaryTableEnd
	doc, err := Splice(doc, SummaryTableStart, SummaryTableEnd, r.SummaryTable(s))
	require.NoError(t, err)

	got, err := FirstSummaryRow(doc)
	require.NoError(t, err)
	assert.Equal(t, newest.Version, got.Version)
	assert.Equal(t, newest.Date, got.Date)
	assert.Equal(t, newest.Platforms, got.Platforms)
}
