package docs

import (
	"fmt"
	"strings"

	"cursorup/pkg/errors"
)

// Marker comment pairs delimiting the three renderer-owned regions of the
// target document. Region content between a pair is fully replaced on
// every run.
const (
	LatestCardStart = "<!-- LATEST_VERSION_CARD_START -->"
	LatestCardEnd   = "<!-- LATEST_VERSION_CARD_END -->"

	SummaryTableStart = "<!-- ALL_VERSIONS_TABLE_START -->"
	SummaryTableEnd   = "<!-- ALL_VERSIONS_TABLE_END -->"

	DetailBlocksStart = "<!-- DETAILED_CARDS_START -->"
	DetailBlocksEnd   = "<!-- DETAILED_CARDS_END -->"
)

// Splice replaces the region between the first occurrence of start and the
// first subsequent occurrence of end with the given fragment, keeping both
// markers. Missing markers are an error; the document contract guarantees
// exactly one occurrence of each pair.
func Splice(doc, start, end, fragment string) (string, error) {
	si := strings.Index(doc, start)
	if si < 0 {
		return "", errors.NewParseError("markdown", "", fmt.Sprintf("start marker %q not found", start), nil)
	}
	rest := doc[si+len(start):]
	ei := strings.Index(rest, end)
	if ei < 0 {
		return "", errors.NewParseError("markdown", "", fmt.Sprintf("end marker %q not found", end), nil)
	}

	var b strings.Builder
	b.WriteString(doc[:si+len(start)])
	b.WriteString("\n")
	b.WriteString(fragment)
	b.WriteString("\n")
	b.WriteString(rest[ei:])
	return b.String(), nil
}

// Region returns the content between the first occurrence of start and the
// first subsequent occurrence of end, without the markers.
func Region(doc, start, end string) (string, error) {
	si := strings.Index(doc, start)
	if si < 0 {
		return "", errors.NewParseError("markdown", "", fmt.Sprintf("start marker %q not found", start), nil)
	}
	rest := doc[si+len(start):]
	ei := strings.Index(rest, end)
	if ei < 0 {
		return "", errors.NewParseError("markdown", "", fmt.Sprintf("end marker %q not found", end), nil)
	}
	return rest[:ei], nil
}
