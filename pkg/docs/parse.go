package docs

import (
	"regexp"
	"strings"

	"cursorup/pkg/errors"
	"cursorup/pkg/history"
	"cursorup/pkg/versions"
)

// anchorRe matches plain markdown anchor links. Image links (badges) start
// with "!" and are excluded so only the summary table's download anchors
// are captured.
var anchorRe = regexp.MustCompile(`(^|[^!])\[([^\]]+)\]\(([^)]+)\)`)

// dateRe matches the YYYY-MM-DD release date column.
var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// FirstSummaryRow extracts the first data row of the summary table region
// and parses it back into a history entry. This is the drift-repair input:
// the document's view of the newest version.
func FirstSummaryRow(doc string) (history.Entry, error) {
	region, err := Region(doc, SummaryTableStart, SummaryTableEnd)
	if err != nil {
		return history.Entry{}, err
	}

	var tableLines []string
	for _, line := range strings.Split(region, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "|") {
			tableLines = append(tableLines, line)
		}
	}
	// Header, separator, then data rows.
	if len(tableLines) < 3 {
		return history.Entry{}, errors.NewParseError("markdown", "", "summary table has no data rows", nil)
	}

	return ParseSummaryRow(tableLines[2])
}

// ParseSummaryRow parses one summary-table row into a history entry:
// version and date from the first two columns, and every anchor link in
// the row as a platform-identifier to URL mapping. The renderer uses
// platform identifiers as anchor text, which is what makes this inverse
// possible.
func ParseSummaryRow(row string) (history.Entry, error) {
	cells := strings.Split(row, "|")
	// A well-formed row is "| version | date | ... |": the split yields a
	// leading empty cell before the first pipe.
	if len(cells) < 3 {
		return history.Entry{}, errors.NewParseError("markdown", "", "summary row has too few columns", nil)
	}

	version := strings.TrimSpace(strings.Trim(strings.TrimSpace(cells[1]), "*"))
	if !versions.Valid(version) {
		return history.Entry{}, errors.NewParseError("markdown", "", "summary row has no valid version column", nil)
	}

	date := strings.TrimSpace(cells[2])
	if !dateRe.MatchString(date) {
		date = ""
	}

	plats := make(map[string]string)
	for _, m := range anchorRe.FindAllStringSubmatch(row, -1) {
		plats[m[2]] = m[3]
	}

	return history.Entry{
		Version:   version,
		Date:      date,
		Platforms: plats,
	}, nil
}
