// Package docs renders the version-history store into the three
// marker-delimited regions of the README: the latest-version card, the
// all-versions summary table, and the per-version detail blocks. All
// transforms are pure and deterministic; identical store state always
// yields byte-identical fragment text.
package docs

import (
	"fmt"
	"strings"

	md "github.com/nao1215/markdown"

	"cursorup/pkg/history"
	"cursorup/pkg/platforms"
)

// NotReadyCell is rendered in the Linux column of the summary table when
// an entry has no Linux download URL.
const NotReadyCell = "Not Ready"

// linkJoiner separates multiple anchor links inside one table cell. A
// literal newline would break the table row, so line breaks are HTML.
const linkJoiner = "<br>"

// tableOptions keeps header text verbatim; the default table writer
// uppercases headers.
var tableOptions = md.TableOptions{AutoWrapText: false, AutoFormatHeaders: false}

// Renderer produces the document fragments for a platform catalog.
type Renderer struct {
	catalog *platforms.Catalog
}

// NewRenderer creates a renderer over the given platform catalog.
func NewRenderer(catalog *platforms.Catalog) *Renderer {
	return &Renderer{catalog: catalog}
}

// LatestCard renders the highlight block for the single newest entry: one
// column per OS family, one row per architecture slot, preferring system
// installer variants and omitting cells with no URL.
func (r *Renderer) LatestCard(s *history.Store) string {
	newest, ok := s.Newest()
	if !ok {
		return "_No versions recorded yet._"
	}

	headers := make([]string, 0, len(r.catalog.Families))
	slots := make([][]platforms.Slot, 0, len(r.catalog.Families))
	maxRows := 0
	for _, f := range r.catalog.Families {
		headers = append(headers, f.Name)
		fs := f.Slots()
		slots = append(slots, fs)
		if len(fs) > maxRows {
			maxRows = len(fs)
		}
	}

	rows := make([][]string, maxRows)
	for i := range rows {
		row := make([]string, len(r.catalog.Families))
		for fi := range r.catalog.Families {
			if i < len(slots[fi]) {
				row[fi] = slotLink(slots[fi][i], newest)
			}
		}
		rows[i] = row
	}

	var b strings.Builder
	m := md.NewMarkdown(&b)
	m.PlainText(md.Bold("Version "+newest.Version) + " (" + newest.Date + ")").LF()
	m.CustomTable(md.TableSet{Header: headers, Rows: rows}, tableOptions)
	if err := m.Build(); err != nil {
		return ""
	}
	return strings.TrimRight(b.String(), "\n")
}

// SummaryTable renders one row per entry with version, date, and the
// anchor links of every platform present, grouped per OS family.
func (r *Renderer) SummaryTable(s *history.Store) string {
	headers := []string{"Version", "Date"}
	for _, f := range r.catalog.Families {
		headers = append(headers, f.Name)
	}

	rows := make([][]string, 0, s.Len())
	for _, e := range s.Versions {
		row := []string{e.Version, e.Date}
		for _, f := range r.catalog.Families {
			row = append(row, r.familyCell(f, e))
		}
		rows = append(rows, row)
	}

	var b strings.Builder
	m := md.NewMarkdown(&b)
	m.CustomTable(md.TableSet{Header: headers, Rows: rows}, tableOptions)
	if err := m.Build(); err != nil {
		return ""
	}
	return strings.TrimRight(b.String(), "\n")
}

// DetailBlocks renders a collapsible section per entry enumerating every
// platform with a URL, grouped under OS-family headings as badge links.
// Platforms without a URL for an entry are omitted entirely.
func (r *Renderer) DetailBlocks(s *history.Store) string {
	blocks := make([]string, 0, s.Len())
	for _, e := range s.Versions {
		blocks = append(blocks, r.detailBlock(e))
	}
	return strings.Join(blocks, "\n\n")
}

// detailBlock renders one entry's collapsible section.
func (r *Renderer) detailBlock(e history.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<details>\n<summary>Version %s (%s)</summary>\n", e.Version, e.Date)

	for _, f := range r.catalog.Families {
		var badges []string
		for _, p := range f.Platforms {
			url, ok := e.Platforms[p.ID]
			if !ok || url == "" {
				continue
			}
			badges = append(badges, badgeLink(p.Label, e.Version, url))
		}
		if len(badges) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s\n\n%s\n", md.Bold(f.Name), strings.Join(badges, " "))
	}

	b.WriteString("\n</details>")
	return b.String()
}

// familyCell renders the anchor links of one family for one entry. The
// anchor text is the platform identifier so the verification sweep can
// parse a row back into a platform map.
func (r *Renderer) familyCell(f platforms.Family, e history.Entry) string {
	var links []string
	for _, p := range f.Platforms {
		url, ok := e.Platforms[p.ID]
		if !ok || url == "" {
			continue
		}
		links = append(links, md.Link(p.ID, url))
	}
	if len(links) == 0 {
		if f.ID == "linux" {
			return NotReadyCell
		}
		return ""
	}
	return strings.Join(links, linkJoiner)
}

// slotLink renders the preferred available link of one architecture slot.
func slotLink(slot platforms.Slot, e history.Entry) string {
	for _, p := range slot.Candidates {
		if url, ok := e.Platforms[p.ID]; ok && url != "" {
			return md.Link(p.Label, url)
		}
	}
	return ""
}

// badgeLink renders a shields.io badge wrapped in a download link.
func badgeLink(label, version, url string) string {
	badge := fmt.Sprintf("https://img.shields.io/badge/%s-%s-blue",
		strings.ReplaceAll(label, " ", "%20"), version)
	return fmt.Sprintf("[%s](%s)", md.Image(label, badge), url)
}
