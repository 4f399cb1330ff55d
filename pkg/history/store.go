// Package history implements the durable version-history store: an ordered
// list of version entries mapping platform identifiers to download URLs,
// persisted as a single JSON file with a backup generation.
package history

import (
	"sort"

	"cursorup/pkg/constants"
	"cursorup/pkg/versions"
)

// Entry is one version's record in the history store. Version uniquely
// identifies an entry; no two entries in a store share a version string.
type Entry struct {
	Version   string            `json:"version"`
	Date      string            `json:"date"`
	Platforms map[string]string `json:"platforms"`
}

// Store is the ordered sequence of entries, kept sorted descending by
// numeric-aware version comparison.
type Store struct {
	Versions []Entry `json:"versions"`
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.Versions)
}

// Contains reports whether the store has an entry for the given version.
func (s *Store) Contains(version string) bool {
	_, ok := s.Entry(version)
	return ok
}

// Entry returns the entry for the given version.
func (s *Store) Entry(version string) (Entry, bool) {
	for _, e := range s.Versions {
		if e.Version == version {
			return e, true
		}
	}
	return Entry{}, false
}

// Newest returns the entry with the greatest version.
func (s *Store) Newest() (Entry, bool) {
	if len(s.Versions) == 0 {
		return Entry{}, false
	}
	return s.Versions[0], true
}

// UpsertNewest inserts the entry unless its version is already present,
// re-sorts descending, and truncates to the newest MaxHistoryEntries.
// Inserting an already-present version is a no-op on content.
func (s *Store) UpsertNewest(e Entry) {
	if s.Contains(e.Version) {
		return
	}
	s.Versions = append(s.Versions, e)
	s.Sort()
	if len(s.Versions) > constants.MaxHistoryEntries {
		s.Versions = s.Versions[:constants.MaxHistoryEntries]
	}
}

// Sort orders entries descending by numeric-aware version comparison.
func (s *Store) Sort() {
	sort.SliceStable(s.Versions, func(i, j int) bool {
		return versions.Newer(s.Versions[i].Version, s.Versions[j].Version)
	})
}
