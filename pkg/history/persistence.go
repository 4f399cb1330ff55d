package history

import (
	"encoding/json"
	"os"
	"path/filepath"

	"cursorup/pkg/constants"
	"cursorup/pkg/errors"
	"cursorup/pkg/logging"
)

// Read parses the store file strictly. Schema violations and unreadable
// files are persistence errors; a missing file is errors.ErrNotFound.
func Read(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ErrNotFound
		}
		return nil, errors.WrapPersistence("read", "history", path, err)
	}

	var s Store
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.WrapPersistence("parse", "history", path, err)
	}
	if err := validate(&s); err != nil {
		return nil, errors.WrapPersistence("parse", "history", path, err)
	}
	return &s, nil
}

// Load reads the store file leniently: a missing or unparsable file yields
// an empty store so a run can always start. The condition is logged.
func Load(path string) *Store {
	s, err := Read(path)
	if err != nil {
		if errors.IsNotFound(err) {
			logging.Info().Str("path", path).Msg("No version history found, starting empty")
		} else {
			logging.Warn().Err(err).Str("path", path).Msg("Version history unreadable, starting empty")
		}
		return New()
	}
	return s
}

// Save persists the store atomically: the serialized form is validated by
// round-tripping through the parser, the current file is copied to a
// .backup sibling (best effort), and the new content is written to a temp
// file and renamed over the target. If the rename fails the temp file is
// left in place for inspection.
func Save(path string, s *Store) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.WrapPersistence("write", "history", path, err)
	}

	// Round-trip validation before committing anything to disk.
	var check Store
	if err := json.Unmarshal(data, &check); err != nil {
		return errors.WrapPersistence("parse", "history", path, err)
	}
	if err := validate(&check); err != nil {
		return errors.WrapPersistence("parse", "history", path, err)
	}

	backup(path)

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".version-history-*.json")
	if err != nil {
		return errors.WrapPersistence("write", "history", path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return errors.WrapPersistence("write", "history", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapPersistence("write", "history", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		// Leave the temp file for manual inspection rather than silently
		// discarding a fully written generation.
		logging.Error().Err(err).Str("temp", tmpPath).Msg("Rename failed, temp file retained")
		return errors.WrapPersistence("rename", "history", path, err)
	}

	if _, err := os.Stat(path); err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("History file missing after save")
	}

	return nil
}

// backup copies the current on-disk generation to a .backup sibling.
// Failure here never blocks a save.
func backup(path string) {
	current, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn().Err(err).Str("path", path).Msg("Could not read history for backup")
		}
		return
	}
	backupPath := path + constants.HistoryBackupSuffix
	if err := os.WriteFile(backupPath, current, constants.FilePermissions); err != nil {
		logging.Warn().Err(err).Str("path", backupPath).Msg("Could not write history backup")
	}
}

// validate enforces the store schema: every entry carries a version, and
// no version appears twice.
func validate(s *Store) error {
	seen := make(map[string]struct{}, len(s.Versions))
	for _, e := range s.Versions {
		if e.Version == "" {
			return errors.NewValidationError("version", nil, "entry without version string")
		}
		if _, dup := seen[e.Version]; dup {
			return errors.NewValidationError("version", e.Version, "duplicate version entry")
		}
		seen[e.Version] = struct{}{}
	}
	return nil
}
