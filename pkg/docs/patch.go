package docs

import (
	"os"

	"cursorup/pkg/constants"
	"cursorup/pkg/errors"
	"cursorup/pkg/history"
)

// ReadDocument reads the target document. A missing file is
// errors.ErrNotFound so the pipeline can report "document missing" as a
// fatal condition; any other failure is a persistence error.
func ReadDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.ErrNotFound
		}
		return "", errors.WrapPersistence("read", "document", path, err)
	}
	return string(data), nil
}

// WriteDocument writes the patched document back.
func WriteDocument(path, doc string) error {
	if err := os.WriteFile(path, []byte(doc), constants.FilePermissions); err != nil {
		return errors.WrapPersistence("write", "document", path, err)
	}
	return nil
}

// Patch replaces all three marker-delimited regions of the document with
// freshly rendered fragments from the store.
func (r *Renderer) Patch(doc string, s *history.Store) (string, error) {
	patched, err := Splice(doc, LatestCardStart, LatestCardEnd, r.LatestCard(s))
	if err != nil {
		return "", err
	}
	patched, err = Splice(patched, SummaryTableStart, SummaryTableEnd, r.SummaryTable(s))
	if err != nil {
		return "", err
	}
	patched, err = Splice(patched, DetailBlocksStart, DetailBlocksEnd, r.DetailBlocks(s))
	if err != nil {
		return "", err
	}
	return patched, nil
}
