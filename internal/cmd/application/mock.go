package application

import (
	"github.com/rs/zerolog"

	"cursorup/pkg/platforms"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function
// field. If a function field is nil, the method returns a default value.
type Mock struct {
	LoggerFunc       func() *zerolog.Logger
	CatalogFunc      func() (*platforms.Catalog, error)
	HistoryFileFunc  func() string
	ReadmeFileFunc   func() string
	APIURLFunc       func() string
	ReleaseTrackFunc func() string
	QuietFunc        func() bool
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// Catalog returns a catalog using the mock function or the embedded one.
func (m *Mock) Catalog() (*platforms.Catalog, error) {
	if m.CatalogFunc != nil {
		return m.CatalogFunc()
	}
	return platforms.Load()
}

// HistoryFile returns the history path using the mock function or "".
func (m *Mock) HistoryFile() string {
	if m.HistoryFileFunc != nil {
		return m.HistoryFileFunc()
	}
	return ""
}

// ReadmeFile returns the document path using the mock function or "".
func (m *Mock) ReadmeFile() string {
	if m.ReadmeFileFunc != nil {
		return m.ReadmeFileFunc()
	}
	return ""
}

// APIURL returns the API URL using the mock function or "".
func (m *Mock) APIURL() string {
	if m.APIURLFunc != nil {
		return m.APIURLFunc()
	}
	return ""
}

// ReleaseTrack returns the release track using the mock function or "".
func (m *Mock) ReleaseTrack() string {
	if m.ReleaseTrackFunc != nil {
		return m.ReleaseTrackFunc()
	}
	return ""
}

// Quiet returns the quiet setting using the mock function or false.
func (m *Mock) Quiet() bool {
	if m.QuietFunc != nil {
		return m.QuietFunc()
	}
	return false
}

// Version returns the version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns the commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns the date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns the builder using the mock function or "unknown".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "unknown"
}
