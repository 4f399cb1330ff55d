// Package application defines the contract between the CLI commands and
// the application container that carries their dependencies. Commands
// depend on this interface rather than the concrete app type, which keeps
// them testable with the Mock in this package.
package application

import (
	"github.com/rs/zerolog"

	"cursorup/pkg/platforms"
)

// Application provides the dependencies CLI commands need.
type Application interface {
	// Logger returns the application logger.
	Logger() *zerolog.Logger

	// Catalog returns the platform catalog.
	Catalog() (*platforms.Catalog, error)

	// HistoryFile returns the path of the version-history store.
	HistoryFile() string

	// ReadmeFile returns the path of the target document.
	ReadmeFile() string

	// APIURL returns the download API base URL.
	APIURL() string

	// ReleaseTrack returns the release track queried for downloads.
	ReleaseTrack() string

	// Quiet reports whether user-facing status lines are suppressed.
	Quiet() bool

	// Version returns the build version.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
