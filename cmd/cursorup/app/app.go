// Package app provides the application context and dependency management
// for the cursorup CLI. It centralizes configuration, logging, and the
// platform catalog behind the application.Application interface the
// commands consume.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"cursorup/pkg/errors"
	"cursorup/pkg/platforms"
)

// App represents the cursorup application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Platform catalog (lazy-initialized, singleton)
	mu      sync.Mutex
	catalog *platforms.Catalog
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapIO("load", "config", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the build version.
func (a *App) Version() string { return a.version }

// Commit returns the git commit hash.
func (a *App) Commit() string { return a.commit }

// Date returns the build date.
func (a *App) Date() string { return a.date }

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string { return a.builtBy }

// Config returns the application configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// HistoryFile returns the path of the version-history store.
func (a *App) HistoryFile() string { return a.config.HistoryFile }

// ReadmeFile returns the path of the target document.
func (a *App) ReadmeFile() string { return a.config.ReadmeFile }

// APIURL returns the download API base URL.
func (a *App) APIURL() string { return a.config.APIURL }

// ReleaseTrack returns the release track queried for downloads.
func (a *App) ReleaseTrack() string { return a.config.ReleaseTrack }

// Quiet reports whether user-facing status lines are suppressed.
func (a *App) Quiet() bool { return a.config.Quiet }

// Catalog returns the platform catalog, loading it lazily.
func (a *App) Catalog() (*platforms.Catalog, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.catalog != nil {
		return a.catalog, nil
	}

	catalog, err := platforms.Load()
	if err != nil {
		return nil, err
	}
	a.catalog = catalog
	return catalog, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithCatalog sets a custom platform catalog (useful for testing).
func WithCatalog(catalog *platforms.Catalog) Option {
	return func(a *App) error {
		a.catalog = catalog
		return nil
	}
}
