// Package constants provides shared constants used throughout the cursorup codebase.
// This includes timeouts, limits, file permissions, and other configuration values
// that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the download API
	DefaultHTTPTimeout = 30 * time.Second

	// DownloadTimeout is the timeout for downloading a full installer artifact
	DownloadTimeout = 15 * time.Minute

	// SyncTimeout is the timeout for one full reconciliation run
	SyncTimeout = 5 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644

	// ExecutablePermissions is for executable files (rwxr-xr-x)
	ExecutablePermissions = 0755
)

// Limit constants define various limits and capacities
const (
	// MaxHistoryEntries is the maximum number of versions retained in the history store.
	// Inserting beyond this cap drops the oldest entries by version order.
	MaxHistoryEntries = 100

	// DownloadChunkSize is the buffer size for streaming installer downloads
	DownloadChunkSize = 8192
)

// Default values
const (
	// DefaultAPIURL is the vendor endpoint that resolves platform download links
	DefaultAPIURL = "https://www.cursor.com/api/download"

	// DefaultReleaseTrack is the release track queried for download links
	DefaultReleaseTrack = "latest"

	// DefaultHistoryFile is the default path of the version-history store
	DefaultHistoryFile = "version-history.json"

	// DefaultReadmeFile is the default path of the rendered document
	DefaultReadmeFile = "README.md"

	// HistoryBackupSuffix is appended to the store path for the previous generation
	HistoryBackupSuffix = ".backup"
)

// Install path constants (Linux installer)
const (
	// SystemInstallPath is where the binary lands when running as root
	SystemInstallPath = "/usr/local/bin/cursor"

	// UserBinDir is the per-user install directory relative to $HOME
	UserBinDir = ".local/bin"

	// DesktopEntryRelPath is the desktop entry path relative to the user home
	DesktopEntryRelPath = ".local/share/applications/cursor.desktop"

	// PrimaryVersionFile records the installed version for system installs
	PrimaryVersionFile = "/opt/cursorup/config/version.txt"

	// UserVersionFileName is the per-user installed-version file under UserBinDir
	UserVersionFileName = "cursor_version.txt"
)

// Format constants
const (
	// TimeFormatDate is the calendar date format used in the history store
	TimeFormatDate = "2006-01-02"
)
