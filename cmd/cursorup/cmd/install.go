package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"cursorup/internal/cmd/application"
	"cursorup/internal/install"
	"cursorup/pkg/constants"
	"cursorup/pkg/errors"
	"cursorup/pkg/fetch"
	"cursorup/pkg/history"
	"cursorup/pkg/logging"
)

// NewInstallCommand creates the install command using app context.
func NewInstallCommand(app application.Application) *cobra.Command {
	var noProgressBar bool

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Download and install the latest Linux build",
		Long: `Install downloads the latest Linux x64 AppImage and places it at
/usr/local/bin/cursor when run as root, or ~/.local/bin/cursor otherwise.
The desktop launcher entry and the installed-version files are updated
afterwards.

The version to install comes from the newest entry of the history store
when one exists; otherwise the download API is queried directly. The
README is never touched.`,
		Example: `  cursorup install                          # Install or update Cursor
  sudo cursorup install                     # System-wide install
  cursorup install --no-progress-bar        # For non-interactive use`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx := logging.WithLogger(c.Context(), app.Logger())
			status := statusWriter(app)

			entry, err := latestEntry(ctx, app)
			if err != nil {
				return err
			}

			installer := install.New(
				install.WithAlerts(status),
				install.WithProgress(!noProgressBar && !app.Quiet()),
			)

			ctx, cancel := context.WithTimeout(ctx, constants.DownloadTimeout)
			defer cancel()

			if err := installer.Update(ctx, entry); err != nil {
				if errors.IsUpToDate(err) {
					return nil
				}
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noProgressBar, "no-progress-bar", false, "disable the download progress output")

	return cmd
}

// latestEntry returns the newest store entry, falling back to a direct
// API resolution of the Linux platform when the store is empty or has no
// Linux URL.
func latestEntry(ctx context.Context, app application.Application) (history.Entry, error) {
	store := history.Load(app.HistoryFile())
	if newest, ok := store.Newest(); ok {
		if url := newest.Platforms[install.LinuxPlatformID]; url != "" {
			return newest, nil
		}
	}

	fetcher := fetch.New(
		fetch.WithAPIURL(app.APIURL()),
		fetch.WithReleaseTrack(app.ReleaseTrack()),
	)
	rec, err := fetcher.Resolve(ctx, install.LinuxPlatformID)
	if err != nil {
		return history.Entry{}, err
	}
	if rec.Version == "" {
		return history.Entry{}, errors.ErrNoData
	}

	return history.Entry{
		Version:   rec.Version,
		Date:      time.Now().Format(constants.TimeFormatDate),
		Platforms: map[string]string{rec.Platform: rec.URL},
	}, nil
}
