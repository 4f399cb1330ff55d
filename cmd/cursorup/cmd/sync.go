// Package cmd implements the cursorup CLI subcommands. Each command is
// constructed against the application.Application interface so it can be
// exercised in tests with a mock.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cursorup/internal/cmd/alerts"
	"cursorup/internal/cmd/application"
	"cursorup/pkg/constants"
	"cursorup/pkg/errors"
	"cursorup/pkg/fetch"
	"cursorup/pkg/logging"
	"cursorup/pkg/reconcile"
)

// NewSyncCommand creates the sync command using app context.
func NewSyncCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Resolve latest download links and regenerate the README",
		Long: `Sync queries the download API for every supported platform, merges any
newly discovered version into the history store, and regenerates the
version tables of the README between their marker comments.

Per-platform failures are absorbed; the run aborts only when no platform
resolves at all. The README is regenerated even when no new version was
found, keeping it consistent with the store.`,
		Example: `  cursorup sync                             # Sync store and README in CWD
  cursorup sync --history-file data/history.json --readme-file docs/README.md`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(c.Context(), constants.SyncTimeout)
			defer cancel()
			ctx = logging.WithLogger(ctx, app.Logger())
			status := statusWriter(app)

			catalog, err := app.Catalog()
			if err != nil {
				return err
			}

			pipeline, err := reconcile.New(reconcile.Config{
				Catalog: catalog,
				Fetcher: fetch.New(
					fetch.WithAPIURL(app.APIURL()),
					fetch.WithReleaseTrack(app.ReleaseTrack()),
				),
				HistoryFile: app.HistoryFile(),
				ReadmeFile:  app.ReadmeFile(),
			})
			if err != nil {
				return err
			}

			_ = status.WriteAlert(alerts.New(alerts.LevelProgress, "Checking for Cursor updates"))

			result, err := pipeline.Run(ctx)
			if err != nil {
				if errors.IsNoData(err) {
					_ = status.WriteAlert(alerts.NewError("No platform resolved any version information"))
				}
				return err
			}

			if result.Failed > 0 {
				_ = status.WriteAlert(alerts.NewWarning(
					fmt.Sprintf("%d of %d platforms failed to resolve", result.Failed, result.Resolved+result.Failed)))
			}
			if result.NewVersion {
				_ = status.WriteAlert(alerts.NewSuccess(
					fmt.Sprintf("New version %s recorded (%d platforms resolved)", result.Version, result.Resolved)))
			} else {
				_ = status.WriteAlert(alerts.NewInfo(
					fmt.Sprintf("Version %s already recorded, README regenerated", result.Version)))
			}
			if result.Repaired {
				_ = status.WriteAlert(alerts.NewWarning("History store repaired from README contents"))
			}
			return nil
		},
	}
}

// statusWriter returns the user-facing status destination, discarding
// output in quiet mode.
func statusWriter(app application.Application) alerts.Writer {
	if app.Quiet() {
		return alerts.DiscardWriter
	}
	return alerts.NewWriterTo(os.Stdout)
}
