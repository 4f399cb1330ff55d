// Package install downloads the Linux AppImage for a version entry and
// places it at an OS-appropriate path, together with the desktop entry and
// installed-version bookkeeping. It is the collaborator of the
// reconciliation pipeline, consuming the history store it maintains.
package install

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cursorup/internal/cmd/alerts"
	"cursorup/internal/transport"
	"cursorup/pkg/constants"
	"cursorup/pkg/errors"
	"cursorup/pkg/history"
	"cursorup/pkg/logging"
	"cursorup/pkg/versions"
)

// LinuxPlatformID is the platform whose artifact this installer places.
const LinuxPlatformID = "linux-x64"

// Installer performs one download-and-place cycle.
type Installer struct {
	client   *transport.Client
	alerts   alerts.Writer
	out      io.Writer
	progress bool

	// overridable for tests
	home   func() (string, error)
	isRoot func() bool
}

// Option is a functional option for configuring the Installer.
type Option func(*Installer)

// WithAlerts sets the status-line writer.
func WithAlerts(w alerts.Writer) Option {
	return func(i *Installer) {
		if w != nil {
			i.alerts = w
		}
	}
}

// WithProgress enables or disables the download percentage output.
func WithProgress(enabled bool) Option {
	return func(i *Installer) { i.progress = enabled }
}

// WithClient overrides the transport client. Used by tests.
func WithClient(c *transport.Client) Option {
	return func(i *Installer) {
		if c != nil {
			i.client = c
		}
	}
}

// WithHomeFunc overrides home-directory resolution. Used by tests.
func WithHomeFunc(f func() (string, error)) Option {
	return func(i *Installer) {
		if f != nil {
			i.home = f
		}
	}
}

// WithRootFunc overrides the privilege check. Used by tests.
func WithRootFunc(f func() bool) Option {
	return func(i *Installer) {
		if f != nil {
			i.isRoot = f
		}
	}
}

// New creates an Installer.
func New(opts ...Option) *Installer {
	i := &Installer{
		client:   transport.New(),
		alerts:   alerts.NewWriterTo(os.Stdout),
		out:      os.Stdout,
		progress: true,
		home:     resolveHome,
		isRoot:   func() bool { return os.Geteuid() == 0 },
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Update installs the given entry's Linux artifact unless the recorded
// installed version is already current. Returns errors.ErrUpToDate when
// nothing needs doing.
func (i *Installer) Update(ctx context.Context, entry history.Entry) error {
	current := i.CurrentVersion()
	if !versions.ShouldUpdate(current, entry.Version) {
		_ = i.alerts.WriteAlert(alerts.NewSuccess(
			fmt.Sprintf("Cursor is already up to date (version %s)", current)))
		return errors.ErrUpToDate
	}

	url, ok := entry.Platforms[LinuxPlatformID]
	if !ok || url == "" {
		return errors.NewInstallError("download", "",
			errors.New("no "+LinuxPlatformID+" URL for version "+entry.Version))
	}

	i.warnConflicts()

	_ = i.alerts.WriteAlert(alerts.New(alerts.LevelProgress,
		fmt.Sprintf("Downloading Cursor %s", entry.Version)))
	artifact, err := i.Download(ctx, url)
	if err != nil {
		return err
	}

	if err := os.Chmod(artifact, constants.ExecutablePermissions); err != nil {
		_ = os.Remove(artifact)
		return errors.NewInstallError("chmod", artifact, err)
	}

	target, err := i.Place(artifact)
	if err != nil {
		_ = os.Remove(artifact)
		return err
	}
	_ = i.alerts.WriteAlert(alerts.NewSuccess("Cursor installed to " + target))

	// Desktop entry and version files are conveniences; their failures are
	// warnings, not run failures.
	if err := i.UpdateDesktopEntry(target); err != nil {
		_ = i.alerts.WriteAlert(alerts.NewWarning("Could not update desktop entry").WithError(err))
	}
	i.WriteVersionFiles(entry.Version)

	return nil
}

// CurrentVersion reads the recorded installed version, checking the
// system-wide location first, then the per-user one, then the working
// directory. Returns "" when no version file is readable.
func (i *Installer) CurrentVersion() string {
	var candidates []string
	candidates = append(candidates, constants.PrimaryVersionFile)
	if home, err := i.home(); err == nil {
		candidates = append(candidates, filepath.Join(home, constants.UserBinDir, constants.UserVersionFileName))
	}
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, constants.UserVersionFileName))
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		v := strings.TrimSpace(string(data))
		if v != "" {
			logging.Debug().Str("path", path).Str("version", v).Msg("Found installed version")
			return v
		}
	}
	return ""
}

// Download streams the artifact to a temp .AppImage file, reporting
// percentage progress when enabled and the server sent a length.
func (i *Installer) Download(ctx context.Context, url string) (string, error) {
	resp, err := i.client.Stream(ctx, url)
	if err != nil {
		return "", errors.NewInstallError("download", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != 200 {
		return "", errors.NewInstallError("download", url,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	tmp, err := os.CreateTemp("", "cursor-*.AppImage")
	if err != nil {
		return "", errors.NewInstallError("download", "", err)
	}
	tmpPath := tmp.Name()

	total := resp.ContentLength
	var downloaded int64
	buf := make([]byte, constants.DownloadChunkSize)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, err := tmp.Write(buf[:n]); err != nil {
				_ = tmp.Close()
				_ = os.Remove(tmpPath)
				return "", errors.NewInstallError("download", tmpPath, err)
			}
			downloaded += int64(n)
			if i.progress && total > 0 {
				fmt.Fprintf(i.out, "\r📥 Downloading... %.1f%%", float64(downloaded)/float64(total)*100)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
			return "", errors.NewInstallError("download", url, readErr)
		}
	}
	if i.progress && total > 0 {
		fmt.Fprintln(i.out)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", errors.NewInstallError("download", tmpPath, err)
	}
	return tmpPath, nil
}

// Place moves the artifact to the install path: /usr/local/bin/cursor when
// running as root, ~/.local/bin/cursor otherwise.
func (i *Installer) Place(artifact string) (string, error) {
	var target string
	if i.isRoot() {
		target = constants.SystemInstallPath
	} else {
		home, err := i.home()
		if err != nil {
			return "", errors.NewInstallError("move", "", err)
		}
		target = filepath.Join(home, constants.UserBinDir, "cursor")
	}

	if err := os.MkdirAll(filepath.Dir(target), constants.DirPermissions); err != nil {
		return "", errors.NewInstallError("move", target, err)
	}
	if err := moveFile(artifact, target); err != nil {
		return "", errors.NewInstallError("move", target, err)
	}
	if err := os.Chmod(target, constants.ExecutablePermissions); err != nil {
		return "", errors.NewInstallError("chmod", target, err)
	}
	return target, nil
}

// WriteVersionFiles records the installed version in the primary location
// and the per-user backward-compatible one. Failures are warnings only.
func (i *Installer) WriteVersionFiles(version string) {
	paths := []string{constants.PrimaryVersionFile}
	if home, err := i.home(); err == nil {
		paths = append(paths, filepath.Join(home, constants.UserBinDir, constants.UserVersionFileName))
	}

	for _, path := range paths {
		if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
			_ = i.alerts.WriteAlert(alerts.NewWarning("Could not create " + filepath.Dir(path)).WithError(err))
			continue
		}
		if err := os.WriteFile(path, []byte(version), constants.FilePermissions); err != nil {
			_ = i.alerts.WriteAlert(alerts.NewWarning("Could not write version file " + path).WithError(err))
			continue
		}
		logging.Debug().Str("path", path).Str("version", version).Msg("Version file updated")
	}
}

// warnConflicts reports mixed system and user installations.
func (i *Installer) warnConflicts() {
	home, err := i.home()
	if err != nil {
		return
	}
	userCursor := filepath.Join(home, constants.UserBinDir, "cursor")
	systemExists := fileExists(constants.SystemInstallPath)
	userExists := fileExists(userCursor)

	var conflicts []string
	if systemExists && userExists {
		conflicts = append(conflicts, "Both system-wide and user-specific installations found")
	}
	if i.isRoot() && userExists {
		conflicts = append(conflicts, "Running as root but a user-specific installation exists")
	}
	if !i.isRoot() && systemExists {
		conflicts = append(conflicts, "Running without root but a system-wide installation exists")
	}

	if len(conflicts) > 0 {
		_ = i.alerts.WriteAlert(alerts.NewWarning("Potential installation conflicts detected").
			WithDetails(conflicts...))
	}
}

// resolveHome returns the invoking user's home directory. Under sudo the
// original user's home is used, not root's.
func resolveHome() (string, error) {
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" {
		return filepath.Join("/home", sudoUser), nil
	}
	return os.UserHomeDir()
}

// moveFile renames src to dst, falling back to copy-and-remove when the
// paths are on different filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}

// fileExists reports whether the path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
