package install

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cursorup/internal/cmd/alerts"
	"cursorup/pkg/constants"
	"cursorup/pkg/errors"
	"cursorup/pkg/history"
)

func testInstaller(t *testing.T, home string, root bool, opts ...Option) *Installer {
	t.Helper()
	base := []Option{
		WithAlerts(alerts.DiscardWriter),
		WithProgress(false),
		WithHomeFunc(func() (string, error) { return home, nil }),
		WithRootFunc(func() bool { return root }),
	}
	return New(append(base, opts...)...)
}

func TestCurrentVersion(t *testing.T) {
	t.Run("reads user version file", func(t *testing.T) {
		home := t.TempDir()
		dir := filepath.Join(home, constants.UserBinDir)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, constants.UserVersionFileName), []byte("1.6.27\n"), 0o644))

		i := testInstaller(t, home, false)
		assert.Equal(t, "1.6.27", i.CurrentVersion())
	})

	t.Run("no version files", func(t *testing.T) {
		i := testInstaller(t, t.TempDir(), false)
		assert.Equal(t, "", i.CurrentVersion())
	})
}

func TestUpdate(t *testing.T) {
	payload := []byte("fake appimage payload")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(payload)
	}))
	t.Cleanup(server.Close)

	t.Run("installs to user bin when not root", func(t *testing.T) {
		home := t.TempDir()
		i := testInstaller(t, home, false)

		entry := history.Entry{
			Version:   "1.6.27",
			Date:      "2025-08-01",
			Platforms: map[string]string{LinuxPlatformID: server.URL + "/cursor.AppImage"},
		}
		require.NoError(t, i.Update(context.Background(), entry))

		target := filepath.Join(home, constants.UserBinDir, "cursor")
		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, payload, data)

		info, err := os.Stat(target)
		require.NoError(t, err)
		assert.NotZero(t, info.Mode()&0o111, "binary is executable")

		version, err := os.ReadFile(filepath.Join(home, constants.UserBinDir, constants.UserVersionFileName))
		require.NoError(t, err)
		assert.Equal(t, "1.6.27", string(version))

		desktop, err := os.ReadFile(filepath.Join(home, constants.DesktopEntryRelPath))
		require.NoError(t, err)
		assert.Contains(t, string(desktop), "Exec="+target+" --no-sandbox")
	})

	t.Run("up to date is a sentinel", func(t *testing.T) {
		home := t.TempDir()
		dir := filepath.Join(home, constants.UserBinDir)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, constants.UserVersionFileName), []byte("1.6.27"), 0o644))

		i := testInstaller(t, home, false)
		err := i.Update(context.Background(), history.Entry{Version: "1.6.27"})
		assert.True(t, errors.IsUpToDate(err))
	})

	t.Run("missing linux URL", func(t *testing.T) {
		i := testInstaller(t, t.TempDir(), false)
		err := i.Update(context.Background(), history.Entry{
			Version:   "1.6.27",
			Platforms: map[string]string{"darwin-universal": "https://example.com/x.dmg"},
		})

		require.Error(t, err)
		assert.False(t, errors.IsUpToDate(err))
	})

	t.Run("download failure leaves no binary", func(t *testing.T) {
		failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		t.Cleanup(failing.Close)

		home := t.TempDir()
		i := testInstaller(t, home, false)
		err := i.Update(context.Background(), history.Entry{
			Version:   "1.6.27",
			Platforms: map[string]string{LinuxPlatformID: failing.URL + "/cursor.AppImage"},
		})
		require.Error(t, err)

		_, statErr := os.Stat(filepath.Join(home, constants.UserBinDir, "cursor"))
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestDownloadReportsProgress(t *testing.T) {
	payload := make([]byte, 64*1024)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		_, _ = w.Write(payload)
	}))
	t.Cleanup(server.Close)

	var out captureWriter
	i := New(
		WithAlerts(alerts.DiscardWriter),
		WithProgress(true),
		WithHomeFunc(func() (string, error) { return t.TempDir(), nil }),
	)
	i.out = &out

	path, err := i.Download(context.Background(), server.URL+"/cursor.AppImage")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Remove(path) })

	assert.Contains(t, out.String(), "100.0%")
}

type captureWriter struct {
	data []byte
}

func (w *captureWriter) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}

func (w *captureWriter) String() string { return string(w.data) }
