package install

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"cursorup/pkg/constants"
	"cursorup/pkg/errors"
	"cursorup/pkg/logging"
)

var execLineRe = regexp.MustCompile(`(?m)^Exec=.*$`)

// desktopTemplate is the entry written when none exists yet. The
// --no-sandbox flag is required for AppImage builds on most distros.
const desktopTemplate = `[Desktop Entry]
Name=Cursor
Exec=%s --no-sandbox
Icon=cursor
Type=Application
Categories=Development;IDE;
Comment=AI-first code editor
Terminal=false
StartupWMClass=Cursor
`

// UpdateDesktopEntry creates or updates the launcher entry so its Exec
// line points at the installed binary. An existing entry keeps all its
// other fields.
func (i *Installer) UpdateDesktopEntry(target string) error {
	home, err := i.home()
	if err != nil {
		return errors.NewInstallError("desktop-entry", "", err)
	}
	entryPath := filepath.Join(home, constants.DesktopEntryRelPath)

	if err := os.MkdirAll(filepath.Dir(entryPath), constants.DirPermissions); err != nil {
		return errors.NewInstallError("desktop-entry", entryPath, err)
	}

	execLine := fmt.Sprintf("Exec=%s --no-sandbox", target)

	existing, err := os.ReadFile(entryPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return errors.NewInstallError("desktop-entry", entryPath, err)
		}
		content := fmt.Sprintf(desktopTemplate, target)
		if err := os.WriteFile(entryPath, []byte(content), constants.FilePermissions); err != nil {
			return errors.NewInstallError("desktop-entry", entryPath, err)
		}
		logging.Debug().Str("path", entryPath).Msg("Desktop entry created")
		return nil
	}

	updated := existing
	if execLineRe.Match(existing) {
		updated = execLineRe.ReplaceAll(existing, []byte(execLine))
	} else {
		updated = append(existing, []byte("\n"+execLine+"\n")...)
	}
	if err := os.WriteFile(entryPath, updated, constants.FilePermissions); err != nil {
		return errors.NewInstallError("desktop-entry", entryPath, err)
	}
	logging.Debug().Str("path", entryPath).Msg("Desktop entry updated")
	return nil
}
