// Package appdir locates the per-user directory holding tlstr state such
// as the log database.
package appdir

import (
	"os"
	"path/filepath"
	"sync"
)

const dirName = ".typelib-go"

var (
	appDirOnce  sync.Once
	appDirCache string
)

// AppDir returns ~/.typelib-go, or ./.typelib-go when the home directory
// can't be determined. TLSTR_HOME overrides both.
func AppDir() string {
	appDirOnce.Do(func() {
		if dir := os.Getenv("TLSTR_HOME"); dir != "" {
			appDirCache = dir
			return
		}
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		appDirCache = filepath.Join(home, dirName)
	})
	return appDirCache
}

// Path joins name onto AppDir unless it is already absolute.
func Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(AppDir(), name)
}

// EnsureDir creates AppDir if it does not exist yet.
func EnsureDir() error {
	return os.MkdirAll(AppDir(), 0o755)
}
