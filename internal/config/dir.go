// Package config resolves vitae settings from defaults, the environment and env files.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the vitae configuration directory.
//
// Resolution:
//   - $VITAE_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/vitae if set (respects XDG on any platform)
//   - %AppData%/vitae on Windows
//   - ~/.config/vitae on macOS and Linux
func Dir() string {
	if dir := os.Getenv(EnvConfigHome); dir != "" {
		return dir
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "vitae")
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "vitae")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "vitae")
}

// EnvFiles returns the env files to load, highest priority first:
// ./.env.local, ./.env, then <Dir>/env.
func EnvFiles() []string {
	files := []string{".env.local", ".env"}
	if dir := Dir(); dir != "" {
		files = append(files, filepath.Join(dir, "env"))
	}
	return files
}
