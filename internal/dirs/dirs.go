// Package dirs resolves per-user directories for configuration and application data.
package dirs

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "vidsnatch"

// AppName returns the directory name used under every base directory.
func AppName() string {
	return appName
}

// base describes where one kind of directory lives on each platform.
type base struct {
	xdgEnv    string   // consulted on Linux
	linuxHome []string // fallback under $HOME on Linux
	darwin    []string // under $HOME on macOS
}

var (
	configBase = base{xdgEnv: "XDG_CONFIG_HOME", linuxHome: []string{".config"}, darwin: []string{"Library", "Application Support"}}
	dataBase   = base{xdgEnv: "XDG_DATA_HOME", linuxHome: []string{".local", "share"}, darwin: []string{"Library", "Application Support"}}
)

func (b base) resolve() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv(b.xdgEnv); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(append(append([]string{home}, b.linuxHome...), appName)...), nil
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(append(append([]string{home}, b.darwin...), appName)...), nil
	default:
		cfg, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(cfg, appName), nil
	}
}

// ConfigDir holds config.{yaml,toml,json}.
// Linux: $XDG_CONFIG_HOME/vidsnatch or ~/.config/vidsnatch.
func ConfigDir() (string, error) {
	return configBase.resolve()
}

// DataDir holds the download history database.
// Linux: $XDG_DATA_HOME/vidsnatch or ~/.local/share/vidsnatch.
func DataDir() (string, error) {
	return dataBase.resolve()
}

// HistoryPath is the default location of the history database.
func HistoryPath() (string, error) {
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "history.db"), nil
}

// Ensure creates path and its parents.
func Ensure(path string) error {
	if path == "" {
		return errors.New("empty path")
	}
	return os.MkdirAll(path, 0o755)
}
