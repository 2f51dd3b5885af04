package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	envConfigDir = "MENTIONPAD_CONFIG_DIR"
	appDirName   = "mentionpad"
)

// Dir returns the directory holding settings, bindings and history.
// MENTIONPAD_CONFIG_DIR wins over the platform config location; when neither
// is usable a dot-directory in the working directory is used.
func Dir() string {
	if dir := strings.TrimSpace(os.Getenv(envConfigDir)); dir != "" {
		return dir
	}
	if base, err := os.UserConfigDir(); err == nil && base != "" {
		return filepath.Join(base, appDirName)
	}
	return "." + appDirName
}

func HistoryPath() string {
	return filepath.Join(Dir(), "history.json")
}

func LogPath() string {
	return filepath.Join(Dir(), "mentionpad.log")
}

func ThemesDir() string {
	return filepath.Join(Dir(), "themes")
}
