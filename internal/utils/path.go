package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/bastiangx/suggestd/pkg/dataset"
	"github.com/charmbracelet/log"
)

// AppName names the config directory and default config file.
const AppName = "suggestd"

// ConfigDir returns the platform config directory for suggestd.
func ConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, AppName)
		}
		return filepath.Join(homeDir, ".config", AppName)
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, AppName)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", AppName)
	default:
		return filepath.Join(homeDir, ".config", AppName)
	}
}

// ResolveDataDir finds the directory holding the dataset files.
// It tries, in order:
// 1. the given path as is (absolute, or relative to the working directory)
// 2. the given path relative to the executable directory
// 3. data/ next to the executable, one level up, and in the config directory
// The first candidate containing at least one dataset file wins. When none
// does, the given path is returned unchanged so the caller can report it.
func ResolveDataDir(userSpecifiedPath string) string {
	for _, path := range DataDirCandidates(userSpecifiedPath) {
		if IsDataDir(path) {
			log.Debugf("Found valid data directory: %s", path)
			return path
		}
		log.Debugf("Data directory candidate not valid: %s", path)
	}
	return userSpecifiedPath
}

// DataDirCandidates lists the directories ResolveDataDir probes, in order.
func DataDirCandidates(userSpecifiedPath string) []string {
	candidates := []string{userSpecifiedPath}

	execDir, err := GetExecutableDir()
	if err == nil && !filepath.IsAbs(userSpecifiedPath) {
		candidates = append(candidates, filepath.Join(execDir, userSpecifiedPath))
	}
	if err == nil {
		candidates = append(candidates,
			filepath.Join(execDir, "data"),
			filepath.Join(filepath.Dir(execDir), "data"),
		)
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(ConfigDir(homeDir), "data"))
	}
	return candidates
}

// IsDataDir reports whether path is a directory with at least one dataset file.
func IsDataDir(path string) bool {
	entries, err := os.ReadDir(path)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !e.IsDir() && dataset.IsDatasetFile(e.Name()) {
			return true
		}
	}
	return false
}
