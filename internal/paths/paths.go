// Package paths resolves the on-disk locations croissant uses below a
// working directory.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// DirName is the per-directory state directory.
	DirName = ".croissant"
	// ConfigFileName is the config file inside DirName.
	ConfigFileName = "config.json"
	// LogFileName is the CLI log file inside the logs directory.
	LogFileName = "croissant.log"
)

// StateDir returns <workDir>/.croissant.
func StateDir(workDir string) string {
	return filepath.Join(workDir, DirName)
}

// ConfigPath returns <workDir>/.croissant/config.json.
func ConfigPath(workDir string) string {
	return filepath.Join(StateDir(workDir), ConfigFileName)
}

// LogsDir returns <workDir>/.croissant/logs.
func LogsDir(workDir string) string {
	return filepath.Join(StateDir(workDir), "logs")
}

// LogPath returns <workDir>/.croissant/logs/croissant.log.
func LogPath(workDir string) string {
	return filepath.Join(LogsDir(workDir), LogFileName)
}

// EnsureStateDir creates the state directory if needed and returns it.
func EnsureStateDir(workDir string) (string, error) {
	dir := StateDir(workDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// EnsureLogsDir creates the logs directory if needed and returns it.
func EnsureLogsDir(workDir string) (string, error) {
	dir := LogsDir(workDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// NormalizePath converts backslashes to forward slashes for display.
func NormalizePath(path string) string {
	return filepath.ToSlash(path)
}

// Rel returns path relative to workDir when it lies inside it, otherwise path.
func Rel(workDir, path string) string {
	rel, err := filepath.Rel(workDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
