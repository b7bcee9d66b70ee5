package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// toolsDirName is the per-user directory holding locally installed servers
const toolsDirName = ".lsp-navigator"

// ResolveWorkingDir validates and normalizes the directory a server process
// runs in. An empty dir means the current directory, falling back to the
// system temp directory when that cannot be determined.
func ResolveWorkingDir(dir string) (string, error) {
	if dir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd, nil
		}
		return os.TempDir(), nil
	}

	expanded, err := ExpandPath(dir)
	if err != nil {
		return "", fmt.Errorf("failed to expand working directory path '%s': %w", dir, err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for working directory '%s': %w", expanded, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("working directory '%s' does not exist: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("working directory '%s' is not a directory", abs)
	}
	return abs, nil
}

// ToolRoot returns ~/.lsp-navigator/tools/{language}
func ToolRoot(language string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", toolsDirName, "tools", language)
	}
	return filepath.Join(home, toolsDirName, "tools", language)
}

// ExpandPath expands a leading ~ to the user's home directory
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path, fmt.Errorf("failed to get user home directory: %w", err)
	}

	if path == "~" {
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
