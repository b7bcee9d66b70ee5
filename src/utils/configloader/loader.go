// Package configloader resolves the configuration a CLI invocation runs with.
package configloader

import (
	"os"
	"path/filepath"

	"lsp-navigator/src/config"
	"lsp-navigator/src/internal/common"
)

// LoadOrDefault loads configPath when given. Otherwise the per-user config
// is tried and the registry defaults are used when it is missing or broken.
func LoadOrDefault(configPath string) (*config.Config, error) {
	if configPath != "" {
		return config.LoadConfig(configPath)
	}

	defaultPath := config.GetDefaultConfigPath()
	if common.FileExists(defaultPath) {
		loaded, err := config.LoadConfig(defaultPath)
		if err == nil {
			return loaded, nil
		}
		common.CLILogger.Warn("Ignoring %s: %v", defaultPath, err)
	}

	common.CLILogger.Debug("Falling back to default config")
	return config.GetDefaultConfig(), nil
}

// LoadForCLI loads configuration for a one-shot CLI lookup. workspaceRoot
// overrides the configured root; with neither, the current directory is used.
func LoadForCLI(configPath, workspaceRoot string) (*config.Config, error) {
	cfg, err := LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}

	if workspaceRoot != "" {
		cfg.WorkspaceRoot = workspaceRoot
	}
	if cfg.WorkspaceRoot == "" {
		if wd, err := os.Getwd(); err == nil {
			cfg.WorkspaceRoot = wd
		}
	}
	if expanded, err := common.ExpandPath(cfg.WorkspaceRoot); err == nil {
		cfg.WorkspaceRoot = expanded
	}
	if abs, err := filepath.Abs(cfg.WorkspaceRoot); err == nil {
		cfg.WorkspaceRoot = abs
	}

	return cfg, nil
}
