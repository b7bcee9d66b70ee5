package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"lsp-navigator/src/internal/common"
	"lsp-navigator/src/internal/registry"
	"lsp-navigator/src/internal/types"
)

// Config contains navigator configuration
type Config struct {
	// WorkspaceRoot is the directory whose files count as known documents.
	// Locations outside it are treated as external documents.
	WorkspaceRoot  string                   `yaml:"workspace_root,omitempty"`
	RequestTimeout time.Duration            `yaml:"request_timeout,omitempty"`
	LogLevel       string                   `yaml:"log_level,omitempty"`
	Servers        map[string]*ServerConfig `yaml:"servers"`
}

// ServerConfig contains configuration for a single LSP server
type ServerConfig struct {
	Command    string   `yaml:"command"`
	Args       []string `yaml:"args"`
	WorkingDir string   `yaml:"working_dir,omitempty"`
	// Address switches the transport to TCP (host:port). With a command the
	// process is started first; without one an already running server is used.
	Address               string      `yaml:"address,omitempty"`
	InitializationOptions interface{} `yaml:"initialization_options,omitempty"`
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := common.SafeReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML configuration bytes
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if config.Servers == nil {
		return fmt.Errorf("servers configuration is required")
	}

	for language, serverConfig := range config.Servers {
		if serverConfig == nil || (serverConfig.Command == "" && serverConfig.Address == "") {
			return fmt.Errorf("command or address is required for language %s", language)
		}
	}

	if config.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}

	if _, err := common.ParseLogLevel(config.LogLevel); err != nil {
		return err
	}

	return nil
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".lsp-navigator", "config.yaml")
}

// GetDefaultConfig returns a configuration with the registry's default servers
func GetDefaultConfig() *Config {
	servers := make(map[string]*ServerConfig)
	for _, name := range registry.GetLanguageNames() {
		lang, _ := registry.GetLanguageByName(name)
		servers[name] = &ServerConfig{
			Command: lang.DefaultCommand,
			Args:    append([]string{}, lang.DefaultArgs...),
		}
	}
	return &Config{
		RequestTimeout: common.DefaultRequestTimeout,
		LogLevel:       "info",
		Servers:        servers,
	}
}

// ClientConfigFor builds the client configuration for language. Request
// timeouts fall back from config to the language registry default.
func (c *Config) ClientConfigFor(language string) (types.ClientConfig, error) {
	server, ok := c.Servers[language]
	if !ok || server == nil {
		return types.ClientConfig{}, fmt.Errorf("no server configured for language %s", language)
	}

	timeout := c.RequestTimeout
	if lang, ok := registry.GetLanguageByName(language); ok {
		if timeout == 0 {
			timeout = lang.RequestTimeout
		}
		if server.InitializationOptions == nil && len(lang.InitializationOptions) > 0 {
			server.InitializationOptions = lang.GetInitOptions()
		}
	}

	workingDir := server.WorkingDir
	if workingDir == "" {
		workingDir = c.WorkspaceRoot
	}

	return types.ClientConfig{
		Command:               server.Command,
		Args:                  append([]string{}, server.Args...),
		WorkingDir:            workingDir,
		Address:               server.Address,
		InitializationOptions: server.InitializationOptions,
		RequestTimeout:        timeout,
	}, nil
}
