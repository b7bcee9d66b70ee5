package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultConfigCoversRegistry(t *testing.T) {
	cfg := GetDefaultConfig()

	require.Contains(t, cfg.Servers, "go")
	assert.Equal(t, "gopls", cfg.Servers["go"].Command)
	assert.Equal(t, []string{"serve"}, cfg.Servers["go"].Args)
	require.Contains(t, cfg.Servers, "csharp")
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
}

func TestParseConfig(t *testing.T) {
	data := []byte(`
workspace_root: /work
request_timeout: 5s
log_level: debug
servers:
  go:
    command: gopls
    args: [serve]
`)
	cfg, err := ParseConfig(data)
	require.NoError(t, err)
	assert.Equal(t, "/work", cfg.WorkspaceRoot)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "gopls", cfg.Servers["go"].Command)
}

func TestParseConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing servers", "workspace_root: /x\n"},
		{"missing command", "servers:\n  go:\n    args: [serve]\n"},
		{"bad log level", "log_level: loud\nservers:\n  go:\n    command: gopls\n"},
		{"negative timeout", "request_timeout: -1s\nservers:\n  go:\n    command: gopls\n"},
		{"not yaml", "servers: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := GetDefaultConfig()
	cfg.WorkspaceRoot = "/repo"
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/repo", loaded.WorkspaceRoot)
	assert.Equal(t, cfg.Servers["go"].Command, loaded.Servers["go"].Command)
}

func TestClientConfigFor(t *testing.T) {
	cfg := &Config{
		WorkspaceRoot: "/repo",
		Servers: map[string]*ServerConfig{
			"go":     {Command: "gopls", Args: []string{"serve"}},
			"custom": {Command: "my-ls", WorkingDir: "/elsewhere"},
		},
	}

	goCfg, err := cfg.ClientConfigFor("go")
	require.NoError(t, err)
	assert.Equal(t, "gopls", goCfg.Command)
	assert.Equal(t, "/repo", goCfg.WorkingDir)
	assert.Equal(t, 15*time.Second, goCfg.RequestTimeout, "falls back to the registry timeout")
	assert.NotNil(t, goCfg.InitializationOptions)

	customCfg, err := cfg.ClientConfigFor("custom")
	require.NoError(t, err)
	assert.Equal(t, "/elsewhere", customCfg.WorkingDir)
	assert.Zero(t, customCfg.RequestTimeout)

	_, err = cfg.ClientConfigFor("python")
	assert.Error(t, err)
}
