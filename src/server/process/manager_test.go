//go:build !windows

package process

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lsp-navigator/src/internal/errors"
	"lsp-navigator/src/internal/types"
)

type mockShutdownSender struct {
	shutdownCalled bool
	exitCalled     bool
}

func (m *mockShutdownSender) SendShutdownRequest(ctx context.Context) error {
	m.shutdownCalled = true
	return nil
}

func (m *mockShutdownSender) SendExitNotification(ctx context.Context) error {
	m.exitCalled = true
	return nil
}

func TestStartProcess(t *testing.T) {
	tests := []struct {
		name        string
		config      types.ClientConfig
		expectError bool
	}{
		{"valid echo command", types.ClientConfig{Command: "echo", Args: []string{"hello"}}, false},
		{"invalid command", types.ClientConfig{Command: "nonexistentcommand12345"}, true},
		{"empty command", types.ClientConfig{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pm := NewLSPProcessManager()
			info, err := pm.StartProcess(tt.config, "test")
			if tt.expectError {
				require.Error(t, err)
				assert.True(t, errors.IsProcessError(err))
				assert.Nil(t, info)
				return
			}
			require.NoError(t, err)
			defer pm.StopProcess(info, nil)

			assert.Equal(t, "test", info.Language)
			assert.NotNil(t, info.Stdin)
			assert.NotNil(t, info.Stdout)
			assert.NotNil(t, info.Stderr)
			assert.NotNil(t, info.StopCh)
		})
	}
}

func TestStopProcessWithShutdownSender(t *testing.T) {
	pm := NewLSPProcessManager()
	info, err := pm.StartProcess(types.ClientConfig{Command: "sleep", Args: []string{"1"}}, "test")
	require.NoError(t, err)

	sender := &mockShutdownSender{}
	require.NoError(t, pm.StopProcess(info, sender))

	assert.True(t, sender.shutdownCalled)
	assert.True(t, sender.exitCalled)
	assert.True(t, info.IntentionalStop())
	assert.False(t, info.Active())

	select {
	case <-info.StopCh:
	default:
		t.Fatal("stop channel should be closed")
	}

	// Stopping twice is harmless
	assert.NoError(t, pm.StopProcess(info, nil))
}

func TestMonitorProcessReportsExit(t *testing.T) {
	pm := NewLSPProcessManager()
	info, err := pm.StartProcess(types.ClientConfig{Command: "sh", Args: []string{"-c", "exit 3"}}, "test")
	require.NoError(t, err)
	info.SetActive(true)

	exitErr := make(chan error, 1)
	go pm.MonitorProcess(info, func(err error) { exitErr <- err })

	select {
	case err := <-exitErr:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("process monitoring timed out")
	}
	assert.False(t, info.Active())
	pm.CleanupProcess(info)
}

func TestMonitorProcessNilInfo(t *testing.T) {
	var got error
	NewLSPProcessManager().MonitorProcess(nil, func(err error) { got = err })
	assert.Error(t, got)
}

func TestCleanupProcessNil(t *testing.T) {
	assert.NotPanics(t, func() { NewLSPProcessManager().CleanupProcess(nil) })
}
