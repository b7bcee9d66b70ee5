package common

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewSafeLoggerLevels(t *testing.T) {
	t.Setenv(DebugEnvVar, "")
	l := NewSafeLogger("TEST")
	assert.Equal(t, LogInfo, l.Level())

	t.Setenv(DebugEnvVar, "true")
	l2 := NewSafeLogger("TEST")
	assert.Equal(t, LogDebug, l2.Level())
}

func TestSafeLoggerRespectsLevel(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewSafeLogger("TEST")
	l.WithZap(zap.New(core))
	l.SetLevel(LogWarn)

	l.Debug("hidden %d", 1)
	l.Info("hidden %d", 2)
	l.Warn("shown %d", 3)
	l.Error("shown %d", 4)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "shown 3", entries[0].Message)
	assert.Equal(t, "TEST", entries[0].LoggerName)
	assert.Equal(t, "shown 4", entries[1].Message)
}

func TestLoggerWritesToStderr(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	oldErr := os.Stderr
	os.Stderr = w
	l := NewSafeLogger("TEST")
	os.Stderr = oldErr

	l.Info("hello")
	_ = l.Sync()
	w.Close()
	buf := make([]byte, 1024)
	n, _ := r.Read(buf)
	s := string(buf[:n])
	assert.Contains(t, s, "TEST")
	assert.Contains(t, s, "hello")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LogDebug, false},
		{"INFO", LogInfo, false},
		{"", LogInfo, false},
		{"warning", LogWarn, false},
		{"error", LogError, false},
		{"verbose", LogInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLogLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeErrorForLogging(t *testing.T) {
	assert.Equal(t, "", SanitizeErrorForLogging(nil))

	long := strings.Repeat("x", 250)
	assert.True(t, strings.HasSuffix(SanitizeErrorForLogging(long), "..."))

	ts := "TypeScript Server Error: x\n  at a\n  at b"
	assert.Equal(t, "TypeScript Server Error: x", SanitizeErrorForLogging(ts))

	assert.Equal(t, "boom", SanitizeErrorForLogging(errors.New("boom")))
}
