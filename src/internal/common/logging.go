package common

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarn
	LogError
)

var logLevelNames = map[LogLevel]string{
	LogDebug: "DEBUG",
	LogInfo:  "INFO",
	LogWarn:  "WARN",
	LogError: "ERROR",
}

// String returns the upper-case level name
func (l LogLevel) String() string {
	if name, ok := logLevelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLogLevel converts a level name (debug, info, warn, error) to a LogLevel
func ParseLogLevel(name string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LogDebug, nil
	case "", "info":
		return LogInfo, nil
	case "warn", "warning":
		return LogWarn, nil
	case "error":
		return LogError, nil
	}
	return LogInfo, fmt.Errorf("unknown log level %q", name)
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case LogDebug:
		return zapcore.DebugLevel
	case LogWarn:
		return zapcore.WarnLevel
	case LogError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

const trueStr = "true"

// DebugEnvVar enables debug logging for every logger created after it is set
const DebugEnvVar = "LSP_NAVIGATOR_DEBUG"

// SafeLogger provides STDIO-safe logging that only writes to stderr.
// Stdout belongs to whoever embeds us (and, for stdio servers, to the wire).
type SafeLogger struct {
	prefix string
	level  zap.AtomicLevel

	mu    sync.RWMutex
	sugar *zap.SugaredLogger
}

// NewSafeLogger creates a new safe logger with the given prefix
func NewSafeLogger(prefix string) *SafeLogger {
	initial := LogInfo
	if os.Getenv(DebugEnvVar) == trueStr {
		initial = LogDebug
	}
	level := zap.NewAtomicLevelAt(initial.zapLevel())
	return &SafeLogger{
		prefix: prefix,
		level:  level,
		sugar:  newStderrLogger(level).Named(prefix).Sugar(),
	}
}

func newStderrLogger(level zap.AtomicLevel) *zap.Logger {
	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05"),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.Lock(os.Stderr), level)
	return zap.New(core)
}

// SetLevel sets the minimum log level
func (l *SafeLogger) SetLevel(level LogLevel) {
	l.level.SetLevel(level.zapLevel())
}

// Level returns the current minimum log level
func (l *SafeLogger) Level() LogLevel {
	switch l.level.Level() {
	case zapcore.DebugLevel:
		return LogDebug
	case zapcore.WarnLevel:
		return LogWarn
	case zapcore.ErrorLevel:
		return LogError
	default:
		return LogInfo
	}
}

// Enabled reports whether messages at level would be written
func (l *SafeLogger) Enabled(level LogLevel) bool {
	return l.level.Enabled(level.zapLevel())
}

// WithZap redirects the logger to an existing zap logger, keeping the prefix.
// The level of the supplied logger still applies on top of SetLevel.
func (l *SafeLogger) WithZap(z *zap.Logger) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sugar = z.Named(l.prefix).Sugar()
}

func (l *SafeLogger) logger() *zap.SugaredLogger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sugar
}

// Debug logs a debug message
func (l *SafeLogger) Debug(format string, args ...interface{}) {
	if !l.Enabled(LogDebug) {
		return
	}
	l.logger().Debugf(format, args...)
}

// Info logs an info message
func (l *SafeLogger) Info(format string, args ...interface{}) {
	if !l.Enabled(LogInfo) {
		return
	}
	l.logger().Infof(format, args...)
}

// Warn logs a warning message
func (l *SafeLogger) Warn(format string, args ...interface{}) {
	if !l.Enabled(LogWarn) {
		return
	}
	l.logger().Warnf(format, args...)
}

// Error logs an error message
func (l *SafeLogger) Error(format string, args ...interface{}) {
	if !l.Enabled(LogError) {
		return
	}
	l.logger().Errorf(format, args...)
}

// Sync flushes buffered entries
func (l *SafeLogger) Sync() error {
	return l.logger().Sync()
}

// Global logger instances for convenience
var (
	LSPLogger        = NewSafeLogger("LSP")
	NavigationLogger = NewSafeLogger("Navigation")
	CLILogger        = NewSafeLogger("CLI")
)

// SetGlobalLevel applies level to every package-level logger
func SetGlobalLevel(level LogLevel) {
	for _, l := range []*SafeLogger{LSPLogger, NavigationLogger, CLILogger} {
		l.SetLevel(level)
	}
}

const maxLoggedErrorLength = 200

// SanitizeErrorForLogging flattens an error (or RPC error payload) into a single
// short line so multi-line server stack traces do not flood stderr.
func SanitizeErrorForLogging(err interface{}) string {
	if err == nil {
		return ""
	}
	var msg string
	switch v := err.(type) {
	case error:
		msg = v.Error()
	case string:
		msg = v
	default:
		msg = fmt.Sprintf("%v", v)
	}
	if i := strings.IndexAny(msg, "\r\n"); i >= 0 {
		msg = strings.TrimSpace(msg[:i])
	}
	if len(msg) > maxLoggedErrorLength {
		msg = msg[:maxLoggedErrorLength] + "..."
	}
	return msg
}
