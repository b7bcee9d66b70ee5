package process

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"lsp-navigator/src/internal/common"
	"lsp-navigator/src/internal/errors"
	"lsp-navigator/src/internal/types"
)

const (
	// ShutdownTimeout bounds how long a stopped server may take to exit on its own
	ShutdownTimeout = 5 * time.Second

	shutdownRequestTimeout = 2 * time.Second
	exitNotifyTimeout      = 1 * time.Second
)

// ProcessInfo holds information about a running language server process
type ProcessInfo struct {
	Cmd      *exec.Cmd
	Stdin    io.WriteCloser
	Stdout   io.ReadCloser
	Stderr   io.ReadCloser
	StopCh   chan struct{}
	Language string

	mu              sync.Mutex
	active          bool
	intentionalStop bool
	stopOnce        sync.Once
	exited          chan struct{}
	exitErr         error
}

// SetActive marks the process as serving requests
func (info *ProcessInfo) SetActive(active bool) {
	info.mu.Lock()
	info.active = active
	info.mu.Unlock()
}

// Active reports whether the process was serving requests
func (info *ProcessInfo) Active() bool {
	info.mu.Lock()
	defer info.mu.Unlock()
	return info.active
}

// IntentionalStop reports whether StopProcess was called
func (info *ProcessInfo) IntentionalStop() bool {
	info.mu.Lock()
	defer info.mu.Unlock()
	return info.intentionalStop
}

// Exited is closed once the process has been reaped
func (info *ProcessInfo) Exited() <-chan struct{} {
	return info.exited
}

func (info *ProcessInfo) closeStop() {
	info.stopOnce.Do(func() { close(info.StopCh) })
}

// ShutdownSender sends the LSP shutdown sequence
type ShutdownSender interface {
	SendShutdownRequest(ctx context.Context) error
	SendExitNotification(ctx context.Context) error
}

// ProcessManager manages the language server process lifecycle
type ProcessManager interface {
	StartProcess(config types.ClientConfig, language string) (*ProcessInfo, error)
	StopProcess(info *ProcessInfo, sender ShutdownSender) error
	MonitorProcess(info *ProcessInfo, onExit func(error))
	CleanupProcess(info *ProcessInfo)
}

// LSPProcessManager implements ProcessManager with os/exec
type LSPProcessManager struct{}

// NewLSPProcessManager creates a new process manager
func NewLSPProcessManager() *LSPProcessManager {
	return &LSPProcessManager{}
}

// StartProcess launches the server with piped stdio
func (pm *LSPProcessManager) StartProcess(config types.ClientConfig, language string) (*ProcessInfo, error) {
	if config.Command == "" {
		return nil, errors.NewProcessError(language, config.Command, "start", fmt.Errorf("empty command"))
	}

	dir, err := common.ResolveWorkingDir(config.WorkingDir)
	if err != nil {
		return nil, errors.NewProcessError(language, config.Command, "start", err)
	}
	cmd := exec.Command(config.Command, config.Args...)
	cmd.Dir = dir

	info := &ProcessInfo{
		Cmd:      cmd,
		StopCh:   make(chan struct{}),
		Language: language,
		exited:   make(chan struct{}),
	}

	info.Stdin, err = cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}

	info.Stdout, err = cmd.StdoutPipe()
	if err != nil {
		info.Stdin.Close()
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	info.Stderr, err = cmd.StderrPipe()
	if err != nil {
		info.Stdin.Close()
		info.Stdout.Close()
		return nil, fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		pm.CleanupProcess(info)
		return nil, errors.NewProcessError(language, config.Command, "start", err)
	}

	// Single reaper; everyone else waits on info.exited.
	go func() {
		info.exitErr = cmd.Wait()
		close(info.exited)
	}()

	common.LSPLogger.Info("Started LSP server process for %s: PID %d", language, cmd.Process.Pid)
	return info, nil
}

// StopProcess sends shutdown/exit through sender, waits for the process to
// exit and kills it once the platform grace period runs out.
func (pm *LSPProcessManager) StopProcess(info *ProcessInfo, sender ShutdownSender) error {
	if info == nil {
		return nil
	}

	info.mu.Lock()
	info.intentionalStop = true
	info.mu.Unlock()

	if sender != nil {
		pm.sendShutdown(sender)
	}

	info.closeStop()
	info.SetActive(false)

	if info.Cmd != nil && info.Cmd.Process != nil {
		select {
		case <-info.exited:
		case <-time.After(killGracePeriod):
			common.LSPLogger.Debug("LSP server %s did not exit within %v, force killing", info.Language, killGracePeriod)
			if err := info.Cmd.Process.Kill(); err != nil && !isExpectedKillError(err) {
				common.LSPLogger.Debug("Failed to kill LSP server %s: %v", info.Language, err)
			}
			select {
			case <-info.exited:
			case <-time.After(ShutdownTimeout):
				common.LSPLogger.Warn("LSP server %s process did not terminate after kill", info.Language)
			}
		}
	}

	pm.CleanupProcess(info)
	return nil
}

// MonitorProcess blocks until the process exits and reports it through onExit
func (pm *LSPProcessManager) MonitorProcess(info *ProcessInfo, onExit func(error)) {
	if info == nil || info.Cmd == nil || info.Cmd.Process == nil {
		common.LSPLogger.Error("MonitorProcess called with nil process info or command")
		if onExit != nil {
			onExit(fmt.Errorf("invalid process info"))
		}
		return
	}

	<-info.exited
	err := info.exitErr
	wasActive := info.Active()

	switch {
	case info.IntentionalStop():
		common.LSPLogger.Debug("LSP server %s stopped", info.Language)
	case err != nil && wasActive:
		common.LSPLogger.Error("LSP server %s crashed unexpectedly: %v", info.Language, err)
	case err != nil:
		common.LSPLogger.Warn("LSP server %s failed to start: %v", info.Language, err)
	default:
		common.LSPLogger.Info("LSP server %s exited", info.Language)
	}

	info.closeStop()
	info.SetActive(false)

	if onExit != nil {
		onExit(err)
	}
}

// CleanupProcess closes all pipes
func (pm *LSPProcessManager) CleanupProcess(info *ProcessInfo) {
	if info == nil {
		return
	}

	info.mu.Lock()
	defer info.mu.Unlock()
	if info.Stdin != nil {
		info.Stdin.Close()
		info.Stdin = nil
	}
	if info.Stdout != nil {
		info.Stdout.Close()
		info.Stdout = nil
	}
	if info.Stderr != nil {
		info.Stderr.Close()
		info.Stderr = nil
	}
}

func (pm *LSPProcessManager) sendShutdown(sender ShutdownSender) {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownRequestTimeout)
	defer shutdownCancel()
	_ = sender.SendShutdownRequest(shutdownCtx)

	exitCtx, exitCancel := context.WithTimeout(context.Background(), exitNotifyTimeout)
	defer exitCancel()
	_ = sender.SendExitNotification(exitCtx)
}
