//go:build !windows
// +build !windows

package process

import (
	"errors"
	"os"
	"syscall"
)

// killGracePeriod is how long a server gets to honor exit before SIGKILL
var killGracePeriod = ShutdownTimeout

// isExpectedKillError reports kill failures caused by the process already being gone
func isExpectedKillError(err error) bool {
	if errors.Is(err, os.ErrProcessDone) {
		return true
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.ESRCH || errno == syscall.ECHILD
	}
	return false
}
