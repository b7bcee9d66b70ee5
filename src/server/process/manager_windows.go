//go:build windows
// +build windows

package process

import (
	"errors"
	"os"
	"time"
)

// Windows cannot signal other processes gracefully; after the LSP exit
// notification the server is killed almost immediately.
var killGracePeriod = 500 * time.Millisecond

func isExpectedKillError(err error) bool {
	return errors.Is(err, os.ErrProcessDone)
}
