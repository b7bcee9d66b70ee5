package server

import (
	"context"
	"fmt"
	"net"
	"time"

	"lsp-navigator/src/internal/common"
)

const (
	// dialTimeout bounds the whole connect phase, retries included
	dialTimeout       = 30 * time.Second
	dialAttemptWindow = 2 * time.Second
	dialRetryInterval = 200 * time.Millisecond
)

// dialServer connects to a TCP language server, retrying while the server
// process is still coming up.
func dialServer(ctx context.Context, addr string) (net.Conn, error) {
	dialCtx, cancel := common.WithTimeout(ctx, dialTimeout)
	defer cancel()

	dialer := net.Dialer{Timeout: dialAttemptWindow}
	var lastErr error
	for {
		conn, err := dialer.DialContext(dialCtx, "tcp", addr)
		if err == nil {
			common.LSPLogger.Debug("Connected to language server at %s", addr)
			return conn, nil
		}
		lastErr = err

		select {
		case <-dialCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("failed to connect to server socket %s: %w", addr, lastErr)
		case <-time.After(dialRetryInterval):
		}
	}
}
