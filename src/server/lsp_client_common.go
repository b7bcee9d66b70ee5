package server

import (
	"fmt"
	"sync"
	"time"

	"lsp-navigator/src/internal/common"
	"lsp-navigator/src/server/protocol"
)

// deliverResponseCommon hands a response to its pending request, and logs
// late or unknown responses.
func deliverResponseCommon(
	id interface{},
	resp rpcResponse,
	requests map[string]*pendingRequest,
	reqsMu *sync.RWMutex,
	timeoutsMu *sync.RWMutex,
	recentTimeouts map[string]time.Time,
	stopCh <-chan struct{},
) {
	idStr := fmt.Sprintf("%v", id)

	reqsMu.RLock()
	req, exists := requests[idStr]
	reqsMu.RUnlock()
	if exists {
		if resp.err != nil && !protocol.IsExpectedSuppressibleError(resp.err) {
			common.LSPLogger.Warn("LSP response contains error: id=%s, error=%s", idStr, common.SanitizeErrorForLogging(resp.err))
		}
		select {
		case req.respCh <- resp:
		case <-req.done:
			common.LSPLogger.Debug("Request already completed when trying to deliver response: id=%s", idStr)
		case <-stopCh:
			common.LSPLogger.Debug("Client stopped when trying to deliver response: id=%s", idStr)
		}
		return
	}

	timeoutsMu.RLock()
	abandonedAt, wasAbandoned := recentTimeouts[idStr]
	timeoutsMu.RUnlock()
	if wasAbandoned && time.Since(abandonedAt) < lateResponseWindow {
		common.LSPLogger.Debug("Received late response for abandoned request: id=%s (%v ago)", idStr, time.Since(abandonedAt))
	} else {
		common.LSPLogger.Warn("No matching request found for response: id=%s", idStr)
	}
}
