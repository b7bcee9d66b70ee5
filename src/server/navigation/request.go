package navigation

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"go.lsp.dev/protocol"

	"lsp-navigator/src/internal/common"
	"lsp-navigator/src/internal/errors"
	"lsp-navigator/src/internal/types"
	"lsp-navigator/src/server"
	"lsp-navigator/src/server/documents"
)

// positionRequest is one textDocument/* request anchored at a position
type positionRequest struct {
	method string
	doc    documents.DocumentHandle
	pos    protocol.Position
}

func (r positionRequest) textDocumentPosition() protocol.TextDocumentPositionParams {
	return protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: r.doc.URI()},
		Position:     r.pos,
	}
}

// channelFor returns the channel serving doc's language, or false with the
// outcome to record when there is nothing to ask.
func channelFor(active server.ActiveServer, req positionRequest) (types.Channel, string, bool) {
	if active == nil {
		return nil, outcomeNoServer, false
	}
	ch, ok := active.CurrentChannel(req.doc.Language())
	if !ok || ch == nil {
		common.NavigationLogger.Debug("No active %s server for %s", req.doc.Language(), req.method)
		return nil, outcomeNoServer, false
	}
	if checker, ok := ch.(types.CapabilityChecker); ok && !checker.Supports(req.method) {
		common.NavigationLogger.Debug("%s server does not support %s", req.doc.Language(), req.method)
		return nil, outcomeUnsupported, false
	}
	return ch, "", true
}

// send syncs the document and performs the round trip. A nil result with a
// nil error means the server gave up on the request; the caller treats it as
// no results. A done ctx always wins over whatever the channel returned.
func send(ctx context.Context, ch types.Channel, req positionRequest, params interface{}) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := documents.SyncDocument(ctx, ch, req.doc); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, asTransportError(req, err)
	}

	raw, err := ch.SendRequest(ctx, req.method, params)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		if serverAbandoned(err) {
			common.NavigationLogger.Debug("%s abandoned by server: %v", req.method, err)
			return nil, nil
		}
		return nil, asTransportError(req, err)
	}
	return raw, nil
}

// serverAbandoned reports server-side cancellation or a stale document
func serverAbandoned(err error) bool {
	var lspErr *errors.LSPError
	if !stderrors.As(err, &lspErr) {
		return false
	}
	return lspErr.Code == errors.RequestCancelled || lspErr.Code == errors.ContentModified
}

func asTransportError(req positionRequest, err error) error {
	if errors.IsTransportError(err) {
		return err
	}
	return errors.NewTransportError(req.method, req.doc.Language(), err)
}

// outcomeOf maps a finished request to its metrics label
func outcomeOf(n int, err error) string {
	switch {
	case err == nil && n > 0:
		return outcomeOK
	case err == nil:
		return outcomeEmpty
	case errors.IsCancellationError(err), errors.IsTimeoutError(err) && !errors.IsTransportError(err):
		return outcomeCanceled
	default:
		return outcomeError
	}
}

// logFailure records a failed round trip with its error category
func logFailure(req positionRequest, err error) {
	common.NavigationLogger.Warn("%s for %s failed (%s): %v", req.method, req.doc.Path(), errors.GetErrorCategory(err), err)
}

func observe(method, outcome string, start time.Time) {
	navigationRequests.WithLabelValues(method, outcome).Inc()
	navigationLatency.WithLabelValues(method).Observe(time.Since(start).Seconds())
}
