package types

import (
	"context"
	"encoding/json"
)

// Channel is the request/response surface of an active language server
// connection. Requests are keyed by LSP method name.
type Channel interface {
	// SendRequest sends a JSON-RPC request and blocks until the response
	// arrives or ctx is done. A nil or "null" result is a valid response.
	SendRequest(ctx context.Context, method string, params interface{}) (json.RawMessage, error)
}

// LSPClient defines the lifecycle and messaging surface of a language server
// connection owned by the connection manager.
type LSPClient interface {
	Channel

	// Start launches the server process and performs the initialize handshake.
	Start(ctx context.Context) error

	// Stop sends shutdown/exit and tears the process down.
	Stop() error

	// SendNotification sends a JSON-RPC notification without waiting.
	SendNotification(ctx context.Context, method string, params interface{}) error

	// IsActive returns true once initialization succeeded and until the
	// process exits or is stopped.
	IsActive() bool

	// Language returns the language identifier this client serves.
	Language() string
}

// DocumentSyncer is implemented by channels that need the document text
// announced before position-based requests.
type DocumentSyncer interface {
	// EnsureOpen sends didOpen the first time uri is seen on the connection
	// and a full-text didChange once version moves past the last one sent.
	// Older or equal versions send nothing.
	EnsureOpen(ctx context.Context, uri string, languageID string, version int32, text string) error
}

// CapabilityChecker is implemented by channels that know which methods the
// server advertised during initialize.
type CapabilityChecker interface {
	Supports(method string) bool
}
