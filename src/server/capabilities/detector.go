// Package capabilities detects which navigation requests a server advertised.
package capabilities

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.lsp.dev/protocol"

	"lsp-navigator/src/internal/types"
)

// CapabilityDetector parses initialize results and answers method support queries
type CapabilityDetector interface {
	ParseCapabilities(response json.RawMessage, serverCommand string) (protocol.ServerCapabilities, error)
	SupportsMethod(caps protocol.ServerCapabilities, method string) bool
}

type LSPCapabilityDetector struct{}

func NewLSPCapabilityDetector() *LSPCapabilityDetector {
	return &LSPCapabilityDetector{}
}

func (d *LSPCapabilityDetector) ParseCapabilities(response json.RawMessage, serverCommand string) (protocol.ServerCapabilities, error) {
	var initResult protocol.InitializeResult
	if err := json.Unmarshal(response, &initResult); err != nil {
		return protocol.ServerCapabilities{}, fmt.Errorf("failed to unmarshal initialize response: %w", err)
	}

	// OmniSharp under-reports textDocument features it serves
	if strings.Contains(strings.ToLower(serverCommand), "omnisharp") {
		if initResult.Capabilities.DefinitionProvider == nil {
			initResult.Capabilities.DefinitionProvider = true
		}
		if initResult.Capabilities.DocumentHighlightProvider == nil {
			initResult.Capabilities.DocumentHighlightProvider = true
		}
	}

	return initResult.Capabilities, nil
}

func (d *LSPCapabilityDetector) SupportsMethod(caps protocol.ServerCapabilities, method string) bool {
	switch method {
	case types.MethodInitialize, types.MethodShutdown, types.MethodExit:
		return true
	case types.MethodTextDocumentDefinition:
		return d.isCapabilitySupported(caps.DefinitionProvider)
	case types.MethodTextDocumentDocumentHighlight:
		return d.isCapabilitySupported(caps.DocumentHighlightProvider)
	default:
		return true
	}
}

// isCapabilitySupported accepts `true` or an options object
func (d *LSPCapabilityDetector) isCapabilitySupported(capability interface{}) bool {
	if capability == nil {
		return false
	}
	if boolVal, ok := capability.(bool); ok {
		return boolVal
	}
	return true
}
