package capabilities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lsp-navigator/src/internal/types"
)

func TestLSPCapabilityDetector_ParseAndSupports(t *testing.T) {
	tests := []struct {
		name          string
		capabilities  map[string]interface{}
		command       string
		wantDef       bool
		wantHighlight bool
	}{
		{"bool providers", map[string]interface{}{"definitionProvider": true, "documentHighlightProvider": false}, "gopls", true, false},
		{"options object", map[string]interface{}{"definitionProvider": map[string]interface{}{}}, "pylsp", true, false},
		{"nothing advertised", map[string]interface{}{}, "rust-analyzer", false, false},
		{"omnisharp override", map[string]interface{}{}, "/usr/bin/OmniSharp", true, true},
		{"omnisharp explicit false kept", map[string]interface{}{"definitionProvider": false}, "omnisharp", false, true},
	}

	det := NewLSPCapabilityDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(map[string]interface{}{"capabilities": tt.capabilities})
			require.NoError(t, err)

			caps, err := det.ParseCapabilities(raw, tt.command)
			require.NoError(t, err)

			assert.Equal(t, tt.wantDef, det.SupportsMethod(caps, types.MethodTextDocumentDefinition))
			assert.Equal(t, tt.wantHighlight, det.SupportsMethod(caps, types.MethodTextDocumentDocumentHighlight))
			assert.True(t, det.SupportsMethod(caps, types.MethodShutdown))
		})
	}
}

func TestLSPCapabilityDetector_InvalidJSON(t *testing.T) {
	_, err := NewLSPCapabilityDetector().ParseCapabilities(json.RawMessage(`{"capabilities":`), "gopls")
	assert.Error(t, err)
}
