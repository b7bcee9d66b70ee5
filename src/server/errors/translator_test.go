package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lsp-navigator/src/internal/types"
)

func TestTranslateAndLogError(t *testing.T) {
	tr := NewLSPErrorTranslator()

	tests := []struct {
		name    string
		line    string
		context []string
		want    bool
	}{
		{"method not found", "Method not found: textDocument/definition", nil, true},
		{"key error with traceback", "KeyError: 'x'", []string{"Traceback", "  in textDocument/documentHighlight"}, true},
		{"key error without method", "KeyError: 'x'", []string{"Traceback"}, false},
		{"unsupported", "request unsupported by this build", nil, true},
		{"plain log", "indexing 42 files", nil, false},
		{"unknown method", "Method not found: workspace/foo", nil, false},
		{"sync method", "Method not found: textDocument/didChange", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.TranslateAndLogError("pylsp", tt.line, tt.context))
		})
	}
}

func TestGetMethodSuggestion(t *testing.T) {
	tr := NewLSPErrorTranslator()

	assert.Contains(t, tr.GetMethodSuggestion("go", types.MethodTextDocumentDefinition), "gopls")
	assert.Contains(t, tr.GetMethodSuggestion("rust-analyzer", types.MethodTextDocumentDocumentHighlight), "rust")
	assert.Contains(t, tr.GetMethodSuggestion("omnisharp", types.MethodInitialize), "omnisharp")
	assert.Contains(t, tr.GetMethodSuggestion("mystery-ls", types.MethodTextDocumentDefinition), "documentation")
}
