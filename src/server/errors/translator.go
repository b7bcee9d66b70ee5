// Package errors turns language server diagnostics into actionable log lines.
package errors

import (
	"fmt"
	"strings"

	"lsp-navigator/src/internal/common"
	"lsp-navigator/src/internal/registry"
	"lsp-navigator/src/internal/types"
)

// ErrorTranslator recognizes known failure patterns in server stderr output
type ErrorTranslator interface {
	TranslateAndLogError(serverName, line string, context []string) bool
	GetMethodSuggestion(serverName, method string) string
}

// LSPErrorTranslator is the default ErrorTranslator
type LSPErrorTranslator struct{}

func NewLSPErrorTranslator() *LSPErrorTranslator {
	return &LSPErrorTranslator{}
}

// navigationMethods are the requests whose failures get a tailored hint
var navigationMethods = []string{
	types.MethodTextDocumentDefinition,
	types.MethodTextDocumentDocumentHighlight,
	types.MethodTextDocumentDidOpen,
	types.MethodTextDocumentDidChange,
	types.MethodInitialize,
}

// TranslateAndLogError logs line with a suggestion when it matches a known
// pattern and reports whether it did. context holds preceding traceback lines.
func (t *LSPErrorTranslator) TranslateAndLogError(serverName, line string, context []string) bool {
	joined := strings.Join(context, " ") + " " + line

	if strings.Contains(line, "Method not found") || strings.Contains(line, "MethodNotFound") ||
		(strings.Contains(line, "KeyError") && len(context) > 0) {
		if method := t.extractMethodFromError(joined); method != "" {
			common.LSPLogger.Warn("LSP %s: Method '%s' not supported. %s",
				serverName, method, t.GetMethodSuggestion(serverName, method))
			return true
		}
	}

	if strings.Contains(line, "not supported") || strings.Contains(line, "unsupported") {
		common.LSPLogger.Warn("LSP %s: Feature not supported by this server. Consider checking server capabilities or using an alternative server.", serverName)
		return true
	}

	return false
}

// GetMethodSuggestion returns a hint for a server that cannot answer method.
// serverName may be a language identifier or a server command.
func (t *LSPErrorTranslator) GetMethodSuggestion(serverName, method string) string {
	lang, ok := registry.GetLanguageByName(serverName)
	if !ok {
		for _, name := range registry.GetLanguageNames() {
			if candidate, _ := registry.GetLanguageByName(name); candidate.DefaultCommand == serverName {
				lang, ok = candidate, true
				break
			}
		}
	}

	switch {
	case ok && method == types.MethodTextDocumentDefinition:
		return fmt.Sprintf("Go to definition for %s needs a server advertising definitionProvider; the default is %s.",
			lang.Name, lang.DefaultCommand)
	case ok && method == types.MethodTextDocumentDocumentHighlight:
		return fmt.Sprintf("Highlights for %s are optional; definitions still work if %s answers %s.",
			lang.Name, lang.DefaultCommand, types.MethodTextDocumentDefinition)
	case ok:
		return fmt.Sprintf("Check that %s is up to date or configure another %s server.", lang.DefaultCommand, lang.Name)
	default:
		return "Check your LSP server documentation for supported features or consider alternative servers."
	}
}

func (t *LSPErrorTranslator) extractMethodFromError(errorLine string) string {
	for _, method := range navigationMethods {
		if strings.Contains(errorLine, method) {
			return method
		}
	}
	return ""
}
