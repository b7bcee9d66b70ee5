package registry

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// LanguageInfo describes a language the navigator can route to a server
type LanguageInfo struct {
	Name           string   // Language identifier (go, python, csharp, ...)
	Extensions     []string // File extensions for this language
	DefaultCommand string   // Default LSP server command
	DefaultArgs    []string // Default arguments for the LSP server

	InitializationOptions map[string]interface{} // LSP initialization options
	RequestTimeout        time.Duration          // Request timeout duration
	InitializeTimeout     time.Duration          // Initialize timeout duration
}

var languageRegistry = map[string]LanguageInfo{
	"go": {
		Name:           "go",
		Extensions:     []string{".go"},
		DefaultCommand: "gopls",
		DefaultArgs:    []string{"serve"},
		InitializationOptions: map[string]interface{}{
			"usePlaceholders":    false,
			"completeUnimported": true,
		},
		RequestTimeout:    15 * time.Second,
		InitializeTimeout: 15 * time.Second,
	},
	"python": {
		Name:              "python",
		Extensions:        []string{".py", ".pyi"},
		DefaultCommand:    "jedi-language-server",
		DefaultArgs:       []string{},
		RequestTimeout:    30 * time.Second,
		InitializeTimeout: 30 * time.Second,
	},
	"javascript": {
		Name:              "javascript",
		Extensions:        []string{".js", ".jsx", ".mjs"},
		DefaultCommand:    "typescript-language-server",
		DefaultArgs:       []string{"--stdio"},
		RequestTimeout:    15 * time.Second,
		InitializeTimeout: 30 * time.Second,
	},
	"typescript": {
		Name:              "typescript",
		Extensions:        []string{".ts", ".tsx"},
		DefaultCommand:    "typescript-language-server",
		DefaultArgs:       []string{"--stdio"},
		RequestTimeout:    15 * time.Second,
		InitializeTimeout: 30 * time.Second,
	},
	"csharp": {
		Name:              "csharp",
		Extensions:        []string{".cs"},
		DefaultCommand:    "omnisharp",
		DefaultArgs:       []string{"-lsp"},
		RequestTimeout:    30 * time.Second,
		InitializeTimeout: 45 * time.Second,
	},
	"vb": {
		Name:              "vb",
		Extensions:        []string{".vb"},
		DefaultCommand:    "omnisharp",
		DefaultArgs:       []string{"-lsp"},
		RequestTimeout:    30 * time.Second,
		InitializeTimeout: 45 * time.Second,
	},
	"rust": {
		Name:              "rust",
		Extensions:        []string{".rs"},
		DefaultCommand:    "rust-analyzer",
		DefaultArgs:       []string{},
		RequestTimeout:    15 * time.Second,
		InitializeTimeout: 15 * time.Second,
	},
}

// extensionToLanguage is derived from languageRegistry at init
var extensionToLanguage = func() map[string]string {
	m := make(map[string]string)
	for name, lang := range languageRegistry {
		for _, ext := range lang.Extensions {
			m[ext] = name
		}
	}
	return m
}()

// GetLanguageByName returns language information by name
func GetLanguageByName(name string) (*LanguageInfo, bool) {
	lang, exists := languageRegistry[name]
	if !exists {
		return nil, false
	}
	return &lang, true
}

// GetLanguageByExtension returns language information by file extension
func GetLanguageByExtension(ext string) (*LanguageInfo, bool) {
	langName, exists := extensionToLanguage[strings.ToLower(ext)]
	if !exists {
		return nil, false
	}
	return GetLanguageByName(langName)
}

// DetectLanguage returns the language identifier for path, or "" if unknown
func DetectLanguage(path string) string {
	if lang, ok := GetLanguageByExtension(filepath.Ext(path)); ok {
		return lang.Name
	}
	return ""
}

// GetLanguageNames returns the sorted list of supported language names
func GetLanguageNames() []string {
	names := make([]string, 0, len(languageRegistry))
	for name := range languageRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsLanguageSupported checks if a language is supported
func IsLanguageSupported(name string) bool {
	_, exists := languageRegistry[name]
	return exists
}

// ValidateLanguage validates if the language is supported and returns error if not
func ValidateLanguage(name string) error {
	if !IsLanguageSupported(name) {
		return fmt.Errorf("unsupported language: %s (supported: %v)", name, GetLanguageNames())
	}
	return nil
}

// GetInitOptions returns a copy of the initialization options for this language
func (l *LanguageInfo) GetInitOptions() map[string]interface{} {
	result := make(map[string]interface{}, len(l.InitializationOptions))
	for k, v := range l.InitializationOptions {
		result[k] = v
	}
	return result
}

// GetTimeouts returns the request and initialize timeout durations for this language
func (l *LanguageInfo) GetTimeouts() (requestTimeout time.Duration, initializeTimeout time.Duration) {
	return l.RequestTimeout, l.InitializeTimeout
}
