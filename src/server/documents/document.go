package documents

import (
	"context"
	"path/filepath"
	"sync"

	"go.lsp.dev/uri"

	"lsp-navigator/src/internal/common"
)

// Document is a document the caller has open. Its text may change between
// requests; spans reference the snapshot current at resolution time.
type Document struct {
	uri      uri.URI
	path     string
	language string

	mu      sync.RWMutex
	text    *Text
	version int32
}

// NewDocument creates an open document for path
func NewDocument(path, language, content string) *Document {
	path = filepath.Clean(path)
	return &Document{
		uri:      common.FilePathToURI(path),
		path:     path,
		language: language,
		text:     NewText(content),
		version:  1,
	}
}

func (d *Document) URI() uri.URI     { return d.uri }
func (d *Document) Path() string     { return d.path }
func (d *Document) Language() string { return d.language }
func (d *Document) External() bool   { return false }

// Text returns the current snapshot
func (d *Document) Text(ctx context.Context) (*Text, error) {
	return d.Snapshot(), nil
}

// Snapshot returns the current text without a context
func (d *Document) Snapshot() *Text {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.text
}

// SetContent replaces the text and bumps the version
func (d *Document) SetContent(content string) {
	d.mu.Lock()
	d.text = NewText(content)
	d.version++
	d.mu.Unlock()
}

// VersionedSnapshot returns the current text together with its version
func (d *Document) VersionedSnapshot() (*Text, int32) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.text, d.version
}

// Version increases with every SetContent
func (d *Document) Version() int32 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}
