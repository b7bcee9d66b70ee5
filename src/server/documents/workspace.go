package documents

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"lsp-navigator/src/internal/common"
	"lsp-navigator/src/internal/registry"
)

// Workspace is the caller's document set. Resolution against it is done
// from a single goroutine, so implementations need not be goroutine-safe.
type Workspace interface {
	// IsExternal reports whether uri names a file the workspace does not own
	IsExternal(u uri.URI) bool
	// ResolveKnownLocation anchors r in a workspace document; a nil span
	// means the document is not open.
	ResolveKnownLocation(ctx context.Context, u uri.URI, r protocol.Range) (*Span, error)
}

// MemoryWorkspace holds open documents under a set of root directories.
// Files under a root that are not open are still workspace files; they
// resolve to nothing rather than becoming external documents.
type MemoryWorkspace struct {
	mu    sync.RWMutex
	roots []string
	docs  map[uri.URI]*Document
}

// NewWorkspace creates a workspace rooted at roots
func NewWorkspace(roots ...string) *MemoryWorkspace {
	ws := &MemoryWorkspace{docs: make(map[uri.URI]*Document)}
	for _, root := range roots {
		ws.AddRoot(root)
	}
	return ws
}

// AddRoot adds a workspace root directory
func (w *MemoryWorkspace) AddRoot(root string) {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	w.mu.Lock()
	w.roots = append(w.roots, filepath.Clean(root))
	w.mu.Unlock()
}

// Roots returns the workspace roots
func (w *MemoryWorkspace) Roots() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]string(nil), w.roots...)
}

// Open adds or replaces an open document. An empty language is detected
// from the file extension.
func (w *MemoryWorkspace) Open(path, language, content string) *Document {
	if language == "" {
		language = registry.DetectLanguage(path)
	}
	doc := NewDocument(path, language, content)

	w.mu.Lock()
	w.docs[doc.URI()] = doc
	w.mu.Unlock()
	return doc
}

// OpenFile opens path with its content read from disk
func (w *MemoryWorkspace) OpenFile(path, language string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	content, err := common.SafeReadFile(abs)
	if err != nil {
		return nil, err
	}
	return w.Open(abs, language, string(content)), nil
}

// Close removes an open document
func (w *MemoryWorkspace) Close(u uri.URI) {
	w.mu.Lock()
	delete(w.docs, u)
	w.mu.Unlock()
}

// Document returns the open document for u
func (w *MemoryWorkspace) Document(u uri.URI) (*Document, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if doc, ok := w.docs[u]; ok {
		return doc, true
	}
	// Servers may spell the same file differently (escaping, drive letters)
	for known, doc := range w.docs {
		if common.SameFile(known, u) {
			return doc, true
		}
	}
	return nil, false
}

// Documents returns the open documents sorted by path
func (w *MemoryWorkspace) Documents() []*Document {
	w.mu.RLock()
	docs := make([]*Document, 0, len(w.docs))
	for _, doc := range w.docs {
		docs = append(docs, doc)
	}
	w.mu.RUnlock()
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path() < docs[j].Path() })
	return docs
}

// IsExternal reports true for URIs that are neither open nor under a root
func (w *MemoryWorkspace) IsExternal(u uri.URI) bool {
	if _, ok := w.Document(u); ok {
		return false
	}
	path, err := common.URIToFilePath(u)
	if err != nil {
		return true
	}
	path = filepath.Clean(path)

	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, root := range w.roots {
		if isWithin(root, path) {
			return false
		}
	}
	return true
}

// ResolveKnownLocation anchors r in the open document for u
func (w *MemoryWorkspace) ResolveKnownLocation(ctx context.Context, u uri.URI, r protocol.Range) (*Span, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, ok := w.Document(u)
	if !ok {
		return nil, nil
	}
	return spanFor(doc, doc.Snapshot(), r), nil
}

func isWithin(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// spanFor converts r against text, logging stale ranges that needed clamping
func spanFor(doc DocumentHandle, text *Text, r protocol.Range) *Span {
	tr, clamped := text.ToRange(r)
	if clamped {
		common.NavigationLogger.Debug("Stale location %s %d:%d-%d:%d clamped to %s",
			doc.Path(), r.Start.Line, r.Start.Character, r.End.Line, r.End.Character, tr)
	}
	return &Span{Document: doc, Range: tr}
}
