package documents

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"

	"go.lsp.dev/uri"
	"golang.org/x/sync/singleflight"

	"lsp-navigator/src/internal/common"
)

// ExternalKey identifies an external document
type ExternalKey struct {
	Path     string
	Language string
}

func (k ExternalKey) String() string {
	return k.Language + ":" + k.Path
}

// Loader reads the text of an external document
type Loader func(ctx context.Context, path string) (string, error)

// ReadFileLoader loads external documents from disk
func ReadFileLoader(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := common.SafeReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ExternalCache owns the documents a server pointed at that are not part of
// the caller's workspace. An entry is created at most once per key, even
// under concurrent GetOrCreate, and lives as long as the cache.
//
// Text is read on first use and kept for the life of the entry. A file
// edited on disk after that is served stale; ranges the server computed
// against the new content are clamped to the old text rather than failing.
type ExternalCache struct {
	entries sync.Map // ExternalKey -> *ExternalDocument
	count   atomic.Int64
	flight  singleflight.Group
	loader  Loader
}

// NewExternalCache creates an empty cache reading text from disk
func NewExternalCache() *ExternalCache {
	return &ExternalCache{loader: ReadFileLoader}
}

// WithLoader replaces how document text is read
func (c *ExternalCache) WithLoader(loader Loader) *ExternalCache {
	c.loader = loader
	return c
}

// GetOrCreate returns the document for (path, language), registering it on
// first use. Concurrent callers for the same key all get the winner's handle.
func (c *ExternalCache) GetOrCreate(path, language string) *ExternalDocument {
	key := ExternalKey{Path: filepath.Clean(path), Language: language}
	if existing, ok := c.entries.Load(key); ok {
		externalCacheLookups.WithLabelValues("hit").Inc()
		return existing.(*ExternalDocument)
	}

	candidate := &ExternalDocument{
		key:   key,
		uri:   common.FilePathToURI(key.Path),
		cache: c,
	}
	actual, loaded := c.entries.LoadOrStore(key, candidate)
	if loaded {
		externalCacheLookups.WithLabelValues("hit").Inc()
	} else {
		externalCacheLookups.WithLabelValues("miss").Inc()
		externalCacheEntries.Inc()
		c.count.Add(1)
		common.NavigationLogger.Debug("Registered external document %s", key)
	}
	return actual.(*ExternalDocument)
}

// Get returns the document for (path, language) without creating it
func (c *ExternalCache) Get(path, language string) (*ExternalDocument, bool) {
	doc, ok := c.entries.Load(ExternalKey{Path: filepath.Clean(path), Language: language})
	if !ok {
		return nil, false
	}
	return doc.(*ExternalDocument), true
}

// Len returns the number of cached documents
func (c *ExternalCache) Len() int {
	return int(c.count.Load())
}

// loadText reads d's text once; concurrent first loads share one read and a
// failed read is retried by the next caller.
func (c *ExternalCache) loadText(ctx context.Context, d *ExternalDocument) (*Text, error) {
	if text := d.text.Load(); text != nil {
		return text, nil
	}

	// The shared load must not die with the first caller's context
	loadCtx := context.WithoutCancel(ctx)
	resultCh := c.flight.DoChan(d.key.String(), func() (interface{}, error) {
		if text := d.text.Load(); text != nil {
			return text, nil
		}
		content, err := c.loader(loadCtx, d.key.Path)
		if err != nil {
			externalTextLoads.WithLabelValues("error").Inc()
			return nil, err
		}
		externalTextLoads.WithLabelValues("ok").Inc()
		text := NewText(content)
		d.text.Store(text)
		return text, nil
	})

	select {
	case res := <-resultCh:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Text), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ExternalDocument is a read-only document materialized from a file outside
// the workspace. Its text is loaded lazily and then fixed.
type ExternalDocument struct {
	key   ExternalKey
	uri   uri.URI
	cache *ExternalCache
	text  atomic.Pointer[Text]
}

func (d *ExternalDocument) URI() uri.URI     { return d.uri }
func (d *ExternalDocument) Path() string     { return d.key.Path }
func (d *ExternalDocument) Language() string { return d.key.Language }
func (d *ExternalDocument) External() bool   { return true }

// Key returns the cache key of d
func (d *ExternalDocument) Key() ExternalKey { return d.key }

// Text loads the document text on first use
func (d *ExternalDocument) Text(ctx context.Context) (*Text, error) {
	return d.cache.loadText(ctx, d)
}

// Loaded reports whether the text has been read
func (d *ExternalDocument) Loaded() bool {
	return d.text.Load() != nil
}
