package documents

import (
	"context"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"lsp-navigator/src/internal/common"
	"lsp-navigator/src/internal/errors"
)

// Resolver turns wire locations into spans, routing each to the external
// cache or the caller's workspace.
type Resolver struct {
	workspace Workspace
	cache     *ExternalCache
}

// NewResolver creates a resolver over workspace and cache
func NewResolver(workspace Workspace, cache *ExternalCache) *Resolver {
	return &Resolver{workspace: workspace, cache: cache}
}

// Cache returns the external document cache
func (r *Resolver) Cache() *ExternalCache {
	return r.cache
}

// IsExternal reports whether u resolves through the external cache
func (r *Resolver) IsExternal(u uri.URI) bool {
	return r.workspace.IsExternal(u)
}

// Resolve anchors loc in a document. A nil span with a nil error means the
// location names a workspace file that is not open. Failures specific to the
// location are *errors.ResolutionError; a done ctx returns ctx.Err().
func (r *Resolver) Resolve(ctx context.Context, loc protocol.Location, requesting DocumentHandle) (*Span, error) {
	if r.IsExternal(loc.URI) {
		return r.ResolveExternal(ctx, loc, requesting.Language())
	}
	return r.ResolveKnown(ctx, loc)
}

// ResolveExternal materializes loc's file in the cache under language. It
// only touches the cache and is safe to call concurrently.
func (r *Resolver) ResolveExternal(ctx context.Context, loc protocol.Location, language string) (*Span, error) {
	path, err := common.URIToFilePath(loc.URI)
	if err != nil {
		return nil, errors.NewResolutionError(string(loc.URI), err)
	}

	doc := r.cache.GetOrCreate(path, language)
	text, err := doc.Text(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errors.NewResolutionError(string(loc.URI), err)
	}
	return spanFor(doc, text, loc.Range), nil
}

// ResolveKnown resolves loc against the workspace
func (r *Resolver) ResolveKnown(ctx context.Context, loc protocol.Location) (*Span, error) {
	span, err := r.workspace.ResolveKnownLocation(ctx, loc.URI, loc.Range)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errors.NewResolutionError(string(loc.URI), err)
	}
	return span, nil
}
