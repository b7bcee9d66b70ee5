package navigation

import (
	"context"
	"time"

	"go.lsp.dev/protocol"
	"golang.org/x/sync/errgroup"

	"lsp-navigator/src/internal/common"
	"lsp-navigator/src/internal/errors"
	"lsp-navigator/src/internal/types"
	"lsp-navigator/src/server"
	"lsp-navigator/src/server/documents"
	"lsp-navigator/src/utils/lspconv"
)

// DefinitionTitle is passed to the Presenter by GoToDefinition
const DefinitionTitle = "Go to Definition"

// DefaultResolveConcurrency bounds parallel external document loads per request
const DefaultResolveConcurrency = 8

// Result is the outcome of an asynchronous definition lookup
type Result struct {
	Items []Item
	Err   error
}

// DefinitionService answers go-to-definition for documents by asking the
// language server currently active for the document's language.
type DefinitionService struct {
	active      server.ActiveServer
	resolver    *documents.Resolver
	presenter   Presenter
	build       ItemBuilder
	concurrency int
}

// NewDefinitionService creates a definition service. presenter may be nil
// when only FindDefinitions is used.
func NewDefinitionService(active server.ActiveServer, resolver *documents.Resolver, presenter Presenter) *DefinitionService {
	return &DefinitionService{
		active:      active,
		resolver:    resolver,
		presenter:   presenter,
		build:       BuildItem,
		concurrency: DefaultResolveConcurrency,
	}
}

// WithItemBuilder replaces the placeholder item builder
func (s *DefinitionService) WithItemBuilder(build ItemBuilder) *DefinitionService {
	if build != nil {
		s.build = build
	}
	return s
}

// WithResolveConcurrency bounds parallel external resolutions; n < 1 means one
func (s *DefinitionService) WithResolveConcurrency(n int) *DefinitionService {
	if n < 1 {
		n = 1
	}
	s.concurrency = n
	return s
}

// FindDefinitionsAsync runs the lookup on its own goroutine. The returned
// channel yields exactly one Result and is then closed.
func (s *DefinitionService) FindDefinitionsAsync(ctx context.Context, doc documents.DocumentHandle, pos protocol.Position) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		items, err := s.FindDefinitions(ctx, doc, pos)
		out <- Result{Items: items, Err: err}
	}()
	return out
}

// FindDefinitions returns the navigable definitions of the symbol at pos.
//
// No server, an unsupported method, a null or malformed answer and
// locations that cannot be resolved all produce an empty result with a nil
// error. A done ctx returns ctx.Err() and no items. Only a failed round trip
// returns a *errors.TransportError.
func (s *DefinitionService) FindDefinitions(ctx context.Context, doc documents.DocumentHandle, pos protocol.Position) ([]Item, error) {
	start := time.Now()
	req := positionRequest{method: types.MethodTextDocumentDefinition, doc: doc, pos: pos}

	ch, outcome, ok := channelFor(s.active, req)
	if !ok {
		observe(req.method, outcome, start)
		return nil, nil
	}

	items, outcome, err := s.lookup(ctx, ch, req)
	if outcome == "" {
		outcome = outcomeOf(len(items), err)
	}
	if outcome == outcomeError {
		logFailure(req, err)
	}
	observe(req.method, outcome, start)
	return items, err
}

// FindDefinitionsAt is FindDefinitions at a byte offset into doc's text
func (s *DefinitionService) FindDefinitionsAt(ctx context.Context, doc documents.DocumentHandle, offset int) ([]Item, error) {
	text, err := doc.Text(ctx)
	if err != nil {
		return nil, err
	}
	return s.FindDefinitions(ctx, doc, text.PositionAt(offset))
}

// GoToDefinition blocks until the lookup completes and hands the items to
// the presenter. It reports whether anything was presented; empty results
// never reach the presenter.
func (s *DefinitionService) GoToDefinition(ctx context.Context, doc documents.DocumentHandle, pos protocol.Position) (bool, error) {
	res := <-s.FindDefinitionsAsync(ctx, doc, pos)
	if res.Err != nil {
		return false, res.Err
	}
	if len(res.Items) == 0 || s.presenter == nil {
		return false, nil
	}
	return s.presenter.Present(ctx, DefinitionTitle, res.Items)
}

func (s *DefinitionService) lookup(ctx context.Context, ch types.Channel, req positionRequest) ([]Item, string, error) {
	params := &protocol.DefinitionParams{TextDocumentPositionParams: req.textDocumentPosition()}
	raw, err := send(ctx, ch, req, params)
	if err != nil {
		return nil, "", err
	}

	locations, err := lspconv.ParseLocations(raw)
	if err != nil {
		common.NavigationLogger.Warn("Malformed %s response from %s server: %v", req.method, req.doc.Language(), err)
		return nil, outcomeMalformed, nil
	}
	if len(locations) == 0 {
		return nil, "", nil
	}

	spans, err := s.resolveAll(ctx, req.doc, locations)
	if err != nil {
		return nil, "", err
	}
	return BuildItems(spans, s.build), "", nil
}

// resolveAll anchors locations in server order. External locations only
// touch the cache and fan out; workspace locations resolve on the calling
// goroutine. Unresolvable locations are skipped. If ctx is done before
// every location is settled the whole result is discarded.
func (s *DefinitionService) resolveAll(ctx context.Context, requesting documents.DocumentHandle, locations []protocol.Location) ([]documents.Span, error) {
	resolved := make([]*documents.Span, len(locations))
	external := make([]bool, len(locations))
	for i, loc := range locations {
		external[i] = s.resolver.IsExternal(loc.URI)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	language := requesting.Language()
	for i, loc := range locations {
		if !external[i] {
			continue
		}
		i, loc := i, loc
		g.Go(func() error {
			span, err := s.resolver.ResolveExternal(gctx, loc, language)
			if err != nil {
				return skipOrFail(loc, err)
			}
			resolved[i] = span
			return nil
		})
	}

	var knownErr error
	for i, loc := range locations {
		if external[i] {
			continue
		}
		span, err := s.resolver.ResolveKnown(ctx, loc)
		if err != nil {
			if knownErr = skipOrFail(loc, err); knownErr != nil {
				break
			}
			continue
		}
		if span == nil {
			skippedLocations.WithLabelValues("absent").Inc()
			common.NavigationLogger.Debug("Skipping %s: document not open", loc.URI)
		}
		resolved[i] = span
	}

	waitErr := g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if knownErr != nil {
		return nil, knownErr
	}
	if waitErr != nil {
		return nil, waitErr
	}

	spans := make([]documents.Span, 0, len(resolved))
	for _, span := range resolved {
		if span != nil {
			spans = append(spans, *span)
		}
	}
	return spans, nil
}

// skipOrFail drops per-location failures and propagates everything else
func skipOrFail(loc protocol.Location, err error) error {
	if errors.IsResolutionError(err) {
		skippedLocations.WithLabelValues("unresolvable").Inc()
		common.NavigationLogger.Warn("Skipping location: %v", err)
		return nil
	}
	return err
}
