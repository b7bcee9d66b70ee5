package navigation

import (
	"context"
	"time"

	"go.lsp.dev/protocol"

	"lsp-navigator/src/internal/common"
	"lsp-navigator/src/internal/types"
	"lsp-navigator/src/server"
	"lsp-navigator/src/server/documents"
	"lsp-navigator/src/utils/lspconv"
)

// Highlight is one occurrence of the symbol under the cursor
type Highlight struct {
	Span documents.Span
	Kind protocol.DocumentHighlightKind
}

// HighlightService finds occurrences of a symbol within its own document
type HighlightService struct {
	active server.ActiveServer
}

// NewHighlightService creates a highlight service
func NewHighlightService(active server.ActiveServer) *HighlightService {
	return &HighlightService{active: active}
}

// FindHighlights returns the occurrences of the symbol at pos in doc, in
// server order. Error policy matches DefinitionService.FindDefinitions.
func (s *HighlightService) FindHighlights(ctx context.Context, doc documents.DocumentHandle, pos protocol.Position) ([]Highlight, error) {
	start := time.Now()
	req := positionRequest{method: types.MethodTextDocumentDocumentHighlight, doc: doc, pos: pos}

	ch, outcome, ok := channelFor(s.active, req)
	if !ok {
		observe(req.method, outcome, start)
		return nil, nil
	}

	highlights, outcome, err := s.lookup(ctx, ch, req)
	if outcome == "" {
		outcome = outcomeOf(len(highlights), err)
	}
	if outcome == outcomeError {
		logFailure(req, err)
	}
	observe(req.method, outcome, start)
	return highlights, err
}

func (s *HighlightService) lookup(ctx context.Context, ch types.Channel, req positionRequest) ([]Highlight, string, error) {
	params := &protocol.DocumentHighlightParams{TextDocumentPositionParams: req.textDocumentPosition()}
	raw, err := send(ctx, ch, req, params)
	if err != nil {
		return nil, "", err
	}

	wire, err := lspconv.ParseHighlights(raw)
	if err != nil {
		common.NavigationLogger.Warn("Malformed %s response from %s server: %v", req.method, req.doc.Language(), err)
		return nil, outcomeMalformed, nil
	}
	if len(wire) == 0 {
		return nil, "", nil
	}

	highlights := make([]Highlight, 0, len(wire))
	for _, h := range wire {
		span, err := documents.SpanIn(ctx, req.doc, h.Range)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, "", ctxErr
			}
			common.NavigationLogger.Warn("Cannot anchor highlights in %s: %v", req.doc.Path(), err)
			return nil, "", nil
		}
		highlights = append(highlights, Highlight{Span: *span, Kind: h.Kind})
	}
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	return highlights, "", nil
}
