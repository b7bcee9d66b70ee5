package documents

import (
	"context"
	"fmt"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// TextRange is a half-open byte range into a document's text
type TextRange struct {
	Start int
	End   int
}

func (r TextRange) Len() int { return r.End - r.Start }

func (r TextRange) String() string { return fmt.Sprintf("[%d..%d)", r.Start, r.End) }

// DocumentHandle is a document a span can point into. Workspace documents
// are borrowed from the caller's workspace; external documents are owned by
// the ExternalCache.
type DocumentHandle interface {
	URI() uri.URI
	Path() string
	Language() string
	Text(ctx context.Context) (*Text, error)
	External() bool
}

// Span anchors a range in a document
type Span struct {
	Document DocumentHandle
	Range    TextRange
}

func (s Span) String() string {
	if s.Document == nil {
		return s.Range.String()
	}
	return s.Document.Path() + s.Range.String()
}

// SpanIn anchors r in doc's current text, clamping stale ranges
func SpanIn(ctx context.Context, doc DocumentHandle, r protocol.Range) (*Span, error) {
	text, err := doc.Text(ctx)
	if err != nil {
		return nil, err
	}
	return spanFor(doc, text, r), nil
}
