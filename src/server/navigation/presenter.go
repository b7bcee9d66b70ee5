package navigation

import (
	"context"
	"fmt"
	"io"
)

// Presenter shows navigation items to the user. It reports whether anything
// was presented.
type Presenter interface {
	Present(ctx context.Context, title string, items []Item) (bool, error)
}

// PresenterFunc adapts a function to Presenter
type PresenterFunc func(ctx context.Context, title string, items []Item) (bool, error)

func (f PresenterFunc) Present(ctx context.Context, title string, items []Item) (bool, error) {
	return f(ctx, title, items)
}

// WriterPresenter prints one "path:line:column" line per item, 1-based
type WriterPresenter struct {
	w io.Writer
}

// NewWriterPresenter creates a presenter writing to w
func NewWriterPresenter(w io.Writer) *WriterPresenter {
	return &WriterPresenter{w: w}
}

func (p *WriterPresenter) Present(ctx context.Context, title string, items []Item) (bool, error) {
	if len(items) == 0 {
		return false, nil
	}
	if _, err := fmt.Fprintf(p.w, "%s (%d)\n", title, len(items)); err != nil {
		return false, err
	}
	for _, item := range items {
		line, err := formatItem(ctx, item)
		if err != nil {
			return false, err
		}
		if _, err := fmt.Fprintln(p.w, line); err != nil {
			return false, err
		}
	}
	return true, nil
}

func formatItem(ctx context.Context, item Item) (string, error) {
	doc := item.Span.Document
	if doc == nil {
		return item.Span.Range.String(), nil
	}
	text, err := doc.Text(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load %s: %w", doc.Path(), err)
	}
	pos := text.PositionAt(item.Span.Range.Start)
	loc := fmt.Sprintf("%s:%d:%d", doc.Path(), pos.Line+1, pos.Character+1)
	if doc.External() {
		loc += " (external)"
	}
	if item.DisplayName != "" {
		loc += " " + item.DisplayName
	}
	return loc, nil
}
