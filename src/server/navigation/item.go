// Package navigation turns language server answers into navigable items.
package navigation

import (
	"context"
	"strings"

	"lsp-navigator/src/server/documents"
)

// ItemKind classifies a navigation target
type ItemKind int

const (
	KindUnspecified ItemKind = iota
	KindDefinition
)

func (k ItemKind) String() string {
	switch k {
	case KindDefinition:
		return "definition"
	default:
		return "unspecified"
	}
}

// Item is a single jump target handed to a Presenter. The wire protocol only
// carries locations, so DisplayName is usually empty.
type Item struct {
	DisplayName string
	Span        documents.Span
	Kind        ItemKind
}

// ItemBuilder turns a resolved span into an Item
type ItemBuilder func(span documents.Span) Item

// BuildItem returns the placeholder item for span: no display name and
// KindUnspecified.
func BuildItem(span documents.Span) Item {
	return Item{Span: span, Kind: KindUnspecified}
}

// DescribeDefinition builds a KindDefinition item named after the trimmed
// source line the span starts on. Unreadable text leaves the name empty.
func DescribeDefinition(span documents.Span) Item {
	item := Item{Span: span, Kind: KindDefinition}
	if span.Document == nil {
		return item
	}
	text, err := span.Document.Text(context.Background())
	if err != nil {
		return item
	}
	line := text.PositionAt(span.Range.Start).Line
	item.DisplayName = strings.TrimSpace(text.LineText(int(line)))
	return item
}

// BuildItems applies build to each span, preserving order
func BuildItems(spans []documents.Span, build ItemBuilder) []Item {
	if build == nil {
		build = BuildItem
	}
	items := make([]Item, 0, len(spans))
	for _, span := range spans {
		items = append(items, build(span))
	}
	return items
}
