package navigation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"

	"lsp-navigator/src/internal/types"
	"lsp-navigator/src/server"
	"lsp-navigator/src/server/documents"
)

func TestDescribeDefinitionNamesItemsAfterSourceLine(t *testing.T) {
	f := newFixture(t)
	ch := &mockChannel{}
	ch.On("SendRequest", mock.Anything, types.MethodTextDocumentDefinition, mock.Anything).Return(locationsJSON(t,
		protocol.Location{URI: f.doc.URI(), Range: span(10, 4, 10, 8)},
		protocol.Location{URI: f.extURI(), Range: span(2, 6, 2, 10)},
	), nil)

	svc := NewDefinitionService(server.NewStaticServer(ch), f.resolver, nil).WithItemBuilder(DescribeDefinition)
	items, err := svc.FindDefinitions(context.Background(), f.doc, at(10, 4))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Base x;", items[0].DisplayName)
	assert.Equal(t, KindDefinition, items[0].Kind)
	assert.Equal(t, "class Base {}", items[1].DisplayName)
	assert.Equal(t, "definition", items[1].Kind.String())
}

func TestDescribeDefinitionWithoutDocument(t *testing.T) {
	item := DescribeDefinition(documents.Span{})
	assert.Equal(t, KindDefinition, item.Kind)
	assert.Empty(t, item.DisplayName)
}

func TestBuildItemsDefaultsToPlaceholder(t *testing.T) {
	doc := documents.NewDocument("/w/a.go", "go", "package a")
	items := BuildItems([]documents.Span{{Document: doc}, {Document: doc, Range: documents.TextRange{Start: 8, End: 9}}}, nil)
	require.Len(t, items, 2)
	assert.Equal(t, KindUnspecified, items[1].Kind)
	assert.Equal(t, 8, items[1].Span.Range.Start)
}
