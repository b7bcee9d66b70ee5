package navigation

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lsp-navigator/src/server/documents"
)

func TestWriterPresenter(t *testing.T) {
	f := newFixture(t)
	ext := f.cache.GetOrCreate(f.extPath, "csharp")
	items := []Item{
		BuildItem(documents.Span{Document: f.doc, Range: documents.TextRange{Start: 104, End: 108}}),
		{DisplayName: "Lib.Base", Span: documents.Span{Document: ext, Range: documents.TextRange{Start: 22, End: 26}}},
	}
	require.Equal(t, "Base", f.doc.Snapshot().String()[104:108])

	var buf bytes.Buffer
	ok, err := NewWriterPresenter(&buf).Present(context.Background(), DefinitionTitle, items)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t,
		"Go to Definition (2)\n"+
			f.doc.Path()+":11:5\n"+
			f.extPath+":3:7 (external) Lib.Base\n",
		buf.String())
}

func TestWriterPresenterNothingToShow(t *testing.T) {
	var buf bytes.Buffer
	ok, err := NewWriterPresenter(&buf).Present(context.Background(), DefinitionTitle, nil)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, buf.String())
}

func TestBuildItemsKeepsOrder(t *testing.T) {
	spans := []documents.Span{
		{Range: documents.TextRange{Start: 5, End: 6}},
		{Range: documents.TextRange{Start: 1, End: 2}},
	}
	items := BuildItems(spans, nil)
	require.Len(t, items, 2)
	assert.Equal(t, spans[0], items[0].Span)
	assert.Equal(t, spans[1], items[1].Span)
	assert.Equal(t, "unspecified", items[0].Kind.String())
	assert.Equal(t, "definition", KindDefinition.String())
}
