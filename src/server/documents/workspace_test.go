package documents

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/uri"

	"lsp-navigator/src/internal/common"
)

func TestWorkspaceIsExternal(t *testing.T) {
	root := t.TempDir()
	ws := NewWorkspace(root)
	open := ws.Open(filepath.Join(root, "A.src"), "csharp", "class A {}")

	tests := []struct {
		name string
		uri  uri.URI
		want bool
	}{
		{"open document", open.URI(), false},
		{"unopened file under root", common.FilePathToURI(filepath.Join(root, "sub", "Unknown.src")), false},
		{"file outside root", common.FilePathToURI(filepath.Join(filepath.Dir(root), "elsewhere", "Ext.src")), true},
		{"sibling with shared prefix", common.FilePathToURI(root + "-other/B.src"), true},
		{"non-file uri", uri.URI("csharp:/metadata/System.String.cs"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ws.IsExternal(tt.uri))
		})
	}
}

func TestWorkspaceOpenDetectsLanguage(t *testing.T) {
	ws := NewWorkspace()
	doc := ws.Open("/src/main.go", "", "package main")
	assert.Equal(t, "go", doc.Language())

	got, ok := ws.Document(doc.URI())
	require.True(t, ok)
	assert.Same(t, doc, got)

	ws.Close(doc.URI())
	_, ok = ws.Document(doc.URI())
	assert.False(t, ok)
}

func TestWorkspaceOpenFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "lib.py")
	require.NoError(t, os.WriteFile(path, []byte("def f():\n    pass\n"), 0644))

	ws := NewWorkspace(root)
	doc, err := ws.OpenFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, "python", doc.Language())
	assert.Len(t, ws.Documents(), 1)

	_, err = ws.OpenFile(filepath.Join(root, "nope.py"), "")
	assert.Error(t, err)
}

func TestResolveKnownLocation(t *testing.T) {
	root := t.TempDir()
	ws := NewWorkspace(root)
	doc := ws.Open(filepath.Join(root, "A.src"), "csharp", "class A {\n  void M() {}\n}\n")

	span, err := ws.ResolveKnownLocation(context.Background(), doc.URI(), rng(1, 7, 1, 8))
	require.NoError(t, err)
	require.NotNil(t, span)
	assert.Same(t, doc, span.Document)
	assert.Equal(t, "M", doc.Snapshot().String()[span.Range.Start:span.Range.End])

	span, err = ws.ResolveKnownLocation(context.Background(), common.FilePathToURI(filepath.Join(root, "Unknown.src")), rng(0, 0, 0, 1))
	assert.NoError(t, err)
	assert.Nil(t, span)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ws.ResolveKnownLocation(ctx, doc.URI(), rng(0, 0, 0, 1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDocumentSetContent(t *testing.T) {
	doc := NewDocument("/w/a.go", "go", "one")
	before := doc.Snapshot()
	doc.SetContent("two\nlines")

	assert.Equal(t, int32(2), doc.Version())
	assert.Equal(t, "one", before.String())
	text, err := doc.Text(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, text.LineCount())
}
