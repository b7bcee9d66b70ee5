package documents

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type plainChannel struct{}

func (plainChannel) SendRequest(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	return nil, nil
}

type syncingChannel struct {
	plainChannel
	opened map[string]string
}

func (c *syncingChannel) EnsureOpen(ctx context.Context, uri, languageID string, version int32, text string) error {
	c.opened[uri] = fmt.Sprintf("%s:%d:%s", languageID, version, text)
	return nil
}

func TestSyncDocument(t *testing.T) {
	doc := NewDocument("/w/a.go", "go", "package a")

	require.NoError(t, SyncDocument(context.Background(), plainChannel{}, doc))

	ch := &syncingChannel{opened: map[string]string{}}
	require.NoError(t, SyncDocument(context.Background(), ch, doc))
	assert.Equal(t, "go:1:package a", ch.opened[string(doc.URI())])

	doc.SetContent("package a\n\nfunc F() {}")
	require.NoError(t, SyncDocument(context.Background(), ch, doc))
	assert.Equal(t, "go:2:package a\n\nfunc F() {}", ch.opened[string(doc.URI())])
}

func TestSyncDocumentExternalHandleIsVersionOne(t *testing.T) {
	cache := NewExternalCache().WithLoader(func(ctx context.Context, path string) (string, error) {
		return "class Base {}", nil
	})
	ext := cache.GetOrCreate("/lib/Ext.src", "csharp")

	ch := &syncingChannel{opened: map[string]string{}}
	require.NoError(t, SyncDocument(context.Background(), ch, ext))
	assert.Equal(t, "csharp:1:class Base {}", ch.opened[string(ext.URI())])
}
