package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lsp-navigator/src/internal/registry"
	"lsp-navigator/src/server"
	"lsp-navigator/src/server/documents"
)

func TestDefaultRegistry(t *testing.T) {
	f := newFixture(t)
	reg, err := NewDefaultRegistry(server.NewStaticServer(nil), f.resolver, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, registry.GetLanguageNames(), reg.Languages())

	svc, ok, err := reg.Lookup("csharp")
	require.NoError(t, err)
	require.True(t, ok)
	again, _, _ := reg.Lookup("csharp")
	assert.Same(t, svc, again)

	other, ok, err := reg.Lookup("go")
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotSame(t, svc, other)
	assert.Same(t, svc.resolver, other.resolver)

	_, ok, err = reg.Lookup("cobol")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, KindUnspecified, svc.build(documents.Span{}).Kind)
}

func TestDefaultRegistryItemBuilder(t *testing.T) {
	f := newFixture(t)
	reg, err := NewDefaultRegistry(server.NewStaticServer(nil), f.resolver, nil, DescribeDefinition)
	require.NoError(t, err)

	svc, ok, err := reg.Lookup("go")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, KindDefinition, svc.build(documents.Span{}).Kind)
}
