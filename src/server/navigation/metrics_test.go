package navigation

import (
	"context"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lsp-navigator/src/internal/types"
	"lsp-navigator/src/server"
)

func counterValue(t *testing.T, method, outcome string) float64 {
	var m dto.Metric
	require.NoError(t, navigationRequests.WithLabelValues(method, outcome).Write(&m))
	return m.GetCounter().GetValue()
}

func TestRequestOutcomesAreCounted(t *testing.T) {
	f := newFixture(t)
	svc := NewDefinitionService(server.NewStaticServer(nil), f.resolver, nil)

	before := counterValue(t, types.MethodTextDocumentDefinition, outcomeNoServer)
	_, err := svc.FindDefinitions(context.Background(), f.doc, at(0, 0))
	require.NoError(t, err)
	assert.Equal(t, before+1, counterValue(t, types.MethodTextDocumentDefinition, outcomeNoServer))
}
