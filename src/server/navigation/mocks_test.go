package navigation

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"lsp-navigator/src/internal/types"
)

type mockChannel struct {
	mock.Mock
}

func (m *mockChannel) SendRequest(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	args := m.Called(ctx, method, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

// capableChannel also reports server capabilities and tracks open documents
type capableChannel struct {
	mockChannel
	supported map[string]bool
}

func (c *capableChannel) Supports(method string) bool {
	return c.supported[method]
}

func (c *capableChannel) EnsureOpen(ctx context.Context, uri string, languageID string, version int32, text string) error {
	args := c.Called(ctx, uri, languageID, version, text)
	return args.Error(0)
}

type mockActiveServer struct {
	mock.Mock
}

func (m *mockActiveServer) CurrentChannel(language string) (types.Channel, bool) {
	args := m.Called(language)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(types.Channel), args.Bool(1)
}
