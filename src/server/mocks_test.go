package server

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"
)

// MockLSPClient is a testify mock of types.LSPClient
type MockLSPClient struct {
	mock.Mock
	language string
}

func NewMockLSPClient(language string) *MockLSPClient {
	return &MockLSPClient{language: language}
}

func (m *MockLSPClient) Start(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLSPClient) Stop() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockLSPClient) SendRequest(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	args := m.Called(ctx, method, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockLSPClient) SendNotification(ctx context.Context, method string, params interface{}) error {
	args := m.Called(ctx, method, params)
	return args.Error(0)
}

func (m *MockLSPClient) IsActive() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockLSPClient) Language() string {
	return m.language
}
