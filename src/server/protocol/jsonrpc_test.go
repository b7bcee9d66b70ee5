package protocol

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lsp-navigator/src/internal/errors"
)

type mockHandler struct {
	reqCount   int
	notifCount int
	respCount  int
	lastMethod string
	lastID     interface{}
	lastParams json.RawMessage
	lastResult json.RawMessage
	lastErr    *RPCError
}

func (m *mockHandler) HandleRequest(method string, id interface{}, params json.RawMessage) error {
	m.reqCount++
	m.lastMethod = method
	m.lastID = id
	m.lastParams = params
	return nil
}

func (m *mockHandler) HandleResponse(id interface{}, result json.RawMessage, err *RPCError) error {
	m.respCount++
	m.lastID = id
	m.lastResult = result
	m.lastErr = err
	return nil
}

func (m *mockHandler) HandleNotification(method string, params json.RawMessage) error {
	m.notifCount++
	m.lastMethod = method
	m.lastParams = params
	return nil
}

func frame(body string) string {
	return "Content-Length: " + strconv.Itoa(len(body)) + "\r\n\r\n" + body
}

func TestLSPJSONRPCProtocol_WriteMessage(t *testing.T) {
	p := NewLSPJSONRPCProtocol("go")
	buf := &bytes.Buffer{}
	msg := CreateMessage("textDocument/definition", 1, map[string]any{"textDocument": map[string]any{"uri": "file:///a.go"}})
	require.NoError(t, p.WriteMessage(buf, msg))

	parts := bytes.SplitN(buf.Bytes(), []byte("\r\n\r\n"), 2)
	require.Len(t, parts, 2)
	assert.Equal(t, "Content-Length: "+strconv.Itoa(len(parts[1])), string(parts[0]))

	var dec JSONRPCMessage
	require.NoError(t, json.Unmarshal(parts[1], &dec))
	assert.Equal(t, "textDocument/definition", dec.Method)
	assert.Equal(t, JSONRPCVersion, dec.JSONRPC)
}

func TestLSPJSONRPCProtocol_HandleMessage_RoutesCorrectly(t *testing.T) {
	p := NewLSPJSONRPCProtocol("go")
	h := &mockHandler{}

	require.NoError(t, p.HandleMessage([]byte(`{"jsonrpc":"2.0","id":2,"method":"workspace/configuration","params":{"items":[]}}`), h))
	assert.Equal(t, 1, h.reqCount)
	assert.Equal(t, "workspace/configuration", h.lastMethod)

	require.NoError(t, p.HandleMessage([]byte(`{"jsonrpc":"2.0","method":"window/logMessage","params":{"message":"hi"}}`), h))
	assert.Equal(t, 1, h.notifCount)

	require.NoError(t, p.HandleMessage([]byte(`{"jsonrpc":"2.0","id":3,"result":[{"uri":"file:///a.go"}]}`), h))
	assert.Equal(t, 1, h.respCount)
	assert.JSONEq(t, `[{"uri":"file:///a.go"}]`, string(h.lastResult))

	assert.Error(t, p.HandleMessage([]byte(`{"jsonrpc":"2.0"}`), h))
	assert.Error(t, p.HandleMessage([]byte(`not json`), h))
}

func TestLSPJSONRPCProtocol_HandleMessage_PreservesNullResult(t *testing.T) {
	p := NewLSPJSONRPCProtocol("go")
	h := &mockHandler{}

	require.NoError(t, p.HandleMessage([]byte(`{"jsonrpc":"2.0","id":7,"result":null}`), h))
	assert.Equal(t, 1, h.respCount)
	assert.Nil(t, h.lastErr)
	assert.Equal(t, "null", string(h.lastResult))
}

func TestLSPJSONRPCProtocol_HandleMessage_Error(t *testing.T) {
	p := NewLSPJSONRPCProtocol("go")
	h := &mockHandler{}

	require.NoError(t, p.HandleMessage([]byte(`{"jsonrpc":"2.0","id":4,"error":{"code":-32603,"message":"boom"}}`), h))
	require.NotNil(t, h.lastErr)
	assert.Equal(t, errors.InternalError, h.lastErr.Code)
	assert.Equal(t, "LSP error -32603: boom", h.lastErr.ToLSPError().Error())
}

func TestLSPJSONRPCProtocol_HandleResponses_ReadsFrames(t *testing.T) {
	p := NewLSPJSONRPCProtocol("go")
	h := &mockHandler{}
	stream := frame(`{"jsonrpc":"2.0","id":1,"result":null}`) +
		"Content-Type: application/vscode-jsonrpc; charset=utf-8\r\n" +
		frame(`{"jsonrpc":"2.0","id":2,"result":[]}`)

	err := p.HandleResponses(bytes.NewBufferString(stream), h, make(chan struct{}))
	require.NoError(t, err)
	assert.Equal(t, 2, h.respCount)
	assert.Equal(t, "[]", string(h.lastResult))
}

func TestLSPJSONRPCProtocol_HandleResponses_TruncatedBody(t *testing.T) {
	p := NewLSPJSONRPCProtocol("go")
	h := &mockHandler{}
	stream := "Content-Length: 100\r\n\r\n{\"jsonrpc\""

	err := p.HandleResponses(bytes.NewBufferString(stream), h, make(chan struct{}))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Zero(t, h.respCount)
}

func TestLSPJSONRPCProtocol_HandleResponses_StopChannel(t *testing.T) {
	p := NewLSPJSONRPCProtocol("go")
	stop := make(chan struct{})
	close(stop)
	assert.NoError(t, p.HandleResponses(bytes.NewBufferString(frame(`{"id":1}`)), &mockHandler{}, stop))
}

func TestIsExpectedSuppressibleError(t *testing.T) {
	assert.False(t, IsExpectedSuppressibleError(nil))
	assert.True(t, IsExpectedSuppressibleError(NewRPCError(errors.RequestCancelled, "cancelled", nil)))
	assert.True(t, IsExpectedSuppressibleError(NewRPCError(errors.InternalError, "No identifier found", nil)))
	assert.False(t, IsExpectedSuppressibleError(NewRPCError(errors.InternalError, "panic in handler", nil)))
}
