package protocol

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"lsp-navigator/src/internal/common"
	"lsp-navigator/src/internal/errors"
)

// JSON-RPC protocol constants
const (
	JSONRPCVersion = "2.0"

	// responseBufferSize fits large definition/highlight payloads in one read
	responseBufferSize = 1024 * 1024
)

// JSONRPCMessage represents an outgoing JSON-RPC 2.0 message
type JSONRPCMessage struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id,omitempty"`
	Method  string      `json:"method,omitempty"`
	Params  interface{} `json:"params,omitempty"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

// incomingMessage keeps params and result raw so "null" survives decoding
type incomingMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC error
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("JSON-RPC error %d: %s", e.Code, e.Message)
}

// ToLSPError converts the wire error into the navigator's error type
func (e *RPCError) ToLSPError() *errors.LSPError {
	if e == nil {
		return nil
	}
	return errors.NewLSPError(e.Code, e.Message, e.Data)
}

// JSONRPCProtocol defines the interface for JSON-RPC protocol handling
type JSONRPCProtocol interface {
	WriteMessage(writer io.Writer, msg JSONRPCMessage) error
	HandleMessage(data []byte, messageHandler MessageHandler) error
	HandleResponses(reader io.Reader, messageHandler MessageHandler, stopCh <-chan struct{}) error
}

// MessageHandler defines the interface for handling different types of JSON-RPC messages
type MessageHandler interface {
	HandleRequest(method string, id interface{}, params json.RawMessage) error
	HandleResponse(id interface{}, result json.RawMessage, err *RPCError) error
	HandleNotification(method string, params json.RawMessage) error
}

// LSPJSONRPCProtocol implements Content-Length framed JSON-RPC for LSP
type LSPJSONRPCProtocol struct {
	language string // Language identifier for logging context
}

// NewLSPJSONRPCProtocol creates a new LSP JSON-RPC protocol handler
func NewLSPJSONRPCProtocol(language string) *LSPJSONRPCProtocol {
	return &LSPJSONRPCProtocol{
		language: language,
	}
}

// WriteMessage sends a JSON-RPC message with proper Content-Length header formatting
func (p *LSPJSONRPCProtocol) WriteMessage(writer io.Writer, msg JSONRPCMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	content := fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(data), data)

	_, err = writer.Write([]byte(content))
	return err
}

// HandleResponses reads framed messages from reader until EOF or stopCh closes
func (p *LSPJSONRPCProtocol) HandleResponses(reader io.Reader, messageHandler MessageHandler, stopCh <-chan struct{}) error {
	bufReader := bufio.NewReaderSize(reader, responseBufferSize)

	for {
		select {
		case <-stopCh:
			return nil
		default:
		}

		contentLength := 0
		for {
			line, err := bufReader.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					// EOF is expected during shutdown
					return nil
				}
				return err
			}

			line = strings.TrimSpace(line)
			if line == "" {
				// Empty line indicates end of headers
				break
			}

			if strings.HasPrefix(line, "Content-Length:") {
				lengthStr := strings.TrimSpace(strings.TrimPrefix(line, "Content-Length:"))
				length, err := strconv.Atoi(lengthStr)
				if err != nil {
					common.LSPLogger.Debug("Failed to parse Content-Length: %s", lengthStr)
					continue
				}
				contentLength = length
			}
		}

		if contentLength <= 0 {
			continue
		}

		body := make([]byte, contentLength)
		if _, err := io.ReadFull(bufReader, body); err != nil {
			return err
		}

		if err := p.HandleMessage(body, messageHandler); err != nil {
			common.LSPLogger.Error("Error handling message from %s: %v", p.language, err)
		}
	}
}

// HandleMessage processes a single JSON-RPC message and routes it to the appropriate handler
func (p *LSPJSONRPCProtocol) HandleMessage(data []byte, messageHandler MessageHandler) error {
	var msg incomingMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		common.LSPLogger.Error("Failed to unmarshal JSON from %s: %v", p.language, err)
		return err
	}

	// Server-initiated messages carry a method
	if msg.Method != "" {
		if msg.ID != nil {
			common.LSPLogger.Debug("Received server request: method=%s, id=%v from %s", msg.Method, msg.ID, p.language)
			return messageHandler.HandleRequest(msg.Method, msg.ID, msg.Params)
		}
		common.LSPLogger.Debug("Received server notification: method=%s from %s", msg.Method, p.language)
		return messageHandler.HandleNotification(msg.Method, msg.Params)
	}

	if msg.ID != nil {
		if msg.Error != nil && !IsExpectedSuppressibleError(msg.Error) {
			common.LSPLogger.Warn("LSP response contains error: id=%v, error=%s", msg.ID, common.SanitizeErrorForLogging(msg.Error.Message))
		}
		return messageHandler.HandleResponse(msg.ID, msg.Result, msg.Error)
	}

	common.LSPLogger.Warn("Received malformed message (no ID and no method) from %s", p.language)
	return fmt.Errorf("malformed JSON-RPC message: no ID and no method")
}

// CreateMessage creates a JSON-RPC request message
func CreateMessage(method string, id interface{}, params interface{}) JSONRPCMessage {
	return JSONRPCMessage{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Method:  method,
		Params:  params,
	}
}

// CreateNotification creates a JSON-RPC notification (no ID)
func CreateNotification(method string, params interface{}) JSONRPCMessage {
	return JSONRPCMessage{
		JSONRPC: JSONRPCVersion,
		Method:  method,
		Params:  params,
	}
}

// CreateResponse creates a JSON-RPC response message
func CreateResponse(id interface{}, result interface{}, err *RPCError) JSONRPCMessage {
	return JSONRPCMessage{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Result:  result,
		Error:   err,
	}
}

// NewRPCError creates a new RPCError with the specified code and message
func NewRPCError(code int, message string, data interface{}) *RPCError {
	return &RPCError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// NewMethodNotFoundError creates a method not found error (-32601)
func NewMethodNotFoundError(data interface{}) *RPCError {
	return NewRPCError(errors.MethodNotFound, "Method not found", data)
}

// IsExpectedSuppressibleError reports server errors that routinely happen when
// the cursor is not on a symbol; they are not worth a warning.
func IsExpectedSuppressibleError(rpcErr *RPCError) bool {
	if rpcErr == nil {
		return false
	}
	if rpcErr.Code == errors.RequestCancelled || rpcErr.Code == errors.ContentModified {
		return true
	}
	msg := strings.ToLower(rpcErr.Message)
	for _, pattern := range []string{
		"no identifier found",
		"identifier not found",
		"symbol not found",
		"no symbol at position",
		"position out of range",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
