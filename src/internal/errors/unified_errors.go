package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"syscall"
)

// LSPError is a JSON-RPC error object returned by the language server
type LSPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *LSPError) Error() string {
	if e.Data != nil {
		return fmt.Sprintf("LSP error %d: %s (data: %v)", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("LSP error %d: %s", e.Code, e.Message)
}

// TransportError is the one hard failure of a navigation request: the remote
// call itself failed (connection drop, protocol error, server error reply).
type TransportError struct {
	Method   string `json:"method"`
	Language string `json:"language,omitempty"`
	Cause    error  `json:"cause,omitempty"`
}

func (e *TransportError) Error() string {
	if e.Language != "" {
		return fmt.Sprintf("transport error for %s on %s server: %v", e.Method, e.Language, e.Cause)
	}
	return fmt.Sprintf("transport error for %s: %v", e.Method, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// ResolutionError reports a single location that could not be anchored in a
// document. It is isolated per location and never fails a whole request.
type ResolutionError struct {
	URI   string `json:"uri"`
	Cause error  `json:"cause,omitempty"`
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve location in %s: %v", e.URI, e.Cause)
}

func (e *ResolutionError) Unwrap() error {
	return e.Cause
}

// ValidationError represents parameter validation errors
type ValidationError struct {
	Parameter string `json:"parameter"`
	Message   string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for parameter '%s': %s", e.Parameter, e.Message)
}

// ProcessError represents language server process errors
type ProcessError struct {
	Language string `json:"language"`
	Command  string `json:"command"`
	Cause    error  `json:"cause,omitempty"`
	Type     string `json:"type"` // "start", "stop", "communication"
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("process error for %s server (%s): %s - %v", e.Language, e.Type, e.Command, e.Cause)
}

func (e *ProcessError) Unwrap() error {
	return e.Cause
}

// Error constructors

// NewLSPError creates a new LSP error with specified code, message, and optional data
func NewLSPError(code int, message string, data interface{}) *LSPError {
	return &LSPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// NewTransportError wraps cause as a transport failure of method
func NewTransportError(method, language string, cause error) *TransportError {
	return &TransportError{
		Method:   method,
		Language: language,
		Cause:    cause,
	}
}

// NewResolutionError creates a per-location resolution failure
func NewResolutionError(uri string, cause error) *ResolutionError {
	return &ResolutionError{
		URI:   uri,
		Cause: cause,
	}
}

// NewValidationError creates a new validation error for the specified parameter
func NewValidationError(parameter, message string) *ValidationError {
	return &ValidationError{
		Parameter: parameter,
		Message:   message,
	}
}

// NewProcessError creates a new process error for language server operations
func NewProcessError(language, command, errorType string, cause error) *ProcessError {
	return &ProcessError{
		Language: language,
		Command:  command,
		Type:     errorType,
		Cause:    cause,
	}
}

// Error classification functions

// IsTransportError checks if the error is a transport failure
func IsTransportError(err error) bool {
	var te *TransportError
	return stderrors.As(err, &te)
}

// IsResolutionError checks if the error is a per-location resolution failure
func IsResolutionError(err error) bool {
	var re *ResolutionError
	return stderrors.As(err, &re)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	var ve *ValidationError
	return stderrors.As(err, &ve)
}

// IsProcessError checks if the error is a process-related error
func IsProcessError(err error) bool {
	var pe *ProcessError
	return stderrors.As(err, &pe)
}

// IsTimeoutError checks if the error is a timeout
func IsTimeoutError(err error) bool {
	return stderrors.Is(err, context.DeadlineExceeded)
}

// IsCancellationError checks if the error is a cancellation, either local
// (context.Canceled) or reported by the server (RequestCancelled).
func IsCancellationError(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, context.Canceled) {
		return true
	}
	var lspErr *LSPError
	return stderrors.As(err, &lspErr) && lspErr.Code == RequestCancelled
}

// IsConnectionLost reports write/read errors meaning the server pipe is gone
func IsConnectionLost(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, syscall.EPIPE) || stderrors.Is(err, io.ErrClosedPipe) ||
		stderrors.Is(err, io.EOF) || stderrors.Is(err, syscall.ECONNRESET) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "broken pipe")
}

// GetErrorCategory returns a category string for error classification
func GetErrorCategory(err error) string {
	if err == nil {
		return "none"
	}

	var lspErr *LSPError
	switch {
	case IsCancellationError(err):
		return "cancellation"
	case IsTimeoutError(err):
		return CategoryTimeout
	case IsResolutionError(err):
		return CategoryResolution
	case IsValidationError(err):
		return CategoryValidation
	case stderrors.As(err, &lspErr):
		return GetErrorCodeCategory(lspErr.Code)
	case IsTransportError(err), IsProcessError(err):
		return CategoryConnection
	default:
		return "general"
	}
}
