// Package errors provides the navigator's error taxonomy and JSON-RPC error codes.
package errors

// Standard JSON-RPC error codes as defined in RFC 7309
const (
	ParseError     = -32700 // Invalid JSON was received by the server
	InvalidRequest = -32600 // The JSON sent is not a valid Request object
	MethodNotFound = -32601 // The method does not exist / is not available
	InvalidParams  = -32602 // Invalid method parameter(s)
	InternalError  = -32603 // Internal JSON-RPC error
)

// LSP-specific error codes from the Language Server Protocol
const (
	ServerNotInitialized = -32002 // Server not initialized
	UnknownErrorCode     = -32001 // Unknown error code
	RequestCancelled     = -32800 // Request was cancelled
	ContentModified      = -32801 // Content was modified
	RequestFailed        = -32803 // Request failed with unrecoverable error
)

// Navigator error codes (range: -33000 to -33099)
const (
	ConnectionFailure   = -33001 // Failed to reach the language server
	ProcessStartFailure = -33002 // Failed to start the language server process
	ProcessStopFailure  = -33003 // Failed to stop the language server process
	CommunicationError  = -33004 // Transport failure mid-request

	OperationTimeout = -33011 // Request timed out

	InvalidURI      = -33020 // URI cannot be mapped to a file
	InvalidPosition = -33021 // Position outside the document

	UnresolvableLocation = -33030 // Location could not be anchored in a document
)

// Error code categories for classification and handling
const (
	CategoryJSONRPC    = "jsonrpc"
	CategoryLSP        = "lsp"
	CategoryConnection = "connection"
	CategoryTimeout    = "timeout"
	CategoryValidation = "validation"
	CategoryResolution = "resolution"
	CategoryUnknown    = "unknown"
)

// GetErrorCodeCategory returns the category for a given error code
func GetErrorCodeCategory(code int) string {
	switch {
	case code >= -32700 && code <= -32600:
		return CategoryJSONRPC
	case code >= -32099 && code <= -32000:
		return CategoryJSONRPC
	case code >= -32899 && code <= -32800:
		return CategoryLSP
	case code >= -33009 && code <= -33001:
		return CategoryConnection
	case code >= -33019 && code <= -33010:
		return CategoryTimeout
	case code >= -33029 && code <= -33020:
		return CategoryValidation
	case code >= -33039 && code <= -33030:
		return CategoryResolution
	default:
		return CategoryUnknown
	}
}

var errorCodeMessages = map[int]string{
	ParseError:           "Parse error",
	InvalidRequest:       "Invalid Request",
	MethodNotFound:       "Method not found",
	InvalidParams:        "Invalid params",
	InternalError:        "Internal error",
	ServerNotInitialized: "Server not initialized",
	UnknownErrorCode:     "Unknown error code",
	RequestCancelled:     "Request cancelled",
	ContentModified:      "Content modified",
	RequestFailed:        "Request failed",
	ConnectionFailure:    "Connection failure",
	ProcessStartFailure:  "Process start failure",
	ProcessStopFailure:   "Process stop failure",
	CommunicationError:   "Communication error",
	OperationTimeout:     "Operation timeout",
	InvalidURI:           "Invalid URI",
	InvalidPosition:      "Invalid position",
	UnresolvableLocation: "Unresolvable location",
}

// GetErrorCodeMessage returns the standard message for a given error code
func GetErrorCodeMessage(code int) string {
	if msg, ok := errorCodeMessages[code]; ok {
		return msg
	}
	return "Unknown error"
}
