package types

// LSP protocol lifecycle methods
const (
	// MethodInitialize is sent as the first request from client to server
	MethodInitialize = "initialize"
	// MethodInitialized is sent from client to server after the initialize response
	MethodInitialized = "initialized"
	// MethodShutdown is sent from client to server to shutdown the server
	MethodShutdown = "shutdown"
	// MethodExit is sent from client to server to exit the server process
	MethodExit = "exit"
	// MethodCancelRequest asks the server to abandon an in-flight request
	MethodCancelRequest = "$/cancelRequest"
)

// LSP document synchronization methods
const (
	// MethodTextDocumentDidOpen is sent when a document is opened
	MethodTextDocumentDidOpen = "textDocument/didOpen"
	// MethodTextDocumentDidChange carries edits to an open document
	MethodTextDocumentDidChange = "textDocument/didChange"
)

// LSP language feature methods
const (
	// MethodTextDocumentDefinition provides go-to-definition functionality
	MethodTextDocumentDefinition = "textDocument/definition"
	// MethodTextDocumentDocumentHighlight returns the occurrences of the symbol under the cursor
	MethodTextDocumentDocumentHighlight = "textDocument/documentHighlight"
)

// Server-initiated requests answered by the client
const (
	MethodWorkspaceConfiguration = "workspace/configuration"
	MethodWindowWorkDoneProgress = "window/workDoneProgress/create"
	MethodClientRegisterCap      = "client/registerCapability"
)
