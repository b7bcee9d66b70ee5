package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.lsp.dev/protocol"

	"lsp-navigator/src/internal/common"
	"lsp-navigator/src/internal/errors"
	"lsp-navigator/src/internal/registry"
	"lsp-navigator/src/internal/types"
	"lsp-navigator/src/server/capabilities"
	servererrors "lsp-navigator/src/server/errors"
	"lsp-navigator/src/server/process"
	jsonrpc "lsp-navigator/src/server/protocol"
)

const (
	clientName    = "lsp-navigator"
	clientVersion = "1.0.0"

	// lateResponseWindow is how long an abandoned request id is remembered
	lateResponseWindow = 30 * time.Second
)

// pendingRequest stores context for pending LSP requests
type pendingRequest struct {
	respCh chan rpcResponse
	done   chan struct{}
}

type rpcResponse struct {
	result json.RawMessage
	err    *jsonrpc.RPCError
}

// didChangeParams is textDocument/didChange with full-document sync. The
// protocol package's change event always serializes a range, which servers
// read as an incremental edit.
type didChangeParams struct {
	TextDocument   protocol.VersionedTextDocumentIdentifier `json:"textDocument"`
	ContentChanges []fullTextChange                         `json:"contentChanges"`
}

type fullTextChange struct {
	Text string `json:"text"`
}

// StdioClient implements types.LSPClient over the stdio of a child process
type StdioClient struct {
	config          types.ClientConfig
	language        string
	capabilities    protocol.ServerCapabilities
	capDetector     capabilities.CapabilityDetector
	errorTranslator servererrors.ErrorTranslator
	processManager  process.ProcessManager
	processInfo     *process.ProcessInfo
	jsonrpcProtocol jsonrpc.JSONRPCProtocol
	stdin           io.Writer
	conn            net.Conn
	stopCh          chan struct{}
	stopOnce        sync.Once

	mu             sync.RWMutex
	writeMu        sync.Mutex
	active         bool
	requests       map[string]*pendingRequest
	nextID         int
	openDocs       map[string]int32
	syncMu         sync.Mutex
	recentTimeouts map[string]time.Time
	timeoutsMu     sync.RWMutex
}

// NewStdioClient creates a new STDIO LSP client
func NewStdioClient(config types.ClientConfig, language string) *StdioClient {
	return &StdioClient{
		config:          config,
		language:        language,
		capDetector:     capabilities.NewLSPCapabilityDetector(),
		errorTranslator: servererrors.NewLSPErrorTranslator(),
		processManager:  process.NewLSPProcessManager(),
		jsonrpcProtocol: jsonrpc.NewLSPJSONRPCProtocol(language),
		requests:        make(map[string]*pendingRequest),
		openDocs:        make(map[string]int32),
		recentTimeouts:  make(map[string]time.Time),
	}
}

// Language returns the language this client serves
func (c *StdioClient) Language() string {
	return c.language
}

// Start launches the server process (when a command is configured),
// connects to it and performs the initialize handshake.
func (c *StdioClient) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.stopCh != nil {
		c.mu.Unlock()
		return fmt.Errorf("client already started")
	}
	c.stopCh = make(chan struct{})
	c.mu.Unlock()

	var (
		info   *process.ProcessInfo
		stderr io.Reader
		err    error
	)
	if c.config.Command != "" {
		info, err = c.processManager.StartProcess(c.config, c.language)
		if err != nil {
			c.closeStop()
			return fmt.Errorf("failed to start LSP server: %w", err)
		}
		info.SetActive(true)
		stderr = info.Stderr

		c.mu.Lock()
		c.processInfo = info
		c.mu.Unlock()
		go c.processManager.MonitorProcess(info, c.onProcessExit)
	}

	var stdout io.Reader
	if c.config.Address != "" {
		conn, err := dialServer(ctx, c.config.Address)
		if err != nil {
			c.abortStart()
			return err
		}
		c.mu.Lock()
		c.conn = conn
		c.stdin = conn
		c.mu.Unlock()
		stdout = conn
	} else if info != nil {
		c.mu.Lock()
		c.stdin = info.Stdin
		c.mu.Unlock()
		stdout = info.Stdout
	} else {
		c.closeStop()
		return fmt.Errorf("no command or address configured for %s", c.language)
	}

	go func() {
		if err := c.jsonrpcProtocol.HandleResponses(stdout, c, c.stopCh); err != nil {
			common.LSPLogger.Error("Error handling responses for %s: %v", c.language, err)
		}
		// Reader gone: nothing can be answered any more
		c.markInactive()
		c.closeStop()
	}()
	if stderr != nil {
		go c.logStderr(stderr, c.stopCh)
	}

	if err := c.initializeLSP(ctx); err != nil {
		c.abortStart()
		return fmt.Errorf("failed to initialize LSP server: %w", err)
	}

	c.mu.Lock()
	c.active = true
	c.mu.Unlock()
	return nil
}

func (c *StdioClient) abortStart() {
	c.mu.RLock()
	info, conn := c.processInfo, c.conn
	c.mu.RUnlock()
	if conn != nil {
		conn.Close()
	}
	if info != nil {
		_ = c.processManager.StopProcess(info, nil)
	}
	c.closeStop()
}

func (c *StdioClient) closeStop() {
	c.stopOnce.Do(func() {
		c.mu.Lock()
		if c.stopCh == nil {
			c.stopCh = make(chan struct{})
		}
		close(c.stopCh)
		c.mu.Unlock()
	})
}

func (c *StdioClient) markInactive() {
	c.mu.Lock()
	c.active = false
	c.mu.Unlock()
}

func (c *StdioClient) onProcessExit(err error) {
	c.markInactive()
	c.closeStop()

	if err != nil && c.processInfo != nil && !c.processInfo.IntentionalStop() {
		common.LSPLogger.Error("LSP server process exited with error: language=%s, error=%v", c.language, err)
	}
}

// Stop sends shutdown/exit and tears down the process and connection
func (c *StdioClient) Stop() error {
	c.mu.RLock()
	info, conn, started := c.processInfo, c.conn, c.stopCh != nil
	c.mu.RUnlock()
	if !started {
		return nil
	}

	var err error
	if info != nil {
		if err = c.processManager.StopProcess(info, c); err != nil {
			common.LSPLogger.Error("Error stopping process: %v", err)
		}
	} else if c.IsActive() {
		c.sendShutdownSequence()
	}
	if conn != nil {
		conn.Close()
	}

	c.markInactive()
	c.closeStop()
	return err
}

// sendShutdownSequence sends the shutdown sequence to a server this client did not start
func (c *StdioClient) sendShutdownSequence() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = c.SendShutdownRequest(ctx)
	_ = c.SendExitNotification(ctx)
}

// stopChannel returns the channel closed once the connection is gone
func (c *StdioClient) stopChannel() <-chan struct{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stopCh
}

// SendRequest sends a JSON-RPC request and waits for its response.
//
// Failures of the exchange itself are returned as *errors.TransportError.
// When ctx is done first, $/cancelRequest is sent and ctx.Err() returned.
func (c *StdioClient) SendRequest(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	c.mu.Lock()
	if !c.active && method != types.MethodInitialize && method != types.MethodShutdown {
		c.mu.Unlock()
		return nil, errors.NewTransportError(method, c.language, fmt.Errorf("client not active"))
	}
	c.nextID++
	idVal := c.nextID
	id := fmt.Sprintf("%d", idVal)
	request := &pendingRequest{
		respCh: make(chan rpcResponse, 1),
		done:   make(chan struct{}),
	}
	c.requests[id] = request
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.requests, id)
		c.mu.Unlock()
		close(request.done)
	}()

	if err := c.write(jsonrpc.CreateMessage(method, idVal, params)); err != nil {
		if errors.IsConnectionLost(err) {
			c.mu.Lock()
			c.active = false
			c.mu.Unlock()
			common.LSPLogger.Warn("LSP client connection lost, marking as inactive: method=%s, id=%s, error=%v", method, id, err)
		}
		common.LSPLogger.Error("Failed to send LSP request: method=%s, id=%s, error=%v", method, id, err)
		return nil, errors.NewTransportError(method, c.language, fmt.Errorf("failed to send request: %w", err))
	}

	timeout := c.requestTimeout(method)
	waitCtx, cancel := common.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case resp := <-request.respCh:
		if resp.err != nil {
			return nil, errors.NewTransportError(method, c.language, resp.err.ToLSPError())
		}
		return resp.result, nil
	case <-waitCtx.Done():
		c.abandon(id, idVal)
		if ctx.Err() != nil {
			common.LSPLogger.Debug("LSP request cancelled by caller: method=%s, id=%s", method, id)
			return nil, ctx.Err()
		}
		common.LSPLogger.Error("LSP request timeout: method=%s, id=%s, timeout=%v", method, id, timeout)
		return nil, errors.NewTransportError(method, c.language,
			fmt.Errorf("request timeout after %v: %w", timeout, context.DeadlineExceeded))
	case <-c.stopChannel():
		common.LSPLogger.Debug("LSP client stopped during request: method=%s, id=%s", method, id)
		return nil, errors.NewTransportError(method, c.language, fmt.Errorf("client stopped: %w", io.ErrClosedPipe))
	}
}

// abandon remembers id for late-response logging and tells the server to stop working on it
func (c *StdioClient) abandon(id string, idVal int) {
	c.timeoutsMu.Lock()
	c.recentTimeouts[id] = time.Now()
	for reqID, at := range c.recentTimeouts {
		if time.Since(at) > lateResponseWindow {
			delete(c.recentTimeouts, reqID)
		}
	}
	c.timeoutsMu.Unlock()

	if err := c.SendNotification(context.Background(), types.MethodCancelRequest, protocol.CancelParams{ID: idVal}); err != nil {
		common.LSPLogger.Debug("Failed to send cancel request for id=%s: %v", id, err)
	}
}

func (c *StdioClient) requestTimeout(method string) time.Duration {
	var reqTimeout, initTimeout time.Duration
	if info, ok := registry.GetLanguageByName(c.language); ok {
		reqTimeout, initTimeout = info.GetTimeouts()
	}
	if method == types.MethodInitialize && initTimeout > 0 {
		return initTimeout
	}
	if c.config.RequestTimeout > 0 {
		return c.config.RequestTimeout
	}
	if reqTimeout > 0 {
		return reqTimeout
	}
	return common.DefaultRequestTimeout
}

func (c *StdioClient) write(msg jsonrpc.JSONRPCMessage) error {
	c.mu.RLock()
	stdin := c.stdin
	c.mu.RUnlock()
	if stdin == nil {
		return io.ErrClosedPipe
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.jsonrpcProtocol.WriteMessage(stdin, msg)
}

// SendNotification sends a JSON-RPC notification (no response expected)
func (c *StdioClient) SendNotification(ctx context.Context, method string, params interface{}) error {
	c.mu.RLock()
	active := c.active
	c.mu.RUnlock()
	if !active && method != types.MethodInitialized && method != types.MethodExit {
		return errors.NewTransportError(method, c.language, fmt.Errorf("client not active"))
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.write(jsonrpc.CreateNotification(method, params))
}

// EnsureOpen sends textDocument/didOpen the first time uri is seen and a
// full-text textDocument/didChange when version is newer than the last one
// sent. Calls are serialized so versions reach the server in order.
func (c *StdioClient) EnsureOpen(ctx context.Context, uri string, languageID string, version int32, text string) error {
	c.syncMu.Lock()
	defer c.syncMu.Unlock()

	c.mu.RLock()
	sent, open := c.openDocs[uri]
	c.mu.RUnlock()
	if open && version <= sent {
		return nil
	}

	method := types.MethodTextDocumentDidOpen
	var params interface{} = protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        protocol.DocumentURI(uri),
			LanguageID: protocol.LanguageIdentifier(languageID),
			Version:    version,
			Text:       text,
		},
	}
	if open {
		method = types.MethodTextDocumentDidChange
		params = didChangeParams{
			TextDocument: protocol.VersionedTextDocumentIdentifier{
				TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: protocol.DocumentURI(uri)},
				Version:                version,
			},
			ContentChanges: []fullTextChange{{Text: text}},
		}
	}

	if err := c.SendNotification(ctx, method, params); err != nil {
		common.LSPLogger.Error("Failed to send %s notification for %s: %v", method, uri, err)
		return err
	}

	c.mu.Lock()
	c.openDocs[uri] = version
	c.mu.Unlock()
	common.LSPLogger.Debug("Synced %s at version %d", uri, version)
	return nil
}

// IsActive returns true once initialized and until the process exits
func (c *StdioClient) IsActive() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// Supports reports whether the server advertised method during initialize
func (c *StdioClient) Supports(method string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.capDetector.SupportsMethod(c.capabilities, method)
}

// SendShutdownRequest implements process.ShutdownSender
func (c *StdioClient) SendShutdownRequest(ctx context.Context) error {
	_, err := c.SendRequest(ctx, types.MethodShutdown, nil)
	return err
}

// SendExitNotification implements process.ShutdownSender
func (c *StdioClient) SendExitNotification(ctx context.Context) error {
	return c.SendNotification(ctx, types.MethodExit, nil)
}

// HandleRequest answers server-initiated requests
func (c *StdioClient) HandleRequest(method string, id interface{}, params json.RawMessage) error {
	var result interface{} = json.RawMessage("null")
	if method == types.MethodWorkspaceConfiguration {
		// One empty settings object per requested item
		var req struct {
			Items []json.RawMessage `json:"items"`
		}
		_ = json.Unmarshal(params, &req)
		settings := make([]interface{}, len(req.Items))
		for i := range settings {
			settings[i] = map[string]interface{}{}
		}
		result = settings
	}
	return c.write(jsonrpc.CreateResponse(id, result, nil))
}

// HandleResponse routes a response to the waiting request
func (c *StdioClient) HandleResponse(id interface{}, result json.RawMessage, err *jsonrpc.RPCError) error {
	deliverResponseCommon(id, rpcResponse{result: result, err: err}, c.requests, &c.mu, &c.timeoutsMu, c.recentTimeouts, c.stopChannel())
	return nil
}

// HandleNotification ignores server notifications (diagnostics, progress, logs)
func (c *StdioClient) HandleNotification(method string, params json.RawMessage) error {
	return nil
}

func (c *StdioClient) rootPath() string {
	wd := c.config.WorkingDir
	if wd == "" {
		var err error
		if wd, err = os.Getwd(); err != nil {
			wd = os.TempDir()
		}
	}
	if abs, err := filepath.Abs(wd); err == nil {
		wd = abs
	}
	return wd
}

// initializeLSP performs the initialize/initialized handshake
func (c *StdioClient) initializeLSP(ctx context.Context) error {
	wd := c.rootPath()
	rootURI := common.FilePathToURI(wd)

	initParams := protocol.InitializeParams{
		ProcessID: int32(os.Getpid()),
		ClientInfo: &protocol.ClientInfo{
			Name:    clientName,
			Version: clientVersion,
		},
		RootPath:              wd,
		RootURI:               rootURI,
		InitializationOptions: c.getInitializationOptions(),
		Capabilities: protocol.ClientCapabilities{
			Workspace: &protocol.WorkspaceClientCapabilities{
				Configuration:    true,
				WorkspaceFolders: true,
			},
			TextDocument: &protocol.TextDocumentClientCapabilities{
				Definition: &protocol.DefinitionTextDocumentClientCapabilities{
					LinkSupport: true,
				},
				DocumentHighlight: &protocol.DocumentHighlightClientCapabilities{},
			},
		},
		Trace: protocol.TraceOff,
		WorkspaceFolders: []protocol.WorkspaceFolder{
			{URI: string(rootURI), Name: filepath.Base(wd)},
		},
	}

	result, err := c.SendRequest(ctx, types.MethodInitialize, initParams)
	if err != nil {
		return err
	}

	caps, err := c.capDetector.ParseCapabilities(result, c.config.Command)
	if err != nil {
		// Keep going; unknown capabilities mean every request is attempted
		common.LSPLogger.Warn("Failed to parse server capabilities for %s: %v", c.config.Command, err)
		caps.DefinitionProvider = true
		caps.DocumentHighlightProvider = true
	}
	c.mu.Lock()
	c.capabilities = caps
	c.mu.Unlock()

	if err := c.SendNotification(ctx, types.MethodInitialized, struct{}{}); err != nil {
		common.LSPLogger.Error("Failed to send initialized notification for %s: %v", c.language, err)
		return err
	}
	return nil
}

// getInitializationOptions prefers configured options over registry defaults
func (c *StdioClient) getInitializationOptions() map[string]interface{} {
	if c.config.InitializationOptions != nil {
		switch opts := c.config.InitializationOptions.(type) {
		case map[string]interface{}:
			return convertToStringMap(opts)
		case map[interface{}]interface{}:
			return convertInterfaceMap(opts)
		}
	}
	if info, ok := registry.GetLanguageByName(c.language); ok {
		return info.GetInitOptions()
	}
	return map[string]interface{}{}
}

// convertInterfaceMap recursively converts map[interface{}]interface{} to map[string]interface{}
func convertInterfaceMap(m map[interface{}]interface{}) map[string]interface{} {
	result := make(map[string]interface{})
	for k, v := range m {
		if key, ok := k.(string); ok {
			result[key] = convertValue(v)
		}
	}
	return result
}

func convertToStringMap(m map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})
	for k, v := range m {
		result[k] = convertValue(v)
	}
	return result
}

func convertValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[interface{}]interface{}:
		return convertInterfaceMap(val)
	case map[string]interface{}:
		return convertToStringMap(val)
	case []interface{}:
		result := make([]interface{}, len(val))
		for i, item := range val {
			result[i] = convertValue(item)
		}
		return result
	default:
		return v
	}
}

// logStderr surfaces what the server prints on stderr. Traceback lines are
// collected so a following error can be translated with its context.
func (c *StdioClient) logStderr(stderr io.Reader, stopCh <-chan struct{}) {
	scanner := bufio.NewScanner(stderr)
	var errorContext []string

	for scanner.Scan() {
		select {
		case <-stopCh:
			return
		default:
		}

		line := scanner.Text()
		if strings.Contains(line, "Traceback") {
			errorContext = []string{line}
			continue
		}
		if len(errorContext) > 0 && (strings.HasPrefix(line, "  ") || strings.HasPrefix(line, "\t")) {
			errorContext = append(errorContext, line)
			continue
		}

		if c.errorTranslator.TranslateAndLogError(c.config.Command, line, errorContext) {
			errorContext = nil
			continue
		}

		lower := strings.ToLower(line)
		if strings.Contains(lower, "error") || strings.Contains(lower, "fatal") || strings.Contains(line, "Exception") {
			common.LSPLogger.Error("LSP %s stderr ERROR: %s", c.config.Command, line)
		} else {
			common.LSPLogger.Debug("LSP %s stderr: %s", c.config.Command, line)
		}
		errorContext = nil
	}
}
