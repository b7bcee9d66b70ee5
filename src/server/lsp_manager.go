package server

import (
	"context"
	"fmt"
	"os/exec"
	"sort"
	"sync"
	"time"

	"lsp-navigator/src/config"
	"lsp-navigator/src/internal/common"
	"lsp-navigator/src/internal/security"
	"lsp-navigator/src/internal/types"
)

const (
	clientStartTimeout = 30 * time.Second
	clientStopTimeout  = 10 * time.Second
)

// ClientStatus represents the status of an LSP client
type ClientStatus struct {
	Active    bool
	Error     error
	Available bool // Whether the server command is available on system
}

// ClientFactory builds an unstarted client for a language
type ClientFactory func(cfg types.ClientConfig, language string) types.LSPClient

func defaultClientFactory(cfg types.ClientConfig, language string) types.LSPClient {
	return NewStdioClient(cfg, language)
}

// LSPManager owns one client per language and implements ActiveServer
type LSPManager struct {
	clients      map[string]types.LSPClient
	clientErrors map[string]error
	config       *config.Config
	newClient    ClientFactory
	mu           sync.RWMutex
}

// NewLSPManager creates a manager for the servers in cfg
func NewLSPManager(cfg *config.Config) *LSPManager {
	if cfg == nil {
		cfg = config.GetDefaultConfig()
	}
	return &LSPManager{
		clients:      make(map[string]types.LSPClient),
		clientErrors: make(map[string]error),
		config:       cfg,
		newClient:    defaultClientFactory,
	}
}

// WithClientFactory replaces how clients are built
func (m *LSPManager) WithClientFactory(factory ClientFactory) *LSPManager {
	m.newClient = factory
	return m
}

// Start starts the servers for languages, or every configured server when
// none are given. Individual start failures are recorded in the client
// status and do not fail the call.
func (m *LSPManager) Start(ctx context.Context, languages ...string) error {
	if len(languages) == 0 {
		for language := range m.config.Servers {
			languages = append(languages, language)
		}
		sort.Strings(languages)
	}

	results := make(chan struct {
		language string
		err      error
	}, len(languages))

	for _, language := range languages {
		go func(lang string) {
			clientCtx, cancel := context.WithTimeout(ctx, clientStartTimeout)
			defer cancel()

			results <- struct {
				language string
				err      error
			}{lang, m.StartLanguage(clientCtx, lang)}
		}(language)
	}

	for completed := 0; completed < len(languages); {
		select {
		case result := <-results:
			completed++
			if result.err != nil {
				common.LSPLogger.Error("Failed to start %s client: %v", result.language, result.err)
			}
		case <-ctx.Done():
			common.LSPLogger.Warn("Context cancelled, %d/%d clients started", completed, len(languages))
			return ctx.Err()
		}
	}
	return nil
}

// StartLanguage starts the configured server for one language
func (m *LSPManager) StartLanguage(ctx context.Context, language string) error {
	clientConfig, err := m.config.ClientConfigFor(language)
	if err != nil {
		m.recordError(language, err)
		return err
	}
	if clientConfig.Command != "" {
		clientConfig.Command = m.resolveCommandPath(language, clientConfig.Command)
		if _, err := exec.LookPath(clientConfig.Command); err != nil {
			err = fmt.Errorf("LSP server executable not found for %s: %s", language, clientConfig.Command)
			m.recordError(language, err)
			return err
		}
		if err := security.ValidateCommand(clientConfig.Command, clientConfig.Args); err != nil {
			err = fmt.Errorf("refusing to start %s server: %w", language, err)
			m.recordError(language, err)
			return err
		}
	}

	client := m.newClient(clientConfig, language)
	if err := client.Start(ctx); err != nil {
		err = fmt.Errorf("failed to start client: %w", err)
		m.recordError(language, err)
		return err
	}

	m.AddClient(client)
	common.LSPLogger.Info("Started %s language server", language)
	return nil
}

// AddClient registers an already started client under its language,
// replacing any previous one.
func (m *LSPManager) AddClient(client types.LSPClient) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[client.Language()] = client
	delete(m.clientErrors, client.Language())
}

func (m *LSPManager) recordError(language string, err error) {
	m.mu.Lock()
	m.clientErrors[language] = err
	m.mu.Unlock()
}

// Stop stops all LSP clients in parallel
func (m *LSPManager) Stop() error {
	m.mu.Lock()
	clients := m.clients
	m.clients = make(map[string]types.LSPClient)
	m.mu.Unlock()

	done := make(chan error, len(clients))
	for language, client := range clients {
		go func(lang string, c types.LSPClient) {
			err := c.Stop()
			if err != nil {
				common.LSPLogger.Error("Error stopping %s client: %v", lang, err)
			}
			done <- err
		}(language, client)
	}

	timeout := time.After(clientStopTimeout)
	var lastErr error
	for completed := 0; completed < len(clients); {
		select {
		case err := <-done:
			completed++
			if err != nil {
				lastErr = err
			}
		case <-timeout:
			common.LSPLogger.Warn("Timeout stopping LSP clients, %d/%d completed", completed, len(clients))
			return fmt.Errorf("timeout stopping LSP clients")
		}
	}
	return lastErr
}

// GetClient returns the client registered for language, active or not
func (m *LSPManager) GetClient(language string) (types.LSPClient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	client, exists := m.clients[language]
	if !exists {
		return nil, fmt.Errorf("no client for language: %s", language)
	}
	return client, nil
}

// CurrentChannel returns the client for language only while it is active
func (m *LSPManager) CurrentChannel(language string) (types.Channel, bool) {
	m.mu.RLock()
	client, exists := m.clients[language]
	m.mu.RUnlock()

	if !exists || client == nil || !client.IsActive() {
		return nil, false
	}
	return client, true
}

// GetClientStatus returns the status of every configured or registered language
func (m *LSPManager) GetClientStatus() map[string]ClientStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := make(map[string]ClientStatus)
	for language := range m.config.Servers {
		status[language] = ClientStatus{Error: fmt.Errorf("client not started")}
	}
	for language, err := range m.clientErrors {
		status[language] = ClientStatus{Error: err}
	}
	for language, client := range m.clients {
		status[language] = ClientStatus{Active: client.IsActive(), Available: true}
	}
	return status
}

// CheckServerAvailability checks configured commands without starting them
func (m *LSPManager) CheckServerAvailability() map[string]ClientStatus {
	status := make(map[string]ClientStatus)
	for language, serverConfig := range m.config.Servers {
		if serverConfig.Command == "" {
			// TCP-only servers are checked when connecting
			status[language] = ClientStatus{Available: true}
			continue
		}
		command := m.resolveCommandPath(language, serverConfig.Command)
		if _, err := exec.LookPath(command); err != nil {
			status[language] = ClientStatus{Error: fmt.Errorf("command not found: %s", serverConfig.Command)}
			continue
		}
		if err := security.ValidateCommand(command, serverConfig.Args); err != nil {
			status[language] = ClientStatus{Error: err}
			continue
		}
		status[language] = ClientStatus{Available: true}
	}
	return status
}
