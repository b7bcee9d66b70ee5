package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.lsp.dev/protocol"

	"lsp-navigator/src/config"
	"lsp-navigator/src/internal/common"
	"lsp-navigator/src/internal/errors"
	"lsp-navigator/src/internal/registry"
	"lsp-navigator/src/server"
	"lsp-navigator/src/server/documents"
	"lsp-navigator/src/utils/configloader"
)

const defaultLookupTimeout = 2 * time.Minute

// LookupOptions selects the symbol a navigation command asks about
type LookupOptions struct {
	File      string
	Line      int // 1-based
	Column    int // 1-based, UTF-16 code units
	Offset    int // 0-based byte offset, used when >= 0
	Language  string
	Workspace string
	Timeout   time.Duration
}

// position converts the options to a protocol position within doc
func (o LookupOptions) position(doc *documents.Document) (protocol.Position, error) {
	if o.Offset >= 0 {
		text := doc.Snapshot()
		if o.Offset > text.Len() {
			return protocol.Position{}, errors.NewValidationError(FlagOffset,
				fmt.Sprintf("offset %d is past the end of %s (%d bytes)", o.Offset, doc.Path(), text.Len()))
		}
		return text.PositionAt(o.Offset), nil
	}
	if o.Line < 1 {
		return protocol.Position{}, errors.NewValidationError(FlagLine, "must be at least 1")
	}
	if o.Column < 1 {
		return protocol.Position{}, errors.NewValidationError(FlagColumn, "must be at least 1")
	}
	return protocol.Position{Line: uint32(o.Line - 1), Character: uint32(o.Column - 1)}, nil
}

// session is one CLI lookup: a workspace with the requested file open and
// the server for its language started.
type session struct {
	cfg       *config.Config
	manager   *server.LSPManager
	workspace *documents.MemoryWorkspace
	resolver  *documents.Resolver
	doc       *documents.Document
	pos       protocol.Position
}

func openSession(ctx context.Context, opts LookupOptions, cfgPath string) (*session, error) {
	if opts.File == "" {
		return nil, errors.NewValidationError(FlagFile, "is required")
	}

	cfg, err := configloader.LoadForCLI(cfgPath, opts.Workspace)
	if err != nil {
		return nil, err
	}
	applyLogLevel(cfg)

	language := opts.Language
	if language == "" {
		language = registry.DetectLanguage(opts.File)
	}
	if _, configured := cfg.Servers[language]; !configured {
		if err := registry.ValidateLanguage(language); err != nil {
			return nil, fmt.Errorf("cannot navigate %s: %w", opts.File, err)
		}
	}

	workspace := documents.NewWorkspace(cfg.WorkspaceRoot)
	doc, err := workspace.OpenFile(opts.File, language)
	if err != nil {
		return nil, err
	}
	pos, err := opts.position(doc)
	if err != nil {
		return nil, err
	}

	manager := server.NewLSPManager(cfg)
	if err := manager.StartLanguage(ctx, language); err != nil {
		common.CLILogger.Warn("No %s server available: %v", language, err)
	}

	return &session{
		cfg:       cfg,
		manager:   manager,
		workspace: workspace,
		resolver:  documents.NewResolver(workspace, documents.NewExternalCache()),
		doc:       doc,
		pos:       pos,
	}, nil
}

func (s *session) Close() {
	if err := s.manager.Stop(); err != nil {
		common.CLILogger.Warn("Failed to stop language server: %v", err)
	}
}

func applyLogLevel(cfg *config.Config) {
	if verbose {
		common.SetGlobalLevel(common.LogDebug)
		return
	}
	if level, err := common.ParseLogLevel(cfg.LogLevel); err == nil {
		common.SetGlobalLevel(level)
	}
}

// lookupContext bounds a lookup by opts.Timeout
func lookupContext(parent context.Context, opts LookupOptions) (context.Context, context.CancelFunc) {
	if opts.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, opts.Timeout)
}

func writeLine(w io.Writer, format string, args ...interface{}) error {
	_, err := fmt.Fprintf(w, format+"\n", args...)
	return err
}
