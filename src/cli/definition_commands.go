package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"go.lsp.dev/protocol"

	"lsp-navigator/src/internal/common"
	versionpkg "lsp-navigator/src/internal/version"
	"lsp-navigator/src/server"
	"lsp-navigator/src/server/navigation"
	"lsp-navigator/src/utils/configloader"
)

// RunDefinition looks up the definition at opts and prints the locations to
// out. It reports whether any location was printed.
func RunDefinition(ctx context.Context, opts LookupOptions, cfgPath string, out io.Writer) (bool, error) {
	ctx, cancel := lookupContext(ctx, opts)
	defer cancel()

	s, err := openSession(ctx, opts, cfgPath)
	if err != nil {
		return false, err
	}
	defer s.Close()

	services, err := navigation.NewDefaultRegistry(s.manager, s.resolver, navigation.NewWriterPresenter(out), navigation.DescribeDefinition)
	if err != nil {
		return false, err
	}
	svc, ok, err := services.Lookup(s.doc.Language())
	if err != nil {
		return false, err
	}
	if !ok {
		svc = navigation.NewDefinitionService(s.manager, s.resolver, navigation.NewWriterPresenter(out))
	}

	presented, err := svc.GoToDefinition(ctx, s.doc, s.pos)
	if err != nil {
		return false, err
	}
	if !presented {
		if err := writeLine(out, "No definition found"); err != nil {
			return false, err
		}
	}
	common.CLILogger.Debug("External documents loaded: %d", s.resolver.Cache().Len())
	return presented, nil
}

// RunHighlight prints the occurrences of the symbol at opts in its file
func RunHighlight(ctx context.Context, opts LookupOptions, cfgPath string, out io.Writer) (int, error) {
	ctx, cancel := lookupContext(ctx, opts)
	defer cancel()

	s, err := openSession(ctx, opts, cfgPath)
	if err != nil {
		return 0, err
	}
	defer s.Close()

	highlights, err := navigation.NewHighlightService(s.manager).FindHighlights(ctx, s.doc, s.pos)
	if err != nil {
		return 0, err
	}
	if len(highlights) == 0 {
		return 0, writeLine(out, "No occurrences found")
	}

	text := s.doc.Snapshot()
	for _, h := range highlights {
		pos := text.PositionAt(h.Span.Range.Start)
		if err := writeLine(out, "%s:%d:%d %s", s.doc.Path(), pos.Line+1, pos.Character+1, highlightKindName(h.Kind)); err != nil {
			return 0, err
		}
	}
	return len(highlights), nil
}

func highlightKindName(kind protocol.DocumentHighlightKind) string {
	switch kind {
	case protocol.DocumentHighlightKindRead:
		return "read"
	case protocol.DocumentHighlightKindWrite:
		return "write"
	default:
		return "text"
	}
}

// ShowStatus prints the configured servers and whether their commands exist
func ShowStatus(cfgPath string, out io.Writer) error {
	cfg, err := configloader.LoadForCLI(cfgPath, "")
	if err != nil {
		return err
	}
	applyLogLevel(cfg)

	status := server.NewLSPManager(cfg).CheckServerAvailability()
	languages := make([]string, 0, len(status))
	for language := range status {
		languages = append(languages, language)
	}
	sort.Strings(languages)

	if err := writeLine(out, "Workspace: %s", cfg.WorkspaceRoot); err != nil {
		return err
	}
	for _, language := range languages {
		serverConfig := cfg.Servers[language]
		state := "available"
		if st := status[language]; !st.Available {
			state = fmt.Sprintf("unavailable (%v)", st.Error)
		}
		target := serverConfig.Address
		if serverConfig.Command != "" {
			target = fmt.Sprintf("%s %v", serverConfig.Command, serverConfig.Args)
		}
		if err := writeLine(out, "%-12s %-40s %s", language, target, state); err != nil {
			return err
		}
	}
	return nil
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runDefinitionCmd(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()
	_, err := RunDefinition(ctx, lookup, configPath, cmd.OutOrStdout())
	return err
}

func runHighlightCmd(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()
	_, err := RunHighlight(ctx, lookup, configPath, cmd.OutOrStdout())
	return err
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	return ShowStatus(configPath, cmd.OutOrStdout())
}

func runVersionCmd(cmd *cobra.Command, args []string) error {
	if verbose {
		return writeLine(cmd.OutOrStdout(), "%s", versionpkg.GetFullVersionInfo())
	}
	return writeLine(cmd.OutOrStdout(), "%s", versionpkg.GetVersion())
}
