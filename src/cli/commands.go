package cli

import (
	"github.com/spf13/cobra"
)

// CLI Constants
const (
	CmdDefinition = "definition"
	CmdHighlight  = "highlight"
	CmdStatus     = "status"
	CmdVersion    = "version"
	FlagConfig    = "config"
	FlagFile      = "file"
	FlagLine      = "line"
	FlagColumn    = "column"
	FlagOffset    = "offset"
	FlagLanguage  = "language"
	FlagWorkspace = "workspace"
	FlagTimeout   = "timeout"
	FlagVerbose   = "verbose"
)

// CLI Variables
var (
	configPath string
	verbose    bool
	lookup     LookupOptions
)

// Root command
var rootCmd = &cobra.Command{
	Use:   "lsp-navigator",
	Short: "LSP Navigator - go-to-definition through a language server",
	Long: `LSP Navigator asks a Language Server Protocol server where a symbol is defined and
prints the navigable locations it answers with.

Locations inside the workspace are anchored in the opened documents. Locations in files
outside the workspace (SDK sources, generated files, dependencies) are loaded once into an
in-memory cache and reused for the rest of the session.

QUICK START:
  lsp-navigator definition --file main.go --line 12 --column 8
  lsp-navigator highlight --file main.go --line 12 --column 8
  lsp-navigator status

SUPPORTED LANGUAGES:
  - Go (gopls)
  - Python (jedi-language-server)
  - TypeScript/JavaScript (typescript-language-server)
  - Rust (rust-analyzer)
  - C# and Visual Basic (OmniSharp)

Use 'lsp-navigator <command> --help' for detailed command information.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Command definitions
var (
	definitionCmd = &cobra.Command{
		Use:   CmdDefinition,
		Short: "Find where the symbol at a position is defined",
		Long: `Start the language server for the file's language, ask it for the definition of the
symbol at --line/--column (1-based) or --offset (0-based byte offset) and print one
"path:line:column" line per location.

Nothing is printed but "No definition found" when no server is running, the server has no
answer, or none of its locations can be opened.

Examples:
  lsp-navigator definition --file src/app.ts --line 40 --column 17
  lsp-navigator definition --file Program.cs --offset 812 --config navigator.yaml`,
		RunE: runDefinitionCmd,
	}

	highlightCmd = &cobra.Command{
		Use:   CmdHighlight,
		Short: "List occurrences of the symbol at a position in its file",
		Long: `Ask the language server for the document highlights of the symbol at --line/--column
and print every occurrence with its kind (text, read or write).`,
		RunE: runHighlightCmd,
	}

	statusCmd = &cobra.Command{
		Use:   CmdStatus,
		Short: "Show configured language servers",
		Long:  `Display the configured language servers and whether their commands can be found, without starting them.`,
		RunE:  runStatusCmd,
	}

	versionCmd = &cobra.Command{
		Use:   CmdVersion,
		Short: "Show version information",
		Long: `Display version information for LSP Navigator.

Examples:
  lsp-navigator version              # Show version number
  lsp-navigator version --verbose    # Show detailed build information`,
		RunE: runVersionCmd,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, FlagConfig, "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, FlagVerbose, "v", false, "Verbose output")

	for _, cmd := range []*cobra.Command{definitionCmd, highlightCmd} {
		cmd.Flags().StringVarP(&lookup.File, FlagFile, "f", "", "Source file containing the symbol")
		cmd.Flags().IntVarP(&lookup.Line, FlagLine, "l", 0, "Line of the symbol (1-based)")
		cmd.Flags().IntVar(&lookup.Column, FlagColumn, 0, "Column of the symbol (1-based, UTF-16 units)")
		cmd.Flags().IntVar(&lookup.Offset, FlagOffset, -1, "Byte offset of the symbol (0-based); overrides --line/--column")
		cmd.Flags().StringVar(&lookup.Language, FlagLanguage, "", "Language identifier (detected from the file extension by default)")
		cmd.Flags().StringVarP(&lookup.Workspace, FlagWorkspace, "w", "", "Workspace root (default: config workspace_root or current directory)")
		cmd.Flags().DurationVar(&lookup.Timeout, FlagTimeout, defaultLookupTimeout, "Overall time limit for server start and lookup")
		_ = cmd.MarkFlagRequired(FlagFile)
	}

	rootCmd.AddCommand(definitionCmd)
	rootCmd.AddCommand(highlightCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for tests and embedding
func GetRootCmd() *cobra.Command {
	return rootCmd
}
