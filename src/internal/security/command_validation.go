// Package security vets the commands the navigator is asked to launch.
package security

import (
	"fmt"
	"path/filepath"
	"strings"

	"lsp-navigator/src/internal/registry"
)

// extraCommands are launchers and alternative servers accepted on top of
// the registry's default server commands.
var extraCommands = []string{
	"node", "python", "python3", "dotnet", "java",
	"pylsp", "pyright-langserver", "basedpyright-langserver",
	"OmniSharp", "csharp-ls",
	"echo",
}

var allowedCommands = func() map[string]bool {
	allowed := make(map[string]bool)
	for _, name := range registry.GetLanguageNames() {
		if lang, ok := registry.GetLanguageByName(name); ok && lang.DefaultCommand != "" {
			allowed[lang.DefaultCommand] = true
		}
	}
	for _, cmd := range extraCommands {
		allowed[cmd] = true
	}
	return allowed
}()

// shellMeta are characters that only make sense to a shell
const shellMeta = "|&;`$"

// ValidateCommand rejects server commands outside the allowlist and
// arguments carrying path traversal or shell metacharacters. Windows
// launcher extensions are ignored when matching, and names ending in an
// allowed command (wrappers like "my-gopls") are accepted.
func ValidateCommand(command string, args []string) error {
	base := filepath.Base(command)
	switch strings.ToLower(filepath.Ext(base)) {
	case ".exe", ".cmd", ".bat":
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}

	if !isAllowed(base) {
		return fmt.Errorf("command not in allowlist: %s", base)
	}

	for _, arg := range args {
		if strings.Contains(arg, "..") {
			return fmt.Errorf("path traversal detected in argument: %s", arg)
		}
		if strings.ContainsAny(arg, shellMeta) {
			return fmt.Errorf("shell injection detected in argument: %s", arg)
		}
	}
	return nil
}

func isAllowed(base string) bool {
	if allowedCommands[base] {
		return true
	}
	for cmd := range allowedCommands {
		if strings.HasSuffix(base, cmd) {
			return true
		}
	}
	return false
}
