package server

import (
	"os/exec"

	"lsp-navigator/src/internal/common"
)

// resolveCommandPath prefers command as found on PATH and falls back to a
// copy installed under ~/.lsp-navigator/tools/{language}.
func (m *LSPManager) resolveCommandPath(language, command string) string {
	if command == "" {
		return command
	}
	if _, err := exec.LookPath(command); err == nil {
		return command
	}
	if resolved := common.FindExecutable(common.ToolRoot(language), command); resolved != "" {
		common.LSPLogger.Debug("Using installed %s command at %s", language, resolved)
		return resolved
	}
	return command
}
