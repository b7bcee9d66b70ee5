package common

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// executableNames expands name with the platform's launcher suffixes
func executableNames(name string) []string {
	ext := filepath.Ext(name)
	if runtime.GOOS == "windows" {
		if ext == ".cmd" || ext == ".bat" || ext == ".exe" {
			return []string{name}
		}
		return []string{name, name + ".cmd", name + ".bat", name + ".exe"}
	}
	if ext == "" {
		return []string{name, name + ".sh"}
	}
	return []string{name}
}

// FindExecutable resolves name on PATH, then under installRoot and
// installRoot/bin. It returns "" when nothing runnable is found.
func FindExecutable(installRoot, name string) string {
	candidates := executableNames(name)
	for _, c := range candidates {
		if path, err := exec.LookPath(c); err == nil {
			return path
		}
	}
	if installRoot == "" {
		return ""
	}
	for _, dir := range []string{installRoot, filepath.Join(installRoot, "bin")} {
		for _, c := range candidates {
			p := filepath.Join(dir, c)
			if isExecutable(p) {
				return p
			}
		}
	}
	return ""
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return runtime.GOOS == "windows" || info.Mode()&0111 != 0
}
