package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths carries the resolved absolute directories the application works
// with. Relative configured directories are anchored at the executable
// directory so the binary behaves the same regardless of the working
// directory it is launched from.
type Paths struct {
	ExecutableDir string
	DataDir       string
	LogsDir       string
	WebDir        string
}

// ResolvePaths resolves the configured directories to absolute paths.
func ResolvePaths(cfg PathsConfig) (*Paths, error) {
	execDir := cfg.ExecutableDir
	if execDir == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("locate executable: %w", err)
		}
		resolved, err := filepath.EvalSymlinks(exe)
		if err == nil {
			exe = resolved
		}
		execDir = filepath.Dir(exe)
	}

	p := &Paths{
		ExecutableDir: execDir,
		DataDir:       joinIfRelative(execDir, cfg.DataDir),
		LogsDir:       joinIfRelative(execDir, cfg.LogsDir),
		WebDir:        joinIfRelative(execDir, cfg.WebDir),
	}
	return p, nil
}

// EnsureDirectories creates the data and logs directories if missing.
// The web directory is shipped with the binary and is not created.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

func joinIfRelative(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
