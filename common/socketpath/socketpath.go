// Package socketpath resolves the default VT6 server socket path.
package socketpath

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Default returns the default socket path, $XDG_RUNTIME_DIR/vt6/$PID,
// creating the "vt6" subdirectory on demand. It errors if XDG_RUNTIME_DIR
// is unset or does not name a directory.
func Default() (string, error) {
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		return "", fmt.Errorf("vt6: XDG_RUNTIME_DIR not set")
	}
	info, err := os.Stat(runtimeDir)
	if err != nil {
		return "", fmt.Errorf("vt6: XDG_RUNTIME_DIR: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("vt6: XDG_RUNTIME_DIR %q is not a directory", runtimeDir)
	}

	vt6Dir := filepath.Join(runtimeDir, "vt6")
	if err := os.MkdirAll(vt6Dir, 0700); err != nil {
		return "", fmt.Errorf("vt6: cannot create %q: %w", vt6Dir, err)
	}

	return filepath.Join(vt6Dir, strconv.Itoa(os.Getpid())), nil
}
