package hyprland

import (
	"errors"
	"fmt"
	"github.com/adrg/xdg"
	"net"
	"os"
	"path/filepath"
)

var (
	ErrNotRunning = errors.New("hyprland might not be running")
	ErrNoKeyboard = errors.New("no keyboard reported")
)

const signatureEnv = "HYPRLAND_INSTANCE_SIGNATURE"

// Running reports whether the process was started inside a Hyprland session.
func Running() bool {
	return os.Getenv(signatureEnv) != ""
}

func connect(socketPath string) (net.Conn, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}

	return conn, nil
}

// getSocketPath locates the control socket. Hyprland keeps it under
// $XDG_RUNTIME_DIR since 0.40 and under /tmp before that.
func getSocketPath() (string, error) {
	signature := os.Getenv(signatureEnv)
	if signature == "" {
		return "", fmt.Errorf("%s is not set, %w", signatureEnv, ErrNotRunning)
	}

	candidates := []string{
		filepath.Join(xdg.RuntimeDir, "hypr", signature, ".socket.sock"),
		filepath.Join("/tmp/hypr", signature, ".socket.sock"),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no control socket for instance %q, %w", signature, ErrNotRunning)
}
