package hyprland

import (
	"encoding/json"
	"fmt"
	"net"
	"time"
)

const requestTimeout = time.Second

// Hyprctl talks to the Hyprland control socket, the one hyprctl uses.
type Hyprctl struct {
	socketPath string
}

var _ KeyboardLister = (*Hyprctl)(nil)

func NewHyprctl() (*Hyprctl, error) {
	path, err := getSocketPath()
	if err != nil {
		return nil, fmt.Errorf("get socket path: %w", err)
	}

	return NewHyprctlAt(path), nil
}

func NewHyprctlAt(socketPath string) *Hyprctl {
	return &Hyprctl{socketPath: socketPath}
}

func (c *Hyprctl) GetKeyboards() ([]Keyboard, error) {
	conn, err := c.makeRequest("devices", "j")
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	dec := json.NewDecoder(conn)

	var devs devices
	if err := dec.Decode(&devs); err != nil {
		return nil, fmt.Errorf("unmarshal devices: %w", err)
	}

	keyboards := devs.Keyboards
	out := make([]Keyboard, 0, len(keyboards))
	for _, k := range keyboards {
		out = append(out, k.ToKeyboard())
	}

	return out, nil
}

func (c *Hyprctl) makeRequest(request string, args string) (net.Conn, error) {
	conn, err := connect(c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect to hyprctl socket: %w", err)
	}

	// a stuck compositor must not stall polling
	if err := conn.SetDeadline(time.Now().Add(requestTimeout)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	_, err = conn.Write([]byte(fmt.Sprintf("%s/%s", args, request)))
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("write to hyprctl socket: %w", err)
	}

	return conn, nil
}
