package hyprland

type KeyboardLister interface {
	GetKeyboards() ([]Keyboard, error)
}

type Keyboard struct {
	Name         string
	ActiveKeymap string
	Main         bool
}
