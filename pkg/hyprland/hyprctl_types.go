package hyprland

type keyboard struct {
	Name         string `json:"name"`
	Layout       string `json:"layout"`
	Variant      string `json:"variant"`
	Options      string `json:"options"`
	ActiveKeymap string `json:"active_keymap"`
	Main         bool   `json:"main"`
}

type devices struct {
	Keyboards []keyboard `json:"keyboards"`
}

func (k keyboard) ToKeyboard() Keyboard {
	return Keyboard{
		Name:         k.Name,
		ActiveKeymap: k.ActiveKeymap,
		Main:         k.Main,
	}
}
