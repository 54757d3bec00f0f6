package hyprland

import (
	"codeberg.org/miketth/layoutcast/pkg/layout"
	"codeberg.org/miketth/layoutcast/pkg/xkblayouts"
	"fmt"
	"go.uber.org/zap"
)

// Detector reports the language of the active keymap of the main keyboard.
// Hyprland applies one keymap per device rather than per window, so the
// main keyboard stands in for the focused window.
type Detector struct {
	keyboards KeyboardLister
	layouts   *xkblayouts.XkbConfigRegistry
	log       *zap.SugaredLogger
}

var _ layout.Detector = (*Detector)(nil)

func NewDetector(
	keyboards KeyboardLister,
	layouts *xkblayouts.XkbConfigRegistry,
	log *zap.SugaredLogger,
) *Detector {
	return &Detector{
		keyboards: keyboards,
		layouts:   layouts,
		log:       log,
	}
}

func (d *Detector) DetectActiveLayout() (layout.LanguageTag, bool) {
	kb, err := d.mainKeyboard()
	if err != nil {
		d.log.Debugw("no keyboard to read layout from", "error", err)
		return "", false
	}

	lang := d.layouts.GetLanguageFromPrettyName(kb.ActiveKeymap)
	if lang == "" {
		d.log.Debugw("keymap has no language", "keyboard", kb.Name, "keymap", kb.ActiveKeymap)
		return "", false
	}

	return layout.Normalize(lang)
}

func (d *Detector) mainKeyboard() (Keyboard, error) {
	keyboards, err := d.keyboards.GetKeyboards()
	if err != nil {
		return Keyboard{}, fmt.Errorf("get keyboards: %w", err)
	}

	var fallback *Keyboard
	for i := range keyboards {
		k := &keyboards[i]
		if k.ActiveKeymap == "" {
			continue
		}
		if k.Main {
			return *k, nil
		}
		if fallback == nil {
			fallback = k
		}
	}

	if fallback == nil {
		return Keyboard{}, ErrNoKeyboard
	}

	return *fallback, nil
}
