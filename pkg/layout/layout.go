// Package layout holds the types shared by every keyboard layout detector and
// the provider that turns detections into bus events.
package layout

import (
	"golang.org/x/text/language"
	"strings"
)

// LanguageTag is a short normalized language code identifying an input
// layout, e.g. "en" or "ru".
type LanguageTag string

func (t LanguageTag) String() string {
	return string(t)
}

// Detector reports the layout active for the currently focused window.
// A false result means "no signal": the caller tries again on its next poll.
type Detector interface {
	DetectActiveLayout() (LanguageTag, bool)
}

type DetectorFunc func() (LanguageTag, bool)

func (f DetectorFunc) DetectActiveLayout() (LanguageTag, bool) {
	return f()
}

// Normalize reduces a locale or language name ("ru_RU.UTF-8", "eng", "DE")
// to its two or three letter ISO 639 base.
func Normalize(name string) (LanguageTag, bool) {
	primary := strings.FieldsFunc(strings.TrimSpace(name), func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || r == '@'
	})
	if len(primary) == 0 {
		return "", false
	}

	base, err := language.ParseBase(primary[0])
	if err != nil {
		return "", false
	}

	code := base.String()
	if code == "" || code == "und" {
		return "", false
	}

	return LanguageTag(code), true
}
