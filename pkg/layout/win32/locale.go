// Package win32 detects the keyboard layout of the focused window through
// the Win32 input method and locale APIs.
package win32

import (
	"codeberg.org/miketth/layoutcast/pkg/layout"
	"unicode/utf16"
	"unicode/utf8"
)

// localeNameLen is the buffer size GetLocaleInfoW is given for
// LOCALE_SISO639LANGNAME, terminating NUL included.
const localeNameLen = 9

// localeID extracts the language identifier from the low word of an HKL.
func localeID(hkl uintptr) uint32 {
	return uint32(hkl & 0xFFFF)
}

// decodeLocaleName turns the NUL padded UTF-16 buffer filled by
// GetLocaleInfoW into a language tag.
func decodeLocaleName(buf []uint16) (layout.LanguageTag, bool) {
	for i, c := range buf {
		if c == 0 {
			buf = buf[:i]
			break
		}
	}
	if len(buf) == 0 {
		return "", false
	}

	runes := utf16.Decode(buf)
	for _, r := range runes {
		if r == utf8.RuneError {
			return "", false
		}
	}

	return layout.Normalize(string(runes))
}
