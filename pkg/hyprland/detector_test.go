package hyprland

import (
	"codeberg.org/miketth/layoutcast/pkg/layout"
	"codeberg.org/miketth/layoutcast/pkg/xkblayouts"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"testing"
)

type fakeLister struct {
	keyboards []Keyboard
	err       error
}

func (f *fakeLister) GetKeyboards() ([]Keyboard, error) {
	return f.keyboards, f.err
}

func newTestDetector(t *testing.T, lister KeyboardLister) *Detector {
	t.Helper()
	layouts, err := xkblayouts.ParseLayouts("../xkblayouts/testdata/evdev.xml")
	require.NoError(t, err)
	return NewDetector(lister, layouts, zaptest.NewLogger(t).Sugar())
}

func TestDetectorPrefersMainKeyboard(t *testing.T) {
	d := newTestDetector(t, &fakeLister{keyboards: []Keyboard{
		{Name: "yubikey", ActiveKeymap: "German"},
		{Name: "laptop", ActiveKeymap: "Russian (phonetic)", Main: true},
	}})

	tag, ok := d.DetectActiveLayout()
	require.True(t, ok)
	assert.Equal(t, layout.LanguageTag("ru"), tag)
}

func TestDetectorFallsBackToFirstKeyboard(t *testing.T) {
	d := newTestDetector(t, &fakeLister{keyboards: []Keyboard{
		{Name: "virtual"},
		{Name: "usb", ActiveKeymap: "English (Dvorak)"},
		{Name: "other", ActiveKeymap: "German"},
	}})

	tag, ok := d.DetectActiveLayout()
	require.True(t, ok)
	assert.Equal(t, layout.LanguageTag("en"), tag)
}

func TestDetectorNoSignal(t *testing.T) {
	tests := map[string]KeyboardLister{
		"error":          &fakeLister{err: errors.New("boom")},
		"no keyboards":   &fakeLister{},
		"no keymap":      &fakeLister{keyboards: []Keyboard{{Name: "virtual", Main: true}}},
		"unknown keymap": &fakeLister{keyboards: []Keyboard{{Name: "kb", ActiveKeymap: "Klingon", Main: true}}},
	}

	for name, lister := range tests {
		t.Run(name, func(t *testing.T) {
			_, ok := newTestDetector(t, lister).DetectActiveLayout()
			assert.False(t, ok)
		})
	}
}
