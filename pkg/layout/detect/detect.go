// Package detect picks the layout detector for the running platform.
package detect

import (
	"codeberg.org/miketth/layoutcast/pkg/layout"
	"errors"
	"go.uber.org/zap"
)

var ErrUnsupportedPlatform = errors.New("no layout detector for this platform")

type Options struct {
	// EvdevXMLPath is the XKB rules file used to map keymap names to
	// languages on Linux.
	EvdevXMLPath string
}

func New(opts Options, log *zap.SugaredLogger) (layout.Detector, error) {
	return newPlatformDetector(opts, log)
}
