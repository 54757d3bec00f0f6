//go:build windows

package detect

import (
	"codeberg.org/miketth/layoutcast/pkg/layout"
	"codeberg.org/miketth/layoutcast/pkg/layout/win32"
	"go.uber.org/zap"
)

func newPlatformDetector(_ Options, log *zap.SugaredLogger) (layout.Detector, error) {
	log.Debug("using win32 layout detector")
	return win32.NewDetector(log), nil
}
