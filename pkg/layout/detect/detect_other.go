//go:build !windows

package detect

import (
	"codeberg.org/miketth/layoutcast/pkg/hyprland"
	"codeberg.org/miketth/layoutcast/pkg/layout"
	"codeberg.org/miketth/layoutcast/pkg/xkblayouts"
	"fmt"
	"go.uber.org/zap"
)

func newPlatformDetector(opts Options, log *zap.SugaredLogger) (layout.Detector, error) {
	if !hyprland.Running() {
		return nil, fmt.Errorf("hyprland session not found: %w", ErrUnsupportedPlatform)
	}

	layouts, err := xkblayouts.ParseLayouts(opts.EvdevXMLPath)
	if err != nil {
		return nil, fmt.Errorf("parse layouts: %w", err)
	}

	hyprctl, err := hyprland.NewHyprctl()
	if err != nil {
		return nil, fmt.Errorf("connect hyprctl: %w", err)
	}

	log.Debug("using hyprland layout detector")
	return hyprland.NewDetector(hyprctl, layouts, log), nil
}
