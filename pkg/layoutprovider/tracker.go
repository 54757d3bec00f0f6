package layoutprovider

import "codeberg.org/miketth/layoutcast/pkg/layout"

// tracker remembers the last layout seen by one polling goroutine.
// It is never shared between goroutines.
type tracker struct {
	registry layout.Registry
	last     layout.LanguageTag
}

func newTracker(registry layout.Registry) *tracker {
	return &tracker{registry: registry}
}

// observe records tag and reports whether it differs from the previous one
// and, if so, whether it has a registry index to publish. Unknown layouts
// still become the last seen layout.
func (t *tracker) observe(tag layout.LanguageTag) (idx byte, changed, known bool) {
	if tag == t.last {
		return 0, false, false
	}

	t.last = tag
	idx, known = t.registry.Index(tag)
	return idx, true, known
}
