package layout

import (
	"errors"
	"fmt"
)

// MaxRegistrySize is the number of layouts addressable by a single index byte.
const MaxRegistrySize = 256

var (
	ErrEmptyRegistry    = errors.New("registry has no layouts")
	ErrRegistryTooLarge = fmt.Errorf("registry holds more than %d layouts", MaxRegistrySize)
	ErrDuplicateLayout  = errors.New("duplicate layout")
	ErrInvalidLayout    = errors.New("invalid layout")
)

// Registry is the ordered list of recognized layouts. The position of a tag
// is the index carried on the wire. A Registry is immutable.
type Registry struct {
	tags []LanguageTag
}

func NewRegistry(tags ...LanguageTag) (Registry, error) {
	if len(tags) == 0 {
		return Registry{}, ErrEmptyRegistry
	}
	if len(tags) > MaxRegistrySize {
		return Registry{}, fmt.Errorf("%d layouts: %w", len(tags), ErrRegistryTooLarge)
	}

	seen := make(map[LanguageTag]struct{}, len(tags))
	for _, tag := range tags {
		if tag == "" {
			return Registry{}, fmt.Errorf("empty tag: %w", ErrInvalidLayout)
		}
		if _, ok := seen[tag]; ok {
			return Registry{}, fmt.Errorf("%q: %w", tag, ErrDuplicateLayout)
		}
		seen[tag] = struct{}{}
	}

	return Registry{tags: append([]LanguageTag(nil), tags...)}, nil
}

// ParseRegistry normalizes configured layout names and builds a Registry
// from them, keeping their order.
func ParseRegistry(names []string) (Registry, error) {
	tags := make([]LanguageTag, 0, len(names))
	for _, name := range names {
		tag, ok := Normalize(name)
		if !ok {
			return Registry{}, fmt.Errorf("%q: %w", name, ErrInvalidLayout)
		}
		tags = append(tags, tag)
	}

	return NewRegistry(tags...)
}

// Index returns the wire index of tag.
func (r Registry) Index(tag LanguageTag) (byte, bool) {
	for i, t := range r.tags {
		if t == tag {
			return byte(i), true
		}
	}

	return 0, false
}

func (r Registry) Tag(idx byte) (LanguageTag, bool) {
	if int(idx) >= len(r.tags) {
		return "", false
	}
	return r.tags[idx], true
}

func (r Registry) Len() int {
	return len(r.tags)
}

func (r Registry) Tags() []LanguageTag {
	return append([]LanguageTag(nil), r.tags...)
}
