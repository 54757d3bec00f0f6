package xkblayouts

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

func ParseLayouts(path string) (*XkbConfigRegistry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

func Parse(r io.Reader) (*XkbConfigRegistry, error) {
	registry := &XkbConfigRegistry{}
	err := xml.NewDecoder(r).Decode(registry)
	if err != nil {
		return nil, fmt.Errorf("decode xml: %w", err)
	}

	return registry, nil
}

// GetLayoutAndVariantFromPrettyName maps a description such as
// "English (US)" to its layout and variant codes.
func (r *XkbConfigRegistry) GetLayoutAndVariantFromPrettyName(prettyName string) (string, string) {
	l, v := r.find(prettyName)
	switch {
	case v != nil:
		return l.ConfigItem.Name, v.ConfigItem.Name
	case l != nil:
		return l.ConfigItem.Name, ""
	}

	return "", ""
}

// GetLanguageFromPrettyName returns the language code of a layout
// description: the variant's own language if it declares one, otherwise the
// language of its parent layout. The result is not normalized; it is usually
// an ISO 639-2 id ("eng") or a short description ("en").
func (r *XkbConfigRegistry) GetLanguageFromPrettyName(prettyName string) string {
	l, v := r.find(prettyName)
	if l == nil {
		return ""
	}

	if v != nil {
		if lang := language(v.ConfigItem); lang != "" {
			return lang
		}
	}

	return language(l.ConfigItem)
}

func (r *XkbConfigRegistry) find(prettyName string) (*Layout, *Variant) {
	for i := range r.LayoutList.Layout {
		l := &r.LayoutList.Layout[i]
		if l.ConfigItem.Description == prettyName {
			return l, nil
		}

		for j := range l.VariantList.Variant {
			v := &l.VariantList.Variant[j]
			if v.ConfigItem.Description == prettyName {
				return l, v
			}
		}
	}

	return nil, nil
}

func language(item ConfigItem) string {
	for _, id := range item.LanguageList.ISO639 {
		if id = strings.TrimSpace(id); id != "" {
			return id
		}
	}

	return strings.TrimSpace(item.ShortDescription)
}
