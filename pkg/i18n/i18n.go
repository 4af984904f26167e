// Package i18n renders localized messages for the API layer.
//
// Message catalogs are YAML files embedded into the binary, one per
// language, with nested keys addressed by dotted paths:
//
//	b, _ := i18n.New()
//	b.T("en", "errors.application_not_found", i18n.Params{"id": "42"})
//	// "Application 42 not found"
//
// Lookups fall back to the default language when the requested language
// misses the key, and echo the raw path when no catalog has it, so a
// missing translation never turns into an empty message.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// DefaultLanguage is the fallback catalog every lookup can land on.
const DefaultLanguage = "en"

// Params holds the substitution values for {placeholder} tokens.
type Params map[string]string

// Bundle holds the loaded message catalogs. It is immutable after New and
// safe for concurrent use.
type Bundle struct {
	messages map[string]map[string]string
}

// New loads every embedded locale catalog. It fails if a catalog cannot be
// parsed or the default language is missing.
func New() (*Bundle, error) {
	entries, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	b := &Bundle{messages: make(map[string]map[string]string, len(entries))}
	for _, entry := range entries {
		name := entry.Name()
		lang := strings.TrimSuffix(name, ".yaml")
		if lang == name {
			continue
		}

		data, err := localeFS.ReadFile("locales/" + name)
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", name, err)
		}
		var tree map[string]any
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", name, err)
		}

		flat := make(map[string]string)
		flatten("", tree, flat)
		b.messages[lang] = flat
	}

	if _, ok := b.messages[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("default locale %q missing", DefaultLanguage)
	}
	return b, nil
}

// flatten walks a nested YAML map and records leaf strings under their
// dotted path.
func flatten(prefix string, tree map[string]any, out map[string]string) {
	for key, value := range tree {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		switch v := value.(type) {
		case string:
			out[path] = v
		case map[string]any:
			flatten(path, v, out)
		}
	}
}

// Languages returns the loaded language codes in sorted order.
func (b *Bundle) Languages() []string {
	langs := make([]string, 0, len(b.messages))
	for lang := range b.messages {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Has reports whether a catalog exists for lang.
func (b *Bundle) Has(lang string) bool {
	_, ok := b.messages[lang]
	return ok
}

// T looks up the message at the dotted path in the given language,
// falling back to the default language, and interpolates params into
// {placeholder} tokens. Unknown paths are echoed back verbatim.
func (b *Bundle) T(lang, path string, params Params) string {
	msg, ok := b.messages[lang][path]
	if !ok {
		msg, ok = b.messages[DefaultLanguage][path]
	}
	if !ok {
		return path
	}
	return interpolate(msg, params)
}

// interpolate replaces {name} tokens with their parameter values. Tokens
// without a matching parameter stay in place.
func interpolate(msg string, params Params) string {
	if len(params) == 0 {
		return msg
	}
	pairs := make([]string, 0, len(params)*2)
	for name, value := range params {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

// Match resolves an Accept-Language header against the loaded catalogs,
// returning the first language whose primary subtag has a catalog, or the
// default language. Quality weights are ignored beyond their ordering.
func (b *Bundle) Match(acceptLanguage string) string {
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := strings.TrimSpace(part)
		if i := strings.Index(tag, ";"); i >= 0 {
			tag = strings.TrimSpace(tag[:i])
		}
		if i := strings.Index(tag, "-"); i >= 0 {
			tag = tag[:i]
		}
		tag = strings.ToLower(tag)
		if tag != "" && b.Has(tag) {
			return tag
		}
	}
	return DefaultLanguage
}
