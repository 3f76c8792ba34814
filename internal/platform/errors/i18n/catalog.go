// Package i18n provides localized user messages for ledger error codes.
package i18n

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the canonical locale every other catalog falls back to.
const BaseLocale = "en-US"

// Code is a machine-readable error code (duplicated from errors package to avoid cycle).
type Code = string

// Catalog maps error codes to message templates for a specific locale.
type Catalog struct {
	locale   string
	messages map[Code]string
}

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

//go:embed locales/*.yaml
var embeddedLocales embed.FS

var (
	catalogsMu sync.RWMutex
	catalogs   = map[string]*Catalog{}
	matcher    language.Matcher
	matchTags  []language.Tag
)

func init() {
	loaded, err := LoadFromFS(embeddedLocales)
	if err != nil {
		panic(fmt.Sprintf("load embedded error catalogs: %v", err))
	}
	for _, cat := range loaded {
		catalogs[cat.locale] = cat
	}
	matchTags, matcher = buildMatcher(loaded)
}

// LoadFromFS parses every locales/*.yaml file in catalogFS.
func LoadFromFS(catalogFS fs.FS) ([]*Catalog, error) {
	paths, err := fs.Glob(catalogFS, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob error catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no error catalogs found")
	}
	sort.Strings(paths)

	out := make([]*Catalog, 0, len(paths))
	hasBase := false
	for _, p := range paths {
		data, err := fs.ReadFile(catalogFS, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		locale := strings.TrimSpace(file.Locale)
		if want := strings.TrimSuffix(path.Base(p), path.Ext(p)); locale != want {
			return nil, fmt.Errorf("catalog %s: locale %q must match file name %q", p, locale, want)
		}
		if _, err := language.Parse(locale); err != nil {
			return nil, fmt.Errorf("catalog %s: parse locale: %w", p, err)
		}
		if len(file.Messages) == 0 {
			return nil, fmt.Errorf("catalog %s: messages map is required", p)
		}
		if locale == BaseLocale {
			hasBase = true
		}
		out = append(out, NewCatalog(locale, file.Messages))
	}
	if !hasBase {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	return out, nil
}

// GetCatalog returns the catalog best matching locale.
// Falls back to en-US when nothing matches.
func GetCatalog(locale string) *Catalog {
	requested := strings.TrimSpace(locale)
	if requested == "" {
		requested = BaseLocale
	}
	if c, ok := lookupCatalog(requested); ok {
		return c
	}

	tag, err := language.Parse(requested)
	if err != nil {
		c, _ := lookupCatalog(BaseLocale)
		return c
	}
	_, idx, confidence := matcher.Match(tag)
	if confidence == language.No {
		c, _ := lookupCatalog(BaseLocale)
		return c
	}
	if c, ok := lookupCatalog(matchTags[idx].String()); ok {
		return c
	}
	c, _ := lookupCatalog(BaseLocale)
	return c
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message template with the given metadata.
// Falls back to the code itself if no template is found, and to the raw
// template when it cannot be parsed or executed.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	tmpl, ok := c.messages[code]
	if !ok {
		return code
	}
	if metadata == nil {
		metadata = map[string]string{}
	}

	t, err := template.New("msg").Parse(tmpl)
	if err != nil {
		return tmpl
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, metadata); err != nil {
		return tmpl
	}
	return buf.String()
}

// RegisterCatalog registers a catalog for the given locale.
func RegisterCatalog(locale string, cat *Catalog) {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	catalogs[locale] = cat
}

// NewCatalog creates a new catalog with the given locale and messages.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	cloned := make(map[Code]string, len(messages))
	for key, value := range messages {
		cloned[key] = value
	}
	return &Catalog{
		locale:   locale,
		messages: cloned,
	}
}

func lookupCatalog(locale string) (*Catalog, bool) {
	catalogsMu.RLock()
	defer catalogsMu.RUnlock()
	cat, ok := catalogs[locale]
	return cat, ok
}

// buildMatcher orders tags with the base locale first so it wins ties.
func buildMatcher(loaded []*Catalog) ([]language.Tag, language.Matcher) {
	tags := []language.Tag{language.MustParse(BaseLocale)}
	for _, cat := range loaded {
		if cat.locale == BaseLocale {
			continue
		}
		tags = append(tags, language.MustParse(cat.locale))
	}
	return tags, language.NewMatcher(tags)
}
