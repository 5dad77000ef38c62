package registry

import (
	"fmt"
	"sort"
	"strings"
)

// Supported source encodings. French open-data extracts are published
// either in UTF-8 or in one of the two western legacy encodings.
const (
	EncodingUTF8        = "utf-8"
	EncodingLatin1      = "iso-8859-1"
	EncodingWindows1252 = "windows-1252"
)

// DefaultSeparator is the field separator of the annuaire extracts.
const DefaultSeparator = ";"

// Category describes one dataset source.
type Category struct {
	// Key is the stable identifier used in CLI flags, API queries and
	// cache keys. Lowercase slug, unique within the registry.
	Key string `yaml:"-" json:"key"`

	// Label is the human-readable name shown by listings.
	Label string `yaml:"label" json:"label"`

	// URL locates the CSV extract for this category.
	URL string `yaml:"url" json:"url"`

	// Separator is the CSV field separator, one character. Empty means
	// DefaultSeparator.
	Separator string `yaml:"separator" json:"separator"`

	// Encoding names the character encoding of the extract: "utf-8",
	// "iso-8859-1" or "windows-1252". Empty means "utf-8".
	Encoding string `yaml:"encoding" json:"encoding"`
}

// SeparatorRune returns the separator as a rune, falling back to the
// default when unset.
func (c Category) SeparatorRune() rune {
	if c.Separator == "" {
		return rune(DefaultSeparator[0])
	}
	return []rune(c.Separator)[0]
}

func (c Category) validate() error {
	if c.URL == "" {
		return fmt.Errorf("%w: category %q has no url", ErrInvalidDefinition, c.Key)
	}
	if n := len([]rune(c.Separator)); n > 1 {
		return fmt.Errorf("%w: category %q separator must be one character, got %q", ErrInvalidDefinition, c.Key, c.Separator)
	}
	switch strings.ToLower(c.Encoding) {
	case "", EncodingUTF8, EncodingLatin1, EncodingWindows1252:
		return nil
	default:
		return fmt.Errorf("%w: category %q has unsupported encoding %q", ErrInvalidDefinition, c.Key, c.Encoding)
	}
}

// Registry is the category catalog. Build it with New or Load; it must
// not be mutated afterwards, which keeps concurrent reads safe.
type Registry struct {
	categories map[string]Category
}

// New returns a Registry holding only the compiled-in categories.
func New() *Registry {
	r := &Registry{categories: make(map[string]Category, len(builtinCategories))}
	for _, c := range builtinCategories {
		r.categories[c.Key] = c
	}
	return r
}

// Load returns the built-in registry merged with the definitions read
// from path. An empty path returns the built-ins alone. File entries
// override built-ins field by field, so a file can relabel or repoint a
// known category without restating the rest.
func Load(path string) (*Registry, error) {
	r := New()
	if path == "" {
		return r, nil
	}
	f, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := r.merge(f); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) merge(f *File) error {
	for key, def := range f.Categories {
		k := normalizeKey(key)
		if k == "" {
			return fmt.Errorf("%w: empty category key", ErrInvalidDefinition)
		}

		merged, ok := r.categories[k]
		if !ok {
			merged = Category{Key: k}
		}
		if def.Label != "" {
			merged.Label = def.Label
		}
		if def.URL != "" {
			merged.URL = def.URL
		}
		if def.Separator != "" {
			merged.Separator = def.Separator
		}
		if def.Encoding != "" {
			merged.Encoding = def.Encoding
		}
		if merged.Label == "" {
			merged.Label = k
		}
		if merged.Separator == "" {
			merged.Separator = DefaultSeparator
		}
		if merged.Encoding == "" {
			merged.Encoding = EncodingUTF8
		}

		if err := merged.validate(); err != nil {
			return err
		}
		r.categories[k] = merged
	}
	return nil
}

// Resolve looks up a category by key. The key is matched after trimming
// and lowercasing; an unregistered key fails with ErrUnknownCategory,
// never with a default.
func (r *Registry) Resolve(key string) (Category, error) {
	k := normalizeKey(key)
	c, ok := r.categories[k]
	if !ok {
		return Category{}, fmt.Errorf("%w: %q", ErrUnknownCategory, key)
	}
	return c, nil
}

// Categories returns every definition sorted by key, for stable
// listings.
func (r *Registry) Categories() []Category {
	out := make([]Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Len returns the number of registered categories.
func (r *Registry) Len() int { return len(r.categories) }

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
