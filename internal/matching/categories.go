package matching

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Category string

// CategoryUnknown is reported for ingredients the index does not know and
// for ingredients whose stored category is outside the enumeration.
const CategoryUnknown Category = "unknown"

const DefaultCategoriesVersion = "2025-08-01"

var defaultCategoryNames = []string{
	"spices", "vegetables", "meat", "grains", "legumes", "dairy",
	"oils", "herbs", "fruits", "nuts", "other",
}

// CategorySet is the fixed, versioned ingredient category enumeration. It
// is loaded once at startup and never changes afterwards.
type CategorySet struct {
	version string
	list    []Category
	members map[Category]struct{}
}

type categoryFile struct {
	Version    string   `yaml:"version"`
	Categories []string `yaml:"categories"`
}

func NewCategorySet(version string, names []string) (*CategorySet, error) {
	if strings.TrimSpace(version) == "" {
		return nil, errors.New("category enumeration requires a version")
	}
	if len(names) == 0 {
		return nil, errors.New("category enumeration is empty")
	}

	set := &CategorySet{
		version: version,
		list:    make([]Category, 0, len(names)),
		members: make(map[Category]struct{}, len(names)),
	}
	for _, name := range names {
		c := Category(strings.ToLower(strings.TrimSpace(name)))
		switch {
		case c == "":
			return nil, errors.New("category name cannot be blank")
		case c == CategoryUnknown:
			return nil, fmt.Errorf("category name %q is reserved", c)
		}
		if _, dup := set.members[c]; dup {
			return nil, fmt.Errorf("duplicate category %q", c)
		}
		set.members[c] = struct{}{}
		set.list = append(set.list, c)
	}
	return set, nil
}

func DefaultCategories() *CategorySet {
	set, err := NewCategorySet(DefaultCategoriesVersion, defaultCategoryNames)
	if err != nil {
		panic(err)
	}
	return set
}

// ParseCategories decodes a YAML document of the form
//
//	version: "2025-08-01"
//	categories: [spices, vegetables, ...]
func ParseCategories(data []byte) (*CategorySet, error) {
	var f categoryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse categories: %w", err)
	}
	return NewCategorySet(f.Version, f.Categories)
}

// LoadCategories reads the enumeration from path. An empty path yields the
// built-in default set.
func LoadCategories(path string) (*CategorySet, error) {
	if path == "" {
		return DefaultCategories(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read categories file: %w", err)
	}
	return ParseCategories(data)
}

func (c *CategorySet) Version() string { return c.version }

func (c *CategorySet) List() []Category {
	out := make([]Category, len(c.list))
	copy(out, c.list)
	return out
}

func (c *CategorySet) Contains(cat Category) bool {
	_, ok := c.members[cat]
	return ok
}

// Normalize lower-cases and trims s and reports whether the result is a
// member of the set.
func (c *CategorySet) Normalize(s string) (Category, bool) {
	cat := Category(strings.ToLower(strings.TrimSpace(s)))
	return cat, c.Contains(cat)
}
