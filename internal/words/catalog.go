// internal/words/catalog.go
//
// Word catalog for the game engine.
//
// Responsibilities:
//   - Hold two independent groupings of words: thematic categories and
//     difficulty tiers.
//   - Validate the load-time invariants (uppercase A–Z and hyphens only,
//     no empty grouping, no empty bucket).
//   - Supply weighted random word selection (SelectWord) and Stats.
//
// Selection:
//   - 70% of the time a uniform category, then a uniform word within it
//     (label = category name).
//   - Otherwise a uniform tier, then a uniform word within it
//     (label = "NIVEAU " + tier name).
//   - Repeats across rounds are allowed.
//
// A Catalog is immutable once built; all accessors return copies.

package words

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrEmptyCatalog is returned when the catalog (or a selected bucket) has no words.
var ErrEmptyCatalog = errors.New("words: catalog is empty")

const (
	// CategoryWeight is the probability of drawing from a category rather than a tier.
	CategoryWeight = 0.7

	// TierLabelPrefix prefixes the display label of words drawn from a tier.
	TierLabelPrefix = "NIVEAU "
)

// Kind names one of the two groupings.
type Kind string

const (
	KindCategory Kind = "category"
	KindTier     Kind = "tier"
)

// Rand is the subset of *rand.Rand (math/rand/v2) used for selection.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Catalog holds categorized and difficulty-tiered word lists.
type Catalog struct {
	categories map[string][]string
	tiers      map[string][]string

	// sorted bucket names so that a seeded Rand yields a stable sequence
	categoryNames []string
	tierNames     []string
}

// New builds a validated catalog from the two groupings.
// Words are upper-cased and trimmed; any invalid word fails the build.
func New(categories, tiers map[string][]string) (*Catalog, error) {
	c := &Catalog{
		categories: make(map[string][]string, len(categories)),
		tiers:      make(map[string][]string, len(tiers)),
	}
	if err := fill(c.categories, categories, KindCategory); err != nil {
		return nil, err
	}
	if err := fill(c.tiers, tiers, KindTier); err != nil {
		return nil, err
	}
	c.categoryNames = sortedKeys(c.categories)
	c.tierNames = sortedKeys(c.tiers)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func fill(dst, src map[string][]string, kind Kind) error {
	for name, list := range src {
		name = strings.TrimSpace(name)
		if name == "" {
			return fmt.Errorf("words: %s with empty name", kind)
		}
		out := make([]string, 0, len(list))
		for _, w := range list {
			w = Normalize(w)
			if !IsWord(w) {
				return fmt.Errorf("words: %s %q: invalid word %q", kind, name, w)
			}
			out = append(out, w)
		}
		dst[name] = out
	}
	return nil
}

// Validate enforces the load-time invariants: both groupings present and no empty bucket.
func (c *Catalog) Validate() error {
	if c == nil || len(c.categories) == 0 || len(c.tiers) == 0 {
		return ErrEmptyCatalog
	}
	for name, list := range c.categories {
		if len(list) == 0 {
			return fmt.Errorf("category %q: %w", name, ErrEmptyCatalog)
		}
	}
	for name, list := range c.tiers {
		if len(list) == 0 {
			return fmt.Errorf("tier %q: %w", name, ErrEmptyCatalog)
		}
	}
	return nil
}

// SelectWord draws a word and its display label.
func (c *Catalog) SelectWord(r Rand) (word, label string, err error) {
	if c == nil || len(c.categoryNames) == 0 || len(c.tierNames) == 0 {
		return "", "", ErrEmptyCatalog
	}
	if r.Float64() < CategoryWeight {
		name := c.categoryNames[r.IntN(len(c.categoryNames))]
		w, err := pick(r, c.categories[name])
		if err != nil {
			return "", "", fmt.Errorf("category %q: %w", name, err)
		}
		return w, name, nil
	}
	name := c.tierNames[r.IntN(len(c.tierNames))]
	w, err := pick(r, c.tiers[name])
	if err != nil {
		return "", "", fmt.Errorf("tier %q: %w", name, err)
	}
	return w, TierLabelPrefix + name, nil
}

func pick(r Rand, list []string) (string, error) {
	if len(list) == 0 {
		return "", ErrEmptyCatalog
	}
	return list[r.IntN(len(list))], nil
}

// Names returns the sorted bucket names of a grouping.
func (c *Catalog) Names(kind Kind) []string {
	switch kind {
	case KindCategory:
		return append([]string(nil), c.categoryNames...)
	case KindTier:
		return append([]string(nil), c.tierNames...)
	}
	return nil
}

// Words returns a copy of one bucket's words (nil if unknown).
func (c *Catalog) Words(kind Kind, name string) []string {
	var list []string
	switch kind {
	case KindCategory:
		list = c.categories[name]
	case KindTier:
		list = c.tiers[name]
	}
	if list == nil {
		return nil
	}
	return append([]string(nil), list...)
}

// Stats returns counts of loaded buckets and words.
func (c *Catalog) Stats() (categories, tiers, words int) {
	for _, l := range c.categories {
		words += len(l)
	}
	for _, l := range c.tiers {
		words += len(l)
	}
	return len(c.categories), len(c.tiers), words
}

// Normalize trims and upper-cases a raw word.
func Normalize(w string) string {
	return strings.ToUpper(strings.TrimSpace(w))
}

// IsWord reports whether w is made of uppercase A–Z and hyphens, with at least one letter.
func IsWord(w string) bool {
	letters := 0
	for _, r := range w {
		switch {
		case r >= 'A' && r <= 'Z':
			letters++
		case r == '-':
		default:
			return false
		}
	}
	return letters > 0
}

func sortedKeys(m map[string][]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
