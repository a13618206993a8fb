// Package disaggregate tags text records with boolean category columns.
//
// A Taxonomy is a named list of categories, each defined by a word set.
// A record belongs to a category when its text contains any of the
// category's words as a whole token, compared case-insensitively.
package disaggregate

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Sentinel errors for taxonomies and tagging.
var (
	ErrUnknownTaxonomy = errors.New("unknown taxonomy")
	ErrInvalidTaxonomy = errors.New("invalid taxonomy")
	ErrColumnNotFound  = errors.New("column not found")
	ErrColumnType      = errors.New("column is not text")
	ErrColumnExists    = errors.New("output column already exists")
)

// PronounsTaxonomy is the name of the built-in pronoun taxonomy.
const PronounsTaxonomy = "pronouns"

// Category is one output column of a taxonomy.
type Category struct {
	Label string
	Words []string
}

// Taxonomy is a named, ordered set of categories.
type Taxonomy struct {
	Name       string
	Categories []Category
}

// Labels returns the category labels in order.
func (t Taxonomy) Labels() []string {
	labels := make([]string, len(t.Categories))
	for i, c := range t.Categories {
		labels[i] = c.Label
	}
	return labels
}

// Validate checks that the taxonomy can produce a well-formed table.
func (t Taxonomy) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidTaxonomy)
	}
	if len(t.Categories) == 0 {
		return fmt.Errorf("%w: %s has no categories", ErrInvalidTaxonomy, t.Name)
	}
	seen := make(map[string]bool, len(t.Categories))
	for _, c := range t.Categories {
		if strings.TrimSpace(c.Label) == "" {
			return fmt.Errorf("%w: %s has a category without label", ErrInvalidTaxonomy, t.Name)
		}
		if seen[c.Label] {
			return fmt.Errorf("%w: %s repeats category %q", ErrInvalidTaxonomy, t.Name, c.Label)
		}
		seen[c.Label] = true
		if len(c.Words) == 0 {
			return fmt.Errorf("%w: %s category %q has no words", ErrInvalidTaxonomy, t.Name, c.Label)
		}
	}
	return nil
}

// Pronouns returns the built-in pronoun taxonomy.
func Pronouns() Taxonomy {
	return Taxonomy{
		Name: PronounsTaxonomy,
		Categories: []Category{
			{Label: "she/her", Words: []string{"she", "her", "hers", "herself"}},
			{Label: "he/him", Words: []string{"he", "him", "his", "himself"}},
			{Label: "they/them", Words: []string{"they", "them", "their", "theirs", "themself", "themselves"}},
		},
	}
}

// Registry maps taxonomy names to taxonomies. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	taxonomies map[string]Taxonomy
	aliases    map[string]string
}

// NewRegistry returns a registry holding the built-in taxonomies.
func NewRegistry() *Registry {
	r := &Registry{
		taxonomies: make(map[string]Taxonomy),
		aliases:    map[string]string{"pronoun": PronounsTaxonomy},
	}
	r.taxonomies[PronounsTaxonomy] = Pronouns()
	return r
}

// Register adds or replaces a taxonomy.
func (r *Registry) Register(t Taxonomy) error {
	if err := t.Validate(); err != nil {
		return err
	}
	key := normalizeName(t.Name)

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.aliases, key)
	r.taxonomies[key] = t
	return nil
}

// Lookup returns the taxonomy registered under name or one of its aliases.
func (r *Registry) Lookup(name string) (Taxonomy, error) {
	key := normalizeName(name)

	r.mu.RLock()
	defer r.mu.RUnlock()
	if target, ok := r.aliases[key]; ok {
		key = target
	}
	t, ok := r.taxonomies[key]
	if !ok {
		return Taxonomy{}, fmt.Errorf("%w: %q (available: %s)",
			ErrUnknownTaxonomy, name, strings.Join(r.namesLocked(), ", "))
	}
	return t, nil
}

// Names returns the registered taxonomy names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.taxonomies))
	for name := range r.taxonomies {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
