// Package catalog holds the static, per-species tables of breed facial profiles.
package catalog

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/kozaktomas/petface/internal/features"
)

var (
	// ErrEmptyCatalog is returned when a catalog has no breeds.
	ErrEmptyCatalog = errors.New("catalog has no breeds")
	// ErrInvalidCatalog is returned for duplicate names or out-of-vocabulary profiles.
	ErrInvalidCatalog = errors.New("invalid catalog")
	// ErrUnknownSpecies is returned for a species without a catalog.
	ErrUnknownSpecies = errors.New("unknown species")
	// ErrBreedNotFound is returned by lookups that match no breed.
	ErrBreedNotFound = errors.New("breed not found")
)

// Species selects which catalog a human face is compared against.
type Species string

const (
	Dog Species = "dog"
	Cat Species = "cat"
)

// DefaultSpecies is used when a request does not name one.
const DefaultSpecies = Dog

// AllSpecies lists the supported species in display order.
func AllSpecies() []Species {
	return []Species{Dog, Cat}
}

// ParseSpecies validates a species name. An empty string selects DefaultSpecies.
func ParseSpecies(s string) (Species, error) {
	switch sp := Species(strings.ToLower(strings.TrimSpace(s))); sp {
	case "":
		return DefaultSpecies, nil
	case Dog, Cat:
		return sp, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSpecies, s)
	}
}

// Breed is one entry of a catalog.
type Breed struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Personality []string         `json:"personality"`
	Image       string           `json:"image"`
	Features    features.Mapping `json:"face_features"`
}

// Recommendations are the species-specific hints attached to a face analysis.
type Recommendations struct {
	WideFace   string `yaml:"wide_face" json:"wide_face"`
	NarrowFace string `yaml:"narrow_face" json:"narrow_face"`
	LargeEyes  string `yaml:"large_eyes" json:"large_eyes"`
	NarrowEyes string `yaml:"narrow_eyes" json:"narrow_eyes"`
}

// Catalog is an ordered, validated, read-only list of breeds for one species.
// It is safe for concurrent use.
type Catalog struct {
	species Species
	recs    Recommendations
	breeds  []Breed
	index   map[string]int
}

// New validates breeds and builds a catalog. Breed order is preserved and is
// the tie-break order for ranking.
func New(species Species, recs Recommendations, breeds []Breed) (*Catalog, error) {
	if len(breeds) == 0 {
		return nil, fmt.Errorf("%s: %w", species, ErrEmptyCatalog)
	}

	c := &Catalog{
		species: species,
		recs:    recs,
		breeds:  make([]Breed, 0, len(breeds)),
		index:   make(map[string]int, len(breeds)),
	}
	for i, b := range breeds {
		if strings.TrimSpace(b.Name) == "" {
			return nil, fmt.Errorf("%s: %w: breed #%d has no name", species, ErrInvalidCatalog, i+1)
		}
		key := foldName(b.Name)
		if _, dup := c.index[key]; dup {
			return nil, fmt.Errorf("%s: %w: duplicate breed %q", species, ErrInvalidCatalog, b.Name)
		}
		if err := b.Features.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w: breed %q: %v", species, ErrInvalidCatalog, b.Name, err)
		}

		c.index[key] = len(c.breeds)
		c.breeds = append(c.breeds, b.clone())
	}
	return c, nil
}

// Species returns the species this catalog describes.
func (c *Catalog) Species() Species { return c.species }

// Len returns the number of breeds.
func (c *Catalog) Len() int { return len(c.breeds) }

// Recommendations returns the catalog's recommendation texts.
func (c *Catalog) Recommendations() Recommendations { return c.recs }

// All iterates over breeds in catalog order. Yielded values share storage
// with the catalog and must not be modified.
func (c *Catalog) All() iter.Seq2[int, Breed] {
	return func(yield func(int, Breed) bool) {
		for i, b := range c.breeds {
			if !yield(i, b) {
				return
			}
		}
	}
}

// Breeds returns a copy of every breed in catalog order.
func (c *Catalog) Breeds() []Breed {
	out := make([]Breed, len(c.breeds))
	for i, b := range c.breeds {
		out[i] = b.clone()
	}
	return out
}

// Names returns breed names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.breeds))
	for i, b := range c.breeds {
		names[i] = b.Name
	}
	return names
}

// Find looks a breed up by name. Names are compared after Unicode NFC
// normalization and case folding, so "golden retriever" finds "Golden Retriever".
func (c *Catalog) Find(name string) (Breed, error) {
	i, ok := c.index[foldName(name)]
	if !ok {
		return Breed{}, fmt.Errorf("%w: %q", ErrBreedNotFound, name)
	}
	return c.breeds[i].clone(), nil
}

func (b Breed) clone() Breed {
	b.Features = b.Features.Clone()
	b.Personality = append([]string(nil), b.Personality...)
	return b
}

func foldName(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}
