package catalog

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/kozaktomas/petface/internal/features"
)

//go:embed data/*.yaml
var dataFS embed.FS

type catalogFile struct {
	Species         Species         `yaml:"species"`
	Recommendations Recommendations `yaml:"recommendations"`
	Breeds          []breedEntry    `yaml:"breeds"`
}

type breedEntry struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Personality []string          `yaml:"personality"`
	Image       string            `yaml:"image"`
	Features    map[string]string `yaml:"face_features"`
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	species, err := ParseSpecies(string(f.Species))
	if err != nil || f.Species == "" {
		return nil, fmt.Errorf("%w: species %q", ErrInvalidCatalog, f.Species)
	}

	breeds := make([]Breed, 0, len(f.Breeds))
	for _, e := range f.Breeds {
		m := make(features.Mapping, len(e.Features))
		for k, v := range e.Features {
			m[features.Feature(k)] = features.Category(v)
		}
		breeds = append(breeds, Breed{
			Name:        e.Name,
			Description: e.Description,
			Personality: e.Personality,
			Image:       e.Image,
			Features:    m,
		})
	}

	return New(species, f.Recommendations, breeds)
}

// Load returns the embedded catalog for species.
func Load(species Species) (*Catalog, error) {
	data, err := dataFS.ReadFile("data/" + string(species) + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSpecies, species)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if c.Species() != species {
		return nil, fmt.Errorf("%w: data/%s.yaml declares species %q", ErrInvalidCatalog, species, c.Species())
	}
	return c, nil
}

// Registry holds one catalog per species. It is built once and never mutated.
type Registry struct {
	catalogs map[Species]*Catalog
}

// NewRegistry builds a registry from already loaded catalogs.
func NewRegistry(catalogs ...*Catalog) *Registry {
	r := &Registry{catalogs: make(map[Species]*Catalog, len(catalogs))}
	for _, c := range catalogs {
		r.catalogs[c.Species()] = c
	}
	return r
}

// LoadRegistry loads the embedded catalog of every supported species.
func LoadRegistry() (*Registry, error) {
	var catalogs []*Catalog
	for _, sp := range AllSpecies() {
		c, err := Load(sp)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s catalog: %w", sp, err)
		}
		catalogs = append(catalogs, c)
	}
	return NewRegistry(catalogs...), nil
}

// Get returns the catalog for species.
func (r *Registry) Get(species Species) (*Catalog, error) {
	c, ok := r.catalogs[species]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSpecies, species)
	}
	return c, nil
}

// Species lists the species the registry holds, in display order.
func (r *Registry) Species() []Species {
	var out []Species
	for _, sp := range AllSpecies() {
		if _, ok := r.catalogs[sp]; ok {
			out = append(out, sp)
		}
	}
	return out
}
