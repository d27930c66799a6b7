package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/kozaktomas/petface/internal/catalog"
)

// BreedsHandler handles catalog browsing endpoints.
type BreedsHandler struct {
	registry *catalog.Registry
	log      logrus.FieldLogger
}

// NewBreedsHandler creates a new breeds handler.
func NewBreedsHandler(registry *catalog.Registry, log logrus.FieldLogger) *BreedsHandler {
	return &BreedsHandler{registry: registry, log: log}
}

// BreedsResponse lists one species catalog.
type BreedsResponse struct {
	PetType      catalog.Species `json:"pet_type"`
	Breeds       []string        `json:"breeds"`
	TotalBreeds  int             `json:"total_breeds"`
	BreedDetails []catalog.Breed `json:"breed_details"`
}

// List returns every breed of the species named by the pet_type query parameter.
func (h *BreedsHandler) List(w http.ResponseWriter, r *http.Request) {
	c, err := h.catalogFor(r.URL.Query().Get("pet_type"))
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, BreedsResponse{
		PetType:      c.Species(),
		Breeds:       c.Names(),
		TotalBreeds:  c.Len(),
		BreedDetails: c.Breeds(),
	})
}

// Get returns a single breed by name.
func (h *BreedsHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.catalogFor(chi.URLParam(r, "petType"))
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}

	breed, err := c.Find(chi.URLParam(r, "name"))
	if err != nil {
		respondServiceError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, breed)
}

func (h *BreedsHandler) catalogFor(petType string) (*catalog.Catalog, error) {
	species, err := catalog.ParseSpecies(petType)
	if err != nil {
		return nil, err
	}
	return h.registry.Get(species)
}
