package handlers

import (
	"net/http"

	"github.com/kozaktomas/petface/internal/catalog"
	"github.com/kozaktomas/petface/internal/config"
	"github.com/kozaktomas/petface/internal/constants"
)

// ConfigHandler handles configuration endpoints
type ConfigHandler struct {
	config   *config.Config
	registry *catalog.Registry
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(cfg *config.Config, registry *catalog.Registry) *ConfigHandler {
	return &ConfigHandler{
		config:   cfg,
		registry: registry,
	}
}

// ConfigResponse represents the configuration response
type ConfigResponse struct {
	PetTypes          []SpeciesInfo `json:"pet_types"`
	DefaultPetType    string        `json:"default_pet_type"`
	DefaultTopN       int           `json:"default_top_n"`
	MaxTopN           int           `json:"max_top_n"`
	MaxUploadSize     int64         `json:"max_upload_size"`
	DetectorTransport string        `json:"detector_transport"`
	StaticImages      bool          `json:"static_images"`
}

// SpeciesInfo describes one available catalog
type SpeciesInfo struct {
	Name   string `json:"name"`
	Breeds int    `json:"breeds"`
}

// Get returns the available configuration
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	var petTypes []SpeciesInfo
	for _, sp := range h.registry.Species() {
		c, err := h.registry.Get(sp)
		if err != nil {
			continue
		}
		petTypes = append(petTypes, SpeciesInfo{Name: string(sp), Breeds: c.Len()})
	}

	response := ConfigResponse{
		PetTypes:          petTypes,
		DefaultPetType:    string(catalog.DefaultSpecies),
		DefaultTopN:       constants.DefaultTopN,
		MaxTopN:           constants.MaxTopN,
		MaxUploadSize:     h.config.Web.MaxUploadSize,
		DetectorTransport: h.config.Detector.Transport(),
		StaticImages:      h.config.Web.BreedImageDir != "",
	}

	respondJSON(w, http.StatusOK, response)
}
