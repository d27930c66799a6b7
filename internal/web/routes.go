package web

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/petface/internal/web/handlers"
	"github.com/kozaktomas/petface/internal/web/middleware"
)

func (s *Server) setupRoutes() {
	// Create handlers
	analyzeHandler := handlers.NewAnalyzeHandler(s.service, s.validate, s.config.Web.MaxUploadSize, s.log)
	breedsHandler := handlers.NewBreedsHandler(s.service.Registry(), s.log)
	configHandler := handlers.NewConfigHandler(s.config, s.service.Registry())

	rateLimit := middleware.RateLimit(s.config.Web.RateLimitRPS, s.config.Web.RateLimitBurst, s.log)

	// Health check
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/config", configHandler.Get)

		// Catalog
		r.Get("/breeds", breedsHandler.List)
		r.Get("/breeds/{petType}/{name}", breedsHandler.Get)

		// Analysis
		r.Group(func(r chi.Router) {
			r.Use(rateLimit)
			r.Post("/analyze", analyzeHandler.Analyze)
			r.Post("/analyze/landmarks", analyzeHandler.AnalyzeLandmarks)
		})
	})

	// Legacy aliases
	s.router.Group(func(r chi.Router) {
		r.Use(rateLimit)
		r.Post("/analyze-face", analyzeHandler.Analyze)
		r.Post("/find_similar_dog", analyzeHandler.Analyze)
	})

	// Breed reference images
	if dir := s.config.Web.BreedImageDir; dir != "" {
		s.router.Handle("/static/*", http.StripPrefix("/static/", noDirListing(http.FileServer(http.Dir(dir)))))
	}
}

// noDirListing hides directory indexes of the image directory.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
