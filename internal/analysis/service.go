// Package analysis runs the photo to breed-match pipeline.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kozaktomas/petface/internal/catalog"
	"github.com/kozaktomas/petface/internal/detector"
	"github.com/kozaktomas/petface/internal/features"
	"github.com/kozaktomas/petface/internal/imageproc"
	"github.com/kozaktomas/petface/internal/matching"
)

// ErrInvalidImage wraps any upload that cannot be decoded or is not a
// supported format.
var ErrInvalidImage = errors.New("invalid image")

// Request is one photo to analyze.
type Request struct {
	Image    []byte
	Filename string
	Species  catalog.Species
	TopN     int
}

// Result is the outcome of one analysis.
type Result struct {
	AnalysisID    string                `json:"analysis_id"`
	Filename      string                `json:"filename,omitempty"`
	PetType       catalog.Species       `json:"pet_type"`
	HumanFeatures features.Mapping      `json:"human_features"`
	Extraction    features.Extraction   `json:"extraction"`
	FaceAnalysis  matching.FaceAnalysis `json:"face_analysis"`
	Matches       []matching.Match      `json:"matches"`
}

// Service wires the detector, the feature extractor and the catalogs.
// It is safe for concurrent use.
type Service struct {
	detector     detector.Detector
	extractor    *features.Extractor
	registry     *catalog.Registry
	maxImageSize int
	timeout      time.Duration
	log          logrus.FieldLogger
}

// Option configures a Service.
type Option func(*Service)

// WithMaxImageSize sets the longest side, in pixels, of images sent to the detector.
func WithMaxImageSize(px int) Option {
	return func(s *Service) { s.maxImageSize = px }
}

// WithDetectorTimeout bounds each detector call.
func WithDetectorTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// NewService creates a service. det may be nil when only landmark input is
// used; a nil log discards output.
func NewService(det detector.Detector, registry *catalog.Registry, log logrus.FieldLogger, opts ...Option) *Service {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	s := &Service{
		detector:  det,
		extractor: features.NewExtractor(log),
		registry:  registry,
		log:       log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the catalogs the service matches against.
func (s *Service) Registry() *catalog.Registry { return s.registry }

// AnalyzeImage prepares the photo, asks the detector for landmarks and ranks
// the breeds of the requested species.
func (s *Service) AnalyzeImage(ctx context.Context, req Request) (*Result, error) {
	c, err := s.registry.Get(req.Species)
	if err != nil {
		return nil, err
	}
	if s.detector == nil {
		return nil, fmt.Errorf("%w: not configured", detector.ErrUnavailable)
	}

	prepared, err := imageproc.Prepare(req.Image, s.maxImageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}

	detectCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		detectCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	points, err := s.detector.Detect(detectCtx, prepared)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"filename": req.Filename,
			"error":    err.Error(),
		}).Warn("Landmark detection failed")
		return nil, fmt.Errorf("landmark detection: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"filename": req.Filename,
		"points":   len(points),
		"duration": time.Since(start).String(),
	}).Debug("Landmarks detected")

	res := s.analyze(points, c, req.TopN)
	res.Filename = req.Filename
	return res, nil
}

// AnalyzeLandmarks ranks breeds for landmarks supplied by the caller.
func (s *Service) AnalyzeLandmarks(points []features.Point, species catalog.Species, topN int) (*Result, error) {
	c, err := s.registry.Get(species)
	if err != nil {
		return nil, err
	}
	return s.analyze(points, c, topN), nil
}

func (s *Service) analyze(points []features.Point, c *catalog.Catalog, topN int) *Result {
	x := s.extractor.Extract(points)
	res := &Result{
		AnalysisID:    uuid.NewString(),
		PetType:       c.Species(),
		HumanFeatures: x.Features,
		Extraction:    x,
		FaceAnalysis:  matching.Analyze(x.Features, c.Recommendations()),
		Matches:       matching.Rank(x.Features, c, topN),
	}

	entry := s.log.WithFields(logrus.Fields{
		"analysis_id": res.AnalysisID,
		"pet_type":    res.PetType,
		"fallback":    x.Fallback,
	})
	if len(res.Matches) > 0 {
		entry = entry.WithFields(logrus.Fields{
			"top_breed":  res.Matches[0].Breed,
			"similarity": res.Matches[0].Similarity,
		})
	}
	entry.Info("Analysis complete")

	return res
}
