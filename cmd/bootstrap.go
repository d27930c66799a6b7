package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/kozaktomas/petface/internal/analysis"
	"github.com/kozaktomas/petface/internal/catalog"
	"github.com/kozaktomas/petface/internal/config"
	"github.com/kozaktomas/petface/internal/detector"
	"github.com/kozaktomas/petface/internal/logger"
)

// app holds what every command needs: configuration, the logger and the
// breed catalogs.
type app struct {
	cfg      *config.Config
	log      *logrus.Logger
	registry *catalog.Registry
}

func bootstrap() (*app, error) {
	cfg := config.Load()
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("configuring logger: %w", err)
	}

	registry, err := catalog.LoadRegistry()
	if err != nil {
		return nil, fmt.Errorf("loading breed catalogs: %w", err)
	}

	return &app{cfg: cfg, log: log, registry: registry}, nil
}

// newService builds the analysis service. det may be nil when only landmark
// input is analyzed.
func (a *app) newService(det detector.Detector) *analysis.Service {
	return analysis.NewService(det, a.registry, a.log,
		analysis.WithMaxImageSize(a.cfg.Detector.MaxImageSize),
		analysis.WithDetectorTimeout(a.cfg.Detector.Timeout),
	)
}
