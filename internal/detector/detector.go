// Package detector talks to the external face-mesh landmark detector.
package detector

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	jsoniter "github.com/json-iterator/go"

	"github.com/kozaktomas/petface/internal/config"
	"github.com/kozaktomas/petface/internal/features"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	// ErrNoFace is returned when the detector finds no face in the image.
	ErrNoFace = errors.New("no face detected")
	// ErrUnavailable is returned when the detector cannot be reached or answers
	// with an error.
	ErrUnavailable = errors.New("landmark detector unavailable")
)

// Detector returns the landmarks of the first face found in an image.
// Implementations may block and are not required to be reentrant; wrap them
// in Limited to bound concurrent use.
type Detector interface {
	Detect(ctx context.Context, image []byte) ([]features.Point, error)
}

// landmarksResponse is the detector's reply for one image.
type landmarksResponse struct {
	FacesCount int `json:"faces_count"`
	Faces      []struct {
		Landmarks []features.Point `json:"landmarks"`
	} `json:"faces"`
	Error string `json:"error,omitempty"`
}

// decodeLandmarks parses a detector reply and returns the first face only.
func decodeLandmarks(body []byte) ([]features.Point, error) {
	var resp landmarksResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %v", ErrUnavailable, err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, resp.Error)
	}
	if len(resp.Faces) == 0 || len(resp.Faces[0].Landmarks) == 0 {
		return nil, ErrNoFace
	}
	return resp.Faces[0].Landmarks, nil
}

// New builds the detector client selected by cfg.URL: ws:// and wss:// use
// the WebSocket transport, anything else multipart HTTP. The client is
// wrapped in Limited with cfg.Concurrency slots.
func New(cfg config.DetectorConfig) (*Limited, error) {
	if _, err := url.Parse(cfg.URL); err != nil {
		return nil, fmt.Errorf("invalid detector URL %q: %w", cfg.URL, err)
	}

	var d Detector
	switch cfg.Transport() {
	case "websocket":
		d = NewWebSocketClient(cfg.URL, cfg.Timeout)
	default:
		d = NewHTTPClient(cfg.URL, cfg.Timeout)
	}
	return NewLimited(d, cfg.Concurrency), nil
}
