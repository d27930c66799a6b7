// Package mock provides a scripted landmark detector and synthetic face-mesh
// builders for testing.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/kozaktomas/petface/internal/features"
)

// Typical measures to {wide, round, medium, wide, medium}.
var Typical = features.Measurements{
	FaceWidth:  0.23,
	EyeWidth:   0.03,
	EyeHeight:  0.015,
	NoseWidth:  0.06,
	NoseHeight: 0.05,
	MouthWidth: 0.07,
	FaceLength: 0.28,
}

// Landmarks builds a refined face mesh whose measured distances equal m.
// Unused points sit at the image center.
func Landmarks(m features.Measurements) []features.Point {
	pts := make([]features.Point, features.RefinedPoints)
	for i := range pts {
		pts[i] = features.Point{X: 0.5, Y: 0.5}
	}

	horizontal := func(a, b int, d, y float64) {
		pts[a] = features.Point{X: 0.5 - d/2, Y: y}
		pts[b] = features.Point{X: 0.5 + d/2, Y: y}
	}
	vertical := func(a, b int, d, x float64) {
		pts[a] = features.Point{X: x, Y: 0.5 - d/2}
		pts[b] = features.Point{X: x, Y: 0.5 + d/2}
	}

	horizontal(features.IdxLeftCheek, features.IdxRightCheek, m.FaceWidth, 0.5)
	horizontal(features.IdxEyeOuter, features.IdxEyeInner, m.EyeWidth, 0.4)
	vertical(features.IdxEyeTop, features.IdxEyeBottom, m.EyeHeight, 0.4)
	horizontal(features.IdxNoseLeft, features.IdxNoseRight, m.NoseWidth, 0.55)
	vertical(features.IdxNoseBridge, features.IdxNoseTip, m.NoseHeight, 0.45)
	horizontal(features.IdxMouthLeft, features.IdxMouthRight, m.MouthWidth, 0.7)
	vertical(features.IdxForehead, features.IdxChin, m.FaceLength, 0.6)

	return pts
}

// Detector is a scripted detector.Detector.
type Detector struct {
	mu sync.Mutex

	// Points is returned by Detect when Err is nil.
	Points []features.Point
	// Err is returned by Detect when set.
	Err error
	// Delay blocks Detect before answering, honoring context cancellation.
	Delay time.Duration

	calls     int
	lastImage []byte
}

// NewDetector returns a detector that always answers with points.
func NewDetector(points []features.Point) *Detector {
	return &Detector{Points: points}
}

// Detect records the call and returns the scripted answer.
func (d *Detector) Detect(ctx context.Context, image []byte) ([]features.Point, error) {
	d.mu.Lock()
	d.calls++
	d.lastImage = image
	delay, points, err := d.Delay, d.Points, d.Err
	d.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return points, nil
}

// Calls returns how many times Detect ran.
func (d *Detector) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// LastImage returns the bytes passed to the most recent Detect call.
func (d *Detector) LastImage() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastImage
}
