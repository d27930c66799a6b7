package features

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrMalformedLandmarks is reported when the landmark sequence cannot be
// measured: too few points or a non-finite coordinate at a used index.
var ErrMalformedLandmarks = errors.New("malformed landmark sequence")

// Measurements are the raw geometric distances, in normalized image units,
// that feed the bucketing ladders.
type Measurements struct {
	FaceWidth  float64 `json:"face_width"`
	EyeWidth   float64 `json:"eye_width"`
	EyeHeight  float64 `json:"eye_height"`
	NoseWidth  float64 `json:"nose_width"`
	NoseHeight float64 `json:"nose_height"`
	MouthWidth float64 `json:"mouth_width"`
	FaceLength float64 `json:"face_length"`
}

// NoseArea is the width by height box of the nose region.
func (m Measurements) NoseArea() float64 {
	return m.NoseWidth * m.NoseHeight
}

// Extraction is the outcome of turning landmarks into features. When
// Fallback is set, Features holds the neutral mapping and Reason says why.
type Extraction struct {
	Features Mapping `json:"-"`
	Fallback bool    `json:"fallback"`
	Reason   string  `json:"reason,omitempty"`
}

// Measure computes the raw distances from a landmark sequence.
func Measure(points []Point) (Measurements, error) {
	if len(points) < minPointsCount {
		return Measurements{}, fmt.Errorf("%w: got %d points, need at least %d", ErrMalformedLandmarks, len(points), minPointsCount)
	}
	for _, idx := range UsedIndices {
		if !points[idx].finite() {
			return Measurements{}, fmt.Errorf("%w: non-finite coordinate at index %d", ErrMalformedLandmarks, idx)
		}
	}

	return Measurements{
		FaceWidth:  Distance(points[IdxLeftCheek], points[IdxRightCheek]),
		EyeWidth:   Distance(points[IdxEyeOuter], points[IdxEyeInner]),
		EyeHeight:  Distance(points[IdxEyeTop], points[IdxEyeBottom]),
		NoseWidth:  Distance(points[IdxNoseLeft], points[IdxNoseRight]),
		NoseHeight: Distance(points[IdxNoseBridge], points[IdxNoseTip]),
		MouthWidth: Distance(points[IdxMouthLeft], points[IdxMouthRight]),
		FaceLength: Distance(points[IdxForehead], points[IdxChin]),
	}, nil
}

// Classify buckets measurements into categories.
func Classify(m Measurements) Mapping {
	return Mapping{
		FaceWidth:  faceWidthLadder.bucket(m.FaceWidth),
		EyeShape:   eyeShape(m.EyeWidth, m.EyeHeight),
		NoseSize:   noseSizeLadder.bucket(m.NoseArea()),
		MouthWidth: mouthWidthLadder.bucket(m.MouthWidth),
		FaceLength: faceLengthLadder.bucket(m.FaceLength),
	}
}

// Extract measures and classifies a landmark sequence. It never fails: a
// sequence that cannot be measured yields the neutral mapping with Fallback set.
func Extract(points []Point) Extraction {
	m, err := Measure(points)
	if err != nil {
		return Extraction{Features: Neutral(), Fallback: true, Reason: err.Error()}
	}
	return Extraction{Features: Classify(m)}
}

// Extractor wraps Extract and records fallbacks in the log.
type Extractor struct {
	log logrus.FieldLogger
}

// NewExtractor creates an extractor that logs to log.
func NewExtractor(log logrus.FieldLogger) *Extractor {
	return &Extractor{log: log}
}

// Extract runs Extract and logs a warning when it falls back.
func (e *Extractor) Extract(points []Point) Extraction {
	x := Extract(points)
	if x.Fallback && e.log != nil {
		e.log.WithFields(logrus.Fields{
			"points": len(points),
			"reason": x.Reason,
		}).Warn("Landmark extraction fell back to neutral features")
	}
	return x
}
