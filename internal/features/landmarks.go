package features

import "math"

// Point is one face-mesh landmark in normalized image coordinates.
// Z is carried for completeness and ignored by all measurements.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}

// Face-mesh indices used by the measurements. They follow the canonical
// 468-point mesh (478 with iris refinement).
const (
	IdxLeftCheek   = 234
	IdxRightCheek  = 454
	IdxEyeOuter    = 33
	IdxEyeInner    = 133
	IdxEyeTop      = 159
	IdxEyeBottom   = 145
	IdxNoseLeft    = 220
	IdxNoseRight   = 440
	IdxNoseBridge  = 6
	IdxNoseTip     = 2
	IdxMouthLeft   = 61
	IdxMouthRight  = 291
	IdxForehead    = 10
	IdxChin        = 175
	MeshPoints     = 468
	RefinedPoints  = 478
	maxUsedIndex   = IdxRightCheek
	minPointsCount = maxUsedIndex + 1
)

// UsedIndices lists every landmark index the extractor reads.
var UsedIndices = []int{
	IdxLeftCheek, IdxRightCheek,
	IdxEyeOuter, IdxEyeInner, IdxEyeTop, IdxEyeBottom,
	IdxNoseLeft, IdxNoseRight, IdxNoseBridge, IdxNoseTip,
	IdxMouthLeft, IdxMouthRight,
	IdxForehead, IdxChin,
}

// Distance is the 2D Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func (p Point) finite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
