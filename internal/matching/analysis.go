package matching

import (
	"github.com/kozaktomas/petface/internal/catalog"
	"github.com/kozaktomas/petface/internal/features"
)

// Face types reported by Analyze.
const (
	FaceTypeRound       = "round"
	FaceTypeLong        = "long"
	FaceTypeStandard    = "standard"
	FaceTypeWide        = "wide"
	FaceTypeDistinctive = "distinctive"
)

// Dominant feature labels reported by Analyze.
const (
	DominantLargeEyes  = "large eyes"
	DominantNarrowEyes = "narrow eyes"
	DominantLargeNose  = "large nose"
	DominantSmallNose  = "small nose"
	DominantWideMouth  = "wide mouth"
)

// FaceAnalysis summarizes a human face independently of any breed.
type FaceAnalysis struct {
	FaceType         string   `json:"face_type"`
	DominantFeatures []string `json:"dominant_features"`
	Recommendations  []string `json:"recommendations"`
}

// Analyze derives the face type, dominant features and species-specific
// recommendations from a human mapping.
func Analyze(human features.Mapping, recs catalog.Recommendations) FaceAnalysis {
	return FaceAnalysis{
		FaceType:         faceType(human),
		DominantFeatures: dominantFeatures(human),
		Recommendations:  recommendations(human, recs),
	}
}

func isAny(c features.Category, set ...features.Category) bool {
	for _, s := range set {
		if c == s {
			return true
		}
	}
	return false
}

func isWide(c features.Category) bool   { return isAny(c, features.Wide, features.VeryWide) }
func isNarrow(c features.Category) bool { return isAny(c, features.Narrow, features.VeryNarrow) }

// faceType evaluates its rules in order; the first match wins. An absent
// width or length reads as medium.
func faceType(m features.Mapping) string {
	width, ok := m[features.FaceWidth]
	if !ok {
		width = features.Medium
	}
	length, ok := m[features.FaceLength]
	if !ok {
		length = features.Medium
	}

	switch {
	case isWide(width) && length == features.Short:
		return FaceTypeRound
	case isNarrow(width) && isAny(length, features.Long, features.VeryLong):
		return FaceTypeLong
	case width == features.Medium && length == features.Medium:
		return FaceTypeStandard
	case isWide(width):
		return FaceTypeWide
	default:
		return FaceTypeDistinctive
	}
}

func dominantFeatures(m features.Mapping) []string {
	out := []string{}

	switch m[features.EyeShape] {
	case features.Large:
		out = append(out, DominantLargeEyes)
	case features.Narrow:
		out = append(out, DominantNarrowEyes)
	}

	switch nose := m[features.NoseSize]; {
	case isAny(nose, features.Large, features.VeryLarge):
		out = append(out, DominantLargeNose)
	case isAny(nose, features.Small, features.VerySmall):
		out = append(out, DominantSmallNose)
	}

	if isWide(m[features.MouthWidth]) {
		out = append(out, DominantWideMouth)
	}
	return out
}

func recommendations(m features.Mapping, recs catalog.Recommendations) []string {
	out := []string{}

	switch width := m[features.FaceWidth]; {
	case isWide(width):
		out = append(out, recs.WideFace)
	case isNarrow(width):
		out = append(out, recs.NarrowFace)
	}

	switch m[features.EyeShape] {
	case features.Large:
		out = append(out, recs.LargeEyes)
	case features.Narrow:
		out = append(out, recs.NarrowEyes)
	}
	return out
}
