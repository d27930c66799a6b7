// Package features turns face-mesh landmarks into a small set of categorical
// facial features and holds the closed vocabularies those features use.
package features

import (
	"fmt"
	"maps"
	"slices"
)

// Feature names one facial dimension.
type Feature string

const (
	FaceWidth  Feature = "face_width"
	EyeShape   Feature = "eye_shape"
	NoseSize   Feature = "nose_size"
	MouthWidth Feature = "mouth_width"
	FaceLength Feature = "face_length"
)

// Category is one ordinal bucket of a feature.
type Category string

const (
	VeryWide   Category = "very_wide"
	Wide       Category = "wide"
	Medium     Category = "medium"
	Narrow     Category = "narrow"
	VeryNarrow Category = "very_narrow"

	Large Category = "large"
	Round Category = "round"
	Oval  Category = "oval"

	VeryLarge Category = "very_large"
	Small     Category = "small"
	VerySmall Category = "very_small"

	VeryLong  Category = "very_long"
	Long      Category = "long"
	Short     Category = "short"
	VeryShort Category = "very_short"
)

// keys is the canonical feature order used for iteration and output.
var keys = [...]Feature{FaceWidth, EyeShape, NoseSize, MouthWidth, FaceLength}

// vocabularies lists each feature's categories from rank 5 down to rank 1.
var vocabularies = map[Feature][5]Category{
	FaceWidth:  {VeryWide, Wide, Medium, Narrow, VeryNarrow},
	EyeShape:   {Large, Round, Oval, Narrow, VeryNarrow},
	NoseSize:   {VeryLarge, Large, Medium, Small, VerySmall},
	MouthWidth: {VeryWide, Wide, Medium, Small, VerySmall},
	FaceLength: {VeryLong, Long, Medium, Short, VeryShort},
}

var labels = map[Feature]string{
	FaceWidth:  "face width",
	EyeShape:   "eye shape",
	NoseSize:   "nose size",
	MouthWidth: "mouth width",
	FaceLength: "face length",
}

// Keys returns every feature in canonical order.
func Keys() []Feature {
	return slices.Clone(keys[:])
}

// ParseFeature validates a feature name.
func ParseFeature(s string) (Feature, error) {
	f := Feature(s)
	if !f.Known() {
		return "", fmt.Errorf("unknown feature %q", s)
	}
	return f, nil
}

// Known reports whether f belongs to the closed feature set.
func (f Feature) Known() bool {
	_, ok := vocabularies[f]
	return ok
}

// Label returns the human-readable name of the feature.
func (f Feature) Label() string {
	if l, ok := labels[f]; ok {
		return l
	}
	return string(f)
}

// Vocabulary returns the categories of f ordered from highest to lowest rank.
func Vocabulary(f Feature) []Category {
	v, ok := vocabularies[f]
	if !ok {
		return nil
	}
	return slices.Clone(v[:])
}

// Rank returns the ordinal rank (1-5) of c within f's vocabulary.
func Rank(f Feature, c Category) (int, bool) {
	v, ok := vocabularies[f]
	if !ok {
		return 0, false
	}
	i := slices.Index(v[:], c)
	if i < 0 {
		return 0, false
	}
	return len(v) - i, true
}

// Valid reports whether c is part of f's vocabulary.
func Valid(f Feature, c Category) bool {
	_, ok := Rank(f, c)
	return ok
}

// Mapping assigns one category per feature. Missing keys are allowed.
type Mapping map[Feature]Category

// Clone returns an independent copy of m.
func (m Mapping) Clone() Mapping {
	return maps.Clone(m)
}

// Validate checks that every key is known and every value is in its vocabulary.
func (m Mapping) Validate() error {
	for _, f := range slices.Sorted(maps.Keys(m)) {
		if !f.Known() {
			return fmt.Errorf("unknown feature %q", f)
		}
		if !Valid(f, m[f]) {
			return fmt.Errorf("feature %s: category %q not in vocabulary %v", f, m[f], Vocabulary(f))
		}
	}
	return nil
}

// Neutral returns the mapping used when landmarks cannot be measured.
func Neutral() Mapping {
	return Mapping{
		FaceWidth:  Medium,
		EyeShape:   Round,
		NoseSize:   Medium,
		MouthWidth: Medium,
		FaceLength: Medium,
	}
}
