// Package matching scores a human feature mapping against breed profiles,
// ranks the results and summarizes the face.
package matching

import "github.com/kozaktomas/petface/internal/features"

// DefaultRank is the rank given to a category value outside its feature's
// vocabulary. It is the neutral middle of the 1-5 scale.
const DefaultRank = 3

// maxRank is also the best local similarity of a single feature.
const maxRank = 5

// weights sum to 1.0.
var weights = map[features.Feature]float64{
	features.FaceWidth:  0.25,
	features.EyeShape:   0.25,
	features.NoseSize:   0.20,
	features.MouthWidth: 0.15,
	features.FaceLength: 0.15,
}

// Weight returns the weight of f in the similarity score.
func Weight(f features.Feature) float64 {
	return weights[f]
}

func rank(f features.Feature, c features.Category) int {
	if r, ok := features.Rank(f, c); ok {
		return r
	}
	return DefaultRank
}

// Similarity returns a score in [0, 100] comparing two mappings over the
// features present in both. Mappings with no feature in common score 0.
func Similarity(human, breed features.Mapping) float64 {
	var num, den float64
	for _, f := range features.Keys() {
		hc, ok := human[f]
		if !ok {
			continue
		}
		bc, ok := breed[f]
		if !ok {
			continue
		}

		diff := rank(f, hc) - rank(f, bc)
		if diff < 0 {
			diff = -diff
		}
		local := max(0, maxRank-diff)

		w := weights[f]
		num += float64(local) * w
		den += maxRank * w
	}
	if den == 0 {
		return 0
	}
	return 100 * num / den
}
