package matching

import (
	"slices"

	"github.com/kozaktomas/petface/internal/catalog"
	"github.com/kozaktomas/petface/internal/features"
)

// DefaultTopN is the number of matches returned when the caller does not ask
// for a positive count.
const DefaultTopN = 3

// Match is one scored breed.
type Match struct {
	Breed            string   `json:"breed"`
	Similarity       float64  `json:"similarity"`
	Description      string   `json:"description"`
	Personality      []string `json:"personality"`
	Image            string   `json:"image"`
	MatchingFeatures []string `json:"matching_features"`
}

// MatchingFeatures lists the labels of features whose categories are equal in
// both mappings, in canonical feature order.
func MatchingFeatures(human, breed features.Mapping) []string {
	out := []string{}
	for _, f := range features.Keys() {
		hc, ok := human[f]
		if !ok {
			continue
		}
		if bc, ok := breed[f]; ok && hc == bc {
			out = append(out, f.Label())
		}
	}
	return out
}

// Rank scores every breed of c and returns the n most similar, best first.
// Breeds with equal scores keep their catalog order. n <= 0 selects
// DefaultTopN; n larger than the catalog returns every breed.
func Rank(human features.Mapping, c *catalog.Catalog, n int) []Match {
	if n <= 0 {
		n = DefaultTopN
	}

	matches := make([]Match, 0, c.Len())
	for _, b := range c.All() {
		matches = append(matches, Match{
			Breed:            b.Name,
			Similarity:       Similarity(human, b.Features),
			Description:      b.Description,
			Personality:      slices.Clone(b.Personality),
			Image:            b.Image,
			MatchingFeatures: MatchingFeatures(human, b.Features),
		})
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		switch {
		case a.Similarity > b.Similarity:
			return -1
		case a.Similarity < b.Similarity:
			return 1
		default:
			return 0
		}
	})

	if n < len(matches) {
		matches = matches[:n]
	}
	return matches
}
