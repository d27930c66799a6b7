package features

// rung assigns category to values strictly greater than above.
type rung struct {
	above    float64
	category Category
}

// ladder buckets a measurement by walking rungs from the highest threshold
// down; values that clear no rung land on floor.
type ladder struct {
	rungs []rung
	floor Category
}

func (l ladder) bucket(v float64) Category {
	for _, r := range l.rungs {
		if v > r.above {
			return r.category
		}
	}
	return l.floor
}

var (
	faceWidthLadder = ladder{
		rungs: []rung{{0.25, VeryWide}, {0.22, Wide}, {0.19, Medium}, {0.16, Narrow}},
		floor: VeryNarrow,
	}
	noseSizeLadder = ladder{
		rungs: []rung{{0.006, VeryLarge}, {0.004, Large}, {0.002, Medium}, {0.001, Small}},
		floor: VerySmall,
	}
	mouthWidthLadder = ladder{
		rungs: []rung{{0.08, VeryWide}, {0.065, Wide}, {0.05, Medium}, {0.035, Small}},
		floor: VerySmall,
	}
	faceLengthLadder = ladder{
		rungs: []rung{{0.35, VeryLong}, {0.3, Long}, {0.25, Medium}, {0.2, Short}},
		floor: VeryShort,
	}
)

// Eye shape thresholds. The area test runs before the ratio tests, so a
// large eye is reported as large even when its ratio reads as narrow.
const (
	largeEyeArea       = 0.003
	narrowEyeRatio     = 3.5
	roundEyeRatio      = 2.5
	flatEyeRatioPolicy = 3.0
)

func eyeShape(width, height float64) Category {
	ratio := flatEyeRatioPolicy
	if height > 0 {
		ratio = width / height
	}
	switch {
	case width*height > largeEyeArea:
		return Large
	case ratio > narrowEyeRatio:
		return Narrow
	case ratio < roundEyeRatio:
		return Round
	default:
		return Oval
	}
}
