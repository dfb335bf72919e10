package dataset

import "math"

// Marker size bounds.
const (
	MinMarkerSize   = 3.0
	MarkerSizeRange = 25.0
)

// MarkerSize maps an engagement value onto a log-compressed marker size in
// [MinMarkerSize, MinMarkerSize+MarkerSizeRange]. maxInteraction is the
// table-wide maximum. When it is zero every record sits at the floor.
func MarkerSize(interaction, maxInteraction float64) float64 {
	if maxInteraction <= 0 || interaction <= 0 {
		return MinMarkerSize
	}
	return MinMarkerSize + MarkerSizeRange*math.Log1p(interaction)/math.Log1p(maxInteraction)
}
