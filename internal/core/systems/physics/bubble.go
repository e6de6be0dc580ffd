package physics

import (
	"fmt"
	"math"
)

// TimeBubble rescales the step seen by bodies overlapping Region. It is not a
// collision participant.
type TimeBubble struct {
	Region Shape
	Scale  float64
}

func NewTimeBubble(region Shape, scale float64) (TimeBubble, error) {
	if region == nil {
		return TimeBubble{}, ErrNilShape
	}
	if scale < 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return TimeBubble{}, fmt.Errorf("%w: %v", ErrInvalidScale, scale)
	}
	return TimeBubble{Region: region, Scale: scale}, nil
}

// LocalDelta returns dt scaled by every bubble overlapping body. Overlapping
// bubbles compound.
func LocalDelta(dt float64, body Shape, bubbles []TimeBubble) float64 {
	for _, b := range bubbles {
		if b.Region == nil || b.Region == body {
			continue
		}
		if Overlaps(body, b.Region) {
			dt *= b.Scale
		}
	}
	return dt
}
